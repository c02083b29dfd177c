package nutrition

import (
	"context"
	"fmt"
	"io"

	"github.com/2beens/healthtracker/internal/records"
	"github.com/2beens/healthtracker/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	book *records.Book
}

func NewRepo(book *records.Book) *Repo {
	return &Repo{
		book: book,
	}
}

func NewFileRepo(path string) *Repo {
	return NewRepo(records.NewBook(records.NewStore(path, records.NutritionSchema)))
}

func (r *Repo) Add(ctx context.Context, n Nutrition) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := n.Validate(); err != nil {
		return 0, err
	}

	table, err := r.book.Append(ctx, n.Row())
	if err != nil {
		return 0, fmt.Errorf("append nutrition: %w", err)
	}

	return table.Len(), nil
}

func (r *Repo) Path() string {
	return r.book.Path()
}

func (r *Repo) Table(ctx context.Context) (*records.Table, error) {
	return r.book.Table(ctx)
}

func (r *Repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	table, err := r.book.Table(ctx)
	if err != nil {
		return nil, err
	}
	return Entries(records.NewestFirst(table, limit)), nil
}

// Summary averages the stored entries per unit period, most recent first.
func (r *Repo) Summary(ctx context.Context, unit records.Unit) (_ []PeriodAverage, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("unit", string(unit)))

	table, err := r.book.Table(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(Entries(table), unit), nil
}

// Import replaces all stored entries with the uploaded CSV and returns the imported row count.
func (r *Repo) Import(ctx context.Context, csv io.Reader) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.import")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	table, err := r.book.Import(ctx, csv)
	if err != nil {
		return 0, err
	}
	return table.Len(), nil
}
