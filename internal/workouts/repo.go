package workouts

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

// NewFileRepo is a repo over the workouts CSV at path.
func NewFileRepo(path string) *Repo {
	return NewRepo(records.NewBook(records.NewStore(path, records.WorkoutSchema)))
}

// Add appends the workout and returns how many entries are stored now.
func (r *Repo) Add(ctx context.Context, w Workout) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", w.Exercise))

	if err := w.Validate(); err != nil {
		return 0, err
	}

	table, err := r.book.Append(ctx, w.Row())
	if err != nil {
		return 0, fmt.Errorf("append workout: %w", err)
	}

	return table.Len(), nil
}

func (r *Repo) Path() string {
	return r.book.Path()
}

func (r *Repo) Table(ctx context.Context) (*records.Table, error) {
	return r.book.Table(ctx)
}

func (r *Repo) Entries(ctx context.Context) ([]Entry, error) {
	table, err := r.book.Table(ctx)
	if err != nil {
		return nil, err
	}
	return Entries(table), nil
}

// Recent returns the latest limit entries, newest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	table, err := r.book.Table(ctx)
	if err != nil {
		return nil, err
	}
	return Entries(records.NewestFirst(table, limit)), nil
}

// Import replaces all stored workouts with the uploaded CSV and returns the imported row count.
func (r *Repo) Import(ctx context.Context, csv io.Reader) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.import")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	table, err := r.book.Import(ctx, csv)
	if err != nil {
		return 0, err
	}
	return table.Len(), nil
}
