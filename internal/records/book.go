package records

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/2beens/healthtracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// DateColumn is the column every tracked table is keyed by.
const DateColumn = "date"

// Book runs the read -> change -> overwrite cycles on top of a Store.
// Every table it hands out has its date column normalized.
// The mutex only serializes cycles inside this process; other processes writing
// the same file still race and the last save wins.
type Book struct {
	store *Store
	mutex sync.Mutex
}

func NewBook(store *Store) *Book {
	return &Book{
		store: store,
	}
}

func (b *Book) Schema() Schema {
	return b.store.Schema()
}

// Path is the CSV file backing the book.
func (b *Book) Path() string {
	return b.store.Path()
}

// Table loads the current table.
func (b *Book) Table(ctx context.Context) (*Table, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.load(ctx)
}

func (b *Book) load(ctx context.Context) (*Table, error) {
	table, err := b.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := NormalizeDates(table, DateColumn); err != nil {
		return nil, err
	}
	return table, nil
}

// Append adds one row after the existing ones and persists the whole table.
func (b *Book) Append(ctx context.Context, row Row) (_ *Table, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.book.append")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	b.mutex.Lock()
	defer b.mutex.Unlock()

	table, err := b.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	added := NewTable(table.Columns)
	if err := added.Append(row); err != nil {
		return nil, err
	}
	if err := NormalizeDates(added, DateColumn); err != nil {
		return nil, err
	}
	table.Rows = append(table.Rows, added.Rows...)

	if err := b.store.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}

	return table, nil
}

// Import replaces the whole table with CSV read from r. The input may have
// any columns; it is coerced to the schema and its dates normalized.
// Prior rows are discarded, not merged.
func (b *Book) Import(ctx context.Context, r io.Reader) (_ *Table, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.book.import")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	uploaded, err := ReadCSV(r)
	if err != nil {
		return nil, fmt.Errorf("parse uploaded csv: %w", err)
	}

	table := Coerce(uploaded, b.store.Schema())
	if err := NormalizeDates(table, DateColumn); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("table.rows", table.Len()))

	b.mutex.Lock()
	defer b.mutex.Unlock()

	if err := b.store.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}

	log.Debugf("records: imported %d rows into %s", table.Len(), b.store.Path())

	return table, nil
}

// Export writes the current table as CSV and returns the number of data rows written.
func (b *Book) Export(ctx context.Context, w io.Writer) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.book.export")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	table, err := b.Table(ctx)
	if err != nil {
		return 0, err
	}
	if err := WriteCSV(w, table); err != nil {
		return 0, err
	}
	return table.Len(), nil
}
