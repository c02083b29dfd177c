package records

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/2beens/healthtracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// ErrUnreadable is returned when a record file exists but cannot be read or parsed.
// A missing file is not an error.
var ErrUnreadable = errors.New("record file unreadable")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store loads and saves one table from/to one CSV file.
// There is no file locking: concurrent writers race and the last Save wins entirely.
type Store struct {
	path   string
	schema Schema
}

func NewStore(path string, schema Schema) *Store {
	return &Store{
		path:   path,
		schema: schema,
	}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Schema() Schema {
	return s.schema
}

// Load reads the file and coerces it to the store schema.
// A missing file gives an empty table with the schema columns.
func (s *Store) Load(ctx context.Context) (_ *Table, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "records.store.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("file.path", s.path))

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Tracef("records: %s does not exist, starting empty", s.path)
			return NewTable(s.schema), nil
		}
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warnf("records: close %s: %s", s.path, closeErr)
		}
	}()

	raw, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, s.path, err)
	}

	table := Coerce(raw, s.schema)
	span.SetAttributes(attribute.Int("table.rows", table.Len()))

	return table, nil
}

// Save replaces the file contents with the table. The data goes to a temp file
// in the same directory first and is renamed into place; a concurrent Load
// never sees a partial write.
func (s *Store) Save(ctx context.Context, table *Table) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "records.store.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("file.path", s.path),
		attribute.Int("table.rows", table.Len()),
	)

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	writeErr := WriteCSV(tmp, table)
	if writeErr == nil {
		writeErr = tmp.Sync()
	}
	writeErr = multierr.Append(writeErr, tmp.Close())
	if writeErr != nil {
		return multierr.Append(
			fmt.Errorf("write %s: %w", tmpPath, writeErr),
			os.Remove(tmpPath),
		)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return multierr.Append(
			fmt.Errorf("atomic rename: %w", err),
			os.Remove(tmpPath),
		)
	}

	log.Debugf("records: saved %d rows to %s", table.Len(), s.path)

	return nil
}

// ReadCSV parses CSV text with a header row into a table carrying the header's columns.
// Empty cells become Absent, short rows are padded with Absent and cells past the header are ignored.
// Input without even a header row yields a table with no columns.
func ReadCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return NewTable(nil), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	// keep the first occurrence of a duplicated column
	columns := make(Schema, 0, len(header))
	sourceIdx := make([]int, 0, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if seen[name] {
			continue
		}
		seen[name] = true
		columns = append(columns, name)
		sourceIdx = append(sourceIdx, i)
	}

	table := NewTable(columns)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" && len(columns) > 1 {
			// blank line
			continue
		}
		if len(rec) > len(header) {
			log.Tracef("records: line %d has %d cells, header has %d, ignoring the rest", line, len(rec), len(header))
		}

		row := make(Row, len(columns))
		for i, idx := range sourceIdx {
			if idx < len(rec) {
				row[i] = Of(rec[idx])
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// WriteCSV writes the header and all rows. Absent cells are written empty.
func WriteCSV(w io.Writer, table *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rec := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i := range rec {
			if i < len(row) {
				rec[i] = row[i].String()
			} else {
				rec[i] = ""
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
