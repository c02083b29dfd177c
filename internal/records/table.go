package records

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrRowWidth      = errors.New("row width does not match table columns")
)

// Schema is the fixed, ordered list of columns a table must conform to.
type Schema []string

var (
	WorkoutSchema   = Schema{"date", "exercise", "sets", "reps", "weight", "notes"}
	NutritionSchema = Schema{"date", "calories", "protein", "carbs", "fat", "sugar", "notes"}
)

func (s Schema) Index(column string) int {
	for i, c := range s {
		if c == column {
			return i
		}
	}
	return -1
}

type Row []Value

// Table is an ordered sequence of rows sharing the same columns.
// Tables read from arbitrary input may carry any columns until they go through Coerce.
type Table struct {
	Columns Schema
	Rows    []Row
}

func NewTable(columns Schema) *Table {
	cols := make(Schema, len(columns))
	copy(cols, columns)
	return &Table{
		Columns: cols,
		Rows:    []Row{},
	}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) Index(column string) int {
	return t.Columns.Index(column)
}

// Get returns the named cell of row i, Absent for unknown columns.
func (t *Table) Get(i int, column string) Value {
	idx := t.Index(column)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return Absent
	}
	return t.Rows[i][idx]
}

// Append adds a row at the end, keeping prior row order.
func (t *Table) Append(row Row) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("%w: got %d, want %d", ErrRowWidth, len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// AppendMap adds a row built from column -> value pairs; columns not given are Absent.
func (t *Table) AppendMap(values map[string]Value) error {
	row := make(Row, len(t.Columns))
	for col, v := range values {
		idx := t.Index(col)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, col)
		}
		row[idx] = v
	}
	return t.Append(row)
}

// Clone returns a deep copy, so callers can sort or normalize without touching the original.
func (t *Table) Clone() *Table {
	c := NewTable(t.Columns)
	c.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		r := make(Row, len(row))
		copy(r, row)
		c.Rows[i] = r
	}
	return c
}

// Coerce projects t onto schema: schema columns in schema order, missing ones filled with Absent,
// extra ones dropped. Values are not type checked. Coercing a conforming table changes nothing.
func Coerce(t *Table, schema Schema) *Table {
	out := NewTable(schema)
	if t == nil {
		return out
	}

	sourceIdx := make([]int, len(schema))
	for i, col := range schema {
		sourceIdx[i] = t.Index(col)
	}

	out.Rows = make([]Row, 0, len(t.Rows))
	for _, src := range t.Rows {
		row := make(Row, len(schema))
		for i, idx := range sourceIdx {
			if idx < 0 || idx >= len(src) {
				row[i] = Absent
				continue
			}
			row[i] = src[idx]
		}
		out.Rows = append(out.Rows, row)
	}

	return out
}
