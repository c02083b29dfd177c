package records

import (
	"math"
	"strconv"
	"strings"
)

// Absent marks a cell with no value. It is distinct from zero and from an empty string.
var Absent = Value{}

// Value is a single table cell: present text or Absent.
type Value struct {
	text    string
	present bool
}

// Of returns a present value. Blank text is treated as Absent, the same way an empty CSV cell is.
func Of(text string) Value {
	if strings.TrimSpace(text) == "" {
		return Absent
	}
	return Value{text: text, present: true}
}

func OfInt(i int) Value {
	return Value{text: strconv.Itoa(i), present: true}
}

func OfFloat(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Absent
	}
	return Value{text: strconv.FormatFloat(f, 'f', -1, 64), present: true}
}

func OfDate(d Date) Value {
	return Value{text: d.String(), present: true}
}

func (v Value) IsAbsent() bool {
	return !v.present
}

// String returns the cell text, empty for Absent.
func (v Value) String() string {
	return v.text
}

// Float coerces the cell to a real number. Absent or non-numeric text yields ok == false.
func (v Value) Float() (_ float64, ok bool) {
	if !v.present {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int coerces the cell to an integer. Integral floats such as "3.0" are accepted,
// since a column that once held absent values gets written back float formatted.
func (v Value) Int() (_ int, ok bool) {
	if !v.present {
		return 0, false
	}
	raw := strings.TrimSpace(v.text)
	if i, err := strconv.Atoi(raw); err == nil {
		return i, true
	}
	f, ok := v.Float()
	if !ok || f != math.Trunc(f) || f >= math.MaxInt || f < math.MinInt {
		return 0, false
	}
	return int(f), true
}

// Date parses the cell with the permissive date parser.
func (v Value) Date() NullDate {
	if !v.present {
		return NullDate{}
	}
	return ParseDate(v.text)
}

// FloatPtr is Float for JSON facing structs, nil standing in for Absent.
func (v Value) FloatPtr() *float64 {
	f, ok := v.Float()
	if !ok {
		return nil
	}
	return &f
}

func (v Value) IntPtr() *int {
	i, ok := v.Int()
	if !ok {
		return nil
	}
	return &i
}
