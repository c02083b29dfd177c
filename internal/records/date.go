package records

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const DateLayout = "2006-01-02"

// Date is a calendar date with no time of day.
// Internally it is kept as midnight UTC, so two dates compare with ==.
type Date struct {
	t time.Time
}

// NewDate builds a date from its parts; out of range parts are normalized like time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time of day from t, keeping the calendar date in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) Time() time.Time {
	return d.t
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

func (d Date) AddDays(days int) Date {
	return Date{t: d.t.AddDate(0, 0, days)}
}

func (d Date) Weekday() time.Weekday {
	return d.t.Weekday()
}

func (d Date) String() string {
	return d.t.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	// blank leaves the zero date, so callers can fill in a default
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	nd := ParseDate(s)
	if !nd.Valid {
		return fmt.Errorf("invalid date: %q", s)
	}
	*d = nd.Date
	return nil
}

// NullDate is either a Date or Absent (Valid == false).
type NullDate struct {
	Date  Date
	Valid bool
}

// String is the YYYY-MM-DD form, or empty when absent.
func (nd NullDate) String() string {
	if !nd.Valid {
		return ""
	}
	return nd.Date.String()
}

func (nd NullDate) MarshalJSON() ([]byte, error) {
	if !nd.Valid {
		return []byte("null"), nil
	}
	return nd.Date.MarshalJSON()
}

func (nd *NullDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*nd = NullDate{}
		return nil
	}
	var d Date
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*nd = NullDate{Date: d, Valid: !d.IsZero()}
	return nil
}

// ParseDate parses free-form date text. Anything the parser rejects comes back not Valid.
func ParseDate(text string) NullDate {
	text = strings.TrimSpace(text)
	if text == "" {
		return NullDate{}
	}
	// fast path for the on-disk format
	if t, err := time.Parse(DateLayout, text); err == nil {
		return NullDate{Date: DateOf(t), Valid: true}
	}
	t, err := dateparse.ParseIn(text, time.UTC)
	if err != nil {
		return NullDate{}
	}
	return NullDate{Date: DateOf(t), Valid: true}
}

// NormalizeDates rewrites the given column in place: parseable cells become YYYY-MM-DD,
// everything else becomes Absent. Normalizing twice is the same as normalizing once.
func NormalizeDates(t *Table, column string) error {
	if t.Len() == 0 {
		return nil
	}
	idx := t.Index(column)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	for _, row := range t.Rows {
		nd := row[idx].Date()
		if !nd.Valid {
			row[idx] = Absent
			continue
		}
		row[idx] = OfDate(nd.Date)
	}
	return nil
}
