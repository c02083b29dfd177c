package records

import (
	"fmt"
	"strings"
	"time"
)

// Unit is the length of an aggregation period.
type Unit string

const (
	Day   Unit = "day"
	Week  Unit = "week"
	Month Unit = "month"
)

// WeekStart is the first day of a calendar week bucket.
const WeekStart = time.Monday

func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "daily", "d":
		return Day, nil
	case "week", "weekly", "w":
		return Week, nil
	case "month", "monthly", "m":
		return Month, nil
	default:
		return "", fmt.Errorf("unknown period unit: %s", s)
	}
}

// PeriodStart maps a date to the first date of the period it falls in.
func PeriodStart(d Date, unit Unit) Date {
	switch unit {
	case Week:
		offset := (int(d.Weekday()) - int(WeekStart) + 7) % 7
		return d.AddDays(-offset)
	case Month:
		return NewDate(d.t.Year(), d.t.Month(), 1)
	default:
		return d
	}
}
