package workouts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/healthtracker/internal/records"
)

var ErrInvalidWorkout = errors.New("invalid workout")

// Workout is one logged exercise entry, as entered through the log form.
type Workout struct {
	Date     records.Date `json:"date"`
	Exercise string       `json:"exercise"`
	Sets     int          `json:"sets"`
	Reps     int          `json:"reps"`
	Weight   float64      `json:"weight"` // pounds
	Notes    string       `json:"notes"`
}

func (w Workout) Validate() error {
	switch {
	case w.Date.IsZero():
		return fmt.Errorf("%w: date missing", ErrInvalidWorkout)
	case strings.TrimSpace(w.Exercise) == "":
		return fmt.Errorf("%w: exercise empty", ErrInvalidWorkout)
	case w.Sets < 1:
		return fmt.Errorf("%w: sets must be at least 1", ErrInvalidWorkout)
	case w.Reps < 1:
		return fmt.Errorf("%w: reps must be at least 1", ErrInvalidWorkout)
	case w.Weight < 0:
		return fmt.Errorf("%w: weight must not be negative", ErrInvalidWorkout)
	}
	return nil
}

func (w Workout) Row() records.Row {
	return records.Row{
		records.OfDate(w.Date),
		records.Of(w.Exercise),
		records.OfInt(w.Sets),
		records.OfInt(w.Reps),
		records.OfFloat(w.Weight),
		records.Of(w.Notes),
	}
}

// Entry is a workout row as stored. Anything imported may be missing, so every field is optional.
type Entry struct {
	Date     records.NullDate `json:"date"`
	Exercise string           `json:"exercise"`
	Sets     *int             `json:"sets"`
	Reps     *int             `json:"reps"`
	Weight   *float64         `json:"weight"`
	Notes    string           `json:"notes"`
}

// Entries reads typed entries out of a workout table.
func Entries(table *records.Table) []Entry {
	entries := make([]Entry, 0, table.Len())
	for i := range table.Rows {
		entries = append(entries, Entry{
			Date:     table.Get(i, "date").Date(),
			Exercise: table.Get(i, "exercise").String(),
			Sets:     table.Get(i, "sets").IntPtr(),
			Reps:     table.Get(i, "reps").IntPtr(),
			Weight:   table.Get(i, "weight").FloatPtr(),
			Notes:    table.Get(i, "notes").String(),
		})
	}
	return entries
}
