package workouts

import (
	"errors"
	"sort"

	"github.com/2beens/healthtracker/internal/records"
)

// ErrNoData means the exercise has no dated entry with a weight, so there is no progress to show.
var ErrNoData = errors.New("no weight data for exercise")

type WeightPoint struct {
	Date   records.Date `json:"date"`
	Weight float64      `json:"weight"`
}

// Progress is the weight history of one exercise, oldest first.
type Progress struct {
	Exercise string        `json:"exercise"`
	History  []WeightPoint `json:"history"`
	Start    float64       `json:"start"`
	Current  float64       `json:"current"`
	Delta    float64       `json:"delta"`
	// PctChange is Delta relative to Start, in percent. Zero when Start is zero.
	PctChange float64 `json:"pctChange"`
}

// AnalyzeProgress builds the weight progress of the exercise (exact, case-sensitive label match).
// Entries without a weight or without a valid date are skipped; same-day entries keep their logged order.
func AnalyzeProgress(entries []Entry, exercise string) (*Progress, error) {
	var history []WeightPoint
	for _, e := range entries {
		if e.Exercise != exercise || e.Weight == nil || !e.Date.Valid {
			continue
		}
		history = append(history, WeightPoint{
			Date:   e.Date.Date,
			Weight: *e.Weight,
		})
	}

	if len(history) == 0 {
		return nil, ErrNoData
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})

	p := &Progress{
		Exercise: exercise,
		History:  history,
		Start:    history[0].Weight,
		Current:  history[len(history)-1].Weight,
	}
	p.Delta = p.Current - p.Start
	if p.Start != 0 {
		p.PctChange = p.Delta / p.Start * 100
	}

	return p, nil
}

// Exercises lists the distinct exercise labels, sorted.
func Exercises(entries []Entry) []string {
	seen := make(map[string]bool)
	exercises := []string{}
	for _, e := range entries {
		if e.Exercise == "" || seen[e.Exercise] {
			continue
		}
		seen[e.Exercise] = true
		exercises = append(exercises, e.Exercise)
	}
	sort.Strings(exercises)
	return exercises
}

// ExerciseHistory returns all entries of the exercise, newest first; undated entries go last.
func ExerciseHistory(entries []Entry, exercise string) []Entry {
	history := []Entry{}
	for _, e := range entries {
		if e.Exercise == exercise {
			history = append(history, e)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		a, b := history[i].Date, history[j].Date
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Date.After(b.Date)
	})
	return history
}
