package nutrition

import (
	"math"
	"sort"

	"github.com/2beens/healthtracker/internal/records"
)

// PeriodAverage holds the mean of each metric over one day, week or month.
// A metric is nil when no entry in the period has a value for it.
type PeriodAverage struct {
	PeriodStart records.Date `json:"period_start"`
	Entries     int          `json:"entries"`
	Calories    *float64     `json:"calories"`
	Protein     *float64     `json:"protein"`
	Carbs       *float64     `json:"carbs"`
	Fat         *float64     `json:"fat"`
	Sugar       *float64     `json:"sugar"`
}

type mean struct {
	sum   float64
	count int
}

func (m *mean) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.count++
}

func (m mean) value() *float64 {
	if m.count == 0 {
		return nil
	}
	v := Round(m.sum / float64(m.count))
	return &v
}

type bucket struct {
	start                             records.Date
	entries                           int
	calories, protein, carbs, fat, sg mean
}

// Aggregate groups entries by the period their date falls in and averages every metric,
// most recent period first. Entries without a valid date are left out.
func Aggregate(entries []Entry, unit records.Unit) []PeriodAverage {
	buckets := map[records.Date]*bucket{}
	for _, e := range entries {
		if !e.Date.Valid {
			continue
		}
		start := records.PeriodStart(e.Date.Date, unit)
		b, ok := buckets[start]
		if !ok {
			b = &bucket{start: start}
			buckets[start] = b
		}
		b.entries++
		b.calories.add(e.CaloriesValue())
		b.protein.add(e.Protein)
		b.carbs.add(e.Carbs)
		b.fat.add(e.Fat)
		b.sg.add(e.Sugar)
	}

	averages := make([]PeriodAverage, 0, len(buckets))
	for _, b := range buckets {
		averages = append(averages, PeriodAverage{
			PeriodStart: b.start,
			Entries:     b.entries,
			Calories:    b.calories.value(),
			Protein:     b.protein.value(),
			Carbs:       b.carbs.value(),
			Fat:         b.fat.value(),
			Sugar:       b.sg.value(),
		})
	}
	sort.Slice(averages, func(i, j int) bool {
		return averages[i].PeriodStart.After(averages[j].PeriodStart)
	})

	return averages
}

// Round rounds to one decimal place, halves to even.
func Round(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
