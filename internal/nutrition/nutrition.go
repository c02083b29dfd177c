package nutrition

import (
	"errors"
	"fmt"

	"github.com/2beens/healthtracker/internal/records"
)

var ErrInvalidNutrition = errors.New("invalid nutrition entry")

// Nutrition is one day's intake as entered through the log form. Macros are in grams.
type Nutrition struct {
	Date     records.Date `json:"date"`
	Calories int          `json:"calories"`
	Protein  float64      `json:"protein"`
	Carbs    float64      `json:"carbs"`
	Fat      float64      `json:"fat"`
	Sugar    float64      `json:"sugar"`
	Notes    string       `json:"notes"`
}

func (n Nutrition) Validate() error {
	switch {
	case n.Date.IsZero():
		return fmt.Errorf("%w: date missing", ErrInvalidNutrition)
	case n.Calories < 0:
		return fmt.Errorf("%w: calories must not be negative", ErrInvalidNutrition)
	case n.Protein < 0, n.Carbs < 0, n.Fat < 0, n.Sugar < 0:
		return fmt.Errorf("%w: macros must not be negative", ErrInvalidNutrition)
	}
	return nil
}

func (n Nutrition) Row() records.Row {
	return records.Row{
		records.OfDate(n.Date),
		records.OfInt(n.Calories),
		records.OfFloat(n.Protein),
		records.OfFloat(n.Carbs),
		records.OfFloat(n.Fat),
		records.OfFloat(n.Sugar),
		records.Of(n.Notes),
	}
}

type Entry struct {
	Date     records.NullDate `json:"date"`
	Calories *int             `json:"calories"`
	Protein  *float64         `json:"protein"`
	Carbs    *float64         `json:"carbs"`
	Fat      *float64         `json:"fat"`
	Sugar    *float64         `json:"sugar"`
	Notes    string           `json:"notes"`

	// calories as read from the file; fractional values are kept for averaging
	caloriesValue *float64
}

// CaloriesValue is the calories cell as a real number, falling back to Calories
// for entries not read from a table.
func (e Entry) CaloriesValue() *float64 {
	if e.caloriesValue != nil {
		return e.caloriesValue
	}
	if e.Calories == nil {
		return nil
	}
	c := float64(*e.Calories)
	return &c
}

// Entries reads typed entries out of a nutrition table.
func Entries(table *records.Table) []Entry {
	entries := make([]Entry, 0, table.Len())
	for i := range table.Rows {
		calories := table.Get(i, "calories")
		entries = append(entries, Entry{
			Date:          table.Get(i, "date").Date(),
			Calories:      calories.IntPtr(),
			Protein:       table.Get(i, "protein").FloatPtr(),
			Carbs:         table.Get(i, "carbs").FloatPtr(),
			Fat:           table.Get(i, "fat").FloatPtr(),
			Sugar:         table.Get(i, "sugar").FloatPtr(),
			Notes:         table.Get(i, "notes").String(),
			caloriesValue: calories.FloatPtr(),
		})
	}
	return entries
}
