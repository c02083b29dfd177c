package records

import "sort"

// NewestFirst returns a copy of the table sorted by date, descending, keeping at most limit rows
// (all of them for limit <= 0). Rows without a valid date go last; ties keep their table order.
func NewestFirst(t *Table, limit int) *Table {
	sorted := t.Clone()
	idx := sorted.Index(DateColumn)
	if idx < 0 {
		return sorted
	}

	dates := make([]NullDate, len(sorted.Rows))
	order := make([]int, len(sorted.Rows))
	for i, row := range sorted.Rows {
		order[i] = i
		dates[i] = row[idx].Date()
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := dates[order[i]], dates[order[j]]
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Date.After(b.Date)
	})

	rows := make([]Row, 0, len(order))
	for _, i := range order {
		rows = append(rows, sorted.Rows[i])
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	sorted.Rows = rows

	return sorted
}
