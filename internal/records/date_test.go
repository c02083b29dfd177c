package records_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/2beens/healthtracker/internal/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := records.NewDate(2024, time.January, 2)

	for _, text := range []string{
		"2024-01-02",
		" 2024-01-02 ",
		"2024-01-02 15:04:05",
		"2024-01-02T23:59:59Z",
		"2024-01-02T23:30:00-05:00",
		"01/02/2024",
		"2024/01/02",
		"Jan 2, 2024",
		"January 2, 2024",
	} {
		nd := records.ParseDate(text)
		require.True(t, nd.Valid, text)
		assert.Equal(t, want, nd.Date, text)
	}

	for _, text := range []string{"", "   ", "not a date", "2024-13-45"} {
		assert.False(t, records.ParseDate(text).Valid, text)
	}
}

func TestDateOf_DropsTimeOfDay(t *testing.T) {
	morning := records.DateOf(time.Date(2024, 5, 5, 6, 0, 0, 0, time.UTC))
	evening := records.DateOf(time.Date(2024, 5, 5, 22, 45, 10, 0, time.UTC))
	assert.Equal(t, morning, evening)
	assert.Equal(t, "2024-05-05", morning.String())
}

func TestDate_JSON(t *testing.T) {
	d := records.NewDate(2024, time.February, 29)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(b))

	var back records.Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d, back)

	assert.Error(t, json.Unmarshal([]byte(`"yesterday-ish"`), &back))

	require.NoError(t, json.Unmarshal([]byte(`""`), &back))
	assert.True(t, back.IsZero())

	b, err = json.Marshal(records.NullDate{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestNormalizeDates(t *testing.T) {
	table := records.NewTable(records.WorkoutSchema)
	for _, d := range []records.Value{
		records.Of("2024-01-01 07:30:00"),
		records.Of("2024-01-01"),
		records.Of("02/15/2024"),
		records.Of("garbage"),
		records.Absent,
	} {
		require.NoError(t, table.AppendMap(map[string]records.Value{
			"date":     d,
			"exercise": records.Of("Bench"),
		}))
	}

	require.NoError(t, records.NormalizeDates(table, "date"))

	assert.Equal(t, "2024-01-01", table.Get(0, "date").String())
	assert.Equal(t, "2024-01-01", table.Get(1, "date").String())
	assert.Equal(t, table.Get(0, "date"), table.Get(1, "date"))
	assert.Equal(t, "2024-02-15", table.Get(2, "date").String())
	assert.True(t, table.Get(3, "date").IsAbsent())
	assert.True(t, table.Get(4, "date").IsAbsent())
	// other columns untouched
	assert.Equal(t, "Bench", table.Get(3, "exercise").String())

	once := table.Clone()
	require.NoError(t, records.NormalizeDates(table, "date"))
	assert.Equal(t, once, table)
}

func TestNormalizeDates_EmptyTable(t *testing.T) {
	table := records.NewTable(records.NutritionSchema)
	require.NoError(t, records.NormalizeDates(table, "date"))
	assert.Equal(t, 0, table.Len())

	// no rows, nothing to look up
	require.NoError(t, records.NormalizeDates(records.NewTable(nil), "date"))
}

func TestNormalizeDates_UnknownColumn(t *testing.T) {
	table := records.NewTable(records.Schema{"when"})
	require.NoError(t, table.Append(records.Row{records.Of("2024-01-01")}))

	err := records.NormalizeDates(table, "date")
	assert.ErrorIs(t, err, records.ErrUnknownColumn)
}

func TestPeriodStart(t *testing.T) {
	// 2024-01-01 is a Monday
	monday := records.NewDate(2024, time.January, 1)
	sunday := records.NewDate(2024, time.January, 7)
	nextMonday := records.NewDate(2024, time.January, 8)
	midMonth := records.NewDate(2024, time.February, 17)

	assert.Equal(t, midMonth, records.PeriodStart(midMonth, records.Day))

	assert.Equal(t, monday, records.PeriodStart(monday, records.Week))
	assert.Equal(t, monday, records.PeriodStart(sunday, records.Week))
	assert.Equal(t, nextMonday, records.PeriodStart(nextMonday, records.Week))
	// week crossing a year boundary
	assert.Equal(t,
		records.NewDate(2024, time.December, 30),
		records.PeriodStart(records.NewDate(2025, time.January, 2), records.Week),
	)

	assert.Equal(t, records.NewDate(2024, time.February, 1), records.PeriodStart(midMonth, records.Month))
	assert.Equal(t, records.NewDate(2024, time.January, 1), records.PeriodStart(sunday, records.Month))
}

func TestParseUnit(t *testing.T) {
	for in, want := range map[string]records.Unit{
		"day":     records.Day,
		"Weekly":  records.Week,
		" month ": records.Month,
		"m":       records.Month,
	} {
		got, err := records.ParseUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := records.ParseUnit("fortnight")
	assert.Error(t, err)
}

func TestNullDate_JSON(t *testing.T) {
	var nd records.NullDate
	require.NoError(t, json.Unmarshal([]byte(`"2024-01-08"`), &nd))
	assert.True(t, nd.Valid)
	assert.Equal(t, "2024-01-08", nd.String())

	require.NoError(t, json.Unmarshal([]byte(`null`), &nd))
	assert.False(t, nd.Valid)
	assert.Equal(t, "", nd.String())
}
