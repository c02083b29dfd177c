package records_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2beens/healthtracker/internal/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook_Append(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "workouts.csv")
	book := records.NewBook(records.NewStore(path, records.WorkoutSchema))

	table, err := book.Append(ctx, records.Row{
		records.Of("2024-01-01T18:00:00Z"), records.Of("Bench"),
		records.OfInt(3), records.OfInt(10), records.OfFloat(135), records.Absent,
	})
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	_, err = book.Append(ctx, records.Row{
		records.Of("2024-01-03"), records.Of("Squat"),
		records.OfInt(5), records.OfInt(5), records.OfFloat(225), records.Of("new pb"),
	})
	require.NoError(t, err)

	loaded, err := book.Table(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	// appended at the end, date stored without time of day
	assert.Equal(t, "2024-01-01", loaded.Get(0, "date").String())
	assert.Equal(t, "Bench", loaded.Get(0, "exercise").String())
	assert.Equal(t, "Squat", loaded.Get(1, "exercise").String())
	assert.Equal(t, "new pb", loaded.Get(1, "notes").String())

	_, err = book.Append(ctx, records.Row{records.Of("2024-01-04")})
	assert.ErrorIs(t, err, records.ErrRowWidth)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"date,exercise,sets,reps,weight,notes\n"+
			"2024-01-01,Bench,3,10,135,\n"+
			"2024-01-03,Squat,5,5,225,new pb\n",
		string(raw),
	)
}

func TestBook_Table_NormalizesDatesOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nutrition.csv")
	content := "date,calories\n2024-01-01 08:00:00,2000\nsometime,1800\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	book := records.NewBook(records.NewStore(path, records.NutritionSchema))
	table, err := book.Table(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "2024-01-01", table.Get(0, "date").String())
	assert.True(t, table.Get(1, "date").IsAbsent())
	assert.Equal(t, "1800", table.Get(1, "calories").String())
}

func TestBook_Import_ReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "workouts.csv")
	book := records.NewBook(records.NewStore(path, records.WorkoutSchema))

	for i := 0; i < 3; i++ {
		_, err := book.Append(ctx, records.Row{
			records.Of("2023-06-01"), records.Of("Deadlift"),
			records.OfInt(1), records.OfInt(1), records.OfFloat(300), records.Absent,
		})
		require.NoError(t, err)
	}

	upload := "weight,date,mood\n135,01/05/2024,great\n145,not-a-date,meh\n"
	imported, err := book.Import(ctx, strings.NewReader(upload))
	require.NoError(t, err)
	assert.Equal(t, records.WorkoutSchema, imported.Columns)
	require.Equal(t, 2, imported.Len())

	table, err := book.Table(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "2024-01-05", table.Get(0, "date").String())
	assert.Equal(t, "135", table.Get(0, "weight").String())
	assert.True(t, table.Get(0, "exercise").IsAbsent())
	assert.True(t, table.Get(1, "date").IsAbsent())
	assert.Equal(t, "145", table.Get(1, "weight").String())
	assert.Equal(t, -1, table.Index("mood"))
}

func TestBook_Import_BrokenUpload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "workouts.csv")
	book := records.NewBook(records.NewStore(path, records.WorkoutSchema))

	_, err := book.Append(ctx, records.Row{
		records.Of("2024-01-01"), records.Of("Bench"),
		records.OfInt(3), records.OfInt(8), records.OfFloat(100), records.Absent,
	})
	require.NoError(t, err)

	_, err = book.Import(ctx, strings.NewReader("date,exercise\n\"2024-01-01,Bench\n"))
	require.Error(t, err)

	// existing data untouched
	table, err := book.Table(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestBook_Export(t *testing.T) {
	ctx := context.Background()
	book := records.NewBook(records.NewStore(filepath.Join(t.TempDir(), "n.csv"), records.NutritionSchema))

	buf := &bytes.Buffer{}
	n, err := book.Export(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, "date,calories,protein,carbs,fat,sugar,notes\n", buf.String())

	_, err = book.Append(ctx, records.Row{
		records.Of("2024-01-01"), records.OfInt(2000), records.OfFloat(150),
		records.OfFloat(200), records.OfFloat(70), records.OfFloat(30), records.Absent,
	})
	require.NoError(t, err)

	buf.Reset()
	n, err = book.Export(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t,
		"date,calories,protein,carbs,fat,sugar,notes\n2024-01-01,2000,150,200,70,30,\n",
		buf.String(),
	)
}
