package test

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/2beens/healthtracker/internal/records"
	"github.com/2beens/healthtracker/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestWorkoutsImportRateLimited() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	history := "date,exercise,sets,reps,weight,notes\n2024-01-01,Deadlift,1,5,315,\n2024-01-08,Deadlift,1,5,325,\n"

	for i := 0; i < importsAllowedPerMin; i++ {
		status, body := s.uploadCSV(ctx, "/workouts/import", "workouts.csv", history)
		require.Equal(t, http.StatusOK, status, string(body))

		var importResp workouts.ImportResponse
		require.NoError(t, json.Unmarshal(body, &importResp))
		assert.Equal(t, 2, importResp.Imported)
	}

	status, _ := s.uploadCSV(ctx, "/workouts/import", "workouts.csv", history)
	assert.Equal(t, http.StatusTooEarly, status)

	// imports replace, never merge
	raw, err := os.ReadFile(filepath.Join(s.dataDir, "workouts.csv"))
	require.NoError(t, err)
	assert.Equal(t, history, string(raw))
}

func (s *IntegrationTestSuite) TestWorkoutsLogAndProgress() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	for i, weight := range []float64{135, 145, 155} {
		status, body := s.postJSON(ctx, "/workouts", workouts.Workout{
			Date:     records.NewDate(2024, 2, 1).AddDays(7 * i),
			Exercise: "Overhead Press",
			Sets:     3,
			Reps:     8,
			Weight:   weight,
		})
		require.Equal(t, http.StatusCreated, status, string(body))
	}

	status, body := s.doRequest(ctx, "GET", "/workouts/progress?exercise=Overhead%20Press", "", nil)
	require.Equal(t, http.StatusOK, status, string(body))

	var progress workouts.ProgressResponse
	require.NoError(t, json.Unmarshal(body, &progress))
	assert.Equal(t, 135.0, progress.Start)
	assert.Equal(t, 155.0, progress.Current)
	assert.Equal(t, 20.0, progress.Delta)
	assert.InDelta(t, 14.8, progress.PctChange, 0.05)

	status, body = s.doRequest(ctx, "GET", "/workouts/exercises", "", nil)
	require.Equal(t, http.StatusOK, status)
	var exercises []string
	require.NoError(t, json.Unmarshal(body, &exercises))
	assert.Contains(t, exercises, "Overhead Press")
}
