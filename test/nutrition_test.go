package test

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/2beens/healthtracker/internal/nutrition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestNutritionImportAndSummary() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()

	status, _ := s.doRequest(ctx, "GET", "/nutrition/export", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body := s.uploadCSV(ctx, "/nutrition/import", "nutrition.csv",
		"date,calories,protein,carbs,fat,sugar,extra\n"+
			"2024-01-01,2000,150,200,70,30,x\n"+
			"2024-01-01 20:30:00,2200,160,210,75,35,y\n"+
			"2024-01-08,1800,140,180,60,20,z\n",
	)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = s.doRequest(ctx, "GET", "/nutrition/summary/week", "", nil)
	require.Equal(t, http.StatusOK, status, string(body))

	var summary nutrition.SummaryResponse
	require.NoError(t, json.Unmarshal(body, &summary))
	require.Len(t, summary.Periods, 2)
	assert.Equal(t, "2024-01-08", summary.Periods[0].PeriodStart.String())
	assert.Equal(t, "2024-01-01", summary.Periods[1].PeriodStart.String())
	assert.Equal(t, 2100.0, *summary.Periods[1].Calories)

	status, body = s.doRequest(ctx, "GET", "/nutrition/export", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t,
		"date,calories,protein,carbs,fat,sugar,notes\n"+
			"2024-01-01,2000,150,200,70,30,\n"+
			"2024-01-01,2200,160,210,75,35,\n"+
			"2024-01-08,1800,140,180,60,20,\n",
		string(body),
	)
}
