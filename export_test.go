package retailvision

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailvision/retailvision/accuracy"
	"github.com/retailvision/retailvision/forecast"
)

func TestWriteForecastCSV(t *testing.T) {
	future := []forecast.Row{
		{Date: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), Point: 120.6, Lower: 100.4, Upper: 140.5},
		{Date: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), Point: 131.2, Lower: 110.9, Upper: 151.1},
	}

	var buf bytes.Buffer
	require.Nil(t, WriteForecastCSV(&buf, future))

	records, err := csv.NewReader(&buf).ReadAll()
	require.Nil(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Date", "Day", "Expected Sales", "Minimum", "Maximum"}, records[0])
	assert.Equal(t, []string{"02-02-2026", "Monday", "121", "100", "141"}, records[1])
	assert.Equal(t, []string{"03-02-2026", "Tuesday", "131", "111", "151"}, records[2])
}

func TestWriteForecastCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, WriteForecastCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.Nil(t, err)
	require.Len(t, records, 1) // header only
}

func TestReportText(t *testing.T) {
	start := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	res := &Results{
		Config: forecast.Config{HorizonDays: 3},
		Future: []forecast.Row{
			{Date: start, Point: 100},
			{Date: start.AddDate(0, 0, 1), Point: 150},
			{Date: start.AddDate(0, 0, 2), Point: 110},
		},
		Accuracy: &accuracy.Report{
			AccuracyPct: 91.5,
			Rating:      accuracy.RatingExcellent,
			RMSE:        12.3,
		},
		Alerts: []Alert{
			{Severity: SeverityWarning, Title: "High Demand Period Ahead", Message: "peak demand expected"},
		},
	}

	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	report := ReportText(res, now)

	assert.Contains(t, report, "SALES PREDICTION REPORT")
	assert.Contains(t, report, "Created: 01 February 2026")
	assert.Contains(t, report, "Period: 3 days")
	assert.Contains(t, report, "From: 02-02-2026")
	assert.Contains(t, report, "To: 04-02-2026")
	assert.Contains(t, report, "Expected Total Sales: 360 units")
	assert.Contains(t, report, "Average Per Day: 120 units")
	assert.Contains(t, report, "Peak Sales Day: Tuesday, 03-02-2026")
	assert.Contains(t, report, "Accuracy: 91.5% (Excellent)")
	assert.Contains(t, report, "[WARNING] High Demand Period Ahead")
}

func TestReportTextNoForecast(t *testing.T) {
	report := ReportText(&Results{Config: forecast.Config{HorizonDays: 7}}, time.Now())
	assert.Contains(t, report, "Expected Total Sales: 0 units")
	assert.NotContains(t, report, "MODEL ACCURACY")
	assert.False(t, strings.Contains(report, "From:"))
}
