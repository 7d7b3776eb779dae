package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSampleDeterministic(t *testing.T) {
	params := SampleParams{
		Days:      30,
		Stores:    3,
		SKUs:      20,
		StartDate: day(2024, 1, 1),
	}
	first := GenerateSample(DefaultSampleSeed, params)
	second := GenerateSample(DefaultSampleSeed, params)
	assert.Equal(t, first.Records, second.Records)

	other := GenerateSample(DefaultSampleSeed+1, params)
	assert.NotEqual(t, first.Records, other.Records)
}

func TestGenerateSampleShape(t *testing.T) {
	params := SampleParams{
		Days:      14,
		Stores:    2,
		SKUs:      20,
		StartDate: day(2024, 1, 1),
	}
	tbl := GenerateSample(DefaultSampleSeed, params)
	require.NotEmpty(t, tbl.Records)

	end := params.StartDate.AddDate(0, 0, params.Days-1)
	for _, rec := range tbl.Records {
		assert.GreaterOrEqual(t, rec.UnitsSold, 1)
		assert.False(t, rec.Date.Before(params.StartDate))
		assert.False(t, rec.Date.After(end))
		assert.True(t, rec.HasTotalPrice())
		assert.True(t, rec.HasBasePrice())
	}

	series := Aggregate(tbl)
	assert.Equal(t, params.Days, series.Len())
}

func TestGenerateSampleWeekendLift(t *testing.T) {
	params := SampleParams{
		Days:      84, // 12 full weeks
		Stores:    5,
		SKUs:      30,
		StartDate: day(2024, 4, 1), // outside the seasonal windows
	}
	series := Aggregate(GenerateSample(DefaultSampleSeed, params))

	var weekendSum, weekdaySum float64
	var weekendN, weekdayN int
	for i, d := range series.Dates {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekendSum += series.Units[i]
			weekendN++
		} else {
			weekdaySum += series.Units[i]
			weekdayN++
		}
	}
	require.NotZero(t, weekendN)
	require.NotZero(t, weekdayN)
	assert.Greater(t, weekendSum/float64(weekendN), weekdaySum/float64(weekdayN))
}

func TestSubsample(t *testing.T) {
	params := SampleParams{
		Days:      30,
		Stores:    4,
		SKUs:      20,
		StartDate: day(2024, 1, 1),
	}
	tbl := GenerateSample(DefaultSampleSeed, params)

	testData := map[string]struct {
		percent  int
		expected int
	}{
		"quarter":          {percent: 25, expected: len(tbl.Records) * 25 / 100},
		"clamped low":      {percent: 1, expected: len(tbl.Records) * 10 / 100},
		"clamped high":     {percent: 99, expected: len(tbl.Records) * 50 / 100},
		"half upper bound": {percent: 50, expected: len(tbl.Records) * 50 / 100},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			sub := Subsample(tbl, td.percent, DefaultSampleSeed)
			assert.Equal(t, td.expected, len(sub.Records))
		})
	}
}

func TestSubsampleDeterministic(t *testing.T) {
	tbl := GenerateSample(DefaultSampleSeed, SampleParams{Days: 20, Stores: 3, SKUs: 20, StartDate: day(2024, 1, 1)})

	first := Subsample(tbl, 25, DefaultSampleSeed)
	second := Subsample(tbl, 25, DefaultSampleSeed)
	assert.Equal(t, first.Records, second.Records)
}
