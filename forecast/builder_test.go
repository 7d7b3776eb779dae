package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailvision/retailvision/dataset"
)

func salesSeries(n int) *dataset.DailySeries {
	series := &dataset.DailySeries{}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		units := 100.0 + 0.5*float64(i) + 20*math.Sin(2*math.Pi*float64(d.Unix())/(7*86400))
		series.Dates = append(series.Dates, d)
		series.Units = append(series.Units, units)
	}
	return series
}

func TestBuild(t *testing.T) {
	series := salesSeries(90)
	m, err := Build(series, NewDefaultConfig())
	require.Nil(t, err)
	assert.Equal(t, series.Last(), m.LastHistorical())
}

func TestBuildErrors(t *testing.T) {
	testData := map[string]struct {
		series *dataset.DailySeries
		mutate func(*Config)
		err    error
	}{
		"empty series": {
			series: &dataset.DailySeries{},
			mutate: func(c *Config) {},
			err:    dataset.ErrEmptySeries,
		},
		"invalid confidence": {
			series: salesSeries(90),
			mutate: func(c *Config) { c.ConfidenceLevel = 50 },
			err:    ErrConfidenceRange,
		},
		"too short to split": {
			series: salesSeries(2),
			mutate: func(c *Config) {},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			td.mutate(&cfg)
			_, err := Build(td.series, cfg)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			assert.NotNil(t, err)
		})
	}
}

func TestBuildAllVariants(t *testing.T) {
	series := salesSeries(120)
	for _, variant := range []ModelVariant{VariantDefault, VariantWithHolidays, VariantEnhanced} {
		t.Run(variant.String(), func(t *testing.T) {
			cfg := NewDefaultConfig()
			cfg.Variant = variant
			m, err := Build(series, cfg)
			require.Nil(t, err)

			rows, err := Generate(m, 14)
			require.Nil(t, err)
			assert.Len(t, rows, series.Len()+14)
		})
	}
}

func TestGenerateHorizon(t *testing.T) {
	series := salesSeries(90)
	m, err := Build(series, NewDefaultConfig())
	require.Nil(t, err)

	horizon := 30
	rows, err := Generate(m, horizon)
	require.Nil(t, err)
	require.Len(t, rows, series.Len()+horizon)

	// table starts at the first historical date
	assert.Equal(t, series.Dates[0], rows[0].Date)

	future := FutureOnly(rows, m.LastHistorical())
	require.Len(t, future, horizon)

	// future days are contiguous starting the day after the last historical
	assert.Equal(t, m.LastHistorical().AddDate(0, 0, 1), future[0].Date)
	for i := 1; i < len(future); i++ {
		assert.Equal(t, future[i-1].Date.AddDate(0, 0, 1), future[i].Date)
	}
	for _, row := range future {
		assert.LessOrEqual(t, row.Lower, row.Point)
		assert.GreaterOrEqual(t, row.Upper, row.Point)
	}
}

func TestGenerateInvalidHorizon(t *testing.T) {
	m, err := Build(salesSeries(90), NewDefaultConfig())
	require.Nil(t, err)

	_, err = Generate(m, 0)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestGenerateIdempotent(t *testing.T) {
	m, err := Build(salesSeries(90), NewDefaultConfig())
	require.Nil(t, err)

	first, err := Generate(m, 14)
	require.Nil(t, err)
	second, err := Generate(m, 14)
	require.Nil(t, err)
	assert.Equal(t, first, second)
}

func TestFutureOnlyEmptyInput(t *testing.T) {
	assert.Empty(t, FutureOnly(nil, time.Now()))
}
