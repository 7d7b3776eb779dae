package seasonal

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyWindow(n int) []time.Time {
	t := make([]time.Time, 0, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		t = append(t, start.AddDate(0, 0, i))
	}
	return t
}

func TestFitErrors(t *testing.T) {
	testData := map[string]struct {
		t   []time.Time
		y   []float64
		err error
	}{
		"length mismatch": {
			t:   dailyWindow(3),
			y:   []float64{1, 2},
			err: ErrDataLenMismatch,
		},
		"too few points": {
			t:   dailyWindow(1),
			y:   []float64{1},
			err: ErrInsufficientData,
		},
		"all nan": {
			t:   dailyWindow(3),
			y:   []float64{math.NaN(), math.NaN(), math.NaN()},
			err: ErrInsufficientData,
		},
		"non chronological": {
			t: []time.Time{
				time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			y:   []float64{1, 2},
			err: ErrNonChronological,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			m, err := New(nil)
			require.Nil(t, err)
			assert.ErrorIs(t, m.Fit(td.t, td.y), td.err)
		})
	}
}

func TestPredictBeforeFit(t *testing.T) {
	m, err := New(nil)
	require.Nil(t, err)
	_, err = m.Predict(dailyWindow(3))
	assert.ErrorIs(t, err, ErrUntrainedModel)
}

func TestNewUnknownRegion(t *testing.T) {
	opt := NewDefaultOptions()
	opt.HolidayRegion = "XX"
	_, err := New(opt)
	assert.ErrorIs(t, err, ErrUnknownRegion)
}

func TestFitConstantSeries(t *testing.T) {
	tWin := dailyWindow(60)
	y := make([]float64, len(tWin))
	for i := range y {
		y[i] = 50.0
	}

	m, err := New(nil)
	require.Nil(t, err)
	require.Nil(t, m.Fit(tWin, y))

	pred, err := m.Predict(tWin)
	require.Nil(t, err)
	for i := range pred.Point {
		assert.InDelta(t, 50.0, pred.Point[i], 1.0)
		assert.LessOrEqual(t, pred.Lower[i], pred.Point[i])
		assert.GreaterOrEqual(t, pred.Upper[i], pred.Point[i])
	}
	assert.Less(t, m.ResidualStd(), 1.0)
}

func TestFitWeeklyPattern(t *testing.T) {
	tWin := dailyWindow(84)
	y := make([]float64, len(tWin))
	for i, d := range tWin {
		y[i] = 100 + 20*math.Sin(2*math.Pi*float64(d.Unix())/(7*86400))
	}

	opt := &Options{
		Seasonalities:      []SeasonalityConfig{NewWeeklySeasonalityConfig(3)},
		ChangepointOptions: NewDefaultChangepointOptions(),
	}
	m, err := New(opt)
	require.Nil(t, err)
	require.Nil(t, m.Fit(tWin, y))

	pred, err := m.Predict(tWin)
	require.Nil(t, err)
	for i := range pred.Point {
		assert.InDelta(t, y[i], pred.Point[i], 5.0)
	}

	coef, err := m.Coefficients()
	require.Nil(t, err)
	assert.Contains(t, coef, "seas_weekly_01_sin")
	assert.Contains(t, coef, "seas_weekly_01_cos")
}

func TestFitDropsNaN(t *testing.T) {
	tWin := dailyWindow(30)
	y := make([]float64, len(tWin))
	for i := range y {
		y[i] = 10
	}
	y[5] = math.NaN()
	y[20] = math.NaN()

	m, err := New(nil)
	require.Nil(t, err)
	require.Nil(t, m.Fit(tWin, y))
	assert.Equal(t, tWin[len(tWin)-1], m.TrainEnd())
}

func TestPredictEmptyTimes(t *testing.T) {
	tWin := dailyWindow(60)
	y := make([]float64, len(tWin))
	for i := range y {
		y[i] = 100
	}

	m, err := New(nil)
	require.Nil(t, err)
	require.Nil(t, m.Fit(tWin, y))

	for name, times := range map[string][]time.Time{
		"nil":   nil,
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			pred, err := m.Predict(times)
			require.Nil(t, err)
			require.NotNil(t, pred)
			assert.Empty(t, pred.T)
			assert.Empty(t, pred.Point)
			assert.Empty(t, pred.Lower)
			assert.Empty(t, pred.Upper)
		})
	}
}

func TestPredictExtendsPastTraining(t *testing.T) {
	tWin := dailyWindow(60)
	y := make([]float64, len(tWin))
	for i := range y {
		y[i] = 100 + float64(i)
	}

	m, err := New(nil)
	require.Nil(t, err)
	require.Nil(t, m.Fit(tWin, y))

	future := make([]time.Time, 0, 14)
	for i := 1; i <= 14; i++ {
		future = append(future, m.TrainEnd().AddDate(0, 0, i))
	}
	pred, err := m.Predict(future)
	require.Nil(t, err)
	require.Len(t, pred.Point, 14)

	// upward trend should carry into the future window
	assert.Greater(t, pred.Point[13], y[len(y)-1]-20)
	for i := range pred.Point {
		assert.Less(t, pred.Lower[i], pred.Upper[i])
	}
}
