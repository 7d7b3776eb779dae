package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailvision/retailvision/seasonal"
)

func TestConfigValidate(t *testing.T) {
	testData := map[string]struct {
		mutate func(*Config)
		err    error
	}{
		"defaults": {
			mutate: func(c *Config) {},
		},
		"confidence floor": {
			mutate: func(c *Config) { c.ConfidenceLevel = 80 },
		},
		"confidence ceiling": {
			mutate: func(c *Config) { c.ConfidenceLevel = 99 },
		},
		"confidence too low": {
			mutate: func(c *Config) { c.ConfidenceLevel = 79 },
			err:    ErrConfidenceRange,
		},
		"confidence too high": {
			mutate: func(c *Config) { c.ConfidenceLevel = 100 },
			err:    ErrConfidenceRange,
		},
		"zero horizon": {
			mutate: func(c *Config) { c.HorizonDays = 0 },
			err:    ErrInvalidHorizon,
		},
		"negative horizon": {
			mutate: func(c *Config) { c.HorizonDays = -3 },
			err:    ErrInvalidHorizon,
		},
		"unknown variant": {
			mutate: func(c *Config) { c.Variant = ModelVariant(42) },
			err:    ErrUnknownVariant,
		},
		"unknown focus": {
			mutate: func(c *Config) { c.Focus = SeasonalFocus(42) },
			err:    ErrUnknownFocus,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			td.mutate(&cfg)
			err := cfg.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			assert.Nil(t, err)
		})
	}
}

func TestParseVariant(t *testing.T) {
	testData := map[string]struct {
		input    string
		expected ModelVariant
		err      error
	}{
		"default":        {input: "default", expected: VariantDefault},
		"empty":          {input: "", expected: VariantDefault},
		"holidays alias": {input: "holidays", expected: VariantWithHolidays},
		"with holidays":  {input: "with_holidays", expected: VariantWithHolidays},
		"enhanced":       {input: "enhanced", expected: VariantEnhanced},
		"unknown":        {input: "arima", err: ErrUnknownVariant},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			v, err := ParseVariant(td.input)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, v)
			assert.Equal(t, td.expected.String(), v.String())
		})
	}
}

func TestParseFocus(t *testing.T) {
	testData := map[string]struct {
		input    string
		expected SeasonalFocus
		err      error
	}{
		"auto":      {input: "auto", expected: FocusAuto},
		"empty":     {input: "", expected: FocusAuto},
		"weekly":    {input: "weekly", expected: FocusWeekly},
		"monthly":   {input: "monthly", expected: FocusMonthly},
		"quarterly": {input: "quarterly", expected: FocusQuarterly},
		"unknown":   {input: "hourly", err: ErrUnknownFocus},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			f, err := ParseFocus(td.input)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, f)
		})
	}
}

func TestHorizonFromRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	testData := map[string]struct {
		end      time.Time
		expected int
		err      error
	}{
		"one week":     {end: start.AddDate(0, 0, 7), expected: 7},
		"single day":   {end: start.AddDate(0, 0, 1), expected: 1},
		"end is start": {end: start, err: ErrEndBeforeStart},
		"end before":   {end: start.AddDate(0, 0, -1), err: ErrEndBeforeStart},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			n, err := HorizonFromRange(start, td.end)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, n)
		})
	}
}

func TestHorizonFromBusinessDays(t *testing.T) {
	n, err := HorizonFromBusinessDays(10)
	require.Nil(t, err)
	assert.Equal(t, 14, n)

	n, err = HorizonFromBusinessDays(5)
	require.Nil(t, err)
	assert.Equal(t, 7, n)

	_, err = HorizonFromBusinessDays(0)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestSeasonalOptionsPerVariant(t *testing.T) {
	base := NewDefaultConfig()

	t.Run("default without holidays", func(t *testing.T) {
		opt, err := seasonalOptions(base)
		require.Nil(t, err)
		assert.Empty(t, opt.HolidayRegion)
		assert.InDelta(t, 0.05, opt.ChangepointOptions.PriorScale, 1e-9)
		// the default variant leaves the components to the focus table
		assert.False(t, hasSeasonality(opt, "yearly"))
		assert.True(t, hasSeasonality(opt, "weekly"))
		assert.True(t, hasSeasonality(opt, "daily"))
	})

	t.Run("focus governs yearly in default variant", func(t *testing.T) {
		cfg := base
		cfg.Focus = FocusMonthly
		opt, err := seasonalOptions(cfg)
		require.Nil(t, err)
		assert.True(t, hasSeasonality(opt, "yearly"))
		assert.False(t, hasSeasonality(opt, "daily"))
	})

	t.Run("default with holidays", func(t *testing.T) {
		cfg := base
		cfg.IncludeHolidays = true
		opt, err := seasonalOptions(cfg)
		require.Nil(t, err)
		assert.Equal(t, seasonal.RegionIndia, opt.HolidayRegion)
	})

	t.Run("holiday variant", func(t *testing.T) {
		cfg := base
		cfg.Variant = VariantWithHolidays
		opt, err := seasonalOptions(cfg)
		require.Nil(t, err)
		assert.Equal(t, seasonal.RegionIndia, opt.HolidayRegion)
	})

	t.Run("enhanced variant", func(t *testing.T) {
		cfg := base
		cfg.Variant = VariantEnhanced
		opt, err := seasonalOptions(cfg)
		require.Nil(t, err)
		assert.InDelta(t, 0.10, opt.ChangepointOptions.PriorScale, 1e-9)
		assert.InDelta(t, 15.0, opt.SeasonalityPriorScale, 1e-9)
		assert.True(t, hasSeasonality(opt, "monthly"))
	})

	t.Run("confidence sets interval width", func(t *testing.T) {
		cfg := base
		cfg.ConfidenceLevel = 80
		opt, err := seasonalOptions(cfg)
		require.Nil(t, err)
		assert.InDelta(t, 0.80, opt.IntervalWidth, 1e-9)
	})
}

func hasSeasonality(opt *seasonal.Options, name string) bool {
	for _, s := range opt.Seasonalities {
		if s.Name == name {
			return true
		}
	}
	return false
}
