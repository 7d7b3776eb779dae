// Package seasonal fits a linear seasonal regression to a univariate daily
// time series. The model decomposes the series into an intercept, a piecewise
// linear trend with changepoints, Fourier seasonal components, and optional
// holiday indicator regressors, then derives uncertainty bands from the
// training residual.
package seasonal

import (
	"time"
)

const (
	// DefaultChangepointPriorScale keeps the trend conservative.
	DefaultChangepointPriorScale = 0.05

	// DefaultSeasonalityPriorScale matches a moderate seasonal fit.
	DefaultSeasonalityPriorScale = 10.0

	// DefaultHolidayPriorScale controls how strongly holiday indicators can
	// pull the fit.
	DefaultHolidayPriorScale = 10.0

	// DefaultIntervalWidth is the default confidence interval coverage.
	DefaultIntervalWidth = 0.95

	// DefaultAutoChangepoints is the number of evenly spaced candidate
	// changepoints placed over the leading portion of the training range.
	DefaultAutoChangepoints = 25

	// changepointRangeFrac limits candidate changepoints to the leading part
	// of the training window so the tail trend stays stable.
	changepointRangeFrac = 0.8
)

// SeasonalityConfig is a single Fourier seasonal component. A period of
// 7 days with 3 orders produces 6 regressors, sine and cosine for each
// harmonic.
type SeasonalityConfig struct {
	Name   string        `json:"name"`
	Period time.Duration `json:"period"`
	Orders int           `json:"orders"`
}

// NewDailySeasonalityConfig models within-day structure. Daily input data
// cannot resolve it but sub-daily series can.
func NewDailySeasonalityConfig(orders int) SeasonalityConfig {
	return SeasonalityConfig{Name: "daily", Period: 24 * time.Hour, Orders: orders}
}

// NewWeeklySeasonalityConfig models day-of-week structure.
func NewWeeklySeasonalityConfig(orders int) SeasonalityConfig {
	return SeasonalityConfig{Name: "weekly", Period: 7 * 24 * time.Hour, Orders: orders}
}

// NewYearlySeasonalityConfig models annual structure.
func NewYearlySeasonalityConfig(orders int) SeasonalityConfig {
	return SeasonalityConfig{Name: "yearly", Period: 365*24*time.Hour + 6*time.Hour, Orders: orders}
}

// NewCustomSeasonalityConfig models an arbitrary period given in days, e.g.
// a 30.5 day pseudo-month decoupled from calendar month boundaries.
func NewCustomSeasonalityConfig(name string, periodDays float64, orders int) SeasonalityConfig {
	return SeasonalityConfig{
		Name:   name,
		Period: time.Duration(periodDays * 24 * float64(time.Hour)),
		Orders: orders,
	}
}

// ChangepointOptions configures automatic trend changepoint placement.
// PriorScale maps to an L2 penalty of 1/PriorScale on the changepoint slope
// deltas, so small values keep the trend rigid.
type ChangepointOptions struct {
	Num        int     `json:"num"`
	PriorScale float64 `json:"prior_scale"`
}

// NewDefaultChangepointOptions returns conservative changepoint settings.
func NewDefaultChangepointOptions() ChangepointOptions {
	return ChangepointOptions{
		Num:        DefaultAutoChangepoints,
		PriorScale: DefaultChangepointPriorScale,
	}
}

// Options configures a seasonal regression fit.
type Options struct {
	Seasonalities []SeasonalityConfig `json:"seasonalities"`

	ChangepointOptions    ChangepointOptions `json:"changepoint_options"`
	SeasonalityPriorScale float64            `json:"seasonality_prior_scale"`
	HolidayPriorScale     float64            `json:"holiday_prior_scale"`

	// HolidayRegion selects a holiday calendar to add as indicator
	// regressors. Empty disables holidays.
	HolidayRegion Region `json:"holiday_region,omitempty"`

	// IntervalWidth is the coverage of the uncertainty band, e.g. 0.95.
	IntervalWidth float64 `json:"interval_width"`
}

// NewDefaultOptions returns weekly plus yearly seasonality with conservative
// trend flexibility.
func NewDefaultOptions() *Options {
	return &Options{
		Seasonalities: []SeasonalityConfig{
			NewWeeklySeasonalityConfig(3),
			NewYearlySeasonalityConfig(10),
		},
		ChangepointOptions:    NewDefaultChangepointOptions(),
		SeasonalityPriorScale: DefaultSeasonalityPriorScale,
		HolidayPriorScale:     DefaultHolidayPriorScale,
		IntervalWidth:         DefaultIntervalWidth,
	}
}

func (o *Options) changepointPriorScale() float64 {
	if o.ChangepointOptions.PriorScale <= 0 {
		return DefaultChangepointPriorScale
	}
	return o.ChangepointOptions.PriorScale
}

func (o *Options) seasonalityPriorScale() float64 {
	if o.SeasonalityPriorScale <= 0 {
		return DefaultSeasonalityPriorScale
	}
	return o.SeasonalityPriorScale
}

func (o *Options) holidayPriorScale() float64 {
	if o.HolidayPriorScale <= 0 {
		return DefaultHolidayPriorScale
	}
	return o.HolidayPriorScale
}

func (o *Options) intervalWidth() float64 {
	if o.IntervalWidth <= 0 || o.IntervalWidth >= 1 {
		return DefaultIntervalWidth
	}
	return o.IntervalWidth
}
