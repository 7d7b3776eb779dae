package forecast

import (
	"fmt"
	"time"

	"github.com/retailvision/retailvision/dataset"
	"github.com/retailvision/retailvision/seasonal"
)

// Model is a fitted forecasting model tied to the series it was trained on.
// It is owned by a single session and never persisted.
type Model struct {
	cfg   Config
	inner *seasonal.Model

	// historyDates are all dates of the full input series, not just the
	// training split. The forecast table covers these plus the horizon.
	historyDates   []time.Time
	lastHistorical time.Time
}

// Build fits a seasonal model on the leading 80% of the series using the
// variant parameterization from the config. The split is chronological, time
// order is preserved.
func Build(series *dataset.DailySeries, cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, dataset.ErrEmptySeries
	}

	train, _ := series.Split(TrainFraction)

	opt, err := seasonalOptions(cfg)
	if err != nil {
		return nil, err
	}

	inner, err := seasonal.New(opt)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize seasonal model, %w", err)
	}
	if err := inner.Fit(train.Dates, train.Units); err != nil {
		return nil, fmt.Errorf("unable to fit on training split of %d points, %w", train.Len(), err)
	}

	return &Model{
		cfg:            cfg,
		inner:          inner,
		historyDates:   append([]time.Time(nil), series.Dates...),
		lastHistorical: series.Last(),
	}, nil
}

// seasonalOptions translates the config variant, focus, confidence level, and
// holiday settings into concrete seasonal regression options.
func seasonalOptions(cfg Config) (*seasonal.Options, error) {
	daily, weekly, yearly := cfg.Focus.components()

	opt := &seasonal.Options{
		ChangepointOptions: seasonal.ChangepointOptions{
			Num:        seasonal.DefaultAutoChangepoints,
			PriorScale: 0.05,
		},
		IntervalWidth: float64(cfg.ConfidenceLevel) / 100.0,
	}

	switch cfg.Variant {
	case VariantDefault:
		if cfg.IncludeHolidays {
			opt.HolidayRegion = cfg.HolidayRegion
		}
	case VariantWithHolidays:
		yearly = true
		opt.HolidayRegion = cfg.HolidayRegion
	case VariantEnhanced:
		opt.ChangepointOptions.PriorScale = 0.10
		opt.SeasonalityPriorScale = 15.0
		opt.Seasonalities = append(opt.Seasonalities,
			seasonal.NewCustomSeasonalityConfig("monthly", 30.5, 5))
	default:
		return nil, fmt.Errorf("%w, %d", ErrUnknownVariant, int(cfg.Variant))
	}

	if daily {
		opt.Seasonalities = append(opt.Seasonalities, seasonal.NewDailySeasonalityConfig(4))
	}
	if weekly {
		opt.Seasonalities = append(opt.Seasonalities, seasonal.NewWeeklySeasonalityConfig(3))
	}
	if yearly {
		opt.Seasonalities = append(opt.Seasonalities, seasonal.NewYearlySeasonalityConfig(10))
	}
	return opt, nil
}

// Config returns the configuration the model was built with.
func (m *Model) Config() Config {
	return m.cfg
}

// LastHistorical returns the final date of the full input series. The first
// forecast date is the following day.
func (m *Model) LastHistorical() time.Time {
	return m.lastHistorical
}
