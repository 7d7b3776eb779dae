// Package forecast maps a user-facing forecast configuration onto a fitted
// seasonal model and generates the forecast table with uncertainty bounds.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/retailvision/retailvision/seasonal"
)

var (
	ErrUnknownVariant  = errors.New("unknown model variant")
	ErrUnknownFocus    = errors.New("unknown seasonal focus")
	ErrConfidenceRange = errors.New("confidence level must be between 80 and 99")
	ErrInvalidHorizon  = errors.New("forecast horizon must be at least 1 day")
	ErrEndBeforeStart  = errors.New("forecast end date must be after start date")
)

// BusinessDayFactor converts a business day count to calendar days. Weekends
// are approximated with a fixed multiplier rather than skipped literally.
const BusinessDayFactor = 1.4

// TrainFraction is the leading chronological share of the series used for
// model training.
const TrainFraction = 0.8

// ModelVariant selects a seasonal model parameterization.
type ModelVariant int

const (
	// VariantDefault is the conservative baseline. Holidays are only added
	// when explicitly requested.
	VariantDefault ModelVariant = iota
	// VariantWithHolidays always adds the regional holiday calendar.
	VariantWithHolidays
	// VariantEnhanced reacts faster to trend shifts and adds a 30.5 day
	// pseudo-monthly component.
	VariantEnhanced
)

func (v ModelVariant) String() string {
	switch v {
	case VariantDefault:
		return "default"
	case VariantWithHolidays:
		return "with_holidays"
	case VariantEnhanced:
		return "enhanced"
	}
	return fmt.Sprintf("unknown(%d)", int(v))
}

// ParseVariant maps a variant name to its enum value.
func ParseVariant(s string) (ModelVariant, error) {
	switch s {
	case "default", "":
		return VariantDefault, nil
	case "with_holidays", "holidays":
		return VariantWithHolidays, nil
	case "enhanced":
		return VariantEnhanced, nil
	}
	return 0, fmt.Errorf("%w, %q", ErrUnknownVariant, s)
}

// SeasonalFocus selects which seasonal components are enabled.
type SeasonalFocus int

const (
	FocusAuto SeasonalFocus = iota
	FocusWeekly
	FocusMonthly
	FocusQuarterly
)

func (s SeasonalFocus) String() string {
	switch s {
	case FocusAuto:
		return "auto"
	case FocusWeekly:
		return "weekly"
	case FocusMonthly:
		return "monthly"
	case FocusQuarterly:
		return "quarterly"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// ParseFocus maps a seasonal focus name to its enum value.
func ParseFocus(s string) (SeasonalFocus, error) {
	switch s {
	case "auto", "":
		return FocusAuto, nil
	case "weekly":
		return FocusWeekly, nil
	case "monthly":
		return FocusMonthly, nil
	case "quarterly":
		return FocusQuarterly, nil
	}
	return 0, fmt.Errorf("%w, %q", ErrUnknownFocus, s)
}

// components reports which of the daily, weekly, and yearly seasonal
// components the focus enables.
func (s SeasonalFocus) components() (daily, weekly, yearly bool) {
	switch s {
	case FocusWeekly:
		return true, true, false
	case FocusMonthly:
		return false, true, true
	case FocusQuarterly:
		return false, false, true
	default:
		return true, true, false
	}
}

// Config is the immutable configuration bundle for one forecast run.
type Config struct {
	Variant         ModelVariant    `json:"variant"`
	ConfidenceLevel int             `json:"confidence_level"`
	Focus           SeasonalFocus   `json:"seasonal_focus"`
	IncludeHolidays bool            `json:"include_holidays"`
	HolidayRegion   seasonal.Region `json:"holiday_region"`
	HorizonDays     int             `json:"horizon_days"`
}

// NewDefaultConfig returns a 30 day default forecast at 95% confidence with
// the Indian holiday calendar available when holidays are enabled.
func NewDefaultConfig() Config {
	return Config{
		Variant:         VariantDefault,
		ConfidenceLevel: 95,
		Focus:           FocusAuto,
		HolidayRegion:   seasonal.RegionIndia,
		HorizonDays:     30,
	}
}

// Validate checks the configuration bounds.
func (c Config) Validate() error {
	if c.ConfidenceLevel < 80 || c.ConfidenceLevel > 99 {
		return fmt.Errorf("%w, got %d", ErrConfidenceRange, c.ConfidenceLevel)
	}
	if c.HorizonDays < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidHorizon, c.HorizonDays)
	}
	switch c.Variant {
	case VariantDefault, VariantWithHolidays, VariantEnhanced:
	default:
		return fmt.Errorf("%w, %d", ErrUnknownVariant, int(c.Variant))
	}
	switch c.Focus {
	case FocusAuto, FocusWeekly, FocusMonthly, FocusQuarterly:
	default:
		return fmt.Errorf("%w, %d", ErrUnknownFocus, int(c.Focus))
	}
	return nil
}

// HorizonFromRange converts an explicit date range to a horizon day count.
func HorizonFromRange(start, end time.Time) (int, error) {
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 0, ErrEndBeforeStart
	}
	return days, nil
}

// HorizonFromBusinessDays converts N business days to calendar days with the
// fixed weekend multiplier.
func HorizonFromBusinessDays(n int) (int, error) {
	if n < 1 {
		return 0, ErrInvalidHorizon
	}
	return int(float64(n) * BusinessDayFactor), nil
}
