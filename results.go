// Package retailvision orchestrates the retail sales forecasting pipeline:
// load and validate a raw point-of-sale table, fit a seasonal model, generate
// the forecast table, and derive rollups, accuracy, KPIs, and alerts for the
// presentation layer.
package retailvision

import (
	"time"

	"github.com/retailvision/retailvision/accuracy"
	"github.com/retailvision/retailvision/aggregate"
	"github.com/retailvision/retailvision/dataset"
	"github.com/retailvision/retailvision/forecast"
)

// Results is everything one pipeline run produces. Computed fresh per request
// and never mutated afterwards.
type Results struct {
	SourceName string          `json:"source_name"`
	Config     forecast.Config `json:"config"`

	Warnings []dataset.Warning      `json:"warnings,omitempty"`
	Series   *dataset.DailySeries   `json:"-"`
	Quality  *dataset.QualityReport `json:"quality"`

	KPIs      KPISummary       `json:"kpis"`
	Executive ExecutiveFigures `json:"executive"`

	// Rows covers the historical range plus the horizon. Future holds only
	// rows dated after the last historical date.
	Rows   []forecast.Row `json:"rows"`
	Future []forecast.Row `json:"future"`

	Buckets *aggregate.Result `json:"buckets"`

	// Accuracy is nil when the backtest failed; AccuracyErr then carries
	// the user-visible reason. A failed backtest never blocks the forecast.
	Accuracy    *accuracy.Report `json:"accuracy,omitempty"`
	AccuracyErr string           `json:"accuracy_err,omitempty"`

	Alerts []Alert `json:"alerts"`

	// FitDuration is how long model training took, the dominant cost of a
	// run.
	FitDuration time.Duration `json:"fit_duration_ns"`

	cacheHit bool
}

// CacheHit reports whether this result came from the memoization layer rather
// than a fresh computation. A hit is observably identical to a recompute.
func (r *Results) CacheHit() bool {
	return r.cacheHit
}

// FirstForecastDate returns the date of the first future row.
func (r *Results) FirstForecastDate() time.Time {
	if len(r.Future) == 0 {
		return time.Time{}
	}
	return r.Future[0].Date
}

// LastForecastDate returns the date of the final future row.
func (r *Results) LastForecastDate() time.Time {
	if len(r.Future) == 0 {
		return time.Time{}
	}
	return r.Future[len(r.Future)-1].Date
}
