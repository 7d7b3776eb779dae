// Package aggregate rolls the future slice of a forecast table into weekly,
// monthly, and quarterly buckets with growth deltas between periods.
package aggregate

import (
	"fmt"
	"time"

	"github.com/retailvision/retailvision/forecast"
)

// Horizon gates below which a granularity is not worth reporting.
const (
	MinWeeklyHorizonDays    = 28
	MinMonthlyHorizonDays   = 60
	MinQuarterlyHorizonDays = 180
)

// epsilon guards growth division when the previous bucket sums to zero
const epsilon = 1e-10

// Bucket is one aggregation window. Partial trailing windows are kept as-is
// with their partial sums.
type Bucket struct {
	Label       string    `json:"label"`
	PeriodStart time.Time `json:"period_start"`

	SumPoint float64 `json:"sum_point"`
	SumLower float64 `json:"sum_lower"`
	SumUpper float64 `json:"sum_upper"`

	// GrowthPct is the percent change in SumPoint versus the previous
	// bucket. Undefined for the first bucket, see Baseline.
	GrowthPct float64 `json:"growth_pct"`
	Baseline  bool    `json:"baseline"`
}

// Result carries the bucket sequences for every granularity enabled by the
// horizon length. Disabled granularities are nil.
type Result struct {
	Weekly    []Bucket `json:"weekly,omitempty"`
	Monthly   []Bucket `json:"monthly,omitempty"`
	Quarterly []Bucket `json:"quarterly,omitempty"`
}

// Rollup buckets the future-only forecast rows at each granularity the
// horizon permits.
func Rollup(future []forecast.Row, horizonDays int) *Result {
	res := &Result{}
	if horizonDays >= MinWeeklyHorizonDays {
		res.Weekly = byPeriod(future, weekStart, weekLabel)
	}
	if horizonDays >= MinMonthlyHorizonDays {
		res.Monthly = byPeriod(future, monthStart, monthLabel)
	}
	if horizonDays >= MinQuarterlyHorizonDays {
		res.Quarterly = byPeriod(future, quarterStart, quarterLabel)
	}
	return res
}

func byPeriod(rows []forecast.Row, startOf func(time.Time) time.Time, labelOf func(time.Time) string) []Bucket {
	var buckets []Bucket
	for _, row := range rows {
		start := startOf(row.Date)
		if len(buckets) == 0 || !buckets[len(buckets)-1].PeriodStart.Equal(start) {
			buckets = append(buckets, Bucket{
				Label:       labelOf(start),
				PeriodStart: start,
			})
		}
		b := &buckets[len(buckets)-1]
		b.SumPoint += row.Point
		b.SumLower += row.Lower
		b.SumUpper += row.Upper
	}

	for i := range buckets {
		if i == 0 {
			buckets[i].Baseline = true
			continue
		}
		prev := buckets[i-1].SumPoint
		buckets[i].GrowthPct = (buckets[i].SumPoint - prev) / (prev + epsilon) * 100.0
	}
	return buckets
}

// weekStart returns the Monday of the ISO calendar week containing d.
func weekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func weekLabel(start time.Time) string {
	year, week := start.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func monthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
}

func monthLabel(start time.Time) string {
	return start.Format("January 2006")
}

func quarterStart(d time.Time) time.Time {
	quarterMonth := time.Month((int(d.Month())-1)/3*3 + 1)
	return time.Date(d.Year(), quarterMonth, 1, 0, 0, 0, 0, d.Location())
}

func quarterLabel(start time.Time) string {
	return fmt.Sprintf("%dQ%d", start.Year(), (int(start.Month())-1)/3+1)
}
