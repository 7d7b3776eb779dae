package dataset

import (
	"errors"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrEmptySeries = errors.New("empty daily series")

// DailySeries is the per-day aggregation of a raw table. Dates are unique and
// sorted ascending. Missing calendar days simply have no entry, no gap filling
// is performed.
type DailySeries struct {
	Dates []time.Time
	Units []float64
}

// Aggregate groups cleaned records by date and sums units sold.
func Aggregate(tbl *Table) *DailySeries {
	byDate := make(map[time.Time]float64)
	for _, rec := range tbl.Records {
		day := rec.Date.Truncate(24 * time.Hour)
		byDate[day] += float64(rec.UnitsSold)
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	units := make([]float64, len(dates))
	for i, d := range dates {
		units[i] = byDate[d]
	}
	return &DailySeries{Dates: dates, Units: units}
}

// Len returns the number of days in the series.
func (s *DailySeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Dates)
}

// Last returns the final date in the series.
func (s *DailySeries) Last() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.Dates[len(s.Dates)-1]
}

// Total returns the sum of units over the whole series.
func (s *DailySeries) Total() float64 {
	if s.Len() == 0 {
		return 0
	}
	return floats.Sum(s.Units)
}

// Mean returns the average daily units.
func (s *DailySeries) Mean() float64 {
	if s.Len() == 0 {
		return 0
	}
	return stat.Mean(s.Units, nil)
}

// StdDev returns the standard deviation of daily units.
func (s *DailySeries) StdDev() float64 {
	if s.Len() < 2 {
		return 0
	}
	return stat.StdDev(s.Units, nil)
}

// Split divides the series chronologically. The first return holds the
// leading frac portion, the second the remainder. Time order is preserved,
// every training date is strictly earlier than every held-out date.
func (s *DailySeries) Split(frac float64) (*DailySeries, *DailySeries) {
	cut := int(float64(s.Len()) * frac)
	train := &DailySeries{
		Dates: s.Dates[:cut],
		Units: s.Units[:cut],
	}
	holdout := &DailySeries{
		Dates: s.Dates[cut:],
		Units: s.Units[cut:],
	}
	return train, holdout
}
