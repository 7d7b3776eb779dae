package retailvision

import (
	"math"

	"github.com/retailvision/retailvision/dataset"
	"github.com/retailvision/retailvision/forecast"
)

// Direction bands the overall sales trend.
type Direction string

const (
	DirectionGrowing   Direction = "Growing"
	DirectionDeclining Direction = "Declining"
	DirectionStable    Direction = "Stable"
)

// directionThresholdPct separates stable from growing or declining
const directionThresholdPct = 5.0

// fallbackRevenuePerUnit is used when no usable price column exists
const fallbackRevenuePerUnit = 75.0

// KPISummary is the quick business snapshot computed from the raw table and
// its daily aggregation.
type KPISummary struct {
	TotalUnits    float64 `json:"total_units"`
	AvgDailyUnits float64 `json:"avg_daily_units"`

	// GrowthRatePct compares the mean of the recent half of the series to
	// the first half.
	GrowthRatePct float64   `json:"growth_rate_pct"`
	Direction     Direction `json:"direction"`

	Stores   int `json:"stores"`
	Products int `json:"products"`

	RevenuePerUnit float64 `json:"revenue_per_unit"`
}

// ComputeKPIs derives the headline metrics for the dashboard.
func ComputeKPIs(tbl *dataset.Table, series *dataset.DailySeries) KPISummary {
	k := KPISummary{
		TotalUnits:     series.Total(),
		AvgDailyUnits:  series.Mean(),
		RevenuePerUnit: revenuePerUnit(tbl),
	}

	stores := make(map[string]struct{})
	products := make(map[string]struct{})
	for _, rec := range tbl.Records {
		stores[rec.StoreID] = struct{}{}
		products[rec.SKUID] = struct{}{}
	}
	k.Stores = len(stores)
	k.Products = len(products)

	if series.Len() >= 2 {
		mid := series.Len() / 2
		first := &dataset.DailySeries{Dates: series.Dates[:mid], Units: series.Units[:mid]}
		recent := &dataset.DailySeries{Dates: series.Dates[mid:], Units: series.Units[mid:]}
		if oldAvg := first.Mean(); oldAvg != 0 {
			k.GrowthRatePct = (recent.Mean() - oldAvg) / oldAvg * 100.0
		}
	}

	switch {
	case k.GrowthRatePct > directionThresholdPct:
		k.Direction = DirectionGrowing
	case k.GrowthRatePct < -directionThresholdPct:
		k.Direction = DirectionDeclining
	default:
		k.Direction = DirectionStable
	}
	return k
}

// revenuePerUnit estimates revenue per unit from the total price column,
// falling back to the mean base price and finally a fixed default.
func revenuePerUnit(tbl *dataset.Table) float64 {
	var totalRevenue, totalUnits float64
	for _, rec := range tbl.Records {
		if rec.HasTotalPrice() && rec.TotalPrice > 0 {
			totalRevenue += rec.TotalPrice
		}
		totalUnits += float64(rec.UnitsSold)
	}
	if totalRevenue > 0 && totalUnits > 0 {
		return totalRevenue / totalUnits
	}

	var baseSum float64
	var baseCnt int
	for _, rec := range tbl.Records {
		if rec.HasBasePrice() && rec.BasePrice > 0 {
			baseSum += rec.BasePrice
			baseCnt++
		}
	}
	if baseCnt > 0 {
		return baseSum / float64(baseCnt)
	}
	return fallbackRevenuePerUnit
}

// ExecutiveFigures projects revenue and peak demand over the future forecast
// slice.
type ExecutiveFigures struct {
	ProjectedRevenue float64 `json:"projected_revenue"`
	PeakDailyUnits   float64 `json:"peak_daily_units"`
	TotalForecast    float64 `json:"total_forecast"`

	// GrowthVsHistoricalPct compares the average forecast day to the
	// historical daily average.
	GrowthVsHistoricalPct float64 `json:"growth_vs_historical_pct"`
}

// ComputeExecutiveFigures derives the executive dashboard numbers from the
// future forecast slice.
func ComputeExecutiveFigures(future []forecast.Row, series *dataset.DailySeries, revenuePerUnit float64) ExecutiveFigures {
	var fig ExecutiveFigures
	if len(future) == 0 {
		return fig
	}

	fig.PeakDailyUnits = math.Inf(-1)
	for _, row := range future {
		fig.TotalForecast += row.Point
		if row.Point > fig.PeakDailyUnits {
			fig.PeakDailyUnits = row.Point
		}
	}
	fig.ProjectedRevenue = fig.TotalForecast * revenuePerUnit

	if histAvg := series.Mean(); histAvg != 0 {
		avgForecast := fig.TotalForecast / float64(len(future))
		fig.GrowthVsHistoricalPct = (avgForecast - histAvg) / histAvg * 100.0
	}
	return fig
}
