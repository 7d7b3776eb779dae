package dataset

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// QualityBand buckets an overall quality score.
type QualityBand string

const (
	QualityExcellent        QualityBand = "Excellent"
	QualityGood             QualityBand = "Good"
	QualityNeedsImprovement QualityBand = "Needs Improvement"
)

// QualityReport summarizes dataset health before forecasting. All advisory,
// nothing here blocks the pipeline.
type QualityReport struct {
	Completeness map[string]float64 `json:"completeness"`

	ZeroSalesRows int `json:"zero_sales_rows"`
	DuplicateRows int `json:"duplicate_rows"`
	InvalidPrices int `json:"invalid_prices"`
	OutlierRows   int `json:"outlier_rows"`

	Score float64     `json:"score"`
	Band  QualityBand `json:"band"`
}

// AssessQuality computes column completeness, duplicate and outlier counts,
// and an overall quality score penalized for outliers and missing values.
func AssessQuality(tbl *Table) *QualityReport {
	n := tbl.NumRows()
	r := &QualityReport{Completeness: make(map[string]float64)}
	if n == 0 {
		return r
	}

	var missingTotalPrice, missingBasePrice int
	units := make([]float64, 0, n)
	seen := make(map[RawRecord]struct{}, n)
	for _, rec := range tbl.Records {
		if rec.UnitsSold == 0 {
			r.ZeroSalesRows++
		}
		if rec.HasTotalPrice() && rec.TotalPrice <= 0 {
			r.InvalidPrices++
		}
		if !rec.HasTotalPrice() {
			missingTotalPrice++
		}
		if !rec.HasBasePrice() {
			missingBasePrice++
		}
		units = append(units, float64(rec.UnitsSold))

		// NaN prices never compare equal so normalize them out of the key
		key := rec
		if !rec.HasTotalPrice() {
			key.TotalPrice = 0
		}
		if !rec.HasBasePrice() {
			key.BasePrice = 0
		}
		if _, exists := seen[key]; exists {
			r.DuplicateRows++
			continue
		}
		seen[key] = struct{}{}
	}

	for _, col := range RequiredColumns {
		r.Completeness[col] = 100.0
	}
	if tbl.HasColumn(ColTotalPrice) {
		r.Completeness[ColTotalPrice] = 100.0 * float64(n-missingTotalPrice) / float64(n)
	}
	if tbl.HasColumn(ColBasePrice) {
		r.Completeness[ColBasePrice] = 100.0 * float64(n-missingBasePrice) / float64(n)
	}

	r.OutlierRows = len(detectOutliers(units, 0.25, 0.75, 1.5))

	var completenessSum float64
	for _, pct := range r.Completeness {
		completenessSum += pct
	}
	completenessScore := completenessSum / float64(len(r.Completeness))

	outlierPenalty := math.Min(20, float64(r.OutlierRows)/float64(n)*100)
	missingPenalty := math.Min(10, float64(missingTotalPrice+missingBasePrice)/float64(n*len(tbl.Columns))*100)

	r.Score = math.Max(0, completenessScore-outlierPenalty-missingPenalty)
	switch {
	case r.Score >= 90:
		r.Band = QualityExcellent
	case r.Score >= 80:
		r.Band = QualityGood
	default:
		r.Band = QualityNeedsImprovement
	}
	return r
}

// detectOutliers flags indexes outside the Tukey fences built from the given
// percentile range.
func detectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	if len(y) == 0 {
		return nil
	}
	yCopy := make([]float64, len(y))
	copy(yCopy, y)
	sort.Float64s(yCopy)

	lower := stat.Quantile(lowerPerc, stat.Empirical, yCopy, nil)
	upper := stat.Quantile(upperPerc, stat.Empirical, yCopy, nil)
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if y[i] > upper || y[i] < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}
