package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// DefaultSampleSeed keeps generated sample tables and subsampling reproducible
// within a session.
const DefaultSampleSeed = 42

// SampleParams controls the synthetic retail table generator.
type SampleParams struct {
	Days      int
	Stores    int
	SKUs      int
	StartDate time.Time
}

// NewDefaultSampleParams returns a 90 day, 10 store, 50 SKU sample
// configuration starting 90 days before today.
func NewDefaultSampleParams() SampleParams {
	return SampleParams{
		Days:   90,
		Stores: 10,
		SKUs:   50,
	}
}

// GenerateSample produces a deterministic synthetic retail table with weekend,
// holiday season, and per-store effects baked in so the forecaster has real
// structure to find.
func GenerateSample(seed uint64, params SampleParams) *Table {
	if params.Days <= 0 {
		params.Days = 90
	}
	if params.Stores <= 0 {
		params.Stores = 10
	}
	if params.SKUs < 10 {
		params.SKUs = 50
	}
	start := params.StartDate
	if start.IsZero() {
		start = time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -params.Days)
	}

	rnd := rand.New(rand.NewPCG(seed, seed))

	storeIDs := make([]string, params.Stores)
	for i := range storeIDs {
		storeIDs[i] = fmt.Sprintf("STORE%d", 1000+i)
	}
	skuIDs := make([]string, params.SKUs)
	for i := range skuIDs {
		skuIDs[i] = fmt.Sprintf("SKU%d", 5000+i)
	}

	tbl := &Table{
		Columns: []string{ColDate, ColStoreID, ColSKUID, ColTotalPrice, ColBasePrice, ColIsFeatured, ColIsDisplay, ColUnitsSold},
	}

	for i := 0; i < params.Days; i++ {
		date := start.AddDate(0, 0, i)

		weekendMult := 1.0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekendMult = 1.4
		}

		holidayMult := 1.0
		if (date.Month() == time.December && date.Day() >= 20) || (date.Month() == time.January && date.Day() <= 5) {
			holidayMult = 1.6
		}

		seasonalMult := 1.0
		switch date.Month() {
		case time.November, time.December:
			seasonalMult = 1.3
		case time.January, time.February:
			seasonalMult = 0.85
		}

		for _, storeID := range storeIDs {
			storePerf := 0.7 + rnd.Float64()*0.6

			productsSold := 5 + rnd.IntN(params.SKUs/2-4)
			for _, skuIdx := range rnd.Perm(params.SKUs)[:productsSold] {
				baseSales := float64(10 + rnd.IntN(91))
				finalSales := int(baseSales * weekendMult * holidayMult * seasonalMult * storePerf * (0.8 + rnd.Float64()*0.4))
				if finalSales < 1 {
					finalSales = 1
				}

				basePrice := 100 + rnd.Float64()*900
				isFeatured := rnd.IntN(4) == 0
				isDisplay := rnd.IntN(4) == 0

				totalPrice := basePrice * (0.95 + rnd.Float64()*0.10)
				if isFeatured {
					totalPrice = basePrice * (0.75 + rnd.Float64()*0.15)
				}

				tbl.Records = append(tbl.Records, RawRecord{
					Date:       date,
					StoreID:    storeID,
					SKUID:      skuIDs[skuIdx],
					UnitsSold:  finalSales,
					TotalPrice: math.Round(totalPrice*100) / 100,
					BasePrice:  math.Round(basePrice*100) / 100,
					IsFeatured: isFeatured,
					IsDisplay:  isDisplay,
				})
			}
		}
	}
	return tbl
}

// Subsample returns a table holding roughly percent of the input rows chosen
// with a fixed seed so repeated runs over the same input are identical.
// Percent is clamped to [10, 50].
func Subsample(tbl *Table, percent int, seed uint64) *Table {
	if percent < 10 {
		percent = 10
	}
	if percent > 50 {
		percent = 50
	}
	n := len(tbl.Records) * percent / 100
	if n < 1 {
		n = 1
	}

	rnd := rand.New(rand.NewPCG(seed, seed))
	idxs := rnd.Perm(len(tbl.Records))[:n]

	out := &Table{Columns: tbl.Columns}
	out.Records = make([]RawRecord, 0, n)
	for _, idx := range idxs {
		out.Records = append(out.Records, tbl.Records[idx])
	}
	return out
}
