// Package dataset loads, validates, and aggregates raw retail point-of-sale
// tables into the daily sales series consumed by the forecasting pipeline.
package dataset

import (
	"math"
	"time"
)

// Required column names for any input table. Optional price and promotion
// columns are parsed when present.
const (
	ColDate      = "week"
	ColStoreID   = "store_id"
	ColSKUID     = "sku_id"
	ColUnitsSold = "units_sold"

	ColTotalPrice = "total_price"
	ColBasePrice  = "base_price"
	ColIsFeatured = "is_featured_sku"
	ColIsDisplay  = "is_display_sku"
)

// RequiredColumns lists the columns that must be present for a table to be
// usable at all.
var RequiredColumns = []string{ColDate, ColUnitsSold, ColStoreID, ColSKUID}

// RawRecord is a single transaction-level row after parsing. Prices are NaN
// when the source column is absent or blank.
type RawRecord struct {
	Date       time.Time
	StoreID    string
	SKUID      string
	UnitsSold  int
	TotalPrice float64
	BasePrice  float64
	IsFeatured bool
	IsDisplay  bool
}

// HasTotalPrice reports whether the record carries a usable total price.
func (r RawRecord) HasTotalPrice() bool {
	return !math.IsNaN(r.TotalPrice)
}

// HasBasePrice reports whether the record carries a usable base price.
func (r RawRecord) HasBasePrice() bool {
	return !math.IsNaN(r.BasePrice)
}

// Table is a parsed raw input table along with the column set observed in the
// source header.
type Table struct {
	Columns []string
	Records []RawRecord
}

// NumRows returns the number of records in the table.
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// HasColumn reports whether the source header contained the named column.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// MemoryBytes estimates the materialized size of the table. This drives the
// large dataset advisory and the sampling prompt threshold.
func (t *Table) MemoryBytes() int64 {
	if t == nil {
		return 0
	}
	const fixedPerRecord = 96 // time.Time, ints, floats, bools and slice overhead
	var n int64
	for _, r := range t.Records {
		n += fixedPerRecord + int64(len(r.StoreID)) + int64(len(r.SKUID))
	}
	return n
}
