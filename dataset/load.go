package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingColumns = errors.New("missing required columns")
	ErrEmptyDataset   = errors.New("dataset has no rows")
	ErrDateFormat     = errors.New("cannot parse date, use DD-MM-YYYY format")
)

const (
	// DateLayout is the primary expected date format, day first.
	DateLayout = "02-01-2006"

	// MinRecommendedRows is the row count below which forecast quality is
	// expected to degrade.
	MinRecommendedRows = 30

	// LargeRowThreshold flags datasets that will be slow to process.
	LargeRowThreshold = 1_000_000

	// MemoryThresholdBytes is the materialized size above which the caller
	// may opt into subsampling.
	MemoryThresholdBytes = 100 << 20
)

// fallback layouts attempted when the primary day-first layout fails
var genericDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"01-02-2006",
	time.RFC3339,
}

// WarningKind identifies an advisory condition raised during loading. None of
// these block the pipeline.
type WarningKind string

const (
	WarnSmallDataset   WarningKind = "small_dataset"
	WarnLargeDataset   WarningKind = "large_dataset"
	WarnMemoryPressure WarningKind = "memory_pressure"
	WarnRowsRemoved    WarningKind = "rows_removed"
	WarnSampled        WarningKind = "sampled"
)

// Warning is an advisory diagnostic attached to a load result.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// LoadResult carries the cleaned table, its daily aggregation, and any
// advisory warnings raised along the way.
type LoadResult struct {
	Table    *Table
	Series   *DailySeries
	Warnings []Warning
}

// Load reads a raw table from the source, validates it against the required
// schema, cleans invalid rows, and aggregates it into a daily series. Schema,
// empty dataset, and date format problems are fatal. Everything else is
// advisory.
func Load(src DataSource) (*LoadResult, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	r, err := src.open()
	if err != nil {
		return nil, fmt.Errorf("unable to open data source %q, %w", src.Name(), err)
	}
	defer r.Close()

	tbl, err := ReadTable(r)
	if err != nil {
		return nil, err
	}
	return Prepare(tbl)
}

// Prepare validates and cleans an already parsed table, then aggregates it.
// Preparing an already cleaned table removes no additional rows.
func Prepare(tbl *Table) (*LoadResult, error) {
	var warnings []Warning

	if tbl.NumRows() < MinRecommendedRows {
		warnings = append(warnings, Warning{
			Kind:    WarnSmallDataset,
			Message: fmt.Sprintf("only %d rows, forecasts need at least %d for reliable results", tbl.NumRows(), MinRecommendedRows),
		})
	}
	if tbl.NumRows() > LargeRowThreshold {
		warnings = append(warnings, Warning{
			Kind:    WarnLargeDataset,
			Message: fmt.Sprintf("%d rows, processing may take longer", tbl.NumRows()),
		})
	}
	if sz := tbl.MemoryBytes(); sz > MemoryThresholdBytes {
		warnings = append(warnings, Warning{
			Kind:    WarnMemoryPressure,
			Message: fmt.Sprintf("dataset is %.1fMB in memory, consider subsampling", float64(sz)/(1<<20)),
		})
	}

	cleaned, removed := Clean(tbl)
	if removed > 0 {
		warnings = append(warnings, Warning{
			Kind:    WarnRowsRemoved,
			Message: fmt.Sprintf("removed %d rows with negative units_sold", removed),
		})
		slog.Warn("removed rows with negative units_sold", "rows", removed)
	}

	series := Aggregate(cleaned)
	return &LoadResult{
		Table:    cleaned,
		Series:   series,
		Warnings: warnings,
	}, nil
}

// ReadTable parses CSV content into a raw table. The header is required and
// must contain every required column. Dates are parsed day-first with a
// best-effort generic fallback.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read csv header, %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, exists := colIdx[name]; !exists {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	tbl := &Table{Columns: header}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read csv row, %w", err)
		}

		rec, err := parseRecord(row, colIdx)
		if err != nil {
			return nil, err
		}
		tbl.Records = append(tbl.Records, rec)
	}
	if len(tbl.Records) == 0 {
		return nil, ErrEmptyDataset
	}
	return tbl, nil
}

func parseRecord(row []string, colIdx map[string]int) (RawRecord, error) {
	field := func(name string) string {
		idx, exists := colIdx[name]
		if !exists || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	date, err := parseDate(field(ColDate))
	if err != nil {
		return RawRecord{}, err
	}

	units, err := strconv.ParseFloat(field(ColUnitsSold), 64)
	if err != nil {
		return RawRecord{}, fmt.Errorf("unable to parse units_sold %q, %w", field(ColUnitsSold), err)
	}

	rec := RawRecord{
		Date:       date,
		StoreID:    field(ColStoreID),
		SKUID:      field(ColSKUID),
		UnitsSold:  int(units),
		TotalPrice: parseOptionalFloat(field(ColTotalPrice)),
		BasePrice:  parseOptionalFloat(field(ColBasePrice)),
		IsFeatured: parseFlag(field(ColIsFeatured)),
		IsDisplay:  parseFlag(field(ColIsDisplay)),
	}
	return rec, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w, got %q", ErrDateFormat, s)
}

func parseOptionalFloat(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseFlag(s string) bool {
	return s == "1" || strings.EqualFold(s, "true")
}

// Clean removes rows that violate the units_sold >= 0 invariant. Violating
// rows are dropped, never corrected. Returns the cleaned table and the number
// of rows removed.
func Clean(tbl *Table) (*Table, int) {
	cleaned := &Table{Columns: tbl.Columns}
	cleaned.Records = make([]RawRecord, 0, len(tbl.Records))
	for _, rec := range tbl.Records {
		if rec.UnitsSold < 0 {
			continue
		}
		cleaned.Records = append(cleaned.Records, rec)
	}
	return cleaned, len(tbl.Records) - len(cleaned.Records)
}

// WriteTableCSV writes the table back out in the input schema. Used by the
// sample generator and export paths.
func WriteTableCSV(w io.Writer, tbl *Table) error {
	cw := csv.NewWriter(w)
	header := []string{ColDate, ColStoreID, ColSKUID, ColTotalPrice, ColBasePrice, ColIsFeatured, ColIsDisplay, ColUnitsSold}
	if err := cw.Write(header); err != nil {
		return err
	}
	flag := func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	}
	price := func(v float64) string {
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	for _, rec := range tbl.Records {
		row := []string{
			rec.Date.Format(DateLayout),
			rec.StoreID,
			rec.SKUID,
			price(rec.TotalPrice),
			price(rec.BasePrice),
			flag(rec.IsFeatured),
			flag(rec.IsDisplay),
			strconv.Itoa(rec.UnitsSold),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
