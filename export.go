package retailvision

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/retailvision/retailvision/dataset"
	"github.com/retailvision/retailvision/forecast"
)

// WriteForecastCSV writes the future forecast rows in the export schema, one
// row per forecast date ordered ascending. All estimates are rounded to whole
// units.
func WriteForecastCSV(w io.Writer, future []forecast.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Day", "Expected Sales", "Minimum", "Maximum"}); err != nil {
		return err
	}
	for _, row := range future {
		record := []string{
			row.Date.Format(dataset.DateLayout),
			row.Date.Weekday().String(),
			strconv.Itoa(int(math.Round(row.Point))),
			strconv.Itoa(int(math.Round(row.Lower))),
			strconv.Itoa(int(math.Round(row.Upper))),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReportText renders the plain-text business report: forecast period, totals,
// peak day, and the recommended action list.
func ReportText(res *Results, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "SALES PREDICTION REPORT\n")
	fmt.Fprintf(&b, "Created: %s\n\n", now.Format("02 January 2006"))
	fmt.Fprintf(&b, "---\n\n")

	fmt.Fprintf(&b, "FORECAST DETAILS:\n")
	fmt.Fprintf(&b, "Period: %d days\n", res.Config.HorizonDays)
	if len(res.Future) > 0 {
		fmt.Fprintf(&b, "From: %s\n", res.FirstForecastDate().Format(dataset.DateLayout))
		fmt.Fprintf(&b, "To: %s\n", res.LastForecastDate().Format(dataset.DateLayout))
	}
	b.WriteString("\n")

	var total float64
	peak := forecast.Row{Point: math.Inf(-1)}
	for _, row := range res.Future {
		total += row.Point
		if row.Point > peak.Point {
			peak = row
		}
	}
	avg := 0.0
	if len(res.Future) > 0 {
		avg = total / float64(len(res.Future))
	}

	fmt.Fprintf(&b, "KEY NUMBERS:\n")
	fmt.Fprintf(&b, "- Expected Total Sales: %.0f units\n", total)
	fmt.Fprintf(&b, "- Average Per Day: %.0f units\n", avg)
	if len(res.Future) > 0 {
		fmt.Fprintf(&b, "- Peak Sales Day: %s, %s\n", peak.Date.Weekday(), peak.Date.Format(dataset.DateLayout))
		fmt.Fprintf(&b, "  Expected: %.0f units\n", peak.Point)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "RECOMMENDED ACTIONS:\n")
	fmt.Fprintf(&b, "1. Stock Level: Order approximately %.0f units\n", total)
	if len(res.Future) > 0 {
		fmt.Fprintf(&b, "2. Peak Day Prep: Extra inventory for %s\n", peak.Date.Weekday())
	} else {
		fmt.Fprintf(&b, "2. Peak Day Prep: Extra inventory for peak days\n")
	}
	fmt.Fprintf(&b, "3. Staffing: More employees on high-volume days\n")
	fmt.Fprintf(&b, "4. Tracking: Compare actual vs predicted daily\n")

	if res.Accuracy != nil {
		b.WriteString("\n")
		fmt.Fprintf(&b, "MODEL ACCURACY:\n")
		fmt.Fprintf(&b, "- Accuracy: %.1f%% (%s)\n", res.Accuracy.AccuracyPct, res.Accuracy.Rating)
		fmt.Fprintf(&b, "- Typical Error: +/-%.0f units\n", res.Accuracy.RMSE)
	}

	if len(res.Alerts) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "ALERTS:\n")
		for _, alert := range res.Alerts {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", strings.ToUpper(string(alert.Severity)), alert.Title, alert.Message)
		}
	}

	return b.String()
}
