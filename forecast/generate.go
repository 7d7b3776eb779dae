package forecast

import (
	"fmt"
	"time"
)

// Row is a single forecast table entry. Lower <= Point <= Upper.
type Row struct {
	Date  time.Time `json:"date"`
	Point float64   `json:"point"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

// Generate produces the forecast table covering every historical date plus
// horizonDays contiguous future calendar days starting the day after the last
// historical date. Idempotent for the same model and horizon.
func Generate(m *Model, horizonDays int) ([]Row, error) {
	if horizonDays < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidHorizon, horizonDays)
	}

	t := make([]time.Time, 0, len(m.historyDates)+horizonDays)
	t = append(t, m.historyDates...)
	for i := 1; i <= horizonDays; i++ {
		t = append(t, m.lastHistorical.AddDate(0, 0, i))
	}

	pred, err := m.inner.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict over %d points, %w", len(t), err)
	}

	rows := make([]Row, len(t))
	for i := range t {
		rows[i] = Row{
			Date:  pred.T[i],
			Point: pred.Point[i],
			Lower: pred.Lower[i],
			Upper: pred.Upper[i],
		}
	}
	return rows, nil
}

// FutureOnly filters the table down to rows strictly after the last
// historical date. Consumers locate future rows by date comparison, never by
// slicing, since the table can contain interpolated historical dates.
func FutureOnly(rows []Row, lastHistorical time.Time) []Row {
	future := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.Date.After(lastHistorical) {
			future = append(future, row)
		}
	}
	return future
}
