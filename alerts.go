package retailvision

import (
	"fmt"
	"time"

	"github.com/retailvision/retailvision/dataset"
	"github.com/retailvision/retailvision/forecast"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Severity orders alerts from informational to action-required.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Alert is a structured business alert derived from forecast versus
// historical statistics. Purely derived, never stored.
type Alert struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Action   string   `json:"action"`
}

// Rule thresholds relative to historical statistics.
const (
	dropFactor     = 0.5
	spikeFactor    = 1.5
	volatileFactor = 1.5
	weekendFactor  = 1.3
)

// EvaluateAlerts runs every threshold rule over the future forecast slice.
// Rules fire independently, zero or more may match. When nothing fires a
// single all-clear entry is returned.
func EvaluateAlerts(future []forecast.Row, series *dataset.DailySeries) []Alert {
	var alerts []Alert
	if len(future) == 0 || series.Len() == 0 {
		return alerts
	}

	points := make([]float64, len(future))
	for i, row := range future {
		points[i] = row.Point
	}

	minForecast := floats.Min(points)
	maxForecast := floats.Max(points)
	histMean := series.Mean()

	if minForecast < histMean*dropFactor {
		alerts = append(alerts, Alert{
			Severity: SeverityError,
			Title:    "Significant Sales Drop Predicted",
			Message:  fmt.Sprintf("sales may drop to %.0f units against a historical average of %.0f", minForecast, histMean),
			Action:   "Consider promotional campaigns or inventory adjustments",
		})
	}

	if maxForecast > histMean*spikeFactor {
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Title:    "High Demand Period Ahead",
			Message:  fmt.Sprintf("peak demand of %.0f units expected", maxForecast),
			Action:   "Ensure adequate inventory and staffing",
		})
	}

	// fires even when history is flat, any forecast swing beats a zero
	// historical deviation
	if histStd := series.StdDev(); len(points) > 1 {
		forecastStd := stat.StdDev(points, nil)
		if forecastStd > histStd*volatileFactor {
			msg := "forecast volatility is high against a flat history"
			if histStd > 0 {
				msg = fmt.Sprintf("forecast volatility is %.1fx higher than historical", forecastStd/histStd)
			}
			alerts = append(alerts, Alert{
				Severity: SeverityInfo,
				Title:    "High Volatility Period",
				Message:  msg,
				Action:   "Prepare for variable demand patterns",
			})
		}
	}

	if alert, fired := weekendStrengthAlert(future); fired {
		alerts = append(alerts, alert)
	}

	if len(alerts) == 0 {
		alerts = append(alerts, Alert{
			Severity: SeverityInfo,
			Title:    "All Clear",
			Message:  "no significant business alerts at this time",
			Action:   "Continue monitoring actual versus predicted sales",
		})
	}
	return alerts
}

// weekendStrengthAlert only evaluates when the horizon covers at least one
// weekend day and one weekday.
func weekendStrengthAlert(future []forecast.Row) (Alert, bool) {
	var weekendSum, weekdaySum float64
	var weekendCnt, weekdayCnt int
	for _, row := range future {
		switch row.Date.Weekday() {
		case time.Saturday, time.Sunday:
			weekendSum += row.Point
			weekendCnt++
		default:
			weekdaySum += row.Point
			weekdayCnt++
		}
	}
	if weekendCnt == 0 || weekdayCnt == 0 {
		return Alert{}, false
	}

	weekendAvg := weekendSum / float64(weekendCnt)
	weekdayAvg := weekdaySum / float64(weekdayCnt)
	if weekendAvg <= weekdayAvg*weekendFactor {
		return Alert{}, false
	}
	return Alert{
		Severity: SeverityInfo,
		Title:    "Strong Weekend Performance Expected",
		Message:  fmt.Sprintf("weekend average %.0f units versus weekday %.0f", weekendAvg, weekdayAvg),
		Action:   "Optimize weekend staffing and inventory",
	}, true
}
