package retailvision

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/retailvision/retailvision/aggregate"
	"github.com/retailvision/retailvision/dataset"
	"github.com/retailvision/retailvision/forecast"
)

// LineForecast generates an echart line chart plotting the historical daily
// sales alongside the future forecast with its confidence band.
func LineForecast(series *dataset.DailySeries, future []forecast.Row) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Sales Forecast",
			},
		),
	)

	n := len(series.Dates)
	dates := make([]string, 0, n+len(future))
	historical := make([]opts.LineData, 0, n)
	forecasted := make([]opts.LineData, 0, n+len(future))
	upper := make([]opts.LineData, 0, n+len(future))
	lower := make([]opts.LineData, 0, n+len(future))

	for i, d := range series.Dates {
		dates = append(dates, d.Format(dataset.DateLayout))
		historical = append(historical, opts.LineData{Value: series.Units[i]})
		forecasted = append(forecasted, opts.LineData{Value: "-"})
		upper = append(upper, opts.LineData{Value: "-"})
		lower = append(lower, opts.LineData{Value: "-"})
	}
	for _, row := range future {
		dates = append(dates, row.Date.Format(dataset.DateLayout))
		historical = append(historical, opts.LineData{Value: "-"})
		forecasted = append(forecasted, opts.LineData{Value: row.Point})
		upper = append(upper, opts.LineData{Value: row.Upper})
		lower = append(lower, opts.LineData{Value: row.Lower})
	}

	line = line.SetXAxis(dates)
	line = line.AddSeries("Historical Sales", historical)
	line = line.AddSeries("Forecast", forecasted)
	line = line.AddSeries("Upper Bound", upper)
	line = line.AddSeries("Lower Bound", lower)

	return line
}

// BarBuckets generates a bar chart of summed forecast units per period for one
// rollup granularity.
func BarBuckets(title string, buckets []aggregate.Bucket) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	labels := make([]string, 0, len(buckets))
	data := make([]opts.BarData, 0, len(buckets))
	for _, b := range buckets {
		labels = append(labels, b.Label)
		data = append(data, opts.BarData{Value: b.SumPoint})
	}
	bar.SetXAxis(labels)
	bar.AddSeries("Units", data)
	return bar
}

// PlotForecast renders the forecast chart along with any bucket rollups to an
// html file at the given path.
func PlotForecast(res *Results, path string) error {
	page := components.NewPage()
	page.AddCharts(LineForecast(res.Series, res.Future))

	if res.Buckets != nil {
		if len(res.Buckets.Weekly) > 0 {
			page.AddCharts(BarBuckets("Weekly Forecast", res.Buckets.Weekly))
		}
		if len(res.Buckets.Monthly) > 0 {
			page.AddCharts(BarBuckets("Monthly Forecast", res.Buckets.Monthly))
		}
		if len(res.Buckets.Quarterly) > 0 {
			page.AddCharts(BarBuckets("Quarterly Forecast", res.Buckets.Quarterly))
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create chart file, %w", err)
	}
	defer file.Close()
	return page.Render(file)
}
