package seasonal

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
)

const (
	labelIntercept = "intercept"
	labelTrend     = "trend"
)

// featureColumn pairs a design matrix column label with its L2 penalty. A
// penalty of 0 leaves the coefficient unregularized.
type featureColumn struct {
	label   string
	penalty float64
}

// design holds everything needed to regenerate an identical design matrix for
// both training and prediction times.
type design struct {
	opt *Options

	trainStart time.Time
	trainEnd   time.Time

	changepoints []time.Time
	holidayNames []string
}

func newDesign(opt *Options, trainT []time.Time) (*design, error) {
	d := &design{
		opt:        opt,
		trainStart: trainT[0],
		trainEnd:   trainT[len(trainT)-1],
	}

	// candidate changepoints are evenly spaced over the leading portion of
	// the training window
	num := opt.ChangepointOptions.Num
	if num > len(trainT)-2 {
		num = len(trainT) - 2
	}
	if num > 0 {
		window := d.trainEnd.Sub(d.trainStart)
		cpWindow := time.Duration(float64(window) * changepointRangeFrac)
		step := cpWindow / time.Duration(num+1)
		for i := 1; i <= num; i++ {
			d.changepoints = append(d.changepoints, d.trainStart.Add(step*time.Duration(i)))
		}
	}

	if opt.HolidayRegion != "" {
		hols, err := regionHolidays(opt.HolidayRegion)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(hols))
		for _, hol := range hols {
			names = append(names, hol.Name)
		}
		sort.Strings(names)
		d.holidayNames = names
	}
	return d, nil
}

// columns returns the ordered feature columns with their penalties. The
// ordering is stable across fit and predict.
func (d *design) columns() []featureColumn {
	cols := []featureColumn{
		{label: labelIntercept},
		{label: labelTrend},
	}

	cpPenalty := 1.0 / d.opt.changepointPriorScale()
	for i := range d.changepoints {
		cols = append(cols, featureColumn{
			label:   fmt.Sprintf("cp_%02d", i),
			penalty: cpPenalty,
		})
	}

	seasPenalty := 1.0 / d.opt.seasonalityPriorScale()
	for _, seasCfg := range d.opt.Seasonalities {
		for order := 1; order <= seasCfg.Orders; order++ {
			cols = append(cols,
				featureColumn{label: fmt.Sprintf("seas_%s_%02d_sin", seasCfg.Name, order), penalty: seasPenalty},
				featureColumn{label: fmt.Sprintf("seas_%s_%02d_cos", seasCfg.Name, order), penalty: seasPenalty},
			)
		}
	}

	holPenalty := 1.0 / d.opt.holidayPriorScale()
	for _, name := range d.holidayNames {
		cols = append(cols, featureColumn{
			label:   "hol_" + strings.ReplaceAll(name, " ", "_"),
			penalty: holPenalty,
		})
	}
	return cols
}

// matrix generates the design matrix for the given times, one row per time
// point in the column order reported by columns.
func (d *design) matrix(t []time.Time) (*mat.Dense, error) {
	cols := d.columns()
	x := mat.NewDense(len(t), len(cols), nil)

	span := d.trainEnd.Sub(d.trainStart).Seconds()
	if span <= 0 {
		span = 1
	}
	scaled := make([]float64, len(t))
	for i, ti := range t {
		scaled[i] = ti.Sub(d.trainStart).Seconds() / span
	}

	col := 0
	for i := range t {
		x.Set(i, col, 1.0)
	}
	col++

	for i := range t {
		x.Set(i, col, scaled[i])
	}
	col++

	for _, cp := range d.changepoints {
		cpScaled := cp.Sub(d.trainStart).Seconds() / span
		for i := range t {
			if v := scaled[i] - cpScaled; v > 0 {
				x.Set(i, col, v)
			}
		}
		col++
	}

	for _, seasCfg := range d.opt.Seasonalities {
		period := seasCfg.Period.Seconds()
		for order := 1; order <= seasCfg.Orders; order++ {
			omega := 2.0 * math.Pi * float64(order) / period
			for i, ti := range t {
				epoch := float64(ti.Unix())
				x.Set(i, col, math.Sin(omega*epoch))
				x.Set(i, col+1, math.Cos(omega*epoch))
			}
			col += 2
		}
	}

	if len(d.holidayNames) > 0 {
		start, end := t[0], t[len(t)-1]
		dates, err := holidayDates(d.opt.HolidayRegion, start, end)
		if err != nil {
			return nil, err
		}
		for _, name := range d.holidayNames {
			for i, ti := range t {
				for _, hd := range dates[name] {
					if sameDay(ti, hd) {
						x.Set(i, col, 1.0)
						break
					}
				}
			}
			col++
		}
	}

	return x, nil
}
