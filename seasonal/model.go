package seasonal

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrInsufficientData   = errors.New("insufficient training data, need at least 2 points")
	ErrUntrainedModel     = errors.New("model has not been fit yet")
	ErrDataLenMismatch    = errors.New("time and value slices have different lengths")
	ErrNonChronological   = errors.New("training times must be strictly increasing")
	ErrDegenerateResidual = errors.New("residual variance is not finite")
)

// Model is a seasonal regression over a univariate time series. Fit once,
// then Predict at any set of times.
type Model struct {
	opt    *Options
	design *design

	coef        []float64
	residualStd float64
	zscore      float64
	trainEnd    time.Time
	trained     bool
}

// New creates an untrained model with the given options. Nil options fall
// back to the defaults.
func New(opt *Options) (*Model, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if opt.HolidayRegion != "" {
		if _, err := regionHolidays(opt.HolidayRegion); err != nil {
			return nil, err
		}
	}
	return &Model{opt: opt}, nil
}

// Prediction carries the point estimates and uncertainty bounds for a set of
// prediction times. Lower <= Point <= Upper holds for every index.
type Prediction struct {
	T     []time.Time
	Point []float64
	Lower []float64
	Upper []float64
}

// Fit trains the model on the given times and observations. NaN observations
// are dropped before fitting. Fails with ErrInsufficientData when fewer than
// two usable points remain.
func (m *Model) Fit(t []time.Time, y []float64) error {
	if len(t) != len(y) {
		return fmt.Errorf("time has length %d but values has length %d, %w", len(t), len(y), ErrDataLenMismatch)
	}

	trainT := make([]time.Time, 0, len(t))
	trainY := make([]float64, 0, len(y))
	for i := range t {
		if math.IsNaN(y[i]) {
			continue
		}
		trainT = append(trainT, t[i])
		trainY = append(trainY, y[i])
	}
	if len(trainT) < 2 {
		return ErrInsufficientData
	}
	for i := 1; i < len(trainT); i++ {
		if !trainT[i].After(trainT[i-1]) {
			return fmt.Errorf("non-chronological at index %d, %w", i, ErrNonChronological)
		}
	}

	d, err := newDesign(m.opt, trainT)
	if err != nil {
		return err
	}

	x, err := d.matrix(trainT)
	if err != nil {
		return fmt.Errorf("unable to generate training features, %w", err)
	}

	coef, err := solvePenalized(x, trainY, d.columns())
	if err != nil {
		return fmt.Errorf("unable to solve least squares system, %w", err)
	}

	m.design = d
	m.coef = coef
	m.trainEnd = trainT[len(trainT)-1]
	m.trained = true

	fitted, err := m.pointEstimates(trainT)
	if err != nil {
		m.trained = false
		return err
	}
	residual := make([]float64, len(trainY))
	for i := range trainY {
		residual[i] = trainY[i] - fitted[i]
	}
	m.residualStd = stat.StdDev(residual, nil)
	if math.IsNaN(m.residualStd) || math.IsInf(m.residualStd, 0) {
		m.trained = false
		return ErrDegenerateResidual
	}

	width := m.opt.intervalWidth()
	m.zscore = distuv.UnitNormal.Quantile(0.5 + width/2)
	return nil
}

// Predict generates point estimates with uncertainty bounds for the given
// times. The model must be trained first.
func (m *Model) Predict(t []time.Time) (*Prediction, error) {
	if !m.trained {
		return nil, ErrUntrainedModel
	}
	if len(t) == 0 {
		return &Prediction{}, nil
	}
	point, err := m.pointEstimates(t)
	if err != nil {
		return nil, err
	}

	margin := m.zscore * m.residualStd
	lower := make([]float64, len(point))
	upper := make([]float64, len(point))
	for i, v := range point {
		lower[i] = v - margin
		upper[i] = v + margin
	}
	return &Prediction{
		T:     append([]time.Time(nil), t...),
		Point: point,
		Lower: lower,
		Upper: upper,
	}, nil
}

func (m *Model) pointEstimates(t []time.Time) ([]float64, error) {
	x, err := m.design.matrix(t)
	if err != nil {
		return nil, fmt.Errorf("unable to generate prediction features, %w", err)
	}

	coefMx := mat.NewDense(len(m.coef), 1, m.coef)
	var res mat.Dense
	res.Mul(x, coefMx)
	return mat.Col(nil, 0, &res), nil
}

// TrainEnd returns the final training time.
func (m *Model) TrainEnd() time.Time {
	return m.trainEnd
}

// ResidualStd returns the standard deviation of the training residual, the
// basis of the uncertainty band.
func (m *Model) ResidualStd() float64 {
	return m.residualStd
}

// Coefficients returns the fitted weights keyed by feature label.
func (m *Model) Coefficients() (map[string]float64, error) {
	if !m.trained {
		return nil, ErrUntrainedModel
	}
	cols := m.design.columns()
	coef := make(map[string]float64, len(cols))
	for i, c := range cols {
		coef[c.label] = m.coef[i]
	}
	return coef, nil
}

// solvePenalized solves min ||y - Xb||^2 + sum_j lambda_j b_j^2 by stacking
// sqrt(lambda) rows under the design matrix and running QR least squares.
func solvePenalized(x *mat.Dense, y []float64, cols []featureColumn) ([]float64, error) {
	rows, n := x.Dims()

	aug := mat.NewDense(rows+n, n, nil)
	aug.Slice(0, rows, 0, n).(*mat.Dense).Copy(x)
	for j, c := range cols {
		if c.penalty > 0 {
			aug.Set(rows+j, j, math.Sqrt(c.penalty))
		}
	}

	b := mat.NewDense(rows+n, 1, nil)
	for i, v := range y {
		b.Set(i, 0, v)
	}

	var qr mat.QR
	qr.Factorize(aug)

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, b); err != nil {
		return nil, err
	}
	return mat.Col(nil, 0, &beta), nil
}
