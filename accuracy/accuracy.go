// Package accuracy backtests forecast quality by holding out the trailing
// portion of the historical series and scoring a standardized model against
// it. The backtest configuration is fixed on purpose so accuracy numbers stay
// comparable across user configurations.
package accuracy

import (
	"errors"
	"fmt"
	"math"

	"github.com/retailvision/retailvision/dataset"
	"github.com/retailvision/retailvision/seasonal"
)

var ErrNoHoldout = errors.New("no holdout points after split")

// HoldoutFraction is the trailing share of the series reserved for scoring.
const HoldoutFraction = 0.2

// epsilon stabilizes MAPE when actuals touch zero
const epsilon = 1e-10

// RatingBand buckets an accuracy percentage.
type RatingBand string

const (
	RatingExcellent        RatingBand = "Excellent"
	RatingGood             RatingBand = "Good"
	RatingFair             RatingBand = "Fair"
	RatingNeedsImprovement RatingBand = "Needs Improvement"
)

// Report is the stateless output of one backtest.
type Report struct {
	RMSE        float64    `json:"rmse"`
	AccuracyPct float64    `json:"accuracy_pct"`
	Rating      RatingBand `json:"rating"`

	TrainPoints   int `json:"train_points"`
	HoldoutPoints int `json:"holdout_points"`
}

// Evaluate splits the series chronologically, fits the standardized backtest
// model on the leading 80%, predicts the held-out dates, and scores the
// result. Fails with seasonal.ErrInsufficientData when the training slice has
// fewer than 2 points.
func Evaluate(series *dataset.DailySeries) (*Report, error) {
	train, holdout := series.Split(1 - HoldoutFraction)
	if train.Len() < 2 {
		return nil, seasonal.ErrInsufficientData
	}
	if holdout.Len() == 0 {
		return nil, ErrNoHoldout
	}

	// fixed configuration: weekly seasonality only, conservative trend
	opt := &seasonal.Options{
		Seasonalities: []seasonal.SeasonalityConfig{
			seasonal.NewWeeklySeasonalityConfig(3),
		},
		ChangepointOptions: seasonal.ChangepointOptions{
			Num:        seasonal.DefaultAutoChangepoints,
			PriorScale: 0.05,
		},
	}
	model, err := seasonal.New(opt)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize backtest model, %w", err)
	}
	if err := model.Fit(train.Dates, train.Units); err != nil {
		return nil, fmt.Errorf("unable to fit backtest model, %w", err)
	}

	pred, err := model.Predict(holdout.Dates)
	if err != nil {
		return nil, fmt.Errorf("unable to predict holdout, %w", err)
	}

	// truncate both sides to the shorter length
	actual := holdout.Units
	predicted := pred.Point
	if len(predicted) < len(actual) {
		actual = actual[:len(predicted)]
	} else {
		predicted = predicted[:len(actual)]
	}

	rmse := RMSE(actual, predicted)
	mape := MAPE(actual, predicted)
	acc := math.Max(0, 100-mape)

	return &Report{
		RMSE:          rmse,
		AccuracyPct:   acc,
		Rating:        Rate(acc),
		TrainPoints:   train.Len(),
		HoldoutPoints: len(actual),
	}, nil
}

// RMSE is the root mean squared error between actual and predicted.
func RMSE(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return math.NaN()
	}
	var sum float64
	for i := range actual {
		diff := actual[i] - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actual)))
}

// MAPE is the mean absolute percent error between actual and predicted, with
// an epsilon guard against zero actuals.
func MAPE(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return math.NaN()
	}
	var sum float64
	for i := range actual {
		sum += math.Abs(actual[i]-predicted[i]) / (actual[i] + epsilon)
	}
	return sum / float64(len(actual)) * 100.0
}

// Rate maps an accuracy percentage to its band. The 90 boundary is inclusive.
func Rate(accuracyPct float64) RatingBand {
	switch {
	case accuracyPct >= 90:
		return RatingExcellent
	case accuracyPct >= 80:
		return RatingGood
	case accuracyPct >= 70:
		return RatingFair
	default:
		return RatingNeedsImprovement
	}
}
