package retailvision

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/retailvision/retailvision/accuracy"
	"github.com/retailvision/retailvision/aggregate"
	"github.com/retailvision/retailvision/dataset"
	"github.com/retailvision/retailvision/forecast"
)

// RunOptions tune a single pipeline run.
type RunOptions struct {
	// SamplePercent requests random subsampling, clamped to [10, 50]. Only
	// applied when the table exceeds the memory threshold. 0 disables.
	SamplePercent int

	// SampleSeed keeps subsampling reproducible within a session. 0 uses
	// the default seed.
	SampleSeed uint64
}

// Pipeline runs the full forecast computation for one dashboard session. Each
// session owns its own pipeline, there is no cross-session sharing. Results
// are memoized by the content of the input data and configuration so changing
// neither skips the refit entirely.
type Pipeline struct {
	mu    sync.Mutex
	cache map[string]*Results
}

// NewPipeline creates an empty pipeline with a fresh memoization cache.
func NewPipeline() *Pipeline {
	return &Pipeline{cache: make(map[string]*Results)}
}

// Run loads the source, validates and aggregates it, fits the configured
// model on the chronological 80% training split, and derives every downstream
// result. Validation failures halt the run. A failed accuracy backtest is
// reported in the results without blocking the forecast.
func (p *Pipeline) Run(src dataset.DataSource, cfg forecast.Config, opt *RunOptions) (*Results, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loaded, err := dataset.Load(src)
	if err != nil {
		return nil, err
	}

	tbl := loaded.Table
	warnings := loaded.Warnings
	series := loaded.Series

	if opt != nil && opt.SamplePercent > 0 && tbl.MemoryBytes() > dataset.MemoryThresholdBytes {
		seed := opt.SampleSeed
		if seed == 0 {
			seed = dataset.DefaultSampleSeed
		}
		tbl = dataset.Subsample(tbl, opt.SamplePercent, seed)
		series = dataset.Aggregate(tbl)
		warnings = append(warnings, dataset.Warning{
			Kind:    dataset.WarnSampled,
			Message: fmt.Sprintf("using a %d%% sample, %d rows", opt.SamplePercent, tbl.NumRows()),
		})
		slog.Info("subsampled large dataset", "percent", opt.SamplePercent, "rows", tbl.NumRows())
	}

	key, err := cacheKey(tbl, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to compute cache key, %w", err)
	}

	p.mu.Lock()
	cached, hit := p.cache[key]
	p.mu.Unlock()
	if hit {
		slog.Debug("pipeline cache hit", "key", key[:12])
		out := *cached
		out.cacheHit = true
		return &out, nil
	}

	res, err := p.compute(src.Name(), tbl, series, warnings, cfg)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[key] = res
	p.mu.Unlock()
	return res, nil
}

func (p *Pipeline) compute(sourceName string, tbl *dataset.Table, series *dataset.DailySeries, warnings []dataset.Warning, cfg forecast.Config) (*Results, error) {
	fitStart := time.Now()
	model, err := forecast.Build(series, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to build forecast model, %w", err)
	}
	fitDuration := time.Since(fitStart)
	slog.Info("model fit complete",
		"variant", cfg.Variant.String(),
		"points", series.Len(),
		"duration", fitDuration,
	)

	rows, err := forecast.Generate(model, cfg.HorizonDays)
	if err != nil {
		return nil, fmt.Errorf("unable to generate forecast, %w", err)
	}
	future := forecast.FutureOnly(rows, model.LastHistorical())

	res := &Results{
		SourceName:  sourceName,
		Config:      cfg,
		Warnings:    warnings,
		Series:      series,
		Quality:     dataset.AssessQuality(tbl),
		KPIs:        ComputeKPIs(tbl, series),
		Rows:        rows,
		Future:      future,
		Buckets:     aggregate.Rollup(future, cfg.HorizonDays),
		Alerts:      EvaluateAlerts(future, series),
		FitDuration: fitDuration,
	}
	res.Executive = ComputeExecutiveFigures(future, series, res.KPIs.RevenuePerUnit)

	// accuracy is a standardized backtest, failure only disables the metric
	report, err := accuracy.Evaluate(series)
	if err != nil {
		res.AccuracyErr = err.Error()
		slog.Warn("accuracy evaluation unavailable", "error", err)
	} else {
		res.Accuracy = report
	}

	return res, nil
}

// cacheKey hashes the cleaned table content together with the serialized
// configuration. Identical data and config always map to the same key.
func cacheKey(tbl *dataset.Table, cfg forecast.Config) (string, error) {
	h := sha256.New()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	h.Write(cfgJSON)

	for _, rec := range tbl.Records {
		fmt.Fprintf(h, "%d|%s|%s|%d|%g|%g|%t|%t\n",
			rec.Date.Unix(), rec.StoreID, rec.SKUID, rec.UnitsSold,
			rec.TotalPrice, rec.BasePrice, rec.IsFeatured, rec.IsDisplay,
		)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
