package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/retailvision/retailvision"
	"github.com/retailvision/retailvision/dataset"
	"github.com/retailvision/retailvision/forecast"
	"github.com/retailvision/retailvision/seasonal"
)

var (
	dataPath   string
	outDir     string
	profileCPU bool
	verbose    bool

	days         int
	businessDays int
	rangeStart   string
	rangeEnd     string
	variantName  string
	confidence   int
	focusName    string
	holidays     bool
	regionCode   string
	useSample    bool
	samplePct    int

	sampleDays   int
	sampleStores int
	sampleSKUs   int
	sampleSeed   uint64
)

func main() {
	// Missing .env is fine, flags and defaults cover everything.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "retailvision",
		Short: "Retail sales forecasting from daily sales CSV data",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelInfo
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", envOr("RETAILVISION_DATA", ""), "path to the sales CSV file")
	rootCmd.PersistentFlags().StringVar(&outDir, "out-dir", envOr("RETAILVISION_OUT", "."), "directory for generated artifacts")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose logging")

	rootCmd.AddCommand(forecastCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(sampleCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Fit the configured model and write forecast artifacts",
		Long: `Loads the sales table, fits the selected model variant on the chronological
training split, and writes the forecast table (CSV), a plain-text report, and
an interactive HTML chart into the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if profileCPU {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(outDir)).Stop()
			}

			cfg, err := buildConfig()
			if err != nil {
				return err
			}
			src, err := selectSource()
			if err != nil {
				return err
			}

			opt := &retailvision.RunOptions{SamplePercent: samplePct, SampleSeed: sampleSeed}
			res, err := retailvision.NewPipeline().Run(src, cfg, opt)
			if err != nil {
				return err
			}

			for _, w := range res.Warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w)
			}
			if err := writeArtifacts(res); err != nil {
				return err
			}
			fmt.Print(retailvision.ReportText(res, time.Now()))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "forecast horizon in calendar days")
	cmd.Flags().IntVar(&businessDays, "business-days", 0, "forecast horizon in business days (overrides --days)")
	cmd.Flags().StringVar(&rangeStart, "from", "", "forecast range start date, DD-MM-YYYY (requires --to)")
	cmd.Flags().StringVar(&rangeEnd, "to", "", "forecast range end date, DD-MM-YYYY (requires --from)")
	cmd.Flags().StringVar(&variantName, "variant", "default", "model variant: default, holidays, enhanced")
	cmd.Flags().IntVar(&confidence, "confidence", 95, "confidence level percent, 80 to 99")
	cmd.Flags().StringVar(&focusName, "focus", "auto", "seasonal focus: auto, weekly, monthly, quarterly")
	cmd.Flags().BoolVar(&holidays, "holidays", false, "include holiday effects in the default variant")
	cmd.Flags().StringVar(&regionCode, "region", envOr("RETAILVISION_REGION", "IN"), "holiday calendar region: IN, US, UK, AU")
	cmd.Flags().BoolVar(&useSample, "sample", false, "forecast on generated sample data instead of a file")
	cmd.Flags().IntVar(&samplePct, "sample-pct", 0, "subsample percent for oversized datasets, 10 to 50")
	cmd.Flags().Uint64Var(&sampleSeed, "seed", dataset.DefaultSampleSeed, "seed for sample generation and subsampling")
	cmd.Flags().BoolVar(&profileCPU, "profile", false, "write a CPU profile to the output directory")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the sales table and print a data quality report",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := selectSource()
			if err != nil {
				return err
			}
			loaded, err := dataset.Load(src)
			if err != nil {
				return err
			}
			for _, w := range loaded.Warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w)
			}

			q := dataset.AssessQuality(loaded.Table)
			fmt.Printf("Rows:          %d\n", len(loaded.Table.Records))
			fmt.Printf("Days:          %d\n", loaded.Series.Len())
			fmt.Printf("Quality score: %.1f (%s)\n", q.Score, q.Band)
			fmt.Printf("Zero sales:    %d\n", q.ZeroSalesRows)
			fmt.Printf("Duplicates:    %d\n", q.DuplicateRows)
			fmt.Printf("Outliers:      %d\n", q.OutlierRows)
			return nil
		},
	}
}

func sampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample [output.csv]",
		Short: "Generate a synthetic sales CSV for experimentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := dataset.NewDefaultSampleParams()
			if sampleDays > 0 {
				params.Days = sampleDays
			}
			if sampleStores > 0 {
				params.Stores = sampleStores
			}
			if sampleSKUs > 0 {
				params.SKUs = sampleSKUs
			}

			out := filepath.Join(outDir, "sample_sales.csv")
			if len(args) == 1 {
				out = args[0]
			}
			file, err := os.Create(out)
			if err != nil {
				return err
			}
			defer file.Close()

			tbl := dataset.GenerateSample(sampleSeed, params)
			if err := dataset.WriteTableCSV(file, tbl); err != nil {
				return err
			}
			fmt.Printf("wrote %d rows to %s\n", len(tbl.Records), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&sampleDays, "sample-days", 0, "days of sample history")
	cmd.Flags().IntVar(&sampleStores, "stores", 0, "number of sample stores")
	cmd.Flags().IntVar(&sampleSKUs, "skus", 0, "number of sample SKUs")
	cmd.Flags().Uint64Var(&sampleSeed, "seed", dataset.DefaultSampleSeed, "sample generator seed")
	return cmd
}

func buildConfig() (forecast.Config, error) {
	cfg := forecast.NewDefaultConfig()

	variant, err := forecast.ParseVariant(variantName)
	if err != nil {
		return cfg, err
	}
	focus, err := forecast.ParseFocus(focusName)
	if err != nil {
		return cfg, err
	}
	region, err := seasonal.ParseRegion(regionCode)
	if err != nil {
		return cfg, err
	}

	cfg.Variant = variant
	cfg.Focus = focus
	cfg.ConfidenceLevel = confidence
	cfg.IncludeHolidays = holidays
	cfg.HolidayRegion = region

	switch {
	case rangeStart != "" || rangeEnd != "":
		start, err := time.Parse(dataset.DateLayout, rangeStart)
		if err != nil {
			return cfg, fmt.Errorf("invalid --from date, %w", err)
		}
		end, err := time.Parse(dataset.DateLayout, rangeEnd)
		if err != nil {
			return cfg, fmt.Errorf("invalid --to date, %w", err)
		}
		cfg.HorizonDays, err = forecast.HorizonFromRange(start, end)
		if err != nil {
			return cfg, err
		}
	case businessDays > 0:
		cfg.HorizonDays, err = forecast.HorizonFromBusinessDays(businessDays)
		if err != nil {
			return cfg, err
		}
	default:
		cfg.HorizonDays = days
	}
	return cfg, nil
}

func selectSource() (dataset.DataSource, error) {
	if useSample {
		return dataset.Sample{Seed: sampleSeed, Params: dataset.NewDefaultSampleParams()}, nil
	}
	if dataPath == "" {
		return nil, fmt.Errorf("no data source, pass --data or set RETAILVISION_DATA")
	}
	return dataset.DefaultFile{Path: dataPath}, nil
}

func writeArtifacts(res *retailvision.Results) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	csvPath := filepath.Join(outDir, "forecast.csv")
	file, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	if err := retailvision.WriteForecastCSV(file, res.Future); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	reportPath := filepath.Join(outDir, "forecast_report.txt")
	if err := os.WriteFile(reportPath, []byte(retailvision.ReportText(res, time.Now())), 0o644); err != nil {
		return err
	}

	chartPath := filepath.Join(outDir, "forecast.html")
	if err := retailvision.PlotForecast(res, chartPath); err != nil {
		return err
	}

	slog.Info("wrote forecast artifacts",
		"csv", csvPath, "report", reportPath, "chart", chartPath,
		"fit_duration", res.FitDuration, "cached", res.CacheHit())
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
