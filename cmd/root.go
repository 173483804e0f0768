// Package cmd implements the ingresos CLI commands.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/theirongolddev/ingresos/internal/cli"
	"github.com/theirongolddev/ingresos/internal/config"
	"github.com/theirongolddev/ingresos/internal/dashboard"
	"github.com/theirongolddev/ingresos/internal/logging"
	"github.com/theirongolddev/ingresos/internal/model"
	"github.com/theirongolddev/ingresos/internal/pipeline"
	"github.com/theirongolddev/ingresos/internal/source"
	"github.com/theirongolddev/ingresos/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagData    string
	flagMode    string
	flagFrom    int
	flagTo      int
	flagNoCache bool
	flagQuiet   bool
	flagVerbose bool
	flagLogFile string
	flagNoColor bool
)

// Set up by the root pre-run hook for every command.
var (
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "ingresos",
	Short: "Ingresos Presupuestarios dashboard",
	Long:  "Explore Mexico's budgetary revenue: KPI cards, real-terms trends and the historical table.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return setup()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagData, "data", "d", "", "Dataset file (.json, .db or .sqlite)")
	rootCmd.PersistentFlags().StringVarP(&flagMode, "mode", "m", "", "Values: nominal or real")
	rootCmd.PersistentFlags().IntVar(&flagFrom, "from", 0, "First table year")
	rootCmd.PersistentFlags().IntVar(&flagTo, "to", 0, "Last table year")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite cache, reparse the dataset")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file (default in the cache dir)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colors")
}

func setup() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %s, using defaults\n", err)
	}

	if flagNoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	}
	if flagLogFile != "" {
		opts.File = flagLogFile
	}
	if opts.File == "" {
		opts.File = filepath.Join(pipeline.CacheDir(), "ingresos.log")
	}
	if flagVerbose {
		opts.Level = "debug"
	}
	l, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	logger = l
	return nil
}

// dataPath picks the dataset: --data, then INGRESOS_DATA or the config, then
// the first dataset in the working directory.
func dataPath() string {
	if flagData != "" {
		return flagData
	}
	if p := config.DatasetPath(cfg); p != "" {
		return p
	}
	if files, err := source.ScanDir("."); err == nil && len(files) > 0 {
		return files[0].Path
	}
	return ""
}

// loadData is the shared data loading path used by all commands.
// Uses the SQLite cache when available for fast subsequent runs.
func loadData() (*pipeline.LoadResult, error) {
	path := dataPath()
	if path == "" {
		return nil, fmt.Errorf("no dataset found: use --data or run `ingresos setup`")
	}
	log := logger.With(zap.String("op", "load"), zap.String("path", path))

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Reading %s...\n", filepath.Base(path))
	}

	result, err := loadDataset(path, log)
	if err != nil {
		log.Error("dataset load failed", zap.Error(err))
		return nil, err
	}

	for _, w := range result.Warnings {
		log.Warn(w)
	}
	if !flagQuiet {
		if n := len(result.Warnings); n > 0 {
			fmt.Fprintf(os.Stderr, "  %d warnings while loading, see the log\n", n)
		}
	}
	return result, nil
}

func loadDataset(path string, log *zap.Logger) (*pipeline.LoadResult, error) {
	// Try cached load unless --no-cache
	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			// Cache open failed, fall back to uncached
			log.Warn("cache unavailable", zap.Error(err))
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache unavailable, doing full parse\n")
			}
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadWithCache(path, cache)
			if err == nil {
				log.Info("dataset loaded", zap.Bool("cache_hit", cr.CacheHit),
					zap.Int("items", len(cr.Dataset.Items)))
				if !flagQuiet {
					from := "parsed"
					if cr.CacheHit {
						from = "from cache"
					}
					fmt.Fprintf(os.Stderr, "  Loaded %s concepts %s\n",
						cli.FormatNumber(int64(len(cr.Dataset.Items))), from)
				}
				return &cr.LoadResult, nil
			}
			// Cache-assisted load failed, fall back
			log.Warn("cached load failed", zap.Error(err))
		}
	}

	// Uncached path
	result, err := pipeline.Load(path)
	if err != nil {
		return nil, err
	}
	log.Info("dataset loaded", zap.Bool("cache_hit", false), zap.Int("items", len(result.Dataset.Items)))
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Parsed %s concepts\n", cli.FormatNumber(int64(len(result.Dataset.Items))))
	}
	return result, nil
}

// stateOptions merges the config with the command-line overrides.
func stateOptions() (dashboard.Options, error) {
	opts := dashboard.Options{
		StartYear:  cfg.General.StartYear,
		EndYear:    cfg.General.EndYear,
		DrillLevel: cfg.General.DrillLevel,
	}

	mode := cfg.General.Mode
	if flagMode != "" {
		mode = flagMode
	}
	if mode != "" {
		m, err := model.ParseMode(mode)
		if err != nil {
			return opts, err
		}
		opts.Mode = m
	}

	if flagFrom != 0 {
		opts.StartYear = flagFrom
	}
	if flagTo != 0 {
		opts.EndYear = flagTo
	}
	return opts, nil
}

// newState builds the dashboard state for a loaded dataset.
func newState(result *pipeline.LoadResult) (*dashboard.State, error) {
	opts, err := stateOptions()
	if err != nil {
		return nil, err
	}
	return dashboard.New(result.Dataset, result.Index, opts), nil
}

// kpiYears returns the programmed and observed years compared by the KPI
// cards and the summary table.
func kpiYears(s *dashboard.State) (curr, prev int) {
	curr, prev = cfg.Dashboard.CurrentYear, cfg.Dashboard.PreviousYear
	if curr == 0 {
		curr = s.BaseYear
	}
	if prev == 0 {
		prev = curr - 1
	}
	return curr, prev
}

// parseIDs parses a comma separated list of item ids.
func parseIDs(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
