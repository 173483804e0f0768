package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/theirongolddev/ingresos/internal/config"
	"github.com/theirongolddev/ingresos/internal/pipeline"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	opts, err := stateOptions()
	if err != nil {
		return err
	}

	fmt.Println("  [General]")
	if p := dataPath(); p != "" {
		fmt.Printf("    Dataset:      %s\n", p)
	} else {
		fmt.Println("    Dataset:      not configured")
	}
	fmt.Printf("    Mode:         %s\n", opts.Mode.Label())
	fmt.Printf("    Drill level:  %d\n", opts.DrillLevel)
	fmt.Printf("    Years:        %d-%d\n", opts.StartYear, opts.EndYear)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Speech]")
	fmt.Printf("    Enabled: %v\n", cfg.Speech.Enabled)
	if cfg.Speech.Command != "" {
		fmt.Printf("    Command: %s\n", cfg.Speech.Command)
	} else {
		fmt.Println("    Command: autodetect")
	}
	if cfg.Speech.Voice != "" {
		fmt.Printf("    Voice:   %s\n", cfg.Speech.Voice)
	}
	if cfg.Speech.Rate != 0 {
		fmt.Printf("    Rate:    %d\n", cfg.Speech.Rate)
	}
	fmt.Println()

	fmt.Println("  [Dashboard]")
	fmt.Printf("    KPI years:  %d vs %d\n", cfg.Dashboard.CurrentYear, cfg.Dashboard.PreviousYear)
	fmt.Printf("    Trend span: %d-%d\n", cfg.Dashboard.TrendFrom, cfg.Dashboard.TrendTo)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	file := cfg.Logging.File
	if flagLogFile != "" {
		file = flagLogFile
	}
	if file == "" {
		file = filepath.Join(pipeline.CacheDir(), "ingresos.log")
	}
	fmt.Printf("    File:   %s\n", file)
	fmt.Println()

	fmt.Println("  Run `ingresos setup` to reconfigure.")
	return nil
}
