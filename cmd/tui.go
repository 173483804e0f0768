package cmd

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/theirongolddev/ingresos/internal/config"
	"github.com/theirongolddev/ingresos/internal/speech"
	"github.com/theirongolddev/ingresos/internal/tui"
	"github.com/theirongolddev/ingresos/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	path := dataPath()

	// Without any dataset the dashboard has nothing to load, so the setup
	// form runs before the program starts.
	needSetup := !config.Exists()
	if path == "" {
		if err := runSetupForm(""); err != nil {
			return err
		}
		needSetup = false
		if path = dataPath(); path == "" {
			return fmt.Errorf("no dataset configured")
		}
	}

	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	if !flagNoColor {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}

	opts, err := stateOptions()
	if err != nil {
		return err
	}

	announcer := newAnnouncer()
	app := tui.NewApp(tui.Options{
		DataPath:  path,
		State:     opts,
		Config:    cfg,
		Logger:    logger,
		Announcer: announcer,
		ExportDir: ".",
		NeedSetup: needSetup,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	_, err = p.Run()
	if announcer != nil {
		announcer.Stop()
	}
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// newAnnouncer returns nil when read-aloud is disabled or no synthesizer is
// installed.
func newAnnouncer() *speech.Announcer {
	if !cfg.Speech.Enabled {
		return nil
	}
	s, err := speech.Detect(speech.Synth{
		Command: cfg.Speech.Command,
		Voice:   cfg.Speech.Voice,
		Rate:    cfg.Speech.Rate,
	}, exec.LookPath)
	if err != nil {
		logger.Warn("read-aloud disabled", zap.String("op", "speak"), zap.Error(err))
		return nil
	}
	logger.Debug("speech synthesizer", zap.String("op", "speak"), zap.String("command", s.Command))
	return speech.NewAnnouncer(s.Runner())
}

// runSetupForm runs the first-run form outside the dashboard and saves the
// answers.
func runSetupForm(dataPath string) error {
	vals := tui.SetupValuesFrom(cfg, dataPath)
	form := tui.NewSetupForm(&vals, tui.DatasetsNear(dataPath))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("setup cancelled")
		}
		return err
	}

	tui.ApplySetup(&cfg, vals)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	logger.Info("config saved", zap.String("op", "setup"), zap.String("path", config.ConfigPath()))
	return nil
}
