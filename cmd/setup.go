package cmd

import (
	"fmt"

	"github.com/theirongolddev/ingresos/internal/config"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	if err := runSetupForm(dataPath()); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `ingresos setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
