package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/ingresos/internal/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagFormat string
	flagOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the historical table to Excel or the dataset to SQLite",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagFormat, "format", "xlsx", "Output format: xlsx or sqlite")
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output file")
	// The table flags shape the exported rows.
	exportCmd.Flags().StringVar(&flagExpand, "expand", "", "Comma separated ids to expand")
	exportCmd.Flags().IntVar(&flagDepth, "depth", 0, "Expand every item down to this level")
	exportCmd.Flags().StringVar(&flagSearch, "search", "", "Filter concepts by label")
	exportCmd.Flags().StringVar(&flagSelect, "select", "", "Comma separated ids to subtotal")
	exportCmd.Flags().BoolVar(&flagAll, "all", false, "Expand every item")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	out := flagOut
	switch flagFormat {
	case "xlsx":
		s, err := tableState(result)
		if err != nil {
			return err
		}
		if out == "" {
			out = export.FileName(time.Now())
		}
		if err := export.WriteExcel(out, export.FromState(s)); err != nil {
			return fmt.Errorf("exporting workbook: %w", err)
		}
	case "sqlite":
		if out == "" {
			out = "ingresos.db"
		}
		if err := export.WriteSQLite(out, result.Dataset); err != nil {
			return fmt.Errorf("exporting dataset: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (want xlsx or sqlite)", flagFormat)
	}

	logger.Info("exported", zap.String("op", "export"), zap.String("format", flagFormat), zap.String("path", out))
	fmt.Printf("  Exported to %s\n", out)
	return nil
}
