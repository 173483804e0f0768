package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/ingresos/internal/cli"
	"github.com/theirongolddev/ingresos/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "KPI cards and the summary table",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	s, err := newState(result)
	if err != nil {
		return err
	}

	curr, prev := kpiYears(s)
	v := s.Valuation()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("INGRESOS PRESUPUESTARIOS  %d vs %d  (%s)", curr, prev, s.Mode.Label())))
	fmt.Println()

	// KPI cards
	cards := pipeline.KPICards(s.Dataset(), v, curr, prev)
	total := 0.0
	for _, c := range cards {
		if c.Key == pipeline.ConceptTotal && c.Found {
			total = c.Delta.Current
		}
	}

	rows := make([][]string, 0, len(cards)*2)
	for i, c := range cards {
		if i > 0 {
			rows = append(rows, []string{cli.SeparatorRow})
		}
		if !c.Found {
			rows = append(rows, []string{c.Key, "-", "-", "-"})
			continue
		}
		rows = append(rows, []string{
			c.Key,
			cli.FormatMoney(c.Delta.Previous),
			cli.FormatMoney(c.Delta.Current),
			cli.RenderChange(c.Delta.VarPct),
		})
		var notes []string
		for _, an := range c.Annotations {
			notes = append(notes, annotationText(an))
		}
		if c.Key != pipeline.ConceptTotal && total > 0 {
			notes = append(notes, cli.RenderShareBar(c.Delta.Current, total, 10)+" del total")
		}
		if len(notes) > 0 {
			rows = append(rows, []string{"  " + strings.Join(notes, "  "), "", "", ""})
		}
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Indicadores (millones de pesos)",
		Headers: []string{"Concepto", fmt.Sprintf("%d Obs.", prev), fmt.Sprintf("%d Prog.", curr), "Var."},
		Rows:    rows,
	}))
	fmt.Println()

	// Summary table
	summary := pipeline.SummaryRows(s.Dataset(), v, curr, prev)
	srows := make([][]string, 0, len(summary))
	for _, r := range summary {
		srows = append(srows, []string{
			strings.Repeat("  ", r.Item.Nivel-1) + r.Item.Concepto,
			cli.FormatMoney(r.Previous),
			cli.FormatMoney(r.Current),
			cli.RenderChange(r.RealVariation),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Resumen",
		Headers: []string{"Concepto", fmt.Sprintf("%d Obs.", prev), fmt.Sprintf("%d Prog.", curr), "Var. real"},
		Rows:    srows,
	}))

	if n := len(result.Warnings); n > 0 {
		fmt.Fprintf(os.Stderr, "\n  %d warnings while loading the dataset\n", n)
	}
	return nil
}

func annotationText(an pipeline.Annotation) string {
	if an.Value == nil {
		return an.Label + " -"
	}
	switch an.Format {
	case pipeline.AnnotationMoney:
		return an.Label + " $" + cli.FormatMoney(*an.Value)
	case pipeline.AnnotationPercent:
		return an.Label + " " + cli.FormatMoney(*an.Value) + "%"
	}
	return an.Label + " " + cli.FormatMoney(*an.Value)
}
