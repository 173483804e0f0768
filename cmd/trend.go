package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/ingresos/internal/cli"
	"github.com/theirongolddev/ingresos/internal/pipeline"

	"github.com/spf13/cobra"
)

var trendCmd = &cobra.Command{
	Use:   "trend [concept]",
	Short: "Real-terms trend of a concept",
	Long:  "Real-terms trend of a concept: Total, Petroleros, Tributarios or an item id.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTrend,
}

func init() {
	rootCmd.AddCommand(trendCmd)
}

func runTrend(_ *cobra.Command, args []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	s, err := newState(result)
	if err != nil {
		return err
	}

	key := pipeline.ConceptTotal
	if len(args) == 1 {
		key = args[0]
	}
	if _, ok := pipeline.FindConcept(s.Dataset().Items, key); !ok {
		return fmt.Errorf("unknown concept %q", key)
	}
	s.SetActiveConcept(key)

	years := pipeline.DefaultTrendYears()
	if cfg.Dashboard.TrendFrom != 0 && cfg.Dashboard.TrendTo != 0 {
		years = pipeline.YearSpan(cfg.Dashboard.TrendFrom, cfg.Dashboard.TrendTo)
	}
	item, pts, _ := s.Trend(years)
	values := pipeline.TrendValues(pts)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TENDENCIA REAL  %s", item.Concepto)))
	fmt.Println()
	fmt.Printf("  Millones de pesos de %d   %s\n\n", s.BaseYear, cli.RenderSparkline(values))

	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	color := cli.ColorGold
	switch key {
	case pipeline.ConceptPetroleros:
		color = cli.ColorBlue
	case pipeline.ConceptTributarios:
		color = cli.ColorGreen
	}

	for _, p := range pts {
		label := strconv.Itoa(p.Year)
		if !p.Defined {
			label += "*"
		} else {
			label += " "
		}
		fmt.Printf("%s %s\n", cli.RenderHorizontalBar(label, p.Value, peak, 40, color), cli.FormatMoney(p.Value))
	}

	for _, p := range pts {
		if !p.Defined {
			fmt.Println("\n  * sin datos para el año")
			break
		}
	}
	return nil
}
