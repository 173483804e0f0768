package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/ingresos/internal/cli"
	"github.com/theirongolddev/ingresos/internal/dashboard"
	"github.com/theirongolddev/ingresos/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagExpand string
	flagDepth  int
	flagSearch string
	flagSelect string
	flagAll    bool
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Historical revenue table",
	RunE:  runTable,
}

func init() {
	tableCmd.Flags().StringVar(&flagExpand, "expand", "", "Comma separated ids to expand")
	tableCmd.Flags().IntVar(&flagDepth, "depth", 0, "Expand every item down to this level")
	tableCmd.Flags().StringVar(&flagSearch, "search", "", "Filter concepts by label")
	tableCmd.Flags().StringVar(&flagSelect, "select", "", "Comma separated ids to subtotal")
	tableCmd.Flags().BoolVar(&flagAll, "all", false, "Expand every item")
	rootCmd.AddCommand(tableCmd)
}

func runTable(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	s, err := tableState(result)
	if err != nil {
		return err
	}

	rows := s.Rows()
	if len(rows) == 0 {
		if s.Filter != "" {
			fmt.Printf("\n  No concepts match %q.\n", s.Filter)
		} else {
			fmt.Println("\n  No concepts found.")
		}
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("ANÁLISIS HISTÓRICO  %d-%d  (%s)", s.StartYear, s.EndYear, s.Mode.Label())))
	fmt.Println()

	fmt.Print(cli.RenderTable(historicalTable(s)))
	return nil
}

// tableState applies the table flags on top of the configured state.
func tableState(result *pipeline.LoadResult) (*dashboard.State, error) {
	opts, err := stateOptions()
	if err != nil {
		return nil, err
	}
	if flagDepth > 0 {
		opts.DrillLevel = flagDepth
	}
	s := dashboard.New(result.Dataset, result.Index, opts)

	if flagAll {
		s.ExpandAll()
	}
	expand, err := parseIDs(flagExpand)
	if err != nil {
		return nil, fmt.Errorf("--expand: %w", err)
	}
	for _, id := range expand {
		if !s.Expanded.Has(id) {
			s.ToggleExpand(id)
		}
	}
	sel, err := parseIDs(flagSelect)
	if err != nil {
		return nil, fmt.Errorf("--select: %w", err)
	}
	for _, id := range sel {
		if !s.Selected.Has(id) {
			s.ToggleSelect(id)
		}
	}
	if flagSearch != "" {
		s.SetSearchFilter(flagSearch)
	}
	return s, nil
}

// historicalTable renders the visible rows with the subtotal and footer.
func historicalTable(s *dashboard.State) cli.Table {
	years := s.Years()
	v := s.Valuation()

	headers := []string{"Id", "Concepto"}
	for _, y := range years {
		headers = append(headers, strconv.Itoa(y))
	}

	row := func(id, label string, values []float64) []string {
		r := []string{id, label}
		for _, val := range values {
			r = append(r, cli.FormatMoney(val))
		}
		return r
	}

	var rows [][]string
	for _, r := range s.Rows() {
		mark := " "
		if r.IsSelected {
			mark = "●"
		}
		glyph := "•"
		switch {
		case r.HasChildren && r.IsExpanded:
			glyph = "▾"
		case r.HasChildren:
			glyph = "▸"
		}
		label := mark + " " + strings.Repeat("  ", r.Depth) + glyph + " " + r.Item.Concepto
		rows = append(rows, row(strconv.Itoa(r.Item.ID), label, pipeline.RowValues(r.Item, years, v)))
	}

	if sub, ok := s.Subtotal(); ok {
		rows = append(rows, []string{cli.SeparatorRow})
		rows = append(rows, row("Σ", fmt.Sprintf("SUBTOTAL SELECCIÓN (%d)", s.SelectionSize()), sub))
	}
	if foot, ok := s.Footer(); ok {
		label := "TOTAL"
		if s.Filter != "" {
			label = "TOTAL FILTRADO"
		}
		rows = append(rows, []string{cli.SeparatorRow})
		rows = append(rows, row("", label, foot))
	}

	return cli.Table{
		Title:   "Millones de pesos",
		Headers: headers,
		Rows:    rows,
	}
}
