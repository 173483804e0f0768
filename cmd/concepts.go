package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/ingresos/internal/cli"

	"github.com/spf13/cobra"
)

var conceptsCmd = &cobra.Command{
	Use:   "concepts",
	Short: "Revenue hierarchy with ids and levels",
	RunE:  runConcepts,
}

func init() {
	rootCmd.AddCommand(conceptsCmd)
}

func runConcepts(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	ds, idx := result.Dataset, result.Index

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CONCEPTOS  %s", cli.FormatNumber(int64(len(ds.Items))))))
	fmt.Println()

	rows := make([][]string, 0, len(ds.Items))
	seen := make(map[int]bool, len(ds.Items))
	for _, it := range ds.Items {
		// Duplicate ids keep the first item.
		if !idx.Contains(it.ID) || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		children := ""
		if n := len(idx.ChildrenOf(it.ID)); n > 0 {
			children = strconv.Itoa(n)
		}
		rows = append(rows, []string{
			strings.Repeat("  ", idx.Depth(it.ID)) + it.Concepto,
			strconv.Itoa(it.ID),
			strconv.Itoa(it.Nivel),
			children,
			strconv.Itoa(len(it.Datos)),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Concepto", "Id", "Nivel", "Hijos", "Años"},
		Rows:    rows,
	}))
	return nil
}
