// Package export writes the historical table to an Excel workbook and the
// dataset to a SQLite file.
package export

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/ingresos/internal/dashboard"
	"github.com/theirongolddev/ingresos/internal/pipeline"
)

// SheetName is the worksheet holding the exported table.
const SheetName = "Consulta"

// Row is one exported table line.
type Row struct {
	Label  string
	Depth  int
	Nivel  int
	Values []float64
}

// Table is the exported view: header years, visible rows and summary lines.
type Table struct {
	Years    []int
	Rows     []Row
	Subtotal []float64 // nil when fewer than two rows are selected
	Footer   []float64
	Mode     string
}

// FromState captures the visible table of s.
func FromState(s *dashboard.State) Table {
	years := s.Years()
	v := s.Valuation()
	t := Table{Years: years, Mode: s.Mode.Label()}
	for _, r := range s.Rows() {
		t.Rows = append(t.Rows, Row{
			Label:  r.Item.Concepto,
			Depth:  r.Depth,
			Nivel:  r.Item.Nivel,
			Values: pipeline.RowValues(r.Item, years, v),
		})
	}
	if sub, ok := s.Subtotal(); ok {
		t.Subtotal = sub
	}
	if foot, ok := s.Footer(); ok {
		t.Footer = foot
	}
	return t
}

// FileName is the default workbook name for a given day.
func FileName(now time.Time) string {
	return "Consulta_Hacendaria_" + now.Format("2006-01-02") + ".xlsx"
}

// GenerateExcel renders t as an xlsx workbook and returns its bytes.
func GenerateExcel(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(t.Years) + 1)
	if err != nil {
		return nil, fmt.Errorf("column name: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "A", 48); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}
	if len(t.Years) > 0 {
		if err := f.SetColWidth(SheetName, "B", lastCol, 16); err != nil {
			return nil, fmt.Errorf("set col width: %w", err)
		}
	}

	numFmt := "#,##0.0"
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2C3E50"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	topStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Border:       thinBorders(),
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create top level style: %w", err)
	}
	itemStyle, err := f.NewStyle(&excelize.Style{
		Border:       thinBorders(),
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}
	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"#D4C19C"}, Pattern: 1},
		Border:       thinBorders(),
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create summary style: %w", err)
	}

	header := make([]interface{}, 0, len(t.Years)+1)
	header = append(header, "Concepto")
	for _, y := range t.Years {
		header = append(header, strconv.Itoa(y))
	}
	if err := writeRow(f, 1, header, headerStyle, lastCol); err != nil {
		return nil, err
	}

	row := 2
	for _, r := range t.Rows {
		label := strings.Repeat("  ", max(r.Depth-1, 0)) + sanitizeExcelCell(r.Label)
		style := itemStyle
		if r.Nivel == 1 {
			style = topStyle
		}
		if err := writeRow(f, row, valuesRow(label, r.Values), style, lastCol); err != nil {
			return nil, err
		}
		row++
	}

	if t.Subtotal != nil {
		if err := writeRow(f, row, valuesRow("SUBTOTAL SELECCIÓN", t.Subtotal), summaryStyle, lastCol); err != nil {
			return nil, err
		}
		row++
	}
	if t.Footer != nil {
		if err := writeRow(f, row, valuesRow("TOTAL", t.Footer), summaryStyle, lastCol); err != nil {
			return nil, err
		}
		row++
	}
	if t.Mode != "" {
		note := fmt.Sprintf("Cifras en millones de pesos, valores %s.", strings.ToLower(t.Mode))
		cell, _ := excelize.CoordinatesToCellName(1, row+1)
		if err := f.SetCellValue(SheetName, cell, note); err != nil {
			return nil, fmt.Errorf("write note: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteExcel writes the workbook for t to path.
func WriteExcel(path string, t Table) error {
	data, err := GenerateExcel(t)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func valuesRow(label string, values []float64) []interface{} {
	out := make([]interface{}, 0, len(values)+1)
	out = append(out, label)
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func writeRow(f *excelize.File, row int, values []interface{}, style int, lastCol string) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, start, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	end := lastCol + strconv.Itoa(row)
	if err := f.SetCellStyle(SheetName, start, end, style); err != nil {
		return fmt.Errorf("style row %d: %w", row, err)
	}
	return nil
}

// sanitizeExcelCell prevents formula injection by prefixing leading
// characters Excel would evaluate with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#8A8D91", Style: 1}
	}
	return borders
}
