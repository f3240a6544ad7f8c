package excel

import (
	"fmt"
	"strings"

	"ecoreport-service/models"

	"github.com/xuri/excelize/v2"
)

// fields is the column order, matching the report JSON field order.
var fields = []string{"type", "location", "description", "coord_x", "coord_y", "datetime", "images"}

const (
	tableStyle  = "TableStyleMedium9"
	maxColWidth = 40
)

// GroupedWorkbook builds the per-category mirror workbook: one sheet per
// non-empty category, a styled table over the rows, capitalized headers.
func GroupedWorkbook(reports []models.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	grouped := make(map[string][]models.Report, len(models.Categories))
	for _, r := range reports {
		cat := r.Category()
		grouped[cat] = append(grouped[cat], r)
	}

	for _, category := range models.Categories {
		rows := grouped[category]
		if len(rows) == 0 {
			continue
		}
		if err := addCategorySheet(f, category, rows); err != nil {
			return nil, err
		}
	}

	// The default sheet stays only when nothing else was written.
	if len(f.GetSheetList()) > 1 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to drop the default sheet: %w", err)
		}
	}
	return f, nil
}

// FlatWorkbook builds the single-sheet export: every report in stored
// order with the raw field names as headers.
func FlatWorkbook(reports []models.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := make([]interface{}, len(fields))
	for i, field := range fields {
		headers[i] = field
	}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return nil, err
	}
	for i, r := range reports {
		if err := setRow(f, sheet, i+2, rowValues(r)); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func addCategorySheet(f *excelize.File, category string, reports []models.Report) error {
	sheet := capitalize(category)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
	}

	headers := make([]interface{}, len(fields))
	for i, field := range fields {
		headers[i] = capitalize(field)
	}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, r := range reports {
		if err := setRow(f, sheet, i+2, rowValues(r)); err != nil {
			return err
		}
	}

	if err := addTable(f, sheet, category, len(reports)); err != nil {
		return err
	}
	return fitColumns(f, sheet, reports)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func rowValues(r models.Report) []interface{} {
	return []interface{}{
		r.Type,
		r.Location,
		r.Description,
		r.CoordX,
		r.CoordY,
		r.Datetime,
		strings.Join(r.Images, ", "),
	}
}

func addTable(f *excelize.File, sheet, category string, rows int) error {
	endCell, err := excelize.CoordinatesToCellName(len(fields), rows+1)
	if err != nil {
		return err
	}
	stripes := true
	return f.AddTable(sheet, &excelize.Table{
		Range:          "A1:" + endCell,
		Name:           capitalize(category) + "Table",
		StyleName:      tableStyle,
		ShowRowStripes: &stripes,
	})
}

// fitColumns sizes each column to its longest cell plus padding, capped
// at maxColWidth.
func fitColumns(f *excelize.File, sheet string, reports []models.Report) error {
	widths := make([]int, len(fields))
	for i, field := range fields {
		widths[i] = len(capitalize(field))
	}
	for _, r := range reports {
		for i, v := range rowValues(r) {
			if l := len(fmt.Sprint(v)); l > widths[i] {
				widths[i] = l
			}
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := float64(w + 2)
		if width > maxColWidth {
			width = maxColWidth
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
