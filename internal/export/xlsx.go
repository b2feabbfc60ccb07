// Package export renders the product catalog as a spreadsheet.
package export

import (
	"fmt"
	"io"
	"strings"

	"storefront/internal/domain/products"
	"storefront/internal/locale"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Products writes one row per product to w as an xlsx workbook. The sheet is
// right-to-left when the translator renders Hebrew.
func Products(w io.Writer, list []*products.Product, tr locale.Translator, rtl bool) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := tr.T(locale.ExportSheet)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetView(sheet, -1, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return fmt.Errorf("sheet view: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}

	headers := []any{
		tr.T(locale.ExportColName),
		tr.T(locale.ExportColPrice),
		tr.T(locale.ExportColCategory),
		tr.T(locale.ExportColBrand),
		tr.T(locale.ExportColImages),
		tr.T(locale.ExportColCreated),
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 22); err != nil {
		return err
	}

	for i, p := range list {
		row := []any{
			p.Name,
			p.Price,
			categoryName(p),
			brandName(p),
			strings.Join(p.ImageURLs, "\n"),
			p.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	return f.Write(w)
}

func categoryName(p *products.Product) string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

func brandName(p *products.Product) string {
	if p.Brand == nil {
		return ""
	}
	return p.Brand.Name
}
