// Package workbook renders assembled reports into xlsx files.
package workbook

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/grupoandino/reportes/internal/contracts"
)

const tableStyle = "TableStyleMedium9"

// styles holds the per-kind style ids of one workbook.
type styles struct {
	header   int
	currency int
	percent  int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return s, err
	}

	currencyFmt := "$#,##0"
	s.currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFmt})
	if err != nil {
		return s, err
	}

	percentFmt := "0.00%"
	s.percent, err = f.NewStyle(&excelize.Style{CustomNumFmt: &percentFmt})
	if err != nil {
		return s, err
	}
	return s, nil
}

// Write renders the report into w as an xlsx workbook.
func Write(report *contracts.Report, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("workbook styles: %w", err)
	}

	for i, sheet := range report.Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
		if err := writeSheet(f, st, sheet); err != nil {
			return fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save renders the report to path, creating parent directories.
func Save(report *contracts.Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := Write(report, out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeSheet(f *excelize.File, st styles, sheet *contracts.Sheet) error {
	for col, header := range sheet.Headers {
		addr, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet.Name, addr, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, addr, addr, st.header); err != nil {
			return err
		}
	}

	for i, row := range sheet.Rows {
		rowNum := i + 2
		for col, cell := range row {
			addr, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			if err := writeCell(f, st, sheet.Name, addr, rowNum, cell); err != nil {
				return err
			}
		}
	}

	for col, width := range sheet.Widths {
		if err := f.SetColWidth(sheet.Name, col, col, width); err != nil {
			return err
		}
	}

	if sheet.AsTable && len(sheet.Rows) > 0 {
		last, err := excelize.CoordinatesToCellName(len(sheet.Headers), len(sheet.Rows)+1)
		if err != nil {
			return err
		}
		if err := f.AddTable(sheet.Name, &excelize.Table{
			Range:     "A1:" + last,
			Name:      sheet.TableName,
			StyleName: tableStyle,
		}); err != nil {
			return err
		}
	}

	for _, dd := range sheet.Dropdowns {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s%d:%s%d", dd.Column, dd.FirstRow, dd.Column, dd.LastRow)
		if err := dv.SetDropList(dd.Options); err != nil {
			return err
		}
		if err := f.AddDataValidation(sheet.Name, dv); err != nil {
			return err
		}
	}
	return nil
}

func writeCell(f *excelize.File, st styles, sheet, addr string, rowNum int, cell contracts.Cell) error {
	if cell.Formula != nil {
		if err := f.SetCellFormula(sheet, addr, cell.Formula.Excel(rowNum)); err != nil {
			return err
		}
		return styleCell(f, st, sheet, addr, cell.Kind)
	}
	if cell.IsEmpty() {
		return nil
	}
	switch cell.Kind {
	case contracts.KindNumber, contracts.KindCurrency, contracts.KindPercent:
		if err := f.SetCellValue(sheet, addr, cell.Number); err != nil {
			return err
		}
	default:
		if err := f.SetCellValue(sheet, addr, cell.Text); err != nil {
			return err
		}
	}
	return styleCell(f, st, sheet, addr, cell.Kind)
}

func styleCell(f *excelize.File, st styles, sheet, addr string, kind contracts.ValueKind) error {
	switch kind {
	case contracts.KindCurrency:
		return f.SetCellStyle(sheet, addr, addr, st.currency)
	case contracts.KindPercent:
		return f.SetCellStyle(sheet, addr, addr, st.percent)
	}
	return nil
}
