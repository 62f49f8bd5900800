package workbook

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/grupoandino/reportes/internal/contracts"
	"github.com/grupoandino/reportes/internal/formula"
)

func testReport() *contracts.Report {
	sheet := &contracts.Sheet{
		Name:      "Operativo",
		Headers:   []string{"ID", "Valor", "Doble"},
		Widths:    map[string]float64{"A": 14},
		AsTable:   true,
		TableName: "TablaPrueba",
		Dropdowns: []contracts.Dropdown{{
			Column: "A", FirstRow: 2, LastRow: 3, Options: []string{"Pago", "Normal"},
		}},
	}
	sheet.AddRow(contracts.Row{
		contracts.TextCell("jdoe"),
		contracts.CurrencyCell(1000000),
		contracts.FormulaCell(formula.Binary{
			Op: "*", L: formula.Ref{Col: "B"}, R: formula.Num(2),
		}, contracts.KindCurrency),
	})
	sheet.AddRow(contracts.Row{
		contracts.TextCell("mgarcia"),
		contracts.PercentCell(0.37),
		contracts.EmptyCell(),
	})
	return &contracts.Report{
		RunID:    "test-run",
		Filename: "prueba.xlsx",
		Sheets:   []*contracts.Sheet{sheet, {Name: "Planta", Headers: []string{"Cartera"}}},
	}
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(testReport(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Operativo", "Planta"}, f.GetSheetList())

	v, err := f.GetCellValue("Operativo", "A2")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", v)

	fx, err := f.GetCellFormula("Operativo", "C2")
	require.NoError(t, err)
	assert.Equal(t, "(B2*2)", fx)

	header, err := f.GetCellValue("Operativo", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Valor", header)
}

func TestSaveCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "salida", "prueba.xlsx")
	require.NoError(t, Save(testReport(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "Operativo", f.GetSheetName(0))
}
