package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupoandino/reportes/internal/contracts"
)

// buildSheets assembles a minimal two-sheet graph: a lookup sheet with
// goals and a data sheet whose cells chain formulas.
func buildSheets() []*contracts.Sheet {
	planta := &contracts.Sheet{
		Name:    "Planta",
		Headers: []string{"Cartera", "Meta"},
	}
	planta.AddRow(contracts.Row{contracts.TextCell("M0-PP"), contracts.NumberCell(0.37)})
	planta.AddRow(contracts.Row{contracts.TextCell("M0-VP"), contracts.NumberCell(0.62)})

	data := &contracts.Sheet{
		Name:    "Operativo",
		Headers: []string{"ID", "Fecha", "Cartera", "Pct", "Meta", "Ejecucion", "Ind A", "Ind B", "Total"},
	}
	meta := Lookup{Key: Ref{Col: "C"}, Sheet: "Planta", StartCol: "A", EndCol: "B", ColIndex: 2}
	ejec := Binary{Op: "/", L: Ref{Col: "D"}, R: Ref{Col: "E"}}
	total := Call{Fn: "SUM", Args: []contracts.Expr{Range{StartCol: "G", EndCol: "H"}}}
	data.AddRow(contracts.Row{
		contracts.TextCell("jlopez"),
		contracts.TextCell("05/09/2025"),
		contracts.TextCell("M0-PP"),
		contracts.NumberCell(0.4),
		contracts.FormulaCell(meta, contracts.KindPercent),
		contracts.FormulaCell(ejec, contracts.KindPercent),
		contracts.NumberCell(0.15),
		contracts.NumberCell(0),
		contracts.FormulaCell(total, contracts.KindNumber),
	})
	return []*contracts.Sheet{planta, data}
}

func TestEvaluator_ChainedFormulas(t *testing.T) {
	e := NewEvaluator(buildSheets())

	meta, err := e.Cell("Operativo", "E", 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.37, meta.Num, 1e-9)

	// Execution divides through the looked-up goal cell.
	ejec, err := e.Cell("Operativo", "F", 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.4/0.37, ejec.Num, 1e-9)

	total, err := e.Cell("Operativo", "I", 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.15, total.Num, 1e-9)
}

func TestEvaluator_CountifIgnoresBlanks(t *testing.T) {
	sheet := &contracts.Sheet{Name: "S", Headers: []string{"A", "B", "C"}}
	sheet.AddRow(contracts.Row{contracts.NumberCell(0), contracts.EmptyCell(), contracts.NumberCell(0.15)})
	e := NewEvaluator([]*contracts.Sheet{sheet})

	v, err := e.Eval(Call{Fn: "COUNTIF", Args: []contracts.Expr{
		Range{StartCol: "A", EndCol: "C"}, Num(0),
	}}, "S", 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Num)
}

func TestEvaluator_ScheduleFormula(t *testing.T) {
	sheet := &contracts.Sheet{Name: "S", Headers: []string{"Fecha", "Jornada"}}
	payday := If{
		Cond: Call{Fn: "OR", Args: []contracts.Expr{
			Binary{Op: "=", L: Call{Fn: "DAY", Args: []contracts.Expr{Call{Fn: "DATEVALUE", Args: []contracts.Expr{Ref{Col: "A"}}}}}, R: Num(15)},
			Binary{Op: "=", L: Call{Fn: "DAY", Args: []contracts.Expr{Call{Fn: "DATEVALUE", Args: []contracts.Expr{Ref{Col: "A"}}}}}, R: Num(16)},
		}},
		Then: Str("Pago"),
		Else: Str("Normal"),
	}
	sheet.AddRow(contracts.Row{contracts.TextCell("15/09/2025"), contracts.FormulaCell(payday, contracts.KindText)})
	sheet.AddRow(contracts.Row{contracts.TextCell("18/09/2025"), contracts.FormulaCell(payday, contracts.KindText)})

	e := NewEvaluator([]*contracts.Sheet{sheet})
	v, err := e.Cell("S", "B", 2)
	require.NoError(t, err)
	assert.Equal(t, "Pago", v.Str)

	v, err = e.Cell("S", "B", 3)
	require.NoError(t, err)
	assert.Equal(t, "Normal", v.Str)
}

func TestEvaluator_TimeComparison(t *testing.T) {
	sheet := &contracts.Sheet{Name: "S", Headers: []string{"Login", "Ind"}}
	ind := If{
		Cond: Binary{Op: "<=",
			L: Call{Fn: "TIMEVALUE", Args: []contracts.Expr{Ref{Col: "A"}}},
			R: Call{Fn: "TIMEVALUE", Args: []contracts.Expr{Str("7:30:00 AM")}},
		},
		Then: Num(0.15),
		Else: Num(0),
	}
	sheet.AddRow(contracts.Row{contracts.TextCell("7:29:00 AM"), contracts.FormulaCell(ind, contracts.KindNumber)})
	sheet.AddRow(contracts.Row{contracts.TextCell("7:31:00 AM"), contracts.FormulaCell(ind, contracts.KindNumber)})

	e := NewEvaluator([]*contracts.Sheet{sheet})
	v, err := e.Cell("S", "B", 2)
	require.NoError(t, err)
	assert.Equal(t, 0.15, v.Num)

	v, err = e.Cell("S", "B", 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Num)
}

func TestEvaluator_AggFilter(t *testing.T) {
	sheet := &contracts.Sheet{Name: "Operativo", Headers: []string{"Fecha", "Nombre", "Total"}}
	day := contracts.NewDay(2025, 9, 5)
	sheet.AddRow(contracts.Row{contracts.TextCell("05/09/2025"), contracts.TextCell("Ana Maria Diaz"), contracts.NumberCell(0.85)})
	sheet.AddRow(contracts.Row{contracts.TextCell("05/09/2025"), contracts.TextCell("DIAZ ANA MARIA"), contracts.NumberCell(0.95)})
	sheet.AddRow(contracts.Row{contracts.TextCell("04/09/2025"), contracts.TextCell("Ana Maria Diaz"), contracts.NumberCell(0.5)})
	sheet.AddRow(contracts.Row{contracts.TextCell("05/09/2025"), contracts.TextCell("Pedro Gomez"), contracts.NumberCell(0.2)})

	e := NewEvaluator([]*contracts.Sheet{sheet})

	count, err := e.Eval(AggFilter{
		Sheet: "Operativo", DayCol: "A", Day: day,
		NameCol: "B", Name: "Ana Maria Diaz", Reduce: ReduceCount,
	}, "Operativo", 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, count.Num)

	avg, err := e.Eval(AggFilter{
		Sheet: "Operativo", DayCol: "A", Day: day,
		NameCol: "B", Name: "Ana Maria Diaz", Reduce: ReduceAvg, ValueCol: "C",
	}, "Operativo", 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, avg.Num, 1e-9)
}

func TestEvaluator_CircularReference(t *testing.T) {
	sheet := &contracts.Sheet{Name: "S", Headers: []string{"A", "B"}}
	sheet.AddRow(contracts.Row{
		contracts.FormulaCell(Ref{Col: "B"}, contracts.KindNumber),
		contracts.FormulaCell(Ref{Col: "A"}, contracts.KindNumber),
	})
	e := NewEvaluator([]*contracts.Sheet{sheet})
	_, err := e.Cell("S", "A", 2)
	assert.Error(t, err)
}
