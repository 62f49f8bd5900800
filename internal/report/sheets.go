package report

import (
	"github.com/grupoandino/reportes/internal/contracts"
	"github.com/grupoandino/reportes/internal/formula"
	"github.com/grupoandino/reportes/internal/indicator"
)

// Sheet names of the quality workbook.
const (
	SheetConsolidado = "Consolidado"
	SheetGerente     = "Gerente"
	SheetTeam        = "Team"
	SheetOperativo   = "Operativo"
	SheetCalidad     = "Calidad"
	SheetAusentismo  = "Ausentismo"
	SheetLideres     = "Asistencia Lideres"
	SheetPlanta      = "Planta"
)

// operativoHeaders fixes the Operativo sheet layout. Formula columns
// reference these positions, so emitted rows must keep their record's
// position; reordering rows after generation breaks the graph.
var operativoHeaders = []string{
	"CODIGO", "Tipo Jornada", "Fecha", "ID", "Nombre", "Cedula", "Cartera",
	"Gerente", "Team Leader", "Sede", "Ubicacion",
	"Asignacion", "Tocadas 11 AM", "Toques", "Pagos",
	"Capital Asignado", "Capital Recuperado", "% Recuperado", "% Cuentas",
	"Primer Login", "Ultimo Toque", "Ultima Llamada",
	"Llamadas Isabel", "Llamadas VOIP", "Total Llamadas",
	"Meta", "Ejecucion",
	"Ind Logueo", "Ind Ultimo Toque", "Ind Ges Medio", "Ind Llamadas",
	"Indicador Toques", "Ind Pausa",
	"Total Infracciones", "Total Operativo",
}

// Operativo column letters referenced by formulas.
const (
	colCodigo     = "A"
	colJornada    = "B"
	colFecha      = "C"
	colID         = "D"
	colCartera    = "G"
	colGerente    = "H"
	colTeamLeader = "I"
	colAsignacion = "L"
	colTocadas11  = "M"
	colToques     = "N"
	colCapAsig    = "P"
	colPctRec     = "R"
	colPctCtas    = "S"
	colLogin      = "T"
	colUltToque   = "U"
	colLlamIsabel = "W"
	colLlamVOIP   = "X"
	colTotalLlam  = "Y"
	colMeta       = "Z"
	colIndLogueo  = "AB"
	colIndPausa   = "AG"
	colIndToques  = "AF"
	colInfr       = "AH"
	colTotalOper  = "AI"
)

// emitter builds the quality workbook's logical sheets.
type emitter struct {
	goals      *indicator.GoalTable
	countPause bool
}

// qualitySheets assembles every sheet of the quality workbook. recs
// must be the quality-eligible records, sets their indicator sets in
// the same order.
func (e *emitter) qualitySheets(recs []*contracts.OperationalRecord, roster *contracts.Roster) []*contracts.Sheet {
	return []*contracts.Sheet{
		e.consolidado(recs),
		e.gerente(recs),
		e.team(recs),
		e.operativo(recs),
		e.calidad(recs),
		e.ausentismo(recs),
		e.lideres(recs),
		e.planta(roster),
	}
}

// codigo is the per-day person code: advisor id concatenated with the
// day-month digits of the row's date column.
func codigo(idCol, fechaCol string) contracts.Expr {
	return formula.Binary{
		Op: "&",
		L:  formula.Ref{Col: idCol},
		R: formula.Call{Fn: "TEXT", Args: []contracts.Expr{
			formula.Call{Fn: "DATEVALUE", Args: []contracts.Expr{formula.Ref{Col: fechaCol}}},
			formula.Str("ddmm"),
		}},
	}
}

// jornada classifies the row's date by payday membership.
func jornada(fechaCol string) contracts.Expr {
	serial := formula.Call{Fn: "DATEVALUE", Args: []contracts.Expr{formula.Ref{Col: fechaCol}}}
	dayOf := formula.Call{Fn: "DAY", Args: []contracts.Expr{serial}}
	var args []contracts.Expr
	for _, d := range []float64{1, 2, 15, 16, 17, 30, 31} {
		args = append(args, formula.Binary{Op: "=", L: dayOf, R: formula.Num(d)})
	}
	return formula.If{
		Cond: formula.Call{Fn: "OR", Args: args},
		Then: formula.Str("Pago"),
		Else: formula.Str("Normal"),
	}
}

func timeLit(s string) contracts.Expr {
	return formula.Call{Fn: "TIMEVALUE", Args: []contracts.Expr{formula.Str(s)}}
}

func timeOf(col string) contracts.Expr {
	return formula.Call{Fn: "TIMEVALUE", Args: []contracts.Expr{formula.Ref{Col: col}}}
}

func isBlank(col string) contracts.Expr {
	return formula.Binary{Op: "=", L: formula.Ref{Col: col}, R: formula.Str("")}
}

func isPayday() contracts.Expr {
	return formula.Binary{Op: "=", L: formula.Ref{Col: colJornada}, R: formula.Str("Pago")}
}

// meta resolves the goal: M1-2 derives from assigned capital, every
// other label looks into the Planta tables by schedule. A blank
// capital cell yields a blank goal, never a division error.
func meta() contracts.Expr {
	return formula.If{
		Cond: formula.Binary{Op: "=", L: formula.Ref{Col: colCartera}, R: formula.Str("M1-2")},
		Then: formula.If{
			Cond: formula.Binary{Op: "<>", L: formula.Ref{Col: colCapAsig}, R: formula.Str("")},
			Then: formula.Call{Fn: "ROUND", Args: []contracts.Expr{
				formula.Binary{Op: "/", L: formula.Num(500000), R: formula.Ref{Col: colCapAsig}},
				formula.Num(4),
			}},
			Else: formula.Str(""),
		},
		Else: formula.If{
			Cond: isPayday(),
			Then: formula.Lookup{Key: formula.Ref{Col: colCartera}, Sheet: SheetPlanta, StartCol: "E", EndCol: "F", ColIndex: 2},
			Else: formula.Lookup{Key: formula.Ref{Col: colCartera}, Sheet: SheetPlanta, StartCol: "H", EndCol: "I", ColIndex: 2},
		},
	}
}

// ejecucion divides the schedule-relevant percentage by the goal; the
// M0-PP book executes on accounts rather than recovery. Blank inputs
// leave the cell blank, matching the record's absent markers.
func ejecucion() contracts.Expr {
	ratio := func(pctCol string) contracts.Expr {
		return formula.If{
			Cond: formula.Call{Fn: "AND", Args: []contracts.Expr{
				formula.Binary{Op: "<>", L: formula.Ref{Col: pctCol}, R: formula.Str("")},
				formula.Binary{Op: "<>", L: formula.Ref{Col: colMeta}, R: formula.Str("")},
			}},
			Then: formula.Binary{Op: "/", L: formula.Ref{Col: pctCol}, R: formula.Ref{Col: colMeta}},
			Else: formula.Str(""),
		}
	}
	return formula.If{
		Cond: formula.Binary{Op: "=", L: formula.Ref{Col: colCartera}, R: formula.Str("M0-PP")},
		Then: ratio(colPctCtas),
		Else: ratio(colPctRec),
	}
}

func indLogueo() contracts.Expr {
	cutoff := formula.If{Cond: isPayday(), Then: timeLit("7:30:00 AM"), Else: timeLit("8:00:00 AM")}
	return formula.If{
		Cond: isBlank(colLogin),
		Then: formula.Num(0),
		Else: formula.If{
			Cond: formula.Binary{Op: "<=", L: timeOf(colLogin), R: cutoff},
			Then: formula.Num(indicator.RewardLogin),
			Else: formula.Num(0),
		},
	}
}

func indUltimoToque() contracts.Expr {
	serial := formula.Call{Fn: "DATEVALUE", Args: []contracts.Expr{formula.Ref{Col: colFecha}}}
	saturday := formula.Binary{Op: "=", L: formula.Call{Fn: "WEEKDAY", Args: []contracts.Expr{serial}}, R: formula.Num(7)}
	after := func(limit string) contracts.Expr {
		return formula.If{
			Cond: formula.Binary{Op: ">=", L: timeOf(colUltToque), R: timeLit(limit)},
			Then: formula.Num(indicator.RewardLastContact),
			Else: formula.Num(0),
		}
	}
	return formula.If{
		Cond: isBlank(colUltToque),
		Then: formula.Num(0),
		Else: formula.If{
			Cond: saturday,
			Then: after("12:20:00 PM"),
			Else: formula.If{
				Cond: isPayday(),
				Then: after("6:50:00 PM"),
				Else: after("5:20:00 PM"),
			},
		},
	}
}

func indGesMedio() contracts.Expr {
	scaled := formula.Call{Fn: "ROUND", Args: []contracts.Expr{
		formula.Binary{Op: "*", L: formula.Ref{Col: colAsignacion}, R: formula.Num(0.9)},
		formula.Num(0),
	}}
	hit := func(need contracts.Expr) contracts.Expr {
		return formula.If{
			Cond: formula.Binary{Op: ">=", L: formula.Ref{Col: colTocadas11}, R: need},
			Then: formula.Num(indicator.RewardMidDay),
			Else: formula.Num(0),
		}
	}
	return formula.If{
		Cond: isBlank(colAsignacion),
		Then: formula.Num(0),
		Else: formula.If{
			Cond: isBlank(colTocadas11),
			Then: formula.Num(0),
			Else: formula.If{
				Cond: formula.Binary{Op: "<", L: formula.Ref{Col: colAsignacion}, R: formula.Num(45)},
				Then: hit(scaled),
				Else: hit(formula.Num(45)),
			},
		},
	}
}

func indLlamadas() contracts.Expr {
	return formula.If{
		Cond: formula.Binary{Op: ">=", L: formula.Ref{Col: colTotalLlam}, R: formula.Num(150)},
		Then: formula.Num(indicator.RewardCalls),
		Else: formula.Num(0),
	}
}

func indToques() contracts.Expr {
	hit := func(need float64) contracts.Expr {
		return formula.If{
			Cond: formula.Binary{Op: ">=", L: formula.Ref{Col: colToques}, R: formula.Num(need)},
			Then: formula.Num(indicator.RewardTouches),
			Else: formula.Num(0),
		}
	}
	return formula.If{
		Cond: isBlank(colToques),
		Then: formula.Num(0),
		Else: formula.If{
			Cond: formula.Call{Fn: "ISNUMBER", Args: []contracts.Expr{
				formula.Call{Fn: "SEARCH", Args: []contracts.Expr{formula.Str("M0"), formula.Ref{Col: colCartera}}},
			}},
			Then: hit(120),
			Else: hit(160),
		},
	}
}

// operativo emits the per-record indicator sheet; every computed
// column is a live formula over the literal columns.
func (e *emitter) operativo(recs []*contracts.OperationalRecord) *contracts.Sheet {
	sheet := &contracts.Sheet{
		Name:      SheetOperativo,
		Headers:   operativoHeaders,
		AsTable:   true,
		TableName: "TablaOperativo",
		Widths:    map[string]float64{"A": 14, "C": 12, "E": 28, "G": 12, "H": 24, "I": 24},
	}

	infrEnd := colIndPausa
	if !e.countPause {
		infrEnd = colIndToques
	}

	for _, rec := range recs {
		row := contracts.Row{
			contracts.FormulaCell(codigo(colID, colFecha), contracts.KindText),
			contracts.FormulaCell(jornada(colFecha), contracts.KindText),
			contracts.TextCell(rec.Day.String()),
			contracts.TextCell(rec.PersonID),
			contracts.TextCell(rec.Name),
			contracts.TextCell(rec.NationalID),
			contracts.TextCell(rec.Portfolio),
			contracts.TextCell(rec.Manager),
			contracts.TextCell(rec.TeamLeader),
			contracts.TextCell(rec.Site),
			contracts.TextCell(rec.Location),
			numberOrEmpty(rec.Assignment, contracts.KindNumber),
			numberOrEmpty(rec.TouchedBy11, contracts.KindNumber),
			numberOrEmpty(rec.Touches, contracts.KindNumber),
			numberOrEmpty(rec.Payments, contracts.KindNumber),
			numberOrEmpty(rec.AssignedCapital, contracts.KindCurrency),
			numberOrEmpty(rec.RecoveredCapital, contracts.KindCurrency),
			numberOrEmpty(rec.PctRecovered, contracts.KindPercent),
			numberOrEmpty(rec.PctAccounts, contracts.KindPercent),
			contracts.TextCell(rec.FirstLogin.String()),
			contracts.TextCell(rec.LastTouch.String()),
			contracts.TextCell(rec.LastCall.String()),
			numberOrEmpty(rec.CallsPBX, contracts.KindNumber),
			numberOrEmpty(rec.CallsVOIP, contracts.KindNumber),
			contracts.FormulaCell(formula.Binary{Op: "+", L: formula.Ref{Col: colLlamIsabel}, R: formula.Ref{Col: colLlamVOIP}}, contracts.KindNumber),
			contracts.FormulaCell(meta(), contracts.KindPercent),
			contracts.FormulaCell(ejecucion(), contracts.KindPercent),
			contracts.FormulaCell(indLogueo(), contracts.KindNumber),
			contracts.FormulaCell(indUltimoToque(), contracts.KindNumber),
			contracts.FormulaCell(indGesMedio(), contracts.KindNumber),
			contracts.FormulaCell(indLlamadas(), contracts.KindNumber),
			contracts.FormulaCell(indToques(), contracts.KindNumber),
			contracts.NumberCell(indicator.RewardPause),
			contracts.FormulaCell(formula.Call{Fn: "COUNTIF", Args: []contracts.Expr{
				formula.Range{StartCol: colIndLogueo, EndCol: infrEnd},
				formula.Num(0),
			}}, contracts.KindNumber),
			contracts.FormulaCell(formula.Call{Fn: "SUM", Args: []contracts.Expr{
				formula.Range{StartCol: colIndLogueo, EndCol: colIndPausa},
			}}, contracts.KindNumber),
		}
		sheet.AddRow(row)
	}

	if len(recs) > 0 {
		sheet.Dropdowns = []contracts.Dropdown{{
			Column:   colJornada,
			FirstRow: 2,
			LastRow:  len(recs) + 1,
			Options:  []string{"Pago", "Normal"},
		}}
	}
	return sheet
}

// planta holds the roster snapshot and the two goal tables the meta
// lookups read.
func (e *emitter) planta(roster *contracts.Roster) *contracts.Sheet {
	sheet := &contracts.Sheet{
		Name:    SheetPlanta,
		Headers: []string{"ID", "Nombre", "EXT", "", "Cartera", "Dia Pago", "", "Cartera", "Dia Normal"},
		Widths:  map[string]float64{"B": 28, "E": 12, "H": 12},
	}

	payday := e.goals.Rows(contracts.SchedulePayday)
	normal := e.goals.Rows(contracts.ScheduleNormal)
	var entries []contracts.RosterEntry
	if roster != nil {
		entries = roster.Entries
	}

	n := len(entries)
	if len(payday) > n {
		n = len(payday)
	}
	if len(normal) > n {
		n = len(normal)
	}
	for i := 0; i < n; i++ {
		row := contracts.Row{
			contracts.EmptyCell(), contracts.EmptyCell(), contracts.EmptyCell(),
			contracts.EmptyCell(),
			contracts.EmptyCell(), contracts.EmptyCell(),
			contracts.EmptyCell(),
			contracts.EmptyCell(), contracts.EmptyCell(),
		}
		if i < len(entries) {
			row[0] = contracts.TextCell(entries[i].PersonID)
			row[1] = contracts.TextCell(entries[i].Name)
			row[2] = contracts.TextCell(entries[i].Extension)
		}
		if i < len(payday) {
			row[4] = contracts.TextCell(payday[i][0].(string))
			row[5] = contracts.PercentCell(payday[i][1].(float64))
		}
		if i < len(normal) {
			row[7] = contracts.TextCell(normal[i][0].(string))
			row[8] = contracts.PercentCell(normal[i][1].(float64))
		}
		sheet.AddRow(row)
	}
	return sheet
}

// consolidado cross-references every record's quality and operative
// outcomes through its per-day code.
func (e *emitter) consolidado(recs []*contracts.OperationalRecord) *contracts.Sheet {
	sheet := &contracts.Sheet{
		Name: SheetConsolidado,
		Headers: []string{
			"CODIGO", "Fecha", "ID", "Nombre", "Cartera",
			"Ejecucion", "Total Infracciones", "Total Operativo", "Nota Calidad",
		},
		Widths: map[string]float64{"A": 14, "D": 28},
	}

	lookup := func(colIndex int) contracts.Expr {
		return formula.Lookup{
			Key: formula.Ref{Col: "A"}, Sheet: SheetOperativo,
			StartCol: "A", EndCol: colTotalOper, ColIndex: colIndex,
		}
	}

	for _, rec := range recs {
		sheet.AddRow(contracts.Row{
			contracts.FormulaCell(codigo("C", "B"), contracts.KindText),
			contracts.TextCell(rec.Day.String()),
			contracts.TextCell(rec.PersonID),
			contracts.TextCell(rec.Name),
			contracts.TextCell(rec.Portfolio),
			contracts.FormulaCell(lookup(formula.ColumnIndex("AA")+1), contracts.KindPercent),
			contracts.FormulaCell(lookup(formula.ColumnIndex(colInfr)+1), contracts.KindNumber),
			contracts.FormulaCell(lookup(formula.ColumnIndex(colTotalOper)+1), contracts.KindNumber),
			contracts.FormulaCell(formula.Lookup{
				Key: formula.Ref{Col: "A"}, Sheet: SheetCalidad,
				StartCol: "A", EndCol: "E", ColIndex: 5,
			}, contracts.KindNumber),
		})
	}
	return sheet
}

// calidad carries the per-record codes with an empty score column the
// quality team fills by hand.
func (e *emitter) calidad(recs []*contracts.OperationalRecord) *contracts.Sheet {
	sheet := &contracts.Sheet{
		Name:    SheetCalidad,
		Headers: []string{"CODIGO", "Fecha", "ID", "Nombre", "Nota Calidad"},
		Widths:  map[string]float64{"A": 14, "D": 28},
	}
	for _, rec := range recs {
		sheet.AddRow(contracts.Row{
			contracts.FormulaCell(codigo("C", "B"), contracts.KindText),
			contracts.TextCell(rec.Day.String()),
			contracts.TextCell(rec.PersonID),
			contracts.TextCell(rec.Name),
			contracts.EmptyCell(),
		})
	}
	return sheet
}

// gerente aggregates the Operativo sheet per manager per day through
// filtered-aggregate formulas.
func (e *emitter) gerente(recs []*contracts.OperationalRecord) *contracts.Sheet {
	return e.aggregateSheet(SheetGerente, "Gerente", colGerente, recs,
		func(rec *contracts.OperationalRecord) string { return rec.Manager })
}

// team aggregates the Operativo sheet per team leader per day.
func (e *emitter) team(recs []*contracts.OperationalRecord) *contracts.Sheet {
	return e.aggregateSheet(SheetTeam, "Team Leader", colTeamLeader, recs,
		func(rec *contracts.OperationalRecord) string { return rec.TeamLeader })
}

func (e *emitter) aggregateSheet(name, label, nameCol string, recs []*contracts.OperationalRecord, keyOf func(*contracts.OperationalRecord) string) *contracts.Sheet {
	sheet := &contracts.Sheet{
		Name:    name,
		Headers: []string{label, "Fecha", "Asesores", "Infracciones", "Promedio Operativo"},
		Widths:  map[string]float64{"A": 28, "B": 12},
	}

	type groupKey struct {
		who string
		day string
	}
	seen := make(map[groupKey]bool)
	for _, rec := range recs {
		who := keyOf(rec)
		if who == "" {
			continue
		}
		key := groupKey{who: who, day: rec.Day.Key()}
		if seen[key] {
			continue
		}
		seen[key] = true

		base := formula.AggFilter{
			Sheet:  SheetOperativo,
			DayCol: colFecha, Day: rec.Day,
			NameCol: nameCol, Name: who,
		}
		count := base
		count.Reduce = formula.ReduceCount
		infr := base
		infr.Reduce = formula.ReduceSum
		infr.ValueCol = colInfr
		avg := base
		avg.Reduce = formula.ReduceAvg
		avg.ValueCol = colTotalOper

		sheet.AddRow(contracts.Row{
			contracts.TextCell(who),
			contracts.TextCell(rec.Day.String()),
			contracts.FormulaCell(count, contracts.KindNumber),
			contracts.FormulaCell(infr, contracts.KindNumber),
			contracts.FormulaCell(avg, contracts.KindNumber),
		})
	}
	return sheet
}

// ausentismo lists records with no attendance login, with whatever the
// biometric log knows about their day.
func (e *emitter) ausentismo(recs []*contracts.OperationalRecord) *contracts.Sheet {
	sheet := &contracts.Sheet{
		Name:    SheetAusentismo,
		Headers: []string{"Fecha", "ID", "Nombre", "Sede", "Ingreso", "Salida", "Observacion"},
		Widths:  map[string]float64{"C": 28, "G": 24},
	}
	for _, rec := range recs {
		if rec.FirstLogin.Known {
			continue
		}
		obs := "Sin login"
		if rec.ClockIn.IsZero() {
			obs = "Sin login ni registro biometrico"
		}
		sheet.AddRow(contracts.Row{
			contracts.TextCell(rec.Day.String()),
			contracts.TextCell(rec.PersonID),
			contracts.TextCell(rec.Name),
			contracts.TextCell(rec.Site),
			contracts.TextCell(rec.ClockIn.String()),
			contracts.TextCell(rec.ClockOut.String()),
			contracts.TextCell(obs),
		})
	}
	return sheet
}

// lideres lists the day activity of people who appear as team leaders
// of other records.
func (e *emitter) lideres(recs []*contracts.OperationalRecord) *contracts.Sheet {
	sheet := &contracts.Sheet{
		Name:    SheetLideres,
		Headers: []string{"Fecha", "Nombre", "Primer Login", "Ultimo Toque"},
		Widths:  map[string]float64{"B": 28},
	}

	leaders := make(map[string]bool)
	for _, rec := range recs {
		if rec.TeamLeader != "" {
			leaders[rec.TeamLeader] = true
		}
	}

	for _, rec := range recs {
		isLeader := false
		for name := range leaders {
			if formula.MatchName(name, rec.Name) {
				isLeader = true
				break
			}
		}
		if !isLeader {
			continue
		}
		sheet.AddRow(contracts.Row{
			contracts.TextCell(rec.Day.String()),
			contracts.TextCell(rec.Name),
			contracts.TextCell(rec.FirstLogin.String()),
			contracts.TextCell(rec.LastTouch.String()),
		})
	}
	return sheet
}

func numberOrEmpty(n contracts.Number, kind contracts.ValueKind) contracts.Cell {
	if !n.Known {
		return contracts.EmptyCell()
	}
	return contracts.Cell{Kind: kind, Number: n.Value}
}
