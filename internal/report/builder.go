// Package report orchestrates the pipeline: schema mapping, per-source
// normalization, reconciliation, indicator evaluation, and sheet
// emission.
package report

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/grupoandino/reportes/internal/contracts"
	"github.com/grupoandino/reportes/internal/indicator"
	"github.com/grupoandino/reportes/internal/ingest"
	"github.com/grupoandino/reportes/internal/portfolio"
	"github.com/grupoandino/reportes/internal/reconcile"
	"github.com/grupoandino/reportes/internal/timeparse"
	"github.com/grupoandino/reportes/pkg/logger"
)

// Inputs are the decoded datasets one run consumes. Operations is
// required for the quality report; the rest degrade to empty markers.
type Inputs struct {
	Operations *contracts.Dataset
	Attendance *contracts.Dataset
	PBX        *contracts.Dataset
	VOIP       *contracts.Dataset
	Clock      *contracts.Dataset
	Roster     *contracts.Roster
}

// Builder runs report pipelines.
type Builder struct {
	classifier *portfolio.Classifier
	engine     *indicator.Engine
	logger     *logger.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(engine *indicator.Engine, log *logger.Logger) *Builder {
	return &Builder{
		classifier: portfolio.NewClassifier(),
		engine:     engine,
		logger:     log,
	}
}

// BuildQuality runs the full reconciliation pipeline and emits the
// quality workbook's sheets.
func (b *Builder) BuildQuality(ctx context.Context, in Inputs) (*contracts.Report, error) {
	start := time.Now()
	if in.Operations.Empty() {
		return nil, fmt.Errorf("operations export is required")
	}

	// Normalization fans out per source; the reconciler needs every
	// source's rows, so everything joins back here before the merge.
	var wg sync.WaitGroup
	results := make([]sourceResult, 5)
	stages := []func() sourceResult{
		func() sourceResult { return normalizeOperations(in.Operations, b.classifier) },
		func() sourceResult { return normalizeAttendance(in.Attendance) },
		func() sourceResult { return normalizePBX(in.PBX, in.Roster) },
		func() sourceResult { return normalizeVOIP(in.VOIP, in.Roster) },
		func() sourceResult { return normalizeClock(in.Clock, in.Roster) },
	}
	for i, stage := range stages {
		wg.Add(1)
		go func(i int, stage func() sourceResult) {
			defer wg.Done()
			results[i] = stage()
		}(i, stage)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !results[0].mapping.Usable {
		return nil, fmt.Errorf("operations export is missing required columns %v", results[0].mapping.Unmapped)
	}

	stats := contracts.ReportStats{
		SourceRows: make(map[string]int),
		Unmapped:   make(map[string][]string),
	}
	var rows []reconcile.SourceRow
	for _, res := range results {
		stats.SourceRows[res.source] = res.read
		for _, f := range res.mapping.Unmapped {
			stats.Unmapped[res.source] = append(stats.Unmapped[res.source], string(f))
		}
		if len(res.mapping.Unmapped) > 0 || len(res.mapping.Unused) > 0 {
			b.logger.WithFields(map[string]interface{}{
				"source":   res.source,
				"unmapped": len(res.mapping.Unmapped),
				"unused":   len(res.mapping.Unused),
			}).Warn("Schema mapping left columns unbound")
		}
		rows = append(rows, res.rows...)
	}

	records := reconcile.Merge(rows)
	enrichFromRoster(records, in.Roster)

	eligible := make([]*contracts.OperationalRecord, 0, len(records))
	for _, rec := range records {
		if b.engine.QualityEligible(rec) {
			eligible = append(eligible, rec)
		}
	}
	stats.Records = len(records)
	stats.Excluded = len(records) - len(eligible)

	// Engine evaluation keeps the computed values alongside the
	// emitted graph; tests hold the two equal.
	for _, rec := range eligible {
		set := b.engine.Evaluate(rec)
		rec.Indicators = &set
	}

	em := &emitter{goals: b.engine.Goals(), countPause: b.engine.CountsPause()}
	sheets := em.qualitySheets(eligible, in.Roster)

	min, max := daySpan(eligible)
	report := &contracts.Report{
		RunID:       uuid.NewString(),
		Filename:    RangeFilename("Reporte Calidad", min, max),
		GeneratedAt: time.Now(),
		Sheets:      sheets,
		Records:     eligible,
		Stats:       stats,
	}

	b.logger.WithFields(map[string]interface{}{
		"run_id":   report.RunID,
		"records":  stats.Records,
		"eligible": len(eligible),
		"excluded": stats.Excluded,
		"duration": time.Since(start),
	}).Info("Quality report built")
	return report, nil
}

// BuildCalls aggregates both call sources into the per-extension daily
// call report.
func (b *Builder) BuildCalls(ctx context.Context, pbx, voip *contracts.Dataset, roster *contracts.Roster) (*contracts.Report, error) {
	if pbx.Empty() && voip.Empty() {
		return nil, fmt.Errorf("at least one call export is required")
	}

	pbxRes := normalizePBX(pbx, roster)
	voipRes := normalizeVOIP(voip, roster)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !pbx.Empty() && !pbxRes.mapping.Usable {
		return nil, fmt.Errorf("call export is missing required columns %v", pbxRes.mapping.Unmapped)
	}
	if !voip.Empty() && !voipRes.mapping.Usable {
		return nil, fmt.Errorf("voip export is missing required columns %v", voipRes.mapping.Unmapped)
	}

	rows := append(pbxRes.rows, voipRes.rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Day.Key() != rows[j].Day.Key() {
			return rows[i].Day.Key() < rows[j].Day.Key()
		}
		if rows[i].Extension != rows[j].Extension {
			return rows[i].Extension < rows[j].Extension
		}
		return rows[i].VOIPID < rows[j].VOIPID
	})

	sheet := &contracts.Sheet{
		Name: "Llamadas",
		Headers: []string{
			"Fecha", "EXT", "VOIP", "ID", "Nombre",
			"Llamadas Isabel", "Llamadas VOIP",
			"Total Llamadas", "Llamadas Efectivas", "Ultima Llamada",
		},
		Widths: map[string]float64{"E": 28},
	}
	var min, max contracts.Day
	for _, row := range rows {
		if min.IsZero() || row.Day.Before(min) {
			min = row.Day
		}
		if max.IsZero() || max.Before(row.Day) {
			max = row.Day
		}
		sheet.AddRow(contracts.Row{
			contracts.TextCell(row.Day.String()),
			contracts.TextCell(row.Extension),
			contracts.TextCell(row.VOIPID),
			contracts.TextCell(row.PersonID),
			contracts.TextCell(row.Name),
			numberOrEmpty(row.CallsPBX, contracts.KindNumber),
			numberOrEmpty(row.CallsVOIP, contracts.KindNumber),
			numberOrEmpty(row.CallsTotal, contracts.KindNumber),
			numberOrEmpty(row.CallsEffective, contracts.KindNumber),
			contracts.TextCell(row.LastCall.String()),
		})
	}

	return &contracts.Report{
		RunID:       uuid.NewString(),
		Filename:    RangeFilename("Reporte Llamadas", min, max),
		GeneratedAt: time.Now(),
		Sheets:      []*contracts.Sheet{sheet},
		Stats: contracts.ReportStats{
			SourceRows: map[string]int{
				reconcile.SourcePBX:  pbxRes.read,
				reconcile.SourceVOIP: voipRes.read,
			},
			Records: len(rows),
		},
	}, nil
}

// adminHeaders label the positional admin export's columns plus the
// derived portfolio.
var adminHeaders = []string{
	"Usuario", "Nombre", "Fecha", "Gerencia", "Rango",
	"Asignacion", "Tocadas 11 AM", "Toques", "Pagos", "Ultimo Toque",
	"Cartera",
}

// BuildAdmin splits the headerless admin export into one sheet per
// day, classifying each row's portfolio.
func (b *Builder) BuildAdmin(ctx context.Context, admin *contracts.Dataset) (*contracts.Report, error) {
	if admin.Empty() {
		return nil, fmt.Errorf("admin export is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	off := func(f contracts.CanonicalField) int { return ingest.AdminOffsets[f] }

	byDay := make(map[string]*contracts.Sheet)
	var days []contracts.Day
	var min, max contracts.Day
	kept := 0
	for i := range admin.Rows {
		day, ok := timeparse.ParseDay(admin.Cell(i, off(contracts.FieldCalendarDay)))
		if !ok {
			continue
		}
		id := admin.Cell(i, off(contracts.FieldPersonID))
		if id == "" || reconcile.IsRobotUser(id) {
			continue
		}

		sheet, exists := byDay[day.Key()]
		if !exists {
			sheet = &contracts.Sheet{
				Name:    day.SheetName(),
				Headers: adminHeaders,
				Widths:  map[string]float64{"B": 28, "D": 24},
			}
			byDay[day.Key()] = sheet
			days = append(days, day)
		}
		if min.IsZero() || day.Before(min) {
			min = day
		}
		if max.IsZero() || max.Before(day) {
			max = day
		}

		management := admin.Cell(i, off(contracts.FieldManagement))
		rang := admin.Cell(i, off(contracts.FieldRange))
		sheet.AddRow(contracts.Row{
			contracts.TextCell(id),
			contracts.TextCell(admin.Cell(i, off(contracts.FieldName))),
			contracts.TextCell(day.String()),
			contracts.TextCell(management),
			contracts.TextCell(rang),
			numberOrEmpty(ingest.ParseNumber(admin.Cell(i, off(contracts.FieldAssignment))), contracts.KindNumber),
			numberOrEmpty(ingest.ParseNumber(admin.Cell(i, off(contracts.FieldTouchedBy11))), contracts.KindNumber),
			numberOrEmpty(ingest.ParseNumber(admin.Cell(i, off(contracts.FieldTouches))), contracts.KindNumber),
			numberOrEmpty(ingest.ParseNumber(admin.Cell(i, off(contracts.FieldPayments))), contracts.KindNumber),
			contracts.TextCell(admin.Cell(i, off(contracts.FieldLastTouch))),
			contracts.TextCell(b.classifier.Classify(management, rang)),
		})
		kept++
	}
	if kept == 0 {
		return nil, fmt.Errorf("admin export has no usable rows")
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	sheets := make([]*contracts.Sheet, 0, len(days))
	for _, d := range days {
		sheets = append(sheets, byDay[d.Key()])
	}

	return &contracts.Report{
		RunID:       uuid.NewString(),
		Filename:    RangeFilename("Reporte Admin", min, max),
		GeneratedAt: time.Now(),
		Sheets:      sheets,
		Stats: contracts.ReportStats{
			SourceRows: map[string]int{"admin": len(admin.Rows)},
			Records:    kept,
		},
	}, nil
}

// BuildReporteria joins the operations export against the roster into
// the consolidated advisor report.
func (b *Builder) BuildReporteria(ctx context.Context, ops *contracts.Dataset, roster *contracts.Roster) (*contracts.Report, error) {
	if ops.Empty() {
		return nil, fmt.Errorf("operations export is required")
	}
	if roster == nil || len(roster.Entries) == 0 {
		return nil, fmt.Errorf("roster is required")
	}

	res := normalizeOperations(ops, b.classifier)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !res.mapping.Usable {
		return nil, fmt.Errorf("operations export is missing required columns %v", res.mapping.Unmapped)
	}

	records := reconcile.Merge(res.rows)
	enrichFromRoster(records, roster)

	sheet := &contracts.Sheet{
		Name: "Reporteria",
		Headers: []string{
			"Fecha", "ID", "Nombre", "EXT", "VOIP", "Sede", "Ubicacion",
			"Cartera", "Asignacion", "Toques", "Pagos", "Ultimo Toque",
		},
		Widths: map[string]float64{"C": 28},
	}
	for _, rec := range records {
		sheet.AddRow(contracts.Row{
			contracts.TextCell(rec.Day.String()),
			contracts.TextCell(rec.PersonID),
			contracts.TextCell(rec.Name),
			contracts.TextCell(rec.Extension),
			contracts.TextCell(rec.VOIPID),
			contracts.TextCell(rec.Site),
			contracts.TextCell(rec.Location),
			contracts.TextCell(rec.Portfolio),
			numberOrEmpty(rec.Assignment, contracts.KindNumber),
			numberOrEmpty(rec.Touches, contracts.KindNumber),
			numberOrEmpty(rec.Payments, contracts.KindNumber),
			contracts.TextCell(rec.LastTouch.String()),
		})
	}

	min, max := daySpan(records)
	return &contracts.Report{
		RunID:       uuid.NewString(),
		Filename:    RangeFilename("Reporte Reporteria", min, max),
		GeneratedAt: time.Now(),
		Sheets:      []*contracts.Sheet{sheet},
		Records:     records,
		Stats: contracts.ReportStats{
			SourceRows: map[string]int{reconcile.SourceOperations: res.read},
			Records:    len(records),
		},
	}, nil
}

// enrichFromRoster fills identity gaps on merged records from the
// advisor base.
func enrichFromRoster(records []*contracts.OperationalRecord, roster *contracts.Roster) {
	if roster == nil {
		return
	}
	byID := roster.ByPersonID()
	for _, rec := range records {
		entry, ok := byID[rec.PersonID]
		if !ok {
			continue
		}
		if rec.Name == "" {
			rec.Name = entry.Name
		}
		if rec.NationalID == "" {
			rec.NationalID = entry.NationalID
		}
		if rec.Extension == "" {
			rec.Extension = entry.Extension
		}
		if rec.VOIPID == "" {
			rec.VOIPID = entry.VOIPID
		}
		if rec.Site == "" {
			rec.Site = entry.Site
		}
		if rec.Location == "" {
			rec.Location = entry.Location
		}
	}
}
