package report

import (
	"github.com/grupoandino/reportes/internal/contracts"
	"github.com/grupoandino/reportes/internal/ingest"
	"github.com/grupoandino/reportes/internal/portfolio"
	"github.com/grupoandino/reportes/internal/reconcile"
	"github.com/grupoandino/reportes/internal/schema"
	"github.com/grupoandino/reportes/internal/timeparse"
)

// sourceResult is one source's normalization outcome.
type sourceResult struct {
	source  string
	rows    []reconcile.SourceRow
	mapping contracts.MappingResult
	read    int
}

// normalizeOperations turns the operations export into source rows,
// classifying each row's portfolio on the way through.
func normalizeOperations(ds *contracts.Dataset, classifier *portfolio.Classifier) sourceResult {
	res := sourceResult{source: reconcile.SourceOperations}
	if ds.Empty() {
		return res
	}
	res.mapping = schema.Map(ingest.OperationsSpecs, ds.Columns())
	res.read = len(ds.Rows)
	if !res.mapping.Usable {
		return res
	}

	cell := func(row int, f contracts.CanonicalField) string {
		return ds.Cell(row, res.mapping.Index(f))
	}

	for i := range ds.Rows {
		day, _ := timeparse.ParseDay(cell(i, contracts.FieldCalendarDay))
		management := cell(i, contracts.FieldManagement)
		rang := cell(i, contracts.FieldRange)
		lastTouch, _ := timeparse.ParseClock(cell(i, contracts.FieldLastTouch))

		res.rows = append(res.rows, reconcile.SourceRow{
			Source:           reconcile.SourceOperations,
			PersonID:         cell(i, contracts.FieldPersonID),
			Day:              day,
			Name:             cell(i, contracts.FieldName),
			Management:       management,
			Range:            rang,
			Portfolio:        classifier.Classify(management, rang),
			Manager:          cell(i, contracts.FieldManager),
			TeamLeader:       cell(i, contracts.FieldTeamLeader),
			Location:         cell(i, contracts.FieldLocation),
			Site:             cell(i, contracts.FieldSite),
			LastTouch:        lastTouch,
			Assignment:       ingest.ParseNumber(cell(i, contracts.FieldAssignment)),
			TouchedBy11:      ingest.ParseNumber(cell(i, contracts.FieldTouchedBy11)),
			Touches:          ingest.ParseNumber(cell(i, contracts.FieldTouches)),
			Payments:         ingest.ParseNumber(cell(i, contracts.FieldPayments)),
			AssignedCapital:  ingest.ParseNumber(cell(i, contracts.FieldAssignedCapital)),
			RecoveredCapital: ingest.ParseNumber(cell(i, contracts.FieldRecoveredCapital)),
			PctRecovered:     ingest.ParseNumber(cell(i, contracts.FieldPctRecovered)),
			PctAccounts:      ingest.ParseNumber(cell(i, contracts.FieldPctAccounts)),
		})
	}
	res.rows = reconcile.ExcludeListed(res.rows)
	return res
}

// normalizeAttendance turns the attendance log into source rows,
// dropping absent-state rows before the join.
func normalizeAttendance(ds *contracts.Dataset) sourceResult {
	res := sourceResult{source: reconcile.SourceAttendance}
	if ds.Empty() {
		return res
	}
	res.mapping = schema.Map(ingest.AttendanceSpecs, ds.Columns())
	res.read = len(ds.Rows)
	if !res.mapping.Usable {
		return res
	}

	cell := func(row int, f contracts.CanonicalField) string {
		return ds.Cell(row, res.mapping.Index(f))
	}

	for i := range ds.Rows {
		if reconcile.IsAbsentStatus(cell(i, contracts.FieldStatus)) {
			continue
		}
		day, _ := timeparse.ParseDay(cell(i, contracts.FieldCalendarDay))
		login, _ := timeparse.ParseClock(cell(i, contracts.FieldFirstLogin))

		res.rows = append(res.rows, reconcile.SourceRow{
			Source:     reconcile.SourceAttendance,
			PersonID:   cell(i, contracts.FieldPersonID),
			Day:        day,
			Name:       cell(i, contracts.FieldName),
			FirstLogin: login,
		})
	}
	return res
}

// normalizePBX aggregates the PBX call detail to one row per agent
// extension per day: the answered-call count the indicators use, the
// total and effective dial pair, and the latest call clock.
func normalizePBX(ds *contracts.Dataset, roster *contracts.Roster) sourceResult {
	res := sourceResult{source: reconcile.SourcePBX}
	if ds.Empty() {
		return res
	}
	res.mapping = schema.Map(ingest.PBXSpecs, ds.Columns())
	res.read = len(ds.Rows)
	if !res.mapping.Usable {
		return res
	}

	byExt := map[string]contracts.RosterEntry{}
	if roster != nil {
		byExt = roster.ByExtension()
	}

	type aggKey struct {
		ext string
		day string
	}
	type agg struct {
		row reconcile.SourceRow
	}
	groups := make(map[aggKey]*agg)
	var order []aggKey

	for i := range ds.Rows {
		ext := ds.Cell(i, res.mapping.Index(contracts.FieldSourceExt))
		if !reconcile.ValidPBXExtension(ext) {
			continue
		}
		stamp := ds.Cell(i, res.mapping.Index(contracts.FieldCallDate))
		day, ok := timeparse.ParseDay(stamp)
		if !ok {
			continue
		}
		clock, _ := timeparse.ParseClock(stamp)
		effective := reconcile.EffectivePBX(ds.Cell(i, res.mapping.Index(contracts.FieldCallStatus)))

		key := aggKey{ext: ext, day: day.Key()}
		g, ok := groups[key]
		if !ok {
			entry := byExt[ext]
			g = &agg{row: reconcile.SourceRow{
				Source:         reconcile.SourcePBX,
				PersonID:       entry.PersonID,
				Name:           entry.Name,
				Extension:      ext,
				Day:            day,
				CallsPBX:       contracts.N(0),
				CallsTotal:     contracts.N(0),
				CallsEffective: contracts.N(0),
			}}
			groups[key] = g
			order = append(order, key)
		}
		g.row.CallsTotal = g.row.CallsTotal.Add(contracts.N(1))
		if effective {
			g.row.CallsPBX = g.row.CallsPBX.Add(contracts.N(1))
			g.row.CallsEffective = g.row.CallsEffective.Add(contracts.N(1))
		}
		if clock.Known && clock.After(g.row.LastCall) {
			g.row.LastCall = clock
		}
	}

	for _, key := range order {
		res.rows = append(res.rows, groups[key].row)
	}
	return res
}

// normalizeVOIP aggregates the VOIP agent log to one row per agent per
// day, counting only valid ring outcomes.
func normalizeVOIP(ds *contracts.Dataset, roster *contracts.Roster) sourceResult {
	res := sourceResult{source: reconcile.SourceVOIP}
	if ds.Empty() {
		return res
	}
	ingest.ApplyVOIPAliases(ds)
	res.mapping = schema.Map(ingest.VOIPSpecs, ds.Columns())
	res.read = len(ds.Rows)
	if !res.mapping.Usable {
		return res
	}

	byVOIP := map[string]contracts.RosterEntry{}
	if roster != nil {
		byVOIP = roster.ByVOIP()
	}

	type aggKey struct {
		agent string
		day   string
	}
	groups := make(map[aggKey]*reconcile.SourceRow)
	var order []aggKey

	for i := range ds.Rows {
		state := ds.Cell(i, res.mapping.Index(contracts.FieldRingState))
		if !reconcile.ValidRingState(state) {
			continue
		}
		agent := ds.Cell(i, res.mapping.Index(contracts.FieldAgent))
		if agent == "" {
			continue
		}
		stamp := ds.Cell(i, res.mapping.Index(contracts.FieldBeginTime))
		day, ok := timeparse.ParseDay(stamp)
		if !ok {
			continue
		}
		clock, _ := timeparse.ParseClock(stamp)

		key := aggKey{agent: agent, day: day.Key()}
		row, ok := groups[key]
		if !ok {
			entry := byVOIP[agent]
			row = &reconcile.SourceRow{
				Source:         reconcile.SourceVOIP,
				PersonID:       entry.PersonID,
				Name:           entry.Name,
				VOIPID:         agent,
				Day:            day,
				CallsVOIP:      contracts.N(0),
				CallsTotal:     contracts.N(0),
				CallsEffective: contracts.N(0),
			}
			groups[key] = row
			order = append(order, key)
		}
		row.CallsVOIP = row.CallsVOIP.Add(contracts.N(1))
		row.CallsTotal = row.CallsTotal.Add(contracts.N(1))
		if reconcile.EffectiveRing(state) {
			row.CallsEffective = row.CallsEffective.Add(contracts.N(1))
		}
		if clock.Known && clock.After(row.LastCall) {
			row.LastCall = clock
		}
	}

	for _, key := range order {
		res.rows = append(res.rows, *groups[key])
	}
	return res
}

// normalizeClock folds the biometric event log into one clock-in /
// clock-out pair per person per day, joined through the roster's
// national ids.
func normalizeClock(ds *contracts.Dataset, roster *contracts.Roster) sourceResult {
	res := sourceResult{source: reconcile.SourceClock}
	if ds.Empty() {
		return res
	}
	res.mapping = schema.Map(ingest.ClockSpecs, ds.Columns())
	res.read = len(ds.Rows)
	if !res.mapping.Usable {
		return res
	}

	byNational := map[string]contracts.RosterEntry{}
	if roster != nil {
		byNational = roster.ByNationalID()
	}

	type aggKey struct {
		nid string
		day string
	}
	groups := make(map[aggKey]*reconcile.SourceRow)
	var order []aggKey

	for i := range ds.Rows {
		nid := ds.Cell(i, res.mapping.Index(contracts.FieldNationalID))
		if nid == "" {
			continue
		}
		stamp := ds.Cell(i, res.mapping.Index(contracts.FieldCalendarDay))
		day, ok := timeparse.ParseDay(stamp)
		if !ok {
			continue
		}
		clock, ok := timeparse.ParseClock(ds.Cell(i, res.mapping.Index(contracts.FieldClockTime)))
		if !ok {
			// Some exports carry the clock inside the date column.
			clock, ok = timeparse.ParseClock(stamp)
			if !ok {
				continue
			}
		}

		key := aggKey{nid: nid, day: day.Key()}
		row, exists := groups[key]
		if !exists {
			entry := byNational[nid]
			row = &reconcile.SourceRow{
				Source:     reconcile.SourceClock,
				PersonID:   entry.PersonID,
				Name:       entry.Name,
				NationalID: nid,
				Day:        day,
			}
			groups[key] = row
			order = append(order, key)
		}
		if row.ClockIn.IsZero() || clock.Before(row.ClockIn) {
			row.ClockIn = clock
		}
		if row.ClockOut.IsZero() || clock.After(row.ClockOut) {
			row.ClockOut = clock
		}
	}

	for _, key := range order {
		res.rows = append(res.rows, *groups[key])
	}
	return res
}
