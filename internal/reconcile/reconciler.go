// Package reconcile joins the normalized rows of every input source
// into one operational record per person per day.
package reconcile

import (
	"sort"

	"github.com/grupoandino/reportes/internal/contracts"
)

// Merge folds source rows into reconciled records. Rows without a
// usable key are dropped. The fold is commutative across source order:
// clocks keep their earliest or latest value, call counts sum, and
// single-valued fields resolve by a fixed source ordering, so any
// permutation of the input yields the same records.
func Merge(rows []SourceRow) []*contracts.OperationalRecord {
	sorted := make([]SourceRow, 0, len(rows))
	for _, r := range rows {
		if r.Keyed() {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Source != sorted[j].Source {
			return sorted[i].Source < sorted[j].Source
		}
		return false
	})

	byKey := make(map[contracts.RecordKey]*contracts.OperationalRecord)
	var order []contracts.RecordKey
	for _, row := range sorted {
		key := row.Key()
		rec, ok := byKey[key]
		if !ok {
			rec = &contracts.OperationalRecord{PersonID: row.PersonID, Day: row.Day}
			byKey[key] = rec
			order = append(order, key)
		}
		fold(rec, row)
	}

	out := make([]*contracts.OperationalRecord, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day.Key() != out[j].Day.Key() {
			return out[i].Day.Key() < out[j].Day.Key()
		}
		return out[i].PersonID < out[j].PersonID
	})
	return out
}

// fold merges one source row into a record.
func fold(rec *contracts.OperationalRecord, row SourceRow) {
	// Identity and org attributes: first non-empty wins after the
	// source sort, so the winning source is fixed.
	setIfEmpty(&rec.NationalID, row.NationalID)
	setIfEmpty(&rec.Name, row.Name)
	setIfEmpty(&rec.Extension, row.Extension)
	setIfEmpty(&rec.VOIPID, row.VOIPID)
	setIfEmpty(&rec.Management, row.Management)
	setIfEmpty(&rec.Range, row.Range)
	setIfEmpty(&rec.Portfolio, row.Portfolio)
	setIfEmpty(&rec.Manager, row.Manager)
	setIfEmpty(&rec.TeamLeader, row.TeamLeader)
	setIfEmpty(&rec.Location, row.Location)
	setIfEmpty(&rec.Site, row.Site)

	// Clocks: first login and clock-in keep the earliest sighting,
	// everything else the latest.
	if row.FirstLogin.Known && (rec.FirstLogin.IsZero() || row.FirstLogin.Before(rec.FirstLogin)) {
		rec.FirstLogin = row.FirstLogin
	}
	if row.ClockIn.Known && (rec.ClockIn.IsZero() || row.ClockIn.Before(rec.ClockIn)) {
		rec.ClockIn = row.ClockIn
	}
	if row.LastTouch.Known && (rec.LastTouch.IsZero() || row.LastTouch.After(rec.LastTouch)) {
		rec.LastTouch = row.LastTouch
	}
	if row.LastCall.Known && (rec.LastCall.IsZero() || row.LastCall.After(rec.LastCall)) {
		rec.LastCall = row.LastCall
	}
	if row.ClockOut.Known && (rec.ClockOut.IsZero() || row.ClockOut.After(rec.ClockOut)) {
		rec.ClockOut = row.ClockOut
	}

	// Call counts accumulate across rows of the same source.
	rec.CallsPBX = rec.CallsPBX.Add(row.CallsPBX)
	rec.CallsVOIP = rec.CallsVOIP.Add(row.CallsVOIP)

	// Single-valued numerics keep the largest known value.
	rec.Assignment = rec.Assignment.Max(row.Assignment)
	rec.TouchedBy11 = rec.TouchedBy11.Max(row.TouchedBy11)
	rec.Touches = rec.Touches.Max(row.Touches)
	rec.Payments = rec.Payments.Max(row.Payments)
	rec.AssignedCapital = rec.AssignedCapital.Max(row.AssignedCapital)
	rec.RecoveredCapital = rec.RecoveredCapital.Max(row.RecoveredCapital)
	rec.PctRecovered = rec.PctRecovered.Max(row.PctRecovered)
	rec.PctAccounts = rec.PctAccounts.Max(row.PctAccounts)

	if !rec.HasSource(row.Source) {
		rec.Sources = append(rec.Sources, row.Source)
	}
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}
