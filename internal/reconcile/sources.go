package reconcile

import "github.com/grupoandino/reportes/internal/contracts"

// Source names as recorded on reconciled records.
const (
	SourceOperations = "operaciones"
	SourceAttendance = "asistencia"
	SourcePBX        = "isabel"
	SourceVOIP       = "voip"
	SourceClock      = "biometrico"
	SourceRoster     = "planta"
)

// SourceRow is one normalized contribution from one input source for
// one person on one day. Fields a source does not speak to stay at
// their absent zero values.
type SourceRow struct {
	Source   string
	PersonID string
	Day      contracts.Day

	NationalID string
	Name       string
	Extension  string
	VOIPID     string

	Management string
	Range      string
	Portfolio  string

	Manager    string
	TeamLeader string
	Location   string
	Site       string

	FirstLogin contracts.Clock
	LastTouch  contracts.Clock
	LastCall   contracts.Clock
	ClockIn    contracts.Clock
	ClockOut   contracts.Clock

	Assignment       contracts.Number
	TouchedBy11      contracts.Number
	Touches          contracts.Number
	Payments         contracts.Number
	CallsPBX         contracts.Number
	CallsVOIP        contracts.Number
	CallsTotal       contracts.Number
	CallsEffective   contracts.Number
	AssignedCapital  contracts.Number
	RecoveredCapital contracts.Number
	PctRecovered     contracts.Number
	PctAccounts      contracts.Number
}

// Keyed reports whether the row carries a usable reconciliation key.
func (r SourceRow) Keyed() bool {
	return r.PersonID != "" && !r.Day.IsZero()
}

// Key returns the reconciliation key.
func (r SourceRow) Key() contracts.RecordKey {
	return contracts.RecordKey{PersonID: r.PersonID, Day: r.Day.Key()}
}
