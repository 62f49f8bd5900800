package contracts

// RecordKey is the reconciliation key: one person on one day.
type RecordKey struct {
	PersonID string
	Day      string
}

// OperationalRecord is the reconciled view of one person's day across
// every input source. Absent values stay absent; nothing is defaulted
// to zero here.
type OperationalRecord struct {
	PersonID   string
	NationalID string
	Name       string
	Extension  string
	VOIPID     string
	Day        Day

	// Classification inputs and result
	Management string
	Range      string
	Portfolio  string

	// Org attributes
	Manager    string
	TeamLeader string
	Location   string
	Site       string

	// Activity clocks
	FirstLogin Clock
	LastTouch  Clock
	LastCall   Clock
	ClockIn    Clock
	ClockOut   Clock

	// Counts and money
	Assignment       Number
	TouchedBy11      Number
	Touches          Number
	Payments         Number
	CallsPBX         Number
	CallsVOIP        Number
	AssignedCapital  Number
	RecoveredCapital Number
	PctRecovered     Number
	PctAccounts      Number

	// Which sources contributed
	Sources []string

	// Computed indicators, set once the record has been evaluated.
	Indicators *IndicatorSet
}

// Key returns the reconciliation key for the record.
func (r *OperationalRecord) Key() RecordKey {
	return RecordKey{PersonID: r.PersonID, Day: r.Day.Key()}
}

// TotalCalls sums the two call sources; absent when neither reported.
func (r *OperationalRecord) TotalCalls() Number {
	return r.CallsPBX.Add(r.CallsVOIP)
}

// HasSource reports whether a named source contributed to the record.
func (r *OperationalRecord) HasSource(name string) bool {
	for _, s := range r.Sources {
		if s == name {
			return true
		}
	}
	return false
}

// IndicatorSet holds the computed compliance indicators for one record.
// Individual indicators carry their reward weight when satisfied and 0
// when violated.
type IndicatorSet struct {
	Schedule Schedule

	Login       float64
	LastContact float64
	MidDay      float64
	Calls       float64
	Touches     float64
	Pause       float64

	Goal      Number
	Execution Number

	Total       float64
	Infractions int
}
