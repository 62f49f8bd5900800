package contracts

// ValueKind describes how a canonical field's values are typed and,
// for output cells, how they should be formatted.
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
	KindCurrency
	KindPercent
	KindDay
	KindClock
)

// CanonicalField identifies a column role independent of how a given
// export happens to label it.
type CanonicalField string

const (
	FieldPersonID         CanonicalField = "person_id"
	FieldNationalID       CanonicalField = "national_id"
	FieldName             CanonicalField = "name"
	FieldCalendarDay      CanonicalField = "calendar_day"
	FieldJoinDay          CanonicalField = "join_day"
	FieldFirstLogin       CanonicalField = "first_login"
	FieldLastTouch        CanonicalField = "last_touch"
	FieldLastCall         CanonicalField = "last_call"
	FieldAssignment       CanonicalField = "assignment"
	FieldTouchedBy11      CanonicalField = "touched_by_11"
	FieldTouches          CanonicalField = "touches"
	FieldPayments         CanonicalField = "payments"
	FieldAssignedCapital  CanonicalField = "assigned_capital"
	FieldRecoveredCapital CanonicalField = "recovered_capital"
	FieldPctRecovered     CanonicalField = "pct_recovered"
	FieldPctAccounts      CanonicalField = "pct_accounts"
	FieldManagement       CanonicalField = "management"
	FieldRange            CanonicalField = "range"
	FieldManager          CanonicalField = "manager"
	FieldTeamLeader       CanonicalField = "team_leader"
	FieldLocation         CanonicalField = "location"
	FieldSite             CanonicalField = "site"
	FieldExtension        CanonicalField = "extension"
	FieldVOIPID           CanonicalField = "voip_id"
	FieldAgent            CanonicalField = "agent"
	FieldRingState        CanonicalField = "ring_state"
	FieldBeginTime        CanonicalField = "begin_time"
	FieldSourceExt        CanonicalField = "source_ext"
	FieldCallStatus       CanonicalField = "call_status"
	FieldCallDate         CanonicalField = "call_date"
	FieldStatus           CanonicalField = "status"
	FieldClockTime        CanonicalField = "clock_time"
	FieldClockEvent       CanonicalField = "clock_event"
)

// FieldSpec binds a canonical field to the header text a given source
// uses for it, the expected value kind, and whether the source is
// unusable without it.
type FieldSpec struct {
	Field    CanonicalField
	Header   string
	Kind     ValueKind
	Required bool
}

// RawColumn is a column as found in a decoded dataset.
type RawColumn struct {
	Index  int
	Header string
}

// MatchTier records how confidently a raw column was bound to a
// canonical field. Lower tiers win when several columns compete.
type MatchTier int

const (
	MatchExact MatchTier = iota
	MatchNormalized
	MatchTokens
)

func (t MatchTier) String() string {
	switch t {
	case MatchExact:
		return "exact"
	case MatchNormalized:
		return "normalized"
	case MatchTokens:
		return "tokens"
	}
	return "unknown"
}

// ColumnMapping binds one canonical field to one raw column.
type ColumnMapping struct {
	Field  CanonicalField
	Column RawColumn
	Tier   MatchTier
}

// MappingResult is the full outcome of mapping one dataset: what
// bound, what canonical fields stayed unbound, and what raw columns
// nothing claimed.
type MappingResult struct {
	Mappings []ColumnMapping
	Unmapped []CanonicalField
	Unused   []RawColumn
	Usable   bool
}

// Index returns the raw column index for a field, or -1 if unbound.
func (m *MappingResult) Index(f CanonicalField) int {
	for _, mp := range m.Mappings {
		if mp.Field == f {
			return mp.Column.Index
		}
	}
	return -1
}
