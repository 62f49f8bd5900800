package ingest

import (
	"strings"

	"github.com/grupoandino/reportes/internal/contracts"
	"github.com/grupoandino/reportes/internal/schema"
)

// OperationsSpecs describe the collections operations export.
var OperationsSpecs = []contracts.FieldSpec{
	{Field: contracts.FieldPersonID, Header: "Usuario Gestor", Kind: contracts.KindText, Required: true},
	{Field: contracts.FieldCalendarDay, Header: "Fecha Gestion", Kind: contracts.KindDay, Required: true},
	{Field: contracts.FieldManagement, Header: "Gerencia", Kind: contracts.KindText},
	{Field: contracts.FieldRange, Header: "Rango", Kind: contracts.KindText},
	{Field: contracts.FieldName, Header: "Nombre Gestor", Kind: contracts.KindText},
	{Field: contracts.FieldAssignment, Header: "Asignacion", Kind: contracts.KindNumber},
	{Field: contracts.FieldTouchedBy11, Header: "Tocadas 11 AM", Kind: contracts.KindNumber},
	{Field: contracts.FieldTouches, Header: "Toques", Kind: contracts.KindNumber},
	{Field: contracts.FieldLastTouch, Header: "Ultimo Toque", Kind: contracts.KindClock},
	{Field: contracts.FieldPayments, Header: "Pagos", Kind: contracts.KindNumber},
	{Field: contracts.FieldAssignedCapital, Header: "Capital Asignado", Kind: contracts.KindCurrency},
	{Field: contracts.FieldRecoveredCapital, Header: "Capital Recuperado", Kind: contracts.KindCurrency},
	{Field: contracts.FieldPctRecovered, Header: "% Recuperado", Kind: contracts.KindPercent},
	{Field: contracts.FieldPctAccounts, Header: "% Cuentas", Kind: contracts.KindPercent},
	{Field: contracts.FieldManager, Header: "Gerente", Kind: contracts.KindText},
	{Field: contracts.FieldTeamLeader, Header: "Team Leader", Kind: contracts.KindText},
	{Field: contracts.FieldLocation, Header: "Ubicacion", Kind: contracts.KindText},
	{Field: contracts.FieldSite, Header: "Sede", Kind: contracts.KindText},
}

// AttendanceSpecs describe the attendance log.
var AttendanceSpecs = []contracts.FieldSpec{
	{Field: contracts.FieldPersonID, Header: "Usuario", Kind: contracts.KindText, Required: true},
	{Field: contracts.FieldCalendarDay, Header: "Fecha", Kind: contracts.KindDay, Required: true},
	{Field: contracts.FieldFirstLogin, Header: "Primer Login", Kind: contracts.KindClock},
	{Field: contracts.FieldStatus, Header: "Estado", Kind: contracts.KindText},
	{Field: contracts.FieldName, Header: "Nombre", Kind: contracts.KindText},
}

// PBXSpecs describe the PBX call-detail export.
var PBXSpecs = []contracts.FieldSpec{
	{Field: contracts.FieldSourceExt, Header: "Fuente", Kind: contracts.KindText, Required: true},
	{Field: contracts.FieldCallDate, Header: "Fecha", Kind: contracts.KindDay, Required: true},
	{Field: contracts.FieldCallStatus, Header: "DISPOSITION", Kind: contracts.KindText},
}

// VOIPSpecs describe the VOIP agent log after header aliasing.
var VOIPSpecs = []contracts.FieldSpec{
	{Field: contracts.FieldAgent, Header: "First Call Agent", Kind: contracts.KindText, Required: true},
	{Field: contracts.FieldBeginTime, Header: "Begin Time", Kind: contracts.KindClock, Required: true},
	{Field: contracts.FieldRingState, Header: "Ring Type", Kind: contracts.KindText},
}

// ClockSpecs describe the biometric clock-event log.
var ClockSpecs = []contracts.FieldSpec{
	{Field: contracts.FieldNationalID, Header: "Cedula", Kind: contracts.KindText, Required: true},
	{Field: contracts.FieldCalendarDay, Header: "Fecha", Kind: contracts.KindDay, Required: true},
	{Field: contracts.FieldClockTime, Header: "Hora", Kind: contracts.KindClock},
	{Field: contracts.FieldClockEvent, Header: "Evento", Kind: contracts.KindText},
}

// AdminOffsets is the fixed column layout of the headerless daily
// admin export.
var AdminOffsets = map[contracts.CanonicalField]int{
	contracts.FieldPersonID:    0,
	contracts.FieldName:        1,
	contracts.FieldCalendarDay: 2,
	contracts.FieldManagement:  3,
	contracts.FieldRange:       4,
	contracts.FieldAssignment:  5,
	contracts.FieldTouchedBy11: 6,
	contracts.FieldTouches:     7,
	contracts.FieldPayments:    8,
	contracts.FieldLastTouch:   9,
}

// voipHeaderAliases maps the VOIP export's Chinese column names to the
// English names the specs use.
var voipHeaderAliases = map[string]string{
	"外呼人員": "First Call Agent",
	"状态":   "Ring Type",
	"开始时间": "Begin Time",
}

// ApplyVOIPAliases rewrites known Chinese headers in place.
func ApplyVOIPAliases(ds *contracts.Dataset) {
	for i, h := range ds.Headers {
		if alias, ok := voipHeaderAliases[strings.TrimSpace(h)]; ok {
			ds.Headers[i] = alias
		}
	}
}

// firstLoginAliases identify an attendance export by its login column.
var firstLoginAliases = []string{
	"primer login", "primer ingreso", "hora login", "login",
}

// IsAttendance reports whether a headered dataset looks like the
// attendance log.
func IsAttendance(ds *contracts.Dataset) bool {
	for _, h := range ds.Headers {
		n := schema.Normalize(h)
		for _, alias := range firstLoginAliases {
			if n == alias {
				return true
			}
		}
	}
	return false
}
