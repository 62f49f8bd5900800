package reconcile

import (
	"strconv"
	"strings"
)

// robotUsers are automation accounts that show up in the operations
// export and must never become report rows.
var robotUsers = map[string]bool{
	"m1-1rboot-94ai":   true,
	"m1-2rboot-94ai":   true,
	"m1-2rboot-riskai": true,
	"m1-2rboot":        true,
	"rboot-94ai":       true,
	"rboot":            true,
}

// excludedAdvisors are test and staff accounts excluded by name.
var excludedAdvisors = map[string]bool{
	"liwenzhen":         true,
	"prueba":            true,
	"karol sanchez":     true,
	"daniela arias":     true,
	"brayan murcia":     true,
	"m1-2rboot-riskai":  true,
	"yesid espitia":     true,
	"william cabiativa": true,
}

// absentStatuses are attendance states that mean the person did not
// work the day; their rows never join the reconciliation.
var absentStatuses = map[string]bool{
	"ausente":     true,
	"ausencia":    true,
	"no asistio":  true,
	"incapacidad": true,
	"vacaciones":  true,
	"retirado":    true,
}

// validRingStates are the VOIP ring outcomes counted as dial attempts.
var validRingStates = map[string]bool{
	"answered":  true,
	"busy":      true,
	"no_answer": true,
	"normal":    true,
	"out_area":  true,
	"offline":   true,
}

// maxPBXExtension separates agent extensions from trunk lines in the
// PBX export's source column.
const maxPBXExtension = 30000

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsRobotUser reports whether a person id belongs to an automation
// account.
func IsRobotUser(id string) bool {
	return robotUsers[foldKey(id)]
}

// IsExcludedAdvisor reports whether a display name is on the exclusion
// list.
func IsExcludedAdvisor(name string) bool {
	return excludedAdvisors[foldKey(name)]
}

// IsAbsentStatus reports whether an attendance state means the person
// was off that day.
func IsAbsentStatus(status string) bool {
	return absentStatuses[foldKey(status)]
}

// ValidRingState reports whether a VOIP ring outcome counts as a dial.
func ValidRingState(state string) bool {
	return validRingStates[foldKey(state)]
}

// EffectiveRing reports whether a VOIP ring outcome was an answered
// call.
func EffectiveRing(state string) bool {
	return foldKey(state) == "answered"
}

// ValidPBXExtension reports whether a PBX source column value is an
// agent extension rather than a trunk.
func ValidPBXExtension(ext string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(ext))
	if err != nil {
		return false
	}
	return n > 0 && n <= maxPBXExtension
}

// EffectivePBX reports whether a PBX disposition was an answered call.
func EffectivePBX(disposition string) bool {
	return strings.EqualFold(strings.TrimSpace(disposition), "ANSWERED")
}

// ExcludeListed drops operations rows belonging to robots or excluded
// advisors. Rows from other sources pass through untouched.
func ExcludeListed(rows []SourceRow) []SourceRow {
	out := rows[:0]
	for _, r := range rows {
		if r.Source == SourceOperations && (IsRobotUser(r.PersonID) || IsExcludedAdvisor(r.Name)) {
			continue
		}
		out = append(out, r)
	}
	return out
}
