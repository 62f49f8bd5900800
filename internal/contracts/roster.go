package contracts

import "strings"

// RosterEntry is one advisor row of the staff roster. JSON keys match
// the persisted roster file.
type RosterEntry struct {
	JoinDate   string `json:"Fecha Ingreso"`
	Date       string `json:"Fecha"`
	NationalID string `json:"Cedula"`
	PersonID   string `json:"ID"`
	Extension  string `json:"EXT"`
	VOIPID     string `json:"VOIP"`
	Name       string `json:"Nombre"`
	Site       string `json:"Sede"`
	Location   string `json:"Ubicación"`
}

// Valid reports whether the entry carries enough identity to be kept.
func (e RosterEntry) Valid() bool {
	return strings.TrimSpace(e.PersonID) != "" && strings.TrimSpace(e.Extension) != ""
}

// Roster is the advisor base keyed lookups are built from.
type Roster struct {
	Entries []RosterEntry
}

// ByExtension indexes entries by PBX extension.
func (r *Roster) ByExtension() map[string]RosterEntry {
	m := make(map[string]RosterEntry, len(r.Entries))
	for _, e := range r.Entries {
		if e.Extension != "" {
			m[e.Extension] = e
		}
	}
	return m
}

// ByVOIP indexes entries by VOIP agent id.
func (r *Roster) ByVOIP() map[string]RosterEntry {
	m := make(map[string]RosterEntry, len(r.Entries))
	for _, e := range r.Entries {
		if e.VOIPID != "" {
			m[e.VOIPID] = e
		}
	}
	return m
}

// ByNationalID indexes entries by national id.
func (r *Roster) ByNationalID() map[string]RosterEntry {
	m := make(map[string]RosterEntry, len(r.Entries))
	for _, e := range r.Entries {
		if e.NationalID != "" {
			m[e.NationalID] = e
		}
	}
	return m
}

// ByPersonID indexes entries by advisor id.
func (r *Roster) ByPersonID() map[string]RosterEntry {
	m := make(map[string]RosterEntry, len(r.Entries))
	for _, e := range r.Entries {
		if e.PersonID != "" {
			m[e.PersonID] = e
		}
	}
	return m
}
