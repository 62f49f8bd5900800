// Package roster parses and persists the advisor base that joins call
// extensions and VOIP ids back to people.
package roster

import (
	"fmt"

	"github.com/grupoandino/reportes/internal/contracts"
	"github.com/grupoandino/reportes/internal/schema"
)

// fieldSpecs are the roster export's columns. Identity columns are
// required; the rest degrade to empty.
var fieldSpecs = []contracts.FieldSpec{
	{Field: contracts.FieldPersonID, Header: "ID", Kind: contracts.KindText, Required: true},
	{Field: contracts.FieldExtension, Header: "EXT", Kind: contracts.KindText, Required: true},
	{Field: contracts.FieldJoinDay, Header: "Fecha Ingreso", Kind: contracts.KindDay},
	{Field: contracts.FieldCalendarDay, Header: "Fecha", Kind: contracts.KindDay},
	{Field: contracts.FieldNationalID, Header: "Cedula", Kind: contracts.KindText},
	{Field: contracts.FieldVOIPID, Header: "VOIP", Kind: contracts.KindText},
	{Field: contracts.FieldName, Header: "Nombre", Kind: contracts.KindText},
	{Field: contracts.FieldSite, Header: "Sede", Kind: contracts.KindText},
	{Field: contracts.FieldLocation, Header: "Ubicación", Kind: contracts.KindText},
}

// Parse maps a decoded roster dataset into entries. Rows without both
// an advisor id and an extension are dropped rather than kept as
// unusable stubs.
func Parse(ds *contracts.Dataset) (*contracts.Roster, error) {
	if ds.Empty() {
		return nil, fmt.Errorf("roster dataset %q is empty", ds.Name)
	}
	mapping := schema.Map(fieldSpecs, ds.Columns())
	if !mapping.Usable {
		return nil, fmt.Errorf("roster dataset %q is missing required columns %v", ds.Name, mapping.Unmapped)
	}

	cell := func(row int, f contracts.CanonicalField) string {
		return ds.Cell(row, mapping.Index(f))
	}

	roster := &contracts.Roster{}
	for i := range ds.Rows {
		entry := contracts.RosterEntry{
			JoinDate:   cell(i, contracts.FieldJoinDay),
			Date:       cell(i, contracts.FieldCalendarDay),
			NationalID: cell(i, contracts.FieldNationalID),
			PersonID:   cell(i, contracts.FieldPersonID),
			Extension:  cell(i, contracts.FieldExtension),
			VOIPID:     cell(i, contracts.FieldVOIPID),
			Name:       cell(i, contracts.FieldName),
			Site:       cell(i, contracts.FieldSite),
			Location:   cell(i, contracts.FieldLocation),
		}
		if !entry.Valid() {
			continue
		}
		roster.Entries = append(roster.Entries, entry)
	}
	if len(roster.Entries) == 0 {
		return nil, fmt.Errorf("roster dataset %q has no usable rows", ds.Name)
	}
	return roster, nil
}
