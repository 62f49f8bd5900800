package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupoandino/reportes/internal/contracts"
)

func cols(headers ...string) []contracts.RawColumn {
	out := make([]contracts.RawColumn, len(headers))
	for i, h := range headers {
		out[i] = contracts.RawColumn{Index: i, Header: h}
	}
	return out
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Usuario Gestor", "usuario gestor"},
		{"  ASIGNACIÓN  ", "asignacion"},
		{"% Recuperado", "porcentaje recuperado"},
		{"Ubicación", "ubicacion"},
		{"fecha_gestion", "fecha gestion"},
		{"Tocadas 11 AM", "tocadas 11 am"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestMap_TierPrecedence(t *testing.T) {
	specs := []contracts.FieldSpec{
		{Field: contracts.FieldPctRecovered, Header: "% Recuperado", Kind: contracts.KindPercent},
	}

	// Exact beats normalized beats tokens when all three are present.
	// The middle column only matches after accent and space folding.
	result := Map(specs, cols("Porcentaje Recuperado", "%  Recuperádo", "% Recuperado"))
	require.Len(t, result.Mappings, 1)
	assert.Equal(t, 2, result.Mappings[0].Column.Index)
	assert.Equal(t, contracts.MatchExact, result.Mappings[0].Tier)

	result = Map(specs, cols("Porcentaje  RECUPERADO", "otra"))
	require.Len(t, result.Mappings, 1)
	assert.Equal(t, contracts.MatchNormalized, result.Mappings[0].Tier)

	result = Map(specs, cols("Total Porcentaje Recuperado Mes"))
	require.Len(t, result.Mappings, 1)
	assert.Equal(t, contracts.MatchTokens, result.Mappings[0].Tier)
}

func TestMap_RequiredGating(t *testing.T) {
	specs := []contracts.FieldSpec{
		{Field: contracts.FieldPersonID, Header: "Usuario Gestor", Kind: contracts.KindText, Required: true},
		{Field: contracts.FieldCalendarDay, Header: "Fecha Gestion", Kind: contracts.KindDay, Required: true},
		{Field: contracts.FieldAssignment, Header: "Asignacion", Kind: contracts.KindNumber},
	}

	result := Map(specs, cols("Usuario Gestor", "Fecha Gestión", "Asignación", "Columna Extra"))
	assert.True(t, result.Usable)
	assert.Empty(t, result.Unmapped)
	require.Len(t, result.Unused, 1)
	assert.Equal(t, "Columna Extra", result.Unused[0].Header)

	// Missing a required field marks the source unusable but still
	// reports everything that did bind.
	result = Map(specs, cols("Fecha Gestión", "Asignación"))
	assert.False(t, result.Usable)
	assert.Equal(t, []contracts.CanonicalField{contracts.FieldPersonID}, result.Unmapped)
	assert.Len(t, result.Mappings, 2)
}

func TestMap_ColumnsClaimedOnce(t *testing.T) {
	specs := []contracts.FieldSpec{
		{Field: contracts.FieldCalendarDay, Header: "Fecha", Kind: contracts.KindDay},
		{Field: contracts.FieldJoinDay, Header: "Fecha Ingreso", Kind: contracts.KindDay},
	}

	result := Map(specs, cols("Fecha", "Fecha Ingreso"))
	require.Len(t, result.Mappings, 2)
	assert.NotEqual(t, result.Mappings[0].Column.Index, result.Mappings[1].Column.Index)
}
