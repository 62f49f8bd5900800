package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupoandino/reportes/internal/contracts"
)

func TestDecode_CommaCSV(t *testing.T) {
	csv := "Usuario,Fecha,Primer Login\njlopez,05/09/2025,7:25:00 AM\n\n"
	ds, err := Decode("asistencia.csv", strings.NewReader(csv), contracts.AccessHeadered)
	require.NoError(t, err)

	assert.Equal(t, []string{"Usuario", "Fecha", "Primer Login"}, ds.Headers)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "jlopez", ds.Cell(0, 0))
}

func TestDecode_SemicolonCSV(t *testing.T) {
	csv := "Fuente;Fecha;DISPOSITION\n2104;2025-09-05 10:00:00;ANSWERED\n"
	ds, err := Decode("isabel.csv", strings.NewReader(csv), contracts.AccessHeadered)
	require.NoError(t, err)

	assert.Equal(t, []string{"Fuente", "Fecha", "DISPOSITION"}, ds.Headers)
	assert.Equal(t, "ANSWERED", ds.Cell(0, 2))
}

func TestDecode_Latin1Fallback(t *testing.T) {
	// "Ubicación" encoded as latin-1: ó is byte 0xF3.
	raw := append([]byte("Nombre,Ubicaci"), 0xF3)
	raw = append(raw, []byte("n\nJuana,Bogota\n")...)

	ds, err := Decode("planta.csv", strings.NewReader(string(raw)), contracts.AccessHeadered)
	require.NoError(t, err)
	assert.Equal(t, "Ubicación", ds.Headers[1])
}

func TestDecode_Positional(t *testing.T) {
	csv := "jlopez,Juana Lopez,05/09/2025\npgomez,Pedro Gomez,05/09/2025\n"
	ds, err := Decode("admin.csv", strings.NewReader(csv), contracts.AccessPositional)
	require.NoError(t, err)

	assert.Empty(t, ds.Headers)
	assert.Len(t, ds.Rows, 2)
	assert.Equal(t, "Juana Lopez", ds.Cell(0, 1))
}

func TestApplyVOIPAliases(t *testing.T) {
	ds := &contracts.Dataset{
		Access:  contracts.AccessHeadered,
		Headers: []string{"外呼人員", "状态", "开始时间", "Duration"},
	}
	ApplyVOIPAliases(ds)
	assert.Equal(t, []string{"First Call Agent", "Ring Type", "Begin Time", "Duration"}, ds.Headers)
}

func TestIsAttendance(t *testing.T) {
	yes := &contracts.Dataset{Headers: []string{"Usuario", "Fecha", "Primer Login"}}
	no := &contracts.Dataset{Headers: []string{"Fuente", "Fecha", "DISPOSITION"}}
	assert.True(t, IsAttendance(yes))
	assert.False(t, IsAttendance(no))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		known bool
	}{
		{"150", 150, true},
		{"$1,250,000", 1250000, true},
		{"37%", 0.37, true},
		{"0.37", 0.37, true},
		{"", 0, false},
		{"sin datos", 0, false},
	}
	for _, tt := range tests {
		got := ParseNumber(tt.in)
		assert.Equal(t, tt.known, got.Known, tt.in)
		if tt.known {
			assert.InDelta(t, tt.want, got.Value, 1e-9, tt.in)
		}
	}
}
