package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupoandino/reportes/internal/contracts"
	"github.com/grupoandino/reportes/pkg/config"
	"github.com/grupoandino/reportes/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func sampleRoster() *contracts.Roster {
	return &contracts.Roster{Entries: []contracts.RosterEntry{
		{PersonID: "jlopez", Extension: "2104", VOIPID: "8001", Name: "Juana Lopez", Site: "Bogota"},
		{PersonID: "pgomez", Extension: "2105", Name: "Pedro Gomez", Site: "Medellin"},
	}}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base_asesores.json")
	store := NewStore(path, testLogger())

	require.NoError(t, store.Save(sampleRoster()))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sampleRoster().Entries, loaded.Entries)
}

func TestStore_SaveBacksUpPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "base_asesores.json")
	store := NewStore(path, testLogger())

	require.NoError(t, store.Save(sampleRoster()))

	updated := sampleRoster()
	updated.Entries[0].Extension = "2999"
	require.NoError(t, store.Save(updated))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	backups := 0
	for _, e := range entries {
		name := e.Name()
		if name != "base_asesores.json" {
			assert.Contains(t, name, "base_asesores_backup_")
			backups++
		}
	}
	assert.Equal(t, 1, backups)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "2999", loaded.Entries[0].Extension)
}

func TestStore_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "base.json"), testLogger())
	require.NoError(t, store.Save(sampleRoster()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestStore_RejectsEmptyRoster(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "base.json"), testLogger())
	assert.Error(t, store.Save(&contracts.Roster{}))
	assert.Error(t, store.Save(nil))
}

func TestParse(t *testing.T) {
	ds := &contracts.Dataset{
		Name:    "planta.xlsx",
		Access:  contracts.AccessHeadered,
		Headers: []string{"Fecha Ingreso", "Fecha", "Cedula", "ID", "EXT", "VOIP", "Nombre", "Sede", "Ubicación"},
		Rows: [][]string{
			{"01/02/2024", "05/09/2025", "100200300", "jlopez", "2104", "8001", "Juana Lopez", "Bogota", "Piso 2"},
			{"01/03/2024", "05/09/2025", "100200301", "", "2105", "8002", "Sin Usuario", "Bogota", "Piso 2"},
			{"01/04/2024", "05/09/2025", "100200302", "pgomez", "", "8003", "Pedro Gomez", "Medellin", "Piso 1"},
		},
	}

	roster, err := Parse(ds)
	require.NoError(t, err)
	require.Len(t, roster.Entries, 1)
	assert.Equal(t, "jlopez", roster.Entries[0].PersonID)
	assert.Equal(t, "Piso 2", roster.Entries[0].Location)
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	ds := &contracts.Dataset{
		Name:    "planta.xlsx",
		Access:  contracts.AccessHeadered,
		Headers: []string{"Nombre", "Sede"},
		Rows:    [][]string{{"Juana Lopez", "Bogota"}},
	}
	_, err := Parse(ds)
	assert.Error(t, err)
}
