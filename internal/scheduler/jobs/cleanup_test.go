package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupoandino/reportes/pkg/config"
	"github.com/grupoandino/reportes/pkg/logger"
)

func TestTempCleanupRemovesOnlyExpired(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "viejo.csv")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	old := time.Now().Add(-72 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	fresh := filepath.Join(dir, "nuevo.csv")
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))

	job := NewTempCleanupJob(config.ReportConfig{
		TempDir:         dir,
		TempTTL:         48 * time.Hour,
		CleanupSchedule: "0 0 3 * * *",
	}, logger.New(&config.Config{LogLevel: "error", LogFormat: "json"}))

	assert.Equal(t, "temp_cleanup", job.Name())
	assert.Equal(t, "0 0 3 * * *", job.Schedule())
	require.NoError(t, job.Run(context.Background()))

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestTempCleanupMissingDir(t *testing.T) {
	job := NewTempCleanupJob(config.ReportConfig{
		TempDir: filepath.Join(t.TempDir(), "no-existe"),
		TempTTL: time.Hour,
	}, logger.New(&config.Config{LogLevel: "error", LogFormat: "json"}))

	assert.NoError(t, job.Run(context.Background()))
}
