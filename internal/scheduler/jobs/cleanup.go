// Package jobs holds the scheduled maintenance jobs.
package jobs

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/grupoandino/reportes/pkg/config"
	"github.com/grupoandino/reportes/pkg/logger"
)

// TempCleanupJob sweeps uploaded source files older than the retention
// window out of the temp directory.
type TempCleanupJob struct {
	cfg    config.ReportConfig
	logger *logger.Logger
}

// NewTempCleanupJob creates a temp cleanup job.
func NewTempCleanupJob(cfg config.ReportConfig, log *logger.Logger) *TempCleanupJob {
	return &TempCleanupJob{cfg: cfg, logger: log}
}

// Name returns the job name
func (j *TempCleanupJob) Name() string {
	return "temp_cleanup"
}

// Schedule returns the cron schedule from configuration.
func (j *TempCleanupJob) Schedule() string {
	return j.cfg.CleanupSchedule
}

// Run removes expired files. Sweep errors on single files are logged
// and skipped so one bad file cannot stall the sweep.
func (j *TempCleanupJob) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-j.cfg.TempTTL)
	removed := 0

	entries, err := os.ReadDir(j.cfg.TempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.cfg.TempDir, entry.Name())
		if err := os.Remove(path); err != nil {
			j.logger.WithError(err).WithField("file", path).Warn("Could not remove expired file")
			continue
		}
		removed++
	}

	if removed > 0 {
		j.logger.WithField("removed", removed).Info("Temp cleanup completed")
	}
	return nil
}
