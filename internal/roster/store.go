package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/grupoandino/reportes/internal/contracts"
	"github.com/grupoandino/reportes/pkg/logger"
)

// Store persists the roster as a JSON file. Loads always hit the disk
// so concurrent report runs see the latest saved base.
type Store struct {
	path   string
	logger *logger.Logger
}

// NewStore creates a Store for the given file path.
func NewStore(path string, log *logger.Logger) *Store {
	return &Store{path: path, logger: log}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the roster fresh from disk.
func (s *Store) Load() (*contracts.Roster, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	var entries []contracts.RosterEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode roster file: %w", err)
	}
	return &contracts.Roster{Entries: entries}, nil
}

// Save writes the roster atomically: serialize to a temp file in the
// same directory, back up the previous file, then rename into place.
func (s *Store) Save(roster *contracts.Roster) error {
	if roster == nil || len(roster.Entries) == 0 {
		return fmt.Errorf("refusing to save an empty roster")
	}

	data, err := json.MarshalIndent(roster.Entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode roster: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create roster directory: %w", err)
	}

	tmp := filepath.Join(dir, ".roster-"+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write roster temp file: %w", err)
	}

	if backup, err := s.backup(); err != nil {
		_ = os.Remove(tmp)
		return err
	} else if backup != "" {
		s.logger.WithField("backup", backup).Info("Previous roster backed up")
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace roster file: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"path":    s.path,
		"entries": len(roster.Entries),
	}).Info("Roster saved")
	return nil
}

// backup copies the current roster file aside with a timestamp suffix.
// A missing current file is not an error on first save.
func (s *Store) backup() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read current roster for backup: %w", err)
	}

	ext := filepath.Ext(s.path)
	base := strings.TrimSuffix(filepath.Base(s.path), ext)
	stamp := time.Now().Format("20060102_150405")
	backup := filepath.Join(filepath.Dir(s.path), fmt.Sprintf("%s_backup_%s%s", base, stamp, ext))
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write roster backup: %w", err)
	}
	return backup, nil
}
