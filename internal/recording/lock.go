package recording

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Iron-Ham/ctsort/internal/errors"
	"github.com/Iron-Ham/ctsort/internal/logging"
)

// LockFileName is the run lock kept in a recording's output directory.
const LockFileName = "run.lock"

// Lock is a held run lock on one recording.
type Lock struct {
	Recording string    `json:"recording"`
	RunID     string    `json:"run_id"`
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	StartedAt time.Time `json:"started_at"`

	path   string
	logger *logging.Logger
}

// AcquireLock takes the run lock for a recording whose output lives in dir.
// A lock held by a live process yields an error wrapping
// errors.ErrRecordingLocked; a lock left by a dead process is removed first.
// logger may be nil.
func AcquireLock(dir string, id ID, runID string, logger *logging.Logger) (*Lock, error) {
	path := filepath.Join(dir, LockFileName)

	if holder, locked := IsLocked(dir); locked {
		return nil, lockedError(id, dir, holder, logger)
	}
	if _, err := CleanStaleLock(dir, logger); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewRecordingError(err.Error(), errors.ErrDirectoryUnavailable).
			WithRecording(id.Set, id.Number).
			WithDir(dir)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	lock := &Lock{
		Recording: id.Name(),
		RunID:     runID,
		PID:       os.Getpid(),
		Hostname:  hostname,
		StartedAt: time.Now(),
		path:      path,
		logger:    logger,
	}

	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lock: %w", err)
	}

	// O_EXCL closes the window between the check above and the create.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			existing, _ := ReadLock(path)
			return nil, lockedError(id, dir, existing, logger)
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}

	if logger != nil {
		logger.Debug("run lock acquired", "pid", lock.PID)
	}
	return lock, nil
}

func lockedError(id ID, dir string, holder *Lock, logger *logging.Logger) error {
	msg := "locked by another run"
	if holder != nil {
		msg = fmt.Sprintf("locked by PID %d on %s (run %s)", holder.PID, holder.Hostname, holder.RunID)
	}
	err := errors.NewRecordingError(msg, errors.ErrRecordingLocked).
		WithRecording(id.Set, id.Number).
		WithDir(dir)
	if logger != nil {
		logger.Report("failed to acquire lock", err)
	}
	return err
}

// Release removes the lock file if this process still owns it. Safe to call
// more than once.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}

	existing, err := ReadLock(l.path)
	if err != nil || existing.PID != l.PID || existing.RunID != l.RunID {
		return nil
	}
	if err := os.Remove(l.path); err != nil {
		return err
	}
	if l.logger != nil {
		l.logger.Debug("run lock released")
	}
	return nil
}

// ReadLock parses a lock file.
func ReadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock Lock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	lock.path = path
	return &lock, nil
}

// IsLocked reports whether dir holds a lock owned by a live process. The
// lock is returned whenever one exists, stale or not.
func IsLocked(dir string) (*Lock, bool) {
	lock, err := ReadLock(filepath.Join(dir, LockFileName))
	if err != nil {
		return nil, false
	}
	return lock, isProcessAlive(lock.PID)
}

// CleanStaleLock removes the lock in dir if its owner is no longer running.
// It reports whether a lock was removed. logger may be nil.
func CleanStaleLock(dir string, logger *logging.Logger) (bool, error) {
	path := filepath.Join(dir, LockFileName)
	lock, err := ReadLock(path)
	if err != nil {
		return false, nil
	}
	if isProcessAlive(lock.PID) {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("failed to remove stale lock: %w", err)
	}
	if logger != nil {
		logger.Warn("stale lock cleaned", "old_pid", lock.PID, "old_run_id", lock.RunID)
	}
	return true, nil
}

// isProcessAlive sends signal 0, which checks for existence only.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
