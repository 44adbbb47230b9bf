package session

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/nordlock/nordlock/internal/config"
	"github.com/nordlock/nordlock/internal/logging"
)

// LockHelper handles the system side of a lock session: hooks, media
// control and the single-instance guard.
type LockHelper struct {
	config    config.Configuration
	mediaCtrl *MediaController
	lockFile  *os.File
}

// NewLockHelper creates a new helper instance with the given configuration
func NewLockHelper(cfg config.Configuration) *LockHelper {
	var mediaCtrl *MediaController
	if cfg.LockPauseMedia || cfg.UnlockUnpauseMedia {
		logging.Debug("Media control is enabled, initializing media controller")
		var err error
		mediaCtrl, err = NewMediaController()
		if err != nil {
			// Continue without media control
			logging.Error("Failed to initialize media controller: %v", err)
		}
	}

	return &LockHelper{
		config:    cfg,
		mediaCtrl: mediaCtrl,
	}
}

// RunPreLockCommand runs the configured pre-lock command (if any)
func (h *LockHelper) RunPreLockCommand() error {
	if h.config.PreLockCommand == "" {
		return nil
	}
	logging.Debug("Running pre-lock command: %s", h.config.PreLockCommand)
	return runShellCommand(h.config.PreLockCommand)
}

// RunPostLockCommand runs the configured post-lock command (if any)
func (h *LockHelper) RunPostLockCommand() error {
	if h.config.PostLockCommand == "" {
		return nil
	}
	logging.Debug("Running post-lock command: %s", h.config.PostLockCommand)
	return runShellCommand(h.config.PostLockCommand)
}

// CheckUserPermissions verifies that the user has the necessary permissions
func (h *LockHelper) CheckUserPermissions() error {
	if os.Geteuid() == 0 {
		return errors.New("nordlock should not be run as root for security reasons")
	}
	return nil
}

// EnsureSingleInstance makes sure only one instance of the locker is
// running. The flock is held until Close.
func (h *LockHelper) EnsureSingleInstance() error {
	lockFile := "/tmp/nordlock.lock"
	file, err := os.OpenFile(lockFile, os.O_CREATE|os.O_RDWR, 0666)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %v", err)
	}

	err = unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		file.Close()
		return errors.New("another instance of nordlock is already running")
	}

	h.lockFile = file
	return nil
}

// RunCommand runs an external command and returns its output
func (h *LockHelper) RunCommand(command string, args ...string) (string, error) {
	cmd := exec.Command(command, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("command failed: %v - %s", err, output)
	}
	return string(output), nil
}

// PauseMediaIfEnabled pauses all media if enabled in config
func (h *LockHelper) PauseMediaIfEnabled() error {
	if !h.config.LockPauseMedia {
		return nil
	}
	if h.mediaCtrl == nil {
		logging.Error("lock_pause_media is enabled but media controller is not initialized")
		return nil
	}
	logging.Debug("Pausing all media players")
	return h.mediaCtrl.PauseAllMedia()
}

// UnpauseMediaIfEnabled unpauses all media if enabled in config
func (h *LockHelper) UnpauseMediaIfEnabled() error {
	if !h.config.UnlockUnpauseMedia {
		return nil
	}
	if h.mediaCtrl == nil {
		logging.Error("unlock_unpause_media is enabled but media controller is not initialized")
		return nil
	}
	logging.Debug("Unpausing all media players")
	return h.mediaCtrl.UnpauseAllMedia()
}

// Close cleans up resources and drops the single-instance lock
func (h *LockHelper) Close() {
	if h.mediaCtrl != nil {
		h.mediaCtrl.Close()
	}
	if h.lockFile != nil {
		unix.Flock(int(h.lockFile.Fd()), unix.LOCK_UN)
		h.lockFile.Close()
		h.lockFile = nil
	}
}

// runShellCommand executes a shell command string
func runShellCommand(cmd string) error {
	return exec.Command("sh", "-c", strings.TrimSpace(cmd)).Run()
}
