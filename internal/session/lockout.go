package session

import (
	"fmt"
	"time"

	"github.com/nordlock/nordlock/internal/logging"
)

// LockoutManager handles authentication failures and lockout periods
type LockoutManager struct {
	failedAttempts  int       // Failures since the last lockout
	totalFailures   int       // Failures since the session started
	lockoutUntil    time.Time // Time until which input is locked out
	lockoutActive   bool      // Whether a lockout is currently active
	lastFailureTime time.Time // Time of the last failed attempt
	debugExit       bool      // Shorter lockouts in debug mode
	timerRunning    bool      // Track if the countdown timer is already running
}

// NewLockoutManager creates a new lockout manager
func NewLockoutManager(debugExit bool) *LockoutManager {
	return &LockoutManager{
		debugExit:       debugExit,
		lastFailureTime: time.Now().Add(-24 * time.Hour), // Set to past to avoid initial penalty
	}
}

// HandleFailedAttempt processes a failed authentication and returns
// lockoutActive, lockoutDuration and remainingAttempts.
func (lm *LockoutManager) HandleFailedAttempt() (bool, time.Duration, int) {
	lm.failedAttempts++
	lm.totalFailures++
	lm.lastFailureTime = time.Now()

	logging.Info("Authentication failed (%d/3 attempts)", lm.failedAttempts)

	// Three failures in a row trigger a lockout
	if lm.failedAttempts >= 3 {
		var lockoutDuration time.Duration

		if lm.debugExit {
			lockoutDuration = 5 * time.Second
		} else if !lm.lockoutActive {
			// First lockout
			lockoutDuration = 30 * time.Second
		} else {
			// Subsequent lockouts grow with the failure count, capped
			// at ten minutes
			lockoutDuration = 30 * time.Second * time.Duration(lm.totalFailures/3)
			if lockoutDuration > 10*time.Minute {
				lockoutDuration = 10 * time.Minute
			}
		}

		lm.lockoutUntil = time.Now().Add(lockoutDuration)
		lm.lockoutActive = true

		logging.Info("Failed %d attempts, locking out for %v", lm.failedAttempts, lockoutDuration)

		lm.failedAttempts = 0
		return true, lockoutDuration, 0
	}

	return false, 0, 3 - lm.failedAttempts
}

// TotalFailures returns the failure count since the session started
func (lm *LockoutManager) TotalFailures() int {
	return lm.totalFailures
}

// IsLockedOut checks if authentication is currently locked out
func (lm *LockoutManager) IsLockedOut() bool {
	if lm.lockoutActive && time.Now().Before(lm.lockoutUntil) {
		return true
	}

	if lm.lockoutActive && time.Now().After(lm.lockoutUntil) {
		logging.Info("Lockout period has expired, clearing lockout state")
		lm.lockoutActive = false
	}

	return false
}

// GetRemainingTime returns how much time is left in the lockout
func (lm *LockoutManager) GetRemainingTime() time.Duration {
	if !lm.lockoutActive {
		return 0
	}

	remaining := time.Until(lm.lockoutUntil)
	if remaining < 0 {
		remaining = 0
		lm.lockoutActive = false
	}

	return remaining
}

// FormatRemainingTime returns the remaining lockout time as MM:SS
func (lm *LockoutManager) FormatRemainingTime() string {
	remainingTime := lm.GetRemainingTime()
	minutes := int(remainingTime.Minutes())
	seconds := int(remainingTime.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// ResetLockout resets the lockout state after successful authentication
func (lm *LockoutManager) ResetLockout() {
	lm.failedAttempts = 0
	lm.totalFailures = 0
	lm.lockoutActive = false
	lm.timerRunning = false
}

// GetLockoutUntil returns the time when the lockout ends
func (lm *LockoutManager) GetLockoutUntil() time.Time {
	return lm.lockoutUntil
}

// IsTimerRunning returns whether the lockout timer is currently running
func (lm *LockoutManager) IsTimerRunning() bool {
	return lm.timerRunning
}

// SetTimerRunning sets the timer running state
func (lm *LockoutManager) SetTimerRunning(running bool) {
	lm.timerRunning = running
}
