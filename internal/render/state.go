package render

import (
	"image/color"
	"strconv"
)

// UnlockState reflects the most recent password-buffer interaction. It
// is ordered: anything at or above UnlockKeyPressed means the user has
// started typing.
type UnlockState int

const (
	// UnlockStarted means the password buffer is empty and untouched.
	UnlockStarted UnlockState = iota
	// UnlockKeyPressed means the buffer holds at least one character.
	UnlockKeyPressed
	// UnlockKeyActive is set for the frame right after a key press.
	UnlockKeyActive
	// UnlockBackspaceActive is set for the frame right after a deletion.
	UnlockBackspaceActive
	// UnlockNothingToDelete is set when backspace hit an empty buffer.
	UnlockNothingToDelete
)

// AuthState reflects authentication-backend progress.
type AuthState int

const (
	AuthIdle AuthState = iota
	AuthVerify
	AuthLock
	AuthWrong
	AuthLockFailed
)

// appearance is the resolved look of the unlock indicator for one frame:
// the ring border color, the status text and its color. It is a pure
// function of the two state values plus the failed-attempts settings, so
// the priority rule stays testable away from any drawing code.
type appearance struct {
	Ring   color.RGBA
	Text   color.RGBA
	Status string
}

// indicatorAppearance maps authentication and interaction state to ring
// and text styling. AuthState strictly dominates; UnlockState is only
// consulted while authentication is idle.
func indicatorAppearance(auth AuthState, unlock UnlockState, showFailed bool, failed int) appearance {
	switch auth {
	case AuthVerify:
		return appearance{Ring: colorRingVerify, Text: colorTextVerify, Status: "Verifying…"}
	case AuthLock:
		return appearance{Ring: colorRingVerify, Text: colorTextVerify, Status: "Locking…"}
	case AuthWrong:
		return appearance{Ring: colorRingWrong, Text: colorTextWrong, Status: "Wrong!"}
	case AuthLockFailed:
		return appearance{Ring: colorRingWrong, Text: colorTextWrong, Status: "Lock failed!"}
	}

	if unlock == UnlockNothingToDelete {
		return appearance{Ring: colorRingNoInput, Text: colorTextNoInput, Status: "No input"}
	}

	a := appearance{Ring: colorRingDefault, Text: colorTextDefault}
	if showFailed && failed > 0 {
		// More than three digits would not fit inside the ring.
		if failed > 999 {
			a.Status = "> 999"
		} else {
			a.Status = strconv.Itoa(failed)
		}
		a.Text = colorTextWrong
	}
	return a
}

// indicatorVisible reports whether the unlock indicator should be drawn
// at all for the given state.
func indicatorVisible(rc RenderContext) bool {
	return rc.ShowIndicator && (rc.Unlock >= UnlockKeyPressed || rc.Auth > AuthIdle)
}

// highlightActive reports whether a keystroke highlight arc belongs on
// this frame.
func highlightActive(unlock UnlockState) bool {
	return unlock == UnlockKeyActive || unlock == UnlockBackspaceActive
}
