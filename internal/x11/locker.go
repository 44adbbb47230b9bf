package x11

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/nordlock/nordlock/internal/auth"
	"github.com/nordlock/nordlock/internal/config"
	"github.com/nordlock/nordlock/internal/logging"
	"github.com/nordlock/nordlock/internal/render"
	"github.com/nordlock/nordlock/internal/session"
)

// Keysyms the input handling cares about
const (
	keyBackspace = 0xff08
	keyReturn    = 0xff0d
	keyEscape    = 0xff1b
	keyKPEnter   = 0xff8d
	keyQLower    = 0x71
	keyQUpper    = 0x51
)

// How long the wrong-password state stays on screen before the
// indicator returns to its passive appearance
const wrongStateDuration = 2 * time.Second

// Locker owns the lock window, the input grabs and the render state.
type Locker struct {
	config   config.Configuration
	conn     *Connection
	window   xproto.Window
	renderer *render.Renderer
	helper   *session.LockHelper
	auth     *auth.PamAuthenticator
	lockout  *session.LockoutManager
	password *session.SecurePassword

	width      int
	height     int
	monitors   []render.Rect
	background color.RGBA
	bgImage    image.Image

	unlockState render.UnlockState
	authState   render.AuthState
	capsLock    bool
	wrongUntil  time.Time
	isLocked    bool

	idleWatcher *IdleWatcher
}

// NewLocker creates a locker for the given configuration. The
// configuration must have passed validation.
func NewLocker(cfg config.Configuration) *Locker {
	bg, err := render.ParseColor(cfg.BackgroundColor)
	if err != nil {
		// Validation rejects malformed colors before we get here
		bg = color.RGBA{A: 0xff}
	}

	return &Locker{
		config:     cfg,
		helper:     session.NewLockHelper(cfg),
		auth:       auth.NewPamAuthenticator(cfg.PamService),
		lockout:    session.NewLockoutManager(cfg.DebugExit),
		password:   session.NewSecurePassword(),
		background: bg,
	}
}

// Lock grabs the screen and blocks until the user authenticates.
func (l *Locker) Lock() error {
	if err := l.helper.CheckUserPermissions(); err != nil {
		return err
	}
	if err := l.helper.EnsureSingleInstance(); err != nil {
		return err
	}
	defer l.helper.Close()

	if err := l.helper.RunPreLockCommand(); err != nil {
		logging.Warn("Pre-lock command error: %v", err)
	}

	if err := l.initX11(); err != nil {
		return err
	}

	if err := l.helper.PauseMediaIfEnabled(); err != nil {
		logging.Warn("Failed to pause media: %v", err)
	}

	l.isLocked = true
	l.unlockState = render.UnlockStarted
	l.authState = render.AuthIdle

	if err := l.redraw(); err != nil {
		logging.Error("Initial render failed: %v", err)
	}

	l.eventLoop()

	l.cleanup()
	return nil
}

// initX11 connects to the server and builds the lock window, grabs and
// renderer.
func (l *Locker) initX11() error {
	conn, err := Connect()
	if err != nil {
		return err
	}
	l.conn = conn
	l.width, l.height = conn.Resolution()
	logging.Info("Screen dimensions: %dx%d", l.width, l.height)

	monitors, err := conn.GetMonitors()
	if err != nil {
		logging.Warn("Failed to detect monitors: %v", err)
		monitors = nil
	}
	l.monitors = monitors

	wid, err := xproto.NewWindowId(conn.Conn)
	if err != nil {
		return fmt.Errorf("failed to allocate window ID: %v", err)
	}
	l.window = wid

	// Fullscreen override-redirect window; the window manager never
	// sees it, so nothing can raise above it
	err = xproto.CreateWindowChecked(
		conn.Conn,
		conn.Screen.RootDepth,
		l.window,
		conn.Screen.Root,
		0, 0, uint16(l.width), uint16(l.height),
		0,
		xproto.WindowClassInputOutput,
		conn.Screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{
			conn.Screen.BlackPixel,
			1,
			uint32(xproto.EventMaskKeyPress |
				xproto.EventMaskButtonPress |
				xproto.EventMaskExposure |
				xproto.EventMaskStructureNotify),
		},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to create window: %v", err)
	}

	wmName := "nordlock"
	xproto.ChangeProperty(conn.Conn, xproto.PropModeReplace, l.window,
		xproto.AtomWmName, xproto.AtomString, 8, uint32(len(wmName)), []byte(wmName))

	if err := xproto.MapWindowChecked(conn.Conn, l.window).Check(); err != nil {
		return fmt.Errorf("failed to map window: %v", err)
	}
	xproto.ConfigureWindow(conn.Conn, l.window,
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})

	if err := l.hideCursor(); err != nil {
		logging.Warn("Failed to hide cursor: %v", err)
	}
	if err := l.grabInput(); err != nil {
		return err
	}

	fonts, err := l.loadFonts()
	if err != nil {
		return err
	}
	out, err := NewPixmapOutput(conn, l.window)
	if err != nil {
		return err
	}
	l.renderer = render.New(out, fonts)

	if l.config.BackgroundImage != "" {
		img, err := loadImage(l.config.BackgroundImage)
		if err != nil {
			logging.Warn("Failed to load background image: %v", err)
		} else {
			l.bgImage = img
		}
	}

	return nil
}

func (l *Locker) loadFonts() (*render.FontSet, error) {
	if l.config.Font == "" {
		return nil, nil
	}
	fonts, err := render.LoadFontSet(l.config.Font)
	if err != nil {
		return nil, fmt.Errorf("failed to load font %s: %v", l.config.Font, err)
	}
	return fonts, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// grabInput takes exclusive keyboard and pointer grabs. The lock is
// useless without the keyboard grab, so that one is fatal.
func (l *Locker) grabInput() error {
	keyboard, err := xproto.GrabKeyboard(
		l.conn.Conn,
		true,
		l.window,
		xproto.TimeCurrentTime,
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
	).Reply()
	if err != nil {
		return fmt.Errorf("failed to grab keyboard: %v", err)
	}
	if keyboard.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("failed to grab keyboard: status %d", keyboard.Status)
	}

	pointer, err := xproto.GrabPointer(
		l.conn.Conn,
		true,
		l.window,
		xproto.EventMaskButtonPress,
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
		l.window,
		xproto.CursorNone,
		xproto.TimeCurrentTime,
	).Reply()
	if err != nil {
		return fmt.Errorf("failed to grab pointer: %v", err)
	}
	if pointer.Status != xproto.GrabStatusSuccess {
		logging.Warn("Failed to grab pointer: status %d", pointer.Status)
	}

	return nil
}

// hideCursor installs an invisible cursor on the lock window.
func (l *Locker) hideCursor() error {
	cursor, err := xproto.NewCursorId(l.conn.Conn)
	if err != nil {
		return fmt.Errorf("failed to allocate cursor ID: %v", err)
	}
	pixmap, err := xproto.NewPixmapId(l.conn.Conn)
	if err != nil {
		return fmt.Errorf("failed to allocate pixmap ID: %v", err)
	}

	err = xproto.CreatePixmapChecked(
		l.conn.Conn,
		1,
		pixmap,
		xproto.Drawable(l.conn.Screen.Root),
		1, 1,
	).Check()
	if err != nil {
		return fmt.Errorf("failed to create pixmap: %v", err)
	}

	err = xproto.CreateCursorChecked(
		l.conn.Conn,
		cursor,
		pixmap,
		pixmap,
		0, 0, 0,
		0, 0, 0,
		0, 0,
	).Check()
	if err != nil {
		xproto.FreePixmap(l.conn.Conn, pixmap)
		return fmt.Errorf("failed to create cursor: %v", err)
	}
	xproto.FreePixmap(l.conn.Conn, pixmap)

	err = xproto.ChangeWindowAttributesChecked(
		l.conn.Conn,
		l.window,
		xproto.CwCursor,
		[]uint32{uint32(cursor)},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to set invisible cursor: %v", err)
	}

	xfixes.HideCursor(l.conn.Conn, l.conn.Screen.Root)
	return nil
}

// renderContext assembles the inputs of one render pass from the
// current lock state.
func (l *Locker) renderContext() render.RenderContext {
	dpi := l.config.DPI
	if dpi <= 0 {
		dpi = l.conn.DPI()
	}

	modifier := ""
	if l.capsLock {
		modifier = "Caps Lock"
	}

	return render.RenderContext{
		Width:              l.width,
		Height:             l.height,
		DPI:                dpi,
		Monitors:           l.monitors,
		Unlock:             l.unlockState,
		Auth:               l.authState,
		Background:         l.background,
		BackgroundImage:    l.bgImage,
		TileImage:          l.config.TileImage,
		ShowIndicator:      l.config.ShowIndicator,
		ShowClock:          l.config.ShowClock,
		ShowFailedAttempts: l.config.ShowFailedAttempts,
		FailedAttempts:     l.lockout.TotalFailures(),
		ModifierLabel:      modifier,
		Now:                time.Now(),
	}
}

func (l *Locker) redraw() error {
	return l.renderer.Render(l.renderContext())
}

// eventLoop polls for X events and drives the clock tick until the
// screen is unlocked.
func (l *Locker) eventLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for l.isLocked {
		ev, err := l.conn.Conn.PollForEvent()
		if err != nil {
			logging.Debug("X event error: %v", err)
			continue
		}

		if ev == nil {
			select {
			case <-ticker.C:
				l.onTick()
			default:
				time.Sleep(20 * time.Millisecond)
			}
			continue
		}

		switch e := ev.(type) {
		case xproto.KeyPressEvent:
			l.handleKeyPress(e)

		case xproto.ExposeEvent:
			// Counting exposures collapses the series into one redraw
			if e.Count == 0 {
				if err := l.redraw(); err != nil {
					logging.Error("Redraw after expose failed: %v", err)
				}
			}

		case xproto.ConfigureNotifyEvent:
			l.handleConfigure(e)

		case xproto.MappingNotifyEvent:
			logging.Debug("Keyboard mapping changed")
		}
	}
}

// onTick advances time-driven state: the clock face and the decay of
// the wrong-password indicator.
func (l *Locker) onTick() {
	dirty := l.config.ShowClock

	if l.authState == render.AuthWrong && time.Now().After(l.wrongUntil) {
		l.authState = render.AuthIdle
		if l.password.Length() == 0 {
			l.unlockState = render.UnlockStarted
		} else {
			l.unlockState = render.UnlockKeyPressed
		}
		dirty = true
	}

	if dirty {
		if err := l.redraw(); err != nil {
			logging.Error("Tick render failed: %v", err)
		}
	}
}

// handleConfigure reacts to resolution changes by dropping the backing
// surface and re-running monitor detection.
func (l *Locker) handleConfigure(e xproto.ConfigureNotifyEvent) {
	w, h := int(e.Width), int(e.Height)
	if w == l.width && h == l.height {
		return
	}
	logging.Info("Resolution changed from %dx%d to %dx%d", l.width, l.height, w, h)
	l.width, l.height = w, h
	l.renderer.ReleaseBackingSurface()

	monitors, err := l.conn.GetMonitors()
	if err == nil {
		l.monitors = monitors
	}

	if err := l.redraw(); err != nil {
		logging.Error("Render after resolution change failed: %v", err)
	}
}

// handleKeyPress turns a key event into password edits and indicator
// state, then redraws.
func (l *Locker) handleKeyPress(e xproto.KeyPressEvent) {
	l.capsLock = e.State&xproto.ModMaskLock != 0

	keySym, ok := l.lookupKeysym(e)
	if !ok {
		return
	}

	if l.config.DebugExit && (keySym == keyEscape || keySym == keyQLower || keySym == keyQUpper) {
		logging.Info("Debug exit triggered")
		l.isLocked = false
		return
	}

	if l.lockout.IsLockedOut() {
		// Input is ignored while locked out; Escape still clears the
		// buffer
		if keySym == keyEscape {
			l.password.Clear()
			l.unlockState = render.UnlockStarted
			l.redrawQuiet()
		}
		return
	}

	switch keySym {
	case keyReturn, keyKPEnter:
		l.authenticate()
		return

	case keyBackspace:
		if l.password.Length() > 0 {
			l.password.RemoveLast()
			l.unlockState = render.UnlockBackspaceActive
		} else {
			l.unlockState = render.UnlockNothingToDelete
		}

	case keyEscape:
		l.password.Clear()
		l.unlockState = render.UnlockStarted

	default:
		if r, printable := keysymToRune(keySym); printable {
			l.password.Append([]byte(string(r))...)
			l.unlockState = render.UnlockKeyActive
		} else {
			return
		}
	}

	// Typing cancels the wrong-password display immediately
	if l.authState == render.AuthWrong {
		l.authState = render.AuthIdle
	}

	l.redrawQuiet()

	// Keystroke highlights are one-frame states; settle back into the
	// passive appearance for the next trigger
	switch l.unlockState {
	case render.UnlockKeyActive, render.UnlockBackspaceActive, render.UnlockNothingToDelete:
		if l.password.Length() == 0 {
			l.unlockState = render.UnlockStarted
		} else {
			l.unlockState = render.UnlockKeyPressed
		}
	}
}

func (l *Locker) redrawQuiet() {
	if err := l.redraw(); err != nil {
		logging.Error("Render failed: %v", err)
	}
}

// lookupKeysym resolves the keycode of an event to a keysym, honoring
// the shift level.
func (l *Locker) lookupKeysym(e xproto.KeyPressEvent) (xproto.Keysym, bool) {
	reply, err := xproto.GetKeyboardMapping(l.conn.Conn, e.Detail, 1).Reply()
	if err != nil {
		logging.Error("Error getting keyboard mapping: %v", err)
		return 0, false
	}
	if len(reply.Keysyms) == 0 {
		return 0, false
	}

	idx := 0
	if e.State&xproto.ModMaskShift != 0 && len(reply.Keysyms) > 1 && reply.Keysyms[1] != 0 {
		idx = 1
	}
	keySym := reply.Keysyms[idx]
	if keySym == 0 {
		return 0, false
	}
	return keySym, true
}

// keysymToRune maps printable ASCII and Latin-1 keysyms to runes.
func keysymToRune(keySym xproto.Keysym) (rune, bool) {
	if (keySym >= 0x20 && keySym <= 0x7e) || (keySym >= 0xa0 && keySym <= 0xff) {
		return rune(keySym), true
	}
	return 0, false
}

// authenticate verifies the password buffer against PAM.
func (l *Locker) authenticate() {
	if l.lockout.IsLockedOut() {
		logging.Info("Authentication locked out for another %v", l.lockout.GetRemainingTime().Round(time.Second))
		l.password.Clear()
		l.unlockState = render.UnlockStarted
		l.redrawQuiet()
		return
	}

	logging.Info("Attempting authentication with password of length: %d", l.password.Length())

	// Show the verification state while PAM blocks
	l.authState = render.AuthVerify
	l.redrawQuiet()

	result := l.auth.Authenticate(l.password.String())
	l.password.Clear()

	if result.Success {
		logging.Info("Authentication successful, unlocking screen")
		l.lockout.ResetLockout()
		l.isLocked = false
		return
	}

	logging.Info("Authentication failed: %s", result.Message)
	locked, duration, remaining := l.lockout.HandleFailedAttempt()
	if locked {
		logging.Info("Too many failures, locked out for %v", duration)
	} else {
		logging.Debug("%d attempts remaining before lockout", remaining)
	}

	l.authState = render.AuthWrong
	l.unlockState = render.UnlockStarted
	l.wrongUntil = time.Now().Add(wrongStateDuration)
	l.redrawQuiet()
}

// cleanup releases grabs and windows and runs the post-lock hook.
func (l *Locker) cleanup() {
	logging.Info("Lock deactivated, cleaning up resources")

	l.password.Clear()
	l.renderer.ReleaseBackingSurface()

	xproto.UngrabKeyboard(l.conn.Conn, xproto.TimeCurrentTime)
	xproto.UngrabPointer(l.conn.Conn, xproto.TimeCurrentTime)
	xproto.DestroyWindow(l.conn.Conn, l.window)
	l.conn.Close()

	if err := l.helper.UnpauseMediaIfEnabled(); err != nil {
		logging.Warn("Failed to unpause media: %v", err)
	}
	if err := l.helper.RunPostLockCommand(); err != nil {
		logging.Warn("Post-lock command error: %v", err)
	}
}
