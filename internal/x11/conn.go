package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/screensaver"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/nordlock/nordlock/internal/logging"
)

// Connection wraps the X server connection and the default screen.
type Connection struct {
	Conn   *xgb.Conn
	Screen *xproto.ScreenInfo

	hasRandr       bool
	hasScreensaver bool
}

// Connect opens a connection to the X server and initializes the
// extensions the locker uses. Missing optional extensions are logged
// and degrade features instead of failing the lock.
func Connect() (*Connection, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %v", err)
	}

	c := &Connection{
		Conn:   conn,
		Screen: xproto.Setup(conn).DefaultScreen(conn),
	}

	if err := randr.Init(conn); err != nil {
		logging.Warn("RandR extension unavailable, multi-monitor layout disabled: %v", err)
	} else {
		c.hasRandr = true
	}

	if err := screensaver.Init(conn); err != nil {
		logging.Warn("Screensaver extension unavailable, idle locking disabled: %v", err)
	} else {
		c.hasScreensaver = true
	}

	if err := xfixes.Init(conn); err != nil {
		logging.Warn("XFixes extension unavailable: %v", err)
	} else {
		// Cursor hiding needs a version handshake before HideCursor works
		if _, err := xfixes.QueryVersion(conn, 4, 0).Reply(); err != nil {
			logging.Warn("XFixes version query failed: %v", err)
		}
	}

	return c, nil
}

// Close shuts down the X connection
func (c *Connection) Close() {
	c.Conn.Close()
}

// Resolution returns the root window size in pixels
func (c *Connection) Resolution() (int, int) {
	return int(c.Screen.WidthInPixels), int(c.Screen.HeightInPixels)
}

// DPI derives the screen DPI from the physical screen size reported by
// the server. Falls back to 96 when the server reports no millimeters.
func (c *Connection) DPI() float64 {
	mm := float64(c.Screen.WidthInMillimeters)
	if mm <= 0 {
		return 96
	}
	return float64(c.Screen.WidthInPixels) * 25.4 / mm
}
