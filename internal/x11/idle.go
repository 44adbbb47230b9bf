package x11

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/BurntSushi/xgb/screensaver"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/nordlock/nordlock/internal/logging"
)

// IdleWatcher polls the server idle time and spawns a lock when the
// configured timeout elapses.
type IdleWatcher struct {
	conn     *Connection
	timeout  time.Duration
	stopChan chan struct{}
}

// StartIdleMonitor begins watching for user inactivity on a dedicated
// connection.
func (l *Locker) StartIdleMonitor() error {
	if l.config.IdleTimeout <= 0 {
		return fmt.Errorf("idle_timeout is not configured")
	}

	conn, err := Connect()
	if err != nil {
		return err
	}
	if !conn.hasScreensaver {
		conn.Close()
		return fmt.Errorf("screensaver extension unavailable, cannot monitor idle time")
	}

	l.idleWatcher = &IdleWatcher{
		conn:     conn,
		timeout:  time.Duration(l.config.IdleTimeout) * time.Second,
		stopChan: make(chan struct{}),
	}
	go l.idleWatcher.watch()

	logging.Info("Idle monitor started (timeout: %d seconds)", l.config.IdleTimeout)
	return nil
}

// StopIdleMonitor stops the idle monitoring
func (l *Locker) StopIdleMonitor() {
	if l.idleWatcher == nil {
		return
	}
	close(l.idleWatcher.stopChan)
	l.idleWatcher.conn.Close()
	l.idleWatcher = nil
	logging.Info("Idle monitor stopped")
}

// watch polls the idle time once per second.
func (w *IdleWatcher) watch() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	root := xproto.Drawable(w.conn.Screen.Root)

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			info, err := screensaver.QueryInfo(w.conn.Conn, root).Reply()
			if err != nil {
				logging.Error("Error querying idle time: %v", err)
				continue
			}

			idle := time.Duration(info.MsSinceUserInput) * time.Millisecond
			if idle < w.timeout {
				continue
			}

			logging.Info("Idle timeout reached (%v), locking screen", idle)

			// Lock in a fresh process so this connection never fights
			// the lock window over grabs
			cmd := exec.Command(os.Args[0], "--lock")
			if err := cmd.Start(); err != nil {
				logging.Error("Failed to start lock command: %v", err)
			}
			return
		}
	}
}
