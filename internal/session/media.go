package session

import (
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/nordlock/nordlock/internal/logging"
)

// MediaController pauses and resumes MPRIS media players over D-Bus.
type MediaController struct {
	conn *dbus.Conn
}

// NewMediaController creates a new MediaController instance
func NewMediaController() (*MediaController, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &MediaController{conn: conn}, nil
}

// Close closes the D-Bus connection
func (mc *MediaController) Close() {
	if mc.conn != nil {
		mc.conn.Close()
	}
}

// PauseAllMedia pauses all media players that support MPRIS
func (mc *MediaController) PauseAllMedia() error {
	names, err := mc.mprisPlayers()
	if err != nil {
		return err
	}

	pausedCount := 0
	for _, name := range names {
		if err := mc.pausePlayer(name); err == nil {
			pausedCount++
		}
	}
	logging.Debug("Paused %d media players", pausedCount)
	return nil
}

// UnpauseAllMedia unpauses all media players that support MPRIS
func (mc *MediaController) UnpauseAllMedia() error {
	names, err := mc.mprisPlayers()
	if err != nil {
		return err
	}

	unpausedCount := 0
	for _, name := range names {
		if err := mc.unpausePlayer(name); err == nil {
			unpausedCount++
		}
	}
	logging.Debug("Unpaused %d media players", unpausedCount)
	return nil
}

// mprisPlayers lists the bus names of connected MPRIS players
func (mc *MediaController) mprisPlayers() ([]string, error) {
	var names []string
	err := mc.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return nil, fmt.Errorf("failed to list D-Bus names: %v", err)
	}

	var players []string
	for _, name := range names {
		if strings.HasPrefix(name, ":") || name == "org.freedesktop.DBus" {
			continue
		}
		if strings.Contains(name, "org.mpris.MediaPlayer2") {
			players = append(players, name)
		}
	}
	return players, nil
}

// pausePlayer attempts to pause a specific MPRIS player
func (mc *MediaController) pausePlayer(name string) error {
	obj := mc.conn.Object(name, dbus.ObjectPath("/org/mpris/MediaPlayer2"))

	var playbackStatus string
	err := obj.Call("org.freedesktop.DBus.Properties.Get", 0, "org.mpris.MediaPlayer2.Player", "PlaybackStatus").Store(&playbackStatus)
	if err != nil {
		logging.Debug("Failed to get playback status for %s: %v", name, err)
		return err
	}

	// Only pause players that are actually playing
	if playbackStatus == "Playing" {
		call := obj.Call("org.mpris.MediaPlayer2.Player.Pause", 0)
		if call.Err != nil {
			logging.Error("Failed to pause %s: %v", name, call.Err)
			return call.Err
		}
		logging.Debug("Paused %s", name)
	}
	return nil
}

// unpausePlayer attempts to unpause a specific MPRIS player
func (mc *MediaController) unpausePlayer(name string) error {
	obj := mc.conn.Object(name, dbus.ObjectPath("/org/mpris/MediaPlayer2"))

	var playbackStatus string
	err := obj.Call("org.freedesktop.DBus.Properties.Get", 0, "org.mpris.MediaPlayer2.Player", "PlaybackStatus").Store(&playbackStatus)
	if err != nil {
		logging.Debug("Failed to get playback status for %s: %v", name, err)
		return err
	}

	if playbackStatus == "Paused" {
		call := obj.Call("org.mpris.MediaPlayer2.Player.Play", 0)
		if call.Err != nil {
			logging.Error("Failed to unpause %s: %v", name, call.Err)
			return call.Err
		}
		logging.Debug("Unpaused %s", name)
	}
	return nil
}
