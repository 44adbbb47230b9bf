package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"

	"github.com/nordlock/nordlock/internal/logging"
	"github.com/nordlock/nordlock/internal/render"
)

// GetMonitors retrieves all active monitor rectangles using XRandR.
// The root rectangle is returned when RandR is unavailable or reports
// nothing, so callers always get at least one monitor.
func (c *Connection) GetMonitors() ([]render.Rect, error) {
	if !c.hasRandr {
		return c.rootRect(), nil
	}

	resources, err := randr.GetScreenResources(c.Conn, c.Screen.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %v", err)
	}

	var monitors []render.Rect
	for _, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.Conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		monitors = append(monitors, render.Rect{
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	if len(monitors) == 0 {
		logging.Debug("RandR reported no active CRTCs, using the root rectangle")
		return c.rootRect(), nil
	}

	logging.Debug("Detected %d monitors", len(monitors))
	return monitors, nil
}

func (c *Connection) rootRect() []render.Rect {
	w, h := c.Resolution()
	return []render.Rect{{X: 0, Y: 0, Width: w, Height: h}}
}
