package x11

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/nordlock/nordlock/internal/render"
)

// PixmapOutput publishes rendered frames as the background pixmap of a
// window. Frames are uploaded with chunked ZPixmap PutImage requests so
// root-sized images fit within the server's request size limit.
type PixmapOutput struct {
	conn   *Connection
	window xproto.Window
	gc     xproto.Gcontext
	depth  byte
}

// NewPixmapOutput creates an output targeting the given window.
func NewPixmapOutput(conn *Connection, window xproto.Window) (*PixmapOutput, error) {
	gc, err := xproto.NewGcontextId(conn.Conn)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate graphics context ID: %v", err)
	}
	err = xproto.CreateGCChecked(conn.Conn, gc, xproto.Drawable(window), 0, nil).Check()
	if err != nil {
		return nil, fmt.Errorf("failed to create graphics context: %v", err)
	}

	return &PixmapOutput{
		conn:   conn,
		window: window,
		gc:     gc,
		depth:  conn.Screen.RootDepth,
	}, nil
}

// CreateSurface allocates a server-side pixmap of the given size.
func (o *PixmapOutput) CreateSurface(width, height int) (render.SurfaceHandle, error) {
	pid, err := xproto.NewPixmapId(o.conn.Conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate pixmap ID: %v", err)
	}
	err = xproto.CreatePixmapChecked(
		o.conn.Conn,
		o.depth,
		pid,
		xproto.Drawable(o.window),
		uint16(width), uint16(height),
	).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create pixmap: %v", err)
	}
	return render.SurfaceHandle(pid), nil
}

// DestroySurface frees a pixmap. Errors are ignored since the server
// may have already discarded the resource.
func (o *PixmapOutput) DestroySurface(h render.SurfaceHandle) {
	xproto.FreePixmap(o.conn.Conn, xproto.Pixmap(h))
}

// Publish uploads the frame into the pixmap, installs it as the window
// background and forces a repaint.
func (o *PixmapOutput) Publish(h render.SurfaceHandle, frame *image.RGBA) error {
	b := frame.Bounds()
	width, height := b.Dx(), b.Dy()

	if err := o.putImage(xproto.Pixmap(h), frame, width, height); err != nil {
		return err
	}

	err := xproto.ChangeWindowAttributesChecked(
		o.conn.Conn,
		o.window,
		xproto.CwBackPixmap,
		[]uint32{uint32(h)},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to set background pixmap: %v", err)
	}

	// Exposing the whole window repaints it from the new background
	xproto.ClearArea(o.conn.Conn, false, o.window, 0, 0, 0, 0)
	o.conn.Conn.Sync()
	return nil
}

// putImage uploads pixel rows in chunks that respect the server's
// maximum request length.
func (o *PixmapOutput) putImage(pid xproto.Pixmap, frame *image.RGBA, width, height int) error {
	bytesPerRow := width * 4

	// Request length is counted in 4-byte units; leave headroom for the
	// 24-byte request header.
	maxBytes := int(xproto.Setup(o.conn.Conn).MaximumRequestLength)*4 - 28
	rowsPerChunk := maxBytes / bytesPerRow
	if rowsPerChunk < 1 {
		rowsPerChunk = 1
	}

	for y := 0; y < height; y += rowsPerChunk {
		rows := rowsPerChunk
		if y+rows > height {
			rows = height - y
		}

		data := make([]byte, rows*bytesPerRow)
		for r := 0; r < rows; r++ {
			src := frame.Pix[(y+r)*frame.Stride : (y+r)*frame.Stride+bytesPerRow]
			dst := data[r*bytesPerRow:]
			// ZPixmap at depth 24 expects BGRX byte order
			for x := 0; x < width; x++ {
				dst[x*4+0] = src[x*4+2]
				dst[x*4+1] = src[x*4+1]
				dst[x*4+2] = src[x*4+0]
				dst[x*4+3] = 0
			}
		}

		err := xproto.PutImageChecked(
			o.conn.Conn,
			xproto.ImageFormatZPixmap,
			xproto.Drawable(pid),
			o.gc,
			uint16(width), uint16(rows),
			0, int16(y),
			0, o.depth,
			data,
		).Check()
		if err != nil {
			return fmt.Errorf("failed to upload frame rows %d-%d: %v", y, y+rows, err)
		}
	}
	return nil
}
