package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"screenruler/geometry"
	"screenruler/statechart"
)

// display is the part of the X server the ruler talks to directly. nucular
// owns drawing; placing windows and the marker goes through here.
type display interface {
	MoveResize(g geometry.Geometry) error
	PlaceMarker(g geometry.Geometry) error
	ShowMarker() error
	HideMarker() error
	Pointer() (x, y int, err error)
	// Geometry returns where the ruler window is now. The window manager
	// or the user may have moved it since the last MoveResize.
	Geometry() (geometry.Geometry, error)
}

type x11Display struct {
	xu          *xgbutil.XUtil
	title       string
	alwaysOnTop bool
	marker      *xwindow.Window

	mu      sync.Mutex
	win     *xwindow.Window // nil until nucular has mapped the ruler window
	geom    geometry.Geometry
	pending bool
}

func connectDisplay(title string, markerColor color.RGBA, alwaysOnTop bool) (*x11Display, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}

	marker, err := xwindow.Generate(xu)
	if err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("generate marker window: %w", err)
	}
	if err := marker.CreateChecked(
		xu.RootWin(),
		0, 0,
		1, markerLength,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		pixel(markerColor),
		1,
	); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("create marker window: %w", err)
	}
	if err := ewmh.WmNameSet(xu, marker.Id, title+" marker"); err != nil {
		log.Printf("Couldn't name marker window: %v\n", err)
	}

	return &x11Display{
		xu:          xu,
		title:       title,
		alwaysOnTop: alwaysOnTop,
		marker:      marker,
	}, nil
}

// pixel packs c for a TrueColor visual
func pixel(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func (d *x11Display) MoveResize(g geometry.Geometry) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.geom = g
	if d.win == nil {
		d.pending = true
		return nil
	}
	if err := d.win.WMMoveResize(g.X, g.Y, g.Width, g.Height); err != nil {
		return fmt.Errorf("move ruler to %s: %w", g, err)
	}
	return nil
}

func (d *x11Display) Geometry() (geometry.Geometry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.win == nil {
		return d.geom, nil
	}
	r, err := d.win.DecorGeometry()
	if err != nil {
		return geometry.Geometry{}, fmt.Errorf("read ruler geometry: %w", err)
	}
	return geometry.Geometry{Width: r.Width(), Height: r.Height(), X: r.X(), Y: r.Y()}, nil
}

func (d *x11Display) PlaceMarker(g geometry.Geometry) error {
	err := xproto.ConfigureWindowChecked(d.xu.Conn(), d.marker.Id,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(g.X), uint32(g.Y), uint32(g.Width), uint32(g.Height)}).Check()
	if err != nil {
		return fmt.Errorf("place marker at %s: %w", g, err)
	}
	return nil
}

func (d *x11Display) ShowMarker() error {
	if err := xproto.MapWindowChecked(d.xu.Conn(), d.marker.Id).Check(); err != nil {
		return fmt.Errorf("map marker: %w", err)
	}
	err := xproto.ConfigureWindowChecked(d.xu.Conn(), d.marker.Id,
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check()
	if err != nil {
		return fmt.Errorf("raise marker: %w", err)
	}
	return nil
}

func (d *x11Display) HideMarker() error {
	if err := xproto.UnmapWindowChecked(d.xu.Conn(), d.marker.Id).Check(); err != nil {
		return fmt.Errorf("unmap marker: %w", err)
	}
	return nil
}

// Pointer returns the pointer position on the root window
func (d *x11Display) Pointer() (int, int, error) {
	reply, err := xproto.QueryPointer(d.xu.Conn(), d.xu.RootWin()).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("query pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}

func (d *x11Display) Close() {
	d.marker.Destroy()
	d.xu.Conn().Close()
}

// watch waits for nucular's window to show up, prepares it and then turns
// X enter/leave events on it into marker events until ctx is done.
func (d *x11Display) watch(ctx context.Context, bus *statechart.Bus) error {
	id, ok := d.findWindow(ctx)
	if !ok {
		log.Printf("Couldn't find window %q, it won't be movable\n", d.title)
		<-ctx.Done()
		return nil
	}
	win := xwindow.New(d.xu, id)

	if d.alwaysOnTop {
		if err := ewmh.WmStateReq(d.xu, id, ewmh.StateAdd, "_NET_WM_STATE_ABOVE"); err != nil {
			log.Printf("Couldn't keep ruler above other windows: %v\n", err)
		}
	}

	if err := win.Listen(xproto.EventMaskEnterWindow, xproto.EventMaskLeaveWindow); err != nil {
		return fmt.Errorf("listen for enter/leave: %w", err)
	}
	xevent.EnterNotifyFun(func(xu *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
		bus.Post(statechart.Event{Signal: statechart.ShowExternalMarker})
	}).Connect(d.xu, id)
	xevent.LeaveNotifyFun(func(xu *xgbutil.XUtil, ev xevent.LeaveNotifyEvent) {
		bus.Post(statechart.Event{Signal: statechart.HideExternalMarker})
	}).Connect(d.xu, id)

	if err := d.attach(win); err != nil {
		return err
	}

	before, after, quit := xevent.MainPing(d.xu)
	return pump(ctx, before, after, quit, func() { xevent.Quit(d.xu) })
}

// pump follows an xevent loop started with MainPing until the loop quits or
// ctx is done. The loop blocks reading from the X connection and only sees
// its quit flag after the next event, so on ctx it is told to stop and left
// behind; closing the connection ends it.
func pump(ctx context.Context, before, after, quit <-chan struct{}, stop func()) error {
	for {
		select {
		case <-before:
			<-after
		case <-quit:
			return nil
		case <-ctx.Done():
			stop()
			return nil
		}
	}
}

// attach remembers the ruler window and applies the geometry requested
// before it existed
func (d *x11Display) attach(win *xwindow.Window) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.win = win
	if !d.pending {
		return nil
	}
	d.pending = false
	if err := win.WMMoveResize(d.geom.X, d.geom.Y, d.geom.Width, d.geom.Height); err != nil {
		return fmt.Errorf("move ruler to %s: %w", d.geom, err)
	}
	return nil
}

// findWindow searches the EWMH client list for our window. On the way it
// fixes up WM_CLASS, which the window doesn't get from nucular, so that the
// window displays properly in the taskbar.
func (d *x11Display) findWindow(ctx context.Context) (xproto.Window, bool) {
	for i := 0; i < 100; i++ {
		wnds, _ := ewmh.ClientListGet(d.xu)
		for _, w := range wnds {
			n, _ := ewmh.WmNameGet(d.xu, w)
			if n != d.title {
				continue
			}
			//if we have *NO* WM_CLASS, then this call errors. That's the case we want to fix.
			if _, err := icccm.WmClassGet(d.xu, w); err != nil {
				class := icccm.WmClass{Class: d.title, Instance: d.title}
				if err := icccm.WmClassSet(d.xu, w, &class); err != nil {
					log.Printf("Couldn't set WM_CLASS: %v\n", err)
				}
			}
			log.Printf("Found ruler window %d after %d tries\n", w, i+1)
			return w, true
		}

		select {
		case <-ctx.Done():
			return 0, false
		case <-time.After(100 * time.Millisecond):
		}
	}
	return 0, false
}
