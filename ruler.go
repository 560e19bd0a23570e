package main

import (
	"fmt"
	"sync"

	"github.com/aarzilli/nucular/font"

	"screenruler/geometry"
	"screenruler/statechart"
)

// markerLength is the long side of the external marker window
const markerLength = 50

// window is the part of nucular.MasterWindow the ruler drives
type window interface {
	Main()
	Changed()
	Close()
}

// ruler implements statechart.Surface on top of a nucular window and the
// X display. The statechart worker writes its state, the nucular update
// function reads it.
type ruler struct {
	bus    *statechart.Bus
	disp   display
	window window
	colors palette
	keys   keymap
	face   font.Face

	pointer pointerTracker

	mu        sync.Mutex
	geom      geometry.Geometry
	axis      statechart.Axis
	marker    int
	hasMarker bool
}

func newRuler(bus *statechart.Bus, disp display, colors palette, keys keymap, start geometry.Geometry) *ruler {
	return &ruler{
		bus:    bus,
		disp:   disp,
		colors: colors,
		keys:   keys,
		geom:   start,
		axis:   statechart.AxisHorizontal,
	}
}

// view is a copy of what the update function needs to draw one frame
type view struct {
	geom      geometry.Geometry
	axis      statechart.Axis
	marker    int
	hasMarker bool
}

func (r *ruler) view() view {
	r.mu.Lock()
	defer r.mu.Unlock()
	return view{geom: r.geom, axis: r.axis, marker: r.marker, hasMarker: r.hasMarker}
}

func (r *ruler) Run() error {
	r.window.Main()
	return nil
}

func (r *ruler) Quit() error {
	r.window.Close()
	return nil
}

func (r *ruler) MakeHorizontal(size int) error {
	w, h := geometry.HorizontalSize(size)
	return r.layout(statechart.AxisHorizontal, w, h)
}

func (r *ruler) MakeVertical(size int) error {
	w, h := geometry.VerticalSize(size)
	return r.layout(statechart.AxisVertical, w, h)
}

// position picks up where the window really is. The size stays ours: the
// window manager may report a frame that includes its decorations.
func (r *ruler) position() error {
	live, err := r.disp.Geometry()
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.geom.X, r.geom.Y = live.Position()
	r.mu.Unlock()
	return nil
}

func (r *ruler) layout(axis statechart.Axis, w, h int) error {
	if err := r.position(); err != nil {
		return err
	}
	r.mu.Lock()
	r.geom = r.geom.Resized(w, h)
	r.axis = axis
	r.hasMarker = false
	g := r.geom
	r.mu.Unlock()

	if err := r.disp.MoveResize(g); err != nil {
		return err
	}

	m := geometry.Geometry{Width: 1, Height: markerLength, X: markerLength, Y: markerLength}
	if axis == statechart.AxisVertical {
		m.Width, m.Height = m.Height, m.Width
	}
	if err := r.disp.PlaceMarker(m); err != nil {
		return err
	}
	r.window.Changed()
	return nil
}

func (r *ruler) Move(dx, dy, speedup int) error {
	if err := r.position(); err != nil {
		return err
	}
	r.mu.Lock()
	r.geom = r.geom.Moved(dx, dy, speedup)
	g := r.geom
	r.mu.Unlock()

	return r.disp.MoveResize(g)
}

// UpdatePositionMarker moves the in-window marker to pos and keeps the
// external marker lined up with the pointer just outside the ruler
func (r *ruler) UpdatePositionMarker(pos int, axis statechart.Axis) error {
	if err := r.position(); err != nil {
		return err
	}
	r.mu.Lock()
	r.marker, r.hasMarker = pos, true
	g := r.geom
	r.mu.Unlock()
	r.window.Changed()

	px, py, err := r.disp.Pointer()
	if err != nil {
		return err
	}
	return r.disp.PlaceMarker(externalMarker(g, axis, px, py))
}

// externalMarker places the marker window for a ruler at g and the pointer
// at (px, py) on the root window
func externalMarker(g geometry.Geometry, axis statechart.Axis, px, py int) geometry.Geometry {
	if axis == statechart.AxisVertical {
		return geometry.Geometry{Width: markerLength, Height: 1, X: g.X + g.Width, Y: py}
	}
	return geometry.Geometry{Width: 1, Height: markerLength, X: px, Y: max(0, g.Y-markerLength/2)}
}

func (r *ruler) ShowExternalMarker() error {
	return r.disp.ShowMarker()
}

func (r *ruler) HideExternalMarker() error {
	return r.disp.HideMarker()
}

func (r *ruler) String() string {
	v := r.view()
	return fmt.Sprintf("ruler %s %s", v.axis, v.geom)
}
