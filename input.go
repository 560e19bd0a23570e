package main

import (
	"image"

	"golang.org/x/mobile/event/key"

	"screenruler/geometry"
	"screenruler/statechart"
)

// keymap turns key presses into statechart events. step is how far one
// arrow press moves the ruler; speedup multiplies it while Control is held.
type keymap struct {
	step    int
	speedup int
}

func (k keymap) translate(e key.Event) (statechart.Event, bool) {
	if e.Direction == key.DirRelease {
		return statechart.Event{}, false
	}
	ctrl := e.Modifiers&key.ModControl != 0

	factor := 1
	if ctrl {
		factor = k.speedup
	}

	switch {
	case e.Code == key.CodeEscape, ctrl && e.Code == key.CodeQ:
		return statechart.Event{Signal: statechart.Shutdown}, true
	case ctrl && e.Code == key.CodeT:
		return statechart.Event{Signal: statechart.ToggleOrientation}, true
	case ctrl && e.Code == key.CodeS:
		return statechart.Event{Signal: statechart.SetSize1}, true
	case ctrl && e.Code == key.CodeM:
		return statechart.Event{Signal: statechart.SetSize2}, true
	case ctrl && e.Code == key.CodeL:
		return statechart.Event{Signal: statechart.SetSize3}, true
	case e.Code == key.CodeLeftArrow:
		return statechart.NewMoveEvent(-k.step, 0, factor), true
	case e.Code == key.CodeRightArrow:
		return statechart.NewMoveEvent(k.step, 0, factor), true
	case e.Code == key.CodeUpArrow:
		return statechart.NewMoveEvent(0, -k.step, factor), true
	case e.Code == key.CodeDownArrow:
		return statechart.NewMoveEvent(0, k.step, factor), true
	}
	return statechart.Event{}, false
}

// pointerTracker reports pointer motion once per distinct position. It is
// only used from the UI goroutine.
type pointerTracker struct {
	last  image.Point
	valid bool
}

// moved returns a PointerMoved event for pos, relative to origin, when the
// pointer is over a w*h window and has moved since the last call
func (p *pointerTracker) moved(pos, origin image.Point, w, h int) (statechart.Event, bool) {
	local := pos.Sub(origin)
	if !(geometry.Geometry{Width: w, Height: h}).Contains(local.X, local.Y) {
		p.valid = false
		return statechart.Event{}, false
	}
	if p.valid && local == p.last {
		return statechart.Event{}, false
	}
	p.last, p.valid = local, true
	return statechart.NewPointerEvent(local.X, local.Y), true
}
