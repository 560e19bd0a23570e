package main

import (
	"image"
	"strconv"

	"github.com/aarzilli/nucular"
	"github.com/aarzilli/nucular/rect"

	"screenruler/statechart"
)

const (
	tickSpacing  = 10
	labelSpacing = 50
	tickLength   = 25
	labelSize    = 30
)

type tick struct {
	pos   int
	label string
}

// ticks returns a tick every 10 pixels along a ruler of the given length,
// labelled every 50
func ticks(length int) []tick {
	var res []tick
	for pos := 0; pos <= length; pos += tickSpacing {
		t := tick{pos: pos}
		if pos%labelSpacing == 0 {
			t.label = strconv.Itoa(pos)
		}
		res = append(res, t)
	}
	return res
}

func (r *ruler) updatefn(w *nucular.Window) {
	v := r.view()
	r.handleInput(w, v)
	r.draw(w, v)
}

func (r *ruler) handleInput(w *nucular.Window, v view) {
	in := w.Input()
	for _, k := range in.Keyboard.Keys {
		if e, ok := r.keys.translate(k); ok {
			r.bus.Post(e)
		}
	}
	if e, ok := r.pointer.moved(in.Mouse.Pos, w.Bounds.Min(), v.geom.Width, v.geom.Height); ok {
		r.bus.Post(e)
	}
}

func (r *ruler) draw(w *nucular.Window, v view) {
	out := w.Commands()
	b := w.Bounds
	out.FillRect(b, 0, r.colors.background)

	horizontal := v.axis == statechart.AxisHorizontal
	length := v.geom.Width
	if !horizontal {
		length = v.geom.Height
	}

	for _, t := range ticks(length) {
		if horizontal {
			out.StrokeLine(image.Pt(b.X+t.pos, b.Y), image.Pt(b.X+t.pos, b.Y+tickLength), 1, r.colors.mark)
			if t.label != "" {
				out.DrawText(rect.Rect{X: b.X + t.pos + 2, Y: b.Y + tickLength + 5, W: labelSize, H: 12}, t.label, r.face, r.colors.mark)
			}
		} else {
			out.StrokeLine(image.Pt(b.X+b.W-tickLength, b.Y+t.pos), image.Pt(b.X+b.W, b.Y+t.pos), 1, r.colors.mark)
			if t.label != "" {
				out.DrawText(rect.Rect{X: b.X + 10, Y: b.Y + t.pos + 2, W: labelSize, H: 12}, t.label, r.face, r.colors.mark)
			}
		}
	}

	if !v.hasMarker {
		return
	}
	readout := strconv.Itoa(v.marker)
	if horizontal {
		out.StrokeLine(image.Pt(b.X+v.marker, b.Y), image.Pt(b.X+v.marker, b.Y+markerLength), 1, r.colors.position)
		out.DrawText(rect.Rect{X: b.X + 5, Y: b.Y + b.H - 14, W: labelSize, H: 12}, readout, r.face, r.colors.position)
	} else {
		out.StrokeLine(image.Pt(b.X+b.W-markerLength, b.Y+v.marker), image.Pt(b.X+b.W, b.Y+v.marker), 1, r.colors.position)
		out.DrawText(rect.Rect{X: b.X + 5, Y: b.Y + 5, W: labelSize, H: 12}, readout, r.face, r.colors.position)
	}
}
