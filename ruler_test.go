package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	"screenruler/geometry"
	"screenruler/statechart"
)

// fakeDisplay records calls. at is where the window is, which MoveResize
// and drag change.
type fakeDisplay struct {
	mu       sync.Mutex
	calls    []string
	at       geometry.Geometry
	px, py   int
	failWith error
}

func (d *fakeDisplay) record(format string, args ...any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
	return d.failWith
}

func (d *fakeDisplay) MoveResize(g geometry.Geometry) error {
	d.mu.Lock()
	d.at = g
	d.mu.Unlock()
	return d.record("MoveResize(%s)", g)
}

func (d *fakeDisplay) Geometry() (geometry.Geometry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.at, d.failWith
}

// drag moves the window the way the window manager would
func (d *fakeDisplay) drag(x, y int) {
	d.mu.Lock()
	d.at.X, d.at.Y = x, y
	d.mu.Unlock()
}

func (d *fakeDisplay) PlaceMarker(g geometry.Geometry) error { return d.record("PlaceMarker(%s)", g) }
func (d *fakeDisplay) ShowMarker() error                     { return d.record("ShowMarker") }
func (d *fakeDisplay) HideMarker() error                     { return d.record("HideMarker") }

func (d *fakeDisplay) Pointer() (int, int, error) {
	return d.px, d.py, d.record("Pointer")
}

func (d *fakeDisplay) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

type fakeWindow struct {
	mu      sync.Mutex
	changed int
	closed  bool
}

func (w *fakeWindow) Main() {}

func (w *fakeWindow) Changed() {
	w.mu.Lock()
	w.changed++
	w.mu.Unlock()
}

func (w *fakeWindow) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

func newTestRuler(start geometry.Geometry) (*ruler, *fakeDisplay, *fakeWindow) {
	disp := &fakeDisplay{at: start}
	wnd := &fakeWindow{}
	r := newRuler(statechart.NewBus(), disp, palette{}, keymap{step: 1, speedup: 10}, start)
	r.window = wnd
	return r, disp, wnd
}

func assertCalls(t *testing.T, got, want []string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected calls\n\t%q\ngot\n\t%q", want, got)
	}
}

func TestRulerLayout(t *testing.T) {
	r, disp, wnd := newTestRuler(geometry.Geometry{X: 40, Y: 50})

	if err := r.MakeHorizontal(2); err != nil {
		t.Fatal(err)
	}
	if err := r.MakeVertical(3); err != nil {
		t.Fatal(err)
	}
	if err := r.MakeHorizontal(7); err != nil {
		t.Fatal(err)
	}

	assertCalls(t, disp.Calls(), []string{
		"MoveResize(500x75+40+50)",
		"PlaceMarker(1x50+50+50)",
		"MoveResize(75x750+40+50)",
		"PlaceMarker(50x1+50+50)",
		"MoveResize(250x75+40+50)",
		"PlaceMarker(1x50+50+50)",
	})
	if v := r.view(); v.axis != statechart.AxisHorizontal {
		t.Errorf("expected horizontal, got %s", v.axis)
	}
	if wnd.changed != 3 {
		t.Errorf("expected 3 redraws, got %d", wnd.changed)
	}
}

func TestRulerLayoutClearsMarker(t *testing.T) {
	r, _, _ := newTestRuler(geometry.Geometry{})
	if err := r.UpdatePositionMarker(12, statechart.AxisHorizontal); err != nil {
		t.Fatal(err)
	}
	if v := r.view(); !v.hasMarker || v.marker != 12 {
		t.Fatalf("marker not set: %+v", v)
	}
	if err := r.MakeVertical(1); err != nil {
		t.Fatal(err)
	}
	if v := r.view(); v.hasMarker {
		t.Errorf("marker survived a relayout")
	}
}

func TestRulerMove(t *testing.T) {
	r, disp, _ := newTestRuler(geometry.Geometry{Width: 250, Height: 75, X: 3, Y: 100})

	for _, m := range [][3]int{{1, 0, 5}, {-1, 0, 10}, {0, -1, 10}} {
		if err := r.Move(m[0], m[1], m[2]); err != nil {
			t.Fatal(err)
		}
	}

	assertCalls(t, disp.Calls(), []string{
		"MoveResize(250x75+8+100)",
		"MoveResize(250x75+0+100)",
		"MoveResize(250x75+0+90)",
	})
}

func TestRulerFollowsDraggedWindow(t *testing.T) {
	r, disp, _ := newTestRuler(geometry.Geometry{X: 10, Y: 10})
	if err := r.MakeHorizontal(1); err != nil {
		t.Fatal(err)
	}

	disp.drag(300, 400)
	if err := r.Move(1, 0, 5); err != nil {
		t.Fatal(err)
	}

	disp.drag(600, 30)
	disp.px, disp.py = 620, 50
	if err := r.UpdatePositionMarker(20, statechart.AxisHorizontal); err != nil {
		t.Fatal(err)
	}

	disp.drag(0, 500)
	if err := r.MakeVertical(2); err != nil {
		t.Fatal(err)
	}

	assertCalls(t, disp.Calls(), []string{
		"MoveResize(250x75+10+10)",
		"PlaceMarker(1x50+50+50)",
		"MoveResize(250x75+305+400)",
		"Pointer",
		"PlaceMarker(1x50+620+5)",
		"MoveResize(75x500+0+500)",
		"PlaceMarker(50x1+50+50)",
	})
	if v := r.view(); v.geom != (geometry.Geometry{Width: 75, Height: 500, X: 0, Y: 500}) {
		t.Errorf("unexpected geometry %s", v.geom)
	}
}

func TestRulerPositionMarker(t *testing.T) {
	r, disp, wnd := newTestRuler(geometry.Geometry{Width: 250, Height: 75, X: 100, Y: 200})
	disp.px, disp.py = 130, 220

	if err := r.UpdatePositionMarker(30, statechart.AxisHorizontal); err != nil {
		t.Fatal(err)
	}

	assertCalls(t, disp.Calls(), []string{"Pointer", "PlaceMarker(1x50+130+175)"})
	if v := r.view(); v.marker != 30 || !v.hasMarker {
		t.Errorf("unexpected view %+v", v)
	}
	if wnd.changed != 1 {
		t.Errorf("marker update didn't redraw")
	}
}

func TestExternalMarker(t *testing.T) {
	tests := []struct {
		g      geometry.Geometry
		axis   statechart.Axis
		px, py int
		want   geometry.Geometry
	}{
		{geometry.Geometry{Width: 250, Height: 75, X: 100, Y: 200}, statechart.AxisHorizontal, 130, 220, geometry.Geometry{Width: 1, Height: 50, X: 130, Y: 175}},
		{geometry.Geometry{Width: 250, Height: 75, X: 100, Y: 10}, statechart.AxisHorizontal, 130, 20, geometry.Geometry{Width: 1, Height: 50, X: 130, Y: 0}},
		{geometry.Geometry{Width: 75, Height: 250, X: 100, Y: 200}, statechart.AxisVertical, 120, 260, geometry.Geometry{Width: 50, Height: 1, X: 175, Y: 260}},
	}

	for _, tt := range tests {
		if got := externalMarker(tt.g, tt.axis, tt.px, tt.py); got != tt.want {
			t.Errorf("%s %s: expected %s, got %s", tt.g, tt.axis, tt.want, got)
		}
	}
}

func TestRulerExternalMarkerVisibility(t *testing.T) {
	r, disp, _ := newTestRuler(geometry.Geometry{})
	if err := r.ShowExternalMarker(); err != nil {
		t.Fatal(err)
	}
	if err := r.HideExternalMarker(); err != nil {
		t.Fatal(err)
	}
	assertCalls(t, disp.Calls(), []string{"ShowMarker", "HideMarker"})
}

func TestRulerQuitClosesWindow(t *testing.T) {
	r, _, wnd := newTestRuler(geometry.Geometry{})
	if err := r.Quit(); err != nil {
		t.Fatal(err)
	}
	if !wnd.closed {
		t.Errorf("window not closed")
	}
}

func TestRulerDisplayFailure(t *testing.T) {
	r, disp, _ := newTestRuler(geometry.Geometry{})
	boom := errors.New("boom")
	disp.failWith = boom

	if err := r.MakeHorizontal(1); !errors.Is(err, boom) {
		t.Errorf("expected display error, got %v", err)
	}
	if err := r.UpdatePositionMarker(3, statechart.AxisVertical); !errors.Is(err, boom) {
		t.Errorf("expected display error, got %v", err)
	}
}

// TestRulerDrivenByStatechart runs the ruler as the statechart's surface the
// way main does, with key presses coming from the keymap.
func TestRulerDrivenByStatechart(t *testing.T) {
	r, disp, wnd := newTestRuler(geometry.Geometry{X: 10, Y: 10})
	bus := r.bus
	bus.RegisterSurface(r)
	chart := statechart.New(bus, statechart.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	bus.Post(statechart.Event{Signal: statechart.ToggleOrientation})
	bus.Post(statechart.Event{Signal: statechart.SetSize2})
	bus.Post(statechart.NewMoveEvent(1, 0, 10))
	bus.Post(statechart.NewPointerEvent(4, 33))
	bus.Post(statechart.Event{Signal: statechart.Shutdown})

	if err := chart.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	assertCalls(t, disp.Calls(), []string{
		"MoveResize(250x75+10+10)",
		"PlaceMarker(1x50+50+50)",
		"MoveResize(75x250+10+10)",
		"PlaceMarker(50x1+50+50)",
		"MoveResize(75x500+10+10)",
		"PlaceMarker(50x1+50+50)",
		"MoveResize(75x500+20+10)",
		"Pointer",
		"PlaceMarker(50x1+95+0)",
	})
	if v := r.view(); v.axis != statechart.AxisVertical || v.marker != 33 {
		t.Errorf("unexpected view %+v", v)
	}
	if !wnd.closed {
		t.Errorf("shutdown didn't close the window")
	}
}

func TestTicks(t *testing.T) {
	got := ticks(250)
	if len(got) != 26 {
		t.Fatalf("expected 26 ticks, got %d", len(got))
	}
	var labels []string
	for i, tk := range got {
		if tk.pos != i*10 {
			t.Errorf("tick %d at %d", i, tk.pos)
		}
		if tk.label != "" {
			labels = append(labels, tk.label)
		}
	}
	want := []string{"0", "50", "100", "150", "200", "250"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("expected labels %v, got %v", want, labels)
	}
}
