package statechart

// Axis tells a position marker update which coordinate and layout to use
type Axis string

const (
	AxisHorizontal Axis = "horizontal"
	AxisVertical   Axis = "vertical"
)

// Surface is what the statechart drives. Every method is called from the
// statechart's worker, never concurrently with another Surface call.
type Surface interface {
	// Run starts the surface's own event loop and blocks until it ends
	Run() error
	// Quit stops the surface's event loop
	Quit() error

	// MakeHorizontal lays out the ruler horizontally for size index 1-3.
	// Unknown indexes fall back to 1.
	MakeHorizontal(size int) error
	// MakeVertical is MakeHorizontal with width and height swapped
	MakeVertical(size int) error

	// Move shifts the window by (dx, dy) scaled by speedup, clamped at 0
	Move(dx, dy, speedup int) error

	UpdatePositionMarker(pos int, axis Axis) error

	ShowExternalMarker() error
	HideExternalMarker() error
}

// NopSurface does nothing. It stands in for the GUI in tests.
type NopSurface struct{}

func (NopSurface) Run() error                           { return nil }
func (NopSurface) Quit() error                          { return nil }
func (NopSurface) MakeHorizontal(int) error             { return nil }
func (NopSurface) MakeVertical(int) error               { return nil }
func (NopSurface) Move(int, int, int) error             { return nil }
func (NopSurface) UpdatePositionMarker(int, Axis) error { return nil }
func (NopSurface) ShowExternalMarker() error            { return nil }
func (NopSurface) HideExternalMarker() error            { return nil }
