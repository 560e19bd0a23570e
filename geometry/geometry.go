// Package geometry handles X11 style window geometry strings
// ("<width>x<height>+<x>+<y>") and the ruler's size table.
package geometry

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var ErrMalformed = errors.New("malformed geometry")

// Geometry is a window's size and position in pixels
type Geometry struct {
	Width, Height int
	X, Y          int
}

var geometryRegex = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// Parse reads a "<width>x<height>+<x>+<y>" string
func Parse(s string) (Geometry, error) {
	res := geometryRegex.FindStringSubmatch(s)
	if len(res) != 5 {
		return Geometry{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	var n [4]int
	for i := range n {
		v, err := strconv.Atoi(res[i+1])
		if err != nil {
			return Geometry{}, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
		}
		n[i] = v
	}
	return Geometry{Width: n[0], Height: n[1], X: n[2], Y: n[3]}, nil
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", g.Width, g.Height, g.X, g.Y)
}

// Position returns the top left corner
func (g Geometry) Position() (x, y int) {
	return g.X, g.Y
}

// Size returns width and height
func (g Geometry) Size() (width, height int) {
	return g.Width, g.Height
}

// Moved shifts the position by (dx, dy)*factor. Neither coordinate goes below 0.
func (g Geometry) Moved(dx, dy, factor int) Geometry {
	g.X = max(0, g.X+dx*factor)
	g.Y = max(0, g.Y+dy*factor)
	return g
}

// Resized returns g with a new size at the same position
func (g Geometry) Resized(width, height int) Geometry {
	g.Width, g.Height = width, height
	return g
}

// Contains reports whether the point (x, y), relative to the window, lies inside it
func (g Geometry) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}
