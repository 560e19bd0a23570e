package geometry

// DefaultSize is used for any size index that is not in Sizes
const DefaultSize = 1

// Sizes holds the horizontal (width, height) of each ruler size
var Sizes = map[int][2]int{
	1: {250, 75},
	2: {500, 75},
	3: {750, 75},
}

// ValidSize reports whether index is in the size table
func ValidSize(index int) bool {
	_, ok := Sizes[index]
	return ok
}

// HorizontalSize returns the window size of a horizontal ruler
func HorizontalSize(index int) (width, height int) {
	s, ok := Sizes[index]
	if !ok {
		s = Sizes[DefaultSize]
	}
	return s[0], s[1]
}

// VerticalSize is HorizontalSize turned on its side
func VerticalSize(index int) (width, height int) {
	height, width = HorizontalSize(index)
	return width, height
}
