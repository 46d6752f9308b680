// Package export renders a board to shareable artifacts.
//
// Two renderers are provided: a raster snapshot of the canvas as it would be
// laid out at the working width (PNG), and a structural diagram of groups
// and chains in Graphviz DOT form, renderable to SVG or PNG.
package export

import "image/color"

// Options configures canvas rendering.
type Options struct {
	// ShowFileNames draws each block's display name under it.
	ShowFileNames bool

	// Background fills the canvas. The zero value falls back to the
	// default dark background.
	Background color.Color
}

// defaultBackground matches the on-screen canvas.
var defaultBackground = color.RGBA{R: 24, G: 24, B: 28, A: 255}
