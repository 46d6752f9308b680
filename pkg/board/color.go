package board

import (
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
)

// Color derivation tuning. Saturation and lightness are kept in a vibrant
// band so group folders stay readable on the dark canvas.
const (
	colorSaturationMin   = 0.6
	colorSaturationRange = 0.4
	colorLightnessMin    = 0.5
	colorLightnessRange  = 0.2
)

// ColorFromID derives a block's tint color from its identifier.
//
// This is a hard contract: the same ID must produce the same color in every
// process, forever — it is the only cross-session visual identity cue for
// un-grouped blocks. Only the first four ID bytes participate, matching the
// stored hex color of documents written by earlier releases.
func ColorFromID(id uuid.UUID) colorful.Color {
	b := id[:]
	h := (float64(b[0]) + float64(b[1])*256) / 65535 * 360
	s := colorSaturationMin + float64(b[2])/255*colorSaturationRange
	l := colorLightnessMin + float64(b[3])/255*colorLightnessRange
	return colorful.Hsl(h, s, l)
}
