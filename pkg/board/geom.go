package board

// Vec2 is a point or extent in world coordinates.
type Vec2 struct {
	X, Y float64
}

// Add returns the component-wise sum of v and o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns the component-wise difference of v and o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s on both axes.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Rect is an axis-aligned rectangle defined by its top-left corner and size.
type Rect struct {
	Min  Vec2
	Size Vec2
}

// RectFromCenter builds a rectangle of the given size centered on c.
func RectFromCenter(c, size Vec2) Rect {
	return Rect{Min: Vec2{c.X - size.X/2, c.Y - size.Y/2}, Size: size}
}

// Max returns the bottom-right corner.
func (r Rect) Max() Vec2 { return r.Min.Add(r.Size) }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.Min.X + r.Size.X/2, r.Min.Y + r.Size.Y/2}
}

// Width returns the horizontal span.
func (r Rect) Width() float64 { return r.Size.X }

// Height returns the vertical span.
func (r Rect) Height() float64 { return r.Size.Y }

// Contains reports whether p lies inside the rectangle (inclusive of the
// top-left edge, exclusive of the bottom-right edge).
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.Y >= r.Min.Y && p.X < r.Min.X+r.Size.X && p.Y < r.Min.Y+r.Size.Y
}
