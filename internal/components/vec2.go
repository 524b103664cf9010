package components

// Vec2 is a 2D vector in world pixels.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Mul multiplies component-wise.
func (v Vec2) Mul(o Vec2) Vec2 {
	return Vec2{v.X * o.X, v.Y * o.Y}
}

// Sign returns -1, 0 or 1 per component.
func (v Vec2) Sign() Vec2 {
	return Vec2{sign(v.X), sign(v.Y)}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return 0
}

// Rect is an axis-aligned rectangle in world pixels.
type Rect struct {
	X, Y, W, H float64
}

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W &&
		r.X+r.W > o.X &&
		r.Y < o.Y+o.H &&
		r.Y+r.H > o.Y
}
