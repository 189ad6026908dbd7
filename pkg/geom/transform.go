package geom

import "math"

// Transform is a 2D affine matrix plus a Z translation.
//
//	[ A C E ]
//	[ B D F ]
//	[ 0 0 1 ]
//
// TZ only takes part in depth comparisons between layers of one preserve-3d
// group; it never moves anything on screen.
type Transform struct {
	A, B, C, D, E, F float64
	TZ               float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, D: 1}
}

// Translation returns a pure translation.
func Translation(dx, dy float64) Transform {
	return Transform{A: 1, D: 1, E: dx, F: dy}
}

// Scaling returns a pure scale.
func Scaling(sx, sy float64) Transform {
	return Transform{A: sx, D: sy}
}

// Rotation returns a rotation by deg degrees (clockwise in a y-down space).
func Rotation(deg float64) Transform {
	rad := deg * math.Pi / 180
	s, c := math.Sincos(rad)
	return Transform{A: c, B: s, C: -s, D: c}
}

// IsIdentity reports whether t maps every point to itself.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// Multiply combines two matrices (t * o): o is applied first. Z translations add.
func (t Transform) Multiply(o Transform) Transform {
	return Transform{
		A:  t.A*o.A + t.C*o.B,
		B:  t.B*o.A + t.D*o.B,
		C:  t.A*o.C + t.C*o.D,
		D:  t.B*o.C + t.D*o.D,
		E:  t.A*o.E + t.C*o.F + t.E,
		F:  t.B*o.E + t.D*o.F + t.F,
		TZ: t.TZ + o.TZ,
	}
}

// Apply transforms a point.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.C*p.Y + t.E,
		Y: t.B*p.X + t.D*p.Y + t.F,
	}
}

// MapRect returns the bounding box of r after transformation.
func (t Transform) MapRect(r Rect) Rect {
	if r.IsInfinite() {
		return r
	}
	pts := [4]Point{
		t.Apply(Point{r.X, r.Y}),
		t.Apply(Point{r.MaxX(), r.Y}),
		t.Apply(Point{r.X, r.MaxY()}),
		t.Apply(Point{r.MaxX(), r.MaxY()}),
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Inverse returns the inverse of t. ok is false when t is singular.
func (t Transform) Inverse() (Transform, bool) {
	det := t.A*t.D - t.B*t.C
	if det == 0 || math.IsNaN(det) {
		return Transform{}, false
	}
	inv := 1 / det
	return Transform{
		A:  t.D * inv,
		B:  -t.B * inv,
		C:  -t.C * inv,
		D:  t.A * inv,
		E:  (t.C*t.F - t.D*t.E) * inv,
		F:  (t.B*t.E - t.A*t.F) * inv,
		TZ: -t.TZ,
	}, true
}

// Decompose splits the 2D part into translate, rotate (radians), shear and
// scale such that t = T(tx,ty) * R(angle) * Shear(shear,0) * S(sx,sy).
// Canvas APIs that only expose those primitives use it to replay t.
func (t Transform) Decompose() (tx, ty, angle, shear, sx, sy float64) {
	tx, ty = t.E, t.F
	sx = math.Hypot(t.A, t.B)
	if sx == 0 {
		return tx, ty, 0, 0, 0, 0
	}
	angle = math.Atan2(t.B, t.A)
	cos, sin := t.A/sx, t.B/sx
	k := cos*t.C + sin*t.D
	sy = -sin*t.C + cos*t.D
	if sy != 0 {
		shear = k / sy
	}
	return tx, ty, angle, shear, sx, sy
}
