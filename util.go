package sweepline

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used for coordinate comparisons.
const Epsilon = 1e-10

// Nudge is the distance by which JustBelow moves a point along a segment.
const Nudge = 1e-6

// Equal returns true if a and b are equal with tolerance Epsilon.
func Equal(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

////////////////////////////////////////////////////////////////

// Point is a coordinate in 2D space. OP refers to the line that goes through the origin (0,0) and this point (x,y).
type Point struct {
	X, Y float64
}

// IsZero returns true if P is exactly zero.
func (p Point) IsZero() bool {
	return p.X == 0.0 && p.Y == 0.0
}

// Equals returns true if P and Q are equal with tolerance Epsilon.
func (p Point) Equals(q Point) bool {
	return Equal(p.X, q.X) && Equal(p.Y, q.Y)
}

// Add adds Q to P.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub subtracts Q from P.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Mul multiplies x and y by f.
func (p Point) Mul(f float64) Point {
	return Point{f * p.X, f * p.Y}
}

// Rot90CW rotates the line OP by 90 degrees CW.
func (p Point) Rot90CW() Point {
	return Point{p.Y, -p.X}
}

// PerpDot returns the perp dot product between OP and OQ, ie. zero if aligned and |OP|*|OQ| if perpendicular.
func (p Point) PerpDot(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the length of OP.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Norm normalized OP to be of certain length.
func (p Point) Norm(length float64) Point {
	d := p.Length()
	if d == 0.0 {
		return Point{}
	}
	return Point{p.X / d * length, p.Y / d * length}
}

// Interpolate returns a point on PQ that is linearly interpolated by t, ie. t=0 returns P and t=1 returns Q.
func (p Point) Interpolate(q Point, t float64) Point {
	return Point{(1-t)*p.X + t*q.X, (1-t)*p.Y + t*q.Y}
}

// Above returns true if P comes before Q in vertical order, that is P has a larger y or, for equal y, a smaller x. Coordinates are compared with tolerance Epsilon, so equal points are never above one another.
func (p Point) Above(q Point) bool {
	if !Equal(p.Y, q.Y) {
		return q.Y < p.Y
	}
	return !Equal(p.X, q.X) && p.X < q.X
}

func (p Point) String() string {
	return fmt.Sprintf("[%g; %g]", p.X, p.Y)
}

////////////////////////////////////////////////////////////////

// Rect is an axis-aligned bounding box.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Add returns the bounding box that contains both R and Q.
func (r Rect) Add(q Rect) Rect {
	return Rect{
		math.Min(r.X0, q.X0),
		math.Min(r.Y0, q.Y0),
		math.Max(r.X1, q.X1),
		math.Max(r.Y1, q.Y1),
	}
}

// Touches returns true if R and Q overlap or touch.
func (r Rect) Touches(q Rect) bool {
	return r.X0 <= q.X1+Epsilon && q.X0 <= r.X1+Epsilon && r.Y0 <= q.Y1+Epsilon && q.Y0 <= r.Y1+Epsilon
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g; %g]--[%g; %g]", r.X0, r.Y0, r.X1, r.Y1)
}
