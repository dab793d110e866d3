package sweepline

import "fmt"

// Intersection is a proper crossing between segments I and J, with I < J.
type Intersection struct {
	Point
	I, J int
	A, B Segment // segments I and J
}

// Equals returns true if both crossings are between the same segments at points that are equal with tolerance Epsilon.
func (z Intersection) Equals(o Intersection) bool {
	return z.Point.Equals(o.Point) && z.I == o.I && z.J == o.J
}

func (z Intersection) String() string {
	return fmt.Sprintf("({%v} %d=%v %d=%v)", z.Point, z.I, z.A, z.J, z.B)
}

func newIntersection(segs Segments, p Point, i, j int) Intersection {
	if j < i {
		i, j = j, i
	}
	return Intersection{p, i, j, segs[i], segs[j]}
}

// side returns the sign of the perp dot product of the line of s and the vector from p to s.A, ie. on which side of the line p lies.
func side(s Segment, p Point) int {
	d := s.Direction().PerpDot(s.A.Sub(p))
	if d < 0.0 {
		return -1
	} else if 0.0 < d {
		return 1
	}
	return 0
}

// Intersects returns the point where the interiors of s1 and s2 cross. Collinear and overlapping segments, and segments that only touch at an endpoint, do not intersect.
func Intersects(s1, s2 Segment) (Point, bool) {
	if side(s2, s1.A)*side(s2, s1.B) != -1 || side(s1, s2.A)*side(s1, s2.B) != -1 {
		return Point{}, false
	}

	// non-zero since the endpoints lie strictly on both sides
	da := s1.Direction()
	db := s2.Direction()
	div := da.PerpDot(db)
	ta := db.PerpDot(s1.A.Sub(s2.A)) / div
	return s1.A.Interpolate(s1.B, ta), true
}
