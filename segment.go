package sweepline

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonFinite is returned when a segment has a NaN or infinite coordinate.
var ErrNonFinite = errors.New("non-finite coordinate")

// DegenerateError is returned for a zero-length segment, whose position on the sweep line is undefined.
type DegenerateError struct {
	Index int
	Segment
}

func (err *DegenerateError) Error() string {
	return fmt.Sprintf("degenerate segment %d: %v", err.Index, err.Segment)
}

// Segment is a straight line segment between A and B. The order of the endpoints has no geometric meaning.
type Segment struct {
	A, B Point
}

// Upper returns the endpoint that comes first in vertical order.
func (s Segment) Upper() Point {
	if s.B.Above(s.A) {
		return s.B
	}
	return s.A
}

// Lower returns the endpoint that comes last in vertical order.
func (s Segment) Lower() Point {
	if s.B.Above(s.A) {
		return s.A
	}
	return s.B
}

// Direction returns B-A.
func (s Segment) Direction() Point {
	return s.B.Sub(s.A)
}

// Degenerate returns true if the segment has zero length, ie. A and B are identical.
func (s Segment) Degenerate() bool {
	return s.A == s.B
}

// JustBelow returns p moved by Nudge along the segment towards its lower endpoint. The nudge follows the direction of the segment, not its normal. Comparing the x-coordinates of JustBelow for two segments through the same point tells which one is to the left right after the sweep line passes that point.
func (s Segment) JustBelow(p Point) Point {
	return p.Add(s.Lower().Sub(s.Upper()).Norm(Nudge))
}

// XAt returns the x-coordinate where the segment crosses the horizontal line through p. Horizontal segments return p.X clamped to their extent.
func (s Segment) XAt(p Point) float64 {
	upper, lower := s.Upper(), s.Lower()
	if Equal(upper.Y, lower.Y) {
		return math.Max(upper.X, math.Min(p.X, lower.X))
	}
	t := (upper.Y - p.Y) / (upper.Y - lower.Y)
	if t <= 0.0 {
		return upper.X
	} else if 1.0 <= t {
		return lower.X
	}
	return upper.X + t*(lower.X-upper.X)
}

// Bounds returns the bounding box.
func (s Segment) Bounds() Rect {
	return Rect{
		math.Min(s.A.X, s.B.X),
		math.Min(s.A.Y, s.B.Y),
		math.Max(s.A.X, s.B.X),
		math.Max(s.A.Y, s.B.Y),
	}
}

func (s Segment) String() string {
	return fmt.Sprintf("%v−%v", s.A, s.B)
}

// Segments is a list of segments, segments are identified by their index.
type Segments []Segment

// Validate returns an error for the first segment that is degenerate or has non-finite coordinates.
func (segs Segments) Validate() error {
	for i, s := range segs {
		if !finite(s.A.X) || !finite(s.A.Y) || !finite(s.B.X) || !finite(s.B.Y) {
			return fmt.Errorf("segment %d: %w", i, ErrNonFinite)
		} else if s.Degenerate() {
			return &DegenerateError{i, s}
		}
	}
	return nil
}

// Filter returns the segments that are not degenerate and have finite coordinates.
func (segs Segments) Filter() Segments {
	r := make(Segments, 0, len(segs))
	for _, s := range segs {
		if finite(s.A.X) && finite(s.A.Y) && finite(s.B.X) && finite(s.B.Y) && !s.Degenerate() {
			r = append(r, s)
		}
	}
	return r
}

// Bounds returns the bounding box of all segments.
func (segs Segments) Bounds() Rect {
	if len(segs) == 0 {
		return Rect{}
	}
	r := segs[0].Bounds()
	for _, s := range segs[1:] {
		r = r.Add(s.Bounds())
	}
	return r
}
