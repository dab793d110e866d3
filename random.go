package sweepline

import "math/rand/v2"

// DefaultRandomSegments is the number of segments generated when no count is given.
const DefaultRandomSegments = 10

// RandomSegments returns n segments with normally distributed endpoints around the origin. If rng is nil, the global source is used.
func RandomSegments(rng *rand.Rand, n int) Segments {
	norm := rand.NormFloat64
	if rng != nil {
		norm = rng.NormFloat64
	}

	segs := make(Segments, 0, n)
	for len(segs) < n {
		s := Segment{Point{norm(), norm()}, Point{norm(), norm()}}
		if !s.Degenerate() {
			segs = append(segs, s)
		}
	}
	return segs
}
