package sweepline

import (
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"
)

type spatialSegment struct {
	Segment
	index int
}

func (s spatialSegment) Bounds() rtreego.Rect {
	// overlap is tested strictly, grow so that axis-aligned segments have an area
	r := s.Segment.Bounds()
	d := Epsilon * max(1.0, math.Abs(r.X0), math.Abs(r.Y0), math.Abs(r.X1), math.Abs(r.Y1))
	bounds, _ := rtreego.NewRectFromPoints(rtreego.Point{r.X0 - d, r.Y0 - d}, rtreego.Point{r.X1 + d, r.Y1 + d})
	return bounds
}

// BruteForce returns all crossings between the segments by testing every pair whose bounding boxes touch. Candidates are found with an R-tree, but in the worst case this takes O(n^2). The crossings are sorted by segment indices.
func BruteForce(segs Segments) []Intersection {
	if len(segs) < 2 {
		return []Intersection{}
	}

	objs := make([]rtreego.Spatial, len(segs))
	for i, s := range segs {
		objs[i] = spatialSegment{s, i}
	}
	tree := rtreego.NewTree(2, 4, 16, objs...)

	zs := []Intersection{}
	for i, s := range segs {
		candidates := tree.SearchIntersect(objs[i].Bounds(), func(_ []rtreego.Spatial, obj rtreego.Spatial) (bool, bool) {
			return obj.(spatialSegment).index <= i, false // test every pair once
		})
		for _, candidate := range candidates {
			j := candidate.(spatialSegment).index
			if p, ok := Intersects(s, segs[j]); ok {
				zs = append(zs, newIntersection(segs, p, i, j))
			}
		}
	}
	SortIntersections(zs)
	return zs
}

// SortIntersections sorts crossings by segment indices.
func SortIntersections(zs []Intersection) {
	slices.SortFunc(zs, func(a, b Intersection) int {
		if a.I != b.I {
			return a.I - b.I
		}
		return a.J - b.J
	})
}
