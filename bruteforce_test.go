package sweepline

import (
	"math/rand/v2"
	"testing"

	"github.com/tdewolff/test"
)

func TestBruteForce(t *testing.T) {
	segs := Segments{
		{Point{0, 4}, Point{4, 0}},
		{Point{4, 4}, Point{0, 0}},
		{Point{1, 5}, Point{2, -1}},
		{Point{2, 3}, Point{2, 4}},
		{Point{2, 1}, Point{2, 3}}, // touches 3
		{Point{0, 1}, Point{4, 1}},
	}
	zs := BruteForce(segs)
	test.T(t, zs, []Intersection{
		{Point: Point{2, 2}, I: 0, J: 1},
		{Point: Point{1.4, 2.6}, I: 0, J: 2},
		{Point: Point{2, 2}, I: 0, J: 4},
		{Point: Point{3, 1}, I: 0, J: 5},
		{Point: Point{11.0 / 7.0, 11.0 / 7.0}, I: 1, J: 2},
		{Point: Point{2, 2}, I: 1, J: 4},
		{Point: Point{1, 1}, I: 1, J: 5},
		{Point: Point{5.0 / 3.0, 1}, I: 2, J: 5},
	})

	test.T(t, BruteForce(nil), []Intersection{})
	test.T(t, BruteForce(segs[:1]), []Intersection{})
}

func TestBruteForceAllPairs(t *testing.T) {
	segs := RandomSegments(rand.New(rand.NewPCG(7, 8)), 40)
	zs := []Intersection{}
	for i := range segs {
		for j := i + 1; j < len(segs); j++ {
			if p, ok := Intersects(segs[i], segs[j]); ok {
				zs = append(zs, newIntersection(segs, p, i, j))
			}
		}
	}
	test.T(t, BruteForce(segs), zs)
}
