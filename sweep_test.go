package sweepline

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/tdewolff/test"
)

func TestFindIntersections(t *testing.T) {
	var tts = []struct {
		name string
		segs Segments
		zs   []Intersection
	}{
		{"cross", Segments{
			{Point{0, 0}, Point{2, 2}},
			{Point{0, 2}, Point{2, 0}},
		}, []Intersection{
			{Point: Point{1, 1}, I: 0, J: 1},
		}},
		{"shared endpoint", Segments{
			{Point{0, 2}, Point{1, 1}},
			{Point{2, 2}, Point{1, 1}},
			{Point{1, 1}, Point{1, 0}},
		}, []Intersection{}},
		{"parallel", Segments{
			{Point{0, 0}, Point{1, 1}},
			{Point{1, 0}, Point{2, 1}},
		}, []Intersection{}},
		{"collinear", Segments{
			{Point{0, 0}, Point{2, 2}},
			{Point{1, 1}, Point{3, 3}},
		}, []Intersection{}},
		{"disjoint", Segments{
			{Point{0, 0}, Point{1, 0}},
			{Point{2, 1}, Point{3, 2}},
		}, []Intersection{}},
		{"touching", Segments{
			{Point{0, 0}, Point{2, 0}},
			{Point{1, 0}, Point{1, 1}},
		}, []Intersection{}},
		{"horizontal", Segments{
			{Point{0, 1}, Point{4, 1}},
			{Point{1, 0}, Point{1, 2}},
			{Point{3, 2}, Point{3, 0}},
		}, []Intersection{
			{Point: Point{1, 1}, I: 0, J: 1},
			{Point: Point{3, 1}, I: 0, J: 2},
		}},
		{"three through one point", Segments{
			{Point{-1, -1}, Point{1, 1}},
			{Point{-1, 1}, Point{1, -1}},
			{Point{0, -1}, Point{0, 1}},
		}, []Intersection{
			{Point: Point{0, 0}, I: 0, J: 2},
			{Point: Point{0, 0}, I: 1, J: 2},
			{Point: Point{0, 0}, I: 0, J: 1},
		}},
		{"out of order", Segments{
			{Point{0, 4}, Point{4, 0}},
			{Point{4, 4}, Point{0, 0}},
			{Point{1, 5}, Point{2, -1}},
			{Point{-1, 3}, Point{5, 2.5}},
			{Point{3, 5}, Point{3.5, -1}},
		}, []Intersection{
			{Point: Point{41.0 / 13.0, 41.0 / 13.0}, I: 1, J: 4},
			{Point: Point{13.0 / 11.0, 31.0 / 11.0}, I: 0, J: 3},
			{Point: Point{97.0 / 71.0, 199.0 / 71.0}, I: 2, J: 3},
			{Point: Point{35.0 / 13.0, 35.0 / 13.0}, I: 1, J: 3},
			{Point: Point{457.0 / 143.0, 379.0 / 143.0}, I: 3, J: 4},
			{Point: Point{1.4, 2.6}, I: 0, J: 2},
			{Point: Point{2, 2}, I: 0, J: 1},
			{Point: Point{11.0 / 7.0, 11.0 / 7.0}, I: 1, J: 2},
			{Point: Point{37.0 / 11.0, 7.0 / 11.0}, I: 0, J: 4},
		}},
	}
	for _, tt := range tts {
		t.Run(tt.name, func(t *testing.T) {
			zs, err := FindIntersections(tt.segs)
			test.Error(t, err)
			test.T(t, zs, tt.zs)
			for _, z := range zs {
				test.T(t, z.A, tt.segs[z.I])
				test.T(t, z.B, tt.segs[z.J])
			}
		})
	}
}

func TestSweepSteps(t *testing.T) {
	segs := Segments{
		{Point{0, 2}, Point{1, 1}},
		{Point{2, 2}, Point{1, 1}},
		{Point{1, 1}, Point{1, 0}},
	}
	sweep, err := NewSweep(segs)
	test.Error(t, err)

	points := []Point{}
	status := []int{}
	var events []Event
	sweep.Reporter = ReporterFunc(func(step Step) {
		points = append(points, step.Point)
		status = append(status, step.Status)
		if step.Point.Equals(Point{1, 1}) {
			events = append(events, step.Events...)
		}
	})
	for range sweep.Intersections() {
		test.Fail(t, "no intersections expected")
	}
	test.T(t, sweep.Done(), true)
	test.T(t, points, []Point{{0, 2}, {2, 2}, {1, 1}, {1, 0}})
	test.T(t, status, []int{1, 2, 1, 0})
	test.T(t, events, []Event{
		{Point{1, 1}, UpperEvent, 2, -1},
		{Point{1, 1}, LowerEvent, 0, -1},
		{Point{1, 1}, LowerEvent, 1, -1},
	})
}

func TestSweepStatusOrder(t *testing.T) {
	segs := Segments{
		{Point{0, 0}, Point{2, 2}},
		{Point{0, 2}, Point{2, 0}},
	}
	sweep, err := NewSweep(segs)
	test.Error(t, err)

	var statuses [][]int
	sweep.Reporter = ReporterFunc(func(step Step) {
		statuses = append(statuses, sweep.Status())
	})
	_ = sweep.Next(nil) // upper of 1
	_ = sweep.Next(nil) // upper of 0
	zs := sweep.Next(nil)
	test.T(t, len(zs), 1)
	_ = sweep.Next(nil)
	_ = sweep.Next(nil)
	test.T(t, sweep.Done(), true)
	test.T(t, sweep.Next(nil), []Intersection(nil))
	test.T(t, statuses, [][]int{{1}, {1, 0}, {0, 1}, {1}, {}})
}

func TestSweepDegenerate(t *testing.T) {
	_, err := NewSweep(Segments{
		{Point{0, 0}, Point{1, 1}},
		{Point{2, 2}, Point{2, 2}},
	})
	var degenerate *DegenerateError
	test.That(t, errors.As(err, &degenerate), "must be a degenerate error")
	test.T(t, degenerate.Index, 1)

	_, err = FindIntersections(Segments{{Point{0, 0}, Point{0, 0}}})
	test.That(t, errors.As(err, &degenerate), "must be a degenerate error")

	zs, err := FindIntersections(Segments{})
	test.Error(t, err)
	test.T(t, len(zs), 0)
}

func TestSweepIteratorStop(t *testing.T) {
	segs := Segments{
		{Point{-1, -1}, Point{1, 1}},
		{Point{-1, 1}, Point{1, -1}},
		{Point{0, -1}, Point{0, 1}},
		{Point{-1, -0.5}, Point{1, -0.5}},
	}
	sweep, err := NewSweep(segs)
	test.Error(t, err)

	var zs []Intersection
	for z := range sweep.Intersections() {
		zs = append(zs, z)
		break
	}
	test.T(t, len(zs), 1)
	for z := range sweep.Intersections() {
		zs = append(zs, z)
	}
	test.T(t, len(zs), 6)
	SortIntersections(zs)
	test.T(t, zs, BruteForce(segs))
}

func compareBruteForce(t *testing.T, segs Segments) {
	t.Helper()
	sweep, err := NewSweep(segs)
	test.Error(t, err)
	sweep.Debug = true

	var prev *Point
	sweep.Reporter = ReporterFunc(func(step Step) {
		if prev != nil {
			test.That(t, step.Point.Y <= prev.Y+sweep.Tolerance(), "sweep must move down")
		}
		p := step.Point
		prev = &p
		test.T(t, step.Status, len(sweep.Status()))
	})

	zs := []Intersection{}
	for z := range sweep.Intersections() {
		zs = append(zs, z)
	}
	SortIntersections(zs)
	test.T(t, zs, BruteForce(segs), fmt.Sprint(segs))
}

func TestSweepRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 100; i++ {
		segs := RandomSegments(rng, 2+rng.IntN(60))
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			compareBruteForce(t, segs)
		})
	}
}

func gridSegments(rng *rand.Rand, n int, f float64) Segments {
	segs := make(Segments, 0, n)
	for len(segs) < n {
		s := Segment{
			Point{f * float64(rng.IntN(5)), f * float64(rng.IntN(5))},
			Point{f * float64(rng.IntN(5)), f * float64(rng.IntN(5))},
		}
		if !s.Degenerate() {
			segs = append(segs, s)
		}
	}
	return segs
}

func scaleSegments(segs Segments, f float64) Segments {
	r := make(Segments, len(segs))
	for i, s := range segs {
		r[i] = Segment{s.A.Mul(f), s.B.Mul(f)}
	}
	return r
}

func TestSweepGrid(t *testing.T) {
	// many shared endpoints, horizontal, vertical and overlapping segments
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 200; i++ {
		segs := gridSegments(rng, 2+rng.IntN(30), 1.0)
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			compareBruteForce(t, segs)
		})
	}
}

func TestSweepScaled(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	for _, f := range []float64{1e-12, 1e-9, 1e-6, 1e-3, 1e3, 1e8} {
		for i := 0; i < 50; i++ {
			segs := scaleSegments(RandomSegments(rng, 2+rng.IntN(40)), f)
			t.Run(fmt.Sprint(f, "/", i), func(t *testing.T) {
				compareBruteForce(t, segs)
			})
		}
	}

	// grid coordinates stay exact when scaled by powers of two
	for _, f := range []float64{math.Ldexp(1.0, -40), math.Ldexp(1.0, -20), math.Ldexp(1.0, 30)} {
		for i := 0; i < 50; i++ {
			segs := gridSegments(rng, 2+rng.IntN(30), f)
			t.Run(fmt.Sprint(f, "/grid/", i), func(t *testing.T) {
				compareBruteForce(t, segs)
			})
		}
	}
}

func TestSweepScaledPoints(t *testing.T) {
	// crossings and steps are in input coordinates
	segs := Segments{
		{Point{-1, -1}, Point{1, 1}},
		{Point{-1, 1}, Point{1, -1}},
		{Point{0, -1}, Point{0, 1}},
		{Point{-1, -0.5}, Point{1, -0.5}},
	}
	zs, err := FindIntersections(segs)
	test.Error(t, err)
	SortIntersections(zs)

	for _, f := range []float64{1e-9, 1e8} {
		t.Run(fmt.Sprint(f), func(t *testing.T) {
			near := func(a, b float64) bool {
				return math.Abs(a-b) <= 1e-9*f
			}

			sweep, err := NewSweep(scaleSegments(segs, f))
			test.Error(t, err)
			tol := sweep.Tolerance()
			test.That(t, Epsilon*f <= tol && tol <= 2.0*Epsilon*f, fmt.Sprint(tol))

			var steps []Point
			sweep.Reporter = ReporterFunc(func(step Step) {
				steps = append(steps, step.Point)
				for _, e := range step.Events {
					test.That(t, math.Abs(e.X-step.X) <= tol && math.Abs(e.Y-step.Y) <= tol, "event must be at the step point")
				}
			})
			zsScaled := []Intersection{}
			for z := range sweep.Intersections() {
				zsScaled = append(zsScaled, z)
			}
			SortIntersections(zsScaled)

			test.T(t, len(zsScaled), len(zs))
			for i, z := range zsScaled {
				test.T(t, [2]int{z.I, z.J}, [2]int{zs[i].I, zs[i].J})
				test.That(t, near(z.X, zs[i].X*f) && near(z.Y, zs[i].Y*f), fmt.Sprint(z.Point, " != ", zs[i].Point.Mul(f)))
			}
			test.That(t, near(steps[0].Y, f), fmt.Sprint(steps[0]))
		})
	}
}

func TestSweepShortSegments(t *testing.T) {
	// segments shorter than the tolerance but not degenerate are accepted and swept as points
	segs := Segments{
		{Point{0, 0}, Point{2, 2}},
		{Point{0, 2}, Point{2, 0}},
		{Point{1, 0.5}, Point{1 + 1e-12, 0.5}},
		{Point{0.5, 1.5}, Point{0.5, 1.5 + 1e-12}},
	}
	test.Error(t, segs.Validate())
	sweep, err := NewSweep(segs)
	test.Error(t, err)
	sweep.Debug = true

	zs := []Intersection{}
	for z := range sweep.Intersections() {
		zs = append(zs, z)
	}
	test.T(t, len(zs), 1)
	test.T(t, [2]int{zs[0].I, zs[0].J}, [2]int{0, 1})
	test.T(t, len(sweep.Status()), 0)
}

func TestSweepDeterministic(t *testing.T) {
	segs := RandomSegments(rand.New(rand.NewPCG(5, 6)), 50)
	zs1, err := FindIntersections(segs)
	test.Error(t, err)
	zs2, err := FindIntersections(segs)
	test.Error(t, err)
	test.T(t, zs1, zs2)
	test.That(t, 0 < len(zs1))
}
