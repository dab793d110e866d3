package sweepline

import (
	"iter"
	"math"
	"slices"
)

// Step is a processed sweep point, in the coordinates of the input segments.
type Step struct {
	Point
	Events        []Event        // events at this point, only valid during Report
	Status        int            // number of segments crossing the sweep line after this step
	Intersections []Intersection // crossings reported at this point, only valid during Report
}

// Reporter receives every sweep step.
type Reporter interface {
	Report(Step)
}

// ReporterFunc is a function that implements Reporter.
type ReporterFunc func(Step)

func (f ReporterFunc) Report(step Step) {
	f(step)
}

type segmentPair [2]int

func newSegmentPair(i, j int) segmentPair {
	if j < i {
		i, j = j, i
	}
	return segmentPair{i, j}
}

// Sweep finds all crossings between segments by moving a horizontal sweep line downwards over the plane, implementing the Bentley-Ottmann algorithm. It runs in O((n+k) log n) for n segments and k crossings. A sweep can run only once.
//
// The segments are scaled by a power of two so that the largest coordinate magnitude lies in [0.5,1), which is exact. All tolerances apply to the scaled coordinates, so they are relative to the magnitude of the input and crossings are found at any scale.
type Sweep struct {
	Reporter Reporter // receives every step, may be nil
	Debug    bool     // check the sweep status after every step

	input    Segments
	segs     Segments // scaled input
	scale    float64  // input = segs * scale
	queue    *SweepEvents
	status   *SweepStatus
	handled  map[segmentPair]bool // pairs tested for intersection
	reported map[segmentPair]bool // pairs that have been reported

	// buffers
	batch     []Event
	events    []Event // batch in input coordinates
	block     []int
	uppers    []int
	crossings []int
	stamp     []int // per segment, the step at which it ends
	steps     int
	zs        []Intersection // pending crossings of the last step
	zi        int
}

// NewSweep returns a sweep over the segments. It returns a *DegenerateError for zero-length segments, or ErrNonFinite when coordinates are NaN or infinite.
func NewSweep(segs Segments) (*Sweep, error) {
	if err := segs.Validate(); err != nil {
		return nil, err
	}
	stamp := make([]int, len(segs))
	for i := range stamp {
		stamp[i] = -1
	}
	scaled, scale := normalize(segs)
	return &Sweep{
		input:    segs,
		segs:     scaled,
		scale:    scale,
		queue:    NewSweepEvents(scaled),
		status:   NewSweepStatus(scaled),
		handled:  map[segmentPair]bool{},
		reported: map[segmentPair]bool{},
		stamp:    stamp,
	}, nil
}

// normalize scales the segments by a power of two so that the largest coordinate magnitude is in [0.5,1). It returns the scaled segments and the scale to undo it.
func normalize(segs Segments) (Segments, float64) {
	m := 0.0
	for _, s := range segs {
		m = max(m, math.Abs(s.A.X), math.Abs(s.A.Y), math.Abs(s.B.X), math.Abs(s.B.Y))
	}
	if m == 0.0 {
		return segs, 1.0
	}
	_, exp := math.Frexp(m)
	scaled := make(Segments, len(segs))
	for i, s := range segs {
		scaled[i] = Segment{
			Point{math.Ldexp(s.A.X, -exp), math.Ldexp(s.A.Y, -exp)},
			Point{math.Ldexp(s.B.X, -exp), math.Ldexp(s.B.Y, -exp)},
		}
	}
	return scaled, math.Ldexp(1.0, exp)
}

// FindIntersections returns all crossings between the segments in the order they are swept.
func FindIntersections(segs Segments) ([]Intersection, error) {
	sweep, err := NewSweep(segs)
	if err != nil {
		return nil, err
	}
	zs := []Intersection{}
	for z := range sweep.Intersections() {
		zs = append(zs, z)
	}
	return zs, nil
}

// Done returns true when all events have been processed.
func (sw *Sweep) Done() bool {
	return len(*sw.queue) == 0
}

// Tolerance returns the distance in input coordinates below which points are considered equal.
func (sw *Sweep) Tolerance() float64 {
	return Epsilon * sw.scale
}

// Status returns the segment indices crossing the sweep line from left to right.
func (sw *Sweep) Status() []int {
	return sw.status.Segments()
}

// Intersections returns the crossings lazily in sweep order, each crossing pair is yielded once. Stopping the iteration early pauses the sweep, it continues on the next call.
func (sw *Sweep) Intersections() iter.Seq[Intersection] {
	return func(yield func(Intersection) bool) {
		for {
			for sw.zi < len(sw.zs) {
				z := sw.zs[sw.zi]
				sw.zi++
				if !yield(z) {
					return
				}
			}
			if sw.Done() {
				return
			}
			sw.zs, sw.zi = sw.Next(sw.zs[:0]), 0
		}
	}
}

// Next processes all events at the next sweep point and appends the crossings at that point to zs.
func (sw *Sweep) Next(zs []Intersection) []Intersection {
	sw.batch = sw.queue.Pop(sw.batch[:0])
	if len(sw.batch) == 0 {
		return zs
	}
	p := sw.batch[0].Point
	step := sw.steps
	sw.steps++

	// retire all segments that end at or pass through p, they are adjacent in the status
	block, uppers := sw.block[:0], sw.uppers[:0]
	left, right := sw.status.Bound(p)
	n := sw.status.First()
	if left != nil {
		n = left.Next()
	}
	for ; n != right; n = n.Next() {
		block = append(block, n.seg)
	}
	for _, e := range sw.batch {
		switch e.Kind {
		case UpperEvent:
			uppers = append(uppers, e.Seg)
		case LowerEvent:
			sw.stamp[e.Seg] = step
			fallthrough
		case IntersectionEvent:
			if sw.status.Node(e.Seg) != nil && !slices.Contains(block, e.Seg) {
				block = append(block, e.Seg) // numerically off the sweep line
			}
		}
	}
	crossings := sw.crossings[:0]
	for _, seg := range block {
		sw.status.Remove(sw.status.Node(seg))
		if sw.stamp[seg] != step && !sw.segs[seg].Lower().Equals(p) {
			crossings = append(crossings, seg)
		}
	}

	// report crossings, more than two segments may cross at p of which not all pairs were adjacent
	start := len(zs)
	for _, e := range sw.batch {
		if e.Kind == IntersectionEvent {
			pair := newSegmentPair(e.Seg, e.Other)
			if !sw.reported[pair] {
				sw.reported[pair] = true
				zs = append(zs, newIntersection(sw.input, e.Point.Mul(sw.scale), e.Seg, e.Other))
			}
		}
	}
	for k, i := range crossings {
		for _, j := range crossings[k+1:] {
			pair := newSegmentPair(i, j)
			if sw.reported[pair] {
				continue
			}
			if q, ok := sw.intersects(i, j); ok && q.Equals(p) {
				sw.handled[pair] = true
				sw.reported[pair] = true
				zs = append(zs, newIntersection(sw.input, q.Mul(sw.scale), i, j))
			}
		}
	}

	// re-admit crossing segments below p and add starting segments
	sw.status.SetSweep(p)
	for _, seg := range crossings {
		sw.status.Insert(seg, p)
	}
	for _, seg := range uppers {
		if sw.stamp[seg] != step { // shorter than the tolerance
			sw.status.Insert(seg, sw.segs[seg].Upper())
		}
	}
	sw.block, sw.uppers, sw.crossings = block, uppers, crossings

	// test the outer segments through p against their new neighbours, or the two
	// segments that became adjacent if no segments pass through p
	left, right = sw.status.Bound(p)
	lo := sw.status.First()
	if left != nil {
		lo = left.Next()
	}
	if lo == right {
		sw.test(p, left, right)
	} else {
		hi := sw.status.Last()
		if right != nil {
			hi = right.Prev()
		}
		sw.test(p, left, lo)
		sw.test(p, hi, right)
	}

	if sw.Debug {
		sw.status.Check()
	}
	if sw.Reporter != nil {
		sw.events = sw.events[:0]
		for _, e := range sw.batch {
			e.Point = e.Point.Mul(sw.scale)
			sw.events = append(sw.events, e)
		}
		sw.Reporter.Report(Step{
			Point:         p.Mul(sw.scale),
			Events:        sw.events,
			Status:        sw.status.Len(),
			Intersections: zs[start:],
		})
	}
	return zs
}

// intersects tests segments i and j always in the same order, so that the crossing point does not depend on their order in the status.
func (sw *Sweep) intersects(i, j int) (Point, bool) {
	if j < i {
		i, j = j, i
	}
	return Intersects(sw.segs[i], sw.segs[j])
}

// test adds the crossing of two adjacent segments to the queue if it is below the sweep point.
func (sw *Sweep) test(p Point, a, b *SweepNode) {
	if a == nil || b == nil {
		return
	}
	pair := newSegmentPair(a.seg, b.seg)
	if sw.handled[pair] {
		return
	}
	sw.handled[pair] = true

	if z, ok := sw.intersects(a.seg, b.seg); ok && p.Above(z) {
		sw.queue.Push(Event{z, IntersectionEvent, a.seg, b.seg})
		sw.queue.Push(Event{z, IntersectionEvent, b.seg, a.seg})
	}
}
