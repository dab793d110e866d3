package sweepline

import (
	"fmt"
	"io"
	"strings"
)

// EventKind is the type of sweep event.
type EventKind int

// see EventKind
const (
	UpperEvent        EventKind = iota // segment starts being swept
	IntersectionEvent                  // segment crosses Other
	LowerEvent                         // segment stops being swept
)

func (kind EventKind) String() string {
	switch kind {
	case UpperEvent:
		return "upper"
	case IntersectionEvent:
		return "intersection"
	case LowerEvent:
		return "lower"
	}
	return fmt.Sprintf("EventKind(%d)", int(kind))
}

// Event is a point where the set of segments crossing the sweep line changes.
type Event struct {
	Point
	Kind  EventKind
	Seg   int // segment index
	Other int // crossing segment index for intersection events, otherwise -1
}

func (e Event) String() string {
	if e.Kind == IntersectionEvent {
		return fmt.Sprintf("%v %v %d×%d", e.Point, e.Kind, e.Seg, e.Other)
	}
	return fmt.Sprintf("%v %v %d", e.Point, e.Kind, e.Seg)
}

// Less returns true if e is to be handled before f. Events are sorted in vertical order of their point, events at the same point are sorted by kind and segment.
func (e Event) Less(f Event) bool {
	if !e.Point.Equals(f.Point) {
		return e.Point.Above(f.Point)
	} else if e.Kind != f.Kind {
		return e.Kind < f.Kind
	} else if e.Seg != f.Seg {
		return e.Seg < f.Seg
	}
	return e.Other < f.Other
}

// SweepEvents is a heap priority queue of sweep events. The top is the top-most, then left-most event.
type SweepEvents []Event

// NewSweepEvents returns the queue with the upper and lower events of all segments.
func NewSweepEvents(segs Segments) *SweepEvents {
	q := make(SweepEvents, 0, 2*len(segs))
	for i, s := range segs {
		q = append(q, Event{s.Upper(), UpperEvent, i, -1})
		q = append(q, Event{s.Lower(), LowerEvent, i, -1})
	}
	q.Init()
	return &q
}

func (q SweepEvents) Less(i, j int) bool {
	return q[i].Less(q[j])
}

func (q SweepEvents) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

// Init establishes the heap order.
func (q SweepEvents) Init() {
	n := len(q)
	for i := n/2 - 1; 0 <= i; i-- {
		q.down(i, n)
	}
}

// Top returns the next event without removing it. The queue must not be empty.
func (q SweepEvents) Top() Event {
	return q[0]
}

// Push adds an event, it is allowed while the queue is being popped.
func (q *SweepEvents) Push(item Event) {
	*q = append(*q, item)
	q.up(len(*q) - 1)
}

func (q *SweepEvents) pop() Event {
	n := len(*q) - 1
	q.Swap(0, n)
	q.down(0, n)

	item := (*q)[n]
	*q = (*q)[:n]
	return item
}

// Pop removes and returns all events at the point of the top event, in order. It appends to the given buffer.
func (q *SweepEvents) Pop(items []Event) []Event {
	if len(*q) == 0 {
		return items
	}
	p := (*q)[0].Point
	for 0 < len(*q) && (*q)[0].Point.Equals(p) {
		items = append(items, q.pop())
	}
	return items
}

// from container/heap
func (q SweepEvents) up(j int) {
	for {
		i := (j - 1) / 2 // parent
		if i == j || !q.Less(j, i) {
			break
		}
		q.Swap(i, j)
		j = i
	}
}

func (q SweepEvents) down(i0, n int) {
	i := i0
	for {
		j1 := 2*i + 1
		if n <= j1 || j1 < 0 { // j1 < 0 after int overflow
			break
		}
		j := j1 // left child
		if j2 := j1 + 1; j2 < n && q.Less(j2, j1) {
			j = j2 // = 2*i + 2  // right child
		}
		if !q.Less(j, i) {
			break
		}
		q.Swap(i, j)
		i = j
	}
}

// Print writes the events in the order they would be popped.
func (q SweepEvents) Print(w io.Writer) {
	q2 := make(SweepEvents, len(q))
	copy(q2, q)
	q = q2

	n := len(q) - 1
	for 0 < n {
		q.Swap(0, n)
		q.down(0, n)
		n--
	}
	for k := len(q) - 1; 0 <= k; k-- {
		fmt.Fprintln(w, len(q)-1-k, q[k])
	}
}

func (q SweepEvents) String() string {
	sb := strings.Builder{}
	q.Print(&sb)
	str := sb.String()
	if 0 < len(str) {
		str = str[:len(str)-1]
	}
	return str
}
