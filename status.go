package sweepline

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
)

// SweepNode is a node in the sweep status, it holds a segment and the key point at which the segment was last inserted.
type SweepNode struct {
	parent, left, right *SweepNode
	height              int

	seg int
	key Point
}

// Seg returns the segment index.
func (n *SweepNode) Seg() int {
	return n.seg
}

// Key returns the point where the segment was (re)inserted.
func (n *SweepNode) Key() Point {
	return n.key
}

// Prev returns the node to the left, or nil.
func (n *SweepNode) Prev() *SweepNode {
	if n.left != nil {
		n = n.left
		for n.right != nil {
			n = n.right
		}
		return n
	}
	for n.parent != nil && n.parent.left == n {
		n = n.parent
	}
	return n.parent
}

// Next returns the node to the right, or nil.
func (n *SweepNode) Next() *SweepNode {
	if n.right != nil {
		n = n.right
		for n.left != nil {
			n = n.left
		}
		return n
	}
	for n.parent != nil && n.parent.right == n {
		n = n.parent
	}
	return n.parent
}

func height(n *SweepNode) int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *SweepNode) balance() int {
	return height(n.right) - height(n.left)
}

func (n *SweepNode) updateHeight() {
	n.height = 1 + max(height(n.left), height(n.right))
}

func (n *SweepNode) swapChild(a, b *SweepNode) {
	if n.right == a {
		n.right = b
	} else {
		n.left = b
	}
	if b != nil {
		b.parent = n
	}
}

func (a *SweepNode) rotateLeft() *SweepNode {
	b := a.right
	if a.parent != nil {
		a.parent.swapChild(a, b)
	} else {
		b.parent = nil
	}
	a.parent = b
	if a.right = b.left; a.right != nil {
		a.right.parent = a
	}
	b.left = a
	return b
}

func (a *SweepNode) rotateRight() *SweepNode {
	b := a.left
	if a.parent != nil {
		a.parent.swapChild(a, b)
	} else {
		b.parent = nil
	}
	a.parent = b
	if a.left = b.right; a.left != nil {
		a.left.parent = a
	}
	b.right = a
	return b
}

// Print writes the subtree sideways, right children above.
func (n *SweepNode) Print(w io.Writer, indent int) {
	if n.right != nil {
		n.right.Print(w, indent+1)
	} else if n.left != nil {
		fmt.Fprintf(w, "%vnil\n", strings.Repeat("  ", indent+1))
	}
	fmt.Fprintf(w, "%v%d %v\n", strings.Repeat("  ", indent), n.seg, n.key)
	if n.left != nil {
		n.left.Print(w, indent+1)
	} else if n.right != nil {
		fmt.Fprintf(w, "%vnil\n", strings.Repeat("  ", indent+1))
	}
}

// SweepStatus is the ordered set of segments that cross the sweep line, from left to right. It is an AVL tree whose order is evaluated at the current sweep point, which is valid as long as no two segments cross between consecutive sweep points. Positions are compared with the absolute tolerance Epsilon.
type SweepStatus struct {
	segs  Segments
	sweep Point

	root  *SweepNode
	nodes []*SweepNode // node per segment, nil if not in status
	size  int
	pool  *sync.Pool
}

// NewSweepStatus returns an empty sweep status for the given segments.
func NewSweepStatus(segs Segments) *SweepStatus {
	return &SweepStatus{
		segs:  segs,
		nodes: make([]*SweepNode, len(segs)),
		pool:  &sync.Pool{New: func() any { return &SweepNode{} }},
	}
}

func (s *SweepStatus) newNode(seg int, key Point) *SweepNode {
	n := s.pool.Get().(*SweepNode)
	n.parent = nil
	n.left = nil
	n.right = nil
	n.height = 1
	n.seg = seg
	n.key = key
	s.nodes[seg] = n
	s.size++
	return n
}

func (s *SweepStatus) returnNode(n *SweepNode) {
	s.nodes[n.seg] = nil
	s.size--
	s.pool.Put(n)
}

// SetSweep moves the sweep line to point p. The order of the segments in the status must not change by doing so.
func (s *SweepStatus) SetSweep(p Point) {
	s.sweep = p
}

// Sweep returns the current sweep point.
func (s *SweepStatus) Sweep() Point {
	return s.sweep
}

// Len returns the number of segments in the status.
func (s *SweepStatus) Len() int {
	return s.size
}

// Node returns the node of segment seg, or nil if it is not in the status.
func (s *SweepStatus) Node(seg int) *SweepNode {
	return s.nodes[seg]
}

// position returns the x-coordinate of the node's segment on the sweep line.
func (s *SweepStatus) position(seg int, key Point) float64 {
	if key.Equals(s.sweep) {
		return key.X
	}
	return s.segs[seg].XAt(s.sweep)
}

// compare compares segment a inserted at key point ka to segment b inserted at kb along the sweep line.
func (s *SweepStatus) compare(a int, ka Point, b int, kb Point) int {
	if a == b {
		return 0
	}
	xa, xb := s.position(a, ka), s.position(b, kb)
	if !Equal(xa, xb) {
		if xa < xb {
			return -1
		}
		return 1
	}

	// Same position, compare just below the sweep point relative to the same reference point.
	// Right of the sweep point the line has not passed yet, so the order just above applies.
	above := s.sweep.X < xa && !Equal(xa, s.sweep.X)
	xa = s.segs[a].JustBelow(Point{}).X
	xb = s.segs[b].JustBelow(Point{}).X
	if above {
		xa, xb = xb, xa
	}
	if Epsilon*Nudge <= math.Abs(xa-xb) {
		if xa < xb {
			return -1
		}
		return 1
	} else if a < b {
		return -1 // collinear, sort by segment index
	}
	return 1
}

func (s *SweepStatus) find(seg int, key Point) (*SweepNode, int) {
	n := s.root
	for n != nil {
		cmp := s.compare(seg, key, n.seg, n.key)
		if cmp < 0 {
			if n.left == nil {
				return n, -1
			}
			n = n.left
		} else if 0 < cmp {
			if n.right == nil {
				return n, 1
			}
			n = n.right
		} else {
			break
		}
	}
	return n, 0
}

func (s *SweepStatus) rebalance(n *SweepNode) {
	for {
		h0 := n.height
		if balance := n.balance(); balance == 2 {
			// right-heavy, a left-heavy right child is rotated first (right-left case)
			if n.right != nil && n.right.balance() < 0 {
				n.right = n.right.rotateRight()
				n.right.right.updateHeight()
			}
			n = n.rotateLeft()
			n.left.updateHeight()
		} else if balance == -2 {
			// left-heavy, a right-heavy left child is rotated first (left-right case)
			if n.left != nil && 0 < n.left.balance() {
				n.left = n.left.rotateLeft()
				n.left.left.updateHeight()
			}
			n = n.rotateRight()
			n.right.updateHeight()
		} else if balance < -2 || 2 < balance {
			panic("bug: sweep status too far out of shape")
		}

		n.updateHeight()
		if n.parent == nil {
			s.root = n
			return
		}
		if h0 == n.height {
			return
		}
		n = n.parent
	}
}

// First returns the left-most node, or nil.
func (s *SweepStatus) First() *SweepNode {
	if s.root == nil {
		return nil
	}
	n := s.root
	for n.left != nil {
		n = n.left
	}
	return n
}

// Last returns the right-most node, or nil.
func (s *SweepStatus) Last() *SweepNode {
	if s.root == nil {
		return nil
	}
	n := s.root
	for n.right != nil {
		n = n.right
	}
	return n
}

// Insert adds segment seg with the given key point, which must lie on the sweep line. If the segment is already in the status, its key is replaced.
func (s *SweepStatus) Insert(seg int, key Point) *SweepNode {
	if n := s.nodes[seg]; n != nil {
		s.Remove(n)
	}
	if s.root == nil {
		s.root = s.newNode(seg, key)
		return s.root
	}

	n, cmp := s.find(seg, key)
	if cmp == 0 {
		panic(fmt.Sprintf("bug: segment %d compares equal to segment %d", seg, n.seg))
	}
	m := s.newNode(seg, key)
	m.parent = n
	if cmp < 0 {
		n.left = m
	} else {
		n.right = m
	}
	s.rebalance(n)
	return m
}

// Remove removes the node from the status, the node must not be used afterwards.
func (s *SweepStatus) Remove(n *SweepNode) {
	if s.nodes[n.seg] != n {
		panic(fmt.Sprintf("bug: segment %d is not in the sweep status", n.seg))
	}

	var o *SweepNode
	for {
		if n.height == 1 {
			o = n.parent
			if o != nil {
				o.swapChild(n, nil)
				s.rebalance(o)
			} else {
				s.root = nil
			}
			s.returnNode(n)
			return
		} else if n.right != nil {
			o = n.right
			for o.left != nil {
				o = o.left
			}
		} else if n.left != nil {
			o = n.left
			for o.right != nil {
				o = o.right
			}
		} else {
			panic("bug: inner node without children")
		}
		n.seg, o.seg = o.seg, n.seg
		n.key, o.key = o.key, n.key
		s.nodes[n.seg], s.nodes[o.seg] = n, o
		n = o
	}
}

// Bound returns the last node left of p and the first node right of p on the sweep line through p. Nodes that pass through p are in between. Either may be nil.
func (s *SweepStatus) Bound(p Point) (*SweepNode, *SweepNode) {
	s.sweep = p

	var left, right *SweepNode
	for n := s.root; n != nil; {
		if x := s.position(n.seg, n.key); x < p.X && !Equal(x, p.X) {
			left = n
			n = n.right
		} else {
			n = n.left
		}
	}
	for n := s.root; n != nil; {
		if x := s.position(n.seg, n.key); p.X < x && !Equal(x, p.X) {
			right = n
			n = n.left
		} else {
			n = n.right
		}
	}
	return left, right
}

// Segments returns the segment indices from left to right.
func (s *SweepStatus) Segments() []int {
	segs := make([]int, 0, s.size)
	for n := s.First(); n != nil; n = n.Next() {
		segs = append(segs, n.seg)
	}
	return segs
}

// Check panics if the segments are not ordered along the sweep line or if the tree is out of balance.
func (s *SweepStatus) Check() {
	if s.root != nil && s.root.parent != nil {
		panic("bug: sweep status root has a parent")
	}
	var prev *SweepNode
	for n := s.First(); n != nil; n = n.Next() {
		if b := n.balance(); b < -1 || 1 < b {
			panic(fmt.Sprintf("bug: sweep status out of balance at segment %d", n.seg))
		}
		if prev != nil && 0 <= s.compare(prev.seg, prev.key, n.seg, n.key) {
			panic(fmt.Sprintf("bug: segment %d not left of segment %d at %v", prev.seg, n.seg, s.sweep))
		}
		prev = n
	}
}

func (s *SweepStatus) String() string {
	if s.root == nil {
		return "nil"
	}

	sb := strings.Builder{}
	s.root.Print(&sb, 0)
	str := sb.String()
	if 0 < len(str) {
		str = str[:len(str)-1]
	}
	return str
}
