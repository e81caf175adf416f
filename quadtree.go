package luna

import "fmt"

const (
	// DefaultNodeCapacity is the number of entries a leaf holds before it
	// subdivides.
	DefaultNodeCapacity = 8
	// DefaultMaxDepth bounds subdivision so many identical boxes cannot
	// split a node forever.
	DefaultMaxDepth = 8
)

// Quadrant order of a node's children. Y grows downward, so north is the
// top half.
const (
	quadNW = iota
	quadNE
	quadSW
	quadSE
)

type quadEntry struct {
	id  EntityID
	box BoundingBox
	seq uint64 // insertion order; larger is more recent
}

type quadNode struct {
	bounds   BoundingBox
	depth    int
	entries  []quadEntry
	children [4]*quadNode
	divided  bool
}

// QuadTree is an axis-aligned spatial index over a fixed region, mapping
// world-space boxes to entities.
//
// Each entity is stored exactly once: boxes that straddle a subdivision line
// stay at the parent node instead of being copied into several quadrants.
// Boxes must lie inside the region; Insert rejects anything else.
type QuadTree struct {
	root     *quadNode
	bounds   BoundingBox
	capacity int
	maxDepth int
	where    map[EntityID]*quadNode
	seq      uint64
}

// NewQuadTree creates an empty index covering the rectangle at (x, y) with
// the given size.
func NewQuadTree(x, y, width, height float32) *QuadTree {
	return newQuadTree(NewBoundingBox(x, y, width, height), DefaultNodeCapacity, DefaultMaxDepth)
}

func newQuadTree(bounds BoundingBox, capacity, maxDepth int) *QuadTree {
	if capacity < 1 {
		capacity = DefaultNodeCapacity
	}
	if maxDepth < 0 {
		maxDepth = DefaultMaxDepth
	}
	return &QuadTree{
		root:     &quadNode{bounds: bounds},
		bounds:   bounds,
		capacity: capacity,
		maxDepth: maxDepth,
		where:    make(map[EntityID]*quadNode),
	}
}

// Bounds returns the indexed region.
func (qt *QuadTree) Bounds() BoundingBox {
	return qt.bounds
}

// Len returns the number of indexed entities.
func (qt *QuadTree) Len() int {
	return len(qt.where)
}

// Has reports whether id is indexed.
func (qt *QuadTree) Has(id EntityID) bool {
	_, ok := qt.where[id]
	return ok
}

// Box returns the indexed box for id.
func (qt *QuadTree) Box(id EntityID) (BoundingBox, bool) {
	n, ok := qt.where[id]
	if !ok {
		return BoundingBox{}, false
	}
	if i := n.indexOf(id); i >= 0 {
		return n.entries[i].box, true
	}
	return BoundingBox{}, false
}

// Insert indexes id under box, replacing any previous entry for id, so
// inserting the same pair twice is the same as inserting it once.
//
// A box that is not entirely inside the region is rejected with
// ErrOutOfBounds and any previous entry for id is dropped.
func (qt *QuadTree) Insert(id EntityID, box BoundingBox) error {
	qt.Remove(id)
	if !qt.bounds.ContainsBox(box) {
		return fmt.Errorf("%w: entity %v box %v region %v", ErrOutOfBounds, id, box, qt.bounds)
	}
	qt.seq++
	e := quadEntry{id: id, box: box, seq: qt.seq}

	n := qt.root
	for n.divided {
		c := n.quadrantFor(box)
		if c == nil {
			break
		}
		n = c
	}
	n.entries = append(n.entries, e)
	qt.where[id] = n

	if !n.divided && len(n.entries) > qt.capacity && n.depth < qt.maxDepth {
		qt.subdivide(n)
	}
	return nil
}

// Remove drops id from the index. Returns false if it was not indexed.
// Emptied nodes are kept; Clear is the way to reclaim them.
func (qt *QuadTree) Remove(id EntityID) bool {
	n, ok := qt.where[id]
	if !ok {
		return false
	}
	delete(qt.where, id)
	if i := n.indexOf(id); i >= 0 {
		copy(n.entries[i:], n.entries[i+1:])
		n.entries[len(n.entries)-1] = quadEntry{}
		n.entries = n.entries[:len(n.entries)-1]
	}
	return true
}

// Clear discards every node and entry, keeping the region.
func (qt *QuadTree) Clear() {
	qt.root = &quadNode{bounds: qt.bounds}
	qt.where = make(map[EntityID]*quadNode)
}

// Reset discards every node and entry and installs a new region.
func (qt *QuadTree) Reset(x, y, width, height float32) {
	qt.bounds = NewBoundingBox(x, y, width, height)
	qt.Clear()
}

// QueryPoint returns every entity whose box contains (x, y).
func (qt *QuadTree) QueryPoint(x, y float32) []EntityID {
	return entryIDs(qt.queryPoint(x, y, nil))
}

// QueryRegion returns every entity whose box overlaps the rectangle at
// (x, y) with the given size.
func (qt *QuadTree) QueryRegion(x, y, width, height float32) []EntityID {
	return entryIDs(qt.queryRegion(NewBoundingBox(x, y, width, height), nil))
}

// Nodes calls fn for every node, parents before children.
func (qt *QuadTree) Nodes(fn func(bounds BoundingBox, depth int)) {
	walkNodes(qt.root, func(n *quadNode) {
		fn(n.bounds, n.depth)
	})
}

// Entries calls fn for every indexed entity in traversal order.
func (qt *QuadTree) Entries(fn func(id EntityID, box BoundingBox)) {
	walkNodes(qt.root, func(n *quadNode) {
		for _, e := range n.entries {
			fn(e.id, e.box)
		}
	})
}

func (qt *QuadTree) queryPoint(x, y float32, buf []quadEntry) []quadEntry {
	return qt.root.collect(buf, func(b BoundingBox) bool { return b.Contains(x, y) })
}

func (qt *QuadTree) queryRegion(area BoundingBox, buf []quadEntry) []quadEntry {
	return qt.root.collect(buf, area.Intersects)
}

// subdivide splits n into four equal quadrants and migrates every entry
// that fits entirely inside one of them. Quadrants that overflow in turn
// are split as well.
func (qt *QuadTree) subdivide(n *quadNode) {
	x, y := n.bounds.Min.X, n.bounds.Min.Y
	w, h := n.bounds.Width()/2, n.bounds.Height()/2
	d := n.depth + 1

	n.children[quadNW] = &quadNode{bounds: NewBoundingBox(x, y, w, h), depth: d}
	n.children[quadNE] = &quadNode{bounds: NewBoundingBox(x+w, y, w, h), depth: d}
	n.children[quadSW] = &quadNode{bounds: NewBoundingBox(x, y+h, w, h), depth: d}
	n.children[quadSE] = &quadNode{bounds: NewBoundingBox(x+w, y+h, w, h), depth: d}
	n.divided = true

	kept := make([]quadEntry, 0, len(n.entries))
	for _, e := range n.entries {
		if c := n.quadrantFor(e.box); c != nil {
			c.entries = append(c.entries, e)
			qt.where[e.id] = c
			continue
		}
		kept = append(kept, e)
	}
	n.entries = kept

	for _, c := range n.children {
		if len(c.entries) > qt.capacity && c.depth < qt.maxDepth {
			qt.subdivide(c)
		}
	}
}

// quadrantFor returns the child that fully contains box, or nil if box
// straddles a subdivision line.
func (n *quadNode) quadrantFor(box BoundingBox) *quadNode {
	for _, c := range n.children {
		if c.bounds.ContainsBox(box) {
			return c
		}
	}
	return nil
}

func (n *quadNode) indexOf(id EntityID) int {
	for i := range n.entries {
		if n.entries[i].id == id {
			return i
		}
	}
	return -1
}

// collect appends the entries of every node whose bounds pass test and whose
// own box passes test. Entries always fit their node, so a node that fails
// the test cannot hold a match.
func (n *quadNode) collect(buf []quadEntry, test func(BoundingBox) bool) []quadEntry {
	if !test(n.bounds) {
		return buf
	}
	for _, e := range n.entries {
		if test(e.box) {
			buf = append(buf, e)
		}
	}
	if n.divided {
		for _, c := range n.children {
			buf = c.collect(buf, test)
		}
	}
	return buf
}

func walkNodes(n *quadNode, fn func(*quadNode)) {
	fn(n)
	if n.divided {
		for _, c := range n.children {
			walkNodes(c, fn)
		}
	}
}

func entryIDs(entries []quadEntry) []EntityID {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]EntityID, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}
