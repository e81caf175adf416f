package luna

import "slices"

// HitTestSystem keeps the spatial index in step with the hierarchy and
// transforms, and resolves point and region queries to entities in
// front-to-back order.
//
// Freshness is per entity and pulled: after moving, resizing, or reparenting
// an entity, call UpdateEntity (or Scene.UpdateSubtree) before querying.
//
// Depth in the hierarchy stands in for paint order: children draw over
// their ancestors, so deeper candidates win. Equal depths are broken by
// insertion order, most recently indexed first.
type HitTestSystem struct {
	hierarchy  *Hierarchy
	transforms *Transforms
	extents    ExtentSource
	cfg        Config
	index      *QuadTree
	debug      bool

	// reused query buffers
	hitBuf []quadEntry
	ranked []rankedHit
}

type rankedHit struct {
	id    EntityID
	depth int
	seq   uint64
}

// NewHitTestSystem creates a system reading h and t, indexing the region
// described by cfg. The region is remembered for Clear.
func NewHitTestSystem(h *Hierarchy, t *Transforms, cfg Config) *HitTestSystem {
	cfg = cfg.withDefaults()
	return &HitTestSystem{
		hierarchy:  h,
		transforms: t,
		cfg:        cfg,
		index:      newQuadTree(cfg.region(), cfg.NodeCapacity, cfg.MaxDepth),
		debug:      cfg.Debug,
	}
}

// SetExtentSource sets where entity sizes come from. A nil source means
// every entity uses the configured DefaultExtent.
func (s *HitTestSystem) SetExtentSource(src ExtentSource) {
	s.extents = src
}

// Index returns the spatial index. Callers must treat it as read-only.
func (s *HitTestSystem) Index() *QuadTree {
	return s.index
}

// Region returns the configured index region.
func (s *HitTestSystem) Region() BoundingBox {
	return s.cfg.region()
}

// extent returns e's visual size, falling back to DefaultExtent.
func (s *HitTestSystem) extent(e EntityID) Vec2 {
	if s.extents != nil {
		if v, ok := s.extents.Extent(e); ok {
			return v
		}
	}
	return s.cfg.DefaultExtent
}

// UpdateEntity recomputes e's world transform from its parent chain, derives
// its bounding box, and upserts it into the index.
//
// An entity without a local transform is not indexable: any previous entry
// is dropped and nil is returned. A box outside the region returns an error
// wrapping ErrOutOfBounds and leaves the entity out of the index.
func (s *HitTestSystem) UpdateEntity(e EntityID) error {
	chain := s.hierarchy.ParentChain(e)
	world, ok := s.transforms.ComputeWorldTransform(e, chain)
	if !ok {
		s.index.Remove(e)
		return nil
	}
	box := world.Bounds(s.extent(e))
	if err := s.index.Insert(e, box); err != nil {
		if s.debug {
			debugWarnOutOfBounds(e, box, s.index.Bounds())
		}
		return err
	}
	return nil
}

// RemoveEntity drops e from the index. Returns false if it was not indexed.
func (s *HitTestSystem) RemoveEntity(e EntityID) bool {
	return s.index.Remove(e)
}

// Bounds returns e's indexed box.
func (s *HitTestSystem) Bounds(e EntityID) (BoundingBox, bool) {
	return s.index.Box(e)
}

// HitTestPoint returns the front-most entity whose box contains (x, y).
func (s *HitTestSystem) HitTestPoint(x, y float32) (EntityID, bool) {
	s.hitBuf = s.index.queryPoint(x, y, s.hitBuf[:0])
	if len(s.hitBuf) == 0 {
		return NoEntity, false
	}
	var best rankedHit
	for i, c := range s.hitBuf {
		r := rankedHit{id: c.id, depth: s.hierarchy.Depth(c.id), seq: c.seq}
		if i == 0 || compareRank(r, best) < 0 {
			best = r
		}
	}
	return best.id, true
}

// HitTestRegion returns every entity whose box overlaps the rectangle at
// (x, y) with the given size, front-to-back.
func (s *HitTestSystem) HitTestRegion(x, y, width, height float32) []EntityID {
	s.hitBuf = s.index.queryRegion(NewBoundingBox(x, y, width, height), s.hitBuf[:0])
	return s.rank(s.hitBuf)
}

// rank orders candidates by descending depth, then descending insertion
// sequence.
func (s *HitTestSystem) rank(candidates []quadEntry) []EntityID {
	if len(candidates) == 0 {
		return nil
	}
	s.ranked = s.ranked[:0]
	for _, c := range candidates {
		s.ranked = append(s.ranked, rankedHit{id: c.id, depth: s.hierarchy.Depth(c.id), seq: c.seq})
	}
	slices.SortFunc(s.ranked, compareRank)
	out := make([]EntityID, len(s.ranked))
	for i, r := range s.ranked {
		out[i] = r.id
	}
	return out
}

// compareRank sorts front-most first.
func compareRank(a, b rankedHit) int {
	switch {
	case a.depth > b.depth:
		return -1
	case a.depth < b.depth:
		return 1
	case a.seq > b.seq:
		return -1
	case a.seq < b.seq:
		return 1
	}
	return 0
}

// ContentBounds returns the union of every indexed box, or false when the
// index is empty.
func (s *HitTestSystem) ContentBounds() (BoundingBox, bool) {
	var out BoundingBox
	found := false
	s.index.Entries(func(_ EntityID, box BoundingBox) {
		if !found {
			out, found = box, true
			return
		}
		out = out.Union(box)
	})
	return out, found
}

// Clear empties the index, keeping the configured region.
func (s *HitTestSystem) Clear() {
	s.index.Reset(s.cfg.Origin.X, s.cfg.Origin.Y, s.cfg.Width, s.cfg.Height)
}

// Resize changes the configured region and empties the index. Entities must
// be updated again to reappear.
func (s *HitTestSystem) Resize(width, height float32) {
	if width > 0 {
		s.cfg.Width = width
	}
	if height > 0 {
		s.cfg.Height = height
	}
	s.Clear()
}
