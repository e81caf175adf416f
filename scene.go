package luna

import (
	"errors"
	"fmt"
)

// Scene is the single owner of the entity graph. It bundles the entity
// store, the hierarchy and transform components, and the hit-test system,
// and keeps them consistent across entity creation and destruction.
//
// A Scene is not safe for concurrent use. Mutations and queries are
// expected to run one after another from one goroutine, typically once per
// input event.
type Scene struct {
	entities   *EntityStore
	hierarchy  *Hierarchy
	transforms *Transforms
	hits       *HitTestSystem
	sink       EventSink
	debug      bool
}

// NewScene creates an empty scene indexing the region described by cfg.
func NewScene(cfg Config) *Scene {
	h := NewHierarchy()
	t := NewTransforms()
	return &Scene{
		entities:   NewEntityStore(),
		hierarchy:  h,
		transforms: t,
		hits:       NewHitTestSystem(h, t, cfg),
		debug:      cfg.Debug,
	}
}

// Hierarchy returns the scene's hierarchy component. Mutate it through the
// Scene so liveness checks and events apply.
func (s *Scene) Hierarchy() *Hierarchy { return s.hierarchy }

// Transforms returns the scene's transform component.
func (s *Scene) Transforms() *Transforms { return s.transforms }

// HitTest returns the scene's hit-test system.
func (s *Scene) HitTest() *HitTestSystem { return s.hits }

// SetEventSink sets the optional observer for scene changes.
func (s *Scene) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetExtentSource sets where entity sizes come from.
func (s *Scene) SetExtentSource(src ExtentSource) {
	s.hits.SetExtentSource(src)
}

// SetDebugMode enables or disables debug mode. When enabled, deep trees,
// stale handles, and out-of-region boxes are reported on stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	s.hits.debug = enabled
}

func (s *Scene) emit(ev SceneEvent) {
	if s.sink != nil {
		s.sink.EmitEvent(ev)
	}
}

// check returns ErrStaleEntity wrapped with op if e is not alive.
func (s *Scene) check(op string, e EntityID) error {
	if s.entities.Alive(e) {
		return nil
	}
	if s.debug {
		debugWarnStale(op, e)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStaleEntity, e)
}

// --- Lifecycle ---

// CreateEntity issues a new root entity with no transform. It is not
// indexed until it has a transform and UpdateEntity is called.
func (s *Scene) CreateEntity() EntityID {
	e := s.entities.Create()
	s.emit(SceneEvent{Type: EventEntityCreated, Entity: e})
	return e
}

// Alive reports whether e refers to a live entity.
func (s *Scene) Alive(e EntityID) bool {
	return s.entities.Alive(e)
}

// Len returns the number of live entities.
func (s *Scene) Len() int {
	return s.entities.Len()
}

// Entities returns every live entity in id order.
func (s *Scene) Entities() []EntityID {
	out := make([]EntityID, 0, s.entities.Len())
	s.entities.Each(func(e EntityID) { out = append(out, e) })
	return out
}

// DestroyEntity removes e from the spatial index, the hierarchy, and the
// transforms in one step. Its children become roots and are re-indexed at
// their new world positions. The slot is recycled once nothing references
// it.
func (s *Scene) DestroyEntity(e EntityID) error {
	if err := s.check("destroy", e); err != nil {
		return err
	}
	if s.hits.RemoveEntity(e) {
		s.emit(SceneEvent{Type: EventEntityUnindexed, Entity: e})
	}
	orphans := s.hierarchy.Remove(e)
	s.transforms.Remove(e)
	s.entities.Destroy(e)
	s.entities.Sweep(s.referenced)
	s.emit(SceneEvent{Type: EventEntityDestroyed, Entity: e})

	var errs []error
	for _, c := range orphans {
		s.emit(SceneEvent{Type: EventParentChanged, Entity: c})
		if err := s.UpdateSubtree(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// referenced reports whether any component still holds e.
func (s *Scene) referenced(e EntityID) bool {
	return s.hierarchy.Has(e) || s.transforms.Has(e) || s.hits.Index().Has(e)
}

// --- Hierarchy ---

// SetParent moves child under parent. NoEntity detaches. Both handles must
// be alive; cycles are rejected with ErrCycle and leave the scene unchanged.
// The index is not refreshed; call UpdateSubtree(child) afterwards.
func (s *Scene) SetParent(child, parent EntityID) error {
	if err := s.check("set parent", child); err != nil {
		return err
	}
	if !parent.IsZero() {
		if err := s.check("set parent", parent); err != nil {
			return err
		}
	}
	if err := s.hierarchy.SetParent(child, parent); err != nil {
		return err
	}
	if s.debug {
		debugCheckTreeDepth(s.hierarchy, child)
	}
	s.emit(SceneEvent{Type: EventParentChanged, Entity: child, Parent: parent})
	return nil
}

// ClearParent makes child a root.
func (s *Scene) ClearParent(child EntityID) error {
	return s.SetParent(child, NoEntity)
}

// Parent returns e's parent, or false for a root.
func (s *Scene) Parent(e EntityID) (EntityID, bool) {
	return s.hierarchy.Parent(e)
}

// Children returns e's children. The returned slice MUST NOT be mutated.
func (s *Scene) Children(e EntityID) []EntityID {
	return s.hierarchy.Children(e)
}

// Depth returns the number of ancestors of e.
func (s *Scene) Depth(e EntityID) int {
	return s.hierarchy.Depth(e)
}

// --- Transforms ---

// SetTransform overwrites e's local transform. The index is not refreshed;
// call UpdateEntity or UpdateSubtree afterwards.
func (s *Scene) SetTransform(e EntityID, lt LocalTransform) error {
	if err := s.check("set transform", e); err != nil {
		return err
	}
	s.transforms.SetTransform(e, lt)
	return nil
}

// Translate adds (dx, dy) to e's local position, as a drag step would.
func (s *Scene) Translate(e EntityID, dx, dy float32) error {
	if err := s.check("translate", e); err != nil {
		return err
	}
	lt, ok := s.transforms.Local(e)
	if !ok {
		return fmt.Errorf("translate: %w: %v", ErrNoTransform, e)
	}
	lt.Position = lt.Position.Add(Vec2{dx, dy})
	s.transforms.SetTransform(e, lt)
	return nil
}

// LocalTransform returns e's local transform.
func (s *Scene) LocalTransform(e EntityID) (LocalTransform, bool) {
	return s.transforms.Local(e)
}

// WorldTransform returns e's world transform as of its last update.
func (s *Scene) WorldTransform(e EntityID) (WorldTransform, bool) {
	return s.transforms.World(e)
}

// --- Index maintenance ---

// UpdateEntity refreshes e's world transform and index entry.
func (s *Scene) UpdateEntity(e EntityID) error {
	if err := s.check("update", e); err != nil {
		return err
	}
	had := s.hits.Index().Has(e)
	err := s.hits.UpdateEntity(e)
	if box, ok := s.hits.Bounds(e); ok {
		s.emit(SceneEvent{Type: EventEntityIndexed, Entity: e, Box: box})
	} else if had {
		s.emit(SceneEvent{Type: EventEntityUnindexed, Entity: e})
	}
	return err
}

// UpdateSubtree refreshes e and then every descendant, breadth-first, so
// each entity is recomputed after its parent. Errors from individual
// entities are joined; the walk does not stop at the first one.
func (s *Scene) UpdateSubtree(e EntityID) error {
	if err := s.check("update", e); err != nil {
		return err
	}
	errs := []error{s.UpdateEntity(e)}
	for _, d := range s.hierarchy.Descendants(e) {
		errs = append(errs, s.UpdateEntity(d))
	}
	return errors.Join(errs...)
}

// Rebuild clears the index and re-indexes every live entity, parents first.
// Every entity that was indexed is reported unindexed before the rebuild
// reports it indexed again.
func (s *Scene) Rebuild() error {
	s.Clear()
	var errs []error
	s.entities.Each(func(e EntityID) {
		if _, ok := s.hierarchy.Parent(e); ok {
			return
		}
		errs = append(errs, s.UpdateSubtree(e))
	})
	return errors.Join(errs...)
}

// Clear empties the spatial index, keeping its configured region. Entities,
// hierarchy, and transforms are untouched.
func (s *Scene) Clear() {
	s.dropIndex(s.hits.Clear)
}

// Resize changes the indexed region and empties the index. Entities must be
// updated again (or the scene rebuilt) to reappear.
func (s *Scene) Resize(width, height float32) {
	s.dropIndex(func() { s.hits.Resize(width, height) })
}

// dropIndex runs reset and emits EventEntityUnindexed for every entity the
// index held before it.
func (s *Scene) dropIndex(reset func()) {
	var dropped []EntityID
	if s.sink != nil {
		s.hits.Index().Entries(func(id EntityID, _ BoundingBox) {
			dropped = append(dropped, id)
		})
	}
	reset()
	for _, e := range dropped {
		s.emit(SceneEvent{Type: EventEntityUnindexed, Entity: e})
	}
}

// --- Queries ---

// HitTestPoint returns the front-most entity at canvas point (x, y).
func (s *Scene) HitTestPoint(x, y float32) (EntityID, bool) {
	return s.hits.HitTestPoint(x, y)
}

// HitTestRegion returns every entity overlapping the rectangle,
// front-to-back.
func (s *Scene) HitTestRegion(x, y, width, height float32) []EntityID {
	return s.hits.HitTestRegion(x, y, width, height)
}

// HitTestScreen converts a screen point through cam and hit-tests it.
// A nil camera means screen and canvas space coincide.
func (s *Scene) HitTestScreen(cam *Camera, sx, sy float32) (EntityID, bool) {
	wx, wy := screenToWorld(cam, sx, sy)
	return s.hits.HitTestPoint(wx, wy)
}

// VisibleEntities returns the entities overlapping cam's visible area,
// front-to-back.
func (s *Scene) VisibleEntities(cam *Camera) []EntityID {
	vb := cam.VisibleBounds()
	return s.hits.HitTestRegion(vb.Min.X, vb.Min.Y, vb.Width(), vb.Height())
}

// ContentBounds returns the union of every indexed box.
func (s *Scene) ContentBounds() (BoundingBox, bool) {
	return s.hits.ContentBounds()
}
