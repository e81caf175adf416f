package luna

import "errors"

// Sentinel errors. Wrapped errors carry the entity and geometry involved;
// test for them with errors.Is.
var (
	// ErrSelfParent is returned when an entity is made its own parent.
	ErrSelfParent = errors.New("luna: entity cannot be its own parent")
	// ErrCycle is returned when a reparent would make an entity its own ancestor.
	ErrCycle = errors.New("luna: reparent would create a cycle")
	// ErrOutOfBounds is returned when a bounding box does not fit inside the
	// spatial index region. The entity is left out of the index.
	ErrOutOfBounds = errors.New("luna: bounding box outside index region")
	// ErrStaleEntity is returned when an operation receives a destroyed or
	// never-issued entity handle.
	ErrStaleEntity = errors.New("luna: stale entity")
	// ErrNoTransform is returned when an operation needs a local transform
	// that has not been set.
	ErrNoTransform = errors.New("luna: entity has no transform")
)

// Vec2 is a 2D vector used for positions, scales, sizes, and offsets.
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// BoundingBox is an axis-aligned rectangle in world space. The coordinate
// system has its origin at the top-left, with Y increasing downward.
// Edges are inclusive.
type BoundingBox struct {
	Min, Max Vec2
}

// NewBoundingBox builds a box from an origin and a size.
func NewBoundingBox(x, y, width, height float32) BoundingBox {
	return BoundingBox{Min: Vec2{x, y}, Max: Vec2{x + width, y + height}}
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float32 { return b.Max.X - b.Min.X }

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float32 { return b.Max.Y - b.Min.Y }

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Vec2 {
	return Vec2{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Contains reports whether the point (x, y) lies inside the box.
// Points on the edge are considered inside.
func (b BoundingBox) Contains(x, y float32) bool {
	return x >= b.Min.X && x <= b.Max.X &&
		y >= b.Min.Y && y <= b.Max.Y
}

// ContainsBox reports whether o lies entirely inside b.
func (b BoundingBox) ContainsBox(o BoundingBox) bool {
	return o.Min.X >= b.Min.X && o.Max.X <= b.Max.X &&
		o.Min.Y >= b.Min.Y && o.Max.Y <= b.Max.Y
}

// Intersects reports whether b and o overlap.
// Boxes sharing only an edge are considered intersecting.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}

// Union returns the smallest box containing both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		Min: Vec2{min(b.Min.X, o.Min.X), min(b.Min.Y, o.Min.Y)},
		Max: Vec2{max(b.Max.X, o.Max.X), max(b.Max.Y, o.Max.Y)},
	}
}

// boundsOfPoints returns the axis-aligned box around pts.
func boundsOfPoints(pts ...Vec2) BoundingBox {
	b := BoundingBox{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min.X = min(b.Min.X, p.X)
		b.Min.Y = min(b.Min.Y, p.Y)
		b.Max.X = max(b.Max.X, p.X)
		b.Max.Y = max(b.Max.Y, p.Y)
	}
	return b
}

// ExtentSource supplies the visual size of an entity. The canvas object
// model owns sizes; the engine only reads them when building bounding boxes.
type ExtentSource interface {
	Extent(id EntityID) (Vec2, bool)
}

// ExtentFunc adapts a plain function to ExtentSource.
type ExtentFunc func(id EntityID) (Vec2, bool)

// Extent calls f(id).
func (f ExtentFunc) Extent(id EntityID) (Vec2, bool) {
	return f(id)
}

// ExtentMap is a map-backed ExtentSource, handy for tests and small tools.
type ExtentMap map[EntityID]Vec2

// Extent returns the stored size for id.
func (m ExtentMap) Extent(id EntityID) (Vec2, bool) {
	v, ok := m[id]
	return v, ok
}

// EventType identifies a kind of scene event.
type EventType uint8

const (
	EventEntityCreated   EventType = iota // an entity handle was issued
	EventEntityDestroyed                  // an entity was removed from every component
	EventParentChanged                    // an entity was attached, detached, or moved
	EventEntityIndexed                    // an entity's bounding box was (re)inserted
	EventEntityUnindexed                  // an entity left the spatial index
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventEntityCreated:
		return "EntityCreated"
	case EventEntityDestroyed:
		return "EntityDestroyed"
	case EventParentChanged:
		return "ParentChanged"
	case EventEntityIndexed:
		return "EntityIndexed"
	case EventEntityUnindexed:
		return "EntityUnindexed"
	default:
		return "Unknown"
	}
}

// SceneEvent describes one change to the scene.
type SceneEvent struct {
	Type   EventType
	Entity EntityID
	// Parent is the new parent for EventParentChanged (NoEntity when detached).
	Parent EntityID
	// Box is the indexed box for EventEntityIndexed.
	Box BoundingBox
}

// EventSink is the optional observer for scene changes. When set on a Scene,
// lifecycle, hierarchy, and index changes are forwarded to it.
type EventSink interface {
	EmitEvent(event SceneEvent)
}
