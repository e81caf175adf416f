package luna

import "github.com/go-gl/mathgl/mgl32"

// LocalTransform is an entity's placement relative to its parent, or to
// canvas space for a root.
type LocalTransform struct {
	Position Vec2
	Scale    Vec2
	Rotation float32 // radians, clockwise with Y down
}

// IdentityLocal returns a transform at the origin with unit scale.
func IdentityLocal() LocalTransform {
	return LocalTransform{Scale: Vec2{1, 1}}
}

// Matrix returns the local affine matrix.
//
// Composition order:
//
//	Scale -> Rotate -> Translate(Position)
func (t LocalTransform) Matrix() mgl32.Mat3 {
	return mgl32.Translate2D(t.Position.X, t.Position.Y).
		Mul3(mgl32.HomogRotate2D(t.Rotation)).
		Mul3(mgl32.Scale2D(t.Scale.X, t.Scale.Y))
}

// WorldTransform is an entity's placement in canvas space. It is derived by
// composing local transforms outermost-first and is never authored directly.
//
// Matrix is the exact affine product. Position is its translation. Rotation
// and Scale are the accumulated sum and component-wise product; they are
// exact unless a non-uniform parent scale is combined with a child rotation
// (which introduces skew that only Matrix represents).
type WorldTransform struct {
	Position Vec2
	Scale    Vec2
	Rotation float32
	Matrix   mgl32.Mat3
}

// IdentityWorld returns the canvas-space identity.
func IdentityWorld() WorldTransform {
	return WorldTransform{Scale: Vec2{1, 1}, Matrix: mgl32.Ident3()}
}

// Compose places local inside parent: the parent's rotation and scale apply
// to the local position, not just its translation.
func Compose(parent WorldTransform, local LocalTransform) WorldTransform {
	m := parent.Matrix.Mul3(local.Matrix())
	return WorldTransform{
		Position: Vec2{m[6], m[7]},
		Scale:    Vec2{parent.Scale.X * local.Scale.X, parent.Scale.Y * local.Scale.Y},
		Rotation: parent.Rotation + local.Rotation,
		Matrix:   m,
	}
}

// LocalToWorld maps a point in the entity's local space to canvas space.
func (w WorldTransform) LocalToWorld(lx, ly float32) (float32, float32) {
	v := w.Matrix.Mul3x1(mgl32.Vec3{lx, ly, 1})
	return v[0], v[1]
}

// WorldToLocal maps a canvas-space point into the entity's local space.
// A singular matrix (zero scale) maps through the identity.
func (w WorldTransform) WorldToLocal(wx, wy float32) (float32, float32) {
	if det := w.Matrix.Det(); det > -1e-12 && det < 1e-12 {
		return wx, wy
	}
	v := w.Matrix.Inv().Mul3x1(mgl32.Vec3{wx, wy, 1})
	return v[0], v[1]
}

// Bounds returns the axis-aligned box around the local rectangle
// (0,0)-(extent) mapped into canvas space.
func (w WorldTransform) Bounds(extent Vec2) BoundingBox {
	x0, y0 := w.LocalToWorld(0, 0)
	x1, y1 := w.LocalToWorld(extent.X, 0)
	x2, y2 := w.LocalToWorld(0, extent.Y)
	x3, y3 := w.LocalToWorld(extent.X, extent.Y)
	return boundsOfPoints(Vec2{x0, y0}, Vec2{x1, y1}, Vec2{x2, y2}, Vec2{x3, y3})
}

// Transforms stores each entity's local transform and the world transform
// computed for it most recently.
//
// World values are advisory: they are valid as of the last
// ComputeWorldTransform call for that entity. Setting a local transform
// does not propagate to descendants; callers pull recomputation.
type Transforms struct {
	local map[EntityID]LocalTransform
	world map[EntityID]WorldTransform
}

// NewTransforms creates an empty transform component.
func NewTransforms() *Transforms {
	return &Transforms{
		local: make(map[EntityID]LocalTransform),
		world: make(map[EntityID]WorldTransform),
	}
}

// SetTransform overwrites e's local transform.
func (t *Transforms) SetTransform(e EntityID, lt LocalTransform) {
	t.local[e] = lt
}

// Local returns e's local transform.
func (t *Transforms) Local(e EntityID) (LocalTransform, bool) {
	lt, ok := t.local[e]
	return lt, ok
}

// World returns the cached world transform from the last computation.
func (t *Transforms) World(e EntityID) (WorldTransform, bool) {
	wt, ok := t.world[e]
	return wt, ok
}

// Has reports whether e has a local transform.
func (t *Transforms) Has(e EntityID) bool {
	_, ok := t.local[e]
	return ok
}

// Remove drops both the local and cached world transform of e.
func (t *Transforms) Remove(e EntityID) {
	delete(t.local, e)
	delete(t.world, e)
}

// Len returns the number of entities with a local transform.
func (t *Transforms) Len() int {
	return len(t.local)
}

// ComputeWorldTransform folds chain (innermost-first, as returned by
// Hierarchy.ParentChain) from the outermost ancestor inward, then applies
// e's own local transform. Ancestors without a local transform contribute
// identity. Returns false if e has no local transform.
func (t *Transforms) ComputeWorldTransform(e EntityID, chain []EntityID) (WorldTransform, bool) {
	own, ok := t.local[e]
	if !ok {
		return WorldTransform{}, false
	}
	w := IdentityWorld()
	for i := len(chain) - 1; i >= 0; i-- {
		if lt, ok := t.local[chain[i]]; ok {
			w = Compose(w, lt)
		}
	}
	w = Compose(w, own)
	t.world[e] = w
	return w, true
}
