package luna

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// transformField selects one float in a LocalTransform.
type transformField uint8

const (
	fieldPosX transformField = iota
	fieldPosY
	fieldScaleX
	fieldScaleY
	fieldRotation
)

func (f transformField) ptr(lt *LocalTransform) *float32 {
	switch f {
	case fieldPosX:
		return &lt.Position.X
	case fieldPosY:
		return &lt.Position.Y
	case fieldScaleX:
		return &lt.Scale.X
	case fieldScaleY:
		return &lt.Scale.Y
	default:
		return &lt.Rotation
	}
}

// TweenGroup animates up to 2 fields of an entity's local transform.
// Create one via TweenPosition, TweenScale, or TweenRotation and call
// Update(dt) each frame. Each update writes the new local transform and
// refreshes the entity's subtree in the index. If the entity is destroyed,
// the group stops immediately.
//
// There is no global animation manager; callers drive Update themselves.
type TweenGroup struct {
	tweens [2]*gween.Tween
	fields [2]transformField
	count  int
	scene  *Scene
	target EntityID
	Done   bool
}

// Update advances all tweens by dt seconds. Other transform fields changed
// while the tween runs are preserved. Returns the error from refreshing the
// index, if any.
func (g *TweenGroup) Update(dt float32) error {
	if g.Done {
		return nil
	}
	lt, ok := g.scene.transforms.Local(g.target)
	if !g.scene.Alive(g.target) || !ok {
		g.Done = true
		return nil
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i].ptr(&lt) = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	g.scene.transforms.SetTransform(g.target, lt)
	return g.scene.UpdateSubtree(g.target)
}

func newTweenGroup(s *Scene, e EntityID, to []float32, fields []transformField, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	if err := s.check("tween", e); err != nil {
		return nil, err
	}
	lt, ok := s.transforms.Local(e)
	if !ok {
		return nil, fmt.Errorf("tween: %w: %v", ErrNoTransform, e)
	}
	g := &TweenGroup{scene: s, target: e, count: len(fields)}
	for i, f := range fields {
		g.fields[i] = f
		g.tweens[i] = gween.New(*f.ptr(&lt), to[i], duration, fn)
	}
	return g, nil
}

// TweenPosition animates e's local position to (toX, toY) over duration
// seconds using the easing function.
func TweenPosition(s *Scene, e EntityID, toX, toY float32, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	return newTweenGroup(s, e, []float32{toX, toY}, []transformField{fieldPosX, fieldPosY}, duration, fn)
}

// TweenScale animates e's local scale to (toSX, toSY).
func TweenScale(s *Scene, e EntityID, toSX, toSY float32, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	return newTweenGroup(s, e, []float32{toSX, toSY}, []transformField{fieldScaleX, fieldScaleY}, duration, fn)
}

// TweenRotation animates e's local rotation to the target angle in radians.
func TweenRotation(s *Scene, e EntityID, to float32, duration float32, fn ease.TweenFunc) (*TweenGroup, error) {
	return newTweenGroup(s, e, []float32{to}, []transformField{fieldRotation}, duration, fn)
}
