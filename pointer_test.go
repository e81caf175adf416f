package luna

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPointerScene(t *testing.T) (*Scene, EntityID, EntityID) {
	t.Helper()
	s := newTestScene()
	frame := spawn(t, s, NoEntity, 100, 100)
	button := spawn(t, s, frame, 10, 10)
	s.SetExtentSource(ExtentMap{frame: {X: 200, Y: 200}, button: {X: 40, Y: 20}})
	require.NoError(t, s.UpdateSubtree(frame))
	return s, frame, button
}

func TestPointerClick(t *testing.T) {
	s, _, button := newPointerScene(t)
	p := NewPointer(s, nil)

	var clicked []EntityID
	p.On(PointerClick, func(ctx PointerContext) { clicked = append(clicked, ctx.Entity) })

	p.Press(115, 115)
	p.Release(115, 115)
	assert.Equal(t, []EntityID{button}, clicked)

	// Movement inside the dead zone is still a click.
	p.Press(115, 115)
	p.Move(116, 115)
	p.Release(116, 115)
	assert.Len(t, clicked, 2)

	// Pressing empty canvas clicks nothing.
	p.Press(900, 900)
	p.Release(900, 900)
	assert.Len(t, clicked, 2)
}

func TestPointerDragMovesEntity(t *testing.T) {
	s, frame, button := newPointerScene(t)
	p := NewPointer(s, nil)

	var starts, ends int
	var total float32
	p.On(PointerDragStart, func(PointerContext) { starts++ })
	p.On(PointerDrag, func(ctx PointerContext) { total += ctx.DeltaX })
	p.On(PointerDragEnd, func(ctx PointerContext) {
		ends++
		assert.Equal(t, frame, ctx.Entity)
	})

	p.DragTo(250, 250, 300, 250, 5)

	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, ends)
	assertNear(t, "total delta", total, 50)
	lt, _ := s.LocalTransform(frame)
	assertNear(t, "frame x", lt.Position.X, 150)
	assertNear(t, "frame y", lt.Position.Y, 100)

	// The child moved with its parent and the index followed.
	hit, ok := s.HitTestPoint(165, 115)
	require.True(t, ok)
	assert.Equal(t, button, hit)
	_, dragging := p.Dragging()
	assert.False(t, dragging)
	assert.NoError(t, p.Err())
}

func TestPointerDragInScaledParent(t *testing.T) {
	s := newTestScene()
	parent := s.CreateEntity()
	require.NoError(t, s.SetTransform(parent, LocalTransform{Scale: Vec2{2, 2}}))
	child := spawn(t, s, parent, 10, 10)
	require.NoError(t, s.UpdateSubtree(parent))

	p := NewPointer(s, nil)
	p.DragTo(21, 21, 41, 21, 4)

	// 20 canvas units are 10 units in the parent's scaled space.
	lt, _ := s.LocalTransform(child)
	assertNear(t, "local x", lt.Position.X, 20)
	assertNear(t, "local y", lt.Position.Y, 10)
	w, _ := s.WorldTransform(child)
	assertNear(t, "world x", w.Position.X, 40)
}

func TestPointerThroughCamera(t *testing.T) {
	s, frame, _ := newPointerScene(t)
	cam := NewCamera(NewBoundingBox(0, 0, 800, 600))
	cam.Zoom = 2
	cam.SetPosition(200, 200)
	p := NewPointer(s, cam)

	// Screen (400, 300) is canvas (200, 200), inside the frame.
	p.DragTo(400, 300, 440, 300, 4)

	// 40 screen pixels at 2x are 20 canvas units.
	lt, _ := s.LocalTransform(frame)
	assertNear(t, "frame x", lt.Position.X, 120)
}

func TestPointerDragWithoutDragMoves(t *testing.T) {
	s, frame, _ := newPointerScene(t)
	p := NewPointer(s, nil)
	p.DragMoves = false

	var drags int
	p.On(PointerDrag, func(PointerContext) { drags++ })
	p.DragTo(250, 250, 300, 250, 5)

	assert.Equal(t, 5, drags)
	lt, _ := s.LocalTransform(frame)
	assert.Equal(t, Vec2{100, 100}, lt.Position)
}

func TestPointerCallbackRemove(t *testing.T) {
	s, _, _ := newPointerScene(t)
	p := NewPointer(s, nil)

	var a, b int
	ha := p.On(PointerClick, func(PointerContext) { a++ })
	p.On(PointerClick, func(PointerContext) { b++ })

	p.Press(250, 250)
	p.Release(250, 250)
	ha.Remove()
	ha.Remove()
	p.Press(250, 250)
	p.Release(250, 250)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	CallbackHandle{}.Remove()
}

func TestPointerTargetDestroyedMidDrag(t *testing.T) {
	s, frame, _ := newPointerScene(t)
	p := NewPointer(s, nil)

	p.Press(250, 250)
	p.Move(260, 250)
	require.NoError(t, s.DestroyEntity(frame))
	p.Move(270, 250)
	p.Release(270, 250)

	assert.NoError(t, p.Err())
	assert.False(t, s.Alive(frame))
}

func TestPointerHoverEnterLeave(t *testing.T) {
	s, frame, button := newPointerScene(t)
	p := NewPointer(s, nil)

	var log []string
	p.On(PointerEnter, func(ctx PointerContext) { log = append(log, "enter "+ctx.Entity.String()) })
	p.On(PointerLeave, func(ctx PointerContext) { log = append(log, "leave "+ctx.Entity.String()) })

	p.Process(50, 50, false)
	assert.Empty(t, log)
	_, ok := p.Hovered()
	assert.False(t, ok)

	p.Process(250, 250, false)
	p.Process(260, 250, false)
	p.Process(115, 115, false)
	got, ok := p.Hovered()
	require.True(t, ok)
	assert.Equal(t, button, got)
	p.Process(900, 900, false)

	assert.Equal(t, []string{
		"enter " + frame.String(),
		"leave " + frame.String(),
		"enter " + button.String(),
		"leave " + button.String(),
	}, log)
}

func TestPointerHoverStaysOnDragTarget(t *testing.T) {
	s, frame, _ := newPointerScene(t)
	p := NewPointer(s, nil)
	p.DragMoves = false

	var leaves []EntityID
	p.On(PointerLeave, func(ctx PointerContext) { leaves = append(leaves, ctx.Entity) })

	p.DragTo(250, 250, 900, 900, 4)
	assert.Empty(t, leaves, "no leave while the drag holds the target")

	p.Process(900, 900, false)
	assert.Equal(t, []EntityID{frame}, leaves)
}

func TestSelectionRoots(t *testing.T) {
	s := newTestScene()
	a := spawn(t, s, NoEntity, 0, 0)
	child := spawn(t, s, a, 0, 0)
	grandchild := spawn(t, s, child, 0, 0)
	b := spawn(t, s, NoEntity, 0, 0)

	var sel Selection
	sel.Select(a)
	sel.Select(grandchild)
	sel.Select(b)
	sel.Select(NoEntity)
	assert.Equal(t, 3, sel.Len())
	assert.Equal(t, []EntityID{a, b}, sel.Roots(s))

	assert.False(t, sel.Toggle(a))
	assert.Equal(t, []EntityID{grandchild, b}, sel.Roots(s))
	assert.True(t, sel.Toggle(a))

	require.NoError(t, s.DestroyEntity(b))
	sel.Prune(s)
	assert.Equal(t, []EntityID{a, grandchild}, sel.Entities())

	sel.Clear()
	assert.Equal(t, 0, sel.Len())
	sel.SelectAll(s)
	assert.Equal(t, s.Entities(), sel.Entities())
}

func TestPointerDragMovesSelection(t *testing.T) {
	s := newTestScene()
	a := spawn(t, s, NoEntity, 100, 100)
	child := spawn(t, s, a, 10, 10)
	scaled := s.CreateEntity()
	require.NoError(t, s.SetTransform(scaled, LocalTransform{Position: Vec2{400, 100}, Scale: Vec2{2, 2}}))
	b := spawn(t, s, scaled, 10, 10)
	c := spawn(t, s, NoEntity, 700, 100)
	s.SetExtentSource(ExtentMap{a: {X: 50, Y: 50}, child: {X: 10, Y: 10}, c: {X: 50, Y: 50}})
	require.NoError(t, s.Rebuild())

	p := NewPointer(s, nil)
	p.Selection.Select(a)
	p.Selection.Select(child)
	p.Selection.Select(b)

	// Dragging a selected entity moves every selection root once.
	p.DragTo(140, 140, 170, 140, 3)
	require.NoError(t, p.Err())

	lt, _ := s.LocalTransform(a)
	assertNear(t, "a x", lt.Position.X, 130)
	lt, _ = s.LocalTransform(child)
	assertNear(t, "child x", lt.Position.X, 10)
	lt, _ = s.LocalTransform(b)
	assertNear(t, "b x", lt.Position.X, 25)
	w, _ := s.WorldTransform(b)
	assertNear(t, "b world x", w.Position.X, 450)
	lt, _ = s.LocalTransform(c)
	assertNear(t, "c x", lt.Position.X, 700)

	hit, ok := s.HitTestPoint(141, 111)
	require.True(t, ok)
	assert.Equal(t, child, hit)

	// An unselected entity drags alone.
	p.DragTo(720, 120, 720, 150, 3)
	lt, _ = s.LocalTransform(c)
	assertNear(t, "c y", lt.Position.Y, 130)
	lt, _ = s.LocalTransform(a)
	assertNear(t, "a y", lt.Position.Y, 100)
	assert.NoError(t, s.Validate())
}
