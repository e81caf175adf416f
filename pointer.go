package luna

import "errors"

// PointerContext describes a pointer event resolved against the scene.
type PointerContext struct {
	// Entity is the entity under the pointer at press time, or NoEntity.
	Entity EntityID
	// WorldX and WorldY are the canvas position of the pointer.
	WorldX, WorldY float32
	// ScreenX and ScreenY are the raw screen position.
	ScreenX, ScreenY float32
	// StartX and StartY are the canvas position of the press.
	StartX, StartY float32
	// DeltaX and DeltaY are the canvas movement since the previous event.
	DeltaX, DeltaY float32
}

// PointerEvent identifies which callback list a handler belongs to.
type PointerEvent uint8

const (
	PointerClick PointerEvent = iota
	PointerDragStart
	PointerDrag
	PointerDragEnd
	// PointerEnter fires when the pointer moves onto an entity.
	PointerEnter
	// PointerLeave fires when the pointer moves off an entity, onto another
	// entity or empty canvas.
	PointerLeave
)

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type handlerRegistry struct {
	click     []pointerHandler
	dragStart []pointerHandler
	drag      []pointerHandler
	dragEnd   []pointerHandler
	enter     []pointerHandler
	leave     []pointerHandler
	nextID    uint32
}

func (r *handlerRegistry) list(ev PointerEvent) *[]pointerHandler {
	switch ev {
	case PointerClick:
		return &r.click
	case PointerDragStart:
		return &r.dragStart
	case PointerDrag:
		return &r.drag
	case PointerEnter:
		return &r.enter
	case PointerLeave:
		return &r.leave
	default:
		return &r.dragEnd
	}
}

// CallbackHandle allows removing a registered pointer callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event PointerEvent
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	l := h.reg.list(h.event)
	for i, e := range *l {
		if e.id == h.id {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return
		}
	}
}

// Pointer turns raw press/move/release samples into clicks and drags on a
// scene. Samples arrive in screen space and are converted through the
// camera, so the same Pointer works at any pan or zoom.
//
// With DragMoves set, dragging an entity translates it by the pointer delta
// (expressed in its parent's space) and refreshes its subtree, the way a
// canvas editor moves a selected frame. Dragging a member of Selection moves
// every selection root together.
//
// The hovered entity is the front-most hit under the pointer, or the drag
// target while a drag is in progress.
type Pointer struct {
	scene  *Scene
	camera *Camera

	// DeadZone is the canvas distance the pointer must travel while held
	// before a drag starts.
	DeadZone float32
	// DragMoves makes drags translate the pressed entity.
	DragMoves bool
	// Selection is the set dragged together when one member is dragged.
	Selection Selection

	handlers handlerRegistry

	down     bool
	dragging bool
	target   EntityID
	hovered  EntityID
	moving   []dragOrigin
	startX   float32
	startY   float32
	lastX    float32
	lastY    float32
	err      error
}

// dragOrigin is an entity's local position when its drag began.
type dragOrigin struct {
	e    EntityID
	from Vec2
}

// NewPointer creates a pointer over s viewed through cam. A nil camera
// means screen and canvas space coincide.
func NewPointer(s *Scene, cam *Camera) *Pointer {
	return &Pointer{scene: s, camera: cam, DeadZone: 2, DragMoves: true}
}

// SetCamera changes the view the pointer converts through.
func (p *Pointer) SetCamera(cam *Camera) {
	p.camera = cam
}

// On registers fn for ev.
func (p *Pointer) On(ev PointerEvent, fn func(PointerContext)) CallbackHandle {
	p.handlers.nextID++
	l := p.handlers.list(ev)
	*l = append(*l, pointerHandler{id: p.handlers.nextID, fn: fn})
	return CallbackHandle{id: p.handlers.nextID, reg: &p.handlers, event: ev}
}

// Dragging reports whether a drag is in progress, and on which entity.
func (p *Pointer) Dragging() (EntityID, bool) {
	return p.target, p.dragging
}

// Hovered returns the entity under the pointer as of the last sample.
func (p *Pointer) Hovered() (EntityID, bool) {
	return p.hovered, !p.hovered.IsZero()
}

// Err returns the last error from moving a dragged entity and clears it.
func (p *Pointer) Err() error {
	err := p.err
	p.err = nil
	return err
}

// Process runs the pointer state machine for one sample.
func (p *Pointer) Process(sx, sy float32, pressed bool) {
	wx, wy := screenToWorld(p.camera, sx, sy)
	ctx := PointerContext{WorldX: wx, WorldY: wy, ScreenX: sx, ScreenY: sy}

	var hit EntityID
	if !p.dragging {
		hit, _ = p.scene.HitTestPoint(wx, wy)
	}
	// A held button captures the hover on the pressed entity.
	hover := hit
	if p.down {
		hover = p.target
	}
	if hover != p.hovered {
		if !p.hovered.IsZero() {
			ctx.Entity = p.hovered
			p.fire(PointerLeave, ctx)
		}
		if !hover.IsZero() {
			ctx.Entity = hover
			p.fire(PointerEnter, ctx)
		}
		ctx.Entity = NoEntity
		p.hovered = hover
	}

	switch {
	case pressed && !p.down:
		p.down = true
		p.dragging = false
		p.target = hit
		p.startX, p.startY = wx, wy
		p.lastX, p.lastY = wx, wy

	case pressed && p.down:
		if wx == p.lastX && wy == p.lastY {
			return
		}
		if !p.dragging {
			dx, dy := wx-p.startX, wy-p.startY
			if dx*dx+dy*dy > p.DeadZone*p.DeadZone {
				p.dragging = true
				p.fire(PointerDragStart, p.fill(ctx, wx-p.startX, wy-p.startY))
				p.moving = p.dragSet()
				// Catch up on the movement swallowed by the dead zone.
				p.lastX, p.lastY = p.startX, p.startY
			}
		}
		if p.dragging {
			ctx = p.fill(ctx, wx-p.lastX, wy-p.lastY)
			p.move(ctx)
			p.fire(PointerDrag, ctx)
		}
		p.lastX, p.lastY = wx, wy

	case !pressed && p.down:
		if p.dragging {
			p.fire(PointerDragEnd, p.fill(ctx, wx-p.lastX, wy-p.lastY))
		} else if !p.target.IsZero() && hit == p.target {
			p.fire(PointerClick, p.fill(ctx, 0, 0))
		}
		p.down = false
		p.dragging = false
		p.target = NoEntity
		p.moving = p.moving[:0]
	}
}

// Press, Move, and Release feed single samples; handy for replaying input
// in tests and tools.
func (p *Pointer) Press(sx, sy float32)   { p.Process(sx, sy, true) }
func (p *Pointer) Move(sx, sy float32)    { p.Process(sx, sy, true) }
func (p *Pointer) Release(sx, sy float32) { p.Process(sx, sy, false) }

// DragTo replays a full drag from (fromX, fromY) to (toX, toY) in screen
// space with steps intermediate moves.
func (p *Pointer) DragTo(fromX, fromY, toX, toY float32, steps int) {
	p.Press(fromX, fromY)
	for i := 1; i <= steps; i++ {
		t := float32(i) / float32(steps)
		p.Move(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	p.Release(toX, toY)
}

func (p *Pointer) fill(ctx PointerContext, dx, dy float32) PointerContext {
	ctx.Entity = p.target
	ctx.StartX, ctx.StartY = p.startX, p.startY
	ctx.DeltaX, ctx.DeltaY = dx, dy
	return ctx
}

// dragSet records the entities a drag moves: the selection roots when the
// target is selected, otherwise the target alone.
func (p *Pointer) dragSet() []dragOrigin {
	out := p.moving[:0]
	if !p.DragMoves || p.target.IsZero() {
		return out
	}
	ents := []EntityID{p.target}
	if p.Selection.Has(p.target) {
		ents = p.Selection.Roots(p.scene)
	}
	for _, e := range ents {
		if lt, ok := p.scene.LocalTransform(e); ok {
			out = append(out, dragOrigin{e: e, from: lt.Position})
		}
	}
	return out
}

// move places each dragged entity at its origin plus the canvas distance
// from the press, mapped into its parent's space.
func (p *Pointer) move(ctx PointerContext) {
	var errs []error
	for _, m := range p.moving {
		if !p.scene.Alive(m.e) {
			continue
		}
		lt, ok := p.scene.LocalTransform(m.e)
		if !ok {
			continue
		}
		dx, dy := ctx.WorldX-p.startX, ctx.WorldY-p.startY
		if parent, ok := p.scene.Parent(m.e); ok {
			if pw, ok := p.scene.WorldTransform(parent); ok {
				x0, y0 := pw.WorldToLocal(p.startX, p.startY)
				x1, y1 := pw.WorldToLocal(ctx.WorldX, ctx.WorldY)
				dx, dy = x1-x0, y1-y0
			}
		}
		lt.Position = m.from.Add(Vec2{dx, dy})
		if err := p.scene.SetTransform(m.e, lt); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := p.scene.UpdateSubtree(m.e); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		p.err = err
	}
}

func (p *Pointer) fire(ev PointerEvent, ctx PointerContext) {
	for _, h := range *p.handlers.list(ev) {
		h.fn(ctx)
	}
}
