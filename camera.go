package luna

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera maps between screen space and canvas space: the canvas pan,
// zoom, and rotation of an editor view.
type Camera struct {
	// X and Y are the canvas point shown at the viewport center.
	X, Y float32
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float32
	// Rotation is the view rotation in radians.
	Rotation float32
	// Viewport is the screen-space rectangle the camera shows.
	Viewport BoundingBox

	// MinZoom and MaxZoom clamp ZoomAt. Zero disables the bound.
	MinZoom, MaxZoom float32

	// BoundsEnabled clamps the camera so the visible area stays within Bounds.
	BoundsEnabled bool
	// Bounds is the canvas rectangle the camera is clamped to.
	Bounds BoundingBox

	view    mgl32.Mat3
	invView mgl32.Mat3
	dirty   bool

	scrollTween *scrollAnim
}

// NewCamera creates a camera showing viewport, centered on the canvas origin.
func NewCamera(viewport BoundingBox) *Camera {
	return &Camera{
		Zoom:     1,
		Viewport: viewport,
		dirty:    true,
	}
}

// MarkDirty forces the view matrix to be recomputed. Call it after setting
// fields directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// zoom returns the effective zoom. A non-positive Zoom reads as 1 so the
// view stays invertible.
func (c *Camera) zoom() float32 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// SetPosition centers the camera on canvas point (x, y).
func (c *Camera) SetPosition(x, y float32) {
	c.X, c.Y = x, y
	c.clamp()
	c.dirty = true
}

// Pan moves the view by a screen-space delta, as dragging the canvas would.
func (c *Camera) Pan(dx, dy float32) {
	// Screen deltas are undone through the rotation and zoom only.
	inv := mgl32.HomogRotate2D(c.Rotation).Mul3(mgl32.Scale2D(1/c.zoom(), 1/c.zoom()))
	d := inv.Mul3x1(mgl32.Vec3{dx, dy, 0})
	c.SetPosition(c.X-d[0], c.Y-d[1])
}

// ZoomAt multiplies the zoom by factor while keeping the canvas point under
// screen point (sx, sy) fixed.
func (c *Camera) ZoomAt(factor, sx, sy float32) {
	if factor <= 0 {
		return
	}
	wx, wy := c.ScreenToWorld(sx, sy)
	z := c.zoom() * factor
	if c.MinZoom > 0 {
		z = max(z, c.MinZoom)
	}
	if c.MaxZoom > 0 {
		z = min(z, c.MaxZoom)
	}
	c.Zoom = z
	c.dirty = true
	ax, ay := c.ScreenToWorld(sx, sy)
	c.SetPosition(c.X+wx-ax, c.Y+wy-ay)
}

// ScrollTo animates the camera to canvas point (x, y) over duration seconds.
func (c *Camera) ScrollTo(x, y float32, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(c.X, x, duration, easeFn),
		tweenY: gween.New(c.Y, y, duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// Update advances any scroll animation by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.scrollTween == nil {
		return
	}
	if !c.scrollTween.doneX {
		c.X, c.scrollTween.doneX = c.scrollTween.tweenX.Update(dt)
	}
	if !c.scrollTween.doneY {
		c.Y, c.scrollTween.doneY = c.scrollTween.tweenY.Update(dt)
	}
	if c.scrollTween.doneX && c.scrollTween.doneY {
		c.scrollTween = nil
	}
	c.clamp()
	c.dirty = true
}

// clamp restricts the position so the visible area stays within Bounds.
func (c *Camera) clamp() {
	if !c.BoundsEnabled {
		return
	}
	halfW := c.Viewport.Width() / (2 * c.zoom())
	halfH := c.Viewport.Height() / (2 * c.zoom())

	minX, maxX := c.Bounds.Min.X+halfW, c.Bounds.Max.X-halfW
	minY, maxY := c.Bounds.Min.Y+halfH, c.Bounds.Max.Y-halfH

	// Bounds smaller than the visible area: center.
	if minX > maxX {
		c.X = c.Bounds.Center().X
	} else {
		c.X = max(minX, min(c.X, maxX))
	}
	if minY > maxY {
		c.Y = c.Bounds.Center().Y
	} else {
		c.Y = max(minY, min(c.Y, maxY))
	}
}

// ViewMatrix returns the canvas-to-screen matrix.
//
//	view = Translate(viewport center) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
func (c *Camera) ViewMatrix() mgl32.Mat3 {
	if !c.dirty {
		return c.view
	}
	c.dirty = false
	center := c.Viewport.Center()
	c.view = mgl32.Translate2D(center.X, center.Y).
		Mul3(mgl32.Scale2D(c.zoom(), c.zoom())).
		Mul3(mgl32.HomogRotate2D(-c.Rotation)).
		Mul3(mgl32.Translate2D(-c.X, -c.Y))
	c.invView = c.view.Inv()
	return c.view
}

// ScreenToWorld converts a screen point to canvas space.
func (c *Camera) ScreenToWorld(sx, sy float32) (float32, float32) {
	c.ViewMatrix()
	v := c.invView.Mul3x1(mgl32.Vec3{sx, sy, 1})
	return v[0], v[1]
}

// WorldToScreen converts a canvas point to screen space.
func (c *Camera) WorldToScreen(wx, wy float32) (float32, float32) {
	v := c.ViewMatrix().Mul3x1(mgl32.Vec3{wx, wy, 1})
	return v[0], v[1]
}

// VisibleBounds returns the canvas-space box covering the viewport. With a
// rotated view it is the box around the rotated viewport corners.
func (c *Camera) VisibleBounds() BoundingBox {
	vp := c.Viewport
	x0, y0 := c.ScreenToWorld(vp.Min.X, vp.Min.Y)
	x1, y1 := c.ScreenToWorld(vp.Max.X, vp.Min.Y)
	x2, y2 := c.ScreenToWorld(vp.Min.X, vp.Max.Y)
	x3, y3 := c.ScreenToWorld(vp.Max.X, vp.Max.Y)
	return boundsOfPoints(Vec2{x0, y0}, Vec2{x1, y1}, Vec2{x2, y2}, Vec2{x3, y3})
}

// screenToWorld converts through cam, or returns the point unchanged for a
// nil camera.
func screenToWorld(cam *Camera, sx, sy float32) (float32, float32) {
	if cam != nil {
		return cam.ScreenToWorld(sx, sy)
	}
	return sx, sy
}
