// Package debugdraw renders a luna scene's spatial index with Ebitengine:
// quadtree node outlines, indexed boxes, and highlighted entities. It is a
// development aid and draws nothing a finished canvas would show.
package debugdraw

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/luna"
)

// Options controls the overlay colors and stroke.
type Options struct {
	// NodeColor outlines quadtree nodes. Deeper nodes are drawn fainter.
	NodeColor color.RGBA
	// BoxColor outlines indexed entity boxes.
	BoxColor color.RGBA
	// StrokeWidth is the outline width in screen pixels.
	StrokeWidth float32
	// Nodes and Boxes toggle the two layers.
	Nodes, Boxes bool
}

// DefaultOptions draws both layers with thin outlines.
func DefaultOptions() Options {
	return Options{
		NodeColor:   color.RGBA{R: 0x40, G: 0xc0, B: 0xff, A: 0xff},
		BoxColor:    color.RGBA{R: 0xff, G: 0xb0, B: 0x30, A: 0xff},
		StrokeWidth: 1,
		Nodes:       true,
		Boxes:       true,
	}
}

// DrawIndex draws s's spatial index onto dst as seen through cam. A nil
// camera draws in canvas coordinates.
func DrawIndex(dst *ebiten.Image, s *luna.Scene, cam *luna.Camera, opts Options) {
	idx := s.HitTest().Index()
	if opts.Nodes {
		idx.Nodes(func(b luna.BoundingBox, depth int) {
			x, y, w, h := screenRect(cam, b)
			vector.StrokeRect(dst, x, y, w, h, opts.StrokeWidth, fade(opts.NodeColor, depth), false)
		})
	}
	if opts.Boxes {
		idx.Entries(func(_ luna.EntityID, b luna.BoundingBox) {
			x, y, w, h := screenRect(cam, b)
			vector.StrokeRect(dst, x, y, w, h, opts.StrokeWidth, opts.BoxColor, false)
		})
	}
}

// Highlight fills e's indexed box with clr. Entities that are not indexed
// are skipped.
func Highlight(dst *ebiten.Image, s *luna.Scene, cam *luna.Camera, e luna.EntityID, clr color.Color) {
	b, ok := s.HitTest().Bounds(e)
	if !ok {
		return
	}
	x, y, w, h := screenRect(cam, b)
	vector.DrawFilledRect(dst, x, y, w, h, clr, false)
}

// screenRect returns the screen-space rectangle around box.
func screenRect(cam *luna.Camera, box luna.BoundingBox) (x, y, w, h float32) {
	if cam == nil {
		return box.Min.X, box.Min.Y, box.Width(), box.Height()
	}
	corners := [4][2]float32{
		{box.Min.X, box.Min.Y},
		{box.Max.X, box.Min.Y},
		{box.Min.X, box.Max.Y},
		{box.Max.X, box.Max.Y},
	}
	var minX, minY, maxX, maxY float32
	for i, c := range corners {
		sx, sy := cam.WorldToScreen(c[0], c[1])
		if i == 0 {
			minX, minY, maxX, maxY = sx, sy, sx, sy
			continue
		}
		minX, minY = min(minX, sx), min(minY, sy)
		maxX, maxY = max(maxX, sx), max(maxY, sy)
	}
	return minX, minY, maxX - minX, maxY - minY
}

// fade halves alpha for each level of depth, bottoming out at 1/8.
func fade(c color.RGBA, depth int) color.RGBA {
	shift := min(depth, 3)
	c.A >>= shift
	c.R >>= shift
	c.G >>= shift
	c.B >>= shift
	return c
}
