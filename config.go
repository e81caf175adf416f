package luna

// Config holds the settings for a Scene or HitTestSystem. Zero fields fall
// back to the values in DefaultConfig.
type Config struct {
	// Origin is the top-left corner of the indexed canvas region.
	Origin Vec2
	// Width and Height are the size of the indexed canvas region. Boxes
	// outside it are rejected by the spatial index.
	Width, Height float32
	// NodeCapacity is how many entries a quadtree leaf holds before splitting.
	NodeCapacity int
	// MaxDepth bounds quadtree subdivision.
	MaxDepth int
	// DefaultExtent is the size used for entities the ExtentSource does not
	// know about.
	DefaultExtent Vec2
	// Debug enables stderr warnings and extra invariant checks.
	Debug bool
}

// DefaultConfig returns a 4096x4096 canvas with default quadtree limits and
// a 1x1 fallback extent.
func DefaultConfig() Config {
	return Config{
		Width:         4096,
		Height:        4096,
		NodeCapacity:  DefaultNodeCapacity,
		MaxDepth:      DefaultMaxDepth,
		DefaultExtent: Vec2{1, 1},
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.NodeCapacity <= 0 {
		c.NodeCapacity = d.NodeCapacity
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = d.MaxDepth
	}
	if c.DefaultExtent == (Vec2{}) {
		c.DefaultExtent = d.DefaultExtent
	}
	return c
}

// region returns the configured index region.
func (c Config) region() BoundingBox {
	return NewBoundingBox(c.Origin.X, c.Origin.Y, c.Width, c.Height)
}
