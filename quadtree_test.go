package luna

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sorted(in []EntityID) []EntityID {
	out := slices.Clone(in)
	slices.SortFunc(out, EntityID.Compare)
	return out
}

// countEntries walks the tree and counts how many times each id is stored.
func countEntries(qt *QuadTree) map[EntityID]int {
	seen := make(map[EntityID]int)
	qt.Entries(func(id EntityID, _ BoundingBox) { seen[id]++ })
	return seen
}

func TestQuadTreeInsertAndQueryPoint(t *testing.T) {
	qt := NewQuadTree(0, 0, 100, 100)
	e := ids(2)
	require.NoError(t, qt.Insert(e[0], NewBoundingBox(10, 10, 5, 5)))
	require.NoError(t, qt.Insert(e[1], NewBoundingBox(12, 12, 20, 20)))

	assert.Equal(t, []EntityID{e[0]}, qt.QueryPoint(10, 10))
	assert.ElementsMatch(t, []EntityID{e[0], e[1]}, qt.QueryPoint(13, 13))
	assert.Equal(t, []EntityID{e[1]}, qt.QueryPoint(30, 30))
	assert.Empty(t, qt.QueryPoint(90, 90))
	assert.Equal(t, 2, qt.Len())
}

func TestQuadTreeQueryRegion(t *testing.T) {
	qt := NewQuadTree(0, 0, 100, 100)
	e := ids(3)
	require.NoError(t, qt.Insert(e[0], NewBoundingBox(10, 10, 1, 1)))
	require.NoError(t, qt.Insert(e[1], NewBoundingBox(20, 20, 1, 1)))
	require.NoError(t, qt.Insert(e[2], NewBoundingBox(80, 80, 5, 5)))

	assert.ElementsMatch(t, []EntityID{e[0], e[1]}, qt.QueryRegion(0, 0, 30, 30))
	assert.Equal(t, []EntityID{e[0]}, qt.QueryRegion(0, 0, 15, 15))
	assert.ElementsMatch(t, e, qt.QueryRegion(0, 0, 100, 100))
	// Touching edges count as overlap.
	assert.Equal(t, []EntityID{e[2]}, qt.QueryRegion(85, 85, 10, 10))
}

func TestQuadTreeInsertIsIdempotent(t *testing.T) {
	once := NewQuadTree(0, 0, 100, 100)
	twice := NewQuadTree(0, 0, 100, 100)
	e := ids(1)
	box := NewBoundingBox(40, 40, 10, 10)

	require.NoError(t, once.Insert(e[0], box))
	require.NoError(t, twice.Insert(e[0], box))
	require.NoError(t, twice.Insert(e[0], box))

	assert.Equal(t, once.QueryPoint(45, 45), twice.QueryPoint(45, 45))
	assert.Equal(t, once.QueryRegion(0, 0, 100, 100), twice.QueryRegion(0, 0, 100, 100))
	assert.Equal(t, 1, twice.Len())
}

func TestQuadTreeInsertOverwritesOldBox(t *testing.T) {
	qt := NewQuadTree(0, 0, 100, 100)
	e := ids(1)
	require.NoError(t, qt.Insert(e[0], NewBoundingBox(10, 10, 1, 1)))
	require.NoError(t, qt.Insert(e[0], NewBoundingBox(60, 60, 1, 1)))

	assert.Empty(t, qt.QueryPoint(10, 10), "old position no longer answers")
	assert.Equal(t, []EntityID{e[0]}, qt.QueryPoint(60, 60))
	box, ok := qt.Box(e[0])
	require.True(t, ok)
	assert.Equal(t, NewBoundingBox(60, 60, 1, 1), box)
}

func TestQuadTreeOutOfBounds(t *testing.T) {
	qt := NewQuadTree(0, 0, 100, 100)
	e := ids(1)
	require.NoError(t, qt.Insert(e[0], NewBoundingBox(10, 10, 1, 1)))

	err := qt.Insert(e[0], NewBoundingBox(95, 95, 10, 10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.False(t, qt.Has(e[0]), "rejected insert drops the stale entry")
	assert.Empty(t, qt.QueryPoint(10, 10))
}

func TestQuadTreeSubdivisionKeepsEveryEntryOnce(t *testing.T) {
	qt := newQuadTree(NewBoundingBox(0, 0, 128, 128), 4, 6)
	store := NewEntityStore()

	var all []EntityID
	// A grid of small boxes (these migrate) plus boxes over the center
	// lines (these stay at the root).
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			e := store.Create()
			all = append(all, e)
			require.NoError(t, qt.Insert(e, NewBoundingBox(float32(x*16+2), float32(y*16+2), 4, 4)))
		}
	}
	straddlers := []BoundingBox{
		NewBoundingBox(60, 10, 8, 8),
		NewBoundingBox(10, 60, 8, 8),
		NewBoundingBox(60, 60, 8, 8),
	}
	for _, b := range straddlers {
		e := store.Create()
		all = append(all, e)
		require.NoError(t, qt.Insert(e, b))
	}

	counts := countEntries(qt)
	assert.Len(t, counts, len(all))
	for _, e := range all {
		assert.Equal(t, 1, counts[e], "entity %v stored once", e)
	}
	assert.Equal(t, len(all), qt.Len())

	nodes := 0
	qt.Nodes(func(BoundingBox, int) { nodes++ })
	assert.Greater(t, nodes, 1, "tree subdivided")

	assert.Equal(t, sorted(all), sorted(qt.QueryRegion(0, 0, 128, 128)))

	// Straddler over the exact center is found from every quadrant side.
	center := all[len(all)-1]
	for _, p := range [][2]float32{{63, 63}, {65, 63}, {63, 65}, {65, 65}} {
		assert.Contains(t, qt.QueryPoint(p[0], p[1]), center, "point %v", p)
	}
}

func TestQuadTreeMaxDepthStopsSplitting(t *testing.T) {
	qt := newQuadTree(NewBoundingBox(0, 0, 64, 64), 1, 2)
	e := ids(20)
	for _, id := range e {
		require.NoError(t, qt.Insert(id, NewBoundingBox(1, 1, 1, 1)))
	}
	deepest := 0
	qt.Nodes(func(_ BoundingBox, d int) { deepest = max(deepest, d) })
	assert.Equal(t, 2, deepest)
	assert.Len(t, qt.QueryPoint(1.5, 1.5), 20)
}

func TestQuadTreeRemove(t *testing.T) {
	qt := newQuadTree(NewBoundingBox(0, 0, 100, 100), 2, 4)
	e := ids(6)
	for i, id := range e {
		require.NoError(t, qt.Insert(id, NewBoundingBox(float32(i*10), float32(i*10), 5, 5)))
	}
	assert.True(t, qt.Remove(e[3]))
	assert.False(t, qt.Remove(e[3]))
	assert.NotContains(t, qt.QueryRegion(0, 0, 100, 100), e[3])
	assert.Equal(t, 5, qt.Len())
	assert.Len(t, countEntries(qt), 5)
}

func TestQuadTreeClearKeepsRegion(t *testing.T) {
	qt := NewQuadTree(0, 0, 500, 300)
	e := ids(2)
	require.NoError(t, qt.Insert(e[0], NewBoundingBox(10, 10, 1, 1)))
	qt.Clear()

	assert.Empty(t, qt.QueryPoint(10, 10))
	assert.Empty(t, qt.QueryRegion(0, 0, 500, 300))
	assert.Equal(t, 0, qt.Len())
	assert.Equal(t, NewBoundingBox(0, 0, 500, 300), qt.Bounds())
	// Still accepts boxes far outside any small default region.
	require.NoError(t, qt.Insert(e[1], NewBoundingBox(400, 250, 10, 10)))
	assert.Equal(t, []EntityID{e[1]}, qt.QueryPoint(405, 255))
}

func TestQuadTreeReset(t *testing.T) {
	qt := NewQuadTree(0, 0, 100, 100)
	qt.Reset(-50, -50, 1000, 1000)
	e := ids(1)
	require.NoError(t, qt.Insert(e[0], NewBoundingBox(-40, -40, 5, 5)))
	assert.Equal(t, NewBoundingBox(-50, -50, 1000, 1000), qt.Bounds())
}

func TestQuadTreeDeterministicQueries(t *testing.T) {
	build := func() *QuadTree {
		qt := newQuadTree(NewBoundingBox(0, 0, 256, 256), 3, 5)
		s := NewEntityStore()
		for i := 0; i < 50; i++ {
			x := float32((i * 37) % 240)
			y := float32((i * 53) % 240)
			_ = qt.Insert(s.Create(), NewBoundingBox(x, y, 12, 12))
		}
		return qt
	}
	a, b := build(), build()
	for i := 0; i < 10; i++ {
		x, y := float32(i*25), float32(i*20)
		t.Run(fmt.Sprintf("q%d", i), func(t *testing.T) {
			assert.Equal(t, a.QueryPoint(x, y), b.QueryPoint(x, y))
			assert.Equal(t, a.QueryPoint(x, y), a.QueryPoint(x, y))
			assert.Equal(t, a.QueryRegion(x, y, 40, 40), b.QueryRegion(x, y, 40, 40))
		})
	}
}
