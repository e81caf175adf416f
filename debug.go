package luna

import (
	"errors"
	"fmt"
	"os"
)

// debugMaxTreeDepth is the nesting depth past which debug mode warns.
const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns on stderr if e sits deeper than the threshold.
func debugCheckTreeDepth(h *Hierarchy, e EntityID) {
	if depth := h.Depth(e); depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[luna] warning: tree depth %d exceeds %d (entity %v)\n",
			depth, debugMaxTreeDepth, e)
	}
}

// debugWarnOutOfBounds reports a box the index rejected.
func debugWarnOutOfBounds(e EntityID, box, region BoundingBox) {
	_, _ = fmt.Fprintf(os.Stderr, "[luna] warning: entity %v box %v outside index region %v; not indexed\n",
		e, box, region)
}

// debugWarnStale reports use of a dead handle.
func debugWarnStale(op string, e EntityID) {
	_, _ = fmt.Fprintf(os.Stderr, "[luna] warning: %s on stale entity %v\n", op, e)
}

// Validate checks the scene's structural invariants: parent and child edges
// agree, the parent relation is acyclic, every component entry belongs to
// a live entity, and the index holds each entity exactly once. It returns
// every violation found, joined.
func (s *Scene) Validate() error {
	var errs []error
	h := s.hierarchy

	for c, p := range h.parent {
		if !s.entities.Alive(c) || !s.entities.Alive(p) {
			errs = append(errs, fmt.Errorf("luna: edge %v -> %v references a dead entity", c, p))
		}
		found := 0
		for _, x := range h.children[p] {
			if x == c {
				found++
			}
		}
		if found != 1 {
			errs = append(errs, fmt.Errorf("luna: %v has parent %v but appears %d times in its children", c, p, found))
		}
	}
	for p, cs := range h.children {
		for _, c := range cs {
			if got, ok := h.parent[c]; !ok || got != p {
				errs = append(errs, fmt.Errorf("luna: %v lists child %v whose parent is %v", p, c, got))
			}
		}
	}
	for c := range h.parent {
		steps := 0
		for p, ok := h.parent[c]; ok; p, ok = h.parent[p] {
			steps++
			if p == c || steps > len(h.parent) {
				errs = append(errs, fmt.Errorf("luna: %v is its own ancestor", c))
				break
			}
		}
	}

	for e := range s.transforms.local {
		if !s.entities.Alive(e) {
			errs = append(errs, fmt.Errorf("luna: transform for dead entity %v", e))
		}
	}
	for e := range s.transforms.world {
		if !s.entities.Alive(e) {
			errs = append(errs, fmt.Errorf("luna: world transform for dead entity %v", e))
		}
	}

	seen := make(map[EntityID]int)
	s.hits.Index().Entries(func(id EntityID, _ BoundingBox) {
		seen[id]++
	})
	for id, n := range seen {
		if n != 1 {
			errs = append(errs, fmt.Errorf("luna: entity %v indexed %d times", id, n))
		}
		if !s.entities.Alive(id) {
			errs = append(errs, fmt.Errorf("luna: index entry for dead entity %v", id))
		}
	}
	if len(seen) != s.hits.Index().Len() {
		errs = append(errs, fmt.Errorf("luna: index locator holds %d entities, tree holds %d",
			s.hits.Index().Len(), len(seen)))
	}
	return errors.Join(errs...)
}
