package luna

import "fmt"

// Hierarchy maps each entity to an optional parent and to its ordered set
// of children. The parent relation is kept acyclic (a forest) and the two
// maps are kept mutually consistent.
type Hierarchy struct {
	parent   map[EntityID]EntityID
	children map[EntityID][]EntityID
}

// NewHierarchy creates an empty forest.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		parent:   make(map[EntityID]EntityID),
		children: make(map[EntityID][]EntityID),
	}
}

// --- Tree manipulation ---

// SetParent moves child under parent. Passing NoEntity as parent detaches
// child and makes it a root. The child is removed from its previous parent
// first and appended to the new parent's children.
//
// Rejected without mutation if parent is child (ErrSelfParent) or a
// descendant of child (ErrCycle).
func (h *Hierarchy) SetParent(child, parent EntityID) error {
	if parent == child {
		return fmt.Errorf("%w: %v", ErrSelfParent, child)
	}
	if !parent.IsZero() && h.IsAncestor(child, parent) {
		return fmt.Errorf("%w: %v is an ancestor of %v", ErrCycle, child, parent)
	}

	if old, ok := h.parent[child]; ok {
		if old == parent {
			return nil
		}
		h.removeChild(old, child)
		delete(h.parent, child)
	}
	if parent.IsZero() {
		return nil
	}
	h.parent[child] = parent
	h.children[parent] = append(h.children[parent], child)
	return nil
}

// Remove detaches e from its parent and turns its children into roots.
// Returns the orphaned children in their previous order.
func (h *Hierarchy) Remove(e EntityID) []EntityID {
	if p, ok := h.parent[e]; ok {
		h.removeChild(p, e)
		delete(h.parent, e)
	}
	orphans := h.children[e]
	for _, c := range orphans {
		delete(h.parent, c)
	}
	delete(h.children, e)
	return orphans
}

// --- Queries ---

// Parent returns e's parent, or false for a root.
func (h *Hierarchy) Parent(e EntityID) (EntityID, bool) {
	p, ok := h.parent[e]
	return p, ok
}

// Children returns e's children in insertion order.
// The returned slice MUST NOT be mutated by the caller.
func (h *Hierarchy) Children(e EntityID) []EntityID {
	return h.children[e]
}

// ParentChain returns e's ancestors innermost-first: parent, grandparent,
// and so on up to the root. Its length is e's depth.
func (h *Hierarchy) ParentChain(e EntityID) []EntityID {
	var chain []EntityID
	for p, ok := h.parent[e]; ok; p, ok = h.parent[p] {
		chain = append(chain, p)
	}
	return chain
}

// Depth returns the number of ancestors of e. Roots have depth 0.
func (h *Hierarchy) Depth(e EntityID) int {
	depth := 0
	for p, ok := h.parent[e]; ok; p, ok = h.parent[p] {
		depth++
	}
	return depth
}

// IsAncestor reports whether candidate is e or one of e's ancestors.
func (h *Hierarchy) IsAncestor(candidate, e EntityID) bool {
	for p, ok := e, true; ok; p, ok = h.parent[p] {
		if p == candidate {
			return true
		}
	}
	return false
}

// Descendants returns every entity below e, breadth-first.
func (h *Hierarchy) Descendants(e EntityID) []EntityID {
	var out []EntityID
	queue := h.children[e]
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		out = append(out, c)
		if cs := h.children[c]; len(cs) > 0 {
			queue = append(queue[:len(queue):len(queue)], cs...)
		}
	}
	return out
}

// Has reports whether e has a parent or any children.
func (h *Hierarchy) Has(e EntityID) bool {
	_, hasParent := h.parent[e]
	return hasParent || len(h.children[e]) > 0
}

// Len returns the number of parent edges.
func (h *Hierarchy) Len() int {
	return len(h.parent)
}

// --- Helpers ---

// removeChild removes child from p's children without touching the parent
// map. Uses copy and a zeroed tail so the backing array keeps no stale id.
func (h *Hierarchy) removeChild(p, child EntityID) {
	cs := h.children[p]
	for i, c := range cs {
		if c == child {
			copy(cs[i:], cs[i+1:])
			cs[len(cs)-1] = NoEntity
			cs = cs[:len(cs)-1]
			break
		}
	}
	if len(cs) == 0 {
		delete(h.children, p)
		return
	}
	h.children[p] = cs
}
