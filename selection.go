package luna

import "slices"

// Selection is a set of selected entities. The zero value is an empty
// selection ready to use.
type Selection struct {
	set map[EntityID]struct{}
}

// Select adds e. NoEntity is ignored.
func (s *Selection) Select(e EntityID) {
	if e.IsZero() {
		return
	}
	if s.set == nil {
		s.set = make(map[EntityID]struct{})
	}
	s.set[e] = struct{}{}
}

// Deselect removes e.
func (s *Selection) Deselect(e EntityID) {
	delete(s.set, e)
}

// Toggle flips e's membership and reports whether it is now selected.
func (s *Selection) Toggle(e EntityID) bool {
	if s.Has(e) {
		s.Deselect(e)
		return false
	}
	s.Select(e)
	return s.Has(e)
}

// Has reports whether e is selected.
func (s *Selection) Has(e EntityID) bool {
	_, ok := s.set[e]
	return ok
}

// Len returns the number of selected entities.
func (s *Selection) Len() int {
	return len(s.set)
}

// Clear deselects everything.
func (s *Selection) Clear() {
	clear(s.set)
}

// SelectAll selects every live entity in sc.
func (s *Selection) SelectAll(sc *Scene) {
	for _, e := range sc.Entities() {
		s.Select(e)
	}
}

// Prune drops entities that are no longer alive in sc.
func (s *Selection) Prune(sc *Scene) {
	for e := range s.set {
		if !sc.Alive(e) {
			delete(s.set, e)
		}
	}
}

// Entities returns the selection in id order.
func (s *Selection) Entities() []EntityID {
	out := make([]EntityID, 0, len(s.set))
	for e := range s.set {
		out = append(out, e)
	}
	slices.SortFunc(out, EntityID.Compare)
	return out
}

// Roots returns the live selected entities that have no selected ancestor,
// in id order. Moving exactly these moves the whole selection once.
func (s *Selection) Roots(sc *Scene) []EntityID {
	var out []EntityID
	for _, e := range s.Entities() {
		if !sc.Alive(e) {
			continue
		}
		covered := false
		for p, ok := sc.Parent(e); ok; p, ok = sc.Parent(p) {
			if s.Has(p) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, e)
		}
	}
	return out
}
