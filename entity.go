package luna

import "fmt"

// EntityID identifies one positionable object. It combines a slot index
// with a generation counter so that a recycled slot is never confused with
// the entity that used it before.
//
// The zero value is NoEntity; generations start at 1.
type EntityID struct {
	Index      uint32
	Generation uint32
}

// NoEntity is the zero EntityID. It never refers to a live entity and is
// used to mean "no parent".
var NoEntity EntityID

// IsZero reports whether id is NoEntity.
func (id EntityID) IsZero() bool {
	return id == NoEntity
}

// Compare orders ids by index, then generation. It returns -1, 0, or +1.
func (id EntityID) Compare(o EntityID) int {
	switch {
	case id.Index < o.Index:
		return -1
	case id.Index > o.Index:
		return 1
	case id.Generation < o.Generation:
		return -1
	case id.Generation > o.Generation:
		return 1
	}
	return 0
}

// String formats id as index.generation.
func (id EntityID) String() string {
	return fmt.Sprintf("%d.%d", id.Index, id.Generation)
}

// EntityStore allocates entity identities. It owns no other state.
//
// Destroyed slots are parked as pending and only become reusable after
// Sweep confirms nothing still references them. Reuse bumps the slot's
// generation, so handles to the old entity stay detectably stale.
type EntityStore struct {
	generations []uint32
	alive       []bool
	pending     []uint32
	free        []uint32
	count       int
}

// NewEntityStore creates an empty store.
func NewEntityStore() *EntityStore {
	return &EntityStore{}
}

// Create issues a new live entity handle, reusing a swept slot if one is free.
func (s *EntityStore) Create() EntityID {
	s.count++
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		s.alive[idx] = true
		return EntityID{Index: idx, Generation: s.generations[idx]}
	}
	idx := uint32(len(s.generations))
	s.generations = append(s.generations, 1)
	s.alive = append(s.alive, true)
	return EntityID{Index: idx, Generation: 1}
}

// Alive reports whether id refers to a live entity.
func (s *EntityStore) Alive(id EntityID) bool {
	if id.Generation == 0 || int(id.Index) >= len(s.generations) {
		return false
	}
	return s.alive[id.Index] && s.generations[id.Index] == id.Generation
}

// Destroy marks id dead. The slot is not reused until Sweep.
// Returns false if id was not alive.
func (s *EntityStore) Destroy(id EntityID) bool {
	if !s.Alive(id) {
		return false
	}
	s.alive[id.Index] = false
	s.pending = append(s.pending, id.Index)
	s.count--
	return true
}

// Sweep recycles pending slots. inUse is asked about each dead handle; slots
// still referenced stay pending for a later sweep. A nil inUse recycles
// everything. Returns the number of slots made reusable.
func (s *EntityStore) Sweep(inUse func(EntityID) bool) int {
	kept := s.pending[:0]
	swept := 0
	for _, idx := range s.pending {
		dead := EntityID{Index: idx, Generation: s.generations[idx]}
		if inUse != nil && inUse(dead) {
			kept = append(kept, idx)
			continue
		}
		gen := s.generations[idx] + 1
		if gen == 0 {
			gen = 1
		}
		s.generations[idx] = gen
		s.free = append(s.free, idx)
		swept++
	}
	s.pending = kept
	return swept
}

// Pending returns the number of destroyed slots awaiting Sweep.
func (s *EntityStore) Pending() int {
	return len(s.pending)
}

// Len returns the number of live entities.
func (s *EntityStore) Len() int {
	return s.count
}

// Each calls fn for every live entity in index order.
func (s *EntityStore) Each(fn func(EntityID)) {
	for i, ok := range s.alive {
		if ok {
			fn(EntityID{Index: uint32(i), Generation: s.generations[i]})
		}
	}
}
