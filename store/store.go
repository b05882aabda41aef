// Package store provides a slot arena with stable integer handles.
//
// Handles are plain slot indices that grow monotonically and are never handed
// out twice by the same Store, so a handle to an erased entity can only ever
// resolve to "absent", never to a newer entity that happens to reuse its slot.
package store

import "iter"

// Handle names an entity inside a Store.
type Handle int

// Invalid is a handle that never resolves.
const Invalid Handle = -1

type slot[T any] struct {
	value T
	live  bool
}

// Store owns values of type T and hands out handles to them.
// The zero value is ready to use.
type Store[T any] struct {
	slots []slot[T]
	base  Handle // handle of slots[0]
	live  int
}

// New creates an empty store.
func New[T any]() *Store[T] {
	return &Store[T]{}
}

// Insert stores v and returns its handle.
func (s *Store[T]) Insert(v T) Handle {
	h := s.base + Handle(len(s.slots))
	s.slots = append(s.slots, slot[T]{value: v, live: true})
	s.live++
	return h
}

// Erase removes the entity named by h. It reports whether anything was removed.
func (s *Store[T]) Erase(h Handle) bool {
	i, ok := s.index(h)
	if !ok {
		return false
	}
	var zero T
	s.slots[i] = slot[T]{value: zero}
	s.live--
	s.trim()
	return true
}

// Get returns the entity named by h.
// The pointer stays valid until the next Insert.
func (s *Store[T]) Get(h Handle) (*T, bool) {
	i, ok := s.index(h)
	if !ok {
		return nil, false
	}
	return &s.slots[i].value, true
}

// Contains reports whether h names a live entity.
func (s *Store[T]) Contains(h Handle) bool {
	_, ok := s.index(h)
	return ok
}

// Len returns the number of live entities.
func (s *Store[T]) Len() int {
	return s.live
}

// Next returns the handle the next Insert will return.
func (s *Store[T]) Next() Handle {
	return s.base + Handle(len(s.slots))
}

// All iterates live entities in insertion order.
//
// The range is fixed when iteration starts: entities inserted by the loop
// body are not visited. The body may erase any entity, including ones not
// yet reached, which are then skipped.
func (s *Store[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		end := s.Next()
		for h := s.base; h < end; h++ {
			// base may advance while we walk; index() accounts for it.
			i, ok := s.index(h)
			if !ok {
				continue
			}
			if !yield(h, &s.slots[i].value) {
				return
			}
		}
	}
}

// Each calls fn for every live entity, with the same guarantees as All.
func (s *Store[T]) Each(fn func(Handle, *T)) {
	for h, v := range s.All() {
		fn(h, v)
	}
}

// Clear erases every entity. Handles issued before Clear never resolve again.
func (s *Store[T]) Clear() {
	s.base = s.Next()
	s.slots = nil
	s.live = 0
}

func (s *Store[T]) index(h Handle) (int, bool) {
	i := int(h - s.base)
	if h < 0 || i < 0 || i >= len(s.slots) || !s.slots[i].live {
		return 0, false
	}
	return i, true
}

// trim releases the run of dead slots at the front of the arena.
func (s *Store[T]) trim() {
	n := 0
	for n < len(s.slots) && !s.slots[n].live {
		n++
	}
	if n == 0 {
		return
	}
	if n == len(s.slots) {
		s.base += Handle(n)
		s.slots = nil
		return
	}
	// Reslicing keeps live pointers valid; append drops the prefix on growth.
	s.slots = s.slots[n:]
	s.base += Handle(n)
}
