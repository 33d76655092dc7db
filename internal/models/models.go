// Package models defines the core data types for the mind store.
package models

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Space is a named collection of memories. Memories are addressed by their
// 1-based position.
type Space struct {
	Description string
	Memories    []string
}

// NewSpace returns an empty space with the given description.
func NewSpace(description string) *Space {
	return &Space{Description: description, Memories: make([]string, 0)}
}

// Add appends memory to the end of the space.
func (s *Space) Add(memory string) {
	s.Memories = append(s.Memories, memory)
}

// InRange reports whether pos addresses an existing memory.
func (s *Space) InRange(pos int) bool {
	return pos >= 1 && pos <= len(s.Memories)
}

// CanMoveTo reports whether to is a valid destination for Move: 0 (front),
// -1 (back) or a 1-based position in the list after the moved memory is
// taken out and put back.
func (s *Space) CanMoveTo(to int) bool {
	return to == 0 || to == -1 || s.InRange(to)
}

// RemoveAt removes and returns the memory at pos. pos must satisfy InRange.
func (s *Space) RemoveAt(pos int) string {
	memory := s.Memories[pos-1]
	s.Memories = slices.Delete(s.Memories, pos-1, pos)
	return memory
}

// Move takes the memory at from out of the list and reinserts it so that it
// ends up at the front (to == 0), at the back (to == -1) or at 1-based
// position to. from must satisfy InRange and to must satisfy CanMoveTo.
func (s *Space) Move(from, to int) {
	memory := s.RemoveAt(from)
	switch to {
	case 0:
		s.Memories = slices.Insert(s.Memories, 0, memory)
	case -1:
		s.Memories = append(s.Memories, memory)
	default:
		s.Memories = slices.Insert(s.Memories, to-1, memory)
	}
}

func (s *Space) clone() *Space {
	memories := make([]string, len(s.Memories))
	copy(memories, s.Memories)
	return &Space{Description: s.Description, Memories: memories}
}

// Brain is the whole persisted document: space name -> Space, kept in
// insertion order.
type Brain struct {
	spaces *orderedmap.OrderedMap[string, *Space]
}

// NewBrain returns an empty Brain.
func NewBrain() *Brain {
	return &Brain{spaces: orderedmap.New[string, *Space]()}
}

// Len returns the number of spaces.
func (b *Brain) Len() int { return b.spaces.Len() }

// Has reports whether a space called name exists.
func (b *Brain) Has(name string) bool {
	_, ok := b.spaces.Get(name)
	return ok
}

// Space returns the space called name.
func (b *Brain) Space(name string) (*Space, bool) {
	return b.spaces.Get(name)
}

// Put stores space under name. An existing entry keeps its position; a new
// one is appended.
func (b *Brain) Put(name string, space *Space) {
	b.spaces.Set(name, space)
}

// Delete removes the space called name and reports whether it existed.
func (b *Brain) Delete(name string) bool {
	_, ok := b.spaces.Delete(name)
	return ok
}

// Names returns space names in insertion order.
func (b *Brain) Names() []string {
	names := make([]string, 0, b.spaces.Len())
	for pair := b.spaces.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Clone returns a deep copy of b.
func (b *Brain) Clone() *Brain {
	out := NewBrain()
	for pair := b.spaces.Oldest(); pair != nil; pair = pair.Next() {
		out.spaces.Set(pair.Key, pair.Value.clone())
	}
	return out
}
