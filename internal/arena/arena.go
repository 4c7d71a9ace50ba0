// Package arena is the index table a deserializer publishes objects into
// while their contents are still being read.
package arena

import "errors"

var (
	ErrInvalidHandle = errors.New("arena: invalid handle")
	ErrAlreadyFilled = errors.New("arena: slot already filled")
)

// Handle identifies a slot. Zero is never a valid handle.
type Handle uint32

type slot struct {
	value  any
	filled bool
}

// Arena hands out slots in order. It is owned by a single decode call and
// is not safe for concurrent use.
type Arena struct {
	slots []slot
}

// New creates an empty arena.
func New() *Arena {
	return &Arena{slots: make([]slot, 0, 32)}
}

// Reserve allocates the next slot without a value.
func (a *Arena) Reserve() Handle {
	a.slots = append(a.slots, slot{})
	return Handle(len(a.slots))
}

// Fill publishes v into a reserved slot.
func (a *Arena) Fill(h Handle, v any) error {
	if h == 0 || int(h) > len(a.slots) {
		return ErrInvalidHandle
	}
	s := &a.slots[h-1]
	if s.filled {
		return ErrAlreadyFilled
	}
	s.value = v
	s.filled = true
	return nil
}

// Get returns the value of a filled slot.
func (a *Arena) Get(h Handle) (any, bool) {
	if h == 0 || int(h) > len(a.slots) {
		return nil, false
	}
	s := a.slots[h-1]
	if !s.filled {
		return nil, false
	}
	return s.value, true
}

// Filled reports whether h has a value.
func (a *Arena) Filled(h Handle) bool {
	_, ok := a.Get(h)
	return ok
}

// Len returns the number of reserved slots.
func (a *Arena) Len() int {
	return len(a.slots)
}

// HandleFor converts a zero-based object id into a handle.
func HandleFor(id uint32) Handle {
	return Handle(id + 1)
}
