package value

import (
	"math"
	"math/big"
	"reflect"
)

// Array is an ordered, identity-bearing list of values.
type Array struct {
	elems []any
}

// NewArray creates an array holding elems.
func NewArray(elems ...any) *Array {
	return &Array{elems: elems}
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.elems) }

// At returns element i, or Undefined when i is out of range.
func (a *Array) At(i int) any {
	if i < 0 || i >= len(a.elems) {
		return Undefined
	}
	return a.elems[i]
}

// SetAt stores v at i, growing the array with Undefined as needed.
func (a *Array) SetAt(i int, v any) {
	for len(a.elems) <= i {
		a.elems = append(a.elems, Undefined)
	}
	a.elems[i] = v
}

// Append adds values to the end.
func (a *Array) Append(vs ...any) {
	a.elems = append(a.elems, vs...)
}

// Elements returns the backing slice.
func (a *Array) Elements() []any { return a.elems }

// nanKey stands in for NaN, which never equals itself.
type nanKey struct{}

// bigKey compares big integers by value.
type bigKey string

// refKey identifies a non-comparable key by its backing pointer.
type refKey struct {
	typ reflect.Type
	ptr uintptr
}

// normalizeKey maps a value to a comparable key with SameValueZero
// semantics.
func normalizeKey(k any) any {
	if f, ok := ToNumber(k); ok {
		if math.IsNaN(f) {
			return nanKey{}
		}
		if f == 0 {
			return float64(0)
		}
		return f
	}
	switch x := k.(type) {
	case *big.Int:
		return bigKey(x.String())
	case []any, []byte, map[string]any:
		rv := reflect.ValueOf(k)
		return refKey{typ: rv.Type(), ptr: rv.Pointer()}
	}
	if k != nil && !reflect.TypeOf(k).Comparable() {
		return refKey{typ: reflect.TypeOf(k)}
	}
	return k
}

// Map is an insertion-ordered key/value collection.
type Map struct {
	index map[any]int
	keys  []any
	vals  []any
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{index: make(map[any]int)}
}

// Set stores v under k.
func (m *Map) Set(k, v any) {
	nk := normalizeKey(k)
	if i, ok := m.index[nk]; ok {
		m.vals[i] = v
		return
	}
	m.index[nk] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
}

// Get returns the value stored under k.
func (m *Map) Get(k any) (any, bool) {
	i, ok := m.index[normalizeKey(k)]
	if !ok {
		return nil, false
	}
	return m.vals[i], true
}

// Has reports whether k is present.
func (m *Map) Has(k any) bool {
	_, ok := m.index[normalizeKey(k)]
	return ok
}

// Delete removes k.
func (m *Map) Delete(k any) bool {
	nk := normalizeKey(k)
	i, ok := m.index[nk]
	if !ok {
		return false
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
	delete(m.index, nk)
	for j := i; j < len(m.keys); j++ {
		m.index[normalizeKey(m.keys[j])] = j
	}
	return true
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Map) Keys() []any { return m.keys }

// Values returns the values in insertion order.
func (m *Map) Values() []any { return m.vals }

// Range calls fn for each entry until fn returns false.
func (m *Map) Range(fn func(k, v any) bool) {
	for i := range m.keys {
		if !fn(m.keys[i], m.vals[i]) {
			return
		}
	}
}

// Set is an insertion-ordered collection of unique values.
type Set struct {
	index map[any]int
	items []any
}

// NewSet creates a set holding items.
func NewSet(items ...any) *Set {
	s := &Set{index: make(map[any]int)}
	for _, v := range items {
		s.Add(v)
	}
	return s
}

// Add inserts v if absent.
func (s *Set) Add(v any) {
	nk := normalizeKey(v)
	if _, ok := s.index[nk]; ok {
		return
	}
	s.index[nk] = len(s.items)
	s.items = append(s.items, v)
}

// Has reports whether v is present.
func (s *Set) Has(v any) bool {
	_, ok := s.index[normalizeKey(v)]
	return ok
}

// Delete removes v.
func (s *Set) Delete(v any) bool {
	nk := normalizeKey(v)
	i, ok := s.index[nk]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, nk)
	for j := i; j < len(s.items); j++ {
		s.index[normalizeKey(s.items[j])] = j
	}
	return true
}

// Len returns the number of items.
func (s *Set) Len() int { return len(s.items) }

// Values returns the items in insertion order.
func (s *Set) Values() []any { return s.items }
