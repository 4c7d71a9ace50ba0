// Package registry maps class names to class descriptors for one serializer
// instance.
package registry

import (
	"sync"

	"github.com/voodooattack/serialism/errors"
	"github.com/voodooattack/serialism/value"
)

// Entry binds a name to a class descriptor.
type Entry struct {
	Class *value.Class
	Name  string
}

// Registry is an ordered, name-unique set of entries.
// Lookup by descriptor scans in registration order; the first match wins.
type Registry struct {
	byName  map[string]*value.Class
	entries []Entry
	mu      sync.RWMutex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byName:  make(map[string]*value.Class),
		entries: make([]Entry, 0, 8),
	}
}

// Register adds classes in order. Re-registering a class under the name it
// already holds is a no-op. On failure, candidates before the failing one
// stay registered.
func (r *Registry) Register(classes ...*value.Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range classes {
		if err := r.add(i, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) add(i int, c *value.Class) error {
	if c == nil {
		return errors.NotAFunction(i)
	}
	if !c.IsConstructor() {
		return errors.NotAConstructor(c.Name())
	}
	name := c.Name()
	if name == "" {
		return errors.UnnamedClass(i)
	}
	if c.IsProxy() {
		return errors.ProxyClass(name)
	}

	if existing, ok := r.byName[name]; ok {
		if existing == c {
			return nil
		}
		return errors.DuplicateClassName(name)
	}

	r.byName[name] = c
	r.entries = append(r.entries, Entry{Name: name, Class: c})
	return nil
}

// LookupByDescriptor finds the entry for c by identity.
func (r *Registry) LookupByDescriptor(c *value.Class) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.Class == c {
			return e, true
		}
	}
	return Entry{}, false
}

// LookupByName finds the class registered under name.
func (r *Registry) LookupByName(name string) (*value.Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byName[name]
	return c, ok
}

// Entries returns a copy of the entries in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
