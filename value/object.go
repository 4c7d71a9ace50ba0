package value

import "sort"

type protoKind uint8

const (
	protoBase protoKind = iota
	protoNull
	protoClass
)

// Attr is a property attribute flag for Define.
type Attr uint8

const (
	// Hidden marks a property as non-enumerable.
	Hidden Attr = 1 << iota
)

type property struct {
	value  any
	hidden bool
}

// Object is a property bag linked to a prototype.
type Object struct {
	class   *Class
	props   map[Key]*property
	indices []uint32
	strings []Key
	symbols []Key
	proto   protoKind
	frozen  bool
	sealed  bool
}

// NewObject creates an object with the base object prototype.
func NewObject() *Object {
	return &Object{proto: protoBase, props: make(map[Key]*property)}
}

// NewNullObject creates an object with no prototype.
func NewNullObject() *Object {
	return &Object{proto: protoNull, props: make(map[Key]*property)}
}

// New creates an instance of c. A nil class yields a plain object.
func New(c *Class) *Object {
	if c == nil {
		return NewObject()
	}
	return &Object{proto: protoClass, class: c, props: make(map[Key]*property)}
}

// HasBasePrototype reports whether o is linked to the base object prototype.
func (o *Object) HasBasePrototype() bool { return o.proto == protoBase }

// HasNullPrototype reports whether o has no prototype.
func (o *Object) HasNullPrototype() bool { return o.proto == protoNull }

// Constructor returns the class o was created by, or nil for base and
// null-prototype objects.
func (o *Object) Constructor() *Class {
	return o.class
}

// InstanceOf reports whether c appears in o's prototype chain.
func (o *Object) InstanceOf(c *Class) bool {
	if o.class == nil || c == nil {
		return false
	}
	return o.class.Extends(c)
}

// Get returns an own property, falling back to read-only class members.
func (o *Object) Get(k Key) (any, bool) {
	if p, ok := o.props[k]; ok {
		return p.value, true
	}
	if o.class != nil {
		return o.class.Member(k)
	}
	return nil, false
}

// GetOwn returns an own property only.
func (o *Object) GetOwn(k Key) (any, bool) {
	if p, ok := o.props[k]; ok {
		return p.value, true
	}
	return nil, false
}

// Has reports whether k is an own property.
func (o *Object) Has(k Key) bool {
	_, ok := o.props[k]
	return ok
}

// IsHidden reports whether the own property k is non-enumerable.
func (o *Object) IsHidden(k Key) bool {
	p, ok := o.props[k]
	return ok && p.hidden
}

// Set assigns k. It fails when o is frozen, when o is not extensible and k
// is new, or when k would shadow a read-only class member.
func (o *Object) Set(k Key, v any) bool {
	if o.frozen {
		return false
	}
	if p, ok := o.props[k]; ok {
		p.value = v
		return true
	}
	if o.sealed {
		return false
	}
	if o.class != nil {
		if _, ro := o.class.Member(k); ro {
			return false
		}
	}
	o.add(k, &property{value: v})
	return true
}

// Define creates or replaces an own property regardless of inherited
// members. It fails only on frozen or non-extensible objects.
func (o *Object) Define(k Key, v any, attrs ...Attr) bool {
	if o.frozen {
		return false
	}
	var a Attr
	for _, x := range attrs {
		a |= x
	}
	if p, ok := o.props[k]; ok {
		p.value = v
		p.hidden = a&Hidden != 0
		return true
	}
	if o.sealed {
		return false
	}
	o.add(k, &property{value: v, hidden: a&Hidden != 0})
	return true
}

// Delete removes an own property.
func (o *Object) Delete(k Key) bool {
	if o.frozen || o.sealed {
		return false
	}
	if _, ok := o.props[k]; !ok {
		return true
	}
	delete(o.props, k)
	switch k.kind {
	case KeyIndex:
		for i, n := range o.indices {
			if n == k.index {
				o.indices = append(o.indices[:i], o.indices[i+1:]...)
				break
			}
		}
	case KeySymbol:
		o.symbols = removeKey(o.symbols, k)
	default:
		o.strings = removeKey(o.strings, k)
	}
	return true
}

// SetProp is Set with a string property name.
func (o *Object) SetProp(name string, v any) bool {
	return o.Set(StringKey(name), v)
}

// Prop is Get with a string property name.
func (o *Object) Prop(name string) (any, bool) {
	return o.Get(StringKey(name))
}

// OwnKeys returns every own key, hidden ones included, in enumeration order.
func (o *Object) OwnKeys() []Key {
	keys := make([]Key, 0, len(o.props))
	for _, n := range o.indices {
		keys = append(keys, IndexKey(n))
	}
	keys = append(keys, o.strings...)
	keys = append(keys, o.symbols...)
	return keys
}

// Keys returns the enumerable own keys in enumeration order.
func (o *Object) Keys() []Key {
	keys := make([]Key, 0, len(o.props))
	for _, k := range o.OwnKeys() {
		if !o.props[k].hidden {
			keys = append(keys, k)
		}
	}
	return keys
}

// Len returns the number of own properties.
func (o *Object) Len() int { return len(o.props) }

// Freeze makes every property read-only and o non-extensible.
func (o *Object) Freeze() {
	o.frozen = true
	o.sealed = true
}

// PreventExtensions stops new properties from being added.
func (o *Object) PreventExtensions() {
	o.sealed = true
}

// IsFrozen reports whether o is frozen.
func (o *Object) IsFrozen() bool { return o.frozen }

// IsExtensible reports whether new properties may be added.
func (o *Object) IsExtensible() bool { return !o.sealed }

func (o *Object) add(k Key, p *property) {
	o.props[k] = p
	switch k.kind {
	case KeyIndex:
		i := sort.Search(len(o.indices), func(i int) bool { return o.indices[i] >= k.index })
		o.indices = append(o.indices, 0)
		copy(o.indices[i+1:], o.indices[i:])
		o.indices[i] = k.index
	case KeySymbol:
		o.symbols = append(o.symbols, k)
	default:
		o.strings = append(o.strings, k)
	}
}

func removeKey(keys []Key, k Key) []Key {
	for i, x := range keys {
		if x == k {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
