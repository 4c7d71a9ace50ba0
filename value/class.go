package value

// Class is a type descriptor: the constructor an object was created by.
// Two classes are the same only if they are the same pointer.
type Class struct {
	parent      *Class
	target      *Class
	members     map[Key]any
	name        string
	constructor bool
	proxy       bool
	bound       bool
}

// ClassOption configures a class created by NewClass.
type ClassOption func(*Class)

// Extends sets the parent class.
func Extends(parent *Class) ClassOption {
	return func(c *Class) {
		c.parent = parent
	}
}

// ReadOnly declares a read-only prototype member. Assigning to a property
// with the same name on an instance fails.
func ReadOnly(name string, v any) ClassOption {
	return func(c *Class) {
		if c.members == nil {
			c.members = make(map[Key]any)
		}
		c.members[StringKey(name)] = v
	}
}

// NewClass creates a constructible class. An empty name yields an anonymous
// class.
func NewClass(name string, opts ...ClassOption) *Class {
	c := &Class{name: name, constructor: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFunction creates a callable that cannot construct instances.
func NewFunction(name string) *Class {
	return &Class{name: name}
}

// Proxy wraps target in a dynamic-dispatch proxy. The proxy reports the
// target's name and constructs target instances.
func Proxy(target *Class) *Class {
	return &Class{
		name:        target.name,
		parent:      target.parent,
		target:      target,
		constructor: target.constructor,
		proxy:       true,
	}
}

// Bind returns a bound copy of target. A bound class has no own prototype
// member; its prototype link is the target's parent.
func Bind(target *Class) *Class {
	return &Class{
		name:        "bound " + target.name,
		parent:      target.parent,
		target:      target,
		constructor: target.constructor,
		bound:       true,
	}
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Parent returns the class this one extends, or nil.
func (c *Class) Parent() *Class { return c.parent }

// IsConstructor reports whether c can construct instances.
func (c *Class) IsConstructor() bool { return c.constructor }

// IsProxy reports whether c is a proxy.
func (c *Class) IsProxy() bool { return c.proxy }

// OwnPrototype returns the class instances created by c are linked to.
// Bound classes have none.
func (c *Class) OwnPrototype() (*Class, bool) {
	switch {
	case c.bound:
		return nil, false
	case c.proxy:
		return c.target.OwnPrototype()
	}
	return c, true
}

// PrototypeLink returns the class c itself inherits from, or nil.
func (c *Class) PrototypeLink() *Class {
	return c.parent
}

// Member looks up a read-only member on c and its ancestors.
func (c *Class) Member(k Key) (any, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if v, ok := cur.members[k]; ok {
			return v, true
		}
		if cur.proxy && cur.target != nil {
			if v, ok := cur.target.members[k]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// Extends reports whether c is other or inherits from it.
func (c *Class) Extends(other *Class) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

func (c *Class) String() string {
	if c.name == "" {
		return "class (anonymous)"
	}
	return "class " + c.name
}
