package host

import (
	"github.com/voodooattack/serialism/errors"
	"github.com/voodooattack/serialism/registry"
	"github.com/voodooattack/serialism/value"
)

// Classify decides whether o is written as a host object.
//
// An object holding a symbol as any own key or own value is a host object.
// Otherwise an object linked to anything but the base prototype must have a
// registered class; an unregistered class fails the whole call. Everything
// else is plain.
func Classify(reg *registry.Registry, o *value.Object) (Classification, error) {
	if hasSymbols(o) {
		return Host, nil
	}
	if o.HasBasePrototype() {
		return Plain, nil
	}
	if o.HasNullPrototype() {
		return Plain, errors.UnknownClassDuringClassification("null")
	}

	c := o.Constructor()
	if _, ok := reg.LookupByDescriptor(c); ok {
		return Host, nil
	}
	return Plain, errors.UnknownClassDuringClassification(className(c))
}

// hasSymbols inspects every own property, hidden ones included.
func hasSymbols(o *value.Object) bool {
	for _, k := range o.OwnKeys() {
		if k.IsSymbol() {
			return true
		}
		if v, _ := o.GetOwn(k); isSymbol(v) {
			return true
		}
	}
	return false
}

func isSymbol(v any) bool {
	_, ok := v.(*value.Symbol)
	return ok
}

func className(c *value.Class) string {
	if c == nil {
		return "Object"
	}
	if c.Name() == "" {
		return "<anonymous>"
	}
	return c.Name()
}
