package host

import (
	"github.com/voodooattack/serialism/errors"
	"github.com/voodooattack/serialism/registry"
	"github.com/voodooattack/serialism/value"
	"github.com/voodooattack/serialism/wire"
	"go.uber.org/zap"
)

// Decoder reads host-object envelopes.
type Decoder struct {
	registry *registry.Registry
	symbols  *value.SymbolTable
	log      *zap.Logger
}

// NewDecoder creates a decoder that resolves class names through reg.
func NewDecoder(reg *registry.Registry, log *zap.Logger) *Decoder {
	if log == nil {
		log = wire.Logger()
	}
	return &Decoder{registry: reg, log: log}
}

// SetSymbolTable makes the decoder intern symbols into t instead of the
// process-wide table. A nil table restores the default.
func (d *Decoder) SetSymbolTable(t *value.SymbolTable) {
	d.symbols = t
}

func (d *Decoder) symbol(desc string) *value.Symbol {
	if d.symbols != nil {
		return d.symbols.For(desc)
	}
	return value.SymbolFor(desc)
}

// Decode reads one envelope. The object is bound to the reader before its
// properties are read.
func (d *Decoder) Decode(r wire.HostReader) (*value.Object, error) {
	o, name, err := d.readClassName(r)
	if err != nil {
		return nil, err
	}
	if err := r.Bind(o); err != nil {
		return nil, err
	}

	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < count; i++ {
		k, err := d.readKey(r, i)
		if err != nil {
			return nil, err
		}
		v, err := d.readValue(r, o, k)
		if err != nil {
			return nil, err
		}
		if !o.Set(k, v) {
			return nil, errors.SetPropertyFailed(name, i, k.String())
		}
	}

	if ce := d.log.Check(zap.DebugLevel, "host object read"); ce != nil {
		ce.Write(zap.String("class", name), zap.Uint32("properties", count))
	}
	return o, nil
}

func (d *Decoder) readClassName(r wire.HostReader) (*value.Object, string, error) {
	marker, err := r.ReadValue()
	if err != nil {
		return nil, "", err
	}

	switch m := marker.(type) {
	case value.UndefinedType:
		return value.NewObject(), "Object", nil
	case nil:
		return value.NewNullObject(), "null", nil
	case string:
		c, ok := d.registry.LookupByName(m)
		if !ok {
			return nil, "", errors.UnknownRegisteredClass(m)
		}
		return instantiate(c), m, nil
	}
	return nil, "", errors.MalformedClassName(value.TypeName(marker))
}

// instantiate creates an empty object for c without running any
// constructor logic. Classes without their own prototype member fall back
// to their prototype link.
func instantiate(c *value.Class) *value.Object {
	if proto, ok := c.OwnPrototype(); ok {
		return value.New(proto)
	}
	if link := c.PrototypeLink(); link != nil {
		return value.New(link)
	}
	return value.NewObject()
}

func (d *Decoder) readKey(r wire.HostReader, index uint32) (value.Key, error) {
	kind, err := r.ReadUint32()
	if err != nil {
		return value.Key{}, err
	}

	switch KeyKind(kind) {
	case KeyString:
		s, err := readString(r, "string key")
		if err != nil {
			return value.Key{}, err
		}
		return value.StringKey(s), nil
	case KeySymbol:
		desc, err := readString(r, "symbol key")
		if err != nil {
			return value.Key{}, err
		}
		return value.SymbolKey(d.symbol(desc)), nil
	case KeyNumeric:
		f, err := r.ReadDouble()
		if err != nil {
			return value.Key{}, err
		}
		return value.NumberKey(f), nil
	}
	return value.Key{}, errors.UnknownKeyKind(kind, index)
}

func (d *Decoder) readValue(r wire.HostReader, o *value.Object, k value.Key) (any, error) {
	kind, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}

	switch ValueKind(kind) {
	case ValuePlain:
		return r.ReadValue()
	case ValueSymbol:
		desc, err := readString(r, "symbol value")
		if err != nil {
			return nil, err
		}
		return d.symbol(desc), nil
	case ValueSelf:
		return o, nil
	}
	return nil, errors.UnknownValueKind(kind, k.String())
}

func readString(r wire.HostReader, what string) (string, error) {
	v, err := r.ReadValue()
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.New(errors.PhaseDecode, errors.KindInvalidData).
			GoType(value.TypeName(v)).
			Detail("malformed %s: expected a string", what).
			Build()
	}
	return s, nil
}
