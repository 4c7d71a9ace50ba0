package host

import (
	"github.com/voodooattack/serialism/errors"
	"github.com/voodooattack/serialism/registry"
	"github.com/voodooattack/serialism/value"
	"github.com/voodooattack/serialism/wire"
	"go.uber.org/zap"
)

// Encoder writes host-object envelopes.
type Encoder struct {
	registry *registry.Registry
	log      *zap.Logger
}

// NewEncoder creates an encoder that resolves class names through reg.
func NewEncoder(reg *registry.Registry, log *zap.Logger) *Encoder {
	if log == nil {
		log = wire.Logger()
	}
	return &Encoder{registry: reg, log: log}
}

// Encode writes o as an envelope. Any failure leaves the writer in an
// undefined state; the caller discards the buffer.
func (e *Encoder) Encode(w wire.HostWriter, o *value.Object) error {
	name, err := e.writeClassName(w, o)
	if err != nil {
		return err
	}

	keys := o.OwnKeys()
	w.WriteUint32(uint32(len(keys)))

	for _, k := range keys {
		if err := e.writeKey(w, name, k); err != nil {
			return err
		}
		v, _ := o.GetOwn(k)
		if err := e.writeValue(w, o, name, k, v); err != nil {
			return err
		}
	}

	if ce := e.log.Check(zap.DebugLevel, "host object written"); ce != nil {
		ce.Write(zap.String("class", name), zap.Int("properties", len(keys)))
	}
	return nil
}

func (e *Encoder) writeClassName(w wire.HostWriter, o *value.Object) (string, error) {
	switch {
	case o.HasBasePrototype():
		return "Object", w.WriteValue(value.Undefined)
	case o.HasNullPrototype():
		return "null", w.WriteValue(nil)
	}

	c := o.Constructor()
	entry, ok := e.registry.LookupByDescriptor(c)
	if !ok {
		return "", errors.UnknownClass(className(c))
	}
	return entry.Name, w.WriteValue(entry.Name)
}

func (e *Encoder) writeKey(w wire.HostWriter, class string, k value.Key) error {
	if idx, ok := k.Index(); ok {
		w.WriteUint32(uint32(KeyNumeric))
		w.WriteDouble(float64(idx))
		return nil
	}
	if sym, ok := k.Symbol(); ok {
		desc, err := descriptor(sym, class, k)
		if err != nil {
			return err
		}
		w.WriteUint32(uint32(KeySymbol))
		return w.WriteValue(desc)
	}
	w.WriteUint32(uint32(KeyString))
	return w.WriteValue(k.Name())
}

func (e *Encoder) writeValue(w wire.HostWriter, o *value.Object, class string, k value.Key, v any) error {
	if self, ok := v.(*value.Object); ok && self == o {
		w.WriteUint32(uint32(ValueSelf))
		return nil
	}
	if sym, ok := v.(*value.Symbol); ok {
		desc, err := descriptor(sym, class, k)
		if err != nil {
			return err
		}
		w.WriteUint32(uint32(ValueSymbol))
		return w.WriteValue(desc)
	}
	w.WriteUint32(uint32(ValuePlain))
	return w.WriteValue(v)
}

// descriptor returns the text a symbol is reconstructed from. Symbols
// without one cannot be written.
func descriptor(sym *value.Symbol, class string, k value.Key) (string, error) {
	desc, ok := sym.Description()
	if !ok || desc == "" {
		return "", errors.NonSerializableSymbol(class, k.String())
	}
	return desc, nil
}
