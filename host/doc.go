// Package host implements the host-object layer: the classification rule
// that decides which objects need class-preserving treatment, and the
// envelope those objects are written in.
//
// Envelope layout, written through a wire.HostWriter:
//
//	className   generic value: undefined (base prototype), null (no
//	            prototype) or the registered class name
//	count       u32
//	properties  count × (key record, value record)
//
//	key record    u32 kind, then
//	              String   generic string value
//	              Symbol   descriptor as a generic string value
//	              Numeric  float64
//
//	value record  u32 kind, then
//	              Plain    generic value
//	              Symbol   descriptor as a generic string value
//	              Self     nothing; the object being written
//
// Symbols survive only by their descriptor. They are recreated through the
// decoder's value.SymbolTable, or value.SymbolFor when none is set, so
// interned symbols keep their identity and others do not.
package host
