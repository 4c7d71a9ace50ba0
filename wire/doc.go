// Package wire is the generic value engine: a tagged binary encoding of the
// value model with back-references for shared and cyclic objects.
//
// Objects that need custom handling are routed through a Delegate. The
// engine asks the delegate whether an object is a host object; if so it
// writes a host tag and hands the delegate a HostWriter, and on decode a
// HostReader. The delegate never sees engine internals.
//
// Layout:
//
//	header   0xFF, LEB128 version
//	value    tag byte, payload
//
// Every object-like value (array, map, set, object, regexp, host object)
// is assigned an id when first written. Later occurrences are written as a
// back-reference to that id. On decode, the slot for an id is reserved
// before the object's contents are read, so references into an object
// under construction resolve to it.
package wire
