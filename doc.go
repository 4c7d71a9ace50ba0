// Package serialism serializes object graphs without losing class identity.
//
// Objects created from a registered class come back as instances of that
// class. Self-references, shared objects and symbol-keyed properties
// survive the round trip.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	serialism/           Root package: Serialism, options, framed helpers
//	├── value/           Dynamic object model: objects, classes, symbols, keys
//	├── registry/        Name ⇄ class descriptor registry
//	├── host/            Host-object classification and envelope codec
//	├── wire/            Generic tagged value engine with back-references
//	├── frame/           Compressed, checksummed container
//	├── export/          JSON, YAML and CBOR views of decoded graphs
//	├── errors/          Structured error types for debugging
//	└── cmd/serialism/   Command line inspector
//
// # Quick Start
//
//	point := value.NewClass("Point")
//
//	s, err := serialism.New().Register(point)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p := value.New(point)
//	p.SetProp("x", 1.0)
//	p.SetProp("ref", p)
//
//	data, err := s.Serialize(p)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	back, err := s.Deserialize(data)
//	q := back.(*value.Object)
//	q.InstanceOf(point)   // true
//	ref, _ := q.Prop("ref")
//	ref == q              // true
//
// # Classification
//
// An object is written as a host object when any own key or own value is a
// symbol, or when its class is registered. An object whose class is not
// registered fails the whole call; nothing is written.
//
// # Symbols
//
// Symbols are written by description and recreated with value.SymbolFor.
// Interned symbols keep their identity across a round trip; other symbols
// keep only their description. The process-wide table never releases its
// entries, so decoders of untrusted input should pass WithSymbolTable and
// drop the table with the instance. Symbols without a description cannot be
// written.
//
// # Thread Safety
//
// Serialism is safe for concurrent use. Register takes an exclusive lock,
// Serialize and Deserialize share one.
package serialism
