// Package errors provides structured error types for the serialism module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending class, property key, Go type, value path
// and cause chain, so a failure deep inside a nested host object still names
// what went wrong.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindNonSerializableSymbol).
//		Path("config", "flags").
//		Class("Point").
//		Key("Symbol()").
//		Detail("symbol has no descriptor").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.DuplicateClassName("Point")
//	err := errors.UnknownRegisteredClass("Point")
//
// All errors implement the standard error interface and support errors.Is/As.
// A target built with Sentinel matches on Kind alone:
//
//	if errors.IsKind(err, errors.KindUnknownClassDuringClassification) { ... }
package errors
