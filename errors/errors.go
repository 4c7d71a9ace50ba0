package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegister Phase = "register" // class registration
	PhaseClassify Phase = "classify" // host/plain classification
	PhaseEncode   Phase = "encode"   // value to bytes
	PhaseDecode   Phase = "decode"   // bytes to value
	PhaseFrame    Phase = "frame"    // container framing
	PhaseExport   Phase = "export"   // conversion to external formats
)

// Kind categorizes the error
type Kind string

const (
	// Registration
	KindDuplicateClassName               Kind = "duplicate_class_name"
	KindUnnamedClass                     Kind = "unnamed_or_anonymous_class"
	KindProxyClass                       Kind = "proxy_class_not_allowed"
	KindNotAFunction                     Kind = "not_a_function_argument"
	KindNotAConstructor                  Kind = "not_a_constructor"
	KindArgumentRequired                 Kind = "argument_required"
	KindUnsupportedValue                 Kind = "unsupported_value_kind"
	KindNotHostBuffer                    Kind = "not_host_buffer_argument"
	KindCorruptHeader                    Kind = "invalid_or_corrupt_header"
	KindNonSerializableSymbol            Kind = "non_serializable_symbol"
	KindUnknownClassDuringClassification Kind = "unknown_class_during_classification"
	KindUnknownClass                     Kind = "unknown_class"
	KindMalformedClassName               Kind = "malformed_class_name"
	KindUnknownRegisteredClass           Kind = "unknown_registered_class"
	KindUnknownKeyKind                   Kind = "unknown_key_kind"
	KindUnknownValueKind                 Kind = "unknown_value_kind"
	KindSetPropertyFailed                Kind = "set_property_failed"

	// Stream level
	KindInvalidData      Kind = "invalid_data"
	KindTruncated        Kind = "truncated"
	KindOverflow         Kind = "overflow"
	KindInvalidReference Kind = "invalid_reference"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Class  string
	Key    string
	GoType string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Class != "" || e.Key != "" || e.GoType != "" {
		b.WriteString(": ")
		var parts []string
		if e.Class != "" {
			parts = append(parts, "class "+e.Class)
		}
		if e.Key != "" {
			parts = append(parts, "key "+e.Key)
		}
		if e.GoType != "" {
			parts = append(parts, "Go type "+e.GoType)
		}
		b.WriteString(strings.Join(parts, ", "))
	}

	if e.Detail != "" {
		if e.Class != "" || e.Key != "" || e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// An empty Phase on the target matches any phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase != "" && t.Phase != e.Phase {
			return false
		}
		return e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the value path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Class sets the offending class name
func (b *Builder) Class(name string) *Builder {
	b.err.Class = name
	return b
}

// Key sets the offending property key
func (b *Builder) Key(key string) *Builder {
	b.err.Key = key
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Sentinel returns a matcher for errors.Is that ignores the phase.
func Sentinel(kind Kind) *Error {
	return &Error{Kind: kind}
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return stderrors.Is(err, Sentinel(kind))
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Convenience constructors for the registration surface

// DuplicateClassName creates an error for a name bound to a different class
func DuplicateClassName(name string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindDuplicateClassName,
		Class:  name,
		Detail: fmt.Sprintf("a different class with the name '%s' is already registered", name),
	}
}

// UnnamedClass creates an error for a class with no usable name
func UnnamedClass(index int) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindUnnamedClass,
		Detail: fmt.Sprintf("argument %d: class must have a name", index),
		Value:  index,
	}
}

// ProxyClass creates an error for a proxy passed as a class
func ProxyClass(name string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindProxyClass,
		Class:  name,
		Detail: "cannot register a proxy as a class",
	}
}

// NotAFunction creates an error for an argument that is not a function
func NotAFunction(index int) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindNotAFunction,
		Detail: fmt.Sprintf("argument %d: all arguments must be constructor functions", index),
		Value:  index,
	}
}

// NotAConstructor creates an error for a function that cannot construct
func NotAConstructor(name string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindNotAConstructor,
		Class:  name,
		Detail: "argument must be a class",
	}
}

// Call surface

// ArgumentRequired creates an error for a missing argument
func ArgumentRequired(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindArgumentRequired,
		Detail: fmt.Sprintf("%s is required", what),
	}
}

// Unsupported creates a "could not be cloned" error for a value the engine cannot encode
func Unsupported(path []string, goType string, what string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindUnsupportedValue,
		Path:   path,
		GoType: goType,
		Detail: fmt.Sprintf("data clone error: %s could not be cloned", what),
	}
}

// NotHostBuffer creates an error for a missing input buffer
func NotHostBuffer() *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindNotHostBuffer,
		Detail: "argument must be a byte buffer",
	}
}

// CorruptHeader creates an invalid header error
func CorruptHeader(detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindCorruptHeader,
		Detail: detail,
	}
}

// Host layer

// NonSerializableSymbol creates an error for a symbol without a descriptor
func NonSerializableSymbol(class, key string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindNonSerializableSymbol,
		Class:  class,
		Key:    key,
		Detail: "failed to serialize a non-serializable value: Symbol",
	}
}

// UnknownClassDuringClassification creates an error for an unregistered custom type
func UnknownClassDuringClassification(name string) *Error {
	return &Error{
		Phase:  PhaseClassify,
		Kind:   KindUnknownClassDuringClassification,
		Class:  name,
		Detail: "no registered class found for " + name,
	}
}

// UnknownClass creates an internal consistency error for a host object whose class vanished
func UnknownClass(name string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindUnknownClass,
		Class:  name,
		Detail: "no constructor found for object",
	}
}

// MalformedClassName creates an error for a class marker that is not a string
func MalformedClassName(got string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMalformedClassName,
		GoType: got,
		Detail: "deserialized class name is not a string",
	}
}

// UnknownRegisteredClass creates an error for a class name absent from the registry
func UnknownRegisteredClass(name string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownRegisteredClass,
		Class:  name,
		Detail: "no registered class found for: " + name,
	}
}

// UnknownKeyKind creates an error for an unrecognised key tag
func UnknownKeyKind(kind uint32, index uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownKeyKind,
		Detail: fmt.Sprintf("unknown key kind %d at property %d", kind, index),
		Value:  kind,
	}
}

// UnknownValueKind creates an error for an unrecognised value tag
func UnknownValueKind(kind uint32, key string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownValueKind,
		Key:    key,
		Detail: fmt.Sprintf("unknown value kind: %d", kind),
		Value:  kind,
	}
}

// SetPropertyFailed creates an error for a property the target refused
func SetPropertyFailed(class string, index uint32, key string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindSetPropertyFailed,
		Class:  class,
		Key:    key,
		Detail: fmt.Sprintf("failed to set property %d", index),
		Value:  index,
	}
}

// Stream level

// Truncated creates an error for input that ended early
func Truncated(phase Phase, offset int, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncated,
		Detail: fmt.Sprintf("unexpected end of data at offset %d", offset),
		Cause:  cause,
		Value:  offset,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Overflow creates an error for a limit that was exceeded
func Overflow(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: detail,
	}
}

// InvalidReference creates an error for a back-reference to an unknown object
func InvalidReference(id uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidReference,
		Detail: fmt.Sprintf("reference to unknown object id %d", id),
		Value:  id,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
