package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseEncode,
				Kind:   KindNonSerializableSymbol,
				Path:   []string{"config", "flags"},
				Class:  "Point",
				Key:    "Symbol()",
				Detail: "no descriptor",
			},
			contains: []string{"[encode]", "non_serializable_symbol", "config.flags", "class Point", "key Symbol()", "no descriptor"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindTruncated,
			},
			contains: []string{"[decode]", "truncated"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseFrame,
				Kind:   KindInvalidData,
				Detail: "digest mismatch",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[frame]", "invalid_data", "digest mismatch", "caused by", "underlying error"},
		},
		{
			name: "go type only",
			err: &Error{
				Phase:  PhaseEncode,
				Kind:   KindUnsupportedValue,
				GoType: "func()",
				Detail: "could not be cloned",
			},
			contains: []string{"Go type func()", " - could not be cloned"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindUnknownRegisteredClass,
		Class: "Point",
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindUnknownRegisteredClass}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseEncode, Kind: KindUnknownRegisteredClass}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseDecode, Kind: KindUnknownClass}) {
		t.Error("Is should not match different kind")
	}

	if !errors.Is(err, Sentinel(KindUnknownRegisteredClass)) {
		t.Error("Sentinel should match regardless of phase")
	}
}

func TestIsKind_Wrapped(t *testing.T) {
	inner := UnknownClassDuringClassification("Widget")
	wrapped := fmt.Errorf("serialize: %w", inner)

	if !IsKind(wrapped, KindUnknownClassDuringClassification) {
		t.Fatal("IsKind should see through fmt wrapping")
	}
	if IsKind(wrapped, KindUnknownClass) {
		t.Fatal("IsKind matched the wrong kind")
	}

	kind, ok := KindOf(wrapped)
	if !ok || kind != KindUnknownClassDuringClassification {
		t.Fatalf("KindOf = %q, %v", kind, ok)
	}

	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatal("KindOf should not find a kind in a plain error")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindNonSerializableSymbol).
		Path("user", "tags").
		Class("User").
		Key("Symbol()").
		GoType("*value.Symbol").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "descriptor", "none").
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindNonSerializableSymbol {
		t.Errorf("Kind = %v, want %v", err.Kind, KindNonSerializableSymbol)
	}
	if len(err.Path) != 2 || err.Path[0] != "user" || err.Path[1] != "tags" {
		t.Errorf("Path = %v, want [user tags]", err.Path)
	}
	if err.Class != "User" {
		t.Errorf("Class = %v, want 'User'", err.Class)
	}
	if err.Key != "Symbol()" {
		t.Errorf("Key = %v, want 'Symbol()'", err.Key)
	}
	if err.GoType != "*value.Symbol" {
		t.Errorf("GoType = %v, want '*value.Symbol'", err.GoType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected descriptor, got none" {
		t.Errorf("Detail = %v, want 'expected descriptor, got none'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		err      *Error
		name     string
		phase    Phase
		kind     Kind
		contains string
	}{
		{DuplicateClassName("TestDummy"), "DuplicateClassName", PhaseRegister, KindDuplicateClassName, "a different class with the name 'TestDummy'"},
		{UnnamedClass(2), "UnnamedClass", PhaseRegister, KindUnnamedClass, "argument 2"},
		{ProxyClass("P"), "ProxyClass", PhaseRegister, KindProxyClass, "proxy"},
		{NotAFunction(0), "NotAFunction", PhaseRegister, KindNotAFunction, "constructor functions"},
		{NotAConstructor("f"), "NotAConstructor", PhaseRegister, KindNotAConstructor, "must be a class"},
		{ArgumentRequired(PhaseEncode, "writer"), "ArgumentRequired", PhaseEncode, KindArgumentRequired, "writer is required"},
		{Unsupported([]string{"fn"}, "func()", "function"), "Unsupported", PhaseEncode, KindUnsupportedValue, "could not be cloned"},
		{NotHostBuffer(), "NotHostBuffer", PhaseDecode, KindNotHostBuffer, "byte buffer"},
		{CorruptHeader("bad magic"), "CorruptHeader", PhaseDecode, KindCorruptHeader, "bad magic"},
		{NonSerializableSymbol("Point", "Symbol()"), "NonSerializableSymbol", PhaseEncode, KindNonSerializableSymbol, "Symbol"},
		{UnknownClassDuringClassification("A"), "UnknownClassDuringClassification", PhaseClassify, KindUnknownClassDuringClassification, "no registered class found for A"},
		{UnknownClass("A"), "UnknownClass", PhaseEncode, KindUnknownClass, "no constructor found"},
		{MalformedClassName("float64"), "MalformedClassName", PhaseDecode, KindMalformedClassName, "not a string"},
		{UnknownRegisteredClass("TestDummy2"), "UnknownRegisteredClass", PhaseDecode, KindUnknownRegisteredClass, "no registered class found for: TestDummy2"},
		{UnknownKeyKind(9, 1), "UnknownKeyKind", PhaseDecode, KindUnknownKeyKind, "unknown key kind 9"},
		{UnknownValueKind(7, "x"), "UnknownValueKind", PhaseDecode, KindUnknownValueKind, "unknown value kind: 7"},
		{SetPropertyFailed("Point", 3, "kind"), "SetPropertyFailed", PhaseDecode, KindSetPropertyFailed, "failed to set property 3"},
		{Truncated(PhaseDecode, 17, nil), "Truncated", PhaseDecode, KindTruncated, "offset 17"},
		{InvalidData(PhaseDecode, nil, "bad tag"), "InvalidData", PhaseDecode, KindInvalidData, "bad tag"},
		{Overflow(PhaseEncode, nil, "depth 65 exceeds limit 64"), "Overflow", PhaseEncode, KindOverflow, "exceeds limit"},
		{InvalidReference(4), "InvalidReference", PhaseDecode, KindInvalidReference, "object id 4"},
		{Wrap(PhaseFrame, KindInvalidData, errors.New("x"), "decompress"), "Wrap", PhaseFrame, KindInvalidData, "decompress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("Phase = %v, want %v", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("message %q does not contain %q", tt.err.Error(), tt.contains)
			}
		})
	}
}
