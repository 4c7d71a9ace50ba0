package value

import (
	"fmt"
	"math/big"
	"reflect"
	"time"
)

// UndefinedType is the type of Undefined.
type UndefinedType struct{}

// Undefined is the undefined value. Compare with ==.
var Undefined = UndefinedType{}

func (UndefinedType) String() string { return "undefined" }

// IsUndefined reports whether v is Undefined.
func IsUndefined(v any) bool {
	_, ok := v.(UndefinedType)
	return ok
}

// RegExp is a regular expression literal. It is not compiled.
type RegExp struct {
	Source string
	Flags  string
}

// NewRegExp creates a regular expression value.
func NewRegExp(source, flags string) *RegExp {
	return &RegExp{Source: source, Flags: flags}
}

func (r *RegExp) String() string {
	return "/" + r.Source + "/" + r.Flags
}

// TypeName returns a short description of v for diagnostics.
// Objects with a class report the class name.
func TypeName(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case UndefinedType:
		return "undefined"
	case bool:
		return "boolean"
	case string:
		return "string"
	case *big.Int:
		return "bigint"
	case time.Time:
		return "Date"
	case []byte:
		return "ArrayBuffer"
	case *RegExp:
		return "RegExp"
	case *Symbol:
		return "symbol"
	case *Array, []any:
		return "Array"
	case *Map:
		return "Map"
	case *Set:
		return "Set"
	case *Class:
		return "function " + x.Name()
	case *Object:
		if c := x.Constructor(); c != nil {
			return c.Name()
		}
		if x.HasNullPrototype() {
			return "null-prototype object"
		}
		return "Object"
	case map[string]any:
		return "Object"
	}
	if _, ok := ToNumber(v); ok {
		return "number"
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func {
		return "function"
	}
	return fmt.Sprintf("%T", v)
}
