package value

import (
	"math"
	"strconv"
)

// KeyKind distinguishes the three property key shapes.
type KeyKind uint8

const (
	KeyString KeyKind = iota
	KeyIndex
	KeySymbol
)

// MaxIndex is the largest integer treated as an array index.
const MaxIndex = math.MaxUint32 - 1

// Key is a property key. The zero value is the empty string key.
// Keys are comparable and may be used as map keys.
type Key struct {
	sym   *Symbol
	str   string
	index uint32
	kind  KeyKind
}

// StringKey returns a key for s. Canonical array index strings such as "3"
// become index keys.
func StringKey(s string) Key {
	if n, ok := parseIndex(s); ok {
		return IndexKey(n)
	}
	return Key{kind: KeyString, str: s}
}

// IndexKey returns an integer index key.
func IndexKey(n uint32) Key {
	return Key{kind: KeyIndex, index: n}
}

// NumberKey returns the key a numeric property name converts to.
// Integers in index range become index keys, -0 included.
func NumberKey(f float64) Key {
	if f >= 0 && f <= MaxIndex && f == math.Trunc(f) {
		return IndexKey(uint32(f))
	}
	return Key{kind: KeyString, str: FormatNumber(f)}
}

// SymbolKey returns a symbol-keyed property key.
func SymbolKey(s *Symbol) Key {
	return Key{kind: KeySymbol, sym: s}
}

// Kind returns the key shape.
func (k Key) Kind() KeyKind { return k.kind }

// IsSymbol reports whether k is symbol-keyed.
func (k Key) IsSymbol() bool { return k.kind == KeySymbol }

// Index returns the index of an index key.
func (k Key) Index() (uint32, bool) {
	return k.index, k.kind == KeyIndex
}

// Symbol returns the symbol of a symbol key.
func (k Key) Symbol() (*Symbol, bool) {
	return k.sym, k.kind == KeySymbol
}

// Name returns the property name of a string or index key.
func (k Key) Name() string {
	switch k.kind {
	case KeyIndex:
		return strconv.FormatUint(uint64(k.index), 10)
	case KeySymbol:
		return ""
	}
	return k.str
}

func (k Key) String() string {
	if k.kind == KeySymbol {
		return "[" + k.sym.String() + "]"
	}
	return k.Name()
}

func parseIndex(s string) (uint32, bool) {
	if s == "" || len(s) > 10 {
		return 0, false
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n > MaxIndex {
		return 0, false
	}
	return uint32(n), true
}
