package host

import "fmt"

// KeyKind tags a key record.
type KeyKind uint32

const (
	KeyString  KeyKind = 0
	KeySymbol  KeyKind = 1
	KeyNumeric KeyKind = 2
)

func (k KeyKind) String() string {
	switch k {
	case KeyString:
		return "string"
	case KeySymbol:
		return "symbol"
	case KeyNumeric:
		return "numeric"
	}
	return fmt.Sprintf("KeyKind(%d)", uint32(k))
}

// ValueKind tags a value record.
type ValueKind uint32

const (
	ValuePlain  ValueKind = 0
	ValueSymbol ValueKind = 1
	ValueSelf   ValueKind = 2
)

func (k ValueKind) String() string {
	switch k {
	case ValuePlain:
		return "plain"
	case ValueSymbol:
		return "symbol"
	case ValueSelf:
		return "self"
	}
	return fmt.Sprintf("ValueKind(%d)", uint32(k))
}

// Classification is the outcome of Classify.
type Classification uint8

const (
	Plain Classification = iota
	Host
)

func (c Classification) String() string {
	if c == Host {
		return "host"
	}
	return "plain"
}
