package value

import "sync"

// Symbol is a unique identity-bearing value with an optional description.
type Symbol struct {
	desc    string
	hasDesc bool
	global  bool
}

// SymbolTable interns symbols by description. A table only grows: every
// symbol it hands out stays registered until the table itself is dropped.
type SymbolTable struct {
	mu      sync.Mutex
	symbols map[string]*Symbol
}

// NewSymbolTable creates an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// For returns the symbol registered under desc, creating it on first use.
func (t *SymbolTable) For(desc string) *Symbol {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.symbols[desc]; ok {
		return s
	}
	s := &Symbol{desc: desc, hasDesc: true, global: true}
	t.symbols[desc] = s
	return s
}

// Len returns the number of interned symbols.
func (t *SymbolTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.symbols)
}

var globalSymbols = NewSymbolTable()

// NewSymbol creates a fresh symbol with a description.
func NewSymbol(desc string) *Symbol {
	return &Symbol{desc: desc, hasDesc: true}
}

// NewAnonymousSymbol creates a fresh symbol without a description.
func NewAnonymousSymbol() *Symbol {
	return &Symbol{}
}

// SymbolFor returns the symbol registered under desc in the process-wide
// table. Entries live as long as the process. Decoders that read untrusted
// input should intern into their own SymbolTable.
func SymbolFor(desc string) *Symbol {
	return globalSymbols.For(desc)
}

// Description returns the description and whether one was given.
func (s *Symbol) Description() (string, bool) {
	return s.desc, s.hasDesc
}

// IsGlobal reports whether s was interned by a SymbolTable.
func (s *Symbol) IsGlobal() bool {
	return s.global
}

func (s *Symbol) String() string {
	return "Symbol(" + s.desc + ")"
}
