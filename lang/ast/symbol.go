package ast

import "github.com/gogpu/effectfx/lang/token"

// SymbolID indexes into SymbolTable.symbols; it never changes, so nodes
// (LValue, Call) can hold one even as scopes come and go.
type SymbolID int32

const InvalidSymbol SymbolID = -1

// SymbolKind is the discriminant of the {struct, variable, function}
// variant described in spec.md §3.
type SymbolKind int

const (
	SymStruct SymbolKind = iota
	SymVariable
	SymFunction
)

// Symbol is a name bound in some scope. Variables and functions point back
// at their declaring node; structs point at the same node as their Type's
// Definition.
type Symbol struct {
	Kind  SymbolKind
	Name  string
	Loc   token.Location
	Node  NodeIndex
	Depth int
}

type scopeEntry struct {
	depth int
	id    SymbolID
}

// SymbolTable is a stack of scopes indexed by current depth, backed by a
// flat name->entries map per spec.md §9: leave_scope drops every entry
// whose depth >= the scope being left, which is O(1) amortised per entry
// rather than per lookup.
type SymbolTable struct {
	symbols []Symbol
	byName  map[string][]scopeEntry
	depth   int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byName: make(map[string][]scopeEntry)}
}

// EnterScope increases the current depth.
func (t *SymbolTable) EnterScope() { t.depth++ }

// LeaveScope pops every entry inserted at or below the current depth, then
// decrements it.
func (t *SymbolTable) LeaveScope() {
	for name, entries := range t.byName {
		i := len(entries)
		for i > 0 && entries[i-1].depth >= t.depth {
			i--
		}
		if i == 0 {
			delete(t.byName, name)
		} else if i != len(entries) {
			t.byName[name] = entries[:i]
		}
	}
	if t.depth > 0 {
		t.depth--
	}
}

// Depth returns the current scope depth (0 = global).
func (t *SymbolTable) Depth() int { return t.depth }

// Insert adds a new symbol at the current depth. When exclusive is true
// (structs, variables — not functions) a same-name symbol already present
// in the current scope causes Insert to fail and return the existing ID.
// Functions always succeed so overloads can coexist (spec.md §3).
func (t *SymbolTable) Insert(sym Symbol, exclusive bool) (SymbolID, bool) {
	sym.Depth = t.depth
	if exclusive {
		for _, e := range t.byName[sym.Name] {
			if e.depth == t.depth {
				existing := t.symbols[e.id]
				if existing.Kind != SymFunction {
					return e.id, false
				}
			}
		}
	}
	id := SymbolID(len(t.symbols))
	t.symbols = append(t.symbols, sym)
	t.byName[sym.Name] = append(t.byName[sym.Name], scopeEntry{depth: t.depth, id: id})
	return id, true
}

// Lookup returns the innermost-scope symbol for name, walking outward.
// Among same-depth entries for a name (only possible for function
// overloads) the most recently inserted one is returned; Lookup does not
// filter by symbol kind. Overload resolution itself inspects LookupAll.
func (t *SymbolTable) Lookup(name string) (SymbolID, bool) {
	entries := t.byName[name]
	if len(entries) == 0 {
		return InvalidSymbol, false
	}
	best := entries[len(entries)-1]
	return best.id, true
}

// LookupAll returns every symbol bound to name across all visible scopes,
// innermost-scope entries first. Used by call resolution to collect every
// overload of a function name.
func (t *SymbolTable) LookupAll(name string) []SymbolID {
	entries := t.byName[name]
	ids := make([]SymbolID, len(entries))
	for i, e := range entries {
		// reverse so innermost/most-recent comes first
		ids[len(entries)-1-i] = e.id
	}
	return ids
}

// Get dereferences a SymbolID.
func (t *SymbolTable) Get(id SymbolID) Symbol {
	return t.symbols[id]
}
