package sema

// ScopeID addresses a Scope within an Arena. The zero value is the global
// scope.
type ScopeID int

const noParent ScopeID = -1

// Scope is a symbol-visibility region tied to a lexical construct: a
// function body, a block, or an if/while/for's body. Scopes hold a parent
// link and a name-to-symbol mapping; lookup walks the parent chain.
type Scope struct {
	parent ScopeID
	syms   map[string]Symbol
	order  []string // insertion order, for deterministic iteration
}

// Arena owns every Scope created during one analysis pass. Scopes have a
// purely linear lifetime (created on entering a construct, discarded on
// leaving it, never referenced afterwards), so an arena of scopes addressed
// by integer index is simpler and cheaper than reference-counted nodes with
// weak parent pointers.
type Arena struct {
	scopes []*Scope
}

// NewArena creates an Arena seeded with one global scope (ScopeID 0).
func NewArena() *Arena {
	a := &Arena{}
	a.scopes = append(a.scopes, &Scope{parent: noParent, syms: make(map[string]Symbol)})
	return a
}

// Global returns the global scope's ID.
func (a *Arena) Global() ScopeID { return 0 }

// New creates a fresh child scope of parent and returns its ID.
func (a *Arena) New(parent ScopeID) ScopeID {
	a.scopes = append(a.scopes, &Scope{parent: parent, syms: make(map[string]Symbol)})
	return ScopeID(len(a.scopes) - 1)
}

func (a *Arena) scope(id ScopeID) *Scope {
	return a.scopes[id]
}

// Define inserts sym into scope id under its own name. It returns false if
// a symbol with that name is already present in that exact scope;
// shadowing across scopes is always permitted.
func (a *Arena) Define(id ScopeID, sym Symbol) bool {
	s := a.scope(id)
	name := sym.symbolName()
	if _, exists := s.syms[name]; exists {
		return false
	}
	s.syms[name] = sym
	s.order = append(s.order, name)
	return true
}

// Lookup walks the parent chain from id looking for name, returning nil if
// not found anywhere.
func (a *Arena) Lookup(id ScopeID, name string) Symbol {
	for cur := id; cur != noParent; cur = a.scope(cur).parent {
		if sym, ok := a.scope(cur).syms[name]; ok {
			return sym
		}
	}
	return nil
}

// MarkUsed looks up name from id and marks its symbol used, if found.
func (a *Arena) MarkUsed(id ScopeID, name string) {
	if sym := a.Lookup(id, name); sym != nil {
		sym.markUsed()
	}
}

// GlobalValueSymbols returns every ValueSymbol defined directly in the
// global scope, in insertion order, for the unused-symbol pass. Functions
// and structs are excluded: only plain value bindings are ever reported as
// unused.
func (a *Arena) GlobalValueSymbols() []*ValueSymbol {
	g := a.scope(a.Global())
	out := make([]*ValueSymbol, 0, len(g.order))
	for _, name := range g.order {
		if vs, ok := g.syms[name].(*ValueSymbol); ok {
			out = append(out, vs)
		}
	}
	return out
}
