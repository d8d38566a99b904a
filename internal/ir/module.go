package ir

import "strconv"

// ExternDecl is an external function the module calls but does not define,
// such as libc's printf.
type ExternDecl struct {
	Name       string
	ParamTypes []Type
	Variadic   bool
	RetType    Type
}

// GlobalConst is an interned, immutable global, used to hold the bytes of
// string literals that Print statements and string-typed expressions
// reference.
type GlobalConst struct {
	Name  string
	Bytes []byte // includes the trailing NUL
}

// Param is a function parameter.
type Param struct {
	Name string
	Typ  Type
}

// Block is a basic block: a straight-line run of Instrs ending in exactly
// one Term. Term is nil only while the block is still being built.
type Block struct {
	Label  string
	Instrs []Instr
	Term   Terminator
}

// Append adds a non-terminating instruction to the block.
func (b *Block) Append(i Instr) {
	b.Instrs = append(b.Instrs, i)
}

// Terminated reports whether the block already has a terminator.
func (b *Block) Terminated() bool {
	return b.Term != nil
}

// Function is an IR function: a name, parameters, a return type, and the
// basic blocks that make up its body. Blocks[0] is always the entry block.
type Function struct {
	Name    string
	Params  []Param
	RetType Type
	Blocks  []*Block

	next int // counter feeding NewTemp/NewBlock
}

// NewBlock creates and appends a fresh block with a unique label derived
// from hint, and returns it.
func (f *Function) NewBlock(hint string) *Block {
	b := &Block{Label: f.freshName(hint)}
	f.Blocks = append(f.Blocks, b)
	return b
}

// NewTemp returns a fresh SSA-style local name derived from hint, suitable
// for an instruction's Result field.
func (f *Function) NewTemp(hint string) string {
	return f.freshName(hint)
}

func (f *Function) freshName(hint string) string {
	f.next++
	if hint == "" {
		hint = "t"
	}
	return hint + "." + strconv.Itoa(f.next)
}

// Entry returns the function's entry block.
func (f *Function) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// Module is the complete lowered translation unit irbuild produces from one
// Program: the externs it needs, the interned string globals, and the
// functions it defines (always including main for a legacy src…run block).
type Module struct {
	Externs []ExternDecl
	Globals []GlobalConst
	Funcs   []*Function

	strings map[string]string // literal value -> interned global name
	nextStr int
}

// NewModule returns an empty Module ready for irbuild to populate.
func NewModule() *Module {
	return &Module{strings: make(map[string]string)}
}

// InternString returns the GlobalStringRef for s, creating and appending a
// new GlobalConst the first time s is seen and reusing it on every later
// call with an equal value.
func (m *Module) InternString(s string) GlobalStringRef {
	if name, ok := m.strings[s]; ok {
		return GlobalStringRef{Name: name, Len: len(s) + 1}
	}
	m.nextStr++
	name := ".str." + strconv.Itoa(m.nextStr)
	m.strings[s] = name
	b := make([]byte, 0, len(s)+1)
	b = append(b, s...)
	b = append(b, 0)
	m.Globals = append(m.Globals, GlobalConst{Name: name, Bytes: b})
	return GlobalStringRef{Name: name, Len: len(b)}
}

// DeclareExtern adds decl unless an extern of the same name is already
// present.
func (m *Module) DeclareExtern(decl ExternDecl) {
	for _, e := range m.Externs {
		if e.Name == decl.Name {
			return
		}
	}
	m.Externs = append(m.Externs, decl)
}
