package ast

import "github.com/neopaquet/npc/internal/token"

// Let binds a name to an optional declared type and an optional initializer.
// Missing Type and missing Value together is a semantic error ("cannot
// determine type"); either alone is fine.
type Let struct {
	Name  string
	Type  string // empty if no annotation
	Value Expr   // nil if no initializer
	At    token.Position
}

func (s *Let) Pos() token.Position { return s.At }
func (*Let) stmtNode()             {}

// FnDef declares a top-level function. Its Body contains only statements,
// never nested function or struct declarations.
type FnDef struct {
	Name       string
	Params     []Param
	ReturnType string // empty means "void"
	Body       *Block
	At         token.Position
}

func (s *FnDef) Pos() token.Position { return s.At }
func (*FnDef) stmtNode()             {}

// Return is only valid inside an FnDef body, at any nesting depth.
type Return struct {
	Value Expr // nil for a bare "return"
	At    token.Position
}

func (s *Return) Pos() token.Position { return s.At }
func (*Return) stmtNode()             {}

// If is a conditional with an optional else branch.
type If struct {
	Cond Expr
	Then *Block
	Else *Block // nil if no else branch
	At   token.Position
}

func (s *If) Pos() token.Position { return s.At }
func (*If) stmtNode()             {}

// While loops while Cond evaluates true.
type While struct {
	Cond Expr
	Body *Block
	At   token.Position
}

func (s *While) Pos() token.Position { return s.At }
func (*While) stmtNode()             {}

// For binds Var, of type i32, in a fresh scope for Body. irbuild lowers it
// as a counted loop with Var running from 0 up to the value of Iterable.
// Inference of collection element types beyond i32 is a non-goal.
type For struct {
	Var      string
	Iterable Expr
	Body     *Block
	At       token.Position
}

func (s *For) Pos() token.Position { return s.At }
func (*For) stmtNode()             {}

// Block is a statement sequence that introduces its own lexical scope.
type Block struct {
	Statements []Stmt
	At         token.Position
}

func (s *Block) Pos() token.Position { return s.At }
func (*Block) stmtNode()             {}

// StructDef declares a named record type in the global scope.
type StructDef struct {
	Name   string
	Fields []StructField
	At     token.Position
}

func (s *StructDef) Pos() token.Position { return s.At }
func (*StructDef) stmtNode()             {}

// Import declares a dependency on another module.
type Import struct {
	Module  string
	From    string // empty if absent
	Version string // empty if absent
	Alias   string // empty if absent
	At      token.Position
}

func (s *Import) Pos() token.Position { return s.At }
func (*Import) stmtNode()             {}

// PackageDecl declares the enclosing package's identity, version,
// dependencies and exported names.
type PackageDecl struct {
	Name    string
	Version string
	Deps    []Dependency
	Exports []string
	At      token.Position
}

func (s *PackageDecl) Pos() token.Position { return s.At }
func (*PackageDecl) stmtNode()             {}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	X  Expr
	At token.Position
}

func (s *ExprStmt) Pos() token.Position { return s.At }
func (*ExprStmt) stmtNode()             {}

// Assign rebinds an already-declared name to the value of Expr. In the
// legacy dialect, a literal right-hand side is lowered as a base-12 integer
// constant rather than a base-10 one (see irbuild).
type Assign struct {
	Name string
	Expr Expr
	At   token.Position
}

func (s *Assign) Pos() token.Position { return s.At }
func (*Assign) stmtNode()             {}

// TryCatch models the legacy "try block catch block" construct as a pair of
// blocks. No "errored" sentinel variable is declared for either block, so
// the catch block cannot test whether the try block failed. It has no
// modern-dialect equivalent.
type TryCatch struct {
	Try   *Block
	Catch *Block
	At    token.Position
}

func (s *TryCatch) Pos() token.Position { return s.At }
func (*TryCatch) stmtNode()             {}

// Print lowers to a call to the runtime print primitive with a literal
// string payload. It models both the modern built-in print(...) call and
// the legacy "print [...]" statement form; the parser produces a Print node
// for the legacy spelling and an ExprStmt/Call for the modern one.
type Print struct {
	Text string
	At   token.Position
}

func (s *Print) Pos() token.Position { return s.At }
func (*Print) stmtNode()             {}
