package ast

import "github.com/neopaquet/npc/internal/token"

// Literal is an integer, float, string or boolean constant. InferredKind is
// set by the lexer/parser at construction time, not by sema. Raw preserves
// the original source lexeme for Integer literals so that irbuild can
// re-parse it in base 12 when lowering a legacy-dialect Assign or Return,
// per the historical dodecagram numeral quirk (see irbuild).
type Literal struct {
	Value interface{} // int64, float64, string, or bool
	Raw   string       // original lexeme, set for Integer literals
	Kind  Kind
	At    token.Position
}

func (e *Literal) Pos() token.Position  { return e.At }
func (*Literal) exprNode()              {}
func (e *Literal) InferredKind() Kind   { return e.Kind }

// Ident references a bound name: a variable, parameter, function or struct.
type Ident struct {
	Name string
	At   token.Position
}

func (e *Ident) Pos() token.Position  { return e.At }
func (*Ident) exprNode()              {}
func (e *Ident) InferredKind() Kind   { return KindUnknown }

// BinaryOp is a left-associative binary operator application.
type BinaryOp struct {
	Op    token.Kind
	Left  Expr
	Right Expr
	At    token.Position
}

func (e *BinaryOp) Pos() token.Position  { return e.At }
func (*BinaryOp) exprNode()              {}
func (e *BinaryOp) InferredKind() Kind   { return KindUnknown }

// UnaryOp is a right-associative unary operator application.
type UnaryOp struct {
	Op      token.Kind
	Operand Expr
	At      token.Position
}

func (e *UnaryOp) Pos() token.Position  { return e.At }
func (*UnaryOp) exprNode()              {}
func (e *UnaryOp) InferredKind() Kind   { return KindUnknown }

// Call applies Callee to Args; Callee is resolved to a FunctionSymbol during
// semantic analysis.
type Call struct {
	Callee Expr
	Args   []Expr
	At     token.Position
}

func (e *Call) Pos() token.Position  { return e.At }
func (*Call) exprNode()              {}
func (e *Call) InferredKind() Kind   { return KindUnknown }

// Member accesses a field of a struct-typed expression.
type Member struct {
	Object Expr
	Field  string
	At     token.Position
}

func (e *Member) Pos() token.Position  { return e.At }
func (*Member) exprNode()              {}
func (e *Member) InferredKind() Kind   { return KindUnknown }
