package ast

import "fmt"

// Tag is the legacy dodecagram (base-12) label attached to an AST variant.
// The mapping is fixed and bijective per the unified grammar: implementers
// MUST use §3.3's variant names as the canonical form and treat Tag only as
// an alternative serialization for debug dumps, never as a dispatch key —
// the source compiler's two independent dispatch conventions ("visit_*"
// methods vs. lowercase-after-underscore dodecagram names) disagree for
// Ident and Literal, which is exactly the ambiguity this type avoids by
// keeping tag assignment a pure function of the already-resolved Go type.
type Tag rune

const (
	TagProgram Tag = '0'
	TagDecl    Tag = '1'
	TagStmt    Tag = '2'
	TagExpr    Tag = '3'
	TagIdent   Tag = '4'
	TagLiteral Tag = '5'
	TagFunc    Tag = '6'
	TagBlock   Tag = '7'
	TagTry     Tag = '8'
	TagCatch   Tag = '9'
	TagLoop    Tag = 'a'
	TagIf      Tag = 'b'
)

// TagOf returns the dodecagram tag of an AST node: TagDecl for StructDef,
// Import and PackageDecl, and TagStmt for any other statement variant that
// has no more specific legacy tag (Let, Assign, Return, Print, ExprStmt).
func TagOf(n Node) Tag {
	switch n.(type) {
	case *Program:
		return TagProgram
	case *FnDef:
		return TagFunc
	case *Block:
		return TagBlock
	case *If:
		return TagIf
	case *While, *For:
		return TagLoop
	case *TryCatch:
		return TagTry
	case *Ident:
		return TagIdent
	case *Literal:
		return TagLiteral
	case *BinaryOp, *UnaryOp, *Call, *Member:
		return TagExpr
	case *StructDef, *Import, *PackageDecl:
		return TagDecl
	default:
		return TagStmt
	}
}

func (t Tag) String() string {
	return fmt.Sprintf("%c", rune(t))
}
