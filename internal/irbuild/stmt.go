package irbuild

import (
	"strconv"

	"github.com/neopaquet/npc/internal/ast"
	"github.com/neopaquet/npc/internal/ir"
)

// genBlock lowers every statement of blk in order, introducing a fresh
// scope for the names it declares.
func (b *builder) genBlock(blk *ast.Block) {
	b.pushScope()
	for _, s := range blk.Statements {
		b.genStmt(s)
	}
	b.popScope()
}

func (b *builder) genStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		b.genBlock(n)
	case *ast.Let:
		b.genLet(n)
	case *ast.Assign:
		b.genAssign(n)
	case *ast.Return:
		b.genReturn(n)
	case *ast.If:
		b.genIf(n)
	case *ast.While:
		b.genWhile(n)
	case *ast.For:
		b.genFor(n)
	case *ast.Print:
		b.genPrint(n)
	case *ast.ExprStmt:
		b.genExpr(n.X)
	case *ast.TryCatch:
		b.genTryCatch(n)
	case *ast.FnDef, *ast.StructDef, *ast.Import, *ast.PackageDecl:
		// Rejected by sema outside top level; nothing to lower here.
	}
}

func (b *builder) genLet(n *ast.Let) {
	typ := n.Type
	if typ == "" {
		typ = inferLetType(n.Value)
	}
	t := irType(typ)
	ptr := b.alloca(n.Name, t)
	b.bind(n.Name, ptr)
	if n.Value != nil {
		v := b.genExpr(n.Value)
		b.emit(&ir.Store{Val: v, Ptr: ptr})
	}
}

// inferLetType falls back to the literal/identifier's own syntactic kind
// when a Let carries no type annotation; sema has already confirmed this is
// resolvable, so a best-effort guess here only affects codegen, not
// validity.
func inferLetType(e ast.Expr) string {
	if lit, ok := e.(*ast.Literal); ok {
		switch lit.Kind {
		case ast.KindI32:
			return "i32"
		case ast.KindF64:
			return "f64"
		case ast.KindString:
			return "String"
		case ast.KindBool:
			return "bool"
		}
	}
	return "i32"
}

// genAssign rebinds an existing name. Per the historical dodecagram
// numeral quirk, a legacy-dialect Assign whose right-hand side is a bare
// integer literal stores the literal's base-12 re-parse of its original
// lexeme rather than the base-10 value the parser already computed for
// general expression context; Literal.Raw carries that lexeme forward for
// exactly this purpose.
func (b *builder) genAssign(n *ast.Assign) {
	ptr, ok := b.resolve(n.Name)
	if !ok {
		return // undeclared name already reported by sema
	}
	var v ir.Value
	if lit, ok := n.Expr.(*ast.Literal); ok && lit.Kind == ast.KindI32 && lit.Raw != "" {
		if iv, err := strconv.ParseInt(lit.Raw, 12, 64); err == nil {
			v = ir.ConstInt{Val: iv, Typ: ir.I32}
		}
	}
	if v == nil {
		v = b.genExpr(n.Expr)
	}
	b.emit(&ir.Store{Val: v, Ptr: ptr})
}

func (b *builder) genReturn(n *ast.Return) {
	if n.Value == nil {
		b.cur.Term = &ir.RetVoid{}
		return
	}
	var v ir.Value
	if lit, ok := n.Value.(*ast.Literal); ok && lit.Kind == ast.KindI32 && lit.Raw != "" {
		if iv, err := strconv.ParseInt(lit.Raw, 12, 64); err == nil {
			v = ir.ConstInt{Val: iv, Typ: ir.I32}
		}
	}
	if v == nil {
		v = b.genExpr(n.Value)
	}
	b.cur.Term = &ir.Ret{Val: v}
}

func (b *builder) genIf(n *ast.If) {
	cond := b.genExpr(n.Cond)
	thenBlk := b.fn.NewBlock("if.then")
	var elseBlk, mergeBlk *ir.Block
	if n.Else != nil {
		elseBlk = b.fn.NewBlock("if.else")
	}
	mergeBlk = b.fn.NewBlock("if.merge")

	target := elseBlk
	if target == nil {
		target = mergeBlk
	}
	b.cur.Term = &ir.CondBr{Cond: cond, True: thenBlk.Label, False: target.Label}

	b.cur = thenBlk
	b.genBlock(n.Then)
	if !b.cur.Terminated() {
		b.cur.Term = &ir.Br{Target: mergeBlk.Label}
	}

	if n.Else != nil {
		b.cur = elseBlk
		b.genBlock(n.Else)
		if !b.cur.Terminated() {
			b.cur.Term = &ir.Br{Target: mergeBlk.Label}
		}
	}

	b.cur = mergeBlk
}

func (b *builder) genWhile(n *ast.While) {
	head := b.fn.NewBlock("while.head")
	body := b.fn.NewBlock("while.body")
	exit := b.fn.NewBlock("while.exit")

	if !b.cur.Terminated() {
		b.cur.Term = &ir.Br{Target: head.Label}
	}

	b.cur = head
	cond := b.genExpr(n.Cond)
	b.cur.Term = &ir.CondBr{Cond: cond, True: body.Label, False: exit.Label}

	b.cur = body
	b.genBlock(n.Body)
	if !b.cur.Terminated() {
		b.cur.Term = &ir.Br{Target: head.Label}
	}

	b.cur = exit
}

// genFor treats the bound variable as an i32 index, since inference of
// collection element types is out of scope; it lowers the same as a counted
// while loop from 0 up to, but not including, the iterable expression's
// value, which callers supply as an i32 bound (e.g. "for i n { … }").
func (b *builder) genFor(n *ast.For) {
	bound := b.genExpr(n.Iterable)
	idxPtr := b.alloca(n.Var, ir.I32)
	b.bind(n.Var, idxPtr)
	b.emit(&ir.Store{Val: ir.ConstInt{Val: 0, Typ: ir.I32}, Ptr: idxPtr})

	head := b.fn.NewBlock("for.head")
	body := b.fn.NewBlock("for.body")
	exit := b.fn.NewBlock("for.exit")

	if !b.cur.Terminated() {
		b.cur.Term = &ir.Br{Target: head.Label}
	}

	b.cur = head
	cur := b.load(idxPtr, ir.I32)
	cmpName := b.fn.NewTemp("for.cmp")
	b.emit(&ir.Icmp{Result: cmpName, Pred: "slt", Left: cur, Right: bound})
	b.cur.Term = &ir.CondBr{Cond: ir.LocalRef{Name: cmpName, Typ: ir.I1}, True: body.Label, False: exit.Label}

	b.cur = body
	b.genBlock(n.Body)
	if !b.cur.Terminated() {
		cur = b.load(idxPtr, ir.I32)
		nextName := b.fn.NewTemp("for.next")
		b.emit(&ir.BinOp{Result: nextName, Op: "add", Left: cur, Right: ir.ConstInt{Val: 1, Typ: ir.I32}, Typ: ir.I32})
		b.emit(&ir.Store{Val: ir.LocalRef{Name: nextName, Typ: ir.I32}, Ptr: idxPtr})
		b.cur.Term = &ir.Br{Target: head.Label}
	}

	b.cur = exit
}

// genTryCatch lowers the legacy try/catch construct as two blocks in
// sequence: Try runs unconditionally, and Catch is lowered right after it
// unless a Return inside Try already terminated the current block. No
// "errored" sentinel variable is allocated.
func (b *builder) genTryCatch(n *ast.TryCatch) {
	b.genBlock(n.Try)
	if !b.cur.Terminated() {
		b.genBlock(n.Catch)
	}
}

// genPrint passes Text itself as printf's format string, with no further
// arguments, following the teacher's genPrint in spirit but limited to the string-literal payload the Print
// node already carries; general expression interpolation goes through the
// modern print(...) call path instead (an ExprStmt/Call, not a Print node).
// Text is interned as-is: InternString appends the trailing NUL, and no
// newline is added — escapes were already resolved by the lexer.
func (b *builder) genPrint(n *ast.Print) {
	pf := printfRef()
	ref := b.mod.InternString(n.Text)
	ptrName := b.fn.NewTemp("fmt")
	b.emit(&ir.GEPStringPtr{Result: ptrName, Global: ref})
	b.emit(&ir.Call{
		Callee: pf,
		Args:   []ir.Value{ir.LocalRef{Name: ptrName, Typ: ir.I8Ptr}},
		RetTyp: ir.I32,
	})
}

func printfRef() string { return "printf" }

func (b *builder) load(ptr ir.LocalRef, t ir.Type) ir.Value {
	name := b.fn.NewTemp("load")
	b.emit(&ir.Load{Result: name, Ptr: ptr, Typ: t})
	return ir.LocalRef{Name: name, Typ: t}
}
