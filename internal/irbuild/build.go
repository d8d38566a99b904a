// Package irbuild lowers a semantically valid ast.Program into an ir.Module.
// It assumes Analyze has already run and reported no errors: undeclared
// names, type mismatches and redefinitions are programmer errors here, not
// diagnostics to recover from.
package irbuild

import (
	"github.com/neopaquet/npc/internal/ast"
	"github.com/neopaquet/npc/internal/ir"
)

// symTab is a single lexical scope's name-to-storage map, following the
// teacher's scope-stack shape but holding ir.LocalRef pointers (the result
// of an Alloca) instead of llvm.Value.
type symTab struct {
	m map[string]ir.LocalRef
}

// builder holds the state threaded through one function's lowering: the
// module it is contributing to, the function being built, the current
// insertion block, and the scope stack for variable resolution.
type builder struct {
	mod *ir.Module
	fn  *ir.Function
	cur *ir.Block
	st  []*symTab
}

// Build lowers prog into a complete ir.Module. Every FnDef becomes an
// ir.Function; a legacy src…run block has already been desugared by the
// parser into an FnDef named "main", so no special top-level case is needed
// here.
func Build(prog *ast.Program) *ir.Module {
	mod := ir.NewModule()
	mod.DeclareExtern(ir.ExternDecl{
		Name:       "printf",
		ParamTypes: []ir.Type{ir.I8Ptr},
		Variadic:   true,
		RetType:    ir.I32,
	})

	for _, s := range prog.Statements {
		if fd, ok := s.(*ast.FnDef); ok {
			mod.Funcs = append(mod.Funcs, buildFunc(mod, fd))
		}
	}
	return mod
}

func buildFunc(mod *ir.Module, fd *ast.FnDef) *ir.Function {
	fn := &ir.Function{Name: fd.Name, RetType: irType(fd.ReturnType)}
	for _, p := range fd.Params {
		fn.Params = append(fn.Params, ir.Param{Name: p.Name, Typ: irType(p.Type)})
	}

	b := &builder{mod: mod, fn: fn}
	b.cur = fn.NewBlock("entry")

	b.pushScope()
	for _, p := range fd.Params {
		pt := irType(p.Type)
		ptr := b.alloca(p.Name, pt)
		b.emit(&ir.Store{Val: ir.LocalRef{Name: p.Name, Typ: pt}, Ptr: ptr})
		b.bind(p.Name, ptr)
	}

	b.genBlock(fd.Body)
	b.popScope()

	if !b.cur.Terminated() {
		if fn.RetType == ir.Void {
			b.cur.Term = &ir.RetVoid{}
		} else {
			b.cur.Term = &ir.Ret{Val: zeroValue(fn.RetType)}
		}
	}
	return fn
}

func (b *builder) pushScope() { b.st = append(b.st, &symTab{m: make(map[string]ir.LocalRef)}) }
func (b *builder) popScope()  { b.st = b.st[:len(b.st)-1] }

func (b *builder) bind(name string, ptr ir.LocalRef) {
	b.st[len(b.st)-1].m[name] = ptr
}

// resolve finds the Alloca pointer bound to name, searching inner scopes
// first.
func (b *builder) resolve(name string) (ir.LocalRef, bool) {
	for i := len(b.st) - 1; i >= 0; i-- {
		if ptr, ok := b.st[i].m[name]; ok {
			return ptr, true
		}
	}
	return ir.LocalRef{}, false
}

func (b *builder) emit(i ir.Instr) {
	if b.cur.Terminated() {
		return
	}
	b.cur.Append(i)
}

// alloca reserves stack space for a value of type t and returns a LocalRef
// naming the resulting pointer. By convention, Typ on a pointer LocalRef
// produced here holds the pointee's type (what Load/Store need), not a
// distinct pointer type — the IR has no pointer-to-T type of its own beyond
// I8Ptr for strings.
func (b *builder) alloca(hint string, t ir.Type) ir.LocalRef {
	name := b.fn.NewTemp(hint)
	b.emit(&ir.Alloca{Result: name, Elem: t})
	return ir.LocalRef{Name: name, Typ: t}
}
