// Package llvmtext renders an ir.Module to the textual form of LLVM IR. It
// plays the role the teacher's ir/llvm package plays against the real
// cgo-based tinygo.org/x/go-llvm bindings: the "external lowering
// collaborator" spec §4.6 calls out. It is an in-process text renderer over
// this compiler's own portable ir.Module rather than a binding to the real
// LLVM C++ API, so the module stays buildable without a system LLVM
// toolchain installed (see DESIGN.md).
package llvmtext

import (
	"fmt"
	"strings"

	"github.com/neopaquet/npc/internal/ir"
)

// Render serializes mod to LLVM IR text. The minimum required external
// declaration, declare i32 @printf(i8*, ...), is always present because
// irbuild always declares it.
func Render(moduleName string, mod *ir.Module) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; ModuleID = '%s'\n\n", moduleName)

	for _, g := range mod.Globals {
		fmt.Fprintf(&sb, "@%s = internal constant [%d x i8] c%s\n", g.Name, len(g.Bytes), quoteBytes(g.Bytes))
	}
	if len(mod.Globals) > 0 {
		sb.WriteString("\n")
	}

	for _, e := range mod.Externs {
		sb.WriteString(renderExtern(e))
		sb.WriteString("\n")
	}
	if len(mod.Externs) > 0 {
		sb.WriteString("\n")
	}

	for _, fn := range mod.Funcs {
		renderFunc(&sb, fn)
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderExtern(e ir.ExternDecl) string {
	params := make([]string, 0, len(e.ParamTypes))
	for _, t := range e.ParamTypes {
		params = append(params, llvmType(t))
	}
	if e.Variadic {
		params = append(params, "...")
	}
	return fmt.Sprintf("declare %s @%s(%s)", llvmType(e.RetType), e.Name, strings.Join(params, ", "))
}

func renderFunc(sb *strings.Builder, fn *ir.Function) {
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, fmt.Sprintf("%s %%%s", llvmType(p.Typ), p.Name))
	}
	fmt.Fprintf(sb, "define %s @%s(%s) {\n", llvmType(fn.RetType), fn.Name, strings.Join(params, ", "))
	for _, b := range fn.Blocks {
		fmt.Fprintf(sb, "%s:\n", b.Label)
		for _, instr := range b.Instrs {
			sb.WriteString("  ")
			sb.WriteString(renderInstr(instr))
			sb.WriteString("\n")
		}
		sb.WriteString("  ")
		sb.WriteString(renderTerm(b.Term))
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
}

func renderInstr(i ir.Instr) string {
	switch n := i.(type) {
	case *ir.Alloca:
		return fmt.Sprintf("%%%s = alloca %s", n.Result, llvmType(n.Elem))
	case *ir.Store:
		return fmt.Sprintf("store %s %s, %s* %s", n.Val.Type(), n.Val, llvmType(n.Ptr.Typ), n.Ptr)
	case *ir.Load:
		return fmt.Sprintf("%%%s = load %s, %s* %s", n.Result, llvmType(n.Typ), llvmType(n.Typ), n.Ptr)
	case *ir.BinOp:
		return fmt.Sprintf("%%%s = %s %s %s, %s", n.Result, n.Op, llvmType(n.Typ), n.Left, n.Right)
	case *ir.Icmp:
		return fmt.Sprintf("%%%s = icmp %s %s %s, %s", n.Result, n.Pred, n.Left.Type(), n.Left, n.Right)
	case *ir.Call:
		args := make([]string, 0, len(n.Args))
		for _, a := range n.Args {
			args = append(args, fmt.Sprintf("%s %s", a.Type(), a))
		}
		if n.Result == "" {
			return fmt.Sprintf("call %s @%s(%s)", llvmType(n.RetTyp), n.Callee, strings.Join(args, ", "))
		}
		return fmt.Sprintf("%%%s = call %s @%s(%s)", n.Result, llvmType(n.RetTyp), n.Callee, strings.Join(args, ", "))
	case *ir.GEPStringPtr:
		return fmt.Sprintf("%%%s = getelementptr [%d x i8], [%d x i8]* @%s, i64 0, i64 0",
			n.Result, n.Global.Len, n.Global.Len, n.Global.Name)
	default:
		return "; unknown instruction"
	}
}

func renderTerm(t ir.Terminator) string {
	switch n := t.(type) {
	case *ir.Ret:
		return fmt.Sprintf("ret %s %s", n.Val.Type(), n.Val)
	case *ir.RetVoid:
		return "ret void"
	case *ir.Br:
		return fmt.Sprintf("br label %%%s", n.Target)
	case *ir.CondBr:
		return fmt.Sprintf("br i1 %s, label %%%s, label %%%s", n.Cond, n.True, n.False)
	default:
		return "; missing terminator"
	}
}

func llvmType(t ir.Type) string {
	switch t {
	case ir.I1:
		return "i1"
	case ir.I32:
		return "i32"
	case ir.I64:
		return "i64"
	case ir.F32:
		return "float"
	case ir.F64:
		return "double"
	case ir.I8Ptr:
		return "i8*"
	case ir.Void:
		return "void"
	default:
		return "i32"
	}
}

func quoteBytes(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range b {
		switch {
		case c == '"' || c == '\\':
			fmt.Fprintf(&sb, "\\%02X", c)
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, "\\%02X", c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
