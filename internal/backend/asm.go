package backend

import (
	"fmt"
	"strings"

	"github.com/neopaquet/npc/internal/ir"
)

// renderAssembly prints a target-generic pseudo-assembly listing of mod.
// The teacher's own backend.GenerateAssembler is an unimplemented stub (no
// concrete ISA was ever wired up there either); this produces a real,
// deterministic text form driven off the same ir.Module the LLVM-text
// renderer consumes, one mnemonic per instruction, rather than leaving
// EmitAssembly unimplemented.
func renderAssembly(moduleName string, mod *ir.Module) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; %s.s (pseudo-assembly, target-generic)\n", moduleName)

	for _, g := range mod.Globals {
		fmt.Fprintf(&sb, "%s:\n\t.asciz %q\n", g.Name, string(g.Bytes[:len(g.Bytes)-1]))
	}

	for _, fn := range mod.Funcs {
		fmt.Fprintf(&sb, "\n%s:\n", fn.Name)
		for _, b := range fn.Blocks {
			fmt.Fprintf(&sb, "%s:\n", b.Label)
			for _, instr := range b.Instrs {
				sb.WriteString("\t")
				sb.WriteString(asmMnemonic(instr))
				sb.WriteString("\n")
			}
			sb.WriteString("\t")
			sb.WriteString(asmTerm(b.Term))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func asmMnemonic(i ir.Instr) string {
	switch n := i.(type) {
	case *ir.Alloca:
		return fmt.Sprintf("alloca %s, %s", n.Result, n.Elem)
	case *ir.Store:
		return fmt.Sprintf("store %s, %s", n.Val, n.Ptr)
	case *ir.Load:
		return fmt.Sprintf("load %s, %s", n.Result, n.Ptr)
	case *ir.BinOp:
		return fmt.Sprintf("%s %s, %s, %s", n.Op, n.Result, n.Left, n.Right)
	case *ir.Icmp:
		return fmt.Sprintf("cmp.%s %s, %s, %s", n.Pred, n.Result, n.Left, n.Right)
	case *ir.Call:
		return fmt.Sprintf("call %s", n.Callee)
	case *ir.GEPStringPtr:
		return fmt.Sprintf("lea %s, %s", n.Result, n.Global.Name)
	default:
		return "; unknown"
	}
}

func asmTerm(t ir.Terminator) string {
	switch n := t.(type) {
	case *ir.Ret:
		return fmt.Sprintf("ret %s", n.Val)
	case *ir.RetVoid:
		return "ret"
	case *ir.Br:
		return fmt.Sprintf("jmp %s", n.Target)
	case *ir.CondBr:
		return fmt.Sprintf("jcc %s, %s, %s", n.Cond, n.True, n.False)
	default:
		return "; missing terminator"
	}
}
