package irbuild

import "github.com/neopaquet/npc/internal/ir"

// irType maps a sema/ast-level type name to the machine-shaped ir.Type it
// lowers to. Unsigned widths reuse their signed counterpart: the IR layer
// only distinguishes bit width and float-ness, and unsigned values are
// operated on with the same signed instructions (sdiv, srem, signed
// compares) as signed ones.
func irType(name string) ir.Type {
	switch name {
	case "i32", "u32":
		return ir.I32
	case "i64", "u64":
		return ir.I64
	case "f32":
		return ir.F32
	case "f64":
		return ir.F64
	case "bool":
		return ir.I1
	case "String", "Version":
		return ir.I8Ptr
	case "", "void":
		return ir.Void
	default:
		// Struct-typed values are lowered as an opaque pointer to their
		// field storage; see genMember.
		return ir.I8Ptr
	}
}

func zeroValue(t ir.Type) ir.Value {
	switch t {
	case ir.I1:
		return ir.ConstBool{Val: false}
	case ir.F32, ir.F64:
		return ir.ConstFloat{Val: 0, Typ: t}
	case ir.I8Ptr:
		return ir.ConstInt{Val: 0, Typ: ir.I64} // null, rendered by llvmtext
	default:
		return ir.ConstInt{Val: 0, Typ: t}
	}
}
