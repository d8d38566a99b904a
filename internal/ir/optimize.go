package ir

// FoldConstants performs intra-function constant folding: a BinOp or Icmp
// whose operands are both literal constants (after substituting any
// already-folded result) is evaluated at compile time and removed, with
// every later reference to its Result rewritten to the folded value.
//
// Blocks are walked in the order the builder created them, which is also
// control-flow order for this compiler's straight-line and if/while/for
// lowering, so a single forward pass over Result names (unique per function)
// is sufficient — there is no need for dominator-tree analysis.
func FoldConstants(mod *Module) {
	for _, fn := range mod.Funcs {
		foldFunction(fn)
	}
}

func foldFunction(fn *Function) {
	consts := map[string]Value{}
	subst := func(v Value) Value {
		if lr, ok := v.(LocalRef); ok {
			if c, ok := consts[lr.Name]; ok {
				return c
			}
		}
		return v
	}

	for _, blk := range fn.Blocks {
		kept := blk.Instrs[:0]
		for _, instr := range blk.Instrs {
			switch in := instr.(type) {
			case *BinOp:
				in.Left = subst(in.Left)
				in.Right = subst(in.Right)
				if v, ok := foldBinOp(in); ok {
					consts[in.Result] = v
					continue
				}
			case *Icmp:
				in.Left = subst(in.Left)
				in.Right = subst(in.Right)
				if v, ok := foldIcmp(in); ok {
					consts[in.Result] = v
					continue
				}
			case *Store:
				in.Val = subst(in.Val)
			case *Call:
				for i, a := range in.Args {
					in.Args[i] = subst(a)
				}
			}
			kept = append(kept, instr)
		}
		blk.Instrs = kept

		switch t := blk.Term.(type) {
		case *Ret:
			t.Val = subst(t.Val)
		case *CondBr:
			t.Cond = subst(t.Cond)
		}
	}
}

// foldBinOp evaluates in if both operands are constants of the same kind.
// Division and remainder by a constant zero are left unfolded so the
// generated program still traps at runtime rather than at compile time.
func foldBinOp(in *BinOp) (Value, bool) {
	if li, lok := in.Left.(ConstInt); lok {
		if ri, rok := in.Right.(ConstInt); rok {
			if ri.Val == 0 && (in.Op == "sdiv" || in.Op == "srem") {
				return nil, false
			}
			v, ok := applyIntOp(in.Op, li.Val, ri.Val)
			if !ok {
				return nil, false
			}
			return ConstInt{Val: v, Typ: in.Typ}, true
		}
		return nil, false
	}
	if lf, lok := in.Left.(ConstFloat); lok {
		if rf, rok := in.Right.(ConstFloat); rok {
			v, ok := applyFloatOp(in.Op, lf.Val, rf.Val)
			if !ok {
				return nil, false
			}
			return ConstFloat{Val: v, Typ: in.Typ}, true
		}
	}
	return nil, false
}

func applyIntOp(op string, l, r int64) (int64, bool) {
	switch op {
	case "add":
		return l + r, true
	case "sub":
		return l - r, true
	case "mul":
		return l * r, true
	case "sdiv":
		return l / r, true
	case "srem":
		return l % r, true
	case "and":
		return l & r, true
	case "or":
		return l | r, true
	case "xor":
		return l ^ r, true
	default:
		return 0, false
	}
}

func applyFloatOp(op string, l, r float64) (float64, bool) {
	switch op {
	case "add":
		return l + r, true
	case "sub":
		return l - r, true
	case "mul":
		return l * r, true
	case "sdiv":
		if r == 0 {
			return 0, false
		}
		return l / r, true
	default:
		return 0, false
	}
}

// foldIcmp evaluates in if both operands are constant integers.
func foldIcmp(in *Icmp) (Value, bool) {
	li, lok := in.Left.(ConstInt)
	ri, rok := in.Right.(ConstInt)
	if !lok || !rok {
		return nil, false
	}
	var result bool
	switch in.Pred {
	case "eq":
		result = li.Val == ri.Val
	case "ne":
		result = li.Val != ri.Val
	case "slt":
		result = li.Val < ri.Val
	case "sle":
		result = li.Val <= ri.Val
	case "sgt":
		result = li.Val > ri.Val
	case "sge":
		result = li.Val >= ri.Val
	default:
		return nil, false
	}
	return ConstBool{Val: result}, true
}
