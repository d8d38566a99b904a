package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldConstants_BinOpOfTwoConstantsIsRemovedAndSubstituted(t *testing.T) {
	fn := &Function{Name: "f", RetType: I32}
	blk := &Block{Label: "entry"}
	blk.Instrs = []Instr{
		&BinOp{Result: "t0", Op: "add", Left: ConstInt{Val: 2, Typ: I32}, Right: ConstInt{Val: 3, Typ: I32}, Typ: I32},
	}
	blk.Term = &Ret{Val: LocalRef{Name: "t0", Typ: I32}}
	fn.Blocks = []*Block{blk}

	mod := &Module{Funcs: []*Function{fn}}
	FoldConstants(mod)

	assert.Empty(t, blk.Instrs)
	ret, ok := blk.Term.(*Ret)
	require.True(t, ok)
	assert.Equal(t, ConstInt{Val: 5, Typ: I32}, ret.Val)
}

func TestFoldConstants_DivisionByConstantZeroIsLeftUnfolded(t *testing.T) {
	fn := &Function{Name: "f", RetType: I32}
	blk := &Block{Label: "entry"}
	bin := &BinOp{Result: "t0", Op: "sdiv", Left: ConstInt{Val: 1, Typ: I32}, Right: ConstInt{Val: 0, Typ: I32}, Typ: I32}
	blk.Instrs = []Instr{bin}
	blk.Term = &RetVoid{}
	fn.Blocks = []*Block{blk}

	mod := &Module{Funcs: []*Function{fn}}
	FoldConstants(mod)

	require.Len(t, blk.Instrs, 1)
	assert.Same(t, bin, blk.Instrs[0])
}

func TestFoldConstants_IcmpOfConstantsFoldsToConstBool(t *testing.T) {
	fn := &Function{Name: "f", RetType: I1}
	blk := &Block{Label: "entry"}
	blk.Instrs = []Instr{
		&Icmp{Result: "c0", Pred: "slt", Left: ConstInt{Val: 1, Typ: I32}, Right: ConstInt{Val: 2, Typ: I32}},
	}
	blk.Term = &CondBr{Cond: LocalRef{Name: "c0", Typ: I1}, True: "then", False: "else"}
	fn.Blocks = []*Block{blk}

	mod := &Module{Funcs: []*Function{fn}}
	FoldConstants(mod)

	assert.Empty(t, blk.Instrs)
	br, ok := blk.Term.(*CondBr)
	require.True(t, ok)
	assert.Equal(t, ConstBool{Val: true}, br.Cond)
}

func TestFoldConstants_NonConstantOperandIsLeftAlone(t *testing.T) {
	fn := &Function{Name: "f", RetType: I32, Params: []Param{{Name: "n", Typ: I32}}}
	blk := &Block{Label: "entry"}
	bin := &BinOp{Result: "t0", Op: "add", Left: LocalRef{Name: "n", Typ: I32}, Right: ConstInt{Val: 1, Typ: I32}, Typ: I32}
	blk.Instrs = []Instr{bin}
	blk.Term = &Ret{Val: LocalRef{Name: "t0", Typ: I32}}
	fn.Blocks = []*Block{blk}

	mod := &Module{Funcs: []*Function{fn}}
	FoldConstants(mod)

	require.Len(t, blk.Instrs, 1)
	assert.Same(t, bin, blk.Instrs[0])
}
