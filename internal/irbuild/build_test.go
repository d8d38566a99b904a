package irbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neopaquet/npc/internal/ir"
	"github.com/neopaquet/npc/internal/parser"
)

func buildFrom(t *testing.T, src string) *ir.Module {
	t.Helper()
	prog, errs := parser.Parse(src)
	require.False(t, errs.HasErrors(), "unexpected parse errors: %v", errs)
	return Build(prog)
}

func findFunc(mod *ir.Module, name string) *ir.Function {
	for _, fn := range mod.Funcs {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func TestBuild_DeclaresVariadicPrintfExtern(t *testing.T) {
	mod := buildFrom(t, `fn main() -> i32 { return 0; }`)
	require.Len(t, mod.Externs, 1)
	assert.Equal(t, "printf", mod.Externs[0].Name)
	assert.True(t, mod.Externs[0].Variadic)
	assert.Equal(t, []ir.Type{ir.I8Ptr}, mod.Externs[0].ParamTypes)
}

func TestBuild_SimpleReturnLowersToOneBlockWithRet(t *testing.T) {
	mod := buildFrom(t, `fn main() -> i32 { return 0; }`)
	fn := findFunc(mod, "main")
	require.NotNil(t, fn)
	require.Len(t, fn.Blocks, 1)
	ret, ok := fn.Entry().Term.(*ir.Ret)
	require.True(t, ok)
	assert.Equal(t, ir.ConstInt{Val: 0, Typ: ir.I32}, ret.Val)
}

func TestBuild_FnDefWithoutExplicitReturnGetsImplicitRetVoid(t *testing.T) {
	mod := buildFrom(t, `
fn sideEffect() {
    let x: i32 = 1;
}`)
	fn := findFunc(mod, "sideEffect")
	require.NotNil(t, fn)
	_, ok := fn.Entry().Term.(*ir.RetVoid)
	assert.True(t, ok)
}

func TestBuild_LegacyPrintInternsStringAndCallsPrintf(t *testing.T) {
	mod := buildFrom(t, `src() "stdout" {
    print ["hello"]
}run`)
	require.Len(t, mod.Globals, 1)
	assert.Equal(t, append([]byte("hello"), 0), mod.Globals[0].Bytes)

	fn := findFunc(mod, "main")
	require.NotNil(t, fn)
	var sawCall bool
	for _, instr := range fn.Entry().Instrs {
		if call, ok := instr.(*ir.Call); ok {
			assert.Equal(t, "printf", call.Callee)
			sawCall = true
		}
	}
	assert.True(t, sawCall, "expected a printf call in main's entry block")
}

func TestBuild_LegacyAssignReparsesLiteralInBase12(t *testing.T) {
	// "1a" is only a valid lexeme once the legacy dialect's digit set is
	// active, and it is read back in base 12: 1*12 + 10 = 22.
	mod := buildFrom(t, `@func ("f") [x] go {
    let y: i32 = 0
    y = 1a
    return x
}`)
	fn := findFunc(mod, "f")
	require.NotNil(t, fn)
	var stores []ir.Value
	for _, instr := range fn.Entry().Instrs {
		if st, ok := instr.(*ir.Store); ok {
			stores = append(stores, st.Val)
		}
	}
	require.NotEmpty(t, stores)
	assert.Equal(t, ir.ConstInt{Val: 22, Typ: ir.I32}, stores[len(stores)-1])
}

func TestBuild_IfLoweringProducesThenAndMergeBlocks(t *testing.T) {
	mod := buildFrom(t, `
fn classify(n: i32) -> i32 {
    if n < 2 {
        return n;
    }
    return 0;
}`)
	fn := findFunc(mod, "classify")
	require.NotNil(t, fn)
	var sawCondBr bool
	for _, b := range fn.Blocks {
		if _, ok := b.Term.(*ir.CondBr); ok {
			sawCondBr = true
		}
	}
	assert.True(t, sawCondBr)
	assert.GreaterOrEqual(t, len(fn.Blocks), 3) // entry, if.then, if.merge
}

func TestBuild_ParamsAreAllocatedAndStoredInEntryBlock(t *testing.T) {
	mod := buildFrom(t, `fn add(a: i32, b: i32) -> i32 { return a + b; }`)
	fn := findFunc(mod, "add")
	require.NotNil(t, fn)
	require.Len(t, fn.Params, 2)

	var allocas, stores int
	for _, instr := range fn.Entry().Instrs {
		switch instr.(type) {
		case *ir.Alloca:
			allocas++
		case *ir.Store:
			stores++
		}
	}
	assert.Equal(t, 2, allocas)
	assert.Equal(t, 2, stores)
}
