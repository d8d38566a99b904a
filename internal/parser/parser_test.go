package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neopaquet/npc/internal/ast"
)

func TestParse_LetWithAnnotationAndInitializer(t *testing.T) {
	prog, errs := Parse(`let x: i32 = 12;`)
	require.False(t, errs.HasErrors())
	require.Len(t, prog.Statements, 1)
	let, ok := prog.Statements[0].(*ast.Let)
	require.True(t, ok)
	assert.Equal(t, "x", let.Name)
	assert.Equal(t, "i32", let.Type)
	lit, ok := let.Value.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, int64(12), lit.Value)
}

func TestParse_FnDefWithIfReturn(t *testing.T) {
	src := `
fn fib(n: i32) -> i32 {
    if n < 2 {
        return n;
    }
    return fib(n - 1) + fib(n - 2);
}`
	prog, errs := Parse(src)
	require.False(t, errs.HasErrors())
	require.Len(t, prog.Statements, 1)
	fn, ok := prog.Statements[0].(*ast.FnDef)
	require.True(t, ok)
	assert.Equal(t, "fib", fn.Name)
	assert.Equal(t, "i32", fn.ReturnType)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "n", fn.Params[0].Name)
	require.Len(t, fn.Body.Statements, 2)
	_, isIf := fn.Body.Statements[0].(*ast.If)
	assert.True(t, isIf)
	_, isReturn := fn.Body.Statements[1].(*ast.Return)
	assert.True(t, isReturn)
}

func TestParse_LegacySrcRunLowersToMainFnDef(t *testing.T) {
	src := `src() "stdout" {
    print ["hi"]
}run`
	prog, errs := Parse(src)
	require.False(t, errs.HasErrors())
	require.Len(t, prog.Statements, 1)
	fn, ok := prog.Statements[0].(*ast.FnDef)
	require.True(t, ok)
	assert.Equal(t, "main", fn.Name)
	assert.Equal(t, "i32", fn.ReturnType)
	require.Len(t, fn.Body.Statements, 1)
	pr, ok := fn.Body.Statements[0].(*ast.Print)
	require.True(t, ok)
	assert.Equal(t, "hi", pr.Text)
}

func TestParse_LegacyAtFuncLowersToSingleParamFn(t *testing.T) {
	src := `@func ("double") [x] go {
    return x + x
}`
	prog, errs := Parse(src)
	require.False(t, errs.HasErrors())
	fn, ok := prog.Statements[0].(*ast.FnDef)
	require.True(t, ok)
	assert.Equal(t, "double", fn.Name)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "x", fn.Params[0].Name)
	assert.Equal(t, "i32", fn.Params[0].Type)
}

func TestParse_ModernPrintCallSynthesizesIdentAndCall(t *testing.T) {
	prog, errs := Parse(`print(1);`)
	require.False(t, errs.HasErrors())
	stmt, ok := prog.Statements[0].(*ast.ExprStmt)
	require.True(t, ok)
	call, ok := stmt.X.(*ast.Call)
	require.True(t, ok)
	callee, ok := call.Callee.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "print", callee.Name)
}

func TestParse_UnexpectedTokenAbortsWithSingleDiagnostic(t *testing.T) {
	_, errs := Parse(`let = 1;`)
	require.True(t, errs.HasErrors())
	assert.Len(t, errs, 1)
}

func TestParse_LegacyBase12AssignKeepsRawLexeme(t *testing.T) {
	src := `@func ("f") [x] go {
    y = 1a
    return x
}`
	prog, errs := Parse(src)
	require.False(t, errs.HasErrors())
	fn := prog.Statements[0].(*ast.FnDef)
	assign, ok := fn.Body.Statements[0].(*ast.Assign)
	require.True(t, ok)
	lit, ok := assign.Expr.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "1a", lit.Raw)
}
