package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neopaquet/npc/internal/diag"
	"github.com/neopaquet/npc/internal/parser"
)

func analyze(t *testing.T, src string) diag.List {
	t.Helper()
	prog, perrs := parser.Parse(src)
	require.False(t, perrs.HasErrors(), "unexpected parse errors: %v", perrs)
	return Analyze(prog)
}

func kindsOf(list diag.List) []diag.Kind {
	out := make([]diag.Kind, 0, len(list))
	for _, d := range list {
		out = append(out, d.Kind)
	}
	return out
}

func TestAnalyze_WellTypedProgramHasNoDiagnostics(t *testing.T) {
	errs := analyze(t, `
fn fib(n: i32) -> i32 {
    if n < 2 {
        return n;
    }
    return fib(n - 1) + fib(n - 2);
}

fn main() -> i32 {
    let result: i32 = fib(10);
    print("computed");
    return result;
}`)
	assert.Empty(t, errs)
}

func TestAnalyze_UndefinedVariableDoesNotCascadeIntoTypeError(t *testing.T) {
	errs := analyze(t, `
fn main() -> i32 {
    let x: i32 = y + 1;
    return x;
}`)
	assert.Equal(t, []diag.Kind{diag.UndefinedVariable}, kindsOf(errs))
}

func TestAnalyze_UnannotatedLetWithUndefinedInitializerDoesNotCascadeIntoTypeError(t *testing.T) {
	errs := analyze(t, `
fn main() -> i32 {
    let x = unknown;
    return x;
}`)
	assert.Equal(t, []diag.Kind{diag.UndefinedVariable}, kindsOf(errs))
}

func TestAnalyze_UnusedVariableIsWarningSeverity(t *testing.T) {
	errs := analyze(t, `let unused_value: i32 = 5;`)
	require.Len(t, errs, 1)
	assert.Equal(t, diag.SemanticError, errs[0].Kind)
	assert.Equal(t, diag.SevWarning, errs[0].Severity())
}

func TestAnalyze_MutualRecursionIsAllowedByPredeclaration(t *testing.T) {
	errs := analyze(t, `
fn isEven(n: i32) -> bool {
    return isOdd(n);
}

fn isOdd(n: i32) -> bool {
    return isEven(n);
}

fn main() -> i32 {
    return 0;
}`)
	assert.Empty(t, errs)
}

func TestAnalyze_DuplicateTopLevelFnIsRedefinition(t *testing.T) {
	errs := analyze(t, `
fn dup() -> i32 {
    return 0;
}

fn dup() -> i32 {
    return 1;
}`)
	require.Len(t, errs, 1)
	assert.Equal(t, diag.Redefinition, errs[0].Kind)
}

func TestAnalyze_NestedFnDefIsRejected(t *testing.T) {
	errs := analyze(t, `
fn outer() -> i32 {
    fn inner() -> i32 {
        return 0;
    }
    return 0;
}`)
	require.Len(t, errs, 1)
	assert.Equal(t, diag.SemanticError, errs[0].Kind)
}

func TestAnalyze_MismatchedReturnTypeIsTypeError(t *testing.T) {
	errs := analyze(t, `
fn giveString() -> String {
    return 5;
}`)
	require.Len(t, errs, 1)
	assert.Equal(t, diag.TypeError, errs[0].Kind)
}

func TestAnalyze_CallWithWrongArgCount(t *testing.T) {
	errs := analyze(t, `
fn add(a: i32, b: i32) -> i32 {
    return a + b;
}

fn main() -> i32 {
    return add(1);
}`)
	require.Len(t, errs, 1)
	assert.Equal(t, diag.TypeError, errs[0].Kind)
}
