package llvmtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neopaquet/npc/internal/irbuild"
	"github.com/neopaquet/npc/internal/parser"
)

func renderFrom(t *testing.T, src string) string {
	t.Helper()
	prog, errs := parser.Parse(src)
	require.False(t, errs.HasErrors(), "unexpected parse errors: %v", errs)
	mod := irbuild.Build(prog)
	return Render("test", mod)
}

func TestRender_DeclaresPrintfExtern(t *testing.T) {
	out := renderFrom(t, `fn main() -> i32 { return 0; }`)
	assert.Contains(t, out, "declare i32 @printf(i8*, ...)")
}

func TestRender_ModuleHeaderNamesTheModule(t *testing.T) {
	out := renderFrom(t, `fn main() -> i32 { return 0; }`)
	assert.True(t, strings.HasPrefix(out, "; ModuleID = 'test'"))
}

func TestRender_LegacyHelloWorldEmitsStringConstantAndCall(t *testing.T) {
	out := renderFrom(t, `src() "stdout" {
    print ["Hello NeoPaquet"]
}run`)
	assert.Contains(t, out, `internal constant [16 x i8] c"Hello NeoPaquet\00"`)
	assert.Contains(t, out, "define i32 @main()")
	assert.Contains(t, out, "call i32 @printf(i8*")
	assert.Contains(t, out, "ret i32 0")
}

func TestRender_FunctionSignatureIncludesTypedParams(t *testing.T) {
	out := renderFrom(t, `fn add(a: i32, b: i32) -> i32 { return a + b; }`)
	assert.Contains(t, out, "define i32 @add(i32 %a, i32 %b) {")
}

func TestRender_IfLoweringEmitsConditionalBranch(t *testing.T) {
	out := renderFrom(t, `
fn classify(n: i32) -> i32 {
    if n < 2 {
        return n;
    }
    return 0;
}`)
	assert.Contains(t, out, "icmp slt i32")
	assert.Contains(t, out, "br i1")
}
