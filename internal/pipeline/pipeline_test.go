package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neopaquet/npc/internal/config"
)

// These two sources are the canonical end-to-end scenarios: a legacy-dialect
// "hello world" and a modern-dialect recursive function. Compiling each all
// the way through IR text (never invoking clang) is the one integration
// test that exercises every phase together.

const legacyHelloWorld = `src() "stdout" {
    print ["Hello NeoPaquet"]
}run`

const modernFib = `
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
}`

func TestCompile_LegacyHelloWorldProducesExpectedIRShape(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "legacy_hello.ll")
	opt := config.Options{Src: "legacy_hello.np", Out: outPath, Emit: config.EmitLLVM}

	res, err := Compile(legacyHelloWorld, opt, nil)
	require.NoError(t, err)
	require.False(t, res.Diagnostics.HasErrors())
	assert.Equal(t, outPath, res.OutputPath)

	text, err := os.ReadFile(outPath)
	require.NoError(t, err)
	ir := string(text)

	assert.Contains(t, ir, "define i32 @main()")
	assert.Contains(t, ir, "declare i32 @printf(i8*, ...)")
	assert.Contains(t, ir, `c"Hello NeoPaquet\00"`)
	assert.Contains(t, ir, "ret i32 0")
}

func TestCompile_ModernFibProducesExpectedIRShape(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "modern_fib.ll")
	opt := config.Options{Src: "modern_fib.np", Out: outPath, Emit: config.EmitLLVM}

	res, err := Compile(modernFib, opt, nil)
	require.NoError(t, err)
	require.False(t, res.Diagnostics.HasErrors())

	text, err := os.ReadFile(outPath)
	require.NoError(t, err)
	ir := string(text)

	assert.Contains(t, ir, "define i32 @fib(i32 %n)")
	assert.Contains(t, ir, "define i32 @main()")
	assert.Contains(t, ir, "icmp slt i32")
	assert.Contains(t, ir, "call i32 @fib(")
}

func TestCheck_SemanticErrorPreventsIRLowering(t *testing.T) {
	res := Check(`fn main() -> i32 { return undeclared; }`, nil)
	require.True(t, res.Diagnostics.HasErrors())

	opt := config.Options{Src: "broken.np", Emit: config.EmitLLVM}
	compileRes, err := Compile(`fn main() -> i32 { return undeclared; }`, opt, nil)
	require.NoError(t, err)
	assert.True(t, compileRes.Diagnostics.HasErrors())
	assert.Empty(t, compileRes.OutputPath)
}

func TestReadSource_ReadsNamedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.np")
	require.NoError(t, os.WriteFile(path, []byte("fn main() -> i32 { return 0; }"), 0o644))

	src, err := ReadSource(path)
	require.NoError(t, err)
	assert.Equal(t, "fn main() -> i32 { return 0; }", src)
}
