package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neopaquet/npc/internal/config"
	"github.com/neopaquet/npc/internal/irbuild"
	"github.com/neopaquet/npc/internal/parser"
)

func TestEmit_LLVMModeWritesRenderedTextToOutPath(t *testing.T) {
	prog, errs := parser.Parse(`fn main() -> i32 { return 0; }`)
	require.False(t, errs.HasErrors())
	mod := irbuild.Build(prog)

	outPath := filepath.Join(t.TempDir(), "out.ll")
	opt := config.Options{Emit: config.EmitLLVM, Out: outPath}

	got, err := Emit(mod, "main", opt)
	require.NoError(t, err)
	assert.Equal(t, outPath, got)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "define i32 @main()")
}

func TestEmit_LLVMModeWithNoOutPathSignalsStdoutWrite(t *testing.T) {
	prog, errs := parser.Parse(`fn main() -> i32 { return 0; }`)
	require.False(t, errs.HasErrors())
	mod := irbuild.Build(prog)

	got, err := Emit(mod, "main", config.Options{Emit: config.EmitLLVM})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmit_AssemblyModeWritesPseudoAssembly(t *testing.T) {
	prog, errs := parser.Parse(`src() "stdout" {
    print ["hi"]
}run`)
	require.False(t, errs.HasErrors())
	mod := irbuild.Build(prog)

	outPath := filepath.Join(t.TempDir(), "out.s")
	opt := config.Options{Emit: config.EmitAssembly, Out: outPath}

	got, err := Emit(mod, "main", opt)
	require.NoError(t, err)
	assert.Equal(t, outPath, got)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "main:")
	assert.Contains(t, string(data), "call printf")
}

func TestEmit_UnknownModeIsAnError(t *testing.T) {
	prog, errs := parser.Parse(`fn main() -> i32 { return 0; }`)
	require.False(t, errs.HasErrors())
	mod := irbuild.Build(prog)

	_, err := Emit(mod, "main", config.Options{Emit: config.EmitMode(99)})
	assert.Error(t, err)
}
