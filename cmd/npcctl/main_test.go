package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand_PrintsThreeLineBanner(t *testing.T) {
	out := captureStdout(t, func() {
		root := newRootCmd()
		root.SetArgs([]string{"version"})
		require.NoError(t, root.Execute())
	})
	assert.Equal(t, versionBanner+"\n", out)
}

// captureStdout redirects the real os.Stdout for the duration of fn, since
// the subcommands print with fmt.Println rather than through cobra's
// configurable output writer.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}

func TestAutoFixCommand_WritesFixedFileByDefault(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.np")
	require.NoError(t, os.WriteFile(src, []byte("let x = 12;"), 0o644))

	root := newRootCmd()
	root.SetArgs([]string{"auto-fix", src})
	require.NoError(t, root.Execute())

	fixed, err := os.ReadFile(src + ".fixed")
	require.NoError(t, err)
	assert.Equal(t, "let x: i32 = 12;", string(fixed))
}

func TestAutoFixCommand_HonorsOutputFlag(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.np")
	dest := filepath.Join(dir, "out.np")
	require.NoError(t, os.WriteFile(src, []byte(`let s = "hi";`), 0o644))

	root := newRootCmd()
	root.SetArgs([]string{"auto-fix", src, "-o", dest})
	require.NoError(t, root.Execute())

	fixed, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, `let s: String = "hi";`, string(fixed))
}

func TestCheckCommand_SucceedsOnWellTypedProgram(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "ok.np")
	require.NoError(t, os.WriteFile(src, []byte("fn main() -> i32 { return 0; }"), 0o644))

	root := newRootCmd()
	root.SetArgs([]string{"check", src})
	assert.NoError(t, root.Execute())
}
