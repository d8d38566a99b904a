// Package pipeline wires the compiler phases together into the single
// deterministic function spec §5 describes: source text and an emission
// mode in, a diagnostic list or an artifact path out. Both CLI personas
// (cmd/npc, cmd/npcctl) call into this package rather than duplicating the
// phase sequence the teacher's own main.go run() function hard-codes.
package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/neopaquet/npc/internal/ast"
	"github.com/neopaquet/npc/internal/backend"
	"github.com/neopaquet/npc/internal/config"
	"github.com/neopaquet/npc/internal/diag"
	"github.com/neopaquet/npc/internal/ir"
	"github.com/neopaquet/npc/internal/irbuild"
	"github.com/neopaquet/npc/internal/parser"
	"github.com/neopaquet/npc/internal/sema"
)

// Progress is called with a one-line phase-progress message at the start of
// each phase; a nil Progress discards them. Driver A passes one that writes
// to stderr only under --verbose; Driver B always passes nil.
type Progress func(string)

// noopProgress discards phase-progress lines.
func noopProgress(string) {}

// CheckResult is the outcome of running phases 1–4 (lex/parse/analyze)
// without lowering to IR or invoking the backend.
type CheckResult struct {
	Diagnostics diag.List
	Program     *ast.Program // nil if parsing failed
}

// Check runs the front end only: lexing (inside Parse), parsing, and
// semantic analysis. It never touches irbuild or backend.
func Check(src string, progress Progress) CheckResult {
	if progress == nil {
		progress = noopProgress
	}
	progress("Phase 1-2: lexing and parsing")
	prog, perrs := parser.Parse(src)
	if perrs.HasErrors() {
		return CheckResult{Diagnostics: perrs}
	}
	progress("Phase 3: semantic analysis")
	serrs := sema.Analyze(prog)
	all := append(diag.List{}, perrs...)
	all = append(all, serrs...)
	return CheckResult{Diagnostics: all, Program: prog}
}

// CompileResult is the outcome of the full pipeline.
type CompileResult struct {
	Diagnostics diag.List
	OutputPath  string // empty when backend.Emit wrote no file (EmitLLVM/EmitAssembly with an empty opt.Out)
	OutputText  string // not set by Compile: backend.Emit does not return the rendered text
}

// Compile runs every phase: parse, analyze, lower to IR, and emit via
// opt.Emit. If analysis reports any Error-severity diagnostic, the backend
// stage is skipped and Diagnostics alone is returned.
func Compile(src string, opt config.Options, progress Progress) (CompileResult, error) {
	if progress == nil {
		progress = noopProgress
	}
	chk := Check(src, progress)
	if chk.Diagnostics.HasErrors() {
		return CompileResult{Diagnostics: chk.Diagnostics}, nil
	}

	progress("Phase 4: IR lowering")
	mod := irbuild.Build(chk.Program)
	ir.FoldConstants(mod)

	progress(fmt.Sprintf("Phase 5: emitting (%s)", opt.Emit))
	moduleName := moduleNameFromPath(opt.Src)
	path, err := backend.Emit(mod, moduleName, opt)
	if err != nil {
		return CompileResult{Diagnostics: chk.Diagnostics}, err
	}

	res := CompileResult{Diagnostics: chk.Diagnostics, OutputPath: path}
	return res, nil
}

func moduleNameFromPath(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadSource reads and returns the UTF-8 source text at path, following the
// teacher's util.ReadSource in spirit: stdin via "-", a named file
// otherwise.
func ReadSource(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
