// Package backend drives the final pipeline stage: it takes a built
// ir.Module plus the user's chosen config.EmitMode and produces either
// textual IR, textual assembly, or a linked native executable — the
// "collaborator boundary" spec §4.6 names, mirroring the teacher's
// backend.GenerateAssembler entry point but dispatching on emission mode
// instead of always producing assembler text.
package backend

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/neopaquet/npc/internal/backend/llvmtext"
	"github.com/neopaquet/npc/internal/config"
	"github.com/neopaquet/npc/internal/ir"
)

// Emit runs the backend stage for mod under opt and returns the path of the
// artifact it produced (for EmitLLVM/EmitAssembly, that is opt.Out if set,
// or empty to mean "written to stdout by the caller").
func Emit(mod *ir.Module, moduleName string, opt config.Options) (string, error) {
	switch opt.Emit {
	case config.EmitLLVM:
		return emitText(llvmtext.Render(moduleName, mod), opt)
	case config.EmitAssembly:
		return emitText(renderAssembly(moduleName, mod), opt)
	case config.EmitExecutable:
		return emitExecutable(mod, moduleName, opt)
	default:
		return "", errors.Errorf("unknown emission mode %v", opt.Emit)
	}
}

func emitText(text string, opt config.Options) (string, error) {
	if opt.Out == "" {
		return "", nil // caller writes text to stdout
	}
	if err := os.WriteFile(opt.Out, []byte(text), 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", opt.Out)
	}
	return opt.Out, nil
}

// emitExecutable writes an object-equivalent artifact (this renderer emits
// LLVM IR text rather than a real object file, since no system LLVM
// toolchain is linked in — see DESIGN.md) into a scoped temporary
// directory, then invokes clang to link it into the requested executable.
// The temporary directory is removed on every exit path, including
// failure, per §5's resource-scoping rule.
func emitExecutable(mod *ir.Module, moduleName string, opt config.Options) (string, error) {
	tmpDir, err := os.MkdirTemp("", "npc-build-*")
	if err != nil {
		return "", errors.Wrap(err, "creating temporary build directory")
	}
	defer os.RemoveAll(tmpDir)

	irPath := filepath.Join(tmpDir, moduleName+".ll")
	if err := os.WriteFile(irPath, []byte(llvmtext.Render(moduleName, mod)), 0o644); err != nil {
		return "", errors.Wrap(err, "writing intermediate IR")
	}

	out := opt.Out
	if out == "" {
		out = config.Default().Out
	}
	out = config.WithExeSuffix(out)

	cc := opt.CC
	if cc == "" {
		cc = "clang"
	}

	cmd := exec.Command(cc, irPath, "-o", out)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "%s failed to link %s", cc, out)
	}
	return out, nil
}
