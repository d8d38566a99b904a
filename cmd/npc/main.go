// Command npc is Driver B: a single-pipeline compiler invocation —
// positional input, an output path, and an emission mode — the shape
// spec §6.1 calls the "pipeline" persona.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neopaquet/npc/internal/config"
	"github.com/neopaquet/npc/internal/diag"
	"github.com/neopaquet/npc/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var out string
	var emit string

	cmd := &cobra.Command{
		Use:           "npc <input>",
		Short:         "Compile a .np source file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(args[0], out, emit)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "a.out", "output path")
	cmd.Flags().StringVar(&emit, "emit", "exe", "emission mode: exe, llvm, asm")
	return cmd
}

func runCompile(input, out, emit string) error {
	mode, ok := config.ParseEmitMode(emit)
	if !ok {
		return fmt.Errorf("unknown --emit value %q, expected exe, llvm or asm", emit)
	}

	src, err := pipeline.ReadSource(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	opt := config.Default()
	opt.Src = input
	opt.Out = out
	opt.Emit = mode

	res, err := pipeline.Compile(src, opt, nil)
	for _, d := range res.Diagnostics {
		printDiagnostic(d)
	}
	if err != nil {
		return err
	}
	if res.Diagnostics.HasErrors() {
		return fmt.Errorf("compilation failed")
	}
	if res.OutputPath != "" {
		fmt.Println(res.OutputPath)
	}
	return nil
}

func printDiagnostic(d diag.Diagnostic) {
	text := d.String()
	if d.Severity() == diag.SevWarning {
		fmt.Fprintln(os.Stderr, color.YellowString(text))
		return
	}
	fmt.Fprintln(os.Stderr, color.RedString(text))
}
