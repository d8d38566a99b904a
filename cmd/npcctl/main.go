// Command npcctl is Driver A: the rich multi-subcommand persona spec §6.1
// describes — compile, check, auto-fix and version — with verbose
// phase-progress output on stderr.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neopaquet/npc/internal/autofix"
	"github.com/neopaquet/npc/internal/config"
	"github.com/neopaquet/npc/internal/diag"
	"github.com/neopaquet/npc/internal/pipeline"
)

const versionBanner = "npcctl — neopaquet compiler control\nversion 1.0.0\nCopyright (c) 2026 the neopaquet project"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "npcctl",
		Short:         "neopaquet compiler control",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "extra phase progress on stderr")

	root.AddCommand(
		newCompileCmd(&verbose),
		newCheckCmd(&verbose),
		newAutoFixCmd(),
		newVersionCmd(),
	)
	return root
}

func progressFor(verbose bool) pipeline.Progress {
	if !verbose {
		return nil
	}
	return func(phase string) {
		fmt.Fprintln(os.Stderr, color.CyanString("-- %s", phase))
	}
}

func newCompileCmd(verbose *bool) *cobra.Command {
	var out, emit string
	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Run the full pipeline: parse, analyze, lower, emit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := config.ParseEmitMode(emit)
			if !ok {
				return fmt.Errorf("unknown --emit value %q", emit)
			}
			src, err := pipeline.ReadSource(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			opt := config.Default()
			opt.Src, opt.Out, opt.Emit, opt.Verbose = args[0], out, mode, *verbose

			res, err := pipeline.Compile(src, opt, progressFor(*verbose))
			printAll(res.Diagnostics)
			if err != nil {
				return err
			}
			if res.Diagnostics.HasErrors() {
				os.Exit(1)
			}
			printSummary(res.Diagnostics)
			if res.OutputPath != "" {
				fmt.Println(res.OutputPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "a.out", "output path")
	cmd.Flags().StringVar(&emit, "emit", "exe", "emission mode: exe, llvm, asm")
	return cmd
}

func newCheckCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Run phases 1-4 only: lex, parse, analyze",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := pipeline.ReadSource(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			res := pipeline.Check(src, progressFor(*verbose))
			printAll(res.Diagnostics)
			if res.Diagnostics.HasErrors() {
				os.Exit(1)
			}
			printSummary(res.Diagnostics)
			return nil
		},
	}
}

func newAutoFixCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "auto-fix <file>",
		Short: "Insert missing let type annotations where the initializer literal is unambiguous",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := pipeline.ReadSource(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			fixed := autofix.Fix(src)
			dest := out
			if dest == "" {
				dest = args[0] + ".fixed"
			}
			if err := os.WriteFile(dest, []byte(fixed), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", dest, err)
			}
			fmt.Println(dest)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path (default <file>.fixed)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version banner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(versionBanner)
			return nil
		},
	}
}

// printSummary reproduces compiler.py's "Compilation succeeded with N
// warnings" / silent-on-zero-warnings closing line.
func printSummary(list diag.List) {
	n := len(list.Warnings())
	if n == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "Compilation succeeded with %d warning(s)\n", n)
}

func printAll(list diag.List) {
	for _, d := range list {
		text := d.String()
		if d.Severity() == diag.SevWarning {
			fmt.Fprintln(os.Stderr, color.YellowString(text))
		} else {
			fmt.Fprintln(os.Stderr, color.RedString(text))
		}
	}
}
