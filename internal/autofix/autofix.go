// Package autofix implements the lightweight text rewrite spec §6.1 assigns
// to Driver A's `auto-fix` subcommand. §9's Open Question flags the
// original "add trailing `;`, infer type annotations" heuristic as fragile
// enough to corrupt valid programs; this reduces it to the stricter half of
// that description only: inserting a missing `let` type annotation when the
// initializer is an unambiguous literal, and nothing else. It never runs as
// part of compile or check — only an explicit `npcctl auto-fix` invocation
// calls Fix.
package autofix

import (
	"regexp"
)

// letNoType matches a modern-dialect `let NAME = LITERAL` with no `: Type`
// annotation, where LITERAL is simple enough to classify unambiguously:
// a quoted string, a float, an integer, or true/false.
var letNoType = regexp.MustCompile(`\blet\s+([A-Za-z_][A-Za-z0-9_]*)\s*=\s*("(?:[^"\\]|\\.)*"|(?:-?\d+\.\d+|-?\d+|true|false)\b)`)

// Fix rewrites src, inserting a type annotation into every `let` binding
// that lacks one and whose initializer literal unambiguously implies a
// type. It performs no other rewrite: no semicolon insertion, no
// speculative type inference off anything but a literal initializer.
func Fix(src string) string {
	return letNoType.ReplaceAllStringFunc(src, func(m string) string {
		groups := letNoType.FindStringSubmatch(m)
		name, lit := groups[1], groups[2]
		return "let " + name + ": " + literalType(lit) + " = " + lit
	})
}

func literalType(lit string) string {
	switch {
	case len(lit) > 0 && lit[0] == '"':
		return "String"
	case lit == "true" || lit == "false":
		return "bool"
	case containsDot(lit):
		return "f64"
	default:
		return "i32"
	}
}

func containsDot(s string) bool {
	for _, r := range s {
		if r == '.' {
			return true
		}
	}
	return false
}
