package lexer

import "github.com/neopaquet/npc/internal/token"

// reservedWord pairs a reserved lexeme with the token.Kind it lexes to.
type reservedWord struct {
	val string
	typ token.Kind
}

// reserved groups every keyword of both dialects by lexeme length, indexed
// as reserved[length-2] (no keyword is shorter than two runes). Scanning the
// short per-length slice is cheaper than a hash lookup for a table this
// small.
var reserved = [...][]reservedWord{
	// length 2
	{{"fn", token.Fn}, {"if", token.If}, {"go", token.Go}},
	// length 3
	{{"let", token.Let}, {"for", token.For}, {"try", token.Try}, {"run", token.Run}, {"src", token.Src}},
	// length 4
	{{"else", token.Else}, {"from", token.From}, {"true", token.Boolean}, {"done", token.Done}, {"Task", token.Task},
		{"enum", token.Enum}, {"loop", token.Loop}},
	// length 5
	{{"while", token.While}, {"match", token.Match}, {"catch", token.Catch}, {"print", token.Print},
		{"false", token.Boolean}, {"setup", token.Setup}, {"Start", token.Start}},
	// length 6
	{{"return", token.Return}, {"struct", token.Struct}, {"import", token.Import}},
	// length 7
	{{"package", token.Package}, {"version", token.Version}, {"exports", token.Exports}},
	// length 8
	{{"complete", token.Complete}},
	// length 9..11: no keywords.
	{}, {}, {},
	// length 12
	{{"dependencies", token.Dependencies}},
}

// isKeyword reports whether s is a reserved word of either dialect, and if
// so returns the token.Kind it lexes to. The legacy sigil keyword "@func" is
// checked separately since "@" is not an identifier-start rune.
func isKeyword(s string) (token.Kind, bool) {
	if s == "@func" {
		return token.AtFunc, true
	}
	idx := len(s) - 2
	if idx < 0 || idx >= len(reserved) {
		return 0, false
	}
	for _, e := range reserved[idx] {
		if e.val == s {
			return e.typ, true
		}
	}
	return 0, false
}
