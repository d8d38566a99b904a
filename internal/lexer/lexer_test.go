package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neopaquet/npc/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestFiltered_ModernLetBinding(t *testing.T) {
	toks, errs := Filtered(`let x: i32 = 12;`)
	require.False(t, errs.HasErrors())
	assert.Equal(t, []token.Kind{
		token.Let, token.Identifier, token.Colon, token.Identifier,
		token.Assign, token.Integer, token.Semicolon, token.Eof,
	}, kinds(toks))
}

func TestFiltered_LegacyPrintStatement(t *testing.T) {
	toks, errs := Filtered(`print ["hi"]`)
	require.False(t, errs.HasErrors())
	assert.Equal(t, []token.Kind{
		token.Print, token.LBracket, token.String, token.RBracket, token.Eof,
	}, kinds(toks))
}

func TestFiltered_StripsCommentsAndNewlines(t *testing.T) {
	src := "let x = 1 // comment\nlet y = 2\n"
	toks, errs := Filtered(src)
	require.False(t, errs.HasErrors())
	for _, k := range kinds(toks) {
		assert.NotEqual(t, token.Comment, k)
		assert.NotEqual(t, token.Newline, k)
	}
}

func TestFiltered_SameLineBlockCommentIsSkipped(t *testing.T) {
	toks, errs := Filtered(`; a legacy comment ; let x = 1;`)
	require.False(t, errs.HasErrors())
	assert.Equal(t, []token.Kind{
		token.Let, token.Identifier, token.Assign, token.Integer, token.Semicolon, token.Eof,
	}, kinds(toks))
}

func TestRun_LineNumbersAdvanceOncePerNewline(t *testing.T) {
	toks, errs := Run("let a = 1;\nlet b = 2;\nlet c = 3;\n")
	require.False(t, errs.HasErrors())
	var bLine int
	for _, tk := range toks {
		if tk.Kind == token.Identifier && tk.Lexeme == "b" {
			bLine = tk.Pos.Line
		}
	}
	assert.Equal(t, 2, bLine)
}

func TestRun_UnknownByteProducesLexError(t *testing.T) {
	_, errs := Run("let x = `;")
	assert.True(t, errs.HasErrors())
}

func TestTokenPositionsAreMonotonic(t *testing.T) {
	toks, errs := Filtered("let a = 1;\nlet b = 2;\n")
	require.False(t, errs.HasErrors())
	for i := 1; i < len(toks); i++ {
		assert.False(t, toks[i].Pos.Less(toks[i-1].Pos), "token %d position went backwards", i)
	}
}
