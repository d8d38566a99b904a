// Package lexer turns source text into a token stream. It is based on the
// state-function scanning style from Rob Pike's "Lexical Scanning in Go"
// talk, as used by the teacher compiler's frontend, but runs synchronously:
// the compiler pipeline is single-threaded (no phase may suspend), so the
// lexer appends directly to a slice instead of emitting on a channel to a
// concurrently-running parser.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/neopaquet/npc/internal/diag"
	"github.com/neopaquet/npc/internal/token"
)

// stateFunc defines the current scanning state. Each call consumes zero or
// more runes and returns the next state, or nil at end of input or on error.
type stateFunc func(*Lexer) stateFunc

const eof = rune(0)

// Lexer scans a source string into a token stream. A Lexer has no side
// effects: it does not touch the filesystem and produces no output other
// than the tokens and diagnostics it returns from Run.
type Lexer struct {
	input       string
	start       int // byte offset of the token currently being scanned
	pos         int // byte offset of the scan cursor
	width       int // width in bytes of the last rune returned by next
	line        int
	startOnLine int // column of the start of the current token

	tokens []token.Token
	errs   diag.List
	legacy bool // true once a legacy-dialect token has been seen; adds the base-12 digits a and b to number scanning
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{input: src, line: 1, startOnLine: 1}
}

// Run scans the entire input and returns the resulting token stream (always
// terminated by exactly one Eof token) together with any lex diagnostics.
// Lexing halts at the first unknown byte.
func Run(src string) ([]token.Token, diag.List) {
	l := New(src)
	for state := stateStart; state != nil; {
		state = state(l)
	}
	if len(l.tokens) == 0 || l.tokens[len(l.tokens)-1].Kind != token.Eof {
		l.emit(token.Eof)
	}
	return l.tokens, l.errs
}

// Filtered scans src and returns only the non-trivia tokens (Newline and
// Comment removed), the form the parser consumes.
func Filtered(src string) ([]token.Token, diag.List) {
	toks, errs := Run(src)
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.Newline || t.Kind == token.Comment {
			continue
		}
		out = append(out, t)
	}
	return out, errs
}

func (l *Lexer) pos2() token.Position {
	return token.Position{Line: l.line, Column: l.startOnLine}
}

func (l *Lexer) emit(kind token.Kind) {
	lexeme := l.input[l.start:l.pos]
	l.tokens = append(l.tokens, token.Token{Kind: kind, Lexeme: lexeme, Pos: l.pos2()})
	l.advanceStart(lexeme)
}

func (l *Lexer) advanceStart(consumed string) {
	if nl := strings.Count(consumed, "\n"); nl > 0 {
		l.line += nl
		l.startOnLine = len(consumed) - strings.LastIndexByte(consumed, '\n')
	} else {
		l.startOnLine += len(consumed)
	}
	l.start = l.pos
}

func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	l.errs.Add(diag.New(diag.LexError, diag.Position(l.pos2()), format, args...))
	return nil
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += w
	l.width = w
	return r
}

func (l *Lexer) backup() {
	if l.pos > l.start {
		l.pos -= l.width
	}
}

func (l *Lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *Lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

const digits = "0123456789"
const legacyDigits = "0123456789ab"

// stateStart is the root scanning state: skip or classify the next rune.
func stateStart(l *Lexer) stateFunc {
	r := l.next()
	switch {
	case r == eof:
		return nil
	case r == '\n':
		l.emit(token.Newline) // advanceStart counts the embedded '\n' and advances l.line once
		return stateStart
	case r == ' ' || r == '\t' || r == '\r':
		l.ignore()
		return stateStart
	case r == '"' || r == '\'':
		return stateString(r)
	case r == '/' && l.peek() == '/':
		return stateLineComment
	case r == '-' && l.peek() == '-':
		return stateLineComment
	case r == ';' && looksLikeBlockComment(l):
		return stateBlockComment
	case unicode.IsDigit(r):
		l.backup()
		return stateNumber
	case r == '@' || unicode.IsLetter(r) || r == '_':
		l.backup()
		return stateIdentifier
	default:
		l.backup()
		return stateOperator
	}
}

// looksLikeBlockComment is a rest-of-line lookahead heuristic: the legacy block
// comment form is "; … ;" and only ever appears where a modern-dialect
// semicolon would otherwise be meaningless punctuation, so a bare ';' is
// punctuation unless a matching closing ';' exists later on the same line.
func looksLikeBlockComment(l *Lexer) bool {
	rest := l.input[l.pos:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return strings.ContainsRune(rest, ';')
}

func (l *Lexer) ignore() {
	l.start = l.pos
	l.startOnLine++
}

func stateLineComment(l *Lexer) stateFunc {
	for {
		r := l.next()
		if r == '\n' || r == eof {
			l.backup()
			break
		}
	}
	l.emit(token.Comment)
	return stateStart
}

func stateBlockComment(l *Lexer) stateFunc {
	for {
		r := l.next()
		if r == eof {
			return l.errorf("unterminated block comment")
		}
		if r == ';' {
			break
		}
	}
	l.emit(token.Comment)
	return stateStart
}

func stateString(quote rune) stateFunc {
	return func(l *Lexer) stateFunc {
		for {
			r := l.next()
			switch r {
			case eof, '\n':
				return l.errorf("unterminated string literal")
			case '\\':
				switch l.next() {
				case 'n', 't', 'r', '\\', '"', '\'':
					// valid escape
				default:
					l.backup()
					return l.errorf("invalid escape sequence in string literal")
				}
			case quote:
				l.emit(token.String)
				return stateStart
			}
		}
	}
}

func stateNumber(l *Lexer) stateFunc {
	set := digits
	if l.legacy {
		set = legacyDigits
	}
	l.acceptRun(set)
	isFloat := false
	if l.accept(".") {
		isFloat = true
		l.acceptRun(set)
	}
	if isIdentRune(l.peek()) {
		l.acceptRun(identChars)
		return l.errorf("malformed numeric literal: %q", l.input[l.start:l.pos])
	}
	if isFloat {
		l.emit(token.Float)
	} else {
		l.emit(token.Integer)
	}
	return stateStart
}

const identChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-"

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

func stateIdentifier(l *Lexer) stateFunc {
	if l.peek() == '@' {
		l.next()
	}
	l.acceptRun(identChars)
	lexeme := l.input[l.start:l.pos]
	if kind, ok := isKeyword(lexeme); ok {
		if isLegacyKeyword(kind) {
			l.legacy = true
		}
		l.emit(kind)
		return stateStart
	}
	l.emit(token.Identifier)
	return stateStart
}

func isLegacyKeyword(k token.Kind) bool {
	switch k {
	case token.Src, token.Run, token.Task, token.Complete, token.Start,
		token.Setup, token.Done, token.AtFunc, token.Go, token.Loop,
		token.Try, token.Catch:
		return true
	}
	return false
}

// twoCharOps lists every multi-character operator; longest match wins and is
// always tried before its single-character prefix.
var twoCharOps = []struct {
	lex string
	typ token.Kind
}{
	{"==", token.Eq}, {"!=", token.NotEq}, {"<=", token.LtEq}, {">=", token.GtEq},
	{"->", token.Arrow}, {"&&", token.AndAnd}, {"||", token.OrOr},
}

var oneCharOps = map[rune]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash, '%': token.Percent,
	'=': token.Assign, '<': token.Lt, '>': token.Gt, '!': token.Bang,
	'(': token.LParen, ')': token.RParen, '{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket, ';': token.Semicolon, ',': token.Comma,
	'.': token.Dot, ':': token.Colon, '|': token.Pipe,
}

func stateOperator(l *Lexer) stateFunc {
	rest := l.input[l.pos:]
	for _, op := range twoCharOps {
		if strings.HasPrefix(rest, op.lex) {
			l.pos += len(op.lex)
			l.emit(op.typ)
			return stateStart
		}
	}
	r := l.next()
	if kind, ok := oneCharOps[r]; ok {
		l.emit(kind)
		return stateStart
	}
	return l.errorf("unexpected byte %q", r)
}
