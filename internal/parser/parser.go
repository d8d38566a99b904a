// Package parser turns a filtered token stream into an ast.Program using
// recursive descent with precedence climbing for expressions. The parser
// performs no error recovery: the first unexpected token aborts parsing
// with a single ParseError diagnostic.
package parser

import (
	"fmt"
	"strconv"

	"github.com/neopaquet/npc/internal/ast"
	"github.com/neopaquet/npc/internal/diag"
	"github.com/neopaquet/npc/internal/lexer"
	"github.com/neopaquet/npc/internal/token"
)

// Parse lexes and parses src end to end, returning the resulting program and
// any lex or parse diagnostics. At most one diagnostic is ever produced: the
// parser aborts on the first unexpected token.
func Parse(src string) (*ast.Program, diag.List) {
	toks, errs := lexer.Filtered(src)
	if errs.HasErrors() {
		return nil, errs
	}
	p := &Parser{toks: toks}
	prog, err := p.parseProgram()
	if err != nil {
		errs.Add(*err)
		return nil, errs
	}
	return prog, errs
}

// Parser holds parse state over an already-lexed, trivia-filtered token
// stream.
type Parser struct {
	toks []token.Token
	pos  int
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // Eof
	}
	return p.toks[p.pos]
}

func (p *Parser) at(k token.Kind) bool {
	return p.cur().Kind == k
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) (token.Token, *diag.Diagnostic) {
	if !p.at(k) {
		return token.Token{}, p.unexpected(k)
	}
	return p.advance(), nil
}

func (p *Parser) unexpected(want ...token.Kind) *diag.Diagnostic {
	got := p.cur()
	d := diag.New(diag.ParseError, diag.Position(got.Pos), "expected %s, got %s %q", kindList(want), got.Kind, got.Lexeme)
	return &d
}

func kindList(ks []token.Kind) string {
	if len(ks) == 1 {
		return ks[0].String()
	}
	s := ""
	for i, k := range ks {
		if i > 0 {
			s += " or "
		}
		s += k.String()
	}
	return s
}

// parseProgram parses statements until Eof.
func (p *Parser) parseProgram() (*ast.Program, *diag.Diagnostic) {
	prog := &ast.Program{}
	p.skipSemicolons()
	for !p.at(token.Eof) {
		stmt, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		p.skipSemicolons()
	}
	return prog, nil
}

// skipSemicolons consumes zero or more statement-terminating semicolons.
// The modern dialect terminates statements with ';'; the legacy dialect
// never emits one, so treating it as optional punctuation lets both
// dialects share one statement loop.
func (p *Parser) skipSemicolons() {
	for p.at(token.Semicolon) {
		p.advance()
	}
}

// parseTopLevel dispatches on the first token, same as parseStatement, but
// top-level is also where legacy src/@func/package/import live.
func (p *Parser) parseTopLevel() (ast.Stmt, *diag.Diagnostic) {
	return p.parseStatement()
}

func (p *Parser) parseStatement() (ast.Stmt, *diag.Diagnostic) {
	switch p.cur().Kind {
	case token.Let:
		return p.parseLet()
	case token.Fn:
		return p.parseFnDef()
	case token.Return:
		return p.parseReturn()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.For:
		return p.parseFor()
	case token.LBrace:
		return p.parseBlock()
	case token.Struct:
		return p.parseStructDef()
	case token.Import:
		return p.parseImport()
	case token.Package:
		return p.parsePackageDecl()
	case token.Src:
		return p.parseLegacySrc()
	case token.AtFunc:
		return p.parseLegacyFunc()
	case token.Loop:
		return p.parseLegacyLoop()
	case token.Try:
		return p.parseTryCatch()
	case token.Print:
		if p.peekKind(1) == token.LBracket {
			return p.parseLegacyPrint()
		}
		return p.parseExprOrAssign()
	default:
		return p.parseExprOrAssign()
	}
}

func (p *Parser) peekKind(ahead int) token.Kind {
	idx := p.pos + ahead
	if idx >= len(p.toks) {
		return token.Eof
	}
	return p.toks[idx].Kind
}

// parseExprOrAssign disambiguates `ident = expr` (Assign) from a bare
// expression statement; both start with an expression-shaped prefix.
func (p *Parser) parseExprOrAssign() (ast.Stmt, *diag.Diagnostic) {
	at := p.cur().Pos
	if p.at(token.Identifier) && p.peekKind(1) == token.Assign {
		name := p.advance().Lexeme
		p.advance() // '='
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Name: name, Expr: val, At: at}, nil
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: e, At: at}, nil
}

// ---- declarations ----------------------------------------------------

func (p *Parser) parseLet() (ast.Stmt, *diag.Diagnostic) {
	at := p.advance().Pos // 'let'
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	s := &ast.Let{Name: name.Lexeme, At: at}
	if p.at(token.Colon) {
		p.advance()
		typ, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		s.Type = typ.Lexeme
	}
	if p.at(token.Assign) {
		p.advance()
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		s.Value = v
	}
	return s, nil
}

func (p *Parser) parseFnDef() (ast.Stmt, *diag.Diagnostic) {
	at := p.advance().Pos // 'fn'
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.at(token.RParen) {
		pname, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		ptyp, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: pname.Lexeme, Type: ptyp.Lexeme, At: pname.Pos})
		if p.at(token.Comma) {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	ret := ""
	if p.at(token.Arrow) {
		p.advance()
		t, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		ret = t.Lexeme
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FnDef{Name: name.Lexeme, Params: params, ReturnType: ret, Body: body.(*ast.Block), At: at}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, *diag.Diagnostic) {
	at := p.advance().Pos // 'return'
	if p.at(token.RBrace) || p.at(token.Eof) {
		return &ast.Return{At: at}, nil
	}
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Return{Value: v, At: at}, nil
}

func (p *Parser) parseIf() (ast.Stmt, *diag.Diagnostic) {
	at := p.advance().Pos // 'if'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	s := &ast.If{Cond: cond, Then: then.(*ast.Block), At: at}
	if p.at(token.Else) {
		p.advance()
		els, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		s.Else = els.(*ast.Block)
	}
	return s, nil
}

func (p *Parser) parseWhile() (ast.Stmt, *diag.Diagnostic) {
	at := p.advance().Pos // 'while'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body.(*ast.Block), At: at}, nil
}

func (p *Parser) parseFor() (ast.Stmt, *diag.Diagnostic) {
	at := p.advance().Pos // 'for'
	v, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	iter, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.For{Var: v.Lexeme, Iterable: iter, Body: body.(*ast.Block), At: at}, nil
}

func (p *Parser) parseBlock() (ast.Stmt, *diag.Diagnostic) {
	at, err := p.expect(token.LBrace)
	if err != nil {
		return nil, err
	}
	b := &ast.Block{At: at.Pos}
	p.skipSemicolons()
	for !p.at(token.RBrace) {
		if p.at(token.Eof) {
			return nil, p.unexpected(token.RBrace)
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		b.Statements = append(b.Statements, s)
		p.skipSemicolons()
	}
	p.advance() // '}'
	return b, nil
}

func (p *Parser) parseStructDef() (ast.Stmt, *diag.Diagnostic) {
	at := p.advance().Pos // 'struct'
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	s := &ast.StructDef{Name: name.Lexeme, At: at}
	for !p.at(token.RBrace) {
		fname, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		ftyp, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, ast.StructField{Name: fname.Lexeme, Type: ftyp.Lexeme, At: fname.Pos})
		if p.at(token.Comma) {
			p.advance()
		}
	}
	p.advance() // '}'
	return s, nil
}

func (p *Parser) parseImport() (ast.Stmt, *diag.Diagnostic) {
	at := p.advance().Pos // 'import'
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	s := &ast.Import{Module: name.Lexeme, At: at}
	if p.at(token.From) {
		p.advance()
		f, err := p.expect(token.String)
		if err != nil {
			return nil, err
		}
		s.From = unquote(f.Lexeme)
	}
	if p.at(token.Version) {
		p.advance()
		v, err := p.expect(token.String)
		if err != nil {
			return nil, err
		}
		s.Version = unquote(v.Lexeme)
	}
	return s, nil
}

func (p *Parser) parsePackageDecl() (ast.Stmt, *diag.Diagnostic) {
	at := p.advance().Pos // 'package'
	name, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Version); err != nil {
		return nil, err
	}
	ver, err := p.expect(token.String)
	if err != nil {
		return nil, err
	}
	s := &ast.PackageDecl{Name: name.Lexeme, Version: unquote(ver.Lexeme), At: at}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	for !p.at(token.RBrace) {
		switch p.cur().Kind {
		case token.Dependencies:
			p.advance()
			if _, err := p.expect(token.LBrace); err != nil {
				return nil, err
			}
			for !p.at(token.RBrace) {
				pkg, err := p.expect(token.Identifier)
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(token.Colon); err != nil {
					return nil, err
				}
				constraint, err := p.expect(token.String)
				if err != nil {
					return nil, err
				}
				s.Deps = append(s.Deps, ast.Dependency{Package: pkg.Lexeme, VersionConstraint: unquote(constraint.Lexeme), At: pkg.Pos})
				if p.at(token.Comma) {
					p.advance()
				}
			}
			p.advance() // '}'
		case token.Exports:
			p.advance()
			if _, err := p.expect(token.LBrace); err != nil {
				return nil, err
			}
			for !p.at(token.RBrace) {
				ident, err := p.expect(token.Identifier)
				if err != nil {
					return nil, err
				}
				s.Exports = append(s.Exports, ident.Lexeme)
				if p.at(token.Comma) {
					p.advance()
				}
			}
			p.advance() // '}'
		default:
			return nil, p.unexpected(token.Dependencies, token.Exports, token.RBrace)
		}
	}
	p.advance() // '}'
	return s, nil
}

// ---- legacy dialect ----------------------------------------------------

// parseLegacySrc parses `src '(' ')' string '{' block '}' 'run'` into an
// implicit FnDef("main", [], i32, body).
func (p *Parser) parseLegacySrc() (ast.Stmt, *diag.Diagnostic) {
	at := p.advance().Pos // 'src'
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.String); err != nil { // target, e.g. "stdout"
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Run); err != nil {
		return nil, err
	}
	return &ast.FnDef{Name: "main", ReturnType: "i32", Body: body.(*ast.Block), At: at}, nil
}

// parseLegacyFunc parses `@func '(' string ')' '[' ident ']' 'go' block`
// into FnDef(name, [ident: i32], i32, body).
func (p *Parser) parseLegacyFunc() (ast.Stmt, *diag.Diagnostic) {
	at := p.advance().Pos // '@func'
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	name, err := p.expect(token.String)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBracket); err != nil {
		return nil, err
	}
	arg, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Go); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	params := []ast.Param{{Name: arg.Lexeme, Type: "i32", At: arg.Pos}}
	return &ast.FnDef{Name: unquote(name.Lexeme), Params: params, ReturnType: "i32", Body: body.(*ast.Block), At: at}, nil
}

// parseLegacyLoop parses `loop string block` into a While whose condition is
// always true, so the loop exits only through a return; the string label is
// required by the syntax and then discarded.
func (p *Parser) parseLegacyLoop() (ast.Stmt, *diag.Diagnostic) {
	at := p.advance().Pos // 'loop'
	if _, err := p.expect(token.String); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	cond := &ast.Literal{Value: true, Kind: ast.KindBool, At: at}
	return &ast.While{Cond: cond, Body: body.(*ast.Block), At: at}, nil
}

// parseTryCatch parses `try block catch block`.
func (p *Parser) parseTryCatch() (ast.Stmt, *diag.Diagnostic) {
	at := p.advance().Pos // 'try'
	tryBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Catch); err != nil {
		return nil, err
	}
	catchBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.TryCatch{Try: tryBlock.(*ast.Block), Catch: catchBlock.(*ast.Block), At: at}, nil
}

// parseLegacyPrint parses `print '[' string ']'`.
func (p *Parser) parseLegacyPrint() (ast.Stmt, *diag.Diagnostic) {
	at := p.advance().Pos // 'print'
	if _, err := p.expect(token.LBracket); err != nil {
		return nil, err
	}
	text, err := p.expect(token.String)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	return &ast.Print{Text: unquote(text.Lexeme), At: at}, nil
}

// ---- expressions: precedence climbing ---------------------------------

func (p *Parser) parseExpr() (ast.Expr, *diag.Diagnostic) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expr, *diag.Diagnostic) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.OrOr) {
		op := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op.Kind, Left: left, Right: right, At: op.Pos}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, *diag.Diagnostic) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.at(token.AndAnd) {
		op := p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op.Kind, Left: left, Right: right, At: op.Pos}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expr, *diag.Diagnostic) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.at(token.Eq) || p.at(token.NotEq) {
		op := p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op.Kind, Left: left, Right: right, At: op.Pos}
	}
	return left, nil
}

func (p *Parser) parseRelational() (ast.Expr, *diag.Diagnostic) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.at(token.Lt) || p.at(token.LtEq) || p.at(token.Gt) || p.at(token.GtEq) {
		op := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op.Kind, Left: left, Right: right, At: op.Pos}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, *diag.Diagnostic) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(token.Plus) || p.at(token.Minus) {
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op.Kind, Left: left, Right: right, At: op.Pos}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, *diag.Diagnostic) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.Percent) {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op.Kind, Left: left, Right: right, At: op.Pos}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, *diag.Diagnostic) {
	if p.at(token.Bang) || p.at(token.Minus) {
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: op.Kind, Operand: operand, At: op.Pos}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, *diag.Diagnostic) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case token.LParen:
			at := p.advance().Pos
			var args []ast.Expr
			for !p.at(token.RParen) {
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.at(token.Comma) {
					p.advance()
				} else {
					break
				}
			}
			if _, err := p.expect(token.RParen); err != nil {
				return nil, err
			}
			e = &ast.Call{Callee: e, Args: args, At: at}
		case token.Dot:
			p.advance()
			field, err := p.expect(token.Identifier)
			if err != nil {
				return nil, err
			}
			e = &ast.Member{Object: e, Field: field.Lexeme, At: field.Pos}
		default:
			return e, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, *diag.Diagnostic) {
	t := p.cur()
	switch t.Kind {
	case token.Integer:
		p.advance()
		v, perr := parseIntLiteral(t.Lexeme)
		if perr != nil {
			d := diag.New(diag.ParseError, diag.Position(t.Pos), "malformed integer literal %q: %s", t.Lexeme, perr)
			return nil, &d
		}
		return &ast.Literal{Value: v, Raw: t.Lexeme, Kind: ast.KindI32, At: t.Pos}, nil
	case token.Float:
		p.advance()
		v, perr := parseFloatLiteral(t.Lexeme)
		if perr != nil {
			d := diag.New(diag.ParseError, diag.Position(t.Pos), "malformed float literal %q: %s", t.Lexeme, perr)
			return nil, &d
		}
		return &ast.Literal{Value: v, Kind: ast.KindF64, At: t.Pos}, nil
	case token.String:
		p.advance()
		return &ast.Literal{Value: unquote(t.Lexeme), Kind: ast.KindString, At: t.Pos}, nil
	case token.Boolean:
		p.advance()
		return &ast.Literal{Value: t.Lexeme == "true", Kind: ast.KindBool, At: t.Pos}, nil
	case token.Identifier:
		p.advance()
		return &ast.Ident{Name: t.Lexeme, At: t.Pos}, nil
	case token.Print:
		// Modern-dialect call to the built-in print(...) function.
		p.advance()
		return &ast.Ident{Name: "print", At: t.Pos}, nil
	case token.LParen:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, p.unexpected(token.Integer, token.Float, token.String, token.Boolean, token.Identifier, token.LParen)
	}
}

func unquote(lexeme string) string {
	if len(lexeme) < 2 {
		return lexeme
	}
	body := lexeme[1 : len(lexeme)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			case '\'':
				out = append(out, '\'')
			default:
				out = append(out, '\\', body[i])
			}
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// parseIntLiteral parses an Integer token's lexeme for the purpose of
// building a usable ast.Literal.Value. Lexemes containing the legacy
// dodecagram digits 'a'/'b' can only have been scanned while the legacy
// dialect's digit set was active, so they are read in base 12; plain
// decimal lexemes are read in base 10 per the modern dialect. The original
// lexeme is preserved separately in Literal.Raw for irbuild, which applies
// the spec's narrower base-12 rule (legacy Assign/Return only) rather than
// this parse-time convenience value.
func parseIntLiteral(lexeme string) (int64, error) {
	base := 10
	for _, c := range lexeme {
		if c == 'a' || c == 'b' || c == 'A' || c == 'B' {
			base = 12
			break
		}
	}
	v, err := strconv.ParseInt(lexeme, base, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func parseFloatLiteral(lexeme string) (float64, error) {
	var v float64
	if _, err := fmt.Sscanf(lexeme, "%g", &v); err != nil {
		return 0, err
	}
	return v, nil
}
