// Package parser turns a token stream into an AST.
//
// It is a recursive-descent parser with precedence climbing for binary
// operators. All binary operators are left-associative. Newline tokens are
// skipped at declaration boundaries and inside the bracketed constructs
// where the grammar allows them.
//
// Internally the parser panics with a *diag.Error and recovers at the Parse
// boundary; callers only ever see the returned error.
package parser

import (
	"strconv"
	"strings"

	"github.com/rubiojr/setsuna/ast"
	"github.com/rubiojr/setsuna/diag"
	"github.com/rubiojr/setsuna/lexer"
)

// Parser holds the token stream and the cursor. Parsing the same tokens
// twice yields structurally equal ASTs; the parser has no hidden state.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// New creates a parser over toks. The stream must end in an EOF token, as
// produced by lexer.Tokenize.
func New(toks []lexer.Token) *Parser {
	return &Parser{toks: toks}
}

// ParseSource tokenizes and parses source in one step.
func ParseSource(source, file string) (*ast.Program, error) {
	toks, err := lexer.Tokenize(source, file)
	if err != nil {
		return nil, err
	}
	return New(toks).Parse()
}

// Parse consumes all declarations and returns the program.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(*diag.Error)
			if !ok {
				panic(r)
			}
			prog, err = nil, de
		}
	}()

	prog = &ast.Program{}
	p.skipSeparators()
	for !p.atEnd() {
		prog.Decls = append(prog.Decls, p.parseDecl())
		p.skipSeparators()
	}
	return prog, nil
}

// ============ Cursor helpers ============

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *Parser) peek(offset int) lexer.Token {
	i := p.pos + offset
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) check(t lexer.TokenType) bool {
	return p.current().Type == t
}

func (p *Parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(t lexer.TokenType, msg string) lexer.Token {
	if !p.check(t) {
		panic(diag.Parsef(p.current().Pos, "%s, got %s", msg, p.current().Type))
	}
	tok := p.current()
	p.advance()
	return tok
}

func (p *Parser) advance() {
	if !p.atEnd() {
		p.pos++
	}
}

func (p *Parser) atEnd() bool {
	return p.current().Type == lexer.EOF
}

func (p *Parser) skipNewlines() {
	for p.check(lexer.NEWLINE) {
		p.advance()
	}
}

// skipSeparators skips newlines and stray expression-separating semicolons.
func (p *Parser) skipSeparators() {
	for p.check(lexer.NEWLINE) || p.check(lexer.SEMICOLON) {
		p.advance()
	}
}

// ============ Declarations ============

func (p *Parser) parseDecl() ast.Decl {
	p.skipNewlines()
	switch p.current().Type {
	case lexer.TYPE:
		return p.parseTypeDef()
	case lexer.MODULE:
		return p.parseModuleDef()
	case lexer.IMPORT:
		return p.parseImport()
	}
	return &ast.ExprDecl{Expr: p.parseExpr()}
}

func (p *Parser) parseTypeDef() *ast.TypeDef {
	pos := p.current().Pos
	p.expect(lexer.TYPE, "Expected 'type'")
	name := p.expect(lexer.IDENT, "Expected type name").Str

	var typeParams []string
	if p.match(lexer.LT) {
		for {
			typeParams = append(typeParams, p.expect(lexer.IDENT, "Expected type parameter").Str)
			if !p.match(lexer.COMMA) {
				break
			}
		}
		p.expect(lexer.GT, "Expected '>'")
	}

	p.expect(lexer.LBRACE, "Expected '{'")
	p.skipNewlines()

	var ctors []ast.Ctor
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		ctor := ast.Ctor{Name: p.expect(lexer.IDENT, "Expected constructor name").Str}
		if p.match(lexer.LPAREN) {
			if !p.check(lexer.RPAREN) {
				for {
					ctor.Fields = append(ctor.Fields, p.parseTypeExpr())
					if !p.match(lexer.COMMA) {
						break
					}
				}
			}
			p.expect(lexer.RPAREN, "Expected ')'")
		}
		ctors = append(ctors, ctor)
		if !p.check(lexer.RBRACE) && !p.match(lexer.COMMA) {
			p.skipNewlines()
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE, "Expected '}'")

	return &ast.TypeDef{Name: name, TypeParams: typeParams, Ctors: ctors, Pos: pos}
}

func (p *Parser) parseModuleDef() *ast.ModuleDef {
	pos := p.current().Pos
	p.expect(lexer.MODULE, "Expected 'module'")
	name := p.expect(lexer.IDENT, "Expected module name").Str

	p.expect(lexer.LBRACE, "Expected '{'")
	p.skipNewlines()

	var body []ast.Expr
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		body = append(body, p.parseExpr())
		p.skipSeparators()
	}
	p.expect(lexer.RBRACE, "Expected '}'")

	return &ast.ModuleDef{Name: name, Body: body, Pos: pos}
}

func (p *Parser) parseImport() *ast.Import {
	pos := p.current().Pos
	p.expect(lexer.IMPORT, "Expected 'import'")
	name := p.expect(lexer.IDENT, "Expected module name").Str

	alias := ""
	if p.match(lexer.AS) {
		alias = p.expect(lexer.IDENT, "Expected module alias").Str
	}
	p.match(lexer.SEMICOLON)

	return &ast.Import{Module: name, Alias: alias, Pos: pos}
}

// ============ Expressions ============

func (p *Parser) parseExpr() ast.Expr {
	p.skipNewlines()

	switch p.current().Type {
	case lexer.LET, lexer.CONST:
		return p.parseLet()
	case lexer.FN:
		return p.parseFnDef()
	case lexer.IF:
		return p.parseIf()
	case lexer.MATCH:
		return p.parseMatch()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	}

	// Assignment: name = expr. (== is a distinct token, so this is unambiguous.)
	if p.check(lexer.IDENT) && p.peek(1).Type == lexer.ASSIGN {
		pos := p.current().Pos
		name := p.current().Str
		p.advance()
		p.advance()
		value := p.parseExpr()
		p.match(lexer.SEMICOLON)
		return &ast.Assign{Name: name, Value: value, Pos: pos}
	}

	// { ... } is a record when the first non-newline token inside is an
	// identifier immediately followed by ':'; otherwise a block.
	if p.check(lexer.LBRACE) && !p.recordAhead() {
		return p.parseBlock()
	}

	return p.parseOr()
}

// recordAhead reports whether the '{' at the cursor opens a record literal.
func (p *Parser) recordAhead() bool {
	off := 1
	for p.peek(off).Type == lexer.NEWLINE {
		off++
	}
	return p.peek(off).Type == lexer.IDENT && p.peek(off+1).Type == lexer.COLON
}

func (p *Parser) parseLet() ast.Expr {
	pos := p.current().Pos
	isConst := p.check(lexer.CONST)
	p.advance() // let or const

	name := p.expect(lexer.IDENT, "Expected identifier").Str

	var annotation ast.TypeExpr
	if p.match(lexer.COLON) {
		annotation = p.parseTypeExpr()
	}

	p.expect(lexer.ASSIGN, "Expected '='")
	value := p.parseExpr()
	p.match(lexer.SEMICOLON)

	return &ast.Let{Name: name, Type: annotation, Value: value, Const: isConst, Pos: pos}
}

func (p *Parser) parseFnDef() ast.Expr {
	pos := p.current().Pos
	p.expect(lexer.FN, "Expected 'fn'")
	name := p.expect(lexer.IDENT, "Expected function name").Str

	params := p.parseParams()

	var ret ast.TypeExpr
	if p.match(lexer.COLON) {
		ret = p.parseTypeExpr()
	}

	var body ast.Expr
	if p.match(lexer.ARROW) {
		body = p.parseExpr()
	} else {
		body = p.parseBlock()
	}
	p.match(lexer.SEMICOLON)

	return &ast.FnDef{Name: name, Params: params, Return: ret, Body: body, Pos: pos}
}

func (p *Parser) parseIf() ast.Expr {
	pos := p.current().Pos
	p.expect(lexer.IF, "Expected 'if'")

	cond := p.parseExpr()
	then := p.parseBlock()

	var els ast.Expr
	if p.match(lexer.ELSE) {
		if p.check(lexer.IF) {
			els = p.parseIf()
		} else {
			els = p.parseBlock()
		}
	}

	return &ast.If{Cond: cond, Then: then, Else: els, Pos: pos}
}

func (p *Parser) parseWhile() ast.Expr {
	pos := p.current().Pos
	p.expect(lexer.WHILE, "Expected 'while'")
	cond := p.parseExpr()
	body := p.parseBlock()
	return &ast.While{Cond: cond, Body: body, Pos: pos}
}

func (p *Parser) parseFor() ast.Expr {
	pos := p.current().Pos
	p.expect(lexer.FOR, "Expected 'for'")
	name := p.expect(lexer.IDENT, "Expected loop variable").Str
	p.expect(lexer.IN, "Expected 'in'")
	iterable := p.parseExpr()
	body := p.parseBlock()
	return &ast.For{Var: name, Iterable: iterable, Body: body, Pos: pos}
}

func (p *Parser) parseMatch() ast.Expr {
	pos := p.current().Pos
	p.expect(lexer.MATCH, "Expected 'match'")

	scrutinee := p.parseExpr()
	p.expect(lexer.LBRACE, "Expected '{'")
	p.skipNewlines()

	var arms []ast.MatchArm
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		pat := p.parsePattern()

		var guard ast.Expr
		if p.match(lexer.IF) {
			guard = p.parseExpr()
		}

		p.expect(lexer.ARROW, "Expected '=>'")
		body := p.parseExpr()
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body})

		if !p.check(lexer.RBRACE) {
			p.match(lexer.COMMA)
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE, "Expected '}'")

	return &ast.Match{Scrutinee: scrutinee, Arms: arms, Pos: pos}
}

func (p *Parser) parseBlock() ast.Expr {
	pos := p.current().Pos
	p.expect(lexer.LBRACE, "Expected '{'")
	p.skipNewlines()

	var exprs []ast.Expr
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		exprs = append(exprs, p.parseExpr())
		p.skipSeparators()
	}
	p.expect(lexer.RBRACE, "Expected '}'")

	return &ast.Block{Exprs: exprs, Pos: pos}
}

// ============ Binary operators (precedence climbing) ============

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.check(lexer.OR) {
		pos := p.current().Pos
		p.advance()
		left = &ast.Binary{Op: ast.OR, Left: left, Right: p.parseAnd(), Pos: pos}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.check(lexer.AND) {
		pos := p.current().Pos
		p.advance()
		left = &ast.Binary{Op: ast.AND, Left: left, Right: p.parseEquality(), Pos: pos}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for p.check(lexer.EQ) || p.check(lexer.NEQ) {
		pos := p.current().Pos
		op := ast.EQ
		if p.check(lexer.NEQ) {
			op = ast.NEQ
		}
		p.advance()
		left = &ast.Binary{Op: op, Left: left, Right: p.parseComparison(), Pos: pos}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseTerm()
	for p.check(lexer.LT) || p.check(lexer.GT) || p.check(lexer.LTE) || p.check(lexer.GTE) {
		pos := p.current().Pos
		var op ast.BinOp
		switch p.current().Type {
		case lexer.LT:
			op = ast.LT
		case lexer.GT:
			op = ast.GT
		case lexer.LTE:
			op = ast.LTE
		default:
			op = ast.GTE
		}
		p.advance()
		left = &ast.Binary{Op: op, Left: left, Right: p.parseTerm(), Pos: pos}
	}
	return left
}

func (p *Parser) parseTerm() ast.Expr {
	left := p.parseFactor()
	for p.check(lexer.PLUS) || p.check(lexer.MINUS) {
		pos := p.current().Pos
		op := ast.ADD
		if p.check(lexer.MINUS) {
			op = ast.SUB
		}
		p.advance()
		left = &ast.Binary{Op: op, Left: left, Right: p.parseFactor(), Pos: pos}
	}
	return left
}

func (p *Parser) parseFactor() ast.Expr {
	left := p.parseUnary()
	for p.check(lexer.STAR) || p.check(lexer.SLASH) || p.check(lexer.PERCENT) {
		pos := p.current().Pos
		var op ast.BinOp
		switch p.current().Type {
		case lexer.STAR:
			op = ast.MUL
		case lexer.SLASH:
			op = ast.DIV
		default:
			op = ast.MOD
		}
		p.advance()
		left = &ast.Binary{Op: op, Left: left, Right: p.parseUnary(), Pos: pos}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.check(lexer.MINUS) || p.check(lexer.NOT) {
		pos := p.current().Pos
		op := ast.NEG
		if p.check(lexer.NOT) {
			op = ast.NOT
		}
		p.advance()
		return &ast.Unary{Op: op, Operand: p.parseUnary(), Pos: pos}
	}
	return p.parseCall()
}

func (p *Parser) parseCall() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch {
		case p.check(lexer.LPAREN):
			pos := p.current().Pos
			expr = &ast.Call{Callee: expr, Args: p.parseArgs(), Pos: pos}
		case p.check(lexer.DOT):
			pos := p.current().Pos
			p.advance()
			// Tuple indices lex as INT tokens: t.0, t.1, ...
			if p.check(lexer.INT) {
				expr = &ast.FieldAccess{Object: expr, Field: strconv.FormatInt(p.current().Int, 10), Pos: pos}
				p.advance()
			} else {
				field := p.expect(lexer.IDENT, "Expected field name").Str
				expr = &ast.FieldAccess{Object: expr, Field: field, Pos: pos}
			}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.current().Pos

	switch p.current().Type {
	case lexer.INT:
		v := p.current().Int
		p.advance()
		return &ast.IntLit{Value: v, Pos: pos}
	case lexer.FLOAT:
		v := p.current().Float
		p.advance()
		return &ast.FloatLit{Value: v, Pos: pos}
	case lexer.STRING:
		v := p.current().Str
		p.advance()
		return &ast.StringLit{Value: v, Pos: pos}
	case lexer.FSTRING:
		tok := p.current()
		p.advance()
		return p.parseInterp(tok)
	case lexer.TRUE:
		p.advance()
		return &ast.BoolLit{Value: true, Pos: pos}
	case lexer.FALSE:
		p.advance()
		return &ast.BoolLit{Value: false, Pos: pos}
	case lexer.IDENT:
		name := p.current().Str
		p.advance()
		return &ast.Ident{Name: name, Pos: pos}
	case lexer.LPAREN:
		return p.parseParenOrLambda(pos)
	case lexer.LBRACKET:
		return p.parseList(pos)
	case lexer.MAPSTART:
		return p.parseMap(pos)
	case lexer.LBRACE:
		if p.recordAhead() {
			return p.parseRecord(pos)
		}
		return p.parseBlock()
	}

	panic(diag.Parsef(pos, "Unexpected token: %s", p.current().Type))
}

// parseParenOrLambda disambiguates grouping, tuples, unit and lambdas after
// '('. A prefix of identifiers followed by ')' and '=>' is a lambda; if the
// lookahead fails the cursor is restored and the content reparses as an
// expression or tuple.
func (p *Parser) parseParenOrLambda(pos diag.Pos) ast.Expr {
	p.advance() // (

	if p.check(lexer.RPAREN) {
		p.advance()
		return &ast.Tuple{Pos: pos} // () is unit
	}

	if p.check(lexer.IDENT) {
		save := p.pos
		var params []ast.Param
		ok := true
		for {
			if !p.check(lexer.IDENT) {
				ok = false
				break
			}
			param := ast.Param{Name: p.current().Str}
			p.advance()
			if p.match(lexer.COLON) {
				param.Type = p.parseTypeExpr()
			}
			params = append(params, param)
			if !p.match(lexer.COMMA) {
				break
			}
		}
		if ok && p.check(lexer.RPAREN) {
			p.advance()
			if p.check(lexer.ARROW) {
				p.advance()
				return &ast.Lambda{Params: params, Body: p.parseExpr(), Pos: pos}
			}
		}
		p.pos = save
	}

	first := p.parseExpr()

	if p.check(lexer.COMMA) {
		elems := []ast.Expr{first}
		for p.match(lexer.COMMA) {
			if p.check(lexer.RPAREN) {
				break
			}
			elems = append(elems, p.parseExpr())
		}
		p.expect(lexer.RPAREN, "Expected ')'")
		return &ast.Tuple{Elems: elems, Pos: pos}
	}

	p.expect(lexer.RPAREN, "Expected ')'")
	return first
}

func (p *Parser) parseList(pos diag.Pos) ast.Expr {
	p.advance() // [
	var elems []ast.Expr
	if !p.check(lexer.RBRACKET) {
		for {
			elems = append(elems, p.parseExpr())
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RBRACKET, "Expected ']'")
	return &ast.List{Elems: elems, Pos: pos}
}

func (p *Parser) parseRecord(pos diag.Pos) ast.Expr {
	p.advance() // {
	var fields []ast.RecordField
	for {
		p.skipNewlines()
		name := p.expect(lexer.IDENT, "Expected field name").Str
		p.expect(lexer.COLON, "Expected ':'")
		fields = append(fields, ast.RecordField{Name: name, Value: p.parseExpr()})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.skipNewlines()
	p.expect(lexer.RBRACE, "Expected '}'")
	return &ast.Record{Fields: fields, Pos: pos}
}

func (p *Parser) parseMap(pos diag.Pos) ast.Expr {
	p.advance() // %{
	var entries []ast.MapEntry
	p.skipNewlines()
	if !p.check(lexer.RBRACE) {
		for {
			p.skipNewlines()
			key := p.parseExpr()
			p.expect(lexer.COLON, "Expected ':'")
			entries = append(entries, ast.MapEntry{Key: key, Value: p.parseExpr()})
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.skipNewlines()
	p.expect(lexer.RBRACE, "Expected '}'")
	return &ast.Map{Entries: entries, Pos: pos}
}

// parseInterp splits an FSTRING payload into literal and {expr} parts and
// sub-parses each embedded expression.
func (p *Parser) parseInterp(tok lexer.Token) ast.Expr {
	raw := tok.Str
	var parts []ast.InterpPart
	var lit strings.Builder

	i := 0
	for i < len(raw) {
		c := raw[i]
		if c != '{' {
			lit.WriteByte(c)
			i++
			continue
		}
		if lit.Len() > 0 {
			parts = append(parts, ast.InterpPart{Text: lit.String()})
			lit.Reset()
		}
		depth := 1
		j := i + 1
		for j < len(raw) && depth > 0 {
			switch raw[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			j++
		}
		if depth != 0 {
			panic(diag.Parsef(tok.Pos, "Unterminated interpolation"))
		}
		parts = append(parts, ast.InterpPart{Expr: p.parseEmbedded(raw[i+1:j-1], tok.Pos)})
		i = j
	}
	if lit.Len() > 0 {
		parts = append(parts, ast.InterpPart{Text: lit.String()})
	}

	return &ast.InterpString{Parts: parts, Pos: tok.Pos}
}

func (p *Parser) parseEmbedded(src string, pos diag.Pos) ast.Expr {
	if strings.TrimSpace(src) == "" {
		panic(diag.Parsef(pos, "Empty interpolation"))
	}
	toks, err := lexer.Tokenize(src, pos.File)
	if err != nil {
		if de, ok := err.(*diag.Error); ok {
			panic(diag.Parsef(pos, "In interpolation: %s", de.Msg))
		}
		panic(diag.Parsef(pos, "In interpolation: %v", err))
	}
	sub := New(toks)
	expr := sub.parseExpr()
	sub.skipNewlines()
	if !sub.atEnd() {
		panic(diag.Parsef(pos, "Unexpected token in interpolation: %s", sub.current().Type))
	}
	return expr
}

// ============ Patterns ============

func (p *Parser) parsePattern() ast.Pattern {
	pos := p.current().Pos

	switch p.current().Type {
	case lexer.INT:
		v := p.current().Int
		p.advance()
		return &ast.LitPat{Kind: ast.LitInt, Int: v, Pos: pos}
	case lexer.FLOAT:
		v := p.current().Float
		p.advance()
		return &ast.LitPat{Kind: ast.LitFloat, Float: v, Pos: pos}
	case lexer.STRING:
		v := p.current().Str
		p.advance()
		return &ast.LitPat{Kind: ast.LitString, Str: v, Pos: pos}
	case lexer.TRUE:
		p.advance()
		return &ast.LitPat{Kind: ast.LitBool, Bool: true, Pos: pos}
	case lexer.FALSE:
		p.advance()
		return &ast.LitPat{Kind: ast.LitBool, Bool: false, Pos: pos}
	case lexer.LBRACKET:
		return p.parseListPattern(pos)
	case lexer.LPAREN:
		return p.parseTuplePattern(pos)
	case lexer.LBRACE:
		return p.parseRecordPattern(pos)
	case lexer.IDENT:
		name := p.current().Str
		p.advance()
		if name == "_" {
			return &ast.WildcardPat{Pos: pos}
		}
		// Constructor pattern: Some(x). A bare identifier binds.
		if p.check(lexer.LPAREN) {
			p.advance()
			var args []ast.Pattern
			if !p.check(lexer.RPAREN) {
				for {
					args = append(args, p.parsePattern())
					if !p.match(lexer.COMMA) {
						break
					}
				}
			}
			p.expect(lexer.RPAREN, "Expected ')'")
			return &ast.CtorPat{Ctor: name, Args: args, Pos: pos}
		}
		return &ast.VarPat{Name: name, Pos: pos}
	}

	panic(diag.Parsef(pos, "Expected pattern"))
}

func (p *Parser) parseListPattern(pos diag.Pos) ast.Pattern {
	p.advance() // [
	var elems []ast.Pattern
	rest := ""
	if !p.check(lexer.RBRACKET) {
		for {
			if p.check(lexer.ELLIPSIS) {
				p.advance()
				rest = p.expect(lexer.IDENT, "Expected identifier after '...'").Str
				break
			}
			elems = append(elems, p.parsePattern())
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RBRACKET, "Expected ']'")
	return &ast.ListPat{Elems: elems, Rest: rest, Pos: pos}
}

func (p *Parser) parseTuplePattern(pos diag.Pos) ast.Pattern {
	p.advance() // (
	var elems []ast.Pattern
	if !p.check(lexer.RPAREN) {
		for {
			elems = append(elems, p.parsePattern())
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RPAREN, "Expected ')'")
	return &ast.TuplePat{Elems: elems, Pos: pos}
}

func (p *Parser) parseRecordPattern(pos diag.Pos) ast.Pattern {
	p.advance() // {
	var fields []ast.RecordPatField
	if !p.check(lexer.RBRACE) {
		for {
			p.skipNewlines()
			name := p.expect(lexer.IDENT, "Expected field name").Str
			p.expect(lexer.COLON, "Expected ':'")
			fields = append(fields, ast.RecordPatField{Name: name, Pattern: p.parsePattern()})
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.skipNewlines()
	p.expect(lexer.RBRACE, "Expected '}'")
	return &ast.RecordPat{Fields: fields, Pos: pos}
}

// ============ Type expressions ============

func (p *Parser) parseTypeExpr() ast.TypeExpr {
	pos := p.current().Pos

	switch p.current().Type {
	case lexer.LPAREN:
		// Function type (A, B) -> C, or tuple type (A, B).
		p.advance()
		var params []ast.TypeExpr
		if !p.check(lexer.RPAREN) {
			for {
				params = append(params, p.parseTypeExpr())
				if !p.match(lexer.COMMA) {
					break
				}
			}
		}
		p.expect(lexer.RPAREN, "Expected ')'")
		// The lexer has no '->' token, so the arrow arrives as MINUS GT.
		if p.check(lexer.MINUS) && p.peek(1).Type == lexer.GT {
			p.advance()
			p.advance()
			return &ast.FnType{Params: params, Return: p.parseTypeExpr(), Pos: pos}
		}
		if p.match(lexer.ARROW) {
			return &ast.FnType{Params: params, Return: p.parseTypeExpr(), Pos: pos}
		}
		return &ast.TupleType{Elems: params, Pos: pos}
	case lexer.LBRACKET:
		p.advance()
		elem := p.parseTypeExpr()
		p.expect(lexer.RBRACKET, "Expected ']'")
		return &ast.ListType{Elem: elem, Pos: pos}
	case lexer.LBRACE:
		p.advance()
		var fields []ast.RecordTypeField
		if !p.check(lexer.RBRACE) {
			for {
				p.skipNewlines()
				name := p.expect(lexer.IDENT, "Expected field name").Str
				p.expect(lexer.COLON, "Expected ':'")
				fields = append(fields, ast.RecordTypeField{Name: name, Type: p.parseTypeExpr()})
				if !p.match(lexer.COMMA) {
					break
				}
			}
		}
		p.skipNewlines()
		p.expect(lexer.RBRACE, "Expected '}'")
		return &ast.RecordType{Fields: fields, Pos: pos}
	case lexer.IDENT:
		name := p.current().Str
		p.advance()
		var args []ast.TypeExpr
		if p.match(lexer.LT) {
			for {
				args = append(args, p.parseTypeExpr())
				if !p.match(lexer.COMMA) {
					break
				}
			}
			p.expect(lexer.GT, "Expected '>'")
		}
		return &ast.NamedType{Name: name, Args: args, Pos: pos}
	}

	panic(diag.Parsef(pos, "Expected type expression"))
}

// ============ Shared helpers ============

func (p *Parser) parseParams() []ast.Param {
	p.expect(lexer.LPAREN, "Expected '('")
	var params []ast.Param
	if !p.check(lexer.RPAREN) {
		for {
			param := ast.Param{Name: p.expect(lexer.IDENT, "Expected parameter name").Str}
			if p.match(lexer.COLON) {
				param.Type = p.parseTypeExpr()
			}
			params = append(params, param)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RPAREN, "Expected ')'")
	return params
}

func (p *Parser) parseArgs() []ast.Expr {
	p.expect(lexer.LPAREN, "Expected '('")
	var args []ast.Expr
	if !p.check(lexer.RPAREN) {
		for {
			args = append(args, p.parseExpr())
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RPAREN, "Expected ')'")
	return args
}
