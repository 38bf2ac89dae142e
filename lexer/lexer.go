// Package lexer converts Setsuna source text into a stream of tokens.
//
// The lexer works character by character with lookahead for multi-character
// operators. Newlines are emitted as distinct tokens; the parser decides where
// they matter. Interpolated strings (f"...") are lexed as a single FSTRING
// token carrying the processed body; the parser performs the sub-parse of the
// embedded {expr} regions.
package lexer

import (
	"strconv"
	"strings"

	"github.com/rubiojr/setsuna/diag"
)

// Lexer tokenizes a single source buffer.
type Lexer struct {
	src  string
	file string
	pos  int
	line int
	col  int
}

// New creates a lexer for source, using file in positions and diagnostics.
func New(source, file string) *Lexer {
	if file == "" {
		file = "<stdin>"
	}
	return &Lexer{src: source, file: file, line: 1, col: 1}
}

// Tokenize consumes the whole input and returns the token stream, ending in
// an EOF token.
func Tokenize(source, file string) ([]Token, error) {
	lx := New(source, file)
	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) current() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peek(offset int) byte {
	i := l.pos + offset
	if i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

func (l *Lexer) advance() {
	if l.current() == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) here() diag.Pos {
	return diag.Pos{File: l.file, Line: l.line, Col: l.col}
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.current() {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) skipComment() {
	if l.current() == '/' && l.peek(1) == '/' {
		for l.current() != '\n' && l.current() != 0 {
			l.advance()
		}
	}
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool  { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' }
func isIdentC(c byte) bool { return isAlpha(c) || isDigit(c) }

// Next returns the next token, skipping whitespace and line comments.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()
	l.skipComment()
	l.skipWhitespace()

	pos := l.here()
	c := l.current()

	if c == 0 {
		return Token{Type: EOF, Pos: pos}, nil
	}
	if c == '\n' {
		l.advance()
		return Token{Type: NEWLINE, Pos: pos}, nil
	}
	if isDigit(c) {
		return l.readNumber()
	}
	if c == '"' {
		return l.readString()
	}
	if c == 'f' && l.peek(1) == '"' {
		return l.readFString()
	}
	if isAlpha(c) {
		return l.readIdentOrKeyword(), nil
	}

	// Two-character operators first.
	two := ""
	if l.pos+1 < len(l.src) {
		two = l.src[l.pos : l.pos+2]
	}
	switch two {
	case "=>":
		l.advance()
		l.advance()
		return Token{Type: ARROW, Pos: pos}, nil
	case "==":
		l.advance()
		l.advance()
		return Token{Type: EQ, Pos: pos}, nil
	case "!=":
		l.advance()
		l.advance()
		return Token{Type: NEQ, Pos: pos}, nil
	case "<=":
		l.advance()
		l.advance()
		return Token{Type: LTE, Pos: pos}, nil
	case ">=":
		l.advance()
		l.advance()
		return Token{Type: GTE, Pos: pos}, nil
	case "&&":
		l.advance()
		l.advance()
		return Token{Type: AND, Pos: pos}, nil
	case "||":
		l.advance()
		l.advance()
		return Token{Type: OR, Pos: pos}, nil
	case "::":
		l.advance()
		l.advance()
		return Token{Type: DOUBLECOLON, Pos: pos}, nil
	}
	if c == '.' && l.peek(1) == '.' && l.peek(2) == '.' {
		l.advance()
		l.advance()
		l.advance()
		return Token{Type: ELLIPSIS, Pos: pos}, nil
	}
	if c == '%' && l.peek(1) == '{' {
		l.advance()
		l.advance()
		return Token{Type: MAPSTART, Pos: pos}, nil
	}

	l.advance()
	switch c {
	case '+':
		return Token{Type: PLUS, Pos: pos}, nil
	case '-':
		return Token{Type: MINUS, Pos: pos}, nil
	case '*':
		return Token{Type: STAR, Pos: pos}, nil
	case '/':
		return Token{Type: SLASH, Pos: pos}, nil
	case '%':
		return Token{Type: PERCENT, Pos: pos}, nil
	case '<':
		return Token{Type: LT, Pos: pos}, nil
	case '>':
		return Token{Type: GT, Pos: pos}, nil
	case '!':
		return Token{Type: NOT, Pos: pos}, nil
	case '=':
		return Token{Type: ASSIGN, Pos: pos}, nil
	case '|':
		return Token{Type: PIPE, Pos: pos}, nil
	case '(':
		return Token{Type: LPAREN, Pos: pos}, nil
	case ')':
		return Token{Type: RPAREN, Pos: pos}, nil
	case '{':
		return Token{Type: LBRACE, Pos: pos}, nil
	case '}':
		return Token{Type: RBRACE, Pos: pos}, nil
	case '[':
		return Token{Type: LBRACKET, Pos: pos}, nil
	case ']':
		return Token{Type: RBRACKET, Pos: pos}, nil
	case ',':
		return Token{Type: COMMA, Pos: pos}, nil
	case ':':
		return Token{Type: COLON, Pos: pos}, nil
	case ';':
		return Token{Type: SEMICOLON, Pos: pos}, nil
	case '.':
		return Token{Type: DOT, Pos: pos}, nil
	}
	return Token{}, diag.Lexf(pos, "Unexpected character: '%c'", c)
}

func (l *Lexer) readNumber() (Token, error) {
	pos := l.here()
	start := l.pos
	for isDigit(l.current()) {
		l.advance()
	}
	isFloat := false
	if l.current() == '.' && isDigit(l.peek(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.current()) {
			l.advance()
		}
	}
	text := l.src[start:l.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, diag.Lexf(pos, "Invalid float literal: %s", text)
		}
		return Token{Type: FLOAT, Float: f, Pos: pos}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, diag.Lexf(pos, "Invalid integer literal: %s", text)
	}
	return Token{Type: INT, Int: n, Pos: pos}, nil
}

// readStringBody consumes characters up to the closing quote, applying escape
// sequences. The opening quote has already been consumed.
func (l *Lexer) readStringBody(pos diag.Pos) (string, error) {
	var sb strings.Builder
	for l.current() != '"' && l.current() != 0 {
		if l.current() == '\\' {
			l.advance()
			switch l.current() {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				// Unknown escape keeps the trailing character verbatim.
				sb.WriteByte(l.current())
			}
		} else {
			sb.WriteByte(l.current())
		}
		l.advance()
	}
	if l.current() == 0 {
		return "", diag.Lexf(pos, "Unterminated string literal")
	}
	l.advance() // closing quote
	return sb.String(), nil
}

func (l *Lexer) readString() (Token, error) {
	pos := l.here()
	l.advance() // opening quote
	s, err := l.readStringBody(pos)
	if err != nil {
		return Token{}, err
	}
	return Token{Type: STRING, Str: s, Pos: pos}, nil
}

// readFString lexes f"..." into a single FSTRING token. Escapes are processed
// here; the {expr} regions stay in the payload for the parser to sub-parse.
func (l *Lexer) readFString() (Token, error) {
	pos := l.here()
	l.advance() // 'f'
	l.advance() // opening quote
	s, err := l.readStringBody(pos)
	if err != nil {
		return Token{}, err
	}
	return Token{Type: FSTRING, Str: s, Pos: pos}, nil
}

func (l *Lexer) readIdentOrKeyword() Token {
	pos := l.here()
	start := l.pos
	for isIdentC(l.current()) {
		l.advance()
	}
	word := l.src[start:l.pos]
	if kw, ok := keywords[word]; ok {
		return Token{Type: kw, Pos: pos}
	}
	return Token{Type: IDENT, Str: word, Pos: pos}
}
