package lexer

import (
	"fmt"

	"github.com/rubiojr/setsuna/diag"
)

// TokenType identifies the kind of a token.
type TokenType int

const (
	// Literals
	INT TokenType = iota
	FLOAT
	STRING
	FSTRING // interpolated string f"..."; payload is the body with escapes processed, {expr} parts unparsed
	IDENT

	// Keywords
	LET
	CONST
	FN
	IF
	ELSE
	MATCH
	WHILE
	FOR
	IN
	AS
	TYPE
	MODULE
	IMPORT
	TRUE
	FALSE

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	EQ
	NEQ
	LT
	GT
	LTE
	GTE
	AND
	OR
	NOT
	ASSIGN
	ARROW
	PIPE

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	MAPSTART // %{
	COMMA
	COLON
	DOUBLECOLON
	SEMICOLON
	DOT
	ELLIPSIS // ...

	NEWLINE
	EOF
)

var tokenNames = map[TokenType]string{
	INT:         "INT",
	FLOAT:       "FLOAT",
	STRING:      "STRING",
	FSTRING:     "FSTRING",
	IDENT:       "IDENT",
	LET:         "let",
	CONST:       "const",
	FN:          "fn",
	IF:          "if",
	ELSE:        "else",
	MATCH:       "match",
	WHILE:       "while",
	FOR:         "for",
	IN:          "in",
	AS:          "as",
	TYPE:        "type",
	MODULE:      "module",
	IMPORT:      "import",
	TRUE:        "true",
	FALSE:       "false",
	PLUS:        "+",
	MINUS:       "-",
	STAR:        "*",
	SLASH:       "/",
	PERCENT:     "%",
	EQ:          "==",
	NEQ:         "!=",
	LT:          "<",
	GT:          ">",
	LTE:         "<=",
	GTE:         ">=",
	AND:         "&&",
	OR:          "||",
	NOT:         "!",
	ASSIGN:      "=",
	ARROW:       "=>",
	PIPE:        "|",
	LPAREN:      "(",
	RPAREN:      ")",
	LBRACE:      "{",
	RBRACE:      "}",
	LBRACKET:    "[",
	RBRACKET:    "]",
	MAPSTART:    "%{",
	COMMA:       ",",
	COLON:       ":",
	DOUBLECOLON: "::",
	SEMICOLON:   ";",
	DOT:         ".",
	ELLIPSIS:    "...",
	NEWLINE:     "NEWLINE",
	EOF:         "EOF",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var keywords = map[string]TokenType{
	"let":    LET,
	"const":  CONST,
	"fn":     FN,
	"if":     IF,
	"else":   ELSE,
	"match":  MATCH,
	"while":  WHILE,
	"for":    FOR,
	"in":     IN,
	"as":     AS,
	"type":   TYPE,
	"module": MODULE,
	"import": IMPORT,
	"true":   TRUE,
	"false":  FALSE,
}

// Token is a lexed token with its payload and source position.
type Token struct {
	Type  TokenType
	Int   int64   // INT payload
	Float float64 // FLOAT payload
	Str   string  // STRING, FSTRING and IDENT payload
	Pos   diag.Pos
}

func (t Token) String() string {
	switch t.Type {
	case INT:
		return fmt.Sprintf("INT(%d)", t.Int)
	case FLOAT:
		return fmt.Sprintf("FLOAT(%g)", t.Float)
	case STRING:
		return fmt.Sprintf("STRING(%q)", t.Str)
	case FSTRING:
		return fmt.Sprintf("FSTRING(%q)", t.Str)
	case IDENT:
		return fmt.Sprintf("IDENT(%s)", t.Str)
	}
	return t.Type.String()
}
