package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/setsuna/diag"
)

func kinds(t *testing.T, src string) []TokenType {
	t.Helper()
	toks, err := Tokenize(src, "test.stsn")
	require.NoError(t, err)
	out := make([]TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestTokenize_Keywords(t *testing.T) {
	got := kinds(t, "let const fn if else match while for in as type module import true false")
	want := []TokenType{
		LET, CONST, FN, IF, ELSE, MATCH, WHILE, FOR, IN, AS,
		TYPE, MODULE, IMPORT, TRUE, FALSE, EOF,
	}
	assert.Equal(t, want, got)
}

func TestTokenize_MultiCharOperators(t *testing.T) {
	got := kinds(t, "=> == != <= >= && || :: ... %{")
	want := []TokenType{ARROW, EQ, NEQ, LTE, GTE, AND, OR, DOUBLECOLON, ELLIPSIS, MAPSTART, EOF}
	assert.Equal(t, want, got)
}

func TestTokenize_SingleCharOperators(t *testing.T) {
	got := kinds(t, "+ - * / % < > ! = | ( ) { } [ ] , : ; .")
	want := []TokenType{
		PLUS, MINUS, STAR, SLASH, PERCENT, LT, GT, NOT, ASSIGN, PIPE,
		LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET, COMMA, COLON,
		SEMICOLON, DOT, EOF,
	}
	assert.Equal(t, want, got)
}

func TestTokenize_Numbers(t *testing.T) {
	toks, err := Tokenize("42 3.14 7.0 10", "test.stsn")
	require.NoError(t, err)

	require.Equal(t, INT, toks[0].Type)
	assert.Equal(t, int64(42), toks[0].Int)

	require.Equal(t, FLOAT, toks[1].Type)
	assert.Equal(t, 3.14, toks[1].Float)

	require.Equal(t, FLOAT, toks[2].Type)
	assert.Equal(t, 7.0, toks[2].Float)

	require.Equal(t, INT, toks[3].Type)
	assert.Equal(t, int64(10), toks[3].Int)
}

func TestTokenize_DotAfterIntIsNotFloat(t *testing.T) {
	// t.0 must lex as IDENT DOT INT, and 1. as INT DOT.
	got := kinds(t, "t.0")
	assert.Equal(t, []TokenType{IDENT, DOT, INT, EOF}, got)

	got = kinds(t, "1.")
	assert.Equal(t, []TokenType{INT, DOT, EOF}, got)
}

func TestTokenize_StringEscapes(t *testing.T) {
	toks, err := Tokenize(`"a\nb\tc\\d\"e\qf"`, "test.stsn")
	require.NoError(t, err)
	require.Equal(t, STRING, toks[0].Type)
	// Unknown escape \q keeps the trailing character verbatim.
	assert.Equal(t, "a\nb\tc\\d\"e"+"qf", toks[0].Str)
}

func TestTokenize_FString(t *testing.T) {
	toks, err := Tokenize(`f"hello {name}!"`, "test.stsn")
	require.NoError(t, err)
	require.Equal(t, FSTRING, toks[0].Type)
	assert.Equal(t, "hello {name}!", toks[0].Str)
	assert.Equal(t, EOF, toks[1].Type)
}

func TestTokenize_IdentStartingWithF(t *testing.T) {
	toks, err := Tokenize("fmt foo f", "test.stsn")
	require.NoError(t, err)
	assert.Equal(t, "fmt", toks[0].Str)
	assert.Equal(t, "foo", toks[1].Str)
	assert.Equal(t, "f", toks[2].Str)
}

func TestTokenize_NewlinesAndComments(t *testing.T) {
	got := kinds(t, "a // comment to end of line\nb\n")
	assert.Equal(t, []TokenType{IDENT, NEWLINE, IDENT, NEWLINE, EOF}, got)
}

func TestTokenize_Positions(t *testing.T) {
	toks, err := Tokenize("ab cd\n  ef", "test.stsn")
	require.NoError(t, err)

	assert.Equal(t, diag.Pos{File: "test.stsn", Line: 1, Col: 1}, toks[0].Pos)
	assert.Equal(t, diag.Pos{File: "test.stsn", Line: 1, Col: 4}, toks[1].Pos)
	// NEWLINE token at end of line 1
	assert.Equal(t, diag.Pos{File: "test.stsn", Line: 1, Col: 6}, toks[2].Pos)
	assert.Equal(t, diag.Pos{File: "test.stsn", Line: 2, Col: 3}, toks[3].Pos)
}

func TestTokenize_UnterminatedString(t *testing.T) {
	_, err := Tokenize(`let s = "oops`, "test.stsn")
	require.Error(t, err)

	de, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.Lex, de.Kind)
	assert.Contains(t, de.Msg, "Unterminated string")
	assert.Equal(t, 9, de.Pos.Col)
}

func TestTokenize_UnknownCharacter(t *testing.T) {
	_, err := Tokenize("a @ b", "test.stsn")
	require.Error(t, err)

	de, ok := err.(*diag.Error)
	require.True(t, ok)
	assert.Equal(t, diag.Lex, de.Kind)
	assert.Equal(t, 3, de.Pos.Col)
	assert.Equal(t, "test.stsn:1:3: error: Unexpected character: '@'", de.Error())
}

func TestTokenize_EndsInEOF(t *testing.T) {
	toks, err := Tokenize("", "test.stsn")
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, EOF, toks[0].Type)
}
