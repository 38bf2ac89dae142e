// Package ast defines the abstract syntax tree produced by the parser.
//
// Nodes are never mutated after construction; the evaluator and the type
// checker walk the same tree. Every node carries the source position of the
// token that introduced it.
package ast

import "github.com/rubiojr/setsuna/diag"

// Node is the interface for all AST nodes.
type Node interface {
	Position() diag.Pos
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Pattern is the interface for match patterns.
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr is the interface for type annotations.
type TypeExpr interface {
	Node
	typeExprNode()
}

// Decl is the interface for top-level declarations.
type Decl interface {
	Node
	declNode()
}

// Program is the root node: an ordered sequence of declarations.
type Program struct {
	Decls []Decl
}

// BinOp enumerates binary operators.
type BinOp int

const (
	ADD BinOp = iota
	SUB
	MUL
	DIV
	MOD
	EQ
	NEQ
	LT
	GT
	LTE
	GTE
	AND
	OR
)

var binOpNames = [...]string{"+", "-", "*", "/", "%", "==", "!=", "<", ">", "<=", ">=", "&&", "||"}

func (op BinOp) String() string { return binOpNames[op] }

// UnOp enumerates unary operators.
type UnOp int

const (
	NEG UnOp = iota
	NOT
)

func (op UnOp) String() string {
	if op == NEG {
		return "-"
	}
	return "!"
}

// ============ Expressions ============

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Pos   diag.Pos
}

// FloatLit is a float literal.
type FloatLit struct {
	Value float64
	Pos   diag.Pos
}

// StringLit is a string literal.
type StringLit struct {
	Value string
	Pos   diag.Pos
}

// BoolLit is true or false.
type BoolLit struct {
	Value bool
	Pos   diag.Pos
}

// InterpPart is one segment of an interpolated string: either literal text or
// an embedded expression.
type InterpPart struct {
	Expr Expr   // nil for literal parts
	Text string // literal text when Expr is nil
}

// InterpString is an f"..." literal: alternating literal and expression parts.
type InterpString struct {
	Parts []InterpPart
	Pos   diag.Pos
}

// Ident is a variable reference.
type Ident struct {
	Name string
	Pos  diag.Pos
}

// Binary is a binary operator application.
type Binary struct {
	Op          BinOp
	Left, Right Expr
	Pos         diag.Pos
}

// Unary is a unary operator application.
type Unary struct {
	Op      UnOp
	Operand Expr
	Pos     diag.Pos
}

// Let introduces a binding in the current scope.
type Let struct {
	Name  string
	Type  TypeExpr // optional annotation, may be nil
	Value Expr
	Const bool
	Pos   diag.Pos
}

// Assign rebinds an existing, non-const name.
type Assign struct {
	Name  string
	Value Expr
	Pos   diag.Pos
}

// Param is a function parameter with an optional type annotation.
type Param struct {
	Name string
	Type TypeExpr // may be nil
}

// FnDef is a named function definition. The closure is bound under Name in
// the enclosing scope before any call, which is what makes recursion work.
type FnDef struct {
	Name   string
	Params []Param
	Return TypeExpr // may be nil
	Body   Expr
	Pos    diag.Pos
}

// Lambda is an anonymous function.
type Lambda struct {
	Params []Param
	Body   Expr
	Pos    diag.Pos
}

// Call applies a callee to arguments, evaluated left to right.
type Call struct {
	Callee Expr
	Args   []Expr
	Pos    diag.Pos
}

// If is a conditional expression. Else may be nil.
type If struct {
	Cond Expr
	Then Expr
	Else Expr
	Pos  diag.Pos
}

// While loops until the condition is false.
type While struct {
	Cond Expr
	Body Expr
	Pos  diag.Pos
}

// For iterates a list, binding Var per element.
type For struct {
	Var      string
	Iterable Expr
	Body     Expr
	Pos      diag.Pos
}

// List is a list literal.
type List struct {
	Elems []Expr
	Pos   diag.Pos
}

// Tuple is a tuple literal; no elements means unit.
type Tuple struct {
	Elems []Expr
	Pos   diag.Pos
}

// RecordField is one field of a record literal.
type RecordField struct {
	Name  string
	Value Expr
}

// Record is a record literal.
type Record struct {
	Fields []RecordField
	Pos    diag.Pos
}

// MapEntry is one key/value pair of a map literal.
type MapEntry struct {
	Key, Value Expr
}

// Map is a %{...} literal, ordered and keyed by structural equality.
type Map struct {
	Entries []MapEntry
	Pos     diag.Pos
}

// FieldAccess selects a record field, a tuple index, or a module member,
// disambiguated at evaluation time.
type FieldAccess struct {
	Object Expr
	Field  string
	Pos    diag.Pos
}

// MatchArm is one arm of a match expression. Guard may be nil.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr
	Body    Expr
}

// Match evaluates the scrutinee and tries arms in order.
type Match struct {
	Scrutinee Expr
	Arms      []MatchArm
	Pos       diag.Pos
}

// Block is a sequence of expressions in a child scope; its value is the last
// expression's value, or unit when empty.
type Block struct {
	Exprs []Expr
	Pos   diag.Pos
}

// CtorCall constructs an ADT instance directly.
type CtorCall struct {
	TypeName string
	Ctor     string
	Args     []Expr
	Pos      diag.Pos
}

// ModuleAccess is the explicit Module::member form.
type ModuleAccess struct {
	Module string
	Member string
	Pos    diag.Pos
}

func (e *IntLit) Position() diag.Pos       { return e.Pos }
func (e *FloatLit) Position() diag.Pos     { return e.Pos }
func (e *StringLit) Position() diag.Pos    { return e.Pos }
func (e *BoolLit) Position() diag.Pos      { return e.Pos }
func (e *InterpString) Position() diag.Pos { return e.Pos }
func (e *Ident) Position() diag.Pos        { return e.Pos }
func (e *Binary) Position() diag.Pos       { return e.Pos }
func (e *Unary) Position() diag.Pos        { return e.Pos }
func (e *Let) Position() diag.Pos          { return e.Pos }
func (e *Assign) Position() diag.Pos       { return e.Pos }
func (e *FnDef) Position() diag.Pos        { return e.Pos }
func (e *Lambda) Position() diag.Pos       { return e.Pos }
func (e *Call) Position() diag.Pos         { return e.Pos }
func (e *If) Position() diag.Pos           { return e.Pos }
func (e *While) Position() diag.Pos        { return e.Pos }
func (e *For) Position() diag.Pos          { return e.Pos }
func (e *List) Position() diag.Pos         { return e.Pos }
func (e *Tuple) Position() diag.Pos        { return e.Pos }
func (e *Record) Position() diag.Pos       { return e.Pos }
func (e *Map) Position() diag.Pos          { return e.Pos }
func (e *FieldAccess) Position() diag.Pos  { return e.Pos }
func (e *Match) Position() diag.Pos        { return e.Pos }
func (e *Block) Position() diag.Pos        { return e.Pos }
func (e *CtorCall) Position() diag.Pos     { return e.Pos }
func (e *ModuleAccess) Position() diag.Pos { return e.Pos }

func (e *IntLit) exprNode()       {}
func (e *FloatLit) exprNode()     {}
func (e *StringLit) exprNode()    {}
func (e *BoolLit) exprNode()      {}
func (e *InterpString) exprNode() {}
func (e *Ident) exprNode()        {}
func (e *Binary) exprNode()       {}
func (e *Unary) exprNode()        {}
func (e *Let) exprNode()          {}
func (e *Assign) exprNode()       {}
func (e *FnDef) exprNode()        {}
func (e *Lambda) exprNode()       {}
func (e *Call) exprNode()         {}
func (e *If) exprNode()           {}
func (e *While) exprNode()        {}
func (e *For) exprNode()          {}
func (e *List) exprNode()         {}
func (e *Tuple) exprNode()        {}
func (e *Record) exprNode()       {}
func (e *Map) exprNode()          {}
func (e *FieldAccess) exprNode()  {}
func (e *Match) exprNode()        {}
func (e *Block) exprNode()        {}
func (e *CtorCall) exprNode()     {}
func (e *ModuleAccess) exprNode() {}

// ============ Patterns ============

// WildcardPat matches anything and binds nothing.
type WildcardPat struct {
	Pos diag.Pos
}

// VarPat matches anything and binds the value to Name.
type VarPat struct {
	Name string
	Pos  diag.Pos
}

// LitPat matches a literal by tag and value.
type LitPat struct {
	Int   int64
	Float float64
	Str   string
	Bool  bool
	Kind  LitKind
	Pos   diag.Pos
}

// LitKind discriminates LitPat payloads.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitString
	LitBool
)

// ListPat matches a list; Rest, when non-empty, binds the remainder.
type ListPat struct {
	Elems []Pattern
	Rest  string // "" when absent
	Pos   diag.Pos
}

// TuplePat matches a tuple of exactly len(Elems) elements.
type TuplePat struct {
	Elems []Pattern
	Pos   diag.Pos
}

// RecordPatField is one field of a record pattern.
type RecordPatField struct {
	Name    string
	Pattern Pattern
}

// RecordPat matches a record containing every listed field; extra fields are
// ignored.
type RecordPat struct {
	Fields []RecordPatField
	Pos    diag.Pos
}

// CtorPat matches an ADT instance by constructor name and arity.
type CtorPat struct {
	Ctor string
	Args []Pattern
	Pos  diag.Pos
}

func (p *WildcardPat) Position() diag.Pos { return p.Pos }
func (p *VarPat) Position() diag.Pos      { return p.Pos }
func (p *LitPat) Position() diag.Pos      { return p.Pos }
func (p *ListPat) Position() diag.Pos     { return p.Pos }
func (p *TuplePat) Position() diag.Pos    { return p.Pos }
func (p *RecordPat) Position() diag.Pos   { return p.Pos }
func (p *CtorPat) Position() diag.Pos     { return p.Pos }

func (p *WildcardPat) patternNode() {}
func (p *VarPat) patternNode()      {}
func (p *LitPat) patternNode()      {}
func (p *ListPat) patternNode()     {}
func (p *TuplePat) patternNode()    {}
func (p *RecordPat) patternNode()   {}
func (p *CtorPat) patternNode()     {}

// ============ Type expressions ============

// NamedType is a type name with optional type arguments, e.g. Option<Int>.
type NamedType struct {
	Name string
	Args []TypeExpr
	Pos  diag.Pos
}

// FnType is a function type, e.g. (Int, Int) -> Int.
type FnType struct {
	Params []TypeExpr
	Return TypeExpr
	Pos    diag.Pos
}

// TupleType is a tuple type, e.g. (Int, String).
type TupleType struct {
	Elems []TypeExpr
	Pos   diag.Pos
}

// RecordTypeField is one field of a record type.
type RecordTypeField struct {
	Name string
	Type TypeExpr
}

// RecordType is a structural record type.
type RecordType struct {
	Fields []RecordTypeField
	Pos    diag.Pos
}

// ListType is a list type, e.g. [Int].
type ListType struct {
	Elem TypeExpr
	Pos  diag.Pos
}

func (t *NamedType) Position() diag.Pos  { return t.Pos }
func (t *FnType) Position() diag.Pos     { return t.Pos }
func (t *TupleType) Position() diag.Pos  { return t.Pos }
func (t *RecordType) Position() diag.Pos { return t.Pos }
func (t *ListType) Position() diag.Pos   { return t.Pos }

func (t *NamedType) typeExprNode()  {}
func (t *FnType) typeExprNode()     {}
func (t *TupleType) typeExprNode()  {}
func (t *RecordType) typeExprNode() {}
func (t *ListType) typeExprNode()   {}

// ============ Declarations ============

// ExprDecl is a top-level expression.
type ExprDecl struct {
	Expr Expr
}

// Ctor is one constructor of a type definition, with ordered positional
// field type expressions.
type Ctor struct {
	Name   string
	Fields []TypeExpr
}

// TypeDef declares an algebraic data type.
type TypeDef struct {
	Name       string
	TypeParams []string
	Ctors      []Ctor
	Pos        diag.Pos
}

// ModuleDef declares an inline module.
type ModuleDef struct {
	Name string
	Body []Expr
	Pos  diag.Pos
}

// Import loads a module from a file.
type Import struct {
	Module string
	Alias  string // "" when absent
	Pos    diag.Pos
}

func (d *ExprDecl) Position() diag.Pos  { return d.Expr.Position() }
func (d *TypeDef) Position() diag.Pos   { return d.Pos }
func (d *ModuleDef) Position() diag.Pos { return d.Pos }
func (d *Import) Position() diag.Pos    { return d.Pos }

func (d *ExprDecl) declNode()  {}
func (d *TypeDef) declNode()   {}
func (d *ModuleDef) declNode() {}
func (d *Import) declNode()    {}
