// Package token defines the lexical token kinds and the Token type shared
// by the lexer and parser.
package token

import "github.com/skepa-lang/skepa/internal/report"

// Kind enumerates every lexical token kind recognized by the lexer.
type Kind int

const (
	// Keywords
	IMPORT Kind = iota
	EXPORT
	FROM
	AS
	STRUCT
	IMPL
	FN
	LET
	IF
	ELSE
	WHILE
	FOR
	MATCH
	BREAK
	CONTINUE
	RETURN
	SELF

	// Type keywords
	INT
	FLOAT
	BOOL
	STRING
	VOID

	// Literals
	IDENT
	INTLIT
	FLOATLIT
	BOOLLIT
	STRINGLIT

	// Punctuation/operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	BANG

	EQ
	NEQ
	LT
	LE
	GT
	GE
	AND
	OR

	ASSIGN

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	DOT
	SEMI
	COLON
	ARROW // ->
	PIPE  // | used in match arm alternatives
	WILDCARD // _

	EOF
)

var names = map[Kind]string{
	IMPORT: "import", EXPORT: "export", FROM: "from", AS: "as",
	STRUCT: "struct", IMPL: "impl", FN: "fn", LET: "let",
	IF: "if", ELSE: "else", WHILE: "while", FOR: "for", MATCH: "match",
	BREAK: "break", CONTINUE: "continue", RETURN: "return", SELF: "self",
	INT: "Int", FLOAT: "Float", BOOL: "Bool", STRING: "String", VOID: "Void",
	IDENT: "identifier", INTLIT: "int literal", FLOATLIT: "float literal",
	BOOLLIT: "bool literal", STRINGLIT: "string literal",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", BANG: "!",
	EQ: "==", NEQ: "!=", LT: "<", LE: "<=", GT: ">", GE: ">=",
	AND: "&&", OR: "||", ASSIGN: "=",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACKET: "[", RBRACKET: "]", COMMA: ",", DOT: ".", SEMI: ";", COLON: ":",
	ARROW: "->", PIPE: "|", WILDCARD: "_",
	EOF: "end of file",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown token"
}

// Keywords maps identifier text to its keyword kind.
var Keywords = map[string]Kind{
	"import": IMPORT, "export": EXPORT, "from": FROM, "as": AS,
	"struct": STRUCT, "impl": IMPL, "fn": FN, "let": LET,
	"if": IF, "else": ELSE, "while": WHILE, "for": FOR, "match": MATCH,
	"break": BREAK, "continue": CONTINUE, "return": RETURN, "self": SELF,
	"Int": INT, "Float": FLOAT, "Bool": BOOL, "String": STRING, "Void": VOID,
	"true": BOOLLIT, "false": BOOLLIT,
	"_": WILDCARD,
}

// Token is a single lexical token: a kind, its pre-decoded value, and the
// byte-exact span of source text it came from.
type Token struct {
	Kind  Kind
	Value string
	Span  *report.Span
}
