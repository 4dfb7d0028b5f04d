// Package lexer turns Skepa source text into a token stream, per spec.md §4.1.
package lexer

import (
	"bufio"
	"strings"
	"unicode"

	"github.com/skepa-lang/skepa/internal/report"
	"github.com/skepa-lang/skepa/internal/token"
)

// Lexer tokenizes a single source file.
type Lexer struct {
	file string
	r    *bufio.Reader
	buf  strings.Builder

	line, col           int
	startLine, startCol int
}

// New creates a lexer for the named file's already-open reader.
func New(file string, r *bufio.Reader) *Lexer {
	return &Lexer{file: file, r: r}
}

// NextToken returns the next token in the stream, or an EOF token once the
// input is exhausted.  Errors are *report.CompileError raised via
// report.Raise so callers can recover with report.CatchErrors.
func (l *Lexer) NextToken() *token.Token {
	for {
		c := l.peek()
		if c == -1 {
			return &token.Token{Kind: token.EOF, Span: l.spanHere()}
		}

		switch c {
		case '\n', '\t', ' ', '\r':
			l.skip()
			continue
		case '/':
			if tok := l.lexSlash(); tok != nil {
				return tok
			}
			continue
		case '"':
			return l.lexString()
		default:
			switch {
			case unicode.IsDigit(rune(c)):
				return l.lexNumber()
			case isIdentStart(rune(c)):
				return l.lexIdentOrKeyword()
			default:
				return l.lexOperator()
			}
		}
	}
}

// -----------------------------------------------------------------------------
// low-level rune handling

func (l *Lexer) peek() int {
	b, err := l.r.Peek(1)
	if err != nil {
		return -1
	}
	return int(b[0])
}

func (l *Lexer) peekAt(n int) int {
	b, err := l.r.Peek(n + 1)
	if err != nil || len(b) <= n {
		return -1
	}
	return int(b[n])
}

// eat consumes and appends the current byte to the token buffer.
func (l *Lexer) eat() {
	b, _ := l.r.ReadByte()
	l.buf.WriteByte(b)
	if b == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// skip consumes the current byte without buffering it.
func (l *Lexer) skip() {
	b, _ := l.r.ReadByte()
	if b == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// mark records the start position of the token currently being lexed.
func (l *Lexer) mark() {
	l.startLine, l.startCol = l.line, l.col
	l.buf.Reset()
}

func (l *Lexer) spanHere() *report.Span {
	return &report.Span{File: l.file, StartLine: l.line, StartCol: l.col, EndLine: l.line, EndCol: l.col + 1}
}

func (l *Lexer) span() *report.Span {
	return &report.Span{File: l.file, StartLine: l.startLine, StartCol: l.startCol, EndLine: l.line, EndCol: l.col}
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isIdentCont(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

// -----------------------------------------------------------------------------
// comments / division

func (l *Lexer) lexSlash() *token.Token {
	l.mark()
	l.eat() // '/'

	switch l.peek() {
	case '/':
		for l.peek() != -1 && l.peek() != '\n' {
			l.skip()
		}
		return nil
	case '*':
		l.skip()
		for {
			c := l.peek()
			if c == -1 {
				report.Raise("E-PARSE", l.span(), "unterminated block comment")
			}
			if c == '*' && l.peekAt(1) == '/' {
				l.skip()
				l.skip()
				return nil
			}
			l.skip()
		}
	default:
		return l.finishOperator(token.SLASH, "/")
	}
}

// -----------------------------------------------------------------------------
// strings

var escapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', '"': '"', '\\': '\\',
}

func (l *Lexer) lexString() *token.Token {
	l.mark()
	l.eat() // opening quote

	var sb strings.Builder
	for {
		c := l.peek()
		if c == -1 || c == '\n' {
			report.Raise("E-PARSE", l.span(), "unterminated string literal")
		}
		if c == '"' {
			l.eat()
			break
		}
		if c == '\\' {
			l.eat()
			ec := l.peek()
			if ec == -1 {
				report.Raise("E-PARSE", l.span(), "unterminated string literal")
			}
			decoded, ok := escapes[byte(ec)]
			if !ok {
				l.eat()
				report.Raise("E-PARSE", l.span(), "invalid escape sequence `\\%c`", byte(ec))
			}
			l.eat()
			sb.WriteByte(decoded)
			continue
		}
		l.eat()
		sb.WriteByte(byte(c))
	}

	return &token.Token{Kind: token.STRINGLIT, Value: sb.String(), Span: l.span()}
}

// -----------------------------------------------------------------------------
// numbers

func (l *Lexer) lexNumber() *token.Token {
	l.mark()

	for unicode.IsDigit(rune(l.peek())) {
		l.eat()
	}

	if l.peek() == '.' && unicode.IsDigit(rune(l.peekAt(1))) {
		l.eat() // '.'
		for unicode.IsDigit(rune(l.peek())) {
			l.eat()
		}
		return &token.Token{Kind: token.FLOATLIT, Value: l.buf.String(), Span: l.span()}
	}

	return &token.Token{Kind: token.INTLIT, Value: l.buf.String(), Span: l.span()}
}

// -----------------------------------------------------------------------------
// identifiers / keywords

func (l *Lexer) lexIdentOrKeyword() *token.Token {
	l.mark()

	for isIdentCont(rune(l.peek())) {
		l.eat()
	}

	text := l.buf.String()
	if kind, ok := token.Keywords[text]; ok {
		return &token.Token{Kind: kind, Value: text, Span: l.span()}
	}

	return &token.Token{Kind: token.IDENT, Value: text, Span: l.span()}
}

// -----------------------------------------------------------------------------
// operators / punctuation

// twoCharOps maps two-byte operator spellings to their token kind.
var twoCharOps = map[string]token.Kind{
	"==": token.EQ, "!=": token.NEQ, "<=": token.LE, ">=": token.GE,
	"&&": token.AND, "||": token.OR, "->": token.ARROW,
}

var oneCharOps = map[byte]token.Kind{
	'+': token.PLUS, '-': token.MINUS, '*': token.STAR, '%': token.PERCENT,
	'!': token.BANG, '<': token.LT, '>': token.GT, '=': token.ASSIGN,
	'(': token.LPAREN, ')': token.RPAREN, '{': token.LBRACE, '}': token.RBRACE,
	'[': token.LBRACKET, ']': token.RBRACKET, ',': token.COMMA, '.': token.DOT,
	';': token.SEMI, ':': token.COLON, '|': token.PIPE,
}

func (l *Lexer) lexOperator() *token.Token {
	l.mark()
	c := byte(l.peek())
	l.eat()

	if next := l.peek(); next != -1 {
		two := l.buf.String() + string(rune(next))
		if kind, ok := twoCharOps[two]; ok {
			l.eat()
			return &token.Token{Kind: kind, Value: two, Span: l.span()}
		}
	}

	kind, ok := oneCharOps[c]
	if !ok {
		report.Raise("E-PARSE", l.span(), "unexpected character `%c`", c)
	}

	return &token.Token{Kind: kind, Value: string(c), Span: l.span()}
}

// finishOperator is used by lexSlash to emit the already-marked `/` token.
func (l *Lexer) finishOperator(kind token.Kind, value string) *token.Token {
	return &token.Token{Kind: kind, Value: value, Span: l.span()}
}
