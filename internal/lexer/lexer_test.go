package lexer

import (
	"bufio"
	"strings"
	"testing"

	"github.com/skepa-lang/skepa/internal/token"
)

func tokenize(t *testing.T, src string) []*token.Token {
	t.Helper()
	l := New("test.sk", bufio.NewReader(strings.NewReader(src)))

	var toks []*token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func kinds(toks []*token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestLexBasicTokens(t *testing.T) {
	toks := tokenize(t, `fn main() -> Int { return 42; }`)
	want := []token.Kind{
		token.FN, token.IDENT, token.LPAREN, token.RPAREN, token.ARROW, token.INT,
		token.LBRACE, token.RETURN, token.INTLIT, token.SEMI, token.RBRACE, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexStringEscapes(t *testing.T) {
	toks := tokenize(t, `"a\nb\tc\"d\\e"`)
	if toks[0].Kind != token.STRINGLIT {
		t.Fatalf("expected string literal, got %s", toks[0].Kind)
	}
	if toks[0].Value != "a\nb\tc\"d\\e" {
		t.Fatalf("unexpected decoded value: %q", toks[0].Value)
	}
}

func TestLexInvalidEscape(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for invalid escape sequence")
		}
	}()
	tokenize(t, `"\x"`)
}

func TestLexUnterminatedString(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unterminated string")
		}
	}()
	tokenize(t, `"abc`)
}

func TestLexNumberKinds(t *testing.T) {
	toks := tokenize(t, `42 3.14 5.`)
	if toks[0].Kind != token.INTLIT || toks[0].Value != "42" {
		t.Fatalf("unexpected int token: %+v", toks[0])
	}
	if toks[1].Kind != token.FLOATLIT || toks[1].Value != "3.14" {
		t.Fatalf("unexpected float token: %+v", toks[1])
	}
	// "5." has no digit after the dot, so it should lex as an int then a dot.
	if toks[2].Kind != token.INTLIT || toks[2].Value != "5" {
		t.Fatalf("unexpected token for '5.': %+v", toks[2])
	}
	if toks[3].Kind != token.DOT {
		t.Fatalf("expected dot after bare '5.', got %s", toks[3].Kind)
	}
}

func TestLexCommentsSkipped(t *testing.T) {
	toks := tokenize(t, "let x = 1; // trailing\n/* block\ncomment */ let y = 2;")
	got := kinds(toks)
	want := []token.Kind{
		token.LET, token.IDENT, token.ASSIGN, token.INTLIT, token.SEMI,
		token.LET, token.IDENT, token.ASSIGN, token.INTLIT, token.SEMI, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unterminated block comment")
		}
	}()
	tokenize(t, "/* never closed")
}
