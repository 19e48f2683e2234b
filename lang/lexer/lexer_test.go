package lexer_test

import (
	"testing"

	"github.com/gogpu/effectfx/diag"
	"github.com/gogpu/effectfx/lang/lexer"
	"github.com/gogpu/effectfx/lang/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	diags := &diag.Bag{}
	l := lexer.New([]byte(src), "test.fx", diags)
	var toks []token.Token
	for {
		tok := l.Lex()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, diags
}

func TestNumericLiteralGrammar(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"0x1F", token.IntLiteral},
		{"0x1Fu", token.UintLiteral},
		{"010", token.IntLiteral},
		{"42", token.IntLiteral},
		{"42u", token.UintLiteral},
		{"3.14", token.FloatLiteral},
		{"3.14f", token.FloatLiteral},
		{"3.14lf", token.DoubleLiteral},
		{"1e10", token.FloatLiteral},
		{"1.5e-3", token.FloatLiteral},
	}
	for _, c := range cases {
		toks, diags := lexAll(t, c.src)
		if diags.Fatal() {
			t.Fatalf("%q: unexpected diagnostics: %s", c.src, diags.String())
		}
		if len(toks) < 1 || toks[0].Kind != c.kind {
			t.Errorf("%q: got kind %v, want %v", c.src, toks[0].Kind, c.kind)
		}
	}
}

func TestIntegerOverflowSaturatesWithWarning(t *testing.T) {
	toks, diags := lexAll(t, "99999999999999999999")
	if toks[0].Kind != token.IntLiteral {
		t.Fatalf("expected IntLiteral, got %v", toks[0].Kind)
	}
	if len(diags.Entries()) == 0 {
		t.Fatalf("expected an overflow warning")
	}
}

func TestAdjacentStringConcatenation(t *testing.T) {
	toks, diags := lexAll(t, `"foo" "bar"`)
	if diags.Fatal() {
		t.Fatalf("unexpected diagnostics: %s", diags.String())
	}
	if toks[0].Kind != token.StringLiteral || toks[0].Literal.Str != "foobar" {
		t.Fatalf("expected concatenated string literal, got %+v", toks[0])
	}
	if toks[1].Kind != token.EOF {
		t.Fatalf("expected EOF after concatenated string, got %v", toks[1].Kind)
	}
}

func TestLineDirectiveUpdatesLocation(t *testing.T) {
	src := "x\n#line 100 \"other.fx\"\ny"
	diags := &diag.Bag{}
	l := lexer.New([]byte(src), "test.fx", diags)
	first := l.Lex() // x
	if first.Loc.Line != 1 || first.Loc.File != "test.fx" {
		t.Fatalf("unexpected first location: %+v", first.Loc)
	}
	second := l.Lex() // y, after the #line directive
	if second.Loc.Line != 100 || second.Loc.File != "other.fx" {
		t.Fatalf("expected relocated token at other.fx:100, got %+v", second.Loc)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	toks, diags := lexAll(t, "// comment\nx /* block\ncomment */ y")
	if diags.Fatal() {
		t.Fatalf("unexpected diagnostics: %s", diags.String())
	}
	if toks[0].Raw != "x" || toks[1].Raw != "y" {
		t.Fatalf("expected [x y EOF], got %+v", toks)
	}
}

func TestUnterminatedStringIsNonFatalToLexingButErrors(t *testing.T) {
	_, diags := lexAll(t, `"unterminated`)
	if len(diags.Entries()) == 0 {
		t.Fatalf("expected a diagnostic for the unterminated string")
	}
}

func TestKeywordVsIdentifier(t *testing.T) {
	toks, _ := lexAll(t, "float myFloatVar")
	if toks[0].Kind != token.KwFloat {
		t.Errorf("expected KwFloat, got %v", toks[0].Kind)
	}
	if toks[1].Kind != token.Identifier {
		t.Errorf("expected Identifier, got %v", toks[1].Kind)
	}
}

func TestMarkRestoreRoundTrips(t *testing.T) {
	diags := &diag.Bag{}
	l := lexer.New([]byte("abc def"), "t.fx", diags)
	first := l.Lex()
	l.Mark()
	second := l.Lex()
	l.Restore()
	secondAgain := l.Lex()
	if second.Raw != secondAgain.Raw {
		t.Fatalf("restore did not replay the same token: %q vs %q", second.Raw, secondAgain.Raw)
	}
	_ = first
}

func TestPunctuationLongestMatch(t *testing.T) {
	toks, _ := lexAll(t, "<<= >>= == != <= >=")
	want := []token.Kind{token.ShlEq, token.ShrEq, token.EqEq, token.NotEq, token.Le, token.Ge, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}
