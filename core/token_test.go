package core

import (
	"reflect"
	"testing"
)

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func wantKinds(t *testing.T, src string, want []TokenKind) []Token {
	t.Helper()
	got := Tokenize(src)
	if !reflect.DeepEqual(kinds(got), want) {
		t.Fatalf("\nsource:\n%s\nwant kinds:\n%v\ngot kinds:\n%v\n", src, want, kinds(got))
	}
	return got
}

func TestTokenizeDeclaration(t *testing.T) {
	got := wantKinds(t, "integer count : 42", []TokenKind{
		TYPE_INTEGER, IDENTIFIER, COLON, NUMBER,
	})
	if got[1].Lexeme != "count" || got[3].Lexeme != "42" {
		t.Fatalf("unexpected lexemes: %q %q", got[1].Lexeme, got[3].Lexeme)
	}
}

func TestTokenizeWhileLoopWithIndentation(t *testing.T) {
	src := `integer int : 0
integer limit : 5
while int < limit
    -> int
    int++
stop
`
	wantKinds(t, src, []TokenKind{
		TYPE_INTEGER, IDENTIFIER, COLON, NUMBER,
		TYPE_INTEGER, IDENTIFIER, COLON, NUMBER,
		WHILE, IDENTIFIER, LESS, IDENTIFIER,
		INDENT,
		OUTPUT, IDENTIFIER,
		IDENTIFIER, INCREMENT,
		DEDENT,
		STOP,
	})
}

func TestTokenizeOperators(t *testing.T) {
	wantKinds(t, ":+ :- := :! :> :< :& :| : -> ++ -- + - * / < > , ( ) [ ]", []TokenKind{
		PLUS_EQUAL, MINUS_EQUAL, EQUAL, NOT_EQUAL, GREATER_EQUAL, LESS_EQUAL, AND, OR, COLON,
		OUTPUT, INCREMENT, DECREMENT, PLUS, MINUS, MULTIPLY, DIVIDE, LESS, GREATER,
		COMMA, LEFT_PAREN, RIGHT_PAREN, LEFT_BRACKET, RIGHT_BRACKET,
	})
}

func TestTokenizeLiterals(t *testing.T) {
	got := wantKinds(t, `3.25 7 "two words" 'c'`, []TokenKind{
		FLOAT_LITERAL, NUMBER, STRING_LITERAL, CHARACTER_LITERAL,
	})
	if got[2].Lexeme != `"two words"` {
		t.Fatalf("string lexeme should keep its quotes, got %q", got[2].Lexeme)
	}
	if got[3].Lexeme != `'c'` {
		t.Fatalf("character lexeme should keep its quotes, got %q", got[3].Lexeme)
	}
}

func TestTokenizeKeywordsAreCaseInsensitive(t *testing.T) {
	got := wantKinds(t, `INTEGER Total : 1
IF Total := 1 THEN
    -> "Hello"`, []TokenKind{
		TYPE_INTEGER, IDENTIFIER, COLON, NUMBER,
		IF, IDENTIFIER, EQUAL, NUMBER, THEN,
		INDENT, OUTPUT, STRING_LITERAL, DEDENT,
	})
	if got[1].Lexeme != "total" {
		t.Fatalf("identifiers should be folded, got %q", got[1].Lexeme)
	}
	if got[11].Lexeme != `"Hello"` {
		t.Fatalf("string literal case should be kept, got %q", got[11].Lexeme)
	}
}

func TestTokenizeFoldLiterals(t *testing.T) {
	tokenizer := NewTokenizer(`-> "Hello" -> 'Q'`)
	tokenizer.FoldLiterals = true
	got := tokenizer.Tokenize()

	if got[1].Lexeme != `"hello"` || got[3].Lexeme != `'q'` {
		t.Fatalf("literals should be folded, got %q and %q", got[1].Lexeme, got[3].Lexeme)
	}
}

func TestTokenizeClosesBlocksAtEOF(t *testing.T) {
	wantKinds(t, "if x then\n    if y then\n        -> x", []TokenKind{
		IF, IDENTIFIER, THEN,
		INDENT, IF, IDENTIFIER, THEN,
		INDENT, OUTPUT, IDENTIFIER,
		DEDENT, DEDENT,
	})
}

func TestTokenizeBlankLinesKeepIndentation(t *testing.T) {
	wantKinds(t, "while x\n    -> x\n\n    # note\n    x++\n-> x", []TokenKind{
		WHILE, IDENTIFIER,
		INDENT, OUTPUT, IDENTIFIER, IDENTIFIER, INCREMENT, DEDENT,
		OUTPUT, IDENTIFIER,
	})
}

func TestTokenizeUnmatchedDedentRoundsDown(t *testing.T) {
	tokenizer := NewTokenizer("while x\n    -> x\n  -> y")
	got := tokenizer.Tokenize()

	want := []TokenKind{WHILE, IDENTIFIER, INDENT, OUTPUT, IDENTIFIER, DEDENT, OUTPUT, IDENTIFIER}
	if !reflect.DeepEqual(kinds(got), want) {
		t.Fatalf("want %v, got %v", want, kinds(got))
	}

	diags := tokenizer.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	if diags[0].Pos.Line != 3 {
		t.Fatalf("diagnostic should point at line 3, got %s", diags[0].Pos)
	}
}

func TestTokenizeRoundedDedentHoldsForFollowingLines(t *testing.T) {
	tokenizer := NewTokenizer("while x\n    -> x\n  -> y\n  -> z\n-> w")
	got := tokenizer.Tokenize()

	want := []TokenKind{
		WHILE, IDENTIFIER, INDENT, OUTPUT, IDENTIFIER, DEDENT,
		OUTPUT, IDENTIFIER,
		OUTPUT, IDENTIFIER,
		OUTPUT, IDENTIFIER,
	}
	if !reflect.DeepEqual(kinds(got), want) {
		t.Fatalf("want %v, got %v", want, kinds(got))
	}
	if n := len(tokenizer.Diagnostics()); n != 1 {
		t.Fatalf("expected one diagnostic, got %d", n)
	}
}

func TestTokenizeRoundedDedentEndsAtLevelWidth(t *testing.T) {
	tokenizer := NewTokenizer("while x\n    -> x\n  -> y\nwhile z\n  -> z")
	got := tokenizer.Tokenize()

	want := []TokenKind{
		WHILE, IDENTIFIER, INDENT, OUTPUT, IDENTIFIER, DEDENT,
		OUTPUT, IDENTIFIER,
		WHILE, IDENTIFIER, INDENT, OUTPUT, IDENTIFIER, DEDENT,
	}
	if !reflect.DeepEqual(kinds(got), want) {
		t.Fatalf("want %v, got %v", want, kinds(got))
	}
	if n := len(tokenizer.Diagnostics()); n != 1 {
		t.Fatalf("expected one diagnostic, got %d", n)
	}
}

func TestTokenizeSkipsUnrecognizedCharacters(t *testing.T) {
	tokenizer := NewTokenizer("integer x : 5 @ $\n-> x")
	got := tokenizer.Tokenize()

	want := []TokenKind{TYPE_INTEGER, IDENTIFIER, COLON, NUMBER, OUTPUT, IDENTIFIER}
	if !reflect.DeepEqual(kinds(got), want) {
		t.Fatalf("want %v, got %v", want, kinds(got))
	}
	if n := len(tokenizer.Diagnostics()); n != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", n)
	}
}

func TestTokenizeMalformedLiterals(t *testing.T) {
	tokenizer := NewTokenizer(`-> "open`)
	got := tokenizer.Tokenize()
	want := []TokenKind{OUTPUT, IDENTIFIER}
	if !reflect.DeepEqual(kinds(got), want) {
		t.Fatalf("want %v, got %v", want, kinds(got))
	}
	if len(tokenizer.Diagnostics()) != 1 {
		t.Fatalf("expected a diagnostic for the unterminated string")
	}

	tokenizer = NewTokenizer(`-> 12abc`)
	got = tokenizer.Tokenize()
	if !reflect.DeepEqual(kinds(got), []TokenKind{OUTPUT}) {
		t.Fatalf("malformed number should be dropped, got %v", kinds(got))
	}
}

func TestTokenPositions(t *testing.T) {
	got := Tokenize("integer x : 1\n-> x")

	out := got[4]
	if out.Kind != OUTPUT || out.Pos.Line != 2 || out.Pos.Col != 1 {
		t.Fatalf("unexpected output token %v at %s", out, out.Pos)
	}
	colon := got[2]
	if colon.Pos.Line != 1 || colon.Pos.Col != 11 || colon.Pos.Offset != 10 {
		t.Fatalf("unexpected colon position %+v", colon.Pos)
	}
}
