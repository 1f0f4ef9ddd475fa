package core

import (
	"errors"
	"strings"
	"testing"
)

func parseString(t *testing.T, src string) string {
	t.Helper()
	stmts, err := Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v\nsource:\n%s", err, src)
	}
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"declaration", "integer x : 5", "integer x : 5"},
		{"declaration without value", "double ratio", "double ratio"},
		{"string declaration", `string s : "Hello"`, `string s : "Hello"`},
		{"character declaration", `character c : 'z'`, `character c : 'z'`},
		{"array declaration", "array integer arr[8, 2, 3]", "array integer arr[8, 2, 3]"},
		{"empty array", "array string names[]", "array string names[]"},
		{"assignment", "x : y", "x : y"},
		{"compound add", "x :+ 2", "x : (x + 2)"},
		{"compound subtract", "x :- 2", "x : (x - 2)"},
		{"array assignment", "arr[0] : 4", "arr[0] : 4"},
		{"array compound", "arr[i] :+ 1", "arr[i] :+ 1"},
		{"array compound subtract", "arr[i++] :- n * 2", "arr[i++] :- (n * 2)"},
		{"increment", "x++", "x++"},
		{"array decrement", "arr[1]--", "arr[1]--"},
		{"output", "-> x", "-> x"},
		{"call statement", `write_file("a.txt", s)`, `write_file("a.txt", s)`},
		{"call without args", "-> now()", "-> now()"},
		{"flat operators", "-> a + b * c", "-> ((a + b) * c)"},
		{"grouping", "-> a + (b * c)", "-> (a + (b * c))"},
		{"comparison chain", "-> a :> 1 :& b :! 2", "-> (((a :> 1) :& b) :! 2)"},
		{"for loop", "for i to 5\n    -> i", "for i to 5 { -> i }"},
		{"while loop", "while i < 3\n    i++", "while (i < 3) { i++ }"},
		{"do while", "do\n    i++\nwhile i < 3", "do { i++ } while (i < 3)"},
		{"statements split by line", "integer x : 1\n-> x", "integer x : 1\n-> x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseString(t, tt.src); got != tt.want {
				t.Fatalf("want:\n%s\ngot:\n%s", tt.want, got)
			}
		})
	}
}

func TestParseIfChain(t *testing.T) {
	src := `if x := 1 then
    -> "a"
else_if x := 2 then
    -> "b"
else_if x := 3 then
    -> "c"
else
    -> "d"
-> "after"`
	want := `if (x := 1) then { -> "a" } else_if (x := 2) then { -> "b" } else_if (x := 3) then { -> "c" } else { -> "d" }
-> "after"`

	if got := parseString(t, src); got != want {
		t.Fatalf("want:\n%s\ngot:\n%s", want, got)
	}

	stmts, _ := Parse(src)
	node := stmts[0].(*If)
	if len(node.Elifs) != 2 || node.Else == nil {
		t.Fatalf("unexpected branches: %d elifs, else=%v", len(node.Elifs), node.Else)
	}
}

func TestParseElseAcceptsThen(t *testing.T) {
	got := parseString(t, "if x then\n    -> 1\nelse then\n    -> 2")
	want := "if x then { -> 1 } else { -> 2 }"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestParseIfWithoutElse(t *testing.T) {
	stmts, err := Parse("if x then\n    -> 1")
	if err != nil {
		t.Fatal(err)
	}
	if stmts[0].(*If).Else != nil {
		t.Fatalf("else block should be absent")
	}
}

func TestParseNestedBlocks(t *testing.T) {
	src := `for i to 3
    if i := 1 then
        -> i
    -> "tick"
-> "done"`
	want := `for i to 3 { if (i := 1) then { -> i }; -> "tick" }
-> "done"`
	if got := parseString(t, src); got != want {
		t.Fatalf("want:\n%s\ngot:\n%s", want, got)
	}
}

func TestParseSkipsUnknownTopLevelTokens(t *testing.T) {
	got := parseString(t, "stop\nthen , 5\n-> 1\nstop")
	if got != "-> 1" {
		t.Fatalf("want only the output statement, got %q", got)
	}
}

func TestParseSplicesStrayIndent(t *testing.T) {
	got := parseString(t, "-> 1\n    -> 2\n-> 3")
	if got != "-> 1\n-> 2\n-> 3" {
		t.Fatalf("unexpected statements: %q", got)
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected TokenKind
		actual   TokenKind
		line     int
	}{
		{"declaration without name", "integer : 5", IDENTIFIER, COLON, 1},
		{"for without to", "for i 5\n    -> i", TO, NUMBER, 1},
		{"if without then", "if x\n    -> x", THEN, INDENT, 2},
		{"while without block", "while x < 3\n-> x", INDENT, OUTPUT, 2},
		{"do without while", "do\n    x++\n-> x", WHILE, OUTPUT, 3},
		{"unclosed array", "array integer a[1, 2", RIGHT_BRACKET, EOF, 1},
		{"unclosed call", "-> f(1, 2", RIGHT_PAREN, EOF, 1},
		{"unclosed group", "-> (1 + 2", RIGHT_PAREN, EOF, 1},
		{"array without type", "array nums[1]", UNKNOWN, IDENTIFIER, 1},
		{"missing expression", "-> ", UNKNOWN, EOF, 1},
		{"operator without operand", "-> 1 +", UNKNOWN, EOF, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("expected a syntax error, got %v", err)
			}
			if syntaxErr.Expected != tt.expected || syntaxErr.Actual != tt.actual {
				t.Fatalf("want expected=%s actual=%s, got %v", tt.expected, tt.actual, syntaxErr)
			}
			if syntaxErr.Pos.Line != tt.line {
				t.Fatalf("want line %d, got %s", tt.line, syntaxErr.Pos)
			}
		})
	}
}

func TestParseAbortsOnFirstError(t *testing.T) {
	stmts, err := Parse("-> 1\ninteger : 2\n-> 3")
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(stmts) != 1 {
		t.Fatalf("expected only the statements before the error, got %d", len(stmts))
	}
}
