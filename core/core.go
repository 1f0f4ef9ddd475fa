package core

import (
	"context"
	"strings"
)

func Tokenize(source string) []Token {
	return NewTokenizer(source).Tokenize()
}

func ParseTokens(tokens []Token) ([]Statement, error) {
	return newParser(tokens).parse()
}

func Parse(source string) ([]Statement, error) {
	return ParseTokens(Tokenize(source))
}

// Run executes source against a fresh Environment with no builtins and
// returns the output lines joined by newlines.
func Run(source string) (string, error) {
	return RunContext(context.Background(), source, nil)
}

// RunContext is Run with a caller supplied context and builtin set. On
// error no output is returned.
func RunContext(ctx context.Context, source string, builtins Builtins) (string, error) {
	stmts, err := Parse(source)
	if err != nil {
		return "", err
	}

	interp := NewInterpreter(Options{Builtins: builtins})
	events, err := interp.Evaluate(ctx, stmts, NewEnvironment())
	if err != nil {
		return "", err
	}

	return JoinOutput(events), nil
}

func JoinOutput(events []OutputEvent) string {
	lines := make([]string, len(events))
	for i, ev := range events {
		lines[i] = ev.Text
	}
	return strings.Join(lines, "\n")
}
