package core

import "fmt"

// LexError describes input the tokenizer skipped. It is never fatal.
type LexError struct {
	Reason string
	Pos    Position
}

func (e *LexError) Error() string {
	return fmt.Sprintf("Lex error at %s: %s", e.Pos, e.Reason)
}

// SyntaxError aborts parsing. Expected is UNKNOWN when the parser wanted
// one of several kinds, in which case Reason says what.
type SyntaxError struct {
	Expected TokenKind
	Actual   TokenKind
	Reason   string
	Pos      Position
}

func (e *SyntaxError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("Syntax error at %s: %s, got %s", e.Pos, e.Reason, e.Actual)
	}
	return fmt.Sprintf("Syntax error at %s: expected %s, got %s", e.Pos, e.Expected, e.Actual)
}

type ErrorKind int

const (
	NameError ErrorKind = iota
	TypeError
	IndexError
	ArithmeticError
	IOError
)

func (k ErrorKind) String() string {
	switch k {
	case NameError:
		return "Name error"
	case TypeError:
		return "Type error"
	case IndexError:
		return "Index error"
	case ArithmeticError:
		return "Arithmetic error"
	case IOError:
		return "IO error"
	default:
		return "Runtime error"
	}
}

// RuntimeError is raised by the evaluator and by builtins. Index and Bound
// are only meaningful for IndexError.
type RuntimeError struct {
	Kind   ErrorKind
	Reason string
	Pos    Position

	Index int64
	Bound int
}

func (e *RuntimeError) Error() string {
	if e.Pos.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Reason)
}

func newRuntimeError(kind ErrorKind, pos Position, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Kind:   kind,
		Reason: fmt.Sprintf(format, args...),
		Pos:    pos,
	}
}

func undefinedError(pos Position, name string) *RuntimeError {
	return newRuntimeError(NameError, pos, "undefined variable %s", name)
}

func indexError(pos Position, name string, index int64, bound int) *RuntimeError {
	err := newRuntimeError(IndexError, pos, "index %d out of range for %s of size %d", index, name, bound)
	err.Index = index
	err.Bound = bound
	return err
}
