package core

import (
	"fmt"
	"strings"
	"unicode"
)

type TokenKind int

const (
	UNKNOWN TokenKind = iota
	EOF

	// structural
	INDENT
	DEDENT
	COMMA
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACKET
	RIGHT_BRACKET

	// type keywords
	TYPE_INTEGER
	TYPE_STRING
	TYPE_DOUBLE
	TYPE_CHARACTER
	ARRAY

	// control keywords
	IF
	ELSE_IF
	ELSE
	THEN
	FOR
	TO
	WHILE
	DO
	STOP

	// literals
	IDENTIFIER
	STRING_LITERAL
	CHARACTER_LITERAL
	NUMBER
	FLOAT_LITERAL

	// operators
	OUTPUT
	COLON
	INCREMENT
	DECREMENT
	PLUS_EQUAL
	MINUS_EQUAL
	EQUAL
	NOT_EQUAL
	GREATER
	LESS
	GREATER_EQUAL
	LESS_EQUAL
	AND
	OR
	PLUS
	MINUS
	MULTIPLY
	DIVIDE
)

var kindNames = map[TokenKind]string{
	UNKNOWN:           "UNKNOWN",
	EOF:               "EOF",
	INDENT:            "INDENT",
	DEDENT:            "DEDENT",
	COMMA:             "COMMA",
	LEFT_PAREN:        "LEFT_PAREN",
	RIGHT_PAREN:       "RIGHT_PAREN",
	LEFT_BRACKET:      "LEFT_BRACKET",
	RIGHT_BRACKET:     "RIGHT_BRACKET",
	TYPE_INTEGER:      "TYPE_INTEGER",
	TYPE_STRING:       "TYPE_STRING",
	TYPE_DOUBLE:       "TYPE_DOUBLE",
	TYPE_CHARACTER:    "TYPE_CHARACTER",
	ARRAY:             "ARRAY",
	IF:                "IF",
	ELSE_IF:           "ELSE_IF",
	ELSE:              "ELSE",
	THEN:              "THEN",
	FOR:               "FOR",
	TO:                "TO",
	WHILE:             "WHILE",
	DO:                "DO",
	STOP:              "STOP",
	IDENTIFIER:        "IDENTIFIER",
	STRING_LITERAL:    "STRING_LITERAL",
	CHARACTER_LITERAL: "CHARACTER_LITERAL",
	NUMBER:            "NUMBER",
	FLOAT_LITERAL:     "FLOAT_LITERAL",
	OUTPUT:            "OUTPUT",
	COLON:             "COLON",
	INCREMENT:         "INCREMENT",
	DECREMENT:         "DECREMENT",
	PLUS_EQUAL:        "PLUS_EQUAL",
	MINUS_EQUAL:       "MINUS_EQUAL",
	EQUAL:             "EQUAL",
	NOT_EQUAL:         "NOT_EQUAL",
	GREATER:           "GREATER",
	LESS:              "LESS",
	GREATER_EQUAL:     "GREATER_EQUAL",
	LESS_EQUAL:        "LESS_EQUAL",
	AND:               "AND",
	OR:                "OR",
	PLUS:              "PLUS",
	MINUS:             "MINUS",
	MULTIPLY:          "MULTIPLY",
	DIVIDE:            "DIVIDE",
}

func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// IsTypeKeyword reports whether k names one of the scalar declaration types.
func (k TokenKind) IsTypeKeyword() bool {
	switch k {
	case TYPE_INTEGER, TYPE_STRING, TYPE_DOUBLE, TYPE_CHARACTER:
		return true
	}
	return false
}

// IsKeyword reports whether k is a reserved word.
func (k TokenKind) IsKeyword() bool {
	return k >= TYPE_INTEGER && k <= STOP
}

var keywords = map[string]TokenKind{
	"integer":   TYPE_INTEGER,
	"string":    TYPE_STRING,
	"double":    TYPE_DOUBLE,
	"character": TYPE_CHARACTER,
	"array":     ARRAY,
	"if":        IF,
	"else_if":   ELSE_IF,
	"else":      ELSE,
	"then":      THEN,
	"for":       FOR,
	"to":        TO,
	"while":     WHILE,
	"do":        DO,
	"stop":      STOP,
}

var operators = map[TokenKind]string{
	COMMA:         ",",
	LEFT_PAREN:    "(",
	RIGHT_PAREN:   ")",
	LEFT_BRACKET:  "[",
	RIGHT_BRACKET: "]",
	OUTPUT:        "->",
	COLON:         ":",
	INCREMENT:     "++",
	DECREMENT:     "--",
	PLUS_EQUAL:    ":+",
	MINUS_EQUAL:   ":-",
	EQUAL:         ":=",
	NOT_EQUAL:     ":!",
	GREATER:       ">",
	LESS:          "<",
	GREATER_EQUAL: ":>",
	LESS_EQUAL:    ":<",
	AND:           ":&",
	OR:            ":|",
	PLUS:          "+",
	MINUS:         "-",
	MULTIPLY:      "*",
	DIVIDE:        "/",
}

type Position struct {
	Line   int
	Col    int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("[%d:%d]", p.Line, p.Col)
}

type Token struct {
	Kind   TokenKind
	Lexeme string
	Pos    Position
	Length int
}

func (t Token) String() string {
	switch t.Kind {
	case INDENT:
		return "<indent>"
	case DEDENT:
		return "<dedent>"
	case EOF:
		return "<eof>"
	case IDENTIFIER:
		return fmt.Sprintf("var(%s)", t.Lexeme)
	case STRING_LITERAL:
		return fmt.Sprintf("string(%s)", t.Lexeme)
	case CHARACTER_LITERAL:
		return fmt.Sprintf("char(%s)", t.Lexeme)
	case NUMBER, FLOAT_LITERAL:
		return fmt.Sprintf("number(%s)", t.Lexeme)
	}

	if op, ok := operators[t.Kind]; ok {
		return op
	}
	if t.Kind.IsKeyword() {
		return t.Lexeme
	}
	return "<unknown>"
}

// Tokenizer turns source text into tokens one line at a time, emitting
// INDENT and DEDENT tokens as the leading whitespace width changes.
//
// Keywords and identifiers are always case-folded. When FoldLiterals is
// set, string and character literal contents are folded too.
type Tokenizer struct {
	FoldLiterals bool

	lines       []string
	indents     []indentLevel
	tokens      []Token
	diagnostics []*LexError
}

func NewTokenizer(source string) *Tokenizer {
	return &Tokenizer{
		lines:   strings.Split(source, "\n"),
		indents: []indentLevel{{joined: -1}},
	}
}

// Diagnostics returns the recoverable problems found by the last call to
// Tokenize.
func (t *Tokenizer) Diagnostics() []*LexError {
	return t.diagnostics
}

func (t *Tokenizer) Tokenize() []Token {
	t.tokens = []Token{}
	t.diagnostics = nil
	t.indents = []indentLevel{{joined: -1}}

	offset := 0
	lineNo := 0
	for i, line := range t.lines {
		lineNo = i + 1
		runes := []rune(strings.TrimSuffix(line, "\r"))
		t.scanLine(runes, lineNo, offset)
		offset += len([]rune(line)) + 1
	}

	end := Position{Line: lineNo, Col: 1, Offset: offset}
	for len(t.indents) > 1 {
		t.indents = t.indents[:len(t.indents)-1]
		t.tokens = append(t.tokens, Token{Kind: DEDENT, Pos: end})
	}

	return t.tokens
}

func (t *Tokenizer) diagnose(pos Position, format string, args ...interface{}) {
	t.diagnostics = append(t.diagnostics, &LexError{
		Reason: fmt.Sprintf(format, args...),
		Pos:    pos,
	})
}

// indentLevel is one open block. joined is a width that matched no open
// level when dedenting and was folded into this one, or -1.
type indentLevel struct {
	width  int
	joined int
}

func (t *Tokenizer) indent(width int, pos Position) {
	top := &t.indents[len(t.indents)-1]
	if width > top.width && width != top.joined {
		t.indents = append(t.indents, indentLevel{width: width, joined: -1})
		t.tokens = append(t.tokens, Token{Kind: INDENT, Pos: pos, Length: width})
		return
	}

	for width < top.width {
		t.indents = t.indents[:len(t.indents)-1]
		t.tokens = append(t.tokens, Token{Kind: DEDENT, Pos: pos})
		top = &t.indents[len(t.indents)-1]
	}

	if width == top.width {
		top.joined = -1
		return
	}

	// no open level has this width; following lines at it join the enclosing
	// level too, until a line is back at the level's own width
	if width != top.joined {
		t.diagnose(pos, "indentation of %d matches no enclosing block, using %d", width, top.width)
		top.joined = width
	}
}

func (t *Tokenizer) scanLine(line []rune, lineNo int, offset int) {
	width := 0
	for width < len(line) && unicode.IsSpace(line[width]) {
		width++
	}

	// blank and comment-only lines never open or close blocks
	if width == len(line) || line[width] == '#' {
		return
	}

	t.indent(width, Position{Line: lineNo, Col: 1, Offset: offset})

	i := width
	for i < len(line) {
		ch := line[i]
		pos := Position{Line: lineNo, Col: i + 1, Offset: offset + i}

		if unicode.IsSpace(ch) {
			i++
			continue
		}
		if ch == '#' {
			return
		}

		tok, n := t.scanToken(line, i, pos)
		if n == 0 {
			t.diagnose(pos, "unexpected character %q", ch)
			i++
			continue
		}
		if tok.Kind != UNKNOWN {
			t.tokens = append(t.tokens, tok)
		}
		i += n
	}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func peekAt(line []rune, i int) rune {
	if i >= len(line) {
		return 0
	}
	return line[i]
}

// scanToken matches a single token at line[i]. It returns the number of
// runes consumed; zero means nothing matched. A token of kind UNKNOWN with a
// non-zero length is consumed but not emitted.
func (t *Tokenizer) scanToken(line []rune, i int, pos Position) (Token, int) {
	ch := line[i]
	op := func(kind TokenKind, n int) (Token, int) {
		return Token{Kind: kind, Lexeme: string(line[i : i+n]), Pos: pos, Length: n}, n
	}

	switch ch {
	case ',':
		return op(COMMA, 1)
	case '(':
		return op(LEFT_PAREN, 1)
	case ')':
		return op(RIGHT_PAREN, 1)
	case '[':
		return op(LEFT_BRACKET, 1)
	case ']':
		return op(RIGHT_BRACKET, 1)
	case '*':
		return op(MULTIPLY, 1)
	case '/':
		return op(DIVIDE, 1)
	case '>':
		return op(GREATER, 1)
	case '<':
		return op(LESS, 1)
	case '+':
		if peekAt(line, i+1) == '+' {
			return op(INCREMENT, 2)
		}
		return op(PLUS, 1)
	case '-':
		switch peekAt(line, i+1) {
		case '-':
			return op(DECREMENT, 2)
		case '>':
			return op(OUTPUT, 2)
		}
		return op(MINUS, 1)
	case ':':
		switch peekAt(line, i+1) {
		case '+':
			return op(PLUS_EQUAL, 2)
		case '-':
			return op(MINUS_EQUAL, 2)
		case '=':
			return op(EQUAL, 2)
		case '!':
			return op(NOT_EQUAL, 2)
		case '>':
			return op(GREATER_EQUAL, 2)
		case '<':
			return op(LESS_EQUAL, 2)
		case '&':
			return op(AND, 2)
		case '|':
			return op(OR, 2)
		}
		return op(COLON, 1)
	case '"':
		for j := i + 1; j < len(line); j++ {
			if line[j] == '"' {
				tok, n := op(STRING_LITERAL, j-i+1)
				tok.Lexeme = t.foldLiteral(tok.Lexeme)
				return tok, n
			}
		}
		t.diagnose(pos, "unterminated string literal")
		return Token{}, 1
	case '\'':
		if i+2 < len(line) && line[i+2] == '\'' {
			tok, n := op(CHARACTER_LITERAL, 3)
			tok.Lexeme = t.foldLiteral(tok.Lexeme)
			return tok, n
		}
		t.diagnose(pos, "malformed character literal")
		return Token{}, 1
	}

	if isDigit(ch) {
		return t.scanNumber(line, i, pos)
	}

	if isIdentStart(ch) {
		j := i
		for j < len(line) && isIdentPart(line[j]) {
			j++
		}
		word := strings.ToLower(string(line[i:j]))
		kind, ok := keywords[word]
		if !ok {
			kind = IDENTIFIER
		}
		return Token{Kind: kind, Lexeme: word, Pos: pos, Length: j - i}, j - i
	}

	return Token{}, 0
}

func (t *Tokenizer) scanNumber(line []rune, i int, pos Position) (Token, int) {
	j := i
	for j < len(line) && isDigit(line[j]) {
		j++
	}

	kind := NUMBER
	if peekAt(line, j) == '.' && isDigit(peekAt(line, j+1)) {
		kind = FLOAT_LITERAL
		j++
		for j < len(line) && isDigit(line[j]) {
			j++
		}
	}

	// a number running straight into a word has no boundary and never matches
	if j < len(line) && isIdentPart(line[j]) {
		for j < len(line) && isIdentPart(line[j]) {
			j++
		}
		t.diagnose(pos, "malformed number %q", string(line[i:j]))
		return Token{Kind: UNKNOWN}, j - i
	}

	return Token{Kind: kind, Lexeme: string(line[i:j]), Pos: pos, Length: j - i}, j - i
}

func (t *Tokenizer) foldLiteral(lexeme string) string {
	if t.FoldLiterals {
		return strings.ToLower(lexeme)
	}
	return lexeme
}
