// Package highlight colors source text for terminals: single lines for the
// interactive shell and whole files for the -highlight flag.
package highlight

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/styles"
	"github.com/fatih/color"

	"github.com/quetzal-lang/quetzal/core"
)

var (
	literalColor = color.New(color.FgGreen)
	numberColor  = color.New(color.FgMagenta)
	typeColor    = color.New(color.FgCyan)
	keywordColor = color.New(color.FgBlue, color.Bold)
	outputColor  = color.New(color.FgYellow)
)

// Line colors one line of input using the interpreter's own tokenizer, so
// the shell shows exactly what the lexer will see. Skipped characters are
// left uncolored.
func Line(line []rune) string {
	tokens := core.Tokenize(string(line))

	builder := strings.Builder{}

	i := 0
	for _, token := range tokens {
		if token.Kind == core.INDENT || token.Kind == core.DEDENT {
			continue
		}
		start, end := token.Pos.Offset, token.Pos.Offset+token.Length
		if start < i || end > len(line) {
			continue
		}
		if start > i {
			builder.WriteString(string(line[i:start]))
		}

		text := string(line[start:end])
		switch {
		case token.Kind == core.STRING_LITERAL || token.Kind == core.CHARACTER_LITERAL:
			builder.WriteString(literalColor.Sprint(text))
		case token.Kind == core.NUMBER || token.Kind == core.FLOAT_LITERAL:
			builder.WriteString(numberColor.Sprint(text))
		case token.Kind.IsTypeKeyword() || token.Kind == core.ARRAY:
			builder.WriteString(typeColor.Sprint(text))
		case token.Kind.IsKeyword():
			builder.WriteString(keywordColor.Sprint(text))
		case token.Kind == core.OUTPUT:
			builder.WriteString(outputColor.Sprint(text))
		default:
			builder.WriteString(text)
		}

		i = end
	}

	if i < len(line) {
		builder.WriteString(string(line[i:]))
	}

	return builder.String()
}

// Lexer is a chroma lexer for the language, matching the tokenizer's
// vocabulary.
var Lexer = chroma.MustNewLazyLexer(
	&chroma.Config{
		Name:            "Quetzal",
		Aliases:         []string{"quetzal", "qz"},
		Filenames:       []string{"*.qz"},
		CaseInsensitive: true,
	},
	func() chroma.Rules {
		return chroma.Rules{
			"root": {
				{Pattern: `#[^\n]*`, Type: chroma.CommentSingle, Mutator: nil},
				{Pattern: `"[^"\n]*"`, Type: chroma.LiteralString, Mutator: nil},
				{Pattern: `'.'`, Type: chroma.LiteralStringChar, Mutator: nil},
				{Pattern: `\b(integer|string|double|character|array)\b`, Type: chroma.KeywordType, Mutator: nil},
				{Pattern: `\b(if|else_if|else|then|for|to|while|do|stop)\b`, Type: chroma.Keyword, Mutator: nil},
				{Pattern: `\b\d+\.\d+\b`, Type: chroma.LiteralNumberFloat, Mutator: nil},
				{Pattern: `\b\d+\b`, Type: chroma.LiteralNumberInteger, Mutator: nil},
				{Pattern: `->`, Type: chroma.NameBuiltin, Mutator: nil},
				{Pattern: `\+\+|--|:[-+=!<>&|]|[-+*/<>:]`, Type: chroma.Operator, Mutator: nil},
				{Pattern: `[,()\[\]]`, Type: chroma.Punctuation, Mutator: nil},
				{Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Type: chroma.Name, Mutator: nil},
				{Pattern: `\s+`, Type: chroma.Text, Mutator: nil},
				{Pattern: `.`, Type: chroma.Error, Mutator: nil},
			},
		}
	},
)

// Source writes source to w colored with the named chroma style. When
// colored is false the text is written unchanged.
func Source(w io.Writer, source string, style string, colored bool) error {
	formatter := formatters.Get("terminal256")
	if !colored {
		formatter = formatters.NoOp
	}

	iterator, err := Lexer.Tokenise(nil, source)
	if err != nil {
		return err
	}
	return formatter.Format(w, styles.Get(style), iterator)
}
