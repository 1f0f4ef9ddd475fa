package modules

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/quetzal-lang/quetzal/core"
)

type _strings struct{}

func loadStrings(reg *core.Registry) {
	c := &_strings{}

	reg.LoadFunc("upper", 1, c.upper)
	reg.LoadFunc("lower", 1, c.lower)
	reg.LoadFunc("split", 2, c.split)
	reg.LoadFunc("length", 1, c.length)
}

func (c *_strings) upper(args []core.Value) (core.Value, *core.RuntimeError) {
	switch arg := args[0].(type) {
	case core.StringValue:
		return core.StringValue(strings.ToUpper(string(arg))), nil
	case core.CharValue:
		return core.CharValue(unicode.ToUpper(rune(arg))), nil
	default:
		return nil, unsupported("upper", arg)
	}
}

func (c *_strings) lower(args []core.Value) (core.Value, *core.RuntimeError) {
	switch arg := args[0].(type) {
	case core.StringValue:
		return core.StringValue(strings.ToLower(string(arg))), nil
	case core.CharValue:
		return core.CharValue(unicode.ToLower(rune(arg))), nil
	default:
		return nil, unsupported("lower", arg)
	}
}

// split returns an array of strings. An empty separator splits on runs of
// whitespace.
func (c *_strings) split(args []core.Value) (core.Value, *core.RuntimeError) {
	s, ok := args[0].(core.StringValue)
	if !ok {
		return nil, unsupported("split", args[0])
	}

	var sep string
	switch arg := args[1].(type) {
	case core.StringValue:
		sep = string(arg)
	case core.CharValue:
		sep = string(rune(arg))
	default:
		return nil, unsupported("split", arg)
	}

	var parts []string
	if sep == "" {
		parts = strings.Fields(string(s))
	} else {
		parts = strings.Split(string(s), sep)
	}

	items := make([]core.Value, len(parts))
	for i, part := range parts {
		items[i] = core.StringValue(part)
	}
	return &core.ArrayValue{Elem: core.StringType, Items: items}, nil
}

// length counts user-perceived characters for strings and elements for
// arrays.
func (c *_strings) length(args []core.Value) (core.Value, *core.RuntimeError) {
	switch arg := args[0].(type) {
	case core.StringValue:
		return core.IntValue(uniseg.GraphemeClusterCount(string(arg))), nil
	case core.CharValue:
		return core.IntValue(1), nil
	case *core.ArrayValue:
		return core.IntValue(len(arg.Items)), nil
	default:
		return nil, unsupported("length", arg)
	}
}
