package core

import (
	"math"
	"strconv"
	"strings"
)

type ValueType int

const (
	IntegerType ValueType = iota
	DoubleType
	StringType
	CharacterType
	BooleanType
	ArrayType
)

func (t ValueType) String() string {
	switch t {
	case IntegerType:
		return "integer"
	case DoubleType:
		return "double"
	case StringType:
		return "string"
	case CharacterType:
		return "character"
	case BooleanType:
		return "boolean"
	case ArrayType:
		return "array"
	default:
		return "unknown"
	}
}

// typeOfKeyword maps a declaration keyword to the type it declares.
func typeOfKeyword(kind TokenKind) ValueType {
	switch kind {
	case TYPE_STRING:
		return StringType
	case TYPE_DOUBLE:
		return DoubleType
	case TYPE_CHARACTER:
		return CharacterType
	default:
		return IntegerType
	}
}

// Value is a runtime value. String renders it the way an output
// statement prints it.
type Value interface {
	String() string
	Type() ValueType
	Eq(v Value) bool
	Truthy() bool
}

type IntValue int64

func (v IntValue) String() string {
	return strconv.FormatInt(int64(v), 10)
}

func (v IntValue) Type() ValueType { return IntegerType }

func (v IntValue) Eq(u Value) bool {
	if w, ok := u.(IntValue); ok {
		return v == w
	} else if w, ok := u.(FloatValue); ok {
		return FloatValue(v) == w
	}

	return false
}

func (v IntValue) Truthy() bool {
	return v != 0
}

type FloatValue float64

func (v FloatValue) String() string {
	f := float64(v)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (v FloatValue) Type() ValueType { return DoubleType }

func (v FloatValue) Eq(u Value) bool {
	if w, ok := u.(FloatValue); ok {
		return v == w
	} else if w, ok := u.(IntValue); ok {
		return v == FloatValue(w)
	}

	return false
}

func (v FloatValue) Truthy() bool {
	return v != 0
}

type StringValue string

func (v StringValue) String() string {
	return string(v)
}

func (v StringValue) Type() ValueType { return StringType }

// Eq compares text, so a one-character string equals that character.
func (v StringValue) Eq(u Value) bool {
	switch w := u.(type) {
	case StringValue:
		return v == w
	case CharValue:
		return string(v) == w.String()
	}
	return false
}

func (v StringValue) Truthy() bool {
	return len(v) > 0
}

type CharValue rune

func (v CharValue) String() string {
	return string(rune(v))
}

func (v CharValue) Type() ValueType { return CharacterType }

func (v CharValue) Eq(u Value) bool {
	switch w := u.(type) {
	case CharValue:
		return v == w
	case StringValue:
		return w.Eq(v)
	}
	return false
}

func (v CharValue) Truthy() bool {
	return v != 0
}

type BoolValue bool

func (v BoolValue) String() string {
	if v {
		return "true"
	}
	return "false"
}

func (v BoolValue) Type() ValueType { return BooleanType }

func (v BoolValue) Eq(u Value) bool {
	if w, ok := u.(BoolValue); ok {
		return v == w
	}
	return false
}

func (v BoolValue) Truthy() bool {
	return bool(v)
}

// ArrayValue is shared by reference: element assignment through any name
// bound to it is visible through every other.
type ArrayValue struct {
	Elem  ValueType
	Items []Value
}

func (v *ArrayValue) String() string {
	items := make([]string, len(v.Items))
	for i, item := range v.Items {
		items[i] = item.String()
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func (v *ArrayValue) Type() ValueType { return ArrayType }

func (v *ArrayValue) Eq(u Value) bool {
	w, ok := u.(*ArrayValue)
	if !ok || len(v.Items) != len(w.Items) {
		return false
	}
	for i := range v.Items {
		if !v.Items[i].Eq(w.Items[i]) {
			return false
		}
	}
	return true
}

func (v *ArrayValue) Truthy() bool {
	return len(v.Items) > 0
}

func zeroValue(t ValueType) Value {
	switch t {
	case DoubleType:
		return FloatValue(0)
	case StringType:
		return StringValue("")
	case CharacterType:
		return CharValue(0)
	default:
		return IntValue(0)
	}
}

// coerce converts v for storage in a slot declared as t. Integers widen to
// doubles and characters to strings; everything else must already match.
func coerce(t ValueType, v Value) (Value, bool) {
	switch t {
	case DoubleType:
		switch v := v.(type) {
		case FloatValue:
			return v, true
		case IntValue:
			return FloatValue(v), true
		}
	case StringType:
		switch v := v.(type) {
		case StringValue:
			return v, true
		case CharValue:
			return StringValue(string(rune(v))), true
		}
	default:
		if v.Type() == t {
			return v, true
		}
	}
	return nil, false
}
