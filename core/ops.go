package core

import (
	"math"
	"strings"
)

func isNumeric(v Value) bool {
	switch v.(type) {
	case IntValue, FloatValue:
		return true
	}
	return false
}

func isText(v Value) bool {
	switch v.(type) {
	case StringValue, CharValue:
		return true
	}
	return false
}

func toFloat(v Value) float64 {
	switch v := v.(type) {
	case IntValue:
		return float64(v)
	case FloatValue:
		return float64(v)
	}
	return 0
}

func operandError(op TokenKind, left, right Value, pos Position) *RuntimeError {
	return newRuntimeError(TypeError, pos,
		"unsupported operand types for %s: %s and %s", operators[op], left.Type(), right.Type())
}

// binaryOp applies op to two evaluated operands.
func binaryOp(op TokenKind, left, right Value, pos Position) (Value, *RuntimeError) {
	switch op {
	case PLUS:
		if isText(left) && isText(right) {
			return StringValue(left.String() + right.String()), nil
		}
		return arithmetic(op, left, right, pos)
	case MINUS, MULTIPLY:
		return arithmetic(op, left, right, pos)
	case DIVIDE:
		if !isNumeric(left) || !isNumeric(right) {
			return nil, operandError(op, left, right, pos)
		}
		divisor := toFloat(right)
		if divisor == 0 {
			return nil, newRuntimeError(ArithmeticError, pos, "division by zero")
		}
		return FloatValue(toFloat(left) / divisor), nil
	case EQUAL:
		return BoolValue(left.Eq(right)), nil
	case NOT_EQUAL:
		return BoolValue(!left.Eq(right)), nil
	case LESS, GREATER, LESS_EQUAL, GREATER_EQUAL:
		cmp, err := compare(op, left, right, pos)
		if err != nil {
			return nil, err
		}
		switch op {
		case LESS:
			return BoolValue(cmp < 0), nil
		case GREATER:
			return BoolValue(cmp > 0), nil
		case LESS_EQUAL:
			return BoolValue(cmp <= 0), nil
		default:
			return BoolValue(cmp >= 0), nil
		}
	case AND:
		return BoolValue(left.Truthy() && right.Truthy()), nil
	case OR:
		return BoolValue(left.Truthy() || right.Truthy()), nil
	}

	return nil, newRuntimeError(TypeError, pos, "unsupported operator %s", op)
}

// arithmetic keeps integer results for integer operands and otherwise
// works in doubles.
func arithmetic(op TokenKind, left, right Value, pos Position) (Value, *RuntimeError) {
	if !isNumeric(left) || !isNumeric(right) {
		return nil, operandError(op, left, right, pos)
	}

	l, lok := left.(IntValue)
	r, rok := right.(IntValue)
	if lok && rok {
		n, ok := intArith(op, int64(l), int64(r))
		if !ok {
			return nil, newRuntimeError(ArithmeticError, pos, "integer overflow in %d %s %d", l, operators[op], r)
		}
		return IntValue(n), nil
	}

	a, b := toFloat(left), toFloat(right)
	switch op {
	case PLUS:
		return FloatValue(a + b), nil
	case MINUS:
		return FloatValue(a - b), nil
	default:
		return FloatValue(a * b), nil
	}
}

// intArith applies PLUS, MINUS or MULTIPLY. ok is false when the result
// does not fit in an int64.
func intArith(op TokenKind, a, b int64) (int64, bool) {
	switch op {
	case PLUS:
		r := a + b
		return r, (r > a) == (b > 0)
	case MINUS:
		r := a - b
		return r, (r < a) == (b > 0)
	}

	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	r := a * b
	return r, r/b == a
}

func compare(op TokenKind, left, right Value, pos Position) (int, *RuntimeError) {
	switch {
	case isNumeric(left) && isNumeric(right):
		l, lok := left.(IntValue)
		r, rok := right.(IntValue)
		if lok && rok {
			switch {
			case l < r:
				return -1, nil
			case l > r:
				return 1, nil
			}
			return 0, nil
		}
		a, b := toFloat(left), toFloat(right)
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		}
		return 0, nil
	case isText(left) && isText(right):
		return strings.Compare(left.String(), right.String()), nil
	}

	return 0, operandError(op, left, right, pos)
}
