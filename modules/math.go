package modules

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/quetzal-lang/quetzal/core"
)

type _math struct{}

func loadMath(reg *core.Registry) {
	c := &_math{}

	reg.LoadFunc("factorial", 1, c.factorial)
	reg.LoadFunc("pow", 2, c.pow)
	reg.LoadFunc("sqrt", 1, c.sqrt)
}

// 20! is the largest factorial that fits in an int64.
const maxFactorial = 20

func (c *_math) factorial(args []core.Value) (core.Value, *core.RuntimeError) {
	n, ok := args[0].(core.IntValue)
	if !ok {
		return nil, unsupported("factorial", args[0])
	}
	if n < 0 {
		return nil, &core.RuntimeError{
			Kind:   core.ArithmeticError,
			Reason: "factorial is not defined for negative values",
		}
	}
	if n > maxFactorial {
		return nil, &core.RuntimeError{
			Kind:   core.ArithmeticError,
			Reason: fmt.Sprintf("factorial(%d) overflows an integer", n),
		}
	}

	result := core.IntValue(1)
	for i := core.IntValue(2); i <= n; i++ {
		result *= i
	}
	return result, nil
}

// pow stays in integers when both operands are integers and the exponent
// is not negative.
func (c *_math) pow(args []core.Value) (core.Value, *core.RuntimeError) {
	base, ok := number(args[0])
	if !ok {
		return nil, unsupported("pow", args[0])
	}
	exp, ok := number(args[1])
	if !ok {
		return nil, unsupported("pow", args[1])
	}

	b, bok := args[0].(core.IntValue)
	e, eok := args[1].(core.IntValue)
	if bok && eok && e >= 0 {
		result, ok := intPow(int64(b), uint64(e))
		if !ok {
			return nil, &core.RuntimeError{
				Kind:   core.ArithmeticError,
				Reason: fmt.Sprintf("pow(%d, %d) overflows an integer", b, e),
			}
		}
		return core.IntValue(result), nil
	}

	return core.FloatValue(math.Pow(base, exp)), nil
}

// intPow raises base to exp by repeated squaring. ok is false when the
// result does not fit in an int64.
func intPow(base int64, exp uint64) (int64, bool) {
	negative := base < 0 && exp&1 == 1
	b := uint64(base)
	if base < 0 {
		b = -b
	}

	result := uint64(1)
	for exp > 0 {
		if exp&1 == 1 {
			hi, lo := bits.Mul64(result, b)
			if hi != 0 {
				return 0, false
			}
			result = lo
		}
		exp >>= 1
		if exp > 0 {
			hi, lo := bits.Mul64(b, b)
			if hi != 0 {
				return 0, false
			}
			b = lo
		}
	}

	if negative {
		if result > 1<<63 {
			return 0, false
		}
		return int64(-result), true
	}
	if result > math.MaxInt64 {
		return 0, false
	}
	return int64(result), true
}

func (c *_math) sqrt(args []core.Value) (core.Value, *core.RuntimeError) {
	x, ok := number(args[0])
	if !ok {
		return nil, unsupported("sqrt", args[0])
	}
	if x < 0 {
		return nil, &core.RuntimeError{
			Kind:   core.ArithmeticError,
			Reason: fmt.Sprintf("sqrt of negative value %s", args[0]),
		}
	}
	return core.FloatValue(math.Sqrt(x)), nil
}

func number(v core.Value) (float64, bool) {
	switch v := v.(type) {
	case core.IntValue:
		return float64(v), true
	case core.FloatValue:
		return float64(v), true
	}
	return 0, false
}

func unsupported(fnName string, arg core.Value) *core.RuntimeError {
	return &core.RuntimeError{
		Kind:   core.TypeError,
		Reason: fmt.Sprintf("%s does not support type %s", fnName, arg.Type()),
	}
}
