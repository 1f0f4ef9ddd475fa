package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// OutputEvent is one value printed by an output statement.
type OutputEvent struct {
	Value Value
	Text  string
	Pos   Position
}

type Options struct {
	// Builtins resolves function calls. A nil Builtins knows no functions.
	Builtins Builtins
	// Output, when set, receives each output line as it is produced.
	Output io.Writer
	Logger *slog.Logger
}

// Interpreter walks statements against an Environment.
type Interpreter struct {
	builtins Builtins
	out      io.Writer
	logger   *slog.Logger

	events []OutputEvent
}

func NewInterpreter(opts Options) *Interpreter {
	builtins := opts.Builtins
	if builtins == nil {
		builtins = NewRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Interpreter{
		builtins: builtins,
		out:      opts.Output,
		logger:   logger,
	}
}

// Evaluate runs stmts in order. It stops at the first error and returns
// the output produced up to that point along with the error. ctx is
// checked before every statement and loop iteration.
func (in *Interpreter) Evaluate(ctx context.Context, stmts []Statement, env *Environment) ([]OutputEvent, error) {
	in.events = []OutputEvent{}
	err := in.execBlock(ctx, env, stmts)
	return in.events, err
}

func (in *Interpreter) execBlock(ctx context.Context, env *Environment, stmts []Statement) error {
	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := in.exec(ctx, env, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) exec(ctx context.Context, env *Environment, stmt Statement) error {
	in.logger.Debug("exec statement",
		slog.String("pos", stmt.Pos().String()),
		slog.String("stmt", fmt.Sprintf("%T", stmt)))

	switch s := stmt.(type) {
	case *VariableDeclaration:
		return in.execDeclaration(env, s)
	case *ArrayDeclaration:
		return in.execArrayDeclaration(env, s)
	case *Assignment:
		v, err := in.eval(env, s.Expr)
		if err != nil {
			return err
		}
		env.Set(s.Name, v)
		return nil
	case *ArrayAssignment:
		return in.execArrayAssignment(env, s)
	case *Output:
		v, err := in.eval(env, s.Expr)
		if err != nil {
			return err
		}
		in.emit(v, s.Pos())
		return nil
	case *If:
		return in.execIf(ctx, env, s)
	case *While:
		return in.execWhile(ctx, env, s)
	case *DoWhile:
		return in.execDoWhile(ctx, env, s)
	case *For:
		return in.execFor(ctx, env, s)
	case *ExpressionStatement:
		if call, ok := s.Expr.(*FunctionCall); ok {
			_, err := in.call(env, call)
			return err
		}
		_, err := in.eval(env, s.Expr)
		return err
	}

	panic(fmt.Sprintf("unreachable: unknown statement %T", stmt))
}

func (in *Interpreter) emit(v Value, pos Position) {
	text := v.String()
	in.events = append(in.events, OutputEvent{Value: v, Text: text, Pos: pos})
	if in.out != nil {
		fmt.Fprintln(in.out, text)
	}
}

func (in *Interpreter) execDeclaration(env *Environment, s *VariableDeclaration) error {
	if s.Expr == nil {
		env.Set(s.Name, zeroValue(s.Type))
		return nil
	}

	v, err := in.eval(env, s.Expr)
	if err != nil {
		return err
	}
	stored, ok := coerce(s.Type, v)
	if !ok {
		return newRuntimeError(TypeError, s.Pos(), "cannot declare %s %s with a %s value", s.Type, s.Name, v.Type())
	}
	env.Set(s.Name, stored)
	return nil
}

func (in *Interpreter) execArrayDeclaration(env *Environment, s *ArrayDeclaration) error {
	items := make([]Value, len(s.Elements))
	for i, elem := range s.Elements {
		v, err := in.eval(env, elem)
		if err != nil {
			return err
		}
		stored, ok := coerce(s.ElementType, v)
		if !ok {
			return newRuntimeError(TypeError, elem.Pos(), "array %s holds %s values, element %d is a %s", s.Name, s.ElementType, i, v.Type())
		}
		items[i] = stored
	}

	env.Set(s.Name, &ArrayValue{Elem: s.ElementType, Items: items})
	return nil
}

func (in *Interpreter) execArrayAssignment(env *Environment, s *ArrayAssignment) error {
	array, index, err := in.element(env, s.Name, s.Index, s.Pos())
	if err != nil {
		return err
	}

	v, err := in.eval(env, s.Value)
	if err != nil {
		return err
	}
	if s.Op != UNKNOWN {
		combined, rerr := binaryOp(s.Op, array.Items[index], v, s.Pos())
		if rerr != nil {
			return rerr
		}
		v = combined
	}
	stored, ok := coerce(array.Elem, v)
	if !ok {
		return newRuntimeError(TypeError, s.Pos(), "cannot store a %s in array %s of %s", v.Type(), s.Name, array.Elem)
	}
	array.Items[index] = stored
	return nil
}

// execIf runs at most one branch: the first whose condition holds, or the
// else block when none do.
func (in *Interpreter) execIf(ctx context.Context, env *Environment, s *If) error {
	cond, err := in.eval(env, s.Condition)
	if err != nil {
		return err
	}
	if cond.Truthy() {
		return in.execBlock(ctx, env, s.Then)
	}

	for _, elif := range s.Elifs {
		cond, err := in.eval(env, elif.Condition)
		if err != nil {
			return err
		}
		if cond.Truthy() {
			return in.execBlock(ctx, env, elif.Block)
		}
	}

	if s.Else != nil {
		return in.execBlock(ctx, env, s.Else)
	}
	return nil
}

func (in *Interpreter) execWhile(ctx context.Context, env *Environment, s *While) error {
	iterations := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		cond, err := in.eval(env, s.Condition)
		if err != nil {
			return err
		}
		if !cond.Truthy() {
			break
		}
		if err := in.execBlock(ctx, env, s.Body); err != nil {
			return err
		}
		iterations++
	}

	in.logger.Debug("loop finished", slog.String("kind", "while"), slog.Int("iterations", iterations))
	return nil
}

func (in *Interpreter) execDoWhile(ctx context.Context, env *Environment, s *DoWhile) error {
	iterations := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := in.execBlock(ctx, env, s.Body); err != nil {
			return err
		}
		iterations++

		cond, err := in.eval(env, s.Condition)
		if err != nil {
			return err
		}
		if !cond.Truthy() {
			break
		}
	}

	in.logger.Debug("loop finished", slog.String("kind", "do"), slog.Int("iterations", iterations))
	return nil
}

// execFor evaluates the end bound once, then repeatedly reads the loop
// variable, stops once it reaches the bound, runs the body and writes the
// variable back incremented by one.
func (in *Interpreter) execFor(ctx context.Context, env *Environment, s *For) error {
	endValue, err := in.eval(env, s.End)
	if err != nil {
		return err
	}
	if !isNumeric(endValue) {
		return newRuntimeError(TypeError, s.End.Pos(), "for loop bound must be a number, got %s", endValue.Type())
	}
	end := toFloat(endValue)

	iterations := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		i, err := in.counter(env, s)
		if err != nil {
			return err
		}
		if float64(i) >= end {
			break
		}

		if err := in.execBlock(ctx, env, s.Body); err != nil {
			return err
		}
		iterations++

		if i, err = in.counter(env, s); err != nil {
			return err
		}
		next, ok := intArith(PLUS, int64(i), 1)
		if !ok {
			return newRuntimeError(ArithmeticError, s.Pos(), "integer overflow advancing %s", s.Variable)
		}
		env.Set(s.Variable, IntValue(next))
	}

	in.logger.Debug("loop finished", slog.String("kind", "for"), slog.Int("iterations", iterations))
	return nil
}

func (in *Interpreter) counter(env *Environment, s *For) (IntValue, error) {
	v, ok := env.Get(s.Variable)
	if !ok {
		return 0, undefinedError(s.Pos(), s.Variable)
	}
	i, ok := v.(IntValue)
	if !ok {
		return 0, newRuntimeError(TypeError, s.Pos(), "for loop variable %s must be an integer, got %s", s.Variable, v.Type())
	}
	return i, nil
}

// eval evaluates an expression that must produce a value.
func (in *Interpreter) eval(env *Environment, expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *NumberLiteral:
		return IntValue(e.Value), nil
	case *DoubleLiteral:
		return FloatValue(e.Value), nil
	case *StringLiteral:
		return StringValue(e.Value), nil
	case *CharacterLiteral:
		return CharValue(e.Value), nil
	case *VariableAccess:
		v, ok := env.Get(e.Name)
		if !ok {
			return nil, undefinedError(e.Pos(), e.Name)
		}
		return v, nil
	case *ArrayAccess:
		array, index, err := in.element(env, e.Name, e.Index, e.Pos())
		if err != nil {
			return nil, err
		}
		return array.Items[index], nil
	case *Increment:
		return in.step(env, e.Target, 1, e.Pos())
	case *Decrement:
		return in.step(env, e.Target, -1, e.Pos())
	case *BinaryOp:
		left, err := in.eval(env, e.Left)
		if err != nil {
			return nil, err
		}
		right, err := in.eval(env, e.Right)
		if err != nil {
			return nil, err
		}
		v, rerr := binaryOp(e.Op, left, right, e.Pos())
		if rerr != nil {
			return nil, rerr
		}
		return v, nil
	case *FunctionCall:
		v, err := in.call(env, e)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, newRuntimeError(TypeError, e.Pos(), "%s returned no value", e.Name)
		}
		return v, nil
	}

	panic(fmt.Sprintf("unreachable: unknown expression %T", expr))
}

// element resolves name[index] to an array and an in-bounds index.
func (in *Interpreter) element(env *Environment, name string, indexExpr Expr, pos Position) (*ArrayValue, int, error) {
	v, ok := env.Get(name)
	if !ok {
		return nil, 0, undefinedError(pos, name)
	}
	array, ok := v.(*ArrayValue)
	if !ok {
		return nil, 0, newRuntimeError(TypeError, pos, "%s is a %s, not an array", name, v.Type())
	}

	idx, err := in.eval(env, indexExpr)
	if err != nil {
		return nil, 0, err
	}
	i, ok := idx.(IntValue)
	if !ok {
		return nil, 0, newRuntimeError(TypeError, indexExpr.Pos(), "array index must be an integer, got %s", idx.Type())
	}
	if i < 0 || int64(i) >= int64(len(array.Items)) {
		return nil, 0, indexError(pos, name, int64(i), len(array.Items))
	}

	return array, int(i), nil
}

// step adds delta to a variable or array element and returns the value it
// held before.
func (in *Interpreter) step(env *Environment, target Expr, delta int64, pos Position) (Value, error) {
	var old Value
	var store func(Value)

	switch t := target.(type) {
	case *VariableAccess:
		v, ok := env.Get(t.Name)
		if !ok {
			return nil, undefinedError(t.Pos(), t.Name)
		}
		old = v
		store = func(v Value) { env.Set(t.Name, v) }
	case *ArrayAccess:
		array, index, err := in.element(env, t.Name, t.Index, t.Pos())
		if err != nil {
			return nil, err
		}
		old = array.Items[index]
		store = func(v Value) { array.Items[index] = v }
	default:
		return nil, newRuntimeError(TypeError, pos, "cannot increment %s", target)
	}

	switch v := old.(type) {
	case IntValue:
		n, ok := intArith(PLUS, int64(v), delta)
		if !ok {
			return nil, newRuntimeError(ArithmeticError, pos, "integer overflow stepping %s", target)
		}
		store(IntValue(n))
	case FloatValue:
		store(v + FloatValue(delta))
	default:
		return nil, newRuntimeError(TypeError, pos, "cannot increment a %s", old.Type())
	}
	return old, nil
}

// call evaluates the arguments left to right, then resolves and invokes
// the builtin. The result may be nil for functions run only for their effects.
func (in *Interpreter) call(env *Environment, e *FunctionCall) (Value, error) {
	args := make([]Value, len(e.Args))
	for i, arg := range e.Args {
		v, err := in.eval(env, arg)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := in.builtins.Lookup(e.Name)
	if !ok {
		return nil, newRuntimeError(NameError, e.Pos(), "undefined function %s", e.Name)
	}

	if fn.Arity >= 0 {
		if err := RequireArgLen(fn.Name, args, fn.Arity); err != nil {
			err.Pos = e.Pos()
			return nil, err
		}
	}

	in.logger.Debug("call builtin", slog.String("name", fn.Name), slog.Int("args", len(args)))

	v, err := fn.Fn(args)
	if err != nil {
		if err.Pos.Line == 0 {
			err.Pos = e.Pos()
		}
		return nil, err
	}
	return v, nil
}
