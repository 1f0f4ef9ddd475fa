package core

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Environment is the single flat namespace of one program run. It is not
// safe for concurrent use; give every run its own.
type Environment struct {
	vars map[string]Value
}

func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]Value)}
}

func (e *Environment) Get(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

func (e *Environment) Set(name string, v Value) {
	e.vars[name] = v
}

// Names returns the bound names in sorted order.
func (e *Environment) Names() []string {
	names := maps.Keys(e.vars)
	slices.Sort(names)
	return names
}

type BuiltinFn func([]Value) (Value, *RuntimeError)

// Builtin is a host function callable from programs. Arity is the exact
// argument count, or -1 for any count.
type Builtin struct {
	Name  string
	Arity int
	Fn    BuiltinFn
}

func (b Builtin) String() string {
	return fmt.Sprintf("%s/%d <native fn>", b.Name, b.Arity)
}

// Builtins resolves function call names.
type Builtins interface {
	Lookup(name string) (Builtin, bool)
}

type Registry struct {
	builtins map[string]Builtin
}

func NewRegistry() *Registry {
	return &Registry{builtins: make(map[string]Builtin)}
}

func (r *Registry) LoadFunc(name string, arity int, fn BuiltinFn) {
	r.builtins[name] = Builtin{
		Name:  name,
		Arity: arity,
		Fn:    fn,
	}
}

func (r *Registry) Lookup(name string) (Builtin, bool) {
	b, ok := r.builtins[name]
	return b, ok
}

func (r *Registry) Names() []string {
	names := maps.Keys(r.builtins)
	slices.Sort(names)
	return names
}

// RequireArgLen reports a TypeError unless args has exactly count items.
func RequireArgLen(fnName string, args []Value, count int) *RuntimeError {
	if len(args) != count {
		return &RuntimeError{
			Kind:   TypeError,
			Reason: fmt.Sprintf("%s requires %d arguments, got %d", fnName, count, len(args)),
		}
	}

	return nil
}
