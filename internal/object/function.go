package object

import (
	"errors"

	"lox/internal/ast"
)

// Executor runs a function body in a prepared environment. The evaluator
// implements it; it is passed to Call so this package does not depend on
// the evaluator.
type Executor interface {
	ExecuteBlock(stmts []ast.Stmt, env *Environment) error
}

// Callable is anything a call expression can invoke. Callers check the
// argument count against Arity before calling.
type Callable interface {
	Object
	Arity() int
	Call(ex Executor, args []Object) (Object, error)
}

type NativeFunction func(args []Object) (Object, error)

type Native struct {
	Name   string
	ArityN int
	Fn     NativeFunction
}

func (n *Native) Type() ObjectType { return NATIVE_OBJ }
func (n *Native) Inspect() string  { return "<native func>" }
func (n *Native) Arity() int       { return n.ArityN }

func (n *Native) Call(_ Executor, args []Object) (Object, error) {
	return n.Fn(args)
}

// Function is a user defined function or method together with the
// environment it was declared in.
type Function struct {
	Declaration   *ast.Function
	Closure       *Environment
	IsInitializer bool
}

func NewFunction(decl *ast.Function, closure *Environment, isInitializer bool) *Function {
	return &Function{Declaration: decl, Closure: closure, IsInitializer: isInitializer}
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "<fn " + f.Declaration.Name.Lexeme + ">" }
func (f *Function) Arity() int       { return len(f.Declaration.Params) }

func (f *Function) Call(ex Executor, args []Object) (Object, error) {
	env := NewEnclosedEnvironment(f.Closure)
	for i, param := range f.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	var ret *Return
	if err := ex.ExecuteBlock(f.Declaration.Body, env); err != nil && !errors.As(err, &ret) {
		return nil, err
	}

	if f.IsInitializer {
		return f.this(), nil
	}
	if ret != nil {
		return ret.Value, nil
	}
	return NIL, nil
}

// Bind returns a copy of f whose closure defines this as instance. The
// original function is left untouched.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnclosedEnvironment(f.Closure)
	env.Define("this", instance)
	return NewFunction(f.Declaration, env, f.IsInitializer)
}

func (f *Function) this() Object {
	if this, ok := f.Closure.GetAt(0, "this"); ok {
		return this
	}
	return NIL
}
