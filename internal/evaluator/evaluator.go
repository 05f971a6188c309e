package evaluator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"lox/internal/ast"
	"lox/internal/object"
	"lox/internal/token"
)

var (
	NIL   = object.NIL
	TRUE  = object.TRUE
	FALSE = object.FALSE
)

// DefaultMaxCallDepth bounds Lox call recursion so runaway recursion is a
// runtime error rather than a Go stack overflow.
const DefaultMaxCallDepth = 2048

type Evaluator struct {
	globals *object.Environment
	env     *object.Environment
	locals  map[token.Key]int
	out     io.Writer

	MaxCallDepth int
	depth        int
}

// New returns an evaluator that prints to out. The global scope holds the
// native functions.
func New(out io.Writer) *Evaluator {
	globals := object.NewEnvironment()
	for name, fn := range builtins {
		globals.Define(name, fn)
	}
	return &Evaluator{
		globals:      globals,
		env:          globals,
		locals:       make(map[token.Key]int),
		out:          out,
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

// Resolve records that the reference name was declared depth scopes out
// from where it is used.
func (e *Evaluator) Resolve(name token.Token, depth int) {
	e.locals[name.Key()] = depth
}

func (e *Evaluator) Globals() *object.Environment {
	return e.globals
}

// Interpret executes stmts in order and stops at the first runtime error,
// which it returns.
func (e *Evaluator) Interpret(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := e.Execute(stmt); err != nil {
			var ret *object.Return
			if errors.As(err, &ret) {
				// the resolver rejects top-level return, so this is a bug
				slog.Error("return escaped to top level", slog.String("value", ret.Value.Inspect()))
				return &object.RuntimeError{Message: "Can't return from top-level code."}
			}
			return err
		}
	}
	return nil
}

func (e *Evaluator) Execute(stmt ast.Stmt) error {
	switch node := stmt.(type) {
	case *ast.Block:
		return e.ExecuteBlock(node.Statements, object.NewEnclosedEnvironment(e.env))

	case *ast.Class:
		return e.evalClassStatement(node)

	case *ast.Expression:
		_, err := e.Eval(node.Expression)
		return err

	case *ast.Function:
		e.env.Define(node.Name.Lexeme, object.NewFunction(node, e.env, false))
		return nil

	case *ast.If:
		cond, err := e.Eval(node.Condition)
		if err != nil {
			return err
		}
		if object.IsTruthy(cond) {
			return e.Execute(node.ThenBranch)
		}
		if node.ElseBranch != nil {
			return e.Execute(node.ElseBranch)
		}
		return nil

	case *ast.Print:
		val, err := e.Eval(node.Expression)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.out, val.Inspect())
		return nil

	case *ast.Return:
		var val object.Object = NIL
		if node.Value != nil {
			var err error
			if val, err = e.Eval(node.Value); err != nil {
				return err
			}
		}
		return &object.Return{Value: val}

	case *ast.Var:
		var val object.Object = NIL
		if node.Initializer != nil {
			var err error
			if val, err = e.Eval(node.Initializer); err != nil {
				return err
			}
		}
		e.env.Define(node.Name.Lexeme, val)
		return nil

	case *ast.While:
		for {
			cond, err := e.Eval(node.Condition)
			if err != nil {
				return err
			}
			if !object.IsTruthy(cond) {
				return nil
			}
			if err := e.Execute(node.Body); err != nil {
				return err
			}
		}
	}

	slog.Error("evaluator has no case for statement", slog.String("type", fmt.Sprintf("%T", stmt)))
	return fmt.Errorf("unknown statement %T", stmt)
}

// ExecuteBlock runs stmts with env as the current scope. The previous scope
// is restored however the block exits.
func (e *Evaluator) ExecuteBlock(stmts []ast.Stmt, env *object.Environment) error {
	previous := e.env
	e.env = env
	defer func() { e.env = previous }()

	for _, stmt := range stmts {
		if err := e.Execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) evalClassStatement(node *ast.Class) error {
	var superclass *object.Class
	if node.Superclass != nil {
		val, err := e.Eval(node.Superclass)
		if err != nil {
			return err
		}
		class, ok := val.(*object.Class)
		if !ok {
			return object.NewRuntimeError(node.Superclass.Name, "Superclass must be a class.")
		}
		superclass = class
	}

	e.env.Define(node.Name.Lexeme, NIL)

	// methods of a subclass close over a scope holding super
	closure := e.env
	if superclass != nil {
		closure = object.NewEnclosedEnvironment(e.env)
		closure.Define("super", superclass)
	}

	methods := make(map[string]*object.Function, len(node.Methods))
	for _, m := range node.Methods {
		methods[m.Name.Lexeme] = object.NewFunction(m, closure, m.Name.Lexeme == "init")
	}

	class := object.NewClass(node.Name.Lexeme, superclass, methods)
	slog.Debug("class declared",
		slog.String("name", class.Name),
		slog.Int("methods", len(methods)))

	e.env.Assign(node.Name.Lexeme, class)
	return nil
}

func (e *Evaluator) Eval(expr ast.Expr) (object.Object, error) {
	switch node := expr.(type) {
	case *ast.Assign:
		val, err := e.Eval(node.Value)
		if err != nil {
			return nil, err
		}
		if err := e.assignVariable(node.Name, val); err != nil {
			return nil, err
		}
		return val, nil

	case *ast.Binary:
		left, err := e.Eval(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.Eval(node.Right)
		if err != nil {
			return nil, err
		}
		return e.evalInfixExpression(node.Operator, left, right)

	case *ast.Call:
		return e.evalCallExpression(node)

	case *ast.Get:
		obj, err := e.Eval(node.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*object.Instance)
		if !ok {
			return nil, object.NewRuntimeError(node.Name, "Only instances have properties.")
		}
		return instance.Get(node.Name)

	case *ast.Grouping:
		return e.Eval(node.Expression)

	case *ast.Literal:
		return object.FromLiteral(node.Value), nil

	case *ast.Logical:
		left, err := e.Eval(node.Left)
		if err != nil {
			return nil, err
		}
		if node.Operator.Type == token.OR {
			if object.IsTruthy(left) {
				return left, nil
			}
		} else if !object.IsTruthy(left) {
			return left, nil
		}
		return e.Eval(node.Right)

	case *ast.Set:
		obj, err := e.Eval(node.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*object.Instance)
		if !ok {
			return nil, object.NewRuntimeError(node.Name, "Only instances have fields.")
		}
		val, err := e.Eval(node.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(node.Name, val)
		return val, nil

	case *ast.Super:
		return e.evalSuperExpression(node)

	case *ast.This:
		return e.lookUpVariable(node.Keyword)

	case *ast.Unary:
		right, err := e.Eval(node.Right)
		if err != nil {
			return nil, err
		}
		return e.evalPrefixExpression(node.Operator, right)

	case *ast.Variable:
		return e.lookUpVariable(node.Name)
	}

	slog.Error("evaluator has no case for expression", slog.String("type", fmt.Sprintf("%T", expr)))
	return nil, fmt.Errorf("unknown expression %T", expr)
}

func (e *Evaluator) evalPrefixExpression(operator token.Token, right object.Object) (object.Object, error) {
	switch operator.Type {
	case token.BANG:
		return object.NativeBoolToBooleanObject(!object.IsTruthy(right)), nil
	case token.MINUS:
		n, ok := right.(*object.Number)
		if !ok {
			return nil, object.NewRuntimeError(operator, "Operand must be a number.")
		}
		return &object.Number{Value: -n.Value}, nil
	}
	return nil, object.NewRuntimeError(operator, "Unknown operator.")
}

func (e *Evaluator) evalInfixExpression(operator token.Token, left, right object.Object) (object.Object, error) {
	switch operator.Type {
	case token.EQUAL_EQUAL:
		return object.NativeBoolToBooleanObject(object.Equals(left, right)), nil
	case token.BANG_EQUAL:
		return object.NativeBoolToBooleanObject(!object.Equals(left, right)), nil
	case token.PLUS:
		return e.evalPlusExpression(operator, left, right)
	}

	l, lok := left.(*object.Number)
	r, rok := right.(*object.Number)
	if !lok || !rok {
		return nil, object.NewRuntimeError(operator, "Operands must be numbers.")
	}

	switch operator.Type {
	case token.MINUS:
		return &object.Number{Value: l.Value - r.Value}, nil
	case token.STAR:
		return &object.Number{Value: l.Value * r.Value}, nil
	case token.SLASH:
		return &object.Number{Value: l.Value / r.Value}, nil
	case token.GREATER:
		return object.NativeBoolToBooleanObject(l.Value > r.Value), nil
	case token.GREATER_EQUAL:
		return object.NativeBoolToBooleanObject(l.Value >= r.Value), nil
	case token.LESS:
		return object.NativeBoolToBooleanObject(l.Value < r.Value), nil
	case token.LESS_EQUAL:
		return object.NativeBoolToBooleanObject(l.Value <= r.Value), nil
	}
	return nil, object.NewRuntimeError(operator, "Unknown operator.")
}

func (e *Evaluator) evalPlusExpression(operator token.Token, left, right object.Object) (object.Object, error) {
	switch l := left.(type) {
	case *object.Number:
		if r, ok := right.(*object.Number); ok {
			return &object.Number{Value: l.Value + r.Value}, nil
		}
	case *object.String:
		if r, ok := right.(*object.String); ok {
			return &object.String{Value: l.Value + r.Value}, nil
		}
	}
	return nil, object.NewRuntimeError(operator, "Operands must be two numbers or two strings.")
}

func (e *Evaluator) evalCallExpression(node *ast.Call) (object.Object, error) {
	callee, err := e.Eval(node.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]object.Object, 0, len(node.Arguments))
	for _, a := range node.Arguments {
		arg, err := e.Eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	fn, ok := callee.(object.Callable)
	if !ok {
		return nil, object.NewRuntimeError(node.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, object.NewRuntimeError(node.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	if e.depth >= e.MaxCallDepth {
		return nil, object.NewRuntimeError(node.Paren, "Stack overflow.")
	}
	e.depth++
	defer func() { e.depth-- }()

	return fn.Call(e, args)
}

func (e *Evaluator) evalSuperExpression(node *ast.Super) (object.Object, error) {
	distance, ok := e.locals[node.Keyword.Key()]
	if !ok {
		return nil, object.NewRuntimeError(node.Keyword, "Can't use 'super' outside of a class.")
	}

	val, _ := e.env.GetAt(distance, "super")
	superclass, ok := val.(*object.Class)
	if !ok {
		return nil, object.NewRuntimeError(node.Keyword, "Superclass must be a class.")
	}

	// this is bound in the scope just inside the one holding super
	this, _ := e.env.GetAt(distance-1, "this")
	instance, ok := this.(*object.Instance)
	if !ok {
		return nil, object.NewRuntimeError(node.Keyword, "Can't use 'super' outside of a method.")
	}

	method, ok := superclass.FindMethod(node.Method.Lexeme)
	if !ok {
		return nil, object.NewRuntimeError(node.Method, "Undefined property '%s'.", node.Method.Lexeme)
	}
	return method.Bind(instance), nil
}

// lookUpVariable reads a resolved reference from its exact scope and an
// unresolved one from the globals only.
func (e *Evaluator) lookUpVariable(name token.Token) (object.Object, error) {
	var val object.Object
	var ok bool
	if distance, resolved := e.locals[name.Key()]; resolved {
		val, ok = e.env.GetAt(distance, name.Lexeme)
	} else {
		val, ok = e.globals.Get(name.Lexeme)
	}
	if !ok {
		return nil, object.NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
	}
	return val, nil
}

func (e *Evaluator) assignVariable(name token.Token, val object.Object) error {
	var ok bool
	if distance, resolved := e.locals[name.Key()]; resolved {
		ok = e.env.AssignAt(distance, name.Lexeme, val)
	} else {
		ok = e.globals.Assign(name.Lexeme, val)
	}
	if !ok {
		return object.NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
	}
	return nil
}
