// Package resolver performs the static scope pass that runs between parsing
// and evaluation. For every local variable reference it reports how many
// scopes separate the reference from its declaration; names it cannot find
// are left for the evaluator to look up in the globals.
package resolver

import (
	"log/slog"

	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/token"
)

// Binder records the scope distance of a resolved reference.
type Binder interface {
	Resolve(name token.Token, depth int)
}

type FunctionType int

const (
	FunctionNone FunctionType = iota
	FunctionPlain
	FunctionMethod
	FunctionInitializer
)

type ClassType int

const (
	ClassNone ClassType = iota
	ClassPlain
	ClassSubclass
)

// scope maps a name to whether its initializer has finished.
type scope map[string]bool

type Resolver struct {
	binder          Binder
	reporter        diag.Reporter
	scopes          []scope
	currentFunction FunctionType
	currentClass    ClassType
}

func New(binder Binder, reporter diag.Reporter) *Resolver {
	return &Resolver{binder: binder, reporter: reporter}
}

// Resolve walks every statement. Errors are reported as they are found and
// do not stop the pass.
func (r *Resolver) Resolve(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch node := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.Resolve(node.Statements)
		r.endScope()

	case *ast.Class:
		r.resolveClass(node)

	case *ast.Expression:
		r.resolveExpr(node.Expression)

	case *ast.Function:
		r.declare(node.Name)
		r.define(node.Name)
		r.resolveFunction(node, FunctionPlain)

	case *ast.If:
		r.resolveExpr(node.Condition)
		r.resolveStmt(node.ThenBranch)
		if node.ElseBranch != nil {
			r.resolveStmt(node.ElseBranch)
		}

	case *ast.Print:
		r.resolveExpr(node.Expression)

	case *ast.Return:
		if r.currentFunction == FunctionNone {
			r.reporter.ErrorAt(node.Keyword, "Can't return from top-level code.")
		}
		if node.Value != nil {
			if r.currentFunction == FunctionInitializer {
				r.reporter.ErrorAt(node.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(node.Value)
		}

	case *ast.Var:
		r.declare(node.Name)
		if node.Initializer != nil {
			r.resolveExpr(node.Initializer)
		}
		r.define(node.Name)

	case *ast.While:
		r.resolveExpr(node.Condition)
		r.resolveStmt(node.Body)

	default:
		slog.Warn("resolver: unhandled statement", slog.Any("node", stmt))
	}
}

func (r *Resolver) resolveClass(node *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = ClassPlain
	defer func() { r.currentClass = enclosingClass }()

	r.declare(node.Name)
	r.define(node.Name)

	if node.Superclass != nil {
		if node.Superclass.Name.Lexeme == node.Name.Lexeme {
			r.reporter.ErrorAt(node.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = ClassSubclass
		r.resolveExpr(node.Superclass)

		r.beginScope()
		r.peek()["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.peek()["this"] = true

	for _, method := range node.Methods {
		kind := FunctionMethod
		if method.Name.Lexeme == "init" {
			kind = FunctionInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind FunctionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosingFunction }()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.Resolve(fn.Body)
	r.endScope()
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch node := expr.(type) {
	case *ast.Assign:
		r.resolveExpr(node.Value)
		r.resolveLocal(node.Name)

	case *ast.Binary:
		r.resolveExpr(node.Left)
		r.resolveExpr(node.Right)

	case *ast.Call:
		r.resolveExpr(node.Callee)
		for _, arg := range node.Arguments {
			r.resolveExpr(arg)
		}

	case *ast.Get:
		r.resolveExpr(node.Object)

	case *ast.Grouping:
		r.resolveExpr(node.Expression)

	case *ast.Literal:

	case *ast.Logical:
		r.resolveExpr(node.Left)
		r.resolveExpr(node.Right)

	case *ast.Set:
		r.resolveExpr(node.Value)
		r.resolveExpr(node.Object)

	case *ast.Super:
		switch r.currentClass {
		case ClassNone:
			r.reporter.ErrorAt(node.Keyword, "Can't use 'super' outside of a class.")
		case ClassPlain:
			r.reporter.ErrorAt(node.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(node.Keyword)

	case *ast.This:
		if r.currentClass == ClassNone {
			r.reporter.ErrorAt(node.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(node.Keyword)

	case *ast.Unary:
		r.resolveExpr(node.Right)

	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.peek()[node.Name.Lexeme]; declared && !defined {
				r.reporter.ErrorAt(node.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(node.Name)

	default:
		slog.Warn("resolver: unhandled expression", slog.Any("node", expr))
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(scope))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) peek() scope {
	return r.scopes[len(r.scopes)-1]
}

// declare adds name to the innermost scope as not yet initialized. Globals
// are not tracked.
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	s := r.peek()
	if _, ok := s[name.Lexeme]; ok {
		r.reporter.ErrorAt(name, "Already a variable with this name in this scope.")
	}
	s[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.peek()[name.Lexeme] = true
}

// resolveLocal binds name to the innermost scope that declares it. A name
// found in no scope is global.
func (r *Resolver) resolveLocal(name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.binder.Resolve(name, len(r.scopes)-1-i)
			return
		}
	}
}
