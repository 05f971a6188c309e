package object

import (
	"log/slog"
	"sync/atomic"
)

var nextID atomic.Uint64

// Environment is one lexical scope. Outer is set at creation and never
// changes, so the chain of scopes is a tree rooted at the globals.
// Environments are shared by pointer between closures and bound methods.
type Environment struct {
	ID       uint64
	Bindings map[string]Object
	Outer    *Environment
}

func nextEnvID() uint64 {
	return nextID.Add(1)
}

func NewEnvironment() *Environment {
	return &Environment{
		ID:       nextEnvID(),
		Bindings: make(map[string]Object),
	}
}

// NewEnclosedEnvironment creates a scope whose enclosing scope is outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	slog.Debug("new env",
		slog.Uint64("id", env.ID),
		slog.Uint64("outer", outer.ID))
	return env
}

// Define binds name in this scope, replacing any existing binding here.
func (e *Environment) Define(name string, val Object) {
	e.Bindings[name] = val
}

// Get searches this scope and then each enclosing scope.
func (e *Environment) Get(name string) (Object, bool) {
	for env := e; env != nil; env = env.Outer {
		if val, ok := env.Bindings[name]; ok {
			return val, true
		}
	}
	return nil, false
}

// Assign updates the nearest existing binding of name. It never creates a
// binding and reports false when name is not defined anywhere on the chain.
func (e *Environment) Assign(name string, val Object) bool {
	for env := e; env != nil; env = env.Outer {
		if _, ok := env.Bindings[name]; ok {
			env.Bindings[name] = val
			return true
		}
	}
	return false
}

// Ancestor follows exactly distance enclosing links. It returns nil when
// the chain is shorter than distance.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.Outer
	}
	return env
}

// GetAt reads name from the scope distance hops out, and only from that
// scope.
func (e *Environment) GetAt(distance int, name string) (Object, bool) {
	env := e.Ancestor(distance)
	if env == nil {
		slog.Warn("resolved scope missing",
			slog.String("name", name),
			slog.Int("distance", distance))
		return nil, false
	}
	val, ok := env.Bindings[name]
	return val, ok
}

// AssignAt updates name in the scope distance hops out. Like Assign it
// never creates a binding.
func (e *Environment) AssignAt(distance int, name string, val Object) bool {
	env := e.Ancestor(distance)
	if env == nil {
		return false
	}
	if _, ok := env.Bindings[name]; !ok {
		return false
	}
	env.Bindings[name] = val
	return true
}
