package object

import (
	"lox/internal/token"
)

const initializer = "init"

type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class // nil for a root class
}

func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	if methods == nil {
		methods = make(map[string]*Function)
	}
	return &Class{Name: name, Methods: methods, Superclass: superclass}
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return "<class " + c.Name + ">" }

// FindMethod looks in this class and then up the superclass chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	for class := c; class != nil; class = class.Superclass {
		if m, ok := class.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// Arity is the arity of init, or zero when the class has none.
func (c *Class) Arity() int {
	if fn, ok := c.FindMethod(initializer); ok {
		return fn.Arity()
	}
	return 0
}

// Call creates an instance and runs init on it. The result is always the
// new instance.
func (c *Class) Call(ex Executor, args []Object) (Object, error) {
	instance := NewInstance(c)
	if fn, ok := c.FindMethod(initializer); ok {
		if _, err := fn.Bind(instance).Call(ex, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

type Instance struct {
	Class  *Class
	Fields map[string]Object
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Object)}
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string  { return "<instance " + i.Class.Name + ">" }

// Get returns a field if one exists, otherwise a method bound to i.
func (i *Instance) Get(name token.Token) (Object, error) {
	if val, ok := i.Fields[name.Lexeme]; ok {
		return val, nil
	}
	if method, ok := i.Class.FindMethod(name.Lexeme); ok {
		return method.Bind(i), nil
	}
	return nil, NewRuntimeError(name, "Undefined property '%s'.", name.Lexeme)
}

// Set always writes a field, even when a method has the same name.
func (i *Instance) Set(name token.Token, val Object) {
	i.Fields[name.Lexeme] = val
}
