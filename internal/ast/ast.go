package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/michaelmacinnis/adapted"

	"lox/internal/token"
)

// The base Node interface
type Node interface {
	String() string
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

// Program renders a statement list the way the parser received it.
func Program(stmts []Stmt) string {
	var out bytes.Buffer
	for i, s := range stmts {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}
	return out.String()
}

func parenthesize(name string, parts ...Node) string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(name)
	for _, p := range parts {
		out.WriteString(" ")
		out.WriteString(p.String())
	}
	out.WriteString(")")
	return out.String()
}

// Statements

type Block struct {
	Statements []Stmt
}

func (b *Block) stmtNode() {}
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	for _, s := range b.Statements {
		out.WriteString(" ")
		out.WriteString(s.String())
	}
	out.WriteString(" }")
	return out.String()
}

type Class struct {
	Name       token.Token
	Superclass *Variable // nil when the class has no superclass
	Methods    []*Function
}

func (c *Class) stmtNode() {}
func (c *Class) String() string {
	var out bytes.Buffer
	out.WriteString("(class ")
	out.WriteString(c.Name.Lexeme)
	if c.Superclass != nil {
		out.WriteString(" < ")
		out.WriteString(c.Superclass.Name.Lexeme)
	}
	for _, m := range c.Methods {
		out.WriteString(" ")
		out.WriteString(m.String())
	}
	out.WriteString(")")
	return out.String()
}

type Expression struct {
	Expression Expr
}

func (es *Expression) stmtNode()      {}
func (es *Expression) String() string { return es.Expression.String() + ";" }

type Function struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func (f *Function) stmtNode() {}
func (f *Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Lexeme
	}

	var out bytes.Buffer
	out.WriteString("(fun ")
	out.WriteString(f.Name.Lexeme)
	out.WriteString("(")
	out.WriteString(strings.Join(params, " "))
	out.WriteString(")")
	for _, s := range f.Body {
		out.WriteString(" ")
		out.WriteString(s.String())
	}
	out.WriteString(")")
	return out.String()
}

type If struct {
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt // may be nil
}

func (i *If) stmtNode() {}
func (i *If) String() string {
	if i.ElseBranch == nil {
		return parenthesize("if", i.Condition, i.ThenBranch)
	}
	return parenthesize("if-else", i.Condition, i.ThenBranch, i.ElseBranch)
}

type Print struct {
	Expression Expr
}

func (p *Print) stmtNode()      {}
func (p *Print) String() string { return parenthesize("print", p.Expression) }

type Return struct {
	Keyword token.Token
	Value   Expr // nil for a bare `return;`
}

func (r *Return) stmtNode() {}
func (r *Return) String() string {
	if r.Value == nil {
		return "(return)"
	}
	return parenthesize("return", r.Value)
}

type Var struct {
	Name        token.Token
	Initializer Expr // may be nil
}

func (v *Var) stmtNode() {}
func (v *Var) String() string {
	if v.Initializer == nil {
		return "(var " + v.Name.Lexeme + ")"
	}
	return parenthesize("var "+v.Name.Lexeme, v.Initializer)
}

type While struct {
	Condition Expr
	Body      Stmt
}

func (w *While) stmtNode()      {}
func (w *While) String() string { return parenthesize("while", w.Condition, w.Body) }

// Expressions

type Assign struct {
	Name  token.Token
	Value Expr
}

func (a *Assign) exprNode()      {}
func (a *Assign) String() string { return parenthesize("= "+a.Name.Lexeme, a.Value) }

type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (b *Binary) exprNode()      {}
func (b *Binary) String() string { return parenthesize(b.Operator.Lexeme, b.Left, b.Right) }

type Call struct {
	Callee    Expr
	Paren     token.Token // closing paren, used to report call errors
	Arguments []Expr
}

func (c *Call) exprNode() {}
func (c *Call) String() string {
	parts := make([]Node, len(c.Arguments))
	for i, a := range c.Arguments {
		parts[i] = a
	}
	return parenthesize("call "+c.Callee.String(), parts...)
}

type Get struct {
	Object Expr
	Name   token.Token
}

func (g *Get) exprNode()      {}
func (g *Get) String() string { return parenthesize("."+g.Name.Lexeme, g.Object) }

type Grouping struct {
	Expression Expr
}

func (g *Grouping) exprNode()      {}
func (g *Grouping) String() string { return parenthesize("group", g.Expression) }

type Literal struct {
	Value any // nil, bool, float64 or string
}

func (l *Literal) exprNode() {}
func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return adapted.CanonicalString(v)
	}
	return "?"
}

type Logical struct {
	Left     Expr
	Operator token.Token
	Right    Expr
}

func (l *Logical) exprNode()      {}
func (l *Logical) String() string { return parenthesize(l.Operator.Lexeme, l.Left, l.Right) }

type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

func (s *Set) exprNode()      {}
func (s *Set) String() string { return parenthesize("=."+s.Name.Lexeme, s.Object, s.Value) }

type Super struct {
	Keyword token.Token
	Method  token.Token
}

func (s *Super) exprNode()      {}
func (s *Super) String() string { return "(super ." + s.Method.Lexeme + ")" }

type This struct {
	Keyword token.Token
}

func (t *This) exprNode()      {}
func (t *This) String() string { return "this" }

type Unary struct {
	Operator token.Token
	Right    Expr
}

func (u *Unary) exprNode()      {}
func (u *Unary) String() string { return parenthesize(u.Operator.Lexeme, u.Right) }

type Variable struct {
	Name token.Token
}

func (v *Variable) exprNode()      {}
func (v *Variable) String() string { return v.Name.Lexeme }
