// Package diag collects static and runtime diagnostics for one interpreter
// session and maps them to a process exit status.
package diag

import (
	"fmt"
	"io"
	"log/slog"

	"lox/internal/token"
)

const (
	ExitOK      = 0
	ExitUsage   = 64
	ExitStatic  = 65
	ExitRuntime = 70
	ExitIO      = 74
)

// Reporter accepts static errors from the scanner, parser and resolver.
type Reporter interface {
	Error(line int, message string)
	ErrorAt(tok token.Token, message string)
}

type Kind int

const (
	Static Kind = iota
	Runtime
)

type Diagnostic struct {
	Kind    Kind
	Line    int
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	if d.Kind == Runtime {
		if d.Line > 0 {
			return fmt.Sprintf("%s\n[line %d]", d.Message, d.Line)
		}
		return d.Message
	}
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Collector is the single sink threaded through scan, parse, resolve and
// interpret. The driver reads it once to pick an exit status.
type Collector struct {
	out             io.Writer
	diagnostics     []Diagnostic
	hadError        bool
	hadRuntimeError bool
}

func NewCollector(out io.Writer) *Collector {
	return &Collector{out: out}
}

func (c *Collector) Error(line int, message string) {
	c.report(Diagnostic{Kind: Static, Line: line, Message: message})
}

func (c *Collector) ErrorAt(tok token.Token, message string) {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.Type == token.EOF {
		where = " at end"
	}
	c.report(Diagnostic{Kind: Static, Line: tok.Line, Where: where, Message: message})
}

// RuntimeError records a runtime failure. tok is nil when no source
// location is known.
func (c *Collector) RuntimeError(tok *token.Token, message string) {
	d := Diagnostic{Kind: Runtime, Message: message}
	if tok != nil {
		d.Line = tok.Line
	}
	c.report(d)
}

func (c *Collector) report(d Diagnostic) {
	if d.Kind == Runtime {
		c.hadRuntimeError = true
		slog.Debug("runtime error",
			slog.Int("line", d.Line),
			slog.String("message", d.Message))
	} else {
		c.hadError = true
		slog.Debug("static error",
			slog.Int("line", d.Line),
			slog.String("where", d.Where),
			slog.String("message", d.Message))
	}
	c.diagnostics = append(c.diagnostics, d)
	if c.out != nil {
		fmt.Fprintln(c.out, d.String())
	}
}

func (c *Collector) HadError() bool        { return c.hadError }
func (c *Collector) HadRuntimeError() bool { return c.hadRuntimeError }

// Diagnostics returns everything reported since the last Reset.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diagnostics
}

func (c *Collector) Reset() {
	c.hadError = false
	c.hadRuntimeError = false
	c.diagnostics = nil
}

func (c *Collector) ExitCode() int {
	switch {
	case c.hadError:
		return ExitStatic
	case c.hadRuntimeError:
		return ExitRuntime
	default:
		return ExitOK
	}
}
