// Package runner drives source text through scanning, parsing, resolution
// and evaluation, and turns the outcome into a process exit status.
package runner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"lox/internal/diag"
	"lox/internal/evaluator"
	"lox/internal/lexer"
	"lox/internal/object"
	"lox/internal/parser"
	"lox/internal/resolver"
	"lox/internal/util"
)

// Runner owns one interpreter. Globals defined by one Run are visible to
// the next, which is what the REPL relies on.
type Runner struct {
	config    util.Configuration
	evaluator *evaluator.Evaluator
	collector *diag.Collector
	stderr    io.Writer

	// offset is where the next source starts in the session's combined
	// input. Resolved references are keyed by position, so each Run must
	// scan at positions no earlier Run used.
	offset int
}

func New(config util.Configuration, stdout, stderr io.Writer) *Runner {
	e := evaluator.New(stdout)
	if config.MaxCallDepth > 0 {
		e.MaxCallDepth = config.MaxCallDepth
	}
	return &Runner{
		config:    config,
		evaluator: e,
		collector: diag.NewCollector(stderr),
		stderr:    stderr,
	}
}

// Run executes src and returns the exit status for it. Nothing is executed
// when scanning, parsing or resolution reports an error.
func (r *Runner) Run(src string) int {
	r.collector.Reset()

	tokens := lexer.NewAt(src, r.offset, r.collector).Tokens()
	r.offset += len(src) + 1
	stmts := parser.New(tokens, r.collector).ParseProgram()
	if r.collector.HadError() {
		return r.collector.ExitCode()
	}

	if r.config.DebugAST {
		if err := parser.WriteJSON(r.stderr, stmts); err != nil {
			slog.Warn("failed to render AST", slog.Any("error", err))
		}
	}

	resolver.New(r.evaluator, r.collector).Resolve(stmts)
	if r.collector.HadError() {
		return r.collector.ExitCode()
	}

	if err := r.evaluator.Interpret(stmts); err != nil {
		var rerr *object.RuntimeError
		if errors.As(err, &rerr) {
			r.collector.RuntimeError(rerr.Token, rerr.Message)
		} else {
			r.collector.RuntimeError(nil, err.Error())
		}
	}
	return r.collector.ExitCode()
}

// RunFile executes the script at path.
func (r *Runner) RunFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(r.stderr, "Could not read file '%s': %v\n", path, err)
		return diag.ExitIO
	}
	slog.Debug("running script", slog.String("path", path), slog.Int("bytes", len(src)))
	return r.Run(string(src))
}

func (r *Runner) Diagnostics() []diag.Diagnostic {
	return r.collector.Diagnostics()
}
