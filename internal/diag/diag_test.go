package diag

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lox/internal/token"
)

func TestCollectorFormatting(t *testing.T) {
	var out bytes.Buffer
	c := NewCollector(&out)

	c.Error(3, "Unexpected character.")
	c.ErrorAt(token.Token{Type: token.IDENTIFIER, Lexeme: "a", Line: 4}, "Already a variable with this name in this scope.")
	c.ErrorAt(token.Token{Type: token.EOF, Line: 5}, "Expect expression.")
	tok := token.Token{Type: token.PLUS, Lexeme: "+", Line: 6}
	c.RuntimeError(&tok, "Operands must be two numbers or two strings.")
	c.RuntimeError(nil, "Stack exhausted.")

	want := "[line 3] Error: Unexpected character.\n" +
		"[line 4] Error at 'a': Already a variable with this name in this scope.\n" +
		"[line 5] Error at end: Expect expression.\n" +
		"Operands must be two numbers or two strings.\n[line 6]\n" +
		"Stack exhausted.\n"

	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if got := len(c.Diagnostics()); got != 5 {
		t.Errorf("expected 5 diagnostics, got %d", got)
	}
}

func TestCollectorExitCode(t *testing.T) {
	tests := []struct {
		name   string
		report func(c *Collector)
		want   int
	}{
		{"clean", func(c *Collector) {}, ExitOK},
		{"static", func(c *Collector) { c.Error(1, "bad") }, ExitStatic},
		{"runtime", func(c *Collector) { c.RuntimeError(nil, "bad") }, ExitRuntime},
		{"static wins", func(c *Collector) {
			c.RuntimeError(nil, "bad")
			c.Error(1, "bad")
		}, ExitStatic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(nil)
			tt.report(c)
			if got := c.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector(nil)
	c.Error(1, "bad")
	c.RuntimeError(nil, "worse")
	c.Reset()

	if c.HadError() || c.HadRuntimeError() {
		t.Errorf("flags survived Reset")
	}
	if len(c.Diagnostics()) != 0 {
		t.Errorf("diagnostics survived Reset")
	}
}
