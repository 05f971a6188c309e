package resolver

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"lox/internal/diag"
	"lox/internal/lexer"
	"lox/internal/parser"
	"lox/internal/token"
)

type depths map[token.Key]int

func (d depths) Resolve(name token.Token, depth int) {
	d[name.Key()] = depth
}

func resolve(t *testing.T, input string) (depths, []string, []token.Token) {
	t.Helper()

	c := diag.NewCollector(nil)
	toks := lexer.New(input, c).Tokens()
	stmts := parser.New(toks, c).ParseProgram()
	if c.HadError() {
		t.Fatalf("parse errors: %v", c.Diagnostics())
	}

	d := depths{}
	New(d, c).Resolve(stmts)

	var messages []string
	for _, diagnostic := range c.Diagnostics() {
		messages = append(messages, diagnostic.String())
	}
	return d, messages, toks
}

// nth returns the key of the n-th token (from zero) with the given lexeme.
func nth(t *testing.T, toks []token.Token, lexeme string, n int) token.Key {
	t.Helper()
	for _, tok := range toks {
		if tok.Lexeme == lexeme {
			if n == 0 {
				return tok.Key()
			}
			n--
		}
	}
	t.Fatalf("no token %q", lexeme)
	return token.Key{}
}

func TestResolveDistances(t *testing.T) {
	input := `
var g = 0;
{
  var a = 1;
  {
    {
      print a;
      a = 2;
      print g;
    }
  }
}
`
	d, errs, toks := resolve(t, input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if got, ok := d[nth(t, toks, "a", 1)]; !ok || got != 2 {
		t.Errorf("read of a resolved at %d (%t), want 2", got, ok)
	}
	if got, ok := d[nth(t, toks, "a", 2)]; !ok || got != 2 {
		t.Errorf("assignment to a resolved at %d (%t), want 2", got, ok)
	}
	if _, ok := d[nth(t, toks, "g", 1)]; ok {
		t.Errorf("global g was resolved to a local scope")
	}
}

func TestResolveShadowing(t *testing.T) {
	input := `
{
  var a = 1;
  {
    var a = 2;
    print a;
  }
  print a;
}
`
	d, errs, toks := resolve(t, input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if got := d[nth(t, toks, "a", 2)]; got != 0 {
		t.Errorf("inner read resolved at %d, want 0", got)
	}
	if got := d[nth(t, toks, "a", 3)]; got != 0 {
		t.Errorf("outer read resolved at %d, want 0", got)
	}
}

func TestResolveClosureAndMethods(t *testing.T) {
	input := `
fun outer() {
  var count = 0;
  fun inc() {
    count = count + 1;
    return count;
  }
  return inc;
}
class A {
  m() { return this; }
}
class B < A {
  m() { return super.m(); }
}
`
	d, errs, toks := resolve(t, input)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	// count is declared in outer's body scope, one hop above inc's
	for i := 1; i <= 3; i++ {
		if got := d[nth(t, toks, "count", i)]; got != 1 {
			t.Errorf("count reference %d resolved at %d, want 1", i, got)
		}
	}
	if got, ok := d[nth(t, toks, "inc", 1)]; !ok || got != 0 {
		t.Errorf("inc resolved at %d (%t), want 0", got, ok)
	}
	if got := d[nth(t, toks, "this", 0)]; got != 1 {
		t.Errorf("this resolved at %d, want 1", got)
	}
	if got := d[nth(t, toks, "super", 0)]; got != 2 {
		t.Errorf("super resolved at %d, want 2", got)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			"duplicate local",
			"{ var a = 1; var a = 2; }",
			[]string{"[line 1] Error at 'a': Already a variable with this name in this scope."},
		},
		{
			"own initializer",
			"{ var a = a; }",
			[]string{"[line 1] Error at 'a': Can't read local variable in its own initializer."},
		},
		{
			"top level return",
			"return 1;",
			[]string{"[line 1] Error at 'return': Can't return from top-level code."},
		},
		{
			"value from initializer",
			"class A { init() { return 1; } }",
			[]string{"[line 1] Error at 'return': Can't return a value from an initializer."},
		},
		{
			"this outside class",
			"print this;",
			[]string{"[line 1] Error at 'this': Can't use 'this' outside of a class."},
		},
		{
			"this in plain function",
			"fun f() { return this; }",
			[]string{"[line 1] Error at 'this': Can't use 'this' outside of a class."},
		},
		{
			"super outside class",
			"fun f() { super.m(); }",
			[]string{"[line 1] Error at 'super': Can't use 'super' outside of a class."},
		},
		{
			"super without superclass",
			"class A { m() { super.m(); } }",
			[]string{"[line 1] Error at 'super': Can't use 'super' in a class with no superclass."},
		},
		{
			"self inheritance",
			"class A < A {}",
			[]string{"[line 1] Error at 'A': A class can't inherit from itself."},
		},
		{
			"errors accumulate",
			"return 1;\n{ var b; var b; }\nprint this;",
			[]string{
				"[line 1] Error at 'return': Can't return from top-level code.",
				"[line 2] Error at 'b': Already a variable with this name in this scope.",
				"[line 3] Error at 'this': Can't use 'this' outside of a class.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs, _ := resolve(t, tt.input)
			if diff := cmp.Diff(tt.expected, errs); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveAllowed(t *testing.T) {
	tests := []string{
		"var a = 1; var a = 2;",
		"fun f() { return g(); } fun g() { return 1; }",
		"class A { init() { return; } }",
		"var a = 1; { var b = a; }",
		"class A { m() { fun inner() { return this; } return inner; } }",
	}

	for i, input := range tests {
		if _, errs, _ := resolve(t, input); len(errs) != 0 {
			t.Errorf("tests[%d] - unexpected errors: %v", i, errs)
		}
	}
}
