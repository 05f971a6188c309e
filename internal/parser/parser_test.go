package parser

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/lexer"
)

func parse(input string) ([]ast.Stmt, []string) {
	c := diag.NewCollector(nil)
	stmts := New(lexer.New(input, c).Tokens(), c).ParseProgram()

	var errs []string
	for _, d := range c.Diagnostics() {
		errs = append(errs, d.String())
	}
	return stmts, errs
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3;", "(+ 1 (* 2 3));"},
		{"(1 + 2) * 3;", "(* (group (+ 1 2)) 3);"},
		{"-a - -b;", "(- (- a) (- b));"},
		{"!!true;", "(! (! true));"},
		{"a == b != c;", "(!= (== a b) c);"},
		{"a < b == c >= d;", "(== (< a b) (>= c d));"},
		{"a or b and c;", "(or a (and b c));"},
		{"a = b = 3;", "(= a (= b 3));"},
		{"a.b.c = d;", "(=.c (.b a) d);"},
		{"f(1)(2, 3);", "(call (call f 1) 2 3);"},
		{"obj.method(x).field;", "(.field (call (.method obj) x));"},
		{"1 - 2 - 3;", "(- (- 1 2) 3);"},
		{"2.5 / nil;", "(/ 2.5 nil);"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmts, errs := parse(tt.input)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if diff := cmp.Diff(tt.expected, ast.Program(stmts)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"var a;", "(var a)"},
		{"var a = 1;", "(var a 1)"},
		{"print a;", "(print a)"},
		{"{ var a = 1; print a; }", "{ (var a 1) (print a) }"},
		{"if (a) print 1; else print 2;", "(if-else a (print 1) (print 2))"},
		{"if (a) if (b) print 1; else print 2;", "(if a (if-else b (print 1) (print 2)))"},
		{"while (a) a = a - 1;", "(while a (= a (- a 1));)"},
		{"fun f(a, b) { return a; }", "(fun f(a b) (return a))"},
		{"fun f() { return; }", "(fun f() (return))"},
		{"class A < B { m() { return super.m(this); } }", "(class A < B (fun m() (return (call (super .m) this))))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stmts, errs := parse(tt.input)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if diff := cmp.Diff(tt.expected, ast.Program(stmts)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestForDesugaring(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"for (var i = 0; i < 3; i = i + 1) print i;",
			"{ (var i 0) (while (< i 3) { (print i) (= i (+ i 1)); }) }",
		},
		{"for (;;) print 1;", "(while true (print 1))"},
		{"for (i = 0; i < 1;) print i;", "{ (= i 0); (while (< i 1) (print i)) }"},
	}

	for _, tt := range tests {
		stmts, errs := parse(tt.input)
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if diff := cmp.Diff(tt.expected, ast.Program(stmts)); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestStringLiteralValue(t *testing.T) {
	stmts, errs := parse(`print "hello";`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	lit, ok := stmts[0].(*ast.Print).Expression.(*ast.Literal)
	if !ok {
		t.Fatalf("expected a literal, got %T", stmts[0].(*ast.Print).Expression)
	}
	if lit.Value != "hello" {
		t.Errorf("literal value = %v, want hello", lit.Value)
	}
	if !strings.Contains(lit.String(), "hello") {
		t.Errorf("literal renders as %q", lit.String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"missing expression", "print ;", []string{"[line 1] Error at ';': Expect expression."}},
		{"missing semicolon", "print 1", []string{"[line 1] Error at end: Expect ';' after value."}},
		{"invalid target", "1 = 2;", []string{"[line 1] Error at '=': Invalid assignment target."}},
		{"unclosed group", "(1;", []string{"[line 1] Error at ';': Expect ')' after expression."}},
		{"class name", "class { }", []string{"[line 1] Error at '{': Expect class name."}},
		{"super dot", "super;", []string{"[line 1] Error at ';': Expect '.' after 'super'."}},
		{"property name", "a.;", []string{"[line 1] Error at ';': Expect property name after '.'."}},
		{"var name", "var 1 = 2;", []string{"[line 1] Error at '1': Expect variable name."}},
		{
			"recovers at statement boundary",
			"print ;\nvar = 1;\nprint 3;",
			[]string{
				"[line 1] Error at ';': Expect expression.",
				"[line 2] Error at '=': Expect variable name.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := parse(tt.input)
			if diff := cmp.Diff(tt.expected, errs); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecoveryKeepsGoodStatements(t *testing.T) {
	stmts, errs := parse("print ;\nprint 1;\nvar x = 2;")
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if diff := cmp.Diff("(print 1)\n(var x 2)", ast.Program(stmts)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTooManyArguments(t *testing.T) {
	args := make([]string, 256)
	params := make([]string, 256)
	for i := range args {
		args[i] = "1"
		params[i] = "p" + strings.Repeat("x", i%3) + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}

	_, errs := parse("f(" + strings.Join(args, ", ") + ");")
	if diff := cmp.Diff([]string{"[line 1] Error at '1': Can't have more than 255 arguments."}, errs); diff != "" {
		t.Errorf("arguments mismatch (-want +got):\n%s", diff)
	}

	_, errs = parse("fun f(" + strings.Join(params, ", ") + ") {}")
	if len(errs) != 1 || !strings.HasSuffix(errs[0], "Can't have more than 255 parameters.") {
		t.Errorf("parameters: unexpected errors %v", errs)
	}
}

func TestWriteJSON(t *testing.T) {
	stmts, errs := parse("var a = 1 + 2;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, stmts); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded struct {
		Type       string `json:"type"`
		Statements []struct {
			Type        string `json:"type"`
			Name        struct{ Lexeme string } `json:"name"`
			Initializer struct {
				Type     string `json:"type"`
				Operator struct{ Lexeme string } `json:"operator"`
			} `json:"initializer"`
		} `json:"statements"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if decoded.Type != "Program" || len(decoded.Statements) != 1 {
		t.Fatalf("unexpected program: %+v", decoded)
	}
	s := decoded.Statements[0]
	if s.Type != "Var" || s.Name.Lexeme != "a" || s.Initializer.Type != "Binary" || s.Initializer.Operator.Lexeme != "+" {
		t.Errorf("unexpected statement: %+v", s)
	}
}
