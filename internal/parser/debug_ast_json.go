package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"lox/internal/ast"
	"lox/internal/token"
)

// WalkAST recursively traverses an AST and serializes it into a map structure
// for JSON output. Nil nodes become null.
func WalkAST(node ast.Node) interface{} {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return nil
	}

	switch n := node.(type) {
	case *ast.Block:
		return map[string]interface{}{
			"type":       "Block",
			"statements": walkStatements(n.Statements),
		}

	case *ast.Class:
		methods := make([]interface{}, len(n.Methods))
		for i, m := range n.Methods {
			methods[i] = WalkAST(m)
		}
		return map[string]interface{}{
			"type":       "Class",
			"name":       walkToken(n.Name),
			"superclass": WalkAST(n.Superclass),
			"methods":    methods,
		}

	case *ast.Expression:
		return map[string]interface{}{
			"type":       "Expression",
			"expression": WalkAST(n.Expression),
		}

	case *ast.Function:
		params := make([]interface{}, len(n.Params))
		for i, p := range n.Params {
			params[i] = walkToken(p)
		}
		return map[string]interface{}{
			"type":   "Function",
			"name":   walkToken(n.Name),
			"params": params,
			"body":   walkStatements(n.Body),
		}

	case *ast.If:
		return map[string]interface{}{
			"type":       "If",
			"condition":  WalkAST(n.Condition),
			"thenBranch": WalkAST(n.ThenBranch),
			"elseBranch": WalkAST(n.ElseBranch),
		}

	case *ast.Print:
		return map[string]interface{}{
			"type":       "Print",
			"expression": WalkAST(n.Expression),
		}

	case *ast.Return:
		return map[string]interface{}{
			"type":    "Return",
			"keyword": walkToken(n.Keyword),
			"value":   WalkAST(n.Value),
		}

	case *ast.Var:
		return map[string]interface{}{
			"type":        "Var",
			"name":        walkToken(n.Name),
			"initializer": WalkAST(n.Initializer),
		}

	case *ast.While:
		return map[string]interface{}{
			"type":      "While",
			"condition": WalkAST(n.Condition),
			"body":      WalkAST(n.Body),
		}

	case *ast.Assign:
		return map[string]interface{}{
			"type":  "Assign",
			"name":  walkToken(n.Name),
			"value": WalkAST(n.Value),
		}

	case *ast.Binary:
		return map[string]interface{}{
			"type":     "Binary",
			"operator": walkToken(n.Operator),
			"left":     WalkAST(n.Left),
			"right":    WalkAST(n.Right),
		}

	case *ast.Call:
		args := make([]interface{}, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = WalkAST(a)
		}
		return map[string]interface{}{
			"type":      "Call",
			"callee":    WalkAST(n.Callee),
			"paren":     walkToken(n.Paren),
			"arguments": args,
		}

	case *ast.Get:
		return map[string]interface{}{
			"type":   "Get",
			"object": WalkAST(n.Object),
			"name":   walkToken(n.Name),
		}

	case *ast.Grouping:
		return map[string]interface{}{
			"type":       "Grouping",
			"expression": WalkAST(n.Expression),
		}

	case *ast.Literal:
		return map[string]interface{}{
			"type":  "Literal",
			"value": n.Value,
		}

	case *ast.Logical:
		return map[string]interface{}{
			"type":     "Logical",
			"operator": walkToken(n.Operator),
			"left":     WalkAST(n.Left),
			"right":    WalkAST(n.Right),
		}

	case *ast.Set:
		return map[string]interface{}{
			"type":   "Set",
			"object": WalkAST(n.Object),
			"name":   walkToken(n.Name),
			"value":  WalkAST(n.Value),
		}

	case *ast.Super:
		return map[string]interface{}{
			"type":    "Super",
			"keyword": walkToken(n.Keyword),
			"method":  walkToken(n.Method),
		}

	case *ast.This:
		return map[string]interface{}{
			"type":    "This",
			"keyword": walkToken(n.Keyword),
		}

	case *ast.Unary:
		return map[string]interface{}{
			"type":     "Unary",
			"operator": walkToken(n.Operator),
			"right":    WalkAST(n.Right),
		}

	case *ast.Variable:
		return map[string]interface{}{
			"type": "Variable",
			"name": walkToken(n.Name),
		}

	default:
		return map[string]interface{}{
			"type":  fmt.Sprintf("%T", node),
			"value": node.String(),
		}
	}
}

func walkStatements(stmts []ast.Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = WalkAST(s)
	}
	return result
}

func walkToken(tok token.Token) interface{} {
	return map[string]interface{}{
		"lexeme":   tok.Lexeme,
		"line":     tok.Line,
		"position": tok.Position,
	}
}

// WriteJSON writes the program as indented JSON to w.
func WriteJSON(w io.Writer, stmts []ast.Stmt) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	program := map[string]interface{}{
		"type":       "Program",
		"statements": walkStatements(stmts),
	}
	if err := encoder.Encode(program); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
