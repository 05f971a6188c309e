package object

import (
	"fmt"

	"lox/internal/token"
)

// RuntimeError aborts the current top-level statement. Token is nil when
// the failure has no source location.
type RuntimeError struct {
	Token   *token.Token
	Message string
}

func NewRuntimeError(tok token.Token, format string, a ...interface{}) *RuntimeError {
	return &RuntimeError{Token: &tok, Message: fmt.Sprintf(format, a...)}
}

func (e *RuntimeError) Error() string {
	if e.Token == nil {
		return e.Message
	}
	return fmt.Sprintf("%s [line %d]", e.Message, e.Token.Line)
}

// Return carries a return value from a return statement to the call that
// is executing the function body. It is never a user visible failure.
type Return struct {
	Value Object
}

func (r *Return) Error() string {
	return "return " + r.Value.Inspect()
}
