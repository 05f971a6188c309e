package evaluator

import (
	"time"

	"lox/internal/object"
)

var builtins = map[string]*object.Native{
	"clock": funcClock(),
}

// funcClock returns the seconds elapsed since the Unix epoch.
func funcClock() *object.Native {
	return &object.Native{
		Name:   "clock",
		ArityN: 0,
		Fn: func(args []object.Object) (object.Object, error) {
			return &object.Number{Value: float64(time.Now().UnixNano()) / float64(time.Second)}, nil
		},
	}
}
