package typeinfer

import "fmt"

// TypeError covers every failure infer() can produce: identifier not found,
// unsupported expression/statement shape, missing derived-table alias, and
// incompatible unary operator/operand (spec §7's TypeError taxonomy).
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string { return e.Message }

func errf(format string, args ...interface{}) error {
	return &TypeError{Message: fmt.Sprintf(format, args...)}
}
