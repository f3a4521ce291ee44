package codegen

import "fmt"

// InvariantViolation reports input that an earlier stage promised not to produce: a
// function codegen'd before it was declared, a spread argument on a closure, and so
// on. The code generator panics with it; Recover turns it back into an error at the
// compilation-unit boundary.
type InvariantViolation struct {
	Function string
	Message  string
}

func (e *InvariantViolation) Error() string {
	if e.Function == "" {
		return "internal compiler error: " + e.Message
	}
	return fmt.Sprintf("internal compiler error in %s: %s", e.Function, e.Message)
}

func bug(function, format string, args ...any) {
	panic(&InvariantViolation{Function: function, Message: fmt.Sprintf(format, args...)})
}

// Recover stores a pending InvariantViolation panic in *err. Other panics propagate.
// It must be deferred directly.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if iv, ok := r.(*InvariantViolation); ok {
		*err = iv
		return
	}
	panic(r)
}
