package calculator

import "fmt"

// ErrorKind classifies engine failures.
type ErrorKind int

const (
	InvalidNumber ErrorKind = iota + 1
	InvalidExpression
	DivideByZero
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidNumber:
		return "invalid_number"
	case InvalidExpression:
		return "invalid_expression"
	case DivideByZero:
		return "divide_by_zero"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a failure raised while committing input or reducing tokens.
// Two Errors match under errors.Is when their kinds are equal.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidNumber     = &Error{Kind: InvalidNumber, Msg: "invalid number"}
	ErrNumberInExpr      = &Error{Kind: InvalidNumber, Msg: "invalid number in expression"}
	ErrInvalidExpression = &Error{Kind: InvalidExpression, Msg: "invalid expression"}
	ErrIncomplete        = &Error{Kind: InvalidExpression, Msg: "incomplete expression"}
	ErrDivideByZero      = &Error{Kind: DivideByZero, Msg: "Cannot divide by zero"}
)

// KindOf returns the kind of err, or 0 when err is not an engine error.
func KindOf(err error) ErrorKind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return 0
}
