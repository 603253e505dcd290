package keys

import "termcalc/internal/calculator"

// Action is the calculator command a key resolved to.
type Action int

const (
	None Action = iota
	Digit
	DecimalPoint
	Erase
	SetOperator
	Evaluate
	ClearAll
	Quit
)

var actionNames = [...]string{
	None:         "none",
	Digit:        "digit",
	DecimalPoint: "decimal_point",
	Erase:        "backspace",
	SetOperator:  "operator",
	Evaluate:     "evaluate",
	ClearAll:     "clear_all",
	Quit:         "quit",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Outcome describes what a dispatched key did.
type Outcome struct {
	Key    Key
	Action Action
	// Evaluated is set when the key produced a fresh result.
	Evaluated bool
	// Err is set when the key moved the engine into its error state.
	Err error
}

// Quit reports whether the key asked to end the session.
func (o Outcome) Quit() bool {
	return o.Action == Quit
}

// Resolve maps k to an action and, for operator keys, the operator. While
// locked only clear and quit keys resolve.
func Resolve(k Key, locked bool) (Action, calculator.Operator) {
	if k.Code == Interrupt {
		return Quit, 0
	}
	if locked {
		if k.Code == Char {
			switch k.Rune {
			case 'a', 'A':
				return ClearAll, 0
			case 'q':
				return Quit, 0
			}
		}
		return None, 0
	}

	switch k.Code {
	case Enter:
		return Evaluate, 0
	case Backspace:
		return Erase, 0
	case Char:
	default:
		return None, 0
	}

	switch r := k.Rune; {
	case r >= '0' && r <= '9':
		return Digit, 0
	case r == '.':
		return DecimalPoint, 0
	case r == '=':
		return Evaluate, 0
	case r == '+':
		return SetOperator, calculator.Add
	case r == '-':
		return SetOperator, calculator.Subtract
	case r == '*' || r == 'x' || r == 'X':
		return SetOperator, calculator.Multiply
	case r == '/' || r == ':':
		return SetOperator, calculator.Divide
	case r == 'a' || r == 'A':
		return ClearAll, 0
	case r == 'q':
		return Quit, 0
	}
	return None, 0
}

// Dispatch applies k to e. Quit is reported, not acted on; ending the
// session is the caller's concern.
func Dispatch(e *calculator.Engine, k Key) Outcome {
	action, op := Resolve(k, e.HasError())
	out := Outcome{Key: k, Action: action}

	switch action {
	case Digit:
		e.EnterDigit(k.Rune)
	case DecimalPoint:
		e.EnterDecimalPoint()
	case Erase:
		e.Backspace()
	case SetOperator:
		out.Err = e.SetOperator(op)
	case Evaluate:
		out.Err = e.Evaluate()
		out.Evaluated = out.Err == nil && e.JustEvaluated()
	case ClearAll:
		e.ClearAll()
	}
	return out
}
