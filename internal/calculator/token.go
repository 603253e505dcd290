package calculator

import "math"

// Operator is one of the four binary arithmetic operators.
type Operator int

const (
	Add Operator = iota + 1
	Subtract
	Multiply
	Divide
)

// Symbol returns the glyph used when rendering the expression line.
func (o Operator) Symbol() string {
	switch o {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	default:
		return "?"
	}
}

func (o Operator) String() string {
	switch o {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	default:
		return "unknown"
	}
}

// highPrecedence reports whether o binds tighter than add/subtract.
func (o Operator) highPrecedence() bool {
	return o == Multiply || o == Divide
}

// apply combines lhs and rhs. Division fails when |rhs| is below epsilon.
func (o Operator) apply(lhs, rhs float64) (float64, error) {
	switch o {
	case Add:
		return lhs + rhs, nil
	case Subtract:
		return lhs - rhs, nil
	case Multiply:
		return lhs * rhs, nil
	case Divide:
		if math.Abs(rhs) < epsilon {
			return 0, ErrDivideByZero
		}
		return lhs / rhs, nil
	default:
		return 0, ErrInvalidExpression
	}
}

// Token is either a number, kept as the text the user typed, or an operator.
// A token with a zero Op is a number.
type Token struct {
	Op   Operator
	Text string
}

// Number returns a number token holding text verbatim.
func Number(text string) Token {
	return Token{Text: text}
}

// Op returns an operator token.
func Op(o Operator) Token {
	return Token{Op: o}
}

func (t Token) IsOperator() bool {
	return t.Op != 0
}

func (t Token) String() string {
	if t.IsOperator() {
		return t.Op.Symbol()
	}
	return t.Text
}
