package calculator

import (
	"errors"
	"strconv"
)

// epsilon is the binary64 machine epsilon, 2^-52.
const epsilon = 0x1p-52

// parseNumber accepts anything strconv treats as a float, including values
// that overflow to ±Inf.
func parseNumber(text string) (float64, bool) {
	v, err := strconv.ParseFloat(text, 64)
	if err == nil {
		return v, true
	}
	if errors.Is(err, strconv.ErrRange) {
		return v, true
	}
	return 0, false
}

// Reduce evaluates an alternating token sequence with multiply/divide
// binding tighter than add/subtract, both left-associative.
func Reduce(tokens []Token) (float64, error) {
	values := make([]float64, 0, len(tokens)/2+1)
	ops := make([]Operator, 0, len(tokens)/2)

	expectNumber := true
	for _, tok := range tokens {
		if tok.IsOperator() {
			if expectNumber {
				return 0, ErrIncomplete
			}
			ops = append(ops, tok.Op)
			expectNumber = true
			continue
		}
		if !expectNumber {
			return 0, ErrInvalidExpression
		}
		v, ok := parseNumber(tok.Text)
		if !ok {
			return 0, ErrNumberInExpr
		}
		values = append(values, v)
		expectNumber = false
	}
	if len(values) == 0 || expectNumber {
		return 0, ErrIncomplete
	}

	// Pass 1 folds ×/÷ into the value to their left, leaving a sequence of
	// terms joined only by +/-.
	terms := []float64{values[0]}
	var low []Operator
	for i, op := range ops {
		rhs := values[i+1]
		if !op.highPrecedence() {
			terms = append(terms, rhs)
			low = append(low, op)
			continue
		}
		last := len(terms) - 1
		v, err := op.apply(terms[last], rhs)
		if err != nil {
			return 0, err
		}
		terms[last] = v
	}

	result := terms[0]
	for i, op := range low {
		v, err := op.apply(result, terms[i+1])
		if err != nil {
			return 0, err
		}
		result = v
	}
	return result, nil
}
