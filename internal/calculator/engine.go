// Package calculator holds the expression engine behind the terminal and
// remote calculators: it accumulates key presses into a token sequence and
// reduces that sequence with multiply/divide before add/subtract.
//
// An Engine is not safe for concurrent use. Callers that share one serialise
// access themselves.
package calculator

import (
	"strings"
)

const (
	errorPrefix = "Error "
	clearHint   = " (press A to clear)"
	emptyPrompt = "Enter digits and choose an operator"
)

// Engine is the complete calculator state. The zero value is ready to use.
type Engine struct {
	input         string
	tokens        []Token
	justEvaluated bool
	errMsg        string
	err           error
}

// New returns an engine in the initial empty state.
func New() *Engine {
	return &Engine{}
}

// HasError reports whether the engine is locked by an error.
func (e *Engine) HasError() bool {
	return e.err != nil
}

// Err returns the failure that locked the engine, or nil.
func (e *Engine) Err() error {
	return e.err
}

// JustEvaluated reports whether the pending input holds a fresh result.
func (e *Engine) JustEvaluated() bool {
	return e.justEvaluated
}

// Input returns the text being typed.
func (e *Engine) Input() string {
	return e.input
}

// Tokens returns a copy of the committed expression.
func (e *Engine) Tokens() []Token {
	out := make([]Token, len(e.tokens))
	copy(out, e.tokens)
	return out
}

// EnterDigit appends d to the pending input. Runes outside 0-9 are ignored.
func (e *Engine) EnterDigit(d rune) {
	if e.HasError() || d < '0' || d > '9' {
		return
	}
	e.resetAfterEvaluation()
	if e.input == "0" {
		e.input = ""
	}
	e.input += string(d)
}

// EnterDecimalPoint appends a decimal point, seeding "0" when the input is
// empty. A second point is ignored.
func (e *Engine) EnterDecimalPoint() {
	if e.HasError() {
		return
	}
	e.resetAfterEvaluation()
	if e.input == "" {
		e.input = "0"
	}
	if !strings.Contains(e.input, ".") {
		e.input += "."
	}
}

// Backspace drops the last typed character. A freshly evaluated result
// cannot be edited.
func (e *Engine) Backspace() {
	if e.HasError() || e.justEvaluated || e.input == "" {
		return
	}
	e.input = e.input[:len(e.input)-1]
}

// SetOperator commits the pending input and appends op, replacing a trailing
// operator. It returns the error that locked the engine, if the commit
// failed.
func (e *Engine) SetOperator(op Operator) error {
	if e.HasError() {
		return nil
	}
	if err := e.commit(); err != nil {
		return err
	}
	if len(e.tokens) == 0 {
		return nil
	}
	if last := len(e.tokens) - 1; e.tokens[last].IsOperator() {
		e.tokens[last] = Op(op)
	} else {
		e.tokens = append(e.tokens, Op(op))
	}
	e.justEvaluated = false
	return nil
}

// Evaluate commits the pending input and reduces the expression. An empty
// expression or one ending in an operator is left untouched. On success the
// result becomes the pending input; on failure the engine locks and the
// failure is returned.
func (e *Engine) Evaluate() error {
	if e.HasError() {
		return nil
	}
	if err := e.commit(); err != nil {
		return err
	}
	if len(e.tokens) == 0 || e.tokens[len(e.tokens)-1].IsOperator() {
		return nil
	}

	result, err := Reduce(e.tokens)
	if err != nil {
		e.fail(err)
		return err
	}
	e.input = FormatNumber(result)
	e.tokens = nil
	e.justEvaluated = true
	return nil
}

// ClearAll resets the engine to its initial state. It is the only command
// honoured while an error is set.
func (e *Engine) ClearAll() {
	e.input = ""
	e.tokens = nil
	e.errMsg = ""
	e.err = nil
	e.justEvaluated = false
}

// DisplayValue is the text for the result pane.
func (e *Engine) DisplayValue() string {
	if e.HasError() {
		return e.errMsg
	}
	if e.input != "" {
		return e.input
	}
	for i := len(e.tokens) - 1; i >= 0; i-- {
		if !e.tokens[i].IsOperator() {
			return e.tokens[i].Text
		}
	}
	return "0"
}

// ExpressionLine is the text for the expression pane.
func (e *Engine) ExpressionLine() string {
	if e.HasError() {
		return e.errMsg + clearHint
	}
	parts := make([]string, 0, len(e.tokens)+1)
	for _, tok := range e.tokens {
		parts = append(parts, tok.String())
	}
	if e.input != "" {
		parts = append(parts, e.input)
	}
	if len(parts) == 0 {
		return emptyPrompt
	}
	return strings.Join(parts, " ")
}

func (e *Engine) resetAfterEvaluation() {
	if e.justEvaluated {
		e.input = ""
		e.justEvaluated = false
	}
}

// commit moves the pending input into the token sequence.
func (e *Engine) commit() error {
	if e.input == "" {
		return nil
	}
	if _, ok := parseNumber(e.input); !ok {
		e.fail(ErrInvalidNumber)
		return ErrInvalidNumber
	}
	e.tokens = append(e.tokens, Number(e.input))
	e.input = ""
	e.justEvaluated = false
	return nil
}

// fail locks the engine. Input and tokens are always cleared together with
// setting the message.
func (e *Engine) fail(err error) {
	e.err = err
	e.errMsg = errorPrefix + err.Error()
	e.input = ""
	e.tokens = nil
	e.justEvaluated = false
}
