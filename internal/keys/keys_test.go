package keys

import (
	"errors"
	"reflect"
	"testing"

	"termcalc/internal/calculator"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Key
	}{
		{name: "7", want: Rune('7')},
		{name: "×", want: Rune('×')},
		{name: "Enter", want: Key{Code: Enter}},
		{name: "RETURN", want: Key{Code: Enter}},
		{name: "Backspace", want: Key{Code: Backspace}},
		{name: "Esc", want: Key{Code: Escape}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	if _, err := ParseAll([]string{"1", "ArrowUp"}); err == nil {
		t.Fatal("expected error for unknown key name")
	}
}

func TestSplit(t *testing.T) {
	got := Split("1+\n")
	want := []Key{Rune('1'), Rune('+'), {Code: Enter}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		key    Key
		action Action
		op     calculator.Operator
	}{
		{key: Rune('0'), action: Digit},
		{key: Rune('9'), action: Digit},
		{key: Rune('.'), action: DecimalPoint},
		{key: Key{Code: Backspace}, action: Erase},
		{key: Key{Code: Enter}, action: Evaluate},
		{key: Rune('='), action: Evaluate},
		{key: Rune('+'), action: SetOperator, op: calculator.Add},
		{key: Rune('-'), action: SetOperator, op: calculator.Subtract},
		{key: Rune('*'), action: SetOperator, op: calculator.Multiply},
		{key: Rune('x'), action: SetOperator, op: calculator.Multiply},
		{key: Rune('X'), action: SetOperator, op: calculator.Multiply},
		{key: Rune('/'), action: SetOperator, op: calculator.Divide},
		{key: Rune(':'), action: SetOperator, op: calculator.Divide},
		{key: Rune('a'), action: ClearAll},
		{key: Rune('A'), action: ClearAll},
		{key: Rune('q'), action: Quit},
		{key: Rune('Q'), action: None},
		{key: Key{Code: Interrupt}, action: Quit},
		{key: Key{Code: Escape}, action: None},
	}

	for _, tc := range tests {
		t.Run(tc.key.String(), func(t *testing.T) {
			action, op := Resolve(tc.key, false)
			if action != tc.action || op != tc.op {
				t.Fatalf("expected %s/%v, got %s/%v", tc.action, tc.op, action, op)
			}
		})
	}
}

func TestResolveWhileLocked(t *testing.T) {
	for _, k := range []Key{Rune('1'), Rune('.'), Rune('+'), Rune('='), {Code: Enter}, {Code: Backspace}} {
		if action, _ := Resolve(k, true); action != None {
			t.Fatalf("%v: expected no action while locked, got %s", k, action)
		}
	}
	if action, _ := Resolve(Rune('A'), true); action != ClearAll {
		t.Fatalf("expected clear while locked, got %s", action)
	}
	if action, _ := Resolve(Rune('q'), true); action != Quit {
		t.Fatalf("expected quit while locked, got %s", action)
	}
}

func TestDispatch(t *testing.T) {
	e := calculator.New()
	for _, k := range Split("10+10x5:4+45") {
		if out := Dispatch(e, k); out.Err != nil {
			t.Fatalf("unexpected error on %v: %v", k, out.Err)
		}
	}

	out := Dispatch(e, Key{Code: Enter})
	if out.Action != Evaluate || out.Err != nil || !out.Evaluated {
		t.Fatalf("expected clean evaluation, got %+v", out)
	}
	if out := Dispatch(calculator.New(), Rune('=')); out.Evaluated {
		t.Fatal("expected evaluate on an empty engine to report no result")
	}
	if got := e.DisplayValue(); got != "67.5" {
		t.Fatalf("expected %q, got %q", "67.5", got)
	}
}

func TestDispatchReportsEngineError(t *testing.T) {
	e := calculator.New()
	for _, k := range Split("8/0") {
		Dispatch(e, k)
	}

	out := Dispatch(e, Rune('='))
	if !errors.Is(out.Err, calculator.ErrDivideByZero) {
		t.Fatalf("expected divide by zero, got %v", out.Err)
	}

	if out := Dispatch(e, Rune('5')); out.Action != None {
		t.Fatalf("expected digit to be ignored while locked, got %s", out.Action)
	}
	if out := Dispatch(e, Rune('q')); !out.Quit() {
		t.Fatal("expected quit to be honoured while locked")
	}
	if out := Dispatch(e, Rune('a')); out.Action != ClearAll || e.HasError() {
		t.Fatal("expected clear to unlock the engine")
	}
}
