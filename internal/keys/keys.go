// Package keys maps key presses, from the terminal frontend or from remote key
// names, onto calculator commands.
package keys

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Code identifies the kind of key pressed.
type Code int

const (
	Unknown Code = iota
	Char
	Enter
	Backspace
	Escape
	Interrupt
)

// Key is a single key press. Rune is set only for Char keys.
type Key struct {
	Code Code
	Rune rune
}

// Rune returns a Char key.
func Rune(r rune) Key {
	return Key{Code: Char, Rune: r}
}

func (k Key) String() string {
	switch k.Code {
	case Char:
		return string(k.Rune)
	case Enter:
		return "Enter"
	case Backspace:
		return "Backspace"
	case Escape:
		return "Escape"
	case Interrupt:
		return "Interrupt"
	default:
		return "Unknown"
	}
}

// HelpLine is the static help text shown under the result.
const HelpLine = "Digits 0-9 · + - * : · Enter/=: evaluate · A: AC · Q: Quit"

var named = map[string]Key{
	"enter":     {Code: Enter},
	"return":    {Code: Enter},
	"backspace": {Code: Backspace},
	"escape":    {Code: Escape},
	"esc":       {Code: Escape},
}

// Parse converts a remote key name into a Key. Single characters map to
// Char keys; named keys are matched case-insensitively.
func Parse(name string) (Key, error) {
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return Rune(r), nil
	}
	if k, ok := named[strings.ToLower(name)]; ok {
		return k, nil
	}
	return Key{}, fmt.Errorf("unknown key %q", name)
}

// ParseAll parses every name, failing on the first unknown one.
func ParseAll(names []string) ([]Key, error) {
	out := make([]Key, 0, len(names))
	for _, n := range names {
		k, err := Parse(n)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// Split turns a compact input string such as "12+3=" into Char keys.
// Newlines become Enter.
func Split(input string) []Key {
	out := make([]Key, 0, len(input))
	for _, r := range input {
		switch r {
		case '\r', '\n':
			out = append(out, Key{Code: Enter})
		default:
			out = append(out, Rune(r))
		}
	}
	return out
}
