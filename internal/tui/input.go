package tui

import (
	"github.com/gdamore/tcell/v2"

	"termcalc/internal/keys"
)

// keyOf translates a tcell key event into the calculator's key model. tcell
// has already decoded escape sequences, so arrows and function keys arrive
// as named keys and map to Unknown.
func keyOf(ev *tcell.EventKey) keys.Key {
	switch ev.Key() {
	case tcell.KeyRune:
		return keys.Rune(ev.Rune())
	case tcell.KeyEnter, tcell.KeyLF:
		return keys.Key{Code: keys.Enter}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return keys.Key{Code: keys.Backspace}
	case tcell.KeyEscape:
		return keys.Key{Code: keys.Escape}
	case tcell.KeyCtrlC, tcell.KeyCtrlD:
		return keys.Key{Code: keys.Interrupt}
	default:
		return keys.Key{Code: keys.Unknown}
	}
}
