package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"termcalc/internal/calculator"
	"termcalc/internal/keys"
)

const (
	minWidth   = 20
	paneHeight = 3
	helpLabel  = "Digits 0-9"
)

var (
	plain  = tcell.StyleDefault
	strong = tcell.StyleDefault.Bold(true)
)

// Render draws one frame: the expression pane, the result pane and the help
// pane, each paneHeight rows tall and as wide as the screen.
func Render(s tcell.Screen, e *calculator.Engine) {
	width, _ := s.Size()
	if width < minWidth {
		width = minWidth
	}

	s.Clear()

	drawPane(s, 0, width, "Expression")
	drawRight(s, 1, width, e.ExpressionLine(), plain)

	drawPane(s, paneHeight, width, "Result")
	drawRight(s, paneHeight+1, width, e.DisplayValue(), strong)

	drawPane(s, 2*paneHeight, width, "")
	help := tail([]rune(keys.HelpLine), width-2)
	put(s, 1, 2*paneHeight+1, help, plain)
	if strings.HasPrefix(string(help), helpLabel) {
		put(s, 1, 2*paneHeight+1, []rune(helpLabel), strong)
	}

	s.Show()
}

// drawPane draws a bordered box with top row y and an optional title on its
// top edge.
func drawPane(s tcell.Screen, y, width int, title string) {
	right, bottom := width-1, y+paneHeight-1

	for x := 1; x < right; x++ {
		s.SetContent(x, y, tcell.RuneHLine, nil, plain)
		s.SetContent(x, bottom, tcell.RuneHLine, nil, plain)
	}
	for row := y + 1; row < bottom; row++ {
		s.SetContent(0, row, tcell.RuneVLine, nil, plain)
		s.SetContent(right, row, tcell.RuneVLine, nil, plain)
	}
	s.SetContent(0, y, tcell.RuneULCorner, nil, plain)
	s.SetContent(right, y, tcell.RuneURCorner, nil, plain)
	s.SetContent(0, bottom, tcell.RuneLLCorner, nil, plain)
	s.SetContent(right, bottom, tcell.RuneLRCorner, nil, plain)

	if t := []rune(title); len(t) > width-2 {
		title = string(t[:width-2])
	}
	put(s, 1, y, []rune(title), plain)
}

// drawRight right-aligns text inside the pane row y. Over-long text keeps
// its tail so the most recent input stays visible.
func drawRight(s tcell.Screen, y, width int, text string, style tcell.Style) {
	rs := tail([]rune(text), width-2)
	put(s, width-1-len(rs), y, rs, style)
}

func tail(rs []rune, n int) []rune {
	if len(rs) > n {
		return rs[len(rs)-n:]
	}
	return rs
}

func put(s tcell.Screen, x, y int, rs []rune, style tcell.Style) {
	for i, r := range rs {
		s.SetContent(x+i, y, r, nil, style)
	}
}
