// Package session keeps calculator engines for remote clients. Each session
// owns one engine and serialises the commands applied to it.
package session

import (
	"errors"
	"sync"
	"time"

	"termcalc/internal/calculator"
	"termcalc/internal/keys"
)

// ErrClosed is returned by Press once the session has left its store.
var ErrClosed = errors.New("session closed")

// View is the pair of strings a client renders, plus the engine flags.
type View struct {
	Expression    string `json:"expression"`
	Display       string `json:"display"`
	Error         bool   `json:"error"`
	JustEvaluated bool   `json:"just_evaluated"`
}

func viewOf(e *calculator.Engine) View {
	return View{
		Expression:    e.ExpressionLine(),
		Display:       e.DisplayValue(),
		Error:         e.HasError(),
		JustEvaluated: e.JustEvaluated(),
	}
}

// Result is the effect of one batch of keys.
type Result struct {
	View     View
	Outcomes []keys.Outcome
	// Quit is set when a key in the batch asked to end the session. Keys
	// after it are not applied.
	Quit bool
}

type Session struct {
	ID      string
	Created time.Time

	mu       sync.Mutex
	engine   *calculator.Engine
	lastUsed time.Time
	now      func() time.Time
	closed   bool
}

// Press applies ks in order. A session that was deleted or expired accepts
// no more keys.
func (s *Session) Press(ks []keys.Key) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Result{}, ErrClosed
	}

	s.lastUsed = s.now()
	res := Result{Outcomes: make([]keys.Outcome, 0, len(ks))}
	for _, k := range ks {
		out := keys.Dispatch(s.engine, k)
		res.Outcomes = append(res.Outcomes, out)
		if out.Quit() {
			res.Quit = true
			break
		}
	}
	res.View = viewOf(s.engine)
	return res, nil
}

// Closed reports whether the session has left its store.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return viewOf(s.engine)
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
