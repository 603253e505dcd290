// Package tui is the interactive terminal frontend: it turns tcell key
// events into calculator commands and redraws after every key.
package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"termcalc/internal/calculator"
	"termcalc/internal/keys"
)

// App owns one engine for the life of the terminal session.
type App struct {
	engine *calculator.Engine
	screen tcell.Screen
	logger *zap.Logger
}

type Option func(*App)

func WithLogger(l *zap.Logger) Option {
	return func(a *App) { a.logger = l }
}

// New returns an App drawing on screen, which must already be initialised.
func New(screen tcell.Screen, opts ...Option) *App {
	a := &App{
		engine: calculator.New(),
		screen: screen,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Engine exposes the session's engine for inspection.
func (a *App) Engine() *calculator.Engine {
	return a.engine
}

// Run renders and handles events until the user quits, the screen is
// finalised or ctx is cancelled. Quitting and a finalised screen return nil;
// cancellation returns ctx.Err() without waiting for another key.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event)
	stop := make(chan struct{})
	defer close(stop)
	go a.screen.ChannelEvents(events, stop)

	for {
		Render(a.screen, a.engine)

		var ev tcell.Event
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-events:
			if !ok {
				return nil
			}
			ev = e
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventKey:
			if a.handle(keyOf(ev)) {
				return nil
			}
		}
	}
}

// handle dispatches k and reports whether the user asked to quit.
func (a *App) handle(k keys.Key) bool {
	out := keys.Dispatch(a.engine, k)
	a.logger.Debug("key handled",
		zap.Stringer("key", k),
		zap.Stringer("action", out.Action),
	)
	if out.Err != nil {
		a.logger.Info("calculator error",
			zap.Stringer("kind", calculator.KindOf(out.Err)),
			zap.Error(out.Err),
		)
	}
	if out.Quit() {
		a.logger.Info("session ended by user")
		return true
	}
	return false
}
