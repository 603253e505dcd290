package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"termcalc/internal/config"
	"termcalc/internal/observability"
	"termcalc/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "calc:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// stdout belongs to the UI, so logs only go to a file when one is set.
	if cfg.LogFile != "" {
		if err := observability.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
			return err
		}
		defer observability.SyncLogger()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	observability.Logger.Info("terminal session started")
	app := tui.New(screen, tui.WithLogger(observability.Logger))
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		observability.Logger.Error("terminal session failed", zap.Error(err))
		return err
	}
	return nil
}
