package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blocka/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start the puzzle in the terminal. Every level opens as a preview; press s
to start it.

Controls:
  Arrows/hjkl      - Move the cursor
  z/Space, click   - Turn the tile a quarter counter-clockwise
  x, right click   - Turn the tile a quarter clockwise
  Enter, drag      - Pick a tile and drop it on another to swap (shuffled levels)
  s / r / n        - Start, restart, next level
  [ / ]            - Previous / next picture (preview only)
  4 / 6 / 8        - Pieces per puzzle (preview only)
  t                - Best times
  ?                - Full help
  q/Ctrl+C         - Quit

Difficulty options:
  easy   - Countdown limits x1.5
  normal - Limits as configured
  hard   - Limits x0.75
  zen    - No countdowns

Examples:
  blocka play
  blocka play --pieces 6
  blocka play --difficulty zen --sound
  blocka play --config ./my-levels.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	// Get terminal size early for the first layout
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	logger, closeLog, err := newLogger(nil)
	if err != nil {
		return err
	}
	defer closeLog()

	env, cleanup, err := buildEnv(logger, width, height)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "frontend", "terminal", "images", len(env.Images), "pieces", env.Runtime.Pieces)
	if err := tui.Run(ctx, env, celebrators(chimeFor(env.Config, flagSound, logger))...); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
