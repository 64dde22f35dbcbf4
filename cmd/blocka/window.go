package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blocka/internal/platform/gui"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Play in a desktop window",
	Long: `Open the puzzle in a resizable window.

Left click turns a tile counter-clockwise, right click clockwise. Drag a
tile onto another to swap them on shuffled levels. The keyboard controls of
'blocka play' work as well.

Examples:
  blocka window
  blocka window --pieces 8 --sound`,
	Args: cobra.NoArgs,
	RunE: runWindow,
}

func runWindow(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	env, cleanup, err := buildEnv(logger, 0, 0)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "frontend", "window", "images", len(env.Images), "pieces", env.Runtime.Pieces)
	if err := gui.Run(ctx, env, celebrators(chimeFor(env.Config, flagSound, logger))...); err != nil {
		return fmt.Errorf("error running window: %w", err)
	}
	return nil
}
