package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blocka/internal/audio"
	"github.com/vovakirdan/tui-blocka/internal/config"
	"github.com/vovakirdan/tui-blocka/internal/core"
	"github.com/vovakirdan/tui-blocka/internal/imagebank"
	"github.com/vovakirdan/tui-blocka/internal/platform/session"
	"github.com/vovakirdan/tui-blocka/internal/puzzle"
	"github.com/vovakirdan/tui-blocka/internal/render"
	"github.com/vovakirdan/tui-blocka/internal/storage"
)

// kvAppName is the gdata application directory of the kv store.
const kvAppName = "blocka"

// newLogger builds the process logger. Full screen frontends pass nil and
// log to --log-file only.
func newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	out := fallback
	closer := func() {}
	if flagLogFile != "" {
		path, err := imagebank.ExpandPath(flagLogFile)
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		out = f
		closer = func() { f.Close() }
	}
	if out == nil {
		out = io.Discard
	}

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		closer()
		return nil, nil, err
	}
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "blocka",
		Level:           level,
	})
	return logger, closer, nil
}

// loadConfig reads the config and applies --difficulty and --pieces.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		return config.Config{}, err
	}
	config.ApplyDifficultyPreset(&cfg, preset)
	if flagPieces != 0 {
		if !render.ValidPieces(flagPieces) {
			return config.Config{}, fmt.Errorf("invalid --pieces %d (4, 6 or 8)", flagPieces)
		}
		cfg.Pieces = flagPieces
	}
	return cfg, nil
}

// recordStore is what the commands need from either backend.
type recordStore interface {
	puzzle.RecordStore
	Records() ([]storage.RecordEntry, error)
	ClearRecords() error
}

// openStore opens the backend chosen with --store.
func openStore() (recordStore, func(), error) {
	switch flagStore {
	case "", "sqlite":
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case "kv":
		store, err := storage.OpenKV(kvAppName)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown --store %q (sqlite or kv)", flagStore)
	}
}

// buildEnv assembles everything a session needs. The returned cleanup
// closes the record store.
func buildEnv(logger *log.Logger, width, height int) (session.Env, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return session.Env{}, nil, err
	}
	images, err := imagebank.Expand(cfg.Images)
	if err != nil {
		return session.Env{}, nil, err
	}
	if len(images) == 0 {
		return session.Env{}, nil, errors.New("the image bank is empty")
	}

	env := session.Env{
		Config: cfg,
		Images: images,
		Loader: imagebank.NewLoader(nil, logger),
		Logger: logger,
		Runtime: core.RuntimeConfig{
			ScreenW: width,
			ScreenH: height,
			FPS:     flagFPS,
			Seed:    flagSeed,
			Pieces:  cfg.Pieces,
		},
	}

	cleanup := func() {}
	store, closeStore, err := openStore()
	if err != nil {
		// Records are optional
		logger.Warn("could not open record store", "store", flagStore, "error", err)
	} else {
		env.Records = store
		cleanup = closeStore
	}
	return env, cleanup, nil
}

// chimeFor returns the win chime when sound is on, nil otherwise.
func chimeFor(cfg config.Config, enabled bool, logger *log.Logger) puzzle.Celebrator {
	if !enabled && !cfg.Sound.Enabled {
		return nil
	}
	return audio.NewChime(audio.Config{File: cfg.Sound.File, Volume: cfg.Sound.Volume}, logger)
}

// celebrators drops a nil chime.
func celebrators(c puzzle.Celebrator) []puzzle.Celebrator {
	if c == nil {
		return nil
	}
	return []puzzle.Celebrator{c}
}
