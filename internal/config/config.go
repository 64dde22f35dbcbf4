// Package config provides YAML-based configuration for blocka: animation
// tuning, the image bank, the level campaign and sound.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-blocka/internal/animator"
	"github.com/vovakirdan/tui-blocka/internal/puzzle"
	"github.com/vovakirdan/tui-blocka/internal/render"
)

//go:embed defaults/blocka.yaml
var defaultYAML []byte

// ErrNoLevels is returned by Validate for configs without levels.
var ErrNoLevels = errors.New("config: no levels")

// Config contains all configuration for the game.
type Config struct {
	Animation AnimationConfig `yaml:"animation"`
	Pieces    int             `yaml:"pieces"`
	Images    []string        `yaml:"images"`
	Levels    []LevelConfig   `yaml:"levels"`
	Sound     SoundConfig     `yaml:"sound"`
}

// AnimationConfig tunes the rotation animation.
type AnimationConfig struct {
	RotateMS     int     `yaml:"rotate_ms"`      // Duration of a quarter turn
	BlurTaps     int     `yaml:"blur_taps"`      // Ghost samples per frame, 0 disables the trail
	BlurWindowMS int     `yaml:"blur_window_ms"` // 0 means 8% of rotate_ms
	PopScale     float64 `yaml:"pop_scale"`      // Peak extra scale while turning
}

// LevelConfig is one level of the campaign.
type LevelConfig struct {
	Name        string   `yaml:"name"`
	Shuffle     bool     `yaml:"shuffle"`
	Filters     []string `yaml:"filters"`
	TimeLimitMS int      `yaml:"time_limit_ms"` // 0 counts up
}

// SoundConfig controls the win chime.
type SoundConfig struct {
	Enabled bool    `yaml:"enabled"`
	File    string  `yaml:"file"`   // Optional wav/mp3/ogg fanfare, synthesized when empty
	Volume  float64 `yaml:"volume"` // Gain in beep's exponential steps, 0 is unchanged
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Animation: AnimationConfig{
			RotateMS: int(animator.DefaultDuration / time.Millisecond),
			BlurTaps: animator.DefaultBlurTaps,
			PopScale: animator.DefaultPopScale,
		},
		Pieces: render.DefaultPieces,
		Images: []string{"builtin:*"},
		Levels: []LevelConfig{
			{Name: "Grayscale", Filters: []string{"grayscale(1)"}},
			{Name: "Dim", Shuffle: true, Filters: []string{"brightness(0.3)", "brightness(0.3)"}, TimeLimitMS: 20000},
			{Name: "Negative", Shuffle: true, Filters: []string{"invert(1)", "grayscale(1)", "brightness(0.3)"}, TimeLimitMS: 15000},
		},
	}
}

// Validate reports the first problem in the configuration.
func (c Config) Validate() error {
	if len(c.Levels) == 0 {
		return ErrNoLevels
	}
	if c.Pieces != 0 && !render.ValidPieces(c.Pieces) {
		return fmt.Errorf("config: pieces must be one of %v, got %d", render.PieceCounts(), c.Pieces)
	}
	if c.Animation.RotateMS < 0 || c.Animation.BlurTaps < 0 || c.Animation.BlurWindowMS < 0 || c.Animation.PopScale < 0 {
		return errors.New("config: animation values must not be negative")
	}
	for i, l := range c.Levels {
		if l.TimeLimitMS < 0 {
			return fmt.Errorf("config: level %d: negative time_limit_ms", i+1)
		}
		for _, f := range l.Filters {
			if _, err := render.ParseFilterChain(f); err != nil {
				return fmt.Errorf("config: level %d: %w", i+1, err)
			}
		}
	}
	if c.Sound.Volume < -10 || c.Sound.Volume > 5 {
		return fmt.Errorf("config: sound volume %.1f out of range [-10, 5]", c.Sound.Volume)
	}
	return nil
}

// PuzzleLevels converts the level list into puzzle levels.
func (c Config) PuzzleLevels() ([]puzzle.Level, error) {
	if len(c.Levels) == 0 {
		return nil, ErrNoLevels
	}
	out := make([]puzzle.Level, len(c.Levels))
	for i, l := range c.Levels {
		name := l.Name
		if name == "" {
			name = fmt.Sprintf("Level %d", i+1)
		}
		lvl := puzzle.Level{
			Name:      name,
			Shuffle:   l.Shuffle,
			TimeLimit: time.Duration(l.TimeLimitMS) * time.Millisecond,
		}
		for _, f := range l.Filters {
			chain, err := render.ParseFilterChain(f)
			if err != nil {
				return nil, fmt.Errorf("config: level %d: %w", i+1, err)
			}
			lvl.Filters = append(lvl.Filters, chain)
		}
		out[i] = lvl
	}
	return out, nil
}

// Apply copies the animation tuning, piece count and levels into opts.
// Images are left to the caller, which expands them first.
func (c Config) Apply(opts *puzzle.Options) error {
	levels, err := c.PuzzleLevels()
	if err != nil {
		return err
	}
	opts.Levels = levels
	if c.Pieces != 0 {
		opts.Pieces = c.Pieces
	}

	a := c.Animation
	opts.Duration = time.Duration(a.RotateMS) * time.Millisecond
	opts.BlurTaps = a.BlurTaps
	opts.PopScale = a.PopScale
	opts.BlurWindow = time.Duration(a.BlurWindowMS) * time.Millisecond
	if a.BlurWindowMS == 0 {
		opts.BlurWindow = opts.Duration * 8 / 100
	}
	return nil
}
