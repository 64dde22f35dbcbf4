package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-blocka/internal/puzzle"
	"github.com/vovakirdan/tui-blocka/internal/render"
)

func TestEmbeddedDefaultMatchesDefaultConfig(t *testing.T) {
	cfg, err := Parse(Default())
	if err != nil {
		t.Fatalf("Parse(embedded): %v", err)
	}
	def := DefaultConfig()

	if cfg.Animation != def.Animation {
		t.Errorf("animation = %+v, expected %+v", cfg.Animation, def.Animation)
	}
	if cfg.Pieces != def.Pieces || len(cfg.Levels) != len(def.Levels) {
		t.Errorf("pieces=%d levels=%d", cfg.Pieces, len(cfg.Levels))
	}
	for i := range def.Levels {
		got, want := cfg.Levels[i], def.Levels[i]
		if got.Name != want.Name || got.Shuffle != want.Shuffle || got.TimeLimitMS != want.TimeLimitMS ||
			strings.Join(got.Filters, "|") != strings.Join(want.Filters, "|") {
			t.Errorf("level %d = %+v, expected %+v", i+1, got, want)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := `
pieces: 8
animation:
  rotate_ms: 100
levels:
  - name: Only
    shuffle: true
    filters: ["sepia(1)"]
    time_limit_ms: 9000
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pieces != 8 || cfg.Animation.RotateMS != 100 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Animation.BlurTaps != DefaultConfig().Animation.BlurTaps {
		t.Error("missing keys should keep defaults")
	}
	if len(cfg.Levels) != 1 || cfg.Levels[0].Name != "Only" {
		t.Errorf("levels = %+v", cfg.Levels)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("levels: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrNoLevels) {
		t.Errorf("error = %v, expected ErrNoLevels", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"no levels", func(c *Config) { c.Levels = nil }, false},
		{"bad pieces", func(c *Config) { c.Pieces = 5 }, false},
		{"zero pieces uses default", func(c *Config) { c.Pieces = 0 }, true},
		{"negative rotate", func(c *Config) { c.Animation.RotateMS = -1 }, false},
		{"bad filter", func(c *Config) { c.Levels[0].Filters = []string{"blur(3px)"} }, false},
		{"negative limit", func(c *Config) { c.Levels[1].TimeLimitMS = -5 }, false},
		{"loud", func(c *Config) { c.Sound.Volume = 9 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, expected ok=%v", err, tt.ok)
			}
		})
	}
}

func TestApply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pieces = 6
	cfg.Animation.RotateMS = 500

	opts := puzzle.Options{}
	if err := cfg.Apply(&opts); err != nil {
		t.Fatal(err)
	}
	if opts.Pieces != 6 || opts.Duration != 500*time.Millisecond {
		t.Errorf("opts = %+v", opts)
	}
	if opts.BlurWindow != 40*time.Millisecond {
		t.Errorf("BlurWindow = %v, expected 8%% of 500ms", opts.BlurWindow)
	}
	if len(opts.Levels) != 3 {
		t.Fatalf("levels = %d", len(opts.Levels))
	}
	l3 := opts.Levels[2]
	if !l3.Shuffle || l3.TimeLimit != 15*time.Second || len(l3.Filters) != 3 {
		t.Errorf("level 3 = %+v", l3)
	}
	if l3.Filters[0].String() != render.MustParseFilterChain("invert(1)").String() {
		t.Errorf("level 3 filter 0 = %q", l3.Filters[0])
	}

	cfg.Animation.BlurWindowMS = 30
	_ = cfg.Apply(&opts)
	if opts.BlurWindow != 30*time.Millisecond {
		t.Errorf("explicit BlurWindow = %v", opts.BlurWindow)
	}
}

func TestPuzzleLevelsNames(t *testing.T) {
	cfg := Config{Levels: []LevelConfig{{}, {Name: "B"}}}
	levels, err := cfg.PuzzleLevels()
	if err != nil {
		t.Fatal(err)
	}
	if levels[0].Name != "Level 1" || levels[1].Name != "B" {
		t.Errorf("names = %q, %q", levels[0].Name, levels[1].Name)
	}
}
