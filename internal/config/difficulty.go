package config

import (
	"fmt"
	"math"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyZen    DifficultyPreset = "zen" // No time limits
)

// MinTimeLimitMS is the shortest limit a preset scales a level down to.
const MinTimeLimitMS = 5000

// ParseDifficulty validates a preset name. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyZen:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (easy, normal, hard, zen)", s)
	}
}

// TimeScaleForPreset returns the factor applied to level time limits.
func TimeScaleForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 1.5
	case DifficultyHard:
		return 0.75
	default:
		return 1.0
	}
}

// ApplyDifficultyPreset scales every countdown level's limit, or removes
// the limits for zen. Count-up levels are untouched.
func ApplyDifficultyPreset(cfg *Config, preset DifficultyPreset) {
	scale := TimeScaleForPreset(preset)
	for i := range cfg.Levels {
		l := &cfg.Levels[i]
		if l.TimeLimitMS <= 0 {
			continue
		}
		if preset == DifficultyZen {
			l.TimeLimitMS = 0
			continue
		}
		limit := int(math.Round(float64(l.TimeLimitMS) * scale))
		l.TimeLimitMS = max(limit, min(l.TimeLimitMS, MinTimeLimitMS))
	}
}
