package core

// RuntimeConfig contains the settings a frontend is started with.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters or pixels
	ScreenH int   // Screen height in characters or pixels
	FPS     int   // Frame and timer ticks per second (default 60)
	Seed    int64 // RNG seed, 0 means the current time
	Pieces  int   // Initial grid size
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		FPS:     60,
		Pieces:  4,
	}
}

// Normalize fills zero or invalid fields with defaults.
func (c RuntimeConfig) Normalize() RuntimeConfig {
	d := DefaultConfig()
	if c.ScreenW <= 0 {
		c.ScreenW = d.ScreenW
	}
	if c.ScreenH <= 0 {
		c.ScreenH = d.ScreenH
	}
	if c.FPS <= 0 {
		c.FPS = d.FPS
	}
	if c.Pieces <= 0 {
		c.Pieces = d.Pieces
	}
	return c
}
