// Package audio plays the celebration chime after the final level.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// SampleRate is the speaker rate; decoded files are resampled to it.
const SampleRate = beep.SampleRate(44100)

var ErrUnsupportedFormat = errors.New("audio: unsupported file format")

// Config selects what the chime plays.
type Config struct {
	File   string  // Optional wav, mp3 or ogg file; empty plays the built-in fanfare
	Volume float64 // Base-2 gain, 0 is unchanged
}

// Chime is a puzzle.Celebrator that plays a short sound. The speaker is
// opened on the first Celebrate; failures are logged once and the chime
// stays silent afterwards.
type Chime struct {
	cfg Config
	log *log.Logger

	once    sync.Once
	initErr error

	mu     sync.Mutex
	buffer *beep.Buffer
}

// NewChime creates a chime. A nil logger discards.
func NewChime(cfg Config, logger *log.Logger) *Chime {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Chime{cfg: cfg, log: logger}
}

// Celebrate starts playback and returns immediately.
func (c *Chime) Celebrate() {
	c.once.Do(func() {
		c.initErr = speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond))
		if c.initErr != nil {
			c.log.Warn("audio disabled", "error", c.initErr)
		}
	})
	if c.initErr != nil {
		return
	}

	s, err := c.Streamer()
	if err != nil {
		c.log.Warn("chime not played", "file", c.cfg.File, "error", err)
		return
	}
	speaker.Play(s)
}

// Streamer returns a fresh stream of the chime at SampleRate with the
// configured volume applied.
func (c *Chime) Streamer() (beep.Streamer, error) {
	var s beep.Streamer
	if c.cfg.File == "" {
		s = Fanfare(SampleRate)
	} else {
		buf, err := c.loadFile()
		if err != nil {
			return nil, err
		}
		s = buf.Streamer(0, buf.Len())
	}
	return newVolume(s, c.cfg.Volume), nil
}

func (c *Chime) loadFile() (*beep.Buffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buffer != nil {
		return c.buffer, nil
	}
	buf, err := DecodeFile(c.cfg.File)
	if err != nil {
		return nil, err
	}
	c.buffer = buf
	return buf, nil
}

// DecodeFile reads a wav, mp3 or ogg vorbis file fully into memory,
// resampled to SampleRate.
func DecodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	defer f.Close()

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".ogg", ".oga":
		stream, format, err = vorbis.Decode(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	defer stream.Close()

	var src beep.Streamer = stream
	if format.SampleRate != SampleRate {
		src = beep.Resample(4, format.SampleRate, SampleRate, stream)
	}

	out := beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}
	buf := beep.NewBuffer(out)
	buf.Append(src)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	return buf, nil
}

// newVolume wraps s in a base-2 volume effect.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol == 0 {
		return s
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: vol}
}
