package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// note is one tone of the fanfare.
type note struct {
	freq float64
	dur  time.Duration
}

// fanfareNotes is a rising C major arpeggio ending on a held octave.
var fanfareNotes = []note{
	{523.25, 110 * time.Millisecond},
	{659.25, 110 * time.Millisecond},
	{783.99, 110 * time.Millisecond},
	{1046.50, 420 * time.Millisecond},
}

// FanfareDuration is the total length of Fanfare.
func FanfareDuration() time.Duration {
	var d time.Duration
	for _, n := range fanfareNotes {
		d += n.dur
	}
	return d
}

// Fanfare returns the built-in celebration chime.
func Fanfare(rate beep.SampleRate) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(fanfareNotes))
	for _, n := range fanfareNotes {
		parts = append(parts, newTone(n.freq, n.dur, rate))
	}
	return beep.Seq(parts...)
}

// tone is a sine with a second harmonic under a short attack and an
// exponential decay.
type tone struct {
	freq     float64
	rate     float64
	position int
	total    int
	attack   int
}

func newTone(freq float64, dur time.Duration, rate beep.SampleRate) *tone {
	return &tone{
		freq:   freq,
		rate:   float64(rate),
		total:  rate.N(dur),
		attack: rate.N(8 * time.Millisecond),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}
		sec := float64(t.position) / t.rate
		phase := 2 * math.Pi * t.freq * sec
		val := 0.8*math.Sin(phase) + 0.2*math.Sin(2*phase)

		env := math.Exp(-4 * float64(t.position) / float64(t.total))
		if t.position < t.attack {
			env *= float64(t.position) / float64(t.attack)
		}
		val *= 0.5 * env

		samples[i][0] = val
		samples[i][1] = val
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }
