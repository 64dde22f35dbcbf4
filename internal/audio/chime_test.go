package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// drain reads s to the end and returns every sample.
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestFanfareLength(t *testing.T) {
	samples := drain(Fanfare(SampleRate))

	want := 0
	for _, n := range fanfareNotes {
		want += SampleRate.N(n.dur)
	}
	if len(samples) != want {
		t.Errorf("Fanfare length = %d samples, want %d", len(samples), want)
	}
	if SampleRate.D(want).Round(time.Millisecond) != FanfareDuration() {
		t.Errorf("FanfareDuration() = %v, want %v", FanfareDuration(), SampleRate.D(want))
	}
}

func TestFanfareAmplitude(t *testing.T) {
	samples := drain(Fanfare(SampleRate))

	var peak float64
	for i, s := range samples {
		if s[0] != s[1] {
			t.Fatalf("sample %d not mono: %v", i, s)
		}
		peak = math.Max(peak, math.Abs(s[0]))
	}
	if peak > 1 {
		t.Errorf("peak = %v, want <= 1", peak)
	}
	if peak < 0.1 {
		t.Errorf("peak = %v, fanfare is nearly silent", peak)
	}
	if samples[0][0] != 0 {
		t.Errorf("first sample = %v, want 0 (attack starts silent)", samples[0][0])
	}
}

func TestChimeStreamerVolume(t *testing.T) {
	loud := drain(mustStreamer(t, NewChime(Config{}, nil)))
	quiet := drain(mustStreamer(t, NewChime(Config{Volume: -1}, nil)))

	if len(loud) != len(quiet) {
		t.Fatalf("lengths differ: %d vs %d", len(loud), len(quiet))
	}
	i := len(loud) / 3
	if math.Abs(quiet[i][0]*2-loud[i][0]) > 1e-9 {
		t.Errorf("volume -1 should halve samples: %v vs %v", quiet[i][0], loud[i][0])
	}
}

func TestDecodeWavFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chime.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, Fanfare(SampleRate), format); err != nil {
		t.Fatalf("wav.Encode() failed: %v", err)
	}
	f.Close()

	buf, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile() failed: %v", err)
	}
	if got, want := buf.Len(), len(drain(Fanfare(SampleRate))); got != want {
		t.Errorf("decoded length = %d, want %d", got, want)
	}

	chime := NewChime(Config{File: path}, nil)
	if got := len(drain(mustStreamer(t, chime))); got != buf.Len() {
		t.Errorf("file chime length = %d, want %d", got, buf.Len())
	}
}

func TestDecodeFileErrors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "chime.txt")
	if err := os.WriteFile(txt, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeFile(txt); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("DecodeFile(.txt) error = %v, want ErrUnsupportedFormat", err)
	}

	if _, err := DecodeFile(filepath.Join(dir, "missing.wav")); err == nil {
		t.Error("DecodeFile(missing) should fail")
	}

	bad := filepath.Join(dir, "bad.wav")
	if err := os.WriteFile(bad, []byte("not a wave file"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeFile(bad); err == nil {
		t.Error("DecodeFile(bad.wav) should fail")
	}
}

func mustStreamer(t *testing.T, c *Chime) beep.Streamer {
	t.Helper()
	s, err := c.Streamer()
	if err != nil {
		t.Fatalf("Streamer() failed: %v", err)
	}
	return s
}
