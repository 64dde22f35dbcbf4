package timer

import (
	"errors"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{0, "00:00.000"},
		{1500 * time.Millisecond, "00:01.500"},
		{59*time.Second + 999*time.Millisecond, "00:59.999"},
		{time.Minute, "01:00.000"},
		{61*time.Minute + 2*time.Second + 3*time.Millisecond, "61:02.003"},
		{120*time.Minute + 1, "120:00.000"},
		{999 * time.Microsecond, "00:00.000"},
		{-time.Second, "00:00.000"},
	}

	for _, tt := range tests {
		if got := Format(tt.d); got != tt.expected {
			t.Errorf("Format(%v) = %q, expected %q", tt.d, got, tt.expected)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00.000", "00:59.999", "01:00.000", "01:00.001", "12:34.567", "120:00.000"} {
		d, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := Format(d); got != s {
			t.Errorf("Format(Parse(%q)) = %q", s, got)
		}
	}
}

func TestParseOrdering(t *testing.T) {
	prev, _ := Parse("01:00.000")
	better, _ := Parse("00:59.999")
	worse, _ := Parse("01:00.001")
	if !(better < prev) {
		t.Error("00:59.999 should be less than 01:00.000")
	}
	if worse < prev {
		t.Error("01:00.001 should not be less than 01:00.000")
	}
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{"", "01:00", "1.5", "aa:bb.ccc", "00:60.000", "00:10.1000", "-1:00.000"} {
		if _, err := Parse(s); !errors.Is(err, ErrBadFormat) {
			t.Errorf("Parse(%q) error = %v, expected ErrBadFormat", s, err)
		}
	}
}

func TestCountUp(t *testing.T) {
	t0 := time.Unix(100, 0)
	tm := New(0)
	tm.Start(t0)

	r := tm.Read(t0.Add(2500 * time.Millisecond))
	if r.Countdown || r.Danger || r.Expired {
		t.Errorf("count-up reading has countdown flags: %+v", r)
	}
	if r.Elapsed != 2500*time.Millisecond || r.Display != "00:02.500" {
		t.Errorf("reading = %+v", r)
	}
}

func TestCountdownDangerAndExpiry(t *testing.T) {
	t0 := time.Unix(0, 0)
	tm := New(15 * time.Second)
	tm.Start(t0)

	tests := []struct {
		name    string
		at      time.Duration
		display string
		danger  bool
		expired bool
	}{
		{"start", 0, "00:15.000", false, false},
		{"before danger", 4999 * time.Millisecond, "00:10.001", false, false},
		{"danger edge", 5 * time.Second, "00:10.000", true, false},
		{"almost out", 14999 * time.Millisecond, "00:00.001", true, false},
		{"exactly zero", 15 * time.Second, "00:00.000", false, true},
		{"past zero", 20 * time.Second, "00:00.000", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tm.Read(t0.Add(tt.at))
			if r.Display != tt.display || r.Danger != tt.danger || r.Expired != tt.expired {
				t.Errorf("Read(+%v) = %+v, expected display=%s danger=%v expired=%v",
					tt.at, r, tt.display, tt.danger, tt.expired)
			}
			if !r.Countdown {
				t.Error("Countdown = false")
			}
		})
	}
}

func TestStopFreezesAndStartRestarts(t *testing.T) {
	t0 := time.Unix(0, 0)
	tm := New(0)
	tm.Start(t0)
	tm.Stop(t0.Add(3 * time.Second))

	if tm.Running() {
		t.Error("Running() after Stop")
	}
	if got := tm.Elapsed(t0.Add(time.Hour)); got != 3*time.Second {
		t.Errorf("frozen elapsed = %v, expected 3s", got)
	}

	tm.Stop(t0.Add(10 * time.Second)) // second stop keeps the first value
	if got := tm.Elapsed(t0); got != 3*time.Second {
		t.Errorf("elapsed after double stop = %v", got)
	}

	tm.Start(t0.Add(time.Minute))
	if got := tm.Elapsed(t0.Add(time.Minute + time.Second)); got != time.Second {
		t.Errorf("elapsed after restart = %v, expected 1s", got)
	}
}

func TestNegativeLimitCountsUp(t *testing.T) {
	tm := New(-time.Second)
	if tm.Limit() != 0 {
		t.Errorf("Limit() = %v", tm.Limit())
	}
	if tm.Read(time.Unix(0, 0)).Countdown {
		t.Error("negative limit should count up")
	}
}
