// Package timer measures a level's play time, counting up or, when the level
// has a limit, counting down to a timeout.
package timer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DangerThreshold is the remaining time at or below which a countdown is flagged.
const DangerThreshold = 10 * time.Second

// ErrBadFormat is returned by Parse for strings not shaped like "MM:SS.mmm".
var ErrBadFormat = errors.New("timer: bad time format")

// Reading is the timer state at one instant.
type Reading struct {
	Elapsed   time.Duration
	Remaining time.Duration // Zero for count-up timers
	Display   string        // Remaining for countdowns, elapsed otherwise
	Countdown bool
	Danger    bool // Countdown with DangerThreshold or less left, not yet expired
	Expired   bool // Countdown reached zero
	Running   bool
}

// Timer is a start/stop stopwatch with an optional limit.
// It holds no goroutines; callers sample it with Read.
type Timer struct {
	limit   time.Duration
	start   time.Time
	frozen  time.Duration
	running bool
}

// New creates a stopped timer. A limit of zero or less counts up.
func New(limit time.Duration) *Timer {
	if limit < 0 {
		limit = 0
	}
	return &Timer{limit: limit}
}

// Limit returns the countdown limit, zero for count-up timers.
func (t *Timer) Limit() time.Duration {
	return t.limit
}

// Start (re)starts the timer from zero at now.
func (t *Timer) Start(now time.Time) {
	t.start = now
	t.frozen = 0
	t.running = true
}

// Stop freezes the elapsed time at now. Stopping a stopped timer does nothing.
func (t *Timer) Stop(now time.Time) {
	if !t.running {
		return
	}
	t.frozen = t.elapsed(now)
	t.running = false
}

// Running reports whether the timer is counting.
func (t *Timer) Running() bool {
	return t.running
}

// Elapsed returns the time counted so far.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	if !t.running {
		return t.frozen
	}
	return t.elapsed(now)
}

func (t *Timer) elapsed(now time.Time) time.Duration {
	d := now.Sub(t.start)
	if d < 0 {
		return 0
	}
	return d
}

// Read samples the timer at now.
func (t *Timer) Read(now time.Time) Reading {
	r := Reading{
		Elapsed: t.Elapsed(now),
		Running: t.running,
	}
	if t.limit <= 0 {
		r.Display = Format(r.Elapsed)
		return r
	}

	r.Countdown = true
	r.Remaining = t.limit - r.Elapsed
	if r.Remaining <= 0 {
		r.Remaining = 0
		r.Expired = true
	}
	r.Danger = !r.Expired && r.Remaining <= DangerThreshold
	r.Display = Format(r.Remaining)
	return r
}

// Format renders d as "MM:SS.mmm", truncating to the millisecond.
// Minutes grow past two digits when needed.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}

// Parse reads a "MM:SS.mmm" string produced by Format.
func Parse(s string) (time.Duration, error) {
	mm, rest, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrBadFormat, s)
	}
	ss, mmm, ok := strings.Cut(rest, ".")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrBadFormat, s)
	}

	m, err1 := strconv.Atoi(mm)
	sec, err2 := strconv.Atoi(ss)
	milli, err3 := strconv.Atoi(mmm)
	if err := errors.Join(err1, err2, err3); err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrBadFormat, s, err)
	}
	if m < 0 || sec < 0 || sec > 59 || milli < 0 || milli > 999 {
		return 0, fmt.Errorf("%w: %q out of range", ErrBadFormat, s)
	}

	return time.Duration(m)*time.Minute + time.Duration(sec)*time.Second + time.Duration(milli)*time.Millisecond, nil
}
