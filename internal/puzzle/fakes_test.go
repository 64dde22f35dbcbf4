package puzzle

import (
	"context"
	"errors"
	"image"
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/tui-blocka/internal/render"
	"github.com/vovakirdan/tui-blocka/internal/timer"
)

type fakeUI struct {
	correct   map[int]bool
	next      bool
	restart   bool
	reading   timer.Reading
	records   map[int]string
	announced []string
}

func newFakeUI() *fakeUI {
	return &fakeUI{correct: map[int]bool{}, records: map[int]string{}}
}

func (u *fakeUI) SetCorrect(slot int, ok bool)    { u.correct[slot] = ok }
func (u *fakeUI) SetNextEnabled(enabled bool)     { u.next = enabled }
func (u *fakeUI) SetRestartEnabled(enabled bool)  { u.restart = enabled }
func (u *fakeUI) SetTimer(r timer.Reading)        { u.reading = r }
func (u *fakeUI) SetRecord(level int, rec string) { u.records[level] = rec }
func (u *fakeUI) Announce(msg string)             { u.announced = append(u.announced, msg) }

type fakeCanvas struct {
	resets int
	paints int
	views  map[int]render.SlotView
}

func (c *fakeCanvas) Reset(image.Image, render.GridLayout) {
	c.resets++
	c.views = map[int]render.SlotView{}
}

func (c *fakeCanvas) Paint(slot int, v render.SlotView) {
	c.paints++
	c.views[slot] = v
}

type fakeCelebrator struct{ calls int }

func (f *fakeCelebrator) Celebrate() { f.calls++ }

type memStore struct {
	values map[string]string
	solves []Solve
	err    error
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) Record(key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStore) SetRecord(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *memStore) LogSolve(s Solve) error {
	m.solves = append(m.solves, s)
	return nil
}

type fakeLoader struct {
	err   error
	calls []string
}

func (l *fakeLoader) Load(_ context.Context, uri string) (image.Image, error) {
	l.calls = append(l.calls, uri)
	if l.err != nil {
		return nil, l.err
	}
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

var errNetwork = errors.New("network down")

func fixedArrangement(rotations, quadrants []int) Arranger {
	return func(_ *rand.Rand, pieces int, _ bool) ([]int, []int) {
		r := make([]int, pieces)
		q := make([]int, pieces)
		copy(r, rotations)
		for i := range q {
			q[i] = i
		}
		if quadrants != nil {
			copy(q, quadrants)
		}
		return r, q
	}
}

type harness struct {
	game   *Game
	ui     *fakeUI
	canvas *fakeCanvas
	party  *fakeCelebrator
	store  *memStore
	loader *fakeLoader
	t0     time.Time
}

func newHarness(t *testing.T, levels []Level, arrange Arranger) *harness {
	t.Helper()
	h := &harness{
		ui:     newFakeUI(),
		canvas: &fakeCanvas{views: map[int]render.SlotView{}},
		party:  &fakeCelebrator{},
		store:  newMemStore(),
		loader: &fakeLoader{},
		t0:     time.Unix(1_700_000_000, 0),
	}
	opts := DefaultOptions()
	opts.Levels = levels
	opts.Images = []string{"builtin:a", "builtin:b", "builtin:c"}
	opts.Seed = 42
	opts.Arrange = arrange
	opts.Loader = h.loader
	opts.Canvas = h.canvas
	opts.UI = h.ui
	opts.Celebrator = h.party
	opts.Records = h.store

	g, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.game = g
	return h
}

func (h *harness) setup(t *testing.T, kind SetupKind, at time.Duration) *Instance {
	t.Helper()
	in, err := h.game.Setup(context.Background(), kind, h.t0.Add(at))
	if err != nil {
		t.Fatalf("Setup(%v): %v", kind, err)
	}
	return in
}

// settle ticks the frame loop until it stops, returning the stop time.
func (h *harness) settle(t *testing.T, from time.Duration) time.Duration {
	t.Helper()
	at := from
	for i := 0; i < 1000; i++ {
		if !h.game.Frame(h.game.Generation(), h.t0.Add(at)) {
			return at
		}
		at += 16 * time.Millisecond
	}
	t.Fatal("frame loop never settled")
	return at
}
