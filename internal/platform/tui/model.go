package tui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blocka/internal/core"
	"github.com/vovakirdan/tui-blocka/internal/imagebank"
	"github.com/vovakirdan/tui-blocka/internal/platform/session"
	"github.com/vovakirdan/tui-blocka/internal/puzzle"
)

var (
	borderIdle    = color.RGBA{R: 90, G: 90, B: 100, A: 255}
	borderCursor  = color.RGBA{R: 250, G: 210, B: 90, A: 255}
	borderPicked  = color.RGBA{R: 220, G: 110, B: 240, A: 255}
	borderCorrect = color.RGBA{R: 110, G: 210, B: 120, A: 255}
	textTitle     = color.RGBA{R: 235, G: 235, B: 210, A: 255}
	textDim       = color.RGBA{R: 140, G: 140, B: 150, A: 255}
)

// Model is the Bubble Tea model for one player's puzzle.
type Model struct {
	ctx      context.Context
	sess     *session.Session
	fx       *Celebration
	stats    StatsSource
	keys     *KeyMapper
	help     help.Model
	renderer *lipgloss.Renderer
	screens  *ScreenRenderer
	screen   *core.Screen
	records  *RecordsView
	log      *log.Logger
	now      func() time.Time

	config   core.RuntimeConfig
	layout   boardLayout
	drag     int // Slot under a left press, -1 when none
	framing  bool
	loading  bool
	quitting bool
}

// NewModel creates a model with its own session. A nil renderer uses the
// default lipgloss renderer; extra celebrators (a chime) are told about the
// final win as well.
func NewModel(ctx context.Context, env session.Env, r *lipgloss.Renderer, extra ...puzzle.Celebrator) (Model, error) {
	cfg := env.Runtime.Normalize()
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	env.Runtime = cfg
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	fx := NewCelebration(cfg.FPS, cfg.Seed)
	sess, err := session.New(env, 1, 1, append([]puzzle.Celebrator{fx}, extra...)...)
	if err != nil {
		return Model{}, err
	}

	stats, _ := env.Records.(StatsSource)
	logger := env.Logger
	if logger == nil {
		logger = log.New(nil)
		logger.SetLevel(log.FatalLevel)
	}

	h := help.New()
	h.ShowAll = false

	return Model{
		ctx:      ctx,
		sess:     sess,
		fx:       fx,
		stats:    stats,
		keys:     NewKeyMapper(),
		help:     h,
		renderer: r,
		screens:  NewScreenRenderer(r),
		screen:   core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		log:      logger,
		now:      time.Now,
		config:   cfg,
		drag:     -1,
	}, nil
}

// Session returns the model's puzzle session.
func (m Model) Session() *session.Session {
	return m.sess
}

// Init requests the first preview.
func (m Model) Init() tea.Cmd {
	e := m.sess.Preview()
	if e.Setup == nil {
		return nil
	}
	return loadCmd(m.ctx, m.sess, e.Setup)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)
	case tea.MouseMsg:
		m, cmd = m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m, cmd = m.handleResize(msg)
	case FrameMsg:
		m, cmd = m.handleFrame(msg)
	case TimerMsg:
		m, cmd = m.handleTimer(msg)
	case SetupMsg:
		m, cmd = m.handleSetup(msg)
	case FxMsg:
		if m.fx.Step(time.Time(msg)) {
			cmd = fxCmd(m.config.FPS)
		}
	}

	if m.fx.Pending() {
		m.fx.Begin(m.now(), m.config.ScreenW, m.config.ScreenH-footerRows)
		cmd = tea.Batch(cmd, fxCmd(m.config.FPS))
	}
	if m.quitting {
		return m, tea.Quit
	}
	return m, cmd
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.records != nil {
		done, cmd := m.records.Update(msg)
		if done {
			m.records = nil
		}
		return m, cmd
	}

	if key.Matches(msg, m.keys.Keys.Records) {
		m.records = NewRecordsView(m.sess.Game(), m.stats, m.renderer, m.config.ScreenW, m.config.ScreenH)
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, nil
	}
	switch action {
	case core.ActionNone:
		return m, nil
	case core.ActionToggleHelp:
		m.help.ShowAll = !m.help.ShowAll
		m.relayout(m.now())
		return m, nil
	}
	return m.apply(m.sess.Apply(action, m.now()))
}

// handleMouse rotates on click and swaps on drag.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.records != nil {
		return m, nil
	}
	slot := m.layout.slotAt(msg.X, msg.Y)
	now := m.now()

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.drag = slot
		case tea.MouseButtonRight:
			return m.apply(m.sess.Click(slot, false, now))
		}
	case tea.MouseActionRelease:
		from := m.drag
		m.drag = -1
		switch {
		case from < 0 || slot < 0:
		case from == slot:
			return m.apply(m.sess.Click(slot, true, now))
		default:
			return m.apply(m.sess.Drop(from, slot, now))
		}
	}
	return m, nil
}

// apply schedules what an input asked for.
func (m Model) apply(e session.Effect) (Model, tea.Cmd) {
	if e.Quit {
		m.quitting = true
		return m, nil
	}
	var cmds []tea.Cmd
	if e.Frame && !m.framing {
		m.framing = true
		cmds = append(cmds, frameCmd(m.sess.Generation(), m.config.FPS))
	}
	if e.Setup != nil {
		m.loading = true
		cmds = append(cmds, loadCmd(m.ctx, m.sess, e.Setup))
	}
	return m, tea.Batch(cmds...)
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	m.relayout(m.now())

	var cmd tea.Cmd
	if m.records != nil {
		_, cmd = m.records.Update(msg)
	}
	return m, cmd
}

// relayout recomputes tile positions and resizes the slot surfaces.
func (m *Model) relayout(now time.Time) {
	in := m.sess.Game().Instance()
	if in == nil {
		m.layout = boardLayout{}
		return
	}
	b := in.Image.Bounds()
	height := m.config.ScreenH - m.helpRows()
	m.layout = computeLayout(m.config.ScreenW, height, b.Dx(), b.Dy(), in.Layout)
	if m.layout.fits() {
		m.sess.Resize(m.layout.tileW, m.layout.tileH, now)
	}
}

func (m Model) handleFrame(msg FrameMsg) (Model, tea.Cmd) {
	if msg.Gen != m.sess.Generation() {
		return m, nil
	}
	if m.sess.Frame(msg.Gen, msg.At) {
		return m, frameCmd(msg.Gen, m.config.FPS)
	}
	m.framing = false
	return m, nil
}

func (m Model) handleTimer(msg TimerMsg) (Model, tea.Cmd) {
	if msg.Gen != m.sess.Generation() {
		return m, nil
	}
	if m.sess.TimerTick(msg.Gen, msg.At) {
		return m, timerCmd(msg.Gen, m.config.FPS)
	}
	return m, nil
}

func (m Model) handleSetup(msg SetupMsg) (Model, tea.Cmd) {
	m.loading = false
	now := m.now()
	if !m.sess.Install(msg.Req, msg.Img, msg.Err, now) {
		return m, nil
	}
	m.framing = false
	m.drag = -1
	m.fx.Stop()
	m.relayout(now)
	if m.sess.Timed() {
		return m, timerCmd(m.sess.Generation(), m.config.FPS)
	}
	return m, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.records != nil {
		return m.records.View()
	}

	boardRows := max(m.config.ScreenH-footerRows-m.helpRows(), 0)
	m.screen.Resize(m.config.ScreenW, boardRows)
	m.screen.Clear()
	m.drawHeader()
	m.drawBoard()
	m.fx.Draw(m.screen)

	var b strings.Builder
	b.WriteString(m.screens.Render(m.screen))
	b.WriteString("\n")
	b.WriteString(m.timerLine())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.renderer.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys.Keys)))
	return b.String()
}

// helpRows is how many rows the expanded help adds over the short one.
func (m Model) helpRows() int {
	if !m.help.ShowAll {
		return 0
	}
	rows := 1
	for _, col := range m.keys.Keys.FullHelp() {
		rows = max(rows, len(col))
	}
	return rows - 1
}

func (m Model) drawHeader() {
	g := m.sess.Game()
	title := "BLOCKA"
	if in := g.Instance(); in != nil {
		lvl := g.Levels()[in.Level]
		title = fmt.Sprintf("BLOCKA  level %d/%d  %s  %s  [%s]",
			in.Level+1, len(g.Levels()), lvl.Name, in.Status, imagebank.Label(in.ImageURI))
	}
	m.screen.DrawTextCentered(0, title, textTitle)
}

func (m Model) drawBoard() {
	if m.sess.Game().Instance() == nil {
		m.screen.DrawTextCentered(m.screen.Height()/2, "Loading…", textDim)
		return
	}
	if !m.layout.fits() {
		m.screen.DrawTextCentered(m.screen.Height()/2, "Enlarge the terminal to play", textDim)
		return
	}

	board := m.sess.Board()
	hud := m.sess.HUD()
	for i, rect := range m.layout.tiles {
		border := borderIdle
		switch {
		case i == m.sess.Picked():
			border = borderPicked
		case i == m.sess.Cursor():
			border = borderCursor
		case hud.IsCorrect(i):
			border = borderCorrect
		}
		m.screen.DrawBox(rect, border)

		surface := board.Surface(i)
		if surface == nil {
			continue
		}
		inner := m.layout.inner(i)
		snap := surface.Snapshot()
		crop := image.Rect(0, 0, inner.W, inner.H*2).Add(snap.Rect.Min).Intersect(snap.Rect)
		m.screen.DrawImage(inner.X, inner.Y, snap.SubImage(crop).(*image.RGBA))
	}
}

func (m Model) timerLine() string {
	hud := m.sess.HUD()
	r := hud.Timer

	clock := m.renderer.NewStyle().Bold(true)
	var parts []string
	switch {
	case r.Expired:
		parts = append(parts, clock.Foreground(lipgloss.Color("196")).Render("⏱ "+r.Display+" time's up"))
	case r.Danger:
		parts = append(parts, clock.Foreground(lipgloss.Color("203")).Render("⏱ "+r.Display))
	default:
		parts = append(parts, clock.Foreground(lipgloss.Color("229")).Render("⏱ "+r.Display))
	}
	if r.Countdown {
		parts = append(parts, "left")
	}

	dim := m.renderer.NewStyle().Foreground(lipgloss.Color("245"))
	parts = append(parts, dim.Render("best "+hud.Record))
	if hud.NextEnabled {
		parts = append(parts, m.renderer.NewStyle().Foreground(lipgloss.Color("114")).Render("n: next level ▸"))
	}
	if hud.RestartEnabled {
		parts = append(parts, dim.Render("r: restart"))
	}
	return " " + strings.Join(parts, "   ")
}

func (m Model) statusLine() string {
	msg := m.sess.HUD().Message
	if m.loading {
		msg = "Loading image…"
	}
	return m.renderer.NewStyle().Italic(true).Foreground(lipgloss.Color("252")).Render(" " + msg)
}

// Run starts the Bubble Tea program for a local player.
func Run(ctx context.Context, env session.Env, extra ...puzzle.Celebrator) error {
	model, err := NewModel(ctx, env, nil, extra...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Clicks and drags on tiles
	)

	_, err = p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
