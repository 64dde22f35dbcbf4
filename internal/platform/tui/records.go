package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-blocka/internal/puzzle"
	"github.com/vovakirdan/tui-blocka/internal/storage"
	"github.com/vovakirdan/tui-blocka/internal/timer"
)

// StatsSource is implemented by record stores that keep a solve history.
type StatsSource interface {
	AllLevelStats() (map[int]*storage.LevelStats, error)
}

// RecordsKeyMap defines the key bindings for the records overlay.
type RecordsKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RecordsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k RecordsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Back}}
}

// DefaultRecordsKeyMap returns default key bindings.
func DefaultRecordsKeyMap() RecordsKeyMap {
	return RecordsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "t", "q"),
			key.WithHelp("esc/t", "back"),
		),
	}
}

// RecordsView lists every level with its best time.
type RecordsView struct {
	table  table.Model
	help   help.Model
	keys   RecordsKeyMap
	r      *lipgloss.Renderer
	width  int
	height int
	rows   []table.Row
}

// NewRecordsView builds the overlay from the game's levels and records.
// stats may be nil.
func NewRecordsView(game *puzzle.Game, stats StatsSource, r *lipgloss.Renderer, width, height int) *RecordsView {
	v := &RecordsView{
		help:   help.New(),
		keys:   DefaultRecordsKeyMap(),
		r:      r,
		width:  width,
		height: height,
	}
	v.rows = recordRows(game, stats)
	v.table = v.createTable()
	return v
}

func recordRows(game *puzzle.Game, stats StatsSource) []table.Row {
	var byLevel map[int]*storage.LevelStats
	if stats != nil {
		byLevel, _ = stats.AllLevelStats()
	}

	rows := make([]table.Row, 0, len(game.Levels()))
	for i, lvl := range game.Levels() {
		mode := "fixed"
		if lvl.Shuffle {
			mode = "shuffled"
		}
		limit := "-"
		if lvl.Countdown() {
			limit = timer.Format(lvl.TimeLimit)
		}
		best, _ := game.Record(i)
		solves := "-"
		if st, ok := byLevel[i]; ok {
			solves = fmt.Sprintf("%d", st.Solves)
		}
		rows = append(rows, table.Row{fmt.Sprintf("%d", i+1), lvl.Name, mode, limit, best, solves})
	}
	return rows
}

// createTable creates a new table with appropriate columns.
func (v *RecordsView) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Level", Width: 14},
		{Title: "Mode", Width: 9},
		{Title: "Limit", Width: 10},
		{Title: "Best", Width: 10},
		{Title: "Solves", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(v.rows),
		table.WithFocused(true),
		table.WithHeight(max(min(len(v.rows)+1, v.height-8), 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Update handles a message. It returns true when the overlay should close.
func (v *RecordsView) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, v.keys.Back) {
			return true, nil
		}
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		v.table = v.createTable()
		v.help.Width = msg.Width
		return false, nil
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return false, cmd
}

// View renders the overlay.
func (v *RecordsView) View() string {
	var b strings.Builder

	titleStyle := v.r.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Width(v.width).
		Align(lipgloss.Center)
	b.WriteString(titleStyle.Render("BEST TIMES"))
	b.WriteString("\n\n")

	tableStyle := v.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(lipgloss.PlaceHorizontal(v.width, lipgloss.Center, tableStyle.Render(v.table.View())))
	b.WriteString("\n")

	helpStyle := v.r.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(v.help.View(v.keys)))
	return b.String()
}
