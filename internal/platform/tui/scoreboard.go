package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-invaders/internal/registry"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

const (
	statsCardWidth = 26  // Width of the per-mode stats card
	minWidthStats  = 78  // Below this the card collapses into one line
	maxScores      = 100 // Rows loaded per mode
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	WinsOnly key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.WinsOnly, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.WinsOnly, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/→", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab/←", "prev mode"),
		),
		WinsOnly: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "wins only"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	boardTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	boardActiveTab  = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("22")).
			Padding(0, 1)
	boardPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("28")).
			Padding(0, 1)
	boardDimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardWinStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// ScoreboardModel shows the best runs of each mode with their totals.
type ScoreboardModel struct {
	modes    []registry.GameInfo
	mode     int
	store    *storage.Store
	scores   []storage.ScoreEntry // Filtered view of all
	all      []storage.ScoreEntry
	stats    *storage.GameStats
	winsOnly bool

	table table.Model
	help  help.Model
	keys  ScoreboardKeyMap

	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard opened on the first mode.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	h := help.New()
	h.Width = width

	m := ScoreboardModel{
		modes:  registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.newTable()
	m.reload()
	return m
}

func (m ScoreboardModel) wide() bool {
	return m.width >= minWidthStats
}

// newTable sizes the columns to the space left beside the stats card.
func (m *ScoreboardModel) newTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Level", Width: 6},
		{Title: "Result", Width: 7},
		{Title: "When", Width: 12},
	}

	room := m.width - 6
	if m.wide() {
		room -= statsCardWidth + 4
	}
	if spare := room - 45; spare > 0 {
		columns[4].Width += min(spare, 8)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("28")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("22")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// reload fetches the selected mode's rows and totals.
func (m *ScoreboardModel) reload() {
	m.all, m.stats = nil, nil
	if m.store != nil && len(m.modes) > 0 {
		id := m.modes[m.mode].ID
		if scores, err := m.store.TopScores(id, maxScores); err == nil {
			m.all = scores
		}
		if stats, err := m.store.GetGameStats(id); err == nil {
			m.stats = stats
		}
	}
	m.refilter()
}

// refilter applies the wins-only toggle and refreshes the table. Ranks
// always refer to the unfiltered order.
func (m *ScoreboardModel) refilter() {
	m.scores = nil
	rows := make([]table.Row, 0, len(m.all))
	for i, s := range m.all {
		if m.winsOnly && !s.Won {
			continue
		}
		m.scores = append(m.scores, s)
		result := "lost"
		if s.Won {
			result = "won"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(s.Score),
			strconv.Itoa(s.Level),
			result,
			s.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) cycle(delta int) {
	if len(m.modes) == 0 {
		return
	}
	m.mode = (m.mode + delta + len(m.modes)) % len(m.modes)
	m.reload()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextMode):
			m.cycle(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevMode):
			m.cycle(-1)
			return m, nil
		case key.Matches(msg, m.keys.WinsOnly):
			m.winsOnly = !m.winsOnly
			m.refilter()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.refilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerStyled(boardTitleStyle, "H A L L   O F   F A M E", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n\n")

	body := boardPanelStyle.Render(m.tableView())
	if m.wide() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.statsCard())
	} else if line := m.statsLine(); line != "" {
		body += "\n" + line
	}
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(boardDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) tabs() string {
	tabs := make([]string, len(m.modes))
	for i, g := range m.modes {
		if i == m.mode {
			tabs[i] = boardActiveTab.Render(shortTitle(g.Title))
		} else {
			tabs[i] = boardTabStyle.Render(shortTitle(g.Title))
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 && len(m.modes) > 0 {
		return fmt.Sprintf("< %s >", shortTitle(m.modes[m.mode].Title))
	}
	return line
}

func (m ScoreboardModel) tableView() string {
	if len(m.scores) == 0 {
		msg := "No games recorded yet.\nFinish one to claim the top spot."
		if m.winsOnly && len(m.all) > 0 {
			msg = "No wins yet.\nPress w to show every game."
		}
		return boardDimStyle.Italic(true).Padding(2, 4).Render(msg)
	}
	return m.table.View()
}

// statsCard is the wide-layout summary beside the table.
func (m ScoreboardModel) statsCard() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Totals"))
	b.WriteString("\n")

	st := m.stats
	if st == nil || st.GamesCount == 0 {
		b.WriteString(boardDimStyle.Render("nothing yet"))
		return boardPanelStyle.Width(statsCardWidth).Render(b.String())
	}

	row := func(label, value string) {
		fmt.Fprintf(&b, "%-10s %s\n", label, value)
	}
	row("Games", strconv.Itoa(st.GamesCount))
	row("Wins", boardWinStyle.Render(fmt.Sprintf("%d (%s)", st.Wins, winRate(st))))
	row("Best", strconv.Itoa(st.HighScore))
	row("Level", strconv.Itoa(st.BestLevel))
	row("Average", fmt.Sprintf("%.0f", st.AvgScore))
	if !st.LastPlayed.IsZero() {
		row("Last", st.LastPlayed.Format("Jan 02 15:04"))
	}
	if m.winsOnly {
		b.WriteString(boardDimStyle.Render("showing wins only"))
	}
	return boardPanelStyle.Width(statsCardWidth).Render(strings.TrimRight(b.String(), "\n"))
}

// statsLine is the narrow-layout summary under the table.
func (m ScoreboardModel) statsLine() string {
	st := m.stats
	if st == nil || st.GamesCount == 0 {
		return ""
	}
	return boardDimStyle.Render(fmt.Sprintf(
		"%d games, %d won (%s), best level %d, average %.0f",
		st.GamesCount, st.Wins, winRate(st), st.BestLevel, st.AvgScore,
	))
}

func winRate(st *storage.GameStats) string {
	if st.GamesCount == 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", st.Wins*100/st.GamesCount)
}

// shortTitle drops the shared "Invaders: " prefix from mode titles.
func shortTitle(title string) string {
	return strings.TrimPrefix(title, "Invaders: ")
}

// Mode returns the ID of the mode on display.
func (m ScoreboardModel) Mode() string {
	if len(m.modes) == 0 {
		return ""
	}
	return m.modes[m.mode].ID
}

// Rows returns the entries currently listed.
func (m ScoreboardModel) Rows() []storage.ScoreEntry {
	return m.scores
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
