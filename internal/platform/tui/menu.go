package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-invaders/internal/config"
	"github.com/vovakirdan/tui-invaders/internal/core"
	"github.com/vovakirdan/tui-invaders/internal/games/invaders"
	"github.com/vovakirdan/tui-invaders/internal/registry"
	"github.com/vovakirdan/tui-invaders/internal/storage"
)

// MenuChoice is what the player decided on the title screen.
type MenuChoice int

const (
	MenuPending MenuChoice = iota
	MenuPlay
	MenuScores
	MenuQuit
)

// Difficulties offered by the menu, in cycle order.
var menuDifficulties = []config.DifficultyPreset{
	config.DifficultyNormal,
	config.DifficultyHard,
	config.DifficultyFixed,
	config.DifficultyEasy,
}

// sideBlurbs describes each mode on its card.
var sideBlurbs = map[string]string{
	invaders.IDCommand: "You are the fleet.\nTap or press space to fire.",
	invaders.IDDefend:  "You are the defender.\nSteer with ←/→, fire with ↑.",
}

// Side is one selectable mode on the title screen.
type Side struct {
	GameID string
	Title  string
	Blurb  string
	Best   int
}

// MenuModel is the title screen: pick a side and a difficulty.
type MenuModel struct {
	sides      []Side
	cursor     int
	difficulty int
	config     core.RuntimeConfig
	keys       *KeyMapper
	help       help.Model
	choice     MenuChoice
}

// NewMenuModel lists the registered modes with their best scores.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	var sides []Side
	for _, info := range registry.List() {
		side := Side{GameID: info.ID, Title: info.Title, Blurb: sideBlurbs[info.ID]}
		if store != nil {
			if best, err := store.HighScore(info.ID); err == nil {
				side.Best = best
			}
		}
		sides = append(sides, side)
	}

	h := help.New()
	h.Width = cfg.ScreenW
	return MenuModel{sides: sides, config: cfg, keys: NewKeyMapper(), help: h}
}

func (m MenuModel) Init() tea.Cmd { return nil }

// Update moves the cursor, cycles difficulty and records the choice.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		n := len(menuDifficulties)
		switch m.keys.MapKeyToMenuAction(msg) {
		case MenuActionUp:
			m.cursor = max(m.cursor-1, 0)
		case MenuActionDown:
			m.cursor = min(m.cursor+1, max(len(m.sides)-1, 0))
		case MenuActionLeft:
			m.difficulty = (m.difficulty + n - 1) % n
		case MenuActionRight:
			m.difficulty = (m.difficulty + 1) % n
		case MenuActionSelect:
			if len(m.sides) > 0 {
				return m.decide(MenuPlay)
			}
		case MenuActionScoreboard:
			return m.decide(MenuScores)
		case MenuActionQuit, MenuActionBack:
			return m.decide(MenuQuit)
		}
	}
	return m, nil
}

func (m MenuModel) decide(c MenuChoice) (tea.Model, tea.Cmd) {
	m.choice = c
	return m, tea.Quit
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	menuDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	sideCardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 2).
			Width(32)
	sidePickedStyle = sideCardStyle.
			BorderForeground(lipgloss.Color("229")).
			Bold(true)
)

// View draws the title, the side cards and the difficulty selector.
func (m MenuModel) View() string {
	if m.choice != MenuPending {
		return ""
	}
	width := m.config.ScreenW

	cards := make([]string, len(m.sides))
	for i, side := range m.sides {
		cards[i] = m.card(i, side)
	}
	var board string
	if len(cards)*(sideCardStyle.GetWidth()+2) <= width {
		board = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	} else {
		board = lipgloss.JoinVertical(lipgloss.Center, cards...)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		centerStyled(menuTitleStyle, "  I N V A D E R S  ", width),
		"",
		centerText("Choose a side", width),
		"",
		lipgloss.PlaceHorizontal(width, lipgloss.Center, board),
		"",
		centerText(fmt.Sprintf("Difficulty: < %s >", m.Difficulty()), width),
		"",
		centerStyled(menuDimStyle, m.help.ShortHelpView(m.keys.Keys().ShortHelp()), width),
	)
}

func (m MenuModel) card(i int, side Side) string {
	style := sideCardStyle
	if i == m.cursor {
		style = sidePickedStyle
	}
	lines := []string{side.Title, ""}
	if side.Blurb != "" {
		lines = append(lines, menuDimStyle.Render(side.Blurb), "")
	}
	if side.Best > 0 {
		lines = append(lines, fmt.Sprintf("best %d", side.Best))
	} else {
		lines = append(lines, menuDimStyle.Render("no scores yet"))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// Choice returns the decision, MenuPending while the menu is open.
func (m MenuModel) Choice() MenuChoice { return m.choice }

// GameID returns the mode under the cursor.
func (m MenuModel) GameID() string {
	if len(m.sides) == 0 {
		return ""
	}
	return m.sides[m.cursor].GameID
}

// Difficulty returns the preset shown in the menu.
func (m MenuModel) Difficulty() config.DifficultyPreset {
	return menuDifficulties[m.difficulty]
}

// Config returns the runtime config, resized if the window changed.
func (m MenuModel) Config() core.RuntimeConfig { return m.config }

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	return strings.Repeat(" ", max(width-lipgloss.Width(text), 0)/2) + text
}

// centerStyled centers text by its visible width and then styles it.
func centerStyled(style lipgloss.Style, text string, width int) string {
	return strings.Repeat(" ", max(width-lipgloss.Width(text), 0)/2) + style.Render(text)
}

// MenuResult is what RunMenu hands back to the caller.
type MenuResult struct {
	Choice     MenuChoice
	GameID     string
	Difficulty config.DifficultyPreset
	Config     core.RuntimeConfig
}

// RunMenu shows the title screen in its own program.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	final, err := tea.NewProgram(NewMenuModel(store, cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{Choice: MenuQuit, Config: cfg}, err
	}
	m, ok := final.(MenuModel)
	if !ok || m.Choice() == MenuPending {
		return MenuResult{Choice: MenuQuit, Config: cfg}, nil
	}
	return MenuResult{
		Choice:     m.Choice(),
		GameID:     m.GameID(),
		Difficulty: m.Difficulty(),
		Config:     m.Config(),
	}, nil
}
