package sessions

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Width(24)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model is a scrollable log of recent sessions
type Model struct {
	viewport viewport.Model
	Sessions []models.SessionLog
	Cards    map[int64]string
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		Cards:    make(map[int64]string),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.Sessions) == 0 {
		return "\n  No sessions logged yet.\n  Press enter on a card to start one."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetSessions(sessions []models.SessionLog, cards []models.ExerciseCard) {
	m.Sessions = sessions
	m.Cards = make(map[int64]string, len(cards))
	for _, c := range cards {
		m.Cards[c.ID] = c.Name
	}
	m.Render()
}

func (m *Model) Render() {
	var b strings.Builder
	for _, s := range m.Sessions {
		name, ok := m.Cards[s.CardID]
		if !ok {
			name = fmt.Sprintf("card #%d", s.CardID)
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			timeStyle.Render(s.StartedAt.Local().Format(constants.DateTimeFormat)),
			cardStyle.Render(name),
			statusStyle.Render(s.Status()),
		))
	}
	m.viewport.SetContent(b.String())
}
