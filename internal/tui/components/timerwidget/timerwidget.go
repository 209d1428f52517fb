package timerwidget

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/liftlog/internal/widget"
)

var (
	planStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(1, 0).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Width(40).
			Align(lipgloss.Center)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	chipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	selectedChipStyle = chipStyle.
				Foreground(lipgloss.Color("205")).
				BorderForeground(lipgloss.Color("205")).
				Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 2).
			MarginRight(1)

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Padding(0, 2).
			MarginRight(1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 2)
)

// ActionMsg asks the host to apply a widget tap
type ActionMsg struct {
	Action widget.Action
}

type KeyMap struct {
	Chips [4]key.Binding
	Start key.Binding
	Pause key.Binding
	Reset key.Binding
	Prev  key.Binding
	Next  key.Binding
}

func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev card"),
		),
		Next: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next card"),
		),
	}
	for i := range km.Chips {
		k := fmt.Sprintf("%d", i+1)
		km.Chips[i] = key.NewBinding(key.WithKeys(k), key.WithHelp(k, "select timer"))
	}
	return km
}

type Model struct {
	current widget.View
	keys    KeyMap
	width   int
	height  int
}

func New() Model {
	return Model{keys: DefaultKeyMap(), current: widget.View{Empty: true}}
}

func (m *Model) SetView(v widget.View) {
	m.current = v
}

func (m Model) Current() widget.View {
	return m.current
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp lists only the keys the current view offers
func (m Model) ShortHelp() []key.Binding {
	var keys []key.Binding
	v := m.current
	if len(v.Chips) > 0 {
		keys = append(keys, m.keys.Chips[0])
	}
	if v.ShowStart {
		keys = append(keys, m.keys.Start)
	}
	if v.ShowPause {
		keys = append(keys, m.keys.Pause)
	}
	if v.ShowReset {
		keys = append(keys, m.keys.Reset)
	}
	if v.ShowNav {
		keys = append(keys, m.keys.Prev, m.keys.Next)
	}
	return keys
}

// ActionFor maps a key press to the tap it stands for. Keys the view does
// not currently offer map to nothing.
func (m Model) ActionFor(msg tea.KeyMsg) (widget.Action, bool) {
	var a widget.Action
	switch {
	case key.Matches(msg, m.keys.Start):
		a = widget.Action{Kind: widget.ActionStart}
	case key.Matches(msg, m.keys.Pause):
		a = widget.Action{Kind: widget.ActionPause}
	case key.Matches(msg, m.keys.Reset):
		a = widget.Action{Kind: widget.ActionReset}
	case key.Matches(msg, m.keys.Prev):
		a = widget.Action{Kind: widget.ActionPreviousCard}
	case key.Matches(msg, m.keys.Next):
		a = widget.Action{Kind: widget.ActionNextCard}
	default:
		for i, b := range m.keys.Chips {
			if key.Matches(msg, b) && i < len(m.current.Chips) {
				a = m.current.Chips[i].Action
			}
		}
	}
	if a.Kind == "" || !m.current.Offers(a) {
		return widget.Action{}, false
	}
	return a, true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if a, ok := m.ActionFor(msg); ok {
			return m, func() tea.Msg { return ActionMsg{Action: a} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	content := Render(m.current)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

// Render draws a widget view without any surrounding layout
func Render(v widget.View) string {
	if v.Empty {
		return emptyStyle.Render("No active training plan.\nActivate one on the Plans tab.")
	}

	card := v.CardName
	if v.CardDescription != "" {
		card += "\n" + lipgloss.NewStyle().Bold(false).Foreground(lipgloss.Color("245")).Render(v.CardDescription)
	}

	rows := []string{
		planStyle.Render(fmt.Sprintf("%s · card %d of %d", v.PlanName, v.CardPosition, v.CardCount)),
		cardStyle.Render(card),
		clockStyle.Render(v.TimerText),
	}
	if v.Status != "" {
		rows = append(rows, statusStyle.Render(v.Status))
	}

	if len(v.Chips) > 0 {
		chips := make([]string, len(v.Chips))
		for i, c := range v.Chips {
			label := fmt.Sprintf("%d:%s", i+1, c.Label)
			if c.Selected {
				chips[i] = selectedChipStyle.Render(label)
			} else {
				chips[i] = chipStyle.Render(label)
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, chips...))
	}

	var buttons []string
	if v.ShowNav {
		buttons = append(buttons, button("◀", v.PrevEnabled))
	}
	if v.ShowStart {
		buttons = append(buttons, button("START", true))
	}
	if v.ShowPause {
		buttons = append(buttons, button("PAUSE", true))
	}
	if v.ShowReset {
		buttons = append(buttons, button("RESET", true))
	}
	if v.ShowNav {
		buttons = append(buttons, button("▶", v.NextEnabled))
	}
	if len(buttons) > 0 {
		rows = append(rows, "", lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	}

	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

func button(label string, enabled bool) string {
	if enabled {
		return buttonStyle.Render(label)
	}
	return disabledStyle.Render(strings.ToLower(label))
}
