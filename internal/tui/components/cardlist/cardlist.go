package cardlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/liftlog/internal/models"
)

type AddCardMsg struct{}

type EditCardMsg struct {
	Card models.ExerciseCard
}

type DeleteCardMsg struct {
	ID   int64
	Name string
}

type StartSessionMsg struct {
	Card models.ExerciseCard
}

type Item struct {
	Card models.ExerciseCard
}

func (i Item) Title() string { return i.Card.Name }

func (i Item) Description() string {
	timers := "no timers"
	if i.Card.HasTimers() {
		labels := make([]string, len(i.Card.Timers))
		for n, s := range i.Card.Timers {
			labels[n] = fmt.Sprintf("%ds", s)
		}
		timers = strings.Join(labels, " ")
	}
	if i.Card.Description == "" {
		return timers
	}
	return i.Card.Description + " | " + timers
}

func (i Item) FilterValue() string { return i.Card.Name }

type KeyMap struct {
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Session key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Session: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "log session"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(cards []models.ExerciseCard, width, height int) Model {
	l := list.New(toItems(cards), list.NewDefaultDelegate(), width, height)
	l.Title = "Cards"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete, keys.Session}
	}

	return Model{list: l, keys: keys}
}

func toItems(cards []models.ExerciseCard) []list.Item {
	items := make([]list.Item, len(cards))
	for i, c := range cards {
		items[i] = Item{Card: c}
	}
	return items
}

func (m *Model) SetCards(cards []models.ExerciseCard) {
	m.list.SetItems(toItems(cards))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddCardMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditCardMsg(i) }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteCardMsg{ID: i.Card.ID, Name: i.Card.Name} }
			}
		case key.Matches(msg, m.keys.Session):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return StartSessionMsg(i) }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No exercise cards yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
