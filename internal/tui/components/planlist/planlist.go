package planlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/liftlog/internal/models"
)

type AddPlanMsg struct{}

type EditPlanMsg struct {
	Plan models.TrainingPlan
}

type DeletePlanMsg struct {
	ID   int64
	Name string
}

type ActivatePlanMsg struct {
	ID int64
}

type Item struct {
	Plan      models.TrainingPlan
	CardNames []string
}

func (i Item) Title() string {
	if i.Plan.Active {
		return "● " + i.Plan.Name
	}
	return "○ " + i.Plan.Name
}

func (i Item) Description() string {
	if len(i.CardNames) == 0 {
		return "no cards"
	}
	return fmt.Sprintf("%d cards | %s", len(i.CardNames), strings.Join(i.CardNames, ", "))
}

func (i Item) FilterValue() string { return i.Plan.Name }

type KeyMap struct {
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Activate key.Binding
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
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "activate"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Plans"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete, keys.Activate}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

// SetPlans replaces the items. cardNames resolves card ids for the description line.
func (m *Model) SetPlans(plans []models.TrainingPlan, cardNames map[int64]string) {
	items := make([]list.Item, len(plans))
	for i, p := range plans {
		names := make([]string, 0, len(p.CardIDs))
		for _, id := range p.CardIDs {
			if name, ok := cardNames[id]; ok {
				names = append(names, name)
			}
		}
		items[i] = Item{Plan: p, CardNames: names}
	}
	m.list.SetItems(items)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddPlanMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditPlanMsg{Plan: i.Plan} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeletePlanMsg{ID: i.Plan.ID, Name: i.Plan.Name} }
			}
		case key.Matches(msg, m.keys.Activate):
			if i, ok := m.list.SelectedItem().(Item); ok && !i.Plan.Active {
				return m, func() tea.Msg { return ActivatePlanMsg{ID: i.Plan.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No training plans yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
