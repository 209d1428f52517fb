package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/liftlog/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateWidget:
		content = m.widgetModel.View()
	case constants.StateCards:
		content = docStyle.Render(m.cardList.View())
	case constants.StatePlans:
		content = docStyle.Render(m.planList.View())
	case constants.StateSessions:
		content = docStyle.Render(m.sessionsModel.View())
	case constants.StateEditCard, constants.StateEditPlan:
		content = m.viewForm()
	case constants.StateConfirmDelete:
		content = m.center(m.form.View())
	case constants.StateAlert:
		content = m.viewAlert()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewStatus(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active >= constants.SessionState(len(tabTitles)) {
		active = m.returnState
	}
	tabs := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		if active == constants.SessionState(i) {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = inactiveTabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	return statusStyle.Render(m.status)
}

func (m Model) viewForm() string {
	if m.formError == "" {
		return docStyle.Render(m.form.View())
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		dangerStyle.Render(m.formError),
		"",
		m.form.View(),
	))
}

func (m Model) viewAlert() string {
	return m.center(lipgloss.JoinVertical(lipgloss.Center,
		dangerStyle.Render(m.alert),
		"",
		"Press any key to continue",
	))
}

func (m Model) center(s string) string {
	if m.width == 0 || m.height == 0 {
		return s
	}
	return lipgloss.Place(m.width, max(m.height-4, 0), lipgloss.Center, lipgloss.Center, s)
}
