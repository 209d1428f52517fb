package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/liftlog/internal/constants"
	liftErrors "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/tui/components/cardlist"
	"github.com/julianstephens/liftlog/internal/tui/components/planlist"
	"github.com/julianstephens/liftlog/internal/tui/components/timerwidget"
)

const tabCount = 4

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil
	case pollMsg:
		m.pollTimer()
		return m, poll()
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateEditCard:
		cmd = m.updateCardForm(msg)
		return m, cmd
	case constants.StateEditPlan:
		cmd = m.updatePlanForm(msg)
		return m, cmd
	case constants.StateConfirmDelete:
		cmd = m.updateConfirmation(msg)
		return m, cmd
	case constants.StateAlert:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.alert = ""
			m.state = m.returnState
		}
		return m, nil
	}

	if handled, c := m.handleMessages(msg); handled {
		return m, c
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			m.status = ""
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			m.status = ""
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if m.state == constants.StateSessions {
			switch {
			case key.Matches(msg, m.keys.Finish):
				m.finishOpenSession(true)
				return m, nil
			case key.Matches(msg, m.keys.Abandon):
				m.finishOpenSession(false)
				return m, nil
			}
		}
	}

	switch m.state {
	case constants.StateWidget:
		m.widgetModel, cmd = m.widgetModel.Update(msg)
	case constants.StateCards:
		m.cardList, cmd = m.cardList.Update(msg)
	case constants.StatePlans:
		m.planList, cmd = m.planList.Update(msg)
	case constants.StateSessions:
		m.sessionsModel, cmd = m.sessionsModel.Update(msg)
	}
	return m, cmd
}

// filtering is true while a list swallows keys for its filter prompt
func (m Model) filtering() bool {
	switch m.state {
	case constants.StateCards:
		return m.cardList.Filtering()
	case constants.StatePlans:
		return m.planList.Filtering()
	}
	return false
}

func (m *Model) handleMessages(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case timerwidget.ActionMsg:
		if _, err := m.host.Dispatch(m.ctx, msg.Action); err != nil {
			m.showAlert(err)
		}
		m.refreshWidget()
		return true, nil

	case cardlist.AddCardMsg:
		m.editingCard = &models.ExerciseCard{}
		m.cardForm = &CardFormModel{}
		return true, m.openForm(NewCardForm(m.cardForm), constants.StateEditCard)

	case cardlist.EditCardMsg:
		card := msg.Card
		m.editingCard = &card
		m.cardForm = &CardFormModel{
			Name:        card.Name,
			Description: card.Description,
			Timers:      append([]int(nil), card.Timers...),
		}
		return true, m.openForm(NewCardForm(m.cardForm), constants.StateEditCard)

	case cardlist.DeleteCardMsg:
		id := msg.ID
		return true, m.confirm(fmt.Sprintf("Delete exercise card %q?", msg.Name), func(m *Model) tea.Cmd {
			if err := m.repo.DeleteCard(m.ctx, id); err != nil {
				m.showAlert(err)
				return nil
			}
			m.status = "Card deleted"
			m.refreshCards()
			return nil
		})

	case cardlist.StartSessionMsg:
		if _, err := m.repo.StartSession(m.ctx, msg.Card.ID); err != nil {
			m.showAlert(err)
			return true, nil
		}
		m.status = fmt.Sprintf("Session started for %s", msg.Card.Name)
		m.refreshSessions()
		return true, nil

	case planlist.AddPlanMsg:
		m.editingPlan = &models.TrainingPlan{}
		m.planForm = &PlanFormModel{}
		return true, m.openPlanForm()

	case planlist.EditPlanMsg:
		plan := msg.Plan
		m.editingPlan = &plan
		m.planForm = &PlanFormModel{
			Name:    plan.Name,
			CardIDs: append([]int64(nil), plan.CardIDs...),
			Order:   joinIDs(plan.CardIDs),
			Active:  plan.Active,
		}
		return true, m.openPlanForm()

	case planlist.DeletePlanMsg:
		id := msg.ID
		return true, m.confirm(fmt.Sprintf("Delete training plan %q?", msg.Name), func(m *Model) tea.Cmd {
			if err := m.repo.DeletePlan(m.ctx, id); err != nil {
				m.showAlert(err)
				return nil
			}
			m.status = "Plan deleted"
			m.refreshPlans()
			m.refreshWidget()
			return nil
		})

	case planlist.ActivatePlanMsg:
		if err := m.repo.SetActivePlan(m.ctx, msg.ID); err != nil {
			m.showAlert(err)
			return true, nil
		}
		m.host.StopCountdown()
		m.status = "Plan activated"
		m.refreshPlans()
		m.refreshWidget()
		return true, nil
	}
	return false, nil
}

func (m *Model) openForm(f *huh.Form, state constants.SessionState) tea.Cmd {
	m.form = f
	m.formError = ""
	m.returnState = m.state
	m.state = state
	return m.form.Init()
}

func (m *Model) openPlanForm() tea.Cmd {
	cards, err := m.repo.ListCards(m.ctx)
	if err != nil {
		m.showAlert(err)
		return nil
	}
	if len(cards) == 0 {
		m.showAlert(errors.New("add an exercise card before creating a plan"))
		return nil
	}
	return m.openForm(NewPlanForm(m.planForm, cards), constants.StateEditPlan)
}

// confirm opens a yes/no dialog. action runs against the model current at
// confirmation time, not the one that opened the dialog.
func (m *Model) confirm(message string, action func(*Model) tea.Cmd) tea.Cmd {
	m.confirmForm = &ConfirmationFormModel{Message: message}
	m.pendingAction = action
	return m.openForm(NewConfirmationForm(m.confirmForm), constants.StateConfirmDelete)
}

func (m *Model) showAlert(err error) {
	logger.Debug("TUI action failed", "error", err)
	m.alert = describe(err)
	if m.state != constants.StateAlert {
		m.returnState = m.state
	}
	m.state = constants.StateAlert
}

// describe turns domain errors into a sentence for the alert dialog
func describe(err error) string {
	switch {
	case errors.Is(err, liftErrors.ErrCardInUse):
		return "This card is part of a training plan. Remove it from the plan first.\n" + err.Error()
	case liftErrors.IsValidation(err):
		return "Invalid input: " + err.Error()
	default:
		return err.Error()
	}
}

// stepForm feeds msg to the open form. It reports done when the form left
// the normal state; esc aborts.
func (m *Model) stepForm(msg tea.Msg) (tea.Cmd, huh.FormState) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		return nil, huh.StateAborted
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return cmd, m.form.State
}

func (m *Model) closeForm() {
	m.form = nil
	m.formError = ""
	m.state = m.returnState
}

func (m *Model) updateCardForm(msg tea.Msg) tea.Cmd {
	cmd, state := m.stepForm(msg)
	switch state {
	case huh.StateCompleted:
		card := *m.editingCard
		card.Name = m.cardForm.Name
		card.Description = m.cardForm.Description
		card.Timers = m.cardForm.Timers
		if _, err := m.repo.SaveCard(m.ctx, card); err != nil {
			// keep the form open so the input can be corrected
			m.formError = describe(err)
			m.form.State = huh.StateNormal
			return cmd
		}
		m.status = "Card saved"
		m.refreshCards()
		m.refreshPlans()
		m.refreshWidget()
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return cmd
}

func (m *Model) updatePlanForm(msg tea.Msg) tea.Cmd {
	cmd, state := m.stepForm(msg)
	switch state {
	case huh.StateCompleted:
		plan := *m.editingPlan
		plan.Name = m.planForm.Name
		plan.Active = m.planForm.Active
		ids, err := arrangeCards(m.editingPlan.CardIDs, m.planForm.CardIDs, m.planForm.Order)
		if err == nil {
			plan.CardIDs = ids
			_, err = m.repo.SavePlan(m.ctx, plan)
		}
		if err != nil {
			m.formError = describe(err)
			m.form.State = huh.StateNormal
			return cmd
		}
		m.status = "Plan saved"
		m.refreshPlans()
		m.refreshWidget()
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return cmd
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func (m *Model) updateConfirmation(msg tea.Msg) tea.Cmd {
	cmd, state := m.stepForm(msg)
	switch state {
	case huh.StateCompleted:
		action := m.pendingAction
		confirmed := m.confirmForm.Confirmed
		m.pendingAction = nil
		m.closeForm()
		if confirmed && action != nil {
			return tea.Batch(cmd, action(m))
		}
	case huh.StateAborted:
		m.pendingAction = nil
		m.closeForm()
	}
	return cmd
}

func (m *Model) finishOpenSession(completed bool) {
	logs, err := m.repo.ListSessions(m.ctx, 0)
	if err != nil {
		m.showAlert(err)
		return
	}
	for _, s := range logs {
		if s.EndedAt != nil {
			continue
		}
		if _, err := m.repo.FinishSession(m.ctx, s.ID, completed); err != nil {
			m.showAlert(err)
			return
		}
		if completed {
			m.status = "Session completed"
		} else {
			m.status = "Session abandoned"
		}
		m.refreshSessions()
		return
	}
	m.status = "No session in progress"
}
