package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/repository"
	"github.com/julianstephens/liftlog/internal/timer"
	"github.com/julianstephens/liftlog/internal/tui/components/cardlist"
	"github.com/julianstephens/liftlog/internal/tui/components/planlist"
	"github.com/julianstephens/liftlog/internal/tui/components/sessions"
	"github.com/julianstephens/liftlog/internal/tui/components/timerwidget"
	"github.com/julianstephens/liftlog/internal/widget"
)

// pollInterval is how often the widget tab checks the timer revision
const pollInterval = time.Second

var tabTitles = []string{"Widget", "Cards", "Plans", "Sessions"}

type pollMsg time.Time

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

type Model struct {
	ctx    context.Context
	repo   *repository.Repository
	timers *timer.Service
	host   *widget.Host

	state       constants.SessionState
	returnState constants.SessionState
	keys        KeyMap
	help        help.Model

	widgetModel   timerwidget.Model
	cardList      cardlist.Model
	planList      planlist.Model
	sessionsModel sessions.Model

	form          *huh.Form
	cardForm      *CardFormModel
	planForm      *PlanFormModel
	confirmForm   *ConfirmationFormModel
	editingCard   *models.ExerciseCard
	editingPlan   *models.TrainingPlan
	pendingAction func(*Model) tea.Cmd
	formError     string
	alert         string
	status        string

	// revision of the timer record the widget tab last rendered
	revision int64
	quitting bool
	width    int
	height   int
}

func NewModel(ctx context.Context, repo *repository.Repository, timers *timer.Service, host *widget.Host) Model {
	m := Model{
		ctx:           ctx,
		repo:          repo,
		timers:        timers,
		host:          host,
		state:         constants.StateWidget,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		widgetModel:   timerwidget.New(),
		cardList:      cardlist.New(nil, 0, 0),
		planList:      planlist.New(0, 0),
		sessionsModel: sessions.New(0, 0),
	}
	m.refreshAll()
	return m
}

func (m Model) Init() tea.Cmd {
	return poll()
}

// Run starts the TUI on the alternate screen and blocks until it exits
func Run(ctx context.Context, repo *repository.Repository, timers *timer.Service, host *widget.Host) error {
	p := tea.NewProgram(NewModel(ctx, repo, timers, host), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateWidget:
		keys = append(keys, m.widgetModel.ShortHelp()...)
	case constants.StateCards:
		cl := cardlist.DefaultKeyMap()
		keys = append(keys, cl.Add, cl.Edit, cl.Delete, cl.Session)
	case constants.StatePlans:
		pl := planlist.DefaultKeyMap()
		keys = append(keys, pl.Add, pl.Edit, pl.Delete, pl.Activate)
	case constants.StateSessions:
		keys = append(keys, m.keys.Finish, m.keys.Abandon)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}
	return [][]key.Binding{global, navigation, m.ShortHelp()[3:]}
}

func (m *Model) refreshAll() {
	m.refreshWidget()
	m.refreshCards()
	m.refreshPlans()
	m.refreshSessions()
}

func (m *Model) refreshWidget() {
	in, state := m.host.Load(m.ctx)
	m.widgetModel.SetView(widget.Render(in))
	m.revision = state.Revision
}

func (m *Model) refreshCards() {
	cards, err := m.repo.ListCards(m.ctx)
	if err != nil {
		logger.Warn("Failed to load cards for TUI", "error", err)
		return
	}
	m.cardList.SetCards(cards)
}

func (m *Model) refreshPlans() {
	plans, err := m.repo.ListPlans(m.ctx)
	if err != nil {
		logger.Warn("Failed to load plans for TUI", "error", err)
		return
	}
	cards, err := m.repo.ListCards(m.ctx)
	if err != nil {
		logger.Warn("Failed to load cards for TUI", "error", err)
	}
	names := make(map[int64]string, len(cards))
	for _, c := range cards {
		names[c.ID] = c.Name
	}
	m.planList.SetPlans(plans, names)
}

func (m *Model) refreshSessions() {
	logs, err := m.repo.ListSessions(m.ctx, 0)
	if err != nil {
		logger.Warn("Failed to load sessions for TUI", "error", err)
		return
	}
	cards, _ := m.repo.ListCards(m.ctx)
	m.sessionsModel.SetSessions(logs, cards)
}

// pollTimer re-renders the widget when the timer record announced a redraw
func (m *Model) pollTimer() {
	state, err := m.timers.State(m.ctx)
	if err != nil {
		logger.Debug("Timer poll failed", "error", err)
		return
	}
	if state.Revision != m.revision {
		m.refreshWidget()
	}
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	// tabs, status line and help take four rows; docStyle pads two more on each axis
	w, h := max(width-4, 0), max(height-6, 0)
	m.widgetModel.SetSize(width, max(height-4, 0))
	m.cardList.SetSize(w, h)
	m.planList.SetSize(w, h)
	m.sessionsModel.SetSize(w, h)
}
