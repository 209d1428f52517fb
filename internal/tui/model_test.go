package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/repository"
	"github.com/julianstephens/liftlog/internal/storage/sqlite"
	"github.com/julianstephens/liftlog/internal/timer"
	"github.com/julianstephens/liftlog/internal/tui/components/cardlist"
	"github.com/julianstephens/liftlog/internal/tui/components/planlist"
	"github.com/julianstephens/liftlog/internal/tui/components/timerwidget"
	"github.com/julianstephens/liftlog/internal/widget"
)

type fakeScheduler struct {
	enqueued  int
	cancelled int
}

func (f *fakeScheduler) Enqueue(string) (string, error) {
	f.enqueued++
	return "token", nil
}

func (f *fakeScheduler) Cancel(string) error {
	f.cancelled++
	return nil
}

type fixture struct {
	repo   *repository.Repository
	timers *timer.Service
	sched  *fakeScheduler
}

func setup(t *testing.T) (Model, fixture) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "liftlog.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	f := fixture{
		repo:   repository.New(store),
		timers: timer.New(store),
		sched:  &fakeScheduler{},
	}
	host := widget.NewHost(f.repo, f.timers, f.sched, constants.WorkerName)
	return NewModel(context.Background(), f.repo, f.timers, host), f
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and feeds any message its command produces back into the model
func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	m, cmd := update(t, m, k)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			m, _ = update(t, m, msg)
		}
	}
	return m
}

func activePlan(t *testing.T, f fixture, cards ...models.ExerciseCard) []models.ExerciseCard {
	t.Helper()
	ctx := context.Background()
	var ids []int64
	var saved []models.ExerciseCard
	for _, c := range cards {
		s, err := f.repo.SaveCard(ctx, c)
		require.NoError(t, err)
		ids = append(ids, s.ID)
		saved = append(saved, s)
	}
	_, err := f.repo.SavePlan(ctx, models.TrainingPlan{Name: "Push day", CardIDs: ids, Active: true})
	require.NoError(t, err)
	return saved
}

func TestTabsCycle(t *testing.T) {
	m, _ := setup(t)
	assert.Equal(t, constants.StateWidget, m.state)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, constants.StateCards, m.state)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, constants.StateSessions, m.state)
}

func TestWidgetEmptyWithoutPlan(t *testing.T) {
	m, _ := setup(t)
	assert.True(t, m.widgetModel.Current().Empty)
	assert.Contains(t, m.View(), "No active training plan")
}

func TestWidgetSelectAndStart(t *testing.T) {
	m, f := setup(t)
	activePlan(t, f, models.ExerciseCard{Name: "Bench", Timers: []int{60, 90}})
	m.refreshWidget()

	v := m.widgetModel.Current()
	require.False(t, v.Empty)
	require.Len(t, v.Chips, 2)

	m = press(t, m, runes("2"))
	state, err := f.timers.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 90, state.SelectedSeconds)
	assert.True(t, m.widgetModel.Current().Chips[1].Selected)

	m = press(t, m, runes("s"))
	state, _ = f.timers.State(context.Background())
	assert.True(t, state.Running)
	assert.Equal(t, 1, f.sched.enqueued)
	assert.Equal(t, "RUNNING", m.widgetModel.Current().Status)

	m = press(t, m, runes("p"))
	state, _ = f.timers.State(context.Background())
	assert.False(t, state.Running)
	assert.Equal(t, 1, f.sched.cancelled)
	assert.Equal(t, constants.StateWidget, m.state)
}

func TestWidgetIgnoresKeysNotOffered(t *testing.T) {
	m, f := setup(t)
	activePlan(t, f, models.ExerciseCard{Name: "Plank"})
	m.refreshWidget()

	_, cmd := update(t, m, runes("s"))
	assert.Nil(t, cmd, "card without timers offers no start")

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Nil(t, cmd, "single card offers no navigation")
}

func TestPollPicksUpRedraw(t *testing.T) {
	m, f := setup(t)
	activePlan(t, f, models.ExerciseCard{Name: "Squat", Timers: []int{30}})
	before := m.revision

	_, err := f.timers.SelectDuration(context.Background(), 30)
	require.NoError(t, err)

	m, cmd := update(t, m, pollMsg{})
	assert.NotNil(t, cmd, "poll reschedules itself")
	assert.Greater(t, m.revision, before)
	assert.Equal(t, "00:30", m.widgetModel.Current().TimerText)
}

func TestDeleteCardInUseShowsAlert(t *testing.T) {
	m, f := setup(t)
	cards := activePlan(t, f, models.ExerciseCard{Name: "Deadlift", Timers: []int{120}})
	m.state = constants.StateCards

	handled, _ := m.handleMessages(cardlist.DeleteCardMsg{ID: cards[0].ID, Name: cards[0].Name})
	require.True(t, handled)
	assert.Equal(t, constants.StateConfirmDelete, m.state)
	require.NotNil(t, m.pendingAction)

	action := m.pendingAction
	m.closeForm()
	action(&m)

	assert.Equal(t, constants.StateAlert, m.state)
	assert.Contains(t, m.alert, "part of a training plan")

	m, _ = update(t, m, runes("x"))
	assert.Equal(t, constants.StateCards, m.state)

	_, err := f.repo.GetCard(context.Background(), cards[0].ID)
	assert.NoError(t, err, "card survives a refused delete")
}

func TestEscAbortsForm(t *testing.T) {
	m, _ := setup(t)
	m.state = constants.StateCards

	handled, _ := m.handleMessages(cardlist.AddCardMsg{})
	require.True(t, handled)
	assert.Equal(t, constants.StateEditCard, m.state)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, constants.StateCards, m.state)
	assert.Nil(t, m.form)
}

func TestPlanFormNeedsCards(t *testing.T) {
	m, _ := setup(t)
	m.state = constants.StatePlans

	handled, _ := m.handleMessages(planlist.AddPlanMsg{})
	require.True(t, handled)
	assert.Equal(t, constants.StateAlert, m.state)
	assert.Contains(t, m.alert, "add an exercise card")
}

func TestActivatePlanFromList(t *testing.T) {
	m, f := setup(t)
	ctx := context.Background()
	card, err := f.repo.SaveCard(ctx, models.ExerciseCard{Name: "Row", Timers: []int{60}})
	require.NoError(t, err)
	plan, err := f.repo.SavePlan(ctx, models.TrainingPlan{Name: "Pull day", CardIDs: []int64{card.ID}})
	require.NoError(t, err)
	m.refreshWidget()
	require.True(t, m.widgetModel.Current().Empty)

	handled, _ := m.handleMessages(planlist.ActivatePlanMsg{ID: plan.ID})
	require.True(t, handled)

	assert.Equal(t, "Plan activated", m.status)
	assert.Equal(t, "Pull day", m.widgetModel.Current().PlanName)
	assert.Equal(t, 1, f.sched.cancelled, "activation stops the countdown worker")
}

func TestSessionsStartAndFinish(t *testing.T) {
	m, f := setup(t)
	ctx := context.Background()
	card, err := f.repo.SaveCard(ctx, models.ExerciseCard{Name: "Curl"})
	require.NoError(t, err)

	handled, _ := m.handleMessages(cardlist.StartSessionMsg{Card: card})
	require.True(t, handled)
	assert.Contains(t, m.status, "Curl")

	m.state = constants.StateSessions
	m.setSize(120, 40)
	assert.Contains(t, m.sessionsModel.View(), "in progress")

	m, _ = update(t, m, runes("f"))
	assert.Equal(t, "Session completed", m.status)

	logs, err := f.repo.ListSessions(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Completed)
	assert.NotNil(t, logs[0].EndedAt)

	m, _ = update(t, m, runes("f"))
	assert.Equal(t, "No session in progress", m.status)
}

func TestTimerWidgetRender(t *testing.T) {
	out := timerwidget.Render(widget.Render(widget.Input{
		Plan:             &models.TrainingPlan{Name: "Legs"},
		Cards:            []models.ExerciseCard{{Name: "Squat", Timers: []int{30, 90}}, {Name: "Lunge"}},
		RemainingSeconds: 90,
		SelectedSeconds:  90,
	}))

	for _, want := range []string{"Legs", "Squat", "01:30", "1:30s", "2:90s", "START"} {
		assert.True(t, strings.Contains(out, want), "missing %q in\n%s", want, out)
	}
	assert.NotContains(t, out, "PAUSE")
}

func TestArrangeCards(t *testing.T) {
	tests := []struct {
		name     string
		previous []int64
		selected []int64
		order    string
		want     []int64
		wantErr  string
	}{
		{name: "new plan keeps list order", selected: []int64{5, 3, 1}, want: []int64{5, 3, 1}},
		{name: "order moves named cards first", selected: []int64{5, 3, 1}, order: "1, #3", want: []int64{1, 3, 5}},
		{name: "edit keeps plan order", previous: []int64{1, 5}, selected: []int64{5, 3, 1}, want: []int64{1, 5, 3}},
		{name: "deselected card in prefilled order is skipped", previous: []int64{1, 5}, selected: []int64{5}, order: "1,5", want: []int64{5}},
		{name: "unknown card", selected: []int64{5}, order: "7", wantErr: "not selected"},
		{name: "duplicate", selected: []int64{5, 3}, order: "3,3", wantErr: "listed twice"},
		{name: "garbage", selected: []int64{5}, order: "five", wantErr: "not a card ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := arrangeCards(tt.previous, tt.selected, tt.order)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
