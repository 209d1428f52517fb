package widget

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/timer"
)

type fakePlans struct {
	plan  *models.TrainingPlan
	cards []models.ExerciseCard
	err   error
}

func (f *fakePlans) GetActivePlan(context.Context) (*models.TrainingPlan, error) {
	return f.plan, f.err
}

func (f *fakePlans) PlanCards(context.Context, models.TrainingPlan) ([]models.ExerciseCard, error) {
	return f.cards, nil
}

type fakeScheduler struct {
	enqueued  int
	cancelled int
	err       error
}

func (f *fakeScheduler) Enqueue(string) (string, error) {
	f.enqueued++
	return "token", f.err
}

func (f *fakeScheduler) Cancel(string) error {
	f.cancelled++
	return nil
}

func newTestHost(plans *fakePlans, initial models.TimerState) (*Host, *timer.MemoryStore, *fakeScheduler) {
	store := timer.NewMemoryStore(initial)
	sched := &fakeScheduler{}
	return NewHost(plans, timer.New(store), sched, "countdown"), store, sched
}

func TestHost_LoadDegradesToEmpty(t *testing.T) {
	host, _, _ := newTestHost(&fakePlans{err: errors.New("db locked")}, models.TimerState{})
	assert.True(t, host.View(context.Background()).Empty)

	host, _, _ = newTestHost(&fakePlans{}, models.TimerState{})
	assert.True(t, host.View(context.Background()).Empty)
}

func TestHost_LoadCarriesTimer(t *testing.T) {
	plans := &fakePlans{plan: &models.TrainingPlan{Name: "Legs"}, cards: testCards()}
	host, _, _ := newTestHost(plans, models.TimerState{Running: true, SelectedSeconds: 60, RemainingSeconds: 45, CardIndex: 0})

	in, state := host.Load(context.Background())
	assert.Equal(t, 45, in.RemainingSeconds)
	assert.True(t, in.Running)
	assert.Equal(t, 60, state.SelectedSeconds)
	assert.Equal(t, "00:45", Render(in).TimerText)
}

func TestHost_DispatchStartEnqueuesWorker(t *testing.T) {
	ctx := context.Background()
	plans := &fakePlans{plan: &models.TrainingPlan{Name: "Legs"}, cards: testCards()}
	host, store, sched := newTestHost(plans, models.TimerState{})

	_, err := host.Dispatch(ctx, Action{Kind: ActionStart})
	assert.ErrorIs(t, err, apperrors.ErrNoDurationSelected)
	assert.Zero(t, sched.enqueued)

	_, err = host.Dispatch(ctx, Action{Kind: ActionSelectDuration, Seconds: 90})
	require.NoError(t, err)

	state, err := host.Dispatch(ctx, Action{Kind: ActionStart})
	require.NoError(t, err)
	assert.True(t, state.Running)
	assert.Equal(t, 1, sched.enqueued)

	_, err = host.Dispatch(ctx, Action{Kind: ActionPause})
	require.NoError(t, err)
	assert.Equal(t, 1, sched.cancelled)

	st, _ := store.GetTimerState(ctx)
	assert.False(t, st.Running)
	assert.Equal(t, 90, st.RemainingSeconds)
}

func TestHost_DispatchStartRollsBackWhenWorkerFails(t *testing.T) {
	ctx := context.Background()
	host, store, sched := newTestHost(&fakePlans{}, models.TimerState{SelectedSeconds: 30, RemainingSeconds: 30})
	sched.err = errors.New("fork failed")

	_, err := host.Dispatch(ctx, Action{Kind: ActionStart})
	require.Error(t, err)

	st, _ := store.GetTimerState(ctx)
	assert.False(t, st.Running)
}

func TestHost_DispatchNavigation(t *testing.T) {
	ctx := context.Background()
	plans := &fakePlans{plan: &models.TrainingPlan{Name: "Legs"}, cards: testCards()}
	host, _, sched := newTestHost(plans, models.TimerState{SelectedSeconds: 60, RemainingSeconds: 60})

	for i := 0; i < 5; i++ {
		_, err := host.Dispatch(ctx, Action{Kind: ActionNextCard})
		require.NoError(t, err)
	}
	state, err := host.Dispatch(ctx, Action{Kind: ActionPreviousCard})
	require.NoError(t, err)
	assert.Equal(t, 1, state.CardIndex)
	assert.Zero(t, state.SelectedSeconds)
	assert.Equal(t, 6, sched.cancelled)

	v := host.View(ctx)
	assert.Equal(t, "Plank", v.CardName)
}

func TestHost_DispatchResetAndUnknown(t *testing.T) {
	ctx := context.Background()
	host, _, _ := newTestHost(&fakePlans{}, models.TimerState{Running: true, SelectedSeconds: 120, RemainingSeconds: 3})

	state, err := host.Dispatch(ctx, Action{Kind: ActionReset})
	require.NoError(t, err)
	assert.Equal(t, 120, state.RemainingSeconds)
	assert.False(t, state.Running)

	_, err = host.Dispatch(ctx, Action{Kind: "dance"})
	assert.Error(t, err)
}
