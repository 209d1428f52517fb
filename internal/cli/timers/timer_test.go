package timers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/cli/clitest"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/worker"
)

func activePlan(t *testing.T, ctx *cli.Context, cards ...models.ExerciseCard) []models.ExerciseCard {
	t.Helper()
	var ids []int64
	var saved []models.ExerciseCard
	for _, c := range cards {
		s, err := ctx.Repo.SaveCard(ctx.Ctx, c)
		require.NoError(t, err)
		ids = append(ids, s.ID)
		saved = append(saved, s)
	}
	_, err := ctx.Repo.SavePlan(ctx.Ctx, models.TrainingPlan{Name: "Push", CardIDs: ids, Active: true})
	require.NoError(t, err)
	return saved
}

func TestTimerCommandsNeedActivePlan(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	assert.NoError(t, (&TimerStatusCmd{}).Run(ctx))
	assert.ErrorContains(t, (&TimerStartCmd{}).Run(ctx), "no active training plan")
}

func TestTimerSelectAndStart(t *testing.T) {
	ctx, spawns := clitest.NewContext(t)
	activePlan(t, ctx, models.ExerciseCard{Name: "Bench", Timers: []int{60, 90}})

	assert.Error(t, (&TimerStartCmd{}).Run(ctx), "start needs a selected duration")
	assert.ErrorContains(t, (&TimerSelectCmd{Seconds: 120}).Run(ctx), "not available")

	require.NoError(t, (&TimerSelectCmd{Seconds: 90}).Run(ctx))
	require.NoError(t, (&TimerStartCmd{}).Run(ctx))

	state, err := ctx.Timers.State(ctx.Ctx)
	require.NoError(t, err)
	assert.True(t, state.Running)
	assert.Equal(t, 90, state.RemainingSeconds)
	require.Len(t, spawns.Tokens, 1)

	owned, err := ctx.Workers.Owns(ctx.Config.Worker.Name, spawns.Tokens[0])
	require.NoError(t, err)
	assert.True(t, owned)

	assert.ErrorContains(t, (&TimerSelectCmd{Seconds: 60}).Run(ctx), "not available", "chips are hidden while running")

	require.NoError(t, (&TimerPauseCmd{}).Run(ctx))
	state, _ = ctx.Timers.State(ctx.Ctx)
	assert.False(t, state.Running)

	_, err = ctx.Workers.Status(ctx.Config.Worker.Name)
	assert.ErrorIs(t, err, worker.ErrNoWorker, "pause cancels the worker")
}

func TestTimerNavigation(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	activePlan(t, ctx,
		models.ExerciseCard{Name: "Squat", Timers: []int{120}},
		models.ExerciseCard{Name: "Lunge", Timers: []int{60}},
	)

	assert.Error(t, (&TimerPrevCmd{}).Run(ctx), "first card has no previous")
	require.NoError(t, (&TimerSelectCmd{Seconds: 120}).Run(ctx))
	require.NoError(t, (&TimerNextCmd{}).Run(ctx))

	state, err := ctx.Timers.State(ctx.Ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CardIndex)
	assert.Zero(t, state.SelectedSeconds, "navigation clears the clock")

	assert.Error(t, (&TimerNextCmd{}).Run(ctx), "last card has no next")
	require.NoError(t, (&TimerPrevCmd{}).Run(ctx))
	require.NoError(t, (&TimerResetCmd{}).Run(ctx))
}

func TestTimerRunCmd_CompletesAndRecordsSession(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	ctx.Config.Timer.Tick = time.Millisecond
	cards := activePlan(t, ctx, models.ExerciseCard{Name: "Row", Timers: []int{30}})

	_, err := ctx.Timers.SelectDuration(ctx.Ctx, 30)
	require.NoError(t, err)
	_, err = ctx.Timers.Start(ctx.Ctx)
	require.NoError(t, err)

	name := ctx.Config.Worker.Name
	token, err := ctx.Workers.Enqueue(name)
	require.NoError(t, err)

	require.NoError(t, (&TimerRunCmd{Name: name, Token: token}).Run(ctx))

	state, err := ctx.Timers.State(ctx.Ctx)
	require.NoError(t, err)
	assert.False(t, state.Running)
	assert.Zero(t, state.RemainingSeconds)

	logs, err := ctx.Repo.ListSessions(ctx.Ctx, cards[0].ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Completed)

	_, err = ctx.Workers.Status(name)
	assert.ErrorIs(t, err, worker.ErrNoWorker, "the worker releases its lockfile")
}

func TestTimerRunCmd_ReplacedWorkerStops(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	ctx.Config.Timer.Tick = time.Millisecond
	activePlan(t, ctx, models.ExerciseCard{Name: "Row", Timers: []int{30}})

	_, err := ctx.Timers.SelectDuration(ctx.Ctx, 30)
	require.NoError(t, err)
	_, err = ctx.Timers.Start(ctx.Ctx)
	require.NoError(t, err)

	name := ctx.Config.Worker.Name
	stale, err := ctx.Workers.Enqueue(name)
	require.NoError(t, err)
	current, err := ctx.Workers.Enqueue(name)
	require.NoError(t, err)

	require.NoError(t, (&TimerRunCmd{Name: name, Token: stale}).Run(ctx))

	state, err := ctx.Timers.State(ctx.Ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, state.RemainingSeconds, "a replaced worker never ticks")

	owned, err := ctx.Workers.Owns(name, current)
	require.NoError(t, err)
	assert.True(t, owned, "the stale worker leaves the new lockfile alone")
}
