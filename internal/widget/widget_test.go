package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/liftlog/internal/models"
)

func testCards() []models.ExerciseCard {
	return []models.ExerciseCard{
		{ID: 1, Name: "Squat", Description: "5x5", Timers: []int{60, 90, 120}},
		{ID: 2, Name: "Plank", Description: "hold"},
		{ID: 3, Name: "Row", Timers: []int{30}},
	}
}

func TestRender_EmptyStates(t *testing.T) {
	plan := &models.TrainingPlan{ID: 1, Name: "Push", Active: true}

	tests := []struct {
		name string
		in   Input
	}{
		{"no plan", Input{Cards: testCards()}},
		{"plan without cards", Input{Plan: plan}},
		{"plan without cards while running", Input{Plan: plan, Running: true, RemainingSeconds: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Render(tt.in)
			assert.Equal(t, View{Empty: true}, v)
			assert.Empty(t, v.Actions())
		})
	}
}

func TestRender_ClampsCardIndex(t *testing.T) {
	plan := &models.TrainingPlan{Name: "Full body"}

	for _, index := range []int{-5, 3, 99} {
		require.NotPanics(t, func() {
			v := Render(Input{Plan: plan, Cards: testCards(), CardIndex: index})
			assert.False(t, v.Empty)
			if index < 0 {
				assert.Equal(t, "Squat", v.CardName)
				assert.Equal(t, 1, v.CardPosition)
			} else {
				assert.Equal(t, "Row", v.CardName)
				assert.Equal(t, 3, v.CardPosition)
				assert.False(t, v.NextEnabled)
			}
		})
	}
}

func TestRender_StoppedWithTimers(t *testing.T) {
	v := Render(Input{
		Plan:             &models.TrainingPlan{Name: "Legs"},
		Cards:            testCards(),
		RemainingSeconds: 90,
		SelectedSeconds:  90,
	})

	assert.Equal(t, "Legs", v.PlanName)
	assert.Equal(t, "Squat", v.CardName)
	assert.Equal(t, "5x5", v.CardDescription)
	assert.Equal(t, "01:30", v.TimerText)
	assert.Empty(t, v.Status)

	require.Len(t, v.Chips, 3)
	assert.Equal(t, "60s", v.Chips[0].Label)
	assert.True(t, v.Chips[1].Selected)
	assert.True(t, v.ShowStart)
	assert.False(t, v.ShowPause)
	assert.False(t, v.ShowReset)

	assert.True(t, v.ShowNav)
	assert.False(t, v.PrevEnabled)
	assert.True(t, v.NextEnabled)

	assert.True(t, v.Offers(Action{Kind: ActionSelectDuration, Seconds: 120}))
	assert.True(t, v.Offers(Action{Kind: ActionNextCard}))
	assert.False(t, v.Offers(Action{Kind: ActionPreviousCard}))
	assert.False(t, v.Offers(Action{Kind: ActionPause}))
}

func TestRender_Running(t *testing.T) {
	v := Render(Input{
		Plan:             &models.TrainingPlan{Name: "Legs"},
		Cards:            testCards(),
		CardIndex:        2,
		Running:          true,
		RemainingSeconds: 7,
		SelectedSeconds:  30,
	})

	assert.Equal(t, "RUNNING", v.Status)
	assert.Equal(t, "00:07", v.TimerText)
	assert.Empty(t, v.Chips)
	assert.False(t, v.ShowStart)
	assert.True(t, v.ShowPause)
	assert.True(t, v.ShowReset)
	assert.False(t, v.ShowNav, "navigation is hidden while running")
	assert.Equal(t, []Action{{Kind: ActionPause}, {Kind: ActionReset}}, v.Actions())
}

func TestRender_CardWithoutTimers(t *testing.T) {
	v := Render(Input{Plan: &models.TrainingPlan{Name: "Core"}, Cards: testCards(), CardIndex: 1})

	assert.Equal(t, "Plank", v.CardName)
	assert.Equal(t, "00:00", v.TimerText)
	assert.Empty(t, v.Chips)
	assert.False(t, v.ShowStart)
	assert.False(t, v.ShowPause)
	assert.False(t, v.ShowReset)
	assert.True(t, v.PrevEnabled)
	assert.True(t, v.NextEnabled)
}

func TestRender_CardWithoutTimersIgnoresStaleClock(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"stopped", Input{RemainingSeconds: 60, SelectedSeconds: 60}},
		{"running", Input{RemainingSeconds: 42, SelectedSeconds: 60, Running: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			in.Plan = &models.TrainingPlan{Name: "Core"}
			in.Cards = testCards()
			in.CardIndex = 1
			v := Render(in)

			assert.Equal(t, "00:00", v.TimerText)
			assert.False(t, v.Running)
			assert.Empty(t, v.Status)
			assert.Empty(t, v.Chips)
			assert.False(t, v.ShowStart)
			// navigation stays reachable so a stale countdown can be left
			assert.True(t, v.Offers(Action{Kind: ActionPreviousCard}))
			assert.True(t, v.Offers(Action{Kind: ActionNextCard}))
		})
	}
}

func TestRender_SingleCardHidesNav(t *testing.T) {
	v := Render(Input{Plan: &models.TrainingPlan{Name: "Solo"}, Cards: testCards()[:1]})
	assert.False(t, v.ShowNav)
	assert.False(t, v.Offers(Action{Kind: ActionNextCard}))
}

func TestRender_ChipsCappedAtFour(t *testing.T) {
	cards := []models.ExerciseCard{{Name: "Odd", Timers: []int{30, 60, 90, 120, 150}}}
	v := Render(Input{Plan: &models.TrainingPlan{Name: "x"}, Cards: cards})
	assert.Len(t, v.Chips, 4)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "select(60s)", Action{Kind: ActionSelectDuration, Seconds: 60}.String())
	assert.Equal(t, "start", Action{Kind: ActionStart}.String())
}
