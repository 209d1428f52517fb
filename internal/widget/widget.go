// Package widget turns the active plan and timer state into a view model and
// maps the widget's tap targets onto timer operations.
package widget

import (
	"fmt"

	"github.com/julianstephens/liftlog/internal/models"
)

// ActionKind names a tap target
type ActionKind string

const (
	ActionSelectDuration ActionKind = "select"
	ActionStart          ActionKind = "start"
	ActionPause          ActionKind = "pause"
	ActionReset          ActionKind = "reset"
	ActionPreviousCard   ActionKind = "prev"
	ActionNextCard       ActionKind = "next"
)

// maxChips is the number of timer chips the widget lays out
const maxChips = 4

// Action is a tap on the widget. Seconds is only used by ActionSelectDuration.
type Action struct {
	Kind    ActionKind
	Seconds int
}

func (a Action) String() string {
	if a.Kind == ActionSelectDuration {
		return fmt.Sprintf("%s(%ds)", a.Kind, a.Seconds)
	}
	return string(a.Kind)
}

// Input is everything Render needs
type Input struct {
	Plan             *models.TrainingPlan
	Cards            []models.ExerciseCard
	CardIndex        int
	Running          bool
	RemainingSeconds int
	SelectedSeconds  int
}

// Chip is a selectable timer preset
type Chip struct {
	Seconds  int
	Label    string
	Selected bool
	Action   Action
}

// View is the rendered widget. When Empty is set every other field is zero.
type View struct {
	Empty bool

	PlanName        string
	CardName        string
	CardDescription string
	CardPosition    int // 1-based
	CardCount       int

	TimerText string
	Running   bool
	Status    string

	Chips     []Chip
	ShowStart bool
	ShowPause bool
	ShowReset bool

	ShowNav     bool
	PrevEnabled bool
	NextEnabled bool
}

// Actions lists the tap targets the view currently offers
func (v View) Actions() []Action {
	if v.Empty {
		return nil
	}
	var actions []Action
	for _, c := range v.Chips {
		actions = append(actions, c.Action)
	}
	if v.ShowStart {
		actions = append(actions, Action{Kind: ActionStart})
	}
	if v.ShowPause {
		actions = append(actions, Action{Kind: ActionPause})
	}
	if v.ShowReset {
		actions = append(actions, Action{Kind: ActionReset})
	}
	if v.ShowNav && v.PrevEnabled {
		actions = append(actions, Action{Kind: ActionPreviousCard})
	}
	if v.ShowNav && v.NextEnabled {
		actions = append(actions, Action{Kind: ActionNextCard})
	}
	return actions
}

// Offers reports whether the view exposes action
func (v View) Offers(action Action) bool {
	for _, a := range v.Actions() {
		if a == action {
			return true
		}
	}
	return false
}

// Render is a pure function of its input and never panics
func Render(in Input) View {
	if in.Plan == nil || len(in.Cards) == 0 {
		return View{Empty: true}
	}

	index := max(0, min(in.CardIndex, len(in.Cards)-1))
	card := in.Cards[index]

	// a card without presets has no clock, whatever the stored state says
	running := in.Running && card.HasTimers()
	remaining := 0
	if card.HasTimers() {
		remaining = in.RemainingSeconds
	}

	v := View{
		PlanName:        in.Plan.Name,
		CardName:        card.Name,
		CardDescription: card.Description,
		CardPosition:    index + 1,
		CardCount:       len(in.Cards),
		TimerText:       models.FormatClock(remaining),
		Running:         running,
	}

	if running {
		v.Status = "RUNNING"
	}

	if len(in.Cards) > 1 && !running {
		v.ShowNav = true
		v.PrevEnabled = index > 0
		v.NextEnabled = index < len(in.Cards)-1
	}

	if !card.HasTimers() {
		return v
	}

	if in.Running {
		v.ShowPause = true
		v.ShowReset = true
		return v
	}

	for i, seconds := range card.Timers {
		if i == maxChips {
			break
		}
		v.Chips = append(v.Chips, Chip{
			Seconds:  seconds,
			Label:    fmt.Sprintf("%ds", seconds),
			Selected: seconds == in.SelectedSeconds,
			Action:   Action{Kind: ActionSelectDuration, Seconds: seconds},
		})
	}
	v.ShowStart = true
	return v
}
