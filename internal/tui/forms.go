package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

type CardFormModel struct {
	Name        string
	Description string
	Timers      []int
}

type PlanFormModel struct {
	Name    string
	CardIDs []int64
	Order   string
	Active  bool
}

type ConfirmationFormModel struct {
	Message   string
	Confirmed bool
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// NewCardForm creates the add/edit form for exercise cards
func NewCardForm(fm *CardFormModel) *huh.Form {
	options := make([]huh.Option[int], len(constants.TimerPresets))
	for i, p := range constants.TimerPresets {
		options[i] = huh.NewOption(fmt.Sprintf("%ds", p), p)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(notEmpty("name")),
			huh.NewText().
				Title("Description (optional)").
				Value(&fm.Description),
			huh.NewMultiSelect[int]().
				Title("Rest timers").
				Description("Shown as chips on the widget").
				Options(options...).
				Value(&fm.Timers),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewPlanForm creates the add/edit form for training plans. cards are the
// selectable exercise cards, in display order.
func NewPlanForm(fm *PlanFormModel, cards []models.ExerciseCard) *huh.Form {
	options := make([]huh.Option[int64], len(cards))
	for i, c := range cards {
		options[i] = huh.NewOption(fmt.Sprintf("%s (#%d)", c.Name, c.ID), c.ID)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(notEmpty("name")),
			huh.NewMultiSelect[int64]().
				Title(fmt.Sprintf("Exercise cards (up to %d)", constants.MaxPlanCards)).
				Options(options...).
				Limit(constants.MaxPlanCards).
				Value(&fm.CardIDs),
			huh.NewInput().
				Title("Card order (optional)").
				Description("Card IDs in workout order, e.g. 3,1,2. Unlisted cards follow.").
				Value(&fm.Order),
			huh.NewConfirm().
				Title("Active").
				Description("Only one plan can be active").
				Value(&fm.Active),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewConfirmationForm creates a yes/no dialog
func NewConfirmationForm(fm *ConfirmationFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fm.Message).
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}

// arrangeCards orders the selected card ids. Cards the plan already had keep
// their place, new picks follow in list order, and order (comma-separated
// ids) moves the cards it names to the front. Ids in order that belonged to
// the plan but were deselected are skipped.
func arrangeCards(previous, selected []int64, order string) ([]int64, error) {
	base := make([]int64, 0, len(selected))
	for _, id := range previous {
		if slices.Contains(selected, id) {
			base = append(base, id)
		}
	}
	for _, id := range selected {
		if !slices.Contains(base, id) {
			base = append(base, id)
		}
	}

	var arranged []int64
	for _, part := range strings.Split(order, ",") {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "#"))
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("card order: %q is not a card ID", part)
		}
		switch {
		case slices.Contains(arranged, id):
			return nil, fmt.Errorf("card order: card #%d is listed twice", id)
		case slices.Contains(base, id):
			arranged = append(arranged, id)
		case slices.Contains(previous, id):
			// removed from the plan in this edit
		default:
			return nil, fmt.Errorf("card order: card #%d is not selected", id)
		}
	}
	for _, id := range base {
		if !slices.Contains(arranged, id) {
			arranged = append(arranged, id)
		}
	}
	return arranged, nil
}
