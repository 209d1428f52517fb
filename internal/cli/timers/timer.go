package timers

import (
	"fmt"
	"strings"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/widget"
)

type TimerStatusCmd struct{}

func (c *TimerStatusCmd) Run(ctx *cli.Context) error {
	printView(ctx.Host.View(ctx.Ctx))

	info, err := ctx.Workers.Status(ctx.Config.Worker.Name)
	if err == nil && info.Alive {
		fmt.Printf("  Worker:   pid %d\n", info.PID)
	}
	return nil
}

type TimerSelectCmd struct {
	Seconds int `arg:"" help:"Rest duration to load, one of the current card's timers."`
}

func (c *TimerSelectCmd) Run(ctx *cli.Context) error {
	return dispatch(ctx, widget.Action{Kind: widget.ActionSelectDuration, Seconds: c.Seconds})
}

type TimerStartCmd struct{}

func (c *TimerStartCmd) Run(ctx *cli.Context) error {
	return dispatch(ctx, widget.Action{Kind: widget.ActionStart})
}

type TimerPauseCmd struct{}

func (c *TimerPauseCmd) Run(ctx *cli.Context) error {
	return dispatch(ctx, widget.Action{Kind: widget.ActionPause})
}

type TimerResetCmd struct{}

func (c *TimerResetCmd) Run(ctx *cli.Context) error {
	return dispatch(ctx, widget.Action{Kind: widget.ActionReset})
}

type TimerNextCmd struct{}

func (c *TimerNextCmd) Run(ctx *cli.Context) error {
	return dispatch(ctx, widget.Action{Kind: widget.ActionNextCard})
}

type TimerPrevCmd struct{}

func (c *TimerPrevCmd) Run(ctx *cli.Context) error {
	return dispatch(ctx, widget.Action{Kind: widget.ActionPreviousCard})
}

// dispatch applies action the way a widget tap would. Actions the widget
// does not currently show are refused.
func dispatch(ctx *cli.Context, action widget.Action) error {
	view := ctx.Host.View(ctx.Ctx)
	if view.Empty {
		return fmt.Errorf("no active training plan. Use 'liftlog plan activate <id>' first")
	}
	if !view.Offers(action) {
		return fmt.Errorf("%s is not available now (available: %s)", action, describeActions(view))
	}

	if _, err := ctx.Host.Dispatch(ctx.Ctx, action); err != nil {
		return err
	}
	printView(ctx.Host.View(ctx.Ctx))
	return nil
}

func describeActions(v widget.View) string {
	actions := v.Actions()
	if len(actions) == 0 {
		return "none"
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		if a.Kind == widget.ActionSelectDuration {
			names[i] = fmt.Sprintf("select %d", a.Seconds)
		} else {
			names[i] = string(a.Kind)
		}
	}
	return strings.Join(names, ", ")
}

func printView(v widget.View) {
	if v.Empty {
		fmt.Println("No active training plan.")
		return
	}

	fmt.Printf("%s  (card %d of %d)\n", v.PlanName, v.CardPosition, v.CardCount)
	fmt.Printf("  Card:     %s\n", v.CardName)
	if v.CardDescription != "" {
		fmt.Printf("            %s\n", v.CardDescription)
	}

	clock := v.TimerText
	if v.Status != "" {
		clock += "  " + v.Status
	}
	fmt.Printf("  Timer:    %s\n", clock)

	if len(v.Chips) > 0 {
		chips := make([]string, len(v.Chips))
		for i, chip := range v.Chips {
			if chip.Selected {
				chips[i] = "[" + chip.Label + "]"
			} else {
				chips[i] = chip.Label
			}
		}
		fmt.Printf("  Presets:  %s\n", strings.Join(chips, " "))
	}
	fmt.Printf("  Actions:  %s\n", describeActions(v))
}
