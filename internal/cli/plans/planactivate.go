package plans

import (
	"fmt"

	"github.com/julianstephens/liftlog/internal/cli"
)

type PlanActivateCmd struct {
	ID int64 `arg:"" help:"Plan ID to activate."`
}

func (c *PlanActivateCmd) Run(ctx *cli.Context) error {
	plan, err := ctx.Repo.GetPlan(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find plan with ID %d: %w", c.ID, err)
	}

	if err := ctx.Repo.SetActivePlan(ctx.Ctx, c.ID); err != nil {
		return fmt.Errorf("failed to activate plan: %w", err)
	}
	// the timer was reset, so any running countdown has nothing left to do
	ctx.Host.StopCountdown()

	fmt.Printf("Active plan: %s (ID: %d)\n", plan.Name, plan.ID)
	return nil
}
