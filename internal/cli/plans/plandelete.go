package plans

import (
	"fmt"

	"github.com/julianstephens/liftlog/internal/cli"
)

type PlanDeleteCmd struct {
	ID int64 `arg:"" help:"Plan ID to delete."`
}

func (c *PlanDeleteCmd) Run(ctx *cli.Context) error {
	plan, err := ctx.Repo.GetPlan(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find plan with ID %d: %w", c.ID, err)
	}

	if err := ctx.Repo.DeletePlan(ctx.Ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	fmt.Printf("Deleted plan: %s (ID: %d)\n", plan.Name, c.ID)
	if plan.Active {
		fmt.Println("No plan is active now. Use 'liftlog plan activate <id>' to pick one.")
	}
	return nil
}
