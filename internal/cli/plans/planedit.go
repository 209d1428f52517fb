package plans

import (
	"fmt"

	"github.com/julianstephens/liftlog/internal/cli"
)

type PlanEditCmd struct {
	ID    int64   `arg:"" help:"Plan ID."`
	Name  *string `help:"New plan name."`
	Cards *string `short:"c" help:"New comma-separated card IDs in workout order (at most 4)."`
}

func (c *PlanEditCmd) Run(ctx *cli.Context) error {
	plan, err := ctx.Repo.GetPlan(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find plan with ID %d: %w", c.ID, err)
	}

	if c.Name != nil {
		plan.Name = *c.Name
	}
	if c.Cards != nil {
		ids, err := cli.ParseIDs(*c.Cards)
		if err != nil {
			return err
		}
		plan.CardIDs = ids
	}

	plan, err = ctx.Repo.SavePlan(ctx.Ctx, plan)
	if err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}

	fmt.Printf("Updated plan: %s (ID: %d)\n", plan.Name, plan.ID)
	return nil
}
