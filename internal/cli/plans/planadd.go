package plans

import (
	"fmt"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/models"
)

type PlanAddCmd struct {
	Name     string `arg:"" help:"Plan name."`
	Cards    string `short:"c" help:"Comma-separated card IDs in workout order (at most 4)."`
	Activate bool   `short:"a" help:"Make this the active plan."`
}

func (c *PlanAddCmd) Run(ctx *cli.Context) error {
	ids, err := cli.ParseIDs(c.Cards)
	if err != nil {
		return err
	}

	plan, err := ctx.Repo.SavePlan(ctx.Ctx, models.TrainingPlan{
		Name:    c.Name,
		CardIDs: ids,
		Active:  c.Activate,
	})
	if err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}

	fmt.Printf("Added plan: %s (ID: %d, %d cards)\n", plan.Name, plan.ID, len(plan.CardIDs))
	if plan.Active {
		fmt.Println("Plan is now active.")
	}
	return nil
}
