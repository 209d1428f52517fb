package plans

import (
	"fmt"
	"strings"

	"github.com/julianstephens/liftlog/internal/cli"
)

type PlanListCmd struct {
	ShowIDs bool `help:"Show plan IDs." name:"show-ids"`
}

func (c *PlanListCmd) Run(ctx *cli.Context) error {
	plans, err := ctx.Repo.ListPlans(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get plans: %w", err)
	}
	if len(plans) == 0 {
		fmt.Println("No training plans found")
		return nil
	}

	fmt.Println("Training plans:")
	for _, plan := range plans {
		status := "inactive"
		if plan.Active {
			status = "active"
		}

		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %d)", plan.ID)
		}

		cards, err := ctx.Repo.PlanCards(ctx.Ctx, plan)
		if err != nil {
			return fmt.Errorf("failed to resolve cards for plan %d: %w", plan.ID, err)
		}
		names := make([]string, len(cards))
		for i, card := range cards {
			names[i] = card.Name
		}
		if len(names) == 0 {
			names = []string{"no cards"}
		}

		fmt.Printf("  [%s] %s%s - %s\n", status, plan.Name, idStr, strings.Join(names, ", "))
	}
	return nil
}
