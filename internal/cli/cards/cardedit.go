package cards

import (
	"fmt"

	"github.com/julianstephens/liftlog/internal/cli"
)

type CardEditCmd struct {
	ID          int64   `arg:"" help:"Card ID."`
	Name        *string `help:"New exercise name."`
	Description *string `short:"d" help:"New description."`
	Timers      *string `short:"t" help:"New comma-separated rest timers; an empty value clears them."`
}

func (c *CardEditCmd) Run(ctx *cli.Context) error {
	card, err := ctx.Repo.GetCard(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find card with ID %d: %w", c.ID, err)
	}

	if c.Name != nil {
		card.Name = *c.Name
	}
	if c.Description != nil {
		card.Description = *c.Description
	}
	if c.Timers != nil {
		timers, err := cli.ParseTimers(*c.Timers)
		if err != nil {
			return err
		}
		card.Timers = timers
	}

	card, err = ctx.Repo.SaveCard(ctx.Ctx, card)
	if err != nil {
		return fmt.Errorf("invalid card: %w", err)
	}

	fmt.Printf("Updated card: %s (ID: %d)\n", card.Name, card.ID)
	return nil
}
