package cards

import (
	"fmt"

	"github.com/julianstephens/liftlog/internal/cli"
)

type CardListCmd struct {
	ShowIDs bool `help:"Show card IDs." name:"show-ids"`
}

func (c *CardListCmd) Run(ctx *cli.Context) error {
	cards, err := ctx.Repo.ListCards(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get cards: %w", err)
	}
	if len(cards) == 0 {
		fmt.Println("No exercise cards found")
		return nil
	}

	fmt.Println("Exercise cards:")
	for _, card := range cards {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %d)", card.ID)
		}
		fmt.Printf("  %s%s - timers: %s\n", card.Name, idStr, cli.FormatTimers(card.Timers))
		if card.Description != "" {
			fmt.Printf("      %s\n", card.Description)
		}
	}
	return nil
}

type CardShowCmd struct {
	ID int64 `arg:"" help:"Card ID."`
}

func (c *CardShowCmd) Run(ctx *cli.Context) error {
	card, err := ctx.Repo.GetCard(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find card with ID %d: %w", c.ID, err)
	}

	fmt.Printf("%s (ID: %d)\n", card.Name, card.ID)
	if card.Description != "" {
		fmt.Printf("  Description: %s\n", card.Description)
	}
	fmt.Printf("  Timers:      %s\n", cli.FormatTimers(card.Timers))
	fmt.Printf("  Created:     %s\n", cli.FormatTime(card.CreatedAt))

	logs, err := ctx.Repo.ListSessions(ctx.Ctx, card.ID)
	if err != nil {
		return fmt.Errorf("failed to get sessions: %w", err)
	}
	completed := 0
	for _, l := range logs {
		if l.Completed {
			completed++
		}
	}
	fmt.Printf("  Sessions:    %d logged, %d completed\n", len(logs), completed)
	return nil
}
