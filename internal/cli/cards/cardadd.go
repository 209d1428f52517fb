package cards

import (
	"fmt"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/models"
)

type CardAddCmd struct {
	Name        string `arg:"" help:"Exercise name."`
	Description string `short:"d" help:"Short description or cue."`
	Timers      string `short:"t" help:"Comma-separated rest timers in seconds (30,60,90,120)."`
}

func (c *CardAddCmd) Run(ctx *cli.Context) error {
	timers, err := cli.ParseTimers(c.Timers)
	if err != nil {
		return err
	}

	card, err := ctx.Repo.SaveCard(ctx.Ctx, models.ExerciseCard{
		Name:        c.Name,
		Description: c.Description,
		Timers:      timers,
	})
	if err != nil {
		return fmt.Errorf("invalid card: %w", err)
	}

	fmt.Printf("Added card: %s (ID: %d, timers: %s)\n", card.Name, card.ID, cli.FormatTimers(card.Timers))
	return nil
}
