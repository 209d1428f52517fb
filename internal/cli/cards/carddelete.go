package cards

import (
	"errors"
	"fmt"

	"github.com/julianstephens/liftlog/internal/cli"
	liftErrors "github.com/julianstephens/liftlog/internal/errors"
)

type CardDeleteCmd struct {
	ID int64 `arg:"" help:"Card ID to delete."`
}

func (c *CardDeleteCmd) Run(ctx *cli.Context) error {
	// Check if card exists first
	card, err := ctx.Repo.GetCard(ctx.Ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to find card with ID %d: %w", c.ID, err)
	}

	if err := ctx.Repo.DeleteCard(ctx.Ctx, c.ID); err != nil {
		if errors.Is(err, liftErrors.ErrCardInUse) {
			return fmt.Errorf("cannot delete %s: %w. Remove it from every plan first", card.Name, err)
		}
		return fmt.Errorf("failed to delete card: %w", err)
	}

	fmt.Printf("Deleted card: %s (ID: %d)\n", card.Name, c.ID)
	return nil
}
