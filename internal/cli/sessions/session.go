package sessions

import (
	"errors"
	"fmt"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/models"
)

type SessionStartCmd struct {
	CardID int64 `arg:"" help:"Card ID to log a session for."`
}

func (c *SessionStartCmd) Run(ctx *cli.Context) error {
	card, err := ctx.Repo.GetCard(ctx.Ctx, c.CardID)
	if err != nil {
		return fmt.Errorf("failed to find card with ID %d: %w", c.CardID, err)
	}

	log, err := ctx.Repo.StartSession(ctx.Ctx, card.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Started session for %s (ID: %d) at %s\n", card.Name, log.ID, cli.FormatTime(log.StartedAt))
	return nil
}

type SessionFinishCmd struct {
	ID      int64 `arg:"" optional:"" help:"Session ID. Defaults to the most recent open session."`
	Abandon bool  `short:"x" help:"Mark the session as not completed."`
}

func (c *SessionFinishCmd) Run(ctx *cli.Context) error {
	id := c.ID
	if id == 0 {
		open, err := latestOpen(ctx)
		if err != nil {
			return err
		}
		id = open.ID
	}

	log, err := ctx.Repo.FinishSession(ctx.Ctx, id, !c.Abandon)
	if err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}

	fmt.Printf("Session %d %s\n", log.ID, log.Status())
	return nil
}

func latestOpen(ctx *cli.Context) (models.SessionLog, error) {
	logs, err := ctx.Repo.ListSessions(ctx.Ctx, 0)
	if err != nil {
		return models.SessionLog{}, fmt.Errorf("failed to get sessions: %w", err)
	}
	// newest first
	for _, l := range logs {
		if l.EndedAt == nil {
			return l, nil
		}
	}
	return models.SessionLog{}, errors.New("no session in progress")
}

type SessionListCmd struct {
	Card  int64 `short:"c" help:"Only show sessions for this card ID."`
	Limit int   `short:"n" help:"Maximum number of sessions to show." default:"20"`
}

func (c *SessionListCmd) Run(ctx *cli.Context) error {
	logs, err := ctx.Repo.ListSessions(ctx.Ctx, c.Card)
	if err != nil {
		return fmt.Errorf("failed to get sessions: %w", err)
	}
	if len(logs) == 0 {
		fmt.Println("No sessions found")
		return nil
	}

	cards, err := ctx.Repo.ListCards(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get cards: %w", err)
	}
	names := make(map[int64]string, len(cards))
	for _, card := range cards {
		names[card.ID] = card.Name
	}

	if c.Limit > 0 && len(logs) > c.Limit {
		logs = logs[:c.Limit]
	}

	fmt.Println("Sessions:")
	for _, l := range logs {
		name, ok := names[l.CardID]
		if !ok {
			name = fmt.Sprintf("card #%d", l.CardID)
		}
		fmt.Printf("  %4d  %s  %-24s %s\n", l.ID, cli.FormatTime(l.StartedAt), name, l.Status())
	}
	return nil
}
