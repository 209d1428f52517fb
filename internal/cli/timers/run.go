package timers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/countdown"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/notifier"
)

// TimerRunCmd is the detached countdown worker started by 'timer start'
type TimerRunCmd struct {
	Name  string `help:"Worker name." required:""`
	Token string `help:"Run token issued by the worker manager." required:""`
}

func (c *TimerRunCmd) Run(ctx *cli.Context) error {
	if c.Token == "" {
		return errors.New("missing run token")
	}

	runCtx, stop := signal.NotifyContext(ctx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		if err := ctx.Workers.Release(c.Name, c.Token); err != nil {
			logger.Warn("Failed to release worker lockfile", "name", c.Name, "error", err)
		}
	}()

	owns := func() bool {
		owned, err := ctx.Workers.Owns(c.Name, c.Token)
		if err != nil {
			logger.Warn("Failed to check worker ownership", "name", c.Name, "error", err)
			return false
		}
		return owned
	}

	runner := countdown.New(ctx.Timers, newNotifier(ctx), ctx.Repo.CardAt, ctx.Config,
		countdown.WithOwnershipCheck(owns),
		countdown.WithSessionRecorder(func(rctx context.Context, cardID int64, start, end time.Time) error {
			_, err := ctx.Repo.RecordCompletedSession(rctx, cardID, start, end)
			return err
		}),
	)

	logger.Info("Countdown worker started", "name", c.Name, "pid", os.Getpid())
	reason, err := runner.Run(runCtx)
	if err != nil {
		logger.Error("Countdown worker failed", "name", c.Name, "error", err)
		return fmt.Errorf("countdown failed: %w", err)
	}
	logger.Info("Countdown worker stopped", "name", c.Name, "reason", reason.String())
	return nil
}

func newNotifier(ctx *cli.Context) notifier.Notifier {
	if !ctx.Config.Notifications.Enabled {
		return notifier.Disabled{}
	}
	return notifier.Chain{notifier.New(), notifier.NewTerminal(nil)}
}
