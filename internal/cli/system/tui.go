package system

import (
	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Perform automatic backup on TUI startup
	ctx.PerformAutomaticBackup()

	return tui.Run(ctx.Ctx, ctx.Repo, ctx.Timers, ctx.Host)
}
