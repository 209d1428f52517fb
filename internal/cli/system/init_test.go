package system

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/liftlog/internal/cli/clitest"
	"github.com/julianstephens/liftlog/internal/models"
)

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _ := clitest.NewContext(t)

	cmd := &InitCmd{}
	require.NoError(t, cmd.Run(ctx))
	require.NoError(t, cmd.Run(ctx), "second init should be idempotent")

	_, err := os.Stat(ctx.Store.GetConfigPath())
	assert.NoError(t, err)
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	_, err := ctx.Repo.SaveCard(ctx.Ctx, models.ExerciseCard{Name: "Bench"})
	require.NoError(t, err)

	require.NoError(t, (&InitCmd{Force: true}).Run(ctx))

	cards, err := ctx.Repo.ListCards(ctx.Ctx)
	require.NoError(t, err)
	assert.Empty(t, cards, "force starts from an empty database")
}

func TestMigrateCmd_UpToDate(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	assert.NoError(t, (&MigrateCmd{}).Run(ctx))
}
