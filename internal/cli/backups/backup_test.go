package backups

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/liftlog/internal/backup"
	"github.com/julianstephens/liftlog/internal/cli/clitest"
	"github.com/julianstephens/liftlog/internal/models"
)

func TestBackupCreateListRestore(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	_, err := ctx.Repo.SaveCard(ctx.Ctx, models.ExerciseCard{Name: "Bench"})
	require.NoError(t, err)

	require.NoError(t, (&BackupCreateCmd{}).Run(ctx))
	require.NoError(t, (&BackupListCmd{}).Run(ctx))

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, backups, 1)

	_, err = ctx.Repo.SaveCard(ctx.Ctx, models.ExerciseCard{Name: "Squat"})
	require.NoError(t, err)

	require.NoError(t, (&BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true}).Run(ctx))

	// restore closed the store; reopen it on the restored file
	require.NoError(t, ctx.Store.Load())
	cards, err := ctx.Repo.ListCards(ctx.Ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Bench", cards[0].Name)
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _ := clitest.NewContext(t)
	err := (&BackupRestoreCmd{BackupFile: "liftlog-20990101-0000.db", Yes: true}).Run(ctx)
	assert.ErrorContains(t, err, "not found")
}
