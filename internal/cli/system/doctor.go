package system

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/liftlog/internal/backup"
	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/storage/sqlite"
)

type dbHolder interface {
	GetDB() *sql.DB
}

type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(ctx *cli.Context) error
	needsDB bool
	warning bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warning: true},
	{name: "Card validation", run: checkCards, needsDB: true},
	{name: "Plan integrity", run: checkPlans, needsDB: true},
	{name: "Session integrity", run: checkSessions, needsDB: true},
	{name: "Timer state", run: checkTimerState, needsDB: true},
	{name: "Countdown worker", run: checkWorker, needsDB: true, warning: true},
	{name: "Clock/timezone", run: func(*cli.Context) error { return checkClock(time.Now()) }},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	holder, ok := ctx.Store.(dbHolder)
	if !ok {
		return nil
	}
	db := holder.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	var result int
	if err := db.QueryRowContext(ctx.Ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func schemaVersions(ctx *cli.Context) (int, int, error) {
	store, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return 0, 0, nil
	}
	current, latest, err := store.SchemaVersion()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return current, latest, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := schemaVersions(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := schemaVersions(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d. Run 'liftlog migrate'", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("backups are not managed for this storage backend")
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'liftlog backup create'")
	}
	return nil
}

func checkCards(ctx *cli.Context) error {
	cards, err := ctx.Repo.ListCards(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get cards: %w", err)
	}
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("card %d (%s): %w", card.ID, card.Name, err)
		}
	}
	return nil
}

func checkPlans(ctx *cli.Context) error {
	plans, err := ctx.Repo.ListPlans(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get plans: %w", err)
	}
	cards, err := ctx.Repo.ListCards(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get cards: %w", err)
	}
	known := make(map[int64]bool, len(cards))
	for _, card := range cards {
		known[card.ID] = true
	}

	active := 0
	for _, plan := range plans {
		if plan.Active {
			active++
		}
		if err := plan.Validate(); err != nil {
			return fmt.Errorf("plan %d (%s): %w", plan.ID, plan.Name, err)
		}
		for _, id := range plan.CardIDs {
			if !known[id] {
				return fmt.Errorf("plan %d (%s) references missing card %d", plan.ID, plan.Name, id)
			}
		}
	}
	if active > 1 {
		return fmt.Errorf("found %d active plans, expected at most one", active)
	}
	return nil
}

func checkSessions(ctx *cli.Context) error {
	logs, err := ctx.Repo.ListSessions(ctx.Ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get sessions: %w", err)
	}
	for _, l := range logs {
		if l.EndedAt != nil && l.EndedAt.Before(l.StartedAt) {
			return fmt.Errorf("session %d ends before it starts", l.ID)
		}
	}
	return nil
}

func checkTimerState(ctx *cli.Context) error {
	state, err := ctx.Timers.State(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to read timer state: %w", err)
	}
	if state.RemainingSeconds > state.SelectedSeconds {
		return fmt.Errorf("remaining time %ds exceeds selected duration %ds", state.RemainingSeconds, state.SelectedSeconds)
	}
	if state.Running && state.SelectedSeconds == 0 {
		return fmt.Errorf("timer is running without a selected duration")
	}
	return nil
}

func checkWorker(ctx *cli.Context) error {
	state, err := ctx.Timers.State(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to read timer state: %w", err)
	}
	if !state.Running {
		return nil
	}
	info, err := ctx.Workers.Status(ctx.Config.Worker.Name)
	if err != nil || !info.Alive {
		return fmt.Errorf("timer is marked running but no countdown worker is alive. Run 'liftlog timer reset'")
	}
	return nil
}

func checkClock(now time.Time) error {
	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
