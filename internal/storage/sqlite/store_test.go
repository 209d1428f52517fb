package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	apperrors "github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("expected error loading uninitialized store")
	}
}

func TestInitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	store.Close()

	again := NewStore(path)
	if err := again.Init(); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	defer again.Close()

	current, latest, err := again.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if current != latest || current == 0 {
		t.Errorf("expected schema at latest version, got %d/%d", current, latest)
	}
}

func TestCardCRUD(t *testing.T) {
	store := setupTestStore(t)

	id, err := store.SaveCard(models.ExerciseCard{Name: "Squat", Description: "Back squat", Timers: []int{60, 120}})
	if err != nil {
		t.Fatalf("SaveCard failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected an assigned id")
	}

	card, err := store.GetCard(id)
	if err != nil {
		t.Fatalf("GetCard failed: %v", err)
	}
	if card.Name != "Squat" || !reflect.DeepEqual(card.Timers, []int{60, 120}) {
		t.Errorf("unexpected card: %+v", card)
	}
	if card.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	card.Name = "Front Squat"
	card.Timers = nil
	if _, err := store.SaveCard(card); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	updated, _ := store.GetCard(id)
	if updated.Name != "Front Squat" || len(updated.Timers) != 0 {
		t.Errorf("update not persisted: %+v", updated)
	}

	if err := store.DeleteCard(id); err != nil {
		t.Fatalf("DeleteCard failed: %v", err)
	}
	if _, err := store.GetCard(id); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteCard(id); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
	if _, err := store.SaveCard(models.ExerciseCard{ID: 999, Name: "Ghost"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound updating missing card, got %v", err)
	}
}

func TestGetAllCardsNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	for i, name := range []string{"Old", "Middle", "New"} {
		if _, err := store.SaveCard(models.ExerciseCard{Name: name, CreatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("SaveCard failed: %v", err)
		}
	}

	cards, err := store.GetAllCards()
	if err != nil {
		t.Fatalf("GetAllCards failed: %v", err)
	}
	var names []string
	for _, c := range cards {
		names = append(names, c.Name)
	}
	if !reflect.DeepEqual(names, []string{"New", "Middle", "Old"}) {
		t.Errorf("unexpected order: %v", names)
	}
}

func TestPlanActivation(t *testing.T) {
	store := setupTestStore(t)

	a, err := store.SavePlan(models.TrainingPlan{Name: "A", CardIDs: []int64{3, 1}, Active: true})
	if err != nil {
		t.Fatalf("SavePlan A failed: %v", err)
	}
	b, err := store.SavePlan(models.TrainingPlan{Name: "B", Active: true})
	if err != nil {
		t.Fatalf("SavePlan B failed: %v", err)
	}

	active, err := store.GetActivePlan()
	if err != nil {
		t.Fatalf("GetActivePlan failed: %v", err)
	}
	if active.ID != b {
		t.Errorf("expected plan B active, got %d", active.ID)
	}

	planA, _ := store.GetPlan(a)
	if planA.Active {
		t.Error("plan A should no longer be active")
	}
	if !reflect.DeepEqual(planA.CardIDs, []int64{3, 1}) {
		t.Errorf("card order not preserved: %v", planA.CardIDs)
	}

	if err := store.SetActivePlan(a); err != nil {
		t.Fatalf("SetActivePlan failed: %v", err)
	}
	plans, _ := store.GetAllPlans()
	activeCount := 0
	for _, p := range plans {
		if p.Active {
			activeCount++
			if p.ID != a {
				t.Errorf("wrong plan active: %d", p.ID)
			}
		}
	}
	if activeCount != 1 {
		t.Errorf("expected exactly one active plan, got %d", activeCount)
	}

	if err := store.SetActivePlan(404); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	// failed activation must not clear the current one
	if active, err := store.GetActivePlan(); err != nil || active.ID != a {
		t.Errorf("active plan lost after failed activation: %+v, %v", active, err)
	}

	if err := store.DeletePlan(a); err != nil {
		t.Fatalf("DeletePlan failed: %v", err)
	}
	if _, err := store.GetActivePlan(); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected no active plan, got %v", err)
	}
}

func TestSessions(t *testing.T) {
	store := setupTestStore(t)
	start := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)

	id, err := store.AddSession(models.SessionLog{CardID: 7, StartedAt: start})
	if err != nil {
		t.Fatalf("AddSession failed: %v", err)
	}
	if _, err := store.AddSession(models.SessionLog{CardID: 8, StartedAt: start.Add(time.Minute)}); err != nil {
		t.Fatalf("AddSession failed: %v", err)
	}

	l, err := store.GetSession(id)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if l.EndedAt != nil || l.Completed {
		t.Errorf("expected open session, got %+v", l)
	}

	end := start.Add(90 * time.Second)
	l.EndedAt = &end
	l.Completed = true
	if err := store.UpdateSession(l); err != nil {
		t.Fatalf("UpdateSession failed: %v", err)
	}

	forCard, err := store.GetSessions(7)
	if err != nil {
		t.Fatalf("GetSessions failed: %v", err)
	}
	if len(forCard) != 1 || !forCard[0].Completed || forCard[0].Duration() != 90*time.Second {
		t.Errorf("unexpected sessions for card: %+v", forCard)
	}

	all, _ := store.GetSessions(0)
	if len(all) != 2 || all[0].CardID != 8 {
		t.Errorf("expected both sessions newest first, got %+v", all)
	}
}

func TestTimerState(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	state, err := store.GetTimerState(ctx)
	if err != nil {
		t.Fatalf("GetTimerState failed: %v", err)
	}
	if state != (models.TimerState{}) {
		t.Errorf("expected zero state on fresh store, got %+v", state)
	}

	next, err := store.UpdateTimerState(ctx, func(s *models.TimerState) (bool, error) {
		s.SelectedSeconds = 60
		s.RemainingSeconds = 60
		s.Running = true
		return true, nil
	})
	if err != nil {
		t.Fatalf("UpdateTimerState failed: %v", err)
	}
	if next.Revision != 1 {
		t.Errorf("expected revision 1, got %d", next.Revision)
	}

	reread, _ := store.GetTimerState(ctx)
	if reread != next {
		t.Errorf("persisted %+v, returned %+v", reread, next)
	}

	boom := errors.New("boom")
	if _, err := store.UpdateTimerState(ctx, func(s *models.TimerState) (bool, error) {
		s.Running = false
		return true, boom
	}); !errors.Is(err, boom) {
		t.Errorf("expected closure error, got %v", err)
	}
	after, _ := store.GetTimerState(ctx)
	if !after.Running || after.Revision != 1 {
		t.Errorf("failed update must not write, got %+v", after)
	}
}

func TestTimerStateConcurrentUpdates(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.UpdateTimerState(ctx, func(s *models.TimerState) (bool, error) {
				s.CardIndex++
				return false, nil
			})
			if err != nil {
				t.Errorf("UpdateTimerState failed: %v", err)
			}
		}()
	}
	wg.Wait()

	state, _ := store.GetTimerState(ctx)
	if state.CardIndex != workers {
		t.Errorf("expected %d increments, got %d", workers, state.CardIndex)
	}
}
