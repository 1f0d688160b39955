//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"consulta-vehicular/internal/domain"
	"consulta-vehicular/internal/domain/model"
	"consulta-vehicular/internal/domain/ports/repository"
	"consulta-vehicular/internal/usecase"

	"github.com/rs/zerolog"
)

func newLedgerUC(planRepo *mockPlanRepo, grantRepo *mockGrantRepo, cache usecase.SnapshotCache) *usecase.LedgerUC {
	log := zerolog.Nop()
	return usecase.NewLedgerUC(planRepo, grantRepo, &mockTxManager{}, cache, &log)
}

func TestLedgerUC_GetUsageSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("empty user id yields a blocked snapshot", func(t *testing.T) {
		// --- Arrange ---
		uc := newLedgerUC(&mockPlanRepo{}, &mockGrantRepo{}, nil)

		// --- Act ---
		snap := uc.GetUsageSnapshot(ctx, "")

		// --- Assert ---
		if !snap.Bloqueado() {
			t.Fatal("expected blocked snapshot for empty user id")
		}
	})

	t.Run("no active grant yields zero remaining", func(t *testing.T) {
		// --- Arrange ---
		uc := newLedgerUC(&mockPlanRepo{}, &mockGrantRepo{}, nil) // default mock returns ErrNotFound

		// --- Act ---
		snap := uc.GetUsageSnapshot(ctx, "user-1")

		// --- Assert ---
		if snap.CreditsRemaining == nil || *snap.CreditsRemaining != 0 {
			t.Fatalf("expected zero remaining, got %v", snap.CreditsRemaining)
		}
		if !snap.Bloqueado() {
			t.Fatal("expected blocked snapshot")
		}
	})

	t.Run("finite grant computes remaining from the grant row", func(t *testing.T) {
		// --- Arrange ---
		grantRepo := &mockGrantRepo{
			FindActiveByUserFunc: func(_ context.Context, _ repository.Tx, userID string) (*model.CreditGrant, error) {
				return activeGrant(userID, intPtr(10), 4), nil
			},
		}
		uc := newLedgerUC(&mockPlanRepo{}, grantRepo, nil)

		// --- Act ---
		snap := uc.GetUsageSnapshot(ctx, "user-1")

		// --- Assert ---
		if snap.CreditsRemaining == nil || *snap.CreditsRemaining != 6 {
			t.Fatalf("expected 6 remaining, got %v", snap.CreditsRemaining)
		}
		if snap.Bloqueado() {
			t.Fatal("snapshot with remaining credits must not block")
		}
	})

	t.Run("unlimited grant keeps remaining nil and never blocks", func(t *testing.T) {
		// --- Arrange ---
		grantRepo := &mockGrantRepo{
			FindActiveByUserFunc: func(_ context.Context, _ repository.Tx, userID string) (*model.CreditGrant, error) {
				return activeGrant(userID, nil, 9999), nil
			},
		}
		uc := newLedgerUC(&mockPlanRepo{}, grantRepo, nil)

		// --- Act ---
		snap := uc.GetUsageSnapshot(ctx, "user-1")

		// --- Assert ---
		if snap.CreditsRemaining != nil {
			t.Fatalf("expected nil remaining for unlimited grant, got %d", *snap.CreditsRemaining)
		}
		if snap.Bloqueado() {
			t.Fatal("unlimited snapshot must not block")
		}
	})

	t.Run("repository failure degrades to the zero snapshot", func(t *testing.T) {
		// --- Arrange ---
		grantRepo := &mockGrantRepo{
			FindActiveByUserFunc: func(_ context.Context, _ repository.Tx, _ string) (*model.CreditGrant, error) {
				return nil, errors.New("connection refused")
			},
		}
		uc := newLedgerUC(&mockPlanRepo{}, grantRepo, nil)

		// --- Act ---
		snap := uc.GetUsageSnapshot(ctx, "user-1")

		// --- Assert ---
		if !snap.Bloqueado() {
			t.Fatal("degraded snapshot must block, never grant free credits")
		}
	})

	t.Run("cached snapshot short-circuits the repository", func(t *testing.T) {
		// --- Arrange ---
		cache := newFakeSnapshotCache()
		cache.Store(ctx, "user-1", model.SnapshotFor(activeGrant("user-1", intPtr(5), 1), nil))
		repoCalls := 0
		grantRepo := &mockGrantRepo{
			FindActiveByUserFunc: func(_ context.Context, _ repository.Tx, _ string) (*model.CreditGrant, error) {
				repoCalls++
				return nil, domain.ErrNotFound
			},
		}
		uc := newLedgerUC(&mockPlanRepo{}, grantRepo, cache)

		// --- Act ---
		snap := uc.GetUsageSnapshot(ctx, "user-1")

		// --- Assert ---
		if repoCalls != 0 {
			t.Fatalf("expected no repository call on cache hit, got %d", repoCalls)
		}
		if snap.CreditsRemaining == nil || *snap.CreditsRemaining != 4 {
			t.Fatalf("expected 4 remaining from cache, got %v", snap.CreditsRemaining)
		}
	})
}

func TestLedgerUC_ChangePlan(t *testing.T) {
	ctx := context.Background()

	plan := &model.Plan{ID: "basico", Nombre: "Básico", TotalConsultas: intPtr(30)}

	t.Run("unknown plan is a silent no-op", func(t *testing.T) {
		// --- Arrange ---
		inserts := 0
		grantRepo := &mockGrantRepo{
			InsertFunc: func(_ context.Context, _ repository.Tx, _ *model.CreditGrant) error {
				inserts++
				return nil
			},
		}
		uc := newLedgerUC(&mockPlanRepo{}, grantRepo, nil) // FindByID defaults to ErrNotFound

		// --- Act ---
		err := uc.ChangePlan(ctx, "user-1", "no-existe")

		// --- Assert ---
		if err != nil {
			t.Fatalf("expected nil error for unknown plan, got %v", err)
		}
		if inserts != 0 {
			t.Fatalf("expected no grant insert, got %d", inserts)
		}
	})

	t.Run("inserts a grant copying the plan allotment and invalidates the cache", func(t *testing.T) {
		// --- Arrange ---
		cache := newFakeSnapshotCache()
		cache.Store(ctx, "user-1", model.ZeroSnapshot())
		planRepo := &mockPlanRepo{
			FindByIDFunc: func(_ context.Context, _ repository.Tx, id string) (*model.Plan, error) {
				if id == plan.ID {
					return plan, nil
				}
				return nil, domain.ErrNotFound
			},
		}
		var saved *model.CreditGrant
		grantRepo := &mockGrantRepo{
			InsertFunc: func(_ context.Context, _ repository.Tx, grant *model.CreditGrant) error {
				saved = grant
				return nil
			},
		}
		uc := newLedgerUC(planRepo, grantRepo, cache)

		// --- Act ---
		err := uc.ChangePlan(ctx, "user-1", "basico")

		// --- Assert ---
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if saved == nil {
			t.Fatal("expected a grant insert")
		}
		if saved.PlanID != "basico" || saved.TotalConsultas == nil || *saved.TotalConsultas != 30 {
			t.Fatalf("grant does not mirror the plan: %+v", saved)
		}
		if _, ok := cache.Get(ctx, "user-1"); ok {
			t.Fatal("expected snapshot cache invalidation")
		}
	})

	t.Run("rejects empty arguments", func(t *testing.T) {
		// --- Arrange ---
		uc := newLedgerUC(&mockPlanRepo{}, &mockGrantRepo{}, nil)

		// --- Act / Assert ---
		if err := uc.ChangePlan(ctx, "", "basico"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if err := uc.ChangePlan(ctx, "user-1", ""); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
