package usecase

import (
	"context"
	"errors"
	"fmt"

	"consulta-vehicular/internal/domain"
	"consulta-vehicular/internal/domain/model"
	"consulta-vehicular/internal/domain/ports/repository"
	"consulta-vehicular/internal/infra/logging"
	"consulta-vehicular/internal/infra/metrics"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// SnapshotCache is the usage-snapshot cache port. Satisfied by the Redis
// implementation; nil-safe wrappers are applied at construction.
type SnapshotCache interface {
	Get(ctx context.Context, userID string) (*model.UsageSnapshot, bool)
	Store(ctx context.Context, userID string, snap *model.UsageSnapshot)
	Invalidate(ctx context.Context, userID string)
}

// noopSnapshotCache keeps the use case unconditional on a cache being wired.
type noopSnapshotCache struct{}

func (noopSnapshotCache) Get(context.Context, string) (*model.UsageSnapshot, bool) { return nil, false }
func (noopSnapshotCache) Store(context.Context, string, *model.UsageSnapshot)      {}
func (noopSnapshotCache) Invalidate(context.Context, string)                       {}

// LedgerUC owns the plan catalog and the per-user credit ledger.
type LedgerUC struct {
	planRepo  repository.PlanRepository
	grantRepo repository.GrantRepository
	txManager repository.TransactionManager
	cache     SnapshotCache
	log       *zerolog.Logger
}

func NewLedgerUC(
	planRepo repository.PlanRepository,
	grantRepo repository.GrantRepository,
	txManager repository.TransactionManager,
	cache SnapshotCache,
	log *zerolog.Logger,
) *LedgerUC {
	if cache == nil {
		cache = noopSnapshotCache{}
	}
	return &LedgerUC{
		planRepo:  planRepo,
		grantRepo: grantRepo,
		txManager: txManager,
		cache:     cache,
		log:       log,
	}
}

// GetUsageSnapshot derives the entitlement view for a user. It never returns
// an error: any failure degrades to the zero snapshot, which blocks paid
// consultations rather than granting free ones.
func (uc *LedgerUC) GetUsageSnapshot(ctx context.Context, userID string) *model.UsageSnapshot {
	defer logging.TraceDuration(logging.With(ctx, uc.log), "LedgerUC.GetUsageSnapshot")()

	if userID == "" {
		return model.ZeroSnapshot()
	}
	if snap, ok := uc.cache.Get(ctx, userID); ok {
		return snap
	}

	grant, err := uc.grantRepo.FindActiveByUser(ctx, repository.NoTX, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.With(ctx, uc.log).Warn().Err(err).Msg("usage snapshot degraded to zero")
		}
		return model.ZeroSnapshot()
	}

	var plan *model.Plan
	if grant.PlanID != "" {
		plan, err = uc.planRepo.FindByID(ctx, repository.NoTX, grant.PlanID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			logging.With(ctx, uc.log).Warn().Err(err).Str("plan_id", grant.PlanID).Msg("plan lookup failed")
		}
	}

	snap := model.SnapshotFor(grant, plan)
	uc.cache.Store(ctx, userID, snap)
	return snap
}

// ChangePlan assigns a plan to the user by inserting a fresh grant. An
// unknown plan id is a no-op so a stale catalog on one device cannot corrupt
// the ledger.
func (uc *LedgerUC) ChangePlan(ctx context.Context, userID, planID string) error {
	defer logging.TraceDuration(logging.With(ctx, uc.log), "LedgerUC.ChangePlan")()

	if userID == "" || planID == "" {
		return domain.ErrInvalidArgument
	}

	plan, err := uc.planRepo.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logging.With(ctx, uc.log).Warn().Str("plan_id", planID).Msg("plan change ignored: unknown plan")
			return nil
		}
		return fmt.Errorf("find plan: %w", err)
	}

	grant, err := model.NewCreditGrant(userID, plan)
	if err != nil {
		return err
	}

	err = uc.txManager.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		return uc.grantRepo.Insert(ctx, tx, grant)
	})
	if err != nil {
		return fmt.Errorf("insert grant: %w", err)
	}

	uc.cache.Invalidate(ctx, userID)
	return nil
}

// ListPlans exposes the catalog for the client's plan screen.
func (uc *LedgerUC) ListPlans(ctx context.Context) ([]*model.Plan, error) {
	return uc.planRepo.ListAll(ctx, repository.NoTX)
}

// SavePlan upserts one catalog entry. Used by the seeder and admin surface.
func (uc *LedgerUC) SavePlan(ctx context.Context, plan *model.Plan) error {
	if plan == nil || plan.IsZero() {
		return domain.ErrInvalidArgument
	}
	return uc.planRepo.Save(ctx, repository.NoTX, plan)
}

// consume deducts one unit and reports whether a unit was actually taken.
// Exposed to the consultation orchestrator only.
func (uc *LedgerUC) consume(ctx context.Context, userID string) (bool, error) {
	ok, err := uc.grantRepo.ConsumeCredit(ctx, userID)
	if ok {
		metrics.IncCreditConsumed()
		uc.cache.Invalidate(ctx, userID)
	}
	return ok, err
}
