package repository

import (
	"context"

	"consulta-vehicular/internal/domain/model"
)

// GrantRepository is the port for credit grants. Grants are insert-only from
// this core; the consume operation is the single server-side mutation.
type GrantRepository interface {
	Insert(ctx context.Context, tx Tx, grant *model.CreditGrant) error

	// FindActiveByUser returns the governing grant: valid_until >= now,
	// tie-broken by latest valid_until then latest created_at.
	// Returns domain.ErrNotFound when no grant is active.
	FindActiveByUser(ctx context.Context, tx Tx, userID string) (*model.CreditGrant, error)

	// ConsumeCredit atomically deducts one unit from the caller's active grant.
	// Returns false when no unit could be deducted (no active grant, or a
	// finite grant already exhausted). Unlimited grants always consume.
	ConsumeCredit(ctx context.Context, userID string) (bool, error)
}
