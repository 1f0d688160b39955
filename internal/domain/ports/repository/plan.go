package repository

import (
	"context"

	"consulta-vehicular/internal/domain/model"
)

// PlanRepository is the port for the read-mostly plan catalog.
type PlanRepository interface {
	Save(ctx context.Context, tx Tx, plan *model.Plan) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Plan, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Plan, error)
}
