package repository

import (
	"context"
	"time"

	"consulta-vehicular/internal/domain/model"
)

// ConsultationRepository is the port for the append-only consultation log.
type ConsultationRepository interface {
	Insert(ctx context.Context, tx Tx, rec *model.ConsultationRecord) error
	ListByUser(ctx context.Context, tx Tx, userID string, limit int) ([]*model.ConsultationRecord, error)
	ListByUserSince(ctx context.Context, tx Tx, userID string, since time.Time) ([]*model.ConsultationRecord, error)
}
