package postgres

import (
	"context"
	"fmt"

	"consulta-vehicular/internal/domain"
	"consulta-vehicular/internal/domain/model"
	"consulta-vehicular/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var _ repository.GrantRepository = (*PostgresGrantRepo)(nil)

type PostgresGrantRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresGrantRepo(pool *pgxpool.Pool) *PostgresGrantRepo {
	return &PostgresGrantRepo{pool: pool}
}

func (r *PostgresGrantRepo) Insert(ctx context.Context, tx repository.Tx, grant *model.CreditGrant) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	const sql = `
INSERT INTO credit_grants
    (id, user_id, plan_id, total_consultas, consultas_usadas, valid_from, valid_until, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
	_, err = ex.Exec(ctx, sql,
		grant.ID, grant.UserID, grant.PlanID, grant.TotalConsultas,
		grant.ConsultasUsadas, grant.ValidFrom, grant.ValidUntil, grant.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Insert grant: %w", err)
	}
	return nil
}

func (r *PostgresGrantRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.CreditGrant, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	const sql = `
SELECT id, user_id, plan_id, total_consultas, consultas_usadas, valid_from, valid_until, created_at
  FROM credit_grants
 WHERE user_id = $1
   AND valid_until >= now()
 ORDER BY valid_until DESC, created_at DESC
 LIMIT 1;
`
	row := ex.QueryRow(ctx, sql, userID)
	var g model.CreditGrant
	if err := row.Scan(&g.ID, &g.UserID, &g.PlanID, &g.TotalConsultas,
		&g.ConsultasUsadas, &g.ValidFrom, &g.ValidUntil, &g.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("FindActiveByUser grant: %w", err)
	}
	return &g, nil
}

// ConsumeCredit deducts one unit in a single guarded UPDATE so concurrent
// devices for the same user cannot overspend. The active grant is selected
// the same way FindActiveByUser selects it.
func (r *PostgresGrantRepo) ConsumeCredit(ctx context.Context, userID string) (bool, error) {
	const sql = `
WITH activo AS (
    SELECT id
      FROM credit_grants
     WHERE user_id = $1
       AND valid_until >= now()
     ORDER BY valid_until DESC, created_at DESC
     LIMIT 1
       FOR UPDATE
)
UPDATE credit_grants g
   SET consultas_usadas = g.consultas_usadas + 1
  FROM activo a
 WHERE g.id = a.id
   AND (g.total_consultas IS NULL OR g.consultas_usadas < g.total_consultas);
`
	ct, err := r.pool.Exec(ctx, sql, userID)
	if err != nil {
		return false, fmt.Errorf("ConsumeCredit: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
