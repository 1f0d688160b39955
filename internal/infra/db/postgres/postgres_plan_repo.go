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

// Ensure interface compliance
var _ repository.PlanRepository = (*PostgresPlanRepo)(nil)

type PostgresPlanRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPlanRepo(pool *pgxpool.Pool) *PostgresPlanRepo {
	return &PostgresPlanRepo{pool: pool}
}

func (r *PostgresPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	const sql = `
INSERT INTO planes (id, nombre, total_consultas, duracion_dias, precio_centimos, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
  SET nombre          = EXCLUDED.nombre,
      total_consultas = EXCLUDED.total_consultas,
      duracion_dias   = EXCLUDED.duracion_dias,
      precio_centimos = EXCLUDED.precio_centimos;
`
	_, err = ex.Exec(ctx, sql,
		plan.ID, plan.Nombre, plan.TotalConsultas, plan.DuracionDias, plan.PrecioCentimos, plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Save plan: %w", err)
	}
	return nil
}

func (r *PostgresPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	const sql = `
SELECT id, nombre, total_consultas, duracion_dias, precio_centimos, created_at
  FROM planes
 WHERE id = $1;
`
	row := ex.QueryRow(ctx, sql, id)
	var p model.Plan
	if err := row.Scan(&p.ID, &p.Nombre, &p.TotalConsultas, &p.DuracionDias, &p.PrecioCentimos, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("FindByID plan: %w", err)
	}
	return &p, nil
}

func (r *PostgresPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	const sql = `
SELECT id, nombre, total_consultas, duracion_dias, precio_centimos, created_at
  FROM planes
 ORDER BY created_at;
`
	rows, err := ex.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("ListAll planes: %w", err)
	}
	defer rows.Close()
	var out []*model.Plan
	for rows.Next() {
		var p model.Plan
		if err := rows.Scan(&p.ID, &p.Nombre, &p.TotalConsultas, &p.DuracionDias, &p.PrecioCentimos, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
