package postgres

import (
	"context"
	"fmt"
	"time"

	"consulta-vehicular/internal/domain/model"
	"consulta-vehicular/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var _ repository.ConsultationRepository = (*PostgresConsultationRepo)(nil)

// PostgresConsultationRepo persists the append-only consultation log.
type PostgresConsultationRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresConsultationRepo(pool *pgxpool.Pool) *PostgresConsultationRepo {
	return &PostgresConsultationRepo{pool: pool}
}

func (r *PostgresConsultationRepo) Insert(ctx context.Context, tx repository.Tx, rec *model.ConsultationRecord) error {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	const sql = `
INSERT INTO consultas
    (id, user_id, tipo, placa, dni, payload, respuesta, resumen,
     success, error_code, duration_ms, raw_path, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
`
	_, err = ex.Exec(ctx, sql,
		rec.ID, rec.UserID, string(rec.Tipo), rec.Placa, rec.Dni,
		rec.Payload, rec.Respuesta, rec.Resumen,
		rec.Success, rec.ErrorCode, rec.DurationMs, rec.RawPath, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Insert consultation: %w", err)
	}
	return nil
}

const consultaColumns = `
id, user_id, tipo, placa, dni, payload, respuesta, resumen,
success, error_code, duration_ms, raw_path, created_at`

func (r *PostgresConsultationRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.ConsultationRecord, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	sql := `SELECT ` + consultaColumns + `
  FROM consultas
 WHERE user_id = $1
 ORDER BY created_at DESC
 LIMIT $2;`
	rows, err := ex.Query(ctx, sql, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ListByUser consultas: %w", err)
	}
	defer rows.Close()
	return scanConsultas(rows)
}

func (r *PostgresConsultationRepo) ListByUserSince(ctx context.Context, tx repository.Tx, userID string, since time.Time) ([]*model.ConsultationRecord, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	sql := `SELECT ` + consultaColumns + `
  FROM consultas
 WHERE user_id = $1
   AND created_at >= $2
 ORDER BY created_at DESC;`
	rows, err := ex.Query(ctx, sql, userID, since)
	if err != nil {
		return nil, fmt.Errorf("ListByUserSince consultas: %w", err)
	}
	defer rows.Close()
	return scanConsultas(rows)
}

func scanConsultas(rows pgx.Rows) ([]*model.ConsultationRecord, error) {
	var out []*model.ConsultationRecord
	for rows.Next() {
		var rec model.ConsultationRecord
		var tipo string
		if err := rows.Scan(&rec.ID, &rec.UserID, &tipo, &rec.Placa, &rec.Dni,
			&rec.Payload, &rec.Respuesta, &rec.Resumen,
			&rec.Success, &rec.ErrorCode, &rec.DurationMs, &rec.RawPath, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Tipo = model.ConsultationType(tipo)
		out = append(out, &rec)
	}
	return out, rows.Err()
}
