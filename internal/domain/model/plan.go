package model

import (
	"time"

	"consulta-vehicular/internal/domain"
)

// Plan is a purchasable consultation plan. TotalConsultas nil means the plan
// carries unlimited consultations; DuracionDias nil falls back to 30 days.
type Plan struct {
	ID             string
	Nombre         string
	TotalConsultas *int
	DuracionDias   *int
	PrecioCentimos *int64 // price in PEN céntimos
	CreatedAt      time.Time
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// Duracion returns the plan duration, defaulting to 30 days when unset.
func (p *Plan) Duracion() time.Duration {
	days := 30
	if p.DuracionDias != nil && *p.DuracionDias > 0 {
		days = *p.DuracionDias
	}
	return time.Duration(days) * 24 * time.Hour
}

// NewPlan validates and constructs a plan.
func NewPlan(id, nombre string, totalConsultas *int, duracionDias *int, precioCentimos *int64) (*Plan, error) {
	if id == "" || nombre == "" {
		return nil, domain.ErrInvalidArgument
	}
	if totalConsultas != nil && *totalConsultas < 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		ID:             id,
		Nombre:         nombre,
		TotalConsultas: totalConsultas,
		DuracionDias:   duracionDias,
		PrecioCentimos: precioCentimos,
		CreatedAt:      time.Now(),
	}, nil
}
