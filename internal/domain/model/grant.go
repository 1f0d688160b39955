package model

import (
	"time"

	"consulta-vehicular/internal/domain"

	"github.com/google/uuid"
)

// CreditGrant is one row per plan purchase/assignment. Grants are append-only:
// a plan change inserts a new grant and never touches prior rows. The active
// grant for a user is the one with ValidUntil >= now, tie-broken by latest
// ValidUntil then latest CreatedAt.
//
// TotalConsultas mirrors the plan's allotment at purchase time; nil means
// unlimited so the consume guard can be evaluated on the grant row alone.
type CreditGrant struct {
	ID              string
	UserID          string
	PlanID          string
	TotalConsultas  *int
	ConsultasUsadas int
	ValidFrom       time.Time
	ValidUntil      time.Time
	CreatedAt       time.Time
}

// NewCreditGrant constructs a fresh grant for a plan assignment starting now.
func NewCreditGrant(userID string, plan *Plan) (*CreditGrant, error) {
	if userID == "" || plan.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &CreditGrant{
		ID:              uuid.NewString(),
		UserID:          userID,
		PlanID:          plan.ID,
		TotalConsultas:  plan.TotalConsultas,
		ConsultasUsadas: 0,
		ValidFrom:       now,
		ValidUntil:      now.Add(plan.Duracion()),
		CreatedAt:       now,
	}, nil
}

// Vigente reports whether the grant is still selectable at t.
func (g *CreditGrant) Vigente(t time.Time) bool {
	return g != nil && !g.ValidUntil.Before(t)
}

// UsageSnapshot is the derived entitlement view consumers gate on.
//
// CreditsRemaining carries a three-way distinction callers rely on:
// nil = unlimited, finite value = remaining, and a literal 0 both when the
// active grant is exhausted and when there is no active grant at all.
type UsageSnapshot struct {
	Plan             *Plan
	Grant            *CreditGrant
	CreditsTotal     *int
	CreditsUsed      int
	CreditsRemaining *int
	ValidUntil       *time.Time
}

// ZeroSnapshot is the fail-safe "no active grant" snapshot: zero finite
// remaining credits, no plan, no expiry.
func ZeroSnapshot() *UsageSnapshot {
	zero := 0
	return &UsageSnapshot{CreditsRemaining: &zero}
}

// SnapshotFor derives the snapshot from an active grant and its plan.
func SnapshotFor(grant *CreditGrant, plan *Plan) *UsageSnapshot {
	if grant == nil {
		return ZeroSnapshot()
	}
	s := &UsageSnapshot{
		Plan:        plan,
		Grant:       grant,
		CreditsUsed: grant.ConsultasUsadas,
		ValidUntil:  &grant.ValidUntil,
	}
	if grant.TotalConsultas == nil {
		// unlimited: total and remaining stay nil
		return s
	}
	total := *grant.TotalConsultas
	remaining := total - grant.ConsultasUsadas
	if remaining < 0 {
		remaining = 0
	}
	s.CreditsTotal = &total
	s.CreditsRemaining = &remaining
	return s
}

// Bloqueado reports whether the snapshot must block a paid consultation:
// exactly zero finite remaining credits. Unlimited (nil) never blocks.
func (s *UsageSnapshot) Bloqueado() bool {
	return s != nil && s.CreditsRemaining != nil && *s.CreditsRemaining == 0
}
