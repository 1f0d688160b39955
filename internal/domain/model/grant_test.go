//go:build !integration

package model_test

import (
	"testing"
	"time"

	"consulta-vehicular/internal/domain/model"
)

func intPtr(v int) *int { return &v }

func grant(total *int, used int) *model.CreditGrant {
	now := time.Now()
	return &model.CreditGrant{
		ID:              "g1",
		UserID:          "u1",
		PlanID:          "basico",
		TotalConsultas:  total,
		ConsultasUsadas: used,
		ValidFrom:       now.Add(-time.Hour),
		ValidUntil:      now.Add(time.Hour),
		CreatedAt:       now.Add(-time.Hour),
	}
}

func TestSnapshotFor(t *testing.T) {
	t.Run("finite grant", func(t *testing.T) {
		s := model.SnapshotFor(grant(intPtr(10), 3), nil)
		if s.CreditsRemaining == nil || *s.CreditsRemaining != 7 {
			t.Fatalf("expected 7 remaining, got %v", s.CreditsRemaining)
		}
		if s.Bloqueado() {
			t.Fatal("must not block with credits left")
		}
	})

	t.Run("exhausted grant blocks", func(t *testing.T) {
		s := model.SnapshotFor(grant(intPtr(5), 5), nil)
		if !s.Bloqueado() {
			t.Fatal("expected blocked snapshot")
		}
	})

	t.Run("overconsumed grant clamps to zero", func(t *testing.T) {
		s := model.SnapshotFor(grant(intPtr(5), 9), nil)
		if s.CreditsRemaining == nil || *s.CreditsRemaining != 0 {
			t.Fatalf("expected clamp to 0, got %v", s.CreditsRemaining)
		}
	})

	t.Run("unlimited grant keeps nils", func(t *testing.T) {
		s := model.SnapshotFor(grant(nil, 500), nil)
		if s.CreditsTotal != nil || s.CreditsRemaining != nil {
			t.Fatal("unlimited grant must keep total and remaining nil")
		}
		if s.Bloqueado() {
			t.Fatal("unlimited snapshot must never block")
		}
	})

	t.Run("nil grant degrades to the zero snapshot", func(t *testing.T) {
		s := model.SnapshotFor(nil, nil)
		if !s.Bloqueado() {
			t.Fatal("expected blocked zero snapshot")
		}
	})
}

func TestCreditGrant_Vigente(t *testing.T) {
	g := grant(intPtr(1), 0)
	if !g.Vigente(time.Now()) {
		t.Fatal("expected active grant")
	}
	if g.Vigente(g.ValidUntil.Add(time.Second)) {
		t.Fatal("expected expired grant past valid_until")
	}
}

func TestNewCreditGrant(t *testing.T) {
	days := 15
	plan := &model.Plan{ID: "p1", Nombre: "Prueba", TotalConsultas: intPtr(3), DuracionDias: &days}

	g, err := model.NewCreditGrant("u1", plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.TotalConsultas == nil || *g.TotalConsultas != 3 {
		t.Fatalf("grant must copy the plan allotment, got %v", g.TotalConsultas)
	}
	want := g.ValidFrom.Add(15 * 24 * time.Hour)
	if !g.ValidUntil.Equal(want) {
		t.Fatalf("expected valid_until %v, got %v", want, g.ValidUntil)
	}

	if _, err := model.NewCreditGrant("", plan); err == nil {
		t.Fatal("expected error for empty user id")
	}
}
