//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"consulta-vehicular/internal/domain"
	"consulta-vehicular/internal/domain/model"
	"consulta-vehicular/internal/domain/ports/adapter"
	"consulta-vehicular/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
)

// --- repository mocks ---

type mockPlanRepo struct {
	SaveFunc     func(ctx context.Context, tx repository.Tx, plan *model.Plan) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error)
	ListAllFunc  func(ctx context.Context, tx repository.Tx) ([]*model.Plan, error)
}

func (m *mockPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, plan)
	}
	return nil
}

func (m *mockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, tx)
	}
	return nil, nil
}

type mockGrantRepo struct {
	InsertFunc           func(ctx context.Context, tx repository.Tx, grant *model.CreditGrant) error
	FindActiveByUserFunc func(ctx context.Context, tx repository.Tx, userID string) (*model.CreditGrant, error)
	ConsumeCreditFunc    func(ctx context.Context, userID string) (bool, error)
}

func (m *mockGrantRepo) Insert(ctx context.Context, tx repository.Tx, grant *model.CreditGrant) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, grant)
	}
	return nil
}

func (m *mockGrantRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.CreditGrant, error) {
	if m.FindActiveByUserFunc != nil {
		return m.FindActiveByUserFunc(ctx, tx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockGrantRepo) ConsumeCredit(ctx context.Context, userID string) (bool, error) {
	if m.ConsumeCreditFunc != nil {
		return m.ConsumeCreditFunc(ctx, userID)
	}
	return true, nil
}

type mockConsultaRepo struct {
	mu       sync.Mutex
	Inserted []*model.ConsultationRecord

	InsertFunc          func(ctx context.Context, tx repository.Tx, rec *model.ConsultationRecord) error
	ListByUserFunc      func(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.ConsultationRecord, error)
	ListByUserSinceFunc func(ctx context.Context, tx repository.Tx, userID string, since time.Time) ([]*model.ConsultationRecord, error)
}

func (m *mockConsultaRepo) Insert(ctx context.Context, tx repository.Tx, rec *model.ConsultationRecord) error {
	m.mu.Lock()
	m.Inserted = append(m.Inserted, rec)
	m.mu.Unlock()
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, rec)
	}
	return nil
}

func (m *mockConsultaRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.ConsultationRecord, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, tx, userID, limit)
	}
	return nil, nil
}

func (m *mockConsultaRepo) ListByUserSince(ctx context.Context, tx repository.Tx, userID string, since time.Time) ([]*model.ConsultationRecord, error) {
	if m.ListByUserSinceFunc != nil {
		return m.ListByUserSinceFunc(ctx, tx, userID, since)
	}
	return nil, nil
}

func (m *mockConsultaRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inserted)
}

type mockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func (m *mockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// --- adapter mocks ---

type mockLookup struct {
	mu    sync.Mutex
	calls int

	ConsultarFunc func(ctx context.Context, svc model.ServiceKey, campo model.FieldKind, valor string, extraerPropietarios bool) (*adapter.LookupResult, error)
}

func (m *mockLookup) Consultar(ctx context.Context, svc model.ServiceKey, campo model.FieldKind, valor string, extraerPropietarios bool) (*adapter.LookupResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.ConsultarFunc != nil {
		return m.ConsultarFunc(ctx, svc, campo, valor, extraerPropietarios)
	}
	return &adapter.LookupResult{Raw: []byte(`{}`), Payload: map[string]any{}}, nil
}

func (m *mockLookup) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockIdentity struct {
	BuscarEmpresaPorNombreFunc func(ctx context.Context, nombre string) (map[string]any, error)
	BuscarPersonaPorNombreFunc func(ctx context.Context, apPaterno, apMaterno, nombres string) (map[string]any, error)
	BuscarPorDniFunc           func(ctx context.Context, dni string) (map[string]any, error)
}

func (m *mockIdentity) BuscarEmpresaPorNombre(ctx context.Context, nombre string) (map[string]any, error) {
	if m.BuscarEmpresaPorNombreFunc != nil {
		return m.BuscarEmpresaPorNombreFunc(ctx, nombre)
	}
	return nil, nil
}

func (m *mockIdentity) BuscarPersonaPorNombre(ctx context.Context, apPaterno, apMaterno, nombres string) (map[string]any, error) {
	if m.BuscarPersonaPorNombreFunc != nil {
		return m.BuscarPersonaPorNombreFunc(ctx, apPaterno, apMaterno, nombres)
	}
	return nil, nil
}

func (m *mockIdentity) BuscarPorDni(ctx context.Context, dni string) (map[string]any, error) {
	if m.BuscarPorDniFunc != nil {
		return m.BuscarPorDniFunc(ctx, dni)
	}
	return nil, nil
}

// --- cache fake ---

type fakeSnapshotCache struct {
	mu    sync.Mutex
	store map[string]*model.UsageSnapshot
}

func newFakeSnapshotCache() *fakeSnapshotCache {
	return &fakeSnapshotCache{store: make(map[string]*model.UsageSnapshot)}
}

func (c *fakeSnapshotCache) Get(_ context.Context, userID string) (*model.UsageSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.store[userID]
	return snap, ok
}

func (c *fakeSnapshotCache) Store(_ context.Context, userID string, snap *model.UsageSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[userID] = snap
}

func (c *fakeSnapshotCache) Invalidate(_ context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, userID)
}

// --- small helpers ---

func intPtr(v int) *int { return &v }

func activeGrant(userID string, total *int, used int) *model.CreditGrant {
	now := time.Now()
	return &model.CreditGrant{
		ID:              "grant-1",
		UserID:          userID,
		PlanID:          "basico",
		TotalConsultas:  total,
		ConsultasUsadas: used,
		ValidFrom:       now.Add(-time.Hour),
		ValidUntil:      now.Add(24 * time.Hour),
		CreatedAt:       now.Add(-time.Hour),
	}
}
