package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"consulta-vehicular/internal/domain"
	"consulta-vehicular/internal/domain/model"
	"consulta-vehicular/internal/domain/ports/adapter"
	"consulta-vehicular/internal/domain/ports/repository"
	"consulta-vehicular/internal/infra/logging"
	"consulta-vehicular/internal/infra/metrics"
	"consulta-vehicular/internal/infra/worker"
	"consulta-vehicular/internal/parse"

	"github.com/rs/zerolog"
)

type stateKey struct {
	userID string
	svc    model.ServiceKey
}

// ConsultaUC orchestrates one paid lookup end to end: credit gate, dedup
// against the per-(user,service) state, upstream call, normalization,
// owner enrichment for registry results, and the history write.
type ConsultaUC struct {
	ledger       *LedgerUC
	consultaRepo repository.ConsultationRepository
	lookup       adapter.LookupClient
	enrich       *EnrichUC
	pool         *worker.Pool
	log          *zerolog.Logger
	now          func() time.Time

	mu     sync.Mutex
	states map[stateKey]*model.ServiceQueryState
}

func NewConsultaUC(
	ledger *LedgerUC,
	consultaRepo repository.ConsultationRepository,
	lookup adapter.LookupClient,
	enrich *EnrichUC,
	pool *worker.Pool,
	log *zerolog.Logger,
) *ConsultaUC {
	return &ConsultaUC{
		ledger:       ledger,
		consultaRepo: consultaRepo,
		lookup:       lookup,
		enrich:       enrich,
		pool:         pool,
		log:          log,
		now:          time.Now,
		states:       make(map[stateKey]*model.ServiceQueryState),
	}
}

// FetchService runs one service consultation for a user.
//
// The returned state is a snapshot: callers must not mutate it. A repeated
// identical query returns the stored result without network traffic unless
// force is set; a query while the same (user, service) pair is loading
// returns the in-flight state untouched.
func (uc *ConsultaUC) FetchService(ctx context.Context, userID string, key model.ServiceKey, query string, force bool) (*model.ServiceQueryState, error) {
	defer logging.TraceDuration(logging.With(ctx, uc.log), "ConsultaUC.FetchService")()

	spec, ok := model.LookupService(key)
	if !ok {
		return nil, domain.ErrServicioDesconocido
	}
	query = cleanQuery(query)
	if len(query) < spec.Campo.MinLen() {
		return nil, domain.ErrConsultaInvalida
	}

	// Credit gate: refused consultations cost nothing and leave no trace.
	// Sessionless callers bypass the ledger entirely and are never recorded.
	if userID != "" {
		snap := uc.ledger.GetUsageSnapshot(ctx, userID)
		if snap.Bloqueado() {
			metrics.IncCreditGateBlock()
			return nil, domain.ErrSinCreditos
		}
	}

	sk := stateKey{userID: userID, svc: key}

	uc.mu.Lock()
	st := uc.states[sk]
	if !force && st.Cached(query) {
		uc.mu.Unlock()
		return st, nil
	}
	if st != nil && st.Loading {
		uc.mu.Unlock()
		return st, nil
	}
	loading := &model.ServiceQueryState{Loading: true, Query: query, FetchedAt: uc.now()}
	uc.states[sk] = loading
	uc.mu.Unlock()

	st = uc.doFetch(ctx, userID, spec, query)

	uc.mu.Lock()
	uc.states[sk] = st
	uc.mu.Unlock()

	if st.Err != "" {
		return st, errors.New(st.Err)
	}
	return st, nil
}

// doFetch performs the upstream call and everything downstream of it. The
// history row is written on success and on failure alike.
func (uc *ConsultaUC) doFetch(ctx context.Context, userID string, spec model.ServiceSpec, query string) *model.ServiceQueryState {
	start := uc.now()
	extraerPropietarios := spec.Key == model.ServiceSunarp

	// Mirror of the body the lookup client sends; it is what the audit row
	// stores as the request payload.
	body := map[string]any{string(spec.Campo): query}
	if extraerPropietarios {
		body["extraer_propietarios"] = true
	}

	res, lookupErr := uc.lookup.Consultar(ctx, spec.Key, spec.Campo, query, extraerPropietarios)
	durationMs := uc.now().Sub(start).Milliseconds()
	metrics.ObserveLookupLatency(string(spec.Key), float64(durationMs))

	st := &model.ServiceQueryState{Query: query, FetchedAt: uc.now()}
	var resumen string
	if lookupErr != nil {
		st.Err = lookupErr.Error()
	} else {
		st.Raw = res.Raw
		if parsed := parse.Normalize(spec.Key, res.RawText(), query, res.Payload); parsed != nil {
			if ficha, ok := parsed.(*model.FichaSunarp); ok && uc.enrich != nil {
				ficha.Propietarios = uc.enrich.EnrichOwnersDni(ctx, ficha.Propietarios)
				uc.warmOwnerLookup(ctx, userID, ficha)
			}
			st.Parsed = parsed
			resumen = parsed.Resumen()
		}
	}

	metrics.IncConsulta(string(spec.Key), lookupErr == nil)

	if userID != "" {
		at := lookupAttempt{
			spec:       spec,
			query:      query,
			body:       body,
			resumen:    resumen,
			raw:        st.Raw,
			err:        lookupErr,
			durationMs: durationMs,
		}
		if res != nil {
			at.path = res.Path
		}
		uc.record(ctx, userID, at)
	}
	return st
}

// warmOwnerLookup starts the identity cycle for the registry result's primary
// owner in the background, so the client's follow-up owner tap hits a warm
// cache. Best-effort: the warm-up is dropped rather than blocking a worker
// when the pool is saturated, since this method runs on pool workers itself.
func (uc *ConsultaUC) warmOwnerLookup(ctx context.Context, userID string, ficha *model.FichaSunarp) {
	nombre := ficha.PropietarioPrincipal()
	if nombre == "" || uc.pool == nil {
		return
	}
	ok := uc.pool.TrySubmit(func(jctx context.Context) {
		if _, err := uc.enrich.EnrichOwner(jctx, userID, nombre); err != nil {
			logging.With(jctx, uc.log).Debug().Err(err).Msg("owner lookup warmup failed")
		}
	})
	if !ok {
		logging.With(ctx, uc.log).Debug().Msg("owner lookup warmup dropped, pool saturated")
	}
}

// lookupAttempt carries everything the audit row needs from one upstream call.
type lookupAttempt struct {
	spec       model.ServiceSpec
	query      string
	body       map[string]any
	path       string
	resumen    string
	raw        []byte
	err        error
	durationMs int64
}

// record consumes one credit and appends the history row. A consume that
// reports no unit taken means the grant raced to exhaustion after the gate;
// the attempt then leaves no history. A consume ERROR does not suppress the
// row: losing a ledger write must not also lose the audit trail.
func (uc *ConsultaUC) record(ctx context.Context, userID string, at lookupAttempt) {
	consumed, err := uc.ledger.consume(ctx, userID)
	if err != nil {
		logging.With(ctx, uc.log).Warn().Err(err).Msg("credit consume failed, recording anyway")
	} else if !consumed {
		logging.With(ctx, uc.log).Warn().Str("service", string(at.spec.Key)).Msg("no credit consumed, skipping history row")
		return
	}

	now := uc.now()
	rec := &model.ConsultationRecord{
		ID:         model.NewConsultationID(now),
		UserID:     userID,
		Tipo:       at.spec.Tipo,
		Resumen:    at.resumen,
		Success:    at.err == nil,
		DurationMs: at.durationMs,
		RawPath:    at.path,
		CreatedAt:  now,
	}
	if at.spec.Campo == model.FieldPlaca {
		rec.Placa = at.query
	} else {
		rec.Dni = at.query
	}
	if payload, err := json.Marshal(at.body); err == nil {
		rec.Payload = payload
	}
	rec.Respuesta = at.raw
	if at.err != nil {
		code := at.err.Error()
		rec.ErrorCode = &code
	}

	if err := uc.consultaRepo.Insert(ctx, repository.NoTX, rec); err != nil {
		logging.With(ctx, uc.log).Error().Err(err).Msg("history insert failed")
	}
}

// BulkResult is the outcome of a fan-out consultation.
type BulkResult map[model.ServiceKey]*model.ServiceQueryState

// ConsultarVehiculo fans one plate out over every vehicle service.
func (uc *ConsultaUC) ConsultarVehiculo(ctx context.Context, userID, placa string, force bool) BulkResult {
	return uc.fanOut(ctx, userID, model.VehicleServices(), placa, force)
}

// ConsultarPersona fans one document out over every person service.
func (uc *ConsultaUC) ConsultarPersona(ctx context.Context, userID, documento string, force bool) BulkResult {
	return uc.fanOut(ctx, userID, model.PersonServices(), documento, force)
}

func (uc *ConsultaUC) fanOut(ctx context.Context, userID string, services []model.ServiceKey, query string, force bool) BulkResult {
	var mu sync.Mutex
	out := make(BulkResult, len(services))

	tasks := make([]worker.Job, 0, len(services))
	for _, svc := range services {
		svc := svc
		tasks = append(tasks, func(jctx context.Context) {
			st, err := uc.FetchService(jctx, userID, svc, query, force)
			if st == nil && err != nil {
				st = &model.ServiceQueryState{Err: err.Error(), Query: query, FetchedAt: uc.now()}
			}
			mu.Lock()
			out[svc] = st
			mu.Unlock()
		})
	}

	if uc.pool != nil {
		uc.pool.RunAll(ctx, tasks)
	} else {
		for _, t := range tasks {
			t(ctx)
		}
	}
	return out
}

// State returns the stored state for a (user, service) pair, if any.
func (uc *ConsultaUC) State(userID string, svc model.ServiceKey) *model.ServiceQueryState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.states[stateKey{userID: userID, svc: svc}]
}

// PruneStates drops settled states older than ttl. In-flight states are kept.
func (uc *ConsultaUC) PruneStates(ttl time.Duration) int {
	cutoff := uc.now().Add(-ttl)
	uc.mu.Lock()
	defer uc.mu.Unlock()
	n := 0
	for k, st := range uc.states {
		if !st.Loading && st.FetchedAt.Before(cutoff) {
			delete(uc.states, k)
			n++
		}
	}
	return n
}

// Historial lists a user's recent consultation rows.
func (uc *ConsultaUC) Historial(ctx context.Context, userID string, limit int) ([]*model.ConsultationRecord, error) {
	return uc.consultaRepo.ListByUser(ctx, repository.NoTX, userID, limit)
}

// HistorialDesde lists a user's consultation rows since a point in time.
func (uc *ConsultaUC) HistorialDesde(ctx context.Context, userID string, since time.Time) ([]*model.ConsultationRecord, error) {
	return uc.consultaRepo.ListByUserSince(ctx, repository.NoTX, userID, since)
}

// cleanQuery trims and uppercases; plates and documents are stored uppercase.
func cleanQuery(q string) string {
	return strings.ToUpper(strings.TrimSpace(q))
}
