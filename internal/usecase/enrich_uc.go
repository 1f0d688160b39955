package usecase

import (
	"context"
	"strings"
	"sync"

	"consulta-vehicular/internal/domain"
	"consulta-vehicular/internal/domain/model"
	"consulta-vehicular/internal/domain/ports/adapter"
	"consulta-vehicular/internal/infra/logging"

	"github.com/rs/zerolog"
)

// EnrichUC resolves registry owner names against the identity endpoints.
// Results are cached by normalized name; starting a cycle for a new name
// cancels the user's in-flight cycle, so rapid navigation only persists the
// final name's result.
type EnrichUC struct {
	identity adapter.IdentityClient
	log      *zerolog.Logger

	mu      sync.Mutex
	cache   map[string]*model.OwnerLookupState // keyed by normalized name
	current map[string]context.CancelFunc      // in-flight cycle per user
}

func NewEnrichUC(identity adapter.IdentityClient, log *zerolog.Logger) *EnrichUC {
	return &EnrichUC{
		identity: identity,
		log:      log,
		cache:    make(map[string]*model.OwnerLookupState),
		current:  make(map[string]context.CancelFunc),
	}
}

// EnrichOwner runs one identity cycle for a raw owner name. A cached
// non-error result short-circuits without network traffic.
func (uc *EnrichUC) EnrichOwner(ctx context.Context, userID, rawName string) (*model.OwnerLookupState, error) {
	defer logging.TraceDuration(logging.With(ctx, uc.log), "EnrichUC.EnrichOwner")()

	normalized := model.NormalizeOwnerName(rawName)
	if normalized == "" {
		return nil, domain.ErrConsultaInvalida
	}

	uc.mu.Lock()
	if st, ok := uc.cache[normalized]; ok && !st.Loading && st.Err == "" {
		uc.mu.Unlock()
		return st, nil
	}
	// A newer name supersedes whatever this user had in flight.
	if cancel, ok := uc.current[userID]; ok {
		cancel()
	}
	cctx, cancel := context.WithCancel(ctx)
	uc.current[userID] = cancel
	uc.mu.Unlock()
	defer cancel()

	st := uc.runCycle(cctx, rawName, normalized)

	// A cancelled cycle is stale: discard rather than poison the cache.
	if cctx.Err() != nil {
		return nil, cctx.Err()
	}

	uc.mu.Lock()
	uc.cache[normalized] = st
	uc.mu.Unlock()

	if st.Err != "" {
		return st, domain.ErrSinCoincidencias
	}
	return st, nil
}

// runCycle fires the company and person lookups concurrently. A company hit
// wins over a person hit for the same name.
func (uc *EnrichUC) runCycle(ctx context.Context, rawName, normalized string) *model.OwnerLookupState {
	var (
		wg      sync.WaitGroup
		empresa map[string]any
		persona map[string]any
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		res, err := uc.identity.BuscarEmpresaPorNombre(ctx, rawName)
		if err == nil && res == nil {
			res, err = uc.identity.BuscarEmpresaPorNombre(ctx, normalized)
		}
		if err != nil {
			logging.With(ctx, uc.log).Debug().Err(err).Msg("empresa lookup failed")
			return
		}
		empresa = res
	}()

	apPaterno, apMaterno, nombres, ok := splitPersonName(normalized)
	if ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := uc.identity.BuscarPersonaPorNombre(ctx, apPaterno, apMaterno, nombres)
			if err != nil {
				logging.With(ctx, uc.log).Debug().Err(err).Msg("persona lookup failed")
				return
			}
			persona = res
		}()
	}
	wg.Wait()

	st := &model.OwnerLookupState{Query: normalized}
	switch {
	case empresa != nil:
		st.Tipo = model.OwnerEmpresa
		st.Data = empresa
	case persona != nil:
		st.Tipo = model.OwnerPersona
		st.Data = persona
	default:
		st.Tipo = model.ClassifyOwnerName(normalized)
		st.Err = domain.ErrSinCoincidencias.Error()
	}
	return st
}

// splitPersonName maps a normalized registry name onto the person-search
// fields. Registry order puts surnames first, so the first two tokens are
// taken as paternal and maternal surnames and the rest as given names.
func splitPersonName(normalized string) (apPaterno, apMaterno, nombres string, ok bool) {
	tokens := strings.Fields(normalized)
	if len(tokens) < 3 {
		return "", "", "", false
	}
	return tokens[0], tokens[1], strings.Join(tokens[2:], " "), true
}

// EnrichOwnersDni resolves each owner's identity by document number. Only
// 8-digit documents are eligible; failures are isolated per owner.
func (uc *EnrichUC) EnrichOwnersDni(ctx context.Context, owners []model.Propietario) []model.Propietario {
	var wg sync.WaitGroup
	for i := range owners {
		doc := owners[i].Documento
		if !isDni(doc) {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := uc.identity.BuscarPorDni(ctx, owners[i].Documento)
			if err != nil || res == nil {
				return
			}
			owners[i].Identidad = res
		}(i)
	}
	wg.Wait()
	return owners
}

func isDni(doc string) bool {
	if len(doc) != 8 {
		return false
	}
	for _, r := range doc {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
