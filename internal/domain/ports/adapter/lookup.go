package adapter

import (
	"context"

	"consulta-vehicular/internal/domain/model"
)

// LookupResult is the raw outcome of one upstream consultation POST.
type LookupResult struct {
	Raw     []byte         // response body as received
	Payload map[string]any // decoded JSON object
	Path    string         // endpoint path used
}

// RawText returns the free-text portion of the payload, when present.
func (r *LookupResult) RawText() string {
	if r == nil || r.Payload == nil {
		return ""
	}
	if s, ok := r.Payload["resultado_crudo"].(string); ok {
		return s
	}
	return ""
}

// LookupClient is the port over the per-service consultation HTTP endpoints.
// Implementations must treat non-2xx responses as errors carrying the status
// and body text.
type LookupClient interface {
	Consultar(ctx context.Context, svc model.ServiceKey, campo model.FieldKind, valor string, extraerPropietarios bool) (*LookupResult, error)
}

// IdentityClient is the port over the identity/registry cross-lookup
// endpoints. Each returns the first element of the upstream `resultados`
// array, or domain.ErrSinCoincidencias-compatible nil when empty.
type IdentityClient interface {
	BuscarEmpresaPorNombre(ctx context.Context, nombre string) (map[string]any, error)
	BuscarPersonaPorNombre(ctx context.Context, apPaterno, apMaterno, nombres string) (map[string]any, error)
	BuscarPorDni(ctx context.Context, dni string) (map[string]any, error)
}
