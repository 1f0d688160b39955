package parse

import "consulta-vehicular/internal/domain/model"

// Resumible is implemented by every parsed record that can describe itself
// in one history-log line.
type Resumible interface {
	Resumen() string
}

// Normalize runs the right normalizer for the service against the raw-text
// field and the full payload. A nil result means the response carried no
// recognizable structure, which is a valid outcome.
func Normalize(svc model.ServiceKey, raw, query string, payload map[string]any) Resumible {
	switch svc {
	case model.ServiceSoat:
		if r := Soat(raw, payload); r != nil {
			return r
		}
	case model.ServiceItv:
		if r := Itv(raw, query, payload); r != nil {
			return r
		}
	case model.ServiceSunarp:
		if r := Sunarp(raw, payload); r != nil {
			return r
		}
	case model.ServiceLicencia:
		if r := Licencia(raw, payload); r != nil {
			return r
		}
	case model.ServiceDni:
		if r := Dni(raw, payload); r != nil {
			return r
		}
	case model.ServiceRedam:
		if r := Redam(raw, payload); r != nil {
			return r
		}
	}
	return nil
}
