package model

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// ConsultationRecord is one append-only history row per paid lookup attempt,
// written on success and on failure alike. Never mutated or deleted.
type ConsultationRecord struct {
	ID         string // ULID, time-sortable
	UserID     string
	Tipo       ConsultationType
	Placa      string
	Dni        string
	Payload    []byte // request body sent upstream
	Respuesta  []byte // raw upstream JSON
	Resumen    string // human summary
	Success    bool
	ErrorCode  *string
	DurationMs int64
	RawPath    string // endpoint used
	CreatedAt  time.Time
}

// NewConsultationID mints a ULID for a record created at t.
func NewConsultationID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}

// ServiceQueryState is the per-(user,service) ephemeral consultation state.
// It backs the orchestrator's idle → loading → success|error machine and the
// dedup check for repeated identical queries.
type ServiceQueryState struct {
	Loading   bool
	Err       string
	Raw       []byte
	Parsed    any
	Query     string
	FetchedAt time.Time
}

// Cached reports whether the state already holds a usable non-error result
// for the given query.
func (s *ServiceQueryState) Cached(query string) bool {
	return s != nil && !s.Loading && s.Err == "" && s.Raw != nil && s.Query == query
}
