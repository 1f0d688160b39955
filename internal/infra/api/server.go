package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"consulta-vehicular/internal/domain"
	"consulta-vehicular/internal/domain/model"
	"consulta-vehicular/internal/infra/export"
	"consulta-vehicular/internal/infra/web"
	"consulta-vehicular/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server exposes the consultation backend to the mobile clients.
type Server struct {
	http    *http.Server
	ledger  *usecase.LedgerUC
	consult *usecase.ConsultaUC
	enrich  *usecase.EnrichUC
	auth    *web.AuthManager
	log     *zerolog.Logger
}

func NewServer(
	port int,
	ledger *usecase.LedgerUC,
	consult *usecase.ConsultaUC,
	enrich *usecase.EnrichUC,
	auth *web.AuthManager,
	log *zerolog.Logger,
) *Server {
	s := &Server{
		ledger:  ledger,
		consult: consult,
		enrich:  enrich,
		auth:    auth,
		log:     log,
	}

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sesion", s.handleSesion)

		r.Group(func(r chi.Router) {
			r.Use(Auth(s.auth))

			r.Get("/uso", s.handleUso)
			r.Get("/planes", s.handlePlanes)
			r.Post("/plan", s.handleCambioPlan)

			r.Post("/consultas/vehiculo", s.handleConsultaVehiculo)
			r.Post("/consultas/persona", s.handleConsultaPersona)
			r.Post("/consultas/{servicio}", s.handleConsultaServicio)

			r.Post("/propietario", s.handlePropietario)

			r.Get("/historial", s.handleHistorial)
			r.Get("/historial/export", s.handleHistorialExport)
		})
	})

	handler := Chain(r,
		TraceID(),
		RequestLog(log),
		Recover(log),
		Timeout(60*time.Second),
	)

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("http server listening")
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// --- handlers ---

type sesionRequest struct {
	UserID string `json:"user_id"`
}

// handleSesion registers a device session. An empty user id mints a new
// anonymous identity, matching the install-and-go onboarding flow.
func (s *Server) handleSesion(w http.ResponseWriter, r *http.Request) {
	var req sesionRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.UserID == "" {
		req.UserID = uuid.NewString()
	}
	token, err := s.auth.Issue(req.UserID)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	http.SetCookie(w, s.auth.SessionCookie(token))
	s.respond(w, http.StatusOK, map[string]any{"user_id": req.UserID, "token": token})
}

type usoResponse struct {
	Plan             *model.Plan `json:"plan,omitempty"`
	CreditsTotal     *int        `json:"creditos_totales"`
	CreditsUsed      int         `json:"creditos_usados"`
	CreditsRemaining *int        `json:"creditos_restantes"`
	Unlimited        bool        `json:"ilimitado"`
	ValidUntil       *time.Time  `json:"valido_hasta,omitempty"`
}

func (s *Server) handleUso(w http.ResponseWriter, r *http.Request) {
	snap := s.ledger.GetUsageSnapshot(r.Context(), UserID(r.Context()))
	s.respond(w, http.StatusOK, usoResponse{
		Plan:             snap.Plan,
		CreditsTotal:     snap.CreditsTotal,
		CreditsUsed:      snap.CreditsUsed,
		CreditsRemaining: snap.CreditsRemaining,
		Unlimited:        snap.CreditsRemaining == nil,
		ValidUntil:       snap.ValidUntil,
	})
}

func (s *Server) handlePlanes(w http.ResponseWriter, r *http.Request) {
	planes, err := s.ledger.ListPlans(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"planes": planes})
}

type cambioPlanRequest struct {
	PlanID string `json:"plan_id"`
}

func (s *Server) handleCambioPlan(w http.ResponseWriter, r *http.Request) {
	var req cambioPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlanID == "" {
		s.fail(w, r, http.StatusBadRequest, domain.ErrInvalidArgument)
		return
	}
	if err := s.ledger.ChangePlan(r.Context(), UserID(r.Context()), req.PlanID); err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	snap := s.ledger.GetUsageSnapshot(r.Context(), UserID(r.Context()))
	s.respond(w, http.StatusOK, map[string]any{"uso": snap})
}

type consultaRequest struct {
	Query string `json:"query"`
	Force bool   `json:"force"`
}

func (s *Server) handleConsultaServicio(w http.ResponseWriter, r *http.Request) {
	svc := model.ServiceKey(chi.URLParam(r, "servicio"))
	var req consultaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, http.StatusBadRequest, domain.ErrInvalidArgument)
		return
	}
	st, err := s.consult.FetchService(r.Context(), UserID(r.Context()), svc, req.Query, req.Force)
	if err != nil && st == nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	s.respond(w, http.StatusOK, stateDTO(st))
}

func (s *Server) handleConsultaVehiculo(w http.ResponseWriter, r *http.Request) {
	s.handleBulk(w, r, s.consult.ConsultarVehiculo)
}

func (s *Server) handleConsultaPersona(w http.ResponseWriter, r *http.Request) {
	s.handleBulk(w, r, s.consult.ConsultarPersona)
}

func (s *Server) handleBulk(w http.ResponseWriter, r *http.Request, run func(context.Context, string, string, bool) usecase.BulkResult) {
	var req consultaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, http.StatusBadRequest, domain.ErrInvalidArgument)
		return
	}
	out := run(r.Context(), UserID(r.Context()), req.Query, req.Force)
	dto := make(map[string]any, len(out))
	for svc, st := range out {
		dto[string(svc)] = stateDTO(st)
	}
	s.respond(w, http.StatusOK, dto)
}

type propietarioRequest struct {
	Nombre string `json:"nombre"`
}

func (s *Server) handlePropietario(w http.ResponseWriter, r *http.Request) {
	var req propietarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nombre == "" {
		s.fail(w, r, http.StatusBadRequest, domain.ErrInvalidArgument)
		return
	}
	st, err := s.enrich.EnrichOwner(r.Context(), UserID(r.Context()), req.Nombre)
	if err != nil && st == nil {
		s.fail(w, r, statusFor(err), err)
		return
	}
	s.respond(w, http.StatusOK, st)
}

func (s *Server) handleHistorial(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := s.consult.Historial(r.Context(), UserID(r.Context()), limit)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"consultas": historialDTO(records)})
}

func (s *Server) handleHistorialExport(w http.ResponseWriter, r *http.Request) {
	since := time.Now().AddDate(0, -3, 0)
	if v := r.URL.Query().Get("desde"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			since = t
		}
	}
	records, err := s.consult.HistorialDesde(r.Context(), UserID(r.Context()), since)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="historial.xlsx"`)
	if err := export.HistorialXLSX(w, records); err != nil {
		s.log.Error().Err(err).Msg("xlsx export failed")
	}
}

// --- DTO helpers ---

type stateResponse struct {
	Loading   bool            `json:"loading"`
	Error     string          `json:"error,omitempty"`
	Parsed    any             `json:"parsed,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"`
	Query     string          `json:"query"`
	FetchedAt time.Time       `json:"fetched_at"`
}

func stateDTO(st *model.ServiceQueryState) *stateResponse {
	if st == nil {
		return nil
	}
	return &stateResponse{
		Loading:   st.Loading,
		Error:     st.Err,
		Parsed:    st.Parsed,
		Raw:       st.Raw,
		Query:     st.Query,
		FetchedAt: st.FetchedAt,
	}
}

type historialRow struct {
	ID         string    `json:"id"`
	Tipo       string    `json:"tipo"`
	Placa      string    `json:"placa,omitempty"`
	Dni        string    `json:"dni,omitempty"`
	Resumen    string    `json:"resumen"`
	Success    bool      `json:"success"`
	ErrorCode  *string   `json:"error_code,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

func historialDTO(records []*model.ConsultationRecord) []historialRow {
	out := make([]historialRow, 0, len(records))
	for _, rec := range records {
		out = append(out, historialRow{
			ID:         rec.ID,
			Tipo:       string(rec.Tipo),
			Placa:      rec.Placa,
			Dni:        rec.Dni,
			Resumen:    rec.Resumen,
			Success:    rec.Success,
			ErrorCode:  rec.ErrorCode,
			DurationMs: rec.DurationMs,
			CreatedAt:  rec.CreatedAt,
		})
	}
	return out
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("response encode failed")
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.log.Warn().Err(err).Str("path", r.URL.Path).Msg("request failed")
	s.respond(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrConsultaInvalida):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrServicioDesconocido),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrSinCoincidencias):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSinCreditos):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
