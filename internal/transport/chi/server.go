// Package chi is the HTTP transport: JSON handlers over the use case services.
package chi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kailas-cloud/laptopmatch/internal/domain"
	"github.com/kailas-cloud/laptopmatch/internal/domain/criteria"
	"github.com/kailas-cloud/laptopmatch/internal/domain/purpose"
	domsl "github.com/kailas-cloud/laptopmatch/internal/domain/shortlist"
	domusage "github.com/kailas-cloud/laptopmatch/internal/domain/usage"
	healthuc "github.com/kailas-cloud/laptopmatch/internal/usecase/health"
	narrativeuc "github.com/kailas-cloud/laptopmatch/internal/usecase/narrative"
	recommenduc "github.com/kailas-cloud/laptopmatch/internal/usecase/recommend"
	shortlistuc "github.com/kailas-cloud/laptopmatch/internal/usecase/shortlist"
	usageuc "github.com/kailas-cloud/laptopmatch/internal/usecase/usage"
	"github.com/kailas-cloud/laptopmatch/internal/version"
)

// CatalogReloader re-reads the laptop catalog.
type CatalogReloader interface {
	Reload(ctx context.Context) (int, error)
}

// Server holds the HTTP handlers.
type Server struct {
	recommend *recommenduc.Service
	narrative *narrativeuc.Service
	shortlist *shortlistuc.Service
	usage     *usageuc.Service
	health    *healthuc.Service
	catalog   CatalogReloader
}

// NewServer creates an HTTP API server.
func NewServer(
	recommend *recommenduc.Service,
	narrative *narrativeuc.Service,
	shortlist *shortlistuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	catalog CatalogReloader,
) *Server {
	return &Server{
		recommend: recommend,
		narrative: narrative,
		shortlist: shortlist,
		usage:     usage,
		health:    health,
		catalog:   catalog,
	}
}

// Recommend handles POST /recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decode(w, r, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}

	c, err := criteria.Parse(req.toInput())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	recs := s.recommend.Find(r.Context(), c)
	writeJSON(w, http.StatusOK, newList(recommendationsToResponse(recs)))
}

// ListLaptops handles GET /laptops.
func (s *Server) ListLaptops(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newList(laptopsToResponse(s.recommend.List(r.Context()))))
}

// GetLaptop handles GET /laptops/{id}.
func (s *Server) GetLaptop(w http.ResponseWriter, r *http.Request) {
	l, err := s.recommend.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, laptopToResponse(l))
}

// Deals handles GET /deals.
func (s *Server) Deals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newList(recommendationsToResponse(s.recommend.Deals(r.Context()))))
}

// Compare handles POST /comparisons.
func (s *Server) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decode(w, r, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}

	rows, err := s.recommend.Compare(r.Context(), req.IDs)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(rowsToResponse(rows)))
}

// Story handles POST /laptops/{id}/story.
func (s *Server) Story(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := decode(w, r, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	ctx, usage := domain.NewContextWithUsage(r.Context())
	text, err := s.narrative.Story(ctx, id, purpose.Purpose(req.Purpose))
	setGenerationHeaders(w, usage)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{LaptopID: id, Text: text})
}

// Compatibility handles POST /laptops/{id}/compatibility.
func (s *Server) Compatibility(w http.ResponseWriter, r *http.Request) {
	var req compatibilityRequest
	if err := decode(w, r, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	ctx, usage := domain.NewContextWithUsage(r.Context())
	text, err := s.narrative.Compatibility(ctx, id, req.Software)
	setGenerationHeaders(w, usage)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, textResponse{LaptopID: id, Text: text})
}

// Speech handles POST /speech.
func (s *Server) Speech(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := decode(w, r, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	audio, err := s.narrative.Speech(ctx, req.Text)
	setGenerationHeaders(w, usage)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, speechResponse{Audio: audio})
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sl, err := s.shortlist.Create(r.Context())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, shortlistToResponse(sl))
}

// GetSession handles GET /sessions/{session}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sl, err := s.shortlist.Get(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shortlistToResponse(sl))
}

// DeleteSession handles DELETE /sessions/{session}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.shortlist.Delete(r.Context(), chi.URLParam(r, "session")); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Star handles PUT /sessions/{session}/starred/{id}.
func (s *Server) Star(w http.ResponseWriter, r *http.Request) {
	s.writeShortlist(w, r)(s.shortlist.Star(r.Context(), chi.URLParam(r, "session"), chi.URLParam(r, "id")))
}

// Unstar handles DELETE /sessions/{session}/starred/{id}.
func (s *Server) Unstar(w http.ResponseWriter, r *http.Request) {
	s.writeShortlist(w, r)(s.shortlist.Unstar(r.Context(), chi.URLParam(r, "session"), chi.URLParam(r, "id")))
}

// SetNote handles PUT /sessions/{session}/notes/{id}.
func (s *Server) SetNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decode(w, r, &req); err != nil {
		handleDomainError(w, r, err)
		return
	}
	s.writeShortlist(w, r)(s.shortlist.SetNote(
		r.Context(), chi.URLParam(r, "session"), chi.URLParam(r, "id"), req.Note,
	))
}

// AddToComparison handles PUT /sessions/{session}/comparison/{id}.
func (s *Server) AddToComparison(w http.ResponseWriter, r *http.Request) {
	s.writeShortlist(w, r)(s.shortlist.AddToComparison(
		r.Context(), chi.URLParam(r, "session"), chi.URLParam(r, "id"),
	))
}

// RemoveFromComparison handles DELETE /sessions/{session}/comparison/{id}.
func (s *Server) RemoveFromComparison(w http.ResponseWriter, r *http.Request) {
	s.writeShortlist(w, r)(s.shortlist.RemoveFromComparison(
		r.Context(), chi.URLParam(r, "session"), chi.URLParam(r, "id"),
	))
}

// SessionComparison handles GET /sessions/{session}/comparison.
func (s *Server) SessionComparison(w http.ResponseWriter, r *http.Request) {
	rows, err := s.shortlist.Comparison(r.Context(), chi.URLParam(r, "session"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newList(rowsToResponse(rows)))
}

// GetUsage handles GET /usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period := domusage.PeriodMonth
	if p := r.URL.Query().Get("period"); p != "" {
		period = domusage.Period(p)
		if !period.IsValid() {
			handleDomainError(w, r, domain.NewValidationError(domain.ErrInvalidInput, []domain.FieldError{{
				Field: "period", Message: "must be one of: day month total",
			}}))
			return
		}
	}
	writeJSON(w, http.StatusOK, usageToResponse(s.usage.GetReport(r.Context(), period)))
}

// ReloadCatalog handles POST /admin/catalog/reload.
func (s *Server) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	n, err := s.catalog.Reload(r.Context())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Laptops: n})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// writeShortlist returns a sink for (shortlist, error) results of shortlist mutations.
func (s *Server) writeShortlist(w http.ResponseWriter, r *http.Request) func(domsl.Shortlist, error) {
	return func(sl domsl.Shortlist, err error) {
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, shortlistToResponse(sl))
	}
}

func setGenerationHeaders(w http.ResponseWriter, usage *domain.GenerationUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Generation-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}
