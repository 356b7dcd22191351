package shortlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/domain"
	"github.com/kailas-cloud/laptopmatch/internal/domain/recommendation"
	domsl "github.com/kailas-cloud/laptopmatch/internal/domain/shortlist"
	logpkg "github.com/kailas-cloud/laptopmatch/internal/logger"
)

// MaxComparison caps the comparison selection.
const MaxComparison = 6

// Service manages per-session shortlists.
// Updates to one session are serialized in-process; running several replicas
// against a shared store needs sticky sessions.
type Service struct {
	repo    Repository
	catalog Catalog
	locks   *sessionLocks
}

// New creates a Service.
func New(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog, locks: newSessionLocks()}
}

// Create starts a new session with an empty shortlist.
func (s *Service) Create(ctx context.Context) (domsl.Shortlist, error) {
	sl := domsl.New(uuid.NewString())
	if err := s.repo.Save(ctx, sl); err != nil {
		return domsl.Shortlist{}, err
	}
	logpkg.FromContext(ctx).Debug("shortlist session created", zap.String("session_id", sl.SessionID()))
	return sl, nil
}

// Get returns the session shortlist. Unknown sessions yield an empty shortlist.
func (s *Service) Get(ctx context.Context, sessionID string) (domsl.Shortlist, error) {
	if err := validateSession(sessionID); err != nil {
		return domsl.Shortlist{}, err
	}
	sl, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return domsl.New(sessionID), nil
	}
	return sl, err
}

// Star marks a laptop. Starring twice is a no-op.
func (s *Service) Star(ctx context.Context, sessionID, laptopID string) (domsl.Shortlist, error) {
	return s.mutate(ctx, sessionID, laptopID, func(sl domsl.Shortlist) (domsl.Shortlist, error) {
		return sl.Star(laptopID), nil
	})
}

// Unstar removes the mark. Unknown laptop ids are accepted so stale entries can be cleared.
func (s *Service) Unstar(ctx context.Context, sessionID, laptopID string) (domsl.Shortlist, error) {
	return s.mutate(ctx, sessionID, "", func(sl domsl.Shortlist) (domsl.Shortlist, error) {
		return sl.Unstar(laptopID), nil
	})
}

// SetNote stores a note for a laptop. An empty note removes it.
func (s *Service) SetNote(ctx context.Context, sessionID, laptopID, note string) (domsl.Shortlist, error) {
	return s.mutate(ctx, sessionID, laptopID, func(sl domsl.Shortlist) (domsl.Shortlist, error) {
		out, err := sl.WithNote(laptopID, note)
		if err != nil {
			return domsl.Shortlist{}, invalid("note", err.Error())
		}
		return out, nil
	})
}

// AddToComparison selects a laptop for comparison.
func (s *Service) AddToComparison(ctx context.Context, sessionID, laptopID string) (domsl.Shortlist, error) {
	return s.mutate(ctx, sessionID, laptopID, func(sl domsl.Shortlist) (domsl.Shortlist, error) {
		out := sl.AddToComparison(laptopID)
		if len(out.Comparison()) > MaxComparison {
			return domsl.Shortlist{}, invalid("comparison", fmt.Sprintf("at most %d laptops can be compared", MaxComparison))
		}
		return out, nil
	})
}

// RemoveFromComparison deselects a laptop.
func (s *Service) RemoveFromComparison(ctx context.Context, sessionID, laptopID string) (domsl.Shortlist, error) {
	return s.mutate(ctx, sessionID, "", func(sl domsl.Shortlist) (domsl.Shortlist, error) {
		return sl.RemoveFromComparison(laptopID), nil
	})
}

// Comparison builds rows for the selected laptops still present in the catalog.
func (s *Service) Comparison(ctx context.Context, sessionID string) ([]recommendation.ComparisonRow, error) {
	sl, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(sl.Comparison()))
	for _, id := range sl.Comparison() {
		if _, err := s.catalog.Get(ctx, id); err == nil {
			ids = append(ids, id)
		}
	}
	return s.catalog.Rows(ctx, ids)
}

// Delete drops the session shortlist.
func (s *Service) Delete(ctx context.Context, sessionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	defer s.locks.lock(sessionID)()
	return s.repo.Delete(ctx, sessionID)
}

// mutate loads, changes and saves a shortlist under the session lock.
// A non-empty laptopID must exist in the catalog.
func (s *Service) mutate(
	ctx context.Context, sessionID, laptopID string,
	fn func(domsl.Shortlist) (domsl.Shortlist, error),
) (domsl.Shortlist, error) {
	if laptopID != "" {
		if _, err := s.catalog.Get(ctx, laptopID); err != nil {
			return domsl.Shortlist{}, err
		}
	}
	if err := validateSession(sessionID); err != nil {
		return domsl.Shortlist{}, err
	}
	defer s.locks.lock(sessionID)()

	sl, err := s.Get(ctx, sessionID)
	if err != nil {
		return domsl.Shortlist{}, err
	}
	out, err := fn(sl)
	if err != nil {
		return domsl.Shortlist{}, err
	}
	if err := s.repo.Save(ctx, out); err != nil {
		return domsl.Shortlist{}, err
	}
	return out, nil
}

func validateSession(sessionID string) error {
	if err := uuid.Validate(sessionID); err != nil {
		return invalid("session", "must be a UUID")
	}
	return nil
}

func invalid(field, msg string) error {
	return domain.NewValidationError(domain.ErrInvalidInput, []domain.FieldError{{Field: field, Message: msg}})
}
