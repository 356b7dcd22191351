// Package shortlist persists per-session shortlists as JSON documents with a sliding TTL.
package shortlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/laptopmatch/internal/db"
	"github.com/kailas-cloud/laptopmatch/internal/domain"
	domsl "github.com/kailas-cloud/laptopmatch/internal/domain/shortlist"
)

// store is the consumer interface for shortlists (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/shortlist.Repository.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a shortlist repository. Every save pushes expiry ttl into the future.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

// Get loads a shortlist. Returns domain.ErrNotFound for unknown or expired sessions.
func (r *Repo) Get(ctx context.Context, sessionID string) (domsl.Shortlist, error) {
	data, err := r.store.Get(ctx, key(sessionID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domsl.Shortlist{}, domain.ErrNotFound
		}
		return domsl.Shortlist{}, fmt.Errorf("get shortlist %s: %w", sessionID, err)
	}
	return decode(data)
}

// Save writes the shortlist and refreshes its TTL.
func (r *Repo) Save(ctx context.Context, s domsl.Shortlist) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	if err := r.store.SetWithTTL(ctx, key(s.SessionID()), data, r.ttl); err != nil {
		return fmt.Errorf("save shortlist %s: %w", s.SessionID(), err)
	}
	return nil
}

// Delete drops a shortlist. Deleting an unknown session is not an error.
func (r *Repo) Delete(ctx context.Context, sessionID string) error {
	if err := r.store.Del(ctx, key(sessionID)); err != nil {
		return fmt.Errorf("delete shortlist %s: %w", sessionID, err)
	}
	return nil
}

func key(sessionID string) string {
	return domain.KeyPrefix + "shortlist:" + sessionID
}
