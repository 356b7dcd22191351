package shortlist

import (
	"context"

	"github.com/kailas-cloud/laptopmatch/internal/domain/laptop"
	"github.com/kailas-cloud/laptopmatch/internal/domain/recommendation"
	domsl "github.com/kailas-cloud/laptopmatch/internal/domain/shortlist"
)

// Repository persists shortlists.
type Repository interface {
	Get(ctx context.Context, sessionID string) (domsl.Shortlist, error)
	Save(ctx context.Context, s domsl.Shortlist) error
	Delete(ctx context.Context, sessionID string) error
}

// Catalog resolves laptops and builds comparison rows.
type Catalog interface {
	Get(ctx context.Context, id string) (laptop.Laptop, error)
	Rows(ctx context.Context, ids []string) ([]recommendation.ComparisonRow, error)
}
