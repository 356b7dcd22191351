package laptopmatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/domain"
	"github.com/kailas-cloud/laptopmatch/internal/domain/criteria"
	"github.com/kailas-cloud/laptopmatch/internal/domain/laptop"
	"github.com/kailas-cloud/laptopmatch/internal/domain/purpose"
	catalogrepo "github.com/kailas-cloud/laptopmatch/internal/repository/catalog"
	healthuc "github.com/kailas-cloud/laptopmatch/internal/usecase/health"
	narrativeuc "github.com/kailas-cloud/laptopmatch/internal/usecase/narrative"
	recommenduc "github.com/kailas-cloud/laptopmatch/internal/usecase/recommend"
)

// catalogSource is satisfied by the file-backed repository and the static catalog.
type catalogSource interface {
	Current() laptop.Catalog
	Size() int
}

type catalogReloader interface {
	Reload(ctx context.Context) (int, error)
}

// staticCatalog serves a fixed snapshot.
type staticCatalog struct {
	c laptop.Catalog
}

func (s staticCatalog) Current() laptop.Catalog { return s.c }
func (s staticCatalog) Size() int               { return s.c.Len() }

// Client is the laptopmatch SDK entry point.
type Client struct {
	catalog   catalogSource
	reloader  catalogReloader
	recSvc    *recommenduc.Service
	narrSvc   *narrativeuc.Service
	healthSvc *healthuc.Service
	obs       *observer
}

// New creates a Client and loads its catalog.
// One of WithCatalogFile or WithLaptops is required.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{obs: obs}
	switch {
	case cfg.catalogPath != "":
		repo := catalogrepo.New(cfg.catalogPath, obs, zap.NewNop())
		if _, err := repo.Reload(ctx); err != nil {
			return nil, fmt.Errorf("laptopmatch: load catalog: %w", err)
		}
		c.catalog, c.reloader = repo, repo
	case len(cfg.laptops) > 0:
		snapshot, err := buildCatalog(cfg.laptops)
		if err != nil {
			return nil, fmt.Errorf("laptopmatch: %w", err)
		}
		c.catalog = staticCatalog{c: snapshot}
	default:
		return nil, errors.New("laptopmatch: catalog required (use WithCatalogFile or WithLaptops)")
	}

	var gen domain.TextGenerator
	if cfg.generator != nil {
		gen = &generatorAdapter{inner: cfg.generator}
	}

	c.recSvc = recommenduc.New(c.catalog, nil)
	c.narrSvc = narrativeuc.New(c.recSvc, gen, nil)
	c.healthSvc = healthuc.New(nil, c.catalog, nil)
	return c, nil
}

func buildCatalog(in []Laptop) (laptop.Catalog, error) {
	laptops := make([]laptop.Laptop, 0, len(in))
	for _, l := range in {
		dl, err := toLaptop(l)
		if err != nil {
			return laptop.Catalog{}, fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, err)
		}
		laptops = append(laptops, dl)
	}
	return laptop.NewCatalog(laptops)
}

// Recommend returns up to five laptops ranked for the criteria.
// Invalid criteria return an error wrapping ErrInvalidCriteria; no match returns an empty slice.
func (c *Client) Recommend(ctx context.Context, crit Criteria) (_ []Recommendation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	parsed, err := criteria.Parse(criteria.Input{
		Budget:          crit.Budget,
		Purpose:         string(crit.Purpose),
		BrandPreference: crit.BrandPreference,
		Portability:     crit.Portability,
		Software:        crit.Software,
	})
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return fromRecommendations(c.recSvc.Find(ctx, parsed)), nil
}

// Laptops returns the whole catalog in file order.
func (c *Client) Laptops(ctx context.Context) []Laptop {
	all := c.recSvc.List(ctx)
	out := make([]Laptop, len(all))
	for i, l := range all {
		out[i] = fromLaptop(l)
	}
	return out
}

// Laptop returns a single catalog entry.
func (c *Client) Laptop(ctx context.Context, id string) (_ Laptop, err error) {
	start := time.Now()
	defer func() { c.obs.observe("laptop.get", start, err) }()

	l, err := c.recSvc.Get(ctx, id)
	if err != nil {
		return Laptop{}, fmt.Errorf("get laptop: %w", err)
	}
	return fromLaptop(l), nil
}

// Deals returns laptops that carry a student discount.
func (c *Client) Deals(ctx context.Context) []Recommendation {
	return fromRecommendations(c.recSvc.Deals(ctx))
}

// Compare returns CPU and GPU tier scores for two to six laptops.
func (c *Client) Compare(ctx context.Context, ids ...string) (_ []ComparisonRow, err error) {
	start := time.Now()
	defer func() { c.obs.observe("compare", start, err) }()

	rows, err := c.recSvc.Compare(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	return fromRows(rows), nil
}

// Story asks the Generator for a short story about a student using the laptop.
func (c *Client) Story(ctx context.Context, laptopID string, p Purpose) (_ string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("story", start, err) }()

	text, err := c.narrSvc.Story(ctx, laptopID, purpose.Purpose(p))
	if err != nil {
		return "", fmt.Errorf("story: %w", err)
	}
	return text, nil
}

// Compatibility asks the Generator whether the laptop runs the given software.
func (c *Client) Compatibility(ctx context.Context, laptopID string, software []string) (_ string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("compatibility", start, err) }()

	text, err := c.narrSvc.Compatibility(ctx, laptopID, software)
	if err != nil {
		return "", fmt.Errorf("compatibility: %w", err)
	}
	return text, nil
}

// Reload re-reads the catalog file. The previous catalog stays active on failure.
// Clients built with WithLaptops return ErrNotImplemented.
func (c *Client) Reload(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("catalog.reload", start, err) }()

	if c.reloader == nil {
		return 0, fmt.Errorf("reload: %w", domain.ErrNotImplemented)
	}
	n, err = c.reloader.Reload(ctx)
	if err != nil {
		return 0, fmt.Errorf("reload: %w", err)
	}
	return n, nil
}
