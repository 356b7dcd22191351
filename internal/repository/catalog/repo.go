// Package catalog loads the laptop catalog from a JSON file and serves it as an
// immutable snapshot that can be swapped at runtime.
package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/domain"
	"github.com/kailas-cloud/laptopmatch/internal/domain/laptop"
	"github.com/kailas-cloud/laptopmatch/internal/domain/purpose"
)

// Observer is notified after every load attempt.
type Observer interface {
	CatalogLoaded(size int, err error)
}

// Repo holds the active catalog snapshot.
type Repo struct {
	path     string
	current  atomic.Pointer[laptop.Catalog]
	reloadMu sync.Mutex
	observer Observer
	logger   *zap.Logger
}

// New creates a catalog repository for the file at path. Call Reload before serving.
// observer can be nil.
func New(path string, observer Observer, logger *zap.Logger) *Repo {
	r := &Repo{path: path, observer: observer, logger: logger}
	empty, _ := laptop.NewCatalog(nil)
	r.current.Store(&empty)
	return r
}

// Current returns the active snapshot.
func (r *Repo) Current() laptop.Catalog {
	return *r.current.Load()
}

// Size returns the number of laptops in the active snapshot.
func (r *Repo) Size() int { return r.Current().Len() }

// Reload reads the file again and swaps the snapshot.
// On failure the previous snapshot stays active.
func (r *Repo) Reload(ctx context.Context) (int, error) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	c, err := r.read(ctx)
	if r.observer != nil {
		r.observer.CatalogLoaded(c.Len(), err)
	}
	if err != nil {
		r.logger.Error("Catalog reload failed, keeping previous snapshot",
			zap.String("path", r.path),
			zap.Int("active_laptops", r.Current().Len()),
			zap.Error(err),
		)
		return 0, err
	}

	r.current.Store(&c)
	r.logger.Info("Catalog loaded", zap.String("path", r.path), zap.Int("laptops", c.Len()))
	return c.Len(), nil
}

func (r *Repo) read(ctx context.Context) (laptop.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return laptop.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	data, err := os.ReadFile(filepath.Clean(r.path))
	if err != nil {
		return laptop.Catalog{}, fmt.Errorf("%w: read %s: %w", domain.ErrInvalidCatalog, r.path, err)
	}
	return Decode(data)
}

// record is the on-disk laptop shape.
type record struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Brand           string   `json:"brand"`
	Price           int      `json:"price"`
	RAM             int      `json:"ram"`
	CPU             string   `json:"cpu"`
	GPU             string   `json:"gpu"`
	Weight          float64  `json:"weight"`
	PurposeTags     []string `json:"purposeTags"`
	StudentDiscount bool     `json:"studentDiscount,omitempty"`
	DiscountInfo    string   `json:"discountInfo,omitempty"`
}

// Decode parses and validates a JSON array of laptops.
func Decode(data []byte) (laptop.Catalog, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return laptop.Catalog{}, fmt.Errorf("%w: decode: %w", domain.ErrInvalidCatalog, err)
	}

	laptops := make([]laptop.Laptop, 0, len(records))
	for i, rec := range records {
		tags := make([]purpose.Purpose, len(rec.PurposeTags))
		for j, t := range rec.PurposeTags {
			tags[j] = purpose.Purpose(t)
		}
		l, err := laptop.New(laptop.Params{
			ID:              rec.ID,
			Name:            rec.Name,
			Brand:           rec.Brand,
			Price:           rec.Price,
			RAM:             rec.RAM,
			CPU:             rec.CPU,
			GPU:             rec.GPU,
			Weight:          rec.Weight,
			PurposeTags:     tags,
			StudentDiscount: rec.StudentDiscount,
			DiscountInfo:    rec.DiscountInfo,
		})
		if err != nil {
			return laptop.Catalog{}, fmt.Errorf("%w: record %d: %w", domain.ErrInvalidCatalog, i, err)
		}
		laptops = append(laptops, l)
	}

	c, err := laptop.NewCatalog(laptops)
	if err != nil {
		return laptop.Catalog{}, fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, err)
	}
	return c, nil
}
