package narrative

import (
	"context"

	"github.com/kailas-cloud/laptopmatch/internal/domain/laptop"
)

// LaptopSource resolves catalog laptops by id.
type LaptopSource interface {
	Get(ctx context.Context, id string) (laptop.Laptop, error)
}
