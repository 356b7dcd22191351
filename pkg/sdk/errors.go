package laptopmatch

import "github.com/kailas-cloud/laptopmatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrLaptopNotFound          = domain.ErrLaptopNotFound
	ErrInvalidCriteria         = domain.ErrInvalidCriteria
	ErrInvalidInput            = domain.ErrInvalidInput
	ErrInvalidCatalog          = domain.ErrInvalidCatalog
	ErrNotImplemented          = domain.ErrNotImplemented
	ErrGenerationProviderError = domain.ErrGenerationProviderError
)
