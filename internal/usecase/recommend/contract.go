package recommend

import "github.com/kailas-cloud/laptopmatch/internal/domain/laptop"

// CatalogSource provides the current immutable catalog snapshot.
type CatalogSource interface {
	Current() laptop.Catalog
}

// Recorder observes search outcomes (metrics).
type Recorder interface {
	RecordSearch(purpose string, results int)
}
