package laptopmatch

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	catalogPath string
	laptops     []Laptop
	generator   Generator

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCatalogFile loads the catalog from a JSON file. The file can be re-read with Client.Reload.
func WithCatalogFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogPath = path
	})
}

// WithLaptops uses a fixed in-memory catalog. Ignored when WithCatalogFile is set.
func WithLaptops(laptops []Laptop) Option {
	return optionFunc(func(c *clientConfig) {
		c.laptops = laptops
	})
}

// WithGenerator sets the text provider for Story and Compatibility.
func WithGenerator(g Generator) Option {
	return optionFunc(func(c *clientConfig) {
		c.generator = g
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
