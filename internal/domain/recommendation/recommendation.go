package recommendation

import "github.com/kailas-cloud/laptopmatch/internal/domain/laptop"

// Recommendation is a ranked laptop with its rationale.
// Score only orders results; it has no meaning across different searches.
type Recommendation struct {
	laptop laptop.Laptop
	reason string
	score  float64
}

// New creates a recommendation.
func New(l laptop.Laptop, reason string, score float64) Recommendation {
	return Recommendation{laptop: l, reason: reason, score: score}
}

// Laptop returns the recommended laptop.
func (r Recommendation) Laptop() laptop.Laptop { return r.laptop }

// Reason returns the generated explanation.
func (r Recommendation) Reason() string { return r.reason }

// Score returns the composite score.
func (r Recommendation) Score() float64 { return r.score }

// ComparisonRow is a laptop with its capability tiers, as shown in side-by-side charts.
type ComparisonRow struct {
	laptop   laptop.Laptop
	cpuScore int
	gpuScore int
}

// NewComparisonRow creates a comparison row.
func NewComparisonRow(l laptop.Laptop, cpuScore, gpuScore int) ComparisonRow {
	return ComparisonRow{laptop: l, cpuScore: cpuScore, gpuScore: gpuScore}
}

// Laptop returns the compared laptop.
func (c ComparisonRow) Laptop() laptop.Laptop { return c.laptop }

// Label returns the short chart label.
func (c ComparisonRow) Label() string { return c.laptop.ShortName() }

// CPUScore returns the processor tier.
func (c ComparisonRow) CPUScore() int { return c.cpuScore }

// GPUScore returns the graphics tier.
func (c ComparisonRow) GPUScore() int { return c.gpuScore }
