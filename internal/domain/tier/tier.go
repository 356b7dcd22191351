// Package tier maps free-text CPU and GPU descriptors to integer capability tiers.
//
// Tables are ordered: rules are checked top to bottom and the first rule with a
// matching pattern wins, so "m1 pro" must sit above "m1".
package tier

import "strings"

// Rule assigns a score to any descriptor containing one of its patterns.
type Rule struct {
	Patterns []string
	Score    int
}

// Table is an ordered, first-match-wins list of rules with a fallback score.
type Table struct {
	rules    []Rule
	fallback int
}

// NewTable creates a table. Patterns are matched case-insensitively.
func NewTable(fallback int, rules ...Rule) Table {
	normalized := make([]Rule, len(rules))
	for i, r := range rules {
		patterns := make([]string, len(r.Patterns))
		for j, p := range r.Patterns {
			patterns[j] = strings.ToLower(p)
		}
		normalized[i] = Rule{Patterns: patterns, Score: r.Score}
	}
	return Table{rules: normalized, fallback: fallback}
}

// Score returns the tier for the descriptor.
func (t Table) Score(descriptor string) int {
	lower := strings.ToLower(descriptor)
	for _, r := range t.rules {
		for _, p := range r.Patterns {
			if strings.Contains(lower, p) {
				return r.Score
			}
		}
	}
	return t.fallback
}

// CPU is the processor tier table.
var CPU = NewTable(2,
	Rule{Patterns: []string{"m3 pro", "m3 max"}, Score: 12},
	Rule{Patterns: []string{"m3"}, Score: 11},
	Rule{Patterns: []string{"m2 pro", "m2 max"}, Score: 10},
	Rule{Patterns: []string{"m2"}, Score: 9},
	Rule{Patterns: []string{"m1 pro", "m1 max"}, Score: 8},
	Rule{Patterns: []string{"m1"}, Score: 7},
	Rule{Patterns: []string{"i9", "ryzen 9"}, Score: 10},
	Rule{Patterns: []string{"i7", "ryzen 7"}, Score: 8},
	Rule{Patterns: []string{"i5", "ryzen 5"}, Score: 6},
	Rule{Patterns: []string{"i3", "ryzen 3"}, Score: 4},
)

// GPU is the graphics tier table.
var GPU = NewTable(1,
	Rule{Patterns: []string{"rtx 4090"}, Score: 12},
	Rule{Patterns: []string{"rtx 4080"}, Score: 11},
	Rule{Patterns: []string{"rtx 4070"}, Score: 10},
	Rule{Patterns: []string{"rtx 4060"}, Score: 9},
	Rule{Patterns: []string{"rtx 3080", "rtx 4050"}, Score: 8},
	Rule{Patterns: []string{"rtx 3070"}, Score: 7},
	Rule{Patterns: []string{"rtx 3060", "rtx 2050"}, Score: 6},
	Rule{Patterns: []string{"rtx 3050"}, Score: 5},
	Rule{Patterns: []string{"iris xe"}, Score: 4},
	Rule{Patterns: []string{"radeon"}, Score: 3},
	Rule{Patterns: []string{"integrated", "uhd"}, Score: 2},
)

// CPUScore returns the processor tier (2..12).
func CPUScore(cpu string) int { return CPU.Score(cpu) }

// GPUScore returns the graphics tier (1..12).
func GPUScore(gpu string) int { return GPU.Score(gpu) }
