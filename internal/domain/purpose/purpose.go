package purpose

// Purpose is the primary use a student has for a laptop.
type Purpose string

// Supported purposes.
const (
	Study  Purpose = "study"
	Coding Purpose = "coding"
	Design Purpose = "design"
	Gaming Purpose = "gaming"
)

// All lists the supported purposes in display order.
func All() []Purpose {
	return []Purpose{Study, Coding, Design, Gaming}
}

// IsValid checks if the purpose is one of the supported values.
func (p Purpose) IsValid() bool {
	return p == Study || p == Coding || p == Design || p == Gaming
}

func (p Purpose) String() string { return string(p) }

// Weights is the per-attribute multiplier tuple used by the composite score.
type Weights struct {
	RAM   float64
	CPU   float64
	GPU   float64
	Price float64
}

var weights = map[Purpose]Weights{
	Study:  {RAM: 2, CPU: 2, GPU: 1, Price: 3},
	Coding: {RAM: 3, CPU: 3, GPU: 1, Price: 2},
	Design: {RAM: 3, CPU: 2, GPU: 3, Price: 1},
	Gaming: {RAM: 2, CPU: 2, GPU: 4, Price: 1},
}

// Weights returns the scoring weights for the purpose.
// Unknown purposes get the zero tuple.
func (p Purpose) Weights() Weights {
	return weights[p]
}
