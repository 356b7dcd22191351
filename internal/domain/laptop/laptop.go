package laptop

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/laptopmatch/internal/domain/purpose"
)

// Laptop is a catalog entry (immutable value object).
type Laptop struct {
	id              string
	name            string
	brand           string
	price           int
	ram             int
	cpu             string
	gpu             string
	weight          float64
	purposeTags     []purpose.Purpose
	studentDiscount bool
	discountInfo    string
}

// Params groups the constructor inputs.
type Params struct {
	ID              string
	Name            string
	Brand           string
	Price           int
	RAM             int
	CPU             string
	GPU             string
	Weight          float64
	PurposeTags     []purpose.Purpose
	StudentDiscount bool
	DiscountInfo    string
}

// New validates and creates a Laptop.
func New(p Params) (Laptop, error) {
	if strings.TrimSpace(p.ID) == "" {
		return Laptop{}, fmt.Errorf("laptop id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return Laptop{}, fmt.Errorf("laptop %s: name is required", p.ID)
	}
	if strings.TrimSpace(p.Brand) == "" {
		return Laptop{}, fmt.Errorf("laptop %s: brand is required", p.ID)
	}
	if p.Price <= 0 {
		return Laptop{}, fmt.Errorf("laptop %s: price must be positive", p.ID)
	}
	if p.RAM <= 0 {
		return Laptop{}, fmt.Errorf("laptop %s: ram must be positive", p.ID)
	}
	if p.Weight <= 0 {
		return Laptop{}, fmt.Errorf("laptop %s: weight must be positive", p.ID)
	}
	for _, tag := range p.PurposeTags {
		if !tag.IsValid() {
			return Laptop{}, fmt.Errorf("laptop %s: unknown purpose tag %q", p.ID, tag)
		}
	}
	return Reconstruct(p), nil
}

// Reconstruct creates a Laptop without validation (storage hydration, tests).
func Reconstruct(p Params) Laptop {
	return Laptop{
		id:              p.ID,
		name:            p.Name,
		brand:           p.Brand,
		price:           p.Price,
		ram:             p.RAM,
		cpu:             p.CPU,
		gpu:             p.GPU,
		weight:          p.Weight,
		purposeTags:     slices.Clone(p.PurposeTags),
		studentDiscount: p.StudentDiscount,
		discountInfo:    p.DiscountInfo,
	}
}

// ID returns the stable identifier.
func (l Laptop) ID() string { return l.id }

// Name returns the display name.
func (l Laptop) Name() string { return l.name }

// Brand returns the manufacturer.
func (l Laptop) Brand() string { return l.brand }

// Price returns the price in catalog currency units.
func (l Laptop) Price() int { return l.price }

// RAM returns memory in gigabytes.
func (l Laptop) RAM() int { return l.ram }

// CPU returns the processor descriptor.
func (l Laptop) CPU() string { return l.cpu }

// GPU returns the graphics descriptor.
func (l Laptop) GPU() string { return l.gpu }

// Weight returns the weight in kilograms.
func (l Laptop) Weight() float64 { return l.weight }

// PurposeTags returns a copy of the purposes this laptop suits.
func (l Laptop) PurposeTags() []purpose.Purpose { return slices.Clone(l.purposeTags) }

// StudentDiscount reports whether a student deal is available.
func (l Laptop) StudentDiscount() bool { return l.studentDiscount }

// DiscountInfo returns the deal description, if any.
func (l Laptop) DiscountInfo() string { return l.discountInfo }

// Suits reports whether the laptop is tagged for the purpose.
func (l Laptop) Suits(p purpose.Purpose) bool {
	return slices.Contains(l.purposeTags, p)
}

// IsBrand reports a case-insensitive brand match after trimming the candidate.
func (l Laptop) IsBrand(brand string) bool {
	return strings.EqualFold(l.brand, strings.TrimSpace(brand))
}

// ShortName returns the first three words of the name, used as a chart label.
func (l Laptop) ShortName() string {
	words := strings.Fields(l.name)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}
