package laptopmatch

import (
	"github.com/kailas-cloud/laptopmatch/internal/domain/laptop"
	"github.com/kailas-cloud/laptopmatch/internal/domain/purpose"
	"github.com/kailas-cloud/laptopmatch/internal/domain/recommendation"
)

// Purpose is the primary use a student has for a laptop.
type Purpose string

// Purpose constants.
const (
	PurposeStudy  Purpose = "study"
	PurposeCoding Purpose = "coding"
	PurposeDesign Purpose = "design"
	PurposeGaming Purpose = "gaming"
)

// Laptop is a catalog entry.
type Laptop struct {
	ID              string
	Name            string
	Brand           string
	Price           int
	RAM             int
	CPU             string
	GPU             string
	Weight          float64
	PurposeTags     []Purpose
	StudentDiscount bool
	DiscountInfo    string
}

// Criteria describes what the student is looking for.
// Budget and Purpose are required; the rest narrow or steer the ranking.
type Criteria struct {
	Budget          float64
	Purpose         Purpose
	BrandPreference string
	Portability     bool
	Software        []string
}

// Recommendation is a ranked laptop with a short explanation.
type Recommendation struct {
	Laptop Laptop
	Reason string
	Score  float64
}

// ComparisonRow is a side-by-side performance entry.
type ComparisonRow struct {
	Label    string
	CPUScore int
	GPUScore int
	Laptop   Laptop
}

func fromLaptop(l laptop.Laptop) Laptop {
	tags := l.PurposeTags()
	out := make([]Purpose, len(tags))
	for i, t := range tags {
		out[i] = Purpose(t)
	}
	return Laptop{
		ID:              l.ID(),
		Name:            l.Name(),
		Brand:           l.Brand(),
		Price:           l.Price(),
		RAM:             l.RAM(),
		CPU:             l.CPU(),
		GPU:             l.GPU(),
		Weight:          l.Weight(),
		PurposeTags:     out,
		StudentDiscount: l.StudentDiscount(),
		DiscountInfo:    l.DiscountInfo(),
	}
}

func toLaptop(l Laptop) (laptop.Laptop, error) {
	tags := make([]purpose.Purpose, len(l.PurposeTags))
	for i, t := range l.PurposeTags {
		tags[i] = purpose.Purpose(t)
	}
	return laptop.New(laptop.Params{
		ID:              l.ID,
		Name:            l.Name,
		Brand:           l.Brand,
		Price:           l.Price,
		RAM:             l.RAM,
		CPU:             l.CPU,
		GPU:             l.GPU,
		Weight:          l.Weight,
		PurposeTags:     tags,
		StudentDiscount: l.StudentDiscount,
		DiscountInfo:    l.DiscountInfo,
	})
}

func fromRecommendations(recs []recommendation.Recommendation) []Recommendation {
	out := make([]Recommendation, len(recs))
	for i, r := range recs {
		out[i] = Recommendation{Laptop: fromLaptop(r.Laptop()), Reason: r.Reason(), Score: r.Score()}
	}
	return out
}

func fromRows(rows []recommendation.ComparisonRow) []ComparisonRow {
	out := make([]ComparisonRow, len(rows))
	for i, r := range rows {
		out[i] = ComparisonRow{
			Label:    r.Label(),
			CPUScore: r.CPUScore(),
			GPUScore: r.GPUScore(),
			Laptop:   fromLaptop(r.Laptop()),
		}
	}
	return out
}
