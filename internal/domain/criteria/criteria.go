package criteria

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/laptopmatch/internal/domain"
	"github.com/kailas-cloud/laptopmatch/internal/domain/purpose"
)

// Budget bounds accepted from callers.
const (
	MinBudget = 10000
	MaxBudget = 1000000
)

// PortableMaxWeight is the heaviest laptop (kg) kept when portability is requested.
const PortableMaxWeight = 1.8

// Criteria is a validated search request (immutable value object).
type Criteria struct {
	budget          float64
	purpose         purpose.Purpose
	brandPreference string
	portability     bool
	software        []string
}

// Params groups the fields of a Criteria.
type Params struct {
	Budget          float64
	Purpose         purpose.Purpose
	BrandPreference string
	Portability     bool
	Software        []string
}

// Input is the raw, unvalidated criteria as received from a caller.
type Input struct {
	Budget          float64  `json:"budget" validate:"gte=10000,lte=1000000"`
	Purpose         string   `json:"purpose" validate:"required,oneof=study coding design gaming"`
	BrandPreference string   `json:"brandPreference" validate:"max=64"`
	Portability     bool     `json:"portability"`
	Software        []string `json:"software" validate:"max=20,dive,max=100"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Parse validates raw input and builds Criteria.
// Validation failures are returned as *domain.ValidationError wrapping domain.ErrInvalidCriteria.
func Parse(in Input) (Criteria, error) {
	in.Software = NormalizeSoftware(in.Software)
	if err := validate.Struct(in); err != nil {
		return Criteria{}, toValidationError(err)
	}
	return Reconstruct(Params{
		Budget:          in.Budget,
		Purpose:         purpose.Purpose(in.Purpose),
		BrandPreference: strings.TrimSpace(in.BrandPreference),
		Portability:     in.Portability,
		Software:        in.Software,
	}), nil
}

// Reconstruct creates Criteria without validation (tests, trusted callers).
func Reconstruct(p Params) Criteria {
	return Criteria{
		budget:          p.Budget,
		purpose:         p.Purpose,
		brandPreference: strings.TrimSpace(p.BrandPreference),
		portability:     p.Portability,
		software:        append([]string(nil), p.Software...),
	}
}

// Budget returns the inclusive upper price bound.
func (c Criteria) Budget() float64 { return c.budget }

// Purpose returns the primary purpose.
func (c Criteria) Purpose() purpose.Purpose { return c.purpose }

// BrandPreference returns the preferred brand, empty when absent.
func (c Criteria) BrandPreference() string { return c.brandPreference }

// HasBrandPreference reports whether a brand filter applies. A brand that is
// empty or only whitespace means no preference, so every brand passes.
func (c Criteria) HasBrandPreference() bool { return strings.TrimSpace(c.brandPreference) != "" }

// Portability reports whether heavy laptops are excluded.
func (c Criteria) Portability() bool { return c.portability }

// Software returns a copy of the software list.
func (c Criteria) Software() []string { return append([]string(nil), c.software...) }

// SplitSoftware parses a comma-separated software list.
func SplitSoftware(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return NormalizeSoftware(strings.Split(s, ","))
}

// NormalizeSoftware trims entries and drops empty ones.
func NormalizeSoftware(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if t := strings.TrimSpace(item); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidCriteria, err)
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return domain.NewValidationError(domain.ErrInvalidCriteria, fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "max":
		return "must have at most " + fe.Param() + " characters or items"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
