package chi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/kailas-cloud/laptopmatch/internal/domain"
	"github.com/kailas-cloud/laptopmatch/internal/domain/criteria"
	"github.com/kailas-cloud/laptopmatch/internal/domain/laptop"
	"github.com/kailas-cloud/laptopmatch/internal/domain/recommendation"
	domsl "github.com/kailas-cloud/laptopmatch/internal/domain/shortlist"
	domusage "github.com/kailas-cloud/laptopmatch/internal/domain/usage"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// --- Requests ---

// softwareList accepts either a JSON array or a comma-separated string.
type softwareList []string

func (s *softwareList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("software must be a list or a comma-separated string")
	}
	*s = criteria.SplitSoftware(raw)
	return nil
}

type recommendRequest struct {
	Budget          float64      `json:"budget"`
	Purpose         string       `json:"purpose"`
	BrandPreference string       `json:"brandPreference"`
	Portability     bool         `json:"portability"`
	Software        softwareList `json:"software"`
}

func (r recommendRequest) toInput() criteria.Input {
	return criteria.Input{
		Budget:          r.Budget,
		Purpose:         r.Purpose,
		BrandPreference: r.BrandPreference,
		Portability:     r.Portability,
		Software:        r.Software,
	}
}

type compareRequest struct {
	IDs []string `json:"ids" validate:"required,max=32,dive,max=64"`
}

type storyRequest struct {
	Purpose string `json:"purpose" validate:"required,oneof=study coding design gaming"`
}

type compatibilityRequest struct {
	Software softwareList `json:"software" validate:"required,min=1,max=20,dive,max=100"`
}

type speechRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type noteRequest struct {
	Note string `json:"note" validate:"max=2000"`
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

// decode reads a JSON body into dst and validates its struct tags.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	// Read fully first: the json stream decoder does not surface reader errors.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", errPayloadTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		fields := make([]domain.FieldError, len(verrs))
		for i, fe := range verrs {
			fields[i] = domain.FieldError{Field: fe.Field(), Message: fieldMessage(fe)}
		}
		return domain.NewValidationError(domain.ErrInvalidInput, fields)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must have at least " + fe.Param() + " items"
	case "max":
		return "must have at most " + fe.Param() + " characters or items"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

// --- Responses ---

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Count: len(items)}
}

type laptopResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Brand           string   `json:"brand"`
	Price           int      `json:"price"`
	RAM             int      `json:"ram"`
	CPU             string   `json:"cpu"`
	GPU             string   `json:"gpu"`
	Weight          float64  `json:"weight"`
	PurposeTags     []string `json:"purposeTags"`
	StudentDiscount bool     `json:"studentDiscount,omitempty"`
	DiscountInfo    string   `json:"discountInfo,omitempty"`
}

func laptopToResponse(l laptop.Laptop) laptopResponse {
	tags := make([]string, 0, len(l.PurposeTags()))
	for _, p := range l.PurposeTags() {
		tags = append(tags, p.String())
	}
	return laptopResponse{
		ID:              l.ID(),
		Name:            l.Name(),
		Brand:           l.Brand(),
		Price:           l.Price(),
		RAM:             l.RAM(),
		CPU:             l.CPU(),
		GPU:             l.GPU(),
		Weight:          l.Weight(),
		PurposeTags:     tags,
		StudentDiscount: l.StudentDiscount(),
		DiscountInfo:    l.DiscountInfo(),
	}
}

func laptopsToResponse(ls []laptop.Laptop) []laptopResponse {
	out := make([]laptopResponse, len(ls))
	for i, l := range ls {
		out[i] = laptopToResponse(l)
	}
	return out
}

type recommendationResponse struct {
	laptopResponse
	Reason string  `json:"reason"`
	Score  float64 `json:"score"`
}

func recommendationsToResponse(recs []recommendation.Recommendation) []recommendationResponse {
	out := make([]recommendationResponse, len(recs))
	for i, r := range recs {
		out[i] = recommendationResponse{
			laptopResponse: laptopToResponse(r.Laptop()),
			Reason:         r.Reason(),
			Score:          r.Score(),
		}
	}
	return out
}

type comparisonRowResponse struct {
	Label    string         `json:"label"`
	CPUScore int            `json:"cpuScore"`
	GPUScore int            `json:"gpuScore"`
	Laptop   laptopResponse `json:"laptop"`
}

func rowsToResponse(rows []recommendation.ComparisonRow) []comparisonRowResponse {
	out := make([]comparisonRowResponse, len(rows))
	for i, r := range rows {
		out[i] = comparisonRowResponse{
			Label:    r.Label(),
			CPUScore: r.CPUScore(),
			GPUScore: r.GPUScore(),
			Laptop:   laptopToResponse(r.Laptop()),
		}
	}
	return out
}

type textResponse struct {
	LaptopID string `json:"laptopId,omitempty"`
	Text     string `json:"text"`
}

type speechResponse struct {
	Audio string `json:"audio"`
}

type shortlistResponse struct {
	SessionID  string            `json:"sessionId"`
	Starred    []string          `json:"starred"`
	Notes      map[string]string `json:"notes"`
	Comparison []string          `json:"comparison"`
	UpdatedAt  *time.Time        `json:"updatedAt,omitempty"`
}

func shortlistToResponse(s domsl.Shortlist) shortlistResponse {
	resp := shortlistResponse{
		SessionID:  s.SessionID(),
		Starred:    s.Starred(),
		Notes:      s.Notes(),
		Comparison: s.Comparison(),
	}
	if resp.Starred == nil {
		resp.Starred = []string{}
	}
	if resp.Comparison == nil {
		resp.Comparison = []string{}
	}
	if resp.Notes == nil {
		resp.Notes = map[string]string{}
	}
	if s.UpdatedAt() > 0 {
		t := time.UnixMilli(s.UpdatedAt()).UTC()
		resp.UpdatedAt = &t
	}
	return resp
}

type budgetResponse struct {
	TokensLimit     int64            `json:"tokensLimit"`
	TokensUsed      int64            `json:"tokensUsed"`
	TokensRemaining int64            `json:"tokensRemaining"`
	Exhausted       bool             `json:"exhausted"`
	ResetsAt        *time.Time       `json:"resetsAt,omitempty"`
	ByPrompt        map[string]int64 `json:"byPrompt,omitempty"`
}

type usageResponse struct {
	Period        string         `json:"period"`
	Provider      string         `json:"provider,omitempty"`
	PeriodStartAt *time.Time     `json:"periodStartAt,omitempty"`
	PeriodEndAt   *time.Time     `json:"periodEndAt,omitempty"`
	Budget        budgetResponse `json:"budget"`
}

func usageToResponse(r domusage.Report) usageResponse {
	b := r.Budget()
	resp := usageResponse{
		Period:   string(r.Period()),
		Provider: r.Provider(),
		Budget: budgetResponse{
			TokensLimit:     b.TokensLimit,
			TokensUsed:      b.TokensUsed,
			TokensRemaining: b.TokensRemaining,
			Exhausted:       b.Exhausted(),
			ByPrompt:        b.ByPrompt,
		},
	}
	if !r.Start().IsZero() {
		start, end := r.Start(), r.End()
		resp.PeriodStartAt = &start
		resp.PeriodEndAt = &end
	}
	if !b.ResetsAt.IsZero() {
		resetsAt := b.ResetsAt
		resp.Budget.ResetsAt = &resetsAt
	}
	return resp
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}

type reloadResponse struct {
	Laptops int `json:"laptops"`
}
