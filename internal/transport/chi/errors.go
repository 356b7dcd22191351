package chi

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/domain"
	logpkg "github.com/kailas-cloud/laptopmatch/internal/logger"
)

// ErrorCode is the machine-readable error code of an API error response.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodePayloadTooLarge    ErrorCode = "payload_too_large"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeLaptopNotFound     ErrorCode = "laptop_not_found"
	CodeNotFound           ErrorCode = "not_found"
	CodeQuotaExceeded      ErrorCode = "generation_quota_exceeded"
	CodeProviderError      ErrorCode = "generation_provider_error"
	CodeServiceUnavailable ErrorCode = "generation_unavailable"
	CodeRateLimited        ErrorCode = "rate_limited"
	CodeNotImplemented     ErrorCode = "not_implemented"
	CodeInvalidCatalog     ErrorCode = "invalid_catalog"
	CodeInternalError      ErrorCode = "internal_error"
)

var (
	// errBadRequest marks malformed request bodies.
	errBadRequest = errors.New("invalid request body")
	// errPayloadTooLarge marks bodies over maxBodyBytes.
	errPayloadTooLarge = errors.New("request body too large")
)

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Code    ErrorCode        `json:"code"`
	Message string           `json:"message"`
	Details []fieldErrorBody `json:"details,omitempty"`
}

type fieldErrorBody struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

var errorHandlers = []errorHandler{
	validationHandler,
	sentinelHandler(errPayloadTooLarge, http.StatusRequestEntityTooLarge, CodePayloadTooLarge),
	sentinelHandler(errBadRequest, http.StatusBadRequest, CodeBadRequest),
	sentinelHandler(domain.ErrInvalidCriteria, http.StatusBadRequest, CodeValidationFailed),
	sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed),
	sentinelHandler(domain.ErrLaptopNotFound, http.StatusNotFound, CodeLaptopNotFound),
	sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
	sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
	sentinelHandler(domain.ErrGenerationQuotaExceeded, http.StatusPaymentRequired, CodeQuotaExceeded),
	sentinelHandler(domain.ErrGenerationUnavailable, http.StatusServiceUnavailable, CodeServiceUnavailable),
	sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway, CodeProviderError),
	sentinelHandler(domain.ErrNotImplemented, http.StatusNotImplemented, CodeNotImplemented),
	sentinelHandler(domain.ErrInvalidCatalog, http.StatusUnprocessableEntity, CodeInvalidCatalog),
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		errBadRequest,
		domain.ErrLaptopNotFound,
		domain.ErrNotFound,
		domain.ErrInvalidCriteria,
		domain.ErrInvalidInput,
		domain.ErrRateLimited,
		domain.ErrGenerationQuotaExceeded,
		domain.ErrGenerationUnavailable,
		domain.ErrGenerationProviderError,
		domain.ErrNotImplemented,
		domain.ErrInvalidCatalog,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler renders per-field details of a *domain.ValidationError.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	details := make([]fieldErrorBody, len(ve.Fields))
	for i, f := range ve.Fields {
		details[i] = fieldErrorBody{Field: f.Field, Message: f.Message}
	}
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:    CodeValidationFailed,
		Message: msg,
		Details: details,
	})
	return true
}

func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context())
	msg := safeDomainMessage(err)
	for _, h := range errorHandlers {
		if h(w, err, msg) {
			logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
