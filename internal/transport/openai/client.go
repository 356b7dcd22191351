// Package openai adapts an OpenAI-compatible API to the generation contracts.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/domain"
	"github.com/kailas-cloud/laptopmatch/internal/metrics"
)

// defaultMaxAudioBytes caps the speech response body when Config leaves it unset.
const defaultMaxAudioBytes = 16 << 20

// Client is a text and speech provider using the OpenAI-compatible API.
type Client struct {
	client      *openai.Client
	model       string
	speechModel openai.SpeechModel
	voice       openai.SpeechVoice
	user        string
	provider    string
	maxAudio    int64
	logger      *zap.Logger
}

// Config holds the provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	SpeechModel string
	Voice       string
	User        string
	Provider    string
	// MaxAudioBytes rejects longer speech responses. Zero means 16 MiB.
	MaxAudioBytes int64
	Logger        *zap.Logger
}

// NewClient creates an OpenAI-compatible provider.
func NewClient(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	maxAudio := cfg.MaxAudioBytes
	if maxAudio <= 0 {
		maxAudio = defaultMaxAudioBytes
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		speechModel: openai.SpeechModel(cfg.SpeechModel),
		voice:       openai.SpeechVoice(cfg.Voice),
		user:        cfg.User,
		provider:    cfg.Provider,
		maxAudio:    maxAudio,
		logger:      cfg.Logger,
	}
}

// Generate implements domain.TextGenerator with transport-level metrics.
func (c *Client) Generate(ctx context.Context, prompt domain.Prompt) (domain.Generation, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: prompt.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt.User})

	req := openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: prompt.MaxTokens,
		User:      c.user,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		metrics.GenerationErrorsTotal.WithLabelValues(c.provider, c.model, "api_error").Inc()
		return domain.Generation{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.GenerationRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		metrics.GenerationErrorsTotal.WithLabelValues(c.provider, c.model, "empty_response").Inc()
		return domain.Generation{}, fmt.Errorf("empty completion response: %w", domain.ErrGenerationProviderError)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(c.provider, c.model).Observe(duration.Seconds())

	promptTokens := resp.Usage.PromptTokens
	totalTokens := resp.Usage.TotalTokens
	if totalTokens > 0 {
		metrics.GenerationTokensTotal.WithLabelValues(c.provider, c.model, "prompt").Add(float64(promptTokens))
		metrics.GenerationTokensTotal.WithLabelValues(c.provider, c.model, "completion").
			Add(float64(resp.Usage.CompletionTokens))
	}

	return domain.Generation{
		Text:         resp.Choices[0].Message.Content,
		PromptTokens: promptTokens,
		TotalTokens:  totalTokens,
	}, nil
}

// Synthesize implements domain.SpeechSynthesizer, returning WAV audio.
func (c *Client) Synthesize(ctx context.Context, text string) (domain.Speech, error) {
	model := string(c.speechModel)
	start := time.Now()

	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          c.speechModel,
		Input:          text,
		Voice:          c.voice,
		ResponseFormat: openai.SpeechResponseFormatWav,
	})
	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(c.provider, model, "error").Inc()
		metrics.GenerationErrorsTotal.WithLabelValues(c.provider, model, "api_error").Inc()
		return domain.Speech{}, parseAPIError(err)
	}
	defer resp.Close()

	// One byte past the cap tells a full-size clip from a truncated one.
	audio, err := io.ReadAll(io.LimitReader(resp, c.maxAudio+1))
	if err == nil && int64(len(audio)) > c.maxAudio {
		metrics.GenerationRequestsTotal.WithLabelValues(c.provider, model, "error").Inc()
		metrics.GenerationErrorsTotal.WithLabelValues(c.provider, model, "audio_too_large").Inc()
		c.logger.Warn("Speech response exceeds size cap",
			zap.String("provider", c.provider),
			zap.Int64("max_bytes", c.maxAudio),
		)
		return domain.Speech{}, fmt.Errorf("%w: audio exceeds %d bytes", domain.ErrGenerationProviderError, c.maxAudio)
	}
	if err != nil || len(audio) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(c.provider, model, "error").Inc()
		metrics.GenerationErrorsTotal.WithLabelValues(c.provider, model, "empty_response").Inc()
		return domain.Speech{}, fmt.Errorf("read speech response: %w", domain.ErrGenerationProviderError)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(c.provider, model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(c.provider, model).Observe(time.Since(start).Seconds())

	return domain.Speech{Audio: audio, Format: string(openai.SpeechResponseFormatWav)}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors wrap domain.ErrGenerationProviderError for the 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrGenerationProviderError

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("generation request: %w: %w", err, wrap)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("generation API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("generation API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("generation request failed: %w", wrap)
}

// extractDetail reads the "detail" field some compatible providers return instead of "error".
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
