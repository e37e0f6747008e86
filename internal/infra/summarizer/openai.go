package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"vidbrief/internal/resilience/circuitbreaker"
	"vidbrief/internal/resilience/retry"
	"vidbrief/internal/utils/text"
)

// LoadOpenAIConfig loads OpenAI provider configuration from environment variables.
func LoadOpenAIConfig() Config {
	return Config{
		CharacterLimit: loadCharacterLimit(),
		Model:          openai.GPT4oMini,
		MaxTokens:      1024,
		Timeout:        15 * time.Second,
		MaxInputRunes:  defaultMaxInputRunes,
	}
}

// OpenAI implements Provider using OpenAI's chat completion API.
// It includes circuit breaker and retry logic for reliability and records
// summary metrics for observability.
type OpenAI struct {
	client          *openai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          Config
	metricsRecorder SummaryMetricsRecorder
}

// NewOpenAI creates a new OpenAI provider with the given API key.
func NewOpenAI(apiKey string) *OpenAI {
	config := LoadOpenAIConfig()

	slog.Info("Initialized OpenAI summarizer",
		slog.Int("character_limit", config.CharacterLimit),
		slog.String("model", config.Model))

	return &OpenAI{
		client:          openai.NewClient(apiKey),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:     retry.AIAPIConfig(),
		config:          config,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// Summarize generates raw summary text for a transcript via the OpenAI API.
func (o *OpenAI) Summarize(ctx context.Context, transcript string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (any, error) {
			return o.doSummarize(ctx, transcript)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("openai summarize failed after retries: %w", retryErr)
	}

	return result, nil
}

// doSummarize performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doSummarize(ctx context.Context, transcript string) (string, error) {
	truncated := text.TruncateRunes(transcript, o.config.MaxInputRunes)
	if len(truncated) < len(transcript) {
		slog.Warn("transcript truncated for openai api",
			slog.Int("original_length", text.CountRunes(transcript)),
			slog.Int("truncated_length", text.CountRunes(truncated)))
	}

	prompt := buildPrompt(truncated, o.config.CharacterLimit)

	slog.InfoContext(ctx, "Starting summarization",
		slog.String("provider", "openai"),
		slog.Int("input_length", text.CountRunes(truncated)),
		slog.Int("character_limit", o.config.CharacterLimit))

	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompt,
		}},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Summarization failed",
			slog.String("provider", "openai"),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", err)
	}

	// Safety check to prevent panic on array access.
	if len(resp.Choices) == 0 {
		slog.ErrorContext(ctx, "OpenAI API returned empty response",
			slog.Duration("duration", duration))
		return "", fmt.Errorf("openai api returned empty response")
	}

	summary := resp.Choices[0].Message.Content
	o.recordResult(ctx, summary, duration)
	return summary, nil
}

// recordResult logs the outcome and records metrics for a completed call.
func (o *OpenAI) recordResult(ctx context.Context, summary string, duration time.Duration) {
	summaryLength := text.CountRunes(summary)
	withinLimit := summaryLength <= o.config.CharacterLimit

	slog.InfoContext(ctx, "Summarization completed",
		slog.String("provider", "openai"),
		slog.Int("summary_length", summaryLength),
		slog.Bool("within_limit", withinLimit),
		slog.Duration("duration", duration))

	o.metricsRecorder.RecordLength(summaryLength)
	o.metricsRecorder.RecordDuration(duration)
	o.metricsRecorder.RecordCompliance(withinLimit)
	if !withinLimit {
		o.metricsRecorder.RecordLimitExceeded()
	}
}

// buildPrompt constructs the summarization prompt shared by all providers.
// The marker instructions match what ParseProviderText expects.
func buildPrompt(transcript string, charLimit int) string {
	return fmt.Sprintf(
		"Summarize the following video transcript.\n"+
			"Respond with a section starting with \"SUMMARY:\" containing a prose summary of at most %d characters, "+
			"followed by a section starting with \"KEY POINTS:\" listing 3 to 8 short bullet points.\n\n%s",
		charLimit, transcript)
}
