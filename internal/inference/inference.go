// Package inference forwards generation requests to an OpenAI-compatible
// upstream. The numerical model internals live entirely on the other side of
// that API; this package only maps public model names to upstream model IDs
// and shapes the requests.
package inference

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrModelNotFound reports a request for a model name not present in the
// registry.
var ErrModelNotFound = errors.New("inference: model not found")

// Registry maps public model names to the upstream model identifiers they
// resolve to. Text and audio models live in separate namespaces since they
// serve different endpoints.
type Registry struct {
	Text  map[string]string
	Audio map[string]string
}

type Service struct {
	client   *openai.Client
	registry Registry
}

// NewService builds the upstream client. An empty baseURL keeps the
// library's default endpoint.
func NewService(baseURL, apiKey string, registry Registry) *Service {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Service{
		client:   openai.NewClientWithConfig(cfg),
		registry: registry,
	}
}

// Result carries the generated output and how long the upstream call took,
// in seconds.
type Result struct {
	Output        string  `json:"output"`
	InferenceTime float64 `json:"inference_time"`
}

// Raw runs bare completion over the input with no prompt template applied.
func (s *Service) Raw(ctx context.Context, model, input string, maxLength int) (Result, error) {
	upstream, ok := s.registry.Text[model]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrModelNotFound, model)
	}

	start := time.Now()
	resp, err := s.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     upstream,
		Prompt:    input,
		MaxTokens: maxLength,
	})
	if err != nil {
		return Result{}, fmt.Errorf("inference: raw completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.New("inference: upstream returned no choices")
	}

	return Result{
		Output:        resp.Choices[0].Text,
		InferenceTime: time.Since(start).Seconds(),
	}, nil
}

// Instruct runs the input through the upstream's chat/instruct template.
func (s *Service) Instruct(ctx context.Context, model, input string, maxLength int) (Result, error) {
	upstream, ok := s.registry.Text[model]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrModelNotFound, model)
	}

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: upstream,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
		MaxTokens: maxLength,
	})
	if err != nil {
		return Result{}, fmt.Errorf("inference: instruct completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.New("inference: upstream returned no choices")
	}

	return Result{
		Output:        resp.Choices[0].Message.Content,
		InferenceTime: time.Since(start).Seconds(),
	}, nil
}

// Transcribe sends audio bytes to the upstream transcription endpoint.
// The filename only informs the upstream of the container format.
func (s *Service) Transcribe(
	ctx context.Context,
	model, language, filename string,
	audio io.Reader,
) (Result, error) {
	upstream, ok := s.registry.Audio[model]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrModelNotFound, model)
	}

	start := time.Now()
	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    upstream,
		FilePath: filename,
		Reader:   audio,
		Language: language,
	})
	if err != nil {
		return Result{}, fmt.Errorf("inference: transcription: %w", err)
	}

	return Result{
		Output:        resp.Text,
		InferenceTime: time.Since(start).Seconds(),
	}, nil
}
