// Package provider translates logical model requests into upstream AI API
// calls. Adapters are purely structural: they map a prompt onto each
// provider's wire envelope and extract the completion text back out,
// never inspecting or altering prompt semantics.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider names used in model configuration.
const (
	NameOpenAI    = "openai"
	NameAnthropic = "anthropic"
)

// Fixed sampling temperature for all completion calls.
const temperature = 0.3

// ModelConfig maps a logical model name onto a provider endpoint. Loaded
// once at startup from static configuration; not user-mutable.
type ModelConfig struct {
	Provider  string `yaml:"provider" json:"provider"`
	Model     string `yaml:"model" json:"model"`
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	MaxTokens int    `yaml:"max_tokens" json:"maxTokens"`
}

// Provider performs a single non-streaming completion against one
// upstream API.
type Provider interface {
	Name() string

	// Complete sends prompt to the configured upstream model and returns
	// the completion text. Any non-2xx status or malformed body yields an
	// *UpstreamError.
	Complete(ctx context.Context, cfg ModelConfig, prompt string) (string, error)
}

// UpstreamError reports a failed upstream call. It is never retried:
// generative calls carry no idempotency guarantee, so a blind retry could
// double-bill the caller. HTTPStatus is 0 when the request never got a
// response.
type UpstreamError struct {
	Provider   string
	HTTPStatus int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.HTTPStatus, e.Message)
}

// chatMessage is a single conversation turn; both providers use the same
// role/content pair.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// errorEnvelope is the {"error":{"message":...}} shape both providers use
// for failure bodies.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// statusMessage extracts the provider's error message from a failure body,
// falling back to the HTTP status text.
func statusMessage(body []byte, fallback string) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		return env.Error.Message
	}
	return fallback
}
