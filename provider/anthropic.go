package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

const anthropicVersion = "2023-06-01"

// Anthropic calls the Anthropic messages API. The payload carries only a
// user turn; this API shape has no system role in the messages list.
type Anthropic struct {
	apiKey string
	client *http.Client
}

// NewAnthropic constructs the adapter. A non-positive timeout falls back
// to 30 seconds.
func NewAnthropic(apiKey string, timeout time.Duration) *Anthropic {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Anthropic{apiKey: apiKey, client: &http.Client{Timeout: timeout}}
}

func (p *Anthropic) Name() string { return NameAnthropic }

type messagesRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type messagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (p *Anthropic) Complete(ctx context.Context, cfg ModelConfig, prompt string) (string, error) {
	payload := messagesRequest{
		Model:       cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   cfg.MaxTokens,
		Temperature: temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &UpstreamError{Provider: p.Name(), Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Provider: p.Name(), HTTPStatus: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{Provider: p.Name(), HTTPStatus: resp.StatusCode, Message: statusMessage(raw, resp.Status)}
	}

	var out messagesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &UpstreamError{Provider: p.Name(), HTTPStatus: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	if len(out.Content) == 0 {
		return "", &UpstreamError{Provider: p.Name(), HTTPStatus: resp.StatusCode, Message: "response contained no content blocks"}
	}
	return out.Content[0].Text, nil
}
