package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// systemInstruction is the fixed system turn sent with every OpenAI
// request.
const systemInstruction = "You are a helpful research assistant for academic writing. Provide clear, specific, and actionable advice to help improve academic papers."

// OpenAI calls the OpenAI chat completions API.
type OpenAI struct {
	apiKey string
	client *http.Client
}

// NewOpenAI constructs the adapter. A non-positive timeout falls back to
// 30 seconds; upstream calls must never hold resources unbounded.
func NewOpenAI(apiKey string, timeout time.Duration) *OpenAI {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAI{apiKey: apiKey, client: &http.Client{Timeout: timeout}}
}

func (p *OpenAI) Name() string { return NameOpenAI }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (p *OpenAI) Complete(ctx context.Context, cfg ModelConfig, prompt string) (string, error) {
	payload := chatRequest{
		Model: cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
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
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

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

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &UpstreamError{Provider: p.Name(), HTTPStatus: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	if len(out.Choices) == 0 {
		return "", &UpstreamError{Provider: p.Name(), HTTPStatus: resp.StatusCode, Message: "response contained no choices"}
	}
	return out.Choices[0].Message.Content, nil
}
