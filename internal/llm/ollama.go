package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/isaacphi/playground/internal/domain"
	"github.com/pkg/errors"
)

// maxErrorBody bounds how much of a failed response is kept for the error message
const maxErrorBody = 512

type chatMessage struct {
	Role    domain.Role `json:"role"`
	Content string      `json:"content"`
}

type chatOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  *int     `json:"num_predict,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatResponse struct {
	Message *struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

// ollamaProvider speaks the local daemon's /api/chat protocol directly
type ollamaProvider struct {
	httpClient *http.Client
}

func newChatRequest(cfg ModelConfig, prompt string) chatRequest {
	req := chatRequest{
		Model:    cfg.Model,
		Messages: []chatMessage{{Role: domain.RoleUser, Content: prompt}},
		Stream:   false,
	}
	if cfg.Temperature != nil || cfg.MaxTokens != nil {
		req.Options = &chatOptions{
			Temperature: cfg.Temperature,
			NumPredict:  cfg.MaxTokens,
		}
	}
	return req
}

func (p *ollamaProvider) Chat(ctx context.Context, cfg ModelConfig, prompt string) (string, error) {
	body, err := json.Marshal(newChatRequest(cfg, prompt))
	if err != nil {
		return "", errors.Wrap(err, "failed to encode chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &domain.TransportError{Endpoint: cfg.Endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		// Drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		return "", &domain.HTTPStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(snippet)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.TransportError{Endpoint: cfg.Endpoint, Err: err}
	}
	return parseChatResponse(data)
}

func parseChatResponse(data []byte) (string, error) {
	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &domain.MalformedResponseError{Reason: "invalid json: " + err.Error()}
	}
	if parsed.Message == nil {
		return "", &domain.MalformedResponseError{Reason: "missing message"}
	}

	raw := bytes.TrimSpace(parsed.Message.Content)
	var content string
	if len(raw) == 0 || raw[0] != '"' || json.Unmarshal(raw, &content) != nil {
		return "", &domain.MalformedResponseError{Reason: "message.content is not a string"}
	}
	return content, nil
}
