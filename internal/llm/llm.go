package llm

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/isaacphi/playground/internal/domain"
	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

const (
	ProviderOllama    = "ollama"
	ProviderLangchain = "langchain"
	ProviderOpenAI    = "openai"
)

// Providers lists every provider name accepted in configuration
var Providers = []string{ProviderOllama, ProviderLangchain, ProviderOpenAI}

// Provider turns one prompt into one reply for a given model configuration
type Provider interface {
	Chat(ctx context.Context, cfg ModelConfig, prompt string) (string, error)
}

// langchainProvider goes through langchaingo models instead of talking HTTP directly
type langchainProvider struct {
	kind       string
	httpClient *http.Client
}

func (p *langchainProvider) createModel(cfg ModelConfig, httpClient *http.Client) (llms.Model, error) {
	var model llms.Model
	var err error

	switch p.kind {
	case ProviderLangchain:
		model, err = ollama.New(
			ollama.WithServerURL(serverURL(cfg.Endpoint)),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, &domain.MissingCredentialError{Provider: p.kind}
		}
		opts := []openai.Option{
			openai.WithModel(cfg.Model),
			openai.WithToken(cfg.APIKey),
			openai.WithHTTPClient(httpClient),
		}
		if cfg.Endpoint != DefaultEndpoint {
			opts = append(opts, openai.WithBaseURL(cfg.Endpoint))
		}
		model, err = openai.New(opts...)
	default:
		return nil, errors.Wrapf(domain.ErrUnsupportedProvider, "provider %q", p.kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s client", p.kind)
	}
	return model, nil
}

func (p *langchainProvider) Chat(ctx context.Context, cfg ModelConfig, prompt string) (string, error) {
	rec := &exchangeRecorder{base: p.httpClient.Transport}
	httpClient := &http.Client{Timeout: p.httpClient.Timeout, Transport: rec}

	model, err := p.createModel(cfg, httpClient)
	if err != nil {
		return "", err
	}

	var opts []llms.CallOption
	if cfg.Temperature != nil {
		opts = append(opts, llms.WithTemperature(*cfg.Temperature))
	}
	if cfg.MaxTokens != nil {
		opts = append(opts, llms.WithMaxTokens(*cfg.MaxTokens))
	}

	msgs := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}
	resp, err := model.GenerateContent(ctx, msgs, opts...)

	// langchaingo flattens every failure into a plain error, so classify from
	// what actually went over the wire
	if rec.status != 0 && (rec.status < 200 || rec.status > 299) {
		return "", &domain.HTTPStatusError{Code: rec.status, Body: rec.snippet()}
	}
	if err != nil {
		if rec.status == 0 {
			return "", &domain.TransportError{Endpoint: cfg.Endpoint, Err: err}
		}
		return "", &domain.MalformedResponseError{Reason: err.Error()}
	}
	if len(resp.Choices) == 0 {
		return "", &domain.MalformedResponseError{Reason: "no response choices returned"}
	}

	content := resp.Choices[0].Content
	if content == "" && p.kind == ProviderLangchain {
		// An empty reply is only valid when the daemon actually sent one
		if _, err := parseChatResponse(rec.body); err != nil {
			return "", err
		}
	}
	return content, nil
}

// exchangeRecorder keeps the status and body of the last response it carried.
// Only used for non-streaming requests, so buffering the body is fine.
type exchangeRecorder struct {
	base   http.RoundTripper
	status int
	body   []byte
}

func (r *exchangeRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	base := r.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	r.status = resp.StatusCode
	r.body = data
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return resp, nil
}

func (r *exchangeRecorder) snippet() string {
	body := r.body
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return strings.TrimSpace(string(body))
}

// serverURL strips the chat path so langchaingo can append its own
func serverURL(endpoint string) string {
	endpoint = strings.TrimSuffix(endpoint, "/")
	return strings.TrimSuffix(endpoint, "/api/chat")
}
