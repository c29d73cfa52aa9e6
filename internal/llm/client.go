package llm

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/isaacphi/playground/internal/domain"
	"github.com/pkg/errors"
)

const (
	DefaultModel    = "llama3"
	DefaultEndpoint = "http://localhost:11434/api/chat"
	DefaultProvider = ProviderOllama
)

// ModelConfig describes which model to talk to and how
type ModelConfig struct {
	Provider    string
	Model       string
	Endpoint    string
	MaxTokens   *int
	Temperature *float64
	// Zero means no client-side timeout
	Timeout time.Duration
	APIKey  string
}

// snapshot returns a deep copy so a request never observes later setter calls
func (c ModelConfig) snapshot() ModelConfig {
	out := c
	if c.MaxTokens != nil {
		v := *c.MaxTokens
		out.MaxTokens = &v
	}
	if c.Temperature != nil {
		v := *c.Temperature
		out.Temperature = &v
	}
	return out
}

// Client sends single-message chat requests to a completion endpoint
type Client struct {
	cfg        ModelConfig
	httpClient *http.Client
	provider   Provider
	connected  bool
}

func NewClient(cfg ModelConfig) *Client {
	if cfg.Provider == "" {
		cfg.Provider = DefaultProvider
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &Client{cfg: cfg}
}

func (c *Client) Name() string {
	return "LLM Interface"
}

func (c *Client) Description() string {
	return "Interface for Large Language Models"
}

// Initialize builds the HTTP transport and provider. Calling it again rebuilds both.
func (c *Client) Initialize(ctx context.Context) error {
	slog.Info("initializing llm interface", "model", c.cfg.Model, "provider", c.cfg.Provider)

	httpClient := &http.Client{Timeout: c.cfg.Timeout}
	provider, err := newProvider(c.cfg.Provider, httpClient)
	if err != nil {
		return err
	}

	c.httpClient = httpClient
	c.provider = provider
	c.connected = true
	slog.Info("llm interface initialized", "endpoint", c.cfg.Endpoint)
	return nil
}

func (c *Client) Process() error {
	if !c.connected {
		slog.Warn("llm interface not connected, initialize first")
		return domain.ErrNotInitialized
	}
	slog.Info("processing with llm model", "model", c.cfg.Model)
	return nil
}

func (c *Client) SetAPIKey(key string) {
	c.cfg.APIKey = key
	slog.Info("api key set", "model", c.cfg.Model)
}

func (c *Client) SetModel(model string) {
	c.cfg.Model = model
}

func (c *Client) ModelName() string {
	return c.cfg.Model
}

func (c *Client) IsConnected() bool {
	return c.connected
}

// Config returns a copy of the current model configuration
func (c *Client) Config() ModelConfig {
	return c.cfg.snapshot()
}

// GenerateResponse sends prompt as a single user message and returns the reply text
func (c *Client) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if !c.connected {
		return "", domain.ErrNotInitialized
	}

	cfg := c.cfg.snapshot()
	logger := slog.With("request_id", uuid.NewString(), "model", cfg.Model, "provider", cfg.Provider)
	logger.Debug("generating response", "prompt", prompt)

	start := time.Now()
	content, err := c.provider.Chat(ctx, cfg, prompt)
	if err != nil {
		logger.Error("completion failed", "error", err, "elapsed", time.Since(start))
		return "", err
	}

	logger.Debug("completion received", "elapsed", time.Since(start), "length", len(content))
	return content, nil
}

func newProvider(name string, httpClient *http.Client) (Provider, error) {
	switch name {
	case ProviderOllama:
		return &ollamaProvider{httpClient: httpClient}, nil
	case ProviderLangchain, ProviderOpenAI:
		return &langchainProvider{kind: name, httpClient: httpClient}, nil
	default:
		return nil, errors.Wrapf(domain.ErrUnsupportedProvider, "provider %q", name)
	}
}
