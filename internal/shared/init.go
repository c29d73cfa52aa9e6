package shared

import (
	"github.com/isaacphi/playground/internal/config"
	"github.com/isaacphi/playground/internal/llm"
	"github.com/isaacphi/playground/internal/prompt"
	"github.com/isaacphi/playground/internal/service"
)

// ModelConfig converts the configured model section into client settings
func ModelConfig(cfg config.Model) llm.ModelConfig {
	return llm.ModelConfig{
		Provider:    cfg.Provider,
		Model:       cfg.Name,
		Endpoint:    cfg.Endpoint,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
		APIKey:      cfg.APIKey,
	}
}

// InitializePlayground wires a playground from configuration. Components are created
// but not initialized.
func InitializePlayground(cfg *config.ConfigSchema) *service.Playground {
	prompts := prompt.NewManager(
		prompt.WithTemplates(cfg.Templates...),
		prompt.WithVariables(cfg.Variables),
	)
	client := llm.NewClient(ModelConfig(cfg.Model))
	return service.NewPlayground(prompts, client)
}
