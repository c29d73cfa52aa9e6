package shared

import (
	"testing"
	"time"

	"github.com/isaacphi/playground/internal/config"
	"github.com/isaacphi/playground/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializePlayground(t *testing.T) {
	temp := 0.3
	cfg := &config.ConfigSchema{
		Model: config.Model{
			Provider:    "ollama",
			Name:        "mistral",
			Endpoint:    "http://localhost:11434/api/chat",
			Temperature: &temp,
			Timeout:     30 * time.Second,
		},
		Templates: []string{"Review {file}"},
		Variables: map[string]string{"file": "main.go"},
	}

	p := InitializePlayground(cfg)

	require.Equal(t, 9, p.Prompts.Count())
	rendered, ok := p.Prompts.RenderByIndex(8)
	require.True(t, ok)
	assert.Equal(t, "Review main.go", rendered)

	client, ok := p.LLM.(*llm.Client)
	require.True(t, ok)
	assert.Equal(t, "mistral", client.ModelName())
	assert.False(t, client.IsConnected())
	assert.Equal(t, 30*time.Second, client.Config().Timeout)
	assert.Equal(t, 0.3, *client.Config().Temperature)
}
