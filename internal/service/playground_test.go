package service

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isaacphi/playground/internal/domain"
	"github.com/isaacphi/playground/internal/llm"
	"github.com/isaacphi/playground/internal/prompt"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	initErr  error
	reply    string
	replyErr error
	inits    int
	prompts  []string
	apiKey   string
}

func (f *fakeCompleter) Name() string        { return "Fake LLM" }
func (f *fakeCompleter) Description() string { return "Answers from memory" }

func (f *fakeCompleter) Initialize(ctx context.Context) error {
	f.inits++
	return f.initErr
}

func (f *fakeCompleter) SetAPIKey(key string) { f.apiKey = key }

func (f *fakeCompleter) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.replyErr != nil {
		return "", f.replyErr
	}
	return f.reply, nil
}

func TestInitializeRunsBothComponents(t *testing.T) {
	fake := &fakeCompleter{}
	p := NewPlayground(prompt.NewManager(), fake)

	require.NoError(t, p.Initialize(context.Background()))
	assert.Equal(t, 1, fake.inits)
}

func TestInitializePropagatesFirstFailure(t *testing.T) {
	fake := &fakeCompleter{initErr: domain.ErrUnsupportedProvider}
	p := NewPlayground(prompt.NewManager(), fake)

	err := p.Initialize(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedProvider))
	assert.Contains(t, err.Error(), "Fake LLM")
}

func TestRenderAndSend(t *testing.T) {
	fake := &fakeCompleter{reply: "a haiku"}
	prompts := prompt.NewManager()
	p := NewPlayground(prompts, fake)

	require.NoError(t, prompts.Add("Write a {style} poem about {topic}"))
	prompts.SetVariable("style", "haiku")
	prompts.SetVariable("topic", "AI")

	reply, err := p.RenderAndSend(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, "a haiku", reply)
	assert.Equal(t, []string{"Write a haiku poem about AI"}, fake.prompts)

	current, ok := prompts.CurrentPrompt()
	require.True(t, ok)
	assert.Equal(t, "Write a haiku poem about AI", current)
}

func TestRenderAndSendTemplateNotFound(t *testing.T) {
	fake := &fakeCompleter{}
	p := NewPlayground(prompt.NewManager(), fake)

	for _, idx := range []int{-1, 8} {
		_, err := p.RenderAndSend(context.Background(), idx)
		require.Error(t, err)
		var notFound *domain.TemplateNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, idx, notFound.Index)
	}
	assert.Empty(t, fake.prompts)
}

func TestRenderAndSendSurfacesClientErrors(t *testing.T) {
	statusErr := &domain.HTTPStatusError{Code: 500}
	p := NewPlayground(prompt.NewManager(), &fakeCompleter{replyErr: statusErr})

	_, err := p.RenderAndSend(context.Background(), 0)
	assert.Same(t, statusErr, err)

	_, ok := p.Prompts.CurrentPrompt()
	assert.False(t, ok, "failed send must not change the current prompt")
}

func TestRenderAndSendWithRealClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"role":"assistant","content":"Go is a language."}}`))
	}))
	defer server.Close()

	prompts := prompt.NewManager()
	client := llm.NewClient(llm.ModelConfig{Endpoint: server.URL})
	p := NewPlayground(prompts, client)

	_, err := p.RenderAndSend(context.Background(), 0)
	assert.True(t, errors.Is(err, domain.ErrNotInitialized))
	_, ok := prompts.CurrentPrompt()
	assert.False(t, ok)

	require.NoError(t, p.Initialize(context.Background()))
	prompts.SetVariable("topic", "Go")
	reply, err := p.RenderAndSend(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Go is a language.", reply)
}

func TestRunDemo(t *testing.T) {
	fake := &fakeCompleter{reply: "I am fine"}
	p := NewPlayground(prompt.NewManager(), fake)

	var out bytes.Buffer
	require.NoError(t, p.RunDemo(context.Background(), &out))

	text := out.String()
	assert.Contains(t, text, "Template 0: Explain {topic} in simple terms")
	assert.Contains(t, text, "Template 2: Analyze the following: {content}")
	assert.NotContains(t, text, "Template 3:")
	assert.Contains(t, text, "Response: I am fine")
	assert.Contains(t, text, "- Fake LLM: Answers from memory")
	assert.Contains(t, text, "- Prompt Manager: Manages and templates prompts")
	assert.Equal(t, []string{DemoPrompt}, fake.prompts)
}

func TestRunDemoPrintsClientError(t *testing.T) {
	p := NewPlayground(prompt.NewManager(), &fakeCompleter{replyErr: domain.ErrNotInitialized})

	var out bytes.Buffer
	require.NoError(t, p.RunDemo(context.Background(), &out))
	assert.Contains(t, out.String(), "Error: llm interface not initialized")
}
