package llm

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/isaacphi/playground/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func langchainClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := newTestServer(t, handler)
	return initializedClient(t, ModelConfig{
		Provider: ProviderLangchain,
		Endpoint: server.URL + "/api/chat",
	})
}

func TestLangchainProviderReply(t *testing.T) {
	client := langchainClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		w.Write([]byte(`{"model":"llama3","created_at":"2024-05-01T10:00:00Z","message":{"role":"assistant","content":"hi there"},"done":true}`))
	})

	reply, err := client.GenerateResponse(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)
}

func TestLangchainProviderHTTPStatus(t *testing.T) {
	client := langchainClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.GenerateResponse(context.Background(), "hello")
	require.Error(t, err)
	code, ok := domain.IsHTTPStatusError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, err.Error(), "boom")
	assert.False(t, domain.IsTransportError(err))
}

func TestLangchainProviderMalformed(t *testing.T) {
	bodies := map[string]string{
		"not json":   `<html>`,
		"no message": `{"done":true}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := langchainClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			reply, err := client.GenerateResponse(context.Background(), "hello")
			require.Error(t, err)
			assert.Empty(t, reply)
			assert.True(t, domain.IsMalformedResponseError(err), "got %v", err)
		})
	}
}

func TestLangchainProviderTransportError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	endpoint := server.URL + "/api/chat"
	server.Close()

	client := initializedClient(t, ModelConfig{Provider: ProviderLangchain, Endpoint: endpoint})
	_, err := client.GenerateResponse(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, domain.IsTransportError(err))
}

func TestOpenAIProviderHTTPStatus(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	})

	client := initializedClient(t, ModelConfig{Provider: ProviderOpenAI, Endpoint: server.URL, APIKey: "sk-test"})
	_, err := client.GenerateResponse(context.Background(), "hello")
	require.Error(t, err)
	code, ok := domain.IsHTTPStatusError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestExchangeRecorderSnippetIsBounded(t *testing.T) {
	rec := &exchangeRecorder{body: []byte(strings.Repeat("x", maxErrorBody*2))}
	assert.Len(t, rec.snippet(), maxErrorBody)
}
