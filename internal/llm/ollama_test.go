package llm

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/isaacphi/playground/internal/domain"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func initializedClient(t *testing.T, cfg ModelConfig) *Client {
	t.Helper()
	client := NewClient(cfg)
	require.NoError(t, client.Initialize(context.Background()))
	return client
}

func TestGenerateResponseSendsChatRequest(t *testing.T) {
	var captured map[string]any
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"  Hello there!\n"},"done":true}`))
	})

	temp := 0.7
	client := initializedClient(t, ModelConfig{
		Model:       "llama3",
		Endpoint:    server.URL + "/api/chat",
		Temperature: &temp,
	})

	reply, err := client.GenerateResponse(context.Background(), "Hello, how are you?")
	require.NoError(t, err)
	assert.Equal(t, "  Hello there!\n", reply)

	assert.Equal(t, "llama3", captured["model"])
	assert.Equal(t, false, captured["stream"])
	assert.Equal(t, []any{map[string]any{"role": "user", "content": "Hello, how are you?"}}, captured["messages"])
	assert.Equal(t, map[string]any{"temperature": 0.7}, captured["options"])
}

func TestGenerateResponseOmitsEmptyOptions(t *testing.T) {
	var captured map[string]any
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"message":{"role":"assistant","content":"ok"}}`))
	})

	client := initializedClient(t, ModelConfig{Endpoint: server.URL})
	_, err := client.GenerateResponse(context.Background(), "hi")
	require.NoError(t, err)

	_, hasOptions := captured["options"]
	assert.False(t, hasOptions)
	assert.Equal(t, DefaultModel, captured["model"])
}

func TestGenerateResponseMaxTokens(t *testing.T) {
	var captured chatRequest
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"message":{"content":"ok"}}`))
	})

	maxTokens := 1000
	client := initializedClient(t, ModelConfig{Endpoint: server.URL, MaxTokens: &maxTokens})
	_, err := client.GenerateResponse(context.Background(), "hi")
	require.NoError(t, err)

	require.NotNil(t, captured.Options)
	require.NotNil(t, captured.Options.NumPredict)
	assert.Equal(t, 1000, *captured.Options.NumPredict)
	assert.Nil(t, captured.Options.Temperature)
}

func TestGenerateResponseSendsBearerWhenKeySet(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{"message":{"content":"ok"}}`))
	})

	client := initializedClient(t, ModelConfig{Endpoint: server.URL})
	client.SetAPIKey("secret")
	_, err := client.GenerateResponse(context.Background(), "hi")
	require.NoError(t, err)
}

func TestGenerateResponseHTTPStatusError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	})

	client := initializedClient(t, ModelConfig{Endpoint: server.URL})
	_, err := client.GenerateResponse(context.Background(), "hi")
	require.Error(t, err)

	code, ok := domain.IsHTTPStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, err.Error(), "model not found")
}

func TestHTTPStatusErrorKeepsConnectionAlive(t *testing.T) {
	var conns atomic.Int32
	server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(strings.Repeat("busy ", 1000)))
	}))
	server.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			conns.Add(1)
		}
	}
	server.Start()
	t.Cleanup(server.Close)

	client := initializedClient(t, ModelConfig{Endpoint: server.URL})
	for i := 0; i < 3; i++ {
		_, err := client.GenerateResponse(context.Background(), "hi")
		code, ok := domain.IsHTTPStatusError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusServiceUnavailable, code)
	}
	assert.Equal(t, int32(1), conns.Load())
}

func TestGenerateResponseTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := initializedClient(t, ModelConfig{Endpoint: endpoint})
	_, err := client.GenerateResponse(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, domain.IsTransportError(err))
}

func TestGenerateResponseMalformed(t *testing.T) {
	bodies := map[string]string{
		"not json":        `<html>`,
		"no message":      `{"done":true}`,
		"no content":      `{"message":{"role":"assistant"}}`,
		"null content":    `{"message":{"role":"assistant","content":null}}`,
		"numeric content": `{"message":{"role":"assistant","content":42}}`,
		"openai shape":    `{"choices":[{"message":{"content":"hi"}}]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			client := initializedClient(t, ModelConfig{Endpoint: server.URL})
			_, err := client.GenerateResponse(context.Background(), "hi")
			require.Error(t, err)
			assert.True(t, domain.IsMalformedResponseError(err), "got %v", err)
		})
	}
}

func TestGenerateResponseEmptyContentIsValid(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"role":"assistant","content":""}}`))
	})

	client := initializedClient(t, ModelConfig{Endpoint: server.URL})
	reply, err := client.GenerateResponse(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "", reply)
}

func TestGenerateResponseHonoursContext(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	client := initializedClient(t, ModelConfig{Endpoint: server.URL})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GenerateResponse(ctx, "hi")
	require.Error(t, err)
	assert.True(t, domain.IsTransportError(err))
	assert.True(t, errors.Is(err, context.Canceled))
}
