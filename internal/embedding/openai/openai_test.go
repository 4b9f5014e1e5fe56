package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_MissingKey(t *testing.T) {
	t.Setenv("YATRA_TEST_EMBED_KEY", "")
	_, err := NewClient(Config{APIKeyEnv: "YATRA_TEST_EMBED_KEY"})
	assert.Error(t, err)
}

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var body struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"goa beaches"}, body.Input)
		assert.Equal(t, "test-embed", body.Model)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.25,0.5,0.75]}],"model":"test-embed"}`))
	}))
	defer srv.Close()

	t.Setenv("YATRA_TEST_EMBED_KEY", "secret")
	c, err := NewClient(Config{BaseURL: srv.URL + "/v1", APIKeyEnv: "YATRA_TEST_EMBED_KEY", Model: "test-embed"})
	require.NoError(t, err)
	assert.Equal(t, "openai:test-embed", c.Name())

	vec, err := c.Embed(context.Background(), "goa beaches")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, 0.5, 0.75}, vec)
}

func TestEmbed_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom","type":"server_error"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	t.Setenv("YATRA_TEST_EMBED_KEY", "secret")
	c, err := NewClient(Config{BaseURL: srv.URL + "/v1", APIKeyEnv: "YATRA_TEST_EMBED_KEY"})
	require.NoError(t, err)
	_, err = c.Embed(context.Background(), "x")
	assert.Error(t, err)
}
