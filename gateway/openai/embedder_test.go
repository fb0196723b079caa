package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/chronicle/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, vectors [][]float32, status int) (*httptest.Server, *[]string) {
	t.Helper()
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"unavailable"}}`))
			return
		}
		type item struct {
			Object    string    `json:"object"`
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		data := make([]item, len(vectors))
		for i, v := range vectors {
			data[i] = item{Object: "embedding", Embedding: v, Index: i}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  "test-embed",
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &paths
}

func TestNewEmbedder_InvalidConfig(t *testing.T) {
	cfg := gateway.NewConfig(gateway.WithKind(gateway.KindOpenAI), gateway.WithModel(""))
	_, err := NewEmbedder(cfg, nil)
	assert.Error(t, err)
}

func TestEmbedder_EmbedText(t *testing.T) {
	srv, paths := newTestServer(t, [][]float32{{0.1, 0.2}}, http.StatusOK)
	cfg := gateway.NewConfig(
		gateway.WithKind(gateway.KindOpenAI),
		gateway.WithHost(srv.URL),
		gateway.WithModel("test-embed"),
	)

	e, err := NewEmbedder(cfg, nil)
	require.NoError(t, err)

	v, err := e.EmbedText(context.Background(), "Hồ Chí Minh")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, v)
	assert.Equal(t, []string{"/v1/embeddings"}, *paths)
}

func TestEmbedder_EmptyResponse(t *testing.T) {
	srv, _ := newTestServer(t, [][]float32{{}}, http.StatusOK)
	cfg := gateway.NewConfig(
		gateway.WithKind(gateway.KindOpenAI),
		gateway.WithHost(srv.URL),
	)

	e, err := NewEmbedder(cfg, nil)
	require.NoError(t, err)

	_, err = e.EmbedText(context.Background(), "q")
	assert.ErrorIs(t, err, gateway.ErrEmptyEmbedding)
}

func TestEmbedder_ServiceError(t *testing.T) {
	srv, _ := newTestServer(t, nil, http.StatusInternalServerError)
	cfg := gateway.NewConfig(
		gateway.WithKind(gateway.KindOpenAI),
		gateway.WithHost(srv.URL),
	)

	e, err := NewEmbedder(cfg, nil)
	require.NoError(t, err)

	_, err = e.EmbedText(context.Background(), "q")
	assert.Error(t, err)
}
