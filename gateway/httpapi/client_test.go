package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/chronicle/core"
	"github.com/poiesic/chronicle/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *gateway.Config) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, gateway.NewConfig(gateway.WithHost(srv.URL + "/embed"))
}

func TestClient_EmbedText(t *testing.T) {
	var gotQuery, gotPath, gotAuth string
	_, cfg := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotQuery = req.Query
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embedding":[0.25,-0.5,1]}`))
	})

	c := NewClient(cfg)
	v, err := c.EmbedText(context.Background(), "Bác Hồ là ai?")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, -0.5, 1}, v)
	assert.Equal(t, "Bác Hồ là ai?", gotQuery)
	assert.Equal(t, "/embed", gotPath)
	assert.Empty(t, gotAuth)
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	_, cfg := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"embedding":[1]}`))
	})
	cfg.Token = "secret"

	_, err := NewClient(cfg).EmbedText(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestClient_AcceptsAnySuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNonAuthoritativeInfo} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			_, cfg := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"embedding":[0.5,0.5]}`))
			})

			v, err := NewClient(cfg).EmbedText(context.Background(), "Quang Trung")
			require.NoError(t, err)
			assert.Equal(t, []float32{0.5, 0.5}, v)
		})
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		permanent bool
		wantErr   error
	}{
		{name: "server error", status: http.StatusServiceUnavailable, body: "down"},
		{name: "multiple choices", status: http.StatusMultipleChoices, body: `{"embedding":[1]}`},
		{name: "rate limited", status: http.StatusTooManyRequests, body: "slow down"},
		{name: "bad request", status: http.StatusBadRequest, body: "no", permanent: true},
		{name: "malformed json", status: http.StatusOK, body: "{not json", permanent: true},
		{name: "empty embedding", status: http.StatusOK, body: `{"embedding":[]}`, wantErr: gateway.ErrEmptyEmbedding},
		{name: "missing embedding", status: http.StatusOK, body: `{}`, wantErr: gateway.ErrEmptyEmbedding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			_, cfg := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := NewClient(cfg).EmbedText(context.Background(), "q")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			// Through a retrying guard, permanent failures stop after one call.
			cfg.MaxAttempts = 3
			cfg.RetryDelay = time.Millisecond
			g, gerr := gateway.NewGuard(NewClient(cfg), cfg, nil)
			require.NoError(t, gerr)
			calls.Store(0)

			_, err = g.EmbedText(context.Background(), "q")
			assert.ErrorIs(t, err, core.ErrGateway)
			if tt.permanent || tt.wantErr != nil {
				assert.Equal(t, int32(1), calls.Load())
			} else {
				assert.Equal(t, int32(3), calls.Load())
			}
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv, cfg := newServer(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := NewClient(cfg).EmbedText(context.Background(), "q")
	assert.Error(t, err)
}

func TestClient_GuardTimeout(t *testing.T) {
	release := make(chan struct{})
	_, cfg := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	cfg.Timeout = 50 * time.Millisecond

	g, err := gateway.NewGuard(NewClient(cfg), cfg, nil)
	require.NoError(t, err)

	_, err = g.EmbedText(context.Background(), "q")
	assert.True(t, errors.Is(err, core.ErrGateway))
	assert.ErrorIs(t, err, gateway.ErrTimeout)
}
