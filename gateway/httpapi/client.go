// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/poiesic/chronicle/gateway"
)

// maxErrorBody caps how much of a failed response is quoted in errors.
const maxErrorBody = 512

type embedRequest struct {
	Query string `json:"query"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Client posts queries to a single embed endpoint.
type Client struct {
	endpoint string
	token    string
	client   *http.Client
	logger   *slog.Logger
}

var _ gateway.Embedder = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.client = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// NewClient creates a client for cfg.Host. The client sets no timeout of its
// own; deadlines come from the request context.
func NewClient(cfg *gateway.Config, opts ...Option) *Client {
	c := &Client{
		endpoint: cfg.Host,
		token:    cfg.Token,
		client:   &http.Client{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "http-embedder")
	return c
}

// EmbedText sends one query and decodes the embedding.
// 4xx responses other than 429 are returned as permanent errors.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Query: text})
	if err != nil {
		return nil, gateway.Permanent(fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, gateway.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" && c.token != "none" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("requesting embedding", "length", len(text))
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, gateway.Permanent(err)
		}
		return nil, err
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, gateway.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}
	if len(out.Embedding) == 0 {
		return nil, gateway.ErrEmptyEmbedding
	}

	return out.Embedding, nil
}
