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

package gateway

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind selects the embedding service implementation.
const (
	KindHTTP   = "http"
	KindOpenAI = "openai"
)

// Config holds the embedding service endpoint and the caller's call policy.
type Config struct {
	// Kind is the service flavour: KindHTTP or KindOpenAI.
	Kind string

	// Host is the service URL.
	// For KindHTTP it is the full embed endpoint, e.g. "http://localhost:8000/embed".
	// For KindOpenAI it is the API base, e.g. "http://localhost:11434/v1".
	Host string

	// Model is the embedding model identifier (KindOpenAI only).
	Model string

	// Token is the bearer token. Local OpenAI-compatible servers accept "none".
	Token string

	// Dimension is the expected vector length. 0 accepts any non-empty vector.
	Dimension int

	// Timeout bounds each attempt. Default: 10s
	Timeout time.Duration

	// MaxAttempts is the number of tries per call, including the first.
	// Default: 1 (no retry)
	MaxAttempts int

	// RetryDelay is the base delay for exponential backoff between attempts.
	RetryDelay time.Duration

	// BreakerMaxFailures trips the circuit breaker after this many consecutive
	// failures. 0 disables the breaker.
	BreakerMaxFailures uint32

	// BreakerTimeout is how long the breaker stays open before probing again.
	BreakerTimeout time.Duration

	// CacheSize is the number of query embeddings kept in an LRU cache.
	// 0 disables caching.
	CacheSize int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithKind sets the service implementation.
func WithKind(kind string) ConfigOption {
	return func(c *Config) {
		c.Kind = kind
	}
}

// WithHost sets the service URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithToken sets the bearer token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithDimension sets the expected vector length.
func WithDimension(dim int) ConfigOption {
	return func(c *Config) {
		c.Dimension = dim
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRetry sets the attempt count and backoff base delay.
func WithRetry(maxAttempts int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxAttempts = maxAttempts
		c.RetryDelay = delay
	}
}

// WithBreaker enables the circuit breaker.
func WithBreaker(maxFailures uint32, timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.BreakerMaxFailures = maxFailures
		c.BreakerTimeout = timeout
	}
}

// WithCacheSize sets the LRU cache size.
func WithCacheSize(size int) ConfigOption {
	return func(c *Config) {
		c.CacheSize = size
	}
}

// DefaultConfig returns a Config for a local embedding service speaking the
// plain JSON wire contract.
func DefaultConfig() *Config {
	return &Config{
		Kind:           KindHTTP,
		Host:           "http://localhost:8000/embed",
		Model:          "nomic-embed-text",
		Token:          "none",
		Timeout:        10 * time.Second,
		MaxAttempts:    1,
		RetryDelay:     500 * time.Millisecond,
		BreakerTimeout: 30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithKind(KindOpenAI),
//	    WithHost("http://localhost:11434"),
//	    WithModel("embeddinggemma"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// OpenAI-compatible hosts get the /v1 suffix most servers (Ollama, LocalAI,
// vLLM) require.
func (c *Config) Normalize() {
	c.Kind = strings.ToLower(strings.TrimSpace(c.Kind))
	if c.Kind == KindOpenAI && c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
	if c.Token == "" {
		c.Token = "none"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Kind != KindHTTP && c.Kind != KindOpenAI {
		return fmt.Errorf("gateway config: unknown Kind %q", c.Kind)
	}
	if c.Host == "" {
		return errors.New("gateway config: Host is required")
	}
	if c.Kind == KindOpenAI && c.Model == "" {
		return errors.New("gateway config: Model is required")
	}
	if c.Dimension < 0 {
		return errors.New("gateway config: Dimension cannot be negative")
	}
	if c.Timeout <= 0 {
		return errors.New("gateway config: Timeout must be positive")
	}
	if c.MaxAttempts < 1 {
		return errors.New("gateway config: MaxAttempts must be at least 1")
	}
	if c.RetryDelay < 0 {
		return errors.New("gateway config: RetryDelay cannot be negative")
	}
	if c.CacheSize < 0 {
		return errors.New("gateway config: CacheSize cannot be negative")
	}
	return nil
}
