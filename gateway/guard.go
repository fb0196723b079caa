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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/poiesic/chronicle/core"
	"github.com/sony/gobreaker"
)

// Guard applies a Config's call policy around another Embedder:
// cache lookup keyed by the text's digest, then retries with backoff, each
// attempt passing through the circuit breaker under its own timeout.
// Responses are checked for emptiness, dimension and finiteness before they
// are accepted.
type Guard struct {
	next    Embedder
	config  Config
	cache   *lru.Cache[[core.DigestSize]byte, []float32]
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

var _ Embedder = (*Guard)(nil)

// NewGuard wraps next with the policy in cfg. A nil cfg uses DefaultConfig.
func NewGuard(next Embedder, cfg *Config, logger *slog.Logger) (*Guard, error) {
	if next == nil {
		return nil, ErrEmbedderRequired
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &Guard{
		next:   next,
		config: *cfg,
		logger: logger.With("component", "embedding-gateway"),
	}

	if cfg.CacheSize > 0 {
		cache, err := lru.New[[core.DigestSize]byte, []float32](cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		g.cache = cache
	}

	if cfg.BreakerMaxFailures > 0 {
		maxFailures := cfg.BreakerMaxFailures
		g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "embedding-gateway",
			MaxRequests: 1,
			Timeout:     cfg.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			// A caller abandoning its request says nothing about service health.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				g.logger.Warn("circuit breaker state changed", "from", from.String(), "to", to.String())
			},
		})
	}

	return g, nil
}

// EmbedText returns the embedding for text or an error wrapping core.ErrGateway.
func (g *Guard) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := core.TextDigest(text)
	if g.cache != nil {
		if cached, ok := g.cache.Get(key); ok {
			g.logger.Debug("embedding cache hit", "length", len(text))
			return slices.Clone(cached), nil
		}
	}

	var vector []float32
	err := RetryWithBackoff(ctx, func() error {
		v, err := g.attempt(ctx, text)
		if err != nil {
			return err
		}
		vector = v
		return nil
	}, g.config.MaxAttempts, g.config.RetryDelay)
	if err != nil {
		g.logger.Warn("embedding request failed", "attempts", g.config.MaxAttempts, "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrGateway, err)
	}

	if g.cache != nil {
		g.cache.Add(key, slices.Clone(vector))
	}
	return vector, nil
}

// BreakerState reports "closed", "open", "half-open", or "disabled".
func (g *Guard) BreakerState() string {
	if g.breaker == nil {
		return "disabled"
	}
	return g.breaker.State().String()
}

// attempt performs one timed call, through the breaker when enabled.
func (g *Guard) attempt(ctx context.Context, text string) ([]float32, error) {
	call := func() (interface{}, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()

		v, err := g.next.EmbedText(attemptCtx, text)
		if err != nil {
			if ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w after %v: %w", ErrTimeout, g.config.Timeout, err)
			}
			return nil, err
		}
		if err := g.check(v); err != nil {
			return nil, err
		}
		return v, nil
	}

	var (
		result interface{}
		err    error
	)
	if g.breaker != nil {
		result, err = g.breaker.Execute(call)
	} else {
		result, err = call()
	}

	switch {
	case err == nil:
		return result.([]float32), nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, Permanent(ErrCircuitOpen)
	case errors.Is(err, ErrEmptyEmbedding), errors.Is(err, ErrDimensionMismatch), errors.Is(err, ErrNonFiniteValue):
		return nil, Permanent(err)
	default:
		return nil, err
	}
}

// check rejects vectors that would corrupt ranking.
func (g *Guard) check(v []float32) error {
	if len(v) == 0 {
		return ErrEmptyEmbedding
	}
	if g.config.Dimension > 0 && len(v) != g.config.Dimension {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), g.config.Dimension)
	}
	for _, x := range v {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return ErrNonFiniteValue
		}
	}
	return nil
}
