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

package backfill

import (
	"fmt"
	"time"
)

// Config holds configuration for a backfill run.
type Config struct {
	// Workers is the number of entities processed concurrently.
	// 1 processes sequentially.
	Workers int

	// RateLimit caps gateway calls per second. 0 means unlimited.
	RateLimit float64

	// Burst is the number of calls allowed at once under RateLimit.
	Burst int

	// CallTimeout bounds each gateway call. 0 leaves timing to the embedder.
	CallTimeout time.Duration

	// ReportInterval is how often to report progress (number of entities)
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Workers:        1,
		RateLimit:      0,
		Burst:          1,
		CallTimeout:    30 * time.Second,
		ReportInterval: 10,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: Workers must be at least 1", ErrInvalidConfig)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: RateLimit cannot be negative", ErrInvalidConfig)
	}
	if c.RateLimit > 0 && c.Burst < 1 {
		return fmt.Errorf("%w: Burst must be at least 1", ErrInvalidConfig)
	}
	if c.CallTimeout < 0 {
		return fmt.Errorf("%w: CallTimeout cannot be negative", ErrInvalidConfig)
	}
	if c.ReportInterval < 1 {
		return fmt.Errorf("%w: ReportInterval must be at least 1", ErrInvalidConfig)
	}
	return nil
}
