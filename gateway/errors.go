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

import "errors"

var (
	// ErrEmbedderRequired is returned when a Guard is built without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmptyEmbedding indicates the service answered with an empty vector.
	ErrEmptyEmbedding = errors.New("empty embedding")

	// ErrDimensionMismatch indicates the service answered with a vector of the
	// wrong length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNonFiniteValue indicates a NaN or infinite component.
	ErrNonFiniteValue = errors.New("embedding contains non-finite value")

	// ErrTimeout indicates a single attempt exceeded Config.Timeout.
	ErrTimeout = errors.New("embedding request timed out")

	// ErrCircuitOpen is returned while the circuit breaker rejects requests.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
