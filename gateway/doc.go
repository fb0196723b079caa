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

// Package gateway defines the embedding gateway abstraction: a network
// service mapping text to a fixed-dimension vector.
//
// # Architecture
//
// Implementations live in subpackages:
//
//   - httpapi: the plain JSON wire contract ({"query"} in, {"embedding"} out)
//   - openai: any OpenAI-compatible embeddings endpoint (Ollama, LocalAI, vLLM)
//   - mock: deterministic test double with call counting
//
// None of the implementations retries or times out on its own. Callers wrap
// them in a Guard, which applies the caller-supplied policy from Config:
// per-attempt timeout, retries with exponential backoff, an optional circuit
// breaker and an optional LRU cache of query embeddings.
//
// # Errors
//
// Every failure that leaves a Guard wraps core.ErrGateway. A Guard never
// substitutes a zero or default vector for a failed call.
//
// # Usage
//
//	cfg := gateway.NewConfig(
//	    gateway.WithHost("http://localhost:8000/embed"),
//	    gateway.WithTimeout(5*time.Second),
//	)
//	guard, err := gateway.NewGuard(httpapi.NewClient(cfg), cfg, nil)
//	vector, err := guard.EmbedText(ctx, "Bác Hồ")
package gateway
