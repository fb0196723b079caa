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

// Package backfill fills in missing entity embeddings.
//
// A Job asks the store for every entity without an embedding, embeds each
// entity's description through the gateway and writes the vector back.
// Entities without a description are skipped; gateway and store failures
// leave the entity untouched and are counted as failed. Nothing else is
// recorded between runs: whatever is still missing is picked up next time,
// and a run over a fully embedded store makes no gateway calls.
//
// Work runs sequentially by default. Config.Workers > 1 processes entities on
// a bounded worker pool, and Config.RateLimit throttles gateway calls.
package backfill
