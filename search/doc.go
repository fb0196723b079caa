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

// Package search resolves free-text queries about historical entities.
//
// A query passes through two stages:
//   - Lexical: the dictionary extracts the longest known name occurring in the
//     query as a whole word, and the store is asked for entities carrying that
//     name. Every hit has similarity 1.0 and the embedding gateway is not used.
//   - Semantic: when the lexical stage has no hits, the extracted name (or the
//     raw query) is embedded and ranked by cosine similarity against every
//     stored embedding, keeping matches at or above a threshold.
//
// An empty ranking is reported through Result.NoResult, never as an error.
package search
