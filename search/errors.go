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

package search

import "errors"

var (
	// ErrRepositoryRequired is returned when an entity repository is not provided.
	ErrRepositoryRequired = errors.New("entity repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrDictionaryRequired is returned when a dictionary holder is not provided.
	ErrDictionaryRequired = errors.New("dictionary holder required")

	// ErrInvalidThreshold is returned for a similarity threshold outside [-1, 1].
	ErrInvalidThreshold = errors.New("threshold must be between -1 and 1")

	// ErrInvalidTopK is returned when the result cap is less than 1.
	ErrInvalidTopK = errors.New("topK must be at least 1")

	// ErrInvalidLimit is returned when the lexical limit is less than 1.
	ErrInvalidLimit = errors.New("limit must be at least 1")
)
