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

import (
	"encoding/json"

	"github.com/poiesic/chronicle/core"
)

// Source tells which stage produced a Result.
type Source int

const (
	SourceNone Source = iota
	SourceLexical
	SourceSemantic
)

func (s Source) String() string {
	switch s {
	case SourceLexical:
		return "lexical"
	case SourceSemantic:
		return "semantic"
	default:
		return "none"
	}
}

// Match pairs an entity with its similarity to the query.
type Match struct {
	Entity     *core.Entity
	Similarity float64
}

// Result is the outcome of one search.
type Result struct {
	Query string
	// EmbeddedText is the text sent to the gateway, empty on the lexical path.
	EmbeddedText string
	Source       Source
	Matches      []Match
	// NoResult marks a valid search that found nothing.
	NoResult bool
}

type entityView struct {
	Id          core.ID  `json:"id"`
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description *string  `json:"description,omitempty"`
	Kind        string   `json:"kind"`
}

type matchView struct {
	Entity     entityView `json:"entity"`
	Similarity float64    `json:"similarity"`
}

// MarshalJSON renders {"results":[{"entity":...,"similarity":...}]} or
// {"noResult":true}. Embeddings are left out.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.NoResult || len(r.Matches) == 0 {
		return json.Marshal(struct {
			NoResult bool `json:"noResult"`
		}{true})
	}

	results := make([]matchView, len(r.Matches))
	for i, m := range r.Matches {
		results[i] = matchView{
			Entity: entityView{
				Id:          m.Entity.Id,
				Name:        m.Entity.Name,
				Aliases:     m.Entity.Aliases,
				Description: m.Entity.Description,
				Kind:        m.Entity.Kind.String(),
			},
			Similarity: m.Similarity,
		}
	}
	return json.Marshal(struct {
		Results []matchView `json:"results"`
	}{results})
}

func noResult(query, embedded string) *Result {
	return &Result{
		Query:        query,
		EmbeddedText: embedded,
		Source:       SourceNone,
		NoResult:     true,
	}
}
