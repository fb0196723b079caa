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

package core

//go:generate go run ../cmd/musgen

import (
	"strings"
	"time"
)

// ID is a unique identifier for stored entities.
// It is assigned by the store from a database sequence.
type ID uint64

// Kind identifies what a historical entity represents.
type Kind int

const (
	// KindPerson represents a historical person.
	KindPerson Kind = iota + 1
	// KindEvent represents a historical event.
	KindEvent
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPerson:
		return "person"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// ParseKind converts "person" or "event" (any case) into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "person":
		return KindPerson, nil
	case "event":
		return KindEvent, nil
	default:
		return 0, ErrInvalidKind
	}
}

// Entity represents one historical person or event.
// Embedding stays empty until the backfill job has computed it.
type Entity struct {
	Id          ID        `json:"id"`
	Name        string    `json:"name"`
	Aliases     []string  `json:"aliases,omitempty"`
	Description *string   `json:"description,omitempty"` // Source text for the embedding, may be absent
	Embedding   []float32 `json:"embedding,omitempty"`
	Kind        Kind      `json:"kind"`
	InsertedAt  time.Time `json:"insertedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasEmbedding reports whether the entity carries a computed embedding.
func (e *Entity) HasEmbedding() bool {
	return len(e.Embedding) > 0
}

// HasDescription reports whether the entity has non-blank description text.
func (e *Entity) HasDescription() bool {
	return e.Description != nil && strings.TrimSpace(*e.Description) != ""
}

// Names returns the canonical name followed by every alias.
func (e *Entity) Names() []string {
	names := make([]string, 0, len(e.Aliases)+1)
	names = append(names, e.Name)
	return append(names, e.Aliases...)
}

// StringPtr returns a pointer to s. Handy for populating Description.
func StringPtr(s string) *string {
	return &s
}
