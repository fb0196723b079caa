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

package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/poiesic/chronicle/core"
)

// ErrSourceRequired is returned when Rebuild is called without a source.
var ErrSourceRequired = errors.New("entity source required")

// EntitySource supplies the entities a dictionary is built from.
// storage.EntityRepository satisfies it.
type EntitySource interface {
	ListEntities(ctx context.Context) ([]*core.Entity, error)
}

// Holder publishes the current Index snapshot to concurrent readers.
// Swapping replaces the whole snapshot; readers holding the old one keep
// using it undisturbed.
type Holder struct {
	current atomic.Pointer[Index]
	logger  *slog.Logger
}

// NewHolder creates a Holder publishing idx. A nil idx publishes an empty Index.
func NewHolder(idx *Index, logger *slog.Logger) *Holder {
	if idx == nil {
		idx = &Index{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	h := &Holder{logger: logger.With("component", "dictionary")}
	h.current.Store(idx)
	return h
}

// Load returns the current snapshot.
func (h *Holder) Load() *Index {
	return h.current.Load()
}

// Swap publishes idx and returns the snapshot it replaced.
func (h *Holder) Swap(idx *Index) *Index {
	if idx == nil {
		idx = &Index{}
	}
	return h.current.Swap(idx)
}

// Rebuild reads every entity from source, builds a new Index and publishes it.
// A listing failure wraps core.ErrStore and leaves the current snapshot in place.
func (h *Holder) Rebuild(ctx context.Context, source EntitySource) (*Index, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	entities, err := source.ListEntities(ctx)
	if err != nil {
		h.logger.Error("error listing entities for dictionary", "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrStore, err)
	}
	idx := Build(entities)
	h.Swap(idx)
	h.logger.Info("dictionary rebuilt", "entities", len(entities), "entries", idx.Len())
	return idx, nil
}
