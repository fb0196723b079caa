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
	"slices"
	"unicode/utf8"

	"github.com/poiesic/chronicle/core"
)

// Entry is one matchable string and the entity it was derived from.
type Entry struct {
	Text     string  // Name or alias exactly as stored
	EntityID core.ID // Entity the text was taken from
	folded   string
	length   int // Rune count of Text
}

// Index is an immutable, longest-first list of dictionary entries.
type Index struct {
	entries []Entry
}

// Build flattens every entity's name and aliases into a deduplicated Index.
// Duplicates are detected after case folding; the first occurrence wins.
// Entries are stably sorted by folded rune length descending, so equal-length
// entries keep insertion order.
func Build(entities []*core.Entity) *Index {
	seen := make(map[string]struct{})
	var entries []Entry

	for _, entity := range entities {
		if entity == nil {
			continue
		}
		for _, text := range entity.Names() {
			folded := core.Fold(text)
			if folded == "" {
				continue
			}
			if _, dup := seen[folded]; dup {
				continue
			}
			seen[folded] = struct{}{}
			entries = append(entries, Entry{
				Text:     text,
				EntityID: entity.Id,
				folded:   folded,
				length:   utf8.RuneCountInString(folded),
			})
		}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.length - a.length
	})

	return &Index{entries: entries}
}

// Match returns the first (and therefore longest) entry occurring in text as a
// whole word, compared case-insensitively.
func (idx *Index) Match(text string) (Entry, bool) {
	if idx == nil || len(idx.entries) == 0 {
		return Entry{}, false
	}
	folded := core.Fold(text)
	for _, entry := range idx.entries {
		if len(entry.folded) > len(folded) {
			continue
		}
		if core.ContainsWord(folded, entry.folded) {
			return entry, true
		}
	}
	return Entry{}, false
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Entries returns a copy of the entries in match order.
func (idx *Index) Entries() []Entry {
	if idx == nil {
		return nil
	}
	return slices.Clone(idx.entries)
}
