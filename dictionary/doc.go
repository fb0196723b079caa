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

// Package dictionary provides the entity dictionary used for lexical
// resolution of free-text queries.
//
// An Index is an immutable snapshot of every known entity name and alias,
// ordered longest first so that the first whole-word hit in a query is also
// the longest one ("Quang Trung" wins over "Trung"). Indexes are never edited
// in place; a Holder swaps in a freshly built Index atomically, so concurrent
// readers need no locking.
package dictionary
