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

package badger

import (
	"encoding/binary"

	"github.com/poiesic/chronicle/core"
)

const (
	entityRecordPrefix  = "entrec:"
	entityMissingPrefix = "entmis:"
	entityIDSeq         = "entseq"
	entityDimensionKey  = "entdim"
)

// makeEntityKey generates a key for an entity record by ID.
// Format: prefix + 8-byte big-endian ID, so prefix scans run in ID order.
func makeEntityKey(id core.ID) []byte {
	return appendID([]byte(entityRecordPrefix), id)
}

// makeMissingKey generates a key in the missing-embedding index.
// Format: prefix + 8-byte big-endian ID
func makeMissingKey(id core.ID) []byte {
	return appendID([]byte(entityMissingPrefix), id)
}

// idFromKey extracts the trailing ID from a prefixed key.
func idFromKey(key []byte, prefix string) (core.ID, bool) {
	if len(key) != len(prefix)+8 {
		return 0, false
	}
	return core.ID(binary.BigEndian.Uint64(key[len(prefix):])), true
}

func appendID(prefix []byte, id core.ID) []byte {
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
