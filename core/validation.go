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

import (
	"fmt"
	"strings"
)

// ValidateEntity validates an Entity according to domain rules.
//
// Validation rules:
//   - Name must not be blank
//   - every alias must not be blank
//   - Kind must be Person or Event
//
// NOT validated (populated later):
//   - Embedding (empty until the backfill job runs)
//   - Description (may legitimately be absent)
//   - ID (assigned by the store)
func ValidateEntity(entity *Entity) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidEntity)
	}

	if strings.TrimSpace(entity.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyName)
	}

	for _, alias := range entity.Aliases {
		if strings.TrimSpace(alias) == "" {
			return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyAlias)
		}
	}

	if err := ValidateKind(entity.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	return nil
}

// ValidateKind validates that a Kind has a valid value.
func ValidateKind(kind Kind) error {
	if kind != KindPerson && kind != KindEvent {
		return fmt.Errorf("%w: value %d", ErrInvalidKind, kind)
	}
	return nil
}
