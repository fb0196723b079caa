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

import "errors"

// Query and collaborator errors. Callers test for them with errors.Is.
var (
	// ErrInput indicates missing or empty query text.
	ErrInput = errors.New("invalid input")

	// ErrGateway indicates the embedding gateway was unreachable, timed out,
	// or returned a malformed response.
	ErrGateway = errors.New("embedding gateway error")

	// ErrStore indicates the record store was unavailable or failed.
	ErrStore = errors.New("record store error")
)

// Domain validation errors
var (
	// ErrInvalidEntity indicates an Entity failed validation.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("entity name cannot be empty")

	// ErrEmptyAlias indicates an alias is blank.
	ErrEmptyAlias = errors.New("entity alias cannot be empty")

	// ErrInvalidKind indicates an invalid Kind value.
	ErrInvalidKind = errors.New("invalid entity kind")
)
