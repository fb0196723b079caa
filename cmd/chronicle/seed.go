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

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/poiesic/chronicle/core"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout accepted by the seed command:
//
//	entities:
//	  - name: Hồ Chí Minh
//	    aliases: [Bác Hồ, Nguyễn Ái Quốc]
//	    kind: person
//	    description: Chủ tịch nước Việt Nam Dân chủ Cộng hòa
type seedFile struct {
	Entities []seedEntity `yaml:"entities"`
}

type seedEntity struct {
	Name        string    `yaml:"name"`
	Aliases     []string  `yaml:"aliases"`
	Kind        string    `yaml:"kind"`
	Description *string   `yaml:"description"`
	Embedding   []float32 `yaml:"embedding"`
}

func loadSeedFile(path string) ([]*core.Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseSeed(f)
}

func parseSeed(r io.Reader) ([]*core.Entity, error) {
	var file seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	entities := make([]*core.Entity, 0, len(file.Entities))
	for i, se := range file.Entities {
		kind, err := core.ParseKind(se.Kind)
		if err != nil {
			return nil, fmt.Errorf("entity %d (%q): %w", i+1, se.Name, err)
		}
		entity := &core.Entity{
			Name:      strings.TrimSpace(se.Name),
			Aliases:   se.Aliases,
			Kind:      kind,
			Embedding: se.Embedding,
		}
		if se.Description != nil && strings.TrimSpace(*se.Description) != "" {
			entity.Description = core.StringPtr(strings.TrimSpace(*se.Description))
		}
		if err := core.ValidateEntity(entity); err != nil {
			return nil, fmt.Errorf("entity %d (%q): %w", i+1, se.Name, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
