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
	"time"

	"github.com/poiesic/chronicle/search"
)

// traceMonitor prints each search stage with the time since the query started.
type traceMonitor struct {
	w     io.Writer
	start time.Time
}

var _ search.SearchMonitor = (*traceMonitor)(nil)

func (m *traceMonitor) printf(format string, args ...any) {
	fmt.Fprintf(m.w, "[%8s] ", time.Since(m.start).Round(time.Microsecond))
	fmt.Fprintf(m.w, format+"\n", args...)
}

func (m *traceMonitor) Start(query string) {
	m.start = time.Now()
	m.printf("query %q", query)
}

func (m *traceMonitor) AfterLexical(r search.LexicalResult) {
	switch {
	case r.Hit():
		m.printf("dictionary matched %q, %d store hits", r.Name, len(r.Matches))
	case r.Extracted():
		m.printf("dictionary matched %q, not in store", r.Name)
	default:
		m.printf("no dictionary match")
	}
}

func (m *traceMonitor) BeforeEmbedding(text string) {
	m.printf("embedding %q", text)
}

func (m *traceMonitor) AfterRanking(r search.Ranking) {
	m.printf("ranked %d candidates, %d above threshold", r.Candidates, len(r.Matches))
}

func (m *traceMonitor) Finish(r *search.Result) {
	if r.NoResult {
		m.printf("no result")
		return
	}
	m.printf("%d %s matches", len(r.Matches), r.Source)
}
