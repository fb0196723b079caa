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

// SearchMonitor receives callbacks as a query moves through the search stages.
type SearchMonitor interface {
	Start(query string)
	AfterLexical(result LexicalResult)
	BeforeEmbedding(text string)
	AfterRanking(ranking Ranking)
	Finish(result *Result)
}

type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)               {}
func (n *noopMonitor) AfterLexical(_ LexicalResult) {}
func (n *noopMonitor) BeforeEmbedding(_ string)     {}
func (n *noopMonitor) AfterRanking(_ Ranking)       {}
func (n *noopMonitor) Finish(_ *Result)             {}
