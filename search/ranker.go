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

import (
	"cmp"
	"math"
	"slices"

	"github.com/poiesic/chronicle/core"
)

const (
	// DefaultThreshold is the minimum cosine similarity kept by a Ranker.
	DefaultThreshold = 0.6
	// DefaultTopK caps the number of ranked matches.
	DefaultTopK = 5
)

// Ranking is the output of Ranker.Rank.
type Ranking struct {
	Matches []Match
	// Candidates is the number of entities whose embedding had the query's dimension.
	Candidates int
	NoResult   bool
}

// Ranker scores embedded entities against a query vector.
type Ranker struct {
	threshold float64
	topK      int
}

// NewRanker creates a ranker keeping at most topK matches whose similarity is
// at least threshold.
func NewRanker(threshold float64, topK int) (*Ranker, error) {
	if math.IsNaN(threshold) || threshold < -1 || threshold > 1 {
		return nil, ErrInvalidThreshold
	}
	if topK < 1 {
		return nil, ErrInvalidTopK
	}
	return &Ranker{threshold: threshold, topK: topK}, nil
}

// Rank scores candidates against query and returns them best first.
// Candidates without an embedding of len(query) are ignored. Equal scores keep
// the order in which candidates were given.
func (r *Ranker) Rank(query []float32, candidates []*core.Entity) Ranking {
	dim := len(query)
	if dim == 0 {
		return Ranking{NoResult: true}
	}

	eligible := make([]*core.Entity, 0, len(candidates))
	for _, c := range candidates {
		if c != nil && len(c.Embedding) == dim {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return Ranking{NoResult: true}
	}

	// One row per candidate, each row L2-normalised.
	matrix := make([]float64, len(eligible)*dim)
	for i, e := range eligible {
		normalizeInto(matrix[i*dim:(i+1)*dim], e.Embedding)
	}
	scores := matVec(matrix, Normalize(query), len(eligible), dim)

	matches := make([]Match, 0, len(eligible))
	for i, score := range scores {
		if score >= r.threshold {
			matches = append(matches, Match{Entity: eligible[i], Similarity: score})
		}
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	if len(matches) > r.topK {
		matches = matches[:r.topK]
	}

	return Ranking{
		Matches:    matches,
		Candidates: len(eligible),
		NoResult:   len(matches) == 0,
	}
}

// CosineSimilarity returns dot(a,b) / (|a| |b|) accumulated in float64.
// Vectors of different length, empty vectors and zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return clamp(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// Normalize returns v scaled to unit length. A zero vector stays zero.
func Normalize(v []float32) []float64 {
	out := make([]float64, len(v))
	normalizeInto(out, v)
	return out
}

func normalizeInto(dst []float64, v []float32) {
	var sum float64
	for i, x := range v {
		dst[i] = float64(x)
		sum += dst[i] * dst[i]
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range dst {
		dst[i] *= inv
	}
}

// matVec multiplies a rows×cols row-major matrix by vec.
func matVec(matrix, vec []float64, rows, cols int) []float64 {
	out := make([]float64, rows)
	for r := 0; r < rows; r++ {
		row := matrix[r*cols : (r+1)*cols]
		var sum float64
		for c, x := range row {
			sum += x * vec[c]
		}
		out[r] = clamp(sum)
	}
	return out
}

func clamp(x float64) float64 {
	return max(-1, min(1, x))
}
