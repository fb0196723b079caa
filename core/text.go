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
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-crypt/x/blake2b"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the canonical matching form of s: NFC-composed and Unicode
// case-folded. Names such as "Hồ Chí Minh" arrive in both composed and
// decomposed form depending on the keyboard that produced them.
func Fold(s string) string {
	// cases.Caser is stateful, so one is created per call.
	return cases.Fold().String(norm.NFC.String(s))
}

// DigestSize is the length in bytes of a TextDigest.
const DigestSize = 16

// TextDigest returns a 128-bit BLAKE2b digest of text. Identical text always
// produces the identical digest, so it can stand in for long strings as a
// map or cache key.
func TextDigest(text string) [DigestSize]byte {
	h, _ := blake2b.New(DigestSize, nil)
	h.Write([]byte(text))
	var digest [DigestSize]byte
	h.Sum(digest[:0])
	return digest
}

// ContainsWord reports whether word occurs in text delimited by word
// boundaries on both sides. Both arguments must already be folded.
// Letters, digits, combining marks and '_' count as word characters.
func ContainsWord(text, word string) bool {
	if word == "" {
		return false
	}
	offset := 0
	for offset <= len(text)-len(word) {
		i := strings.Index(text[offset:], word)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(word)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		// Advance one rune past the rejected start.
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

// MatchesWord folds both arguments and reports whether word occurs in text
// as a whole word.
func MatchesWord(text, word string) bool {
	return ContainsWord(Fold(text), Fold(word))
}

func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isWordRune(r)
}

func boundaryAfter(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
