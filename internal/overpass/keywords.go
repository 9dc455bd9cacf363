// Copyright 2025 the original author or authors.
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

// Package overpass composes the duplicate candidate query and runs it against
// an Overpass API interpreter.
package overpass

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MinKeywordLength is the minimum number of runes a keyword must have.
const MinKeywordLength = 3

var stopWords = toSet(
	// articles
	"a", "an", "the",
	// pronouns
	"i", "me", "my", "mine", "we", "us", "our", "ours", "you", "your", "yours",
	"he", "him", "his", "she", "her", "hers", "it", "its", "they", "them",
	"their", "theirs", "this", "that", "these", "those",
	// auxiliary verbs
	"am", "is", "are", "was", "were", "be", "been", "being", "do", "does",
	"did", "has", "have", "had", "will", "would", "shall", "should", "can",
	"could", "may", "might", "must",
	// generic nouns
	"shop", "store", "business",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}

	return set
}

var lower = cases.Lower(language.Und)

// Normalize lower-cases name and replaces punctuation and symbols with
// spaces, collapsing runs of whitespace.
func Normalize(name string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}

		return r
	}, lower.String(name))

	return strings.Join(strings.Fields(stripped), " ")
}

// Keywords extracts the distinctive words of a business name, in first seen
// order and without repetition. An empty name yields no keywords.
func Keywords(name string) []string {
	var (
		keywords []string
		seen     = make(map[string]struct{})
	)

	for _, token := range strings.Fields(Normalize(name)) {
		if utf8.RuneCountInString(token) < MinKeywordLength {
			continue
		}

		if _, ok := stopWords[token]; ok {
			continue
		}

		if _, ok := seen[token]; ok {
			continue
		}

		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}

	return keywords
}
