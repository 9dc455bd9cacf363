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

package model

import (
	"sort"
)

// Tag is a single key/value pair attached to an element.
type Tag struct {
	Key   string `json:"k" yaml:"k"`
	Value string `json:"v" yaml:"v"`
}

// Tags is an ordered set of tags with unique keys. The order is the insertion
// order and is preserved when encoding.
type Tags []Tag

// TagsFromMap builds Tags from a map, ordered by key.
func TagsFromMap(m map[string]string) Tags {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	tags := make(Tags, len(keys))
	for i, k := range keys {
		tags[i] = Tag{Key: k, Value: m[k]}
	}

	return tags
}

// Get returns the value for key and whether it is present.
func (t Tags) Get(key string) (string, bool) {
	for _, tag := range t {
		if tag.Key == key {
			return tag.Value, true
		}
	}

	return "", false
}

// Value returns the value for key, or the empty string.
func (t Tags) Value(key string) string {
	v, _ := t.Get(key)

	return v
}

// Set replaces the value of key in place or appends a new tag.
func (t *Tags) Set(key, value string) {
	for i := range *t {
		if (*t)[i].Key == key {
			(*t)[i].Value = value

			return
		}
	}

	*t = append(*t, Tag{Key: key, Value: value})
}

// Map returns the tags as a map.
func (t Tags) Map() map[string]string {
	m := make(map[string]string, len(t))
	for _, tag := range t {
		m[tag.Key] = tag.Value
	}

	return m
}

// Merge returns the union of t and over. Keys of over win on collision,
// keys only present in t survive verbatim. Existing keys keep their
// position, new keys are appended in the order of over.
func (t Tags) Merge(over Tags) Tags {
	merged := make(Tags, 0, len(t)+len(over))
	merged = append(merged, t...)

	for _, tag := range over {
		merged.Set(tag.Key, tag.Value)
	}

	return merged
}
