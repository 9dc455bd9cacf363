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
	"time"
)

// MatchReason explains why an existing element was reported as a duplicate.
type MatchReason int

const (
	// BitcoinTagged means the element already advertises bitcoin payments.
	BitcoinTagged MatchReason = iota

	// SimilarName means the element's name shares a keyword with the submission.
	SimilarName
)

func (r MatchReason) String() string {
	if r == BitcoinTagged {
		return "bitcoin_tagged"
	}

	return "similar_name"
}

func (r MatchReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// DuplicateMatch is an existing element that may represent the submitted
// business.
type DuplicateMatch struct {
	OSMID       ID          `json:"osm_id"`
	OSMType     ElementType `json:"osm_type"`
	Name        string      `json:"name,omitempty"`
	Category    string      `json:"category,omitempty"`
	Tags        Tags        `json:"tags,omitempty"`
	MatchReason MatchReason `json:"match_reason"`
	Coordinates *LatLon     `json:"coordinates,omitempty"`
	ChangesetID ID          `json:"changeset_id,omitempty"`
	LastUpdated *time.Time  `json:"last_updated,omitempty"`

	// Distance from the queried point in meters, or -1 when the element has
	// no known coordinates.
	Distance float64 `json:"distance"`
}
