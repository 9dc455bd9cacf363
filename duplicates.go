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

package osmsync

import (
	"context"
	"fmt"
	"sort"

	"github.com/destel/rill"

	"m4o.io/osmsync/internal/overpass"
	"m4o.io/osmsync/model"
)

// categoryKeys are the tags that name the kind of a business, in order of
// preference.
var categoryKeys = []string{"shop", "amenity", "craft", "office", "tourism", "leisure"}

// DuplicateResult is the outcome of a duplicate check.
type DuplicateResult struct {
	IsDuplicate bool                   `json:"is_duplicate"`
	Primary     *model.DuplicateMatch  `json:"primary,omitempty"`
	Matches     []model.DuplicateMatch `json:"matches,omitempty"`
}

// FindDuplicates looks for existing elements near point that may already
// describe the business called name: elements tagged as accepting bitcoin,
// and elements whose name shares a keyword with name.
//
// Matches are ordered by the creation time of the changeset that last touched
// them, most recent first; matches whose time could not be resolved follow in
// query order. Primary is the first match.
//
// FindDuplicates never fails. Any error is logged and reported as no
// duplicate, so that a broken check does not block a submission.
func (c *Client) FindDuplicates(ctx context.Context, point model.LatLon, name string) DuplicateResult {
	result, err := c.findDuplicates(ctx, point, name)
	if err != nil {
		c.metrics.duplicateChecks.WithLabelValues(outcomeFailure).Inc()
		c.logger.Warn("duplicate check failed, reporting no duplicate",
			"error", err, "point", point.String(), "name", name)

		return DuplicateResult{}
	}

	if result.IsDuplicate {
		c.metrics.duplicateChecks.WithLabelValues(outcomeDuplicate).Inc()
	} else {
		c.metrics.duplicateChecks.WithLabelValues(outcomeUnique).Inc()
	}

	return result
}

func (c *Client) findDuplicates(ctx context.Context, point model.LatLon, name string) (DuplicateResult, error) {
	query := overpass.BuildQuery(point, c.cfg.radius, overpass.Keywords(name))

	elements, err := c.overpass.Query(ctx, query)
	if err != nil {
		return DuplicateResult{}, fmt.Errorf("%w: %w", errDuplicateCheckFailed, err)
	}

	candidates := make([]candidate, 0, len(elements))

	for _, e := range elements {
		t, err := model.ParseElementType(e.Type)
		if err != nil {
			c.logger.Debug("ignoring candidate", "type", e.Type, "id", e.ID)
			continue
		}

		candidates = append(candidates, candidate{Element: e, kind: t})
	}

	if len(candidates) == 0 {
		return DuplicateResult{}, nil
	}

	enriched := rill.OrderedMap(rill.FromSlice(candidates, nil), c.cfg.enrichConcurrency,
		func(cand candidate) (model.DuplicateMatch, error) {
			return c.enrich(ctx, point, cand), nil
		})

	matches, err := rill.ToSlice(enriched)
	if err != nil {
		return DuplicateResult{}, fmt.Errorf("%w: %w", errDuplicateCheckFailed, err)
	}

	rankMatches(matches)

	return DuplicateResult{IsDuplicate: true, Primary: &matches[0], Matches: matches}, nil
}

type candidate struct {
	overpass.Element
	kind model.ElementType
}

// enrich turns a query result into a match, replacing the query's tags with
// the element's current ones and resolving when it was last touched. A
// failed read leaves the match without a timestamp.
func (c *Client) enrich(ctx context.Context, point model.LatLon, cand candidate) model.DuplicateMatch {
	var position *model.LatLon
	if p, ok := cand.Position(); ok {
		position = &p
	}

	match := newMatch(point, cand.kind, model.ID(cand.ID), model.TagsFromMap(cand.Tags), position)

	element, err := c.FetchElement(ctx, cand.kind, model.ID(cand.ID))
	if err != nil {
		c.metrics.enrichments.WithLabelValues(outcomeDegraded).Inc()
		c.logger.Debug("enriching candidate", "type", cand.kind, "id", cand.ID, "error", err)

		return match
	}

	var changeset model.ID

	switch e := element.(type) {
	case model.Node:
		p := e.Position()
		position = &p
		changeset = e.Changeset
	case model.Way:
		changeset = e.Changeset
	}

	match = newMatch(point, cand.kind, model.ID(cand.ID), element.GetTags(), position)
	match.ChangesetID = changeset

	cs, err := c.FetchChangeset(ctx, changeset)
	if err != nil {
		c.metrics.enrichments.WithLabelValues(outcomeDegraded).Inc()
		c.logger.Debug("resolving changeset", "changeset", changeset, "error", err)

		return match
	}

	lastUpdated := cs.CreatedAt
	match.LastUpdated = &lastUpdated

	c.metrics.enrichments.WithLabelValues(outcomeComplete).Inc()

	return match
}

func newMatch(point model.LatLon, t model.ElementType, id model.ID, tags model.Tags, position *model.LatLon) model.DuplicateMatch {
	m := tags.Map()

	match := model.DuplicateMatch{
		OSMID:       id,
		OSMType:     t,
		Name:        m["name"],
		Category:    category(tags),
		Tags:        tags,
		MatchReason: model.SimilarName,
		Coordinates: position,
		Distance:    -1,
	}

	if overpass.IsBitcoinTagged(m) {
		match.MatchReason = model.BitcoinTagged
	}

	if position != nil {
		match.Distance = point.Distance(*position)
	}

	return match
}

// category returns the first category tag as "key=value".
func category(tags model.Tags) string {
	for _, key := range categoryKeys {
		if v, ok := tags.Get(key); ok && v != "" {
			return key + "=" + v
		}
	}

	return ""
}

// rankMatches sorts matches by last update, most recent first. Matches
// without a timestamp go last and keep their relative order.
func rankMatches(matches []model.DuplicateMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].LastUpdated, matches[j].LastUpdated

		switch {
		case a != nil && b != nil:
			return a.After(*b)
		case a != nil:
			return true
		default:
			return false
		}
	})
}
