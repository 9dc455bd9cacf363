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

package osmxml

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/paulmach/osm"

	"m4o.io/osmsync/model"
)

// ErrNoElement is returned when a response document holds no element of the
// requested type.
var ErrNoElement = errors.New("document holds no element")

func unmarshal(body []byte) (*osm.OSM, error) {
	o := &osm.OSM{}
	if err := xml.Unmarshal(body, o); err != nil {
		return nil, fmt.Errorf("unmarshaling osm document: %w", err)
	}

	return o, nil
}

// ParseNode decodes the first node of an API response. The attributes of the
// node element may appear in any order.
func ParseNode(body []byte) (*model.Node, error) {
	o, err := unmarshal(body)
	if err != nil {
		return nil, err
	}

	if len(o.Nodes) == 0 || o.Nodes[0] == nil {
		return nil, fmt.Errorf("node: %w", ErrNoElement)
	}

	n := o.Nodes[0]

	return &model.Node{
		ID:        model.ID(n.ID),
		Version:   model.Version(n.Version),
		Changeset: model.ID(n.ChangesetID),
		Lat:       model.Degrees(n.Lat),
		Lon:       model.Degrees(n.Lon),
		Tags:      fromOSMTags(n.Tags),
	}, nil
}

// ParseWay decodes the first way of an API response. Node references keep
// their document order.
func ParseWay(body []byte) (*model.Way, error) {
	o, err := unmarshal(body)
	if err != nil {
		return nil, err
	}

	if len(o.Ways) == 0 || o.Ways[0] == nil {
		return nil, fmt.Errorf("way: %w", ErrNoElement)
	}

	w := o.Ways[0]

	refs := make([]model.ID, len(w.Nodes))
	for i, wn := range w.Nodes {
		refs[i] = model.ID(wn.ID)
	}

	return &model.Way{
		ID:        model.ID(w.ID),
		Version:   model.Version(w.Version),
		Changeset: model.ID(w.ChangesetID),
		NodeIDs:   refs,
		Tags:      fromOSMTags(w.Tags),
	}, nil
}

// ParseChangeset decodes the metadata of a changeset.
func ParseChangeset(body []byte) (*model.Changeset, error) {
	o, err := unmarshal(body)
	if err != nil {
		return nil, err
	}

	if len(o.Changesets) == 0 || o.Changesets[0] == nil {
		return nil, fmt.Errorf("changeset: %w", ErrNoElement)
	}

	cs := o.Changesets[0]
	tags := fromOSMTags(cs.Tags)

	return &model.Changeset{
		ID:        model.ID(cs.ID),
		Comment:   tags.Value("comment"),
		CreatedAt: cs.CreatedAt,
		Tags:      tags,
	}, nil
}

func fromOSMTags(tags osm.Tags) model.Tags {
	if len(tags) == 0 {
		return nil
	}

	out := make(model.Tags, len(tags))
	for i, t := range tags {
		out[i] = model.Tag{Key: t.Key, Value: t.Value}
	}

	return out
}
