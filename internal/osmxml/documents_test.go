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
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmsync/model"
)

func TestChangesetDocument(t *testing.T) {
	g := goldie.New(t)

	doc := ChangesetDocument(model.Tags{
		{Key: "created_by", Value: "osmsync"},
		{Key: "comment", Value: "Add Tom & Jerry's <cafe>"},
		{Key: "hashtags", Value: "#btcmap"},
	})

	g.Assert(t, "changeset_create", doc)
}

func TestNodeDocumentCreate(t *testing.T) {
	g := goldie.New(t)

	doc := NodeDocument(model.Node{
		Lat:  -37.8136,
		Lon:  144.9631,
		Tags: model.Tags{{Key: "name", Value: "Test Cafe"}, {Key: "amenity", Value: "cafe"}, {Key: "check_date", Value: "2024-01-20"}},
	}, 42)

	g.Assert(t, "node_create", doc)
}

func TestNodeDocumentUpdate(t *testing.T) {
	g := goldie.New(t)

	doc := NodeDocument(model.Node{
		ID:      12345,
		Version: 1,
		Lat:     0.0000001,
		Lon:     -0.5,
		Tags:    model.Tags{{Key: "name", Value: "Updated"}, {Key: "currency:XBT", Value: "yes"}},
	}, 42)

	g.Assert(t, "node_update", doc)
}

func TestWayDocument(t *testing.T) {
	g := goldie.New(t)

	doc := WayDocument(model.Way{
		ID:      777,
		Version: 3,
		NodeIDs: []model.ID{100, 101, 102},
		Tags:    model.Tags{{Key: "building", Value: "yes"}, {Key: "name", Value: "Mall"}},
	}, 42)

	g.Assert(t, "way_update", doc)
}

func TestWayDocumentKeepsNodeOrder(t *testing.T) {
	way, err := ParseWay(WayDocument(model.Way{
		ID:      5,
		Version: 2,
		NodeIDs: []model.ID{102, 100, 101, 100},
	}, 9))
	require.NoError(t, err)

	assert.Equal(t, []model.ID{102, 100, 101, 100}, way.NodeIDs)
}

func TestNodeDocumentRoundTrip(t *testing.T) {
	in := model.Node{
		ID:      12,
		Version: 4,
		Lat:     51.123456789012,
		Lon:     -0.000000123,
		Tags: model.Tags{
			{Key: "name", Value: `"Quoted" & <angled>`},
			{Key: "note", Value: ""},
			{Key: "description", Value: "Espresso bar\r\nOpen late\tdaily\rcash only"},
		},
	}

	out, err := ParseNode(NodeDocument(in, 99))
	require.NoError(t, err)

	in.Changeset = 99
	assert.Equal(t, &in, out)
}
