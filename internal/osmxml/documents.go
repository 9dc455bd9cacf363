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
	"bytes"
	"fmt"

	"m4o.io/osmsync/model"
)

const indent = "    "

// ChangesetDocument builds the body of a changeset create request.
func ChangesetDocument(tags model.Tags) []byte {
	var buf bytes.Buffer

	buf.WriteString("<osm>\n")
	buf.WriteString("  <changeset>\n")
	writeTags(&buf, tags, indent)
	buf.WriteString("  </changeset>\n")
	buf.WriteString("</osm>\n")

	return buf.Bytes()
}

// NodeDocument builds the body of a node create or update request. A node
// with a zero ID is written without id and version, which is what the create
// endpoint expects.
func NodeDocument(node model.Node, changeset model.ID) []byte {
	var buf bytes.Buffer

	buf.WriteString("<osm>\n")
	buf.WriteString("  <node")

	if node.ID != 0 {
		fmt.Fprintf(&buf, " id=\"%d\" version=\"%d\"", node.ID, node.Version)
	}

	fmt.Fprintf(&buf, " changeset=\"%d\" lat=\"%s\" lon=\"%s\">\n", changeset, node.Lat.Text(), node.Lon.Text())
	writeTags(&buf, node.Tags, indent)
	buf.WriteString("  </node>\n")
	buf.WriteString("</osm>\n")

	return buf.Bytes()
}

// WayDocument builds the body of a way update request. Node references are
// written in the order given.
func WayDocument(way model.Way, changeset model.ID) []byte {
	var buf bytes.Buffer

	buf.WriteString("<osm>\n")
	fmt.Fprintf(&buf, "  <way id=\"%d\" version=\"%d\" changeset=\"%d\">\n", way.ID, way.Version, changeset)

	for _, ref := range way.NodeIDs {
		fmt.Fprintf(&buf, "%s<nd ref=\"%d\"/>\n", indent, ref)
	}

	writeTags(&buf, way.Tags, indent)
	buf.WriteString("  </way>\n")
	buf.WriteString("</osm>\n")

	return buf.Bytes()
}
