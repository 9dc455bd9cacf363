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

// Package osmxml reads and writes the XML documents of the OpenStreetMap API.
package osmxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"m4o.io/osmsync/model"
)

// escaper replaces the five XML entities, then CR, LF and tab with character
// references. Raw, those would be normalized away by the parser reading the
// attribute.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
	"\r", "&#13;",
	"\n", "&#10;",
	"\t", "&#9;",
)

// Escape escapes s for use inside a double quoted attribute value. Anything
// else, unicode included, is passed through.
func Escape(s string) string {
	return escaper.Replace(s)
}

var unescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&#13;", "\r",
	"&#10;", "\n",
	"&#9;", "\t",
	"&amp;", "&",
)

// Unescape reverses Escape in a single pass, so "&amp;lt;" yields "&lt;".
func Unescape(s string) string {
	return unescaper.Replace(s)
}

// EncodeTags writes one tag element per pair, in the order of tags.
func EncodeTags(tags model.Tags) []byte {
	var buf bytes.Buffer

	writeTags(&buf, tags, "")

	return buf.Bytes()
}

func writeTags(buf *bytes.Buffer, tags model.Tags, indent string) {
	for _, tag := range tags {
		fmt.Fprintf(buf, "%s<tag k=\"%s\" v=\"%s\"/>\n", indent, Escape(tag.Key), Escape(tag.Value))
	}
}

// DecodeTags collects every tag element in fragment, at any depth, in
// document order. Attribute order is irrelevant and entities are unescaped.
// The fragment may hold several top level elements.
func DecodeTags(fragment []byte) (model.Tags, error) {
	d := xml.NewDecoder(bytes.NewReader(fragment))

	var tags model.Tags

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return tags, nil
		} else if err != nil {
			return nil, fmt.Errorf("decoding tags: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "tag" {
			continue
		}

		var (
			tag      model.Tag
			hasKey   bool
			hasValue bool
		)

		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "k":
				tag.Key, hasKey = attr.Value, true
			case "v":
				tag.Value, hasValue = attr.Value, true
			}
		}

		if !hasKey || !hasValue {
			return nil, fmt.Errorf("tag element at offset %d lacks k or v", d.InputOffset())
		}

		tags = append(tags, tag)
	}
}
