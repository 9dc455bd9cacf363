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

package overpass

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"m4o.io/osmsync/model"
)

// DefaultRadius is the search radius around the submitted point, in meters.
const DefaultRadius = 25.0

// DefaultTimeout is the server side timeout of a query, in seconds.
const DefaultTimeout = 25

// BitcoinTags are the tag conventions that mark an element as accepting
// bitcoin. A tag counts when its value is "yes".
var BitcoinTags = []string{"currency:XBT", "payment:bitcoin", "payment:lightning"}

// IsBitcoinTagged reports whether tags carry any bitcoin tag.
func IsBitcoinTagged(tags map[string]string) bool {
	for _, key := range BitcoinTags {
		if tags[key] == "yes" {
			return true
		}
	}

	return false
}

var qlEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// namePattern joins the keywords into a regular expression alternation,
// escaped for both the regex engine and the QL string literal.
func namePattern(keywords []string) string {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}

	return qlEscaper.Replace(strings.Join(quoted, "|"))
}

// BuildQuery composes the candidate query: every node or way within radius
// meters of center carrying a bitcoin tag, unioned with, when keywords is not
// empty, every node or way whose name contains one of the keywords.
func BuildQuery(center model.LatLon, radius float64, keywords []string) string {
	around := fmt.Sprintf("(around:%s,%s,%s)",
		strconv.FormatFloat(radius, 'f', -1, 64), center.Lat.Text(), center.Lon.Text())

	var b strings.Builder

	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", DefaultTimeout)

	for _, key := range BitcoinTags {
		for _, kind := range []string{"node", "way"} {
			fmt.Fprintf(&b, "  %s%s[\"%s\"=\"yes\"];\n", kind, around, key)
		}
	}

	if len(keywords) > 0 {
		pattern := namePattern(keywords)
		for _, kind := range []string{"node", "way"} {
			fmt.Fprintf(&b, "  %s%s[\"name\"~\"%s\",i];\n", kind, around, pattern)
		}
	}

	b.WriteString(");\nout center tags;\n")

	return b.String()
}
