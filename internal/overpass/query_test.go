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
	"testing"

	"github.com/stretchr/testify/assert"

	"m4o.io/osmsync/model"
)

var melbourne = model.LatLon{Lat: -37.8136, Lon: 144.9631}

func TestBuildQuery(t *testing.T) {
	q := BuildQuery(melbourne, DefaultRadius, []string{"test", "cafe"})

	assert.Equal(t, `[out:json][timeout:25];
(
  node(around:25,-37.8136,144.9631)["currency:XBT"="yes"];
  way(around:25,-37.8136,144.9631)["currency:XBT"="yes"];
  node(around:25,-37.8136,144.9631)["payment:bitcoin"="yes"];
  way(around:25,-37.8136,144.9631)["payment:bitcoin"="yes"];
  node(around:25,-37.8136,144.9631)["payment:lightning"="yes"];
  way(around:25,-37.8136,144.9631)["payment:lightning"="yes"];
  node(around:25,-37.8136,144.9631)["name"~"test|cafe",i];
  way(around:25,-37.8136,144.9631)["name"~"test|cafe",i];
);
out center tags;
`, q)
}

func TestBuildQueryWithoutKeywords(t *testing.T) {
	q := BuildQuery(melbourne, 12.5, nil)

	assert.Contains(t, q, "node(around:12.5,-37.8136,144.9631)[\"currency:XBT\"=\"yes\"];")
	assert.NotContains(t, q, `"name"`)
}

func TestNamePatternEscapes(t *testing.T) {
	assert.Equal(t, `a\\.b|c\\+\\+|\"q\"`, namePattern([]string{"a.b", "c++", `"q"`}))
}

func TestBuildQuerySplitsSymbolJoinedNames(t *testing.T) {
	q := BuildQuery(melbourne, DefaultRadius, Keywords("Fish+Chips"))

	assert.Contains(t, q, `way(around:25,-37.8136,144.9631)["name"~"fish|chips",i];`)
	assert.NotContains(t, q, `\\+`)
}
