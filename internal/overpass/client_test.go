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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmsync/model"
)

func TestQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "osmsync-test", r.UserAgent())
		assert.Equal(t, "[out:json];", r.FormValue("data"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"version": 0.6,
			"elements": [
				{"type": "node", "id": 1, "lat": -37.8136, "lon": 144.9631, "tags": {"name": "A"}},
				{"type": "way", "id": 2, "center": {"lat": -37.8137, "lon": 144.9632}, "tags": {"currency:XBT": "yes"}},
				{"type": "way", "id": 3}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), "osmsync-test")

	elements, err := c.Query(context.Background(), "[out:json];")
	require.NoError(t, err)
	require.Len(t, elements, 3)

	pos, ok := elements[0].Position()
	assert.True(t, ok)
	assert.Equal(t, model.LatLon{Lat: -37.8136, Lon: 144.9631}, pos)

	pos, ok = elements[1].Position()
	assert.True(t, ok)
	assert.Equal(t, model.LatLon{Lat: -37.8137, Lon: 144.9632}, pos)
	assert.Equal(t, "way", elements[1].Type)

	_, ok = elements[2].Position()
	assert.False(t, ok)
}

func TestQueryFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/busy" {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}

		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL+"/busy", srv.Client(), "").Query(context.Background(), "q")
	require.ErrorIs(t, err, ErrQueryFailed)
	assert.Contains(t, err.Error(), "429")

	_, err = NewClient(srv.URL, srv.Client(), "").Query(context.Background(), "q")
	assert.ErrorIs(t, err, ErrQueryFailed)

	srv.Close()

	_, err = NewClient(srv.URL, nil, "").Query(context.Background(), "q")
	assert.ErrorIs(t, err, ErrQueryFailed)
}
