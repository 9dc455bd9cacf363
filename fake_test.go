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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"m4o.io/osmsync/internal/osmxml"
	"m4o.io/osmsync/internal/overpass"
	"m4o.io/osmsync/model"
)

const testToken = "test-token"

type staticToken string

func (s staticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

var fixedNow = time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)

// fakeOSM is an in-memory stand-in for the OSM editing API and an Overpass
// interpreter.
type fakeOSM struct {
	t   *testing.T
	srv *httptest.Server

	mu         sync.Mutex
	nodes      map[model.ID]model.Node
	ways       map[model.ID]model.Way
	changesets map[model.ID]*fakeChangeset
	gone       map[string]bool

	nextChangeset model.ID
	nextNode      model.ID

	// status overrides, zero means behave normally
	openStatus   int
	closeStatus  int
	updateStatus int

	candidates     []overpass.Element
	overpassStatus int
	queries        []string

	requests []string
	bodies   map[string][]byte
}

type fakeChangeset struct {
	createdAt time.Time
	tags      model.Tags
	open      bool
}

func newFakeOSM(t *testing.T) *fakeOSM {
	t.Helper()

	f := &fakeOSM{
		t:             t,
		nodes:         make(map[model.ID]model.Node),
		ways:          make(map[model.ID]model.Way),
		changesets:    make(map[model.ID]*fakeChangeset),
		gone:          make(map[string]bool),
		nextChangeset: 1000,
		nextNode:      5000,
		bodies:        make(map[string][]byte),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/0.6/changeset/create", f.openChangeset)
	mux.HandleFunc("PUT /api/0.6/changeset/{id}/close", f.closeChangeset)
	mux.HandleFunc("GET /api/0.6/changeset/{id}", f.getChangeset)
	mux.HandleFunc("PUT /api/0.6/node/create", f.createNode)
	mux.HandleFunc("GET /api/0.6/{kind}/{id}", f.getElement)
	mux.HandleFunc("PUT /api/0.6/{kind}/{id}", f.putElement)
	mux.HandleFunc("POST /overpass", f.query)

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.bodies[r.Method+" "+r.URL.Path] = body
		f.mu.Unlock()

		r.Body = io.NopCloser(bytes.NewReader(body))
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)

	return f
}

func (f *fakeOSM) client(opts ...ClientOption) *Client {
	base := []ClientOption{
		WithAPIURL(f.srv.URL + "/api/0.6"),
		WithOverpassURL(f.srv.URL + "/overpass"),
		WithWebURL("https://osm.test"),
		WithHTTPClient(f.srv.Client()),
		WithTokenSource(staticToken(testToken)),
		WithClock(func() time.Time { return fixedNow }),
	}

	return NewClient(append(base, opts...)...)
}

func (f *fakeOSM) addNode(n model.Node) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nodes[n.ID] = n
}

func (f *fakeOSM) addWay(w model.Way) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ways[w.ID] = w
}

func (f *fakeOSM) addChangeset(id model.ID, createdAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.changesets[id] = &fakeChangeset{createdAt: createdAt}
}

func (f *fakeOSM) node(id model.ID) model.Node {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.nodes[id]
}

func (f *fakeOSM) way(id model.ID) model.Way {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.ways[id]
}

func (f *fakeOSM) changeset(id model.ID) *fakeChangeset {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.changesets[id]
}

func (f *fakeOSM) requestLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.requests...)
}

func (f *fakeOSM) body(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.bodies[key]
}

func (f *fakeOSM) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}

	return true
}

func pathID(r *http.Request) model.ID {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	return model.ID(id)
}

func (f *fakeOSM) openChangeset(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.openStatus != 0 {
		http.Error(w, "open refused", f.openStatus)
		return
	}

	body, _ := io.ReadAll(r.Body)

	tags, err := osmxml.DecodeTags(body)
	if !assert.NoError(f.t, err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.nextChangeset++
	f.changesets[f.nextChangeset] = &fakeChangeset{createdAt: fixedNow, tags: tags, open: true}

	fmt.Fprintf(w, "%d", f.nextChangeset)
}

func (f *fakeOSM) closeChangeset(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closeStatus != 0 {
		http.Error(w, "close refused", f.closeStatus)
		return
	}

	cs, ok := f.changesets[pathID(r)]
	if !ok {
		http.Error(w, "no such changeset", http.StatusNotFound)
		return
	}

	cs.open = false
}

func (f *fakeOSM) getChangeset(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cs, ok := f.changesets[pathID(r)]
	if !ok {
		http.Error(w, "no such changeset", http.StatusNotFound)
		return
	}

	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="fake">
 <changeset open="%t" created_at="%s" id="%d" user="tester" uid="1"/>
</osm>`, cs.open, cs.createdAt.Format(time.RFC3339), pathID(r))
}

func (f *fakeOSM) createNode(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}

	body, _ := io.ReadAll(r.Body)

	node, err := osmxml.ParseNode(body)
	if !assert.NoError(f.t, err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if cs, ok := f.changesets[node.Changeset]; !ok || !cs.open {
		http.Error(w, "changeset not open", http.StatusConflict)
		return
	}

	f.nextNode++
	node.ID = f.nextNode
	node.Version = 1
	f.nodes[node.ID] = *node

	fmt.Fprintf(w, "%d", node.ID)
}

func (f *fakeOSM) getElement(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kind, id := r.PathValue("kind"), pathID(r)

	if f.gone[kind+"/"+id.String()] {
		http.Error(w, "deleted", http.StatusGone)
		return
	}

	switch kind {
	case "node":
		if n, ok := f.nodes[id]; ok {
			_, _ = w.Write(osmxml.NodeDocument(n, n.Changeset))
			return
		}
	case "way":
		if way, ok := f.ways[id]; ok {
			_, _ = w.Write(osmxml.WayDocument(way, way.Changeset))
			return
		}
	}

	http.Error(w, "not found", http.StatusNotFound)
}

func (f *fakeOSM) putElement(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}

	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	defer f.mu.Unlock()

	kind, id := r.PathValue("kind"), pathID(r)

	if f.updateStatus != 0 {
		http.Error(w, "update refused", f.updateStatus)
		return
	}

	if f.gone[kind+"/"+id.String()] {
		http.Error(w, "deleted", http.StatusGone)
		return
	}

	switch kind {
	case "node":
		node, err := osmxml.ParseNode(body)
		if !assert.NoError(f.t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		stored, ok := f.nodes[id]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		if node.Version != stored.Version {
			http.Error(w, "version mismatch", http.StatusConflict)
			return
		}

		node.Version++
		f.nodes[id] = *node

		fmt.Fprintf(w, "%d", node.Version)
	case "way":
		way, err := osmxml.ParseWay(body)
		if !assert.NoError(f.t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		stored, ok := f.ways[id]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		if way.Version != stored.Version {
			http.Error(w, "version mismatch", http.StatusConflict)
			return
		}

		way.Version++
		f.ways[id] = *way

		fmt.Fprintf(w, "%d", way.Version)
	default:
		http.Error(w, "bad element type", http.StatusBadRequest)
	}
}

func (f *fakeOSM) query(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, r.FormValue("data"))

	if f.overpassStatus != 0 {
		http.Error(w, "overpass unavailable", f.overpassStatus)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	elements := f.candidates
	if elements == nil {
		elements = []overpass.Element{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"version": 0.6, "elements": elements})
}

func (f *fakeOSM) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queries) == 0 {
		return ""
	}

	return f.queries[len(f.queries)-1]
}
