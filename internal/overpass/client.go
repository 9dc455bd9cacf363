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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"m4o.io/osmsync/model"
)

// DefaultURL is the public Overpass interpreter.
const DefaultURL = "https://overpass-api.de/api/interpreter"

const maxErrorBody = 4096

// ErrQueryFailed is returned when the interpreter cannot be reached or
// answers with anything but a JSON element list.
var ErrQueryFailed = errors.New("overpass query failed")

// Center is the center point Overpass computes for ways.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Element is one entry of the interpreter's JSON response.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Position returns the coordinates of a node, or the center of a way.
func (e Element) Position() (model.LatLon, bool) {
	switch {
	case e.Lat != nil && e.Lon != nil:
		return model.LatLon{Lat: model.Degrees(*e.Lat), Lon: model.Degrees(*e.Lon)}, true
	case e.Center != nil:
		return model.LatLon{Lat: model.Degrees(e.Center.Lat), Lon: model.Degrees(e.Center.Lon)}, true
	default:
		return model.LatLon{}, false
	}
}

type response struct {
	Elements []Element `json:"elements"`
}

// Client runs queries against a single interpreter.
type Client struct {
	url       string
	client    *http.Client
	userAgent string
}

// NewClient returns a client for the interpreter at url.
func NewClient(url string, client *http.Client, userAgent string) *Client {
	if url == "" {
		url = DefaultURL
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &Client{url: url, client: client, userAgent: userAgent}
}

// Query posts query and returns the elements of the response in order.
func (c *Client) Query(ctx context.Context, query string) ([]Element, error) {
	form := url.Values{"data": {query}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return nil, fmt.Errorf("%w: status %d: %s", ErrQueryFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrQueryFailed, err)
	}

	return r.Elements, nil
}
