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

// Package osmsync publishes business submissions to OpenStreetMap. It finds
// existing elements that may already describe a business, then creates a
// node or updates an existing node or way inside a changeset.
package osmsync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzhttp"

	"m4o.io/osmsync/internal/auth"
	"m4o.io/osmsync/internal/overpass"
)

const maxResponseBody = 1 << 20

// Client talks to the OSM editing API and the Overpass interpreter. It is
// safe for concurrent use.
type Client struct {
	cfg      clientOptions
	http     *http.Client
	tokens   TokenSource
	overpass *overpass.Client
	logger   *slog.Logger
	metrics  *metrics
}

// NewClient returns a new client, configured with options.
func NewClient(opts ...ClientOption) *Client {
	cfg := defaultClientConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: gzhttp.Transport(http.DefaultTransport)}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	tokens := cfg.tokens
	if tokens == nil {
		tokens = auth.NewCache(cfg.credentials,
			auth.WithTokenURL(cfg.tokenURL),
			auth.WithHTTPClient(httpClient),
			auth.WithLogger(logger))
	}

	return &Client{
		cfg:      cfg,
		http:     httpClient,
		tokens:   tokens,
		overpass: overpass.NewClient(cfg.overpassURL, httpClient, cfg.userAgent),
		logger:   logger,
		metrics:  newMetrics(cfg.registerer),
	}
}

// response is the outcome of an API round trip that reached the server.
type response struct {
	status int
	body   []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status <= 299
}

// do performs a request against the editing API. Writes carry the bearer
// token; reads are anonymous.
func (c *Client) do(ctx context.Context, method, path string, body []byte, authorize bool) (response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.cfg.apiURL, "/")+path, rd)
	if err != nil {
		return response{}, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	}

	req.Header.Set("User-Agent", c.cfg.userAgent)

	if authorize {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return response{}, err
		}

		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return response{}, fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	c.logger.Debug("osm api request", "method", method, "path", path, "status", resp.StatusCode)

	return response{status: resp.StatusCode, body: data}, nil
}
