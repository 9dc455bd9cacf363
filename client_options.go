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
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"m4o.io/osmsync/internal/auth"
	"m4o.io/osmsync/internal/overpass"
)

const (
	// DefaultAPIURL is the OSM editing API.
	DefaultAPIURL = "https://api.openstreetmap.org/api/0.6"

	// DefaultWebURL is the base of the element links returned by Publish.
	DefaultWebURL = "https://www.openstreetmap.org"

	// DefaultCreator is the created_by tag of every changeset.
	DefaultCreator = "osmsync"

	// DefaultHashtags is the campaign hashtag of every changeset.
	DefaultHashtags = "#btcmap"

	// DefaultEnrichConcurrency is the number of candidates enriched at once.
	DefaultEnrichConcurrency = 4
)

// Credentials are the OAuth client id, client secret and long lived refresh
// credential used for writes.
type Credentials = auth.Credentials

// TokenSource provides the bearer token for writes.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// clientOptions provides optional configuration parameters for Client construction.
type clientOptions struct {
	apiURL      string
	webURL      string
	overpassURL string
	tokenURL    string
	userAgent   string

	creator  string
	hashtags string

	credentials Credentials
	tokens      TokenSource

	httpClient *http.Client
	logger     *slog.Logger
	registerer prometheus.Registerer

	radius            float64 // duplicate search radius in meters
	enrichConcurrency int     // candidates enriched in parallel
	confirmVersion    bool    // re-fetch after an update instead of assuming version+1

	now func() time.Time
}

// ClientOption configures how we set up the client.
type ClientOption func(*clientOptions)

// WithAPIURL sets the base URL of the OSM editing API.
func WithAPIURL(url string) ClientOption {
	return func(o *clientOptions) {
		o.apiURL = url
	}
}

// WithWebURL sets the base URL of the element links returned by Publish.
func WithWebURL(url string) ClientOption {
	return func(o *clientOptions) {
		o.webURL = url
	}
}

// WithOverpassURL sets the Overpass interpreter used for duplicate checks.
func WithOverpassURL(url string) ClientOption {
	return func(o *clientOptions) {
		o.overpassURL = url
	}
}

// WithTokenURL sets the OAuth token endpoint.
func WithTokenURL(url string) ClientOption {
	return func(o *clientOptions) {
		o.tokenURL = url
	}
}

// WithUserAgent sets the User-Agent of every request.
func WithUserAgent(ua string) ClientOption {
	return func(o *clientOptions) {
		o.userAgent = ua
	}
}

// WithCredentials sets the secrets used to obtain the bearer token.
func WithCredentials(creds Credentials) ClientOption {
	return func(o *clientOptions) {
		o.credentials = creds
	}
}

// WithTokenSource replaces the credential exchange altogether.
func WithTokenSource(tokens TokenSource) ClientOption {
	return func(o *clientOptions) {
		o.tokens = tokens
	}
}

// WithChangesetTags sets the created_by and hashtags tags of changesets.
func WithChangesetTags(creator, hashtags string) ClientOption {
	return func(o *clientOptions) {
		o.creator = creator
		o.hashtags = hashtags
	}
}

// WithHTTPClient sets the HTTP client of every request.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithRegisterer registers the client's metrics with reg.
func WithRegisterer(reg prometheus.Registerer) ClientOption {
	return func(o *clientOptions) {
		o.registerer = reg
	}
}

// WithSearchRadius sets the duplicate search radius in meters.
func WithSearchRadius(meters float64) ClientOption {
	return func(o *clientOptions) {
		o.radius = meters
	}
}

// WithEnrichConcurrency lets you set how many duplicate candidates are
// enriched in parallel.
func WithEnrichConcurrency(n int) ClientOption {
	return func(o *clientOptions) {
		o.enrichConcurrency = max(n, 1)
	}
}

// WithConfirmVersion makes Publish re-fetch an updated element to report
// its authoritative version, at the cost of one more request.
func WithConfirmVersion(confirm bool) ClientOption {
	return func(o *clientOptions) {
		o.confirmVersion = confirm
	}
}

// WithClock sets the clock used for check_date tags.
func WithClock(now func() time.Time) ClientOption {
	return func(o *clientOptions) {
		o.now = now
	}
}

// defaultClientConfig provides a default configuration for clients.
var defaultClientConfig = clientOptions{
	apiURL:            DefaultAPIURL,
	webURL:            DefaultWebURL,
	overpassURL:       overpass.DefaultURL,
	tokenURL:          auth.DefaultTokenURL,
	userAgent:         DefaultCreator,
	creator:           DefaultCreator,
	hashtags:          DefaultHashtags,
	radius:            overpass.DefaultRadius,
	enrichConcurrency: DefaultEnrichConcurrency,
	now:               time.Now,
}
