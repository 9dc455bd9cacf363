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

// Package auth exchanges the long lived OSM refresh credential for a bearer
// token and keeps it for the lifetime of the process.
package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2"
)

// DefaultTokenURL is the token endpoint of openstreetmap.org.
const DefaultTokenURL = "https://www.openstreetmap.org/oauth2/token"

const unsupportedGrantType = "unsupported_grant_type"

var (
	// ErrCredentialsMissing is returned, without any network call, when the
	// client id, client secret or refresh credential is not configured.
	ErrCredentialsMissing = errors.New("osm credentials missing")

	// ErrTokenExchangeFailed is returned when the token endpoint rejects the
	// exchange.
	ErrTokenExchangeFailed = errors.New("token exchange failed")
)

// Credentials are the static secrets used for the exchange.
type Credentials struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
}

// Complete reports whether every credential is present.
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Cache memoizes the bearer token. The token is never invalidated: OSM
// tokens do not expire. A failed exchange is not memoized and the next call
// tries again.
type Cache struct {
	creds    Credentials
	tokenURL string
	client   *http.Client
	logger   *slog.Logger

	mu    sync.Mutex
	token string
}

// Option configures a Cache.
type Option func(*Cache)

// WithTokenURL overrides the token endpoint.
func WithTokenURL(url string) Option {
	return func(c *Cache) {
		c.tokenURL = url
	}
}

// WithHTTPClient sets the client used for the exchange.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) {
		c.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache returns a cache for creds.
func NewCache(creds Credentials, opts ...Option) *Cache {
	c := &Cache{
		creds:    creds,
		tokenURL: DefaultTokenURL,
		client:   http.DefaultClient,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Token returns the bearer token, exchanging the refresh credential on the
// first call.
func (c *Cache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return c.token, nil
	}

	if !c.creds.Complete() {
		return "", ErrCredentialsMissing
	}

	token, err := c.exchange(ctx)
	if err != nil {
		return "", err
	}

	c.token = token

	return token, nil
}

func (c *Cache) exchange(ctx context.Context) (string, error) {
	conf := &oauth2.Config{
		ClientID:     c.creds.ClientID,
		ClientSecret: c.creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)

	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: c.creds.RefreshToken}).Token()
	if err == nil {
		return tok.AccessToken, nil
	}

	var rerr *oauth2.RetrieveError
	if !errors.As(err, &rerr) {
		return "", fmt.Errorf("%w: %w", ErrTokenExchangeFailed, err)
	}

	// openstreetmap.org does not implement the refresh_token grant; the
	// credential it hands out is already a bearer token.
	if rerr.ErrorCode == unsupportedGrantType || bytes.Contains(rerr.Body, []byte(unsupportedGrantType)) {
		c.logger.Info("refresh grant unsupported, using refresh credential as bearer token",
			"token_url", c.tokenURL)

		return c.creds.RefreshToken, nil
	}

	status := 0
	if rerr.Response != nil {
		status = rerr.Response.StatusCode
	}

	return "", fmt.Errorf("%w: status %d: %s", ErrTokenExchangeFailed, status, strings.TrimSpace(string(rerr.Body)))
}
