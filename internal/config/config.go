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

// Package config loads the settings of the osmsync command from a YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"m4o.io/osmsync/internal/auth"
)

// Environment variables overriding the file.
const (
	EnvClientID     = "OSM_CLIENT_ID"
	EnvClientSecret = "OSM_CLIENT_SECRET"
	EnvRefreshToken = "OSM_REFRESH_TOKEN"
	EnvAPIURL       = "OSM_API_URL"
	EnvOverpassURL  = "OSM_OVERPASS_URL"
)

// Config holds everything needed to build a client.
type Config struct {
	APIURL      string `yaml:"api_url"`
	WebURL      string `yaml:"web_url"`
	OverpassURL string `yaml:"overpass_url"`
	TokenURL    string `yaml:"token_url"`
	UserAgent   string `yaml:"user_agent"`

	Credentials auth.Credentials `yaml:"credentials"`

	Changeset struct {
		CreatedBy string `yaml:"created_by"`
		Hashtags  string `yaml:"hashtags"`
	} `yaml:"changeset"`

	Duplicates struct {
		Radius      float64 `yaml:"radius"`
		Concurrency int     `yaml:"concurrency"`
	} `yaml:"duplicates"`

	ConfirmVersion bool          `yaml:"confirm_version"`
	Timeout        time.Duration `yaml:"timeout"`
	LogLevel       string        `yaml:"log_level"`
}

// Load reads the file at path, when path is not empty, and applies the
// environment over it.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening config: %w", err)
		}
		defer f.Close()

		if cfg, err = Decode(f); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	cfg.applyEnv(os.LookupEnv)

	return cfg, nil
}

// Decode reads a YAML document. An empty document yields the zero Config.
func Decode(r io.Reader) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	for name, field := range map[string]*string{
		EnvClientID:     &c.Credentials.ClientID,
		EnvClientSecret: &c.Credentials.ClientSecret,
		EnvRefreshToken: &c.Credentials.RefreshToken,
		EnvAPIURL:       &c.APIURL,
		EnvOverpassURL:  &c.OverpassURL,
	} {
		if v, ok := lookup(name); ok && v != "" {
			*field = v
		}
	}
}
