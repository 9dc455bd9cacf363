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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"m4o.io/osmsync"
	"m4o.io/osmsync/internal/config"
)

var (
	configPath string
	logLevel   string
)

// RootCmd is the osmsync command. Subcommands register themselves on it.
var RootCmd = &cobra.Command{
	Use:          "osmsync",
	Short:        "Check and publish bitcoin-accepting businesses on OpenStreetMap",
	SilenceUsage: true,
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML configuration file")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// Setup loads the configuration and returns a client built from it, with a
// context bounded by the configured timeout.
func Setup(cmd *cobra.Command) (context.Context, context.CancelFunc, *osmsync.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := cmd.Context(), context.CancelFunc(func() {})
	if cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
	}

	return ctx, cancel, osmsync.NewClient(Options(cfg, logger)...), nil
}

// NewLogger returns a text logger writing to standard error at level.
func NewLogger(level string) (*slog.Logger, error) {
	var l slog.Level

	if level != "" {
		if err := l.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

// Options maps cfg onto client options. Unset values keep the defaults.
func Options(cfg *config.Config, logger *slog.Logger) []osmsync.ClientOption {
	opts := []osmsync.ClientOption{
		osmsync.WithCredentials(cfg.Credentials),
		osmsync.WithConfirmVersion(cfg.ConfirmVersion),
	}

	if logger != nil {
		opts = append(opts, osmsync.WithLogger(logger))
	}

	for _, o := range []struct {
		value string
		opt   func(string) osmsync.ClientOption
	}{
		{cfg.APIURL, osmsync.WithAPIURL},
		{cfg.WebURL, osmsync.WithWebURL},
		{cfg.OverpassURL, osmsync.WithOverpassURL},
		{cfg.TokenURL, osmsync.WithTokenURL},
		{cfg.UserAgent, osmsync.WithUserAgent},
	} {
		if o.value != "" {
			opts = append(opts, o.opt(o.value))
		}
	}

	creator, hashtags := cfg.Changeset.CreatedBy, cfg.Changeset.Hashtags
	if creator == "" {
		creator = osmsync.DefaultCreator
	}

	if hashtags == "" {
		hashtags = osmsync.DefaultHashtags
	}

	opts = append(opts, osmsync.WithChangesetTags(creator, hashtags))

	if cfg.Duplicates.Radius > 0 {
		opts = append(opts, osmsync.WithSearchRadius(cfg.Duplicates.Radius))
	}

	if cfg.Duplicates.Concurrency > 0 {
		opts = append(opts, osmsync.WithEnrichConcurrency(cfg.Duplicates.Concurrency))
	}

	return opts
}
