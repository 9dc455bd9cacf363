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
	"fmt"
	"net/http"
	"strings"

	"m4o.io/osmsync/internal/osmxml"
	"m4o.io/osmsync/model"
)

// OpenChangeset opens a changeset carrying comment, the creator tag and the
// campaign hashtag. The changeset must be closed with CloseChangeset.
func (c *Client) OpenChangeset(ctx context.Context, comment string) (model.ID, error) {
	var tags model.Tags

	for _, tag := range []model.Tag{
		{Key: "created_by", Value: c.cfg.creator},
		{Key: "comment", Value: comment},
		{Key: "hashtags", Value: c.cfg.hashtags},
	} {
		if tag.Value != "" {
			tags = append(tags, tag)
		}
	}

	resp, err := c.do(ctx, http.MethodPut, "/changeset/create", osmxml.ChangesetDocument(tags), true)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrChangesetOpenFailed, err)
	}

	if !resp.ok() {
		return 0, newStatusError(ErrChangesetOpenFailed, resp.status, resp.body)
	}

	id, err := model.ParseID(strings.TrimSpace(string(resp.body)))
	if err != nil {
		return 0, fmt.Errorf("%w: unexpected changeset id %q", ErrChangesetOpenFailed, resp.body)
	}

	c.logger.Info("changeset opened", "changeset", id)

	return id, nil
}

// CloseChangeset closes the changeset id.
func (c *Client) CloseChangeset(ctx context.Context, id model.ID) error {
	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/changeset/%d/close", id), nil, true)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrChangesetCloseFailed, err)
	}

	if !resp.ok() {
		return newStatusError(ErrChangesetCloseFailed, resp.status, resp.body)
	}

	c.logger.Info("changeset closed", "changeset", id)

	return nil
}

// FetchChangeset reads the metadata of changeset id.
func (c *Client) FetchChangeset(ctx context.Context, id model.ID) (*model.Changeset, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/changeset/%d", id), nil, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	if !resp.ok() {
		return nil, newStatusError(ErrFetchFailed, resp.status, resp.body)
	}

	cs, err := osmxml.ParseChangeset(resp.body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	return cs, nil
}
