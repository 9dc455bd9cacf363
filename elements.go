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

func elementPath(t model.ElementType, id model.ID) string {
	return fmt.Sprintf("/%s/%d", t, id)
}

// fetch reads an element document. A deleted element yields ErrElementGone.
func (c *Client) fetch(ctx context.Context, t model.ElementType, id model.ID) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, elementPath(t, id), nil, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %d: %w", ErrFetchFailed, t, id, err)
	}

	switch {
	case resp.status == http.StatusGone:
		return nil, newStatusError(ErrElementGone, resp.status, resp.body)
	case !resp.ok():
		return nil, newStatusError(ErrFetchFailed, resp.status, resp.body)
	}

	return resp.body, nil
}

// FetchNode reads node id.
func (c *Client) FetchNode(ctx context.Context, id model.ID) (*model.Node, error) {
	body, err := c.fetch(ctx, model.NODE, id)
	if err != nil {
		return nil, err
	}

	node, err := osmxml.ParseNode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: node %d: %w", ErrFetchFailed, id, err)
	}

	return node, nil
}

// FetchWay reads way id, with its node references in geometry order.
func (c *Client) FetchWay(ctx context.Context, id model.ID) (*model.Way, error) {
	body, err := c.fetch(ctx, model.WAY, id)
	if err != nil {
		return nil, err
	}

	way, err := osmxml.ParseWay(body)
	if err != nil {
		return nil, fmt.Errorf("%w: way %d: %w", ErrFetchFailed, id, err)
	}

	return way, nil
}

// FetchElement reads a node or a way.
func (c *Client) FetchElement(ctx context.Context, t model.ElementType, id model.ID) (model.Element, error) {
	switch t {
	case model.NODE:
		node, err := c.FetchNode(ctx, id)
		if err != nil {
			return nil, err
		}

		return *node, nil
	case model.WAY:
		way, err := c.FetchWay(ctx, id)
		if err != nil {
			return nil, err
		}

		return *way, nil
	default:
		return nil, fmt.Errorf("%w: unsupported element type %s", ErrFetchFailed, t)
	}
}

// CreateNode creates a node at the position and with the tags of node,
// inside changeset. Its ID and Version are ignored.
func (c *Client) CreateNode(ctx context.Context, node model.Node, changeset model.ID) (model.ID, error) {
	node.ID, node.Version = 0, 0

	resp, err := c.do(ctx, http.MethodPut, "/node/create", osmxml.NodeDocument(node, changeset), true)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	if !resp.ok() {
		return 0, newStatusError(ErrCreateFailed, resp.status, resp.body)
	}

	id, err := model.ParseID(strings.TrimSpace(string(resp.body)))
	if err != nil {
		return 0, fmt.Errorf("%w: unexpected node id %q", ErrCreateFailed, resp.body)
	}

	c.logger.Info("node created", "node", id, "changeset", changeset)

	return id, nil
}

// UpdateNode writes node inside changeset. node.Version must be the version
// last fetched and node.Lat/Lon the fetched position: the client sends what
// it is given.
func (c *Client) UpdateNode(ctx context.Context, node model.Node, changeset model.ID) error {
	return c.update(ctx, model.NODE, node.ID, osmxml.NodeDocument(node, changeset), changeset)
}

// UpdateWay writes way inside changeset. way.Version must be the version last
// fetched and way.NodeIDs the fetched sequence, unchanged.
func (c *Client) UpdateWay(ctx context.Context, way model.Way, changeset model.ID) error {
	return c.update(ctx, model.WAY, way.ID, osmxml.WayDocument(way, changeset), changeset)
}

func (c *Client) update(ctx context.Context, t model.ElementType, id model.ID, doc []byte, changeset model.ID) error {
	resp, err := c.do(ctx, http.MethodPut, elementPath(t, id), doc, true)
	if err != nil {
		return fmt.Errorf("%w: %s %d: %w", ErrUpdateFailed, t, id, err)
	}

	switch {
	case resp.status == http.StatusConflict:
		return newStatusError(ErrVersionConflict, resp.status, resp.body)
	case resp.status == http.StatusGone:
		return newStatusError(ErrElementGone, resp.status, resp.body)
	case !resp.ok():
		return newStatusError(ErrUpdateFailed, resp.status, resp.body)
	}

	c.logger.Info("element updated", "type", t, "id", id, "changeset", changeset)

	return nil
}
