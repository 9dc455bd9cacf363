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
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"m4o.io/osmsync/model"
)

// Strategy selects between creating a node and updating an existing element.
type Strategy int

const (
	// Create adds a new node at the submitted position.
	Create Strategy = iota

	// Update merges the submission into an existing node or way.
	Update
)

func (s Strategy) String() string {
	switch s {
	case Create:
		return "create"
	case Update:
		return "update"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Stage is the state of a publish run. A run that returns an error ends in
// Failed; its PublishError records the stage it failed in.
type Stage int

const (
	AwaitingChangeset Stage = iota
	ChangesetOpen
	ElementWritten
	Closed
	Failed
)

func (s Stage) String() string {
	switch s {
	case AwaitingChangeset:
		return "awaiting_changeset"
	case ChangesetOpen:
		return "changeset_open"
	case ElementWritten:
		return "element_written"
	case Closed:
		return "closed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

var (
	errMissingTarget   = errors.New("update requires a target element")
	errInvalidPosition = errors.New("submission position out of range")
)

// Target identifies the element an Update publishes into.
type Target struct {
	ID   model.ID
	Type model.ElementType
}

// PublishResult describes the element written by a successful publish.
type PublishResult struct {
	ElementID   model.ID          `json:"element_id"`
	ElementType model.ElementType `json:"element_type"`
	ElementURL  string            `json:"element_url"`
	ChangesetID model.ID          `json:"changeset_id"`

	// FinalVersion is 1 for created nodes. For updates it is the fetched
	// version plus one, or the re-fetched version with WithConfirmVersion.
	FinalVersion model.Version `json:"final_version"`
}

// Publish opens a changeset, writes the submission and closes the changeset.
//
// With Create a node is created at the submission's position. With Update the
// target is fetched, the submission's tags are merged over its tags and the
// element is written back with the fetched version and geometry.
//
// Nothing is rolled back. When the write fails the changeset is still closed,
// best effort, and a close failure is attached to the returned
// *PublishError without replacing its cause. When the close fails after a
// successful write, the element stays written and the changeset stays open.
func (c *Client) Publish(ctx context.Context, sub Submission, strategy Strategy, target *Target) (*PublishResult, error) {
	logger := c.logger.With("publish_id", uuid.NewString(), "strategy", strategy)

	result, err := c.publish(ctx, logger, sub, strategy, target)
	if err != nil {
		c.metrics.publishes.WithLabelValues(strategy.String(), outcomeFailure).Inc()

		var perr *PublishError
		if errors.As(err, &perr) {
			logger = logger.With("failed_in", perr.Stage)
		}

		logger.Error("publish failed", "state", Failed, "error", err)

		return nil, err
	}

	c.metrics.publishes.WithLabelValues(strategy.String(), outcomeSuccess).Inc()
	logger.Info("publish complete",
		"element", result.ElementURL,
		"changeset", result.ChangesetID,
		"version", result.FinalVersion)

	return result, nil
}

func (c *Client) publish(ctx context.Context, logger *slog.Logger, sub Submission, strategy Strategy, target *Target) (*PublishResult, error) {
	stage := AwaitingChangeset

	switch {
	case strategy != Create && strategy != Update:
		return nil, &PublishError{Stage: stage, Cause: fmt.Errorf("unknown strategy %d", int(strategy))}
	case strategy == Update && target == nil:
		return nil, &PublishError{Stage: stage, Cause: errMissingTarget}
	case strategy == Update && target.Type != model.NODE && target.Type != model.WAY:
		return nil, &PublishError{Stage: stage, Cause: fmt.Errorf("unsupported target type %s", target.Type)}
	case strategy == Create && !sub.Position().Valid():
		return nil, &PublishError{Stage: stage, Cause: fmt.Errorf("%w: %s", errInvalidPosition, sub.Position())}
	}

	changeset, err := c.OpenChangeset(ctx, sub.ChangesetComment(strategy))
	if err != nil {
		return nil, &PublishError{Stage: stage, Cause: err}
	}

	stage = ChangesetOpen
	logger = logger.With("changeset", changeset)

	tags := sub.BuildTags(c.cfg.now())

	var result *PublishResult
	if strategy == Create {
		result, err = c.createNode(ctx, sub, tags, changeset)
	} else {
		result, err = c.updateElement(ctx, *target, tags, changeset)
	}

	if err != nil {
		perr := &PublishError{Stage: stage, ChangesetID: changeset, Cause: err}

		if cerr := c.CloseChangeset(ctx, changeset); cerr != nil {
			logger.Error("closing changeset after failed write", "error", cerr)
			perr.CloseErr = cerr
		}

		return nil, perr
	}

	stage = ElementWritten

	if err := c.CloseChangeset(ctx, changeset); err != nil {
		return nil, &PublishError{Stage: stage, ChangesetID: changeset, Cause: err}
	}

	if strategy == Update && c.cfg.confirmVersion {
		c.confirmVersion(ctx, logger, result)
	}

	result.ChangesetID = changeset
	result.ElementURL = c.elementURL(result.ElementType, result.ElementID)

	return result, nil
}

func (c *Client) createNode(ctx context.Context, sub Submission, tags model.Tags, changeset model.ID) (*PublishResult, error) {
	id, err := c.CreateNode(ctx, model.Node{Lat: sub.Lat, Lon: sub.Lon, Tags: tags}, changeset)
	if err != nil {
		return nil, err
	}

	return &PublishResult{ElementID: id, ElementType: model.NODE, FinalVersion: 1}, nil
}

// updateElement fetches the target, merges tags over its tags and writes it
// back with the fetched version and geometry.
func (c *Client) updateElement(ctx context.Context, target Target, tags model.Tags, changeset model.ID) (*PublishResult, error) {
	var version model.Version

	switch target.Type {
	case model.NODE:
		node, err := c.FetchNode(ctx, target.ID)
		if err != nil {
			return nil, err
		}

		node.Tags = node.Tags.Merge(tags)
		if err := c.UpdateNode(ctx, *node, changeset); err != nil {
			return nil, err
		}

		version = node.Version
	case model.WAY:
		way, err := c.FetchWay(ctx, target.ID)
		if err != nil {
			return nil, err
		}

		way.Tags = way.Tags.Merge(tags)
		if err := c.UpdateWay(ctx, *way, changeset); err != nil {
			return nil, err
		}

		version = way.Version
	}

	return &PublishResult{ElementID: target.ID, ElementType: target.Type, FinalVersion: version + 1}, nil
}

// confirmVersion replaces the assumed version with the server's. A failed
// read keeps the assumed one.
func (c *Client) confirmVersion(ctx context.Context, logger *slog.Logger, result *PublishResult) {
	element, err := c.FetchElement(ctx, result.ElementType, result.ElementID)
	if err != nil {
		logger.Warn("confirming version, keeping assumed version",
			"error", err, "version", result.FinalVersion)

		return
	}

	result.FinalVersion = element.GetVersion()
}

func (c *Client) elementURL(t model.ElementType, id model.ID) string {
	return fmt.Sprintf("%s/%s/%d", c.cfg.webURL, t, id)
}
