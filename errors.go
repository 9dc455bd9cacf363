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
	"errors"
	"fmt"
	"strings"

	"m4o.io/osmsync/internal/auth"
	"m4o.io/osmsync/model"
)

var (
	// ErrCredentialsMissing is returned by writes when the OAuth client id,
	// client secret or refresh credential is not configured.
	ErrCredentialsMissing = auth.ErrCredentialsMissing

	// ErrTokenExchangeFailed is returned by writes when the refresh
	// credential cannot be exchanged for a bearer token.
	ErrTokenExchangeFailed = auth.ErrTokenExchangeFailed

	ErrChangesetOpenFailed  = errors.New("changeset open failed")
	ErrChangesetCloseFailed = errors.New("changeset close failed")
	ErrFetchFailed          = errors.New("element fetch failed")
	ErrElementGone          = errors.New("element deleted")
	ErrCreateFailed         = errors.New("element create failed")
	ErrVersionConflict      = errors.New("element version conflict")
	ErrUpdateFailed         = errors.New("element update failed")

	// ErrPublishFailed matches every error returned by Publish. The cause
	// stays reachable through errors.Is and errors.As.
	ErrPublishFailed = errors.New("publish failed")

	// errDuplicateCheckFailed never leaves FindDuplicates.
	errDuplicateCheckFailed = errors.New("duplicate check failed")
)

// StatusError carries the status and body of a rejected API request.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}

	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

func newStatusError(kind error, status int, body []byte) error {
	return fmt.Errorf("%w: %w", kind, &StatusError{StatusCode: status, Body: strings.TrimSpace(string(body))})
}

// PublishError reports the state a publish run failed in. Cause is the
// primary error. ChangesetID is the changeset the run had opened, zero if
// none. CloseErr is set when closing that changeset after a failed write
// also failed.
type PublishError struct {
	Stage       Stage
	ChangesetID model.ID
	Cause       error
	CloseErr    error
}

func (e *PublishError) Error() string {
	msg := fmt.Sprintf("%s in state %s: %v", ErrPublishFailed, e.Stage, e.Cause)
	if e.CloseErr != nil {
		msg += fmt.Sprintf(" (closing changeset %d: %v)", e.ChangesetID, e.CloseErr)
	}

	return msg
}

func (e *PublishError) Unwrap() []error {
	if e.CloseErr != nil {
		return []error{e.Cause, e.CloseErr}
	}

	return []error{e.Cause}
}

func (e *PublishError) Is(target error) bool {
	return target == ErrPublishFailed
}
