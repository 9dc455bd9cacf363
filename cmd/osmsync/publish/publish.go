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

package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"m4o.io/osmsync"
	"m4o.io/osmsync/cmd/osmsync/cli"
	"m4o.io/osmsync/model"
)

var (
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
)

var errDuplicate = errors.New("an existing element may already describe this business, use --update or --force")

var (
	submissionFile *os.File
	update         targetValue
)

type publisher interface {
	FindDuplicates(ctx context.Context, point model.LatLon, name string) osmsync.DuplicateResult
	Publish(ctx context.Context, sub osmsync.Submission, strategy osmsync.Strategy, target *osmsync.Target) (*osmsync.PublishResult, error)
}

func init() {
	cli.RootCmd.AddCommand(publishCmd)

	flags := publishCmd.Flags()
	flags.VarP(cli.NewFileValue(&submissionFile, "submission"), "submission", "s", "YAML submission file, - for standard input")
	flags.VarP(&update, "update", "u", "element to update, as node/<id> or way/<id>")
	flags.BoolP("force", "f", false, "create even when a duplicate is found")
	flags.BoolP("json", "j", false, "format result in JSON")

	_ = publishCmd.MarkFlagRequired("submission")
}

var publishCmd = &cobra.Command{
	Use:   "publish --submission <file> [--update <type>/<id>]",
	Short: "Publish a business to OpenStreetMap",
	Long:  "Create a node for a business, or merge it into an existing node or way, inside its own changeset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()

		sub, err := decodeSubmission(submissionFile)
		if submissionFile != os.Stdin {
			_ = submissionFile.Close()
		}

		if err != nil {
			return err
		}

		force, err := flags.GetBool("force")
		if err != nil {
			return err
		}

		ctx, cancel, client, err := cli.Setup(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		result, err := runPublish(ctx, client, sub, update.target, force)
		if err != nil {
			return err
		}

		jsonfmt, err := flags.GetBool("json")
		if err != nil {
			return err
		}

		if jsonfmt {
			return renderJSON(result)
		}

		renderTxt(result)

		return nil
	},
}

// decodeSubmission reads a YAML submission. Unknown fields are rejected.
func decodeSubmission(r io.Reader) (osmsync.Submission, error) {
	var sub osmsync.Submission

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&sub); err != nil {
		return sub, fmt.Errorf("decoding submission: %w", err)
	}

	if strings.TrimSpace(sub.Name) == "" {
		return sub, errors.New("submission has no name")
	}

	return sub, nil
}

// runPublish creates sub, or merges it into target when one is given. A
// create is refused when a duplicate is found, unless force is set.
func runPublish(ctx context.Context, p publisher, sub osmsync.Submission, target *osmsync.Target, force bool) (*osmsync.PublishResult, error) {
	if target != nil {
		return p.Publish(ctx, sub, osmsync.Update, target)
	}

	if dup := p.FindDuplicates(ctx, sub.Position(), sub.Name); dup.IsDuplicate {
		fmt.Fprintf(errOut, "possible duplicate: %s/%d %q (%s)\n",
			dup.Primary.OSMType, dup.Primary.OSMID, dup.Primary.Name, dup.Primary.MatchReason)

		if !force {
			return nil, errDuplicate
		}
	}

	return p.Publish(ctx, sub, osmsync.Create, nil)
}

func renderJSON(result *osmsync.PublishResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, string(b))

	return nil
}

func renderTxt(result *osmsync.PublishResult) {
	fmt.Fprintf(out, "Element: %s/%d\n", result.ElementType, result.ElementID)
	fmt.Fprintf(out, "Version: %d\n", result.FinalVersion)
	fmt.Fprintf(out, "Changeset: %d\n", result.ChangesetID)
	fmt.Fprintf(out, "URL: %s\n", result.ElementURL)
}

// targetValue is a flag naming an element as "node/123" or "way/45".
type targetValue struct {
	target *osmsync.Target
}

func (v *targetValue) Set(val string) error {
	kind, id, ok := strings.Cut(val, "/")
	if !ok {
		return fmt.Errorf("element %q is not <type>/<id>", val)
	}

	t, err := model.ParseElementType(kind)
	if err != nil {
		return err
	}

	n, err := model.ParseID(id)
	if err != nil {
		return err
	}

	v.target = &osmsync.Target{ID: n, Type: t}

	return nil
}

func (v *targetValue) Type() string {
	return "element"
}

func (v *targetValue) String() string {
	if v.target == nil {
		return ""
	}

	return fmt.Sprintf("%s/%d", v.target.Type, v.target.ID)
}
