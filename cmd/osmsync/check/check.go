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

package check

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/osmsync"
	"m4o.io/osmsync/cmd/osmsync/cli"
	"m4o.io/osmsync/model"
)

var out io.Writer = os.Stdout

type finder interface {
	FindDuplicates(ctx context.Context, point model.LatLon, name string) osmsync.DuplicateResult
}

func init() {
	cli.RootCmd.AddCommand(checkCmd)

	flags := checkCmd.Flags()
	flags.Float64("lat", 0, "latitude of the business")
	flags.Float64("lon", 0, "longitude of the business")
	flags.StringP("name", "n", "", "name of the business")
	flags.BoolP("json", "j", false, "format result in JSON")

	_ = checkCmd.MarkFlagRequired("lat")
	_ = checkCmd.MarkFlagRequired("lon")
}

var checkCmd = &cobra.Command{
	Use:   "check --lat <lat> --lon <lon> [--name <name>]",
	Short: "Look for existing elements describing a business",
	Long:  "Look for existing elements near a position that accept bitcoin or carry a similar name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()

		lat, err := flags.GetFloat64("lat")
		if err != nil {
			return err
		}

		lon, err := flags.GetFloat64("lon")
		if err != nil {
			return err
		}

		name, err := flags.GetString("name")
		if err != nil {
			return err
		}

		point := model.LatLon{Lat: model.Degrees(lat), Lon: model.Degrees(lon)}
		if !point.Valid() {
			return fmt.Errorf("position %s out of range", point)
		}

		ctx, cancel, client, err := cli.Setup(cmd)
		if err != nil {
			return err
		}
		defer cancel()

		result := runCheck(ctx, client, point, name)

		jsonfmt, err := flags.GetBool("json")
		if err != nil {
			return err
		}

		if jsonfmt {
			return renderJSON(result)
		}

		renderTxt(result, time.Now())

		return nil
	},
}

func runCheck(ctx context.Context, f finder, point model.LatLon, name string) osmsync.DuplicateResult {
	return f.FindDuplicates(ctx, point, name)
}

func renderJSON(result osmsync.DuplicateResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, string(b))

	return nil
}

func renderTxt(result osmsync.DuplicateResult, now time.Time) {
	fmt.Fprintf(out, "Duplicate: %t\n", result.IsDuplicate)

	if !result.IsDuplicate {
		return
	}

	fmt.Fprintf(out, "Primary: %s/%d\n", result.Primary.OSMType, result.Primary.OSMID)
	fmt.Fprintf(out, "Matches: %s\n", humanize.Comma(int64(len(result.Matches))))

	for _, m := range result.Matches {
		fmt.Fprintf(out, "\n%s/%d %q\n", m.OSMType, m.OSMID, m.Name)

		if m.Category != "" {
			fmt.Fprintf(out, "  Category: %s\n", m.Category)
		}

		fmt.Fprintf(out, "  MatchReason: %s\n", m.MatchReason)

		if m.Coordinates != nil {
			fmt.Fprintf(out, "  Position: %s\n", m.Coordinates.DMS())
		}

		if m.Distance >= 0 {
			fmt.Fprintf(out, "  Distance: %s\n", humanize.SIWithDigits(m.Distance, 1, "m"))
		} else {
			fmt.Fprintln(out, "  Distance: unknown")
		}

		if m.LastUpdated != nil {
			fmt.Fprintf(out, "  LastUpdated: %s (changeset %d)\n",
				humanize.RelTime(*m.LastUpdated, now, "ago", "from now"), m.ChangesetID)
		} else {
			fmt.Fprintln(out, "  LastUpdated: unknown")
		}
	}
}
