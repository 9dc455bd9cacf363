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
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// fileValue is a flag naming a file to read. "-" reads standard input.
type fileValue struct {
	value    **os.File
	typename string
}

// NewFileValue returns a flag value that opens the named file into p.
func NewFileValue(p **os.File, typename string) pflag.Value {
	fv := &fileValue{
		value:    p,
		typename: typename,
	}
	*fv.value = nil

	return fv
}

func (f *fileValue) Set(val string) error {
	if val == "-" {
		*f.value = os.Stdin
		return nil
	}

	file, err := os.Open(val)
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.typename, err)
	}

	*f.value = file

	return nil
}

func (f *fileValue) Type() string {
	return f.typename
}

func (f *fileValue) String() string {
	if *f.value == nil {
		return ""
	}

	return (*f.value).Name()
}
