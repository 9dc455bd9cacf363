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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmsync/internal/config"
)

func TestFileValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cafe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Test Cafe\n"), 0o600))

	var f *os.File
	v := NewFileValue(&f, "submission")

	assert.Equal(t, "submission", v.Type())
	assert.Equal(t, "", v.String())

	require.NoError(t, v.Set(path))
	opened := f
	t.Cleanup(func() { _ = opened.Close() })

	assert.Equal(t, path, v.String())

	require.NoError(t, v.Set("-"))
	assert.Equal(t, os.Stdin, f)

	err := v.Set(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "opening submission")
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger("")
	assert.NoError(t, err)

	_, err = NewLogger("DEBUG")
	assert.NoError(t, err)

	_, err = NewLogger("loud")
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	assert.Len(t, Options(&config.Config{}, nil), 3)

	cfg := &config.Config{APIURL: "https://api.example", UserAgent: "osmsync-test"}
	cfg.Duplicates.Radius = 40

	assert.Len(t, Options(cfg, nil), 6)
}
