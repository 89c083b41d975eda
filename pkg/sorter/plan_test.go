// Copyright 2025 walteh LLC
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

package sorter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/extsort/pkg/sorter"
	"gitlab.com/tozd/go/errors"
)

// 🧪 testContext returns a context carrying a logger that writes to t
func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

// 🧪 writeTree creates files (slash separated relative path -> content) under root
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "creating parent of %s", rel)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing %s", rel)
	}
}

func taskSources(t *testing.T, root string, tasks []sorter.Task) []string {
	t.Helper()
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		rel, err := filepath.Rel(root, task.Source)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		exclude []string
		want    []string
	}{
		{
			name: "nested_files",
			files: map[string]string{
				"a.txt":         "a",
				"sub/b.jpg":     "b",
				"sub/deep/c":    "c",
				"sub/deep/d.md": "d",
			},
			want: []string{"a.txt", "sub/b.jpg", "sub/deep/c", "sub/deep/d.md"},
		},
		{
			name:  "empty_tree",
			files: map[string]string{},
			want:  []string{},
		},
		{
			name: "exclude_files_by_glob",
			files: map[string]string{
				"keep.txt":    "k",
				"drop.log":    "d",
				"sub/too.log": "t",
			},
			exclude: []string{"**/*.log"},
			want:    []string{"keep.txt"},
		},
		{
			name: "exclude_directory_prunes_contents",
			files: map[string]string{
				"keep.txt":          "k",
				"node_modules/x.js": "x",
				"node_modules/a/y":  "y",
			},
			exclude: []string{"node_modules"},
			want:    []string{"keep.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := t.TempDir()
			writeTree(t, src, tt.files)
			out := filepath.Join(t.TempDir(), "out")

			tasks, err := sorter.Plan(testContext(t), sorter.Options{Source: src, Output: out, Exclude: tt.exclude})
			require.NoError(t, err)

			assert.Equal(t, tt.want, taskSources(t, src, tasks))
			for _, task := range tasks {
				assert.Equal(t, out, task.OutputRoot, "output root of %s", task.Source)
			}
		})
	}
}

func TestPlanSkipsDirectoriesAndFollowsFileLinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	src := t.TempDir()
	elsewhere := t.TempDir()
	writeTree(t, src, map[string]string{"real.txt": "real"})
	writeTree(t, elsewhere, map[string]string{"target.md": "target", "dir/inner.go": "inner"})

	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "target.md"), filepath.Join(src, "link.md")))
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "dir"), filepath.Join(src, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "missing"), filepath.Join(src, "broken.txt")))
	require.NoError(t, os.Mkdir(filepath.Join(src, "empty"), 0o755))

	tasks, err := sorter.Plan(testContext(t), sorter.Options{Source: src, Output: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, []string{"link.md", "real.txt"}, taskSources(t, src, tasks))
}

func TestPlanMissingRoot(t *testing.T) {
	_, err := sorter.Plan(testContext(t), sorter.Options{
		Source: filepath.Join(t.TempDir(), "nope"),
		Output: t.TempDir(),
	})
	require.Error(t, err)
}

func TestPlanBadPattern(t *testing.T) {
	_, err := sorter.Plan(testContext(t), sorter.Options{
		Source:  t.TempDir(),
		Output:  t.TempDir(),
		Exclude: []string{"["},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sorter.ErrBadPattern), "expected ErrBadPattern, got %v", err)
}

func TestPlanUnreadableSubdirContinues(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory permissions are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root can read any directory")
	}

	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"top.txt":        "t",
		"locked/in.md":   "hidden",
		"open/beside.go": "b",
	})
	locked := filepath.Join(src, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	tasks, err := sorter.Plan(ctx, sorter.Options{Source: src, Output: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, []string{"open/beside.go", "top.txt"}, taskSources(t, src, tasks))

	var errs []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "log line %q", line)
		if entry["level"] == "error" {
			errs = append(errs, entry)
		}
	}
	require.Len(t, errs, 1)
	assert.Equal(t, "error reading directory", errs[0]["message"])
	assert.Equal(t, locked, errs[0]["path"])
}
