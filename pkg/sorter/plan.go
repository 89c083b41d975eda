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

package sorter

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📋 Task is one pending copy: a discovered file and the output root it is
// sorted into. Tasks are built by Plan and consumed by Dispatch.
type Task struct {
	Source     string
	OutputRoot string
}

// Category returns the folder name the task's file is sorted into.
func (t Task) Category() string {
	return Category(t.Source)
}

// Destination returns the path the task's file is copied to.
func (t Task) Destination() string {
	return Destination(t.Source, t.OutputRoot)
}

// 🔍 Plan walks opts.Source and returns one Task per regular file found.
//
// Symlinks to regular files are included, symlinked directories are not
// descended into. Entries matching an opts.Exclude pattern are skipped, and a
// matching directory is skipped along with its contents. Unreadable
// directories are logged and skipped; only a failure on the root itself is
// returned.
func Plan(ctx context.Context, opts Options) ([]Task, error) {
	logger := zerolog.Ctx(ctx)
	root := opts.Source

	if err := opts.validatePatterns(); err != nil {
		return nil, err
	}

	var tasks []Task
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return errors.Errorf("walking %s: %w", root, err)
			}
			logger.Error().Str("path", path).Err(err).Msg("error reading directory")
			return nil
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			logger.Error().Str("path", path).Err(err).Msg("error resolving relative path")
			return nil
		}
		if pattern, ok := opts.excluded(filepath.ToSlash(rel)); ok {
			logger.Debug().Str("path", path).Str("pattern", pattern).Msg("excluded by pattern")
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if !isRegular(logger, path, d) {
			logger.Debug().Str("path", path).Str("type", d.Type().String()).Msg("skipping non-regular entry")
			return nil
		}

		tasks = append(tasks, Task{Source: path, OutputRoot: opts.Output})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug().Int("files", len(tasks)).Str("source", root).Msg("planned copy tasks")
	return tasks, nil
}

// isRegular reports whether the entry is a regular file, following symlinks.
func isRegular(logger *zerolog.Logger, path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		logger.Debug().Str("path", path).Err(err).Msg("skipping broken symlink")
		return false
	}
	return info.Mode().IsRegular()
}

// excluded returns the first exclude pattern matching rel, a slash separated
// path relative to the source root.
func (o Options) excluded(rel string) (string, bool) {
	for _, pattern := range o.Exclude {
		// patterns are validated up front, so a match error cannot occur here
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return pattern, true
		}
	}
	return "", false
}
