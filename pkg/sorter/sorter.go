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
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidSource is returned when the source path is missing or not a directory.
	ErrInvalidSource = errors.Base("source folder does not exist or is not a directory")
	// ErrBadPattern is returned for a malformed exclude pattern.
	ErrBadPattern = errors.Base("invalid exclude pattern")
)

// 🔧 Options describes one run.
type Options struct {
	// Source is the folder to scan. It must exist and be a directory.
	Source string
	// Output is the folder category subfolders are created in.
	Output string
	// Exclude holds doublestar patterns matched against paths relative to
	// Source, using forward slashes.
	Exclude []string
}

func (o Options) validatePatterns() error {
	for _, pattern := range o.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("%w: %q", ErrBadPattern, pattern)
		}
	}
	return nil
}

// 📊 Report counts the outcomes of a run. It is safe for concurrent use.
type Report struct {
	copied atomic.Int64
	failed atomic.Int64

	mu         sync.Mutex
	categories map[string]struct{}
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{categories: make(map[string]struct{})}
}

func (r *Report) record(category string) {
	r.copied.Add(1)
	r.mu.Lock()
	r.categories[category] = struct{}{}
	r.mu.Unlock()
}

func (r *Report) fail() {
	r.failed.Add(1)
}

// Copied returns the number of files copied successfully.
func (r *Report) Copied() int {
	return int(r.copied.Load())
}

// Failed returns the number of files that could not be copied.
func (r *Report) Failed() int {
	return int(r.failed.Load())
}

// Categories returns the sorted names of the category folders written to.
func (r *Report) Categories() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.categories))
	for c := range r.categories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// 🏃 Sort validates opts, creates the output root and copies every file under
// the source into its category folder. Per-file failures are logged and
// counted in the returned Report; the error result covers only the run as a
// whole (bad patterns, invalid source, output root creation, walk failure).
func Sort(ctx context.Context, opts Options) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	if err := opts.validatePatterns(); err != nil {
		return nil, err
	}

	source, err := resolveSource(opts.Source)
	if err != nil {
		return nil, err
	}
	opts.Source = source

	if err := os.MkdirAll(opts.Output, 0o755); err != nil {
		return nil, errors.Errorf("creating output folder: %w", err)
	}

	tasks, err := Plan(ctx, opts)
	if err != nil {
		return nil, errors.Errorf("planning copies: %w", err)
	}

	report := NewReport()
	Dispatch(ctx, tasks, report)

	logger.Debug().
		Int("copied", report.Copied()).
		Int("failed", report.Failed()).
		Strs("categories", report.Categories()).
		Msg("run complete")

	return report, nil
}

// ⚡ Dispatch starts a Copy for every task at once and returns when all of
// them have finished. There is no concurrency limit: each goroutine opens its
// source right away, so a tree larger than the open-file limit fails the
// excess copies with EMFILE. Those are logged like any other copy failure.
func Dispatch(ctx context.Context, tasks []Task, report *Report) {
	if len(tasks) == 0 {
		return
	}
	logger := zerolog.Ctx(ctx)

	var g errgroup.Group
	for _, task := range tasks {
		logger.Debug().Str("source", task.Source).Str("category", task.Category()).Msg("scheduling copy")
		g.Go(func() error {
			Copy(ctx, task, report)
			return nil
		})
	}
	_ = g.Wait()
}

// resolveSource checks that path is an existing directory and returns it with
// symlinks resolved, so a symlinked source root is walked like a real one.
func resolveSource(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Errorf("%w: %s", ErrInvalidSource, path)
		}
		return "", errors.Errorf("%w: %s: %v", ErrInvalidSource, path, err)
	}
	if !info.IsDir() {
		return "", errors.Errorf("%w: %s", ErrInvalidSource, path)
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", errors.Errorf("resolving source folder: %w", err)
	}
	return resolved, nil
}
