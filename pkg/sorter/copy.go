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
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// tempPattern names the in-flight copy inside a category folder.
const tempPattern = ".extsort-*.tmp"

// 📄 Copy runs a single copy operation. The outcome is logged and recorded in
// report; errors never leave this function.
func Copy(ctx context.Context, task Task, report *Report) {
	logger := zerolog.Ctx(ctx)

	dest, err := copyFile(task)
	if err != nil {
		report.fail()
		logger.Error().Str("source", task.Source).Err(err).Msg("error copying file")
		return
	}

	report.record(task.Category())
	logger.Info().Str("source", task.Source).Str("destination", dest).Msg("copied file")
}

// copyFile copies content, permission bits and modification time of
// task.Source into its category folder. The content lands in a temp file
// first and is renamed over the destination, so an existing file is replaced
// whole.
func copyFile(task Task) (string, error) {
	dir := filepath.Join(task.OutputRoot, task.Category())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Errorf("creating category folder: %w", err)
	}
	dest := filepath.Join(dir, filepath.Base(task.Source))

	src, err := os.Open(task.Source)
	if err != nil {
		return "", errors.Errorf("opening source file: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", errors.Errorf("reading source metadata: %w", err)
	}

	// fixed-length name so a source name near NAME_MAX still fits
	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", errors.Errorf("copying file content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return "", errors.Errorf("setting permissions: %w", err)
	}
	if err := os.Chtimes(tmpPath, info.ModTime(), info.ModTime()); err != nil {
		return "", errors.Errorf("setting timestamps: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return "", errors.Errorf("renaming temp file: %w", err)
	}
	committed = true

	return dest, nil
}
