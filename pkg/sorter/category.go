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
	"path/filepath"
	"strings"
)

// UnknownCategory holds files whose names carry no extension.
const UnknownCategory = "unknown"

// 🏷️ Category returns the folder name for a file: the text after the last dot
// of its base name, case preserved. Names without an extension (including
// dotfiles like ".bashrc" and names ending in a dot) map to UnknownCategory.
func Category(path string) string {
	name := filepath.Base(path)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return UnknownCategory
	}
	return name[i+1:]
}

// 📍 Destination returns <outputRoot>/<category>/<basename> for a source file.
func Destination(path, outputRoot string) string {
	return filepath.Join(outputRoot, Category(path), filepath.Base(path))
}
