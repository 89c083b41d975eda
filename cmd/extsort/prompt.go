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

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

const (
	sourcePrompt = "Enter the path to the source folder"
	outputPrompt = "Enter the path to the output folder"
)

// 💬 Prompter asks the operator for a single value
type Prompter interface {
	Prompt(label string) (string, error)
}

// 🏭 newPrompter returns an interactive pterm input when in is a terminal and
// a line reader otherwise. The same Prompter must serve every question so
// buffered input is not lost between them.
func newPrompter(in io.Reader, out io.Writer) Prompter {
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return terminalPrompter{}
	}
	return &linePrompter{reader: bufio.NewReader(in), out: out}
}

// linePrompter prints the label and reads one line
type linePrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func (p *linePrompter) Prompt(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)

	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errors.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// terminalPrompter uses pterm's interactive text input
type terminalPrompter struct{}

func (terminalPrompter) Prompt(label string) (string, error) {
	value, err := pterm.DefaultInteractiveTextInput.Show(label)
	if err != nil {
		return "", errors.Errorf("reading input: %w", err)
	}
	return value, nil
}

// 📂 resolvePaths takes source and output from args, asking p for whichever is
// missing (source first), and returns both as absolute paths.
func resolvePaths(args []string, p Prompter) (string, string, error) {
	raw := make([]string, 2)
	copy(raw, args)

	questions := []struct {
		name  string
		label string
	}{
		{name: "source folder", label: sourcePrompt},
		{name: "output folder", label: outputPrompt},
	}
	for i, q := range questions {
		if raw[i] != "" {
			continue
		}
		value, err := p.Prompt(q.label)
		if err != nil {
			return "", "", errors.Errorf("asking for %s: %w", q.name, err)
		}
		raw[i] = value
	}

	source, err := filepath.Abs(raw[0])
	if err != nil {
		return "", "", errors.Errorf("resolving source path: %w", err)
	}
	output, err := filepath.Abs(raw[1])
	if err != nil {
		return "", "", errors.Errorf("resolving output path: %w", err)
	}

	return source, output, nil
}
