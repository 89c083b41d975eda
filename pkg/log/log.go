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

// Package log builds the process logger used by extsort.
//
// The logger is created once at startup and travels through the program in a
// context.Context. Nothing in this package holds global state.
package log

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// TimeFormat is the timestamp layout written on every line.
const TimeFormat = "2006-01-02 15:04:05"

// 🎨 level label styling
var levelColors = map[string]*color.Color{
	zerolog.TraceLevel.String(): color.New(color.Faint),
	zerolog.DebugLevel.String(): color.New(color.Faint),
	zerolog.InfoLevel.String():  color.New(color.FgGreen),
	zerolog.WarnLevel.String():  color.New(color.FgYellow),
	zerolog.ErrorLevel.String(): color.New(color.FgRed),
	zerolog.FatalLevel.String(): color.New(color.FgRed, color.Bold),
	zerolog.PanicLevel.String(): color.New(color.FgRed, color.Bold),
}

// 🏭 New creates a logger writing timestamped console lines to w
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(NewConsoleWriter(w)).With().Timestamp().Logger().Level(level)
}

// 🖥️ NewConsoleWriter returns the console encoder used by New.
// Colors follow color.NoColor, which fatih/color derives from the terminal.
func NewConsoleWriter(w io.Writer) zerolog.ConsoleWriter {
	noColor := color.NoColor
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: TimeFormat,
		FormatLevel: func(i interface{}) string {
			return FormatLevel(i, noColor)
		},
	}
}

// FormatLevel renders a level value as an upper-case label ("INFO", "ERROR").
func FormatLevel(i interface{}, noColor bool) string {
	lvl, ok := i.(string)
	if !ok || lvl == "" {
		return "?????"
	}
	label := strings.ToUpper(lvl)
	if noColor {
		return label
	}
	c, ok := levelColors[lvl]
	if !ok {
		return label
	}
	return c.Sprint(label)
}
