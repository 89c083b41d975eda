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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/extsort/pkg/log"
	"github.com/walteh/extsort/pkg/sorter"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the command line flags of the root command
type rootFlags struct {
	debug   bool
	exclude []string
}

// 🌱 newRootCmd builds the extsort command
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "extsort [SOURCE [OUTPUT]]",
		Short: "Copy every file under a folder into subfolders named by extension",
		Long: `extsort walks SOURCE recursively and copies each regular file to
OUTPUT/<extension>/<name>. Files without an extension go to OUTPUT/unknown.

Missing SOURCE or OUTPUT arguments are asked for on the console.
Existing files with the same name are overwritten.`,
		Args:         cobra.MaximumNArgs(2),
		Version:      GetVersionInfo().Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, flags, args)
		},
	}
	cmd.SetVersionTemplate(FormatVersion())

	cmd.Flags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().StringArrayVarP(&flags.exclude, "exclude", "x", nil, "skip paths matching a glob relative to SOURCE (repeatable)")

	return cmd
}

// runSort resolves the two folders and runs the sort. An invalid source is
// logged and is not an error.
func runSort(cmd *cobra.Command, flags *rootFlags, args []string) error {
	level := zerolog.InfoLevel
	if flags.debug {
		level = zerolog.DebugLevel
	}
	logger := log.New(cmd.ErrOrStderr(), level)
	ctx := logger.WithContext(cmd.Context())

	source, output, err := resolvePaths(args, newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()))
	if err != nil {
		return err
	}

	_, err = sorter.Sort(ctx, sorter.Options{
		Source:  source,
		Output:  output,
		Exclude: flags.exclude,
	})
	if errors.Is(err, sorter.ErrInvalidSource) {
		logger.Error().Str("source", source).Msg("source folder does not exist or is not a directory")
		return nil
	}
	if err != nil {
		return errors.Errorf("sorting files: %w", err)
	}

	return nil
}
