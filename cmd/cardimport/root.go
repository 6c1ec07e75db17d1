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
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/cardimport/cmd/cardimport/commands"
	"github.com/walteh/cardimport/cmd/cardimport/opts"
	"github.com/walteh/cardimport/pkg/config"
	"github.com/walteh/cardimport/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// newRootCmd builds the command tree. Config loading waits until flags are
// parsed, so it happens in PersistentPreRunE.
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "cardimport",
		Short: "Import photo and VR camera cards into dated work folders",
		Long: `cardimport copies the photo card and moves the VR card into today's
folders under the work root. Both cards are imported at the same time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), cmd.ErrOrStderr(), o.Debug)
			cmd.SetContext(ctx)

			o.UserLogger = log.NewUserLogger(ctx, cmd.OutOrStdout())

			if cmd.Name() == "version" {
				return nil
			}
			return loadRootConfig(ctx, o)
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewImportCmd(o),
		commands.NewPathsCmd(o),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (default: .cardimport.{yaml,yml,json,hcl} in the working directory)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

func loadRootConfig(ctx context.Context, o *opts.RootOpts) error {
	if o.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Errorf("getting working directory: %w", err)
		}
		o.WorkDir = wd
	}

	cfg, err := config.LoadOrDefault(ctx, o.ConfigFile, o.WorkDir)
	if err != nil {
		o.UserLogger.LogValidation(false, "could not load configuration", err)
		return errors.Errorf("loading config: %w", err)
	}
	o.Config = cfg

	zerolog.Ctx(ctx).Debug().Str("config", cfg.Location()).Str("summary", cfg.String()).Msg("configuration loaded")
	return nil
}

// setupLogging configures zerolog based on flags. Without --debug only
// warnings reach the log, since the console reporter already shows progress.
func setupLogging(ctx context.Context, w io.Writer, debug bool) context.Context {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithContext(ctx)
}
