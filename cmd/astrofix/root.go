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
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/astrofix/cmd/astrofix/commands"
	"github.com/walteh/astrofix/cmd/astrofix/opts"
	"github.com/walteh/astrofix/pkg/config"
	"github.com/walteh/astrofix/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags are the persistent flags shared by every command
type rootFlags struct {
	configFile     string
	envFile        string
	debug          bool
	baseDir        string
	exclude        []string
	disable        []string
	inlineStrategy string
	jobs           int
}

// newRootCmd creates the astrofix command tree writing console output to stdout
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags rootFlags
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "astrofix",
		Short: "Rewrite Astro pages so code blocks and diagrams render verbatim",
		Long: `astrofix converts code blocks, inline code and mermaid diagrams in Astro
pages into literal set:html directives, so braces and angle brackets inside
them are never evaluated by the template layer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(stderr, flags.debug)
			ctx := logger.WithContext(cmd.Context())
			ctx = log.NewContext(ctx, log.New(stdout, logger))
			cmd.SetContext(ctx)

			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			logger.Debug().Str("config", cfg.Location()).Str("settings", cfg.String()).Msg("configuration loaded")

			rootOpts.Config = cfg
			return nil
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	addRootFlags(cmd, &flags)

	cmd.AddCommand(
		commands.NewFixCmd(rootOpts),
		commands.NewCheckCmd(rootOpts),
		commands.NewWatchCmd(rootOpts),
		commands.NewRestoreCmd(rootOpts),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configFile, "config", "c", "", "config file path (default: .astrofix.{yaml,yml,hcl,json} in the working directory)")
	pf.StringVar(&f.envFile, "env-file", ".env", "dotenv file with ASTROFIX_* overrides")
	pf.BoolVarP(&f.debug, "debug", "d", false, "enable debug logging")
	pf.StringVar(&f.baseDir, "base-dir", "", "directory patterns are relative to")
	pf.StringSliceVar(&f.exclude, "exclude", nil, "glob patterns to exclude")
	pf.StringSliceVar(&f.disable, "disable", nil, "rules to disable: container, diagram, code, inline")
	pf.StringVar(&f.inlineStrategy, "inline-strategy", "", "inline code strategy: literal or double-brace")
	pf.IntVarP(&f.jobs, "jobs", "j", 0, "files processed concurrently")
}

// loadConfig layers defaults, the config file, the environment and flags, lowest first
func loadConfig(cmd *cobra.Command, f rootFlags) (*config.Config, error) {
	ctx := cmd.Context()

	if err := config.LoadEnv(f.envFile); err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Errorf("getting working directory: %w", err)
	}

	cfg, err := config.LoadOrDefault(ctx, wd, f.configFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, errors.Errorf("applying environment: %w", err)
	}

	pf := cmd.Flags()
	if pf.Changed("base-dir") {
		cfg.BaseDir = f.baseDir
	}
	if pf.Changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if pf.Changed("disable") {
		cfg.Rules.Disable = f.disable
	}
	if pf.Changed("inline-strategy") {
		cfg.Rules.InlineStrategy = f.inlineStrategy
	}
	if pf.Changed("jobs") {
		cfg.Jobs = f.jobs
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	abs, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return nil, errors.Errorf("getting absolute base directory: %w", err)
	}
	cfg.BaseDir = abs

	return cfg, nil
}

// setupLogging configures zerolog based on flags
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w)}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
