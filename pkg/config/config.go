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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/astrofix/pkg/target"
	"github.com/walteh/astrofix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// DefaultInclude selects every page of an Astro project
const DefaultInclude = "src/**/*.astro"

// DefaultFiles are the config files looked up when none is given, in order
var DefaultFiles = []string{".astrofix.yaml", ".astrofix.yml", ".astrofix.hcl", ".astrofix.json"}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔧 RulesConfig configures the rewrite pipeline
type RulesConfig struct {
	Disable            []string `json:"disable,omitempty" yaml:"disable,omitempty"`
	InlineStrategy     string   `json:"inline_strategy,omitempty" yaml:"inline_strategy,omitempty"`
	DiagramIndent      *string  `json:"diagram_indent,omitempty" yaml:"diagram_indent,omitempty"`
	DiagramCloseIndent *string  `json:"diagram_close_indent,omitempty" yaml:"diagram_close_indent,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	BaseDir      string      `json:"base_dir,omitempty" yaml:"base_dir,omitempty"`
	Include      []string    `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude      []string    `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Rules        RulesConfig `json:"rules,omitempty" yaml:"rules,omitempty"`
	Backup       bool        `json:"backup,omitempty" yaml:"backup,omitempty"`
	FailFast     bool        `json:"fail_fast,omitempty" yaml:"fail_fast,omitempty"`
	Jobs         int         `json:"jobs,omitempty" yaml:"jobs,omitempty"`
	RequireClean bool        `json:"require_clean,omitempty" yaml:"require_clean,omitempty"`
	DryRun       bool        `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`

	location string
}

// 🏭 Default returns a validated config with every default applied
func Default() *Config {
	cfg := &Config{}
	// defaults always validate
	_ = cfg.Validate()
	return cfg
}

// 🎯 Load loads the configuration from a file. A relative base_dir is
// resolved against the directory of the file.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	} else if !filepath.IsAbs(cfg.BaseDir) {
		cfg.BaseDir = filepath.Join(filepath.Dir(path), cfg.BaseDir)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🎯 LoadOrDefault loads path when it exists. With an empty path the
// DefaultFiles are tried in dir. A missing file yields the defaults.
func LoadOrDefault(ctx context.Context, dir, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	candidates := []string{path}
	if path == "" {
		candidates = candidates[:0]
		for _, name := range DefaultFiles {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Errorf("checking config file: %w", err)
		}
		return Load(ctx, candidate)
	}

	logger.Debug().Strs("tried", candidates).Msg("no config file found, using defaults")
	cfg := Default()
	if dir != "" {
		cfg.BaseDir = dir
	}
	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.Jobs < 0 {
		return errors.Errorf("jobs must not be negative, got %d", cfg.Jobs)
	}

	// Set defaults
	if cfg.BaseDir == "" {
		cfg.BaseDir = "."
	}
	if len(cfg.Include) == 0 {
		cfg.Include = []string{DefaultInclude}
	}
	if cfg.Rules.InlineStrategy == "" {
		cfg.Rules.InlineStrategy = string(text.StrategyLiteral)
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = 1
	}

	// Clean up paths
	cfg.BaseDir = filepath.Clean(cfg.BaseDir)

	if err := cfg.PipelineOptions().Validate(); err != nil {
		return errors.Errorf("rules: %w", err)
	}
	if err := cfg.Selector().Validate(); err != nil {
		return err
	}

	return nil
}

// PipelineOptions returns the rewrite pipeline options
func (cfg *Config) PipelineOptions() text.Options {
	return text.Options{
		Disable:            cfg.Rules.Disable,
		InlineStrategy:     text.Strategy(cfg.Rules.InlineStrategy),
		DiagramIndent:      cfg.Rules.DiagramIndent,
		DiagramCloseIndent: cfg.Rules.DiagramCloseIndent,
	}
}

// Selector returns the file selection patterns
func (cfg *Config) Selector() target.Selector {
	return target.Selector{Include: cfg.Include, Exclude: cfg.Exclude}
}

// Location returns the file the config was loaded from, empty for defaults
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	s := fmt.Sprintf("%s [%s]", cfg.BaseDir, strings.Join(cfg.Include, ", "))
	if len(cfg.Exclude) > 0 {
		s += fmt.Sprintf(" -[%s]", strings.Join(cfg.Exclude, ", "))
	}
	return s
}
