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
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gitlab.com/tozd/go/errors"
)

// Environment variables read by ApplyEnv
const (
	EnvBaseDir        = "ASTROFIX_BASE_DIR"
	EnvInclude        = "ASTROFIX_INCLUDE"
	EnvExclude        = "ASTROFIX_EXCLUDE"
	EnvJobs           = "ASTROFIX_JOBS"
	EnvInlineStrategy = "ASTROFIX_INLINE_STRATEGY"
)

// 🌱 LoadEnv loads dotenv files into the process environment. Missing files
// are ignored and variables already set are never overwritten.
func LoadEnv(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return errors.Errorf("loading env file %s: %w", file, err)
		}
	}
	return nil
}

// 🌱 ApplyEnv overrides config fields from environment variables read through
// lookup, usually os.LookupEnv. List variables are comma separated. Call
// Validate afterwards.
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseDir); ok && v != "" {
		cfg.BaseDir = v
	}
	if v, ok := lookup(EnvInclude); ok && v != "" {
		cfg.Include = splitList(v)
	}
	if v, ok := lookup(EnvExclude); ok && v != "" {
		cfg.Exclude = splitList(v)
	}
	if v, ok := lookup(EnvJobs); ok && v != "" {
		jobs, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Errorf("%s: %w", EnvJobs, err)
		}
		cfg.Jobs = jobs
	}
	if v, ok := lookup(EnvInlineStrategy); ok && v != "" {
		cfg.Rules.InlineStrategy = strings.TrimSpace(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
