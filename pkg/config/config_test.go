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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/astrofix/pkg/text"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_yaml",
			file: ".astrofix.yaml",
			config: `
base_dir: site
include:
  - src/pages/**/*.astro
exclude:
  - src/pages/drafts/**
rules:
  disable: [inline]
  inline_strategy: double-brace
  diagram_indent: "  "
backup: true
fail_fast: true
jobs: 4
require_clean: true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, filepath.IsAbs(cfg.BaseDir), "base_dir should be resolved against the config directory")
				assert.Equal(t, "site", filepath.Base(cfg.BaseDir))
				assert.Equal(t, []string{"src/pages/**/*.astro"}, cfg.Include)
				assert.Equal(t, []string{"src/pages/drafts/**"}, cfg.Exclude)
				assert.Equal(t, []string{"inline"}, cfg.Rules.Disable)
				assert.Equal(t, "double-brace", cfg.Rules.InlineStrategy)
				require.NotNil(t, cfg.Rules.DiagramIndent)
				assert.Equal(t, "  ", *cfg.Rules.DiagramIndent)
				assert.Nil(t, cfg.Rules.DiagramCloseIndent)
				assert.True(t, cfg.Backup)
				assert.True(t, cfg.FailFast)
				assert.Equal(t, 4, cfg.Jobs)
				assert.True(t, cfg.RequireClean)
				assert.False(t, cfg.DryRun)
			},
		},
		{
			name:   "empty_yaml_uses_defaults",
			file:   ".astrofix.yml",
			config: "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{DefaultInclude}, cfg.Include)
				assert.Equal(t, string(text.StrategyLiteral), cfg.Rules.InlineStrategy)
				assert.Equal(t, 1, cfg.Jobs)
			},
		},
		{
			name:        "unknown_yaml_field",
			file:        ".astrofix.yaml",
			config:      "destination: /tmp\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_rule",
			file:        ".astrofix.yaml",
			config:      "rules:\n  disable: [tables]\n",
			wantErr:     true,
			errContains: "unknown rule",
		},
		{
			name:        "unknown_strategy",
			file:        ".astrofix.yaml",
			config:      "rules:\n  inline_strategy: html\n",
			wantErr:     true,
			errContains: "unknown inline strategy",
		},
		{
			name:        "negative_jobs",
			file:        ".astrofix.yaml",
			config:      "jobs: -1\n",
			wantErr:     true,
			errContains: "jobs must not be negative",
		},
		{
			name:        "invalid_include",
			file:        ".astrofix.yaml",
			config:      "include: [\"src/[\"]\n",
			wantErr:     true,
			errContains: "invalid include pattern",
		},
		{
			name: "valid_hcl",
			file: ".astrofix.hcl",
			config: `
include = ["src/**/*.astro", "docs/**/*.astro"]
jobs    = 2
dry_run = true

rules {
  disable              = ["container"]
  diagram_close_indent = ""
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"src/**/*.astro", "docs/**/*.astro"}, cfg.Include)
				assert.Equal(t, 2, cfg.Jobs)
				assert.True(t, cfg.DryRun)
				assert.Equal(t, []string{"container"}, cfg.Rules.Disable)
				require.NotNil(t, cfg.Rules.DiagramCloseIndent)
				assert.Equal(t, "", *cfg.Rules.DiagramCloseIndent)
			},
		},
		{
			name:        "invalid_hcl",
			file:        ".astrofix.hcl",
			config:      "include = [",
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "unknown_hcl_attribute",
			file:        ".astrofix.hcl",
			config:      "destination = \"x\"\n",
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:   "valid_json",
			file:   ".astrofix.json",
			config: `{"include": ["pages/*.astro"], "backup": true, "rules": {"inline_strategy": "literal"}}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"pages/*.astro"}, cfg.Include)
				assert.True(t, cfg.Backup)
			},
		},
		{
			name:        "unknown_json_field",
			file:        ".astrofix.json",
			config:      `{"provider": {}}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "unsupported_extension",
			file:        ".astrofix.toml",
			config:      "jobs = 1",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.config)

			cfg, err := Load(testContext(t), path)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, path, cfg.Location())
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadBaseDir(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, ".astrofix.yaml")
	require.NoError(t, os.WriteFile(path, []byte("include: [\"*.astro\"]\n"), 0644))
	cfg, err := Load(testContext(t), path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(dir), cfg.BaseDir, "missing base_dir defaults to the config directory")

	abs := filepath.Join(dir, "elsewhere")
	require.NoError(t, os.WriteFile(path, []byte("base_dir: "+abs+"\n"), 0644))
	cfg, err = Load(testContext(t), path)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.BaseDir, "absolute base_dir is kept")

	require.NoError(t, os.WriteFile(path, []byte("base_dir: ./site\n"), 0644))
	cfg, err = Load(testContext(t), path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "site"), cfg.BaseDir)
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("no_file", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := LoadOrDefault(testContext(t), dir, "")
		require.NoError(t, err)
		assert.Equal(t, dir, cfg.BaseDir)
		assert.Equal(t, []string{DefaultInclude}, cfg.Include)
		assert.Empty(t, cfg.Location())
	})

	t.Run("default_file_found", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".astrofix.hcl"), []byte("jobs = 3\n"), 0644))
		cfg, err := LoadOrDefault(testContext(t), dir, "")
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Jobs)
	})

	t.Run("explicit_missing_file", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := LoadOrDefault(testContext(t), dir, filepath.Join(dir, "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Jobs)
	})
}

func TestHCLEnv(t *testing.T) {
	p := &HCLParser{Environ: func() []string { return []string{"SITE_DIR=/srv/site", "BROKEN"} }}

	cfg, err := p.Parse(testContext(t), []byte("base_dir = env.SITE_DIR\n"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/site", cfg.BaseDir)

	_, err = p.Parse(testContext(t), []byte("base_dir = env.MISSING\n"))
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvBaseDir:        "/srv/site",
		EnvInclude:        "src/pages/*.astro, src/components/*.astro,",
		EnvExclude:        "src/pages/draft.astro",
		EnvJobs:           " 8 ",
		EnvInlineStrategy: "double-brace",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/srv/site", cfg.BaseDir)
	assert.Equal(t, []string{"src/pages/*.astro", "src/components/*.astro"}, cfg.Include)
	assert.Equal(t, []string{"src/pages/draft.astro"}, cfg.Exclude)
	assert.Equal(t, 8, cfg.Jobs)
	assert.Equal(t, text.StrategyDoubleBrace, cfg.PipelineOptions().InlineStrategy)

	env[EnvJobs] = "many"
	err := Default().ApplyEnv(lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvJobs)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ASTROFIX_TEST_JOBS=6\nASTROFIX_TEST_KEPT=from-file\n"), 0644))

	t.Setenv("ASTROFIX_TEST_KEPT", "from-env")
	t.Setenv("ASTROFIX_TEST_JOBS", "")
	os.Unsetenv("ASTROFIX_TEST_JOBS")

	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "6", os.Getenv("ASTROFIX_TEST_JOBS"))
	assert.Equal(t, "from-env", os.Getenv("ASTROFIX_TEST_KEPT"), "existing variables are not overwritten")
}

func TestConfigString(t *testing.T) {
	cfg := &Config{BaseDir: "site", Include: []string{"a/*.astro", "b/*.astro"}, Exclude: []string{"a/x.astro"}}
	assert.Equal(t, "site [a/*.astro, b/*.astro] -[a/x.astro]", cfg.String())
}
