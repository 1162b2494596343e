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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
// Expressions can read the process environment through the env object,
// e.g. base_dir = env.SITE_DIR.
type HCLParser struct {
	// Environ overrides os.Environ, for tests
	Environ func() []string
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": p.envObject(),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		BaseDir string   `hcl:"base_dir,optional"`
		Include []string `hcl:"include,optional"`
		Exclude []string `hcl:"exclude,optional"`
		Rules   *struct {
			Disable            []string `hcl:"disable,optional"`
			InlineStrategy     string   `hcl:"inline_strategy,optional"`
			DiagramIndent      *string  `hcl:"diagram_indent,optional"`
			DiagramCloseIndent *string  `hcl:"diagram_close_indent,optional"`
		} `hcl:"rules,block"`
		Backup       bool `hcl:"backup,optional"`
		FailFast     bool `hcl:"fail_fast,optional"`
		Jobs         int  `hcl:"jobs,optional"`
		RequireClean bool `hcl:"require_clean,optional"`
		DryRun       bool `hcl:"dry_run,optional"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		BaseDir:      hclCfg.BaseDir,
		Include:      hclCfg.Include,
		Exclude:      hclCfg.Exclude,
		Backup:       hclCfg.Backup,
		FailFast:     hclCfg.FailFast,
		Jobs:         hclCfg.Jobs,
		RequireClean: hclCfg.RequireClean,
		DryRun:       hclCfg.DryRun,
	}

	if hclCfg.Rules != nil {
		cfg.Rules = RulesConfig{
			Disable:            hclCfg.Rules.Disable,
			InlineStrategy:     hclCfg.Rules.InlineStrategy,
			DiagramIndent:      hclCfg.Rules.DiagramIndent,
			DiagramCloseIndent: hclCfg.Rules.DiagramCloseIndent,
		}
	}

	return cfg, nil
}

// envObject exposes the environment as a cty object
func (p *HCLParser) envObject() cty.Value {
	environ := os.Environ
	if p.Environ != nil {
		environ = p.Environ
	}

	vals := map[string]cty.Value{}
	for _, kv := range environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vals[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(vals)
}
