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

package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/astrofix/pkg/config"
)

func ExampleLoad() {
	dir, err := os.MkdirTemp("", "astrofix-example")
	if err != nil {
		fmt.Printf("Error creating dir: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	configYAML := `
include:
  - src/pages/**/*.astro
rules:
  disable: [inline]
jobs: 2
`
	path := filepath.Join(dir, ".astrofix.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(context.Background(), path)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	fmt.Println(cfg.Include)
	fmt.Println(cfg.Rules.Disable, cfg.Rules.InlineStrategy)
	fmt.Println(cfg.Jobs)
	// Output:
	// [src/pages/**/*.astro]
	// [inline] literal
	// 2
}

func ExampleConfig_ApplyEnv() {
	cfg := config.Default()
	env := map[string]string{config.EnvInclude: "src/*.astro,docs/*.astro"}

	if err := cfg.ApplyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok }); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(cfg.Include)
	// Output:
	// [src/*.astro docs/*.astro]
}
