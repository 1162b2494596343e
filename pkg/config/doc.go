/*
Package config loads astrofix settings from YAML, HCL or JSON files.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Picks a parser by file extension through the parser registry
- Fills in defaults: include every .astro page under src, literal inline strategy, one job
- Resolves a relative base_dir against the config file directory
- Applies ASTROFIX_* environment overrides, optionally from a .env file

🔄 Precedence, lowest first:
1. Defaults
2. Config file
3. Environment
4. Command line flags

Unknown keys are rejected in YAML and JSON. HCL files can read the
environment through the env object.

🔍 Example:

	cfg, err := config.LoadOrDefault(ctx, ".", "")
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	pipeline, err := text.New(cfg.PipelineOptions())
*/
package config
