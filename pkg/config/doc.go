/*
Package config loads the cardimport settings file.

	            +-------------+
	            |   Config    |
	            | root/sources|
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|  YAML   |   |  JSON   |   |   HCL   |
	| Parser  |   | Parser  |   | Parser  |
	+---------+   +---------+   +---------+

🎯 Purpose:
- Finds .cardimport.{yaml,yml,json,hcl} in the working directory
- Picks a parser by file extension
- Validates and fills defaults for naming and import knobs

🔄 Flow:
1. LoadOrDefault looks for a config file, falling back to Default
2. The registered parser decodes it, rejecting unknown fields
3. Validate cleans paths, checks glob patterns and fills the gaps

⚡ Defaults:
Without a config file the tool uses the paths the studio machines have
always had: the work root under ~/Pictures and the two card mount points.

🔍 Example:

	cfg, err := config.LoadOrDefault(ctx, "", ".")
	if err != nil {
		return err
	}
	dirs := layout.Resolve(cfg.Root, layout.ModeImport, time.Now(), cfg.LayoutNaming())
*/
package config
