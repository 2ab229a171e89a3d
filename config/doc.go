/*
Package config loads configuration blocks for a switchback app.

A block is a YAML, TOML or JSON file under a config/ directory of a search path:

	app/config/routes.yaml
	app/config/TESTING/routes.yaml
	third_party/blog/config/blog.toml

[Store.Get] decodes and merges every file named after the block,
the application root first, each later search path only filling in keys left unset.
Files under a directory named after the [switchback.Environment] override their shared counterpart.

The block named "config" holds core items read with [Store.Item] and its typed variants.
*/
package config
