// Package config loads and validates the gallery-linker TOML configuration.
//
// Configuration resolves from an explicit --config path, then
// ~/.config/gallery-linker/config.toml, then gallery-linker.toml in the
// working directory. Missing files fall back to repository defaults; the
// Stash URL is the only required value. All path fields are expanded and
// normalized on load.
package config
