// Package config loads keygrid settings.
//
// Settings are layered, lowest precedence first:
//
//  1. Built-in defaults (Default)
//  2. A config file, TOML or YAML chosen by extension
//  3. Environment variables with the KEYGRID_ prefix
//
// Each layer is read into a map and merged; the merged map is decoded into
// a typed Config and validated. Unknown keys are rejected.
//
// Environment variables map onto settings by section, so KEYGRID_GRID_WIDTH
// sets grid.width and KEYGRID_GRID_LEGACY_TITLES sets grid.legacy_titles.
//
// Watcher reports changes to the config file (or any other file, such as a
// startup script) so the application can reload it.
package config
