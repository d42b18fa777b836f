// Package config loads slotwatch settings.
//
// Settings come from three layers, later ones winning: built-in defaults for
// the Kawaguchi reservation site, an optional YAML file, and the environment
// (including a .env file next to the config file). Command-line flags are
// applied on top by the cli package. Secrets such as bot tokens are read from
// the environment only.
package config
