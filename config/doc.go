// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the application configuration structure
// including the listen address, the join handling mode (redirect or serve),
// the redirect target, the join template location and the static root.
package config
