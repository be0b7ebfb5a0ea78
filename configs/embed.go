// Package configs embeds the configuration template written by
// `bookindex config init`.
//
// The template documents every key with its default. Edit
// bookindex.example.yaml and rebuild to change it.
package configs

import _ "embed"

// UserConfigTemplate is written to ~/.config/bookindex/config.yaml.
//
//go:embed bookindex.example.yaml
var UserConfigTemplate string
