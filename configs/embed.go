// Package configs provides the embedded configuration template written
// out by `tinged config init`. Embedding keeps the template available in
// every distribution, source builds included.
package configs

import _ "embed"

// ConfigTemplate is the annotated default configuration.
//
//go:embed config.example.yaml
var ConfigTemplate string
