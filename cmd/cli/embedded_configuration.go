package cli

import _ "embed"

//go:embed config.yaml
var embeddedDefaultConfiguration []byte

// EmbeddedDefaultConfiguration returns the default configuration content and its type.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	content := make([]byte, len(embeddedDefaultConfiguration))
	copy(content, embeddedDefaultConfiguration)
	return content, configurationTypeConstant
}
