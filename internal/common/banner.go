package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and logs the effective setup
func PrintBanner(name string, config *Config, logger arbor.ILogger) {
	banner.Print(name, GetVersion())

	logger.Info().
		Str("version", GetFullVersion()).
		Str("environment", config.Environment).
		Str("storage", config.Storage.Type).
		Str("llm_provider", string(config.LLM.DefaultProvider)).
		Msg("Starting " + name)
}
