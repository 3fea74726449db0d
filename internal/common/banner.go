package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and the resolved runtime settings
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.PrintSimple(config.Server.AppName, GetVersion())

	logger.Info().
		Str("version", GetFullVersion()).
		Str("storage", config.Storage.Type).
		Str("llm_provider", config.LLM.Provider).
		Str("api_prefix", config.Server.APIPrefix).
		Int("retention_minutes", config.Workers.RetentionMinutes).
		Msg("Configuration")
}
