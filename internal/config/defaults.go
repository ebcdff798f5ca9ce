package config

const (
	defaultConfigPath        = "~/.config/subtrans/config.toml"
	projectConfigName        = "subtrans.toml"
	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "google/gemini-3-flash-preview"
	defaultLLMReferer        = "https://github.com/subtrans/subtrans"
	defaultLLMTitle          = "subtrans"
	defaultLLMTimeoutSeconds = 120
	defaultSourceLanguage    = "auto"
	defaultChunkSize         = 10
	defaultWorkers           = 3
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	maxChunkSize             = 100
	maxWorkers               = 32
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Translation: Translation{
			SourceLanguage: defaultSourceLanguage,
			ChunkSize:      defaultChunkSize,
			Workers:        defaultWorkers,
			Bilingual:      true,
		},
		Cache: Cache{
			Enabled: true,
			Path:    defaultCachePath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
