package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. The target language and API
// key are checked by the commands that need them, so `inspect` and `convert`
// work without backend credentials.
func (c *Config) Validate() error {
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if c.Translation.ChunkSize < 1 || c.Translation.ChunkSize > maxChunkSize {
		return fmt.Errorf("translation.chunk_size must be between 1 and %d", maxChunkSize)
	}
	if c.Translation.Workers < 1 || c.Translation.Workers > maxWorkers {
		return fmt.Errorf("translation.workers must be between 1 and %d", maxWorkers)
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !strings.HasPrefix(c.LLM.BaseURL, "http://") && !strings.HasPrefix(c.LLM.BaseURL, "https://") {
		return fmt.Errorf("llm.base_url must be an http(s) URL, got %q", c.LLM.BaseURL)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) == "" {
		return errors.New("cache.path must be set when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

// RequireTranslation reports whether the config carries what a translation
// run needs beyond Validate.
func (c *Config) RequireTranslation() error {
	if strings.TrimSpace(c.Translation.TargetLanguage) == "" {
		return errors.New("translation.target_language is required (set it in the config or pass --target)")
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("llm.api_key is required. Set SUBTRANS_API_KEY or OPENROUTER_API_KEY env var or edit %s (create with 'subtrans config init')", defaultPath)
	}
	return nil
}
