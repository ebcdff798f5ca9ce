package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"subtrans/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("SUBTRANS_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantCache := filepath.Join(tempHome, ".cache", "subtrans", "translations.db")
	if cfg.Cache.Path != wantCache {
		t.Fatalf("unexpected cache path: got %q want %q", cfg.Cache.Path, wantCache)
	}
	if !cfg.Cache.Enabled {
		t.Fatal("expected cache enabled by default")
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Fatalf("expected API key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.BaseURL != config.Default().LLM.BaseURL {
		t.Fatalf("unexpected base url: %q", cfg.LLM.BaseURL)
	}
	if cfg.Translation.ChunkSize != 10 {
		t.Fatalf("expected chunk size 10, got %d", cfg.Translation.ChunkSize)
	}
	if cfg.Translation.Workers != 3 {
		t.Fatalf("expected 3 workers, got %d", cfg.Translation.Workers)
	}
	if !cfg.Translation.Bilingual {
		t.Fatal("expected bilingual outputs enabled by default")
	}
	if cfg.Translation.StripAds {
		t.Fatal("expected advertisement stripping disabled by default")
	}
	if cfg.Translation.SourceLanguage != "auto" {
		t.Fatalf("expected auto source language, got %q", cfg.Translation.SourceLanguage)
	}
	if cfg.Paths.OutputDir != "" {
		t.Fatalf("expected empty output dir, got %q", cfg.Paths.OutputDir)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(filepath.Dir(wantCache)); err != nil || !info.IsDir() {
		t.Fatalf("expected cache directory to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subtrans.toml")

	type payload struct {
		LLM struct {
			APIKey string `toml:"api_key"`
			Model  string `toml:"model"`
		} `toml:"llm"`
		Translation struct {
			TargetLanguage string `toml:"target_language"`
			ChunkSize      int    `toml:"chunk_size"`
			Workers        int    `toml:"workers"`
			Theme          string `toml:"theme"`
			Bilingual      bool   `toml:"bilingual"`
		} `toml:"translation"`
		Paths struct {
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.LLM.APIKey = "abc123"
	custom.LLM.Model = "  test/model  "
	custom.Translation.TargetLanguage = "ja"
	custom.Translation.ChunkSize = 25
	custom.Translation.Workers = 5
	custom.Translation.Theme = " Star Trek "
	custom.Translation.Bilingual = false
	custom.Paths.OutputDir = filepath.Join(tempDir, "out")
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.LLM.APIKey != "abc123" {
		t.Fatalf("expected API key from file, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "test/model" {
		t.Fatalf("expected trimmed model, got %q", cfg.LLM.Model)
	}
	if cfg.Translation.TargetLanguage != "ja" || cfg.Translation.ChunkSize != 25 || cfg.Translation.Workers != 5 {
		t.Fatalf("unexpected translation section: %+v", cfg.Translation)
	}
	if cfg.Translation.Theme != "Star Trek" {
		t.Fatalf("expected trimmed theme, got %q", cfg.Translation.Theme)
	}
	if cfg.Translation.Bilingual {
		t.Fatal("expected bilingual override to false")
	}
	if cfg.Paths.OutputDir != filepath.Join(tempDir, "out") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lower-cased log format, got %q", cfg.Logging.Format)
	}
}

func TestFileAPIKeyTakesPrecedenceOverEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "subtrans.toml")
	if err := os.WriteFile(configPath, []byte("[llm]\napi_key = \"file-key\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SUBTRANS_API_KEY", "env-key")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "file-key" {
		t.Fatalf("expected file key, got %q", cfg.LLM.APIKey)
	}
}

func TestOpenRouterEnvFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SUBTRANS_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "router-key")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "router-key" {
		t.Fatalf("expected OpenRouter key fallback, got %q", cfg.LLM.APIKey)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "target_language") {
		t.Fatalf("sample config missing target_language: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Translation.ChunkSize != 10 || cfg.Translation.Workers != 3 {
		t.Fatalf("unexpected sample translation values: %+v", cfg.Translation)
	}
	if !strings.Contains(cfg.Cache.Path, "subtrans") {
		t.Fatalf("expected cache path to mention subtrans, got %q", cfg.Cache.Path)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero chunk size", func(c *config.Config) { c.Translation.ChunkSize = 0 }},
		{"huge chunk size", func(c *config.Config) { c.Translation.ChunkSize = 101 }},
		{"zero workers", func(c *config.Config) { c.Translation.Workers = 0 }},
		{"too many workers", func(c *config.Config) { c.Translation.Workers = 33 }},
		{"bad base url", func(c *config.Config) { c.LLM.BaseURL = "ftp://example.com" }},
		{"cache without path", func(c *config.Config) { c.Cache.Path = " " }},
		{"unknown log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"unknown log level", func(c *config.Config) { c.Logging.Level = "trace" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestRequireTranslation(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKey = "key"
	if err := cfg.RequireTranslation(); err == nil || !strings.Contains(err.Error(), "target_language") {
		t.Fatalf("expected target language error, got %v", err)
	}
	cfg.Translation.TargetLanguage = "fr"
	cfg.LLM.APIKey = ""
	if err := cfg.RequireTranslation(); err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Fatalf("expected api key error, got %v", err)
	}
	cfg.LLM.APIKey = "key"
	if err := cfg.RequireTranslation(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
