package main

import (
	"context"
	"log/slog"

	"subtrans/internal/config"
	"subtrans/internal/logging"
	"subtrans/internal/services/llm"
	"subtrans/internal/translation"
	"subtrans/internal/translationcache"
)

// newBackend builds the LLM translator, wrapped in the SQLite cache when
// enabled. The returned close func is always safe to call.
func newBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger, useCache bool) (translation.Backend, func(), error) {
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	}, llm.WithLogger(logger))
	var backend translation.Backend = llm.NewTranslator(client)

	if !useCache || !cfg.Cache.Enabled {
		return backend, func() {}, nil
	}
	store, err := translationcache.Open(ctx, cfg.Cache.Path)
	if err != nil {
		logging.WarnWithContext(logger, "translation cache unavailable", "translation_cache_open_failed",
			logging.Error(err),
			logging.String("path", cfg.Cache.Path),
			logging.String(logging.FieldErrorHint, "delete the cache file or pass --no-cache"),
			logging.String(logging.FieldImpact, "every block is sent to the backend"),
		)
		return backend, func() {}, nil
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close translation cache", logging.Error(err))
		}
	}
	return translationcache.NewBackend(store, backend, cfg.LLM.Model, logger), closeFn, nil
}
