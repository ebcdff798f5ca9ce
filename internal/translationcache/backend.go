package translationcache

import (
	"context"
	"log/slog"

	"subtrans/internal/logging"
	"subtrans/internal/translation"
)

// Backend serves repeated requests from the store and records fresh
// translations produced by the wrapped backend.
type Backend struct {
	store  *Store
	next   translation.Backend
	model  string
	logger *slog.Logger
}

var _ translation.Backend = (*Backend)(nil)

// NewBackend decorates next with the cache. model partitions the keys so a
// model switch never serves stale output.
func NewBackend(store *Store, next translation.Backend, model string, logger *slog.Logger) *Backend {
	return &Backend{
		store:  store,
		next:   next,
		model:  model,
		logger: logging.NewComponentLogger(logger, "translation-cache"),
	}
}

// Translate implements translation.Backend.
func (b *Backend) Translate(ctx context.Context, req translation.Request) (string, error) {
	logger := logging.WithContext(ctx, b.logger)
	key := Key(b.model, req)

	text, ok, err := b.store.Get(ctx, key)
	switch {
	case err != nil:
		logging.WarnWithContext(logger, "translation cache lookup failed", "translation_cache_read_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the cache file or disable [cache]"),
			logging.String(logging.FieldImpact, "block is sent to the backend"),
		)
	case ok:
		logger.Debug("translation cache hit", logging.String("key", key[:12]))
		return text, nil
	}

	text, err = b.next.Translate(ctx, req)
	if err != nil {
		return "", err
	}
	if err := b.store.Put(ctx, key, b.model, text); err != nil {
		logging.WarnWithContext(logger, "translation cache write failed", "translation_cache_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check free space and permissions of the cache path"),
			logging.String(logging.FieldImpact, "block will be translated again next run"),
		)
	}
	return text, nil
}
