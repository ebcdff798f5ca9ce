package compose

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"subtrans/internal/fileutil"
	"subtrans/internal/logging"
	"subtrans/internal/subtitles"
)

const lockRetryDelay = 100 * time.Millisecond

// Kind names one output variant.
type Kind string

const (
	KindTranslation      Kind = "translation"
	KindSource           Kind = "source"
	KindBilingual        Kind = "bilingual"
	KindBilingualReverse Kind = "bilingual_reverse"
)

// Artifact is one written output file.
type Artifact struct {
	Kind     Kind
	Path     string
	Format   subtitles.Format
	Captions int
	Bytes    int
}

// Writer serializes variants and writes them to disk.
type Writer struct {
	logger *slog.Logger
}

// NewWriter constructs a writer. A nil logger discards output.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logging.NewComponentLogger(logger, "compose")}
}

type target struct {
	kind     Kind
	path     string
	captions []subtitles.Caption
}

type pending struct {
	artifact Artifact
	data     []byte
}

// Write encodes every selected variant, stages each one in a temp file and
// only then renames them into place while an advisory lock on the output base
// is held. A failure at any step removes what this call already placed, so
// either the whole set is written or none of it. With bilingual off only the
// translation is written.
func (w *Writer) Write(ctx context.Context, v Variants, paths Paths, styles *subtitles.StyleMetadata, bilingual bool) ([]Artifact, error) {
	plan := []target{{KindTranslation, paths.Translation, v.Translation}}
	if bilingual {
		plan = append(plan,
			target{KindSource, paths.Source, v.Source},
			target{KindBilingual, paths.Bilingual, v.Bilingual},
			target{KindBilingualReverse, paths.BilingualReverse, v.BilingualReverse},
		)
	}

	encoded := make([]pending, 0, len(plan))
	for _, item := range plan {
		if strings.TrimSpace(item.path) == "" {
			return nil, fmt.Errorf("compose: %s path is empty", item.kind)
		}
		format := subtitles.DetectFormat(item.path)
		data, err := subtitles.Encode(format, item.captions, styles)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", item.kind, err)
		}
		if format == subtitles.FormatUnknown {
			format = subtitles.FormatSRT
		}
		encoded = append(encoded, pending{
			artifact: Artifact{
				Kind:     item.kind,
				Path:     item.path,
				Format:   format,
				Captions: len(item.captions),
				Bytes:    len(data),
			},
			data: data,
		})
	}

	if err := fileutil.EnsureParentDir(paths.Translation); err != nil {
		return nil, err
	}
	unlock, err := w.lock(ctx, paths.Translation)
	if err != nil {
		return nil, err
	}
	defer unlock()

	logger := logging.WithContext(ctx, w.logger)
	staged := make([]*fileutil.StagedFile, 0, len(encoded))
	discard := func() {
		for _, f := range staged {
			f.Discard()
		}
	}
	for _, p := range encoded {
		if err := ctx.Err(); err != nil {
			discard()
			return nil, err
		}
		f, err := fileutil.StageFile(p.artifact.Path, p.data, 0o644)
		if err != nil {
			discard()
			return nil, fmt.Errorf("write %s: %w", p.artifact.Kind, err)
		}
		staged = append(staged, f)
	}
	if err := ctx.Err(); err != nil {
		discard()
		return nil, err
	}

	written := make([]Artifact, 0, len(encoded))
	for i, f := range staged {
		if err := f.Commit(); err != nil {
			for _, rest := range staged[i+1:] {
				rest.Discard()
			}
			w.rollback(logger, written)
			return nil, fmt.Errorf("write %s: %w", encoded[i].artifact.Kind, err)
		}
		logger.Debug("artifact written",
			logging.String("kind", string(encoded[i].artifact.Kind)),
			logging.String("path", f.Path),
			logging.Int("captions", encoded[i].artifact.Captions),
		)
		written = append(written, encoded[i].artifact)
	}
	return written, nil
}

// rollback removes artifacts committed earlier in a failed Write so the set
// is never left half written.
func (w *Writer) rollback(logger *slog.Logger, written []Artifact) {
	for _, a := range written {
		if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
			logging.WarnWithContext(logger, "failed to remove partial artifact", "artifact_rollback_failed",
				logging.String("path", a.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "delete the file by hand before rerunning"),
				logging.String(logging.FieldImpact, "an incomplete artifact set remains on disk"),
			)
		}
	}
}

// lock takes an exclusive flock keyed on the output base so two runs
// targeting the same base do not interleave their artifacts. Lock files live
// in the temp dir and are left in place, as flock requires.
func (w *Writer) lock(ctx context.Context, outputPath string) (func(), error) {
	lockPath := LockPath(outputPath)
	lock := flock.New(lockPath)
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire output lock: %s is held by another run", lockPath)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			w.logger.Warn("failed to release output lock", logging.String("lock", lockPath), logging.Error(err))
		}
	}, nil
}

// LockPath returns the lock file guarding the artifact set of outputPath.
func LockPath(outputPath string) string {
	if abs, err := filepath.Abs(outputPath); err == nil {
		outputPath = abs
	}
	ext := filepath.Ext(outputPath)
	base := strings.TrimSuffix(strings.TrimSuffix(outputPath, ext), SuffixTranslated)
	sum := sha256.Sum256([]byte(base))
	return filepath.Join(os.TempDir(), "subtrans-"+hex.EncodeToString(sum[:8])+".lock")
}
