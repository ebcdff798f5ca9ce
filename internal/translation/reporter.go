package translation

import (
	"log/slog"

	"subtrans/internal/logging"
)

// Reporter observes the progress of a translation run. Calls are made from a
// single goroutine.
type Reporter interface {
	Started(blocks, captions int)
	BlockCompleted(block, done, total int)
	MissingTranslation(captionIndex, block int)
	Finished(stats Stats)
}

// NopReporter ignores every event.
type NopReporter struct{}

func (NopReporter) Started(int, int) {}
func (NopReporter) BlockCompleted(int, int, int) {}
func (NopReporter) MissingTranslation(int, int) {}
func (NopReporter) Finished(Stats) {}

type logReporter struct {
	logger  *slog.Logger
	sampler *logging.ProgressSampler
}

// NewLogReporter returns a Reporter that writes progress to logger. Block
// completions are sampled to 10% steps; missing lines are warnings.
func NewLogReporter(logger *slog.Logger) Reporter {
	return &logReporter{
		logger:  logging.NewComponentLogger(logger, "translation"),
		sampler: logging.NewProgressSampler(10),
	}
}

func (r *logReporter) Started(blocks, captions int) {
	r.sampler.Reset()
	r.logger.Info("translation started",
		logging.Stage("translate"),
		logging.Int("blocks", blocks),
		logging.Int("captions", captions),
	)
}

func (r *logReporter) BlockCompleted(block, done, total int) {
	percent := 100.0
	if total > 0 {
		percent = float64(done) * 100 / float64(total)
	}
	if !r.sampler.ShouldLog(percent, "translate") {
		r.logger.Debug("block translated", logging.Block(block), logging.Int("done", done), logging.Int("total", total))
		return
	}
	r.logger.Info("translation progress",
		logging.Stage("translate"),
		logging.Block(block),
		logging.Int("done", done),
		logging.Int("total", total),
		logging.Float64("percent", percent),
	)
}

func (r *logReporter) MissingTranslation(captionIndex, block int) {
	logging.WarnWithContext(r.logger, "translation missing, keeping original text", "translation_line_missing",
		logging.Int("caption", captionIndex),
		logging.Block(block),
		logging.String(logging.FieldErrorHint, "backend returned fewer lines than requested; try a smaller chunk size"),
		logging.String(logging.FieldImpact, "caption stays in the source language in every output"),
	)
}

func (r *logReporter) Finished(stats Stats) {
	r.logger.Info("translation finished",
		logging.Stage("translate"),
		logging.Int("captions", stats.Captions),
		logging.Int("blocks", stats.Blocks),
		logging.Int("missing", stats.Missing),
		logging.Duration("elapsed", stats.Elapsed),
	)
}
