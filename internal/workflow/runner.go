package workflow

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"subtrans/internal/compose"
	"subtrans/internal/config"
	"subtrans/internal/language"
	"subtrans/internal/logging"
	"subtrans/internal/services"
	"subtrans/internal/subtitles"
	"subtrans/internal/translation"
)

const (
	stageParse     = "parse"
	stageTranslate = "translate"
	stageCompose   = "compose"
)

// Job describes one file to translate.
type Job struct {
	Input string
	// Output is the translation path. Empty means DefaultOutputPath(Input, OutputDir).
	Output         string
	OutputDir      string
	SourceLanguage string
	TargetLanguage string
	Theme          string
	ChunkSize      int
	Bilingual      bool
	StripAds       bool
}

// JobFromConfig seeds a job for input from the [translation] and [paths]
// sections. Callers override individual fields from flags.
func JobFromConfig(cfg *config.Config, input string) Job {
	return Job{
		Input:          input,
		OutputDir:      cfg.Paths.OutputDir,
		SourceLanguage: cfg.Translation.SourceLanguage,
		TargetLanguage: cfg.Translation.TargetLanguage,
		Theme:          cfg.Translation.Theme,
		ChunkSize:      cfg.Translation.ChunkSize,
		Bilingual:      cfg.Translation.Bilingual,
		StripAds:       cfg.Translation.StripAds,
	}
}

// Summary reports the outcome of a successful run. The language fields hold
// the normalized codes sent to the backend.
type Summary struct {
	RunID          string
	SourceLanguage string
	TargetLanguage string
	Format         subtitles.Format
	Captions       int
	Blocks         int
	Missing        int
	Skipped        int
	Removed        int
	Artifacts      []compose.Artifact
	Elapsed        time.Duration
}

// Runner wires parsing, translation and output composition for single files.
type Runner struct {
	backend  translation.Backend
	workers  int
	reporter translation.Reporter
	base     *slog.Logger
	logger   *slog.Logger
	writer   *compose.Writer
}

// Option customizes the runner.
type Option func(*Runner)

// WithWorkers sets the orchestrator pool size.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithReporter replaces the default log-backed progress reporter.
func WithReporter(reporter translation.Reporter) Option {
	return func(r *Runner) {
		r.reporter = reporter
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner constructs a runner around backend.
func NewRunner(backend translation.Backend, opts ...Option) *Runner {
	r := &Runner{
		backend: backend,
		workers: translation.DefaultWorkers,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.base = r.logger
	r.logger = logging.NewComponentLogger(r.base, "workflow")
	r.writer = compose.NewWriter(r.base)
	return r
}

// Run translates job.Input and writes the artifact set. Nothing is written
// unless every block translated successfully. A file without captions yields
// empty artifacts.
func (r *Runner) Run(ctx context.Context, job Job) (Summary, error) {
	started := time.Now()
	summary := Summary{RunID: uuid.NewString()}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)

	job, err := r.prepare(job)
	if err != nil {
		return summary, err
	}
	summary.SourceLanguage = job.SourceLanguage
	summary.TargetLanguage = job.TargetLanguage
	logger.Info("translation run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("input", job.Input),
		logging.String("output", job.Output),
		logging.String("source_language", job.SourceLanguage),
		logging.String("target_language", job.TargetLanguage),
		logging.Int("chunk_size", job.ChunkSize),
		logging.Int("workers", r.workers),
		logging.Bool("bilingual", job.Bilingual),
		logging.Bool("strip_ads", job.StripAds),
	)

	track, err := r.parse(services.WithStage(ctx, stageParse), job, logger)
	if err != nil {
		return summary, err
	}
	summary.Format = track.Format
	summary.Skipped = len(track.Skipped)

	captions := track.Captions
	if job.StripAds {
		var stats subtitles.CleanStats
		captions, stats = subtitles.RemoveAdvertisements(captions)
		summary.Removed = stats.RemovedCues
		if stats.RemovedCues > 0 {
			logger.Info("advertisement captions removed", logging.Int("removed", stats.RemovedCues))
		}
	}
	summary.Captions = len(captions)

	reporter := r.reporter
	if reporter == nil {
		reporter = translation.NewLogReporter(logging.WithContext(ctx, r.base))
	}
	orchestrator := translation.NewOrchestrator(r.backend,
		translation.WithWorkers(r.workers),
		translation.WithReporter(reporter),
		translation.WithLogger(r.base),
	)
	translated, stats, err := orchestrator.Translate(services.WithStage(ctx, stageTranslate), captions, translation.Options{
		ChunkSize:      job.ChunkSize,
		SourceLanguage: job.SourceLanguage,
		TargetLanguage: job.TargetLanguage,
		Theme:          job.Theme,
	})
	if err != nil {
		r.logFailure(logger, stageTranslate, err)
		return summary, err
	}
	summary.Blocks = stats.Blocks
	summary.Missing = stats.Missing

	composeCtx := services.WithStage(ctx, stageCompose)
	variants, err := compose.Compose(captions, translated)
	if err != nil {
		return summary, services.Wrap(services.ErrTransient, stageCompose, "compose", "", err)
	}
	artifacts, err := r.writer.Write(composeCtx, variants, compose.ArtifactPaths(job.Output), track.Styles, job.Bilingual)
	summary.Artifacts = artifacts
	if err != nil {
		r.logFailure(logger, stageCompose, err)
		return summary, services.Wrap(services.ErrTransient, stageCompose, "write artifacts", "", err)
	}

	summary.Elapsed = time.Since(started)
	logger.Info("translation run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("captions", summary.Captions),
		logging.Int("blocks", summary.Blocks),
		logging.Int("missing", summary.Missing),
		logging.Int("artifacts", len(artifacts)),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

func (r *Runner) prepare(job Job) (Job, error) {
	job.Input = strings.TrimSpace(job.Input)
	if job.Input == "" {
		return job, services.Wrap(services.ErrValidation, stageParse, "input", "input path is required", nil)
	}
	if r.backend == nil {
		return job, services.Wrap(services.ErrConfiguration, stageTranslate, "backend", "translation backend not configured", nil)
	}

	target, err := language.Normalize(job.TargetLanguage)
	if err != nil {
		return job, services.Wrap(services.ErrValidation, stageTranslate, "target language", "", err)
	}
	if target == language.Auto {
		return job, services.Wrap(services.ErrValidation, stageTranslate, "target language", "target language cannot be auto", nil)
	}
	job.TargetLanguage = target

	source := language.Auto
	if strings.TrimSpace(job.SourceLanguage) != "" {
		if source, err = language.Normalize(job.SourceLanguage); err != nil {
			return job, services.Wrap(services.ErrValidation, stageTranslate, "source language", "", err)
		}
	}
	job.SourceLanguage = source

	switch {
	case job.ChunkSize == 0:
		job.ChunkSize = config.Default().Translation.ChunkSize
	case job.ChunkSize < 0:
		return job, services.Wrap(services.ErrValidation, stageTranslate, "chunk size", "", translation.ErrInvalidChunkSize)
	}

	job.Output = strings.TrimSpace(job.Output)
	if job.Output == "" {
		job.Output = compose.DefaultOutputPath(job.Input, job.OutputDir)
	}
	if samePath(job.Input, job.Output) {
		return job, services.Wrap(services.ErrValidation, stageCompose, "output", "output path would overwrite the input", nil)
	}
	return job, nil
}

func (r *Runner) parse(ctx context.Context, job Job, logger *slog.Logger) (subtitles.Track, error) {
	track, err := subtitles.ReadFile(job.Input)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return track, services.Wrap(services.ErrNotFound, stageParse, "read", job.Input, err)
	case err != nil:
		return track, services.Wrap(services.ErrValidation, stageParse, "read", job.Input, err)
	}
	for _, skip := range track.Skipped {
		logging.WithContext(ctx, logger).Debug("subtitle record skipped",
			logging.Int("position", skip.Position),
			logging.String("reason", skip.Reason),
		)
	}
	if len(track.Captions) == 0 {
		logging.WarnWithContext(logger, "subtitle file has no captions", "subtitle_empty",
			logging.String("input", job.Input),
			logging.Int("skipped", len(track.Skipped)),
			logging.String(logging.FieldErrorHint, "check that the file holds timed cues"),
			logging.String(logging.FieldImpact, "empty artifacts are written"),
		)
	}
	logger.Info("subtitle parsed",
		logging.String("format", string(track.Format)),
		logging.Int("captions", len(track.Captions)),
		logging.Int("skipped", len(track.Skipped)),
	)
	return track, nil
}

func (r *Runner) logFailure(logger *slog.Logger, stage string, err error) {
	if errors.Is(err, context.Canceled) {
		logger.Info("translation run canceled", logging.Stage(stage))
		return
	}
	hint := "check logs for details"
	switch services.FailureKind(err) {
	case "backend":
		hint = "check the LLM api key, model and network; rerun to resume from the cache"
	case "configuration":
		hint = "run subtrans config validate"
	}
	logging.ErrorWithContext(logger, "translation run failed", "run_failure",
		logging.Stage(stage),
		logging.String("error_kind", services.FailureKind(err)),
		logging.String(logging.FieldErrorHint, hint),
		logging.Error(err),
	)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
