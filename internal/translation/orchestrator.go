package translation

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"subtrans/internal/logging"
	"subtrans/internal/services"
	"subtrans/internal/subtitles"
)

// DefaultWorkers is the number of concurrent backend requests when unset.
const DefaultWorkers = 3

// Options configures one translation run.
type Options struct {
	ChunkSize      int
	SourceLanguage string
	TargetLanguage string
	Theme          string
}

// Result holds the backend response for one block, split into lines.
type Result struct {
	Block int
	Lines []string
}

// Stats summarizes a translation run.
type Stats struct {
	Captions int
	Blocks   int
	Missing  int
	Elapsed  time.Duration
}

// BlockError reports the block whose backend call aborted the run.
type BlockError struct {
	Block int
	Err   error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("translate block %d: %v", e.Block, e.Err)
}

func (e *BlockError) Unwrap() error { return e.Err }

// Is classifies block failures as external service errors.
func (e *BlockError) Is(target error) bool {
	return target == services.ErrExternalService
}

// Orchestrator fans blocks out to a Backend under a bounded worker pool and
// reassembles the responses in document order.
type Orchestrator struct {
	backend  Backend
	workers  int
	reporter Reporter
	logger   *slog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers bounds the number of concurrent backend calls. Values below one
// select DefaultWorkers.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithReporter installs a progress observer.
func WithReporter(r Reporter) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator constructs an orchestrator around backend.
func NewOrchestrator(backend Backend, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backend:  backend,
		workers:  DefaultWorkers,
		reporter: NopReporter{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.NewComponentLogger(o.logger, "translation")
	return o
}

type completion struct {
	block int
	lines []string
	err   error
}

// Translate chunks captions, submits every block to the backend and returns
// the translated captions in original order. Timing, index and styling fields
// are copied from the originals. Any backend failure aborts the run with a
// *BlockError for the first failure received; no partial result is returned.
func (o *Orchestrator) Translate(ctx context.Context, captions []subtitles.Caption, opts Options) ([]subtitles.Caption, Stats, error) {
	started := time.Now()
	blocks, err := Chunk(captions, opts.ChunkSize)
	if err != nil {
		return nil, Stats{}, err
	}
	stats := Stats{Captions: len(captions), Blocks: len(blocks)}
	o.reporter.Started(len(blocks), len(captions))

	results, err := o.dispatch(ctx, BuildRequests(blocks, opts))
	if err != nil {
		return nil, Stats{}, err
	}

	slices.SortFunc(results, func(a, b Result) int { return cmp.Compare(a.Block, b.Block) })
	translated, missing := Reassemble(blocks, results)
	for _, m := range missing {
		o.reporter.MissingTranslation(m.Caption, m.Block)
	}

	stats.Missing = len(missing)
	stats.Elapsed = time.Since(started)
	o.reporter.Finished(stats)
	return translated, stats, nil
}

// dispatch runs requests through a fixed pool of workers and collects one
// Result per request, in completion order.
func (o *Orchestrator) dispatch(parent context.Context, requests []Request) ([]Result, error) {
	if len(requests) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	tasks := make(chan Request, len(requests))
	for _, req := range requests {
		tasks <- req
	}
	close(tasks)

	completions := make(chan completion, len(requests))
	var wg sync.WaitGroup
	for range min(o.workers, len(requests)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range tasks {
				c := o.run(ctx, req)
				completions <- c
				if c.err != nil {
					cancel()
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(completions)
	}()

	results := make([]Result, 0, len(requests))
	var failure *BlockError
	for c := range completions {
		if c.err != nil {
			if failure == nil {
				failure = &BlockError{Block: c.block, Err: c.err}
			}
			continue
		}
		results = append(results, Result{Block: c.block, Lines: c.lines})
		o.reporter.BlockCompleted(c.block, len(results), len(requests))
	}

	if len(results) == len(requests) {
		return results, nil
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return nil, failure
}

func (o *Orchestrator) run(ctx context.Context, req Request) completion {
	if err := ctx.Err(); err != nil {
		return completion{block: req.Index, err: err}
	}
	ctx = services.WithBlock(ctx, req.Index)
	logger := logging.WithContext(ctx, o.logger)
	logger.Debug("dispatching block",
		logging.Int("captions", req.Lines),
		logging.Int("previous_context", len(req.Previous)),
		logging.Int("after_context", len(req.After)),
		logging.String("payload", req.Payload),
	)
	text, err := o.backend.Translate(ctx, req)
	if err != nil {
		logger.Debug("block failed", logging.Error(err))
		return completion{block: req.Index, err: err}
	}
	return completion{block: req.Index, lines: SplitLines(text)}
}

// Missing identifies a caption whose translation line was absent.
type Missing struct {
	Caption int // Caption.Index of the original
	Block   int
}

// Reassemble maps each block's response lines positionally onto its captions.
// results must be sorted by block and cover every block. Captions without a
// corresponding line keep their original text and are reported in missing.
func Reassemble(blocks []Block, results []Result) ([]subtitles.Caption, []Missing) {
	total := 0
	for _, b := range blocks {
		total += len(b.Captions)
	}
	out := make([]subtitles.Caption, 0, total)
	var missing []Missing
	for _, res := range results {
		block := blocks[res.Block]
		for j, original := range block.Captions {
			if j < len(res.Lines) {
				out = append(out, original.WithText(strings.TrimSpace(res.Lines[j])))
				continue
			}
			out = append(out, original)
			missing = append(missing, Missing{Caption: original.Index, Block: block.Index})
		}
	}
	return out, missing
}
