package translation

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"subtrans/internal/services"
	"subtrans/internal/subtitles"
)

// prefixBackend answers every payload line with "<prefix><line>".
func prefixBackend(prefix string) BackendFunc {
	return func(_ context.Context, req Request) (string, error) {
		lines := strings.Split(req.Payload, "\n")
		for i, line := range lines {
			lines[i] = prefix + line
		}
		return strings.Join(lines, "\n"), nil
	}
}

type recordingReporter struct {
	mu        sync.Mutex
	started   [2]int
	completed []int
	missing   [][2]int
	finished  *Stats
}

func (r *recordingReporter) Started(blocks, captions int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = [2]int{blocks, captions}
}

func (r *recordingReporter) BlockCompleted(block, done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, done)
}

func (r *recordingReporter) MissingTranslation(captionIndex, block int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missing = append(r.missing, [2]int{captionIndex, block})
}

func (r *recordingReporter) Finished(stats Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = &stats
}

func TestTranslatePreservesOrderUnderRandomLatency(t *testing.T) {
	captions := makeCaptions(57)
	backend := BackendFunc(func(ctx context.Context, req Request) (string, error) {
		delay := time.Duration(rand.IntN(15)) * time.Millisecond
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		return prefixBackend("T:")(ctx, req)
	})

	for run := 0; run < 5; run++ {
		orch := NewOrchestrator(backend, WithWorkers(4))
		out, stats, err := orch.Translate(context.Background(), captions, Options{ChunkSize: 5})
		if err != nil {
			t.Fatalf("Translate returned error: %v", err)
		}
		if len(out) != len(captions) {
			t.Fatalf("expected %d captions, got %d", len(captions), len(out))
		}
		for i, c := range out {
			orig := captions[i]
			if c.Text != "T:"+orig.Text {
				t.Fatalf("run %d caption %d text = %q, want %q", run, i, c.Text, "T:"+orig.Text)
			}
			if c.Index != orig.Index || c.Start != orig.Start || c.End != orig.End || c.Style != orig.Style {
				t.Fatalf("run %d caption %d metadata changed: %+v vs %+v", run, i, c, orig)
			}
		}
		if stats.Blocks != 12 || stats.Captions != 57 || stats.Missing != 0 {
			t.Fatalf("unexpected stats: %+v", stats)
		}
	}
}

func TestTranslateUnderrunKeepsOriginalText(t *testing.T) {
	captions := makeCaptions(6)
	captions[4].Text = "multi\nline"
	backend := BackendFunc(func(_ context.Context, req Request) (string, error) {
		if req.Index == 1 {
			return "  only one  \n", nil
		}
		return prefixBackend("T:")(context.Background(), req)
	})
	reporter := &recordingReporter{}
	orch := NewOrchestrator(backend, WithReporter(reporter))

	out, stats, err := orch.Translate(context.Background(), captions, Options{ChunkSize: 3})
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	want := []string{"T:line 1", "T:line 2", "T:line 3", "only one", "", "line 6"}
	for i, c := range out {
		if c.Text != want[i] {
			t.Fatalf("caption %d text = %q, want %q", i, c.Text, want[i])
		}
	}
	// The trailing newline yields an empty second segment, so only the
	// third caption of block 1 is missing.
	if len(reporter.missing) != 1 || reporter.missing[0] != [2]int{6, 1} {
		t.Fatalf("unexpected missing reports: %v", reporter.missing)
	}
	if stats.Missing != 1 {
		t.Fatalf("expected 1 missing line, got %+v", stats)
	}
	if reporter.finished == nil || reporter.finished.Missing != 1 {
		t.Fatalf("expected Finished with stats, got %+v", reporter.finished)
	}
	if reporter.started != [2]int{2, 6} {
		t.Fatalf("unexpected Started args: %v", reporter.started)
	}
	if len(reporter.completed) != 2 || reporter.completed[1] != 2 {
		t.Fatalf("unexpected completion counts: %v", reporter.completed)
	}
}

func TestTranslateUnderrunMultilineOriginalKept(t *testing.T) {
	captions := makeCaptions(2)
	captions[1].Text = "keep\nboth lines"
	backend := BackendFunc(func(context.Context, Request) (string, error) { return "uno", nil })

	out, _, err := NewOrchestrator(backend).Translate(context.Background(), captions, Options{ChunkSize: 2})
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if out[0].Text != "uno" || out[1].Text != "keep\nboth lines" {
		t.Fatalf("unexpected texts: %q %q", out[0].Text, out[1].Text)
	}
}

func TestTranslateBackendFailureIsFatal(t *testing.T) {
	errBoom := errors.New("boom")
	var calls atomic.Int32
	backend := BackendFunc(func(ctx context.Context, req Request) (string, error) {
		calls.Add(1)
		if req.Index == 1 {
			return "", errBoom
		}
		return prefixBackend("T:")(ctx, req)
	})

	out, _, err := NewOrchestrator(backend, WithWorkers(1)).Translate(context.Background(), makeCaptions(30), Options{ChunkSize: 10})
	if err == nil {
		t.Fatal("expected error")
	}
	if out != nil {
		t.Fatalf("expected no partial output, got %d captions", len(out))
	}
	var blockErr *BlockError
	if !errors.As(err, &blockErr) {
		t.Fatalf("expected *BlockError, got %T: %v", err, err)
	}
	if blockErr.Block != 1 {
		t.Fatalf("expected failing block 1, got %d", blockErr.Block)
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service classification, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected dispatch to stop after the failure, got %d calls", got)
	}
}

func TestTranslateReportsRootCauseNotCancellation(t *testing.T) {
	errBoom := errors.New("boom")
	backend := BackendFunc(func(ctx context.Context, req Request) (string, error) {
		if req.Index == 0 {
			return "", errBoom
		}
		<-ctx.Done()
		return "", ctx.Err()
	})

	_, _, err := NewOrchestrator(backend, WithWorkers(3)).Translate(context.Background(), makeCaptions(9), Options{ChunkSize: 3})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected root cause, got %v", err)
	}
}

func TestTranslateParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	backend := BackendFunc(func(ctx context.Context, req Request) (string, error) {
		cancel()
		<-ctx.Done()
		return "", ctx.Err()
	})

	_, _, err := NewOrchestrator(backend).Translate(ctx, makeCaptions(5), Options{ChunkSize: 2})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	var blockErr *BlockError
	if errors.As(err, &blockErr) {
		t.Fatalf("caller cancellation should not be reported as a block failure: %v", err)
	}
}

func TestTranslateRespectsWorkerBound(t *testing.T) {
	var inFlight, peak atomic.Int32
	backend := BackendFunc(func(ctx context.Context, req Request) (string, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return prefixBackend("")(ctx, req)
	})

	if _, _, err := NewOrchestrator(backend, WithWorkers(2)).Translate(context.Background(), makeCaptions(40), Options{ChunkSize: 2}); err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got := peak.Load(); got > 2 || got < 1 {
		t.Fatalf("peak concurrency = %d, want 1..2", got)
	}
}

func TestTranslateDefaultsAndEdgeCases(t *testing.T) {
	orch := NewOrchestrator(prefixBackend("x"), WithWorkers(0), WithReporter(nil), WithLogger(nil))
	if orch.workers != DefaultWorkers {
		t.Fatalf("expected default workers, got %d", orch.workers)
	}

	out, stats, err := orch.Translate(context.Background(), nil, Options{ChunkSize: 10})
	if err != nil {
		t.Fatalf("empty input returned error: %v", err)
	}
	if len(out) != 0 || stats.Blocks != 0 {
		t.Fatalf("expected empty output, got %v %+v", out, stats)
	}

	if _, _, err := orch.Translate(context.Background(), makeCaptions(2), Options{}); !errors.Is(err, ErrInvalidChunkSize) {
		t.Fatalf("expected ErrInvalidChunkSize, got %v", err)
	}
}

func TestTranslatePassesBlockContext(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]int{}
	backend := BackendFunc(func(ctx context.Context, req Request) (string, error) {
		block, ok := services.BlockFromContext(ctx)
		if !ok {
			return "", errors.New("missing block in context")
		}
		mu.Lock()
		seen[req.Index] = block
		mu.Unlock()
		return prefixBackend("")(ctx, req)
	})
	if _, _, err := NewOrchestrator(backend).Translate(context.Background(), makeCaptions(7), Options{ChunkSize: 3}); err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	for idx, block := range seen {
		if idx != block {
			t.Fatalf("request %d carried block %d in context", idx, block)
		}
	}
}

func TestReassembleTrimsLines(t *testing.T) {
	blocks, _ := Chunk([]subtitles.Caption{
		subtitles.NewCaption(1, "00:00:01,000", "00:00:02,000", "a"),
		subtitles.NewCaption(2, "00:00:03,000", "00:00:04,000", "b"),
	}, 2)
	out, missing := Reassemble(blocks, []Result{{Block: 0, Lines: []string{"  A ", "\tB"}}})
	if len(missing) != 0 || out[0].Text != "A" || out[1].Text != "B" {
		t.Fatalf("unexpected reassembly: %+v %v", out, missing)
	}
}
