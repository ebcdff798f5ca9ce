package testsupport

import (
	"context"
	"sort"
	"strings"
	"sync"

	"subtrans/internal/translation"
)

// RecordingBackend translates by prefixing every payload line and remembers
// each request it receives. It is safe for concurrent use.
type RecordingBackend struct {
	Prefix string
	// Fail, when set, is consulted before translating a block.
	Fail func(req translation.Request) error

	mu       sync.Mutex
	requests []translation.Request
}

// Translate implements translation.Backend.
func (b *RecordingBackend) Translate(ctx context.Context, req translation.Request) (string, error) {
	b.mu.Lock()
	b.requests = append(b.requests, req)
	b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if b.Fail != nil {
		if err := b.Fail(req); err != nil {
			return "", err
		}
	}
	lines := translation.SplitLines(req.Payload)
	for i, line := range lines {
		lines[i] = b.Prefix + line
	}
	return strings.Join(lines, "\n"), nil
}

// Requests returns the received requests ordered by block index.
func (b *RecordingBackend) Requests() []translation.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := append([]translation.Request(nil), b.requests...)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
