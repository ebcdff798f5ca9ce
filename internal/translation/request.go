package translation

import (
	"context"
	"strings"

	"subtrans/internal/subtitles"
)

const (
	// PreviousContextSize is how many trailing captions of the preceding block
	// accompany a request.
	PreviousContextSize = 3
	// AfterContextSize is how many leading captions of the following block
	// accompany a request.
	AfterContextSize = 2
)

// Request is a single block submission to a Backend.
//
// Payload holds one caption per line with internal newlines flattened to
// spaces. Previous and After carry neighbouring caption texts verbatim and are
// nil at the edges of the track.
type Request struct {
	Index          int
	Payload        string
	Lines          int
	Previous       []string
	After          []string
	Theme          string
	SourceLanguage string
	TargetLanguage string
}

// Backend translates one block. The returned text should hold one line per
// payload line; fewer lines are tolerated and the missing captions keep their
// original text.
type Backend interface {
	Translate(ctx context.Context, req Request) (string, error)
}

// BackendFunc adapts a plain function to the Backend interface.
type BackendFunc func(ctx context.Context, req Request) (string, error)

// Translate calls f.
func (f BackendFunc) Translate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// BuildRequests derives the backend request for every block, including the
// neighbouring context windows.
func BuildRequests(blocks []Block, opts Options) []Request {
	requests := make([]Request, len(blocks))
	for i, block := range blocks {
		req := Request{
			Index:          block.Index,
			Payload:        Payload(block.Captions),
			Lines:          len(block.Captions),
			Theme:          opts.Theme,
			SourceLanguage: opts.SourceLanguage,
			TargetLanguage: opts.TargetLanguage,
		}
		if i > 0 {
			prev := blocks[i-1].Captions
			req.Previous = subtitles.Texts(prev[max(0, len(prev)-PreviousContextSize):])
		}
		if i < len(blocks)-1 {
			next := blocks[i+1].Captions
			req.After = subtitles.Texts(next[:min(AfterContextSize, len(next))])
		}
		requests[i] = req
	}
	return requests
}

// Payload joins caption texts one per line, flattening internal newlines.
func Payload(captions []subtitles.Caption) string {
	lines := make([]string, len(captions))
	for i, c := range captions {
		lines[i] = flatten(c.Text)
	}
	return strings.Join(lines, "\n")
}

func flatten(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\n", " ")
}

// SplitLines splits a backend response into per-caption segments.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
