package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subtrans/internal/subtitles"
)

// Captions builds n sequential captions with text "Line <i>" and one second
// of spacing between them.
func Captions(n int) []subtitles.Caption {
	captions := make([]subtitles.Caption, n)
	for i := range captions {
		start := int64(i) * 2000
		captions[i] = subtitles.NewCaption(
			i+1,
			subtitles.FormatMilliseconds(start),
			subtitles.FormatMilliseconds(start+1500),
			fmt.Sprintf("Line %d", i+1),
		)
	}
	return captions
}

// WriteSubtitle encodes captions using the format implied by path.
func WriteSubtitle(t testing.TB, path string, captions []subtitles.Caption) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := subtitles.WriteFile(path, captions, nil); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteSRT writes an SRT file with n generated captions into dir.
func WriteSRT(t testing.TB, dir, name string, n int) string {
	t.Helper()
	return WriteSubtitle(t, filepath.Join(dir, name), Captions(n))
}

// WriteRaw writes literal content, joining lines with "\n".
func WriteRaw(t testing.TB, path string, lines ...string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
