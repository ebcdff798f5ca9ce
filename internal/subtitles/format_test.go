package subtitles

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"movie.srt":       FormatSRT,
		"MOVIE.SRT":       FormatSRT,
		"show.ass":        FormatASS,
		"show.SSA":        FormatASS,
		"clip.vtt":        FormatVTT,
		"notes.txt":       FormatUnknown,
		"no-extension":    FormatUnknown,
		"dir.srt/file.sb": FormatUnknown,
	}
	for path, want := range tests {
		if got := DetectFormat(path); got != want {
			t.Fatalf("DetectFormat(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestReadFileUnsupportedFormatNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captions.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	_, err := ReadFile(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) || unsupported.Path != path {
		t.Fatalf("expected error naming %s, got %v", path, err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected message to contain path, got %q", err.Error())
	}
}

func TestReadFileInvalidVTTContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.vtt")
	if err := os.WriteFile(path, []byte("00:00:01.000 --> 00:00:02.000\nHi\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := ReadFile(path); !errors.Is(err, ErrInvalidContainer) {
		t.Fatalf("expected ErrInvalidContainer, got %v", err)
	}
}

func TestWriteFileUnknownExtensionFallsBackToSRT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.subtitle")
	captions := []Caption{NewCaption(1, "00:00:01,000", "00:00:02,000", "Hello")}
	if err := WriteFile(path, captions, nil); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "1\n00:00:01,000 --> 00:00:02,000\nHello\n\n" {
		t.Fatalf("expected srt output, got %q", data)
	}
}

func TestWriteThenReadEachFormat(t *testing.T) {
	dir := t.TempDir()
	captions := []Caption{
		NewCaption(1, "00:00:01,000", "00:00:02,000", "First"),
		NewCaption(2, "00:00:03,500", "00:00:04,250", "Second\nline"),
	}
	for _, name := range []string{"a.srt", "a.ass", "a.ssa", "a.vtt"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, captions, nil); err != nil {
			t.Fatalf("%s: WriteFile returned error: %v", name, err)
		}
		track, err := ReadFile(path)
		if err != nil {
			t.Fatalf("%s: ReadFile returned error: %v", name, err)
		}
		if track.Format != DetectFormat(name) {
			t.Fatalf("%s: unexpected format %q", name, track.Format)
		}
		if len(track.Captions) != len(captions) {
			t.Fatalf("%s: expected %d captions, got %d", name, len(captions), len(track.Captions))
		}
		for i, c := range track.Captions {
			if c.Start != captions[i].Start || c.End != captions[i].End || c.Text != captions[i].Text {
				t.Fatalf("%s: caption %d changed: %+v", name, i, c)
			}
		}
	}
}
