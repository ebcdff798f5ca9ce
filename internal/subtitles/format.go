package subtitles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a subtitle container.
type Format string

const (
	FormatSRT     Format = "srt"
	FormatASS     Format = "ass"
	FormatVTT     Format = "vtt"
	FormatUnknown Format = "unknown"
)

var (
	// ErrUnsupportedFormat is matched by UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported subtitle format")
	// ErrInvalidContainer reports a file whose container header is missing.
	ErrInvalidContainer = errors.New("invalid subtitle container")
)

// UnsupportedFormatError names the path whose extension could not be mapped
// to a codec on the read path.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported subtitle format: %s (supported: .srt, .ass, .ssa, .vtt)", e.Path)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// Codec converts between raw file content and captions.
type Codec interface {
	Decode(data []byte) (Track, error)
	Encode(captions []Caption, styles *StyleMetadata) ([]byte, error)
}

// DetectFormat maps a path's extension to a format.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT
	case ".ass", ".ssa":
		return FormatASS
	case ".vtt":
		return FormatVTT
	default:
		return FormatUnknown
	}
}

// CodecFor returns the codec for a known format. Unknown formats resolve to
// SRT so every caption sequence can be written somewhere.
func CodecFor(format Format) Codec {
	switch format {
	case FormatASS:
		return assCodec{}
	case FormatVTT:
		return vttCodec{}
	default:
		return srtCodec{}
	}
}

// Decode parses data as the given format.
func Decode(format Format, data []byte) (Track, error) {
	if format == FormatUnknown || format == "" {
		return Track{}, ErrUnsupportedFormat
	}
	track, err := CodecFor(format).Decode(data)
	if err != nil {
		return Track{}, err
	}
	track.Format = format
	return track, nil
}

// Encode renders captions as the given format, falling back to SRT.
func Encode(format Format, captions []Caption, styles *StyleMetadata) ([]byte, error) {
	return CodecFor(format).Encode(captions, styles)
}

// ReadFile detects the format of path from its extension and parses it.
func ReadFile(path string) (Track, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return Track{}, &UnsupportedFormatError{Path: path}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Track{}, fmt.Errorf("read subtitle: %w", err)
	}
	track, err := Decode(format, data)
	if err != nil {
		return Track{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return track, nil
}

// WriteFile renders captions using the codec implied by path and writes the
// result. Unrecognized extensions are written as SRT.
func WriteFile(path string, captions []Caption, styles *StyleMetadata) error {
	data, err := Encode(DetectFormat(path), captions, styles)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write subtitle: %w", err)
	}
	return nil
}

func normalizeContent(data []byte) string {
	content := strings.TrimPrefix(string(data), "\ufeff")
	return strings.ReplaceAll(content, "\r\n", "\n")
}
