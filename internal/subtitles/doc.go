// Package subtitles parses and writes caption files in SRT, ASS/SSA and
// WebVTT form.
//
// Every codec decodes into the same Caption record so the translation
// pipeline stays format-agnostic. Timestamps are kept in the canonical SRT
// form (HH:MM:SS,mmm); ASS centisecond times are scaled on read and truncated
// on write. ASS script info, style definitions and the [Events] Format line
// are captured verbatim in StyleMetadata and reused for every file derived
// from the same source.
//
// Malformed records are dropped rather than reported as errors; Track.Skipped
// lists them for callers that want to log what was ignored. Use ReadFile and
// WriteFile to dispatch on file extension.
package subtitles
