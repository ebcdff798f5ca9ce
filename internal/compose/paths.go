package compose

import (
	"path/filepath"
	"strings"
)

// Suffixes appended to the output base name.
const (
	SuffixTranslated       = "_translated"
	SuffixSource           = "_src"
	SuffixBilingual        = "_bilingual"
	SuffixBilingualReverse = "_bilingual_reverse"
)

// Paths lists the sibling artifact locations for one run.
type Paths struct {
	Translation      string
	Source           string
	Bilingual        string
	BilingualReverse string
}

// ArtifactPaths derives the artifact set from the translation output path.
// The translation is written to outputPath itself. Siblings share its base
// name with a trailing "_translated" removed, so "movie_translated.srt" pairs
// with "movie_src.srt", "movie_bilingual.srt" and "movie_bilingual_reverse.srt".
func ArtifactPaths(outputPath string) Paths {
	dir := filepath.Dir(outputPath)
	ext := filepath.Ext(outputPath)
	base := strings.TrimSuffix(filepath.Base(outputPath), ext)
	base = strings.TrimSuffix(base, SuffixTranslated)
	join := func(suffix string) string {
		return filepath.Join(dir, base+suffix+ext)
	}
	return Paths{
		Translation:      outputPath,
		Source:           join(SuffixSource),
		Bilingual:        join(SuffixBilingual),
		BilingualReverse: join(SuffixBilingualReverse),
	}
}

// DefaultOutputPath returns "<input base>_translated<ext>", placed in
// outputDir when it is set and next to the input otherwise.
func DefaultOutputPath(inputPath, outputDir string) string {
	dir := filepath.Dir(inputPath)
	if strings.TrimSpace(outputDir) != "" {
		dir = outputDir
	}
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)
	return filepath.Join(dir, base+SuffixTranslated+ext)
}
