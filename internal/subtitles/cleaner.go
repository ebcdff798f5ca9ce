package subtitles

import (
	"regexp"
	"strings"
)

var adPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)opensubtitles`),
	regexp.MustCompile(`(?i)subtitles? by`),
	regexp.MustCompile(`(?i)synced? and corrected`),
	regexp.MustCompile(`(?i)advertise (your|yours?) product`),
	regexp.MustCompile(`(?i)http(s)?://`),
	regexp.MustCompile(`(?i)\bwww\.`),
	regexp.MustCompile(`(?i)\bsubscene\b`),
	regexp.MustCompile(`(?i)\byts\b`),
	regexp.MustCompile(`(?i)\byify\b`),
}

// CleanStats reports the effects of subtitle cleanup operations.
type CleanStats struct {
	RemovedCues int
}

// RemoveAdvertisements drops release-group and site advertisement captions so
// they are neither translated nor carried into the output variants. Caption
// indices are left untouched so warnings still point at the source file.
func RemoveAdvertisements(captions []Caption) ([]Caption, CleanStats) {
	cleaned := make([]Caption, 0, len(captions))
	var stats CleanStats
	for _, c := range captions {
		if isAdvertisement(c.Text) {
			stats.RemovedCues++
			continue
		}
		cleaned = append(cleaned, c)
	}
	return cleaned, stats
}

func isAdvertisement(text string) bool {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	payload := strings.ToLower(strings.Join(kept, " "))
	if payload == "" {
		return false
	}
	for _, pattern := range adPatterns {
		if pattern.MatchString(payload) {
			return true
		}
	}
	return false
}
