package subtitles

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	blankLineSplit = regexp.MustCompile(`\n\s*\n`)
	srtTimingRe    = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2},\d{3})`)
)

type srtCodec struct{}

func (srtCodec) Decode(data []byte) (Track, error) {
	track := Track{Format: FormatSRT}
	for i, block := range splitBlocks(normalizeContent(data)) {
		caption, reason, ok := parseSRTBlock(block)
		if !ok {
			track.Skipped = append(track.Skipped, Skip{Position: i + 1, Reason: reason})
			continue
		}
		track.Captions = append(track.Captions, caption)
	}
	return track, nil
}

func parseSRTBlock(block string) (Caption, string, bool) {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	if len(lines) < 3 {
		return Caption{}, "too few lines", false
	}
	index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Caption{}, fmt.Sprintf("invalid index %q", strings.TrimSpace(lines[0])), false
	}
	match := srtTimingRe.FindStringSubmatch(strings.TrimSpace(lines[1]))
	if match == nil {
		return Caption{}, fmt.Sprintf("invalid timing %q", strings.TrimSpace(lines[1])), false
	}
	return NewCaption(index, match[1], match[2], strings.Join(lines[2:], "\n")), "", true
}

func (srtCodec) Encode(captions []Caption, _ *StyleMetadata) ([]byte, error) {
	var b strings.Builder
	for i, c := range captions {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, c.Start, c.End, c.Text)
	}
	return []byte(b.String()), nil
}

func splitBlocks(content string) []string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil
	}
	return blankLineSplit.Split(trimmed, -1)
}
