package subtitles

import (
	"fmt"
	"regexp"
	"strings"
)

const vttHeader = "WEBVTT"

var (
	vttTimingRe = regexp.MustCompile(`((?:\d+:)?\d{2}:\d{2}\.\d{3})\s*-->\s*((?:\d+:)?\d{2}:\d{2}\.\d{3})`)
	vttTagRe    = regexp.MustCompile(`<[^>]*>`)
)

var vttIgnoredBlocks = []string{"STYLE", "REGION", "NOTE"}

type vttCodec struct{}

func (vttCodec) Decode(data []byte) (Track, error) {
	content := strings.TrimSpace(normalizeContent(data))
	if !hasVTTHeader(content) {
		return Track{}, fmt.Errorf("%w: missing %s header", ErrInvalidContainer, vttHeader)
	}

	track := Track{Format: FormatVTT}
	for i, block := range splitBlocks(content) {
		lines := strings.Split(block, "\n")
		if i == 0 {
			// Header block: the WEBVTT line may be followed by metadata or,
			// in sloppy files, directly by a cue.
			lines = lines[1:]
			if !strings.Contains(strings.Join(lines, "\n"), "-->") {
				continue
			}
		}
		if len(lines) == 0 || isIgnoredVTTBlock(lines[0]) {
			continue
		}
		caption, ok := parseVTTCue(lines, len(track.Captions)+1)
		if !ok {
			track.Skipped = append(track.Skipped, Skip{Position: i + 1, Reason: "missing cue timing"})
			continue
		}
		track.Captions = append(track.Captions, caption)
	}
	return track, nil
}

// hasVTTHeader reports whether content opens with the WEBVTT token followed by
// end of input, a space, a tab or a newline.
func hasVTTHeader(content string) bool {
	rest, ok := strings.CutPrefix(content, vttHeader)
	if !ok {
		return false
	}
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n'
}

func isIgnoredVTTBlock(first string) bool {
	upper := strings.ToUpper(strings.TrimSpace(first))
	for _, prefix := range vttIgnoredBlocks {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

func parseVTTCue(lines []string, index int) (Caption, bool) {
	for i, line := range lines {
		if !strings.Contains(line, "-->") {
			continue
		}
		match := vttTimingRe.FindStringSubmatch(line)
		if match == nil {
			return Caption{}, false
		}
		text := make([]string, 0, len(lines)-i-1)
		for _, textLine := range lines[i+1:] {
			text = append(text, vttTagRe.ReplaceAllString(textLine, ""))
		}
		return NewCaption(index, canonicalVTTTime(match[1]), canonicalVTTTime(match[2]), strings.Join(text, "\n")), true
	}
	return Caption{}, false
}

// canonicalVTTTime converts (H+:)?MM:SS.mmm to HH:MM:SS,mmm.
func canonicalVTTTime(value string) string {
	parts := strings.Split(value, ":")
	hours := "00"
	if len(parts) == 3 {
		hours = parts[0]
		parts = parts[1:]
		if len(hours) < 2 {
			hours = "0" + hours
		}
	}
	return strings.Replace(hours+":"+parts[0]+":"+parts[1], ".", ",", 1)
}

func (vttCodec) Encode(captions []Caption, _ *StyleMetadata) ([]byte, error) {
	var b strings.Builder
	b.WriteString(vttHeader)
	b.WriteString("\n\n")
	for i, c := range captions {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1,
			strings.ReplaceAll(c.Start, ",", "."),
			strings.ReplaceAll(c.End, ",", "."),
			c.Text,
		)
	}
	return []byte(b.String()), nil
}
