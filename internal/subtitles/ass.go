package subtitles

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type assSection int

const (
	sectionOther assSection = iota
	sectionScriptInfo
	sectionStyles
	sectionEvents
)

const (
	assFormatPrefix   = "Format:"
	assDialoguePrefix = "Dialogue:"
)

var assOverrideTagRe = regexp.MustCompile(`\{[^}]*\}`)

func sectionFromHeader(name string) assSection {
	switch strings.ToLower(name) {
	case "script info":
		return sectionScriptInfo
	case "v4 styles", "v4+ styles":
		return sectionStyles
	case "events":
		return sectionEvents
	default:
		return sectionOther
	}
}

type assCodec struct{}

// assParser walks an ASS/SSA script line by line. The section state only
// changes on bracketed headers.
type assParser struct {
	section assSection
	fields  []string
	track   Track
}

func (assCodec) Decode(data []byte) (Track, error) {
	p := &assParser{
		track: Track{Format: FormatASS, Styles: &StyleMetadata{}},
	}
	for i, raw := range strings.Split(normalizeContent(data), "\n") {
		p.consume(i+1, strings.TrimSpace(raw))
	}
	return p.track, nil
}

func (p *assParser) consume(lineNo int, line string) {
	meta := p.track.Styles
	if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
		p.section = sectionFromHeader(line[1 : len(line)-1])
		switch p.section {
		case sectionScriptInfo:
			meta.ScriptInfo = append(meta.ScriptInfo, line)
		case sectionStyles:
			meta.Styles = append(meta.Styles, line)
		}
		return
	}

	switch p.section {
	case sectionScriptInfo:
		meta.ScriptInfo = append(meta.ScriptInfo, line)
	case sectionStyles:
		meta.Styles = append(meta.Styles, line)
	case sectionEvents:
		switch {
		case strings.HasPrefix(line, assFormatPrefix):
			meta.EventsFormat = line
			p.fields = parseFormatFields(line[len(assFormatPrefix):])
		case strings.HasPrefix(line, assDialoguePrefix):
			caption, reason, ok := p.parseDialogue(line[len(assDialoguePrefix):])
			if !ok {
				p.track.Skipped = append(p.track.Skipped, Skip{Position: lineNo, Reason: reason})
				return
			}
			p.track.Captions = append(p.track.Captions, caption)
		}
	}
}

func parseFormatFields(value string) []string {
	parts := strings.Split(value, ",")
	fields := make([]string, len(parts))
	for i, part := range parts {
		fields[i] = strings.ToLower(strings.TrimSpace(part))
	}
	return fields
}

func (p *assParser) parseDialogue(body string) (Caption, string, bool) {
	if len(p.fields) == 0 {
		return Caption{}, "dialogue before format line", false
	}
	parts := strings.SplitN(body, ",", len(p.fields))
	if len(parts) < len(p.fields) {
		return Caption{}, fmt.Sprintf("expected %d fields, got %d", len(p.fields), len(parts)), false
	}
	values := make(map[string]string, len(p.fields))
	for i, field := range p.fields {
		values[field] = parts[i]
	}

	text := values["text"]
	text = strings.ReplaceAll(text, `\N`, "\n")
	text = strings.ReplaceAll(text, `\n`, "\n")
	text = assOverrideTagRe.ReplaceAllString(text, "")

	caption := NewCaption(
		len(p.track.Captions)+1,
		ASSToSRTTime(strings.TrimSpace(valueOr(values, "start", zeroASSTime))),
		ASSToSRTTime(strings.TrimSpace(valueOr(values, "end", zeroASSTime))),
		text,
	)
	caption.Style = strings.TrimSpace(valueOr(values, "style", DefaultStyle))
	caption.Name = strings.TrimSpace(values["name"])
	caption.MarginL = atoiOrZero(values["marginl"])
	caption.MarginR = atoiOrZero(values["marginr"])
	caption.MarginV = atoiOrZero(values["marginv"])
	caption.Effect = strings.TrimSpace(values["effect"])
	return caption, "", true
}

func valueOr(values map[string]string, key, fallback string) string {
	if v, ok := values[key]; ok {
		return v
	}
	return fallback
}

func atoiOrZero(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

func (assCodec) Encode(captions []Caption, styles *StyleMetadata) ([]byte, error) {
	if styles == nil {
		styles = DefaultStyleMetadata()
	}
	format := styles.EventsFormat
	if strings.TrimSpace(format) == "" {
		format = defaultEventsFormat
	}

	var b strings.Builder
	for _, line := range styles.ScriptInfo {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	for _, line := range styles.Styles {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString("[Events]\n")
	b.WriteString(format)
	b.WriteByte('\n')

	for _, c := range captions {
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,%s,%s,%d,%d,%d,%s,%s\n",
			SRTToASSTime(c.Start),
			SRTToASSTime(c.End),
			c.Style,
			c.Name,
			c.MarginL,
			c.MarginR,
			c.MarginV,
			c.Effect,
			strings.ReplaceAll(c.Text, "\n", `\N`),
		)
	}
	return []byte(b.String()), nil
}
