package subtitles

// DefaultStyle is the ASS style name assigned to captions that carry none.
const DefaultStyle = "Default"

// Caption is a single timed subtitle entry.
//
// Start and End hold the canonical HH:MM:SS,mmm form regardless of the source
// format. The styling fields are only populated meaningfully by the ASS codec;
// other codecs leave the defaults produced by NewCaption.
type Caption struct {
	Index   int
	Start   string
	End     string
	Text    string
	Style   string
	Name    string
	MarginL int
	MarginR int
	MarginV int
	Effect  string
}

// NewCaption builds a caption with default styling.
func NewCaption(index int, start, end, text string) Caption {
	return Caption{
		Index: index,
		Start: start,
		End:   end,
		Text:  text,
		Style: DefaultStyle,
	}
}

// WithText returns a copy of the caption carrying different text.
func (c Caption) WithText(text string) Caption {
	c.Text = text
	return c
}

// StyleMetadata holds the raw ASS sections that must survive a parse/write
// round trip: script info, style definitions, and the [Events] Format line.
type StyleMetadata struct {
	ScriptInfo   []string
	Styles       []string
	EventsFormat string
}

const defaultEventsFormat = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"

// DefaultStyleMetadata returns the template used when writing ASS output
// without metadata captured from a source file.
func DefaultStyleMetadata() *StyleMetadata {
	return &StyleMetadata{
		ScriptInfo: []string{
			"[Script Info]",
			"ScriptType: v4.00+",
			"PlayResX: 1920",
			"PlayResY: 1080",
			"WrapStyle: 0",
		},
		Styles: []string{
			"[V4+ Styles]",
			"Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding",
			"Style: Default,Arial,48,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1",
		},
		EventsFormat: defaultEventsFormat,
	}
}

// Skip records a source record dropped during parsing.
type Skip struct {
	// Position is the 1-based block (SRT/VTT) or line (ASS) number.
	Position int
	Reason   string
}

// Track is the result of decoding one subtitle file.
type Track struct {
	Format   Format
	Captions []Caption
	// Styles is nil for formats without style sections.
	Styles  *StyleMetadata
	Skipped []Skip
}

// Texts returns the caption texts in order.
func Texts(captions []Caption) []string {
	out := make([]string, len(captions))
	for i, c := range captions {
		out[i] = c.Text
	}
	return out
}
