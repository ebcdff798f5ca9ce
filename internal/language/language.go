package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto is the source language value that lets the backend detect the language.
const Auto = "auto"

type entry struct {
	code    string   // BCP 47 tag as offered to users
	code3   string   // ISO 639-2 primary (3-letter)
	display string   // English name used in prompts
	native  string   // Name in the language itself
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "English", "English", []string{"english"}},
	{"zh", "zho", "Simplified Chinese", "简体中文", []string{"chinese", "simplified chinese"}},
	{"zh-TW", "zho", "Traditional Chinese", "繁體中文", []string{"traditional chinese"}},
	{"es", "spa", "Spanish", "Español", []string{"spanish"}},
	{"ru", "rus", "Russian", "Русский", []string{"russian"}},
	{"fr", "fra", "French", "Français", []string{"french"}},
	{"de", "deu", "German", "Deutsch", []string{"german"}},
	{"it", "ita", "Italian", "Italiano", []string{"italian"}},
	{"ja", "jpn", "Japanese", "日本語", []string{"japanese"}},
	{"ko", "kor", "Korean", "한국어", []string{"korean"}},
	{"pt", "por", "Portuguese", "Português", []string{"portuguese"}},
	{"nl", "nld", "Dutch", "Nederlands", []string{"dutch"}},
	{"pl", "pol", "Polish", "Polski", []string{"polish"}},
	{"tr", "tur", "Turkish", "Türkçe", []string{"turkish"}},
	{"vi", "vie", "Vietnamese", "Tiếng Việt", []string{"vietnamese"}},
	{"th", "tha", "Thai", "ไทย", []string{"thai"}},
	{"id", "ind", "Indonesian", "Bahasa Indonesia", []string{"indonesian"}},
	{"ar", "ara", "Arabic", "العربية", []string{"arabic"}},
}

// aliases maps tags that name the same written language as a listed entry.
var aliases = map[string]string{
	"zh-cn":   "zh",
	"zh-hans": "zh",
	"zh-sg":   "zh",
	"zh-hant": "zh-TW",
	"zh-hk":   "zh-TW",
	"zh-mo":   "zh-TW",
	"中文":      "zh",
	"汉语":      "zh",
	"简体":      "zh",
	"繁体中文":    "zh-TW",
	"正體中文":    "zh-TW",
	"繁體":      "zh-TW",
}

var (
	byCode map[string]*entry
	byWord map[string]*entry
)

func init() {
	byCode = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode[strings.ToLower(e.code)] = e
		if _, ok := byCode[e.code3]; !ok {
			byCode[e.code3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
		byWord[strings.ToLower(e.native)] = e
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	code = strings.ReplaceAll(code, "_", "-")
	if code == "" {
		return nil
	}
	if alias, ok := aliases[code]; ok {
		code = strings.ToLower(alias)
	}
	if e, ok := byCode[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// Normalize canonicalizes a language code, English word form or native name.
// Listed languages map to their offered tag ("chinese" → "zh", "简体中文" → "zh",
// "zh_Hant" → "zh-TW");
// other valid BCP 47 tags are returned in canonical form. "auto" passes through.
func Normalize(code string) (string, error) {
	trimmed := strings.TrimSpace(code)
	if strings.EqualFold(trimmed, Auto) {
		return Auto, nil
	}
	if trimmed == "" {
		return "", fmt.Errorf("language: empty code")
	}
	if e := lookup(trimmed); e != nil {
		return e.code, nil
	}
	tag, err := xlang.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("language: unrecognized code %q: %w", trimmed, err)
	}
	return tag.String(), nil
}

// DisplayName returns the English name used when talking to the translation
// backend. Returns "the original language" for auto, the listed name for known
// languages, the CLDR English name for other valid tags, and the code itself
// otherwise.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	switch {
	case trimmed == "":
		return "Unknown"
	case strings.EqualFold(trimmed, Auto):
		return "the original language"
	}
	if e := lookup(trimmed); e != nil {
		return e.display
	}
	tag, err := xlang.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return trimmed
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return cases.Title(xlang.English).String(name)
	}
	return trimmed
}

// NativeName returns the self-name of a listed language, or "" when unlisted.
func NativeName(code string) string {
	if e := lookup(code); e != nil {
		return e.native
	}
	return ""
}

// Info describes one offered language.
type Info struct {
	Code    string
	Display string
	Native  string
}

// Supported lists the languages offered by the CLI, in presentation order.
func Supported() []Info {
	out := make([]Info, 0, len(languages))
	for _, e := range languages {
		out = append(out, Info{Code: e.code, Display: e.display, Native: e.native})
	}
	return out
}
