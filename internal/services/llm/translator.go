package llm

import (
	"context"
	"fmt"
	"strings"

	"subtrans/internal/language"
	"subtrans/internal/services"
	"subtrans/internal/translation"
)

const translateStage = "translate"

// Completer issues a JSON-only chat completion. *Client satisfies it.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Translator is a translation.Backend backed by a chat completion model.
type Translator struct {
	completer Completer
}

var _ translation.Backend = (*Translator)(nil)

// NewTranslator wraps a completer so it can translate subtitle blocks.
func NewTranslator(completer Completer) *Translator {
	return &Translator{completer: completer}
}

type translationResponse struct {
	Lines []string `json:"lines"`
}

// Translate sends one block to the model and returns its translation with one
// line per caption.
func (t *Translator) Translate(ctx context.Context, req translation.Request) (string, error) {
	if t == nil || t.completer == nil {
		return "", services.Wrap(services.ErrConfiguration, translateStage, "llm", "translator not configured", nil)
	}
	operation := fmt.Sprintf("block %d", req.Index)
	content, err := t.completer.CompleteJSON(ctx, TranslationSystemPrompt, BuildUserPrompt(req))
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, translateStage, operation, "llm completion", err)
	}
	var parsed translationResponse
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return "", services.Wrap(services.ErrExternalService, translateStage, operation, "parse translation", err)
	}
	if len(parsed.Lines) == 0 {
		return "", services.Wrap(services.ErrExternalService, translateStage, operation, "model returned no lines", nil)
	}
	lines := make([]string, len(parsed.Lines))
	for i, line := range parsed.Lines {
		lines[i] = singleLine(line)
	}
	return strings.Join(lines, "\n"), nil
}

// BuildUserPrompt renders the per-block user message: languages, optional
// theme, the surrounding context and the numbered lines to translate.
func BuildUserPrompt(req translation.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source language: %s\n", language.DisplayName(req.SourceLanguage))
	fmt.Fprintf(&b, "Target language: %s\n", language.DisplayName(req.TargetLanguage))
	if theme := strings.TrimSpace(req.Theme); theme != "" {
		fmt.Fprintf(&b, "Background: %s\n", theme)
	}
	if len(req.Previous) > 0 {
		b.WriteString("\nContext before (do not translate):\n")
		writeContext(&b, req.Previous)
	}
	lines := translation.SplitLines(req.Payload)
	fmt.Fprintf(&b, "\nLines to translate (%d):\n", len(lines))
	for i, line := range lines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}
	if len(req.After) > 0 {
		b.WriteString("\nContext after (do not translate):\n")
		writeContext(&b, req.After)
	}
	fmt.Fprintf(&b, "\nReturn exactly %d lines.", len(lines))
	return b.String()
}

func writeContext(b *strings.Builder, texts []string) {
	for _, text := range texts {
		b.WriteString("- ")
		b.WriteString(singleLine(text))
		b.WriteByte('\n')
	}
}

func singleLine(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}
