package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"subtrans/internal/services"
	"subtrans/internal/translation"
)

type stubCompleter struct {
	content string
	err     error
	system  string
	user    string
}

func (s *stubCompleter) CompleteJSON(_ context.Context, system, user string) (string, error) {
	s.system = system
	s.user = user
	return s.content, s.err
}

func TestTranslatorJoinsLines(t *testing.T) {
	stub := &stubCompleter{content: "```json\n{\"lines\":[\"Bonjour\",\"Comment\\nça va ?\"]}\n```"}
	tr := NewTranslator(stub)
	got, err := tr.Translate(context.Background(), translation.Request{
		Index:          2,
		Payload:        "Hello\nHow are you?",
		Lines:          2,
		TargetLanguage: "fr",
	})
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "Bonjour\nComment ça va ?" {
		t.Fatalf("unexpected translation %q", got)
	}
	if stub.system != TranslationSystemPrompt {
		t.Fatal("expected translation system prompt")
	}
}

func TestTranslatorEmptyLinesIsBackendError(t *testing.T) {
	tr := NewTranslator(&stubCompleter{content: `{"lines":[]}`})
	_, err := tr.Translate(context.Background(), translation.Request{Payload: "Hi", Lines: 1})
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
}

func TestTranslatorWrapsCompletionFailure(t *testing.T) {
	cause := errors.New("boom")
	tr := NewTranslator(&stubCompleter{err: cause})
	_, err := tr.Translate(context.Background(), translation.Request{Index: 4, Payload: "Hi", Lines: 1})
	if !errors.Is(err, services.ErrExternalService) || !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "block 4") {
		t.Fatalf("expected block number in error, got %v", err)
	}
}

func TestTranslatorNilCompleter(t *testing.T) {
	_, err := NewTranslator(nil).Translate(context.Background(), translation.Request{Payload: "Hi"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := BuildUserPrompt(translation.Request{
		Payload:        "Line one\nLine two",
		Lines:          2,
		Previous:       []string{"Earlier\nsplit"},
		After:          []string{"Later"},
		Theme:          "Space opera",
		SourceLanguage: "auto",
		TargetLanguage: "es",
	})
	for _, want := range []string{
		"Source language: the original language",
		"Target language: Spanish",
		"Background: Space opera",
		"Context before (do not translate):\n- Earlier split\n",
		"Lines to translate (2):\n1. Line one\n2. Line two\n",
		"Context after (do not translate):\n- Later\n",
		"Return exactly 2 lines.",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildUserPromptOmitsEmptySections(t *testing.T) {
	prompt := BuildUserPrompt(translation.Request{Payload: "Solo", Lines: 1, TargetLanguage: "de"})
	for _, unwanted := range []string{"Background:", "Context before", "Context after"} {
		if strings.Contains(prompt, unwanted) {
			t.Fatalf("prompt should not contain %q:\n%s", unwanted, prompt)
		}
	}
}
