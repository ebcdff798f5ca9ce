package compose

import (
	"errors"
	"fmt"

	"subtrans/internal/subtitles"
)

// ErrLengthMismatch reports original and translated sequences of different length.
var ErrLengthMismatch = errors.New("original and translated caption counts differ")

// Variants holds the four caption sequences derived from one translation.
type Variants struct {
	Translation      []subtitles.Caption
	Source           []subtitles.Caption
	Bilingual        []subtitles.Caption
	BilingualReverse []subtitles.Caption
}

// Compose builds every output variant from positionally aligned sequences.
// Bilingual entries keep the original caption's timing and styling.
func Compose(original, translated []subtitles.Caption) (Variants, error) {
	if len(original) != len(translated) {
		return Variants{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(original), len(translated))
	}
	v := Variants{
		Translation:      clone(translated),
		Source:           clone(original),
		Bilingual:        make([]subtitles.Caption, len(original)),
		BilingualReverse: make([]subtitles.Caption, len(original)),
	}
	for i, o := range original {
		t := translated[i].Text
		v.Bilingual[i] = o.WithText(o.Text + "\n" + t)
		v.BilingualReverse[i] = o.WithText(t + "\n" + o.Text)
	}
	return v, nil
}

func clone(captions []subtitles.Caption) []subtitles.Caption {
	return append([]subtitles.Caption(nil), captions...)
}
