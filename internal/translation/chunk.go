package translation

import (
	"errors"
	"slices"

	"subtrans/internal/subtitles"
)

// ErrInvalidChunkSize is returned when a chunk size below one is requested.
var ErrInvalidChunkSize = errors.New("translation: chunk size must be positive")

// Block is a contiguous run of captions translated as one backend request.
// Index is the block's position among its siblings.
type Block struct {
	Index    int
	Captions []subtitles.Caption
}

// Chunk partitions captions into contiguous blocks of size captions; the last
// block may be shorter. Concatenating the blocks reproduces the input exactly.
// Each block owns a copy of its captions.
func Chunk(captions []subtitles.Caption, size int) ([]Block, error) {
	if size <= 0 {
		return nil, ErrInvalidChunkSize
	}
	blocks := make([]Block, 0, (len(captions)+size-1)/size)
	for start := 0; start < len(captions); start += size {
		end := min(start+size, len(captions))
		blocks = append(blocks, Block{
			Index:    len(blocks),
			Captions: slices.Clone(captions[start:end]),
		})
	}
	return blocks, nil
}
