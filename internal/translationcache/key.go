package translationcache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"subtrans/internal/translation"
)

// Key derives the cache key for a request. Everything the backend sees takes
// part in the hash so a changed context window or theme is a miss.
func Key(model string, req translation.Request) string {
	h := sha256.New()
	for _, field := range []string{
		strings.TrimSpace(model),
		req.SourceLanguage,
		req.TargetLanguage,
		req.Theme,
		req.Payload,
		strings.Join(req.Previous, "\x1e"),
		strings.Join(req.After, "\x1e"),
	} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
