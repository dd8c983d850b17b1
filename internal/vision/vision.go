// Package vision suggests keywords for uploaded photos using an image model.
package vision

import (
	"context"
	"io"
)

// KeywordPrompt is the shared prompt used by all tagger backends.
const KeywordPrompt = `Suggest up to 8 short keywords describing this photo, such as the
main subjects, the place and the mood. Respond with the keywords only,
lowercase, separated by commas.`

// MaxKeywords caps how many keywords are kept from a model response.
const MaxKeywords = 8

// Tagger suggests keywords for an image.
type Tagger interface {
	Tag(ctx context.Context, r io.Reader, mimeType string) ([]string, error)
}
