package claude

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/photoalbum/internal/vision"
)

// ClaudeTagger asks an Anthropic model for photo keywords.
type ClaudeTagger struct {
	model  string
	client *anthropic.Client
}

// NewClaudeTagger returns a tagger for model. baseURL overrides the API
// endpoint when non-empty.
func NewClaudeTagger(apiKey, model, baseURL string) *ClaudeTagger {
	opts := []anthropic.ClientOption{anthropic.WithHTTPClient(&http.Client{})}
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &ClaudeTagger{
		model:  model,
		client: anthropic.NewClient(apiKey, opts...),
	}
}

func (c *ClaudeTagger) Tag(ctx context.Context, r io.Reader, mimeType string) ([]string, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: 256,
		Messages: []anthropic.Message{{
			Role: anthropic.RoleUser,
			Content: []anthropic.MessageContent{
				anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
					anthropic.MessagesContentSourceTypeBase64,
					normaliseMIME(mimeType),
					base64.StdEncoding.EncodeToString(imageData),
				)),
				anthropic.NewTextMessageContent(vision.KeywordPrompt),
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call claude: %w", err)
	}

	return vision.ParseKeywords(resp.GetFirstContentText()), nil
}

// normaliseMIME maps the upload MIME type to one the Anthropic API accepts.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif":
		return mimeType
	default:
		return "image/jpeg"
	}
}
