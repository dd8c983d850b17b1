package ollama

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaTag(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    got.Model,
			"response": "mountain, snow, Hiking",
		})
	}))
	defer server.Close()

	tagger := NewOllamaTagger(server.URL+"/", "moondream")

	imageData := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	keywords, err := tagger.Tag(context.Background(), bytes.NewReader(imageData), "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, []string{"mountain", "snow", "hiking"}, keywords)
	assert.Equal(t, "moondream", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Images, 1)
	assert.NotEmpty(t, got.Images[0])
}

func TestOllamaTagNetworkError(t *testing.T) {
	tagger := NewOllamaTagger("http://localhost:99999", "moondream")

	_, err := tagger.Tag(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	assert.Error(t, err)
}

func TestOllamaTagBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewOllamaTagger(server.URL, "moondream").Tag(context.Background(), bytes.NewReader([]byte{0xFF}), "image/jpeg")
	assert.ErrorContains(t, err, "status 404")
}

func TestOllamaTagInvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewOllamaTagger(server.URL, "moondream").Tag(context.Background(), bytes.NewReader([]byte{0xFF}), "image/jpeg")
	assert.Error(t, err)
}
