package vision

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyTagger struct {
	err   error
	calls int
	seen  []string
}

func (f *flakyTagger) Tag(_ context.Context, r io.Reader, _ string) ([]string, error) {
	f.calls++
	data, _ := io.ReadAll(r)
	f.seen = append(f.seen, string(data))
	if f.err != nil {
		return nil, f.err
	}
	return []string{"beach"}, nil
}

func TestBreakerTaggerPassesThrough(t *testing.T) {
	next := &flakyTagger{}
	tagger := NewBreakerTagger(next, BreakerSettings{}, slog.Default())

	keywords, err := tagger.Tag(context.Background(), strings.NewReader("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, []string{"beach"}, keywords)
	assert.Equal(t, []string{"img"}, next.seen)
	assert.Equal(t, gobreaker.StateClosed, tagger.State())
}

func TestBreakerTaggerOpensAfterFailures(t *testing.T) {
	next := &flakyTagger{err: errors.New("model down")}
	tagger := NewBreakerTagger(next, BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Hour}, slog.Default())
	ctx := context.Background()

	for range 2 {
		_, err := tagger.Tag(ctx, strings.NewReader("img"), "image/jpeg")
		assert.ErrorContains(t, err, "model down")
	}
	assert.Equal(t, gobreaker.StateOpen, tagger.State())

	_, err := tagger.Tag(ctx, strings.NewReader("img"), "image/jpeg")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, next.calls)
}
