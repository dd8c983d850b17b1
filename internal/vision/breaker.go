package vision

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/vbonduro/photoalbum/internal/metrics"
)

// BreakerSettings tunes the circuit around a tagger backend.
type BreakerSettings struct {
	// ConsecutiveFailures opens the circuit.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the circuit stays open before a trial call.
	OpenTimeout time.Duration
}

// BreakerTagger stops calling a failing tagger backend for a while, so
// uploads do not each wait on a model that is down.
type BreakerTagger struct {
	next Tagger
	cb   *gobreaker.CircuitBreaker[[]string]
}

func NewBreakerTagger(next Tagger, settings BreakerSettings, logger *slog.Logger) *BreakerTagger {
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = 3
	}
	if settings.OpenTimeout <= 0 {
		settings.OpenTimeout = time.Minute
	}
	metrics.SetTaggerCircuitState(stateValue(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[[]string](gobreaker.Settings{
		Name:        "tagger",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("tagger circuit state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.SetTaggerCircuitState(stateValue(to))
		},
	})
	return &BreakerTagger{next: next, cb: cb}
}

// Tag forwards to the wrapped tagger unless the circuit is open. The image
// is buffered because a rejected call must not consume the reader.
func (t *BreakerTagger) Tag(ctx context.Context, r io.Reader, mimeType string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return t.cb.Execute(func() ([]string, error) {
		return t.next.Tag(ctx, bytes.NewReader(data), mimeType)
	})
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
