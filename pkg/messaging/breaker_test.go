package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/abgdnv/productapi/pkg/config"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct{}

func (testEvent) Subject() string          { return ProductsCreatedSubject }
func (testEvent) Payload() ([]byte, error) { return []byte(`{}`), nil }

// scriptedPublisher returns the queued errors in order, then nil.
type scriptedPublisher struct {
	calls int
	errs  []error
}

func (p *scriptedPublisher) Publish(context.Context, Event) error {
	p.calls++
	if len(p.errs) == 0 {
		return nil
	}
	err := p.errs[0]
	p.errs = p.errs[1:]
	return err
}

func newBreaker(next Publisher, openTimeout time.Duration) *BreakerPublisher {
	cfg := config.CircuitBreakerConfig{
		ConsecutiveFailures: 3,
		ErrorRatePercent:    60,
		OpenTimeout:         openTimeout,
	}
	return NewBreakerPublisher(next, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func Test_BreakerPublisher_PassesThrough(t *testing.T) {
	next := &scriptedPublisher{}
	p := newBreaker(next, time.Minute)

	for range 10 {
		require.NoError(t, p.Publish(context.Background(), testEvent{}))
	}

	assert.Equal(t, 10, next.calls)
	assert.Equal(t, gobreaker.StateClosed, p.State())
}

func Test_BreakerPublisher_OpensAfterConsecutiveFailures(t *testing.T) {
	// given
	brokerDown := errors.New("nats: no responders available")
	next := &scriptedPublisher{errs: []error{brokerDown, brokerDown, brokerDown, brokerDown}}
	p := newBreaker(next, time.Minute)
	ctx := context.Background()
	// when
	for range 3 {
		assert.ErrorIs(t, p.Publish(ctx, testEvent{}), brokerDown)
	}
	err := p.Publish(ctx, testEvent{})
	// then
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, next.calls, "open breaker must not reach the broker")
	assert.Equal(t, gobreaker.StateOpen, p.State())
}

func Test_BreakerPublisher_RecoversAfterOpenTimeout(t *testing.T) {
	// given
	brokerDown := errors.New("connection refused")
	next := &scriptedPublisher{errs: []error{brokerDown, brokerDown, brokerDown}}
	p := newBreaker(next, 50*time.Millisecond)
	ctx := context.Background()
	for range 3 {
		_ = p.Publish(ctx, testEvent{})
	}
	require.Equal(t, gobreaker.StateOpen, p.State())
	// when
	time.Sleep(100 * time.Millisecond)
	err := p.Publish(ctx, testEvent{})
	// then
	assert.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, p.State())
	assert.Equal(t, 4, next.calls)
}

func Test_NopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), testEvent{}))
}
