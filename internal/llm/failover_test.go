package llm

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdapter scripts one provider for chain tests.
type fakeAdapter struct {
	name       string
	configured bool
	vision     bool
	text       string
	err        error
	calls      int
}

func (f *fakeAdapter) Name() string         { return f.name }
func (f *fakeAdapter) Configured() bool     { return f.configured }
func (f *fakeAdapter) SupportsVision() bool { return f.vision }

func (f *fakeAdapter) Invoke(_ context.Context, _ Request) (string, error) {
	f.calls++
	return f.text, f.err
}

func newTestChain(adapters ...Adapter) *Chain {
	c := NewChain(adapters, 0, slog.Default())
	c.sleep = func(time.Duration) {}
	return c
}

func TestChainFirstSuccessWins(t *testing.T) {
	first := &fakeAdapter{name: "a", configured: true, vision: true, err: Failf(FailTransport, "down")}
	second := &fakeAdapter{name: "b", configured: true, vision: true, text: "hello"}
	third := &fakeAdapter{name: "c", configured: true, vision: true, text: "never used"}

	res, err := newTestChain(first, second, third).Run(context.Background(), Request{Task: TaskQnA})
	require.NoError(t, err)

	assert.Equal(t, "hello", res.Text)
	assert.Equal(t, "b", res.Source)
	// Providers after the first success are never invoked.
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 0, third.calls)
	require.Len(t, res.Attempts, 1)
	assert.Equal(t, FailTransport, res.Attempts[0].Kind)
}

func TestChainExhaustedRecordsAllReasonsInOrder(t *testing.T) {
	a := &fakeAdapter{name: "a", configured: true, err: Failf(FailAuth, "bad key")}
	b := &fakeAdapter{name: "b", configured: true, err: Failf(FailRateLimited, "slow down")}
	c := &fakeAdapter{name: "c", configured: true, err: Failf(FailTransport, "timeout")}

	_, err := newTestChain(a, b, c).Run(context.Background(), Request{Task: TaskQnA})
	require.Error(t, err)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Len(t, exhausted.Attempts, 3)
	assert.Equal(t, "a", exhausted.Attempts[0].Provider)
	assert.Equal(t, FailAuth, exhausted.Attempts[0].Kind)
	assert.Equal(t, "b", exhausted.Attempts[1].Provider)
	assert.Equal(t, FailRateLimited, exhausted.Attempts[1].Kind)
	assert.Equal(t, "c", exhausted.Attempts[2].Provider)
	assert.Equal(t, FailTransport, exhausted.Attempts[2].Kind)
}

func TestChainAuthErrorDoesNotAbort(t *testing.T) {
	a := &fakeAdapter{name: "a", configured: true, err: Failf(FailAuth, "401")}
	b := &fakeAdapter{name: "b", configured: true, text: "recovered"}

	res, err := newTestChain(a, b).Run(context.Background(), Request{Task: TaskQnA})
	require.NoError(t, err)
	assert.Equal(t, "b", res.Source)
	assert.Equal(t, 1, b.calls)
}

func TestChainSkipsUnconfiguredProviders(t *testing.T) {
	noKey := &fakeAdapter{name: "nokey", configured: false, text: "should not run"}
	ok := &fakeAdapter{name: "ok", configured: true, text: "fine"}

	res, err := newTestChain(noKey, ok).Run(context.Background(), Request{Task: TaskQnA})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Source)
	// Unconfigured providers are skipped, never attempted.
	assert.Equal(t, 0, noKey.calls)
	assert.Empty(t, res.Attempts)
}

func TestChainFiltersNonVisionProvidersForImageRequests(t *testing.T) {
	textOnly := &fakeAdapter{name: "text-only", configured: true, vision: false, text: "nope"}
	visionCapable := &fakeAdapter{name: "vision", configured: true, vision: true, text: "seen"}

	req := Request{Task: TaskFoodScan, Image: &ImagePayload{Data: []byte{0xFF}, MIME: "image/jpeg"}}
	res, err := newTestChain(textOnly, visionCapable).Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "vision", res.Source)
	assert.Equal(t, 0, textOnly.calls)
}

func TestChainEmptyTextCountsAsMalformed(t *testing.T) {
	blank := &fakeAdapter{name: "blank", configured: true, text: "   \n"}
	ok := &fakeAdapter{name: "ok", configured: true, text: "real"}

	res, err := newTestChain(blank, ok).Run(context.Background(), Request{Task: TaskQnA})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Source)
	require.Len(t, res.Attempts, 1)
	assert.Equal(t, FailMalformed, res.Attempts[0].Kind)
}

func TestChainBackoffBetweenFailedAttemptsOnly(t *testing.T) {
	a := &fakeAdapter{name: "a", configured: true, err: Failf(FailRateLimited, "429")}
	b := &fakeAdapter{name: "b", configured: true, err: Failf(FailTransport, "down")}
	c := &fakeAdapter{name: "c", configured: true, err: Failf(FailTransport, "down")}

	chain := NewChain([]Adapter{a, b, c}, 100*time.Millisecond, slog.Default())
	sleeps := 0
	chain.sleep = func(d time.Duration) {
		sleeps++
		assert.Equal(t, 100*time.Millisecond, d)
	}

	_, err := chain.Run(context.Background(), Request{Task: TaskQnA})
	require.Error(t, err)
	// No backoff after the final attempt.
	assert.Equal(t, 2, sleeps)
}

func TestChainBackoffBounded(t *testing.T) {
	chain := NewChain(nil, 5*time.Second, slog.Default())
	assert.Equal(t, time.Second, chain.backoff)
}

func TestChainNoProvidersConfigured(t *testing.T) {
	noKey := &fakeAdapter{name: "nokey", configured: false}

	_, err := newTestChain(noKey).Run(context.Background(), Request{Task: TaskQnA})
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Empty(t, exhausted.Attempts)
}

func TestChainRespectsCancelledContext(t *testing.T) {
	ok := &fakeAdapter{name: "ok", configured: true, text: "fine"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestChain(ok).Run(ctx, Request{Task: TaskQnA})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, ok.calls)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, FailAuth, KindOf(Failf(FailAuth, "x")))
	assert.Equal(t, FailTransport, KindOf(context.DeadlineExceeded))
	assert.Equal(t, FailUnknown, KindOf(assert.AnError))
}
