package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Chain tries adapters in priority order until one returns usable text.
// The order is fixed configuration; there is no dynamic re-ranking and
// no parallel fan-out. An auth failure on one provider never aborts the
// chain: the remaining entries are always attempted.
type Chain struct {
	adapters []Adapter
	backoff  time.Duration
	sleep    func(time.Duration)
	logger   *slog.Logger
}

// NewChain builds a failover chain. backoff is the fixed pause between
// failed attempts; it is bounded to one second.
func NewChain(adapters []Adapter, backoff time.Duration, logger *slog.Logger) *Chain {
	if backoff > time.Second {
		backoff = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		adapters: adapters,
		backoff:  backoff,
		sleep:    time.Sleep,
		logger:   logger,
	}
}

// eligible filters the configured adapter list for one request:
// unconfigured adapters are skipped, and image requests only go to
// vision-capable providers.
func (c *Chain) eligible(req Request) []Adapter {
	out := make([]Adapter, 0, len(c.adapters))
	for _, a := range c.adapters {
		if !a.Configured() {
			c.logger.Debug("skipping provider without credential", "provider", a.Name())
			continue
		}
		if !req.Image.Empty() && !a.SupportsVision() {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Run attempts each eligible adapter in order and returns the first
// success. On total exhaustion it returns an *ExhaustedError carrying
// one attempt record per provider tried.
func (c *Chain) Run(ctx context.Context, req Request) (*Result, error) {
	adapters := c.eligible(req)
	attempts := make([]Attempt, 0, len(adapters))

	for i, a := range adapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		text, err := a.Invoke(ctx, req)
		elapsed := time.Since(start)

		if err == nil && strings.TrimSpace(text) == "" {
			err = Failf(FailMalformed, "provider returned empty text")
		}
		if err == nil {
			c.logger.Info("provider succeeded",
				"provider", a.Name(),
				"task", req.Task,
				"elapsed_ms", elapsed.Milliseconds(),
				"failed_attempts", len(attempts),
			)
			return &Result{Text: text, Source: a.Name(), Elapsed: elapsed, Attempts: attempts}, nil
		}

		kind := KindOf(err)
		attempts = append(attempts, Attempt{
			Provider: a.Name(),
			Kind:     kind,
			Reason:   err.Error(),
			Elapsed:  elapsed,
		})
		c.logger.Warn("provider attempt failed",
			"provider", a.Name(),
			"task", req.Task,
			"kind", kind,
			"error", err,
		)

		if c.backoff > 0 && i < len(adapters)-1 {
			c.sleep(c.backoff)
		}
	}

	return nil, &ExhaustedError{Attempts: attempts}
}
