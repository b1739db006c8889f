package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider retries transport failures (rate limits, outages, network
// errors) with exponential backoff. Anything the model itself got wrong is
// returned at once so the learner sees it and can resubmit.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *zap.Logger
}

// WithRetry wraps a Provider with retry logic. A nil logger is allowed.
func WithRetry(p Provider, cfg RetryConfig, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryProvider{inner: p, config: cfg, logger: logger}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)

	var err error
	for attempt := 1; ; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt >= attempts || !retryable(err) {
			return nil, err
		}

		wait := r.config.wait(attempt, err)
		r.logger.Info("retrying llm request",
			zap.String("purpose", PurposeFrom(ctx)),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable reports whether err is a transport failure worth another try.
func retryable(err error) bool {
	var (
		maxTok  *ErrMaxTokensExceeded
		auth    *ErrAuthFailed
		invalid *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrGroundingUnsupported):
		return false
	case errors.As(err, &maxTok), errors.As(err, &auth), errors.As(err, &invalid):
		return false
	}
	// Rate limits, ErrProviderUnavailable and raw network errors.
	return true
}

// wait returns the pause after the given 1-based attempt. A rate limit's
// RetryAfter wins but is still capped by MaxWait.
func (c RetryConfig) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		if c.MaxWait > 0 {
			return min(rl.RetryAfter, c.MaxWait)
		}
		return rl.RetryAfter
	}

	mult := c.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(c.InitialWait) * math.Pow(mult, float64(attempt-1))
	if c.MaxWait > 0 {
		d = math.Min(d, float64(c.MaxWait))
	}
	// ±20% jitter.
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}
