package retryutil

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
)

// Policy describes an exponential backoff retry schedule.
type Policy struct {
	// total number of attempts, including the first one
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// upper bound on the random delay added to each wait
	Jitter time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		BaseDelay:   2 * time.Second,
		MaxDelay:    2 * time.Minute,
		Jitter:      time.Second,
	}
}

// Backoff returns the deterministic part of the delay before the given
// retry attempt (1-based): BaseDelay * 2^(attempt-1), capped at MaxDelay.
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// Wait is Backoff plus jitter.
func (p Policy) Wait(attempt int) time.Duration {
	delay := p.Backoff(attempt)
	if p.Jitter > 0 {
		n, err := random.IntRange(0, int(p.Jitter.Milliseconds())+1)
		if err == nil {
			delay += time.Duration(n) * time.Millisecond
		}
	}
	return delay
}

// Apply configures the resty client to retry according to the policy,
// retrying only when `retryable` says so.
func (p Policy) Apply(client *resty.Client, retryable resty.RetryConditionFunc) {
	client.SetRetryCount(p.MaxAttempts - 1)
	if p.MaxDelay > 0 {
		client.SetRetryMaxWaitTime(p.MaxDelay)
	}
	client.SetRetryAfter(func(_ *resty.Client, res *resty.Response) (time.Duration, error) {
		return p.Wait(res.Request.Attempt), nil
	})
	client.AddRetryCondition(retryable)
}
