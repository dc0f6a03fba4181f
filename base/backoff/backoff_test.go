package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExponential(t *testing.T) {
	req := require.New(t)
	b := NewExponential(time.Millisecond, 4*time.Millisecond)
	req.Equal(time.Millisecond, b.NextDuration)
	req.NoError(b.Backoff(context.Background()))
	req.Equal(2*time.Millisecond, b.NextDuration)
	req.NoError(b.Backoff(context.Background()))
	req.Equal(4*time.Millisecond, b.NextDuration)
	req.NoError(b.Backoff(context.Background()))
	req.Equal(4*time.Millisecond, b.NextDuration, "capped by limit")
	b.Reset()
	req.Equal(time.Millisecond, b.NextDuration)
}

func TestRetry(t *testing.T) {
	req := require.New(t)
	errBoom := errors.New("boom")

	calls := 0
	err := NewExponential(time.Millisecond, 0).Retry(context.Background(), 3, func() error {
		calls++
		if calls < 3 {
			return errBoom
		}
		return nil
	})
	req.NoError(err)
	req.Equal(3, calls)

	calls = 0
	err = NewExponential(time.Millisecond, 0).Retry(context.Background(), 2, func() error {
		calls++
		return errBoom
	})
	req.ErrorIs(err, errBoom)
	req.Equal(2, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls = 0
	err = NewExponential(time.Hour, 0).Retry(ctx, 5, func() error {
		calls++
		return errBoom
	})
	req.ErrorIs(err, errBoom)
	req.Equal(1, calls)
}
