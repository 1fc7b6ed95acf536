package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_FirstReturnCancelsOthers(t *testing.T) {
	var cancelled atomic.Bool
	err := Run(context.Background(),
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error {
			<-ctx.Done()
			cancelled.Store(true)
			return nil
		},
	)
	require.NoError(t, err)
	assert.True(t, cancelled.Load())
}

func TestRun_ReturnsError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(),
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		},
		nil,
	)
	assert.ErrorIs(t, err, boom)
}

func TestRun_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Run(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEach(t *testing.T) {
	var sum atomic.Int64
	require.NoError(t, Each([]int{1, 2, 3}, func(v int) error {
		sum.Add(int64(v))
		return nil
	}))
	assert.EqualValues(t, 6, sum.Load())

	bad := errors.New("bad")
	assert.ErrorIs(t, Each([]int{1, 2}, func(v int) error {
		if v == 2 {
			return bad
		}
		return nil
	}), bad)
}
