package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vortex-fintech/go-redisconn/retry"
)

func TestInit_Success(t *testing.T) {
	ctx := context.Background()
	calls := 0
	err := retry.Init(ctx, time.Second, func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestInit_Fail(t *testing.T) {
	ctx := context.Background()
	calls := 0
	err := retry.Init(ctx, 2*time.Second, func() error {
		calls++
		return errors.New("fail")
	})
	assert.Error(t, err)
	assert.Greater(t, calls, 1)
}

func TestInit_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := retry.Init(ctx, 10*time.Second, func() error {
		return errors.New("fail")
	})
	assert.Error(t, err)
	assert.True(t, ctx.Err() != nil)
}

func TestFast_Success(t *testing.T) {
	ctx := context.Background()
	calls := 0
	err := retry.Fast(ctx, func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestFast_Fail(t *testing.T) {
	ctx := context.Background()
	calls := 0
	err := retry.Fast(ctx, func() error {
		calls++
		return errors.New("fail")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestFast_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	calls := 0
	err := retry.Fast(ctx, func() error {
		calls++
		time.Sleep(60 * time.Millisecond)
		return errors.New("fail")
	})
	assert.Error(t, err)
	assert.True(t, ctx.Err() != nil)
	assert.GreaterOrEqual(t, calls, 1)
}
