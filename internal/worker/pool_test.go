package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolExecutePreservesOrder(t *testing.T) {
	pool := NewPool[int, int](4, func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	})

	inputs := []int{1, 2, 3, 4, 5, 6, 7, 8}
	results := pool.Execute(context.Background(), inputs)

	require.Len(t, results, len(inputs))
	for i, task := range results {
		require.NoError(t, task.Err)
		require.Equal(t, inputs[i], task.Input)
		require.Equal(t, inputs[i]*2, task.Result)
	}
}

func TestPoolCapturesErrorsPerTask(t *testing.T) {
	boom := errors.New("boom")
	pool := NewPool[int, int](2, func(ctx context.Context, n int) (int, error) {
		if n%2 == 0 {
			return 0, boom
		}
		return n, nil
	})

	results := pool.Execute(context.Background(), []int{1, 2, 3, 4})
	require.NoError(t, results[0].Err)
	require.ErrorIs(t, results[1].Err, boom)
	require.NoError(t, results[2].Err)
	require.ErrorIs(t, results[3].Err, boom)
}

func TestPoolClampsWorkerCount(t *testing.T) {
	pool := NewPool[int, int](0, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})
	results := pool.Execute(context.Background(), []int{9})
	require.Len(t, results, 1)
	require.Equal(t, 9, results[0].Result)
}

func TestPoolCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewPool[int, int](2, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})
	// Must return without hanging; results for unprocessed inputs stay zero.
	results := pool.Execute(ctx, []int{1, 2, 3})
	require.Len(t, results, 3)
}
