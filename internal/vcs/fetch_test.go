package vcs

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchConcurrently(t *testing.T) {
	t.Run("keeps results in index order", func(t *testing.T) {
		got, err := FetchConcurrently(context.Background(), 20, 4, func(_ context.Context, i int) (string, error) {
			// later indexes finish first
			time.Sleep(time.Duration(20-i) * time.Millisecond)
			return fmt.Sprintf("item-%d", i), nil
		})

		require.NoError(t, err)
		require.Len(t, got, 20)
		for i, v := range got {
			assert.Equal(t, fmt.Sprintf("item-%d", i), v)
		}
	})

	t.Run("returns first error", func(t *testing.T) {
		boom := errors.New("boom")

		got, err := FetchConcurrently(context.Background(), 5, 2, func(_ context.Context, i int) (int, error) {
			if i == 3 {
				return 0, boom
			}
			return i, nil
		})

		assert.ErrorIs(t, err, boom)
		assert.Nil(t, got)
	})

	t.Run("empty input", func(t *testing.T) {
		got, err := FetchConcurrently(context.Background(), 0, 2, func(_ context.Context, i int) (int, error) {
			return i, nil
		})

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := FetchConcurrently(ctx, 3, 0, func(_ context.Context, i int) (int, error) {
			return i, nil
		})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
