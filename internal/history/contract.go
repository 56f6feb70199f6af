package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract verifies that a Store implementation keeps entries newest
// first and honours its limit. The store must be empty and limited to 3.
func RunStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	base := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	entry := func(episode uint64) Entry {
		started := base.Add(time.Duration(episode) * time.Minute)
		return Entry{
			Session:    "contract",
			Episode:    episode,
			Trigger:    "gesture",
			Outcome:    OutcomeOK,
			StartedAt:  started,
			FinishedAt: started.Add(250 * time.Millisecond),
			Duration:   250 * time.Millisecond,
			CPUPercent: 12.5,
		}
	}

	t.Run("Empty", func(t *testing.T) {
		got, err := store.Recent(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Rejects Entry Without Episode", func(t *testing.T) {
		assert.ErrorIs(t, store.Append(ctx, Entry{Outcome: OutcomeOK}), ErrInvalidEntry)
	})

	t.Run("Append and Recent", func(t *testing.T) {
		require.NoError(t, store.Append(ctx, entry(1)))
		failed := entry(2)
		failed.Outcome = OutcomeError
		failed.Error = "probe failed"
		require.NoError(t, store.Append(ctx, failed))

		got, err := store.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, uint64(2), got[0].Episode, "newest first")
		assert.Equal(t, "probe failed", got[0].Error)
		assert.True(t, got[1].StartedAt.Equal(entry(1).StartedAt))
		assert.Equal(t, 250*time.Millisecond, got[1].Duration)
		assert.Equal(t, 12.5, got[1].CPUPercent)
	})

	t.Run("Limit", func(t *testing.T) {
		for ep := uint64(3); ep <= 5; ep++ {
			require.NoError(t, store.Append(ctx, entry(ep)))
		}

		got, err := store.Recent(ctx, 0)
		require.NoError(t, err)
		episodes := make([]string, len(got))
		for i, e := range got {
			episodes[i] = fmt.Sprint(e.Episode)
		}
		assert.Equal(t, []string{"5", "4", "3"}, episodes)

		got, err = store.Recent(ctx, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, uint64(5), got[0].Episode)
	})
}
