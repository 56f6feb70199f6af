package history_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elpulgo/pullrefresh/internal/history"
)

func TestMemoryStore_Contract(t *testing.T) {
	history.RunStoreContract(t, history.NewMemoryStore(3))
}

func TestMemoryStore_DefaultLimit(t *testing.T) {
	store := history.NewMemoryStore(0)
	ctx := context.Background()

	for ep := uint64(1); ep <= history.DefaultLimit+5; ep++ {
		require.NoError(t, store.Append(ctx, history.Entry{Episode: ep}))
	}

	got, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, history.DefaultLimit)
	assert.Equal(t, uint64(history.DefaultLimit+5), got[0].Episode)
}

func TestMemoryStore_ConcurrentAppend(t *testing.T) {
	store := history.NewMemoryStore(100)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(ep uint64) {
			defer wg.Done()
			assert.NoError(t, store.Append(ctx, history.Entry{Episode: ep}))
		}(uint64(i))
	}
	wg.Wait()

	got, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 20)
}
