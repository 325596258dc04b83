package keyedmutex_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gokubot/goku/pkg/common/keyedmutex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_FIFOPerKey(t *testing.T) {
	km := keyedmutex.New()
	ctx := context.Background()

	unlock, err := km.Lock(ctx, "user")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			release, err := km.Lock(ctx, "user")
			if err != nil {
				return
			}
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			release()
		}(i)
		want := i + 2
		require.Eventually(t, func() bool { return km.Pending("user") == want }, time.Second, time.Millisecond)
	}

	unlock()
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.Equal(t, 0, km.Pending("user"))
}

func TestKeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	km := keyedmutex.New()
	ctx := context.Background()

	unlockA, err := km.Lock(ctx, "a")
	require.NoError(t, err)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB, err := km.Lock(ctx, "b")
		if err == nil {
			unlockB()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestKeyedMutex_ContextCancelled(t *testing.T) {
	km := keyedmutex.New()

	unlock, err := km.Lock(context.Background(), "user")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	release, err := km.Lock(ctx, "user")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, release)
	assert.Equal(t, 1, km.Pending("user"))

	unlock()
	assert.Equal(t, 0, km.Pending("user"))

	again, err := km.Lock(context.Background(), "user")
	require.NoError(t, err)
	again()
}

func TestKeyedMutex_UnlockIsIdempotent(t *testing.T) {
	km := keyedmutex.New()
	unlock, err := km.Lock(context.Background(), "user")
	require.NoError(t, err)

	unlock()
	unlock()
	assert.Equal(t, 0, km.Pending("user"))
}
