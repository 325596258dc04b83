package keyedmutex

import (
	"context"
	"sync"
)

type entry struct {
	waiters []chan struct{}
}

// KeyedMutex serializes holders of the same key in arrival order. Different
// keys never contend beyond the short bookkeeping section.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*entry)}
}

// Lock blocks until key is held or ctx is done. The returned func releases the key
// and must be called exactly once.
func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		k.entries[key] = &entry{}
		k.mu.Unlock()
		return k.unlocker(key), nil
	}
	ch := make(chan struct{})
	e.waiters = append(e.waiters, ch)
	k.mu.Unlock()

	select {
	case <-ch:
		return k.unlocker(key), nil
	case <-ctx.Done():
		k.mu.Lock()
		for i, w := range e.waiters {
			if w == ch {
				e.waiters = append(e.waiters[:i], e.waiters[i+1:]...)
				k.mu.Unlock()
				return nil, ctx.Err()
			}
		}
		k.mu.Unlock()
		// ownership was handed over while we were giving up
		k.release(key)
		return nil, ctx.Err()
	}
}

// Pending reports how many callers hold or wait for key.
func (k *KeyedMutex) Pending(key string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok {
		return 0
	}
	return len(e.waiters) + 1
}

func (k *KeyedMutex) unlocker(key string) func() {
	var once sync.Once
	return func() {
		once.Do(func() { k.release(key) })
	}
}

func (k *KeyedMutex) release(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok {
		return
	}
	if len(e.waiters) == 0 {
		delete(k.entries, key)
		return
	}
	next := e.waiters[0]
	e.waiters = e.waiters[1:]
	close(next)
}
