package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/gokubot/goku/pkg/domain/message"
)

type userWindow struct {
	mu      sync.Mutex
	stamps  []time.Time
	evicted bool
}

type MemoryLimiter struct {
	limit   int
	window  time.Duration
	windows sync.Map
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &MemoryLimiter{
		limit:  limit,
		window: window,
	}
}

func (l *MemoryLimiter) Admit(_ context.Context, userID message.UserID, now time.Time) bool {
	for {
		v, _ := l.windows.LoadOrStore(userID, &userWindow{})
		w, ok := v.(*userWindow)
		if !ok {
			return false
		}
		w.mu.Lock()
		if w.evicted {
			// lost a race with Cleanup, pick up the fresh record
			w.mu.Unlock()
			continue
		}
		w.stamps = purge(w.stamps, now, l.window)
		admitted := len(w.stamps) < l.limit
		if admitted {
			w.stamps = append(w.stamps, now)
		}
		w.mu.Unlock()
		return admitted
	}
}

// Len returns the number of timestamps currently held for userID.
func (l *MemoryLimiter) Len(userID message.UserID) int {
	v, ok := l.windows.Load(userID)
	if !ok {
		return 0
	}
	w, ok := v.(*userWindow)
	if !ok {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.stamps)
}

// Cleanup drops users whose window is empty at now and returns how many were removed.
func (l *MemoryLimiter) Cleanup(now time.Time) int {
	removed := 0
	l.windows.Range(func(key, value any) bool {
		w, ok := value.(*userWindow)
		if !ok {
			return true
		}
		w.mu.Lock()
		w.stamps = purge(w.stamps, now, l.window)
		if len(w.stamps) == 0 {
			w.evicted = true
			l.windows.Delete(key)
			removed++
		}
		w.mu.Unlock()
		return true
	})
	return removed
}

func (l *MemoryLimiter) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = l.window
	}
	ticker := time.NewTicker(every)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				l.Cleanup(now)
			}
		}
	}()
}
