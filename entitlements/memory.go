package entitlements

import (
	"context"
	"sync"
	"time"

	"tooncraft/config"
)

type userState struct {
	unlimited   bool
	trialsUsed  int
	windowStart time.Time
	windowUsed  int
}

// MemoryStore is the in-process fallback used when Redis is not configured.
// Counters reset on restart, which is acceptable for single-node setups.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]*userState
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*userState), now: time.Now}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) state(userID string) *userState {
	u, ok := m.users[userID]
	if !ok {
		u = &userState{}
		m.users[userID] = u
	}
	return u
}

func (m *MemoryStore) ConsumeVideoSession(ctx context.Context, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.state(userID)
	if !u.unlimited {
		if u.trialsUsed >= config.FreeVideoTrials {
			return false, nil
		}
		u.trialsUsed++
		return true, nil
	}

	now := m.now()
	if u.windowStart.IsZero() || now.Sub(u.windowStart) >= 24*time.Hour {
		u.windowStart = now
		u.windowUsed = 0
	}
	if u.windowUsed >= config.DailyVideoLimit {
		return false, nil
	}
	u.windowUsed++
	return true, nil
}

func (m *MemoryStore) Remaining(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.state(userID)
	if !u.unlimited {
		return config.FreeVideoTrials - u.trialsUsed, nil
	}
	if u.windowStart.IsZero() || m.now().Sub(u.windowStart) >= 24*time.Hour {
		return config.DailyVideoLimit, nil
	}
	return config.DailyVideoLimit - u.windowUsed, nil
}

func (m *MemoryStore) SetUnlimited(ctx context.Context, userID string, unlimited bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.state(userID)
	u.unlimited = unlimited
	if !unlimited {
		u.windowStart = time.Time{}
		u.windowUsed = 0
	}
	return nil
}
