package store

import (
	"context"
	"sync"

	"cayo/errs"
)

// Memory keeps the State in process. It backs tests and DB_DRIVER=memory.
type Memory struct {
	mu    sync.RWMutex
	state *State
	fail  error
}

func NewMemory(seed *State) *Memory {
	return &Memory{state: seed.Clone()}
}

// SetFailure makes every call fail as if the backing medium were down.
func (m *Memory) SetFailure(err error) {
	m.mu.Lock()
	m.fail = err
	m.mu.Unlock()
}

func (m *Memory) LoadAll(ctx context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return nil, errs.NewStoreUnavailable(m.fail)
	}
	return NewSnapshot(m.state.Clone()), nil
}

func (m *Memory) Persist(ctx context.Context, st *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return errs.NewStoreUnavailable(m.fail)
	}
	m.state = st.Clone()
	return nil
}

func (m *Memory) Update(ctx context.Context, fn func(*Snapshot) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return errs.NewStoreUnavailable(m.fail)
	}
	snap := NewSnapshot(m.state.Clone())
	if err := fn(snap); err != nil {
		return err
	}
	m.state = snap.State.Clone()
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return errs.NewStoreUnavailable(m.fail)
	}
	return nil
}
