package state

import (
	"context"
	"sync"

	"learnhub_portal/internal/i18n"
)

// Store persists client states. Load of an unknown client returns
// ok=false.
type Store interface {
	Load(ctx context.Context, clientID string) (AppState, bool, error)
	Save(ctx context.Context, s AppState) error
	Delete(ctx context.Context, clientID string) error
}

type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]AppState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]AppState)}
}

func (m *MemoryStore) Load(_ context.Context, clientID string) (AppState, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[clientID]
	return s, ok, nil
}

func (m *MemoryStore) Save(_ context.Context, s AppState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[s.ClientID] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, clientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, clientID)
	return nil
}

// Machine serializes transitions per client on top of a Store.
type Machine struct {
	store Store
	lang  func() i18n.Language

	mu    sync.Mutex
	locks map[string]*clientLock
}

type clientLock struct {
	mu   sync.Mutex
	refs int
}

// NewMachine creates a Machine. defaultLang is consulted whenever a new
// client state is created, so configuration reloads apply to new
// clients.
func NewMachine(store Store, defaultLang func() i18n.Language) *Machine {
	return &Machine{store: store, lang: defaultLang, locks: make(map[string]*clientLock)}
}

func (m *Machine) lock(clientID string) func() {
	m.mu.Lock()
	l, ok := m.locks[clientID]
	if !ok {
		l = &clientLock{}
		m.locks[clientID] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, clientID)
		}
		m.mu.Unlock()
	}
}

// Get returns the client's state, creating the initial one if needed.
func (m *Machine) Get(ctx context.Context, clientID string) (AppState, error) {
	unlock := m.lock(clientID)
	defer unlock()
	return m.load(ctx, clientID)
}

func (m *Machine) load(ctx context.Context, clientID string) (AppState, error) {
	s, ok, err := m.store.Load(ctx, clientID)
	if err != nil {
		return AppState{}, err
	}
	if !ok {
		s = Initial(clientID, m.lang())
		if err := m.store.Save(ctx, s); err != nil {
			return AppState{}, err
		}
	}
	return s, nil
}

// Dispatch applies actions in order and stores the result. On error
// nothing is stored.
func (m *Machine) Dispatch(ctx context.Context, clientID string, actions ...Action) (AppState, error) {
	unlock := m.lock(clientID)
	defer unlock()

	s, err := m.load(ctx, clientID)
	if err != nil {
		return AppState{}, err
	}
	for _, a := range actions {
		if s, err = Reduce(s, a); err != nil {
			return AppState{}, err
		}
	}
	if err := m.store.Save(ctx, s); err != nil {
		return AppState{}, err
	}
	return s, nil
}

// Forget drops the client's state.
func (m *Machine) Forget(ctx context.Context, clientID string) error {
	unlock := m.lock(clientID)
	defer unlock()
	return m.store.Delete(ctx, clientID)
}
