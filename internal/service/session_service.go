package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"learnhub_portal/internal/identity"
	"learnhub_portal/internal/repository"
	"learnhub_portal/internal/state"
	"learnhub_portal/pkg/logger"
	"learnhub_portal/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	resolveTimeout  = 10 * time.Second
	defaultIdleTime = 30 * time.Minute
)

// StatePublisher receives every state a client ends up in after an
// identity change.
type StatePublisher interface {
	PublishState(clientID string, s state.AppState)
}

// SessionService connects clients to the identity provider. For every
// attached client it listens for session changes and turns them into
// state transitions: an identity is looked up in the users collection
// and the stored record decides the view set; an identity without a
// record is signed out.
type SessionService struct {
	provider  *identity.Provider
	users     *repository.UserRepository
	machine   *state.Machine
	publisher StatePublisher
	idle      time.Duration

	mu       sync.Mutex
	attached map[string]*attachment
}

type attachment struct {
	once        sync.Once
	unsubscribe func()
	lastSeen    time.Time
}

func NewSessionService(provider *identity.Provider, users *repository.UserRepository, machine *state.Machine, publisher StatePublisher) *SessionService {
	return &SessionService{
		provider:  provider,
		users:     users,
		machine:   machine,
		publisher: publisher,
		idle:      defaultIdleTime,
		attached:  make(map[string]*attachment),
	}
}

// SetIdleTimeout changes how long an attachment survives without
// requests from its client.
func (s *SessionService) SetIdleTimeout(d time.Duration) {
	s.mu.Lock()
	s.idle = d
	s.mu.Unlock()
}

// Attach makes sure clientID is subscribed to session changes and
// returns its current state. The first attach resolves the session
// before returning. Later attaches retry resolution when the client is
// not signed in but the provider has an identity for it.
func (s *SessionService) Attach(ctx context.Context, clientID string) (state.AppState, error) {
	s.mu.Lock()
	a, ok := s.attached[clientID]
	if !ok {
		a = &attachment{}
		s.attached[clientID] = a
	}
	a.lastSeen = time.Now()
	s.mu.Unlock()

	first := false
	a.once.Do(func() {
		first = true
		a.unsubscribe = s.provider.OnSessionChange(ctx, clientID, func(id *identity.Identity) {
			s.resolve(clientID, id)
		})
	})
	if first {
		return s.machine.Get(ctx, clientID)
	}

	st, err := s.machine.Get(ctx, clientID)
	if err != nil || st.SignedIn() {
		return st, err
	}
	current, err := s.provider.Current(ctx, clientID)
	if err != nil {
		logger.Log.Error("Failed to read session", zap.String("clientId", clientID), zap.Error(err))
		return st, nil
	}
	if current == nil && st.Phase == state.PhaseSignedOut {
		return st, nil
	}
	s.resolve(clientID, current)
	return s.machine.Get(ctx, clientID)
}

// Detach stops listening for clientID's session changes.
func (s *SessionService) Detach(clientID string) {
	s.mu.Lock()
	a, ok := s.attached[clientID]
	delete(s.attached, clientID)
	s.mu.Unlock()
	if ok && a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// Attached reports whether clientID currently listens for changes.
func (s *SessionService) Attached(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.attached[clientID]
	return ok
}

// Run detaches idle clients until ctx is done.
func (s *SessionService) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.detachIdle(time.Now())
		}
	}
}

func (s *SessionService) detachIdle(now time.Time) int {
	s.mu.Lock()
	var idle []string
	for clientID, a := range s.attached {
		if now.Sub(a.lastSeen) > s.idle {
			idle = append(idle, clientID)
		}
	}
	s.mu.Unlock()

	for _, clientID := range idle {
		s.Detach(clientID)
	}
	if len(idle) > 0 {
		logger.Log.Debug("Detached idle clients", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// resolve turns the identity reported for clientID into state.
func (s *SessionService) resolve(clientID string, id *identity.Identity) {
	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	if id == nil {
		monitoring.SessionResolutions.WithLabelValues("signed_out").Inc()
		s.dispatch(ctx, clientID, state.SessionCleared{})
		return
	}

	s.dispatch(ctx, clientID, state.SessionPending{})

	user, err := s.users.FindByID(ctx, id.UID)
	switch {
	case err == nil:
		monitoring.SessionResolutions.WithLabelValues("resolved").Inc()
		s.dispatch(ctx, clientID, state.SessionResolved{User: *user})

	case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrMalformedRecord):
		monitoring.SessionResolutions.WithLabelValues("orphaned").Inc()
		logger.Log.Error("Signed-in identity has no usable user record, signing out",
			zap.String("clientId", clientID),
			zap.String("uid", id.UID),
			zap.Error(err))
		if err := s.provider.SignOut(ctx, clientID); err != nil {
			logger.Log.Error("Failed to sign out orphaned identity", zap.String("clientId", clientID), zap.Error(err))
		}
		s.dispatch(ctx, clientID, state.SessionCleared{})

	default:
		// the identity stays signed in; the next attach retries
		monitoring.SessionResolutions.WithLabelValues("failed").Inc()
		logger.Log.Error("Failed to look up user record",
			zap.String("clientId", clientID),
			zap.String("uid", id.UID),
			zap.Error(err))
		s.dispatch(ctx, clientID, state.SessionCleared{})
	}
}

func (s *SessionService) dispatch(ctx context.Context, clientID string, actions ...state.Action) {
	st, err := s.machine.Dispatch(ctx, clientID, actions...)
	if err != nil {
		logger.Log.Error("Failed to apply session change", zap.String("clientId", clientID), zap.Error(err))
		return
	}
	if s.publisher != nil {
		s.publisher.PublishState(clientID, st)
	}
}
