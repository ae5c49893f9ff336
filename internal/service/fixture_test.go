package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"learnhub_portal/internal/i18n"
	"learnhub_portal/internal/identity"
	"learnhub_portal/internal/model"
	"learnhub_portal/internal/repository"
	"learnhub_portal/internal/seed"
	"learnhub_portal/internal/state"
	"learnhub_portal/internal/validation"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminEmail = "admin@learnhub.test"

// flakyStore fails every call touching a collection with one of the
// configured prefixes.
type flakyStore struct {
	repository.DocumentStore
	mu       sync.Mutex
	failing  []string
	failures int
}

var errStoreDown = errors.New("store unavailable")

func (s *flakyStore) fail(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = append(s.failing, prefix)
}

func (s *flakyStore) heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = nil
}

func (s *flakyStore) broken(collection string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.failing {
		if strings.HasPrefix(collection, p) {
			s.failures++
			return true
		}
	}
	return false
}

func (s *flakyStore) FetchAll(ctx context.Context, collection string) ([]repository.Document, error) {
	if s.broken(collection) {
		return nil, errStoreDown
	}
	return s.DocumentStore.FetchAll(ctx, collection)
}

func (s *flakyStore) Get(ctx context.Context, collection, id string) (repository.Document, error) {
	if s.broken(collection) {
		return nil, errStoreDown
	}
	return s.DocumentStore.Get(ctx, collection, id)
}

// publisherRecorder keeps every published state.
type publisherRecorder struct {
	mu     sync.Mutex
	states []state.AppState
}

func (p *publisherRecorder) PublishState(_ string, st state.AppState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, st)
}

func (p *publisherRecorder) last() (state.AppState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.states) == 0 {
		return state.AppState{}, false
	}
	return p.states[len(p.states)-1], true
}

type fixture struct {
	store       *flakyStore
	users       *repository.UserRepository
	courses     *repository.CourseRepository
	enrollments *repository.EnrollmentRepository
	catalog     *i18n.Catalog
	machine     *state.Machine
	tracker     *RenderTracker
	provider    *identity.Provider
	provisioner *UserProvisioner
	published   *publisherRecorder
	sessions    *SessionService
	screens     *ScreenService
	app         *AppService
	auth        *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := &flakyStore{DocumentStore: repository.NewMemoryDocumentStore()}
	_, err := seed.Load(ctx, store)
	require.NoError(t, err)

	catalog, err := i18n.NewCatalog(i18n.English)
	require.NoError(t, err)

	f := &fixture{
		store:     store,
		users:     repository.NewUserRepository(store),
		courses:   repository.NewCourseRepository(store),
		catalog:   catalog,
		machine:   state.NewMachine(state.NewMemoryStore(), func() i18n.Language { return i18n.English }),
		tracker:   NewRenderTracker(),
		published: &publisherRecorder{},
	}
	f.enrollments = repository.NewEnrollmentRepository(store, f.courses)
	f.provisioner = NewUserProvisioner(f.users, func() string { return adminEmail })
	f.provider = identity.NewProvider(
		repository.NewMemoryCredentialRepository(),
		repository.NewMemorySessionStore(),
		repository.NewMemoryBus().Broadcaster("test"),
		"state-secret",
		identity.WithBcryptCost(bcrypt.MinCost),
		identity.WithProvisioner(f.provisioner.Provision),
	)
	f.sessions = NewSessionService(f.provider, f.users, f.machine, f.published)
	f.screens = NewScreenService(f.users, f.courses, f.enrollments,
		&StorageService{Provider: &LocalContentProvider{BaseURL: "/static/"}},
		catalog, f.machine, f.tracker)
	f.app = NewAppService(f.sessions, f.machine, f.tracker, f.published)
	f.auth = NewAuthService(f.provider, validation.New(catalog), catalog, f.tracker)
	return f
}

// signInAs puts clientID straight into the signed-in state of a stored
// user, bypassing the identity provider.
func (f *fixture) signInAs(t *testing.T, clientID, uid string) state.AppState {
	t.Helper()
	ctx := context.Background()
	user, err := f.users.FindByID(ctx, uid)
	require.NoError(t, err)
	st, err := f.machine.Dispatch(ctx, clientID, state.SessionResolved{User: *user})
	require.NoError(t, err)
	return st
}

func (f *fixture) saveUser(t *testing.T, u model.User) {
	t.Helper()
	require.NoError(t, f.users.Save(context.Background(), &u))
}
