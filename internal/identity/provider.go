// Package identity is the application's identity provider: it keeps
// credentials, binds browser clients to signed-in identities and tells
// interested parties whenever a client's session changes.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"learnhub_portal/internal/model"
	"learnhub_portal/internal/repository"
	"learnhub_portal/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const (
	ProviderPassword = "password"

	minPasswordLength = 6
	stateTTL          = 10 * time.Minute
)

// Identity is a signed-in account as the provider knows it.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	Provider    string `json:"provider"`
}

// Listener receives the client's identity, nil when signed out.
type Listener func(id *Identity)

// Provisioner runs after an identity is created or federated in and
// before the client's session is bound to it.
type Provisioner func(ctx context.Context, id Identity) error

type Option func(*Provider)

func WithFederation(f Federation) Option {
	return func(p *Provider) { p.federation = f }
}

func WithProvisioner(fn Provisioner) Option {
	return func(p *Provider) { p.provision = fn }
}

// WithBcryptCost lowers the hashing cost, e.g. in tests.
func WithBcryptCost(cost int) Option {
	return func(p *Provider) { p.cost = cost }
}

// WithSignInLimit sets how many failed sign-ins per email are tolerated
// per window before auth/too-many-requests.
func WithSignInLimit(burst int, window time.Duration) Option {
	return func(p *Provider) {
		p.limitBurst = burst
		p.limitEvery = rate.Every(window / time.Duration(burst))
	}
}

type Provider struct {
	creds      repository.CredentialStore
	sessions   repository.SessionStore
	bus        repository.Broadcaster
	federation Federation
	provision  Provisioner
	stateKey   []byte
	cost       int

	mu        sync.RWMutex
	listeners map[string]map[int]Listener
	nextID    int

	limitMu    sync.Mutex
	limiters   map[string]*rate.Limiter
	limitBurst int
	limitEvery rate.Limit

	stopBus   func()
	stopSweep context.CancelFunc
}

func NewProvider(creds repository.CredentialStore, sessions repository.SessionStore, bus repository.Broadcaster, stateSecret string, opts ...Option) *Provider {
	p := &Provider{
		creds:      creds,
		sessions:   sessions,
		bus:        bus,
		stateKey:   []byte(stateSecret),
		cost:       bcrypt.DefaultCost,
		listeners:  make(map[string]map[int]Listener),
		limiters:   make(map[string]*rate.Limiter),
		limitBurst: 5,
		limitEvery: rate.Every(time.Minute),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start relays session changes made on other instances to local
// listeners until ctx is done or Stop is called.
func (p *Provider) Start(ctx context.Context) error {
	stop, err := p.bus.Subscribe(ctx, func(clientID string) {
		p.fire(context.Background(), clientID)
	})
	if err != nil {
		return fmt.Errorf("subscribe session changes: %w", err)
	}
	p.stopBus = stop

	sweepCtx, cancel := context.WithCancel(ctx)
	p.stopSweep = cancel
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case now := <-ticker.C:
				p.sweepLimiters(now)
			}
		}
	}()
	return nil
}

func (p *Provider) Stop() {
	if p.stopBus != nil {
		p.stopBus()
	}
	if p.stopSweep != nil {
		p.stopSweep()
	}
}

// OnSessionChange registers listener for clientID. It is called once
// right away with the current identity and again after every sign-in or
// sign-out of that client. The returned func unregisters it.
func (p *Provider) OnSessionChange(ctx context.Context, clientID string, listener Listener) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	if p.listeners[clientID] == nil {
		p.listeners[clientID] = make(map[int]Listener)
	}
	p.listeners[clientID][id] = listener
	p.mu.Unlock()

	current, err := p.Current(ctx, clientID)
	if err != nil {
		logger.Log.Error("Failed to read session", zap.String("clientId", clientID), zap.Error(err))
	}
	listener(current)

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners[clientID], id)
		if len(p.listeners[clientID]) == 0 {
			delete(p.listeners, clientID)
		}
	}
}

// Current returns the identity clientID is signed in as, or nil.
func (p *Provider) Current(ctx context.Context, clientID string) (*Identity, error) {
	uid, ok, err := p.sessions.Get(ctx, clientID)
	if err != nil || !ok {
		return nil, err
	}
	cred, err := p.creds.FindByID(ctx, uid)
	if errors.Is(err, repository.ErrCredentialNotFound) {
		// credential removed behind our back
		_ = p.sessions.Delete(ctx, clientID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	id := identityOf(cred)
	return &id, nil
}

func (p *Provider) SignInWithCredentials(ctx context.Context, clientID, email, password string) (*Identity, error) {
	if !p.allow(email) {
		return nil, newError(CodeTooManyRequests, nil)
	}

	cred, err := p.creds.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrCredentialNotFound) {
		return nil, newError(CodeInvalidCredential, nil)
	}
	if err != nil {
		return nil, newError(CodeInternal, err)
	}
	if cred.PasswordHash == "" {
		return nil, newError(CodeInvalidCredential, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, newError(CodeInvalidCredential, nil)
	}

	p.reset(email)
	id := identityOf(cred)
	if err := p.bind(ctx, clientID, id); err != nil {
		return nil, err
	}
	return &id, nil
}

// RegisterWithCredentials creates a password account and signs the
// client in as it.
func (p *Provider) RegisterWithCredentials(ctx context.Context, clientID, email, password, displayName string) (*Identity, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, newError(CodeInvalidEmail, err)
	}
	if len(password) < minPasswordLength {
		return nil, newError(CodeWeakPassword, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, newError(CodeInternal, err)
	}

	cred := &model.Credential{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(displayName),
		Provider:     ProviderPassword,
	}
	cred.ID = model.NewID()
	if err := p.creds.Create(ctx, cred); err != nil {
		if errors.Is(err, repository.ErrEmailRegistered) {
			return nil, newError(CodeEmailAlreadyInUse, nil)
		}
		return nil, newError(CodeInternal, err)
	}

	id := identityOf(cred)
	if err := p.runProvisioner(ctx, id); err != nil {
		return nil, err
	}
	if err := p.bind(ctx, clientID, id); err != nil {
		return nil, err
	}
	return &id, nil
}

// FederatedAuthURL starts a federated sign-in for clientID. The returned
// state must come back unchanged with the callback.
func (p *Provider) FederatedAuthURL(clientID string) (url, state string, err error) {
	if p.federation == nil {
		return "", "", newError(CodeOperationNotAllowed, nil)
	}
	state, err = p.issueState(clientID)
	if err != nil {
		return "", "", newError(CodeInternal, err)
	}
	return p.federation.AuthCodeURL(state), state, nil
}

// SignInWithFederatedProvider completes a federated sign-in. Accounts
// seen for the first time get a credential; an existing password account
// with the same email is linked only when the provider verified it.
func (p *Provider) SignInWithFederatedProvider(ctx context.Context, clientID, state, code string) (*Identity, error) {
	if p.federation == nil {
		return nil, newError(CodeOperationNotAllowed, nil)
	}
	if err := p.verifyState(clientID, state); err != nil {
		return nil, newError(CodeInvalidOAuthState, err)
	}

	profile, err := p.federation.Exchange(ctx, code)
	if err != nil {
		return nil, newError(CodeFederatedSignInFailed, err)
	}

	cred, err := p.federatedCredential(ctx, profile)
	if errors.Is(err, errUnverifiedLink) {
		return nil, newError(CodeAccountExists, err)
	}
	if err != nil {
		return nil, newError(CodeInternal, err)
	}

	id := identityOf(cred)
	if id.DisplayName == "" {
		id.DisplayName = profile.Name
	}
	if id.PhotoURL == "" {
		id.PhotoURL = profile.Picture
	}
	if err := p.runProvisioner(ctx, id); err != nil {
		return nil, err
	}
	if err := p.bind(ctx, clientID, id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (p *Provider) federatedCredential(ctx context.Context, profile FederatedProfile) (*model.Credential, error) {
	subject := p.federation.Name() + ":" + profile.Subject

	cred, err := p.creds.FindBySubject(ctx, subject)
	if err == nil {
		return cred, nil
	}
	if !errors.Is(err, repository.ErrCredentialNotFound) {
		return nil, err
	}

	cred, err = p.creds.FindByEmail(ctx, profile.Email)
	switch {
	case err == nil && !profile.EmailVerified:
		return nil, errUnverifiedLink
	case err == nil:
		cred.Subject = subject
		if cred.PhotoURL == "" {
			cred.PhotoURL = profile.Picture
		}
		if err := p.creds.Update(ctx, cred); err != nil {
			return nil, err
		}
		return cred, nil
	case !errors.Is(err, repository.ErrCredentialNotFound):
		return nil, err
	}

	cred = &model.Credential{
		Email:       profile.Email,
		DisplayName: profile.Name,
		PhotoURL:    profile.Picture,
		Provider:    p.federation.Name(),
		Subject:     subject,
	}
	cred.ID = model.NewID()
	if err := p.creds.Create(ctx, cred); err != nil {
		return nil, err
	}
	return cred, nil
}

// SignOut unbinds the client. Signing out a signed-out client is not an
// error and does not notify.
func (p *Provider) SignOut(ctx context.Context, clientID string) error {
	_, ok, err := p.sessions.Get(ctx, clientID)
	if err != nil {
		return newError(CodeInternal, err)
	}
	if !ok {
		return nil
	}
	if err := p.sessions.Delete(ctx, clientID); err != nil {
		return newError(CodeInternal, err)
	}
	p.notify(ctx, clientID)
	return nil
}

func (p *Provider) runProvisioner(ctx context.Context, id Identity) error {
	if p.provision == nil {
		return nil
	}
	if err := p.provision(ctx, id); err != nil {
		return newError(CodeInternal, err)
	}
	return nil
}

func (p *Provider) bind(ctx context.Context, clientID string, id Identity) error {
	if err := p.sessions.Put(ctx, clientID, id.UID); err != nil {
		return newError(CodeInternal, err)
	}
	p.notify(ctx, clientID)
	return nil
}

func (p *Provider) notify(ctx context.Context, clientID string) {
	p.fire(ctx, clientID)
	if err := p.bus.Publish(ctx, clientID); err != nil {
		logger.Log.Error("Failed to publish session change", zap.String("clientId", clientID), zap.Error(err))
	}
}

// fire calls the local listeners of clientID with its current identity.
func (p *Provider) fire(ctx context.Context, clientID string) {
	p.mu.RLock()
	listeners := make([]Listener, 0, len(p.listeners[clientID]))
	for _, l := range p.listeners[clientID] {
		listeners = append(listeners, l)
	}
	p.mu.RUnlock()
	if len(listeners) == 0 {
		return
	}

	current, err := p.Current(ctx, clientID)
	if err != nil {
		logger.Log.Error("Failed to read session", zap.String("clientId", clientID), zap.Error(err))
		return
	}
	for _, l := range listeners {
		l(current)
	}
}

func (p *Provider) limiter(email string) *rate.Limiter {
	key := strings.ToLower(strings.TrimSpace(email))
	p.limitMu.Lock()
	defer p.limitMu.Unlock()
	l, ok := p.limiters[key]
	if !ok {
		l = rate.NewLimiter(p.limitEvery, p.limitBurst)
		p.limiters[key] = l
	}
	return l
}

// allow spends one attempt of email's budget. Successful sign-ins give
// the budget back through reset.
func (p *Provider) allow(email string) bool {
	return p.limiter(email).Allow()
}

// sweepLimiters drops limiters that have refilled completely; a fresh
// limiter behaves the same.
func (p *Provider) sweepLimiters(now time.Time) int {
	p.limitMu.Lock()
	defer p.limitMu.Unlock()
	dropped := 0
	for key, l := range p.limiters {
		if l.TokensAt(now) >= float64(p.limitBurst) {
			delete(p.limiters, key)
			dropped++
		}
	}
	return dropped
}

func (p *Provider) reset(email string) {
	key := strings.ToLower(strings.TrimSpace(email))
	p.limitMu.Lock()
	delete(p.limiters, key)
	p.limitMu.Unlock()
}

type stateClaims struct {
	ClientID string `json:"cid"`
	jwt.RegisteredClaims
}

func (p *Provider) issueState(clientID string) (string, error) {
	claims := stateClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        model.NewID(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(stateTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.stateKey)
}

func (p *Provider) verifyState(clientID, state string) error {
	claims := &stateClaims{}
	_, err := jwt.ParseWithClaims(state, claims, func(token *jwt.Token) (interface{}, error) {
		return p.stateKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return err
	}
	if claims.ClientID != clientID {
		return errors.New("state issued to another client")
	}
	return nil
}

func identityOf(c *model.Credential) Identity {
	return Identity{
		UID:         c.ID,
		Email:       c.Email,
		DisplayName: c.DisplayName,
		PhotoURL:    c.PhotoURL,
		Provider:    c.Provider,
	}
}
