package service

import (
	"context"
	"errors"

	"learnhub_portal/internal/i18n"
	"learnhub_portal/internal/identity"
	"learnhub_portal/internal/validation"
	"learnhub_portal/pkg/logger"

	"go.uber.org/zap"
)

// AuthError is a localized identity provider failure.
type AuthError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Code + ": " + e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// AuthService validates sign-in forms before they reach the identity
// provider and localizes what the provider reports back. Form problems
// are returned as validation.FieldErrors, provider problems as
// *AuthError.
type AuthService struct {
	provider  *identity.Provider
	validator *validation.Validator
	catalog   *i18n.Catalog
	tracker   *RenderTracker
}

func NewAuthService(provider *identity.Provider, validator *validation.Validator, catalog *i18n.Catalog, tracker *RenderTracker) *AuthService {
	return &AuthService{
		provider:  provider,
		validator: validator,
		catalog:   catalog,
		tracker:   tracker,
	}
}

func (s *AuthService) Login(ctx context.Context, clientID string, lang i18n.Language, form *validation.LoginForm) (*identity.Identity, error) {
	if fields := s.validator.Login(lang, form); fields != nil {
		return nil, fields
	}
	id, err := s.provider.SignInWithCredentials(ctx, clientID, form.Email, form.Password)
	if err != nil {
		return nil, s.localize(lang, err)
	}
	return id, nil
}

// Register creates a password account. The returned message confirms
// the registration in lang.
func (s *AuthService) Register(ctx context.Context, clientID string, lang i18n.Language, form *validation.RegisterForm) (*identity.Identity, string, error) {
	if fields := s.validator.Register(lang, form); fields != nil {
		return nil, "", fields
	}
	id, err := s.provider.RegisterWithCredentials(ctx, clientID, form.Email, form.Password, form.FullName)
	if err != nil {
		return nil, "", s.localize(lang, err)
	}
	return id, s.catalog.T(lang, "registration_success"), nil
}

// GoogleAuthURL starts a federated sign-in and returns where to send the
// browser together with the state to expect back.
func (s *AuthService) GoogleAuthURL(clientID string, lang i18n.Language) (url, state string, err error) {
	url, state, err = s.provider.FederatedAuthURL(clientID)
	if err != nil {
		return "", "", s.localize(lang, err)
	}
	return url, state, nil
}

func (s *AuthService) GoogleCallback(ctx context.Context, clientID string, lang i18n.Language, state, code string) (*identity.Identity, error) {
	id, err := s.provider.SignInWithFederatedProvider(ctx, clientID, state, code)
	if err != nil {
		return nil, s.localize(lang, err)
	}
	return id, nil
}

// Logout signs the client out and abandons its in-flight renders.
func (s *AuthService) Logout(ctx context.Context, clientID string, lang i18n.Language) error {
	s.tracker.Cancel(clientID)
	if err := s.provider.SignOut(ctx, clientID); err != nil {
		return s.localize(lang, err)
	}
	return nil
}

func (s *AuthService) localize(lang i18n.Language, err error) error {
	code := identity.CodeOf(err)
	if code == "" || code == identity.CodeInternal {
		logger.Log.Error("Identity provider failure", zap.Error(err))
	}
	var idErr *identity.Error
	if !errors.As(err, &idErr) {
		code = i18n.UnknownErrorKey
	}
	return &AuthError{Code: code, Message: s.catalog.ProviderError(lang, code), Err: err}
}
