package service

import (
	"context"
	"testing"

	"learnhub_portal/internal/i18n"
	"learnhub_portal/internal/identity"
	"learnhub_portal/internal/state"
	"learnhub_portal/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerForm(email string) *validation.RegisterForm {
	return &validation.RegisterForm{
		FullName:        "Sam Lee",
		Email:           email,
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
		AgreedToTerms:   true,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, msg, err := f.auth.Register(ctx, "c1", i18n.English, registerForm("sam@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "Sam Lee", id.DisplayName)
	assert.Equal(t, f.catalog.T(i18n.English, "registration_success"), msg)

	require.NoError(t, f.auth.Logout(ctx, "c1", i18n.English))

	id2, err := f.auth.Login(ctx, "c2", i18n.English, &validation.LoginForm{Email: "sam@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, id.UID, id2.UID)
}

func TestRegisterFormErrors(t *testing.T) {
	f := newFixture(t)

	form := registerForm("not-an-email")
	form.ConfirmPassword = "Other123"
	_, _, err := f.auth.Register(context.Background(), "c1", i18n.English, form)

	var fields validation.FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "confirmPassword")
}

func TestLoginProviderErrorIsLocalized(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Login(context.Background(), "c1", i18n.Bengali, &validation.LoginForm{Email: "nobody@example.com", Password: "whatever"})

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.NotEmpty(t, authErr.Code)
	assert.Equal(t, f.catalog.ProviderError(i18n.Bengali, authErr.Code), authErr.Message)
	assert.NotEmpty(t, identity.CodeOf(err))
}

func TestDuplicateRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.auth.Register(ctx, "c1", i18n.English, registerForm("sam@example.com"))
	require.NoError(t, err)
	_, _, err = f.auth.Register(ctx, "c2", i18n.English, registerForm("sam@example.com"))

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, identity.CodeEmailAlreadyInUse, authErr.Code)
}

func TestGoogleWithoutFederationIsNotAllowed(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.auth.GoogleAuthURL("c1", i18n.English)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, identity.CodeOperationNotAllowed, authErr.Code)
}

func TestLogoutCancelsRenders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, err := f.auth.Register(ctx, "c1", i18n.English, registerForm("sam@example.com"))
	require.NoError(t, err)

	renderCtx, done := f.tracker.Begin(ctx, "c1")
	defer done()
	require.NoError(t, f.auth.Logout(ctx, "c1", i18n.English))
	assert.Error(t, renderCtx.Err())

	// signing out twice is fine
	require.NoError(t, f.auth.Logout(ctx, "c1", i18n.English))
}

func TestShowAuthViewAndToggleLanguagePublish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.sessions.Attach(ctx, "c1")
	require.NoError(t, err)

	st, err := f.app.ShowAuthView(ctx, "c1", state.AuthRegister)
	require.NoError(t, err)
	assert.Equal(t, state.AuthRegister, st.AuthView)

	st, err = f.app.ToggleLanguage(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, i18n.Bengali, st.Language)

	last, ok := f.published.last()
	require.True(t, ok)
	assert.Equal(t, i18n.Bengali, last.Language)
	assert.Equal(t, state.AuthRegister, last.AuthView)
}
