package validation

import (
	"testing"

	"learnhub_portal/internal/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) (*Validator, *i18n.Catalog) {
	t.Helper()
	catalog, err := i18n.NewCatalog(i18n.English)
	require.NoError(t, err)
	return New(catalog), catalog
}

func validRegisterForm() RegisterForm {
	return RegisterForm{
		FullName:        "Rahim Uddin",
		Email:           "rahim@example.com",
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
		AgreedToTerms:   true,
	}
}

func TestLogin(t *testing.T) {
	v, catalog := newValidator(t)

	assert.Nil(t, v.Login(i18n.English, &LoginForm{Email: " a@b.co ", Password: "x"}))

	for _, form := range []LoginForm{
		{Email: "not-an-email", Password: "x"},
		{Email: "a@b.co", Password: ""},
		{},
	} {
		errs := v.Login(i18n.Bengali, &form)
		require.Len(t, errs, 1)
		assert.Equal(t, catalog.T(i18n.Bengali, "email_invalid"), errs[FormKey])
	}
}

func TestRegisterValid(t *testing.T) {
	v, _ := newValidator(t)
	form := validRegisterForm()
	form.FullName = "  Rahim Uddin "

	assert.Nil(t, v.Register(i18n.English, &form))
	assert.Equal(t, "Rahim Uddin", form.FullName)
}

func TestRegisterFieldMessages(t *testing.T) {
	v, catalog := newValidator(t)

	tests := []struct {
		name   string
		mutate func(*RegisterForm)
		field  string
		key    string
	}{
		{"blank name", func(f *RegisterForm) { f.FullName = "   " }, "fullName", "full_name_required"},
		{"missing email", func(f *RegisterForm) { f.Email = "" }, "email", "email_required"},
		{"bad email", func(f *RegisterForm) { f.Email = "rahim@" }, "email", "email_invalid"},
		{"missing password", func(f *RegisterForm) { f.Password = ""; f.ConfirmPassword = "" }, "password", "password_required"},
		{"short password", func(f *RegisterForm) { f.Password = "Ab1"; f.ConfirmPassword = "Ab1" }, "password", "password_min_length"},
		{"weak password", func(f *RegisterForm) { f.Password = "abcdefgh"; f.ConfirmPassword = "abcdefgh" }, "password", "password_strength"},
		{"missing confirmation", func(f *RegisterForm) { f.ConfirmPassword = "" }, "confirmPassword", "confirm_password_required"},
		{"mismatch", func(f *RegisterForm) { f.ConfirmPassword = "Secret124" }, "confirmPassword", "passwords_no_match"},
		{"terms", func(f *RegisterForm) { f.AgreedToTerms = false }, "terms", "terms_required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validRegisterForm()
			tt.mutate(&form)

			errs := v.Register(i18n.English, &form)
			require.Contains(t, errs, tt.field)
			assert.Equal(t, catalog.T(i18n.English, tt.key), errs[tt.field])
		})
	}
}

func TestRegisterMismatchNeedsPassword(t *testing.T) {
	v, _ := newValidator(t)
	form := validRegisterForm()
	form.Password = ""

	errs := v.Register(i18n.English, &form)
	assert.Contains(t, errs, "password")
	assert.NotContains(t, errs, "confirmPassword")
}

func TestRegisterOneMessagePerField(t *testing.T) {
	v, _ := newValidator(t)

	errs := v.Register(i18n.English, &RegisterForm{})
	assert.Len(t, errs, 5)
	assert.NotEmpty(t, errs.Error())
}
