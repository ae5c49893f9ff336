// Package validation checks the sign-in and registration forms before
// anything is sent to the identity provider. Failures are reported per
// field as localized messages.
package validation

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"learnhub_portal/internal/i18n"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags
	passwordStrengthTag = "password_strength"
	emailFormatTag      = "email_format"
	emailRegex          = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FormKey holds form level errors that are not tied to one field.
const FormKey = "form"

// LoginForm is the email/password sign-in form.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email_format"`
	Password string `json:"password" validate:"required"`
}

// RegisterForm is the account creation form.
type RegisterForm struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email_format"`
	Password        string `json:"password" validate:"required,min=8,password_strength"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	AgreedToTerms   bool   `json:"terms" validate:"required"`
}

// messageKeys maps "field.tag" to a catalog key.
var messageKeys = map[string]string{
	"fullName.required":           "full_name_required",
	"email.required":              "email_required",
	"email.email_format":          "email_invalid",
	"password.required":           "password_required",
	"password.min":                "password_min_length",
	"password.password_strength":  "password_strength",
	"confirmPassword.required":    "confirm_password_required",
	"confirmPassword.eq_password": "passwords_no_match",
	"terms.required":              "terms_required",
}

// FieldErrors maps a json field name (or FormKey) to a localized message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

type Validator struct {
	validate *validator.Validate
	fallback ut.Translator
	catalog  *i18n.Catalog
}

func New(catalog *i18n.Catalog) *Validator {
	validate := validator.New()

	// Default english messages for rules without a catalog entry.
	_en := en.New()
	uni := ut.New(_en, _en)
	fallback, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, fallback)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(passwordStrengthTag, passwordStrengthValidation)
	_ = validate.RegisterValidation(emailFormatTag, emailFormatValidation)
	validate.RegisterStructValidation(registerStructValidation, RegisterForm{})

	return &Validator{validate: validate, fallback: fallback, catalog: catalog}
}

// Login rejects the form with a single form level email_invalid error
// when the email is malformed or the password is empty.
func (v *Validator) Login(lang i18n.Language, form *LoginForm) FieldErrors {
	form.Email = strings.TrimSpace(form.Email)
	if err := v.validate.Struct(form); err != nil {
		return FieldErrors{FormKey: v.catalog.T(lang, "email_invalid")}
	}
	return nil
}

// Register reports at most one message per field.
func (v *Validator) Register(lang i18n.Language, form *RegisterForm) FieldErrors {
	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = strings.TrimSpace(form.Email)
	return v.fieldErrors(lang, v.validate.Struct(form))
}

func (v *Validator) fieldErrors(lang i18n.Language, err error) FieldErrors {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{FormKey: v.catalog.T(lang, i18n.UnknownErrorKey)}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		if key, ok := messageKeys[fe.Field()+"."+fe.Tag()]; ok {
			out[fe.Field()] = v.catalog.T(lang, key)
			continue
		}
		out[fe.Field()] = fe.Translate(v.fallback)
	}
	return out
}

// registerStructValidation only compares the confirmation when both
// passwords are present; a missing one is reported by its own rule.
func registerStructValidation(sl validator.StructLevel) {
	form := sl.Current().Interface().(RegisterForm)
	if form.Password != "" && form.ConfirmPassword != "" && form.Password != form.ConfirmPassword {
		sl.ReportError(form.ConfirmPassword, "confirmPassword", "ConfirmPassword", "eq_password", "")
	}
}

// passwordStrengthValidation requires an upper case letter, a lower case
// letter and a digit.
func passwordStrengthValidation(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func emailFormatValidation(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}
