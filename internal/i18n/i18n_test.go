package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(English)
	require.NoError(t, err)
	return c
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range englishMessages {
		_, ok := bengaliMessages[key]
		assert.True(t, ok, "bn missing %q", key)
	}
	for key := range bengaliMessages {
		_, ok := englishMessages[key]
		assert.True(t, ok, "en missing %q", key)
	}
}

func TestTranslate(t *testing.T) {
	c := newCatalog(t)

	assert.Equal(t, "Dashboard", c.T(English, "dashboard"))
	assert.Equal(t, "ড্যাশবোর্ড", c.T(Bengali, "dashboard"))
	assert.Equal(t, "no_such_key", c.T(English, "no_such_key"))
	assert.Equal(t, "Dashboard", c.T(Language("fr"), "dashboard"))
}

func TestTranslateParams(t *testing.T) {
	c := newCatalog(t)

	assert.Equal(t, "Welcome back, Alice!", c.T(English, "welcome_back", map[string]interface{}{"name": "Alice"}))
	assert.Equal(t, "Welcome back, {name}!", c.T(English, "welcome_back"))
	assert.Equal(t, "Welcome back, {name}!", c.T(English, "welcome_back", map[string]interface{}{"other": 1}))
	assert.Equal(t, "By Jane Doe", c.T(English, "by_instructor", map[string]interface{}{"instructor": "Jane Doe"}))
}

func TestProviderError(t *testing.T) {
	c := newCatalog(t)

	assert.Equal(t, "Invalid email or password.", c.ProviderError(English, "auth/invalid-credential"))
	assert.Equal(t, c.T(English, UnknownErrorKey), c.ProviderError(English, "auth/something-new"))
	assert.Equal(t, c.T(Bengali, UnknownErrorKey), c.ProviderError(Bengali, ""))
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, Bengali, English.Toggle())
	assert.Equal(t, English, Bengali.Toggle())
	assert.Equal(t, "BN", English.ToggleLabel())
	assert.Equal(t, "EN", Bengali.ToggleLabel())

	l, ok := ParseLanguage("BN")
	assert.True(t, ok)
	assert.Equal(t, Bengali, l)

	_, ok = ParseLanguage("fr")
	assert.False(t, ok)
}

func TestCompile(t *testing.T) {
	text, names := compile("{a} and {b} and {a}")
	assert.Equal(t, "{0} and {1} and {2}", text)
	assert.Equal(t, []string{"a", "b", "a"}, names)
}
