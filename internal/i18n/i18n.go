// Package i18n holds the English and Bengali message catalogs and the
// lookup used by screens, validation and provider error reporting.
package i18n

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/locales/bn"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
)

type Language string

const (
	English Language = "en"
	Bengali Language = "bn"
)

const UnknownErrorKey = "unknown_error"

// ParseLanguage accepts "en" and "bn".
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(s)) {
	case English:
		return English, true
	case Bengali:
		return Bengali, true
	}
	return "", false
}

// Toggle flips between the two supported languages.
func (l Language) Toggle() Language {
	if l == Bengali {
		return English
	}
	return Bengali
}

// ToggleLabel is the caption of the button that switches away from l.
func (l Language) ToggleLabel() string {
	if l == Bengali {
		return "EN"
	}
	return "BN"
}

var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// compile rewrites named placeholders into the positional form the
// translator understands and returns the names in position order.
func compile(text string) (string, []string) {
	var names []string
	out := placeholder.ReplaceAllStringFunc(text, func(m string) string {
		names = append(names, m[1:len(m)-1])
		return fmt.Sprintf("{%d}", len(names)-1)
	})
	return out, names
}

type Catalog struct {
	uni         *ut.UniversalTranslator
	translators map[Language]ut.Translator
	params      map[Language]map[string][]string
	fallback    Language
}

// NewCatalog loads both catalogs. fallback is used for unsupported languages.
func NewCatalog(fallback Language) (*Catalog, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, bn.New())

	c := &Catalog{
		uni:         uni,
		translators: make(map[Language]ut.Translator, 2),
		params:      make(map[Language]map[string][]string, 2),
		fallback:    fallback,
	}

	for lang, messages := range map[Language]map[string]string{
		English: englishMessages,
		Bengali: bengaliMessages,
	} {
		trans, found := uni.GetTranslator(string(lang))
		if !found {
			return nil, fmt.Errorf("no locale for language %q", lang)
		}
		names := make(map[string][]string)
		for key, text := range messages {
			compiled, params := compile(text)
			if err := trans.Add(key, compiled, false); err != nil {
				return nil, fmt.Errorf("add %s message %q: %w", lang, key, err)
			}
			if len(params) > 0 {
				names[key] = params
			}
		}
		c.translators[lang] = trans
		c.params[lang] = names
	}

	if _, ok := c.translators[fallback]; !ok {
		c.fallback = English
	}
	return c, nil
}

// Translator exposes the underlying translator, e.g. for validator
// translations.
func (c *Catalog) Translator(lang Language) ut.Translator {
	return c.translators[c.resolve(lang)]
}

func (c *Catalog) resolve(lang Language) Language {
	if _, ok := c.translators[lang]; ok {
		return lang
	}
	return c.fallback
}

// Has reports whether key exists in the catalog of lang.
func (c *Catalog) Has(lang Language, key string) bool {
	_, err := c.Translator(lang).T(key)
	return err == nil
}

// T looks up key and substitutes {name} placeholders from params. A
// missing key is returned as-is.
// Placeholders without a value are left in place.
func (c *Catalog) T(lang Language, key string, params ...map[string]interface{}) string {
	lang = c.resolve(lang)
	names := c.params[lang][key]
	args := make([]string, len(names))
	for i, name := range names {
		args[i] = "{" + name + "}"
		if len(params) > 0 {
			if v, ok := params[0][name]; ok {
				args[i] = fmt.Sprint(v)
			}
		}
	}

	text, err := c.translators[lang].T(key, args...)
	if err != nil {
		return key
	}
	return text
}

// ProviderError localizes an identity provider error code, falling back
// to the generic unknown error message.
func (c *Catalog) ProviderError(lang Language, code string) string {
	if code != "" && c.Has(lang, code) {
		return c.T(lang, code)
	}
	return c.T(lang, UnknownErrorKey)
}
