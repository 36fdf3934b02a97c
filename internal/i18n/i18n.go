// Package i18n resolves label keys such as "consoles.ps5" to display text.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when no language is configured and as the
// fallback for keys missing from another catalog.
const DefaultLanguage = "en"

//go:embed locales/*.yaml
var locales embed.FS

// Translator looks up labels in one language catalog.
type Translator struct {
	lang     string
	labels   map[string]string
	fallback map[string]string
}

// New returns a Translator for lang. An empty lang selects DefaultLanguage.
func New(lang string) (*Translator, error) {
	if lang == "" {
		lang = DefaultLanguage
	}

	fallback, err := loadCatalog(DefaultLanguage)
	if err != nil {
		return nil, err
	}
	labels := fallback
	if lang != DefaultLanguage {
		if labels, err = loadCatalog(lang); err != nil {
			return nil, err
		}
	}

	return &Translator{lang: lang, labels: labels, fallback: fallback}, nil
}

// Language returns the catalog in use.
func (t *Translator) Language() string {
	return t.lang
}

// T returns the text for key, or key itself when no catalog has it.
func (t *Translator) T(key string) string {
	if s, ok := t.labels[key]; ok {
		return s
	}
	if s, ok := t.fallback[key]; ok {
		return s
	}
	return key
}

// Languages lists the embedded catalogs.
func Languages() []string {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		langs = append(langs, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(langs)
	return langs
}

func loadCatalog(lang string) (map[string]string, error) {
	data, err := locales.ReadFile("locales/" + lang + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parsing %s catalog: %w", lang, err)
	}

	labels := make(map[string]string)
	flatten("", tree, labels)
	return labels, nil
}

// flatten turns nested maps into dotted keys.
func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
