// Package i18n supplies the translation function the renderer uses for
// labels that the schema does not spell out inline.
//
// The renderer only depends on [Translator]. Catalogs are flat JSON
// objects, one file per locale (en.json, fr.json...), the format of the
// YunoHost locales directory.
package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is used when nothing better matches.
const DefaultLocale = "en"

// Translator returns the text of msgid in locale with {name} placeholders
// replaced from params. When no translation exists it returns msgid.
type Translator func(msgid, locale string, params map[string]string) string

// Identity is a Translator that knows no messages.
func Identity(msgid, _ string, _ map[string]string) string {
	return msgid
}

// Catalog holds the messages of every loaded locale.
type Catalog struct {
	messages map[string]map[string]string
}

// NewCatalog builds a catalog from in-memory messages keyed by locale.
func NewCatalog(messages map[string]map[string]string) *Catalog {
	return &Catalog{messages: messages}
}

// LoadCatalog reads every *.json file in dir. A missing directory yields an
// empty catalog.
func LoadCatalog(dir string) (*Catalog, error) {
	c := &Catalog{messages: make(map[string]map[string]string)}
	if dir == "" {
		return c, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read locales dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
		var messages map[string]string
		if err := json.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
		}
		c.messages[strings.TrimSuffix(e.Name(), ".json")] = messages
	}
	return c, nil
}

// Locales returns the loaded locales, sorted.
func (c *Catalog) Locales() []string {
	locales := make([]string, 0, len(c.messages))
	for l := range c.messages {
		locales = append(locales, l)
	}
	slices.Sort(locales)
	return locales
}

// Translate looks msgid up in locale, then in DefaultLocale, and fills
// {name} placeholders. It satisfies Translator.
func (c *Catalog) Translate(msgid, locale string, params map[string]string) string {
	text, ok := c.messages[locale][msgid]
	if !ok {
		text, ok = c.messages[DefaultLocale][msgid]
	}
	if !ok {
		return msgid
	}
	return format(text, params)
}

func format(text string, params map[string]string) string {
	if len(params) == 0 {
		return text
	}
	pairs := make([]string, 0, 2*len(params))
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// MatchLocale picks the available locale closest to requested, which may
// be a POSIX value such as "fr_FR.UTF-8" or a BCP 47 tag. It falls back to
// DefaultLocale.
func MatchLocale(available []string, requested string) string {
	if len(available) == 0 {
		return DefaultLocale
	}
	tag, err := language.Parse(posixToBCP47(requested))
	if err != nil {
		return DefaultLocale
	}

	// The default goes first so the matcher falls back to it.
	ordered := []string{DefaultLocale}
	for _, l := range available {
		if l != DefaultLocale {
			ordered = append(ordered, l)
		}
	}
	tags := make([]language.Tag, 0, len(ordered))
	names := make([]string, 0, len(ordered))
	for _, l := range ordered {
		t, err := language.Parse(posixToBCP47(l))
		if err != nil {
			continue
		}
		tags = append(tags, t)
		names = append(names, l)
	}

	_, index, confidence := language.NewMatcher(tags).Match(tag)
	if confidence == language.No {
		return DefaultLocale
	}
	return names[index]
}

// SystemLocale reads the locale from LC_ALL, LC_MESSAGES and LANG.
func SystemLocale() string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); v != "" && v != "C" && v != "POSIX" {
			return v
		}
	}
	return DefaultLocale
}

// posixToBCP47 turns "fr_FR.UTF-8@euro" into "fr-FR".
func posixToBCP47(s string) string {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	return strings.ReplaceAll(s, "_", "-")
}
