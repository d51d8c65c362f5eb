package i18n

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var builtin embed.FS

// Kind selects a size-specific message variant such as "min.string".
type Kind string

const (
	KindString  Kind = "string"
	KindNumeric Kind = "numeric"
	KindArray   Kind = "array"
	KindOther   Kind = ""
)

// Params describes one failed rule to be rendered as a message.
type Params struct {
	Tag   string
	Field string
	Param string
	Kind  Kind
	Value any
}

// Catalog holds message templates per locale, keyed by rule tag.
// Templates may use the placeholders :field, :param and :value.
// Field display names can be overridden per locale with "attributes.<field>".
type Catalog struct {
	mu       sync.RWMutex
	fallback string
	locales  map[string]map[string]string
}

// NewCatalog returns a catalog preloaded with the built-in English messages.
func NewCatalog() *Catalog {
	c := &Catalog{
		fallback: DefaultLanguage,
		locales:  make(map[string]map[string]string),
	}
	entries, err := builtin.ReadDir("locales")
	if err != nil {
		panic(fmt.Errorf("reading built-in messages: %w", err))
	}
	for _, e := range entries {
		data, err := builtin.ReadFile("locales/" + e.Name())
		if err != nil {
			panic(fmt.Errorf("reading built-in messages: %w", err))
		}
		if err := c.LoadYAML(data); err != nil {
			panic(fmt.Errorf("parsing built-in messages %s: %w", e.Name(), err))
		}
	}
	return c
}

// SetFallback sets the locale used when a key is missing in the requested one.
func (c *Catalog) SetFallback(locale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if locale != "" {
		c.fallback = locale
	}
}

// LoadYAML merges templates from YAML of the form locale -> key -> template.
// Nested maps are flattened with dots, so "min: {string: ...}" becomes "min.string".
func (c *Catalog) LoadYAML(data []byte) error {
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Join(ErrFailedToParseYAML, err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: no locales found", ErrInvalidMessages)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for locale, tree := range raw {
		if locale == "" {
			return fmt.Errorf("%w: empty locale", ErrInvalidMessages)
		}
		flat, ok := c.locales[locale]
		if !ok {
			flat = make(map[string]string)
			c.locales[locale] = flat
		}
		if err := flatten("", tree, flat); err != nil {
			return fmt.Errorf("%w: locale %s: %v", ErrInvalidMessages, locale, err)
		}
	}
	return nil
}

// LoadFile reads a YAML message file into the catalog.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrFailedToReadFile, err)
	}
	return c.LoadYAML(data)
}

func flatten(prefix string, tree map[string]any, out map[string]string) error {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("key %s: expected string or map, got %T", key, v)
		}
	}
	return nil
}

// Locales returns the loaded locale names, sorted.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.locales))
	for l := range c.locales {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// Lookup finds a template for key in locale, then its base language, then
// the fallback locale.
func (c *Catalog) Lookup(locale, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range []string{locale, baseLanguage(locale), c.fallback} {
		if msgs, ok := c.locales[l]; ok {
			if tpl, ok := msgs[key]; ok {
				return tpl, true
			}
		}
	}
	return "", false
}

// Format renders the message for a failed rule.
func (c *Catalog) Format(locale string, p Params) string {
	tpl, ok := "", false
	if p.Kind != KindOther {
		tpl, ok = c.Lookup(locale, p.Tag+"."+string(p.Kind))
	}
	if !ok {
		tpl, ok = c.Lookup(locale, p.Tag)
	}
	if !ok {
		tpl, ok = c.Lookup(locale, "default")
	}
	if !ok {
		tpl = "The :field field is invalid."
	}

	name, ok := c.Lookup(locale, "attributes."+p.Field)
	if !ok {
		name = strings.ReplaceAll(p.Field, "_", " ")
	}

	value := ""
	if p.Value != nil {
		value = fmt.Sprint(p.Value)
	}

	return strings.NewReplacer(
		":field", name,
		":param", p.Param,
		":value", value,
	).Replace(tpl)
}
