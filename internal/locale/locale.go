// Package locale provides display strings for calendar facts from YAML
// catalogs. Lookups fall back to the Chinese catalog and then to "".
package locale

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Fallback is the locale consulted when a key is missing.
const Fallback = "zh"

//go:embed lang/*.yaml
var embedded embed.FS

// Lookup resolves a display string. Missing keys yield "".
type Lookup interface {
	Get(category, key string) string
}

// Catalog maps category -> key -> text.
type Catalog map[string]map[string]string

// Get returns the text for key in category, or "".
func (c Catalog) Get(category, key string) string {
	return c[category][key]
}

func (c Catalog) lookup(category, key string) (string, bool) {
	v, ok := c[category][key]
	return v, ok
}

// Bundle is a primary catalog backed by the fallback catalog.
type Bundle struct {
	name     string
	primary  Catalog
	fallback Catalog
}

var _ Lookup = (*Bundle)(nil)

// Option configures Load.
type Option func(*loader)

type loader struct {
	dir string
}

// WithDir reads lang_<locale>.yaml files from dir before the embedded copies.
func WithDir(dir string) Option {
	return func(l *loader) { l.dir = dir }
}

// Load opens the catalog for name and the fallback catalog.
func Load(name string, opts ...Option) (*Bundle, error) {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}

	fallback, err := l.read(Fallback)
	if err != nil {
		return nil, err
	}
	if name == "" || name == Fallback {
		return &Bundle{name: Fallback, primary: fallback, fallback: fallback}, nil
	}

	primary, err := l.read(name)
	if err != nil {
		return nil, err
	}
	return &Bundle{name: name, primary: primary, fallback: fallback}, nil
}

// Available lists the embedded locales.
func Available() []string {
	matches, _ := fs.Glob(embedded, "lang/lang_*.yaml")
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		out = append(out, base[len("lang_"):len(base)-len(".yaml")])
	}
	slices.Sort(out)
	return out
}

// Name returns the bundle's primary locale.
func (b *Bundle) Name() string {
	return b.name
}

// Get returns the primary text, else the fallback text, else "".
func (b *Bundle) Get(category, key string) string {
	if v, ok := b.primary.lookup(category, key); ok {
		return v
	}
	if v, ok := b.fallback.lookup(category, key); ok {
		return v
	}
	return ""
}

func (l *loader) read(name string) (Catalog, error) {
	file := "lang_" + name + ".yaml"

	if l.dir != "" {
		data, err := os.ReadFile(filepath.Join(l.dir, file))
		switch {
		case err == nil:
			return Parse(data)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
	}

	data, err := embedded.ReadFile("lang/" + file)
	if err != nil {
		return nil, fmt.Errorf("unknown locale %q: %w", name, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if c == nil {
		c = Catalog{}
	}
	return c, nil
}
