// Package themes keeps the go-theme manifests a site can render with and
// turns a theme selection into shape template overrides.
package themes

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// KeyPrefix namespaces shape templates inside a manifest's Templates map.
const KeyPrefix = "shapes."

const defaultVersion = "0.1.0"

var (
	// ErrUnknownTheme is returned when selecting a theme that was never registered.
	ErrUnknownTheme = errors.New("themes: unknown theme")
	// ErrUnknownVariant is returned when the selected theme has no such variant.
	ErrUnknownVariant = errors.New("themes: unknown variant")
)

// Catalog stores theme manifests in a go-theme registry and resolves
// selections against it. It satisfies theme.ThemeSelector.
type Catalog struct {
	mu             sync.RWMutex
	registry       *theme.MemoryRegistry
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Catalog)(nil)

// CatalogOption customises a Catalog.
type CatalogOption func(*Catalog)

// WithDefaults sets the theme and variant used when a selection omits them.
func WithDefaults(themeName, variant string) CatalogOption {
	return func(c *Catalog) {
		c.defaultTheme = strings.TrimSpace(themeName)
		c.defaultVariant = strings.TrimSpace(variant)
	}
}

// NewCatalog creates an empty catalog backed by a go-theme registry.
func NewCatalog(options ...CatalogOption) *Catalog {
	c := &Catalog{registry: theme.NewRegistry()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Register validates and stores a copy of manifest. A missing version
// defaults to 0.1.0. Registering the same name and version twice fails.
func (c *Catalog) Register(manifest *theme.Manifest) error {
	if manifest == nil {
		return fmt.Errorf("themes: manifest is required")
	}
	name := strings.TrimSpace(manifest.Name)
	if name == "" {
		return fmt.Errorf("themes: manifest name is required")
	}

	stored := *manifest
	stored.Name = name
	if strings.TrimSpace(stored.Version) == "" {
		stored.Version = defaultVersion
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.registry.Get(name, theme.WithVersion(stored.Version), theme.WithoutFallback()); err == nil {
		return fmt.Errorf("themes: theme %q version %s already registered", name, stored.Version)
	}
	if err := c.registry.Register(&stored); err != nil {
		return fmt.Errorf("themes: register %q: %w", name, err)
	}
	return nil
}

// SetDefaults changes the fallback theme and variant.
func (c *Catalog) SetDefaults(themeName, variant string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultTheme = strings.TrimSpace(themeName)
	c.defaultVariant = strings.TrimSpace(variant)
}

// Names returns the registered theme names, sorted.
func (c *Catalog) Names() []string {
	refs := c.registry.Themes()
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if n := len(names); n > 0 && names[n-1] == ref.Name {
			continue
		}
		names = append(names, ref.Name)
	}
	return names
}

// Select resolves a theme and variant. Empty values fall back to the catalog
// defaults and opts are passed to the registry lookup, e.g.
// theme.WithVersion. A nil selection means no theme is in effect.
func (c *Catalog) Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error) {
	if c == nil {
		return nil, nil
	}
	c.mu.RLock()
	defaultTheme, defaultVariant := c.defaultTheme, c.defaultVariant
	c.mu.RUnlock()

	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	if name == "" {
		name = defaultTheme
		if variant == "" {
			variant = defaultVariant
		}
	}
	if name == "" {
		return nil, nil
	}

	manifest, err := c.registry.Theme(name, opts...)
	if err != nil {
		if errors.Is(err, theme.ErrThemeNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
		}
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownTheme, name, err)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q has no variant %q", ErrUnknownVariant, name, variant)
		}
	}

	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// TemplateKey returns the manifest template key for a shape or alternate name.
func TemplateKey(shapeName string) string {
	return KeyPrefix + strings.ToLower(strings.TrimSpace(shapeName))
}
