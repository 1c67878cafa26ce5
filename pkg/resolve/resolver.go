// Package resolve picks the template a shape renders with. Bindings come from
// three sources: the selected theme variant, the selected theme, and the
// defaults registered at startup.
package resolve

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-shapes/pkg/shape"
	"github.com/goliatone/go-shapes/pkg/themes"
)

var (
	// ErrNoTemplateForShape is returned when no binding resolves for a shape.
	ErrNoTemplateForShape = errors.New("resolve: no template for shape")
	// ErrDuplicateBinding is returned when a default binding is registered twice.
	ErrDuplicateBinding = errors.New("resolve: duplicate binding")
)

// Source identifies where a binding came from.
type Source int

const (
	SourceDefault Source = iota
	SourceTheme
	SourceVariant
)

func (s Source) String() string {
	switch s {
	case SourceVariant:
		return "variant"
	case SourceTheme:
		return "theme"
	default:
		return "default"
	}
}

// ParseSource maps a configuration value onto a Source.
func ParseSource(value string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "variant":
		return SourceVariant, nil
	case "theme":
		return SourceTheme, nil
	case "default":
		return SourceDefault, nil
	default:
		return SourceDefault, fmt.Errorf("resolve: unknown binding source %q", value)
	}
}

// DefaultPrecedence is the lookup order used unless WithPrecedence overrides it.
var DefaultPrecedence = []Source{SourceVariant, SourceTheme, SourceDefault}

// Binding associates a shape with the template used to render it.
type Binding struct {
	Shape    string
	Key      string
	Template string
	Source   Source
	Theme    string
	Variant  string
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithPrecedence replaces the source lookup order. Unknown or repeated sources
// are ignored.
func WithPrecedence(sources ...Source) Option {
	return func(r *Resolver) {
		seen := make(map[Source]struct{}, len(sources))
		order := make([]Source, 0, len(sources))
		for _, src := range sources {
			if src < SourceDefault || src > SourceVariant {
				continue
			}
			if _, dup := seen[src]; dup {
				continue
			}
			seen[src] = struct{}{}
			order = append(order, src)
		}
		if len(order) > 0 {
			r.precedence = order
		}
	}
}

// Resolver holds the default bindings. Theme bindings are read from the
// selection passed to Resolve.
type Resolver struct {
	mu         sync.RWMutex
	defaults   map[string]string
	precedence []Source
}

// New constructs a Resolver applying any provided options.
func New(options ...Option) *Resolver {
	r := &Resolver{
		defaults:   make(map[string]string),
		precedence: append([]Source(nil), DefaultPrecedence...),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Bind registers the default template for a shape name or alternate key.
func (r *Resolver) Bind(shapeName, template string) error {
	key := themes.TemplateKey(shapeName)
	if key == themes.KeyPrefix {
		return fmt.Errorf("resolve: shape name is required")
	}
	if strings.TrimSpace(template) == "" {
		return fmt.Errorf("resolve: template for %q is required", shapeName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defaults[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateBinding, shapeName)
	}
	r.defaults[key] = template
	return nil
}

// MustBind panics on binding failure.
func (r *Resolver) MustBind(shapeName, template string) {
	if err := r.Bind(shapeName, template); err != nil {
		panic(err)
	}
}

// Precedence returns the configured source order.
func (r *Resolver) Precedence() []Source {
	return append([]Source(nil), r.precedence...)
}

// Resolve selects the binding for s under the given theme selection. The
// shape's alternates, most recent first, are tried before its name; for each
// candidate the sources are consulted in precedence order.
func (r *Resolver) Resolve(s *shape.Shape, sel *theme.Selection) (Binding, error) {
	if s == nil {
		return Binding{}, fmt.Errorf("resolve: shape is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, candidate := range candidates(s) {
		key := themes.TemplateKey(candidate)
		for _, src := range r.precedence {
			var tmpl string
			switch src {
			case SourceVariant:
				tmpl = themes.VariantTemplate(sel, key)
			case SourceTheme:
				tmpl = themes.ThemeTemplate(sel, key)
			default:
				tmpl = r.defaults[key]
			}
			tmpl = strings.TrimSpace(tmpl)
			if tmpl == "" {
				continue
			}
			binding := Binding{
				Shape:    s.Name(),
				Key:      candidate,
				Template: tmpl,
				Source:   src,
			}
			if src != SourceDefault && sel != nil {
				binding.Theme = sel.Theme
				if src == SourceVariant {
					binding.Variant = sel.Variant
				}
			}
			return binding, nil
		}
	}

	return Binding{}, fmt.Errorf("%w: %q", ErrNoTemplateForShape, s.Name())
}

func candidates(s *shape.Shape) []string {
	alternates := s.Alternates()
	out := make([]string, 0, len(alternates)+1)
	for idx := len(alternates) - 1; idx >= 0; idx-- {
		out = append(out, alternates[idx])
	}
	return append(out, s.Name())
}
