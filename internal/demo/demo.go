// Package demo registers the Car shape and builds it the three ways the HTTP
// and CLI entry points expose.
package demo

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-shapes/pkg/resolve"
	"github.com/goliatone/go-shapes/pkg/shape"
	"github.com/goliatone/go-shapes/pkg/site"
	"github.com/goliatone/go-shapes/pkg/themes"
)

const (
	// ShapeCar is the registered shape name.
	ShapeCar = "Car"
	// CarTemplate is the default template bound to ShapeCar.
	CarTemplate = "shapes/car"
	// SummaryAlternate names the compact rendering of a Car.
	SummaryAlternate = ShapeCar + "__Summary"
	// SummaryTemplate is bound to SummaryAlternate.
	SummaryTemplate = "shapes/car-summary"
	// ThemeAcme is the bundled demo theme.
	ThemeAcme = "acme"
)

// ErrUnknownVariant is returned when a build variant name is not recognised.
var ErrUnknownVariant = errors.New("demo: unknown variant")

//go:embed templates
var embedded embed.FS

// Car is the typed payload of the Car shape.
type Car struct {
	Brand string
	Color string
}

// Variant selects how the Car shape is populated.
type Variant string

const (
	// VariantBag sets Brand through the untyped property bag.
	VariantBag Variant = "bag"
	// VariantModel creates a typed Car and decorates the element.
	VariantModel Variant = "model"
	// VariantDefault renders the shape without any customisation.
	VariantDefault Variant = "default"
)

// Variants lists the supported variants in display order.
func Variants() []Variant {
	return []Variant{VariantBag, VariantModel, VariantDefault}
}

// ParseVariant maps a name onto a Variant. The empty string selects
// VariantBag.
func ParseVariant(name string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(name))); v {
	case "":
		return VariantBag, nil
	case VariantBag, VariantModel, VariantDefault:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
}

// TemplatesFS exposes the bundled templates rooted at the template directory.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(fmt.Sprintf("demo: templates: %v", err))
	}
	return sub
}

// AcmeTheme returns the demo theme manifest. The dark variant swaps the Car
// template and the brand colour.
func AcmeTheme() *theme.Manifest {
	return &theme.Manifest{
		Name:    ThemeAcme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":   "#c8102e",
			"surface": "#ffffff",
		},
		Templates: map[string]string{
			themes.TemplateKey(ShapeCar): "themes/acme/car",
		},
		Assets: theme.Assets{
			Prefix: "/assets/acme",
			Files: map[string]string{
				"stylesheet": "acme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand":   "#ff5a6e",
					"surface": "#111111",
				},
				Templates: map[string]string{
					themes.TemplateKey(ShapeCar): "themes/acme/dark/car",
				},
			},
		},
	}
}

// Options returns the site options the demo needs: the embedded templates and
// the acme theme.
func Options() []site.Option {
	return []site.Option{
		site.WithTemplatesFS(TemplatesFS()),
		site.WithThemes(AcmeTheme()),
	}
}

// Register adds the Car shape and its bindings to s. Bindings already present
// on the resolver, e.g. from configuration, are kept.
func Register(s *site.Site) error {
	if err := s.Registry().Register(ShapeCar, shape.Bag(map[string]any{
		"Brand": "",
		"Color": "",
	})); err != nil {
		return fmt.Errorf("demo: %w", err)
	}
	for name, template := range map[string]string{
		ShapeCar:         CarTemplate,
		SummaryAlternate: SummaryTemplate,
	} {
		err := s.Resolver().Bind(name, template)
		if err != nil && !errors.Is(err, resolve.ErrDuplicateBinding) {
			return fmt.Errorf("demo: %w", err)
		}
	}
	return nil
}

// Build creates a Car shape populated according to variant with the stock
// Renault values.
func Build(reg *shape.Registry, variant Variant) (*shape.Shape, error) {
	switch variant {
	case VariantBag:
		return BuildWith(reg, variant, Car{Brand: "Renault"})
	case VariantModel:
		return BuildWith(reg, variant, Car{Brand: "Renault", Color: "Red"})
	default:
		return BuildWith(reg, variant, Car{})
	}
}

// BuildWith creates a Car shape from car. VariantBag copies the non-empty
// fields into the property bag, VariantModel delegates to BuildModel and
// VariantDefault ignores car.
func BuildWith(reg *shape.Registry, variant Variant, car Car) (*shape.Shape, error) {
	switch variant {
	case VariantBag:
		s, err := reg.Create(ShapeCar)
		if err != nil {
			return nil, err
		}
		if car.Brand != "" {
			if err := s.SetProperty("Brand", car.Brand); err != nil {
				return nil, err
			}
		}
		if car.Color != "" {
			if err := s.SetProperty("Color", car.Color); err != nil {
				return nil, err
			}
		}
		return s, nil
	case VariantModel:
		return BuildModel(reg, car)
	case VariantDefault:
		return reg.Create(ShapeCar)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
}

// BuildModel creates a typed Car shape and decorates it as an h3 carrying the
// brand slug as id suffix, class and data attribute.
func BuildModel(reg *shape.Registry, car Car) (*shape.Shape, error) {
	s, err := shape.CreateAs(reg, ShapeCar, func(c *Car) error {
		*c = car
		return nil
	})
	if err != nil {
		return nil, err
	}

	slug := Slug(car.Brand)
	s.SetTagName("h3")
	s.AddClass("car")
	if slug == "" {
		return s, nil
	}
	s.SetID("my-" + slug)
	s.AddClass("brand-" + slug)
	s.SetAttribute("data-brand", slug)
	return s, nil
}

// Slug lowercases value and collapses every run of characters outside
// [a-z0-9] into a single dash.
func Slug(value string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
