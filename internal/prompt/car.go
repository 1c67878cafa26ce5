package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-shapes/internal/demo"
)

const noTheme = "(none)"

// Choices captures one interactive render request.
type Choices struct {
	Variant      demo.Variant
	Car          demo.Car
	Theme        string
	ThemeVariant string
}

// AskCar walks the user through variant, Car fields and theme. themes lists the
// registered theme names offered for selection.
func AskCar(ctx context.Context, d Driver, themes []string) (Choices, error) {
	var out Choices

	variants := demo.Variants()
	options := make([]string, len(variants))
	for i, v := range variants {
		options[i] = string(v)
	}
	idx, err := d.Select(ctx, SelectConfig{
		Message: "How should the Car be built?",
		Options: options,
		Help:    "bag sets properties, model creates a typed Car, default leaves it untouched",
	})
	if err != nil {
		return out, err
	}
	if idx < 0 || idx >= len(variants) {
		return out, fmt.Errorf("prompt: invalid variant selection %d", idx)
	}
	out.Variant = variants[idx]

	if out.Variant != demo.VariantDefault {
		brand, err := d.Input(ctx, InputConfig{
			Message:   "Brand",
			Default:   "Renault",
			Validator: required("brand"),
		})
		if err != nil {
			return out, err
		}
		color, err := d.Input(ctx, InputConfig{
			Message: "Color",
			Default: "Red",
		})
		if err != nil {
			return out, err
		}
		out.Car = demo.Car{
			Brand: strings.TrimSpace(brand),
			Color: strings.TrimSpace(color),
		}
	}

	if len(themes) == 0 {
		return out, nil
	}
	themeOptions := append([]string{noTheme}, themes...)
	idx, err = d.Select(ctx, SelectConfig{
		Message: "Theme",
		Options: themeOptions,
	})
	if err != nil {
		return out, err
	}
	if idx <= 0 || idx >= len(themeOptions) {
		return out, nil
	}
	out.Theme = themeOptions[idx]

	variant, err := d.Input(ctx, InputConfig{
		Message: "Theme variant (empty for base)",
	})
	if err != nil {
		return out, err
	}
	out.ThemeVariant = strings.TrimSpace(variant)
	return out, nil
}

func required(field string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}
