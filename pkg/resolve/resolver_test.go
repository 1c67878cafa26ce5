package resolve

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-shapes/pkg/shape"
)

func newCar(t *testing.T, alternates ...string) *shape.Shape {
	t.Helper()
	reg := shape.NewRegistry()
	reg.MustRegister("Car", shape.Bag(nil))
	s, err := reg.Create("Car")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, alt := range alternates {
		s.AddAlternate(alt)
	}
	return s
}

func acmeSelection(variant string) *theme.Selection {
	return &theme.Selection{
		Theme:   "acme",
		Variant: variant,
		Manifest: &theme.Manifest{
			Name:    "acme",
			Version: "1.0.0",
			Templates: map[string]string{
				"shapes.car": "themes/acme/car",
			},
			Variants: map[string]theme.Variant{
				"dark": {
					Templates: map[string]string{
						"shapes.car": "themes/acme/dark/car",
					},
				},
			},
		},
	}
}

func TestResolverPrecedence(t *testing.T) {
	r := New()
	r.MustBind("Car", "shapes/car")

	tests := []struct {
		name string
		sel  *theme.Selection
		want Binding
	}{
		{
			name: "default without theme",
			want: Binding{Shape: "Car", Key: "Car", Template: "shapes/car", Source: SourceDefault},
		},
		{
			name: "theme beats default",
			sel:  acmeSelection(""),
			want: Binding{Shape: "Car", Key: "Car", Template: "themes/acme/car", Source: SourceTheme, Theme: "acme"},
		},
		{
			name: "variant beats theme",
			sel:  acmeSelection("dark"),
			want: Binding{Shape: "Car", Key: "Car", Template: "themes/acme/dark/car", Source: SourceVariant, Theme: "acme", Variant: "dark"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(newCar(t), tt.sel)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("binding mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolverCustomPrecedence(t *testing.T) {
	r := New(WithPrecedence(SourceDefault, SourceTheme, SourceDefault))
	r.MustBind("Car", "shapes/car")

	if diff := cmp.Diff([]Source{SourceDefault, SourceTheme}, r.Precedence()); diff != "" {
		t.Fatalf("precedence mismatch (-want +got):\n%s", diff)
	}

	got, err := r.Resolve(newCar(t), acmeSelection("dark"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Source != SourceDefault || got.Template != "shapes/car" {
		t.Fatalf("expected default binding first, got %+v", got)
	}
}

func TestResolverAlternatesOutrankShapeName(t *testing.T) {
	r := New()
	r.MustBind("Car", "shapes/car")
	r.MustBind("Car__Summary", "shapes/car-summary")

	got, err := r.Resolve(newCar(t, "Car__Detail", "Car__Summary"), acmeSelection("dark"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Key != "Car__Summary" || got.Template != "shapes/car-summary" {
		t.Fatalf("expected alternate binding, got %+v", got)
	}
}

func TestResolverNoTemplate(t *testing.T) {
	r := New()
	_, err := r.Resolve(newCar(t), nil)
	if !errors.Is(err, ErrNoTemplateForShape) {
		t.Fatalf("expected ErrNoTemplateForShape, got %v", err)
	}
}

func TestResolverIsDeterministic(t *testing.T) {
	r := New()
	r.MustBind("Car", "shapes/car")
	s := newCar(t)
	sel := acmeSelection("dark")

	first, err := r.Resolve(s, sel)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for i := 0; i < 10; i++ {
		next, err := r.Resolve(s, sel)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if next != first {
			t.Fatalf("resolution changed between calls: %+v vs %+v", first, next)
		}
	}
}

func TestResolverBindValidation(t *testing.T) {
	r := New()
	if err := r.Bind("", "x"); err == nil {
		t.Fatalf("expected error for empty shape name")
	}
	if err := r.Bind("Car", " "); err == nil {
		t.Fatalf("expected error for empty template")
	}
	r.MustBind("Car", "shapes/car")
	if err := r.Bind("car", "other"); !errors.Is(err, ErrDuplicateBinding) {
		t.Fatalf("expected ErrDuplicateBinding, got %v", err)
	}
}

func TestParseSource(t *testing.T) {
	for input, want := range map[string]Source{"variant": SourceVariant, " Theme ": SourceTheme, "default": SourceDefault} {
		got, err := ParseSource(input)
		if err != nil || got != want {
			t.Fatalf("ParseSource(%q) = %v, %v", input, got, err)
		}
	}
	if _, err := ParseSource("override"); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}
