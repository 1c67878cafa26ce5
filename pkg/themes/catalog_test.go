package themes

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"
)

func acmeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":  "#123456",
			"accent": "#ff0000",
		},
		Templates: map[string]string{
			"shapes.car": "themes/acme/car",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				"stylesheet": "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"print": {
				Assets: theme.Assets{Prefix: "/assets/themes/acme-print"},
			},
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Templates: map[string]string{
					"shapes.car__summary": "themes/acme/dark/car-summary",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						"stylesheet": "theme.dark.css",
					},
				},
			},
		},
	}
}

func TestCatalogSelectUsesDefaults(t *testing.T) {
	catalog := NewCatalog(WithDefaults("acme", "dark"))
	if err := catalog.Register(acmeManifest()); err != nil {
		t.Fatalf("register: %v", err)
	}

	sel, err := catalog.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Theme != "acme" || sel.Variant != "dark" {
		t.Fatalf("unexpected selection: %s/%s", sel.Theme, sel.Variant)
	}

	explicit, err := catalog.Select("acme", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if explicit.Variant != "" {
		t.Fatalf("explicit theme must not inherit the default variant, got %q", explicit.Variant)
	}
}

func TestCatalogSelectWithoutThemes(t *testing.T) {
	catalog := NewCatalog()
	sel, err := catalog.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel != nil {
		t.Fatalf("expected no selection, got %+v", sel)
	}
}

func TestCatalogSelectUnknown(t *testing.T) {
	catalog := NewCatalog()
	if err := catalog.Register(acmeManifest()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := catalog.Select("nope", ""); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
	if _, err := catalog.Select("acme", "neon"); !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestCatalogRegisterRejectsDuplicates(t *testing.T) {
	catalog := NewCatalog()
	if err := catalog.Register(acmeManifest()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := catalog.Register(acmeManifest()); err == nil {
		t.Fatalf("expected duplicate theme error")
	}
	if err := catalog.Register(&theme.Manifest{}); err == nil {
		t.Fatalf("expected missing name error")
	}
	if diff := cmp.Diff([]string{"acme"}, catalog.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestRendererConfigFollowsSelection(t *testing.T) {
	catalog := NewCatalog()
	if err := catalog.Register(acmeManifest()); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, variant := range []string{"", "dark", "print"} {
		t.Run("variant="+variant, func(t *testing.T) {
			sel, err := catalog.Select("acme", variant)
			if err != nil {
				t.Fatalf("select: %v", err)
			}
			fallbacks := map[string]string{"shapes.car": "shapes/car", "shapes.truck": "shapes/truck"}

			cfg := RendererConfig(sel, fallbacks)
			want := sel.RendererTheme(fallbacks)
			if cfg == nil {
				t.Fatalf("expected renderer config")
			}
			if diff := cmp.Diff(want.Partials, cfg.Partials); diff != "" {
				t.Fatalf("partials mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want.Tokens, cfg.Tokens); diff != "" {
				t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want.CSSVars, cfg.CSSVars); diff != "" {
				t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
			}
			for _, key := range []string{"stylesheet", "missing"} {
				if got, exp := cfg.AssetURL(key), want.AssetURL(key); got != exp {
					t.Fatalf("asset %s: want %q, got %q", key, exp, got)
				}
			}
		})
	}
}

func TestRendererConfigMergesVariant(t *testing.T) {
	catalog := NewCatalog()
	if err := catalog.Register(acmeManifest()); err != nil {
		t.Fatalf("register: %v", err)
	}

	dark, err := catalog.Select("acme", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := RendererConfig(dark, map[string]string{"shapes.car": "shapes/car"})
	if cfg.Partials["shapes.car"] != "themes/acme/car" {
		t.Fatalf("expected theme partial, got %v", cfg.Partials)
	}
	if cfg.Tokens["brand"] != "#654321" || cfg.Tokens["accent"] != "#ff0000" {
		t.Fatalf("tokens not merged: %v", cfg.Tokens)
	}
	if cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("css vars not derived: %v", cfg.CSSVars)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/theme.dark.css" {
		t.Fatalf("unexpected asset url: %s", got)
	}

	printSel, err := catalog.Select("acme", "print")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := RendererConfig(printSel, nil).AssetURL("stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("prefix-only variant must keep base asset, got %s", got)
	}
}

func TestRendererConfigNilSelection(t *testing.T) {
	if cfg := RendererConfig(nil, nil); cfg != nil {
		t.Fatalf("expected nil config, got %+v", cfg)
	}
}

func TestThemeAndVariantTemplates(t *testing.T) {
	catalog := NewCatalog()
	if err := catalog.Register(acmeManifest()); err != nil {
		t.Fatalf("register: %v", err)
	}
	sel, err := catalog.Select("acme", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if got := ThemeTemplate(sel, "shapes.car"); got != "themes/acme/car" {
		t.Fatalf("theme template: %q", got)
	}
	if got := ThemeTemplate(sel, "shapes.car__summary"); got != "" {
		t.Fatalf("variant template leaked into theme lookup: %q", got)
	}
	if got := VariantTemplate(sel, "shapes.car__summary"); got != "themes/acme/dark/car-summary" {
		t.Fatalf("variant template: %q", got)
	}
	if got := VariantTemplate(sel, "shapes.car"); got != "" {
		t.Fatalf("theme template leaked into variant lookup: %q", got)
	}
	if got := VariantTemplate(nil, "shapes.car"); got != "" {
		t.Fatalf("nil selection: %q", got)
	}
}

func TestCatalogSelectWithVersion(t *testing.T) {
	catalog := NewCatalog()
	older := acmeManifest()
	older.Version = "0.9.0"
	older.Tokens = map[string]string{"brand": "#000000"}
	for _, m := range []*theme.Manifest{older, acmeManifest()} {
		if err := catalog.Register(m); err != nil {
			t.Fatalf("register %s: %v", m.Version, err)
		}
	}

	latest, err := catalog.Select("acme", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if latest.Manifest.Version != "1.0.0" {
		t.Fatalf("expected latest version, got %s", latest.Manifest.Version)
	}

	pinned, err := catalog.Select("acme", "", theme.WithVersion("0.9.0"))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if pinned.Manifest.Version != "0.9.0" || pinned.Tokens()["brand"] != "#000000" {
		t.Fatalf("expected pinned manifest, got %s %v", pinned.Manifest.Version, pinned.Tokens())
	}

	if diff := cmp.Diff([]string{"acme"}, catalog.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogRegisterCopiesManifest(t *testing.T) {
	catalog := NewCatalog()
	manifest := acmeManifest()
	manifest.Version = ""
	if err := catalog.Register(manifest); err != nil {
		t.Fatalf("register: %v", err)
	}
	if manifest.Version != "" {
		t.Fatalf("register must not modify the caller's manifest, version=%q", manifest.Version)
	}

	manifest.Tokens["brand"] = "#ffffff"
	manifest.Templates["shapes.car"] = "themes/other/car"

	sel, err := catalog.Select("acme", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Manifest.Version != defaultVersion {
		t.Fatalf("expected default version, got %q", sel.Manifest.Version)
	}
	if sel.Tokens()["brand"] != "#123456" {
		t.Fatalf("caller mutation leaked into catalog: %v", sel.Tokens())
	}
	if got := ThemeTemplate(sel, "shapes.car"); got != "themes/acme/car" {
		t.Fatalf("caller mutation leaked into templates: %q", got)
	}
}

func TestTemplateKey(t *testing.T) {
	if got := TemplateKey(" Car__Summary "); got != "shapes.car__summary" {
		t.Fatalf("unexpected key: %s", got)
	}
}
