package themes

import (
	theme "github.com/goliatone/go-theme"
)

// ThemeTemplate returns the template the selected manifest declares for key,
// ignoring variant overrides. It is empty when the manifest has none.
func ThemeTemplate(sel *theme.Selection, key string) string {
	if sel == nil || sel.Manifest == nil {
		return ""
	}
	base := theme.Selection{Theme: sel.Theme, Manifest: sel.Manifest}
	return base.Template(key, "")
}

// VariantTemplate returns the template the selected variant declares for key.
// It is empty when the variant does not override key.
func VariantTemplate(sel *theme.Selection, key string) string {
	if sel == nil || sel.Manifest == nil || sel.Variant == "" {
		return ""
	}
	if _, ok := sel.Manifest.Variants[sel.Variant].Templates[key]; !ok {
		return ""
	}
	return sel.Template(key, "")
}

// RendererConfig flattens a selection into the values templates see. The
// fallbacks map template keys to the paths used when the theme has no
// override.
func RendererConfig(sel *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	cfg := sel.RendererTheme(fallbacks)
	return &cfg
}
