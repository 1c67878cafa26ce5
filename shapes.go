// Package shapes is the entry point for rendering shapes: registered, named
// objects that are decorated per request and rendered through the template
// bound to them, optionally overridden by a theme.
package shapes

import (
	"context"

	"github.com/goliatone/go-shapes/pkg/render"
	"github.com/goliatone/go-shapes/pkg/resolve"
	"github.com/goliatone/go-shapes/pkg/shape"
	"github.com/goliatone/go-shapes/pkg/site"
)

// Shape aliases shape.Shape for callers that only import the root package.
type Shape = shape.Shape

// Factory aliases shape.Factory.
type Factory = shape.Factory

// Markup aliases render.Markup.
type Markup = render.Markup

// RenderError aliases render.RenderError.
type RenderError = render.RenderError

// Binding aliases resolve.Binding.
type Binding = resolve.Binding

// Site aliases site.Site.
type Site = site.Site

// Errors re-exported from the component packages.
var (
	ErrDuplicateRegistration = shape.ErrDuplicateRegistration
	ErrUnknownShape          = shape.ErrUnknownShape
	ErrNoTemplateForShape    = resolve.ErrNoTemplateForShape
)

// NewSite exposes the site constructor from the top-level module.
func NewSite(options ...site.Option) (*Site, error) {
	return site.New(options...)
}

// RenderHTML creates the named shape, lets decorate customise it and renders
// it with st. decorate may be nil.
func RenderHTML(ctx context.Context, st *Site, name string, decorate func(*Shape) error) ([]byte, error) {
	s, err := st.Create(name)
	if err != nil {
		return nil, err
	}
	if decorate != nil {
		if err := decorate(s); err != nil {
			return nil, err
		}
	}
	return st.Render(ctx, s)
}
