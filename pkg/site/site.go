// Package site wires the shape registry, template resolver, theme catalog,
// view engine and render dispatcher together once at startup. Request
// handlers receive the resulting Site (or its parts) explicitly.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-shapes/pkg/render"
	rendertemplate "github.com/goliatone/go-shapes/pkg/render/template"
	"github.com/goliatone/go-shapes/pkg/render/template/gotemplate"
	"github.com/goliatone/go-shapes/pkg/resolve"
	"github.com/goliatone/go-shapes/pkg/shape"
	"github.com/goliatone/go-shapes/pkg/themes"
)

// Option customises the site configuration.
type Option func(*config)

type config struct {
	registry   *shape.Registry
	catalog    *themes.Catalog
	manifests  []*theme.Manifest
	renderer   rendertemplate.TemplateRenderer
	templateFS fs.FS
	baseDir    string
	extension  string
	globals    map[string]any
	funcs      map[string]any
	bindings   [][2]string
	precedence []resolve.Source
	themeName  string
	variant    string
	logger     *zap.Logger
	observer   render.Observer
}

// WithRegistry injects a shape registry.
func WithRegistry(registry *shape.Registry) Option {
	return func(cfg *config) {
		cfg.registry = registry
	}
}

// WithCatalog injects a theme catalog.
func WithCatalog(catalog *themes.Catalog) Option {
	return func(cfg *config) {
		cfg.catalog = catalog
	}
}

// WithThemes registers manifests with the site catalog.
func WithThemes(manifests ...*theme.Manifest) Option {
	return func(cfg *config) {
		cfg.manifests = append(cfg.manifests, manifests...)
	}
}

// WithDefaultTheme selects the theme and variant used when a request does not
// choose one.
func WithDefaultTheme(name, variant string) Option {
	return func(cfg *config) {
		cfg.themeName = strings.TrimSpace(name)
		cfg.variant = strings.TrimSpace(variant)
	}
}

// WithTemplatesFS supplies the template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(path)
	}
}

// WithExtension overrides the template extension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		cfg.extension = ext
	}
}

// WithGlobalData seeds values visible to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[key] = value
		}
	}
}

// WithTemplateFunc registers template helpers with the built-in view engine.
// pongo2.FilterFunction values become filters; other functions are exposed
// as globals callable from templates.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if cfg.funcs == nil {
			cfg.funcs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.funcs[name] = fn
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		cfg.renderer = renderer
	}
}

// WithBinding registers a default template for a shape name or alternate.
func WithBinding(shapeName, template string) Option {
	return func(cfg *config) {
		cfg.bindings = append(cfg.bindings, [2]string{shapeName, template})
	}
}

// WithPrecedence configures the template source lookup order.
func WithPrecedence(sources ...resolve.Source) Option {
	return func(cfg *config) {
		cfg.precedence = append([]resolve.Source(nil), sources...)
	}
}

// WithLogger injects a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithObserver registers a render observer.
func WithObserver(observer render.Observer) Option {
	return func(cfg *config) {
		cfg.observer = observer
	}
}

// Site bundles the collaborators needed to create and render shapes.
type Site struct {
	registry   *shape.Registry
	resolver   *resolve.Resolver
	catalog    *themes.Catalog
	templates  rendertemplate.TemplateRenderer
	dispatcher *render.Dispatcher
	logger     *zap.Logger
}

// New builds a Site applying any provided options. Missing collaborators are
// initialised with the built-in implementations; templates must be supplied
// through WithTemplatesFS, WithTemplatesDir or WithTemplateRenderer.
func New(options ...Option) (*Site, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := cfg.registry
	if registry == nil {
		registry = shape.NewRegistry()
	}

	catalog := cfg.catalog
	if catalog == nil {
		catalog = themes.NewCatalog()
	}
	for _, manifest := range cfg.manifests {
		if err := catalog.Register(manifest); err != nil {
			return nil, fmt.Errorf("site: %w", err)
		}
	}

	var resolverOpts []resolve.Option
	if len(cfg.precedence) > 0 {
		resolverOpts = append(resolverOpts, resolve.WithPrecedence(cfg.precedence...))
	}
	resolver := resolve.New(resolverOpts...)
	for _, binding := range cfg.bindings {
		if err := resolver.Bind(binding[0], binding[1]); err != nil {
			return nil, fmt.Errorf("site: %w", err)
		}
	}

	templates, err := buildTemplates(cfg)
	if err != nil {
		return nil, err
	}

	dispatcherOpts := []render.Option{
		render.WithSelector(catalog),
		render.WithTheme(cfg.themeName, cfg.variant),
		render.WithLogger(logger.Named("render")),
	}
	if cfg.observer != nil {
		dispatcherOpts = append(dispatcherOpts, render.WithObserver(cfg.observer))
	}
	dispatcher, err := render.New(resolver, templates, dispatcherOpts...)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}

	logger.Debug("site ready",
		zap.Strings("themes", catalog.Names()),
		zap.String("theme", cfg.themeName),
		zap.String("variant", cfg.variant),
	)

	return &Site{
		registry:   registry,
		resolver:   resolver,
		catalog:    catalog,
		templates:  templates,
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

func buildTemplates(cfg *config) (rendertemplate.TemplateRenderer, error) {
	if cfg.renderer != nil {
		return cfg.renderer, nil
	}
	if cfg.templateFS == nil && cfg.baseDir == "" {
		return nil, errors.New("site: templates are required")
	}
	if cfg.baseDir != "" {
		info, err := os.Stat(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("site: templates: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("site: templates: %q is not a directory", cfg.baseDir)
		}
	}

	engineOpts := []gotemplate.Option{
		gotemplate.WithGlobalData(cfg.globals),
		gotemplate.WithTemplateFunc(cfg.funcs),
	}
	if cfg.templateFS != nil {
		engineOpts = append(engineOpts, gotemplate.WithFS(cfg.templateFS))
	}
	if cfg.baseDir != "" {
		engineOpts = append(engineOpts, gotemplate.WithBaseDir(cfg.baseDir))
	}
	if cfg.extension != "" {
		engineOpts = append(engineOpts, gotemplate.WithExtension(cfg.extension))
	}

	engine, err := gotemplate.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("site: configure template renderer: %w", err)
	}
	return engine, nil
}

// Register adds a shape and its default template in one step.
func (s *Site) Register(name string, factory shape.Factory, template string) error {
	if err := s.registry.Register(name, factory); err != nil {
		return err
	}
	if strings.TrimSpace(template) == "" {
		return nil
	}
	return s.resolver.Bind(name, template)
}

// Create builds a new instance of a registered shape.
func (s *Site) Create(name string) (*shape.Shape, error) {
	return s.registry.Create(name)
}

// Render executes the shape and returns the serialized HTML.
func (s *Site) Render(ctx context.Context, sh *shape.Shape) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.dispatcher.ExecuteTo(ctx, sh, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Registry returns the shape registry.
func (s *Site) Registry() *shape.Registry { return s.registry }

// Resolver returns the template resolver.
func (s *Site) Resolver() *resolve.Resolver { return s.resolver }

// Catalog returns the theme catalog.
func (s *Site) Catalog() *themes.Catalog { return s.catalog }

// Templates returns the view engine.
func (s *Site) Templates() rendertemplate.TemplateRenderer { return s.templates }

// Dispatcher returns the render dispatcher.
func (s *Site) Dispatcher() *render.Dispatcher { return s.dispatcher }

// Logger returns the site logger.
func (s *Site) Logger() *zap.Logger { return s.logger }
