package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	rendertemplate "github.com/goliatone/go-shapes/pkg/render/template"
	"github.com/goliatone/go-shapes/pkg/resolve"
	"github.com/goliatone/go-shapes/pkg/shape"
	"github.com/goliatone/go-shapes/pkg/themes"
)

const defaultWrapperTag = "div"

// Observer receives one call per render attempt.
type Observer interface {
	ObserveRender(shapeName string, elapsed time.Duration, err error)
}

// Option customises the dispatcher configuration.
type Option func(*Dispatcher)

// WithSelector sets the theme selector consulted by Execute.
func WithSelector(selector theme.ThemeSelector) Option {
	return func(d *Dispatcher) {
		d.selector = selector
	}
}

// WithTheme sets the theme and variant used when a request does not pick one.
func WithTheme(name, variant string) Option {
	return func(d *Dispatcher) {
		d.defaultTheme = strings.TrimSpace(name)
		d.defaultVariant = strings.TrimSpace(variant)
	}
}

// WithLogger injects a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithObserver registers a render observer, e.g. a metrics recorder.
func WithObserver(observer Observer) Option {
	return func(d *Dispatcher) {
		d.observer = observer
	}
}

// WithEncoder overrides the encoder used by ExecuteTo.
func WithEncoder(enc Encoder) Option {
	return func(d *Dispatcher) {
		if enc != nil {
			d.encoder = enc
		}
	}
}

// Dispatcher resolves shapes to templates and renders them. It is built once
// at startup and is safe for concurrent use; shapes passed to it are not.
type Dispatcher struct {
	resolver  *resolve.Resolver
	templates rendertemplate.TemplateRenderer
	selector  theme.ThemeSelector
	observer  Observer
	encoder   Encoder
	logger    *zap.Logger

	defaultTheme     string
	defaultVariant   string
	defaultSelection *theme.Selection
}

// New constructs a Dispatcher. The default theme selection is resolved here so
// every request without an explicit theme sees the same bindings.
func New(resolver *resolve.Resolver, templates rendertemplate.TemplateRenderer, options ...Option) (*Dispatcher, error) {
	if resolver == nil {
		return nil, errors.New("render: resolver is required")
	}
	if templates == nil {
		return nil, errors.New("render: template renderer is required")
	}

	d := &Dispatcher{
		resolver:  resolver,
		templates: templates,
		encoder:   HTMLEncoder,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}

	if d.selector != nil {
		sel, err := d.selector.Select(d.defaultTheme, d.defaultVariant)
		if err != nil {
			return nil, fmt.Errorf("render: default theme: %w", err)
		}
		if sel == nil && d.defaultVariant != "" {
			return nil, fmt.Errorf("render: default theme: %w: variant %q set without a theme", themes.ErrUnknownTheme, d.defaultVariant)
		}
		d.defaultSelection = sel
	} else if d.defaultTheme != "" {
		return nil, fmt.Errorf("render: theme %q requested without a selector", d.defaultTheme)
	}

	return d, nil
}

type themeChoiceKey struct{}

type themeChoice struct {
	name    string
	variant string
}

// WithThemeContext returns a context that makes Execute render with the given
// theme and variant instead of the dispatcher default.
func WithThemeContext(ctx context.Context, name, variant string) context.Context {
	return context.WithValue(ctx, themeChoiceKey{}, themeChoice{
		name:    strings.TrimSpace(name),
		variant: strings.TrimSpace(variant),
	})
}

// Selection returns the theme selection Execute would use for ctx.
func (d *Dispatcher) Selection(ctx context.Context) (*theme.Selection, error) {
	choice, ok := ctx.Value(themeChoiceKey{}).(themeChoice)
	if !ok || (choice.name == "" && choice.variant == "") {
		return d.defaultSelection, nil
	}
	if d.selector == nil {
		return nil, fmt.Errorf("render: theme %q requested without a selector", choice.name)
	}
	name := choice.name
	if name == "" && d.defaultSelection != nil {
		name = d.defaultSelection.Theme
	}
	if name == "" {
		return nil, fmt.Errorf("render: %w: variant %q requested without a theme", themes.ErrUnknownTheme, choice.variant)
	}
	sel, err := d.selector.Select(name, choice.variant)
	if err != nil {
		return nil, err
	}
	if sel == nil {
		return nil, fmt.Errorf("render: %w: %q", themes.ErrUnknownTheme, name)
	}
	return sel, nil
}

// Execute resolves the template for s and renders it.
func (d *Dispatcher) Execute(ctx context.Context, s *shape.Shape) (Markup, error) {
	if s == nil {
		return Markup{}, &RenderError{Err: errors.New("shape is required")}
	}
	start := time.Now()

	markup, err := d.execute(ctx, s)
	d.observe(s.Name(), start, err)
	return markup, err
}

// ExecuteTo renders s and writes the markup to w with the dispatcher encoder.
// Nothing is written when rendering fails.
func (d *Dispatcher) ExecuteTo(ctx context.Context, s *shape.Shape, w io.Writer) error {
	markup, err := d.Execute(ctx, s)
	if err != nil {
		return err
	}
	return WriteTo(markup, w, d.encoder)
}

// Render executes binding against s. The template receives the shape metadata
// as "shape", the payload (typed payload or property bag) as "model", and the
// flattened theme as "theme".
func (d *Dispatcher) Render(ctx context.Context, s *shape.Shape, binding resolve.Binding) (Markup, error) {
	if s == nil {
		return Markup{}, &RenderError{Shape: binding.Shape, Err: errors.New("shape is required")}
	}
	start := time.Now()

	var sel *theme.Selection
	if binding.Theme != "" && d.selector != nil {
		selected, err := d.selector.Select(binding.Theme, binding.Variant)
		if err != nil {
			err = failure(s.Name(), err)
			d.observe(s.Name(), start, err)
			return Markup{}, err
		}
		sel = selected
	}

	markup, err := d.render(ctx, s, binding, sel)
	d.observe(s.Name(), start, err)
	return markup, err
}

func (d *Dispatcher) execute(ctx context.Context, s *shape.Shape) (Markup, error) {
	if ctx == nil {
		return Markup{}, failure(s.Name(), errors.New("context is required"))
	}
	sel, err := d.Selection(ctx)
	if err != nil {
		return Markup{}, failure(s.Name(), err)
	}

	binding, err := d.resolver.Resolve(s, sel)
	if err != nil {
		d.logger.Warn("shape template not resolved",
			zap.String("shape", s.Name()),
			zap.Error(err),
		)
		return Markup{}, failure(s.Name(), err)
	}

	d.logger.Debug("shape template resolved",
		zap.String("shape", s.Name()),
		zap.String("key", binding.Key),
		zap.String("template", binding.Template),
		zap.Stringer("source", binding.Source),
	)

	return d.render(ctx, s, binding, sel)
}

func (d *Dispatcher) render(ctx context.Context, s *shape.Shape, binding resolve.Binding, sel *theme.Selection) (Markup, error) {
	name := s.Name()
	if ctx == nil {
		return Markup{}, failure(name, errors.New("context is required"))
	}
	if err := ctx.Err(); err != nil {
		return Markup{}, failure(name, err)
	}
	if strings.TrimSpace(binding.Template) == "" {
		return Markup{}, failure(name, fmt.Errorf("%w: %q", resolve.ErrNoTemplateForShape, name))
	}
	if err := validateIdentifiers(s); err != nil {
		return Markup{}, failure(name, err)
	}

	body, err := d.templates.Render(binding.Template, templateData(s, binding, sel))
	if err != nil {
		d.logger.Warn("shape template failed",
			zap.String("shape", name),
			zap.String("template", binding.Template),
			zap.Error(err),
		)
		return Markup{}, failure(name, err)
	}
	if err := ctx.Err(); err != nil {
		return Markup{}, failure(name, err)
	}

	markup := Markup{
		Shape:      name,
		Tag:        s.TagName(),
		ID:         s.ID(),
		Classes:    s.Classes(),
		Attributes: s.Attributes(),
	}
	if markup.Tag == "" && (markup.ID != "" || len(markup.Classes) > 0 || len(markup.Attributes) > 0) {
		markup.Tag = defaultWrapperTag
	}
	markup.Raw(body)
	return markup, nil
}

func (d *Dispatcher) observe(name string, start time.Time, err error) {
	if d.observer == nil {
		return
	}
	d.observer.ObserveRender(name, time.Since(start), err)
}

func templateData(s *shape.Shape, binding resolve.Binding, sel *theme.Selection) map[string]any {
	attributes := make(map[string]any, len(s.Attributes()))
	for _, attr := range s.Attributes() {
		attributes[attr.Key] = attr.Value
	}

	var model any
	switch s.Kind() {
	case shape.KindTyped:
		model = s.Payload()
	default:
		model = s.Properties()
	}

	data := map[string]any{
		"shape": map[string]any{
			"name":       s.Name(),
			"id":         s.ID(),
			"tag":        s.TagName(),
			"classes":    s.Classes(),
			"attributes": attributes,
			"alternates": s.Alternates(),
		},
		"model": model,
	}

	fallbacks := map[string]string{themes.TemplateKey(binding.Key): binding.Template}
	if cfg := themes.RendererConfig(sel, fallbacks); cfg != nil {
		data["theme"] = map[string]any{
			"name":     cfg.Theme,
			"variant":  cfg.Variant,
			"partials": cfg.Partials,
			"tokens":   cfg.Tokens,
			"css_vars": cfg.CSSVars,
			"asset":    cfg.AssetURL,
		}
	}
	return data
}
