// Package config loads the shapes server configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-shapes/pkg/resolve"
	"github.com/goliatone/go-shapes/pkg/site"
)

const defaultThemeVersion = "0.1.0"

// Config holds all shapes settings.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Templates TemplatesConfig `yaml:"templates"`
	Theme     ThemeConfig     `yaml:"theme"`

	// Precedence lists template sources from highest to lowest priority:
	// "variant", "theme", "default".
	Precedence []string `yaml:"precedence"`

	// Bindings maps shape names (or alternates) to default templates.
	Bindings map[string]string `yaml:"bindings"`

	// Themes declares go-theme manifests inline.
	Themes []*theme.Manifest `yaml:"themes"`

	// ThemeFiles lists manifest files or directories holding a theme.yaml,
	// theme.json or manifest.* file. Relative paths are resolved against the
	// config file's directory.
	ThemeFiles []string `yaml:"theme_files"`

	fileThemes []*theme.Manifest
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	ShutdownGrace string `yaml:"shutdown_grace"`
	ReadTimeout   string `yaml:"read_timeout"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// TemplatesConfig points at an on-disk template tree. When Dir is empty the
// embedded demo templates are used.
type TemplatesConfig struct {
	Dir       string `yaml:"dir"`
	Extension string `yaml:"extension"`
}

// ThemeConfig selects the default theme.
type ThemeConfig struct {
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			ShutdownGrace: "10s",
			ReadTimeout:   "5s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Templates: TemplatesConfig{
			Extension: ".liquid",
		},
		Precedence: []string{"variant", "theme", "default"},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults; environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := cfg.loadThemeFiles(filepath.Dir(path)); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadThemeFiles(base string) error {
	c.fileThemes = c.fileThemes[:0]
	for _, entry := range c.ThemeFiles {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		manifest, err := loadThemeFile(base, entry)
		if err != nil {
			return fmt.Errorf("config: theme_files %s: %w", entry, err)
		}
		c.fileThemes = append(c.fileThemes, manifest)
	}
	return nil
}

func loadThemeFile(base, entry string) (*theme.Manifest, error) {
	target := entry
	if !filepath.IsAbs(target) {
		target = filepath.Join(base, target)
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return theme.LoadDir(os.DirFS(target), ".")
	}
	return theme.LoadFile(os.DirFS(filepath.Dir(target)), filepath.Base(target))
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SHAPES_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SHAPES_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SHAPES_TEMPLATES_DIR"); v != "" {
		c.Templates.Dir = v
	}
	if v := os.Getenv("SHAPES_THEME"); v != "" {
		c.Theme.Name = v
	}
	if v := os.Getenv("SHAPES_THEME_VARIANT"); v != "" {
		c.Theme.Variant = v
	}
}

// Validate checks values that cannot be caught by YAML decoding.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	if _, err := parseDuration("server.shutdown_grace", c.Server.ShutdownGrace); err != nil {
		return err
	}
	if _, err := parseDuration("server.read_timeout", c.Server.ReadTimeout); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config: logging.level: %w", err)
	}
	if ext := c.Templates.Extension; ext != "" && !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("config: templates.extension %q must start with a dot", ext)
	}
	if _, err := c.PrecedenceSources(); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(c.Themes)+len(c.fileThemes))
	for i, manifest := range c.Manifests() {
		if manifest == nil {
			return fmt.Errorf("config: themes[%d] is empty", i)
		}
		name := strings.TrimSpace(manifest.Name)
		if name == "" {
			return fmt.Errorf("config: themes[%d].name is required", i)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("config: theme %q declared twice", name)
		}
		seen[name] = struct{}{}

		check := *manifest
		if strings.TrimSpace(check.Version) == "" {
			check.Version = defaultThemeVersion
		}
		if err := check.Validate(); err != nil {
			return fmt.Errorf("config: theme %q: %w", name, err)
		}
	}
	for shapeName, template := range c.Bindings {
		if strings.TrimSpace(shapeName) == "" || strings.TrimSpace(template) == "" {
			return fmt.Errorf("config: binding %q -> %q is incomplete", shapeName, template)
		}
	}
	return nil
}

// ShutdownGrace returns the graceful shutdown period.
func (c *Config) ShutdownGrace() time.Duration {
	d, _ := parseDuration("server.shutdown_grace", c.Server.ShutdownGrace)
	return d
}

// ReadTimeout returns the HTTP read header timeout.
func (c *Config) ReadTimeout() time.Duration {
	d, _ := parseDuration("server.read_timeout", c.Server.ReadTimeout)
	return d
}

// LogLevel returns the configured zap level, defaulting to info.
func (c *Config) LogLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// PrecedenceSources parses Precedence into resolver sources.
func (c *Config) PrecedenceSources() ([]resolve.Source, error) {
	sources := make([]resolve.Source, 0, len(c.Precedence))
	for _, value := range c.Precedence {
		source, err := resolve.ParseSource(value)
		if err != nil {
			return nil, fmt.Errorf("config: precedence: %w", err)
		}
		sources = append(sources, source)
	}
	return sources, nil
}

// Manifests returns the inline themes followed by those loaded from
// ThemeFiles.
func (c *Config) Manifests() []*theme.Manifest {
	manifests := make([]*theme.Manifest, 0, len(c.Themes)+len(c.fileThemes))
	manifests = append(manifests, c.Themes...)
	return append(manifests, c.fileThemes...)
}

// SiteOptions translates the configuration into site options. Templates are
// only added when Templates.Dir is set.
func (c *Config) SiteOptions() ([]site.Option, error) {
	precedence, err := c.PrecedenceSources()
	if err != nil {
		return nil, err
	}

	opts := []site.Option{
		site.WithThemes(c.Manifests()...),
		site.WithDefaultTheme(c.Theme.Name, c.Theme.Variant),
	}
	if len(precedence) > 0 {
		opts = append(opts, site.WithPrecedence(precedence...))
	}
	if dir := strings.TrimSpace(c.Templates.Dir); dir != "" {
		opts = append(opts, site.WithTemplatesDir(dir))
	}
	if ext := strings.TrimSpace(c.Templates.Extension); ext != "" {
		opts = append(opts, site.WithExtension(ext))
	}

	names := make([]string, 0, len(c.Bindings))
	for name := range c.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		opts = append(opts, site.WithBinding(name, c.Bindings[name]))
	}
	return opts, nil
}

func parseDuration(field, value string) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: %s must not be negative", field)
	}
	return d, nil
}
