package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/goliatone/go-shapes/internal/config"
	"github.com/goliatone/go-shapes/internal/prompt"
)

func testApp() *app {
	return &app{cfg: config.DefaultConfig(), logger: zap.NewNop()}
}

type scriptedDriver struct {
	selects []int
	inputs  []string
}

func (d *scriptedDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	val := d.inputs[0]
	d.inputs = d.inputs[1:]
	return val, nil
}

func (d *scriptedDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return true, nil
}

func (d *scriptedDriver) Select(context.Context, prompt.SelectConfig) (int, error) {
	val := d.selects[0]
	d.selects = d.selects[1:]
	return val, nil
}

func TestRunRenderVariants(t *testing.T) {
	tests := []struct {
		flags renderFlags
		want  string
	}{
		{flags: renderFlags{variant: "bag"}, want: `<span class="car-brand">Renault</span>`},
		{flags: renderFlags{variant: "model"}, want: `<h3 id="my-renault" class="car brand-renault" data-brand="renault">`},
		{flags: renderFlags{variant: "default"}, want: `Unknown brand`},
		{flags: renderFlags{variant: "bag", theme: "acme", themeVariant: "dark"}, want: `car-brand--dark`},
		{flags: renderFlags{variant: "model", view: "summary"}, want: `>Renault (Red)</h3>`},
	}

	for _, tt := range tests {
		t.Run(tt.flags.variant+"/"+tt.flags.theme+"/"+tt.flags.view, func(t *testing.T) {
			var out bytes.Buffer
			if err := testApp().runRender(context.Background(), tt.flags, nil, &out); err != nil {
				t.Fatalf("render: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, out.String())
			}
		})
	}
}

func TestRunRenderErrors(t *testing.T) {
	tests := map[string]renderFlags{
		"unknown variant": {variant: "sedan"},
		"unknown theme":   {theme: "nope"},
		"unknown view":    {view: "poster"},
	}
	for name, flags := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			if err := testApp().runRender(context.Background(), flags, nil, &out); err == nil {
				t.Fatalf("expected error, got output %q", out.String())
			}
			if out.Len() != 0 {
				t.Fatalf("expected no output on failure, got %q", out.String())
			}
		})
	}
}

func TestRunRenderWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "car.html")

	var out bytes.Buffer
	if err := testApp().runRender(context.Background(), renderFlags{variant: "model", output: path}, nil, &out); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), `<h3 id="my-renault"`) {
		t.Fatalf("unexpected file content: %q", data)
	}
	if out.Len() != 0 {
		t.Fatalf("expected nothing on stdout, got %q", out.String())
	}
}

func TestRunRenderInteractive(t *testing.T) {
	driver := &scriptedDriver{
		selects: []int{1, 0},
		inputs:  []string{"Alpine", "Blue"},
	}

	var out bytes.Buffer
	if err := testApp().runRender(context.Background(), renderFlags{variant: "bag"}, driver, &out); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<h3 id="my-alpine" class="car brand-alpine" data-brand="alpine"><span class="car-brand">Alpine</span> <span class="car-color">Blue</span></h3>`
	if got := strings.TrimSpace(out.String()); got != want {
		t.Fatalf("unexpected output\nwant: %q\n got: %q", want, got)
	}
}

func TestRootCommandRender(t *testing.T) {
	t.Setenv("SHAPES_LOG_LEVEL", "error")

	cfgPath := filepath.Join(t.TempDir(), "shapes.yaml")
	cfg := config.DefaultConfig()
	cfg.Theme.Name = "acme"
	if err := cfg.Save(cfgPath); err != nil {
		t.Fatalf("save config: %v", err)
	}

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"render", "--config", cfgPath, "--variant", "model"})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), `style="color: #c8102e"`) {
		t.Fatalf("expected default theme from config, got %q", out.String())
	}
}

func TestRootCommandRejectsBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "shapes.yaml")
	if err := os.WriteFile(cfgPath, []byte("logging:\n  level: loud\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"render", "--config", cfgPath})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected config validation error")
	}
}
