package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-shapes/internal/demo"
	"github.com/goliatone/go-shapes/internal/prompt"
	"github.com/goliatone/go-shapes/pkg/render"
	"github.com/goliatone/go-shapes/pkg/shape"
)

type renderFlags struct {
	variant      string
	theme        string
	themeVariant string
	view         string
	output       string
	interactive  bool
}

func newRenderCmd(a *app) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the Car shape once and print the HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var driver prompt.Driver
			if flags.interactive {
				driver = prompt.NewSurvey()
			}
			return a.runRender(cmd.Context(), flags, driver, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.variant, "variant", string(demo.VariantBag), "Build variant: bag, model or default")
	cmd.Flags().StringVar(&flags.theme, "theme", "", "Theme name")
	cmd.Flags().StringVar(&flags.themeVariant, "theme-variant", "", "Theme variant")
	cmd.Flags().StringVar(&flags.view, "view", "", "Alternate view (summary)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Prompt for variant, Car fields and theme")
	return cmd
}

// runRender builds one Car and writes its markup to out or flags.output. A
// non-nil driver replaces the flag values with interactive answers.
func (a *app) runRender(ctx context.Context, flags renderFlags, driver prompt.Driver, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := a.buildSite(nil)
	if err != nil {
		return err
	}

	variant, err := demo.ParseVariant(flags.variant)
	if err != nil {
		return err
	}
	car, themeName, themeVariant := demo.Car{}, flags.theme, flags.themeVariant
	interactive := driver != nil
	if interactive {
		choices, err := prompt.AskCar(ctx, driver, st.Catalog().Names())
		if err != nil {
			return err
		}
		variant, car = choices.Variant, choices.Car
		themeName, themeVariant = choices.Theme, choices.ThemeVariant
	}

	if themeName != "" || themeVariant != "" {
		ctx = render.WithThemeContext(ctx, themeName, themeVariant)
	}

	var s *shape.Shape
	if interactive {
		s, err = demo.BuildWith(st.Registry(), variant, car)
	} else {
		s, err = demo.Build(st.Registry(), variant)
	}
	if err != nil {
		return err
	}

	switch view := strings.ToLower(strings.TrimSpace(flags.view)); view {
	case "":
	case "summary":
		s.AddAlternate(demo.SummaryAlternate)
	default:
		return fmt.Errorf("unknown view %q", view)
	}

	html, err := st.Render(ctx, s)
	if err != nil {
		return err
	}

	if flags.output != "" {
		if err := os.WriteFile(flags.output, html, 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		a.logger.Info("shape written", zap.String("path", flags.output), zap.Int("bytes", len(html)))
		return nil
	}
	_, err = fmt.Fprintln(out, string(html))
	return err
}
