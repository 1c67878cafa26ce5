package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-shapes/internal/demo"
	"github.com/goliatone/go-shapes/pkg/render"
)

const contentTypeHTML = "text/html"

// handleIndex renders the Car shape. Query parameters:
//
//	variant        bag (default), model or default
//	view           empty or "summary" to render the summary alternate
//	theme          theme name; empty keeps the site default
//	theme_variant  variant of theme (or of the default theme); 400 when no theme applies
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	variant, err := demo.ParseVariant(query.Get("variant"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	themeName := strings.TrimSpace(query.Get("theme"))
	themeVariant := strings.TrimSpace(query.Get("theme_variant"))
	if themeName != "" || themeVariant != "" {
		ctx = render.WithThemeContext(ctx, themeName, themeVariant)
		if _, err := s.site.Dispatcher().Selection(ctx); err != nil {
			http.Error(w, fmt.Sprintf("theme: %v", err), http.StatusBadRequest)
			return
		}
	}

	car, err := demo.Build(s.site.Registry(), variant)
	if err != nil {
		s.fail(w, r, "build shape", err)
		return
	}

	switch view := strings.ToLower(strings.TrimSpace(query.Get("view"))); view {
	case "":
	case "summary":
		car.AddAlternate(demo.SummaryAlternate)
	default:
		http.Error(w, fmt.Sprintf("unknown view %q", view), http.StatusBadRequest)
		return
	}

	body, err := s.site.Render(ctx, car)
	if err != nil {
		s.fail(w, r, "render shape", err)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("write response", zap.Error(err), zap.String("request_id", RequestIDFrom(r.Context())))
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	fields := []zap.Field{
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.Error(err),
	}
	var renderErr *render.RenderError
	if errors.As(err, &renderErr) {
		fields = append(fields, zap.String("shape", renderErr.Shape))
	}
	if errors.Is(err, context.Canceled) {
		s.logger.Debug(action+" cancelled", fields...)
	} else {
		s.logger.Error(action+" failed", fields...)
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
