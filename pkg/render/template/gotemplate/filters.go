package gotemplate

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	filtersOnce sync.Once

	sanitizePolicyOnce sync.Once
	sanitizePolicy     *bluemonday.Policy
)

func registerDefaultFilters() {
	filtersOnce.Do(func() {
		defaults := map[string]pongo2.FilterFunction{
			"trim":       filterTrim,
			"lowerfirst": filterLowerFirst,
			"sanitize":   filterSanitize,
			"classes":    filterClasses,
		}
		for name, fn := range defaults {
			if pongo2.FilterExists(name) {
				continue
			}
			_ = pongo2.RegisterFilter(name, fn)
		}
	})
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	t := in.String()

	var (
		firstNonWhitespaceIndex int
		firstRune               rune
		firstRuneSize           int
	)

	for i, r := range t {
		if !strings.ContainsRune(" \t\n\r", r) {
			firstNonWhitespaceIndex = i
			firstRune = r
			firstRuneSize = utf8.RuneLen(r)
			break
		}
	}

	if firstRune == 0 {
		return pongo2.AsValue(t), nil
	}

	prefix := t[:firstNonWhitespaceIndex]
	loweredRune := strings.ToLower(string(firstRune))
	rest := t[firstNonWhitespaceIndex+firstRuneSize:]

	return pongo2.AsValue(prefix + loweredRune + rest), nil
}

// filterSanitize lets rich text properties through a user generated content
// policy and marks the result safe so autoescaping leaves it intact.
func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	raw := strings.TrimSpace(in.String())
	if raw == "" {
		return pongo2.AsSafeValue(""), nil
	}
	return pongo2.AsSafeValue(sanitizer().Sanitize(raw)), nil
}

func sanitizer() *bluemonday.Policy {
	sanitizePolicyOnce.Do(func() {
		sanitizePolicy = bluemonday.UGCPolicy()
	})
	return sanitizePolicy
}

// filterClasses joins a list of class names with single spaces, skipping
// blanks and repeats.
func filterClasses(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	var names []string
	switch v := in.Interface().(type) {
	case []string:
		names = v
	case []any:
		names = make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
	default:
		names = strings.Fields(in.String())
	}

	seen := make(map[string]struct{}, len(names))
	parts := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		parts = append(parts, name)
	}
	return pongo2.AsValue(strings.Join(parts, " ")), nil
}
