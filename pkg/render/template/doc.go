// Package template defines the renderer-agnostic view engine seam used by the
// shape dispatcher. The gotemplate subpackage provides the default pongo2
// backed implementation, which understands Liquid style tags and filters.
package template
