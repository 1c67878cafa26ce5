package shapes

import (
	"io/fs"

	"github.com/goliatone/go-shapes/internal/demo"
)

// EmbeddedTemplates exposes the bundled Car templates so callers can reuse or
// extend them, e.g. by layering a directory over them.
func EmbeddedTemplates() fs.FS {
	return demo.TemplatesFS()
}
