package render

import (
	"html"
	"io"
	"strings"

	"github.com/goliatone/go-shapes/pkg/shape"
)

// Encoder escapes text content and attribute values on the way out.
type Encoder interface {
	Text(value string) string
	Attr(value string) string
}

type htmlEncoder struct{}

func (htmlEncoder) Text(value string) string { return html.EscapeString(value) }
func (htmlEncoder) Attr(value string) string { return html.EscapeString(value) }

// HTMLEncoder escapes <, >, &, ' and " in text and attribute values.
var HTMLEncoder Encoder = htmlEncoder{}

// Fragment is a piece of element content. Raw fragments hold template engine
// output, which is already escaped; other fragments are escaped when written.
type Fragment struct {
	Value string
	Raw   bool
}

// Markup is the rendered form of a shape: an optional wrapper element around
// the template output.
type Markup struct {
	Shape      string
	Tag        string
	ID         string
	Classes    []string
	Attributes []shape.Attribute
	Content    []Fragment
}

// Text appends an escaped-on-write text fragment.
func (m *Markup) Text(value string) {
	m.Content = append(m.Content, Fragment{Value: value})
}

// Raw appends a pre-escaped fragment.
func (m *Markup) Raw(value string) {
	m.Content = append(m.Content, Fragment{Value: value, Raw: true})
}

// Empty reports whether the markup would write nothing.
func (m Markup) Empty() bool {
	if m.Tag != "" {
		return false
	}
	for _, f := range m.Content {
		if f.Value != "" {
			return false
		}
	}
	return true
}

// WriteTo writes the markup using the default HTML encoder.
func (m Markup) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := WriteTo(m, cw, HTMLEncoder)
	return cw.n, err
}

// String renders the markup with the default HTML encoder.
func (m Markup) String() string {
	var b strings.Builder
	_ = WriteTo(m, &b, HTMLEncoder)
	return b.String()
}

// WriteTo serializes markup into w. Attribute values and text fragments are
// always passed through enc. Tag names, ids, classes and attribute names are
// written as is; Dispatcher.Render validates them before they get here.
func WriteTo(m Markup, w io.Writer, enc Encoder) error {
	if enc == nil {
		enc = HTMLEncoder
	}
	sw := &stickyWriter{w: w}

	if m.Tag != "" {
		sw.write("<", m.Tag)
		if m.ID != "" {
			sw.write(` id="`, m.ID, `"`)
		}
		if len(m.Classes) > 0 {
			sw.write(` class="`, strings.Join(m.Classes, " "), `"`)
		}
		for _, attr := range m.Attributes {
			sw.write(" ", attr.Key, `="`, enc.Attr(attr.Value), `"`)
		}
		sw.write(">")
	}

	for _, fragment := range m.Content {
		if fragment.Raw {
			sw.write(fragment.Value)
			continue
		}
		sw.write(enc.Text(fragment.Value))
	}

	if m.Tag != "" {
		sw.write("</", m.Tag, ">")
	}
	return sw.err
}

type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) write(parts ...string) {
	for _, part := range parts {
		if s.err != nil {
			return
		}
		_, s.err = io.WriteString(s.w, part)
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
