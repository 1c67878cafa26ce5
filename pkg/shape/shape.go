package shape

import (
	"maps"
	"slices"
	"strings"
)

// Kind tags which payload variant a shape carries.
type Kind int

const (
	// KindUntyped shapes carry a string-keyed property bag.
	KindUntyped Kind = iota
	// KindTyped shapes carry a strongly typed payload.
	KindTyped
)

func (k Kind) String() string {
	switch k {
	case KindTyped:
		return "typed"
	default:
		return "untyped"
	}
}

// Attribute is a single markup attribute as decorated by the caller.
type Attribute struct {
	Key   string
	Value string
}

// Shape is a single renderable instance. It is owned by the request that
// created it and must not be shared across goroutines.
type Shape struct {
	name    string
	id      string
	tagName string

	classes    []string
	alternates []string
	attributes []Attribute

	kind       Kind
	properties map[string]any
	payload    any
}

func newUntyped(name string) *Shape {
	return &Shape{
		name:       name,
		kind:       KindUntyped,
		properties: make(map[string]any),
	}
}

func newTyped(name string, payload any) *Shape {
	return &Shape{
		name:    name,
		kind:    KindTyped,
		payload: payload,
	}
}

// Name returns the registered shape name.
func (s *Shape) Name() string { return s.name }

// ID returns the element id, if set.
func (s *Shape) ID() string { return s.id }

// TagName returns the wrapper tag name, if set.
func (s *Shape) TagName() string { return s.tagName }

// Kind reports the payload variant.
func (s *Shape) Kind() Kind { return s.kind }

// Classes returns the CSS classes in insertion order.
func (s *Shape) Classes() []string { return slices.Clone(s.classes) }

// Alternates returns the alternate template keys in insertion order.
func (s *Shape) Alternates() []string { return slices.Clone(s.alternates) }

// Attributes returns the attributes in insertion order.
func (s *Shape) Attributes() []Attribute { return slices.Clone(s.attributes) }

// Attribute looks up a single attribute value.
func (s *Shape) Attribute(key string) (string, bool) {
	for _, attr := range s.attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Properties returns a copy of the property bag. Typed shapes return nil.
func (s *Shape) Properties() map[string]any {
	if s.kind != KindUntyped {
		return nil
	}
	return maps.Clone(s.properties)
}

// Property returns a single property bag entry.
func (s *Shape) Property(key string) (any, bool) {
	if s.kind != KindUntyped {
		return nil, false
	}
	value, ok := s.properties[key]
	return value, ok
}

// Payload returns the typed payload, or nil for untyped shapes.
func (s *Shape) Payload() any {
	if s.kind != KindTyped {
		return nil
	}
	return s.payload
}

// SetID overwrites the element id.
func (s *Shape) SetID(value string) {
	s.id = strings.TrimSpace(value)
}

// SetTagName overwrites the wrapper tag name.
func (s *Shape) SetTagName(value string) {
	s.tagName = strings.TrimSpace(value)
}

// AddClass appends a class unless it is already present.
func (s *Shape) AddClass(name string) {
	name = strings.TrimSpace(name)
	if name == "" || slices.Contains(s.classes, name) {
		return
	}
	s.classes = append(s.classes, name)
}

// AddAlternate records a more specific template key for this shape, such as
// "Car__Summary". Later alternates take precedence over earlier ones.
func (s *Shape) AddAlternate(key string) {
	key = strings.TrimSpace(key)
	if key == "" || slices.Contains(s.alternates, key) {
		return
	}
	s.alternates = append(s.alternates, key)
}

// SetAttribute upserts an attribute. Existing keys keep their position.
func (s *Shape) SetAttribute(key, value string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	for idx := range s.attributes {
		if s.attributes[idx].Key == key {
			s.attributes[idx].Value = value
			return
		}
	}
	s.attributes = append(s.attributes, Attribute{Key: key, Value: value})
}

// SetProperty upserts a property bag entry.
func (s *Shape) SetProperty(key string, value any) error {
	if s.kind != KindUntyped {
		return ErrTypedShape
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	s.properties[key] = value
	return nil
}

// PayloadAs returns the typed payload when it is a *T.
func PayloadAs[T any](s *Shape) (*T, bool) {
	if s == nil || s.kind != KindTyped {
		return nil, false
	}
	payload, ok := s.payload.(*T)
	return payload, ok
}
