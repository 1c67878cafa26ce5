package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-shapes/pkg/shape"
)

func validateIdentifiers(s *shape.Shape) error {
	if tag := s.TagName(); tag != "" && !isTagName(tag) {
		return fmt.Errorf("%w: tag name %q", ErrUnsafeIdentifier, tag)
	}
	if id := s.ID(); id != "" && !isToken(id) {
		return fmt.Errorf("%w: id %q", ErrUnsafeIdentifier, id)
	}
	for _, class := range s.Classes() {
		if !isToken(class) {
			return fmt.Errorf("%w: class %q", ErrUnsafeIdentifier, class)
		}
	}
	for _, attr := range s.Attributes() {
		if !isAttributeName(attr.Key) {
			return fmt.Errorf("%w: attribute %q", ErrUnsafeIdentifier, attr.Key)
		}
	}
	return nil
}

func isTagName(name string) bool {
	for i, r := range name {
		switch {
		case isASCIILetter(r):
		case i > 0 && (isASCIIDigit(r) || r == '-'):
		default:
			return false
		}
	}
	return name != ""
}

func isAttributeName(name string) bool {
	for i, r := range name {
		switch {
		case isASCIILetter(r), r == '_', r == ':':
		case i > 0 && (isASCIIDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return name != ""
}

// isToken accepts id and class values: anything printable that cannot end the
// quoted attribute or open a tag.
func isToken(value string) bool {
	if value == "" || strings.ContainsAny(value, "\"'<>&`=") {
		return false
	}
	for _, r := range value {
		if r <= ' ' || r == 0x7f {
			return false
		}
	}
	return true
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
