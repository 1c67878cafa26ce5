package render

import (
	"errors"
	"fmt"
)

// ErrUnsafeIdentifier is returned when a tag name, id, class or attribute name
// could break out of its position in the emitted markup.
var ErrUnsafeIdentifier = errors.New("render: unsafe identifier")

// RenderError reports a failed render for a named shape. Err carries the
// underlying cause and is reachable through errors.Is and errors.As.
type RenderError struct {
	Shape string
	Err   error
}

func (e *RenderError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("render: shape %q: %v", e.Shape, e.Err)
}

func (e *RenderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func failure(shapeName string, err error) error {
	var existing *RenderError
	if errors.As(err, &existing) {
		return err
	}
	return &RenderError{Shape: shapeName, Err: err}
}
