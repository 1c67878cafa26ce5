package shape

import "errors"

var (
	// ErrDuplicateRegistration is returned when a shape name is registered twice.
	ErrDuplicateRegistration = errors.New("shape: duplicate registration")
	// ErrUnknownShape is returned when creating a shape that was never registered.
	ErrUnknownShape = errors.New("shape: unknown shape")
	// ErrTypedShape is returned when a property bag operation targets a typed shape.
	ErrTypedShape = errors.New("shape: shape carries a typed payload")
	// ErrPayloadType is returned when a factory's typed payload does not match
	// the type requested by CreateAs.
	ErrPayloadType = errors.New("shape: payload type mismatch")
)
