// Package shape defines named, renderable data objects and the registry that
// creates them. A Shape combines presentational metadata (id, tag name, CSS
// classes, attributes) with either a free-form property bag or a strongly
// typed payload. The payload kind is chosen when the shape is created and
// cannot change afterwards.
//
// Shapes are request scoped: create one, decorate it, hand it to a render
// dispatcher, then discard it. The Registry is populated once at startup and
// only read while serving.
package shape
