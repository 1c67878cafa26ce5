package shape

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestShapeAddClassIsIdempotent(t *testing.T) {
	s := newUntyped("Car")
	s.AddClass("car")
	s.AddClass("brand-renault")
	s.AddClass("car")
	s.AddClass("  ")

	if diff := cmp.Diff([]string{"car", "brand-renault"}, s.Classes()); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
}

func TestShapeSetAttributeKeepsInsertionOrder(t *testing.T) {
	s := newUntyped("Car")
	s.SetAttribute("data-brand", "renault")
	s.SetAttribute("data-color", "red")
	s.SetAttribute("data-brand", "peugeot")

	want := []Attribute{
		{Key: "data-brand", Value: "peugeot"},
		{Key: "data-color", Value: "red"},
	}
	if diff := cmp.Diff(want, s.Attributes()); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
	if value, ok := s.Attribute("data-color"); !ok || value != "red" {
		t.Fatalf("attribute lookup: %q %v", value, ok)
	}
}

func TestShapeAccessorsReturnCopies(t *testing.T) {
	s := newUntyped("Car")
	s.AddClass("car")
	s.SetAttribute("data-brand", "renault")

	classes := s.Classes()
	classes[0] = "mutated"
	attrs := s.Attributes()
	attrs[0].Value = "mutated"

	if s.Classes()[0] != "car" {
		t.Fatalf("classes mutated through accessor")
	}
	if value, _ := s.Attribute("data-brand"); value != "renault" {
		t.Fatalf("attributes mutated through accessor")
	}
}

func TestShapeScalarMetadataOverwrites(t *testing.T) {
	s := newUntyped("Car")
	s.SetID("first")
	s.SetID("my-renault")
	s.SetTagName("div")
	s.SetTagName(" h3 ")

	if s.ID() != "my-renault" || s.TagName() != "h3" {
		t.Fatalf("unexpected metadata: id=%q tag=%q", s.ID(), s.TagName())
	}
}

func TestShapeSetPropertyOnTypedShape(t *testing.T) {
	s := newTyped("Car", &car{})
	if err := s.SetProperty("Brand", "Renault"); !errors.Is(err, ErrTypedShape) {
		t.Fatalf("expected ErrTypedShape, got %v", err)
	}
	if _, ok := s.Property("Brand"); ok {
		t.Fatalf("typed shapes have no property bag")
	}
}

func TestShapeAlternates(t *testing.T) {
	s := newUntyped("Car")
	s.AddAlternate("Car__Summary")
	s.AddAlternate("Car__Summary")
	s.AddAlternate("Car__Detail")

	if diff := cmp.Diff([]string{"Car__Summary", "Car__Detail"}, s.Alternates()); diff != "" {
		t.Fatalf("alternates mismatch (-want +got):\n%s", diff)
	}
}
