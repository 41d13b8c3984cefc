package model

import (
	"fmt"
	"slices"
	"strings"
)

// Pet is informational context for a plan; it does not influence scheduling.
type Pet struct {
	Name         string
	Species      string
	Age          int
	SpecialNeeds []string
}

// NewPet returns a Pet. specialNeeds keeps the caller's order.
func NewPet(name, species string, age int, specialNeeds ...string) *Pet {
	return &Pet{Name: name, Species: species, Age: age, SpecialNeeds: slices.Clone(specialNeeds)}
}

// Info returns the pet attributes as a map, suitable for rendering.
func (p *Pet) Info() map[string]any {
	return map[string]any{
		"name":          p.Name,
		"species":       p.Species,
		"age":           p.Age,
		"special_needs": slices.Clone(p.SpecialNeeds),
	}
}

func (p *Pet) String() string {
	s := fmt.Sprintf("%s (%s, %d years old)", p.Name, p.Species, p.Age)
	if len(p.SpecialNeeds) > 0 {
		s += " - special needs: " + strings.Join(p.SpecialNeeds, ", ")
	}
	return s
}
