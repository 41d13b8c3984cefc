package config

import (
	"fmt"

	"github.com/kilianp07/pawpal/core/model"
)

// OwnerConfig describes the person the plan is built for.
type OwnerConfig struct {
	Name                 string         `json:"name"`
	AvailableHoursPerDay float64        `json:"available_hours_per_day"`
	Preferences          map[string]any `json:"preferences"`
}

// Build validates the section and returns the Owner.
func (c OwnerConfig) Build() (*model.Owner, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("owner.name is required")
	}
	o, err := model.NewOwner(c.Name, c.AvailableHoursPerDay)
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	if len(c.Preferences) > 0 {
		if err := o.UpdatePreferences(c.Preferences); err != nil {
			return nil, fmt.Errorf("owner: %w", err)
		}
	}
	return o, nil
}

// PetConfig describes the pet being cared for.
type PetConfig struct {
	Name         string   `json:"name"`
	Species      string   `json:"species"`
	Age          int      `json:"age"`
	SpecialNeeds []string `json:"special_needs"`
}

// Validate checks mandatory fields.
func (c PetConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("pet.name is required")
	}
	if c.Age < 0 {
		return fmt.Errorf("pet.age must not be negative")
	}
	return nil
}

// Build returns the Pet.
func (c PetConfig) Build() *model.Pet {
	return model.NewPet(c.Name, c.Species, c.Age, c.SpecialNeeds...)
}
