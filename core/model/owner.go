package model

import (
	"fmt"
	"maps"
	"math"
)

const (
	MinAvailableHours = 0.0
	MaxAvailableHours = 24.0
)

// Owner is the person caring for the pet. AvailableHoursPerDay is the daily
// time budget the scheduler fills.
type Owner struct {
	Name                 string
	AvailableHoursPerDay float64
	preferences          map[string]any
}

// NewOwner validates the hour budget and returns an Owner.
func NewOwner(name string, availableHours float64) (*Owner, error) {
	if math.IsNaN(availableHours) || availableHours < MinAvailableHours || availableHours > MaxAvailableHours {
		return nil, invalid("available hours", availableHours,
			fmt.Sprintf("must be between %.0f and %.0f", MinAvailableHours, MaxAvailableHours))
	}
	return &Owner{Name: name, AvailableHoursPerDay: availableHours, preferences: map[string]any{}}, nil
}

// AvailableHours returns the daily time budget in hours.
func (o *Owner) AvailableHours() float64 { return o.AvailableHoursPerDay }

// Preferences returns a copy of the preference store.
func (o *Owner) Preferences() map[string]any {
	return maps.Clone(o.preferences)
}

// UpdatePreferences merges prefs into the preference store. Existing keys are
// overwritten. Anything other than a string-keyed map yields a TypeError.
func (o *Owner) UpdatePreferences(prefs any) error {
	if o.preferences == nil {
		o.preferences = map[string]any{}
	}
	switch p := prefs.(type) {
	case map[string]any:
		maps.Copy(o.preferences, p)
	case map[string]string:
		for k, v := range p {
			o.preferences[k] = v
		}
	default:
		return &TypeError{Expected: "map[string]any", Got: fmt.Sprintf("%T", prefs)}
	}
	return nil
}

func (o *Owner) String() string {
	return fmt.Sprintf("%s (%.1f hours/day available)", o.Name, o.AvailableHoursPerDay)
}
