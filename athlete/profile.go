package athlete

import (
	"fmt"
	"math"
	"strings"
)

// Sex selects the sex term of the lactate regression.
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// Code is the regression encoding: 0 for male, 1 for female.
func (s Sex) Code() float64 {
	if s == Female {
		return 1
	}
	return 0
}

// ParseSex accepts male/female and the m/f shorthands.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "":
		return Male, nil
	case "female", "f":
		return Female, nil
	default:
		return "", &InvalidInputError{Field: "sex", Value: s}
	}
}

// Profile holds the anthropometric inputs. Zero weight or body fat means not provided.
type Profile struct {
	WeightKG   float64 `json:"weight_kg" yaml:"weight_kg"`
	BodyFatPct float64 `json:"body_fat_pct" yaml:"body_fat_pct"`
	Sex        Sex     `json:"sex" yaml:"sex"`
}

// InvalidInputError reports a non-physical caller-supplied value.
type InvalidInputError struct {
	Field string
	Value any
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
}

// Validate rejects negative, NaN or out-of-range values.
func (p Profile) Validate() error {
	if math.IsNaN(p.WeightKG) || math.IsInf(p.WeightKG, 0) || p.WeightKG < 0 {
		return &InvalidInputError{Field: "weight_kg", Value: p.WeightKG}
	}
	if math.IsNaN(p.BodyFatPct) || p.BodyFatPct < 0 || p.BodyFatPct >= 100 {
		return &InvalidInputError{Field: "body_fat_pct", Value: p.BodyFatPct}
	}
	switch p.Sex {
	case Male, Female, "":
	default:
		return &InvalidInputError{Field: "sex", Value: p.Sex}
	}
	return nil
}

// HasWeight reports whether a weight was supplied.
func (p Profile) HasWeight() bool {
	return p.WeightKG > 0
}

// FatFreeMassKG is weight × (1 − body fat fraction), NaN when either input is missing.
func (p Profile) FatFreeMassKG() float64 {
	if p.WeightKG <= 0 || p.BodyFatPct <= 0 {
		return math.NaN()
	}
	return p.WeightKG * (1 - p.BodyFatPct/100)
}

// PerKG divides watts by weight, NaN when weight is missing.
func (p Profile) PerKG(watts float64) float64 {
	if !p.HasWeight() {
		return math.NaN()
	}
	return watts / p.WeightKG
}
