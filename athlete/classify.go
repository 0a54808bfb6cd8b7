// Package athlete classifies riders from derived physiological metrics.
package athlete

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownCategory indicates a category outside the known set.
var ErrUnknownCategory = errors.New("unknown athlete category")

// Type is a rider category.
type Type string

const (
	Climber      Type = "climber"
	TimeTrialist Type = "time_trialist"
	Sprinter     Type = "sprinter"
	MTBXCO       Type = "mtb_xco"
	MarathonMTB  Type = "marathon_mtb"
	Criterium    Type = "criterium"
	AllRounder   Type = "all_rounder"
)

// Types lists every category in display order.
var Types = []Type{Climber, TimeTrialist, Sprinter, MTBXCO, MarathonMTB, Criterium, AllRounder}

var typeNames = map[Type]string{
	Climber:      "Climber",
	TimeTrialist: "Time-Trialist",
	Sprinter:     "Sprinter",
	MTBXCO:       "MTB XCO",
	MarathonMTB:  "Marathon MTB",
	Criterium:    "Criterium",
	AllRounder:   "All-Rounder",
}

// Valid reports whether t is a known category.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// String returns the display name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return string(t)
}

// ParseType accepts either the identifier or the display name, case-insensitively.
func ParseType(s string) (Type, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if norm == string(t) || norm == strings.ToLower(name) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Inputs are the classifier's three metrics. NaN never satisfies a condition.
type Inputs struct {
	VO2MaxRel float64 `json:"vo2max_rel_ml_min_kg"`
	VLamax    float64 `json:"vlamax_mmol_l_s"`
	FTPPerKG  float64 `json:"ftp_w_per_kg"`
}

// Metric names one of the classifier inputs.
type Metric string

const (
	MetricVO2MaxRel Metric = "vo2max_rel"
	MetricVLamax    Metric = "vlamax"
	MetricFTPPerKG  Metric = "ftp_per_kg"
)

func (in Inputs) value(m Metric) (float64, bool) {
	switch m {
	case MetricVO2MaxRel:
		return in.VO2MaxRel, true
	case MetricVLamax:
		return in.VLamax, true
	case MetricFTPPerKG:
		return in.FTPPerKG, true
	default:
		return 0, false
	}
}

// Op is a threshold comparison.
type Op string

const (
	AtLeast Op = ">="
	AtMost  Op = "<="
	Below   Op = "<"
	Above   Op = ">"
)

// Condition compares one metric against a threshold.
type Condition struct {
	Metric Metric  `yaml:"metric" json:"metric"`
	Op     Op      `yaml:"op" json:"op"`
	Value  float64 `yaml:"value" json:"value"`
}

func (c Condition) holds(in Inputs) bool {
	v, ok := in.value(c.Metric)
	if !ok || math.IsNaN(v) {
		return false
	}
	switch c.Op {
	case AtLeast:
		return v >= c.Value
	case AtMost:
		return v <= c.Value
	case Below:
		return v < c.Value
	case Above:
		return v > c.Value
	default:
		return false
	}
}

// Rule assigns Type when every condition holds.
type Rule struct {
	Type       Type        `yaml:"type" json:"type"`
	Conditions []Condition `yaml:"conditions" json:"conditions"`
}

// Matches reports whether all conditions hold for in.
func (r Rule) Matches(in Inputs) bool {
	if len(r.Conditions) == 0 {
		return false
	}
	for _, c := range r.Conditions {
		if !c.holds(in) {
			return false
		}
	}
	return true
}

// DefaultRules is the canonical rule table. Order matters: the first match wins.
func DefaultRules() []Rule {
	return []Rule{
		{Type: Climber, Conditions: []Condition{
			{MetricVO2MaxRel, AtLeast, 70}, {MetricVLamax, AtMost, 0.40}, {MetricFTPPerKG, AtLeast, 4.8},
		}},
		{Type: TimeTrialist, Conditions: []Condition{
			{MetricVO2MaxRel, AtLeast, 65}, {MetricVLamax, AtMost, 0.35},
		}},
		{Type: Sprinter, Conditions: []Condition{
			{MetricVLamax, AtLeast, 0.60}, {MetricFTPPerKG, Below, 4.0},
		}},
		{Type: MTBXCO, Conditions: []Condition{
			{MetricVO2MaxRel, AtLeast, 65}, {MetricVLamax, AtLeast, 0.50}, {MetricFTPPerKG, AtLeast, 4.5},
		}},
		{Type: MarathonMTB, Conditions: []Condition{
			{MetricVO2MaxRel, AtLeast, 60}, {MetricVLamax, AtMost, 0.50}, {MetricFTPPerKG, AtLeast, 4.2},
		}},
		{Type: Criterium, Conditions: []Condition{
			{MetricVO2MaxRel, AtLeast, 60}, {MetricVLamax, AtLeast, 0.50},
		}},
	}
}

// Classifier evaluates an ordered rule list.
type Classifier struct {
	rules    []Rule
	fallback Type
}

// NewClassifier validates rules and returns a classifier that falls back to AllRounder.
func NewClassifier(rules []Rule) (*Classifier, error) {
	for i, r := range rules {
		if !r.Type.Valid() {
			return nil, fmt.Errorf("rule %d: %w: %q", i, ErrUnknownCategory, r.Type)
		}
		if len(r.Conditions) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no conditions", i, r.Type)
		}
		for _, c := range r.Conditions {
			if _, ok := (Inputs{}).value(c.Metric); !ok {
				return nil, fmt.Errorf("rule %d (%s): unknown metric %q", i, r.Type, c.Metric)
			}
			switch c.Op {
			case AtLeast, AtMost, Below, Above:
			default:
				return nil, fmt.Errorf("rule %d (%s): unknown operator %q", i, r.Type, c.Op)
			}
		}
	}
	return &Classifier{rules: append([]Rule(nil), rules...), fallback: AllRounder}, nil
}

var defaultClassifier = &Classifier{rules: DefaultRules(), fallback: AllRounder}

// Classify returns the category of the first matching rule.
func (c *Classifier) Classify(in Inputs) Type {
	for _, r := range c.rules {
		if r.Matches(in) {
			return r.Type
		}
	}
	return c.fallback
}

// Classify runs the default rule table.
func Classify(in Inputs) Type {
	return defaultClassifier.Classify(in)
}
