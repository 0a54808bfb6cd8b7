package estimate

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSet is returned when a coefficient set name is not registered.
var ErrUnknownSet = errors.New("unknown coefficient set")

// VO2Kind selects how VO2max is derived.
type VO2Kind string

const (
	// VO2Absolute5Min: abs = Slope·P300 + Intercept (L/min), rel = abs·1000/weight.
	VO2Absolute5Min VO2Kind = "absolute_5min"
	// VO2Relative5Min: rel = Intercept + Slope·P300/weight (ml/min/kg).
	VO2Relative5Min VO2Kind = "relative_5min"
	// VO2RelativeCP: rel = Slope·FTP/weight + Intercept (ml/min/kg).
	VO2RelativeCP VO2Kind = "cp_relative"
)

// FTPMethod selects how a set derives FTP.
type FTPMethod string

const (
	// FTPRegression fits the critical-power model over every curve point of at
	// least CPMinDurationS. An empty method means regression.
	FTPRegression FTPMethod = "cp_regression"
	// FTPSimpleCP averages the 3 min and 20 min bests.
	FTPSimpleCP FTPMethod = "simple_cp"
)

// VO2Formula is a linear VO2max formula.
type VO2Formula struct {
	Kind      VO2Kind `yaml:"kind" json:"kind"`
	Slope     float64 `yaml:"slope" json:"slope"`
	Intercept float64 `yaml:"intercept" json:"intercept"`
}

// VLamaxCoefficients weight the lactate regression terms.
type VLamaxCoefficients struct {
	Intercept          float64 `yaml:"intercept" json:"intercept"`
	FatFreeMass        float64 `yaml:"ffm" json:"ffm"`
	Duration           float64 `yaml:"duration" json:"duration"`
	Power              float64 `yaml:"power" json:"power"`
	PeakPower          float64 `yaml:"peak_power" json:"peak_power"`
	Sex                float64 `yaml:"sex" json:"sex"`
	ReferenceDurationS int     `yaml:"reference_duration_s" json:"reference_duration_s"`
}

// CoefficientSet is one named, immutable estimator configuration.
type CoefficientSet struct {
	Name           string             `yaml:"name" json:"name"`
	FTPMethod      FTPMethod          `yaml:"ftp_method,omitempty" json:"ftp_method,omitempty"`
	CPMinDurationS int                `yaml:"cp_min_duration_s,omitempty" json:"cp_min_duration_s,omitempty"`
	VO2Max         VO2Formula         `yaml:"vo2max" json:"vo2max"`
	VLamax         VLamaxCoefficients `yaml:"vlamax" json:"vlamax"`
}

// ReferenceDurations lists the curve durations the estimators read with this set.
func (s CoefficientSet) ReferenceDurations() []int {
	out := []int{s.VLamax.ReferenceDurationS, 180, 300, 1200}
	if s.Method() == FTPRegression {
		out = append(out, s.CPMinDurationS)
	}
	return out
}

// Method returns the FTP method, defaulting to regression.
func (s CoefficientSet) Method() FTPMethod {
	if s.FTPMethod == "" {
		return FTPRegression
	}
	return s.FTPMethod
}

// Validate checks the fields every estimator depends on.
func (s CoefficientSet) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("coefficient set has no name")
	}
	switch s.Method() {
	case FTPRegression:
		if s.CPMinDurationS <= 0 {
			return fmt.Errorf("set %q: cp_min_duration_s must be positive", s.Name)
		}
	case FTPSimpleCP:
	default:
		return fmt.Errorf("set %q: unknown ftp_method %q", s.Name, s.FTPMethod)
	}
	switch s.VO2Max.Kind {
	case VO2Absolute5Min, VO2Relative5Min, VO2RelativeCP:
	default:
		return fmt.Errorf("set %q: unknown vo2max kind %q", s.Name, s.VO2Max.Kind)
	}
	if s.VLamax.ReferenceDurationS <= 0 {
		return fmt.Errorf("set %q: vlamax reference_duration_s must be positive", s.Name)
	}
	return nil
}

const DefaultSetName = "default"

var defaultVO2 = VO2Formula{Kind: VO2Absolute5Min, Slope: 0.01141, Intercept: 0.435}

var defaultVLamax = VLamaxCoefficients{
	Intercept:          -0.141169048396927,
	FatFreeMass:        0.004385289349914,
	Duration:           0.002030356114603,
	Power:              0.000413636126981,
	PeakPower:          -0.000192203134232,
	Sex:                0.055897283917473,
	ReferenceDurationS: 20,
}

// DefaultSet is the coefficient set used by the multi-file analysis.
func DefaultSet() CoefficientSet {
	return CoefficientSet{
		Name:           DefaultSetName,
		FTPMethod:      FTPRegression,
		CPMinDurationS: 180,
		VO2Max:         defaultVO2,
		VLamax:         defaultVLamax,
	}
}

func builtinSets() []CoefficientSet {
	return []CoefficientSet{
		DefaultSet(),
		{
			Name:           "formula_v1",
			FTPMethod:      FTPRegression,
			CPMinDurationS: 180,
			VO2Max:         defaultVO2,
			VLamax: VLamaxCoefficients{
				Intercept:          0.1032,
				FatFreeMass:        0.00487,
				Duration:           -0.00614,
				Power:              0.00063,
				PeakPower:          0.00048,
				Sex:                0.0329,
				ReferenceDurationS: 20,
			},
		},
		{
			Name:      "manual_relative",
			FTPMethod: FTPSimpleCP,
			VO2Max:    VO2Formula{Kind: VO2Relative5Min, Slope: 8.87, Intercept: 16.6},
			VLamax:    defaultVLamax,
		},
		{
			Name:      "manual_cp",
			FTPMethod: FTPSimpleCP,
			VO2Max:    VO2Formula{Kind: VO2RelativeCP, Slope: 10.8, Intercept: 7},
			VLamax:    defaultVLamax,
		},
	}
}

// Registry holds coefficient sets by name.
type Registry struct {
	sets map[string]CoefficientSet
}

// Builtin returns the registry of sets shipped with the module.
func Builtin() *Registry {
	r := &Registry{sets: make(map[string]CoefficientSet)}
	for _, s := range builtinSets() {
		r.sets[s.Name] = s
	}
	return r
}

type coefficientsFile struct {
	Sets []CoefficientSet `yaml:"sets"`
}

// LoadCoefficients reads a YAML file of coefficient sets on top of the built-in ones.
// A set with a built-in name replaces it.
func LoadCoefficients(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read coefficients file: %w", err)
	}
	return ParseCoefficients(data)
}

// ParseCoefficients is LoadCoefficients for in-memory YAML.
func ParseCoefficients(data []byte) (*Registry, error) {
	var file coefficientsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal coefficients: %w", err)
	}
	if len(file.Sets) == 0 {
		return nil, fmt.Errorf("coefficients file defines no sets")
	}
	r := Builtin()
	for _, s := range file.Sets {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		r.sets[s.Name] = s
	}
	return r, nil
}

// Lookup returns the named set.
func (r *Registry) Lookup(name string) (CoefficientSet, error) {
	if name == "" {
		name = DefaultSetName
	}
	s, ok := r.sets[name]
	if !ok {
		return CoefficientSet{}, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}
	return s, nil
}

// Names lists registered set names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.sets))
	for name := range r.sets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Marshal renders the registry as YAML in the same shape LoadCoefficients reads.
func (r *Registry) Marshal() ([]byte, error) {
	file := coefficientsFile{Sets: make([]CoefficientSet, 0, len(r.sets))}
	for _, name := range r.Names() {
		file.Sets = append(file.Sets, r.sets[name])
	}
	return yaml.Marshal(file)
}
