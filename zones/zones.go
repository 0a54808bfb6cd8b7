// Package zones turns a threshold into absolute training-zone bounds.
package zones

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidThreshold is returned for zero, negative or NaN thresholds.
var ErrInvalidThreshold = errors.New("invalid threshold")

// Band is one zone of a scheme, expressed as fractions of the threshold.
// A nil Upper is unbounded.
type Band struct {
	Name  string   `yaml:"name" json:"name"`
	Lower float64  `yaml:"lower" json:"lower"`
	Upper *float64 `yaml:"upper" json:"upper,omitempty"`
}

// Scheme is an ordered list of bands.
type Scheme struct {
	Name  string `yaml:"name" json:"name"`
	Unit  string `yaml:"unit" json:"unit"`
	Bands []Band `yaml:"bands" json:"bands"`
}

func frac(v float64) *float64 { return &v }

// PowerScheme is the seven-zone scheme over FTP.
func PowerScheme() Scheme {
	return Scheme{
		Name: "power",
		Unit: "W",
		Bands: []Band{
			{Name: "Z1 Active Recovery", Lower: 0, Upper: frac(0.55)},
			{Name: "Z2 Endurance", Lower: 0.56, Upper: frac(0.75)},
			{Name: "Z3 Tempo", Lower: 0.76, Upper: frac(0.90)},
			{Name: "Z4 Threshold", Lower: 0.91, Upper: frac(1.05)},
			{Name: "Z5 VO2max", Lower: 1.06, Upper: frac(1.20)},
			{Name: "Z6 Anaerobic", Lower: 1.21, Upper: frac(1.50)},
			{Name: "Z7 Neuromuscular", Lower: 1.51},
		},
	}
}

// HeartRateScheme is the five-zone scheme over maximum heart rate.
func HeartRateScheme() Scheme {
	return Scheme{
		Name: "heart_rate",
		Unit: "bpm",
		Bands: []Band{
			{Name: "Z1 Recovery", Lower: 0, Upper: frac(0.60)},
			{Name: "Z2 Endurance", Lower: 0.61, Upper: frac(0.70)},
			{Name: "Z3 Aerobic", Lower: 0.71, Upper: frac(0.80)},
			{Name: "Z4 Threshold", Lower: 0.81, Upper: frac(0.89)},
			{Name: "Z5 VO2max", Lower: 0.90},
		},
	}
}

// Validate checks that bands ascend and only the last is open-ended.
func (s Scheme) Validate() error {
	if len(s.Bands) == 0 {
		return fmt.Errorf("scheme %q has no bands", s.Name)
	}
	for i, b := range s.Bands {
		if math.IsNaN(b.Lower) || b.Lower < 0 {
			return fmt.Errorf("scheme %q band %q: negative lower bound", s.Name, b.Name)
		}
		if b.Upper == nil {
			if i != len(s.Bands)-1 {
				return fmt.Errorf("scheme %q band %q: only the last band may be unbounded", s.Name, b.Name)
			}
			continue
		}
		if *b.Upper < b.Lower {
			return fmt.Errorf("scheme %q band %q: upper below lower", s.Name, b.Name)
		}
		if i > 0 && b.Lower < s.Bands[i-1].Lower {
			return fmt.Errorf("scheme %q band %q: bands out of order", s.Name, b.Name)
		}
	}
	return nil
}

// Zone is one absolute zone.
type Zone struct {
	Name  string   `json:"name"`
	Lower float64  `json:"lower"`
	Upper *float64 `json:"upper,omitempty"`
}

// Table is the ordered result of Calculate.
type Table struct {
	Scheme    string  `json:"scheme"`
	Unit      string  `json:"unit"`
	Threshold float64 `json:"threshold"`
	Zones     []Zone  `json:"zones"`
}

// Calculate scales each band of s by threshold.
func Calculate(threshold float64, s Scheme) (Table, error) {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold <= 0 {
		return Table{}, fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	out := Table{
		Scheme:    s.Name,
		Unit:      s.Unit,
		Threshold: threshold,
		Zones:     make([]Zone, 0, len(s.Bands)),
	}
	for _, b := range s.Bands {
		z := Zone{Name: b.Name, Lower: b.Lower * threshold}
		if b.Upper != nil {
			upper := *b.Upper * threshold
			z.Upper = &upper
		}
		out.Zones = append(out.Zones, z)
	}
	return out, nil
}

// Locate returns the name of the zone containing v. Values in the gap between
// two bands belong to the lower zone.
func (t Table) Locate(v float64) (string, bool) {
	if math.IsNaN(v) || len(t.Zones) == 0 || v < t.Zones[0].Lower {
		return "", false
	}
	for i, z := range t.Zones {
		if z.Upper == nil {
			return z.Name, true
		}
		if v <= *z.Upper {
			return z.Name, true
		}
		if i+1 < len(t.Zones) && v < t.Zones[i+1].Lower {
			return z.Name, true
		}
	}
	return "", false
}
