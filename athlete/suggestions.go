package athlete

import (
	"fmt"
	"math"
)

var suggestions = map[Type][]string{
	Sprinter:     {"8x20s all-out", "6x30s uphill sprint", "3x5min low cadence"},
	Criterium:    {"4x3min VO2max", "2x(5x1min/1min)", "Sprint repeats"},
	MTBXCO:       {"30/15s x 12min", "4x4min VO2max", "5x1min uphill burst"},
	MarathonMTB:  {"3x20min threshold", "2x12min sweet spot", "3x12min low cadence"},
	TimeTrialist: {"4x10min @ FTP", "5x5min @ 90% MAP", "Over/Under 2x15min"},
	Climber:      {"5x5min VO2max", "3x8min threshold", "Lactate shuttle 4x3min"},
	AllRounder:   {"3x10min tempo", "4x5min threshold", "2x8min Over/Under"},
}

// Suggestions returns the canonical training sessions for t.
func Suggestions(t Type) ([]string, error) {
	s, ok := suggestions[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, string(t))
	}
	return append([]string(nil), s...), nil
}

// Advice compares a classified profile with the race type the rider is targeting.
type Advice struct {
	Actual  Type   `json:"actual"`
	Target  Type   `json:"target"`
	Matches bool   `json:"matches"`
	Focus   string `json:"focus,omitempty"`
}

// CompareTarget suggests a training focus when the classified type differs from target.
func CompareTarget(actual, target Type, vlamax float64) (Advice, error) {
	if !actual.Valid() {
		return Advice{}, fmt.Errorf("%w: %q", ErrUnknownCategory, string(actual))
	}
	if !target.Valid() {
		return Advice{}, fmt.Errorf("%w: %q", ErrUnknownCategory, string(target))
	}

	a := Advice{Actual: actual, Target: target, Matches: actual == target}
	if a.Matches {
		return a, nil
	}

	known := !math.IsNaN(vlamax)
	switch {
	case target == MarathonMTB && known && vlamax > 0.5:
		a.Focus = "Lower VLamax with extensive threshold intervals (3x20min, 4x15min)"
	case target == MTBXCO && known && vlamax < 0.5:
		a.Focus = "Raise glycolytic power with 30/15s and VO2max intervals"
	case target == Sprinter && known && vlamax < 0.6:
		a.Focus = "More sprint work, e.g. 6x20s all-out with full recovery"
	default:
		a.Focus = "Adjust training focus to the gap between profile and target"
	}
	return a, nil
}
