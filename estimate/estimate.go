// Package estimate derives FTP, VO2max and VLamax from a power curve and an
// athlete profile. Every estimator is a pure function of its inputs plus an
// explicitly passed CoefficientSet; a metric that cannot be computed is NaN.
package estimate

import (
	"fmt"
	"math"

	go_json "github.com/goccy/go-json"
	"gonum.org/v1/gonum/stat"

	"github.com/360coachinglab/powerprofile-app/athlete"
	"github.com/360coachinglab/powerprofile-app/curve"
)

// FTP sources recorded in Metrics.
const (
	SourceRegression  = "cp_regression"
	SourceSimpleCP    = "simple_cp"
	SourceUnavailable = "unavailable"
)

// Metrics is the estimator output. Uncomputable values are NaN.
type Metrics struct {
	CoefficientSet string
	FTPWatts       float64
	FTPSource      string
	FTPPerKG       float64
	VO2MaxAbs      float64 // L/min
	VO2MaxRel      float64 // ml/min/kg
	VLamax         float64 // mmol/L/s
	FatFreeMassKG  float64
}

type metricsJSON struct {
	CoefficientSet string   `json:"coefficient_set"`
	FTPWatts       *float64 `json:"ftp_w"`
	FTPSource      string   `json:"ftp_source"`
	FTPPerKG       *float64 `json:"ftp_per_kg"`
	VO2MaxAbs      *float64 `json:"vo2max_l_min"`
	VO2MaxRel      *float64 `json:"vo2max_ml_min_kg"`
	VLamax         *float64 `json:"vlamax_mmol_l_s"`
	FatFreeMassKG  *float64 `json:"ffm_kg"`
}

// MarshalJSON writes NaN metrics as null.
func (m Metrics) MarshalJSON() ([]byte, error) {
	return go_json.Marshal(metricsJSON{
		CoefficientSet: m.CoefficientSet,
		FTPWatts:       Ptr(m.FTPWatts),
		FTPSource:      m.FTPSource,
		FTPPerKG:       Ptr(m.FTPPerKG),
		VO2MaxAbs:      Ptr(m.VO2MaxAbs),
		VO2MaxRel:      Ptr(m.VO2MaxRel),
		VLamax:         Ptr(m.VLamax),
		FatFreeMassKG:  Ptr(m.FatFreeMassKG),
	})
}

// Ptr returns nil for NaN or infinite values.
func Ptr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// FTP fits power against 1/(duration in minutes) over every curve point at or
// above minDuration and returns the intercept. NaN with fewer than two points.
func FTP(c curve.Curve, minDuration int) float64 {
	var xs, ys []float64
	for _, d := range c.Durations() {
		if d < minDuration {
			continue
		}
		p := c[d]
		if math.IsNaN(p) {
			continue
		}
		xs = append(xs, 1/(float64(d)/60))
		ys = append(ys, p)
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	alpha, _ := stat.LinearRegression(xs, ys, nil, false)
	return alpha
}

// SimpleCP is the two-point critical power estimate (P3min + P20min) / 2.
func SimpleCP(p180, p1200 float64) float64 {
	return (p180 + p1200) / 2
}

// VO2Input carries the values any VO2 formula may read.
type VO2Input struct {
	P300     float64
	FTP      float64
	WeightKG float64
}

// VO2Max applies f. Relative VO2max is NaN without a weight; absolute VO2max
// is NaN for relative formulas without a weight.
func VO2Max(in VO2Input, f VO2Formula) (abs, rel float64) {
	weight := in.WeightKG
	if weight <= 0 {
		weight = math.NaN()
	}
	switch f.Kind {
	case VO2Absolute5Min:
		abs = f.Slope*in.P300 + f.Intercept
		rel = abs * 1000 / weight
	case VO2Relative5Min:
		rel = f.Intercept + f.Slope*in.P300/weight
		abs = rel * weight / 1000
	case VO2RelativeCP:
		rel = f.Slope*in.FTP/weight + f.Intercept
		abs = rel * weight / 1000
	default:
		return math.NaN(), math.NaN()
	}
	return abs, rel
}

// VLamaxInput carries the lactate regression terms.
type VLamaxInput struct {
	FatFreeMassKG float64
	Power20s      float64
	PeakPower     float64
	SexCode       float64
}

// VLamax evaluates the linear lactate model. Any NaN input yields NaN.
func VLamax(in VLamaxInput, c VLamaxCoefficients) float64 {
	return c.Intercept +
		c.FatFreeMass*in.FatFreeMassKG +
		c.Duration*float64(c.ReferenceDurationS) +
		c.Power*in.Power20s +
		c.PeakPower*in.PeakPower +
		c.Sex*in.SexCode
}

// Estimate computes every metric independently; a missing input only blanks
// the metrics that depend on it. The error is reserved for an invalid profile
// or coefficient set.
func Estimate(c curve.Curve, peak float64, p athlete.Profile, set CoefficientSet) (Metrics, error) {
	if err := p.Validate(); err != nil {
		return Metrics{}, fmt.Errorf("validate profile: %w", err)
	}
	if err := set.Validate(); err != nil {
		return Metrics{}, fmt.Errorf("validate coefficients: %w", err)
	}

	m := Metrics{
		CoefficientSet: set.Name,
		FatFreeMassKG:  p.FatFreeMassKG(),
	}
	switch set.Method() {
	case FTPSimpleCP:
		m.FTPWatts, m.FTPSource = SimpleCP(c.Get(180), c.Get(1200)), SourceSimpleCP
	default:
		m.FTPWatts, m.FTPSource = FTP(c, set.CPMinDurationS), SourceRegression
	}
	if math.IsNaN(m.FTPWatts) {
		m.FTPSource = SourceUnavailable
	}
	m.FTPPerKG = p.PerKG(m.FTPWatts)

	m.VO2MaxAbs, m.VO2MaxRel = VO2Max(VO2Input{
		P300:     c.Get(300),
		FTP:      m.FTPWatts,
		WeightKG: p.WeightKG,
	}, set.VO2Max)

	m.VLamax = VLamax(VLamaxInput{
		FatFreeMassKG: m.FatFreeMassKG,
		Power20s:      c.Get(set.VLamax.ReferenceDurationS),
		PeakPower:     peak,
		SexCode:       p.Sex.Code(),
	}, set.VLamax)

	return m, nil
}

// ClassifierInputs projects the metrics the athlete classifier reads.
func (m Metrics) ClassifierInputs() athlete.Inputs {
	return athlete.Inputs{
		VO2MaxRel: m.VO2MaxRel,
		VLamax:    m.VLamax,
		FTPPerKG:  m.FTPPerKG,
	}
}
