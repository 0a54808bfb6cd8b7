package powerprofile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/360coachinglab/powerprofile-app/athlete"
	"github.com/360coachinglab/powerprofile-app/curve"
	"github.com/360coachinglab/powerprofile-app/estimate"
	"github.com/360coachinglab/powerprofile-app/fitdecode"
	"github.com/360coachinglab/powerprofile-app/internal/xslog"
	"github.com/360coachinglab/powerprofile-app/series"
	"github.com/360coachinglab/powerprofile-app/zones"
)

const defaultWorkers = 4

// Config controls a multi-file analysis. Zero values select the defaults.
type Config struct {
	Athlete      athlete.Profile
	Durations    curve.DurationSet
	Coefficients estimate.CoefficientSet
	Classifier   *athlete.Classifier
	TargetType   athlete.Type
	Workers      int
	Logger       *slog.Logger
}

func (c Config) withDefaults() Config {
	if len(c.Durations) == 0 {
		c.Durations = curve.DefaultDurations()
	}
	if c.Coefficients.Name == "" {
		c.Coefficients = estimate.DefaultSet()
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	c.Logger = xslog.OrDiscard(c.Logger)
	return c
}

// Input is one recording. Data wins over Path when both are set.
type Input struct {
	Name string
	Path string
	Data []byte
}

func (in Input) label() string {
	if in.Name != "" {
		return in.Name
	}
	return in.Path
}

// FileResult summarizes one successfully decoded recording.
type FileResult struct {
	Index           int           `json:"index"`
	Name            string        `json:"name"`
	Samples         int           `json:"samples"`
	DurationSeconds int           `json:"duration_s"`
	HasPower        bool          `json:"has_power"`
	PeakPowerWatts  *float64      `json:"peak_power_w,omitempty"`
	MaxHeartRateBPM *float64      `json:"max_hr_bpm,omitempty"`
	Curve           []curve.Point `json:"power_curve,omitempty"`

	curve curve.Curve
	reg   series.Regular
}

// Failure is a recording that could not be decoded. Index is its position in
// the inputs passed to AnalyzeFiles.
type Failure struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Profile is the combined result of AnalyzeFiles.
type Profile struct {
	Athlete         athlete.Profile  `json:"athlete"`
	Files           []FileResult     `json:"files"`
	Failures        []Failure        `json:"failures,omitempty"`
	Durations       []int            `json:"durations_s"`
	Curve           curve.Curve      `json:"-"`
	CurvePoints     []curve.Point    `json:"power_curve"`
	PeakPowerWatts  *float64         `json:"peak_power_w"`
	MaxHeartRateBPM *float64         `json:"max_hr_bpm"`
	Metrics         estimate.Metrics `json:"metrics"`
	PowerZones      *zones.Table     `json:"power_zones,omitempty"`
	HeartRateZones  *zones.Table     `json:"heart_rate_zones,omitempty"`
	AthleteType     athlete.Type     `json:"athlete_type"`
	AthleteTypeName string           `json:"athlete_type_name"`
	Suggestions     []string         `json:"suggestions"`
	Advice          *athlete.Advice  `json:"advice,omitempty"`
	Notes           string           `json:"notes"`
}

// AnalyzeFiles decodes every input concurrently, combines the per-file power
// curves and derives the athlete profile. A recording that fails to decode is
// reported in Failures and never aborts the batch. Errors are returned only for
// invalid configuration or a cancelled context.
func AnalyzeFiles(ctx context.Context, inputs []Input, cfg Config) (*Profile, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Athlete.Validate(); err != nil {
		return nil, fmt.Errorf("validate athlete: %w", err)
	}
	if err := cfg.Durations.Validate(); err != nil {
		return nil, fmt.Errorf("validate durations: %w", err)
	}
	if err := cfg.Coefficients.Validate(); err != nil {
		return nil, fmt.Errorf("validate coefficients: %w", err)
	}
	if cfg.TargetType != "" && !cfg.TargetType.Valid() {
		return nil, fmt.Errorf("validate target: %w: %q", athlete.ErrUnknownCategory, string(cfg.TargetType))
	}
	cfg.Durations = cfg.Durations.With(cfg.Coefficients.ReferenceDurations()...)

	started := time.Now()
	results := make([]*FileResult, len(inputs))
	errs := make([]error, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := analyzeInput(in, cfg.Durations)
			if err != nil {
				cfg.Logger.Warn("skipping recording", xslog.File(in.label()), xslog.Error(err))
				errs[i] = err
				return nil
			}
			cfg.Logger.Debug("recording analyzed", xslog.File(res.Name), xslog.Seconds(res.DurationSeconds))
			res.Index = i
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze recordings: %w", err)
	}

	p := &Profile{
		Athlete:   cfg.Athlete,
		Durations: append([]int(nil), cfg.Durations...),
	}
	var curves []curve.Curve
	var regs []series.Regular
	maxHR := math.NaN()
	for i, res := range results {
		if res == nil {
			p.Failures = append(p.Failures, Failure{Index: i, Name: inputs[i].label(), Error: errs[i].Error()})
			continue
		}
		p.Files = append(p.Files, *res)
		if res.HasPower {
			curves = append(curves, res.curve)
			regs = append(regs, res.reg)
		}
		if res.MaxHeartRateBPM != nil && (math.IsNaN(maxHR) || *res.MaxHeartRateBPM > maxHR) {
			maxHR = *res.MaxHeartRateBPM
		}
	}

	p.Curve = curve.Combine(curves...)
	p.CurvePoints = p.Curve.Points()
	peak := curve.PeakPower(regs...)
	p.PeakPowerWatts = estimate.Ptr(peak)
	p.MaxHeartRateBPM = estimate.Ptr(maxHR)

	metrics, err := estimate.Estimate(p.Curve, peak, cfg.Athlete, cfg.Coefficients)
	if err != nil {
		return nil, fmt.Errorf("estimate metrics: %w", err)
	}
	p.Metrics = metrics

	if table, err := zones.Calculate(metrics.FTPWatts, zones.PowerScheme()); err == nil {
		p.PowerZones = &table
	} else if !math.IsNaN(metrics.FTPWatts) {
		cfg.Logger.Warn("power zones unavailable", xslog.Error(err))
	}
	if table, err := zones.Calculate(maxHR, zones.HeartRateScheme()); err == nil {
		p.HeartRateZones = &table
	}

	if err := classifyProfile(p, cfg); err != nil {
		return nil, err
	}
	p.Notes = BuildProfileNotes(p)

	cfg.Logger.Info("analysis complete",
		xslog.Count(len(p.Files)),
		slog.Int("failures", len(p.Failures)),
		xslog.CoefficientSet(metrics.CoefficientSet),
		xslog.Duration(time.Since(started)),
	)
	return p, nil
}

func classifyProfile(p *Profile, cfg Config) error {
	in := p.Metrics.ClassifierInputs()
	if cfg.Classifier != nil {
		p.AthleteType = cfg.Classifier.Classify(in)
	} else {
		p.AthleteType = athlete.Classify(in)
	}
	p.AthleteTypeName = p.AthleteType.String()

	sugg, err := athlete.Suggestions(p.AthleteType)
	if err != nil {
		return fmt.Errorf("load suggestions: %w", err)
	}
	p.Suggestions = sugg

	if cfg.TargetType != "" {
		advice, err := athlete.CompareTarget(p.AthleteType, cfg.TargetType, p.Metrics.VLamax)
		if err != nil {
			return fmt.Errorf("compare target: %w", err)
		}
		p.Advice = &advice
	}
	return nil
}

func analyzeInput(in Input, ds curve.DurationSet) (*FileResult, error) {
	var (
		samples []series.Sample
		err     error
	)
	if in.Data != nil {
		samples, err = fitdecode.DecodeBytes(in.label(), in.Data)
	} else {
		samples, err = fitdecode.DecodeFile(in.Path)
	}
	if err != nil {
		return nil, err
	}

	res := &FileResult{Name: in.label(), Samples: len(samples)}

	hr := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.HeartRateBPM != nil {
			hr = append(hr, *s.HeartRateBPM)
		}
	}
	res.MaxHeartRateBPM = estimate.Ptr(series.Max(hr))

	reg, err := series.Regularize(samples, series.ChannelPower)
	switch {
	case errors.Is(err, series.ErrInsufficientData):
		return res, nil
	case err != nil:
		return nil, fmt.Errorf("regularize %s: %w", res.Name, err)
	}
	res.HasPower = true
	res.DurationSeconds = reg.Len()
	res.reg = reg
	res.curve = curve.Build(reg, ds)
	res.Curve = res.curve.Points()
	res.PeakPowerWatts = estimate.Ptr(curve.PeakPower(reg))
	return res, nil
}
