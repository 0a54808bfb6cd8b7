// Package curve computes mean-maximal power curves from regularized recordings.
package curve

import (
	"math"
	"sort"

	"github.com/360coachinglab/powerprofile-app/series"
)

// Curve maps a duration in seconds to the best mean power in watts for that duration.
// Durations a recording cannot produce are absent rather than NaN.
type Curve map[int]float64

// Durations returns the curve's durations in ascending order.
func (c Curve) Durations() []int {
	out := make([]int, 0, len(c))
	for d := range c {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// Get returns the best power for d, or NaN when the curve has no value.
func (c Curve) Get(d int) float64 {
	v, ok := c[d]
	if !ok {
		return math.NaN()
	}
	return v
}

// Point is one curve entry in display order.
type Point struct {
	DurationSeconds int     `json:"duration_s"`
	PowerWatts      float64 `json:"power_w"`
}

// Points flattens the curve into ascending-duration order.
func (c Curve) Points() []Point {
	durations := c.Durations()
	out := make([]Point, 0, len(durations))
	for _, d := range durations {
		out = append(out, Point{DurationSeconds: d, PowerWatts: c[d]})
	}
	return out
}

// BestRollingAverage returns the highest mean over any contiguous window of
// seconds samples. Windows that touch a NaN bucket are skipped; NaN is returned
// when no full window exists.
func BestRollingAverage(values []float64, seconds int) float64 {
	best := math.NaN()
	if seconds <= 0 || len(values) < seconds {
		return best
	}

	sum := 0.0
	run := 0
	for i, v := range values {
		if math.IsNaN(v) {
			sum = 0
			run = 0
			continue
		}
		sum += v
		run++
		if run > seconds {
			sum -= values[i-seconds]
			run = seconds
		}
		if run == seconds {
			mean := sum / float64(seconds)
			if math.IsNaN(best) || mean > best {
				best = mean
			}
		}
	}
	return best
}

// Build evaluates every duration in ds against one regularized recording.
func Build(reg series.Regular, ds DurationSet) Curve {
	out := make(Curve, len(ds))
	for _, d := range ds {
		v := BestRollingAverage(reg.Power, d)
		if math.IsNaN(v) {
			continue
		}
		out[d] = v
	}
	return out
}

// Combine takes the per-duration maximum across curves.
func Combine(curves ...Curve) Curve {
	out := make(Curve)
	for _, c := range curves {
		for d, v := range c {
			if math.IsNaN(v) {
				continue
			}
			if cur, ok := out[d]; !ok || v > cur {
				out[d] = v
			}
		}
	}
	return out
}

// PeakPower returns the single highest regularized power sample across recordings.
func PeakPower(regs ...series.Regular) float64 {
	peak := math.NaN()
	for _, r := range regs {
		v := series.Max(r.Power)
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(peak) || v > peak {
			peak = v
		}
	}
	return peak
}
