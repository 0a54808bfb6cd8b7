// Package series turns decoded recording samples into a uniform 1 Hz grid.
package series

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// ErrInsufficientData reports that a computation has no valid input to work with.
// Callers above the estimator boundary translate it into NaN or an absent value.
var ErrInsufficientData = errors.New("insufficient data")

// ErrSpanTooLong reports a recording whose first and last timestamps are further
// apart than MaxSpan, usually a corrupted record.
var ErrSpanTooLong = errors.New("recording span too long")

// MaxSpan bounds the grid Regularize allocates.
const MaxSpan = 48 * time.Hour

// Channel selects which sample channels Regularize must produce.
type Channel uint8

const (
	ChannelPower Channel = 1 << iota
	ChannelHeartRate

	ChannelAll = ChannelPower | ChannelHeartRate
)

// Sample is one decoded record. Nil channels were not recorded.
type Sample struct {
	Timestamp    time.Time
	PowerWatts   *float64
	HeartRateBPM *float64
}

// Regular is a recording resampled to one value per second from Start.
// Buckets without a value are NaN.
type Regular struct {
	Start     time.Time `json:"start"`
	Power     []float64 `json:"-"`
	HeartRate []float64 `json:"-"`
}

// Len returns the number of one-second buckets.
func (r Regular) Len() int {
	if len(r.Power) > len(r.HeartRate) {
		return len(r.Power)
	}
	return len(r.HeartRate)
}

// Duration is the span covered by the grid.
func (r Regular) Duration() time.Duration {
	return time.Duration(r.Len()) * time.Second
}

// Regularize averages samples into whole-second buckets counted from the first
// timestamp and linearly interpolates interior gaps. Leading and trailing gaps stay NaN.
func Regularize(samples []Sample, channels Channel) (Regular, error) {
	rows := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if s.Timestamp.IsZero() {
			continue
		}
		rows = append(rows, s)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})
	if countDistinct(rows) < 2 {
		return Regular{}, ErrInsufficientData
	}

	start := rows[0].Timestamp
	span := rows[len(rows)-1].Timestamp.Sub(start)
	if span > MaxSpan {
		return Regular{}, fmt.Errorf("%w: %s exceeds %s", ErrSpanTooLong, span, MaxSpan)
	}
	n := int(span/time.Second) + 1

	out := Regular{Start: start}
	if channels&ChannelPower != 0 {
		power, ok := bucketize(rows, start, n, powerOf)
		if !ok {
			return Regular{}, ErrInsufficientData
		}
		out.Power = power
	}
	if channels&ChannelHeartRate != 0 {
		hr, _ := bucketize(rows, start, n, heartRateOf)
		out.HeartRate = hr
	}
	return out, nil
}

// Max returns the highest non-NaN value, or NaN when there is none.
func Max(values []float64) float64 {
	best := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(best) || v > best {
			best = v
		}
	}
	return best
}

func countDistinct(sorted []Sample) int {
	count := 0
	var last time.Time
	for i, s := range sorted {
		if i == 0 || !s.Timestamp.Equal(last) {
			count++
			last = s.Timestamp
		}
	}
	return count
}

func powerOf(s Sample) (float64, bool) {
	if s.PowerWatts == nil || !isFinite(*s.PowerWatts) || *s.PowerWatts < 0 {
		return 0, false
	}
	return *s.PowerWatts, true
}

func heartRateOf(s Sample) (float64, bool) {
	if s.HeartRateBPM == nil || !isFinite(*s.HeartRateBPM) || *s.HeartRateBPM <= 0 {
		return 0, false
	}
	return *s.HeartRateBPM, true
}

func bucketize(rows []Sample, start time.Time, n int, value func(Sample) (float64, bool)) ([]float64, bool) {
	sums := make([]float64, n)
	counts := make([]int, n)
	found := false
	for _, s := range rows {
		v, ok := value(s)
		if !ok {
			continue
		}
		idx := int(s.Timestamp.Sub(start) / time.Second)
		sums[idx] += v
		counts[idx]++
		found = true
	}

	out := make([]float64, n)
	for i := range out {
		if counts[i] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sums[i] / float64(counts[i])
	}
	interpolate(out)
	return out, found
}

// interpolate fills NaN runs that have a valid neighbour on both sides.
func interpolate(values []float64) {
	prev := -1
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			lo, hi := values[prev], v
			span := float64(i - prev)
			for j := prev + 1; j < i; j++ {
				values[j] = lo + (hi-lo)*float64(j-prev)/span
			}
		}
		prev = i
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
