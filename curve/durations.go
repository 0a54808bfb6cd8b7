package curve

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// DurationSet is an ascending list of unique window widths in seconds.
type DurationSet []int

// MaxDuration is the longest window width accepted.
const MaxDuration = 4 * 3600

// DefaultDurations covers sprint through multi-hour efforts, including the
// 20 s, 180 s and 300 s points the estimators depend on.
func DefaultDurations() DurationSet {
	return DurationSet{
		1, 5, 10, 15, 20, 30, 45, 60, 90, 120, 180, 240, 300, 360, 480, 600,
		720, 900, 1200, 1800, 2400, 3600, 5400, 7200, 10800, 14400,
	}
}

// Validate checks ordering, uniqueness and range.
func (ds DurationSet) Validate() error {
	if len(ds) == 0 {
		return fmt.Errorf("duration set is empty")
	}
	for i, d := range ds {
		if d <= 0 || d > MaxDuration {
			return fmt.Errorf("duration %d out of range 1..%d", d, MaxDuration)
		}
		if i > 0 && d <= ds[i-1] {
			return fmt.Errorf("durations must be strictly ascending: %d after %d", d, ds[i-1])
		}
	}
	return nil
}

// With returns a new set holding ds plus every in-range duration in extra.
func (ds DurationSet) With(extra ...int) DurationSet {
	out := append(DurationSet(nil), ds...)
	for _, d := range extra {
		if d > 0 && d <= MaxDuration {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// ParseDurationSet parses a comma separated list such as "5,20,60,300".
// Entries may carry an s, m or h suffix.
func ParseDurationSet(s string) (DurationSet, error) {
	parts := strings.Split(s, ",")
	out := make(DurationSet, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := parseSeconds(p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseSeconds(s string) (int, error) {
	mult := 1
	switch {
	case strings.HasSuffix(s, "h"):
		mult, s = 3600, strings.TrimSuffix(s, "h")
	case strings.HasSuffix(s, "m"):
		mult, s = 60, strings.TrimSuffix(s, "m")
	case strings.HasSuffix(s, "s"):
		s = strings.TrimSuffix(s, "s")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return n * mult, nil
}

// Label renders a duration the way power-curve tables usually show it.
func Label(seconds int) string {
	switch {
	case seconds >= 3600 && seconds%3600 == 0:
		return fmt.Sprintf("%dh", seconds/3600)
	case seconds >= 60 && seconds%60 == 0:
		return fmt.Sprintf("%dmin", seconds/60)
	case seconds >= 60:
		return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
