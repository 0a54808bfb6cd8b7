// Package fitdecode reads activity FIT recordings into raw power and heart-rate samples.
package fitdecode

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/tormoder/fit"

	"github.com/360coachinglab/powerprofile-app/series"
)

// DecodeError reports a recording that could not be read.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeFile opens and decodes the FIT file at path.
func DecodeFile(path string) ([]series.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("open FIT file: %w", err)}
	}
	defer f.Close()
	return Decode(path, f)
}

// DecodeBytes decodes an in-memory FIT file. name only labels errors.
func DecodeBytes(name string, data []byte) ([]series.Sample, error) {
	return Decode(name, bytes.NewReader(data))
}

// Decode reads every record message of an activity file. Records without a
// valid timestamp are skipped; invalid power or heart-rate fields become nil.
// A recording without any power field is returned as-is.
func Decode(name string, r io.Reader) ([]series.Sample, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, &DecodeError{Path: name, Err: err}
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, &DecodeError{Path: name, Err: fmt.Errorf("activity FIT expected: %w", err)}
	}

	out := make([]series.Sample, 0, len(activity.Records))
	for _, rec := range activity.Records {
		if rec == nil || !validTime(rec.Timestamp) {
			continue
		}
		s := series.Sample{Timestamp: rec.Timestamp}
		if p, ok := extractPower(rec); ok {
			s.PowerWatts = &p
		}
		if hr, ok := extractHeartRate(rec); ok {
			s.HeartRateBPM = &hr
		}
		out = append(out, s)
	}
	return out, nil
}

func validTime(t time.Time) bool {
	return !t.IsZero() && !fit.IsBaseTime(t)
}

func extractPower(rec *fit.RecordMsg) (float64, bool) {
	if rec.Power == math.MaxUint16 {
		return 0, false
	}
	return float64(rec.Power), true
}

func extractHeartRate(rec *fit.RecordMsg) (float64, bool) {
	if rec.HeartRate == math.MaxUint8 || rec.HeartRate == 0 {
		return 0, false
	}
	return float64(rec.HeartRate), true
}
