// Package fittest encodes small activity FIT files for tests.
package fittest

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/tormoder/fit"
)

// Start is the first record timestamp of every generated recording.
var Start = time.Date(2026, 2, 26, 23, 0, 0, 0, time.UTC)

// Point is one record. Zero power or heart rate is encoded as the invalid value.
type Point struct {
	Offset    time.Duration
	Power     uint16
	HeartRate uint8
}

// Constant returns n one-second points at the given power and heart rate.
func Constant(n int, power uint16, hr uint8) []Point {
	out := make([]Point, n)
	for i := range out {
		out[i] = Point{Offset: time.Duration(i) * time.Second, Power: power, HeartRate: hr}
	}
	return out
}

// Encode builds an activity FIT file holding one record per point.
func Encode(t testing.TB, points []Point) []byte {
	t.Helper()

	file, err := fit.NewFile(fit.FileTypeActivity, fit.NewHeader(fit.V20, true))
	if err != nil {
		t.Fatalf("new fit file: %v", err)
	}
	activity, err := file.Activity()
	if err != nil {
		t.Fatalf("activity accessor: %v", err)
	}

	start := fit.NewEventMsg()
	start.Timestamp = Start
	start.Event = fit.EventTimer
	start.EventType = fit.EventTypeStart
	activity.Events = append(activity.Events, start)

	for _, p := range points {
		rec := fit.NewRecordMsg()
		rec.Timestamp = Start.Add(p.Offset)
		if p.Power > 0 {
			rec.Power = p.Power
		}
		if p.HeartRate > 0 {
			rec.HeartRate = p.HeartRate
		}
		activity.Records = append(activity.Records, rec)
	}

	var buf bytes.Buffer
	if err := fit.Encode(&buf, file, binary.LittleEndian); err != nil {
		t.Fatalf("encode fit: %v", err)
	}
	return buf.Bytes()
}
