package fitdecode

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/360coachinglab/powerprofile-app/internal/fittest"
	"github.com/360coachinglab/powerprofile-app/series"
)

func TestDecodeBytesReadsRecords(t *testing.T) {
	t.Parallel()

	data := fittest.Encode(t, []fittest.Point{
		{Offset: 0, Power: 200, HeartRate: 120},
		{Offset: time.Second, HeartRate: 122},
		{Offset: 2 * time.Second, Power: 240},
	})

	samples, err := DecodeBytes("ride.fit", data)
	if err != nil {
		t.Fatalf("DecodeBytes() error: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}

	if !samples[0].Timestamp.Equal(fittest.Start) {
		t.Fatalf("first timestamp = %v, want %v", samples[0].Timestamp, fittest.Start)
	}
	if p := samples[0].PowerWatts; p == nil || *p != 200 {
		t.Fatalf("first power = %v, want 200", p)
	}
	if samples[1].PowerWatts != nil {
		t.Fatalf("second power = %v, want nil", *samples[1].PowerWatts)
	}
	if hr := samples[1].HeartRateBPM; hr == nil || *hr != 122 {
		t.Fatalf("second heart rate = %v, want 122", hr)
	}
	if samples[2].HeartRateBPM != nil {
		t.Fatalf("third heart rate = %v, want nil", *samples[2].HeartRateBPM)
	}

	reg, err := series.Regularize(samples, series.ChannelPower)
	if err != nil {
		t.Fatalf("Regularize() error: %v", err)
	}
	if reg.Power[1] != 220 {
		t.Fatalf("interpolated power = %v, want 220", reg.Power[1])
	}
}

func TestDecodeWithoutPowerIsValid(t *testing.T) {
	t.Parallel()

	data := fittest.Encode(t, []fittest.Point{
		{Offset: 0, HeartRate: 110},
		{Offset: time.Second, HeartRate: 111},
	})
	samples, err := DecodeBytes("hr_only.fit", data)
	if err != nil {
		t.Fatalf("DecodeBytes() error: %v", err)
	}
	for _, s := range samples {
		if s.PowerWatts != nil {
			t.Fatalf("unexpected power %v", *s.PowerWatts)
		}
	}
	if _, err := series.Regularize(samples, series.ChannelPower); !errors.Is(err, series.ErrInsufficientData) {
		t.Fatalf("Regularize() error = %v, want ErrInsufficientData", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	_, err := DecodeBytes("broken.fit", []byte("not a fit file"))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("DecodeBytes() error = %v, want DecodeError", err)
	}
	if decodeErr.Path != "broken.fit" {
		t.Fatalf("Path = %q, want broken.fit", decodeErr.Path)
	}

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.fit"))
	if !errors.As(err, &decodeErr) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("DecodeFile() error = %v, want DecodeError wrapping ErrNotExist", err)
	}
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ride.fit")
	if err := os.WriteFile(path, fittest.Encode(t, fittest.Constant(30, 250, 140)), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	samples, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile() error: %v", err)
	}
	if len(samples) != 30 {
		t.Fatalf("expected 30 samples, got %d", len(samples))
	}
}
