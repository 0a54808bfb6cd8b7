//go:build !js

package dataset

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/360coachinglab/powerprofile-app/athlete"
	"github.com/360coachinglab/powerprofile-app/curve"
	"github.com/360coachinglab/powerprofile-app/estimate"
)

func sampleRow() Row {
	p := athlete.Profile{WeightKG: 70, BodyFatPct: 15, Sex: athlete.Female}
	c := curve.Curve{1: 900, 20: 700, 60: 450, 180: 360, 300: 320, 600: 290, 1200: 270}
	m := estimate.Metrics{FTPWatts: 260, VLamax: 0.45, VO2MaxRel: 58.1}
	return NewRow(p, c, m, athlete.Criterium, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
}

func TestNewRow(t *testing.T) {
	t.Parallel()

	r := sampleRow()
	if r.ID == uuid.Nil {
		t.Fatal("expected a generated ID")
	}
	if math.Abs(r.FFM-59.5) > 1e-9 {
		t.Fatalf("FFM = %v, want 59.5", r.FFM)
	}
	want := [len(MMPDurations)]float64{900, 700, 450, math.NaN(), 360, 320, 290, 270}
	for i := range want {
		if math.IsNaN(want[i]) != math.IsNaN(r.MMP[i]) || (!math.IsNaN(want[i]) && want[i] != r.MMP[i]) {
			t.Fatalf("MMP[%d] = %v, want %v", i, r.MMP[i], want[i])
		}
	}

	empty := NewRow(athlete.Profile{}, curve.Curve{}, estimate.Metrics{}, athlete.AllRounder, time.Now())
	if !math.IsNaN(empty.WeightKG) || !math.IsNaN(empty.BodyFatPct) || !math.IsNaN(empty.FFM) {
		t.Fatalf("missing anthropometrics should be NaN: %+v", empty)
	}
	if empty.ID == r.ID {
		t.Fatal("IDs should be unique")
	}
}

func TestColumnNames(t *testing.T) {
	t.Parallel()

	want := []string{
		"id", "recorded_at", "weight_kg", "body_fat_pct", "sex",
		"MMP_1s", "MMP_20s", "MMP_1min", "MMP_2min", "MMP_3min", "MMP_5min", "MMP_10min", "MMP_20min",
		"ffm_kg", "ftp_w", "vlamax", "vo2max", "athlete_type",
	}
	if diff := cmp.Diff(want, ColumnNames()); diff != "" {
		t.Fatalf("ColumnNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalParquet(t *testing.T) {
	t.Parallel()

	rows := []Row{sampleRow(), sampleRow()}
	data, err := MarshalParquet(rows)
	if err != nil {
		t.Fatalf("MarshalParquet() error: %v", err)
	}

	fr := parquetbuffer.NewBufferFileFromBytes(data)
	pr, err := reader.NewParquetReader(fr, new(parquetRow), 1)
	if err != nil {
		t.Fatalf("NewParquetReader() error: %v", err)
	}
	defer pr.ReadStop()

	if n := pr.GetNumRows(); n != 2 {
		t.Fatalf("GetNumRows() = %d, want 2", n)
	}
	got := make([]parquetRow, 2)
	if err := pr.Read(&got); err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got[0].ID != rows[0].ID.String() || got[0].Sex != "female" || got[0].AthleteType != "criterium" {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if got[1].MMP20min != 270 || got[1].RecordedAt != "2026-03-01T08:00:00Z" {
		t.Fatalf("unexpected second row: %+v", got[1])
	}
}
