// Package dataset flattens analysed profiles into training rows for the
// VO2max model: anthropometrics, a fixed set of mean-maximal power columns,
// fat-free mass, VLamax and VO2max.
package dataset

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/360coachinglab/powerprofile-app/athlete"
	"github.com/360coachinglab/powerprofile-app/curve"
	"github.com/360coachinglab/powerprofile-app/estimate"
)

const timeLayout = time.RFC3339

// ErrParquetUnsupported is returned by MarshalParquet in browser builds.
var ErrParquetUnsupported = errors.New("parquet output is not supported in js builds")

// MMPDurations are the curve durations exported as MMP_* columns.
var MMPDurations = [...]int{1, 20, 60, 120, 180, 300, 600, 1200}

// Row is one training-table entry. Missing values are NaN.
type Row struct {
	ID          uuid.UUID
	RecordedAt  time.Time
	WeightKG    float64
	BodyFatPct  float64
	Sex         athlete.Sex
	MMP         [len(MMPDurations)]float64
	FFM         float64
	FTPWatts    float64
	VLamax      float64
	VO2Max      float64 // ml/min/kg
	AthleteType athlete.Type
}

// NewRow builds a row with a fresh ID.
func NewRow(p athlete.Profile, c curve.Curve, m estimate.Metrics, t athlete.Type, at time.Time) Row {
	r := Row{
		ID:          uuid.New(),
		RecordedAt:  at.UTC(),
		WeightKG:    optional(p.WeightKG),
		BodyFatPct:  optional(p.BodyFatPct),
		Sex:         p.Sex,
		FFM:         p.FatFreeMassKG(),
		FTPWatts:    m.FTPWatts,
		VLamax:      m.VLamax,
		VO2Max:      m.VO2MaxRel,
		AthleteType: t,
	}
	for i, d := range MMPDurations {
		r.MMP[i] = c.Get(d)
	}
	return r
}

// ColumnNames lists the flat column names in export order.
func ColumnNames() []string {
	out := []string{"id", "recorded_at", "weight_kg", "body_fat_pct", "sex"}
	for _, d := range MMPDurations {
		out = append(out, mmpColumn(d))
	}
	return append(out, "ffm_kg", "ftp_w", "vlamax", "vo2max", "athlete_type")
}

func mmpColumn(d int) string {
	return "MMP_" + curve.Label(d)
}

func optional(v float64) float64 {
	if v <= 0 {
		return math.NaN()
	}
	return v
}
