// Package sqlitestore keeps training rows in a local SQLite table.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/360coachinglab/powerprofile-app/athlete"
	"github.com/360coachinglab/powerprofile-app/dataset"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open creates the database file and schema when missing.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS training_rows (
  id TEXT PRIMARY KEY,
  recorded_at TEXT NOT NULL,
  weight_kg REAL,
  body_fat_pct REAL,
  sex TEXT NOT NULL,
  mmp_1s REAL,
  mmp_20s REAL,
  mmp_1min REAL,
  mmp_2min REAL,
  mmp_3min REAL,
  mmp_5min REAL,
  mmp_10min REAL,
  mmp_20min REAL,
  ffm_kg REAL,
  ftp_w REAL,
  vlamax REAL,
  vo2max REAL,
  athlete_type TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_training_rows_recorded_at ON training_rows(recorded_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create training_rows table: %w", err)
	}
	return nil
}

const columns = `id, recorded_at, weight_kg, body_fat_pct, sex,
  mmp_1s, mmp_20s, mmp_1min, mmp_2min, mmp_3min, mmp_5min, mmp_10min, mmp_20min,
  ffm_kg, ftp_w, vlamax, vo2max, athlete_type`

// Append inserts one row. Re-inserting an ID fails.
func (s *Store) Append(ctx context.Context, r dataset.Row) error {
	args := []any{
		r.ID.String(),
		r.RecordedAt.UTC().Format(time.RFC3339),
		nullable(r.WeightKG),
		nullable(r.BodyFatPct),
		string(r.Sex),
	}
	for _, v := range r.MMP {
		args = append(args, nullable(v))
	}
	args = append(args, nullable(r.FFM), nullable(r.FTPWatts), nullable(r.VLamax), nullable(r.VO2Max), string(r.AthleteType))

	stmt := "INSERT INTO training_rows (" + columns + ") VALUES (" + placeholders(len(args)) + ");"
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert training row: %w", err)
	}
	return nil
}

// List returns the most recent rows first.
func (s *Store) List(ctx context.Context, limit int) ([]dataset.Row, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT `+columns+`
FROM training_rows
ORDER BY recorded_at DESC, id ASC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list training rows: %w", err)
	}
	defer rows.Close()

	out := make([]dataset.Row, 0)
	for rows.Next() {
		var (
			id, recordedAt, sex, athleteType string
			weight, bodyFat, ffm, ftp        sql.NullFloat64
			vlamax, vo2max                   sql.NullFloat64
			mmp                              [len(dataset.MMPDurations)]sql.NullFloat64
		)
		dest := []any{&id, &recordedAt, &weight, &bodyFat, &sex}
		for i := range mmp {
			dest = append(dest, &mmp[i])
		}
		dest = append(dest, &ffm, &ftp, &vlamax, &vo2max, &athleteType)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan training row: %w", err)
		}

		r := dataset.Row{
			Sex:         athlete.Sex(sex),
			AthleteType: athlete.Type(athleteType),
			WeightKG:    orNaN(weight),
			BodyFatPct:  orNaN(bodyFat),
			FFM:         orNaN(ffm),
			FTPWatts:    orNaN(ftp),
			VLamax:      orNaN(vlamax),
			VO2Max:      orNaN(vo2max),
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse row id: %w", err)
		}
		if r.RecordedAt, err = time.Parse(time.RFC3339, recordedAt); err != nil {
			return nil, fmt.Errorf("parse recorded_at: %w", err)
		}
		for i := range mmp {
			r.MMP[i] = orNaN(mmp[i])
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate training rows: %w", err)
	}
	return out, nil
}

// Count returns the number of stored rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM training_rows;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count training rows: %w", err)
	}
	return n, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullable(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
