//go:build !js

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	go_json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	powerprofile "github.com/360coachinglab/powerprofile-app"
	"github.com/360coachinglab/powerprofile-app/athlete"
	"github.com/360coachinglab/powerprofile-app/dataset/sqlitestore"
	"github.com/360coachinglab/powerprofile-app/internal/fittest"
)

func writeFixture(t *testing.T, dir, name string, points []fittest.Point) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, fittest.Encode(t, points), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

func TestRunWritesArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		writeFixture(t, dir, "endurance.fit", fittest.Constant(1300, 250, 150)),
		writeFixture(t, dir, "vo2.fit", fittest.Constant(400, 320, 170)),
	}
	outDir := filepath.Join(dir, "out")
	dbPath := filepath.Join(dir, "db", "rows.db")

	res, err := Run(context.Background(), Options{
		FitPaths: paths,
		OutDir:   outDir,
		Analysis: powerprofile.Config{
			Athlete: athlete.Profile{WeightKG: 70, BodyFatPct: 15, Sex: athlete.Male},
		},
		DatabasePath: dbPath,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	for _, p := range []string{res.ManifestPath, res.ProfilePath, res.CurvePath, res.NotesPath, res.TrainingRowPath} {
		if p == "" {
			t.Fatalf("missing artifact path in result: %+v", res)
		}
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("artifact %s not written: %v", p, err)
		}
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}

	data, err := os.ReadFile(res.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var manifest Manifest
	if err := go_json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if manifest.FormatVersion != FormatVersion || manifest.CoefficientSet != "default" {
		t.Fatalf("unexpected manifest header: %+v", manifest)
	}
	wantArtifacts := []string{ManifestFile, NotesFile, CurveFile, ProfileFile, TrainingRowFile}
	if diff := cmp.Diff(wantArtifacts, manifest.Artifacts); diff != "" {
		t.Fatalf("artifacts mismatch (-want +got):\n%s", diff)
	}
	if len(manifest.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(manifest.Sources))
	}
	for _, src := range manifest.Sources {
		if !src.Analyzed || len(src.SHA256) != 64 || src.SizeBytes == 0 {
			t.Fatalf("unexpected source info: %+v", src)
		}
		if src.Device == nil || src.Device.Type == "" {
			t.Fatalf("expected a file_id projection, got %+v", src.Device)
		}
	}

	profile, err := os.ReadFile(res.ProfilePath)
	if err != nil {
		t.Fatalf("read profile: %v", err)
	}
	var decoded struct {
		AthleteType string `json:"athlete_type"`
		Metrics     struct {
			FTP *float64 `json:"ftp_w"`
		} `json:"metrics"`
	}
	if err := go_json.Unmarshal(profile, &decoded); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if decoded.AthleteType == "" || decoded.Metrics.FTP == nil {
		t.Fatalf("profile missing classification or FTP: %s", profile)
	}

	store, err := sqlitestore.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 stored row, got %d", n)
	}
}

func TestRunRejectsNonEmptyOutputDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFixture(t, dir, "ride.fit", fittest.Constant(60, 200, 0))
	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "keep.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := Run(context.Background(), Options{FitPaths: []string{path}, OutDir: outDir})
	if err == nil || !strings.Contains(err.Error(), "not empty") {
		t.Fatalf("Run() error = %v, want non-empty directory error", err)
	}

	if _, err := Run(context.Background(), Options{FitPaths: []string{path}, OutDir: outDir, Overwrite: true}); err != nil {
		t.Fatalf("Run() with overwrite error: %v", err)
	}
}

func TestRunReportsUnreadableFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFixture(t, dir, "ride.fit", fittest.Constant(300, 240, 140))
	missing := filepath.Join(dir, "missing.fit")

	res, err := Run(context.Background(), Options{
		FitPaths: []string{good, missing},
		OutDir:   filepath.Join(dir, "out"),
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "missing.fit") {
		t.Fatalf("expected one warning for the missing file, got %v", res.Warnings)
	}
	if len(res.Profile.Files) != 1 {
		t.Fatalf("expected the readable file to be analyzed, got %+v", res.Profile.Files)
	}
}

func TestRunValidatesOptions(t *testing.T) {
	t.Parallel()

	if _, err := Run(context.Background(), Options{OutDir: t.TempDir()}); err == nil {
		t.Fatal("expected error without fit paths")
	}
	if _, err := Run(context.Background(), Options{FitPaths: []string{"a.fit"}}); err == nil {
		t.Fatal("expected error without output directory")
	}
	if _, err := RunBytes(context.Background(), BytesOptions{}); err == nil {
		t.Fatal("expected error without sources")
	}
}

func TestRunBytes(t *testing.T) {
	t.Parallel()

	res, err := RunBytes(context.Background(), BytesOptions{
		Sources: []Source{
			{FileName: "ride.fit", Data: fittest.Encode(t, fittest.Constant(700, 260, 155))},
			{FileName: "broken.fit", Data: []byte("not a fit file")},
			{Data: fittest.Encode(t, fittest.Constant(30, 600, 0))},
		},
	})
	if err != nil {
		t.Fatalf("RunBytes() error: %v", err)
	}

	for _, name := range []string{ManifestFile, ProfileFile, CurveFile, NotesFile, TrainingRowFile} {
		if len(res.Files[name]) == 0 {
			t.Fatalf("missing artifact %s", name)
		}
	}
	if len(res.Warnings) != 1 || !strings.HasPrefix(res.Warnings[0], "broken.fit: ") {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}

	var manifest Manifest
	if err := go_json.Unmarshal(res.Files[ManifestFile], &manifest); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	got := make(map[string]bool, len(manifest.Sources))
	for _, src := range manifest.Sources {
		got[src.FileName] = src.Analyzed
		if src.FileName == "broken.fit" && src.Error == "" {
			t.Fatal("broken source should carry its decode error")
		}
	}
	want := map[string]bool{"ride.fit": true, "broken.fit": false, "input_3.fit": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("source status mismatch (-want +got):\n%s", diff)
	}

	if res.Profile.PeakPowerWatts == nil || *res.Profile.PeakPowerWatts != 600 {
		t.Fatalf("peak power = %v, want 600", res.Profile.PeakPowerWatts)
	}
	if !strings.Contains(string(res.Files[NotesFile]), "Recordings: 2 analyzed, 1 failed") {
		t.Fatalf("unexpected notes:\n%s", res.Files[NotesFile])
	}
}

func TestRunBytesReportsDuplicateNamesByPosition(t *testing.T) {
	t.Parallel()

	res, err := RunBytes(context.Background(), BytesOptions{
		Sources: []Source{
			{FileName: "ride.fit", Data: fittest.Encode(t, fittest.Constant(300, 240, 140))},
			{FileName: "ride.fit", Data: []byte("garbage")},
		},
	})
	if err != nil {
		t.Fatalf("RunBytes() error: %v", err)
	}

	var manifest Manifest
	if err := go_json.Unmarshal(res.Files[ManifestFile], &manifest); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(manifest.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(manifest.Sources))
	}
	if first := manifest.Sources[0]; !first.Analyzed || first.Error != "" {
		t.Fatalf("first ride.fit decoded fine, got %+v", first)
	}
	if second := manifest.Sources[1]; second.Analyzed || second.Error == "" {
		t.Fatalf("second ride.fit should be reported as failed, got %+v", second)
	}
}
