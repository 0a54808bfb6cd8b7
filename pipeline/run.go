package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/tormoder/fit"

	powerprofile "github.com/360coachinglab/powerprofile-app"
	"github.com/360coachinglab/powerprofile-app/dataset"
	"github.com/360coachinglab/powerprofile-app/internal/xslog"
)

// Run analyzes every FIT file in opts.FitPaths and writes the artifact bundle:
//   - manifest.json
//   - profile.json
//   - power_curve.parquet
//   - notes.md
//   - training_row.parquet
func Run(ctx context.Context, opts Options) (*Result, error) {
	if len(opts.FitPaths) == 0 {
		return nil, fmt.Errorf("at least one fit path is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	sources := make([]Source, 0, len(opts.FitPaths))
	for _, path := range opts.FitPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			// Decoded from the path so the failure names the read error.
			sources = append(sources, Source{FileName: path})
			continue
		}
		sources = append(sources, Source{FileName: path, Data: data})
	}

	if err := ensureOutputDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}

	bundle, err := RunBytes(ctx, BytesOptions{Sources: sources, Analysis: opts.Analysis})
	if err != nil {
		return nil, err
	}

	res := &Result{
		OutputDir: opts.OutDir,
		Warnings:  bundle.Warnings,
		Profile:   bundle.Profile,
		Row:       bundle.Row,
	}
	for name, data := range bundle.Files {
		path := filepath.Join(opts.OutDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		switch name {
		case ManifestFile:
			res.ManifestPath = path
		case ProfileFile:
			res.ProfilePath = path
		case CurveFile:
			res.CurvePath = path
		case NotesFile:
			res.NotesPath = path
		case TrainingRowFile:
			res.TrainingRowPath = path
		}
	}

	if opts.DatabasePath != "" {
		if err := appendTrainingRow(ctx, opts.DatabasePath, bundle.Row); err != nil {
			return nil, err
		}
		xslog.OrDiscard(opts.Analysis.Logger).Info("training row stored", xslog.Path(opts.DatabasePath))
	}
	return res, nil
}

// RunBytes runs the analysis over in-memory recordings and returns every artifact
// keyed by file name. Parquet artifacts are skipped with a warning where the
// platform cannot produce them.
func RunBytes(ctx context.Context, opts BytesOptions) (*BytesResult, error) {
	if len(opts.Sources) == 0 {
		return nil, fmt.Errorf("at least one source is required")
	}

	now := time.Now().UTC()
	inputs := make([]powerprofile.Input, len(opts.Sources))
	infos := make([]SourceInfo, len(opts.Sources))
	for i, src := range opts.Sources {
		name := src.FileName
		if name == "" {
			name = fmt.Sprintf("input_%d.fit", i+1)
		}
		inputs[i] = powerprofile.Input{Name: name, Data: src.Data}
		if src.Data == nil {
			inputs[i].Path = name
		}
		sum := sha256.Sum256(src.Data)
		infos[i] = SourceInfo{
			FileName:  filepath.Base(name),
			SHA256:    hex.EncodeToString(sum[:]),
			SizeBytes: int64(len(src.Data)),
			Device:    projectDevice(src.Data),
		}
	}

	profile, err := powerprofile.AnalyzeFiles(ctx, inputs, opts.Analysis)
	if err != nil {
		return nil, fmt.Errorf("analyze recordings: %w", err)
	}

	for _, f := range profile.Files {
		infos[f.Index].Analyzed = true
	}
	for _, f := range profile.Failures {
		infos[f.Index].Error = f.Error
	}

	files := make(map[string][]byte, 5)
	var warnings []string
	for _, f := range profile.Failures {
		warnings = append(warnings, fmt.Sprintf("%s: %s", filepath.Base(f.Name), f.Error))
	}

	profileJSON, err := marshalJSON(profile)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", ProfileFile, err)
	}
	files[ProfileFile] = profileJSON
	files[NotesFile] = []byte(profile.Notes + "\n")

	row := dataset.NewRow(profile.Athlete, profile.Curve, profile.Metrics, profile.AthleteType, now)

	parquetArtifacts := []struct {
		name    string
		marshal func() ([]byte, error)
	}{
		{CurveFile, func() ([]byte, error) { return marshalCurveParquet(profile) }},
		{TrainingRowFile, func() ([]byte, error) { return marshalTrainingRow(row) }},
	}
	for _, a := range parquetArtifacts {
		data, err := a.marshal()
		switch {
		case errors.Is(err, dataset.ErrParquetUnsupported):
			warnings = append(warnings, fmt.Sprintf("%s skipped: %v", a.name, err))
		case err != nil:
			return nil, fmt.Errorf("write %s: %w", a.name, err)
		default:
			files[a.name] = data
		}
	}

	manifest := Manifest{
		FormatVersion:  FormatVersion,
		GeneratedAt:    now,
		CoefficientSet: profile.Metrics.CoefficientSet,
		DurationsS:     profile.Durations,
		Sources:        infos,
		Artifacts:      artifactNames(files),
		Warnings:       warnings,
	}
	manifestJSON, err := marshalJSON(manifest)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", ManifestFile, err)
	}
	files[ManifestFile] = manifestJSON

	return &BytesResult{
		Files:    files,
		Warnings: warnings,
		Profile:  profile,
		Row:      row,
	}, nil
}

func artifactNames(files map[string][]byte) []string {
	names := make([]string, 0, len(files)+1)
	for name := range files {
		names = append(names, name)
	}
	names = append(names, ManifestFile)
	sort.Strings(names)
	return names
}

// projectDevice returns the file_id projection, or nil when the header cannot be read.
func projectDevice(data []byte) *DeviceInfo {
	if len(data) == 0 {
		return nil
	}
	_, id, err := fit.DecodeHeaderAndFileID(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	info := &DeviceInfo{
		Type:         fmt.Sprint(id.Type),
		Manufacturer: fmt.Sprint(id.Manufacturer),
		Product:      fmt.Sprint(id.GetProduct()),
		SerialNumber: id.SerialNumber,
	}
	if !id.TimeCreated.IsZero() && !fit.IsBaseTime(id.TimeCreated) {
		info.TimeCreated = id.TimeCreated.UTC().Format("2006-01-02T15:04:05Z")
	}
	return info
}

func ensureOutputDir(path string, overwrite bool) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 && !overwrite {
		return fmt.Errorf("output directory is not empty: %s (set overwrite=true to allow)", path)
	}
	return nil
}

func marshalJSON(v any) ([]byte, error) {
	out, err := go_json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
