package pipeline

import (
	"time"

	powerprofile "github.com/360coachinglab/powerprofile-app"
	"github.com/360coachinglab/powerprofile-app/dataset"
)

// FormatVersion identifies the artifact layout written by Run and RunBytes.
const FormatVersion = "powerprofile_v1"

// Artifact file names.
const (
	ManifestFile    = "manifest.json"
	ProfileFile     = "profile.json"
	CurveFile       = "power_curve.parquet"
	NotesFile       = "notes.md"
	TrainingRowFile = "training_row.parquet"
)

// Options configures the on-disk pipeline.
type Options struct {
	FitPaths  []string
	OutDir    string
	Overwrite bool
	Analysis  powerprofile.Config

	// DatabasePath appends the training row to a SQLite table when set.
	DatabasePath string
}

// BytesOptions configures the in-memory pipeline used by the browser build.
type BytesOptions struct {
	Sources  []Source
	Analysis powerprofile.Config
}

// Source is one in-memory recording.
type Source struct {
	FileName string
	Data     []byte
}

// Result returns generated output paths.
type Result struct {
	OutputDir       string                `json:"output_dir"`
	ManifestPath    string                `json:"manifest_path"`
	ProfilePath     string                `json:"profile_path"`
	CurvePath       string                `json:"curve_path,omitempty"`
	NotesPath       string                `json:"notes_path"`
	TrainingRowPath string                `json:"training_row_path,omitempty"`
	Warnings        []string              `json:"warnings,omitempty"`
	Profile         *powerprofile.Profile `json:"-"`
	Row             dataset.Row           `json:"-"`
}

// BytesResult holds every artifact keyed by file name.
type BytesResult struct {
	Files    map[string][]byte
	Warnings []string
	Profile  *powerprofile.Profile
	Row      dataset.Row
}

// Manifest describes one pipeline run.
type Manifest struct {
	FormatVersion  string       `json:"format_version"`
	GeneratedAt    time.Time    `json:"generated_at"`
	CoefficientSet string       `json:"coefficient_set"`
	DurationsS     []int        `json:"durations_s"`
	Sources        []SourceInfo `json:"sources"`
	Artifacts      []string     `json:"artifacts"`
	Warnings       []string     `json:"warnings,omitempty"`
}

// SourceInfo fingerprints one input recording.
type SourceInfo struct {
	FileName  string      `json:"file_name"`
	SHA256    string      `json:"sha256"`
	SizeBytes int64       `json:"size_bytes"`
	Device    *DeviceInfo `json:"device,omitempty"`
	Analyzed  bool        `json:"analyzed"`
	Error     string      `json:"error,omitempty"`
}

// DeviceInfo is the file_id projection of a recording.
type DeviceInfo struct {
	Type         string `json:"type"`
	Manufacturer string `json:"manufacturer"`
	Product      string `json:"product"`
	TimeCreated  string `json:"time_created,omitempty"`
	SerialNumber uint32 `json:"serial_number,omitempty"`
}
