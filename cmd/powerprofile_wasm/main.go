//go:build js && wasm

package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"syscall/js"
	"time"

	powerprofile "github.com/360coachinglab/powerprofile-app"
	"github.com/360coachinglab/powerprofile-app/athlete"
	"github.com/360coachinglab/powerprofile-app/curve"
	"github.com/360coachinglab/powerprofile-app/estimate"
	"github.com/360coachinglab/powerprofile-app/internal/xslog"
	"github.com/360coachinglab/powerprofile-app/pipeline"
)

func main() {
	js.Global().Set("analyzePowerProfile", js.FuncOf(analyzePowerProfile))
	select {}
}

// analyzePowerProfile(files, options) takes an array of {name, bytes} objects.
func analyzePowerProfile(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		return failure("expected arguments: files(Array<{name, bytes}>), options(object)")
	}
	filesArg := args[0]
	optsArg := args[1]
	if filesArg.IsUndefined() || filesArg.IsNull() || filesArg.Length() == 0 {
		return failure("at least one FIT file is required")
	}

	sources := make([]pipeline.Source, 0, filesArg.Length())
	for i := 0; i < filesArg.Length(); i++ {
		entry := filesArg.Index(i)
		data := entry.Get("bytes")
		if data.IsUndefined() || data.IsNull() || data.Length() == 0 {
			return failure(fmt.Sprintf("file %d has no bytes", i+1))
		}
		buf := make([]byte, data.Length())
		if n := js.CopyBytesToGo(buf, data); n == 0 {
			return failure("failed to read FIT bytes from JS input")
		}
		sources = append(sources, pipeline.Source{
			FileName: getString(entry, "name", fmt.Sprintf("input_%d.fit", i+1)),
			Data:     buf,
		})
	}

	cfg, err := analysisConfig(optsArg)
	if err != nil {
		return failure(err.Error())
	}

	result, err := pipeline.RunBytes(context.Background(), pipeline.BytesOptions{Sources: sources, Analysis: cfg})
	if err != nil {
		return failure(err.Error())
	}

	zipBytes, err := zipArtifacts(result.Files)
	if err != nil {
		return failure(fmt.Sprintf("create zip: %v", err))
	}
	payload := js.Global().Get("Uint8Array").New(len(zipBytes))
	js.CopyBytesToJS(payload, zipBytes)

	fileNames := make([]string, 0, len(result.Files))
	for name := range result.Files {
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	return map[string]any{
		"ok":           true,
		"zip":          payload,
		"profile":      string(result.Files[pipeline.ProfileFile]),
		"notes":        result.Profile.Notes,
		"athlete_type": string(result.Profile.AthleteType),
		"warnings":     stringsToAny(result.Warnings),
		"files":        stringsToAny(fileNames),
	}
}

func analysisConfig(opts js.Value) (powerprofile.Config, error) {
	sex, err := athlete.ParseSex(getString(opts, "sex", "male"))
	if err != nil {
		return powerprofile.Config{}, err
	}
	var target athlete.Type
	if s := getString(opts, "target", ""); s != "" {
		if target, err = athlete.ParseType(s); err != nil {
			return powerprofile.Config{}, err
		}
	}

	reg := estimate.Builtin()
	if y := getString(opts, "coefficients_yaml", ""); y != "" {
		if reg, err = estimate.ParseCoefficients([]byte(y)); err != nil {
			return powerprofile.Config{}, err
		}
	}
	set, err := reg.Lookup(getString(opts, "coefficient_set", estimate.DefaultSetName))
	if err != nil {
		return powerprofile.Config{}, err
	}

	durations := curve.DefaultDurations()
	if s := getString(opts, "durations", ""); s != "" {
		if durations, err = curve.ParseDurationSet(s); err != nil {
			return powerprofile.Config{}, err
		}
	}

	level, err := xslog.Parse(getString(opts, "log_level", string(xslog.LevelWarn)))
	if err != nil {
		return powerprofile.Config{}, err
	}

	return powerprofile.Config{
		Athlete: athlete.Profile{
			WeightKG:   getFloat(opts, "weight_kg"),
			BodyFatPct: getFloat(opts, "body_fat_pct"),
			Sex:        sex,
		},
		Durations:    durations,
		Coefficients: set,
		TargetType:   target,
		Logger:       xslog.NewLogger(os.Stderr, level),
	}, nil
}

func failure(msg string) map[string]any {
	return map[string]any{
		"ok":    false,
		"error": msg,
	}
}

func zipArtifacts(files map[string][]byte) ([]byte, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fixedTime := time.Unix(0, 0).UTC()

	for _, name := range names {
		h := &zip.FileHeader{
			Name:   name,
			Method: zip.Deflate,
		}
		h.SetModTime(fixedTime)
		w, err := zw.CreateHeader(h)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(files[name]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func getString(v js.Value, key, fallback string) string {
	if v.IsUndefined() || v.IsNull() {
		return fallback
	}
	out := v.Get(key)
	if out.IsUndefined() || out.IsNull() {
		return fallback
	}
	s := out.String()
	if s == "" || s == "undefined" || s == "null" {
		return fallback
	}
	return s
}

func getFloat(v js.Value, key string) float64 {
	if v.IsUndefined() || v.IsNull() {
		return 0
	}
	out := v.Get(key)
	if out.IsUndefined() || out.IsNull() || out.Type() != js.TypeNumber {
		return 0
	}
	return out.Float()
}

func stringsToAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
