package main

import (
	"fmt"
	"log/slog"

	go_json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	powerprofile "github.com/360coachinglab/powerprofile-app"
	"github.com/360coachinglab/powerprofile-app/athlete"
	"github.com/360coachinglab/powerprofile-app/internal/config"
	"github.com/360coachinglab/powerprofile-app/internal/xslog"
	"github.com/360coachinglab/powerprofile-app/pipeline"
)

type analyzeFlags struct {
	weightKG     float64
	bodyFatPct   float64
	sex          string
	target       string
	coefficients string
	set          string
	durations    string
	outDir       string
	overwrite    bool
	dbPath       string
	workers      int
	asJSON       bool
}

func analyzeCmd(cfg config.Config) *cobra.Command {
	f := analyzeFlags{
		coefficients: cfg.CoefficientsFile,
		set:          cfg.CoefficientSet,
		durations:    cfg.Durations,
		outDir:       cfg.OutDir,
		dbPath:       cfg.DatabasePath,
		workers:      cfg.Workers,
	}

	cmd := &cobra.Command{
		Use:   "analyze FILE.fit [FILE.fit...]",
		Short: "Build the combined power curve and athlete profile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cfg, xslog.FromContext(cmd.Context()))
			if err != nil {
				return err
			}
			opts.FitPaths = args

			res, err := pipeline.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if f.asJSON {
				data, err := go_json.MarshalIndent(res.Profile, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal profile: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprintln(out, res.Profile.Notes)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Output dir:      %s\n", res.OutputDir)
			fmt.Fprintf(out, "manifest.json:   %s\n", res.ManifestPath)
			fmt.Fprintf(out, "profile.json:    %s\n", res.ProfilePath)
			fmt.Fprintf(out, "notes.md:        %s\n", res.NotesPath)
			if res.CurvePath != "" {
				fmt.Fprintf(out, "power curve:     %s\n", res.CurvePath)
			}
			if res.TrainingRowPath != "" {
				fmt.Fprintf(out, "training row:    %s\n", res.TrainingRowPath)
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(out, "warning:         %s\n", w)
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.Float64Var(&f.weightKG, "weight", 0, "Athlete weight in kg")
	fl.Float64Var(&f.bodyFatPct, "body-fat", 0, "Body fat in percent")
	fl.StringVar(&f.sex, "sex", "male", "Athlete sex: male|female")
	fl.StringVar(&f.target, "target", "", "Target race type, e.g. marathon_mtb")
	fl.StringVar(&f.coefficients, "coefficients", f.coefficients, "YAML file with additional coefficient sets")
	fl.StringVar(&f.set, "set", f.set, "Coefficient set name")
	fl.StringVar(&f.durations, "durations", f.durations, "Comma separated curve durations, e.g. 5,20,1m,5m,20m")
	fl.StringVar(&f.outDir, "out", f.outDir, "Output directory")
	fl.BoolVar(&f.overwrite, "overwrite", false, "Allow writing into a non-empty output directory")
	fl.StringVar(&f.dbPath, "db", f.dbPath, "SQLite database to append the training row to")
	fl.IntVar(&f.workers, "workers", f.workers, "Concurrent decoders")
	fl.BoolVar(&f.asJSON, "json", false, "Print the profile as JSON instead of notes")
	return cmd
}

func (f analyzeFlags) options(cfg config.Config, logger *slog.Logger) (pipeline.Options, error) {
	sex, err := athlete.ParseSex(f.sex)
	if err != nil {
		return pipeline.Options{}, err
	}
	var target athlete.Type
	if f.target != "" {
		if target, err = athlete.ParseType(f.target); err != nil {
			return pipeline.Options{}, err
		}
	}

	cfg.CoefficientsFile = f.coefficients
	cfg.CoefficientSet = f.set
	cfg.Durations = f.durations
	set, err := cfg.Coefficients()
	if err != nil {
		return pipeline.Options{}, err
	}
	durations, err := cfg.DurationSet()
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		OutDir:       f.outDir,
		Overwrite:    f.overwrite,
		DatabasePath: f.dbPath,
		Analysis: powerprofile.Config{
			Athlete:      athlete.Profile{WeightKG: f.weightKG, BodyFatPct: f.bodyFatPct, Sex: sex},
			Durations:    durations,
			Coefficients: set,
			TargetType:   target,
			Workers:      f.workers,
			Logger:       logger,
		},
	}, nil
}
