package main

import (
	"fmt"
	"io"

	go_json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/360coachinglab/powerprofile-app/zones"
)

func zonesCmd() *cobra.Command {
	var (
		ftp    float64
		maxHR  float64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "zones",
		Short: "Print power zones from FTP and heart-rate zones from max HR",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fl := cmd.Flags()
			if !fl.Changed("ftp") && !fl.Changed("max-hr") {
				return fmt.Errorf("at least one of --ftp or --max-hr is required")
			}

			var tables []zones.Table
			if fl.Changed("ftp") {
				t, err := zones.Calculate(ftp, zones.PowerScheme())
				if err != nil {
					return fmt.Errorf("power zones: %w", err)
				}
				tables = append(tables, t)
			}
			if fl.Changed("max-hr") {
				t, err := zones.Calculate(maxHR, zones.HeartRateScheme())
				if err != nil {
					return fmt.Errorf("heart rate zones: %w", err)
				}
				tables = append(tables, t)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := go_json.MarshalIndent(tables, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal zones: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			for i, t := range tables {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printZones(out, t)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&ftp, "ftp", 0, "Functional threshold power in watts")
	cmd.Flags().Float64Var(&maxHR, "max-hr", 0, "Maximum heart rate in bpm")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print zones as JSON")
	return cmd
}

func printZones(w io.Writer, t zones.Table) {
	fmt.Fprintf(w, "%s (%.0f %s)\n", t.Scheme, t.Threshold, t.Unit)
	for _, z := range t.Zones {
		if z.Upper == nil {
			fmt.Fprintf(w, "  %-24s %4.0f+ %s\n", z.Name, z.Lower, t.Unit)
			continue
		}
		fmt.Fprintf(w, "  %-24s %4.0f-%.0f %s\n", z.Name, z.Lower, *z.Upper, t.Unit)
	}
}
