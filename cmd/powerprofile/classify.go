package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/360coachinglab/powerprofile-app/athlete"
)

func classifyCmd() *cobra.Command {
	var (
		vo2max   float64
		vlamax   float64
		ftpPerKG float64
		target   string
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify an athlete from VO2max, VLamax and FTP per kg",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fl := cmd.Flags()
			in := athlete.Inputs{
				VO2MaxRel: flagOrNaN(fl, "vo2max", vo2max),
				VLamax:    flagOrNaN(fl, "vlamax", vlamax),
				FTPPerKG:  flagOrNaN(fl, "ftp-per-kg", ftpPerKG),
			}

			t := athlete.Classify(in)
			sugg, err := athlete.Suggestions(t)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Athlete Type: %s\n", t)
			for _, s := range sugg {
				fmt.Fprintf(out, "- %s\n", s)
			}

			if target == "" {
				return nil
			}
			tt, err := athlete.ParseType(target)
			if err != nil {
				return err
			}
			advice, err := athlete.CompareTarget(t, tt, in.VLamax)
			if err != nil {
				return err
			}
			if advice.Matches {
				fmt.Fprintf(out, "Profile matches the %s target.\n", tt)
			} else {
				fmt.Fprintf(out, "Target %s: %s\n", tt, advice.Focus)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&vo2max, "vo2max", 0, "Relative VO2max in ml/min/kg")
	cmd.Flags().Float64Var(&vlamax, "vlamax", 0, "VLamax in mmol/L/s")
	cmd.Flags().Float64Var(&ftpPerKG, "ftp-per-kg", 0, "FTP in W/kg")
	cmd.Flags().StringVar(&target, "target", "", "Target race type")
	return cmd
}

// flagOrNaN treats an unset metric as unknown.
func flagOrNaN(fl *pflag.FlagSet, name string, v float64) float64 {
	if !fl.Changed(name) {
		return math.NaN()
	}
	return v
}
