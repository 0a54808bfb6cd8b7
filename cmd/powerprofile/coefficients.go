package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/360coachinglab/powerprofile-app/estimate"
	"github.com/360coachinglab/powerprofile-app/internal/config"
)

func coefficientsCmd(cfg config.Config) *cobra.Command {
	var (
		file   string
		asYAML bool
	)

	cmd := &cobra.Command{
		Use:   "coefficients",
		Short: "List the available coefficient sets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.CoefficientsFile = file
			reg, err := cfg.Registry()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asYAML {
				data, err := reg.Marshal()
				if err != nil {
					return fmt.Errorf("marshal coefficients: %w", err)
				}
				_, err = out.Write(data)
				return err
			}
			for _, name := range reg.Names() {
				marker := " "
				if name == estimate.DefaultSetName {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "coefficients", cfg.CoefficientsFile, "YAML file with additional coefficient sets")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Dump every set as YAML")
	return cmd
}
