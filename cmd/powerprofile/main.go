package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/360coachinglab/powerprofile-app/internal/config"
	"github.com/360coachinglab/powerprofile-app/internal/xslog"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "powerprofile: read config: %v\n", err)
		os.Exit(1)
	}
	ctx := xslog.WithLogger(context.Background(), xslog.NewLogger(os.Stderr, cfg.LogLevel))

	if err := fang.Execute(ctx, rootCmd(cfg), fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}

func rootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "powerprofile",
		Short:        "Power-duration profiling from FIT recordings",
		SilenceUsage: true,
	}
	root.AddCommand(
		analyzeCmd(cfg),
		zonesCmd(),
		classifyCmd(),
		coefficientsCmd(cfg),
	)
	return root
}
